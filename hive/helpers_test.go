package hive

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/internal/testutil/hivegen"
)

func open(t *testing.T, data []byte) *Hive {
	t.Helper()
	return openWith(t, data, Options{})
}

func openWith(t *testing.T, data []byte, opts Options) *Hive {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	h, err := New(data, opts)
	require.NoError(t, err)
	return h
}

// lsaTree is the shape of a SYSTEM hive down to the syskey parts.
func lsaTree(kind format.ListKind) *hivegen.Key {
	return &hivegen.Key{
		Name: "ROOT",
		List: kind,
		Keys: []*hivegen.Key{
			{Name: "ControlSet001"},
			{Name: "CurrentControlSet", List: kind, Keys: []*hivegen.Key{
				{Name: "Control", List: kind, Keys: []*hivegen.Key{
					{Name: "Lsa", Values: []*hivegen.Value{
						{Name: "JD", Data: []byte{0xAA, 0xBB}},
					}},
					{Name: "Session Manager"},
				}},
				{Name: "Services"},
			}},
			{Name: "Select"},
		},
	}
}

// rootWithList lays out a root key whose subkey list is built by list.
func rootWithList(b *hivegen.Builder, list uint32, count uint32) []byte {
	root := b.Cell(hivegen.NK{
		Name:        "ROOT",
		Flags:       format.NKFlagRoot,
		Parent:      format.InvalidOffset,
		SubkeyCount: count,
		SubkeyList:  list,
		ValueList:   format.InvalidOffset,
		Class:       format.InvalidOffset,
	}.Payload())
	return b.Bytes(root)
}

func leafKey(b *hivegen.Builder, name string) uint32 {
	return b.Cell(hivegen.NK{
		Name:       name,
		SubkeyList: format.InvalidOffset,
		ValueList:  format.InvalidOffset,
		Class:      format.InvalidOffset,
	}.Payload())
}
