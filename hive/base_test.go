package hive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/internal/testutil/hivegen"
	"github.com/joshuapare/hivedigger/pkg/types"
)

func TestNewDecodesBaseBlock(t *testing.T) {
	data := hivegen.Build(lsaTree(format.ListLF))
	h := open(t, data)

	base := h.BaseBlock()
	assert.Equal(t, "1.5", base.Version())
	assert.True(t, base.ChecksumOK())
	assert.True(t, base.IsClean())
	assert.Equal(t, `\SystemRoot\System32\Config\SYSTEM`, base.FileName())
	assert.Equal(t, len(data), h.Size())
	require.NoError(t, base.Validate(len(data)))

	root, err := h.Root()
	require.NoError(t, err)
	assert.Equal(t, "ROOT", root.Name())
}

func TestNewRejectsSignature(t *testing.T) {
	data := hivegen.Build(lsaTree(format.ListLF))
	copy(data, "regX")

	_, err := New(data, Options{})
	require.ErrorIs(t, err, types.ErrBadSignature)
	kind, ok := types.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrKindFormat, kind)
}

func TestNewRejectsFormat(t *testing.T) {
	b := hivegen.NewBuilder()
	b.Format = 2
	data := b.Bytes(b.Tree(&hivegen.Key{Name: "ROOT"}))

	_, err := New(data, Options{})
	require.ErrorIs(t, err, types.ErrUnsupportedFormat)
}

func TestNewRejectsShortFile(t *testing.T) {
	data := hivegen.Build(&hivegen.Key{Name: "ROOT"})
	_, err := New(data[:format.HeaderSize-1], Options{})
	require.ErrorIs(t, err, types.ErrBounds)
}

func TestChecksumIsAdvisory(t *testing.T) {
	data := hivegen.Build(lsaTree(format.ListLF))
	format.PutU32(data, format.REGFCheckSumOffset, 0xDEADBEEF)

	h := open(t, data)
	assert.False(t, h.BaseBlock().ChecksumOK())

	got, err := h.LookupPath(`CurrentControlSet\Control\Lsa`, "JD")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB}, got)

	err = h.BaseBlock().Validate(len(data))
	require.ErrorIs(t, err, types.ErrBadChecksum)
	var e *types.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "0xDEADBEEF", e.Actual)
}

func TestValidateExtent(t *testing.T) {
	data := hivegen.Build(&hivegen.Key{Name: "ROOT"})
	h := open(t, data)
	err := h.BaseBlock().Validate(len(data) - 1)
	require.ErrorIs(t, err, types.ErrOutOfBounds)
}

func TestValidateRootOutsideBins(t *testing.T) {
	b := hivegen.NewBuilder()
	b.Tree(&hivegen.Key{Name: "ROOT"})
	data := b.Bytes(0x10000)
	h := open(t, data)

	err := h.BaseBlock().Validate(len(data))
	require.ErrorIs(t, err, types.ErrOutOfBounds)

	_, err = h.Root()
	require.ErrorIs(t, err, types.ErrOutOfBounds)
}

func TestCloseWithoutMapping(t *testing.T) {
	h := open(t, hivegen.Build(&hivegen.Key{Name: "ROOT"}))
	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
}
