package hive

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/internal/testutil/hivegen"
	"github.com/joshuapare/hivedigger/pkg/types"
)

func TestLookupKeyNotFoundDepth(t *testing.T) {
	h := open(t, hivegen.Build(lsaTree(format.ListLH)))

	tests := []struct {
		path  string
		name  string
		depth int
	}{
		{`Missing`, "Missing", 1},
		{`CurrentControlSet\Nope`, "Nope", 2},
		{`CurrentControlSet\Control\Lsa\Deeper`, "Deeper", 4},
		{`ControlSet001\Control`, "Control", 2},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := h.LookupPath(tt.path, "JD")
			require.ErrorIs(t, err, types.ErrKeyNotFound)
			var e *types.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.name, e.Name)
			assert.Equal(t, tt.depth, e.Depth)
		})
	}
}

func TestLookupValueNotFound(t *testing.T) {
	h := open(t, hivegen.Build(lsaTree(format.ListLF)))

	_, err := h.LookupPath(`CurrentControlSet\Control\Lsa`, "Skew1")
	require.ErrorIs(t, err, types.ErrValueNotFound)
	var e *types.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Skew1", e.Name)

	// A key without a value list.
	_, err = h.LookupPath(`CurrentControlSet\Control`, "JD")
	require.ErrorIs(t, err, types.ErrValueNotFound)
}

func TestLookupPathForms(t *testing.T) {
	h := open(t, hivegen.Build(lsaTree(format.ListLF)))
	for _, path := range []string{
		`CurrentControlSet\Control\Lsa`,
		`\CurrentControlSet\Control\Lsa\`,
		`currentcontrolset/control/LSA`,
		`ROOT\CurrentControlSet\Control\Lsa`,
		`HKLM\ROOT\CurrentControlSet\Control\Lsa`,
		`HKEY_LOCAL_MACHINE\CurrentControlSet\Control\Lsa`,
	} {
		got, err := h.LookupPath(path, "jd")
		require.NoError(t, err, path)
		assert.Equal(t, []byte{0xAA, 0xBB}, got, path)
	}

	root, err := h.FindKeyPath(`HKLM`)
	require.NoError(t, err)
	assert.Equal(t, "ROOT", root.Name())
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"Control", "Lsa"}, SplitPath(`HKLM\Control\Lsa`))
	assert.Equal(t, []string{"Control", "Lsa"}, SplitPath(`/Control//Lsa/`))
	assert.Equal(t, []string{"HKLMX", "Lsa"}, SplitPath(`HKLMX\Lsa`))
	assert.Empty(t, SplitPath(`hkey_local_machine`))
	assert.Empty(t, SplitPath(``))
	assert.Equal(t, []string{" Lead", "Trail "}, SplitPath(` Lead\Trail `))
}

func TestLookupKeepsSpacesInNames(t *testing.T) {
	h := open(t, hivegen.Build(&hivegen.Key{Name: "ROOT", List: format.ListLH, Keys: []*hivegen.Key{
		{Name: "Key", Values: []*hivegen.Value{{Name: "V", Data: []byte{1}}}},
		{Name: "Key ", Values: []*hivegen.Value{{Name: "V", Data: []byte{2}}}},
	}}))

	got, err := h.LookupPath(`Key `, "V")
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, got)

	got, err = h.LookupPath(`Key`, "V")
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, got)

	_, err = h.LookupPath(` Key`, "V")
	require.ErrorIs(t, err, types.ErrKeyNotFound)
}

func TestNameEncodings(t *testing.T) {
	root := &hivegen.Key{Name: "ROOT", List: format.ListLH, Keys: []*hivegen.Key{
		{Name: "Ünïcødé", UTF16: true, Values: []*hivegen.Value{
			{Name: "Größe", UTF16: true, Data: []byte{1}},
		}},
		{Name: "Café", Values: []*hivegen.Value{
			{Name: "Crème", Data: []byte{2}},
		}},
		{Name: "日本語", Values: []*hivegen.Value{
			{Name: "値", Data: []byte{3}},
		}},
	}}
	h := open(t, hivegen.Build(root))

	tests := []struct {
		path, value string
		want        byte
	}{
		{"Ünïcødé", "Größe", 1},
		{"üNÏCØDÉ", "GRÖSSE", 0},
		{"Café", "Crème", 2},
		{"CAFÉ", "CRÈME", 2},
		{"日本語", "値", 3},
	}
	for _, tt := range tests {
		got, err := h.LookupPath(tt.path, tt.value)
		if tt.want == 0 {
			// Case folding is rune by rune; ß does not fold to SS.
			require.ErrorIs(t, err, types.ErrValueNotFound)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, []byte{tt.want}, got)
	}
}

func TestDefaultValue(t *testing.T) {
	h := open(t, hivegen.Build(&hivegen.Key{Name: "ROOT", Values: []*hivegen.Value{
		{Name: "", Type: types.REG_SZ, Data: hivegen.EncodeUTF16("default")},
		{Name: "Named", Data: []byte{9}},
	}}))

	v, err := h.Value(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "", v.Name())
	assert.Equal(t, types.REG_SZ, v.RegType())

	got, err := h.Lookup(nil, "")
	require.NoError(t, err)
	assert.Equal(t, hivegen.EncodeUTF16("default"), got)
}

func TestLookupIsRepeatable(t *testing.T) {
	h := open(t, hivegen.Build(valueTree(
		&hivegen.Value{Name: "Inline", Data: []byte{1, 2}},
		&hivegen.Value{Name: "Cell", Data: pattern(64, 1)},
		&hivegen.Value{Name: "Big", Data: pattern(2*format.DBChunkSize+3, 2)},
	)))

	for _, name := range []string{"Inline", "Cell", "Big"} {
		first, err := h.LookupPath("Data", name)
		require.NoError(t, err)
		keep := bytes.Clone(first)

		for i := range first {
			first[i] ^= 0xFF
		}
		second, err := h.LookupPath("Data", name)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(keep, second), name)
	}
}

func TestConcurrentLookups(t *testing.T) {
	big := pattern(3*format.DBChunkSize, 5)
	h := open(t, hivegen.Build(&hivegen.Key{Name: "ROOT", List: format.ListRI, Keys: []*hivegen.Key{
		{Name: "A", Values: []*hivegen.Value{{Name: "v", Data: []byte{1}}}},
		{Name: "B", Values: []*hivegen.Value{{Name: "v", Data: pattern(100, 1)}}},
		{Name: "C", Values: []*hivegen.Value{{Name: "v", Data: big}}},
	}}))

	want := map[string][]byte{"A": {1}, "B": pattern(100, 1), "C": big}
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		key := []string{"A", "B", "C"}[i%3]
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := h.Lookup([]string{key}, "v")
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(want[key], got) {
				errs <- assert.AnError
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestNavigationLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h, err := New(hivegen.Build(lsaTree(format.ListLF)), Options{Logger: zap.New(core)})
	require.NoError(t, err)

	_, err = h.LookupPath(`CurrentControlSet\Control\Lsa`, "JD")
	require.NoError(t, err)

	var states []string
	for _, entry := range logs.FilterMessage("navigate").All() {
		states = append(states, entry.ContextMap()["state"].(string))
	}
	assert.Equal(t, []string{
		"base block loaded", "at key node", "at key node", "at key node", "at key node",
		"value found", "data resolved",
	}, states)
}

func TestClassName(t *testing.T) {
	h := open(t, hivegen.Build(&hivegen.Key{Name: "ROOT", Keys: []*hivegen.Key{
		{Name: "JD", Class: "3f2a9c01"},
		{Name: "Plain"},
	}}))

	k, err := h.FindKeyPath("JD")
	require.NoError(t, err)
	raw, err := h.ClassName(k)
	require.NoError(t, err)
	assert.Equal(t, hivegen.EncodeUTF16("3f2a9c01"), raw)
	s, err := h.ClassString(k)
	require.NoError(t, err)
	assert.Equal(t, "3f2a9c01", s)

	k, err = h.FindKeyPath("Plain")
	require.NoError(t, err)
	raw, err = h.ClassName(k)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestSubkeysAndValues(t *testing.T) {
	root := &hivegen.Key{Name: "ROOT", List: format.ListRI, Leaf: format.ListLI, Fanout: 2}
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		root.Keys = append(root.Keys, &hivegen.Key{Name: n})
	}
	root.Values = []*hivegen.Value{{Name: "x", Data: []byte{1}}, {Name: "y", Data: []byte{2}}}
	h := open(t, hivegen.Build(root))

	r, err := h.Root()
	require.NoError(t, err)
	keys, err := h.Subkeys(r)
	require.NoError(t, err)
	var names []string
	for _, k := range keys {
		names = append(names, k.Name())
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names)

	values, err := h.Values(r)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "x", values[0].Name())
	assert.Equal(t, "y", values[1].Name())

	leaf, err := h.FindKeyPath("a")
	require.NoError(t, err)
	keys, err = h.Subkeys(leaf)
	require.NoError(t, err)
	assert.Empty(t, keys)
	values, err = h.Values(leaf)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestCensus(t *testing.T) {
	h := open(t, hivegen.Build(lsaTree(format.ListLH)))
	c, err := h.Census()
	require.NoError(t, err)

	assert.Equal(t, 1, c.Bins)
	assert.Equal(t, 4096, c.BinBytes)
	assert.Equal(t, 8, c.Records["nk"])
	assert.Equal(t, 1, c.Records["vk"])
	assert.Equal(t, 3, c.Records["lh"])
	assert.Equal(t, 1, c.Records["data"])
	assert.Equal(t, 1, c.FreeCells)
	assert.Equal(t, c.BinBytes-format.HBINHeaderSize, c.AllocatedBytes+c.FreeBytes)
}

func TestCensusStopsAtBadCell(t *testing.T) {
	b := hivegen.NewBuilder()
	root := b.Tree(&hivegen.Key{Name: "ROOT"})
	b.RawCell(0, nil, 8)
	h := open(t, b.Bytes(root))

	c, err := h.Census()
	require.Error(t, err)
	assert.True(t, types.IsCorrupt(err))
	assert.Equal(t, 1, c.Records["nk"])
}

func TestOpen(t *testing.T) {
	data := hivegen.Build(lsaTree(format.ListLF))
	path := filepath.Join(t.TempDir(), "SYSTEM")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	h, err := Open(path, Options{})
	require.NoError(t, err)
	got, err := h.LookupPath(`CurrentControlSet\Control\Lsa`, "JD")
	require.NoError(t, err)
	require.NoError(t, h.Close())
	assert.Equal(t, []byte{0xAA, 0xBB}, got)
}

func TestOpenRejectsNonHive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 8192), 0o600))

	_, err := Open(path, Options{})
	require.ErrorIs(t, err, types.ErrBadSignature)

	_, err = Open(filepath.Join(t.TempDir(), "missing"), Options{})
	require.Error(t, err)
	assert.False(t, types.IsCorrupt(err))
}
