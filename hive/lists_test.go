package hive

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/internal/testutil/hivegen"
	"github.com/joshuapare/hivedigger/pkg/types"
)

func TestResolveChildVariants(t *testing.T) {
	for _, kind := range []format.ListKind{format.ListLI, format.ListLF, format.ListLH, format.ListRI} {
		t.Run(kind.String(), func(t *testing.T) {
			h := open(t, hivegen.Build(lsaTree(kind)))
			root, err := h.Root()
			require.NoError(t, err)

			list, err := h.SubkeyList(root.SubkeyListOffset)
			require.NoError(t, err)
			assert.Equal(t, kind, list.Kind())

			for _, name := range []string{"ControlSet001", "CurrentControlSet", "Select", "select", "SELECT"} {
				off, err := list.ResolveChild(h, name)
				require.NoError(t, err, name)
				nk, err := h.KeyNode(off)
				require.NoError(t, err)
				assert.True(t, nk.NameEquals(name))
			}

			_, err = list.ResolveChild(h, "Absent")
			require.ErrorIs(t, err, types.ErrKeyNotFound)
			assert.True(t, types.IsNotFound(err))
		})
	}
}

func TestResolveChildPrefixIsNotAMatch(t *testing.T) {
	// "Sel" and "Select" share an lf hint but differ by name.
	h := open(t, hivegen.Build(&hivegen.Key{Name: "ROOT", Keys: []*hivegen.Key{
		{Name: "Select"}, {Name: "Sele"},
	}}))
	root, err := h.Root()
	require.NoError(t, err)

	off, err := h.ResolveChild(root.SubkeyListOffset, "Sele")
	require.NoError(t, err)
	nk, err := h.KeyNode(off)
	require.NoError(t, err)
	assert.Equal(t, "Sele", nk.Name())

	_, err = h.ResolveChild(root.SubkeyListOffset, "Sel")
	require.ErrorIs(t, err, types.ErrKeyNotFound)
}

func TestResolveChildUnknownTag(t *testing.T) {
	b := hivegen.NewBuilder()
	child := leafKey(b, "Lsa")
	payload := hivegen.ListPayload(format.ListLI, []hivegen.Entry{{Offset: child}})
	copy(payload, "zz")
	list := b.Cell(payload)
	h := open(t, rootWithList(b, list, 1))

	_, err := h.FindKeyPath("Lsa")
	require.ErrorIs(t, err, types.ErrUnknownListTag)
	var e *types.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, format.HiveDataBase+int(list)+format.CellHeaderSize, e.Offset)
}

func TestFastLeafStaleHint(t *testing.T) {
	b := hivegen.NewBuilder()
	child := leafKey(b, "Lsa")
	list := b.Cell(hivegen.ListPayload(format.ListLF, []hivegen.Entry{
		{Offset: child, Tag: hivegen.HintTag("Xyz")},
	}))
	data := rootWithList(b, list, 1)

	strict := open(t, data)
	_, err := strict.ResolveChild(list, "Lsa")
	require.ErrorIs(t, err, types.ErrKeyNotFound)

	lenient := openWith(t, data, Options{HintFallback: true})
	off, err := lenient.ResolveChild(list, "Lsa")
	require.NoError(t, err)
	assert.Equal(t, child, off)
}

func TestHashLeafCollision(t *testing.T) {
	b := hivegen.NewBuilder()
	other := leafKey(b, "Skew1")
	want := leafKey(b, "Lsa")
	hash := format.NameHash("Lsa")
	list := b.Cell(hivegen.ListPayload(format.ListLH, []hivegen.Entry{
		{Offset: other, Tag: hash},
		{Offset: want, Tag: hash},
	}))
	h := open(t, rootWithList(b, list, 2))

	off, err := h.ResolveChild(list, "lsa")
	require.NoError(t, err)
	assert.Equal(t, want, off)
}

func TestHashLeafLiteralHash(t *testing.T) {
	b := hivegen.NewBuilder()
	child := leafKey(b, "Lsa")
	list := b.Cell(hivegen.ListPayload(format.ListLH, []hivegen.Entry{
		{Offset: child, Tag: 0x0001A2AC},
	}))
	h := open(t, rootWithList(b, list, 1))

	off, err := h.ResolveChild(list, "LSA")
	require.NoError(t, err)
	assert.Equal(t, child, off)
}

func TestHashLeafStaleHash(t *testing.T) {
	b := hivegen.NewBuilder()
	child := leafKey(b, "Lsa")
	list := b.Cell(hivegen.ListPayload(format.ListLH, []hivegen.Entry{
		{Offset: child, Tag: 0x12345678},
	}))
	data := rootWithList(b, list, 1)

	_, err := open(t, data).ResolveChild(list, "Lsa")
	require.ErrorIs(t, err, types.ErrKeyNotFound)

	off, err := openWith(t, data, Options{HintFallback: true}).ResolveChild(list, "Lsa")
	require.NoError(t, err)
	assert.Equal(t, child, off)
}

func TestIndexLeafChildOutOfBounds(t *testing.T) {
	b := hivegen.NewBuilder()
	list := b.Cell(hivegen.ListPayload(format.ListLI, []hivegen.Entry{{Offset: 0x7FFFFF00}}))
	h := open(t, rootWithList(b, list, 1))

	_, err := h.ResolveChild(list, "Lsa")
	require.ErrorIs(t, err, types.ErrOutOfBounds)
	assert.True(t, types.IsCorrupt(err))
}

func TestIndexRootSkipsBadLeaf(t *testing.T) {
	b := hivegen.NewBuilder()
	child := leafKey(b, "Lsa")
	good := b.Cell(hivegen.ListPayload(format.ListLH, []hivegen.Entry{
		{Offset: child, Tag: format.NameHash("Lsa")},
	}))
	ri := b.Cell(hivegen.ListPayload(format.ListRI, []hivegen.Entry{
		{Offset: 0x7FFFFF00},
		{Offset: good},
	}))
	h := open(t, rootWithList(b, ri, 1))

	off, err := h.ResolveChild(ri, "Lsa")
	require.NoError(t, err)
	assert.Equal(t, child, off)
}

func TestIndexRootReportsFirstLeafError(t *testing.T) {
	b := hivegen.NewBuilder()
	child := leafKey(b, "JD")
	good := b.Cell(hivegen.ListPayload(format.ListLH, []hivegen.Entry{
		{Offset: child, Tag: format.NameHash("JD")},
	}))
	ri := b.Cell(hivegen.ListPayload(format.ListRI, []hivegen.Entry{
		{Offset: good},
		{Offset: 0x7FFFFF00},
		{Offset: 0x7FFFFF80},
	}))
	h := open(t, rootWithList(b, ri, 1))

	_, err := h.ResolveChild(ri, "Lsa")
	require.ErrorIs(t, err, types.ErrOutOfBounds)
	assert.False(t, types.IsNotFound(err))
	var e *types.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, format.HiveDataBase+0x7FFFFF00, e.Offset)
}

func TestIndexRootFormatErrorAborts(t *testing.T) {
	b := hivegen.NewBuilder()
	child := leafKey(b, "Lsa")
	bad := hivegen.ListPayload(format.ListLH, nil)
	copy(bad, "zz")
	badOff := b.Cell(bad)
	good := b.Cell(hivegen.ListPayload(format.ListLH, []hivegen.Entry{
		{Offset: child, Tag: format.NameHash("Lsa")},
	}))
	ri := b.Cell(hivegen.ListPayload(format.ListRI, []hivegen.Entry{
		{Offset: badOff},
		{Offset: good},
	}))
	h := open(t, rootWithList(b, ri, 1))

	_, err := h.ResolveChild(ri, "Lsa")
	require.ErrorIs(t, err, types.ErrUnknownListTag)
}

func TestIndexRootRejectsNestedRoot(t *testing.T) {
	b := hivegen.NewBuilder()
	child := leafKey(b, "Lsa")
	leafList := b.Cell(hivegen.ListPayload(format.ListLI, []hivegen.Entry{{Offset: child}}))
	inner := b.Cell(hivegen.ListPayload(format.ListRI, []hivegen.Entry{{Offset: leafList}}))
	outer := b.Cell(hivegen.ListPayload(format.ListRI, []hivegen.Entry{{Offset: inner}}))
	h := open(t, rootWithList(b, outer, 1))

	_, err := h.ResolveChild(outer, "Lsa")
	require.ErrorIs(t, err, types.ErrUnknownListTag)

	root, err := h.Root()
	require.NoError(t, err)
	_, err = h.Subkeys(root)
	require.ErrorIs(t, err, types.ErrUnknownListTag)
}

func TestIndexRootManyLeaves(t *testing.T) {
	root := &hivegen.Key{Name: "ROOT", List: format.ListRI, Leaf: format.ListLF, Fanout: 3}
	for i := 0; i < 20; i++ {
		root.Keys = append(root.Keys, &hivegen.Key{Name: fmt.Sprintf("ControlSet%03d", i)})
	}
	h := open(t, hivegen.Build(root))

	for i := 0; i < 20; i++ {
		k, err := h.FindKeyPath(fmt.Sprintf("controlset%03d", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ControlSet%03d", i), k.Name())
	}
	_, err := h.FindKeyPath("ControlSet020")
	require.ErrorIs(t, err, types.ErrKeyNotFound)
}
