package hive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivedigger/internal/buf"
	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/internal/testutil/hivegen"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// fileWithCell returns a file of HeaderSize+tail bytes with a size field
// written at cell offset rel.
func fileWithCell(tail int, rel uint32, size int32) []byte {
	b := make([]byte, format.HeaderSize+tail)
	format.PutI32(b, format.HiveDataBase+int(rel), size)
	return b
}

func TestResolveCell(t *testing.T) {
	data := fileWithCell(0x100, 0x20, -16)
	copy(data[format.HiveDataBase+0x24:], "nk")

	span, err := ResolveCell(buf.NewView(data), 0x20)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x20), span.Rel)
	assert.Equal(t, format.HiveDataBase+0x20, span.Pos)
	assert.Equal(t, 16, span.Size)
	assert.True(t, span.Allocated)
	assert.Len(t, span.Data, 12)
	assert.Equal(t, "nk", string(span.Data[:2]))
}

func TestResolveCellFree(t *testing.T) {
	data := fileWithCell(0x100, 0x20, 24)
	span, err := ResolveCell(buf.NewView(data), 0x20)
	require.NoError(t, err)
	assert.False(t, span.Allocated)
	assert.Len(t, span.Data, 20)
}

func TestResolveCellBoundary(t *testing.T) {
	// The cell at 0x20 runs to exactly the end of a 0x40-byte body when its
	// size is 0x20.
	const tail = 0x40
	tests := []struct {
		name string
		size int32
		ok   bool
	}{
		{"one byte under the limit", -(0x20 - 1), true},
		{"exactly at the limit", -0x20, true},
		{"one byte past the limit", -(0x20 + 1), false},
		{"free cell past the limit", 0x21, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveCell(buf.NewView(fileWithCell(tail, 0x20, tt.size)), 0x20)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, types.ErrOutOfBounds)
			var e *types.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, format.HiveDataBase+0x20, e.Offset)
		})
	}
}

func TestResolveCellInvalidSize(t *testing.T) {
	for _, size := range []int32{0, -2, 3, -3} {
		_, err := ResolveCell(buf.NewView(fileWithCell(0x40, 0x20, size)), 0x20)
		require.ErrorIs(t, err, types.ErrInvalidCellSize, "size %d", size)
		assert.True(t, types.IsCorrupt(err))
	}
}

func TestResolveCellOffsetOutsideFile(t *testing.T) {
	v := buf.NewView(fileWithCell(0x40, 0x20, -8))
	for _, rel := range []uint32{0x3D, 0x40, 0x1000, format.InvalidOffset} {
		_, err := ResolveCell(v, rel)
		require.ErrorIs(t, err, types.ErrOutOfBounds, "rel 0x%X", rel)
	}
}

func TestResolveCellHugeNegativeSize(t *testing.T) {
	_, err := ResolveCell(buf.NewView(fileWithCell(0x40, 0x20, -0x80000000)), 0x20)
	require.ErrorIs(t, err, types.ErrOutOfBounds)
}

// appendBin adds an empty hive bin of one page to the end of data.
func appendBin(data []byte) []byte {
	bin := make([]byte, format.HBINAlignment)
	copy(bin, format.HBINSignature)
	format.PutU32(bin, format.HBINFileOffsetField, uint32(len(data)-format.HeaderSize))
	format.PutU32(bin, format.HBINSizeOffset, format.HBINAlignment)
	format.PutI32(bin, format.HBINHeaderSize, format.HBINAlignment-format.HBINHeaderSize)
	return append(data, bin...)
}

func TestCellCrossingIntoNextBin(t *testing.T) {
	b := hivegen.NewBuilder()
	// The size field claims a whole page, running past the end of the first
	// bin into the next one, which keeps it inside the file.
	wide := b.RawCell(-format.HBINAlignment, []byte("payload!"), 16)
	vk := b.Cell(hivegen.VK{Name: "Wide", DataLen: 8, DataOff: wide}.Payload())
	data := appendBin(withValue(b, vk))

	_, err := ResolveCell(buf.NewView(data), wide)
	require.NoError(t, err)

	h := open(t, data)
	_, err = h.Cell(wide)
	require.ErrorIs(t, err, types.ErrOutOfBounds)
	var e *types.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, format.HiveDataBase+int(wide), e.Offset)

	_, err = h.Lookup(nil, "Wide")
	require.ErrorIs(t, err, types.ErrOutOfBounds)
}

func TestCellInsideBinHeader(t *testing.T) {
	data := hivegen.Build(&hivegen.Key{Name: "ROOT"})
	format.PutI32(data, format.HiveDataBase+0x10, -8)

	_, err := ResolveCell(buf.NewView(data), 0x10)
	require.NoError(t, err)

	_, err = open(t, data).Cell(0x10)
	require.ErrorIs(t, err, types.ErrOutOfBounds)
}
