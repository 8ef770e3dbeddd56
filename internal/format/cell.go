package format

import (
	"fmt"

	"github.com/joshuapare/hivedigger/internal/buf"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// Cell is one allocation inside a hive bin, found by walking the bin.
//
//	Offset  Size  Description
//	0x00    4     Signed size. Negative => allocated, positive => free.
//	              The absolute value includes the 4-byte header.
//	0x04    ...   Payload. The first two bytes are the record tag.
type Cell struct {
	Offset int // absolute position of the size field
	Size   int
	Free   bool
	Tag    [SignatureSize]byte
}

// NextCell decodes the cell at absolute position off inside bin h and returns
// it with the position of the next cell.
func NextCell(b []byte, h HBIN, off int) (Cell, int, error) {
	binEnd := h.FileOffset + h.Size
	if off < h.FileOffset+HBINHeaderSize || off+CellHeaderSize > binEnd || off+CellHeaderSize > len(b) {
		e := types.New(types.ErrOutOfBounds, "cell header outside hbin")
		e.Offset = off
		return Cell{}, 0, e
	}
	raw := buf.I32LE(b[off:])
	size := int(raw)
	if size < 0 {
		size = -size
	}
	if size < CellHeaderSize {
		e := types.New(types.ErrInvalidCellSize, "cell size")
		e.Offset = off
		e.Expected = fmt.Sprintf(">= %d", CellHeaderSize)
		e.Actual = fmt.Sprint(raw)
		return Cell{}, 0, e
	}
	next := off + size
	if next > binEnd {
		e := types.New(types.ErrOutOfBounds, "cell extent outside hbin")
		e.Offset = off
		e.Expected = fmt.Sprintf("end <= %d", binEnd)
		e.Actual = fmt.Sprintf("end %d", next)
		return Cell{}, 0, e
	}
	c := Cell{Offset: off, Size: size, Free: raw > 0}
	if size >= CellHeaderSize+SignatureSize {
		c.Tag = [SignatureSize]byte{b[off+CellHeaderSize], b[off+CellHeaderSize+1]}
	}
	return c, next, nil
}
