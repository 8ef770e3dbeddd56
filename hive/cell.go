package hive

import (
	"fmt"

	"github.com/joshuapare/hivedigger/internal/buf"
	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// CellSpan is a resolved cell: its offset, where its payload starts in the
// file, and the payload bytes (the size field excluded).
type CellSpan struct {
	Rel       uint32 // offset relative to the first hive bin
	Pos       int    // absolute position of the size field
	Size      int    // abs(size field), header included
	Allocated bool
	Data      []byte
}

// PayloadPos returns the absolute position of the first payload byte.
func (c CellSpan) PayloadPos() int { return c.Pos + format.CellHeaderSize }

// ResolveCell translates a cell offset into a span over v. It is the only
// place in the package that turns an offset into a file position.
//
// Free cells resolve like allocated ones; Allocated reports which it is.
func ResolveCell(v buf.View, rel uint32) (CellSpan, error) {
	pos, ok := buf.AddOverflowSafe(format.HiveDataBase, int(rel))
	if !ok || pos > v.Len()-format.CellHeaderSize {
		e := types.New(types.ErrOutOfBounds, "cell header")
		e.Offset = pos
		e.Expected = fmt.Sprintf("position <= %d", v.Len()-format.CellHeaderSize)
		e.Actual = fmt.Sprintf("offset 0x%X", rel)
		return CellSpan{}, e
	}
	raw, err := v.I32(pos)
	if err != nil {
		return CellSpan{}, err
	}
	size := int(raw)
	if size < 0 {
		size = -size
	}
	if size < format.CellHeaderSize {
		e := types.New(types.ErrInvalidCellSize, "cell size")
		e.Offset = pos
		e.Expected = fmt.Sprintf("abs(size) >= %d", format.CellHeaderSize)
		e.Actual = fmt.Sprint(raw)
		return CellSpan{}, e
	}
	end, ok := buf.AddOverflowSafe(pos, size)
	if !ok || end > v.Len() {
		e := types.New(types.ErrOutOfBounds, "cell extent")
		e.Offset = pos
		e.Expected = fmt.Sprintf("end <= %d", v.Len())
		e.Actual = fmt.Sprintf("end %d (size %d)", pos+size, size)
		return CellSpan{}, e
	}
	data, err := v.Read(pos+format.CellHeaderSize, size-format.CellHeaderSize)
	if err != nil {
		return CellSpan{}, err
	}
	return CellSpan{Rel: rel, Pos: pos, Size: size, Allocated: raw < 0, Data: data}, nil
}

// Cell resolves rel against the hive. On top of ResolveCell, the cell must
// lie inside the cell area of a single hive bin.
func (h *Hive) Cell(rel uint32) (CellSpan, error) {
	span, err := ResolveCell(h.view, rel)
	if err != nil {
		return CellSpan{}, err
	}
	if err := h.checkInBin(span); err != nil {
		return CellSpan{}, err
	}
	return span, nil
}
