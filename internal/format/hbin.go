package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivedigger/internal/buf"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// HBIN describes a hive bin header. Each bin starts with a 0x20-byte header:
//
//	Offset  Size  Field
//	0x00    4     'h' 'b' 'i' 'n'
//	0x04    4     Offset of this bin relative to the first bin
//	0x08    4     Size of the bin, a multiple of 0x1000
//	0x0C   20     Reserved, timestamp, spare
type HBIN struct {
	FileOffset int // absolute position in the file
	RelOffset  uint32
	Size       int
}

// NextHBIN validates the bin header at absolute position off and returns it
// with the position of the following bin.
func NextHBIN(b []byte, off int) (HBIN, int, error) {
	head, ok := buf.Slice(b, off, HBINHeaderSize)
	if !ok {
		e := types.New(types.ErrOutOfBounds, "hbin header")
		e.Offset = off
		return HBIN{}, 0, e
	}
	if !bytes.Equal(head[:4], HBINSignature) {
		e := types.New(types.ErrBadNodeSignature, "hbin")
		e.Offset = off
		e.Expected = fmt.Sprintf("%q", HBINSignature)
		e.Actual = fmt.Sprintf("%q", head[:4])
		return HBIN{}, 0, e
	}
	size := int(buf.U32LE(head[HBINSizeOffset:]))
	if size < HBINAlignment || size%HBINAlignment != 0 {
		e := types.New(types.ErrInvalidCellSize, "hbin size")
		e.Offset = off
		e.Expected = "non-zero multiple of 0x1000"
		e.Actual = fmt.Sprintf("0x%X", size)
		return HBIN{}, 0, e
	}
	next, ok := buf.AddOverflowSafe(off, size)
	if !ok || next > len(b) {
		e := types.New(types.ErrOutOfBounds, "hbin extent")
		e.Offset = off
		e.Expected = fmt.Sprintf("end <= %d", len(b))
		e.Actual = fmt.Sprintf("end %d", off+size)
		return HBIN{}, 0, e
	}
	return HBIN{FileOffset: off, RelOffset: buf.U32LE(head[HBINFileOffsetField:]), Size: size}, next, nil
}
