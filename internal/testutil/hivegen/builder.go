// Package hivegen assembles small synthetic hives for tests. A Builder lays
// cells out back to back in one hive bin; Build turns a Key tree into a
// complete file image.
package hivegen

import (
	"github.com/joshuapare/hivedigger/internal/format"
)

// Builder accumulates cells. Offsets it returns are relative to the first
// hive bin, the same space every on-disk reference uses.
type Builder struct {
	body []byte

	// Minor is written to the base block; big data needs > 3.
	Minor uint32
	// Format is written to the base block; 1 is the only accepted value.
	Format uint32
}

// NewBuilder returns a Builder for a version 1.5 hive.
func NewBuilder() *Builder {
	return &Builder{
		body:   make([]byte, format.HBINHeaderSize),
		Minor:  5,
		Format: format.REGFFormatDirectMemoryLoad,
	}
}

// Cell appends an allocated cell holding payload and returns its offset.
func (b *Builder) Cell(payload []byte) uint32 {
	size := format.Align8(format.CellHeaderSize + len(payload))
	return b.RawCell(int32(-size), payload, size)
}

// RawCell appends a cell whose size field is written verbatim. The cell
// occupies at least span bytes, header included.
func (b *Builder) RawCell(sizeField int32, payload []byte, span int) uint32 {
	off := len(b.body)
	span = format.Align8(max(span, format.CellHeaderSize+len(payload)))
	cell := make([]byte, span)
	format.PutI32(cell, 0, sizeField)
	copy(cell[format.CellHeaderSize:], payload)
	b.body = append(b.body, cell...)
	return uint32(off)
}

// PatchU32 overwrites a 32-bit field at payload offset field of the cell at off.
func (b *Builder) PatchU32(off uint32, field int, v uint32) {
	format.PutU32(b.body, int(off)+format.CellHeaderSize+field, v)
}

// Bytes returns the finished file image with root as the root cell offset.
// The bin is padded to a 4 KiB multiple with a trailing free cell.
func (b *Builder) Bytes(root uint32) []byte {
	binSize := format.AlignHBIN(len(b.body))
	bin := make([]byte, binSize)
	copy(bin, b.body)
	copy(bin, format.HBINSignature)
	format.PutU32(bin, format.HBINFileOffsetField, 0)
	format.PutU32(bin, format.HBINSizeOffset, uint32(binSize))
	if tail := binSize - len(b.body); tail > 0 {
		format.PutI32(bin, len(b.body), int32(tail))
	}

	out := make([]byte, format.HeaderSize+binSize)
	copy(out, format.REGFSignature)
	format.PutU32(out, format.REGFPrimarySeqOffset, 1)
	format.PutU32(out, format.REGFSecondarySeqOffset, 1)
	format.PutU32(out, format.REGFMajorVersionOffset, 1)
	format.PutU32(out, format.REGFMinorVersionOffset, b.Minor)
	format.PutU32(out, format.REGFFormatOffset, b.Format)
	format.PutU32(out, format.REGFRootCellOffset, root)
	format.PutU32(out, format.REGFDataSizeOffset, uint32(binSize))
	format.PutU32(out, format.REGFClusterOffset, 1)
	copy(out[format.REGFFileNameOffset:], EncodeUTF16(`\SystemRoot\System32\Config\SYSTEM`)[:format.REGFFileNameSize])
	format.PutU32(out, format.REGFCheckSumOffset, format.Checksum(out))
	copy(out[format.HeaderSize:], bin)
	return out
}
