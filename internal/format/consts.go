// Package format holds the field-by-field decoders for the on-disk records of
// a registry hive. Every decoder takes a cell payload (the bytes after the
// 4-byte size field) and reads little-endian integers at fixed offsets. No
// decoder knows where its payload sits in the file; the hive package attaches
// file positions to any error returned from here.
package format

var (
	// REGFSignature is the four-byte signature at the start of every hive file.
	REGFSignature = []byte{'r', 'e', 'g', 'f'}

	// HBINSignature is the four-byte signature at the beginning of each hive bin.
	HBINSignature = []byte{'h', 'b', 'i', 'n'}

	NKSignature = []byte{'n', 'k'}
	VKSignature = []byte{'v', 'k'}
	DBSignature = []byte{'d', 'b'}

	// LI/LF/LH lists point at key nodes; RI lists point at other lists.
	LISignature = []byte{'l', 'i'}
	LFSignature = []byte{'l', 'f'}
	LHSignature = []byte{'l', 'h'}
	RISignature = []byte{'r', 'i'}
)

const (
	// HeaderSize is the size of the base block. Cell offsets are relative to
	// the first byte after it.
	HeaderSize = 4096

	// HiveDataBase is where the first hive bin starts.
	HiveDataBase = 0x1000

	// HBINHeaderSize is the size of the HBIN header in bytes.
	HBINHeaderSize = 0x20

	// HBINAlignment is the granularity of hive bin sizes.
	HBINAlignment = 0x1000

	// CellHeaderSize is the signed size field preceding every cell.
	CellHeaderSize = 4

	// CellAlignment is the granularity of cell sizes within a bin.
	CellAlignment = 8

	// InvalidOffset marks an absent cell reference.
	InvalidOffset = 0xFFFFFFFF

	// SignatureSize is the size of every two-letter record tag.
	SignatureSize = 2

	// OffsetFieldSize is the size of a cell reference.
	OffsetFieldSize = 4
)

// Base block field offsets.
const (
	REGFSignatureSize      = 4
	REGFPrimarySeqOffset   = 0x004
	REGFSecondarySeqOffset = 0x008
	REGFTimeStampOffset    = 0x00C
	REGFMajorVersionOffset = 0x014
	REGFMinorVersionOffset = 0x018
	REGFTypeOffset         = 0x01C
	REGFFormatOffset       = 0x020
	REGFRootCellOffset     = 0x024
	REGFDataSizeOffset     = 0x028
	REGFClusterOffset      = 0x02C
	REGFFileNameOffset     = 0x030
	REGFFileNameSize       = 64
	REGFCheckSumOffset     = 0x1FC

	// REGFChecksumRegionLen covers the 127 dwords before the checksum field.
	REGFChecksumRegionLen = 508

	// REGFFormatDirectMemoryLoad is the only format value a loader accepts.
	REGFFormatDirectMemoryLoad = 1

	// REGFBigDataMinorVersion is the last minor version without db records.
	REGFBigDataMinorVersion = 3
)

// HBIN header field offsets.
const (
	HBINFileOffsetField = 0x04
	HBINSizeOffset      = 0x08
)

// NK field offsets within the payload.
const (
	NKFlagsOffset       = 0x02
	NKLastWriteOffset   = 0x04
	NKParentOffset      = 0x10
	NKSubkeyCountOffset = 0x14
	NKSubkeyListOffset  = 0x1C
	NKValueCountOffset  = 0x24
	NKValueListOffset   = 0x28
	NKSecurityOffset    = 0x2C
	NKClassNameOffset   = 0x30
	NKNameLenOffset     = 0x48
	NKClassLenOffset    = 0x4A
	NKNameOffset        = 0x4C

	// NKFixedHeaderSize is everything before the inline name.
	NKFixedHeaderSize = NKNameOffset

	// NKFlagCompressedName marks a name stored as one byte per character.
	NKFlagCompressedName = 0x0020
	// NKFlagRoot marks the hive root key.
	NKFlagRoot = 0x0004
)

// VK field offsets within the payload.
const (
	VKNameLenOffset = 0x02
	VKDataLenOffset = 0x04
	VKDataOffOffset = 0x08
	VKTypeOffset    = 0x0C
	VKFlagsOffset   = 0x10
	VKNameOffset    = 0x14

	VKFixedHeaderSize = VKNameOffset

	// VKFlagASCIIName marks a name stored as one byte per character.
	VKFlagASCIIName = 0x0001

	// VKDataInlineBit is the high bit of the data length: data lives in the
	// offset field itself.
	VKDataInlineBit  = 0x80000000
	VKDataLengthMask = 0x7FFFFFFF

	// VKInlineMax is the size of the offset field that holds inline data.
	VKInlineMax = 4
)

// Subkey list layout. Every variant starts with tag + u16 count.
const (
	IdxCountOffset = 0x02
	IdxListOffset  = 0x04

	// ListHeaderSize is the tag plus the entry count.
	ListHeaderSize = IdxListOffset

	// LIEntrySize is a bare cell reference (li, ri).
	LIEntrySize = 4
	// LFEntrySize is a cell reference followed by a hint or hash (lf, lh).
	LFEntrySize = 8
	// LFHintSize is the number of name bytes kept in an lf hint.
	LFHintSize = 4
)

// DB record layout.
const (
	DBCountOffset = 0x02
	DBListOffset  = 0x04
	DBHeaderSize  = 0x0C

	// DBChunkSize is the data Windows stores in each big-data segment. The
	// segment cells are a little larger; the tail is padding.
	DBChunkSize = 16344

	// DBSegmentSize is the payload size of a full segment cell. Decoders that
	// are not told otherwise take this many bytes from every segment.
	DBSegmentSize = 16384
)
