package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivedigger/internal/buf"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// Header is the decoded base block. Only the fields a reader needs are kept.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x000   4    'r' 'e' 'g' 'f'
//	 0x004   4    Primary sequence number
//	 0x008   4    Secondary sequence number
//	 0x00C   8    Last write timestamp (FILETIME)
//	 0x014   4    Major version
//	 0x018   4    Minor version
//	 0x01C   4    File type (0 = primary)
//	 0x020   4    Format (1 = direct memory load)
//	 0x024   4    Root cell offset, relative to the first hive bin
//	 0x028   4    Total size of hive bin data
//	 0x02C   4    Clustering factor
//	 0x030  64    File name (UTF-16LE, informational)
//	 0x1FC   4    XOR checksum of the first 508 bytes
type Header struct {
	PrimarySequence   uint32
	SecondarySequence uint32
	LastWriteRaw      uint64
	MajorVersion      uint32
	MinorVersion      uint32
	Type              uint32
	Format            uint32
	RootCellOffset    uint32
	HiveBinsDataSize  uint32
	ClusteringFactor  uint32
	FileNameRaw       []byte
	Checksum          uint32
}

// DecodeRegf validates the signature and format of the base block at the
// start of b and decodes its fields. The checksum is read but not verified.
func DecodeRegf(b []byte) (Header, error) {
	head, ok := buf.Slice(b, 0, HeaderSize)
	if !ok {
		e := types.New(types.ErrBounds, "base block")
		e.Offset = 0
		e.Expected = fmt.Sprintf("%d bytes", HeaderSize)
		e.Actual = fmt.Sprintf("%d bytes", len(b))
		return Header{}, e
	}
	if !bytes.Equal(head[:REGFSignatureSize], REGFSignature) {
		e := types.New(types.ErrBadSignature, "base block")
		e.Offset = 0
		e.Expected = fmt.Sprintf("%q", REGFSignature)
		e.Actual = fmt.Sprintf("%q", head[:REGFSignatureSize])
		return Header{}, e
	}
	h := Header{
		PrimarySequence:   buf.U32LE(head[REGFPrimarySeqOffset:]),
		SecondarySequence: buf.U32LE(head[REGFSecondarySeqOffset:]),
		LastWriteRaw:      buf.U64LE(head[REGFTimeStampOffset:]),
		MajorVersion:      buf.U32LE(head[REGFMajorVersionOffset:]),
		MinorVersion:      buf.U32LE(head[REGFMinorVersionOffset:]),
		Type:              buf.U32LE(head[REGFTypeOffset:]),
		Format:            buf.U32LE(head[REGFFormatOffset:]),
		RootCellOffset:    buf.U32LE(head[REGFRootCellOffset:]),
		HiveBinsDataSize:  buf.U32LE(head[REGFDataSizeOffset:]),
		ClusteringFactor:  buf.U32LE(head[REGFClusterOffset:]),
		FileNameRaw:       head[REGFFileNameOffset : REGFFileNameOffset+REGFFileNameSize],
		Checksum:          buf.U32LE(head[REGFCheckSumOffset:]),
	}
	if h.Format != REGFFormatDirectMemoryLoad {
		e := types.New(types.ErrUnsupportedFormat, "base block format")
		e.Offset = REGFFormatOffset
		e.Expected = fmt.Sprint(REGFFormatDirectMemoryLoad)
		e.Actual = fmt.Sprint(h.Format)
		return Header{}, e
	}
	return h, nil
}

// Checksum computes the base block checksum over the first 508 bytes. Windows
// never stores 0 or 0xFFFFFFFF; those are remapped the same way here.
func Checksum(b []byte) uint32 {
	var sum uint32
	for i := 0; i+4 <= REGFChecksumRegionLen && i+4 <= len(b); i += 4 {
		sum ^= buf.U32LE(b[i:])
	}
	switch sum {
	case 0xFFFFFFFF:
		return 0xFFFFFFFE
	case 0:
		return 1
	}
	return sum
}
