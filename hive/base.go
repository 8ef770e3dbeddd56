package hive

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/hivedigger/internal/buf"
	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// BaseBlock is the decoded 4 KiB header at the start of the hive.
type BaseBlock struct {
	format.Header
	raw []byte
}

// DecodeBaseBlock checks the signature and format of the first 4096 bytes of
// v and decodes them.
//
// The checksum is not verified here. Windows itself loads hives whose header
// checksum is stale after a crash, and forensic copies often are; a reader
// that refused them would be less useful than one that reports it. Use
// ChecksumOK or Validate to check.
func DecodeBaseBlock(v buf.View) (BaseBlock, error) {
	h, err := format.DecodeRegf(v.Bytes())
	if err != nil {
		return BaseBlock{}, err
	}
	raw, _ := v.Read(0, format.HeaderSize)
	return BaseBlock{Header: h, raw: raw}, nil
}

// ChecksumOK reports whether the stored checksum matches the header bytes.
func (b BaseBlock) ChecksumOK() bool {
	return format.Checksum(b.raw) == b.Checksum
}

// IsClean reports whether both sequence numbers agree, meaning no write was
// interrupted.
func (b BaseBlock) IsClean() bool {
	return b.PrimarySequence == b.SecondarySequence
}

// LastWrite returns the header timestamp.
func (b BaseBlock) LastWrite() time.Time {
	return format.FiletimeToTime(b.LastWriteRaw)
}

// Version returns "major.minor".
func (b BaseBlock) Version() string {
	return fmt.Sprintf("%d.%d", b.MajorVersion, b.MinorVersion)
}

// FileName decodes the informational file name field.
func (b BaseBlock) FileName() string {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(b.FileNameRaw)
	if err != nil {
		return ""
	}
	name, _, _ := strings.Cut(string(out), "\x00")
	return name
}

// Validate applies the strict header checks that decoding skips: checksum,
// bin data size alignment, and the declared extent against the real file.
func (b BaseBlock) Validate(fileSize int) error {
	if !b.ChecksumOK() {
		e := types.New(types.ErrBadChecksum, "base block")
		e.Offset = format.REGFCheckSumOffset
		e.Expected = fmt.Sprintf("0x%08X", format.Checksum(b.raw))
		e.Actual = fmt.Sprintf("0x%08X", b.Checksum)
		return e
	}
	if b.HiveBinsDataSize%format.HBINAlignment != 0 {
		e := types.New(types.ErrInvalidCellSize, "hive bins data size")
		e.Offset = format.REGFDataSizeOffset
		e.Expected = "multiple of 0x1000"
		e.Actual = fmt.Sprintf("0x%X", b.HiveBinsDataSize)
		return e
	}
	if end := format.HeaderSize + int(b.HiveBinsDataSize); end > fileSize {
		e := types.New(types.ErrOutOfBounds, "hive bins data size")
		e.Offset = format.REGFDataSizeOffset
		e.Expected = fmt.Sprintf("end <= %d", fileSize)
		e.Actual = fmt.Sprintf("end %d", end)
		return e
	}
	if b.RootCellOffset >= b.HiveBinsDataSize {
		e := types.New(types.ErrOutOfBounds, "root cell offset")
		e.Offset = format.REGFRootCellOffset
		e.Expected = fmt.Sprintf("< 0x%X", b.HiveBinsDataSize)
		e.Actual = fmt.Sprintf("0x%X", b.RootCellOffset)
		return e
	}
	return nil
}
