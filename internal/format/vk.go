package format

import (
	"fmt"

	"github.com/joshuapare/hivedigger/internal/buf"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// VKRecord is a decoded value node.
//
//	Offset  Size  Field
//	0x00    2     'v' 'k'
//	0x02    2     Name length
//	0x04    4     Data length (bit 31 => data stored inline)
//	0x08    4     Data offset, or the data itself when inline
//	0x0C    4     Value type
//	0x10    2     Flags (0x01 => name stored one byte per character)
//	0x12    2     Spare
//	0x14    n     Name bytes
type VKRecord struct {
	NameLength uint16
	DataLength uint32
	DataOffset uint32
	InlineRaw  [VKInlineMax]byte
	Type       uint32
	Flags      uint16
	NameRaw    []byte
}

// NameIsASCII reports whether the name is stored one byte per character.
func (vk VKRecord) NameIsASCII() bool {
	return vk.Flags&VKFlagASCIIName != 0
}

// DataInline reports whether the data lives in the offset field.
func (vk VKRecord) DataInline() bool {
	return vk.DataLength&VKDataInlineBit != 0
}

// Length returns the declared data length with the inline bit masked off.
func (vk VKRecord) Length() int {
	return int(vk.DataLength & VKDataLengthMask)
}

// InlineData returns the low-order bytes of the offset field truncated to the
// declared length. A declared length over four bytes cannot be inline.
func (vk VKRecord) InlineData() ([]byte, error) {
	n := vk.Length()
	if n > VKInlineMax {
		e := types.New(types.ErrInlineLength, "vk inline data")
		e.Expected = fmt.Sprintf("<= %d bytes", VKInlineMax)
		e.Actual = fmt.Sprintf("%d bytes", n)
		return nil, e
	}
	out := make([]byte, n)
	copy(out, vk.InlineRaw[:n])
	return out, nil
}

// DecodeVK decodes a value node payload. The name slice aliases b.
func DecodeVK(b []byte) (VKRecord, error) {
	if err := checkSig(b, VKSignature, "vk"); err != nil {
		return VKRecord{}, err
	}
	if len(b) < VKFixedHeaderSize {
		return VKRecord{}, short("vk", VKFixedHeaderSize, len(b))
	}
	nameLen := buf.U16LE(b[VKNameLenOffset:])
	name, ok := buf.Slice(b, VKNameOffset, int(nameLen))
	if !ok {
		return VKRecord{}, short("vk name", VKNameOffset+int(nameLen), len(b))
	}
	vk := VKRecord{
		NameLength: nameLen,
		DataLength: buf.U32LE(b[VKDataLenOffset:]),
		DataOffset: buf.U32LE(b[VKDataOffOffset:]),
		Type:       buf.U32LE(b[VKTypeOffset:]),
		Flags:      buf.U16LE(b[VKFlagsOffset:]),
		NameRaw:    name,
	}
	copy(vk.InlineRaw[:], b[VKDataOffOffset:VKDataOffOffset+VKInlineMax])
	return vk, nil
}
