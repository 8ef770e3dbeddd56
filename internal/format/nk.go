package format

import (
	"github.com/joshuapare/hivedigger/internal/buf"
)

// NKRecord is a decoded key node. The layout is shown below; fields marked
// (-) are not decoded.
//
//	Offset  Size  Field
//	0x00    2     'n' 'k'
//	0x02    2     Flags (0x20 => name stored one byte per character)
//	0x04    8     Last write time (FILETIME)
//	0x0C    4     Access bits (-)
//	0x10    4     Parent cell offset
//	0x14    4     Number of subkeys
//	0x18    4     Number of volatile subkeys (-)
//	0x1C    4     Offset to subkey list
//	0x20    4     Volatile subkey list offset (-)
//	0x24    4     Number of values
//	0x28    4     Offset to value list
//	0x2C    4     Security offset
//	0x30    4     Class name offset
//	0x34   20     Max lengths and work var (-)
//	0x48    2     Name length
//	0x4A    2     Class length
//	0x4C    n     Name bytes
type NKRecord struct {
	Flags            uint16
	LastWriteRaw     uint64
	ParentOffset     uint32
	SubkeyCount      uint32
	SubkeyListOffset uint32
	ValueCount       uint32
	ValueListOffset  uint32
	SecurityOffset   uint32
	ClassNameOffset  uint32
	NameLength       uint16
	ClassLength      uint16
	NameRaw          []byte
}

// NameIsCompressed reports whether the name is stored one byte per character.
func (nk NKRecord) NameIsCompressed() bool {
	return nk.Flags&NKFlagCompressedName != 0
}

// DecodeNK decodes a key node payload. The name slice aliases b.
func DecodeNK(b []byte) (NKRecord, error) {
	if err := checkSig(b, NKSignature, "nk"); err != nil {
		return NKRecord{}, err
	}
	if len(b) < NKFixedHeaderSize {
		return NKRecord{}, short("nk", NKFixedHeaderSize, len(b))
	}
	nameLen := buf.U16LE(b[NKNameLenOffset:])
	name, ok := buf.Slice(b, NKNameOffset, int(nameLen))
	if !ok {
		return NKRecord{}, short("nk name", NKNameOffset+int(nameLen), len(b))
	}
	return NKRecord{
		Flags:            buf.U16LE(b[NKFlagsOffset:]),
		LastWriteRaw:     buf.U64LE(b[NKLastWriteOffset:]),
		ParentOffset:     buf.U32LE(b[NKParentOffset:]),
		SubkeyCount:      buf.U32LE(b[NKSubkeyCountOffset:]),
		SubkeyListOffset: buf.U32LE(b[NKSubkeyListOffset:]),
		ValueCount:       buf.U32LE(b[NKValueCountOffset:]),
		ValueListOffset:  buf.U32LE(b[NKValueListOffset:]),
		SecurityOffset:   buf.U32LE(b[NKSecurityOffset:]),
		ClassNameOffset:  buf.U32LE(b[NKClassNameOffset:]),
		NameLength:       nameLen,
		ClassLength:      buf.U16LE(b[NKClassLenOffset:]),
		NameRaw:          name,
	}, nil
}
