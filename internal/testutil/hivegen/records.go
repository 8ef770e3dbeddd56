package hivegen

import (
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/hivedigger/internal/format"
)

// NK describes a key node record. Zero offsets are written as given; use
// format.InvalidOffset for absent references.
type NK struct {
	Name        string
	UTF16       bool // store the name as UTF-16LE instead of Windows-1252
	Flags       uint16
	Parent      uint32
	SubkeyCount uint32
	SubkeyList  uint32
	ValueCount  uint32
	ValueList   uint32
	Class       uint32
	ClassLen    uint16
}

// Payload encodes the record.
func (n NK) Payload() []byte {
	name, flags := encodeName(n.Name, n.UTF16)
	b := make([]byte, format.NKFixedHeaderSize+len(name))
	copy(b, format.NKSignature)
	format.PutU16(b, format.NKFlagsOffset, n.Flags|flags)
	format.PutU32(b, format.NKParentOffset, n.Parent)
	format.PutU32(b, format.NKSubkeyCountOffset, n.SubkeyCount)
	format.PutU32(b, format.NKSubkeyListOffset, n.SubkeyList)
	format.PutU32(b, format.NKValueCountOffset, n.ValueCount)
	format.PutU32(b, format.NKValueListOffset, n.ValueList)
	format.PutU32(b, format.NKSecurityOffset, format.InvalidOffset)
	format.PutU32(b, format.NKClassNameOffset, n.Class)
	format.PutU16(b, format.NKNameLenOffset, uint16(len(name)))
	format.PutU16(b, format.NKClassLenOffset, n.ClassLen)
	copy(b[format.NKNameOffset:], name)
	return b
}

// VK describes a value node record. DataLen is the raw field, inline bit
// included.
type VK struct {
	Name    string
	UTF16   bool
	Type    uint32
	DataLen uint32
	DataOff uint32
}

// Payload encodes the record.
func (v VK) Payload() []byte {
	name, compressed := encodeName(v.Name, v.UTF16)
	b := make([]byte, format.VKFixedHeaderSize+len(name))
	copy(b, format.VKSignature)
	format.PutU16(b, format.VKNameLenOffset, uint16(len(name)))
	format.PutU32(b, format.VKDataLenOffset, v.DataLen)
	format.PutU32(b, format.VKDataOffOffset, v.DataOff)
	format.PutU32(b, format.VKTypeOffset, v.Type)
	if compressed != 0 {
		format.PutU16(b, format.VKFlagsOffset, format.VKFlagASCIIName)
	}
	copy(b[format.VKNameOffset:], name)
	return b
}

// Entry is one subkey list entry. Tag is the lf hint or lh hash and is
// ignored for li and ri.
type Entry struct {
	Offset uint32
	Tag    uint32
}

// ListPayload encodes a subkey list of the given kind.
func ListPayload(kind format.ListKind, entries []Entry) []byte {
	sig := map[format.ListKind][]byte{
		format.ListLI: format.LISignature,
		format.ListLF: format.LFSignature,
		format.ListLH: format.LHSignature,
		format.ListRI: format.RISignature,
	}[kind]
	size := kind.EntrySize()
	b := make([]byte, format.ListHeaderSize+len(entries)*size)
	copy(b, sig)
	format.PutU16(b, format.IdxCountOffset, uint16(len(entries)))
	for i, e := range entries {
		off := format.ListHeaderSize + i*size
		format.PutU32(b, off, e.Offset)
		if size == format.LFEntrySize {
			format.PutU32(b, off+format.OffsetFieldSize, e.Tag)
		}
	}
	return b
}

// HintTag packs the lf hint of name into an entry tag.
func HintTag(name string) uint32 {
	h := format.NameHint(name)
	return uint32(h[0]) | uint32(h[1])<<8 | uint32(h[2])<<16 | uint32(h[3])<<24
}

// OffsetsPayload encodes a bare offset array (value lists, db segment lists).
func OffsetsPayload(offs []uint32) []byte {
	b := make([]byte, len(offs)*format.OffsetFieldSize)
	for i, o := range offs {
		format.PutU32(b, i*format.OffsetFieldSize, o)
	}
	return b
}

// DBPayload encodes a big-data header.
func DBPayload(count uint16, list uint32) []byte {
	b := make([]byte, format.DBHeaderSize)
	copy(b, format.DBSignature)
	format.PutU16(b, format.DBCountOffset, count)
	format.PutU32(b, format.DBListOffset, list)
	return b
}

// EncodeUTF16 returns s as UTF-16LE bytes.
func EncodeUTF16(s string) []byte {
	units := utf16.Encode([]rune(s))
	b := make([]byte, len(units)*2)
	for i, u := range units {
		format.PutU16(b, i*2, u)
	}
	return b
}

func encodeName(name string, wide bool) ([]byte, uint16) {
	if wide {
		return EncodeUTF16(name), 0
	}
	enc, err := charmap.Windows1252.NewEncoder().Bytes([]byte(name))
	if err != nil {
		// Not representable in Windows-1252; store as UTF-16LE.
		return EncodeUTF16(name), 0
	}
	return enc, format.NKFlagCompressedName
}
