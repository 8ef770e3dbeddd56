package format

import (
	"fmt"

	"github.com/joshuapare/hivedigger/internal/buf"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// ListKind identifies a subkey list variant by its tag.
type ListKind uint8

const (
	ListLI ListKind = iota + 1 // li: bare key node offsets
	ListLF                     // lf: offset + 4-byte name hint
	ListLH                     // lh: offset + 32-bit name hash
	ListRI                     // ri: offsets of other lists
)

func (k ListKind) String() string {
	switch k {
	case ListLI:
		return "li"
	case ListLF:
		return "lf"
	case ListLH:
		return "lh"
	case ListRI:
		return "ri"
	default:
		return "unknown"
	}
}

// EntrySize returns the width of one list entry.
func (k ListKind) EntrySize() int {
	if k == ListLF || k == ListLH {
		return LFEntrySize
	}
	return LIEntrySize
}

// List is a decoded subkey list header plus its raw entry array.
//
//	Offset  Size  Field
//	0x00    2     'l' 'i' | 'l' 'f' | 'l' 'h' | 'r' 'i'
//	0x02    2     Entry count
//	0x04    n*w   Entries (w = 4 for li/ri, 8 for lf/lh)
type List struct {
	Kind    ListKind
	Count   int
	entries []byte
}

// Offset returns the cell offset stored in entry i.
func (l List) Offset(i int) uint32 {
	return buf.U32LE(l.entries[i*l.Kind.EntrySize():])
}

// Tag returns the hint or hash stored in entry i. Only lf and lh carry one.
func (l List) Tag(i int) uint32 {
	if l.Kind.EntrySize() != LFEntrySize {
		return 0
	}
	return buf.U32LE(l.entries[i*LFEntrySize+OffsetFieldSize:])
}

// Hint returns the raw 4-byte name hint of lf entry i.
func (l List) Hint(i int) []byte {
	if l.Kind != ListLF {
		return nil
	}
	off := i*LFEntrySize + OffsetFieldSize
	return l.entries[off : off+LFHintSize]
}

// DetectList reads the tag of a subkey list payload.
func DetectList(b []byte) (ListKind, error) {
	if len(b) < SignatureSize {
		return 0, short("subkey list", SignatureSize, len(b))
	}
	switch {
	case b[0] == 'l' && b[1] == 'i':
		return ListLI, nil
	case b[0] == 'l' && b[1] == 'f':
		return ListLF, nil
	case b[0] == 'l' && b[1] == 'h':
		return ListLH, nil
	case b[0] == 'r' && b[1] == 'i':
		return ListRI, nil
	}
	e := types.New(types.ErrUnknownListTag, "subkey list")
	e.Expected = `"li", "lf", "lh" or "ri"`
	e.Actual = fmt.Sprintf("%q", b[:SignatureSize])
	return 0, e
}

// DecodeList decodes any subkey list variant. The entry array must fit in
// the payload.
func DecodeList(b []byte) (List, error) {
	kind, err := DetectList(b)
	if err != nil {
		return List{}, err
	}
	if len(b) < ListHeaderSize {
		return List{}, short(kind.String(), ListHeaderSize, len(b))
	}
	count := int(buf.U16LE(b[IdxCountOffset:]))
	end, ok := buf.ListEnd(len(b), ListHeaderSize, count, kind.EntrySize())
	if !ok {
		return List{}, short(kind.String()+" entries", ListHeaderSize+count*kind.EntrySize(), len(b))
	}
	return List{Kind: kind, Count: count, entries: b[ListHeaderSize:end]}, nil
}

// DecodeOffsetList decodes a bare array of count cell offsets with no tag or
// header. Value lists and db segment lists both have this shape.
func DecodeOffsetList(b []byte, count uint32) ([]uint32, error) {
	end, ok := buf.ListEnd(len(b), 0, int(count), OffsetFieldSize)
	if !ok {
		return nil, short("offset list", int(count)*OffsetFieldSize, len(b))
	}
	out := make([]uint32, 0, count)
	for off := 0; off < end; off += OffsetFieldSize {
		out = append(out, buf.U32LE(b[off:]))
	}
	return out, nil
}
