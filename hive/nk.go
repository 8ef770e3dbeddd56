package hive

import (
	"time"

	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// KeyNode is a decoded nk record. It owns nothing: subkeys and values are
// reached through the offsets it carries.
type KeyNode struct {
	format.NKRecord

	// Offset is the cell offset the node was decoded from.
	Offset uint32
}

// DecodeKeyNode decodes the nk record in span.
func DecodeKeyNode(span CellSpan) (KeyNode, error) {
	rec, err := format.DecodeNK(span.Data)
	if err != nil {
		return KeyNode{}, types.AtOffset(err, span.PayloadPos())
	}
	return KeyNode{NKRecord: rec, Offset: span.Rel}, nil
}

// KeyNode resolves and decodes the key node at rel.
func (h *Hive) KeyNode(rel uint32) (KeyNode, error) {
	span, err := h.Cell(rel)
	if err != nil {
		return KeyNode{}, err
	}
	return DecodeKeyNode(span)
}

// Name returns the decoded key name.
func (k KeyNode) Name() string {
	return decodeName(k.NameRaw, k.NameIsCompressed())
}

// NameEquals reports whether the key is called name, ignoring case.
func (k KeyNode) NameEquals(name string) bool {
	return namesEqual(k.Name(), name)
}

// LastWrite returns the key's last write time.
func (k KeyNode) LastWrite() time.Time {
	return format.FiletimeToTime(k.LastWriteRaw)
}

// HasSubkeyList reports whether the node references a subkey list at all.
func (k KeyNode) HasSubkeyList() bool {
	return k.SubkeyCount > 0 && k.SubkeyListOffset != format.InvalidOffset
}

// HasValueList reports whether the node references a value list at all.
func (k KeyNode) HasValueList() bool {
	return k.ValueCount > 0 && k.ValueListOffset != format.InvalidOffset
}

// ClassName returns the raw class name bytes of k, or nil if it has none.
// The class is a UTF-16LE string in its own cell.
func (h *Hive) ClassName(k KeyNode) ([]byte, error) {
	if k.ClassLength == 0 || k.ClassNameOffset == format.InvalidOffset {
		return nil, nil
	}
	span, err := h.Cell(k.ClassNameOffset)
	if err != nil {
		return nil, err
	}
	if len(span.Data) < int(k.ClassLength) {
		e := types.New(types.ErrTruncatedCell, "class name")
		e.Offset = span.PayloadPos()
		return nil, e
	}
	out := make([]byte, k.ClassLength)
	copy(out, span.Data)
	return out, nil
}

// ClassString returns the decoded class name of k.
func (h *Hive) ClassString(k KeyNode) (string, error) {
	raw, err := h.ClassName(k)
	if err != nil {
		return "", err
	}
	return decodeName(raw, false), nil
}
