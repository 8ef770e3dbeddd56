package hive

import (
	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// StorageKind is where a value's data lives.
type StorageKind int

const (
	StorageInline   StorageKind = iota // in the vk data offset field
	StorageIndirect                    // in one data cell
	StorageBig                         // in db segments
)

func (s StorageKind) String() string {
	switch s {
	case StorageInline:
		return "inline"
	case StorageIndirect:
		return "cell"
	case StorageBig:
		return "big data"
	default:
		return "unknown"
	}
}

// ValueNode is a decoded vk record.
type ValueNode struct {
	format.VKRecord

	// Offset is the cell offset the node was decoded from.
	Offset uint32
	pos    int
}

// DecodeValueNode decodes the vk record in span.
func DecodeValueNode(span CellSpan) (ValueNode, error) {
	rec, err := format.DecodeVK(span.Data)
	if err != nil {
		return ValueNode{}, types.AtOffset(err, span.PayloadPos())
	}
	return ValueNode{VKRecord: rec, Offset: span.Rel, pos: span.PayloadPos()}, nil
}

// ValueNode resolves and decodes the value node at rel.
func (h *Hive) ValueNode(rel uint32) (ValueNode, error) {
	span, err := h.Cell(rel)
	if err != nil {
		return ValueNode{}, err
	}
	return DecodeValueNode(span)
}

// Name returns the decoded value name. The default value has an empty name.
func (v ValueNode) Name() string {
	return decodeName(v.NameRaw, v.NameIsASCII())
}

// RegType returns the value type.
func (v ValueNode) RegType() types.RegType {
	return types.RegType(v.Type)
}

// Storage classifies the value from its length field alone. A non-inline
// value may still turn out to be big data once its cell is read; see
// (*Hive).Storage.
func (v ValueNode) Storage() StorageKind {
	if v.DataInline() {
		return StorageInline
	}
	return StorageIndirect
}

// Storage classifies v fully, looking at the data cell when the length and
// hive version allow big data.
func (h *Hive) Storage(v ValueNode) StorageKind {
	if v.DataInline() || !h.bigDataEnabled(v.Length()) {
		return v.Storage()
	}
	span, err := h.Cell(v.DataOffset)
	if err == nil && format.IsDB(span.Data) {
		return StorageBig
	}
	return StorageIndirect
}
