package hive

import (
	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// ValueOffsets returns the vk offsets of k's value list. A key without
// values yields an empty slice.
func (h *Hive) ValueOffsets(k KeyNode) ([]uint32, error) {
	if !k.HasValueList() {
		return nil, nil
	}
	span, err := h.Cell(k.ValueListOffset)
	if err != nil {
		return nil, err
	}
	offs, err := format.DecodeOffsetList(span.Data, k.ValueCount)
	if err != nil {
		return nil, types.AtOffset(err, span.PayloadPos())
	}
	return offs, nil
}

// FindValue scans k's value list for a value called name, ignoring case.
func (h *Hive) FindValue(k KeyNode, name string) (ValueNode, error) {
	offs, err := h.ValueOffsets(k)
	if err != nil {
		return ValueNode{}, err
	}
	for _, off := range offs {
		v, err := h.ValueNode(off)
		if err != nil {
			return ValueNode{}, err
		}
		if namesEqual(v.Name(), name) {
			return v, nil
		}
	}
	e := types.New(types.ErrValueNotFound, "value")
	e.Name = name
	return ValueNode{}, e
}

// Values decodes every value of k in list order.
func (h *Hive) Values(k KeyNode) ([]ValueNode, error) {
	offs, err := h.ValueOffsets(k)
	if err != nil {
		return nil, err
	}
	out := make([]ValueNode, 0, len(offs))
	for _, off := range offs {
		v, err := h.ValueNode(off)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
