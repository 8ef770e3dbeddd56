package hive

import (
	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// Subkeys decodes every child of k in list order. Children under an ri are
// returned leaf by leaf.
func (h *Hive) Subkeys(k KeyNode) ([]KeyNode, error) {
	if !k.HasSubkeyList() {
		return nil, nil
	}
	list, err := h.SubkeyList(k.SubkeyListOffset)
	if err != nil {
		return nil, err
	}
	offs := list.entries()
	if list.Kind() == format.ListRI {
		var flat []uint32
		for _, rel := range offs {
			sub, err := h.SubkeyList(rel)
			if err != nil {
				return nil, err
			}
			if sub.Kind() == format.ListRI {
				e := types.New(types.ErrUnknownListTag, "ri leaf")
				e.Offset = sub.Span().PayloadPos()
				e.Actual = `"ri"`
				return nil, e
			}
			flat = append(flat, sub.entries()...)
		}
		offs = flat
	}
	out := make([]KeyNode, 0, len(offs))
	for _, off := range offs {
		nk, err := h.KeyNode(off)
		if err != nil {
			return nil, err
		}
		out = append(out, nk)
	}
	return out, nil
}
