package hive

import (
	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// SubkeyList is one of the four subkey list variants: IndexLeaf (li),
// FastLeaf (lf), HashLeaf (lh) or IndexRoot (ri). The variant is picked once
// when the list cell is decoded.
type SubkeyList interface {
	// Kind returns the list tag.
	Kind() format.ListKind
	// Len returns the number of entries.
	Len() int
	// Span returns the cell the list was decoded from.
	Span() CellSpan
	// ResolveChild returns the offset of the key node called name. Hints and
	// hashes only narrow the candidates; a match is always confirmed by
	// comparing the decoded name.
	ResolveChild(h *Hive, name string) (uint32, error)

	// entries returns the raw offsets: key nodes for leaves, leaf lists for ri.
	entries() []uint32
}

// DecodeSubkeyList decodes the list in span into its variant.
func DecodeSubkeyList(span CellSpan) (SubkeyList, error) {
	l, err := format.DecodeList(span.Data)
	if err != nil {
		return nil, types.AtOffset(err, span.PayloadPos())
	}
	base := leaf{list: l, span: span}
	switch l.Kind {
	case format.ListLI:
		return IndexLeaf{base}, nil
	case format.ListLF:
		return FastLeaf{base}, nil
	case format.ListLH:
		return HashLeaf{base}, nil
	default:
		return IndexRoot{base}, nil
	}
}

// SubkeyList resolves and decodes the subkey list at rel.
func (h *Hive) SubkeyList(rel uint32) (SubkeyList, error) {
	span, err := h.Cell(rel)
	if err != nil {
		return nil, err
	}
	return DecodeSubkeyList(span)
}

// ResolveChild looks name up in the subkey list at listRel.
func (h *Hive) ResolveChild(listRel uint32, name string) (uint32, error) {
	list, err := h.SubkeyList(listRel)
	if err != nil {
		return 0, err
	}
	return list.ResolveChild(h, name)
}

// leaf holds what every variant shares.
type leaf struct {
	list format.List
	span CellSpan
}

func (l leaf) Kind() format.ListKind { return l.list.Kind }
func (l leaf) Len() int               { return l.list.Count }
func (l leaf) Span() CellSpan         { return l.span }

func (l leaf) entries() []uint32 {
	out := make([]uint32, l.list.Count)
	for i := range out {
		out[i] = l.list.Offset(i)
	}
	return out
}

// scan decodes the key node of every entry accepted by want and returns the
// first whose name matches. When fallback is set, entries want rejected are
// tried afterwards.
func (l leaf) scan(h *Hive, name string, want func(i int) bool, fallback bool) (uint32, error) {
	for pass := 0; pass < 2; pass++ {
		for i := 0; i < l.list.Count; i++ {
			hinted := want == nil || want(i)
			if hinted != (pass == 0) {
				continue
			}
			off := l.list.Offset(i)
			nk, err := h.KeyNode(off)
			if err != nil {
				return 0, err
			}
			if nk.NameEquals(name) {
				return off, nil
			}
		}
		if want == nil || !fallback {
			break
		}
	}
	return 0, childNotFound(name)
}

func childNotFound(name string) error {
	e := types.New(types.ErrKeyNotFound, "subkey")
	e.Name = name
	return e
}
