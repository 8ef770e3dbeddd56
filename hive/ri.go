package hive

import (
	"go.uber.org/zap"

	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// IndexRoot is an ri list: offsets of leaf lists, used once a key has more
// children than one leaf holds. Leaves are searched in list order.
type IndexRoot struct{ leaf }

// ResolveChild implements SubkeyList.
//
// A leaf that cannot be resolved (bad offset or size) is skipped and the
// next one tried; if no leaf holds the name, the first such error is
// returned instead of NotFound. Format errors stop the search.
func (ri IndexRoot) ResolveChild(h *Hive, name string) (uint32, error) {
	var firstErr error
	for i := 0; i < ri.list.Count; i++ {
		off, err := ri.resolveIn(h, ri.list.Offset(i), name)
		if err == nil {
			return off, nil
		}
		kind, _ := types.KindOf(err)
		switch kind {
		case types.ErrKindNotFound:
			continue
		case types.ErrKindOffset:
			h.log.Debug("ri leaf skipped",
				zap.Uint32("ri", ri.span.Rel),
				zap.Int("leaf", i),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		default:
			return 0, err
		}
	}
	if firstErr != nil {
		return 0, firstErr
	}
	return 0, childNotFound(name)
}

func (ri IndexRoot) resolveIn(h *Hive, rel uint32, name string) (uint32, error) {
	sub, err := h.SubkeyList(rel)
	if err != nil {
		return 0, err
	}
	if sub.Kind() == format.ListRI {
		e := types.New(types.ErrUnknownListTag, "ri leaf")
		e.Offset = sub.Span().PayloadPos()
		e.Expected = `"li", "lf" or "lh"`
		e.Actual = `"ri"`
		return 0, e
	}
	return sub.ResolveChild(h, name)
}
