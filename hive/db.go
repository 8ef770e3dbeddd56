package hive

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/joshuapare/hivedigger/internal/buf"
	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// bigData assembles n bytes from the db record in span.
func (h *Hive) bigData(span CellSpan, n int) ([]byte, error) {
	db, err := format.DecodeDB(span.Data)
	if err != nil {
		return nil, types.AtOffset(err, span.PayloadPos())
	}
	list, err := h.Cell(db.ListOffset)
	if err != nil {
		return nil, segmentErr("segment list", db.ListOffset, err)
	}
	offs, err := format.DecodeOffsetList(list.Data, uint32(db.Count))
	if err != nil {
		return nil, types.AtOffset(err, list.PayloadPos())
	}

	// The declared length is untrusted: it must fit the segments present
	// before it sizes anything.
	if limit, ok := buf.MulOverflowSafe(len(offs), h.opts.SegmentSize); !ok || n > limit {
		return nil, truncated("big data", span.PayloadPos(), n, limit)
	}

	out := make([]byte, 0, n)
	for i, off := range offs {
		if len(out) == n {
			break
		}
		seg, err := h.Cell(off)
		if err != nil {
			return nil, segmentErr(fmt.Sprintf("segment %d", i), off, err)
		}
		chunk := min(len(seg.Data), n-len(out), h.opts.SegmentSize)
		out = append(out, seg.Data[:chunk]...)
	}
	if len(out) < n {
		return nil, truncated("big data", span.PayloadPos(), n, len(out))
	}
	h.log.Debug("big data assembled",
		zap.Uint32("db", span.Rel),
		zap.Int("segments", len(offs)),
		zap.Int("length", n),
	)
	return out, nil
}

func segmentErr(what string, rel uint32, cause error) error {
	e := types.New(types.ErrSegmentOutOfBounds, fmt.Sprintf("%s at offset 0x%X (%v)", what, rel, cause))
	var inner *types.Error
	if errors.As(cause, &inner) {
		e.Offset = inner.Offset
	}
	return e
}
