package hive

import (
	"fmt"

	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// ValueData returns the data of v as a fresh slice:
//
//   - inline: the low-order bytes of the offset field, up to the declared
//     length of at most four bytes
//   - cell: exactly the declared length from the data cell
//   - big data: the segments of a db record concatenated in list order, each
//     contributing at most Options.SegmentSize bytes, up to the declared length
func (h *Hive) ValueData(v ValueNode) ([]byte, error) {
	if v.DataInline() {
		data, err := v.InlineData()
		if err != nil {
			return nil, types.AtOffset(err, v.pos)
		}
		return data, nil
	}
	n := v.Length()
	if n == 0 {
		return []byte{}, nil
	}
	span, err := h.Cell(v.DataOffset)
	if err != nil {
		return nil, err
	}
	if h.bigDataEnabled(n) && format.IsDB(span.Data) {
		return h.bigData(span, n)
	}
	if len(span.Data) < n {
		return nil, truncated("data cell", span.PayloadPos(), n, len(span.Data))
	}
	out := make([]byte, n)
	copy(out, span.Data)
	return out, nil
}

func truncated(what string, pos, want, have int) error {
	e := types.New(types.ErrTruncatedCell, what)
	e.Offset = pos
	e.Expected = fmt.Sprintf("%d bytes", want)
	e.Actual = fmt.Sprintf("%d bytes", have)
	return e
}
