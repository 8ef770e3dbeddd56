package hive

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// binExtent is the absolute [start, end) range of one hive bin.
type binExtent struct {
	start, end int
}

// indexBins walks the bin headers from the first bin to the end of the file.
// The walk stops at the first header that does not validate; cells past it
// belong to no bin.
func indexBins(data []byte, log *zap.Logger) []binExtent {
	var bins []binExtent
	for off := format.HiveDataBase; off < len(data); {
		bin, next, err := format.NextHBIN(data, off)
		if err != nil {
			log.Debug("bin walk stopped", zap.Int("offset", off), zap.Error(err))
			break
		}
		bins = append(bins, binExtent{start: bin.FileOffset, end: next})
		off = next
	}
	return bins
}

// checkInBin reports an error unless span lies inside the cell area of one bin.
func (h *Hive) checkInBin(span CellSpan) error {
	i := sort.Search(len(h.bins), func(i int) bool { return h.bins[i].end > span.Pos })
	if i == len(h.bins) || span.Pos < h.bins[i].start+format.HBINHeaderSize {
		e := types.New(types.ErrOutOfBounds, "cell outside hive bins")
		e.Offset = span.Pos
		e.Actual = fmt.Sprintf("offset 0x%X", span.Rel)
		return e
	}
	if bin := h.bins[i]; span.Pos+span.Size > bin.end {
		e := types.New(types.ErrOutOfBounds, "cell extent outside hbin")
		e.Offset = span.Pos
		e.Expected = fmt.Sprintf("end <= %d", bin.end)
		e.Actual = fmt.Sprintf("end %d (size %d)", span.Pos+span.Size, span.Size)
		return e
	}
	return nil
}
