package hive

import (
	"go.uber.org/zap"

	"github.com/joshuapare/hivedigger/internal/format"
)

// Options tunes decoding. The zero value is the strict default.
type Options struct {
	// Logger receives debug traces of navigation. Nil discards.
	Logger *zap.Logger

	// HintFallback makes lf and lh lookups compare every entry by name after
	// no hinted candidate matched. Off by default: a hint or hash miss is a
	// miss, which is how the format is meant to be read but leaves lookups
	// exposed to writers that store stale hints.
	HintFallback bool

	// SegmentSize bounds the bytes taken from each big-data segment. Zero
	// means format.DBChunkSize (16344), the chunk size Windows writes.
	//
	// Hives whose segments carry a full format.DBSegmentSize (16384) bytes
	// each only decode with SegmentSize set to format.DBSegmentSize: three
	// segments of 16384, 16384 and 512 bytes make a 33280-byte value there,
	// while the default stops 40 bytes short per full segment and reports
	// ErrTruncatedCell. The declared value length must also fit within
	// SegmentSize times the segment count.
	SegmentSize int
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.SegmentSize <= 0 {
		o.SegmentSize = format.DBChunkSize
	}
	return o
}
