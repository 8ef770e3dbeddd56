package hive

import (
	"go.uber.org/zap"

	"github.com/joshuapare/hivedigger/internal/source"
)

// Open loads the hive file at path ("-" reads stdin) and decodes its base
// block. Plain files are mapped read-only; compressed ones are inflated into
// memory. Close releases the mapping.
func Open(path string, opts Options) (*Hive, error) {
	src, err := source.Load(path, 0)
	if err != nil {
		return nil, err
	}
	h, err := New(src.Data, opts)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	h.release = src.Close
	h.log.Debug("hive opened",
		zap.String("path", path),
		zap.String("compression", string(src.Compression)),
	)
	return h, nil
}
