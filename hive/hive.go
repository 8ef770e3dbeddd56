package hive

import (
	"go.uber.org/zap"

	"github.com/joshuapare/hivedigger/internal/buf"
	"github.com/joshuapare/hivedigger/internal/format"
)

// Hive is a loaded hive. It only reads from the buffer it was given.
type Hive struct {
	view    buf.View
	base    BaseBlock
	opts    Options
	bins    []binExtent
	log     *zap.Logger
	release func() error
}

// New decodes the base block of data and returns a Hive over it. The caller
// must not modify data while the Hive is in use.
func New(data []byte, opts Options) (*Hive, error) {
	opts = opts.withDefaults()
	view := buf.NewView(data)
	base, err := DecodeBaseBlock(view)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("base block loaded",
		zap.Int("size", view.Len()),
		zap.Uint32("major", base.MajorVersion),
		zap.Uint32("minor", base.MinorVersion),
		zap.Uint32("root", base.RootCellOffset),
		zap.Bool("checksum_ok", base.ChecksumOK()),
		zap.Bool("clean", base.IsClean()),
	)
	bins := indexBins(data, opts.Logger)
	return &Hive{view: view, base: base, opts: opts, bins: bins, log: opts.Logger}, nil
}

// BaseBlock returns the decoded base block.
func (h *Hive) BaseBlock() BaseBlock { return h.base }

// Bytes returns the underlying file image.
func (h *Hive) Bytes() []byte { return h.view.Bytes() }

// Size returns the file size in bytes.
func (h *Hive) Size() int { return h.view.Len() }

// Root decodes the root key node.
func (h *Hive) Root() (KeyNode, error) {
	return h.KeyNode(h.base.RootCellOffset)
}

// bigDataEnabled reports whether values of length n may be stored as db
// records in this hive version.
func (h *Hive) bigDataEnabled(n int) bool {
	return h.base.MinorVersion > format.REGFBigDataMinorVersion && n > format.DBChunkSize
}

// Close releases the file mapping of a Hive returned by Open. It is a no-op
// for a Hive built with New.
func (h *Hive) Close() error {
	if h == nil || h.release == nil {
		return nil
	}
	release := h.release
	h.release = nil
	return release()
}
