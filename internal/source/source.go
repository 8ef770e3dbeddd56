// Package source loads a hive file into memory. Plain files are mapped
// read-only; gzip, zstd, xz and bzip2 archives of a hive (the usual shape of
// collected evidence) are decompressed into a buffer first.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/joshuapare/hivedigger/internal/mmfile"
)

// Compression identifies the container a hive was read from.
type Compression string

const (
	None  Compression = "none"
	Gzip  Compression = "gzip"
	Zstd  Compression = "zstd"
	XZ    Compression = "xz"
	Bzip2 Compression = "bzip2"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// DefaultMaxSize bounds decompressed output. Windows refuses hives over 2 GiB.
const DefaultMaxSize = 2 << 30

// ErrTooLarge is returned when decompressed data exceeds the size limit.
var ErrTooLarge = errors.New("source: decompressed hive exceeds size limit")

var magics = []struct {
	c     Compression
	magic []byte
}{
	{Gzip, []byte{0x1f, 0x8b}},
	{Zstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{XZ, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
	{Bzip2, []byte{'B', 'Z', 'h'}},
}

// Source is a loaded hive image.
type Source struct {
	Path        string
	Data        []byte
	Compression Compression
	release     func() error
}

// Close releases the mapping, if any. Data must not be used afterwards.
func (s *Source) Close() error {
	if s == nil || s.release == nil {
		return nil
	}
	release := s.release
	s.release = nil
	return release()
}

// Detect reports the compression of b from its leading bytes.
func Detect(b []byte) Compression {
	for _, m := range magics {
		if bytes.HasPrefix(b, m.magic) {
			return m.c
		}
	}
	return None
}

// Load reads the hive at path ("-" for stdin). maxSize bounds decompressed
// output; zero means DefaultMaxSize.
func Load(path string, maxSize int64) (*Source, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if path == Stdin {
		data, err := io.ReadAll(io.LimitReader(os.Stdin, maxSize+1))
		if err != nil {
			return nil, fmt.Errorf("source: read stdin: %w", err)
		}
		return fromBytes(path, data, maxSize)
	}

	data, release, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	c := Detect(data)
	if c == None {
		return &Source{Path: path, Data: data, Compression: None, release: release}, nil
	}
	out, err := decompress(c, data, maxSize)
	if rerr := release(); err == nil && rerr != nil {
		err = rerr
	}
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", path, err)
	}
	return &Source{Path: path, Data: out, Compression: c}, nil
}

func fromBytes(path string, data []byte, maxSize int64) (*Source, error) {
	c := Detect(data)
	if c == None {
		if int64(len(data)) > maxSize {
			return nil, ErrTooLarge
		}
		return &Source{Path: path, Data: data, Compression: None}, nil
	}
	out, err := decompress(c, data, maxSize)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", path, err)
	}
	return &Source{Path: path, Data: out, Compression: c}, nil
}

func decompress(c Compression, data []byte, maxSize int64) ([]byte, error) {
	r, closeFn, err := newReader(c, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	defer closeFn()

	out, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	if int64(len(out)) > maxSize {
		return nil, ErrTooLarge
	}
	return out, nil
}

func newReader(c Compression, r io.Reader) (io.Reader, func(), error) {
	switch c {
	case Gzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, func() { _ = gz.Close() }, nil
	case Zstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	case XZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xr, func() {}, nil
	case Bzip2:
		br, err := bzip2.NewReader(r, nil)
		if err != nil {
			return nil, nil, err
		}
		return br, func() { _ = br.Close() }, nil
	}
	return r, func() {}, nil
}
