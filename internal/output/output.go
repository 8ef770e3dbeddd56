// Package output renders extracted value data and hive summaries for the
// command line.
package output

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/joshuapare/hivedigger/pkg/types"
)

// DefaultValueName is how the unnamed default value is shown.
const DefaultValueName = "(default)"

// Format selects how value data is written.
type Format string

const (
	// FormatRaw writes the data bytes unchanged.
	FormatRaw Format = "raw"

	// FormatHex writes lowercase hex, one value per line.
	FormatHex Format = "hex"

	// FormatJSON writes one JSON object per value, with a sha256 digest of
	// the data.
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatRaw, FormatHex, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want raw, hex or json)", s)
	}
}

// Value is one extracted value.
type Value struct {
	Source string // hive file the value came from
	Key    string
	Name   string
	Type   types.RegType // REG_NONE is left out of JSON output
	Data   []byte
}

// Printer writes values and summaries in one format.
type Printer struct {
	w      io.Writer
	format Format

	// Labeled prefixes hex output with the source, for runs over several
	// hives.
	Labeled bool
}

// New returns a Printer writing to w.
func New(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// Format returns the printer's format.
func (p *Printer) Format() Format { return p.format }

// Value writes v.
func (p *Printer) Value(v Value) error {
	switch p.format {
	case FormatRaw:
		_, err := p.w.Write(v.Data)
		return err
	case FormatJSON:
		return writeJSON(p.w, jsonValue{
			Source: v.Source,
			Key:    v.Key,
			Name:   displayName(v.Name),
			Type:   typeName(v.Type),
			Length: len(v.Data),
			Hex:    hex.EncodeToString(v.Data),
			Digest: digest.FromBytes(v.Data).String(),
		})
	default:
		if p.Labeled {
			_, err := fmt.Fprintf(p.w, "%s: %s\n", v.Source, hex.EncodeToString(v.Data))
			return err
		}
		_, err := fmt.Fprintln(p.w, hex.EncodeToString(v.Data))
		return err
	}
}

// Failure reports a per-source error in the printer's format. Raw output has
// no place for it and writes nothing.
func (p *Printer) Failure(source string, err error) error {
	switch p.format {
	case FormatJSON:
		return writeJSON(p.w, jsonFailure{Source: source, Error: err.Error()})
	case FormatHex:
		_, werr := fmt.Fprintf(p.w, "%s: error: %v\n", source, err)
		return werr
	default:
		return nil
	}
}

func typeName(t types.RegType) string {
	if t == types.REG_NONE {
		return ""
	}
	return t.String()
}

func displayName(name string) string {
	if name == "" {
		return DefaultValueName
	}
	return name
}
