package output

import (
	"fmt"
	"sort"
	"time"
)

// Summary describes a hive file for the info command.
type Summary struct {
	Source     string         `json:"source"`
	Size       int            `json:"size"`
	Version    string         `json:"version"`
	FileName   string         `json:"file_name"`
	LastWrite  time.Time      `json:"last_write"`
	Root       string         `json:"root"`
	ChecksumOK bool           `json:"checksum_ok"`
	Clean      bool           `json:"clean"`
	Problem    string         `json:"problem,omitempty"`
	Bins       int            `json:"bins"`
	Allocated  int            `json:"allocated_cells"`
	Free       int            `json:"free_cells"`
	FreeBytes  int            `json:"free_bytes"`
	Records    map[string]int `json:"records"`
}

// Summary writes s. Raw and hex both get the text layout.
func (p *Printer) Summary(s Summary) error {
	if p.format == FormatJSON {
		return writeJSON(p.w, s)
	}
	lines := []struct {
		k string
		v any
	}{
		{"File", s.Source},
		{"Size", fmt.Sprintf("%d bytes", s.Size)},
		{"Version", s.Version},
		{"Name", s.FileName},
		{"Last write", s.LastWrite.UTC().Format(time.RFC3339)},
		{"Root key", s.Root},
		{"Checksum", okWord(s.ChecksumOK, "ok", "mismatch")},
		{"Sequence", okWord(s.Clean, "clean", "dirty")},
		{"Bins", s.Bins},
		{"Allocated cells", s.Allocated},
		{"Free cells", fmt.Sprintf("%d (%d bytes)", s.Free, s.FreeBytes)},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(p.w, "%-16s %v\n", l.k+":", l.v); err != nil {
			return err
		}
	}
	tags := make([]string, 0, len(s.Records))
	for tag := range s.Records {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		if _, err := fmt.Fprintf(p.w, "  %-14s %d\n", tag, s.Records[tag]); err != nil {
			return err
		}
	}
	if s.Problem != "" {
		if _, err := fmt.Fprintf(p.w, "%-16s %s\n", "Problem:", s.Problem); err != nil {
			return err
		}
	}
	return nil
}

// Entry is one line of a key listing.
type Entry struct {
	Kind   string `json:"kind"` // "key" or "value"
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Length int    `json:"length,omitempty"`
}

// Listing writes the subkeys and values of a key.
func (p *Printer) Listing(entries []Entry) error {
	if p.format == FormatJSON {
		if entries == nil {
			entries = []Entry{}
		}
		return writeJSON(p.w, entries)
	}
	for _, e := range entries {
		var err error
		if e.Kind == "key" {
			_, err = fmt.Fprintf(p.w, "%s\\\n", e.Name)
		} else {
			_, err = fmt.Fprintf(p.w, "%s\t%s\t%d\n", displayName(e.Name), e.Type, e.Length)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func okWord(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
