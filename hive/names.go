package hive

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// decodeName converts a stored key or value name to UTF-8. Compressed names
// hold one Windows-1252 byte per character; the rest are UTF-16LE.
func decodeName(raw []byte, compressed bool) string {
	if len(raw) == 0 {
		return ""
	}
	if compressed {
		if isASCII(raw) {
			return string(raw)
		}
		out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return string(raw)
		}
		return string(out)
	}
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// namesEqual compares registry names the way Windows does: without regard
// to case.
func namesEqual(stored, target string) bool {
	return strings.EqualFold(stored, target)
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
