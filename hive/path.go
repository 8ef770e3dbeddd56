package hive

import (
	"strings"
)

// rootAliases are the predefined key names a caller may put in front of a
// path. A hive file has no notion of them.
var rootAliases = []string{
	"HKEY_LOCAL_MACHINE", "HKLM",
	"HKEY_CLASSES_ROOT", "HKCR",
	"HKEY_CURRENT_USER", "HKCU",
	"HKEY_USERS", "HKU",
	"HKEY_CURRENT_CONFIG", "HKCC",
}

// SplitPath turns a textual key path into segments. Both `\` and `/`
// separate segments, empty segments are dropped, and a leading predefined
// key (HKLM, HKEY_LOCAL_MACHINE, ...) is removed. Segments are kept as
// given: key names may start or end with spaces.
func SplitPath(path string) []string {
	path = strings.ReplaceAll(path, "/", `\`)
	path = stripRootAlias(path)
	var out []string
	for _, p := range strings.Split(path, `\`) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func stripRootAlias(path string) string {
	trimmed := strings.TrimPrefix(path, `\`)
	upper := strings.ToUpper(trimmed)
	for _, alias := range rootAliases {
		if upper == alias {
			return ""
		}
		if strings.HasPrefix(upper, alias+`\`) {
			return trimmed[len(alias)+1:]
		}
	}
	return path
}

// FindKeyPath is FindKey over a textual path. A first segment naming the
// root key itself is skipped, so both `Control\Lsa` and `SYSTEM\Control\Lsa`
// work when the root is called SYSTEM.
func (h *Hive) FindKeyPath(path string) (KeyNode, error) {
	segs, err := h.trimRootSegment(SplitPath(path))
	if err != nil {
		return KeyNode{}, err
	}
	return h.FindKey(segs)
}

// LookupPath is Lookup over a textual path, with the same root handling as
// FindKeyPath.
func (h *Hive) LookupPath(path, value string) ([]byte, error) {
	segs, err := h.trimRootSegment(SplitPath(path))
	if err != nil {
		return nil, err
	}
	return h.Lookup(segs, value)
}

func (h *Hive) trimRootSegment(segs []string) ([]string, error) {
	if len(segs) == 0 {
		return segs, nil
	}
	root, err := h.Root()
	if err != nil {
		return nil, err
	}
	if root.NameEquals(segs[0]) {
		return segs[1:], nil
	}
	return segs, nil
}
