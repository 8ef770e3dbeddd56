package hive

import (
	"github.com/joshuapare/hivedigger/internal/format"
)

// FastLeaf is an lf list. Each entry carries the first four characters of
// the child's name; only entries whose hint matches are decoded.
type FastLeaf struct{ leaf }

// ResolveChild implements SubkeyList.
func (lf FastLeaf) ResolveChild(h *Hive, name string) (uint32, error) {
	want := format.NameHint(name)
	return lf.scan(h, name, func(i int) bool {
		return hintMatches(lf.list.Hint(i), want)
	}, h.opts.HintFallback)
}

// hintMatches compares a stored hint with the hint of the target name,
// folding ASCII case.
func hintMatches(stored []byte, want [format.LFHintSize]byte) bool {
	if len(stored) != len(want) {
		return false
	}
	for i := range want {
		if upperASCII(stored[i]) != upperASCII(want[i]) {
			return false
		}
	}
	return true
}

func upperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
