package hive

import (
	"github.com/joshuapare/hivedigger/internal/format"
)

// HashLeaf is an lh list. Each entry carries a hash of the child's name;
// only entries whose hash equals the target's are decoded.
type HashLeaf struct{ leaf }

// ResolveChild implements SubkeyList.
func (lh HashLeaf) ResolveChild(h *Hive, name string) (uint32, error) {
	want := format.NameHash(name)
	return lh.scan(h, name, func(i int) bool {
		return lh.list.Tag(i) == want
	}, h.opts.HintFallback)
}
