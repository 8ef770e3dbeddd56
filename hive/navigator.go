package hive

import (
	"go.uber.org/zap"

	"github.com/joshuapare/hivedigger/pkg/types"
)

// navState is a step of a path lookup.
type navState int

const (
	stateStart navState = iota
	stateBaseBlockLoaded
	stateAtKeyNode
	stateValueFound
	stateDataResolved
	stateKeyNotFound
	stateValueNotFound
)

func (s navState) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateBaseBlockLoaded:
		return "base block loaded"
	case stateAtKeyNode:
		return "at key node"
	case stateValueFound:
		return "value found"
	case stateDataResolved:
		return "data resolved"
	case stateKeyNotFound:
		return "key not found"
	case stateValueNotFound:
		return "value not found"
	default:
		return "unknown"
	}
}

// navigator walks one path. It lives for a single lookup, so a Hive can
// serve any number of lookups at once.
type navigator struct {
	h     *Hive
	state navState
}

func (h *Hive) navigate() *navigator {
	return &navigator{h: h, state: stateStart}
}

func (n *navigator) to(s navState, fields ...zap.Field) {
	n.state = s
	if ce := n.h.log.Check(zap.DebugLevel, "navigate"); ce != nil {
		ce.Write(append(fields, zap.Stringer("state", s))...)
	}
}

// key walks path from the root. Depth in a KeyNotFound error is the 1-based
// index of the missing segment.
func (n *navigator) key(path []string) (KeyNode, error) {
	n.to(stateBaseBlockLoaded, zap.Uint32("root", n.h.base.RootCellOffset))
	cur, err := n.h.Root()
	if err != nil {
		return KeyNode{}, err
	}
	n.to(stateAtKeyNode, zap.Uint32("offset", cur.Offset), zap.Int("depth", 0))

	for i, seg := range path {
		if !cur.HasSubkeyList() {
			n.to(stateKeyNotFound, zap.String("name", seg), zap.Int("depth", i+1))
			return KeyNode{}, keyNotFound(seg, i+1)
		}
		off, err := n.h.ResolveChild(cur.SubkeyListOffset, seg)
		if err != nil {
			if types.IsNotFound(err) {
				n.to(stateKeyNotFound, zap.String("name", seg), zap.Int("depth", i+1))
				return KeyNode{}, keyNotFound(seg, i+1)
			}
			return KeyNode{}, err
		}
		if cur, err = n.h.KeyNode(off); err != nil {
			return KeyNode{}, err
		}
		n.to(stateAtKeyNode, zap.Uint32("offset", off), zap.Int("depth", i+1))
	}
	return cur, nil
}

func (n *navigator) value(path []string, name string) (ValueNode, error) {
	k, err := n.key(path)
	if err != nil {
		return ValueNode{}, err
	}
	v, err := n.h.FindValue(k, name)
	if err != nil {
		if types.IsNotFound(err) {
			n.to(stateValueNotFound, zap.String("name", name))
		}
		return ValueNode{}, err
	}
	n.to(stateValueFound, zap.Uint32("offset", v.Offset), zap.Stringer("storage", v.Storage()))
	return v, nil
}

func keyNotFound(name string, depth int) error {
	e := types.New(types.ErrKeyNotFound, "subkey")
	e.Name = name
	e.Depth = depth
	return e
}

// FindKey walks path, a sequence of key names below the root, and returns
// the key it ends at. An empty path yields the root.
func (h *Hive) FindKey(path []string) (KeyNode, error) {
	return h.navigate().key(path)
}

// Value walks path and returns the value called name of the key it ends at.
func (h *Hive) Value(path []string, name string) (ValueNode, error) {
	return h.navigate().value(path, name)
}

// Lookup walks path and returns the data of the value called name. The
// returned slice is never shared with the Hive or an earlier call.
func (h *Hive) Lookup(path []string, name string) ([]byte, error) {
	n := h.navigate()
	v, err := n.value(path, name)
	if err != nil {
		return nil, err
	}
	data, err := h.ValueData(v)
	if err != nil {
		return nil, err
	}
	n.to(stateDataResolved, zap.Int("length", len(data)))
	return data, nil
}
