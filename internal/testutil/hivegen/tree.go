package hivegen

import (
	"github.com/joshuapare/hivedigger/internal/format"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// Storage selects how a Value's data is laid out.
type Storage int

const (
	Auto     Storage = iota // inline up to 4 bytes, one cell up to 16344, else big data
	Inline                  // in the vk offset field
	Indirect                // in a single data cell
	Big                     // in a db record with segment cells
)

// Value is a value to place under a Key.
type Value struct {
	Name    string
	UTF16   bool
	Type    types.RegType
	Data    []byte
	Storage Storage

	// Segments overrides the big-data split. When nil, Data is cut into
	// 16344-byte chunks the way Windows writes them.
	Segments [][]byte
}

// Key is a key to place in the tree.
type Key struct {
	Name  string
	UTF16 bool
	Class string

	// List is the subkey list variant; zero means lf.
	List format.ListKind
	// Leaf is the variant of the lists under an ri; zero means lh.
	Leaf format.ListKind
	// Fanout is the number of children per ri leaf; zero means 2.
	Fanout int

	Keys   []*Key
	Values []*Value
}

// Build lays out the tree rooted at root and returns the file image.
func Build(root *Key) []byte {
	b := NewBuilder()
	return b.Bytes(b.Tree(root))
}

// Tree appends root and everything below it and returns the root's offset.
func (b *Builder) Tree(root *Key) uint32 {
	return b.key(root, format.InvalidOffset, format.NKFlagRoot)
}

func (b *Builder) key(k *Key, parent uint32, flags uint16) uint32 {
	children := make([]uint32, len(k.Keys))
	for i, c := range k.Keys {
		children[i] = b.key(c, 0, 0)
	}

	nk := NK{
		Name:       k.Name,
		UTF16:      k.UTF16,
		Flags:      flags,
		Parent:     parent,
		SubkeyList: format.InvalidOffset,
		ValueList:  format.InvalidOffset,
		Class:      format.InvalidOffset,
	}
	if len(children) > 0 {
		nk.SubkeyCount = uint32(len(children))
		nk.SubkeyList = b.subkeyList(k, children)
	}
	if len(k.Values) > 0 {
		vks := make([]uint32, len(k.Values))
		for i, v := range k.Values {
			vks[i] = b.value(v)
		}
		nk.ValueCount = uint32(len(vks))
		nk.ValueList = b.Cell(OffsetsPayload(vks))
	}
	if k.Class != "" {
		class := EncodeUTF16(k.Class)
		nk.Class = b.Cell(class)
		nk.ClassLen = uint16(len(class))
	}
	off := b.Cell(nk.Payload())
	for _, c := range children {
		b.PatchU32(c, format.NKParentOffset, off)
	}
	return off
}

func (b *Builder) subkeyList(k *Key, children []uint32) uint32 {
	kind := k.List
	if kind == 0 {
		kind = format.ListLF
	}
	if kind != format.ListRI {
		return b.Cell(ListPayload(kind, entries(kind, k.Keys, children)))
	}

	leaf := k.Leaf
	if leaf == 0 {
		leaf = format.ListLH
	}
	fanout := k.Fanout
	if fanout <= 0 {
		fanout = 2
	}
	var leaves []Entry
	for start := 0; start < len(children); start += fanout {
		end := min(start+fanout, len(children))
		off := b.Cell(ListPayload(leaf, entries(leaf, k.Keys[start:end], children[start:end])))
		leaves = append(leaves, Entry{Offset: off})
	}
	return b.Cell(ListPayload(format.ListRI, leaves))
}

func entries(kind format.ListKind, keys []*Key, offs []uint32) []Entry {
	out := make([]Entry, len(offs))
	for i, off := range offs {
		out[i].Offset = off
		switch kind {
		case format.ListLF:
			out[i].Tag = HintTag(keys[i].Name)
		case format.ListLH:
			out[i].Tag = format.NameHash(keys[i].Name)
		}
	}
	return out
}

func (b *Builder) value(v *Value) uint32 {
	vk := VK{Name: v.Name, UTF16: v.UTF16, Type: uint32(v.Type)}
	storage := v.Storage
	if storage == Auto {
		switch {
		case len(v.Data) <= format.VKInlineMax:
			storage = Inline
		case len(v.Data) <= format.DBChunkSize:
			storage = Indirect
		default:
			storage = Big
		}
	}

	switch storage {
	case Inline:
		var field [format.VKInlineMax]byte
		copy(field[:], v.Data)
		vk.DataLen = format.VKDataInlineBit | uint32(len(v.Data))
		vk.DataOff = uint32(field[0]) | uint32(field[1])<<8 | uint32(field[2])<<16 | uint32(field[3])<<24
	case Indirect:
		vk.DataLen = uint32(len(v.Data))
		vk.DataOff = b.Cell(v.Data)
	case Big:
		segs := v.Segments
		if segs == nil {
			segs = split(v.Data, format.DBChunkSize)
		}
		offs := make([]uint32, len(segs))
		total := 0
		for i, s := range segs {
			offs[i] = b.Cell(s)
			total += len(s)
		}
		list := b.Cell(OffsetsPayload(offs))
		vk.DataLen = uint32(total)
		vk.DataOff = b.Cell(DBPayload(uint16(len(segs)), list))
	}
	return b.Cell(vk.Payload())
}

func split(data []byte, n int) [][]byte {
	var out [][]byte
	for len(data) > n {
		out = append(out, data[:n])
		data = data[n:]
	}
	return append(out, data)
}
