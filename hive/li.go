package hive

// IndexLeaf is an li list: bare key node offsets with nothing to filter on,
// so every entry is decoded and compared.
type IndexLeaf struct{ leaf }

// ResolveChild implements SubkeyList.
func (li IndexLeaf) ResolveChild(h *Hive, name string) (uint32, error) {
	return li.scan(h, name, nil, false)
}
