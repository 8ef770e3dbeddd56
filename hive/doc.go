// Package hive decodes an offline Windows registry hive held in memory.
//
// A Hive wraps the whole file once and never mutates it. Every structure is
// decoded on demand from a cell offset through a single resolver, so a lookup
// re-walks the tree from the root each time and no decoded node outlives the
// call that produced it:
//
//	h, err := hive.New(data, hive.Options{})
//	if err != nil { ... }
//	jd, err := h.Lookup([]string{"CurrentControlSet", "Control", "Lsa"}, "JD")
//
// Errors are *types.Error values. types.IsNotFound separates "key or value
// absent" from the corruption categories, and every corruption error carries
// the file position of the offending structure.
//
// A Hive is safe for concurrent use by multiple goroutines.
package hive
