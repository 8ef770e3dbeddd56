package format

import "unicode"

// nameHashMultiplier is the multiplier of the lh name hash.
const nameHashMultiplier = 37

// NameHash computes the lh hash of a key name: for each character,
// hash = hash*37 + upper(char).
func NameHash(name string) uint32 {
	var hash uint32
	for _, r := range name {
		hash = hash*nameHashMultiplier + uint32(unicode.ToUpper(r))
	}
	return hash
}

// NameHint returns the lf hint of a key name: its first four characters as
// stored, zero padded. Characters outside Latin-1 cannot be hinted and yield
// a zero byte.
func NameHint(name string) [LFHintSize]byte {
	var hint [LFHintSize]byte
	i := 0
	for _, r := range name {
		if i == LFHintSize {
			break
		}
		if r < 0x100 {
			hint[i] = byte(r)
		}
		i++
	}
	return hint
}
