// Package syskey reads the syskey material of an offline SYSTEM hive.
//
// Extract returns the data of value JD under CurrentControlSet\Control\Lsa.
// BootKey derives the 16-byte boot key from the class names of the Lsa
// subkeys JD, Skew1, GBG and Data.
package syskey

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/joshuapare/hivedigger/hive"
	"github.com/joshuapare/hivedigger/internal/buf"
	"github.com/joshuapare/hivedigger/pkg/types"
)

const (
	// ValueName is the value Extract reads.
	ValueName = "JD"

	currentControlSet = "CurrentControlSet"
	selectKey         = "Select"
	selectCurrent     = "Current"
)

// lsaPath is the key below the root holding the syskey material.
var lsaPath = []string{currentControlSet, "Control", "Lsa"}

// bootKeyParts are the Lsa subkeys whose class names make up the scrambled
// boot key, in order.
var bootKeyParts = []string{"JD", "Skew1", "GBG", "Data"}

// permutation maps boot key byte i to scrambled byte permutation[i].
var permutation = [16]int{8, 5, 4, 2, 11, 9, 13, 3, 0, 6, 1, 12, 14, 10, 15, 7}

// Hive is what the syskey readers need from a decoded hive.
type Hive interface {
	FindKey(path []string) (hive.KeyNode, error)
	Value(path []string, name string) (hive.ValueNode, error)
	ValueData(v hive.ValueNode) ([]byte, error)
	Lookup(path []string, name string) ([]byte, error)
	ClassString(k hive.KeyNode) (string, error)
}

// Options controls path resolution.
type Options struct {
	// ResolveControlSet retries a lookup through ControlSetNNN, as named by
	// Select\Current, when the hive has no CurrentControlSet key. Offline
	// hives never do: the key is a link Windows creates at boot.
	ResolveControlSet bool
}

// DefaultOptions returns the options the CLI starts from.
func DefaultOptions() Options {
	return Options{ResolveControlSet: true}
}

// Syskey is the extracted JD value.
type Syskey struct {
	Path []string // key the value was read from, below the root
	Type types.RegType
	Data []byte
}

// Key returns Path joined with backslashes.
func (s Syskey) Key() string {
	return strings.Join(s.Path, `\`)
}

// Extract returns the JD value under CurrentControlSet\Control\Lsa.
func Extract(h Hive, opts Options) (Syskey, error) {
	path := lsaPath
	v, err := h.Value(path, ValueName)
	if err != nil {
		if !opts.ResolveControlSet || !missingControlSet(err) {
			return Syskey{}, err
		}
		if path, err = resolvedLsaPath(h); err != nil {
			return Syskey{}, err
		}
		if v, err = h.Value(path, ValueName); err != nil {
			return Syskey{}, err
		}
	}
	data, err := h.ValueData(v)
	if err != nil {
		return Syskey{}, err
	}
	return Syskey{Path: path, Type: v.RegType(), Data: data}, nil
}

// BootKey derives the boot key from the class names of the Lsa subkeys.
func BootKey(h Hive, opts Options) ([]byte, error) {
	path := lsaPath
	if _, err := h.FindKey(path); err != nil {
		if !opts.ResolveControlSet || !missingControlSet(err) {
			return nil, err
		}
		if path, err = resolvedLsaPath(h); err != nil {
			return nil, err
		}
	}

	scrambled := make([]byte, 0, len(permutation))
	for _, part := range bootKeyParts {
		k, err := h.FindKey(append(path[:len(path):len(path)], part))
		if err != nil {
			return nil, err
		}
		class, err := h.ClassString(k)
		if err != nil {
			return nil, err
		}
		b, err := hex.DecodeString(strings.TrimRight(class, "\x00"))
		if err != nil || len(b) != 4 {
			e := types.New(types.ErrBadValueData, "boot key class name")
			e.Name = part
			e.Expected = "8 hex digits"
			e.Actual = fmt.Sprintf("%q", class)
			return nil, e
		}
		scrambled = append(scrambled, b...)
	}

	key := make([]byte, len(permutation))
	for i, j := range permutation {
		key[i] = scrambled[j]
	}
	return key, nil
}

// CurrentControlSet returns the name of the control set Select\Current
// points at, e.g. "ControlSet001".
func CurrentControlSet(h Hive) (string, error) {
	data, err := h.Lookup([]string{selectKey}, selectCurrent)
	if err != nil {
		return "", err
	}
	if len(data) < 4 {
		e := types.New(types.ErrBadValueData, `Select\Current`)
		e.Name = selectCurrent
		e.Expected = "4-byte DWORD"
		e.Actual = fmt.Sprintf("%d bytes", len(data))
		return "", e
	}
	return fmt.Sprintf("ControlSet%03d", buf.U32LE(data)), nil
}

func resolvedLsaPath(h Hive) ([]string, error) {
	cs, err := CurrentControlSet(h)
	if err != nil {
		return nil, err
	}
	return append([]string{cs}, lsaPath[1:]...), nil
}

// missingControlSet reports whether err says the first path segment,
// CurrentControlSet, is absent.
func missingControlSet(err error) bool {
	var e *types.Error
	if !types.IsNotFound(err) || !errors.As(err, &e) {
		return false
	}
	return e.Depth == 1 && strings.EqualFold(e.Name, currentControlSet)
}
