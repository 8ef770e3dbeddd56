package buf

import (
	"fmt"

	"github.com/joshuapare/hivedigger/pkg/types"
)

// View is a read-only window over a loaded hive. Every read is checked
// against the buffer length and fails with a Bounds error instead of
// panicking, whatever the offset or length.
type View struct {
	b []byte
}

// NewView wraps b. The caller must not mutate b while the View is in use.
func NewView(b []byte) View { return View{b: b} }

// Len returns the number of bytes in the view.
func (v View) Len() int { return len(v.b) }

// Bytes returns the underlying buffer.
func (v View) Bytes() []byte { return v.b }

// Read returns the n bytes starting at off.
func (v View) Read(off, n int) ([]byte, error) {
	s, ok := Slice(v.b, off, n)
	if !ok {
		e := types.New(types.ErrBounds, fmt.Sprintf("read %d bytes", n))
		e.Offset = off
		e.Actual = fmt.Sprintf("buffer of %d bytes", len(v.b))
		e.Expected = fmt.Sprintf("end <= %d", len(v.b))
		return nil, e
	}
	return s, nil
}

// U16 reads a little-endian uint16 at off.
func (v View) U16(off int) (uint16, error) {
	s, err := v.Read(off, 2)
	if err != nil {
		return 0, err
	}
	return U16LE(s), nil
}

// U32 reads a little-endian uint32 at off.
func (v View) U32(off int) (uint32, error) {
	s, err := v.Read(off, 4)
	if err != nil {
		return 0, err
	}
	return U32LE(s), nil
}

// I32 reads a little-endian int32 at off.
func (v View) I32(off int) (int32, error) {
	s, err := v.Read(off, 4)
	if err != nil {
		return 0, err
	}
	return I32LE(s), nil
}

// U64 reads a little-endian uint64 at off.
func (v View) U64(off int) (uint64, error) {
	s, err := v.Read(off, 8)
	if err != nil {
		return 0, err
	}
	return U64LE(s), nil
}
