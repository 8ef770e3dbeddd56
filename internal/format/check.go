package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivedigger/pkg/types"
)

// checkSig verifies the payload starts with want. A payload too short to hold
// the tag is reported as a record overrunning its cell.
func checkSig(b, want []byte, record string) error {
	if len(b) < len(want) {
		return short(record, len(want), len(b))
	}
	if !bytes.Equal(b[:len(want)], want) {
		e := types.New(types.ErrBadNodeSignature, record)
		e.Expected = fmt.Sprintf("%q", want)
		e.Actual = fmt.Sprintf("%q", b[:len(want)])
		return e
	}
	return nil
}

// short reports a record whose fixed or variable part runs past its cell.
func short(record string, need, have int) error {
	e := types.New(types.ErrOutOfBounds, record+" exceeds cell")
	e.Expected = fmt.Sprintf(">= %d bytes", need)
	e.Actual = fmt.Sprintf("%d bytes", have)
	return e
}
