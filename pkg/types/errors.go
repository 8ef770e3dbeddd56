package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat   ErrKind = iota // bad signature, unsupported format, unknown structure tag
	ErrKindOffset                  // offset or size outside the buffer (hive corruption)
	ErrKindNotFound                // missing key or value
	ErrKindData                    // truncated or invalid value data
	ErrKindState                   // caller or environment problem (IO, closed handle)
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindFormat:
		return "format"
	case ErrKindOffset:
		return "offset"
	case ErrKindNotFound:
		return "not found"
	case ErrKindData:
		return "data"
	case ErrKindState:
		return "state"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NoOffset marks an Error that is not tied to a file position.
const NoOffset = -1

// Error is a typed error with forensic context and an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string

	// Offset is the absolute file position of the offending structure, or NoOffset.
	Offset int

	// Expected and Actual describe a signature or size mismatch when relevant.
	Expected string
	Actual   string

	// Name and Depth identify the missing path segment for navigation failures.
	Name  string
	Depth int

	Err error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.Name != "" {
		fmt.Fprintf(&b, " %q", e.Name)
		if e.Depth > 0 {
			fmt.Fprintf(&b, " (depth %d)", e.Depth)
		}
	}
	if e.Offset != NoOffset {
		fmt.Fprintf(&b, " at 0x%X", e.Offset)
	}
	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&b, ": expected %s, got %s", e.Expected, e.Actual)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels. Concrete errors wrap one of these in Err, so errors.Is works
// through any amount of context.
var (
	// ErrBadSignature indicates the file does not start with "regf".
	ErrBadSignature = &Error{Kind: ErrKindFormat, Msg: "bad regf signature", Offset: NoOffset}
	// ErrUnsupportedFormat indicates a base block whose format is not "direct memory load".
	ErrUnsupportedFormat = &Error{Kind: ErrKindFormat, Msg: "unsupported hive format", Offset: NoOffset}
	// ErrBadChecksum indicates a base block whose stored checksum is wrong. Only
	// strict validation reports it.
	ErrBadChecksum = &Error{Kind: ErrKindFormat, Msg: "base block checksum mismatch", Offset: NoOffset}
	// ErrBadNodeSignature indicates a cell that should hold a record has the wrong tag.
	ErrBadNodeSignature = &Error{Kind: ErrKindFormat, Msg: "bad record signature", Offset: NoOffset}
	// ErrUnknownListTag indicates a subkey list cell with a tag other than li/lf/lh/ri.
	ErrUnknownListTag = &Error{Kind: ErrKindFormat, Msg: "unknown subkey list tag", Offset: NoOffset}

	// ErrBounds indicates a read past the end of the loaded buffer.
	ErrBounds = &Error{Kind: ErrKindOffset, Msg: "read out of bounds", Offset: NoOffset}
	// ErrOutOfBounds indicates a cell offset or cell extent outside the file.
	ErrOutOfBounds = &Error{Kind: ErrKindOffset, Msg: "cell out of bounds", Offset: NoOffset}
	// ErrInvalidCellSize indicates a zero or impossibly small cell size.
	ErrInvalidCellSize = &Error{Kind: ErrKindOffset, Msg: "zero or invalid cell size", Offset: NoOffset}

	// ErrKeyNotFound indicates a path segment with no matching subkey.
	ErrKeyNotFound = &Error{Kind: ErrKindNotFound, Msg: "key not found", Offset: NoOffset}
	// ErrValueNotFound indicates a key with no value of the requested name.
	ErrValueNotFound = &Error{Kind: ErrKindNotFound, Msg: "value not found", Offset: NoOffset}

	// ErrTruncatedCell indicates a data cell smaller than the declared value length.
	ErrTruncatedCell = &Error{Kind: ErrKindData, Msg: "data cell truncated", Offset: NoOffset}
	// ErrSegmentOutOfBounds indicates an invalid big-data segment offset.
	ErrSegmentOutOfBounds = &Error{Kind: ErrKindData, Msg: "big data segment out of bounds", Offset: NoOffset}
	// ErrInlineLength indicates an inline value declaring more than 4 bytes.
	ErrInlineLength = &Error{Kind: ErrKindData, Msg: "inline data length exceeds field", Offset: NoOffset}
	// ErrBadValueData indicates value or class data that does not have the
	// shape its consumer requires (a short DWORD, a non-hex class name).
	ErrBadValueData = &Error{Kind: ErrKindData, Msg: "malformed value data", Offset: NoOffset}
)

// KindOf reports the category of the first *Error in err's chain.
func KindOf(err error) (ErrKind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Kind, true
}

// IsNotFound reports whether err means "absent" rather than "broken".
func IsNotFound(err error) bool {
	k, ok := KindOf(err)
	return ok && k == ErrKindNotFound
}

// IsCorrupt reports whether err describes a malformed hive.
func IsCorrupt(err error) bool {
	k, ok := KindOf(err)
	return ok && (k == ErrKindFormat || k == ErrKindOffset || k == ErrKindData)
}

// New returns an Error of the sentinel's kind that wraps the sentinel.
func New(sentinel *Error, msg string) *Error {
	return &Error{Kind: sentinel.Kind, Msg: msg, Offset: NoOffset, Err: sentinel}
}

// Newf is New with a formatted message.
func Newf(sentinel *Error, format string, args ...any) *Error {
	return New(sentinel, fmt.Sprintf(format, args...))
}

// AtOffset returns err with its file position set to off. Errors that already
// carry a position are returned unchanged, so the innermost location wins.
// Errors outside this package are returned as is.
func AtOffset(err error, off int) error {
	var e *Error
	if !errors.As(err, &e) || e.Offset != NoOffset {
		return err
	}
	if direct, ok := err.(*Error); ok && !isSentinel(direct) {
		cp := *direct
		cp.Offset = off
		return &cp
	}
	return &Error{Kind: e.Kind, Msg: e.Msg, Offset: off, Err: err}
}

func isSentinel(e *Error) bool {
	switch e {
	case ErrBadSignature, ErrUnsupportedFormat, ErrBadChecksum, ErrBadNodeSignature, ErrUnknownListTag,
		ErrBounds, ErrOutOfBounds, ErrInvalidCellSize,
		ErrKeyNotFound, ErrValueNotFound,
		ErrTruncatedCell, ErrSegmentOutOfBounds, ErrInlineLength, ErrBadValueData:
		return true
	}
	return false
}
