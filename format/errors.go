// errors.go - Error taxonomy for decoding TPS files
package format

import (
	"errors"
	"fmt"
)

var (
	ErrShortRead = errors.New("short read")
	ErrBadMagic  = errors.New("bad magic marker (wrong password?)")
)

// FormatError is fatal: the header magic or a record layout did not match.
type FormatError struct {
	What   string
	Offset int64
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("format error: %s at offset %#x: %v", e.What, e.Offset, e.Err)
	}
	return fmt.Sprintf("format error: %s at offset %#x", e.What, e.Offset)
}

func (e *FormatError) Unwrap() error { return e.Err }

// CorruptPageError means Stage A or Stage B ran past the page body.
type CorruptPageError struct {
	Ref    uint32
	Offset int
	Reason string
}

func (e *CorruptPageError) Error() string {
	return fmt.Sprintf("corrupt page %#x at body offset %d: %s", e.Ref, e.Offset, e.Reason)
}

// RowSizeMismatchError is reported per row; the scan may continue.
type RowSizeMismatchError struct {
	Table uint32
	RecNo uint32
	Got   int
	Want  int
}

func (e *RowSizeMismatchError) Error() string {
	return fmt.Sprintf("table %d record %d: row is %d bytes, definition says %d",
		e.Table, e.RecNo, e.Got, e.Want)
}

// RowDecodeError means one row's fields failed to decode; the page itself was sound.
type RowDecodeError struct {
	Table uint32
	RecNo uint32
	Err   error
}

func (e *RowDecodeError) Error() string {
	return fmt.Sprintf("table %d record %d: %v", e.Table, e.RecNo, e.Err)
}

func (e *RowDecodeError) Unwrap() error { return e.Err }

type UnknownTableError struct {
	Name string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("unknown table %q", e.Name)
}

// ValidationWarning is an advisory size check; it becomes an error only in fatal mode.
type ValidationWarning struct {
	Check string
	Ref   uint32
	Got   int64
	Want  int64
}

func (w *ValidationWarning) Error() string {
	if w.Ref != 0 {
		return fmt.Sprintf("validation %s (page %#x): got %d, want %d", w.Check, w.Ref, w.Got, w.Want)
	}
	return fmt.Sprintf("validation %s: got %d, want %d", w.Check, w.Got, w.Want)
}
