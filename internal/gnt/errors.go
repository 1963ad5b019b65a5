package gnt

import (
	"errors"
	"fmt"
)

// Sentinel errors for the decoder taxonomy. The typed errors below unwrap to
// these, so callers can classify failures with errors.Is without losing the
// offset detail carried by the concrete types.
var (
	// ErrTruncated reports a stream that ended in the middle of a record.
	// Distinct from io.EOF, which Next returns only at a record boundary.
	ErrTruncated = errors.New("gnt: truncated record")

	// ErrBadLabel reports label bytes that do not form a valid GB2312
	// double-byte sequence.
	ErrBadLabel = errors.New("gnt: invalid label encoding")

	// ErrLengthMismatch reports a declared record size that disagrees with
	// the size implied by the parsed width and height.
	ErrLengthMismatch = errors.New("gnt: declared record size mismatch")
)

// TruncatedError describes a read that ran out of bytes mid-record.
type TruncatedError struct {
	Offset int64  // stream offset where the short field begins
	Field  string // which field was being read
	Need   int    // bytes required
	Got    int    // bytes actually available
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("gnt: truncated record at offset %d: %s needs %d bytes, have %d",
		e.Offset, e.Field, e.Need, e.Got)
}

func (e *TruncatedError) Unwrap() error { return ErrTruncated }

// LabelError describes label bytes that could not be decoded as GB2312.
type LabelError struct {
	Offset int64   // stream offset of the label field
	Raw    [2]byte // the raw code units
	Err    error   // underlying decode failure
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("gnt: invalid label encoding at offset %d (bytes %02X %02X): %v",
		e.Offset, e.Raw[0], e.Raw[1], e.Err)
}

func (e *LabelError) Unwrap() error { return ErrBadLabel }

// LengthMismatchError describes a record whose declared on-disk size does not
// match the size computed from its dimensions. Usually a corrupt file or a
// cursor that is no longer on a record boundary.
type LengthMismatchError struct {
	Offset   int64  // stream offset of the record's length field
	Declared uint32 // value of the length field
	Computed int    // header size plus width*height
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("gnt: record at offset %d declares %d bytes but dimensions require %d",
		e.Offset, e.Declared, e.Computed)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }
