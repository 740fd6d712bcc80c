package codec

import (
	"errors"
	"fmt"
)

// Decode and encode errors, matched with errors.Is.
var (
	// ErrTruncatedBuffer is returned when a read needs more bytes than remain
	ErrTruncatedBuffer = errors.New("truncated buffer")

	// ErrInvalidEncoding is returned when string bytes are not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid UTF-8 encoding")

	// ErrInvalidSize is returned for integer sizes other than 1, 2, 4 or 8
	ErrInvalidSize = errors.New("invalid integer size")

	// ErrOutOfRange is returned when a value does not fit the requested size
	ErrOutOfRange = errors.New("value out of range")

	// ErrStringTooLong is returned when a string exceeds MaxStringLength bytes
	ErrStringTooLong = errors.New("string too long")

	// ErrEndOfEntries is returned by ReadFlightEntry when fewer than
	// FlightEntrySize bytes remain. It wraps ErrTruncatedBuffer.
	ErrEndOfEntries = fmt.Errorf("%w: end of entries", ErrTruncatedBuffer)
)

func truncated(what string, off, need, have int) error {
	return fmt.Errorf("%w: %s at offset %d needs %d bytes, %d remaining", ErrTruncatedBuffer, what, off, need, have)
}
