package device

import (
	"errors"
	"fmt"
)

var (
	// ErrRejected is returned when the device refuses to list or read flights
	ErrRejected = errors.New("request rejected by device")

	// ErrNoResponse is returned when a request got no valid response
	ErrNoResponse = errors.New("no response from device")
)

// DecodeError indicates that a response payload could not be decoded.
type DecodeError struct {
	// Operation is the request whose response failed to decode
	Operation string

	// Field is the value being decoded
	Field string

	// Err is the codec error
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %s: %v", e.Operation, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError returns true if the error is or wraps a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
