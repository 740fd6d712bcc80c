package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when no byte arrives within the read timeout
	ErrTimeout = errors.New("timeout waiting for response")

	// ErrPayloadTooLarge is returned when a payload exceeds MaxPayloadSize
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrInvalidFrame is wrapped by every FramingError
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrIncompleteFrame is returned by ParseFrame when more bytes are needed
	ErrIncompleteFrame = errors.New("incomplete frame")
)

// RejectReason tells why a frame was rejected.
type RejectReason int

// Frame rejection reasons.
const (
	// RejectSync is a byte not matching the start marker
	RejectSync RejectReason = iota + 1

	// RejectRequestID is a request id other than the pending request
	RejectRequestID

	// RejectLength is a declared payload length out of range
	RejectLength

	// RejectChecksum is a checksum mismatch
	RejectChecksum
)

func (r RejectReason) String() string {
	switch r {
	case RejectSync:
		return "sync"
	case RejectRequestID:
		return "request_id"
	case RejectLength:
		return "length"
	case RejectChecksum:
		return "checksum"
	default:
		return fmt.Sprintf("reason_%d", int(r))
	}
}

// FramingError describes a rejected frame.
// The receiver reports it and resynchronizes; it never ends a receive.
type FramingError struct {
	// Reason is the rejection cause
	Reason RejectReason

	// RequestID is the id of the pending request
	RequestID RequestID

	// Got is the received value (byte, length or checksum)
	Got uint16

	// Want is the expected value, or the limit for RejectLength
	Want uint16
}

func (e *FramingError) Error() string {
	switch e.Reason {
	case RejectSync:
		return fmt.Sprintf("%s: sync mismatch: got 0x%02X, expected 0x%02X", e.RequestID, e.Got, e.Want)
	case RejectRequestID:
		return fmt.Sprintf("%s: request id mismatch: got 0x%02X", e.RequestID, e.Got)
	case RejectLength:
		return fmt.Sprintf("%s: invalid length %d, must be %d to %d", e.RequestID, e.Got, MinPayloadSize, e.Want)
	case RejectChecksum:
		return fmt.Sprintf("%s: checksum mismatch: got 0x%04X, expected 0x%04X", e.RequestID, e.Got, e.Want)
	default:
		return fmt.Sprintf("%s: frame rejected (%s)", e.RequestID, e.Reason)
	}
}

// Unwrap makes every FramingError match ErrInvalidFrame.
func (e *FramingError) Unwrap() error {
	return ErrInvalidFrame
}

// IsFramingError returns true if the error is or wraps a FramingError.
func IsFramingError(err error) bool {
	var fe *FramingError
	return errors.As(err, &fe)
}
