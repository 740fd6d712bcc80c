package transport

import "errors"

// ErrWriteFailure is returned when a request frame could not be written in full.
var ErrWriteFailure = errors.New("transport write failure")
