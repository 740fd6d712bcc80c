package transport

import (
	"time"

	"github.com/moffa90/go-ovtoolbox/protocol"
)

// Logger is an optional logging interface that can be provided to the session.
// This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	sess, err := transport.NewSession(port, transport.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

// Observer is notified of link activity. Calls are made synchronously from
// SendRequest; implementations should return quickly.
type Observer interface {
	// RequestSent is called once a request frame has been written
	RequestSent(id protocol.RequestID, frameSize int)

	// ResponseReceived is called with the payload size of a valid response
	ResponseReceived(id protocol.RequestID, payloadSize int, elapsed time.Duration)

	// FrameRejected is called for every rejection of the receive state machine
	FrameRejected(id protocol.RequestID, reason protocol.RejectReason)

	// RequestFailed is called when a request ends without a response
	RequestFailed(id protocol.RequestID, err error)
}
