package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/moffa90/go-ovtoolbox/protocol"
)

// Port is the byte stream a Session talks over. go.bug.st/serial ports
// satisfy it: Read returns 0, nil when the read timeout expires.
type Port interface {
	io.ReadWriter

	// SetReadTimeout bounds every subsequent Read
	SetReadTimeout(t time.Duration) error

	// ResetInputBuffer discards received bytes not read yet
	ResetInputBuffer() error
}

// Session issues requests over a Port one at a time, pairing each request
// with exactly one response frame.
//
// Session is safe for concurrent use; requests are serialized.
type Session struct {
	port   Port
	config Config
	reader *portReader

	mu sync.Mutex
}

// NewSession creates a Session over port. It applies the read timeout and
// discards any input already buffered by the port.
//
// Example:
//
//	port, _ := serial.Open("/dev/ttyACM0", &serial.Mode{BaudRate: 115200})
//	sess, err := transport.NewSession(port,
//	    transport.WithLogger(myLogger),
//	    transport.WithReadTimeout(2*time.Second),
//	)
func NewSession(port Port, opts ...Option) (*Session, error) {
	if port == nil {
		return nil, fmt.Errorf("port cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		return nil, fmt.Errorf("reset input buffer: %w", err)
	}

	return &Session{
		port:   port,
		config: cfg,
		reader: &portReader{port: port},
	}, nil
}

// SendRequest writes a request frame and waits for the response carrying
// the same request id. Input received before the call is discarded first.
//
// A frame that could not be written in full is reported as ErrWriteFailure.
// A missing response is reported as protocol.ErrTimeout.
//
// Example:
//
//	payload, err := sess.SendRequest(ctx, protocol.ReqDeviceInfo, nil)
//	if errors.Is(err, protocol.ErrTimeout) {
//	    // device did not answer
//	}
func (s *Session) SendRequest(ctx context.Context, id protocol.RequestID, payload []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cancelled: %w", err)
	}

	frame, err := protocol.BuildFrame(id, payload)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", id, err)
	}

	// Stale bytes must not be mistaken for the response
	if err := s.port.ResetInputBuffer(); err != nil {
		return nil, fmt.Errorf("reset input buffer: %w", err)
	}
	s.reader.reset()

	startTime := time.Now()

	n, err := s.port.Write(frame)
	if err != nil {
		err = fmt.Errorf("%w: %s request: %w", ErrWriteFailure, id, err)
		s.fail(id, err)
		return nil, err
	}
	if n != len(frame) {
		err = fmt.Errorf("%w: %s request: wrote %d of %d bytes", ErrWriteFailure, id, n, len(frame))
		s.fail(id, err)
		return nil, err
	}

	s.logDebug("request sent", "request", id.String(), "frame_size", len(frame))
	if s.config.Observer != nil {
		s.config.Observer.RequestSent(id, len(frame))
	}

	response, err := protocol.Receive(s.reader, id, func(fe *protocol.FramingError) {
		s.logDebug("frame rejected", "request", id.String(), "reason", fe.Reason.String(), "error", fe.Error())
		if s.config.Observer != nil {
			s.config.Observer.FrameRejected(id, fe.Reason)
		}
	})
	if err != nil {
		err = fmt.Errorf("%s response: %w", id, err)
		s.fail(id, err)
		return nil, err
	}

	elapsed := time.Since(startTime)
	s.logDebug("response received", "request", id.String(), "payload_size", len(response), "elapsed", elapsed.String())
	if s.config.Observer != nil {
		s.config.Observer.ResponseReceived(id, len(response), elapsed)
	}

	return response, nil
}

// fail reports a request that ended without a response.
func (s *Session) fail(id protocol.RequestID, err error) {
	s.logError("request failed", "request", id.String(), "error", err.Error())
	if s.config.Observer != nil {
		s.config.Observer.RequestFailed(id, err)
	}
}

// logDebug logs a debug message if a logger is configured.
func (s *Session) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (s *Session) logError(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Error(msg, keysAndValues...)
	}
}

// readChunkSize is the most bytes taken from the port per Read.
const readChunkSize = 256

// portReader adapts a Port to protocol.ByteSource. A Read that returns no
// byte before the port's read timeout is reported as protocol.ErrTimeout.
type portReader struct {
	port Port
	buf  [readChunkSize]byte
	r, w int
}

func (p *portReader) ReadByte() (byte, error) {
	if p.r == p.w {
		n, err := p.port.Read(p.buf[:])
		switch {
		case n > 0:
			p.r, p.w = 0, n
		case err == nil:
			return 0, protocol.ErrTimeout
		case errors.Is(err, io.EOF):
			return 0, fmt.Errorf("%w: %w", protocol.ErrTimeout, err)
		default:
			return 0, fmt.Errorf("read response: %w", err)
		}
	}

	b := p.buf[p.r]
	p.r++
	return b, nil
}

// reset drops bytes read from the port but not consumed yet.
func (p *portReader) reset() {
	p.r, p.w = 0, 0
}
