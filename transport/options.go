package transport

import "time"

// DefaultReadTimeout bounds each byte read while waiting for a response.
const DefaultReadTimeout = 2 * time.Second

// Config holds the session configuration.
type Config struct {
	// Logger is used for logging operations (optional)
	Logger Logger

	// Observer is notified of link activity (optional)
	Observer Observer

	// ReadTimeout bounds each byte read while waiting for a response
	ReadTimeout time.Duration
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		ReadTimeout: DefaultReadTimeout,
	}
}

// Option is a functional option for configuring the Session.
type Option func(*Config)

// WithLogger sets a logger for the session operations.
//
// Example:
//
//	sess, err := transport.NewSession(port, transport.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithObserver sets an observer notified of every request, response and
// rejected frame.
//
// Example:
//
//	sess, err := transport.NewSession(port, transport.WithObserver(metrics.NewLinkMetrics(reg)))
func WithObserver(observer Observer) Option {
	return func(c *Config) {
		c.Observer = observer
	}
}

// WithReadTimeout sets the per-byte read timeout. Non-positive values are ignored.
//
// Example:
//
//	sess, err := transport.NewSession(port, transport.WithReadTimeout(500*time.Millisecond))
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.ReadTimeout = timeout
		}
	}
}
