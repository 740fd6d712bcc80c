package device

import (
	"time"

	"github.com/moffa90/go-ovtoolbox/transport"
)

// Config holds the client configuration.
type Config struct {
	// ProgressCallback is called after each pagination response (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// Observer is notified of link activity (optional)
	Observer transport.Observer

	// ReadTimeout bounds each byte read while waiting for a response
	ReadTimeout time.Duration

	// StrictPagination turns a missing pagination response into an error
	// instead of the end of the listing or flight
	StrictPagination bool
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		ReadTimeout: transport.DefaultReadTimeout,
	}
}

// Option is a functional option for configuring the Client.
type Option func(*Config)

// WithProgressCallback sets a callback function to track pagination progress.
//
// Example:
//
//	client, err := device.New(port,
//	    device.WithProgressCallback(func(p device.Progress) {
//	        fmt.Printf("%s: page %d, %d items\n", p.Operation, p.Page, p.Items)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the client and its session.
//
// Example:
//
//	client, err := device.New(port, device.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithObserver sets an observer of the link activity.
//
// Example:
//
//	client, err := device.New(port, device.WithObserver(collector))
func WithObserver(observer transport.Observer) Option {
	return func(c *Config) {
		c.Observer = observer
	}
}

// WithReadTimeout sets the per-byte read timeout. Non-positive values are ignored.
//
// Example:
//
//	client, err := device.New(port, device.WithReadTimeout(2*time.Second))
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.ReadTimeout = timeout
		}
	}
}

// WithStrictPagination makes ListFlights and ReadFlight fail when a
// pagination request gets no response. By default the listing or flight
// ends at the last page received.
//
// Example:
//
//	client, err := device.New(port, device.WithStrictPagination(true))
func WithStrictPagination(strict bool) Option {
	return func(c *Config) {
		c.StrictPagination = strict
	}
}
