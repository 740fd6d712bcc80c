package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moffa90/go-ovtoolbox/codec"
	"github.com/moffa90/go-ovtoolbox/flight"
	"github.com/moffa90/go-ovtoolbox/protocol"
	"github.com/moffa90/go-ovtoolbox/transport"
)

// Info identifies a device.
type Info struct {
	// Name is the device name
	Name string `yaml:"name"`

	// HWVersion is the hardware version
	HWVersion string `yaml:"hw_version"`

	// FWVersion is the firmware version
	FWVersion string `yaml:"fw_version"`
}

// Client retrieves device information and recorded flights from an
// OpenVario device. Every operation returns either a complete result or an
// error, never a partial result.
//
// Client is safe for concurrent use; requests are serialized by the session.
type Client struct {
	session *transport.Session
	config  Config
}

// New creates a new Client talking over port.
//
// Example:
//
//	port, _ := serialport.Open("/dev/ttyACM0", 115200, 2*time.Second)
//	client, err := device.New(port,
//	    device.WithLogger(myLogger),
//	    device.WithProgressCallback(progressFunc),
//	)
func New(port transport.Port, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	sessOpts := []transport.Option{transport.WithReadTimeout(cfg.ReadTimeout)}
	if cfg.Logger != nil {
		sessOpts = append(sessOpts, transport.WithLogger(cfg.Logger))
	}
	if cfg.Observer != nil {
		sessOpts = append(sessOpts, transport.WithObserver(cfg.Observer))
	}

	session, err := transport.NewSession(port, sessOpts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		session: session,
		config:  cfg,
	}, nil
}

// DeviceInfo queries the device name, hardware and firmware versions.
//
// Example:
//
//	info, err := client.DeviceInfo(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s (hw %s, fw %s)\n", info.Name, info.HWVersion, info.FWVersion)
func (c *Client) DeviceInfo(ctx context.Context) (*Info, error) {
	response, err := c.request(ctx, protocol.ReqDeviceInfo, nil)
	if err != nil {
		return nil, fmt.Errorf("device info: %w", err)
	}

	d := codec.NewDecoder(response)
	info := &Info{}

	if info.Name, err = d.Text(); err != nil {
		return nil, decodeError(protocol.ReqDeviceInfo, "name", err)
	}
	if info.HWVersion, err = d.Text(); err != nil {
		return nil, decodeError(protocol.ReqDeviceInfo, "hw_version", err)
	}
	if info.FWVersion, err = d.Text(); err != nil {
		return nil, decodeError(protocol.ReqDeviceInfo, "fw_version", err)
	}

	c.logInfo("device info",
		"name", info.Name,
		"hw_version", info.HWVersion,
		"fw_version", info.FWVersion,
	)

	return info, nil
}

// ListFlights retrieves the index of the recorded flights in device order.
//
// The device is asked to open a listing, then one flight is requested per
// page until the device reports the end of the listing. A page that gets no
// response also ends the listing, unless strict pagination is enabled.
//
// Example:
//
//	flights, err := client.ListFlights(ctx)
//	for i, f := range flights {
//	    fmt.Printf("%d: %s (%d bytes)\n", i, f.Name, f.Size)
//	}
func (c *Client) ListFlights(ctx context.Context) ([]flight.IndexEntry, error) {
	startTime := time.Now()

	response, err := c.request(ctx, protocol.ReqListFlights, nil)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}

	accepted, err := codec.NewDecoder(response).Bool()
	if err != nil {
		return nil, decodeError(protocol.ReqListFlights, "accepted", err)
	}
	if !accepted {
		return nil, fmt.Errorf("list flights: %w", ErrRejected)
	}

	flights := make([]flight.IndexEntry, 0)
	for page := 1; ; page++ {
		response, err := c.request(ctx, protocol.ReqListFlightsData, nil)
		if err != nil {
			if c.endOfPages(err) {
				c.logInfo("flight list ended without final page", "flights", len(flights))
				break
			}
			return nil, fmt.Errorf("list flights page %d: %w", page, err)
		}

		d := codec.NewDecoder(response)
		more, err := d.Bool()
		if err != nil {
			return nil, decodeError(protocol.ReqListFlightsData, "has_more_data", err)
		}
		if !more {
			break
		}

		var entry flight.IndexEntry
		if entry.Name, err = d.Text(); err != nil {
			return nil, decodeError(protocol.ReqListFlightsData, "name", err)
		}
		if entry.Size, err = d.Uint32(); err != nil {
			return nil, decodeError(protocol.ReqListFlightsData, "size", err)
		}
		flights = append(flights, entry)

		c.reportProgress(Progress{Operation: OpListFlights, Page: page, Items: len(flights)})
	}

	c.logInfo("flights listed",
		"flights", len(flights),
		"elapsed", time.Since(startTime).String(),
	)

	return flights, nil
}

// ReadFlight downloads the named flight: its header, then every page of
// entries until the device reports the end of the flight. A page that gets
// no response also ends the flight, unless strict pagination is enabled.
//
// Example:
//
//	f, err := client.ReadFlight(ctx, "flight_0001.dat")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s: %d entries\n", f.Header.Glider, len(f.Entries))
func (c *Client) ReadFlight(ctx context.Context, name string) (*flight.Flight, error) {
	startTime := time.Now()

	request, err := codec.AppendString(nil, name)
	if err != nil {
		return nil, fmt.Errorf("read flight %q: %w", name, err)
	}

	response, err := c.request(ctx, protocol.ReqReadFlight, request)
	if err != nil {
		return nil, fmt.Errorf("read flight %q: %w", name, err)
	}

	d := codec.NewDecoder(response)
	accepted, err := d.Bool()
	if err != nil {
		return nil, decodeError(protocol.ReqReadFlight, "accepted", err)
	}
	if !accepted {
		return nil, fmt.Errorf("read flight %q: %w", name, ErrRejected)
	}

	// The header follows the accepted flag in the same response
	f := &flight.Flight{Entries: make([]flight.Entry, 0)}
	if f.Header.Timestamp, err = d.Timestamp(); err != nil {
		return nil, decodeError(protocol.ReqReadFlight, "timestamp", err)
	}
	if f.Header.Glider, err = d.Text(); err != nil {
		return nil, decodeError(protocol.ReqReadFlight, "glider", err)
	}
	if f.Header.PeriodMs, err = d.Uint16(); err != nil {
		return nil, decodeError(protocol.ReqReadFlight, "period", err)
	}

	c.logDebug("flight header",
		"name", name,
		"timestamp", f.Header.Timestamp.String(),
		"glider", f.Header.Glider,
		"period_ms", f.Header.PeriodMs,
	)

	for page := 1; ; page++ {
		response, err := c.request(ctx, protocol.ReqReadFlightData, nil)
		if err != nil {
			if c.endOfPages(err) {
				c.logInfo("flight ended without final page", "name", name, "entries", len(f.Entries))
				break
			}
			return nil, fmt.Errorf("read flight %q page %d: %w", name, page, err)
		}

		d := codec.NewDecoder(response)
		more, err := d.Bool()
		if err != nil {
			return nil, decodeError(protocol.ReqReadFlightData, "has_more_data", err)
		}
		if !more {
			break
		}

		// Entries are packed without a count; the page ends when the
		// remaining bytes cannot hold another entry.
		for {
			entry, err := d.FlightEntry()
			if errors.Is(err, codec.ErrEndOfEntries) {
				break
			}
			if err != nil {
				return nil, decodeError(protocol.ReqReadFlightData, "entry", err)
			}
			f.Entries = append(f.Entries, entry)
		}

		c.reportProgress(Progress{Operation: OpReadFlight, Page: page, Items: len(f.Entries)})
	}

	c.logInfo("flight read",
		"name", name,
		"entries", len(f.Entries),
		"elapsed", time.Since(startTime).String(),
	)

	return f, nil
}

// request sends one request, reporting a missing response as ErrNoResponse.
func (c *Client) request(ctx context.Context, id protocol.RequestID, payload []byte) ([]byte, error) {
	response, err := c.session.SendRequest(ctx, id, payload)
	if err == nil {
		return response, nil
	}

	if errors.Is(err, transport.ErrWriteFailure) || ctx.Err() != nil || errors.Is(err, protocol.ErrPayloadTooLarge) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %w", ErrNoResponse, err)
}

// endOfPages tells whether a pagination error ends the stream normally.
func (c *Client) endOfPages(err error) bool {
	return !c.config.StrictPagination && errors.Is(err, ErrNoResponse)
}

func decodeError(id protocol.RequestID, field string, err error) error {
	return &DecodeError{Operation: id.String(), Field: field, Err: err}
}

// reportProgress calls the progress callback if configured.
func (c *Client) reportProgress(progress Progress) {
	if c.config.ProgressCallback != nil {
		c.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (c *Client) logDebug(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (c *Client) logInfo(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Info(msg, keysAndValues...)
	}
}
