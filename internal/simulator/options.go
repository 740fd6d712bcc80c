package simulator

import "time"

// Faults injects link errors into the responses of the device.
type Faults struct {
	// Garbage is sent before every response frame
	Garbage []byte

	// CorruptResponse flips a payload bit of the Nth response (1-based, 0 disables)
	CorruptResponse int

	// SilenceAfter suppresses every response after the first N (0 disables)
	SilenceAfter int

	// RejectRequests makes the device refuse to list or read flights
	RejectRequests bool
}

// Option is a functional option for configuring the Device.
type Option func(*Device)

// WithInfo sets the identity reported by the device.
func WithInfo(info Info) Option {
	return func(d *Device) {
		d.info = info
	}
}

// WithRecordings sets the flights stored on the device, in listing order.
func WithRecordings(recordings ...Recording) Option {
	return func(d *Device) {
		d.recordings = append(d.recordings[:0], recordings...)
	}
}

// WithEntriesPerPage sets the number of entries per ReadFlightData response.
// Values outside 1 to EntriesPerPage are ignored.
func WithEntriesPerPage(n int) Option {
	return func(d *Device) {
		if n > 0 && n <= EntriesPerPage {
			d.entriesPerPage = n
		}
	}
}

// WithLatency delays the processing of every write.
func WithLatency(latency time.Duration) Option {
	return func(d *Device) {
		d.latency = latency
	}
}

// WithFaults sets the link errors to inject.
//
// Example:
//
//	dev := simulator.New(simulator.WithFaults(simulator.Faults{
//	    Garbage:         []byte{0xFF},
//	    CorruptResponse: 3,
//	}))
func WithFaults(faults Faults) Option {
	return func(d *Device) {
		d.faults = faults
	}
}
