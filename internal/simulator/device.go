package simulator

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/moffa90/go-ovtoolbox/codec"
	"github.com/moffa90/go-ovtoolbox/flight"
	"github.com/moffa90/go-ovtoolbox/protocol"
)

// EntriesPerPage is the number of entries the firmware packs in one
// ReadFlightData response.
const EntriesPerPage = 25

// Info identifies the simulated device.
type Info struct {
	Name      string
	HWVersion string
	FWVersion string
}

// Recording is a flight stored on the simulated device.
type Recording struct {
	// Name is the flight file name
	Name string

	// Flight is the recorded content
	Flight *flight.Flight
}

// Size returns the size of the recording as the device reports it.
func (r Recording) Size() uint32 {
	header := codec.TimestampSize + 1 + len(r.Flight.Header.Glider) + 2
	return uint32(header + len(r.Flight.Entries)*codec.FlightEntrySize)
}

// Device simulates the device side of the maintenance protocol. It
// implements transport.Port: requests written to it are answered by
// response frames available to Read. A Read with no pending byte returns
// 0, nil as a serial port does when its read timeout expires.
//
// Device is safe for concurrent use.
type Device struct {
	mu sync.Mutex

	info           Info
	recordings     []Recording
	entriesPerPage int
	latency        time.Duration
	faults         Faults

	in          []byte
	out         bytes.Buffer
	readTimeout time.Duration
	responses   int
	closed      bool

	// open listing: index of the next flight, -1 when closed
	listing int

	// open flight read
	reading *flight.Flight
	next    int
}

// New creates a simulated device.
//
// Example:
//
//	dev := simulator.New(simulator.WithRecordings(simulator.DemoRecordings()...))
//	client, err := device.New(dev)
func New(opts ...Option) *Device {
	d := &Device{
		info: Info{
			Name:      "OpenVario",
			HWVersion: "simulator",
			FWVersion: "1.0.0",
		},
		entriesPerPage: EntriesPerPage,
		listing:        -1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Read returns pending response bytes, or 0, nil when none are pending.
func (d *Device) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, io.EOF
	}
	if d.out.Len() == 0 {
		return 0, nil
	}
	return d.out.Read(p)
}

// Write accepts request bytes. Every complete request frame is answered;
// bytes that do not form a valid frame are skipped.
func (d *Device) Write(p []byte) (int, error) {
	if d.latency > 0 {
		time.Sleep(d.latency)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, io.ErrClosedPipe
	}

	d.in = append(d.in, p...)
	for len(d.in) > 0 {
		id, payload, n, err := protocol.ParseFrame(d.in)
		if errors.Is(err, protocol.ErrIncompleteFrame) {
			break
		}
		if err != nil {
			// Resynchronize on the next byte
			d.in = d.in[1:]
			continue
		}

		d.handle(id, payload)
		d.in = d.in[n:]
	}

	return len(p), nil
}

// SetReadTimeout records the timeout; reads never block.
func (d *Device) SetReadTimeout(t time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.readTimeout = t
	return nil
}

// ResetInputBuffer discards pending response bytes.
func (d *Device) ResetInputBuffer() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.out.Reset()
	return nil
}

// Close disconnects the device; further reads return io.EOF.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	return nil
}

// Responses returns the number of responses sent, including suppressed ones.
func (d *Device) Responses() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.responses
}

// handle answers one request. It is called with d.mu held.
func (d *Device) handle(id protocol.RequestID, payload []byte) {
	// A new top-level request closes any open listing or read
	if id != protocol.ReqListFlightsData {
		d.listing = -1
	}
	if id != protocol.ReqReadFlightData {
		d.reading = nil
	}

	var response []byte
	switch id {
	case protocol.ReqDeviceInfo:
		response = d.handleDeviceInfo()
	case protocol.ReqListFlights:
		response = d.handleListFlights()
	case protocol.ReqListFlightsData:
		response = d.handleListFlightsData()
	case protocol.ReqReadFlight:
		response = d.handleReadFlight(payload)
	case protocol.ReqReadFlightData:
		response = d.handleReadFlightData()
	}

	if response != nil {
		d.send(id, response)
	}
}

func (d *Device) handleDeviceInfo() []byte {
	var resp []byte
	resp = appendString(resp, d.info.Name)
	resp = appendString(resp, d.info.HWVersion)
	return appendString(resp, d.info.FWVersion)
}

func (d *Device) handleListFlights() []byte {
	if d.faults.RejectRequests {
		return codec.AppendBool(nil, false)
	}
	d.listing = 0
	return codec.AppendBool(nil, true)
}

func (d *Device) handleListFlightsData() []byte {
	if d.listing < 0 {
		// no open listing: the firmware does not answer
		return nil
	}
	if d.listing >= len(d.recordings) {
		d.listing = -1
		return codec.AppendBool(nil, false)
	}

	rec := d.recordings[d.listing]
	d.listing++

	resp := codec.AppendBool(nil, true)
	resp = appendString(resp, rec.Name)
	resp, _ = codec.AppendUint(resp, uint64(rec.Size()), 4)
	return resp
}

func (d *Device) handleReadFlight(payload []byte) []byte {
	name, _, err := codec.ReadString(payload, 0)
	if err != nil || d.faults.RejectRequests {
		return codec.AppendBool(nil, false)
	}

	for _, rec := range d.recordings {
		if rec.Name != name {
			continue
		}
		d.reading = rec.Flight
		d.next = 0

		h := rec.Flight.Header
		resp := codec.AppendBool(nil, true)
		resp = codec.AppendTimestamp(resp, h.Timestamp)
		resp = appendString(resp, h.Glider)
		resp, _ = codec.AppendUint(resp, uint64(h.PeriodMs), 2)
		return resp
	}

	return codec.AppendBool(nil, false)
}

func (d *Device) handleReadFlightData() []byte {
	if d.reading == nil {
		return nil
	}

	entries := d.reading.Entries[d.next:]
	if len(entries) == 0 {
		d.reading = nil
		return codec.AppendBool(nil, false)
	}
	if len(entries) > d.entriesPerPage {
		entries = entries[:d.entriesPerPage]
	}
	d.next += len(entries)

	resp := codec.AppendBool(nil, true)
	for _, e := range entries {
		resp = codec.AppendFlightEntry(resp, e)
	}
	return resp
}

// send queues a response frame, applying the configured faults.
func (d *Device) send(id protocol.RequestID, payload []byte) {
	d.responses++
	n := d.responses

	if d.faults.SilenceAfter > 0 && n > d.faults.SilenceAfter {
		return
	}

	frame, err := protocol.BuildFrame(id, payload)
	if err != nil {
		return
	}
	if d.faults.CorruptResponse == n {
		// The last payload byte always reaches the checksum
		frame[len(frame)-protocol.ChecksumSize-1] ^= 0x01
	}

	d.out.Write(d.faults.Garbage)
	d.out.Write(frame)
}

// appendString encodes s, cutting it on a character boundary to the
// longest encodable length.
func appendString(dst []byte, s string) []byte {
	if len(s) > codec.MaxStringLength {
		cut := codec.MaxStringLength
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	out, err := codec.AppendString(dst, s)
	if err != nil {
		return append(dst, 0)
	}
	return out
}

// ReadTimeout returns the timeout last set with SetReadTimeout.
func (d *Device) ReadTimeout() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.readTimeout
}
