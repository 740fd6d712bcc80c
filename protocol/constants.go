package protocol

import "fmt"

// Frame structure constants.
const (
	// MarkerSize is the length of the start marker
	MarkerSize = 4

	// HeaderSize is the number of bytes before the payload:
	// MARKER(4) + REQUEST_ID(1) + LEN(2)
	HeaderSize = MarkerSize + 1 + 2

	// ChecksumSize is the length of the trailing checksum
	ChecksumSize = 2

	// MinPayloadSize is the smallest payload accepted from the device
	MinPayloadSize = 1

	// MaxPayloadSize is the largest payload in either direction
	MaxPayloadSize = 1000

	// MaxFrameSize is the size of a frame carrying MaxPayloadSize bytes
	MaxFrameSize = HeaderSize + MaxPayloadSize + ChecksumSize
)

// StartMarker opens every frame.
var StartMarker = [MarkerSize]byte{0x0D, 0xF0, 0xAD, 0x8B}

// RequestID identifies a request and the response answering it.
type RequestID byte

// Request ids of the OpenVario maintenance protocol.
const (
	// ReqDeviceInfo returns the device name, hardware and firmware versions
	ReqDeviceInfo RequestID = 0x01

	// ReqListFlights opens a listing of the recorded flights
	ReqListFlights RequestID = 0x02

	// ReqListFlightsData returns the next flight of an open listing
	ReqListFlightsData RequestID = 0x03

	// ReqReadFlight opens a recorded flight and returns its header
	ReqReadFlight RequestID = 0x04

	// ReqReadFlightData returns the next page of entries of an open flight
	ReqReadFlightData RequestID = 0x05
)

// String returns the request name used in logs and metrics.
func (id RequestID) String() string {
	switch id {
	case ReqDeviceInfo:
		return "device_info"
	case ReqListFlights:
		return "list_flights"
	case ReqListFlightsData:
		return "list_flights_data"
	case ReqReadFlight:
		return "read_flight"
	case ReqReadFlightData:
		return "read_flight_data"
	default:
		return fmt.Sprintf("request_0x%02X", byte(id))
	}
}
