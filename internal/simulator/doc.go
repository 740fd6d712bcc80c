// Package simulator provides an in-memory OpenVario device speaking the
// device side of the maintenance protocol.
//
// The Device answers DeviceInfo, ListFlights/ListFlightsData and
// ReadFlight/ReadFlightData like the firmware does: a listing is opened by
// ListFlights and walked one flight per ListFlightsData response, a flight
// is opened by ReadFlight and walked EntriesPerPage entries per
// ReadFlightData response, and both end with a response whose first byte is
// false. Pagination requests without an open listing or flight get no
// response.
//
// Faults can inject garbage bytes, corrupted frames and dropped responses.
package simulator
