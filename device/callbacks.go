package device

import "github.com/moffa90/go-ovtoolbox/transport"

// Operations reported in Progress.
const (
	// OpListFlights is the flight index listing
	OpListFlights = "list_flights"

	// OpReadFlight is the download of one flight
	OpReadFlight = "read_flight"
)

// Progress describes the pagination state of a running operation.
// Passed to ProgressCallback after each page.
type Progress struct {
	// Operation is OpListFlights or OpReadFlight
	Operation string

	// Page is the number of pages received so far
	Page int

	// Items is the number of flights or entries decoded so far
	Items int
}

// ProgressCallback is called after each pagination response.
// Implementations should return quickly to avoid holding the link.
//
// Example:
//
//	client, err := device.New(port,
//	    device.WithProgressCallback(func(p device.Progress) {
//	        fmt.Printf("\r%d entries", p.Items)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is the logging interface shared with the transport session.
type Logger = transport.Logger
