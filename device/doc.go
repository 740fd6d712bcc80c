// Package device implements the requests of the OpenVario maintenance
// protocol on top of a transport session.
//
// Three operations are available:
//   - DeviceInfo: device name, hardware and firmware versions
//   - ListFlights: the index of the recorded flights
//   - ReadFlight: one flight, its header and every entry
//
// Listing and reading are paginated: after the device accepts the request,
// follow-up requests fetch one page at a time until the device reports the
// end of the data. Each operation returns a complete result or an error.
//
// # Basic Usage
//
//	client, err := device.New(port)
//	if err != nil {
//	    return err
//	}
//
//	flights, err := client.ListFlights(ctx)
//	if err != nil {
//	    return err
//	}
//
//	f, err := client.ReadFlight(ctx, flights[0].Name)
//
// # Errors
//
//   - ErrRejected: the device refused to list or open flights
//   - ErrNoResponse: a request got no valid response
//   - transport.ErrWriteFailure: a request could not be written
//   - *DecodeError: a response payload was malformed
package device
