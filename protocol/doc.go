// Package protocol implements the framing of the OpenVario maintenance protocol.
//
// Every request and response travels in a frame:
//
//	[MARKER(4)][REQUEST_ID][LEN_L][LEN_H][PAYLOAD...][CHECKSUM_L][CHECKSUM_H]
//
// Where:
//   - MARKER = 0x0D 0xF0 0xAD 0x8B
//   - LEN = 16-bit payload length (little-endian), at most MaxPayloadSize
//   - CHECKSUM = cumulative shift checksum of every preceding byte (little-endian)
//
// A response carries the request id of the request it answers and at least
// one payload byte.
//
// # Building Frames
//
//	frame, err := protocol.BuildFrame(protocol.ReqListFlights, nil)
//
// # Receiving Frames
//
// Receive runs a byte-at-a-time state machine over a ByteSource. Noise,
// frames for another request and corrupted frames are rejected and
// reception resynchronizes on the next start marker:
//
//	payload, err := protocol.Receive(src, protocol.ReqDeviceInfo, func(fe *protocol.FramingError) {
//	    log.Printf("rejected: %v", fe)
//	})
//	if errors.Is(err, protocol.ErrTimeout) {
//	    // no response
//	}
//
// ParseFrame validates a complete frame held in memory, as the device side does.
package protocol
