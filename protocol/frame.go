package protocol

import (
	"encoding/binary"
	"fmt"
)

// BuildFrame constructs a request frame for the given id and payload.
// The payload may be empty and must not exceed MaxPayloadSize bytes.
//
// Frame structure:
//
//	[0x0D][0xF0][0xAD][0x8B][REQUEST_ID][LEN_L][LEN_H][PAYLOAD...][CHECKSUM_L][CHECKSUM_H]
//
// Returns the complete frame ready to send, or an error if validation fails.
func BuildFrame(id RequestID, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: got %d bytes, maximum is %d", ErrPayloadTooLarge, len(payload), MaxPayloadSize)
	}

	frame := make([]byte, 0, HeaderSize+len(payload)+ChecksumSize)

	frame = append(frame, StartMarker[:]...)
	frame = append(frame, byte(id))
	frame = binary.LittleEndian.AppendUint16(frame, uint16(len(payload)))
	frame = append(frame, payload...)

	// Checksum covers marker, id, length and payload
	frame = binary.LittleEndian.AppendUint16(frame, Checksum(frame))

	return frame, nil
}

// ParseFrame validates the frame at the start of buf and returns its request
// id, its payload and the number of bytes it occupies. Unlike the receiver,
// ParseFrame accepts any request id and an empty payload, which makes it
// suitable for the device side of the link.
//
// ErrIncompleteFrame is returned while buf holds only part of a frame.
// Invalid frames are reported as *FramingError.
func ParseFrame(buf []byte) (id RequestID, payload []byte, n int, err error) {
	for i := 0; i < MarkerSize && i < len(buf); i++ {
		if buf[i] != StartMarker[i] {
			return 0, nil, 0, &FramingError{Reason: RejectSync, Got: uint16(buf[i]), Want: uint16(StartMarker[i])}
		}
	}
	if len(buf) < HeaderSize {
		return 0, nil, 0, ErrIncompleteFrame
	}

	id = RequestID(buf[MarkerSize])
	length := int(binary.LittleEndian.Uint16(buf[MarkerSize+1 : HeaderSize]))
	if length > MaxPayloadSize {
		return 0, nil, 0, &FramingError{Reason: RejectLength, RequestID: id, Got: uint16(length), Want: MaxPayloadSize}
	}

	n = HeaderSize + length + ChecksumSize
	if len(buf) < n {
		return 0, nil, 0, ErrIncompleteFrame
	}

	checksumExpected := binary.LittleEndian.Uint16(buf[n-ChecksumSize : n])
	checksumActual := Checksum(buf[:HeaderSize+length])
	if checksumExpected != checksumActual {
		return 0, nil, 0, &FramingError{Reason: RejectChecksum, RequestID: id, Got: checksumExpected, Want: checksumActual}
	}

	return id, buf[HeaderSize : HeaderSize+length], n, nil
}
