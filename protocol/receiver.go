package protocol

// ByteSource yields the received bytes one at a time. ReadByte must return
// an error wrapping ErrTimeout when no byte arrived within the read timeout.
type ByteSource interface {
	ReadByte() (byte, error)
}

// rxState is a state of the receive state machine.
type rxState int

const (
	stateSync0 rxState = iota
	stateSync1
	stateSync2
	stateSync3
	stateRequestID
	stateLengthLow
	stateLengthHigh
	statePayload
	stateChecksumLow
	stateChecksumHigh
)

// receiver holds the state of one receive attempt.
type receiver struct {
	want     RequestID
	state    rxState
	frame    []byte
	length   int
	checksum uint16
}

// Receive reads bytes from src until a complete, checksum-valid frame
// answering request id arrives, and returns its payload.
//
// A byte that does not fit the frame being received (marker, request id,
// length or checksum) discards the partial frame; reception restarts at the
// marker with the next byte. Each rejection is passed to onReject, which may
// be nil. Only an error from src ends the receive, typically ErrTimeout.
func Receive(src ByteSource, id RequestID, onReject func(*FramingError)) ([]byte, error) {
	rx := &receiver{want: id, frame: make([]byte, 0, MaxFrameSize)}

	for {
		b, err := src.ReadByte()
		if err != nil {
			return nil, err
		}

		payload, done, rejected := rx.step(b)
		if rejected != nil {
			if onReject != nil {
				onReject(rejected)
			}
			continue
		}
		if done {
			return payload, nil
		}
	}
}

// step feeds one byte to the state machine. It returns the payload once a
// frame is complete, or the rejection that sent it back to stateSync0.
func (r *receiver) step(b byte) (payload []byte, done bool, rejected *FramingError) {
	switch r.state {
	case stateSync0, stateSync1, stateSync2, stateSync3:
		want := StartMarker[r.state-stateSync0]
		if b != want {
			return nil, false, r.reject(RejectSync, uint16(b), uint16(want))
		}
		r.frame = append(r.frame, b)
		r.state++

	case stateRequestID:
		if RequestID(b) != r.want {
			return nil, false, r.reject(RejectRequestID, uint16(b), uint16(r.want))
		}
		r.frame = append(r.frame, b)
		r.state = stateLengthLow

	case stateLengthLow:
		r.length = int(b)
		r.frame = append(r.frame, b)
		r.state = stateLengthHigh

	case stateLengthHigh:
		r.length |= int(b) << 8
		if r.length < MinPayloadSize || r.length > MaxPayloadSize {
			return nil, false, r.reject(RejectLength, uint16(r.length), MaxPayloadSize)
		}
		r.frame = append(r.frame, b)
		r.state = statePayload

	case statePayload:
		r.frame = append(r.frame, b)
		if len(r.frame) == HeaderSize+r.length {
			r.state = stateChecksumLow
		}

	case stateChecksumLow:
		r.checksum = uint16(b)
		r.state = stateChecksumHigh

	case stateChecksumHigh:
		r.checksum |= uint16(b) << 8
		if want := Checksum(r.frame); r.checksum != want {
			return nil, false, r.reject(RejectChecksum, r.checksum, want)
		}
		return r.frame[HeaderSize:], true, nil
	}

	return nil, false, nil
}

// reject discards the partial frame and returns to stateSync0.
func (r *receiver) reject(reason RejectReason, got, want uint16) *FramingError {
	r.state = stateSync0
	r.frame = r.frame[:0]
	r.length = 0
	r.checksum = 0

	return &FramingError{Reason: reason, RequestID: r.want, Got: got, Want: want}
}
