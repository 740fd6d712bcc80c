package protocol

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource replays data and times out once it is exhausted.
type sliceSource struct {
	data []byte
	pos  int
}

func (s *sliceSource) ReadByte() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, ErrTimeout
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

func mustFrame(t testing.TB, id RequestID, payload []byte) []byte {
	t.Helper()
	frame, err := BuildFrame(id, payload)
	require.NoError(t, err)
	return frame
}

// rawFrame builds a frame without the outbound payload checks.
func rawFrame(id RequestID, length uint16, payload []byte) []byte {
	frame := append([]byte{}, StartMarker[:]...)
	frame = append(frame, byte(id), byte(length), byte(length>>8))
	frame = append(frame, payload...)
	sum := Checksum(frame)
	return append(frame, byte(sum), byte(sum>>8))
}

func TestReceiveLoopback(t *testing.T) {
	for _, size := range []int{MinPayloadSize, 2, 39, 977, MaxPayloadSize} {
		payload := make([]byte, size)
		for i := range payload {
			payload[i] = byte(i * 7)
		}

		src := &sliceSource{data: mustFrame(t, ReqReadFlightData, payload)}
		got, err := Receive(src, ReqReadFlightData, nil)
		require.NoError(t, err, "size %d", size)
		assert.Equal(t, payload, got)
		assert.Equal(t, len(src.data), src.pos, "whole frame consumed")
	}
}

func TestReceiveResync(t *testing.T) {
	response := []byte{0x01, 0x03, 'O', 'V', '1'}
	frame := mustFrame(t, ReqDeviceInfo, response)

	corrupted := append([]byte{}, frame...)
	corrupted[HeaderSize+1] ^= 0x10

	tests := []struct {
		name    string
		stream  []byte
		reasons []RejectReason
	}{
		{
			name:    "one garbage byte",
			stream:  append([]byte{0xFF}, frame...),
			reasons: []RejectReason{RejectSync},
		},
		{
			name:    "garbage run",
			stream:  append([]byte{0x00, 0x55, 0xAA}, frame...),
			reasons: []RejectReason{RejectSync, RejectSync, RejectSync},
		},
		{
			name:    "broken marker",
			stream:  append([]byte{0x0D, 0xF0, 0x00}, frame...),
			reasons: []RejectReason{RejectSync},
		},
		{
			name:    "frame for another request",
			stream:  append(mustFrame(t, ReqListFlights, []byte{0x01}), frame...),
			reasons: []RejectReason{RejectRequestID, RejectSync, RejectSync, RejectSync, RejectSync, RejectSync},
		},
		{
			name:    "zero length",
			stream:  append(rawFrame(ReqDeviceInfo, 0, nil)[:HeaderSize], frame...),
			reasons: []RejectReason{RejectLength},
		},
		{
			name:    "length too large",
			stream:  append(rawFrame(ReqDeviceInfo, MaxPayloadSize+1, nil)[:HeaderSize], frame...),
			reasons: []RejectReason{RejectLength},
		},
		{
			name:   "corrupted frame then valid frame",
			stream: append(corrupted, frame...),
			// the corrupted frame is consumed entirely before the checksum check
			reasons: []RejectReason{RejectChecksum},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reasons []RejectReason
			got, err := Receive(&sliceSource{data: tt.stream}, ReqDeviceInfo, func(fe *FramingError) {
				assert.Equal(t, ReqDeviceInfo, fe.RequestID)
				reasons = append(reasons, fe.Reason)
			})
			require.NoError(t, err)
			assert.Equal(t, response, got)
			assert.Equal(t, tt.reasons, reasons)
		})
	}
}

func TestReceiveRejectsSingleBitFlip(t *testing.T) {
	// Each payload byte is shifted left once per following byte before the
	// 16-bit truncation, so every bit of the last eight payload bytes
	// reaches the checksum.
	payload := []byte{0x01, 0x02, 0x03, 0x04, 0xF0, 0x0F, 0xAA, 0x55}
	frame := mustFrame(t, ReqReadFlightData, payload)

	for i := HeaderSize; i < HeaderSize+len(payload); i++ {
		for bit := 0; bit < 8; bit++ {
			flipped := append([]byte{}, frame...)
			flipped[i] ^= 1 << bit

			var rejected []*FramingError
			got, err := Receive(&sliceSource{data: flipped}, ReqReadFlightData, func(fe *FramingError) {
				rejected = append(rejected, fe)
			})
			require.ErrorIs(t, err, ErrTimeout, "byte %d bit %d", i, bit)
			assert.Nil(t, got)
			require.Len(t, rejected, 1)
			assert.Equal(t, RejectChecksum, rejected[0].Reason)
		}
	}
}

func TestReceiveTimeout(t *testing.T) {
	frame := mustFrame(t, ReqDeviceInfo, []byte{0x00})

	tests := []struct {
		name   string
		stream []byte
	}{
		{name: "silence", stream: nil},
		{name: "only garbage", stream: []byte{0x01, 0x02, 0x03}},
		{name: "truncated frame", stream: frame[:len(frame)-1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Receive(&sliceSource{data: tt.stream}, ReqDeviceInfo, nil)
			assert.ErrorIs(t, err, ErrTimeout)
			assert.Nil(t, got)
		})
	}
}

func TestReceiveSourceError(t *testing.T) {
	_, err := Receive(bytes.NewReader(nil), ReqDeviceInfo, nil)
	assert.ErrorIs(t, err, io.EOF)
}

func BenchmarkReceive(b *testing.B) {
	frame := mustFrame(b, ReqReadFlightData, make([]byte, MaxPayloadSize))
	src := &sliceSource{data: frame}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		src.pos = 0
		_, _ = Receive(src, ReqReadFlightData, nil)
	}
}
