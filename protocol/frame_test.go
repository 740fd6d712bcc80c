package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFrame(t *testing.T) {
	tests := []struct {
		name     string
		id       RequestID
		payload  []byte
		expected []byte
		wantErr  error
	}{
		{
			name:    "device info without payload",
			id:      ReqDeviceInfo,
			payload: nil,
			// checksum of 0D F0 AD 8B 01 00 00
			expected: []byte{0x0D, 0xF0, 0xAD, 0x8B, 0x01, 0x00, 0x00, 0xD8, 0x60},
		},
		{
			name:     "read flight with name",
			id:       ReqReadFlight,
			payload:  []byte{0x01, 'A'},
			expected: []byte{0x0D, 0xF0, 0xAD, 0x8B, 0x04, 0x02, 0x00, 0x01, 'A', 0x66, 0x84},
		},
		{
			name:    "payload too large",
			id:      ReqReadFlight,
			payload: make([]byte, MaxPayloadSize+1),
			wantErr: ErrPayloadTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := BuildFrame(tt.id, tt.payload)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, frame)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, frame)
		})
	}
}

func TestBuildFrameChecksumAllSizes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for size := 0; size <= MaxPayloadSize; size++ {
		payload := make([]byte, size)
		rng.Read(payload)

		frame, err := BuildFrame(ReqReadFlightData, payload)
		require.NoError(t, err)
		require.Len(t, frame, HeaderSize+size+ChecksumSize)

		// Recompute over marker, id, length and payload independently.
		covered := append(append([]byte{}, StartMarker[:]...), byte(ReqReadFlightData), byte(size), byte(size>>8))
		covered = append(covered, payload...)
		got := binary.LittleEndian.Uint16(frame[len(frame)-ChecksumSize:])
		if got != referenceChecksum(covered) {
			t.Fatalf("size %d: checksum 0x%04X, want 0x%04X", size, got, referenceChecksum(covered))
		}
	}
}

func TestParseFrame(t *testing.T) {
	valid, err := BuildFrame(ReqListFlightsData, []byte{0x01, 0x01, 'A', 0x64, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	empty, err := BuildFrame(ReqListFlights, nil)
	require.NoError(t, err)

	corrupted := append([]byte{}, valid...)
	corrupted[HeaderSize] ^= 0x01

	oversized := append([]byte{}, StartMarker[:]...)
	oversized = append(oversized, 0x05, 0xE9, 0x03) // 1001

	tests := []struct {
		name        string
		buf         []byte
		wantID      RequestID
		wantPayload []byte
		wantN       int
		wantErr     error
		wantReason  RejectReason
	}{
		{
			name:        "valid frame",
			buf:         valid,
			wantID:      ReqListFlightsData,
			wantPayload: valid[HeaderSize : len(valid)-ChecksumSize],
			wantN:       len(valid),
		},
		{
			name:        "empty payload",
			buf:         empty,
			wantID:      ReqListFlights,
			wantPayload: []byte{},
			wantN:       HeaderSize + ChecksumSize,
		},
		{
			name:        "trailing bytes",
			buf:         append(append([]byte{}, empty...), 0x0D, 0xF0),
			wantID:      ReqListFlights,
			wantPayload: []byte{},
			wantN:       HeaderSize + ChecksumSize,
		},
		{
			name:    "partial marker",
			buf:     StartMarker[:2],
			wantErr: ErrIncompleteFrame,
		},
		{
			name:    "partial payload",
			buf:     valid[:len(valid)-1],
			wantErr: ErrIncompleteFrame,
		},
		{
			name:       "bad marker",
			buf:        []byte{0x0D, 0xF1, 0xAD, 0x8B, 0x01, 0x00, 0x00, 0x00, 0x00},
			wantErr:    ErrInvalidFrame,
			wantReason: RejectSync,
		},
		{
			name:       "length too large",
			buf:        oversized,
			wantErr:    ErrInvalidFrame,
			wantReason: RejectLength,
		},
		{
			name:       "checksum mismatch",
			buf:        corrupted,
			wantErr:    ErrInvalidFrame,
			wantReason: RejectChecksum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, payload, n, err := ParseFrame(tt.buf)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				if tt.wantReason != 0 {
					var fe *FramingError
					require.True(t, errors.As(err, &fe))
					assert.Equal(t, tt.wantReason, fe.Reason)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.True(t, bytes.Equal(tt.wantPayload, payload), "payload %X", payload)
			assert.Equal(t, tt.wantN, n)
		})
	}
}

func TestRequestIDString(t *testing.T) {
	assert.Equal(t, "device_info", ReqDeviceInfo.String())
	assert.Equal(t, "list_flights", ReqListFlights.String())
	assert.Equal(t, "list_flights_data", ReqListFlightsData.String())
	assert.Equal(t, "read_flight", ReqReadFlight.String())
	assert.Equal(t, "read_flight_data", ReqReadFlightData.String())
	assert.Equal(t, "request_0x7F", RequestID(0x7F).String())
}

func TestFramingError(t *testing.T) {
	err := error(&FramingError{Reason: RejectChecksum, RequestID: ReqReadFlight, Got: 0x1234, Want: 0x4321})

	assert.Equal(t, "read_flight: checksum mismatch: got 0x1234, expected 0x4321", err.Error())
	assert.ErrorIs(t, err, ErrInvalidFrame)
	assert.True(t, IsFramingError(err))
	assert.False(t, IsFramingError(ErrTimeout))
	assert.Equal(t, "checksum", RejectChecksum.String())
}
