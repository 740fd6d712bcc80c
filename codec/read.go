package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/moffa90/go-ovtoolbox/flight"
)

// Wire sizes in bytes.
const (
	// MaxStringLength is the longest string a 1-byte length prefix can carry
	MaxStringLength = 255

	// TimestampSize is the encoded size of a flight.Timestamp
	TimestampSize = 8

	// GNSSSize is the encoded size of a flight.GNSS
	GNSSSize = 1 + 8 + 8 + 4 + 4

	// AltimeterSize is the encoded size of a flight.Altimeter
	AltimeterSize = 1 + 4 + 4 + 2

	// AccelerometerSize is the encoded size of a flight.Accelerometer
	AccelerometerSize = 1 + 2

	// FlightEntrySize is the encoded size of a flight.Entry
	FlightEntrySize = GNSSSize + AltimeterSize + AccelerometerSize
)

// Every reader takes the buffer and a cursor and returns the decoded value
// together with the advanced cursor. On error the cursor is returned unchanged.

// take returns buf[off:off+n] or ErrTruncatedBuffer.
func take(buf []byte, off, n int, what string) ([]byte, error) {
	if off < 0 || off > len(buf) {
		return nil, truncated(what, off, n, 0)
	}
	if len(buf)-off < n {
		return nil, truncated(what, off, n, len(buf)-off)
	}
	return buf[off : off+n], nil
}

// ReadBool reads one byte; any nonzero value is true.
func ReadBool(buf []byte, off int) (bool, int, error) {
	b, err := take(buf, off, 1, "bool")
	if err != nil {
		return false, off, err
	}
	return b[0] != 0, off + 1, nil
}

// ReadUint reads a little-endian unsigned integer of size 1, 2, 4 or 8 bytes.
func ReadUint(buf []byte, off, size int) (uint64, int, error) {
	if !validSize(size) {
		return 0, off, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	b, err := take(buf, off, size, fmt.Sprintf("uint%d", size*8))
	if err != nil {
		return 0, off, err
	}

	var v uint64
	switch size {
	case 1:
		v = uint64(b[0])
	case 2:
		v = uint64(binary.LittleEndian.Uint16(b))
	case 4:
		v = uint64(binary.LittleEndian.Uint32(b))
	case 8:
		v = binary.LittleEndian.Uint64(b)
	}
	return v, off + size, nil
}

// ReadInt reads a little-endian two's-complement integer of size 1, 2, 4 or 8 bytes.
func ReadInt(buf []byte, off, size int) (int64, int, error) {
	u, next, err := ReadUint(buf, off, size)
	if err != nil {
		return 0, off, err
	}

	switch size {
	case 1:
		return int64(int8(u)), next, nil
	case 2:
		return int64(int16(u)), next, nil
	case 4:
		return int64(int32(u)), next, nil
	default:
		return int64(u), next, nil
	}
}

// ReadFloat32 reads a little-endian IEEE-754 single precision float.
func ReadFloat32(buf []byte, off int) (float32, int, error) {
	u, next, err := ReadUint(buf, off, 4)
	if err != nil {
		return 0, off, err
	}
	return math.Float32frombits(uint32(u)), next, nil
}

// ReadFloat64 reads a little-endian IEEE-754 double precision float.
func ReadFloat64(buf []byte, off int) (float64, int, error) {
	u, next, err := ReadUint(buf, off, 8)
	if err != nil {
		return 0, off, err
	}
	return math.Float64frombits(u), next, nil
}

// ReadString reads a 1-byte length prefix followed by that many UTF-8 bytes.
func ReadString(buf []byte, off int) (string, int, error) {
	n, next, err := ReadUint(buf, off, 1)
	if err != nil {
		return "", off, err
	}

	b, err := take(buf, next, int(n), "string")
	if err != nil {
		return "", off, err
	}
	if !utf8.Valid(b) {
		return "", off, fmt.Errorf("%w: string at offset %d", ErrInvalidEncoding, off)
	}
	return string(b), next + int(n), nil
}

// ReadTimestamp reads year, month, day, hour, minute and second as single
// bytes followed by the millisecond as a 2-byte unsigned integer.
func ReadTimestamp(buf []byte, off int) (flight.Timestamp, int, error) {
	b, err := take(buf, off, TimestampSize, "timestamp")
	if err != nil {
		return flight.Timestamp{}, off, err
	}

	return flight.Timestamp{
		Year:        b[0],
		Month:       b[1],
		Day:         b[2],
		Hour:        b[3],
		Minute:      b[4],
		Second:      b[5],
		Millisecond: binary.LittleEndian.Uint16(b[6:8]),
	}, off + TimestampSize, nil
}

// ReadFlightEntry reads the GNSS, Altimeter and Accelerometer records of one
// entry. Devices pack entries back to back without a count, so running out
// of bytes is reported as ErrEndOfEntries, the normal end of a page.
func ReadFlightEntry(buf []byte, off int) (flight.Entry, int, error) {
	b, err := take(buf, off, FlightEntrySize, "flight entry")
	if err != nil {
		return flight.Entry{}, off, fmt.Errorf("%w at offset %d", ErrEndOfEntries, off)
	}

	le := binary.LittleEndian
	var e flight.Entry

	e.GNSS.Valid = b[0] != 0
	e.GNSS.Latitude = math.Float64frombits(le.Uint64(b[1:9]))
	e.GNSS.Longitude = math.Float64frombits(le.Uint64(b[9:17]))
	e.GNSS.Altitude = le.Uint32(b[17:21])
	e.GNSS.Speed = le.Uint32(b[21:25])

	e.Altimeter.Valid = b[25] != 0
	e.Altimeter.Altitude = int32(le.Uint32(b[26:30]))
	e.Altimeter.Pressure = int32(le.Uint32(b[30:34]))
	e.Altimeter.Temperature = int16(le.Uint16(b[34:36]))

	e.Accelerometer.Valid = b[36] != 0
	e.Accelerometer.Acceleration = int16(le.Uint16(b[37:39]))

	return e, off + FlightEntrySize, nil
}

func validSize(size int) bool {
	return size == 1 || size == 2 || size == 4 || size == 8
}
