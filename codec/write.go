package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/moffa90/go-ovtoolbox/flight"
)

// Writers append the encoding of a value to dst and return the extended
// slice, mirroring the readers byte for byte.

// AppendBool appends 1 for true and 0 for false.
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

// AppendUint appends v as a little-endian unsigned integer of size 1, 2, 4 or 8 bytes.
func AppendUint(dst []byte, v uint64, size int) ([]byte, error) {
	if !validSize(size) {
		return dst, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if size < 8 && v>>(uint(size)*8) != 0 {
		return dst, fmt.Errorf("%w: %d does not fit in %d bytes", ErrOutOfRange, v, size)
	}
	return appendUint(dst, v, size), nil
}

// AppendInt appends v as a little-endian two's-complement integer of size 1, 2, 4 or 8 bytes.
func AppendInt(dst []byte, v int64, size int) ([]byte, error) {
	if !validSize(size) {
		return dst, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if size < 8 {
		bits := uint(size) * 8
		lo, hi := -(int64(1) << (bits - 1)), int64(1)<<(bits-1)-1
		if v < lo || v > hi {
			return dst, fmt.Errorf("%w: %d does not fit in %d bytes", ErrOutOfRange, v, size)
		}
	}
	return appendUint(dst, uint64(v), size), nil
}

// AppendFloat32 appends v as a little-endian IEEE-754 single precision float.
func AppendFloat32(dst []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
}

// AppendFloat64 appends v as a little-endian IEEE-754 double precision float.
func AppendFloat64(dst []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(v))
}

// AppendString appends a 1-byte length prefix followed by the UTF-8 bytes of s.
// The empty string encodes as a single 0x00 byte.
func AppendString(dst []byte, s string) ([]byte, error) {
	if len(s) > MaxStringLength {
		return dst, fmt.Errorf("%w: %d bytes, maximum is %d", ErrStringTooLong, len(s), MaxStringLength)
	}
	if !utf8.ValidString(s) {
		return dst, ErrInvalidEncoding
	}
	dst = append(dst, byte(len(s)))
	return append(dst, s...), nil
}

// AppendTimestamp appends the 8-byte timestamp encoding.
func AppendTimestamp(dst []byte, t flight.Timestamp) []byte {
	dst = append(dst, t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
	return binary.LittleEndian.AppendUint16(dst, t.Millisecond)
}

// AppendFlightEntry appends the FlightEntrySize-byte entry encoding.
func AppendFlightEntry(dst []byte, e flight.Entry) []byte {
	le := binary.LittleEndian

	dst = AppendBool(dst, e.GNSS.Valid)
	dst = AppendFloat64(dst, e.GNSS.Latitude)
	dst = AppendFloat64(dst, e.GNSS.Longitude)
	dst = le.AppendUint32(dst, e.GNSS.Altitude)
	dst = le.AppendUint32(dst, e.GNSS.Speed)

	dst = AppendBool(dst, e.Altimeter.Valid)
	dst = le.AppendUint32(dst, uint32(e.Altimeter.Altitude))
	dst = le.AppendUint32(dst, uint32(e.Altimeter.Pressure))
	dst = le.AppendUint16(dst, uint16(e.Altimeter.Temperature))

	dst = AppendBool(dst, e.Accelerometer.Valid)
	return le.AppendUint16(dst, uint16(e.Accelerometer.Acceleration))
}

func appendUint(dst []byte, v uint64, size int) []byte {
	le := binary.LittleEndian
	switch size {
	case 1:
		return append(dst, byte(v))
	case 2:
		return le.AppendUint16(dst, uint16(v))
	case 4:
		return le.AppendUint32(dst, uint32(v))
	default:
		return le.AppendUint64(dst, v)
	}
}
