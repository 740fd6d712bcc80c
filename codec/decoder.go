package codec

import "github.com/moffa90/go-ovtoolbox/flight"

// Decoder walks a response payload, keeping the cursor between reads.
//
// Example:
//
//	d := codec.NewDecoder(payload)
//	accepted, err := d.Bool()
//	if err != nil {
//	    return err
//	}
//	name, err := d.Text()
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder returns a Decoder positioned at the start of buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Offset returns the cursor position.
func (d *Decoder) Offset() int { return d.off }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.off }

// Bool reads a boolean.
func (d *Decoder) Bool() (bool, error) {
	v, next, err := ReadBool(d.buf, d.off)
	d.off = next
	return v, err
}

// Uint8 reads a 1-byte unsigned integer.
func (d *Decoder) Uint8() (uint8, error) {
	v, err := d.uint(1)
	return uint8(v), err
}

// Uint16 reads a 2-byte unsigned integer.
func (d *Decoder) Uint16() (uint16, error) {
	v, err := d.uint(2)
	return uint16(v), err
}

// Uint32 reads a 4-byte unsigned integer.
func (d *Decoder) Uint32() (uint32, error) {
	v, err := d.uint(4)
	return uint32(v), err
}

// Int16 reads a 2-byte signed integer.
func (d *Decoder) Int16() (int16, error) {
	v, next, err := ReadInt(d.buf, d.off, 2)
	d.off = next
	return int16(v), err
}

// Int32 reads a 4-byte signed integer.
func (d *Decoder) Int32() (int32, error) {
	v, next, err := ReadInt(d.buf, d.off, 4)
	d.off = next
	return int32(v), err
}

// Float64 reads a double precision float.
func (d *Decoder) Float64() (float64, error) {
	v, next, err := ReadFloat64(d.buf, d.off)
	d.off = next
	return v, err
}

// Text reads a length-prefixed UTF-8 string.
func (d *Decoder) Text() (string, error) {
	v, next, err := ReadString(d.buf, d.off)
	d.off = next
	return v, err
}

// Timestamp reads a flight.Timestamp.
func (d *Decoder) Timestamp() (flight.Timestamp, error) {
	v, next, err := ReadTimestamp(d.buf, d.off)
	d.off = next
	return v, err
}

// FlightEntry reads one flight.Entry, or returns ErrEndOfEntries when the
// remaining bytes cannot hold another entry.
func (d *Decoder) FlightEntry() (flight.Entry, error) {
	v, next, err := ReadFlightEntry(d.buf, d.off)
	d.off = next
	return v, err
}

func (d *Decoder) uint(size int) (uint64, error) {
	v, next, err := ReadUint(d.buf, d.off, size)
	d.off = next
	return v, err
}
