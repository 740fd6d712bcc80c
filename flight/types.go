package flight

import "fmt"

// BaseYear is the year the device counts Timestamp.Year from.
const BaseYear = 2000

// Timestamp is the device's 7-field date and time.
// No calendar validation is performed: values are kept as received.
type Timestamp struct {
	// Year is the offset from BaseYear
	Year uint8

	// Month (1 - 12)
	Month uint8

	// Day (1 - 31)
	Day uint8

	// Hour (0 - 23)
	Hour uint8

	// Minute (0 - 59)
	Minute uint8

	// Second (0 - 59)
	Second uint8

	// Millisecond (0 - 999)
	Millisecond uint16
}

// String formats the timestamp the way flight files store it,
// e.g. 2024-05-01T10-20-30.123.
func (t Timestamp) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d-%02d-%02d.%03d",
		int(t.Year)+BaseYear, t.Month, t.Day, t.Hour, t.Minute, t.Second, t.Millisecond)
}

// ParseTimestamp parses the String representation of a Timestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	var year int
	var month, day, hour, minute, second uint8
	var millis uint16
	n, err := fmt.Sscanf(s, "%04d-%02d-%02dT%02d-%02d-%02d.%03d",
		&year, &month, &day, &hour, &minute, &second, &millis)
	if err != nil || n != 7 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
	}
	if year < BaseYear || year > BaseYear+255 {
		return Timestamp{}, fmt.Errorf("timestamp year %d out of range %d-%d", year, BaseYear, BaseYear+255)
	}

	return Timestamp{
		Year:        uint8(year - BaseYear),
		Month:       month,
		Day:         day,
		Hour:        hour,
		Minute:      minute,
		Second:      second,
		Millisecond: millis,
	}, nil
}

// Header describes a recorded flight.
type Header struct {
	// Timestamp is the take-off date and time
	Timestamp Timestamp

	// Glider is the glider name configured on the device
	Glider string

	// PeriodMs is the interval between two entries in milliseconds
	PeriodMs uint16
}

// GNSS is the satellite navigation part of an entry.
type GNSS struct {
	Valid bool

	// Latitude in degrees
	Latitude float64

	// Longitude in degrees
	Longitude float64

	// Altitude (1 = 0.1 m)
	Altitude uint32

	// Speed (1 = 0.1 m/s)
	Speed uint32
}

// Altimeter is the barometric part of an entry.
type Altimeter struct {
	Valid bool

	// Altitude (1 = 0.1 m)
	Altitude int32

	// Pressure (1 = 0.01 mbar)
	Pressure int32

	// Temperature (1 = 0.1 °C)
	Temperature int16
}

// Accelerometer is the acceleration part of an entry.
type Accelerometer struct {
	Valid bool

	// Acceleration is the total acceleration (1000 = 1 g)
	Acceleration int16
}

// Entry is one recorded sample. Each part carries its own validity flag.
type Entry struct {
	GNSS          GNSS
	Altimeter     Altimeter
	Accelerometer Accelerometer
}

// Flight is a complete recorded flight: the header and its entries in
// device-reported order.
type Flight struct {
	Header  Header
	Entries []Entry
}

// IndexEntry is one line of the device's flight index.
type IndexEntry struct {
	// Name is the flight file name on the device
	Name string `yaml:"name"`

	// Size is the flight file size in bytes
	Size uint32 `yaml:"size"`
}
