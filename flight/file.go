package flight

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/ini.v1"
)

// Constants for the flight file format.
const (
	// HeaderSection holds the flight header keys
	HeaderSection = "header"

	// DataSection holds one key per entry, numbered from 0
	DataSection = "data"

	// EntryColumns is the number of comma separated values per entry:
	// 11 recorded values followed by sink rate and glide ratio
	EntryColumns = 13

	keyDate   = "Date"
	keyGlider = "Glider"
	keyPeriod = "Period"
)

// iniFormatMu serializes writers that change the ini.v1 formatting globals.
var iniFormatMu sync.Mutex

// writeINI writes file as key=value lines without padding. The ini.v1
// formatting globals are changed only for the duration of the write.
func writeINI(w io.Writer, file *ini.File) error {
	iniFormatMu.Lock()
	defer iniFormatMu.Unlock()

	prettyFormat, prettyEqual := ini.PrettyFormat, ini.PrettyEqual
	ini.PrettyFormat, ini.PrettyEqual = false, false
	defer func() {
		ini.PrettyFormat, ini.PrettyEqual = prettyFormat, prettyEqual
	}()

	_, err := file.WriteTo(w)
	return err
}

// SaveFile writes the flight to path in the flight file format.
//
// Example:
//
//	if err := flight.SaveFile(filepath.Join(home, name), f); err != nil {
//	    log.Fatal(err)
//	}
func SaveFile(path string, f *Flight) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, f); err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}

// Write writes the flight to w in the flight file format:
//
//	[header]
//	Date=2024-05-01T10-20-30.123
//	Glider=ASK-21
//	Period=1000
//	[data]
//	0=True,45.123456,6.123456,120,15000,True,101325,14950,215,True,1000,0,0
func Write(w io.Writer, f *Flight) error {
	if f == nil {
		return fmt.Errorf("flight cannot be nil")
	}

	file := ini.Empty()

	header, err := file.NewSection(HeaderSection)
	if err != nil {
		return err
	}
	if _, err := header.NewKey(keyDate, f.Header.Timestamp.String()); err != nil {
		return err
	}
	if _, err := header.NewKey(keyGlider, f.Header.Glider); err != nil {
		return err
	}
	if _, err := header.NewKey(keyPeriod, strconv.Itoa(int(f.Header.PeriodMs))); err != nil {
		return err
	}

	data, err := file.NewSection(DataSection)
	if err != nil {
		return err
	}
	for i, e := range f.Entries {
		if _, err := data.NewKey(strconv.Itoa(i), formatEntry(e)); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}

	if err := writeINI(w, file); err != nil {
		return fmt.Errorf("failed to write flight file: %w", err)
	}
	return nil
}

// LoadFile reads a flight file from the given path.
func LoadFile(path string) (*Flight, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return Read(bytes.NewReader(raw))
}

// Read parses a flight file from any io.Reader.
// The header must be complete; every data row must carry EntryColumns values.
func Read(r io.Reader) (*Flight, error) {
	file, err := ini.Load(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse flight file: %w", err)
	}

	header, err := file.GetSection(HeaderSection)
	if err != nil {
		return nil, fmt.Errorf("missing [%s] section", HeaderSection)
	}

	f := &Flight{}

	date, err := header.GetKey(keyDate)
	if err != nil {
		return nil, fmt.Errorf("missing '%s' value in header", keyDate)
	}
	if f.Header.Timestamp, err = ParseTimestamp(date.String()); err != nil {
		return nil, err
	}

	glider, err := header.GetKey(keyGlider)
	if err != nil {
		return nil, fmt.Errorf("missing '%s' value in header", keyGlider)
	}
	f.Header.Glider = glider.String()

	period, err := header.GetKey(keyPeriod)
	if err != nil {
		return nil, fmt.Errorf("missing '%s' value in header", keyPeriod)
	}
	p, err := strconv.ParseUint(period.String(), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid '%s' value in header: %w", keyPeriod, err)
	}
	f.Header.PeriodMs = uint16(p)

	data, err := file.GetSection(DataSection)
	if err != nil {
		// A flight without a data section has no entries.
		return f, nil
	}

	count := len(data.Keys())
	f.Entries = make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		key, err := data.GetKey(strconv.Itoa(i))
		if err != nil {
			return nil, fmt.Errorf("missing entry %d", i)
		}
		e, err := parseEntry(key.String())
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		f.Entries = append(f.Entries, e)
	}

	return f, nil
}

func formatEntry(e Entry) string {
	values := []string{
		formatBool(e.GNSS.Valid),
		strconv.FormatFloat(e.GNSS.Latitude, 'f', -1, 64),
		strconv.FormatFloat(e.GNSS.Longitude, 'f', -1, 64),
		strconv.FormatUint(uint64(e.GNSS.Speed), 10),
		strconv.FormatUint(uint64(e.GNSS.Altitude), 10),
		formatBool(e.Altimeter.Valid),
		strconv.FormatInt(int64(e.Altimeter.Pressure), 10),
		strconv.FormatInt(int64(e.Altimeter.Altitude), 10),
		strconv.FormatInt(int64(e.Altimeter.Temperature), 10),
		formatBool(e.Accelerometer.Valid),
		strconv.FormatInt(int64(e.Accelerometer.Acceleration), 10),
		"0", // sink rate, not recorded
		"0", // glide ratio, not recorded
	}
	return strings.Join(values, ",")
}

func parseEntry(value string) (Entry, error) {
	values := strings.Split(value, ",")
	if len(values) != EntryColumns {
		return Entry{}, fmt.Errorf("expected %d values, got %d", EntryColumns, len(values))
	}

	var e Entry
	p := fieldParser{values: values}
	e.GNSS.Valid = p.boolAt(0)
	e.GNSS.Latitude = p.floatAt(1)
	e.GNSS.Longitude = p.floatAt(2)
	e.GNSS.Speed = uint32(p.uintAt(3, 32))
	e.GNSS.Altitude = uint32(p.uintAt(4, 32))
	e.Altimeter.Valid = p.boolAt(5)
	e.Altimeter.Pressure = int32(p.intAt(6, 32))
	e.Altimeter.Altitude = int32(p.intAt(7, 32))
	e.Altimeter.Temperature = int16(p.intAt(8, 16))
	e.Accelerometer.Valid = p.boolAt(9)
	e.Accelerometer.Acceleration = int16(p.intAt(10, 16))
	if p.err != nil {
		return Entry{}, p.err
	}

	return e, nil
}

// fieldParser converts entry columns, keeping the first error.
type fieldParser struct {
	values []string
	err    error
}

func (p *fieldParser) fail(col int, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("column %d (%q): %w", col, p.values[col], err)
	}
}

func (p *fieldParser) boolAt(col int) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(p.values[col]))
	if err != nil {
		p.fail(col, err)
	}
	return v
}

func (p *fieldParser) floatAt(col int) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(p.values[col]), 64)
	if err != nil {
		p.fail(col, err)
	}
	return v
}

func (p *fieldParser) uintAt(col int, bits int) uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(p.values[col]), 10, bits)
	if err != nil {
		p.fail(col, err)
	}
	return v
}

func (p *fieldParser) intAt(col int, bits int) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(p.values[col]), 10, bits)
	if err != nil {
		p.fail(col, err)
	}
	return v
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
