package flight

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// KML styling of the flight trace.
const (
	kmlNamespace  = "http://www.opengis.net/kml/2.2"
	traceStyleID  = "redline"
	traceColor    = "7F0000FF"
	traceWidth    = 6
	altitudeScale = 10 // GNSS altitude unit is 0.1 m
)

// ErrNoEntries is returned when a flight without entries is exported.
var ErrNoEntries = errors.New("flight has no entries")

type kmlRoot struct {
	XMLName  xml.Name    `xml:"kml"`
	Xmlns    string      `xml:"xmlns,attr"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Name       string         `xml:"name"`
	Style      kmlStyle       `xml:"Style"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlStyle struct {
	ID        string       `xml:"id,attr"`
	LineStyle kmlLineStyle `xml:"LineStyle"`
}

type kmlLineStyle struct {
	Color string `xml:"color"`
	Width int    `xml:"width"`
}

type kmlPlacemark struct {
	Name       string         `xml:"name,omitempty"`
	StyleURL   string         `xml:"styleUrl,omitempty"`
	Point      *kmlPoint      `xml:"Point,omitempty"`
	LineString *kmlLineString `xml:"LineString,omitempty"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type kmlLineString struct {
	AltitudeMode string `xml:"altitudeMode"`
	Coordinates  string `xml:"coordinates"`
}

// ExportKMLFile writes the flight trace to path as a KML document.
func ExportKMLFile(path string, f *Flight) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := WriteKML(file, f); err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}

// WriteKML writes the flight trace as a KML 2.2 document: a takeoff
// placemark on the first entry, a landing placemark on the last one and
// an absolute altitude line through every entry.
func WriteKML(w io.Writer, f *Flight) error {
	if f == nil {
		return fmt.Errorf("flight cannot be nil")
	}
	if len(f.Entries) == 0 {
		return ErrNoEntries
	}

	takeoff := f.Entries[0]
	landing := f.Entries[len(f.Entries)-1]

	// encoding/xml escapes newlines in character data, so tuples are
	// separated by single spaces.
	trace := make([]string, 0, len(f.Entries))
	for _, e := range f.Entries {
		trace = append(trace, coordinates(e))
	}

	doc := kmlRoot{
		Xmlns: kmlNamespace,
		Document: kmlDocument{
			Name: fmt.Sprintf("Flight with glider : %s - %s", f.Header.Glider, f.Header.Timestamp),
			Style: kmlStyle{
				ID:        traceStyleID,
				LineStyle: kmlLineStyle{Color: traceColor, Width: traceWidth},
			},
			Placemarks: []kmlPlacemark{
				{Name: "Takeoff", Point: &kmlPoint{Coordinates: coordinates(takeoff)}},
				{Name: "Landing", Point: &kmlPoint{Coordinates: coordinates(landing)}},
				{
					StyleURL: "#" + traceStyleID,
					LineString: &kmlLineString{
						AltitudeMode: "absolute",
						Coordinates:  strings.Join(trace, " "),
					},
				},
			},
		},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode KML: %w", err)
	}
	return enc.Close()
}

// coordinates formats an entry as lon,lat,alt with the altitude in meters.
func coordinates(e Entry) string {
	return fmt.Sprintf("%.6f,%.6f,%d", e.GNSS.Longitude, e.GNSS.Latitude, e.GNSS.Altitude/altitudeScale)
}
