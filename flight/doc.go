// Package flight holds the typed flight records retrieved from an OpenVario
// device and the file formats they are handed to.
//
// # Records
//
// A Flight is a Header followed by Entries in device order. Each Entry has
// three independently flagged parts: GNSS, Altimeter and Accelerometer.
//
// # Flight Files
//
// SaveFile/Write and LoadFile/Read use the INI based flight file format of
// the OpenVario toolbox:
//
//	[header]
//	Date=2024-05-01T10-20-30.123
//	Glider=ASK-21
//	Period=1000
//	[data]
//	0=True,45.123456,6.123456,120,15000,True,101325,14950,215,True,1000,0,0
//
// # KML
//
// ExportKMLFile/WriteKML render the GNSS trace for Google Earth and similar tools:
//
//	f, err := flight.LoadFile("flight_0001.dat")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = flight.ExportKMLFile("flight_0001.kml", f)
package flight
