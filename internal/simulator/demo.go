package simulator

import (
	"math"

	"github.com/moffa90/go-ovtoolbox/flight"
)

// DemoRecordings returns a deterministic set of flights: a local
// soaring flight, a short circuit and an empty recording.
func DemoRecordings() []Recording {
	return []Recording{
		{
			Name:   "flight_0001.dat",
			Flight: demoFlight("ASK-21", flight.Timestamp{Year: 24, Month: 5, Day: 1, Hour: 10, Minute: 20, Second: 30, Millisecond: 123}, 1000, 120),
		},
		{
			Name:   "flight_0002.dat",
			Flight: demoFlight("Discus 2b", flight.Timestamp{Year: 24, Month: 6, Day: 14, Hour: 13, Minute: 5}, 500, 60),
		},
		{
			Name:   "flight_0003.dat",
			Flight: demoFlight("LS4", flight.Timestamp{Year: 24, Month: 7, Day: 2, Hour: 9, Minute: 45}, 1000, 0),
		},
	}
}

// demoFlight generates a thermalling climb around a fixed point.
func demoFlight(glider string, ts flight.Timestamp, periodMs uint16, count int) *flight.Flight {
	const (
		originLat = 45.2130
		originLon = 5.8450
		radius    = 0.004
	)

	f := &flight.Flight{
		Header: flight.Header{
			Timestamp: ts,
			Glider:    glider,
			PeriodMs:  periodMs,
		},
		Entries: make([]flight.Entry, 0, count),
	}

	for i := 0; i < count; i++ {
		angle := float64(i) * 2 * math.Pi / 30
		altitude := 5000 + i*15 // 0.1 m

		f.Entries = append(f.Entries, flight.Entry{
			GNSS: flight.GNSS{
				Valid:     i >= 3, // no fix for the first samples
				Latitude:  originLat + radius*math.Sin(angle),
				Longitude: originLon + radius*math.Cos(angle),
				Altitude:  uint32(altitude),
				Speed:     uint32(220 + (i%7)*5),
			},
			Altimeter: flight.Altimeter{
				Valid:       true,
				Altitude:    int32(altitude - 30),
				Pressure:    int32(101325 - i*18),
				Temperature: int16(215 - i/4),
			},
			Accelerometer: flight.Accelerometer{
				Valid:        true,
				Acceleration: int16(1000 + 150*math.Sin(angle*2)),
			},
		})
	}

	return f
}
