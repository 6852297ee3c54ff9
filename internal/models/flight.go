package models

import "time"

// Flight is a single leg as recorded in AC_ACTUAL_FLIGHTS
type Flight struct {
	AC            string
	FlightDate    time.Time // Day of the flight, time of day ignored
	TakeoffHour   int
	TakeoffMinute int
	FlightHours   int
	FlightMinutes int
	Cycles        int
}

// Takeoff is the flight date plus the recorded takeoff hour and minute
func (f Flight) Takeoff() time.Time {
	d := f.FlightDate
	return time.Date(d.Year(), d.Month(), d.Day(), f.TakeoffHour, f.TakeoffMinute, 0, 0, time.UTC)
}

// FlightActivity is the aggregate flight time for one key (aircraft or ESN) in one month
type FlightActivity struct {
	Key          string
	Month        string // YYYY-MM
	FlightHours  float64
	FlightCycles int
}

// FlightTotals is the lifetime flight time of an aircraft as of some instant
type FlightTotals struct {
	AC           string
	FlightHours  float64
	FlightCycles int
}
