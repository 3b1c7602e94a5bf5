package models

import "time"

// Airport is an immutable reference record looked up by its IATA code
type Airport struct {
	Code    string `json:"code" yaml:"code"`
	Name    string `json:"name" yaml:"name"`
	City    string `json:"city" yaml:"city"`
	Country string `json:"country" yaml:"country"`
}

// Airline is an immutable reference record for a carrier
type Airline struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// FlightSegment is a single flown leg between two airports
type FlightSegment struct {
	ID               string     `json:"id"`
	DepartureAirport Airport    `json:"departureAirport"`
	ArrivalAirport   Airport    `json:"arrivalAirport"`
	DepartureTime    time.Time  `json:"departureTime"`
	ArrivalTime      time.Time  `json:"arrivalTime"`
	Airline          Airline    `json:"airline"`
	FlightNumber     string     `json:"flightNumber"`
	Aircraft         string     `json:"aircraft"`
	Duration         int        `json:"duration"` // in minutes
	Class            CabinClass `json:"class"`
}

// Baggage describes the allowance included in the fare
type Baggage struct {
	CarryOn bool `json:"carryOn"`
	Checked int  `json:"checked"` // kilograms
}

// Flight is an offer made of one to three contiguous segments
type Flight struct {
	ID                 string          `json:"id"`
	Segments           []FlightSegment `json:"segments"`
	// TotalDuration is minutes from first departure to last arrival, connections included,
	// so a connecting offer can run longer than its tier's flying-time band.
	TotalDuration      int             `json:"totalDuration"`
	TotalPrice         int             `json:"totalPrice"`
	Currency           string          `json:"currency"`
	Stops              int             `json:"stops"`
	CabinClass         CabinClass      `json:"cabinClass"`
	Baggage            Baggage         `json:"baggage"`
	CancellationPolicy string          `json:"cancellationPolicy"`
	ChangePolicy       string          `json:"changePolicy"`
	DeepLink           string          `json:"deepLink"`
	LastUpdated        time.Time       `json:"lastUpdated"`
}

// Origin returns the departure airport of the first segment.
func (f Flight) Origin() Airport {
	if len(f.Segments) == 0 {
		return Airport{}
	}
	return f.Segments[0].DepartureAirport
}

// Destination returns the arrival airport of the last segment.
func (f Flight) Destination() Airport {
	if len(f.Segments) == 0 {
		return Airport{}
	}
	return f.Segments[len(f.Segments)-1].ArrivalAirport
}

// DepartureTime returns the departure time of the first segment.
func (f Flight) DepartureTime() time.Time {
	if len(f.Segments) == 0 {
		return time.Time{}
	}
	return f.Segments[0].DepartureTime
}

// ArrivalTime returns the arrival time of the last segment.
func (f Flight) ArrivalTime() time.Time {
	if len(f.Segments) == 0 {
		return time.Time{}
	}
	return f.Segments[len(f.Segments)-1].ArrivalTime
}

type CabinClass string

const (
	CabinClassEconomy  CabinClass = "economy"
	CabinClassBusiness CabinClass = "business"
	CabinClassFirst    CabinClass = "first"
)

type TripType string

const (
	TripTypeOneWay    TripType = "one-way"
	TripTypeRoundTrip TripType = "round-trip"
)

type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
	// TimeOfDayNight is never derived from a departure hour; evening covers 18:00-05:59.
	TimeOfDayNight TimeOfDay = "night"
)
