package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of departure and return dates
const DateLayout = "2006-01-02"

// Passengers holds the passenger counts of a search
type Passengers struct {
	Adults   int `json:"adults" validate:"min=1"`
	Children int `json:"children" validate:"min=0"`
	Infants  int `json:"infants" validate:"min=0"`
}

// Total returns the number of travelling passengers
func (p Passengers) Total() int {
	return p.Adults + p.Children + p.Infants
}

// SearchParams represents the criteria of a flight search.
// Field rules are declared as validator tags; date ordering is checked by the validation package.
type SearchParams struct {
	Origin        string     `json:"origin" validate:"required"`
	Destination   string     `json:"destination" validate:"required"`
	DepartureDate string     `json:"departureDate" validate:"required"`
	ReturnDate    string     `json:"returnDate,omitempty" validate:"required_if=TripType round-trip"`
	Passengers    Passengers `json:"passengers"`
	Class         CabinClass `json:"class" validate:"omitempty,oneof=economy business first"`
	TripType      TripType   `json:"tripType" validate:"omitempty,oneof=one-way round-trip"`
}

// Route returns the route key used for notifications, e.g. "EZE-MIA"
func (p SearchParams) Route() string {
	return p.Origin + "-" + p.Destination
}

// WithDefaults normalizes airport codes and fills the optional cabin class and trip type.
// Passenger counts are left alone since at least one adult is required.
func (p SearchParams) WithDefaults() SearchParams {
	p.Origin = strings.ToUpper(strings.TrimSpace(p.Origin))
	p.Destination = strings.ToUpper(strings.TrimSpace(p.Destination))
	if p.Class == "" {
		p.Class = CabinClassEconomy
	}
	if p.TripType == "" {
		p.TripType = TripTypeOneWay
	}
	return p
}

// ParseTravelDate parses a date-only value or an RFC 3339 timestamp in loc
func ParseTravelDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid travel date %q: %w", value, err)
	}
	return t.In(loc), nil
}

// SearchFilters narrows a flight list. Nil or empty fields impose no constraint.
type SearchFilters struct {
	MinPrice    *int        `json:"minPrice,omitempty"`
	MaxPrice    *int        `json:"maxPrice,omitempty"`
	Airlines    []string    `json:"airlines,omitempty"`
	MaxStops    *int        `json:"maxStops,omitempty"`
	MaxDuration *int        `json:"maxDuration,omitempty"`
	TimeOfDay   []TimeOfDay `json:"timeOfDay,omitempty"`
	Airports    []string    `json:"airports,omitempty"`
}

type SortField string

const (
	SortByPrice     SortField = "price"
	SortByDuration  SortField = "duration"
	SortByDeparture SortField = "departure"
	SortByArrival   SortField = "arrival"
	SortByStops     SortField = "stops"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortOptions selects the ordering of a flight list
type SortOptions struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// SearchRequest is the body accepted by the search endpoint
type SearchRequest struct {
	SearchParams
	Filters *SearchFilters `json:"filters,omitempty"`
	Sort    *SortOptions   `json:"sort,omitempty"`
}

// ValidationResult lists every rule a search violated
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// PriceRange is the lowest and highest total price of a flight list
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// AirlineCount is an airline and the number of segments it operates in a list
type AirlineCount struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FilterFacets describes the values available for filtering a result set
type FilterFacets struct {
	PriceRange  PriceRange     `json:"priceRange"`
	Airlines    []AirlineCount `json:"airlines"`
	MinDuration int            `json:"minDuration"`
	MaxDuration int            `json:"maxDuration"`
}

// SearchResponse is returned by the search endpoint
type SearchResponse struct {
	Flights      []Flight     `json:"flights"`
	SearchID     string       `json:"searchId"`
	TotalResults int          `json:"totalResults"`
	SearchParams SearchParams `json:"searchParams"`
	Filters      FilterFacets `json:"filters"`
}
