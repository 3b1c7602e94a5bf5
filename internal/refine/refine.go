package refine

import (
	"sort"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flight-search/shared/models"
)

// Filter returns the flights matching every constraint in filters.
// A nil filters value, nil bounds and empty lists impose no constraint.
// The input slice is never modified.
func Filter(flights []models.Flight, filters *models.SearchFilters) []models.Flight {
	result := make([]models.Flight, 0, len(flights))
	for _, f := range flights {
		if matches(f, filters) {
			result = append(result, f)
		}
	}
	return result
}

func matches(f models.Flight, filters *models.SearchFilters) bool {
	if filters == nil {
		return true
	}
	if filters.MinPrice != nil && f.TotalPrice < *filters.MinPrice {
		return false
	}
	if filters.MaxPrice != nil && f.TotalPrice > *filters.MaxPrice {
		return false
	}
	if filters.MaxStops != nil && f.Stops > *filters.MaxStops {
		return false
	}
	if filters.MaxDuration != nil && f.TotalDuration > *filters.MaxDuration {
		return false
	}
	if len(filters.Airlines) > 0 && !anySegment(f, filters.Airlines, func(s models.FlightSegment) []string {
		return []string{s.Airline.Code}
	}) {
		return false
	}
	if len(filters.Airports) > 0 && !anySegment(f, filters.Airports, func(s models.FlightSegment) []string {
		return []string{s.DepartureAirport.Code, s.ArrivalAirport.Code}
	}) {
		return false
	}
	if len(filters.TimeOfDay) > 0 {
		bucket := TimeOfDayOf(f.DepartureTime())
		found := false
		for _, want := range filters.TimeOfDay {
			if want == bucket {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// anySegment reports whether some segment yields a code contained in codes
func anySegment(f models.Flight, codes []string, extract func(models.FlightSegment) []string) bool {
	for _, s := range f.Segments {
		for _, have := range extract(s) {
			for _, want := range codes {
				if strings.EqualFold(have, want) {
					return true
				}
			}
		}
	}
	return false
}

// Apply filters flights and then sorts them when opts is set
func Apply(flights []models.Flight, filters *models.SearchFilters, opts *models.SortOptions) []models.Flight {
	result := Filter(flights, filters)
	if opts != nil {
		result = Sort(result, *opts)
	}
	return result
}

// Sort returns a stably sorted copy of flights. Unknown fields keep the input order.
func Sort(flights []models.Flight, opts models.SortOptions) []models.Flight {
	sorted := make([]models.Flight, len(flights))
	copy(sorted, flights)

	less := comparator(opts.Field)
	if less == nil {
		return sorted
	}

	desc := opts.Direction == models.SortDesc
	sort.SliceStable(sorted, func(i, j int) bool {
		if desc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

func comparator(field models.SortField) func(a, b models.Flight) bool {
	switch field {
	case models.SortByPrice:
		return func(a, b models.Flight) bool { return a.TotalPrice < b.TotalPrice }
	case models.SortByDuration:
		return func(a, b models.Flight) bool { return a.TotalDuration < b.TotalDuration }
	case models.SortByDeparture:
		return func(a, b models.Flight) bool { return a.DepartureTime().Before(b.DepartureTime()) }
	case models.SortByArrival:
		return func(a, b models.Flight) bool { return a.ArrivalTime().Before(b.ArrivalTime()) }
	case models.SortByStops:
		return func(a, b models.Flight) bool { return a.Stops < b.Stops }
	default:
		return nil
	}
}

// TimeOfDayOf buckets a departure by its local hour.
func TimeOfDayOf(t time.Time) models.TimeOfDay {
	hour := t.Hour()
	switch {
	case hour >= 6 && hour < 12:
		return models.TimeOfDayMorning
	case hour >= 12 && hour < 18:
		return models.TimeOfDayAfternoon
	default:
		return models.TimeOfDayEvening
	}
}

// TotalDuration is the elapsed minutes from the first departure to the last arrival
func TotalDuration(segments []models.FlightSegment) int {
	if len(segments) == 0 {
		return 0
	}
	elapsed := segments[len(segments)-1].ArrivalTime.Sub(segments[0].DepartureTime)
	return int(elapsed / time.Minute)
}

// PriceRange returns the cheapest and most expensive total price, or zeros for no flights
func PriceRange(flights []models.Flight) models.PriceRange {
	if len(flights) == 0 {
		return models.PriceRange{}
	}
	r := models.PriceRange{Min: flights[0].TotalPrice, Max: flights[0].TotalPrice}
	for _, f := range flights[1:] {
		if f.TotalPrice < r.Min {
			r.Min = f.TotalPrice
		}
		if f.TotalPrice > r.Max {
			r.Max = f.TotalPrice
		}
	}
	return r
}

// UniqueAirlines counts segments per carrier, most frequent first.
// Ties keep first-seen order.
func UniqueAirlines(flights []models.Flight) []models.AirlineCount {
	index := make(map[string]int)
	counts := make([]models.AirlineCount, 0)
	for _, f := range flights {
		for _, s := range f.Segments {
			i, ok := index[s.Airline.Code]
			if !ok {
				i = len(counts)
				index[s.Airline.Code] = i
				counts = append(counts, models.AirlineCount{Code: s.Airline.Code, Name: s.Airline.Name})
			}
			counts[i].Count++
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// Facets summarizes flights for building filter controls
func Facets(flights []models.Flight) models.FilterFacets {
	facets := models.FilterFacets{
		PriceRange: PriceRange(flights),
		Airlines:   UniqueAirlines(flights),
	}
	for i, f := range flights {
		if i == 0 || f.TotalDuration < facets.MinDuration {
			facets.MinDuration = f.TotalDuration
		}
		if i == 0 || f.TotalDuration > facets.MaxDuration {
			facets.MaxDuration = f.TotalDuration
		}
	}
	return facets
}
