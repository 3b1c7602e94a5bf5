package generator

import (
	"fmt"
	"time"

	"github.com/cx-tal-miterani/flight-search/shared/models"
)

const (
	minConnection      = 60
	maxConnection      = 180
	segmentJitter      = 30
	minSegmentDuration = 1
)

// BuildSegments splits totalDuration minutes of flying time across stops+1 legs.
// Intermediate legs land at connection hubs and are followed by a 60-180 minute
// connection; the last leg takes whatever flying time remains.
func (g *Generator) BuildSegments(
	origin string,
	destination string,
	departure time.Time,
	stops int,
	airline models.Airline,
	totalDuration int,
) []models.FlightSegment {
	if stops < 0 {
		stops = 0
	}

	aircraft := g.catalog.Aircraft()
	segments := make([]models.FlightSegment, 0, stops+1)

	from := g.catalog.Airport(origin)
	legDeparture := departure
	remaining := totalDuration

	for i := 0; i <= stops; i++ {
		last := i == stops

		var to models.Airport
		duration := remaining
		if last {
			to = g.catalog.Airport(destination)
		} else {
			to = g.catalog.Hub(i)
			duration = remaining/(stops-i+1) + g.rng.Intn(2*segmentJitter+1) - segmentJitter
		}
		if duration < minSegmentDuration {
			duration = minSegmentDuration
		}

		arrival := legDeparture.Add(time.Duration(duration) * time.Minute)

		segments = append(segments, models.FlightSegment{
			ID:               fmt.Sprintf("SEG%d", i+1),
			DepartureAirport: from,
			ArrivalAirport:   to,
			DepartureTime:    legDeparture,
			ArrivalTime:      arrival,
			Airline:          airline,
			FlightNumber:     fmt.Sprintf("%s%d", airline.Code, 1000+g.rng.Intn(9000)),
			Aircraft:         aircraft[g.rng.Intn(len(aircraft))],
			Duration:         duration,
			Class:            models.CabinClassEconomy,
		})

		if !last {
			from = to
			connection := minConnection + g.rng.Intn(maxConnection-minConnection+1)
			legDeparture = arrival.Add(time.Duration(connection) * time.Minute)
			remaining -= duration
		}
	}

	return segments
}
