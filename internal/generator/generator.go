package generator

import (
	"fmt"
	"math"
	"time"

	"github.com/cx-tal-miterani/flight-search/internal/catalog"
	"github.com/cx-tal-miterani/flight-search/internal/refine"
	"github.com/cx-tal-miterani/flight-search/shared/models"
)

const (
	basePrice   = 800
	priceSpread = 1700
	currency    = "USD"

	// price thresholds for the fare rules
	flexibleAbove    = 1500
	freeChangesAbove = 1200

	economyBaggageKg = 23
	premiumBaggageKg = 32

	deepLinkBase = "https://booking.example.com/flight/"
)

// tier is one generation category: how many flights, how many stops,
// which carriers and what duration band and price multiplier apply.
type tier struct {
	stops       int
	airlines    []string
	minDuration int
	maxDuration int
	multiplier  float64
	count       int
}

var tiers = []tier{
	{stops: 0, airlines: []string{"AA", "AR"}, minDuration: 600, maxDuration: 660, multiplier: 1.5, count: 3},
	{stops: 1, airlines: []string{"AA", "LA", "UA", "DL"}, minDuration: 720, maxDuration: 900, multiplier: 1.0, count: 8},
	{stops: 2, airlines: []string{"CM", "AV", "LA"}, minDuration: 900, maxDuration: 1200, multiplier: 0.7, count: 4},
}

// FlightCount is the number of offers produced by one Generate call
var FlightCount = func() int {
	n := 0
	for _, t := range tiers {
		n += t.count
	}
	return n
}()

// Generator synthesizes mock flight offers
type Generator struct {
	catalog *catalog.Catalog
	rng     Rand
	now     func() time.Time
	loc     *time.Location
}

type Option func(*Generator)

// WithClock overrides the clock used for the last-updated stamp
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithLocation sets the location departure dates are interpreted in
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.loc = loc
		}
	}
}

// New creates a Generator drawing from rng
func New(c *catalog.Catalog, rng Rand, opts ...Option) *Generator {
	g := &Generator{
		catalog: c,
		rng:     rng,
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a batch of nonstop, one-stop and two-stop offers for params.
// It does not validate params; callers run validation first.
func (g *Generator) Generate(params models.SearchParams) ([]models.Flight, error) {
	date, err := models.ParseTravelDate(params.DepartureDate, g.loc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse departure date: %w", err)
	}

	class := params.Class
	if class == "" {
		class = models.CabinClassEconomy
	}
	checked := premiumBaggageKg
	if class == models.CabinClassEconomy {
		checked = economyBaggageKg
	}

	updated := g.now()
	flights := make([]models.Flight, 0, FlightCount)
	seq := 1

	for _, t := range tiers {
		for i := 0; i < t.count; i++ {
			airline := g.pickAirline(t.airlines)
			duration := t.minDuration + int(g.rng.Float64()*float64(t.maxDuration-t.minDuration))
			price := int(math.Floor((basePrice + g.rng.Float64()*priceSpread) * t.multiplier))

			departure := time.Date(date.Year(), date.Month(), date.Day(),
				6+g.rng.Intn(18), g.rng.Intn(60), 0, 0, date.Location())

			segments := g.BuildSegments(params.Origin, params.Destination, departure, t.stops, airline, duration)

			flights = append(flights, models.Flight{
				ID:                 fmt.Sprintf("FL%03d", seq),
				Segments:           segments,
				TotalDuration:      refine.TotalDuration(segments),
				TotalPrice:         price,
				Currency:           currency,
				Stops:              t.stops,
				CabinClass:         class,
				Baggage:            models.Baggage{CarryOn: true, Checked: checked},
				CancellationPolicy: cancellationPolicy(price),
				ChangePolicy:       changePolicy(price),
				DeepLink:           fmt.Sprintf("%s%d", deepLinkBase, seq),
				LastUpdated:        updated,
			})
			seq++
		}
	}

	return flights, nil
}

func (g *Generator) pickAirline(codes []string) models.Airline {
	code := codes[g.rng.Intn(len(codes))]
	if airline, ok := g.catalog.Airline(code); ok {
		return airline
	}
	return models.Airline{Code: code, Name: code}
}

func cancellationPolicy(price int) string {
	if price > flexibleAbove {
		return "Flexible"
	}
	return "Restrictive"
}

func changePolicy(price int) string {
	if price > freeChangesAbove {
		return "Free changes"
	}
	return "Change fee applies"
}
