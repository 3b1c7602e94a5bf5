package generator

import (
	"fmt"
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/cx-tal-miterani/flight-search/internal/catalog"
	"github.com/cx-tal-miterani/flight-search/internal/refine"
	"github.com/cx-tal-miterani/flight-search/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2030, 1, 1, 9, 30, 0, 0, time.UTC)

func newTestGenerator(t *testing.T, seed int64) *Generator {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return New(c, rand.New(rand.NewSource(seed)),
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
	)
}

func searchParams() models.SearchParams {
	return models.SearchParams{
		Origin:        "EZE",
		Destination:   "MIA",
		DepartureDate: "2030-01-05",
		Passengers:    models.Passengers{Adults: 1},
		Class:         models.CabinClassEconomy,
		TripType:      models.TripTypeOneWay,
	}
}

func TestGenerate_TierCounts(t *testing.T) {
	g := newTestGenerator(t, 42)

	flights, err := g.Generate(searchParams())
	require.NoError(t, err)
	require.Len(t, flights, 15)
	assert.Equal(t, 15, FlightCount)

	byStops := map[int]int{}
	for i, f := range flights {
		byStops[f.Stops]++
		assert.Len(t, f.Segments, f.Stops+1)
		assert.Equal(t, fmt.Sprintf("FL%03d", i+1), f.ID)
		assert.Equal(t, fmt.Sprintf("https://booking.example.com/flight/%d", i+1), f.DeepLink)
		assert.Equal(t, "USD", f.Currency)
		assert.Equal(t, fixedNow, f.LastUpdated)
	}
	assert.Equal(t, map[int]int{0: 3, 1: 8, 2: 4}, byStops)
}

func TestGenerate_NonstopFilter(t *testing.T) {
	for _, seed := range []int64{1, 42, 2030} {
		flights, err := newTestGenerator(t, seed).Generate(searchParams())
		require.NoError(t, err)

		nonstop := refine.Filter(flights, &models.SearchFilters{MaxStops: intPtr(0)})
		assert.Len(t, nonstop, 3, "seed %d", seed)
		for _, f := range nonstop {
			assert.Equal(t, 0, f.Stops)
		}
	}
}

func intPtr(v int) *int { return &v }

func TestGenerate_TierAirlines(t *testing.T) {
	g := newTestGenerator(t, 7)

	allowed := map[int][]string{
		0: {"AA", "AR"},
		1: {"AA", "LA", "UA", "DL"},
		2: {"CM", "AV", "LA"},
	}

	for batch := 0; batch < 20; batch++ {
		flights, err := g.Generate(searchParams())
		require.NoError(t, err)
		for _, f := range flights {
			for _, s := range f.Segments {
				assert.Contains(t, allowed[f.Stops], s.Airline.Code)
				assert.NotEmpty(t, s.Airline.Name)
			}
		}
	}
}

func TestGenerate_RouteEndpoints(t *testing.T) {
	g := newTestGenerator(t, 1)

	flights, err := g.Generate(searchParams())
	require.NoError(t, err)

	for _, f := range flights {
		assert.Equal(t, "EZE", f.Origin().Code)
		assert.Equal(t, "MIA", f.Destination().Code)
		assert.Equal(t, "Buenos Aires", f.Origin().City)

		for i := 1; i < len(f.Segments); i++ {
			assert.Equal(t, f.Segments[i-1].ArrivalAirport, f.Segments[i].DepartureAirport)
		}
	}
}

func TestGenerate_SegmentTiming(t *testing.T) {
	g := newTestGenerator(t, 99)

	for batch := 0; batch < 20; batch++ {
		flights, err := g.Generate(searchParams())
		require.NoError(t, err)

		for _, f := range flights {
			dep := f.DepartureTime()
			assert.Equal(t, 2030, dep.Year())
			assert.Equal(t, time.January, dep.Month())
			assert.Equal(t, 5, dep.Day())
			assert.GreaterOrEqual(t, dep.Hour(), 6)
			assert.LessOrEqual(t, dep.Hour(), 23)

			flying := 0
			for i, s := range f.Segments {
				assert.Equal(t, time.Duration(s.Duration)*time.Minute, s.ArrivalTime.Sub(s.DepartureTime))
				assert.GreaterOrEqual(t, s.Duration, 1)
				flying += s.Duration

				if i > 0 {
					gap := s.DepartureTime.Sub(f.Segments[i-1].ArrivalTime)
					assert.GreaterOrEqual(t, gap, 60*time.Minute)
					assert.LessOrEqual(t, gap, 180*time.Minute)
				}
			}

			assert.Equal(t, int(f.ArrivalTime().Sub(dep)/time.Minute), f.TotalDuration)
			assert.GreaterOrEqual(t, f.TotalDuration, flying)
		}
	}
}

func TestGenerate_TierDurationBands(t *testing.T) {
	g := newTestGenerator(t, 5)

	bands := map[int][2]int{0: {600, 660}, 1: {720, 900}, 2: {900, 1200}}

	flights, err := g.Generate(searchParams())
	require.NoError(t, err)
	for _, f := range flights {
		flying := 0
		for _, s := range f.Segments {
			flying += s.Duration
		}
		band := bands[f.Stops]
		// clamping can only add minutes; jitter is absorbed by the last leg
		assert.GreaterOrEqual(t, flying, band[0], f.ID)
		assert.LessOrEqual(t, flying, band[1], f.ID)
		// connection buffers count towards the total
		assert.GreaterOrEqual(t, f.TotalDuration, flying, f.ID)
	}
}

func TestGenerate_PriceOrdering(t *testing.T) {
	g := newTestGenerator(t, 2024)

	sums := map[int]int{}
	counts := map[int]int{}
	for batch := 0; batch < 50; batch++ {
		flights, err := g.Generate(searchParams())
		require.NoError(t, err)
		for _, f := range flights {
			sums[f.Stops] += f.TotalPrice
			counts[f.Stops]++
		}
	}

	mean := func(stops int) float64 { return float64(sums[stops]) / float64(counts[stops]) }
	assert.Greater(t, mean(0), mean(1))
	assert.Greater(t, mean(1), mean(2))
}

func TestGenerate_PriceBounds(t *testing.T) {
	g := newTestGenerator(t, 11)

	bounds := map[int][2]int{0: {1200, 3750}, 1: {800, 2500}, 2: {560, 1750}}
	for batch := 0; batch < 20; batch++ {
		flights, err := g.Generate(searchParams())
		require.NoError(t, err)
		for _, f := range flights {
			b := bounds[f.Stops]
			assert.GreaterOrEqual(t, f.TotalPrice, b[0])
			assert.Less(t, f.TotalPrice, b[1])
		}
	}
}

func TestGenerate_Policies(t *testing.T) {
	g := newTestGenerator(t, 3)

	for batch := 0; batch < 10; batch++ {
		flights, err := g.Generate(searchParams())
		require.NoError(t, err)
		for _, f := range flights {
			if f.TotalPrice > 1500 {
				assert.Equal(t, "Flexible", f.CancellationPolicy)
			} else {
				assert.Equal(t, "Restrictive", f.CancellationPolicy)
			}
			if f.TotalPrice > 1200 {
				assert.Equal(t, "Free changes", f.ChangePolicy)
			} else {
				assert.Equal(t, "Change fee applies", f.ChangePolicy)
			}
		}
	}
}

func TestGenerate_Baggage(t *testing.T) {
	tests := []struct {
		class    models.CabinClass
		expected int
	}{
		{models.CabinClassEconomy, 23},
		{"", 23},
		{models.CabinClassBusiness, 32},
		{models.CabinClassFirst, 32},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			g := newTestGenerator(t, 8)
			params := searchParams()
			params.Class = tt.class

			flights, err := g.Generate(params)
			require.NoError(t, err)
			for _, f := range flights {
				assert.True(t, f.Baggage.CarryOn)
				assert.Equal(t, tt.expected, f.Baggage.Checked)
				for _, s := range f.Segments {
					assert.Equal(t, models.CabinClassEconomy, s.Class)
				}
			}
		})
	}
}

func TestGenerate_FlightNumbersAndAircraft(t *testing.T) {
	g := newTestGenerator(t, 13)
	c, err := catalog.Default()
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^[A-Z0-9]{2}[1-9]\d{3}$`)

	flights, err := g.Generate(searchParams())
	require.NoError(t, err)
	for _, f := range flights {
		for i, s := range f.Segments {
			assert.Regexp(t, pattern, s.FlightNumber)
			assert.Equal(t, s.Airline.Code, s.FlightNumber[:2])
			assert.Contains(t, c.Aircraft(), s.Aircraft)
			assert.Equal(t, fmt.Sprintf("SEG%d", i+1), s.ID)
		}
	}
}

func TestGenerate_UnknownAirport(t *testing.T) {
	g := newTestGenerator(t, 21)
	params := searchParams()
	params.Destination = "XYZ"

	flights, err := g.Generate(params)
	require.NoError(t, err)
	assert.Equal(t, "XYZ Airport", flights[0].Destination().Name)
	assert.Equal(t, "Unknown", flights[0].Destination().City)
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := newTestGenerator(t, 77).Generate(searchParams())
	require.NoError(t, err)
	b, err := newTestGenerator(t, 77).Generate(searchParams())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_InvalidDate(t *testing.T) {
	g := newTestGenerator(t, 1)
	params := searchParams()
	params.DepartureDate = "05/01/2030"

	_, err := g.Generate(params)
	assert.Error(t, err)
}

func TestBuildSegments_Nonstop(t *testing.T) {
	g := newTestGenerator(t, 4)
	dep := time.Date(2030, 1, 5, 10, 0, 0, 0, time.UTC)
	airline := models.Airline{Code: "AR", Name: "Aerolíneas Argentinas"}

	segments := g.BuildSegments("EZE", "MIA", dep, 0, airline, 630)
	require.Len(t, segments, 1)
	assert.Equal(t, 630, segments[0].Duration)
	assert.Equal(t, dep, segments[0].DepartureTime)
	assert.Equal(t, dep.Add(630*time.Minute), segments[0].ArrivalTime)
}

func TestBuildSegments_HubsInOrder(t *testing.T) {
	g := newTestGenerator(t, 4)
	dep := time.Date(2030, 1, 5, 10, 0, 0, 0, time.UTC)

	segments := g.BuildSegments("EZE", "MIA", dep, 2, models.Airline{Code: "CM"}, 1000)
	require.Len(t, segments, 3)
	assert.Equal(t, "PTY", segments[0].ArrivalAirport.Code)
	assert.Equal(t, "BOG", segments[1].ArrivalAirport.Code)
	assert.Equal(t, "MIA", segments[2].ArrivalAirport.Code)

	total := 0
	for _, s := range segments {
		total += s.Duration
	}
	assert.Equal(t, 1000, total)
}

func TestBuildSegments_ClampsShortLegs(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		g := newTestGenerator(t, seed)
		dep := time.Date(2030, 1, 5, 10, 0, 0, 0, time.UTC)

		segments := g.BuildSegments("EZE", "MIA", dep, 2, models.Airline{Code: "LA"}, 3)
		require.Len(t, segments, 3)
		for _, s := range segments {
			assert.GreaterOrEqual(t, s.Duration, 1)
			assert.Equal(t, time.Duration(s.Duration)*time.Minute, s.ArrivalTime.Sub(s.DepartureTime))
		}
	}
}

func TestLockedRand(t *testing.T) {
	r := NewLockedRand(42)
	assert.Equal(t, 0, r.Intn(0))
	for i := 0; i < 100; i++ {
		assert.Less(t, r.Intn(10), 10)
		f := r.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}

	a, b := NewLockedRand(9), NewLockedRand(9)
	assert.Equal(t, a.Intn(1000), b.Intn(1000))
}
