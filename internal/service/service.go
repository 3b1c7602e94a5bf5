package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flight-search/internal/generator"
	"github.com/cx-tal-miterani/flight-search/shared/models"
	"github.com/google/uuid"
)

var ErrFlightNotFound = errors.New("flight not found")

// ValidationError is returned when the search criteria break one or more rules
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "invalid search parameters: " + strings.Join(e.Details, "; ")
}

// FlightService defines the flight search service interface
type FlightService interface {
	SearchFlights(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error)
	GetFlight(ctx context.Context, flightID string) (*models.Flight, error)
}

// Runner executes the validate, generate and refine pipeline for one search
type Runner interface {
	Run(ctx context.Context, input models.SearchWorkflowInput) (*models.SearchWorkflowResult, error)
}

// Notifier receives search lifecycle events keyed by route
type Notifier interface {
	SearchStarted(route, searchID string)
	SearchCompleted(route, searchID string, totalResults int, prices models.PriceRange)
	SearchFailed(route, searchID, reason string)
}

type noopNotifier struct{}

func (noopNotifier) SearchStarted(string, string)                           {}
func (noopNotifier) SearchCompleted(string, string, int, models.PriceRange) {}
func (noopNotifier) SearchFailed(string, string, string)                    {}

// DefaultSearchParams is the search used when no criteria are given:
// one adult in economy from Buenos Aires to Miami, departing today.
func DefaultSearchParams(now time.Time) models.SearchParams {
	return models.SearchParams{
		Origin:        "EZE",
		Destination:   "MIA",
		DepartureDate: now.Format(models.DateLayout),
		Passengers:    models.Passengers{Adults: 1},
		Class:         models.CabinClassEconomy,
		TripType:      models.TripTypeOneWay,
	}
}

type Option func(*flightServiceImpl)

// WithNotifier publishes search lifecycle events to n
func WithNotifier(n Notifier) Option {
	return func(s *flightServiceImpl) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithDetailsLatency delays flight detail lookups
func WithDetailsLatency(l generator.Latency) Option {
	return func(s *flightServiceImpl) {
		s.detailsLatency = l
	}
}

// WithClock sets the clock used for the default search date
func WithClock(now func() time.Time) Option {
	return func(s *flightServiceImpl) {
		s.now = now
	}
}

// flightServiceImpl implements FlightService
type flightServiceImpl struct {
	runner         Runner
	generator      *generator.Generator
	notifier       Notifier
	detailsLatency generator.Latency
	now            func() time.Time
	newID          func() string
}

// NewFlightService creates a new FlightService. Searches go through runner;
// detail lookups regenerate the default search with gen.
func NewFlightService(runner Runner, gen *generator.Generator, opts ...Option) FlightService {
	svc := &flightServiceImpl{
		runner:    runner,
		generator: gen,
		notifier:  noopNotifier{},
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *flightServiceImpl) SearchFlights(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	params := req.SearchParams.WithDefaults()
	searchID := s.newID()
	route := params.Route()

	s.notifier.SearchStarted(route, searchID)

	result, err := s.runner.Run(ctx, models.SearchWorkflowInput{
		SearchID: searchID,
		Params:   params,
		Filters:  req.Filters,
		Sort:     req.Sort,
	})
	if err != nil {
		s.notifier.SearchFailed(route, searchID, "search could not be completed")
		return nil, fmt.Errorf("failed to run search %s: %w", searchID, err)
	}

	if !result.Validation.IsValid {
		s.notifier.SearchFailed(route, searchID, "invalid search parameters")
		return nil, &ValidationError{Details: result.Validation.Errors}
	}

	flights := result.Flights
	if flights == nil {
		flights = []models.Flight{}
	}

	s.notifier.SearchCompleted(route, searchID, len(flights), result.Facets.PriceRange)

	return &models.SearchResponse{
		Flights:      flights,
		SearchID:     searchID,
		TotalResults: len(flights),
		SearchParams: params,
		Filters:      result.Facets,
	}, nil
}

func (s *flightServiceImpl) GetFlight(ctx context.Context, flightID string) (*models.Flight, error) {
	if err := s.detailsLatency.Wait(ctx); err != nil {
		return nil, err
	}

	flights, err := s.generator.Generate(DefaultSearchParams(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to generate flights: %w", err)
	}

	for i := range flights {
		if flights[i].ID == flightID {
			return &flights[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrFlightNotFound, flightID)
}
