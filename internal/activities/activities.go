package activities

import (
	"context"
	"time"

	"github.com/cx-tal-miterani/flight-search/internal/generator"
	"github.com/cx-tal-miterani/flight-search/internal/validation"
	"github.com/cx-tal-miterani/flight-search/shared/models"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
)

// ErrTypeInvalidSearch marks generation failures caused by the request itself
const ErrTypeInvalidSearch = "InvalidSearch"

// Activities holds the dependencies of the search activities
type Activities struct {
	generator *generator.Generator
	latency   generator.Latency
	now       func() time.Time
}

// NewActivities creates the search activities. now supplies the current time
// in the location dates are validated in.
func NewActivities(gen *generator.Generator, latency generator.Latency, now func() time.Time) *Activities {
	if now == nil {
		now = time.Now
	}
	return &Activities{
		generator: gen,
		latency:   latency,
		now:       now,
	}
}

// ValidateSearch activity - checks the search criteria
func (a *Activities) ValidateSearch(ctx context.Context, input models.ValidateSearchInput) (*models.ValidationResult, error) {
	logger := activity.GetLogger(ctx)

	result := validation.Validate(input.Params, a.now())
	if !result.IsValid {
		logger.Info("Search rejected", "route", input.Params.Route(), "errors", result.Errors)
	}
	return &result, nil
}

// GenerateFlights activity - simulates the upstream provider and produces offers
func (a *Activities) GenerateFlights(ctx context.Context, input models.GenerateFlightsInput) ([]models.Flight, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Generating flights", "searchId", input.SearchID, "route", input.Params.Route())

	if err := a.latency.Wait(ctx); err != nil {
		return nil, err
	}

	flights, err := a.generator.Generate(input.Params)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidSearch, err)
	}

	logger.Info("Flights generated", "searchId", input.SearchID, "count", len(flights))
	return flights, nil
}
