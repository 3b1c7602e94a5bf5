package workflows

import (
	"fmt"
	"time"

	"github.com/cx-tal-miterani/flight-search/internal/refine"
	"github.com/cx-tal-miterani/flight-search/shared/models"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	// ValidateTimeout bounds the validation activity
	ValidateTimeout = 10 * time.Second
	// GenerateTimeout bounds the generation activity, simulated latency included
	GenerateTimeout = 30 * time.Second
)

// FlightSearchWorkflow validates a search, generates offers and refines them.
// An invalid search completes successfully with the validation errors in the result.
func FlightSearchWorkflow(ctx workflow.Context, input models.SearchWorkflowInput) (*models.SearchWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Flight search workflow started", "searchId", input.SearchID, "route", input.Params.Route())

	noRetry := &temporal.RetryPolicy{
		MaximumAttempts: 1,
	}
	validateCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: ValidateTimeout,
		RetryPolicy:         noRetry,
	})
	generateCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: GenerateTimeout,
		RetryPolicy:         noRetry,
	})

	result := &models.SearchWorkflowResult{
		SearchID: input.SearchID,
		Params:   input.Params,
		Flights:  []models.Flight{},
	}

	err := workflow.ExecuteActivity(validateCtx, models.ActivityValidateSearch, models.ValidateSearchInput{
		Params: input.Params,
	}).Get(ctx, &result.Validation)
	if err != nil {
		logger.Error("Validation activity failed", "error", err)
		return nil, fmt.Errorf("failed to validate search: %w", err)
	}

	if !result.Validation.IsValid {
		logger.Info("Search is invalid", "searchId", input.SearchID, "errors", len(result.Validation.Errors))
		return result, nil
	}

	var flights []models.Flight
	err = workflow.ExecuteActivity(generateCtx, models.ActivityGenerateFlights, models.GenerateFlightsInput{
		SearchID: input.SearchID,
		Params:   input.Params,
	}).Get(ctx, &flights)
	if err != nil {
		logger.Error("Generate activity failed", "error", err)
		return nil, fmt.Errorf("failed to generate flights: %w", err)
	}

	// facets describe the full set so filter controls stay stable while refining
	result.Facets = refine.Facets(flights)
	result.Flights = refine.Apply(flights, input.Filters, input.Sort)

	logger.Info("Flight search workflow completed",
		"searchId", input.SearchID,
		"generated", len(flights),
		"returned", len(result.Flights))

	return result, nil
}
