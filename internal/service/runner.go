package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cx-tal-miterani/flight-search/internal/generator"
	"github.com/cx-tal-miterani/flight-search/internal/refine"
	"github.com/cx-tal-miterani/flight-search/internal/validation"
	"github.com/cx-tal-miterani/flight-search/shared/models"
	"go.temporal.io/sdk/client"
)

// LocalRunner runs the search pipeline in-process
type LocalRunner struct {
	generator *generator.Generator
	latency   generator.Latency
	now       func() time.Time
}

func NewLocalRunner(gen *generator.Generator, latency generator.Latency, now func() time.Time) *LocalRunner {
	if now == nil {
		now = time.Now
	}
	return &LocalRunner{
		generator: gen,
		latency:   latency,
		now:       now,
	}
}

func (r *LocalRunner) Run(ctx context.Context, input models.SearchWorkflowInput) (*models.SearchWorkflowResult, error) {
	result := &models.SearchWorkflowResult{
		SearchID:   input.SearchID,
		Params:     input.Params,
		Validation: validation.Validate(input.Params, r.now()),
		Flights:    []models.Flight{},
	}
	if !result.Validation.IsValid {
		return result, nil
	}

	if err := r.latency.Wait(ctx); err != nil {
		return nil, err
	}

	flights, err := r.generator.Generate(input.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to generate flights: %w", err)
	}

	result.Facets = refine.Facets(flights)
	result.Flights = refine.Apply(flights, input.Filters, input.Sort)
	return result, nil
}

// WorkflowStarter is the part of the Temporal client the runner needs
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalRunner runs the search as a FlightSearchWorkflow and waits for its result
type TemporalRunner struct {
	client    WorkflowStarter
	taskQueue string
}

func NewTemporalRunner(c WorkflowStarter, taskQueue string) *TemporalRunner {
	if taskQueue == "" {
		taskQueue = models.SearchTaskQueue
	}
	return &TemporalRunner{
		client:    c,
		taskQueue: taskQueue,
	}
}

func (r *TemporalRunner) Run(ctx context.Context, input models.SearchWorkflowInput) (*models.SearchWorkflowResult, error) {
	workflowOptions := client.StartWorkflowOptions{
		ID:        "flight-search-" + input.SearchID,
		TaskQueue: r.taskQueue,
	}

	run, err := r.client.ExecuteWorkflow(ctx, workflowOptions, models.SearchWorkflowName, input)
	if err != nil {
		return nil, fmt.Errorf("failed to start workflow: %w", err)
	}

	var result models.SearchWorkflowResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, fmt.Errorf("workflow %s failed: %w", run.GetID(), err)
	}
	return &result, nil
}
