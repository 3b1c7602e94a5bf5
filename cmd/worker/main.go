package main

import (
	"log/slog"
	"os"

	"github.com/cx-tal-miterani/flight-search/internal/activities"
	"github.com/cx-tal-miterani/flight-search/internal/catalog"
	"github.com/cx-tal-miterani/flight-search/internal/config"
	"github.com/cx-tal-miterani/flight-search/internal/generator"
	"github.com/cx-tal-miterani/flight-search/internal/workflows"
	"github.com/cx-tal-miterani/flight-search/shared/models"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	c, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		logger.Error("Failed to load catalog", "file", cfg.CatalogFile, "error", err)
		os.Exit(1)
	}

	rng := generator.NewLockedRand(cfg.RandomSeed)
	gen := generator.New(c, rng, generator.WithLocation(cfg.Location))
	latency := generator.NewLatency(cfg.SearchDelayMin, cfg.SearchDelayMax, rng)

	// Connect to Temporal
	logger.Info("Connecting to Temporal", "host", cfg.TemporalHost)
	temporalClient, err := client.Dial(client.Options{
		HostPort: cfg.TemporalHost,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("Failed to connect to Temporal", "error", err)
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, models.SearchTaskQueue, worker.Options{})

	w.RegisterWorkflowWithOptions(workflows.FlightSearchWorkflow, workflow.RegisterOptions{Name: models.SearchWorkflowName})

	acts := activities.NewActivities(gen, latency, cfg.Now)
	w.RegisterActivityWithOptions(acts.ValidateSearch, activity.RegisterOptions{Name: models.ActivityValidateSearch})
	w.RegisterActivityWithOptions(acts.GenerateFlights, activity.RegisterOptions{Name: models.ActivityGenerateFlights})

	logger.Info("Starting Temporal worker", "taskQueue", models.SearchTaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Worker failed", "error", err)
		os.Exit(1)
	}
}
