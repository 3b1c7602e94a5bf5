package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cx-tal-miterani/flight-search/internal/catalog"
	"github.com/cx-tal-miterani/flight-search/internal/config"
	"github.com/cx-tal-miterani/flight-search/internal/generator"
	"github.com/cx-tal-miterani/flight-search/internal/handlers"
	"github.com/cx-tal-miterani/flight-search/internal/router"
	"github.com/cx-tal-miterani/flight-search/internal/service"
	"github.com/cx-tal-miterani/flight-search/internal/websocket"
	"github.com/cx-tal-miterani/flight-search/shared/models"
	"go.temporal.io/sdk/client"
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

	// Pick the search runner
	var runner service.Runner
	switch cfg.SearchMode {
	case config.SearchModeTemporal:
		logger.Info("Connecting to Temporal", "host", cfg.TemporalHost)
		temporalClient, err := client.Dial(client.Options{
			HostPort: cfg.TemporalHost,
			Logger:   logger,
		})
		if err != nil {
			logger.Error("Failed to create Temporal client", "error", err)
			os.Exit(1)
		}
		defer temporalClient.Close()
		runner = service.NewTemporalRunner(temporalClient, models.SearchTaskQueue)
	default:
		latency := generator.NewLatency(cfg.SearchDelayMin, cfg.SearchDelayMax, rng)
		runner = service.NewLocalRunner(gen, latency, cfg.Now)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	// Initialize services
	flightService := service.NewFlightService(runner, gen,
		service.WithNotifier(hub),
		service.WithDetailsLatency(generator.NewLatency(cfg.DetailsDelay, cfg.DetailsDelay, rng)),
		service.WithClock(cfg.Now),
	)

	h := handlers.NewHandler(flightService, logger, cfg.Now,
		handlers.WithHealthDetails(map[string]interface{}{
			"searchMode": cfg.SearchMode,
			"airlines":   len(c.Airlines()),
			"hubs":       c.HubCount(),
		}),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.SetupRouter(h, hub, cfg.CORSAllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("API server starting", "port", cfg.Port, "searchMode", cfg.SearchMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	stop()

	logger.Info("Server stopped")
}
