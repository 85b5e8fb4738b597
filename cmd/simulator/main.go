package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transition-lab/internal"
	"transition-lab/observability"
	"transition-lab/runtime"
	"transition-lab/runtime/workers"
	"transition-lab/trace"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

const transitionDuration = 150 * time.Millisecond

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, drives the scripted scenario, and
// centralizes error reporting. This pattern is preferred over calling
// os.Exit or panic directly because it ensures all 'defer' statements (like
// database cleanup) execute before the program exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := internal.GetLoggerFromString(config.LogLevel)

	// 2. Trace database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("trace database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Setup Supervision & Coordination
	sup := workers.NewSupervisor(log, config.RestartInterval)
	registry := runtime.NewRegistry()
	monitoring := observability.NewMonitoringManager(log)
	repository := trace.NewBatchRepository(db, log)

	coordinator := runtime.NewCoordinator(
		log, sup, registry,
		NewViewHost(log, transitionDuration), PageSource{}, monitoring,
		runtime.Settings{
			NumAnimators:         config.NumberOfAnimators,
			BufferSize:           config.BufferSize,
			SinkTimeout:          config.SinkTimeout,
			CaptureTimeout:       config.CaptureTimeout,
			MetricInterval:       config.MetricInterval,
			HealthInterval:       config.HealthInterval,
			LatencyThreshold:     config.LatencyThreshold,
			LowCapacityThreshold: config.LowCapacityThreshold,
			TimelineLimit:        config.TimelineLimit,
		})
	coordinator.Add(trace.NewDiskSink(repository, log))

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start the Engine & play the scenario
	if err = coordinator.Start(ctx); err != nil {
		return fmt.Errorf("coordinator failed to start: %w", err)
	}

	if err = newScenario(log, coordinator).Run(ctx); err != nil {
		return fmt.Errorf("scenario failed: %w", err)
	}

	// Let the fanout drain before shutting down.
	time.Sleep(2 * config.SinkTimeout)
	coordinator.Stop()

	for _, entry := range coordinator.Timeline().Entries() {
		log.Info("timeline entry",
			"batch_id", entry.ID,
			"phase", entry.Phase.String(),
			"animated", entry.Animated,
			"participants", len(entry.Kinds),
		)
	}

	stats := monitoring.GetLatest()
	log.Info("simulation finished",
		"batches_proposed", stats.BatchesProposed,
		"batches_completed", stats.BatchesCompleted,
		"batches_aborted", stats.BatchesAborted,
		"animations_played", stats.AnimationsPlayed,
	)
	return nil
}
