// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/google/uuid"
	"github.com/guttosm/shipment-optimizer/config"
	"github.com/guttosm/shipment-optimizer/internal/domain/model"
	"github.com/guttosm/shipment-optimizer/internal/logger"
	"github.com/guttosm/shipment-optimizer/internal/metrics"
	"github.com/guttosm/shipment-optimizer/internal/service"
)

var (
	// ErrStorageDisabled is returned when rounds are queried with the database disabled.
	ErrStorageDisabled = errors.New("round storage is disabled")
	// ErrStorageUnavailable is returned when the database cannot be reached.
	ErrStorageUnavailable = errors.New("round storage unavailable")
)

// Run reads the configured input, simulates every round and writes the round
// log to out. Rounds are stored when the database is enabled and the metrics
// textfile is written when configured, even after a failed run.
func Run(ctx context.Context, cfg config.Config, out io.Writer) (service.RunSummary, error) {
	InitializeLogger(cfg.Log)
	if err := cfg.Validate(); err != nil {
		return service.RunSummary{}, fmt.Errorf("invalid configuration: %w", err)
	}

	runID := uuid.NewString()
	runLog := logger.ForRun(runID, cfg.Optimizer.Algorithm)
	m := metrics.New()

	services, err := InitializeServices(cfg, m, runLog)
	if err != nil {
		return service.RunSummary{}, err
	}

	if err := readInput(services.Inventory, cfg.Simulation.InputPath); err != nil {
		return service.RunSummary{}, err
	}

	opts := []service.SimulatorOption{
		service.WithRunID(runID),
		service.WithRecorder(m),
		service.WithOutput(out),
		service.WithSimulatorLogger(runLog),
		service.WithReportTimeout(cfg.Database.OperationTimeout),
	}
	db := InitializeDatabase(cfg.Database, m.ObserveStateChange)
	if db != nil {
		defer db.Close(context.WithoutCancel(ctx))
		opts = append(opts, service.WithReporter(db.ReportingService))
	}

	summary, runErr := service.NewSimulator(services.Inventory, services.Optimizer, opts...).Run(ctx)

	if path := cfg.Metrics.Textfile; path != "" {
		if err := m.WriteTextfile(path); err != nil {
			runLog.Error().Err(err).Str("path", path).Msg("Failed to write metrics textfile")
		} else {
			runLog.Info().Str("path", path).Msg("Metrics textfile written")
		}
	}

	return summary, runErr
}

func readInput(inv *service.Inventory, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	_, err = inv.ReadInput(f)
	return err
}

// Generate writes a random input file to w. A zero seed picks a random one.
func Generate(w io.Writer, cfg service.GeneratorConfig, seed uint64) error {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return service.Generate(w, cfg, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// QueryRounds lists stored rounds. The database must be enabled and reachable.
func QueryRounds(ctx context.Context, cfg config.Config, opts model.RoundQueryOptions) ([]model.RoundReport, int64, error) {
	InitializeLogger(cfg.Log)
	if err := cfg.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid configuration: %w", err)
	}
	if !cfg.Database.Enabled {
		return nil, 0, ErrStorageDisabled
	}
	db := InitializeDatabase(cfg.Database, nil)
	if db == nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrStorageUnavailable, cfg.Database.URI)
	}
	defer db.Close(context.WithoutCancel(ctx))

	total, err := db.ReportingService.CountRounds(ctx, model.RoundQueryOptions{RunID: opts.RunID, Algorithm: opts.Algorithm})
	if err != nil {
		return nil, 0, fmt.Errorf("count rounds: %w", err)
	}
	rounds, err := db.ReportingService.QueryRounds(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("query rounds: %w", err)
	}
	return rounds, total, nil
}
