// Package app provides database initialization and setup.
package app

import (
	"context"

	"github.com/guttosm/shipment-optimizer/config"
	"github.com/guttosm/shipment-optimizer/internal/circuitbreaker"
	"github.com/guttosm/shipment-optimizer/internal/repository"
	"github.com/guttosm/shipment-optimizer/internal/service"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                   *repository.MongoDB
	ReportingService     service.ReportingService
	RoundsCircuitBreaker *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and builds the round reporting stack.
// Returns nil if the database is disabled or the connection fails; a run then
// continues without storing rounds.
func InitializeDatabase(cfg config.DatabaseConfig, onStateChange circuitbreaker.StateChangeFunc) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	mongoCfg := repository.DefaultMongoConfig()
	if cfg.OperationTimeout > 0 {
		mongoCfg.ServerSelectionTimeout = cfg.OperationTimeout
	}
	db, err := repository.NewMongoDBWithConfig(cfg.URI, cfg.DatabaseName, mongoCfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without round storage")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OperationTimeout)
	defer cancel()
	if err := db.SetRoundsTTL(ctx, cfg.RoundsTTLDays); err != nil {
		log.Warn().Err(err).Msg("Failed to set rounds TTL index")
	}

	reporting, cb := newReportingStack(repository.NewRoundsRepository(db), cfg, onStateChange)
	return &DatabaseComponents{
		DB:                   db,
		ReportingService:     reporting,
		RoundsCircuitBreaker: cb,
	}
}

// newReportingStack wraps repo with a circuit breaker and a reporting service.
func newReportingStack(repo repository.RoundsRepositoryInterface, cfg config.DatabaseConfig, onStateChange circuitbreaker.StateChangeFunc) (service.ReportingService, *circuitbreaker.CircuitBreaker) {
	opts := []circuitbreaker.Option{circuitbreaker.WithLogger(log.Logger)}
	if onStateChange != nil {
		opts = append(opts, circuitbreaker.WithStateChange(onStateChange))
	}
	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             "mongodb-rounds",
	}, opts...)

	return service.NewReportingService(repository.NewRoundsRepositoryWithCircuitBreaker(repo, cb)), cb
}

// Close disconnects from MongoDB.
func (d *DatabaseComponents) Close(ctx context.Context) {
	if d == nil || d.DB == nil {
		return
	}
	if err := d.DB.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to close MongoDB connection")
	}
}
