// Package repository provides circuit breaker wrappers for MongoDB operations.
package repository

import (
	"context"
	"errors"

	"github.com/guttosm/shipment-optimizer/internal/circuitbreaker"
)

// RoundsRepositoryWithCircuitBreaker wraps a rounds repository with circuit breaker protection.
type RoundsRepositoryWithCircuitBreaker struct {
	repo           RoundsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewRoundsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewRoundsRepositoryWithCircuitBreaker(repo RoundsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *RoundsRepositoryWithCircuitBreaker {
	return &RoundsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a single round with circuit breaker protection.
// While the circuit is open the round is dropped; reports never stop a simulation.
func (r *RoundsRepositoryWithCircuitBreaker) Create(ctx context.Context, round *RoundDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, round)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// CreateMany stores multiple rounds with circuit breaker protection.
// While the circuit is open the rounds are dropped.
func (r *RoundsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, rounds []*RoundDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, rounds)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// Query retrieves rounds with circuit breaker protection.
func (r *RoundsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts RoundQueryOptions) ([]*RoundDocument, error) {
	var result []*RoundDocument
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Query(ctx, opts)
		return cbErr
	})
	return result, err
}

// Count returns the number of rounds with circuit breaker protection.
func (r *RoundsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts RoundQueryOptions) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Count(ctx, opts)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *RoundsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
