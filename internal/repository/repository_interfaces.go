// Package repository provides interfaces for repository operations.
package repository

import "context"

// RoundsRepositoryInterface defines the interface for round report storage.
type RoundsRepositoryInterface interface {
	Create(ctx context.Context, round *RoundDocument) error
	CreateMany(ctx context.Context, rounds []*RoundDocument) error
	Query(ctx context.Context, opts RoundQueryOptions) ([]*RoundDocument, error)
	Count(ctx context.Context, opts RoundQueryOptions) (int64, error)
}
