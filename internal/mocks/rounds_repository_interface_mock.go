// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/shipment-optimizer/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockRoundsRepositoryInterface struct {
	mock.Mock
}

func (m *MockRoundsRepositoryInterface) Create(ctx context.Context, round *repository.RoundDocument) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *MockRoundsRepositoryInterface) CreateMany(ctx context.Context, rounds []*repository.RoundDocument) error {
	args := m.Called(ctx, rounds)
	return args.Error(0)
}

func (m *MockRoundsRepositoryInterface) Query(ctx context.Context, opts repository.RoundQueryOptions) ([]*repository.RoundDocument, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.RoundDocument), args.Error(1)
}

func (m *MockRoundsRepositoryInterface) Count(ctx context.Context, opts repository.RoundQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}
