//go:build !integration

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/shipment-optimizer/internal/circuitbreaker"
	"github.com/guttosm/shipment-optimizer/internal/mocks"
	"github.com/guttosm/shipment-optimizer/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errStore = errors.New("store unavailable")

func newBreaker() *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Hour,
		Name:             "rounds-test",
	})
}

func TestRoundsRepositoryWithCircuitBreaker_Create(t *testing.T) {
	ctx := context.Background()
	round := &repository.RoundDocument{RunID: "run", Round: 1}

	t.Run("passes through on success", func(t *testing.T) {
		repo := new(mocks.MockRoundsRepositoryInterface)
		repo.On("Create", ctx, round).Return(nil).Once()

		wrapper := repository.NewRoundsRepositoryWithCircuitBreaker(repo, newBreaker())
		require.NoError(t, wrapper.Create(ctx, round))
		repo.AssertExpectations(t)
	})

	t.Run("drops rounds while open", func(t *testing.T) {
		repo := new(mocks.MockRoundsRepositoryInterface)
		repo.On("Create", ctx, round).Return(errStore).Twice()

		wrapper := repository.NewRoundsRepositoryWithCircuitBreaker(repo, newBreaker())
		assert.ErrorIs(t, wrapper.Create(ctx, round), errStore)
		assert.ErrorIs(t, wrapper.Create(ctx, round), errStore)
		assert.True(t, wrapper.GetCircuitBreaker().IsOpen())

		assert.NoError(t, wrapper.Create(ctx, round))
		repo.AssertNumberOfCalls(t, "Create", 2)
	})
}

func TestRoundsRepositoryWithCircuitBreaker_CreateMany(t *testing.T) {
	ctx := context.Background()
	rounds := []*repository.RoundDocument{{RunID: "run", Round: 1}, {RunID: "run", Round: 2}}

	repo := new(mocks.MockRoundsRepositoryInterface)
	repo.On("CreateMany", ctx, rounds).Return(errStore).Twice()

	wrapper := repository.NewRoundsRepositoryWithCircuitBreaker(repo, newBreaker())
	assert.Error(t, wrapper.CreateMany(ctx, rounds))
	assert.Error(t, wrapper.CreateMany(ctx, rounds))
	assert.NoError(t, wrapper.CreateMany(ctx, rounds))
	repo.AssertNumberOfCalls(t, "CreateMany", 2)
}

func TestRoundsRepositoryWithCircuitBreaker_Reads(t *testing.T) {
	ctx := context.Background()
	opts := repository.RoundQueryOptions{RunID: "run"}
	docs := []*repository.RoundDocument{{RunID: "run", Round: 1}}

	t.Run("query and count pass through", func(t *testing.T) {
		repo := new(mocks.MockRoundsRepositoryInterface)
		repo.On("Query", ctx, opts).Return(docs, nil)
		repo.On("Count", ctx, opts).Return(int64(1), nil)

		wrapper := repository.NewRoundsRepositoryWithCircuitBreaker(repo, newBreaker())
		got, err := wrapper.Query(ctx, opts)
		require.NoError(t, err)
		assert.Equal(t, docs, got)

		count, err := wrapper.Count(ctx, opts)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("reads fail fast while open", func(t *testing.T) {
		repo := new(mocks.MockRoundsRepositoryInterface)
		repo.On("Query", ctx, mock.Anything).Return(nil, errStore)

		wrapper := repository.NewRoundsRepositoryWithCircuitBreaker(repo, newBreaker())
		for range 2 {
			_, err := wrapper.Query(ctx, opts)
			assert.ErrorIs(t, err, errStore)
		}

		_, err := wrapper.Query(ctx, opts)
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
		_, err = wrapper.Count(ctx, opts)
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
		repo.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
	})
}
