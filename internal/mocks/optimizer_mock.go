// Code generated manually. DO NOT EDIT.

package mocks

import (
	"github.com/guttosm/shipment-optimizer/internal/optimizer"
	"github.com/guttosm/shipment-optimizer/internal/shipment"
	"github.com/stretchr/testify/mock"
)

type MockOptimizer struct {
	mock.Mock
}

func (m *MockOptimizer) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockOptimizer) Optimize(req optimizer.Request) (*shipment.Manager, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Manager), args.Error(1)
}
