// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/shipment-optimizer/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) Report(ctx context.Context, report *model.RoundReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportingService) ReportMany(ctx context.Context, reports []*model.RoundReport) error {
	args := m.Called(ctx, reports)
	return args.Error(0)
}

func (m *MockReportingService) QueryRounds(ctx context.Context, opts model.RoundQueryOptions) ([]model.RoundReport, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RoundReport), args.Error(1)
}

func (m *MockReportingService) CountRounds(ctx context.Context, opts model.RoundQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}
