package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"lifelens/internal/model"
	"lifelens/internal/service"
)

// MockReportRepository is a mock type for the ReportRepository type
type MockReportRepository struct {
	mock.Mock
}

// Save provides a mock function with given fields: ctx, report, ttl
func (_m *MockReportRepository) Save(ctx context.Context, report model.ReportRecord, ttl time.Duration) error {
	ret := _m.Called(ctx, report, ttl)
	return ret.Error(0)
}

// Get provides a mock function with given fields: ctx, reportID
func (_m *MockReportRepository) Get(ctx context.Context, reportID string) (model.ReportRecord, error) {
	ret := _m.Called(ctx, reportID)

	var r0 model.ReportRecord
	if rf, ok := ret.Get(0).(func(context.Context, string) model.ReportRecord); ok {
		r0 = rf(ctx, reportID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(model.ReportRecord)
	}

	return r0, ret.Error(1)
}

// NewMockReportRepository creates a new instance of MockReportRepository.
func NewMockReportRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReportRepository {
	m := &MockReportRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ service.ReportRepository = (*MockReportRepository)(nil)
