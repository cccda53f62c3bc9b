package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"lifelens/internal/layout"
	"lifelens/internal/model"
	"lifelens/internal/service"
)

// MockReportService is a mock type for the ReportService type
type MockReportService struct {
	mock.Mock
}

func (_m *MockReportService) record(ret mock.Arguments) (model.ReportRecord, error) {
	var r0 model.ReportRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(model.ReportRecord)
	}
	return r0, ret.Error(1)
}

// CreateFreeReport provides a mock function with given fields: ctx, input
func (_m *MockReportService) CreateFreeReport(ctx context.Context, input model.UserInput) (model.ReportRecord, error) {
	return _m.record(_m.Called(ctx, input))
}

// GetReport provides a mock function with given fields: ctx, reportID
func (_m *MockReportService) GetReport(ctx context.Context, reportID string) (model.ReportRecord, error) {
	return _m.record(_m.Called(ctx, reportID))
}

// UpgradeToPremium provides a mock function with given fields: ctx, reportID
func (_m *MockReportService) UpgradeToPremium(ctx context.Context, reportID string) (model.ReportRecord, error) {
	return _m.record(_m.Called(ctx, reportID))
}

// RenderDocument provides a mock function with given fields: ctx, reportID
func (_m *MockReportService) RenderDocument(ctx context.Context, reportID string) (model.ReportRecord, layout.Document, error) {
	ret := _m.Called(ctx, reportID)

	var r0 model.ReportRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(model.ReportRecord)
	}
	var r1 layout.Document
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(layout.Document)
	}
	return r0, r1, ret.Error(2)
}

// RenderPDF provides a mock function with given fields: ctx, reportID, w
func (_m *MockReportService) RenderPDF(ctx context.Context, reportID string, w io.Writer) (string, error) {
	ret := _m.Called(ctx, reportID, w)

	if rf, ok := ret.Get(0).(func(context.Context, string, io.Writer) string); ok {
		return rf(ctx, reportID, w), ret.Error(1)
	}
	return ret.String(0), ret.Error(1)
}

// NewMockReportService creates a new instance of MockReportService.
func NewMockReportService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReportService {
	m := &MockReportService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ service.ReportService = (*MockReportService)(nil)
