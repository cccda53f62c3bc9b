package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lifelens/internal/service"
)

// MockTextGenerator is a mock type for the TextGenerator type
type MockTextGenerator struct {
	mock.Mock
}

// Complete provides a mock function with given fields: ctx, prompt, params
func (_m *MockTextGenerator) Complete(ctx context.Context, prompt string, params service.GenerationParams) (string, service.UsageInfo, error) {
	ret := _m.Called(ctx, prompt, params)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string, service.GenerationParams) string); ok {
		r0 = rf(ctx, prompt, params)
	} else {
		r0 = ret.String(0)
	}

	var r1 service.UsageInfo
	if rf, ok := ret.Get(1).(func(context.Context, string, service.GenerationParams) service.UsageInfo); ok {
		r1 = rf(ctx, prompt, params)
	} else if ret.Get(1) != nil {
		r1 = ret.Get(1).(service.UsageInfo)
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, string, service.GenerationParams) error); ok {
		r2 = rf(ctx, prompt, params)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// NewMockTextGenerator creates a new instance of MockTextGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTextGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTextGenerator {
	m := &MockTextGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ service.TextGenerator = (*MockTextGenerator)(nil)
