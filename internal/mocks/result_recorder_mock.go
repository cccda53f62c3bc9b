package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lifelens/internal/model"
	"lifelens/internal/service"
)

// MockResultRecorder is a mock type for the ResultRecorder type
type MockResultRecorder struct {
	mock.Mock
}

// Save provides a mock function with given fields: ctx, result
func (_m *MockResultRecorder) Save(ctx context.Context, result *model.GenerationResult) error {
	ret := _m.Called(ctx, result)
	return ret.Error(0)
}

// NewMockResultRecorder creates a new instance of MockResultRecorder.
func NewMockResultRecorder(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockResultRecorder {
	m := &MockResultRecorder{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ service.ResultRecorder = (*MockResultRecorder)(nil)
