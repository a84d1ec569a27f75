package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockManager struct {
	mock.Mock
}

func NewMockManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockManager {
	m := &MockManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Do either returns the canned error or, when the expectation was set up
// with a function return value, delegates to it. Passthrough gives tests the
// usual "run the callback in place" behavior.
func (m *MockManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	args := m.Called(ctx, callback)
	if fn, ok := args.Get(0).(func(context.Context, func(context.Context) error) error); ok {
		return fn(ctx, callback)
	}
	return args.Error(0)
}

func Passthrough(ctx context.Context, callback func(ctx context.Context) error) error {
	return callback(ctx)
}
