package client

import (
	"context"
)

// NewMock creates a new Mock instance.
func NewMock(options ...MockOption) *Mock {
	mock := &Mock{}

	for _, option := range options {
		option(mock)
	}

	return mock
}

// MockOption is a function type that may configure a Mock instance.
type MockOption func(*Mock)

// WithMe returns a MockOption that configures a Mock to call fn when Me is
// called.
func WithMe(fn meFunc) MockOption {
	return func(mock *Mock) { mock.me = fn }
}

type meFunc func(context.Context) (*Identity, error)

// Mock provides an implementation for mocking Client identity interactions.
// This is typically utilized for unit-testing.
type Mock struct {
	me meFunc
}

// Me calls the function configured with WithMe.
func (mock Mock) Me(ctx context.Context) (*Identity, error) {
	if mock.me == nil {
		return nil, ErrUnconfigured
	}
	return mock.me(ctx)
}
