// Package time provides an API for interaction with time. This package
// primarily wraps the standard library time package in structures to make
// the usage of time-related data-types mockable.
package time

import (
	"sync"
	"time"
)

// Clock is the source of the current time.
type Clock interface {
	Now() time.Time
}

// Time wraps time-related functionality from the standard library to enable
// mocking in tests.
type Time struct{}

// Now wraps time.Now.
func (t Time) Now() time.Time {
	return time.Now()
}

// NewMock initializes a new Mock instance.
func NewMock(now time.Time) *Mock {
	return &Mock{mutex: new(sync.Mutex), now: now}
}

// Mock may be used to mock the functionality provided by Time. It is safe for
// concurrent use.
type Mock struct {
	mutex *sync.Mutex
	now   time.Time
}

// Now retrieves the mocked time.Now value.
func (m *Mock) Now() time.Time {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.now
}

// Advance moves the mocked time forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.mutex.Lock()
	m.now = m.now.Add(d)
	m.mutex.Unlock()
}
