package token

import (
	"context"
	"sync"
)

// NewMemory creates a Memory instance.
func NewMemory() *Memory {
	return &Memory{mutex: new(sync.Mutex)}
}

// Memory is a process-local Store. It is typically used by tests and by
// short-lived processes that should not persist credentials.
type Memory struct {
	mutex *sync.Mutex
	token string
}

// Load implements Store.
func (m *Memory) Load(_ context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.token == "" {
		return "", ErrTokenDNE
	}
	return m.token, nil
}

// Save implements Store.
func (m *Memory) Save(_ context.Context, token string) error {
	m.mutex.Lock()
	m.token = token
	m.mutex.Unlock()
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context) error {
	m.mutex.Lock()
	m.token = ""
	m.mutex.Unlock()
	return nil
}
