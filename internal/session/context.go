package session

import (
	"context"
)

// ctxkey is a key used to store and retrieve a Manager from the context.
type ctxkey string

var managerCtxKey ctxkey = "session_manager_context_key"

// WithManager adds the Manager to the passed context.
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerCtxKey, m)
}

// FromContext retrieves the Manager owning the Session of the current
// process from the passed context. The second return value indicates if the
// Manager exists on the passed context.
func FromContext(ctx context.Context) (*Manager, bool) {
	m, ok := ctx.Value(managerCtxKey).(*Manager)
	if !ok || m == nil {
		return nil, false
	}
	return m, true
}

// Use retrieves the current Session of the Manager stored on ctx. A guest
// Session is returned if ctx carries no Manager.
func Use(ctx context.Context) Session {
	m, ok := FromContext(ctx)
	if !ok {
		return Guest()
	}
	return m.Current()
}
