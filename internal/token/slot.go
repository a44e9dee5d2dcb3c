package token

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// NewSlot creates a Slot backed by store.
func NewSlot(logger *zap.Logger, store Store) *Slot {
	return &Slot{logger: logger, store: store}
}

// Slot is the single persisted bearer-token location of a client process.
// Slot operations never fail; backend errors are logged and treated as an
// absent token. A nil Slot behaves as an empty slot.
type Slot struct {
	logger *zap.Logger
	store  Store
}

// ReadToken retrieves the persisted token. The second return value indicates
// if a token is available.
func (s *Slot) ReadToken(ctx context.Context) (string, bool) {
	if s == nil || s.store == nil {
		return "", false
	}

	token, err := s.store.Load(ctx)
	if errors.Is(err, ErrTokenDNE) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("read token", zap.Error(err))
		return "", false
	}

	return token, token != ""
}

// StoreToken persists token. An empty token is a no-op; use ClearToken to
// remove a persisted token.
func (s *Slot) StoreToken(ctx context.Context, token string) {
	if s == nil || s.store == nil || token == "" {
		return
	}

	if err := s.store.Save(ctx, token); err != nil {
		s.logger.Warn("store token", zap.Error(err))
	}
}

// ClearToken removes the persisted token.
func (s *Slot) ClearToken(ctx context.Context) {
	if s == nil || s.store == nil {
		return
	}

	if err := s.store.Delete(ctx); err != nil {
		s.logger.Warn("clear token", zap.Error(err))
	}
}
