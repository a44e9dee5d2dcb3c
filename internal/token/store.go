// Package token persists the bearer token used as a fallback credential when
// cookie-based authentication is not honored by the client environment.
package token

import (
	"context"
	"errors"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Key is the fixed storage key under which the bearer token is persisted.
const Key = "vitalis-access-token"

// ErrTokenDNE indicates that no token is persisted.
var ErrTokenDNE = errors.New("token does not exist")

// Store is a durable location for a single bearer token.
type Store interface {
	// Load retrieves the persisted token. ErrTokenDNE is returned when no token
	// is persisted.
	Load(context.Context) (string, error)
	// Save persists the token, replacing any previously persisted token.
	Save(context.Context, string) error
	// Delete removes the persisted token. Deleting a token that does not exist
	// is not an error.
	Delete(context.Context) error
}

// record is the persisted form of a token.
type record struct {
	Token    string    `msgpack:"token"`
	StoredAt time.Time `msgpack:"storedAt"`
}

func encode(obj interface{}) ([]byte, error) {
	return msgpack.Marshal(obj)
}

func decode(b []byte, obj interface{}) error {
	return msgpack.Unmarshal(b, obj)
}
