package rand

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenBytes is the number of random bytes behind a Token.
const TokenBytes = 32

// GenerateString generates a cryptographically-secure, URL-safe value from n
// random bytes. If the value is unable to be generated an error is returned.
func GenerateString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes; error: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Token generates a session ID, bearer token or one-time secret.
func Token() (string, error) {
	return GenerateString(TokenBytes)
}
