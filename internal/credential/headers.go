// Package credential attaches client credentials to outgoing requests. A
// credential is transported either as a cookie or, for client environments
// that drop cross-site cookies, as a bearer token in the Authorization header.
package credential

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const (
	// HeaderAuthorization is the request header carrying a bearer token.
	HeaderAuthorization = "Authorization"
	// HeaderAccessToken is the response header a credential-establishing
	// endpoint uses to hand the client a bearer token.
	HeaderAccessToken = "X-Access-Token"
)

// TokenReader provides read access to the persisted bearer token.
type TokenReader interface {
	ReadToken(context.Context) (string, bool)
}

// TokenWriter provides write access to the persisted bearer token.
type TokenWriter interface {
	StoreToken(context.Context, string)
}

// Pair is a single header key and value.
type Pair struct {
	Key   string
	Value string
}

// Normalize converts base into a plain key to value mapping. base may be nil,
// a map[string]string, a []Pair, a [][2]string, or an http.Header. Values of
// an http.Header key with multiple values are joined with ", ".
func Normalize(base interface{}) (map[string]string, error) {
	headers := make(map[string]string)

	switch b := base.(type) {
	case nil:
	case map[string]string:
		for k, v := range b {
			headers[k] = v
		}
	case []Pair:
		for _, p := range b {
			headers[p.Key] = p.Value
		}
	case [][2]string:
		for _, p := range b {
			headers[p[0]] = p[1]
		}
	case http.Header:
		for k, v := range b {
			headers[k] = strings.Join(v, ", ")
		}
	default:
		return nil, fmt.Errorf("unsupported header type %T", base)
	}

	return headers, nil
}

// BuildAuthHeaders normalizes base and, when no Authorization entry is present
// and tokens holds a token, injects "Authorization: Bearer <token>". A
// caller-supplied Authorization entry is never overwritten, regardless of the
// casing of its key.
func BuildAuthHeaders(
	ctx context.Context,
	tokens TokenReader,
	base interface{},
) (map[string]string, error) {
	headers, err := Normalize(base)
	if err != nil {
		return nil, err
	}

	if hasAuthorization(headers) || tokens == nil {
		return headers, nil
	}

	token, ok := tokens.ReadToken(ctx)
	if !ok {
		return headers, nil
	}

	headers[HeaderAuthorization] = Bearer(token)
	return headers, nil
}

// Bearer formats token as an Authorization header value.
func Bearer(token string) string {
	return fmt.Sprintf("Bearer %s", token)
}

// CaptureToken persists the bearer token carried by the X-Access-Token header
// of resp, if present. The second return value indicates if a token was
// captured.
func CaptureToken(ctx context.Context, tokens TokenWriter, header http.Header) bool {
	token := strings.TrimSpace(header.Get(HeaderAccessToken))
	if token == "" || tokens == nil {
		return false
	}

	tokens.StoreToken(ctx, token)
	return true
}

func hasAuthorization(headers map[string]string) bool {
	for k := range headers {
		if strings.EqualFold(k, HeaderAuthorization) {
			return true
		}
	}
	return false
}
