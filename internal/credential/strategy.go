package credential

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/net/publicsuffix"
)

// Strategy is a credential transport. Apply attaches the credential to an
// outgoing request; Observe lets the strategy learn from the response.
type Strategy interface {
	Apply(context.Context, *http.Request) error
	Observe(context.Context, *http.Response)
}

// NewJar creates a cookie jar that honors the public suffix list.
func NewJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar; error: %w", err)
	}
	return jar, nil
}

// NewCookieStrategy creates a CookieStrategy backed by jar.
func NewCookieStrategy(jar http.CookieJar) *CookieStrategy {
	return &CookieStrategy{jar: jar}
}

// CookieStrategy is the primary credential transport. Cookies set by the
// backend are kept in the jar and replayed on subsequent requests.
type CookieStrategy struct {
	jar http.CookieJar
}

// Apply implements Strategy.
func (s CookieStrategy) Apply(_ context.Context, req *http.Request) error {
	for _, cookie := range s.jar.Cookies(req.URL) {
		if _, err := req.Cookie(cookie.Name); err == nil {
			continue
		}
		req.AddCookie(cookie)
	}
	return nil
}

// Observe implements Strategy.
func (s CookieStrategy) Observe(_ context.Context, resp *http.Response) {
	if resp.Request == nil {
		return
	}
	if cookies := resp.Cookies(); len(cookies) > 0 {
		s.jar.SetCookies(resp.Request.URL, cookies)
	}
}

// NewBearerStrategy creates a BearerStrategy reading tokens from tokens.
func NewBearerStrategy(tokens TokenReader) *BearerStrategy {
	return &BearerStrategy{tokens: tokens}
}

// BearerStrategy is the fallback credential transport for environments that
// do not honor cookies.
type BearerStrategy struct {
	tokens TokenReader
}

// Apply implements Strategy.
func (s BearerStrategy) Apply(ctx context.Context, req *http.Request) error {
	if req.Header.Get(HeaderAuthorization) != "" {
		return nil
	}

	headers, err := BuildAuthHeaders(ctx, s.tokens, req.Header)
	if err != nil {
		return err
	}

	if auth, ok := headers[HeaderAuthorization]; ok {
		req.Header.Set(HeaderAuthorization, auth)
	}
	return nil
}

// Observe implements Strategy. Tokens are only captured from
// credential-establishing responses, which is the caller's decision.
func (s BearerStrategy) Observe(context.Context, *http.Response) {}

// Chain applies each Strategy in order.
type Chain []Strategy

// Apply implements Strategy.
func (c Chain) Apply(ctx context.Context, req *http.Request) error {
	for _, s := range c {
		if err := s.Apply(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// Observe implements Strategy.
func (c Chain) Observe(ctx context.Context, resp *http.Response) {
	for _, s := range c {
		s.Observe(ctx, resp)
	}
}

type key string

var strategyCtxKey key = "strategy_context_key"

// WithStrategy overrides the Strategy a RoundTripper uses for requests made
// with the returned context.
func WithStrategy(ctx context.Context, s Strategy) context.Context {
	return context.WithValue(ctx, strategyCtxKey, s)
}

func strategyFromContext(ctx context.Context) (Strategy, bool) {
	s, ok := ctx.Value(strategyCtxKey).(Strategy)
	return s, ok
}
