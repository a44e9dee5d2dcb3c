package credential

import (
	"fmt"
	"net/http"
)

// NewRoundTripper creates a RoundTripper that applies strategy to every
// request before handing it to next. A nil next uses http.DefaultTransport.
func NewRoundTripper(next http.RoundTripper, strategy Strategy) *RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &RoundTripper{next: next, strategy: strategy}
}

// RoundTripper is an http.RoundTripper attaching credentials to outgoing
// requests. The Strategy may be overridden per request with WithStrategy.
type RoundTripper struct {
	next     http.RoundTripper
	strategy Strategy
}

// RoundTrip implements http.RoundTripper.
func (rt RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	strategy := rt.strategy
	if s, ok := strategyFromContext(ctx); ok {
		strategy = s
	}
	if strategy == nil {
		return rt.next.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	req = req.Clone(ctx)
	if err := strategy.Apply(ctx, req); err != nil {
		return nil, fmt.Errorf("apply credential; error: %w", err)
	}

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	strategy.Observe(ctx, resp)
	return resp, nil
}
