// Package client provides an API for interacting with the vitalis backend
// authentication endpoints. Every request carries the client's credentials
// through a credential.Strategy; see package credential.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tjper/vitalis/internal/credential"
	"github.com/tjper/vitalis/internal/token"
	ivalidator "github.com/tjper/vitalis/internal/validator"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://localhost:8000"

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient configures the Client to send requests with httpClient. The
// credential RoundTripper is installed on top of httpClient's Transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

// WithStrategy configures the credential transport used for every request.
// By default the cookie and bearer strategies are chained.
func WithStrategy(strategy credential.Strategy) Option {
	return func(c *Client) { c.strategy = strategy }
}

// New creates a new Client instance for the backend at baseURL. An empty
// baseURL uses DefaultBaseURL. slot holds the fallback bearer token.
func New(
	logger *zap.Logger,
	baseURL string,
	slot *token.Slot,
	options ...Option,
) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url; url: %s, error: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute; url: %s", baseURL)
	}

	c := &Client{
		logger: logger,
		base:   base,
		slot:   slot,
		valid:  ivalidator.New(),
	}
	for _, option := range options {
		option(c)
	}

	if c.strategy == nil {
		jar, err := credential.NewJar()
		if err != nil {
			return nil, err
		}
		c.strategy = credential.Chain{
			credential.NewCookieStrategy(jar),
			credential.NewBearerStrategy(slot),
		}
	}

	httpClient := &http.Client{}
	if c.http != nil {
		clone := *c.http
		httpClient = &clone
	}
	httpClient.Transport = credential.NewRoundTripper(httpClient.Transport, c.strategy)
	c.http = httpClient

	return c, nil
}

// Client is a vitalis backend client.
type Client struct {
	logger   *zap.Logger
	base     *url.URL
	http     *http.Client
	strategy credential.Strategy
	slot     *token.Slot
	valid    *validator.Validate
}

// BaseURL is the backend address the Client sends requests to.
func (c Client) BaseURL() string {
	return c.base.String()
}

// call describes a single backend request.
type call struct {
	method string
	path   string
	header http.Header
	in     interface{}
	out    interface{}

	// strict rejects a 2xx response without a body when out is set.
	strict bool
}

// do sends call to the backend. On a 2xx response the body is decoded into
// call.out, if set, and the response headers are returned. Any other status
// results in an APIError.
func (c Client) do(ctx context.Context, call call) (http.Header, error) {
	var body io.Reader
	if call.in != nil {
		b, err := json.Marshal(call.in)
		if err != nil {
			return nil, fmt.Errorf("encode request; path: %s, error: %w", call.path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, call.method, c.base.String()+call.path, body)
	if err != nil {
		return nil, fmt.Errorf("new request; path: %s, error: %w", call.path, err)
	}
	for k, v := range call.header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s; error: %w", call.method, call.path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response; path: %s, error: %w", call.path, err)
	}

	c.logger.Debug(
		"[HTTP Response]",
		zap.String("method", call.method),
		zap.String("path", call.path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(b)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp.Header, APIError{Status: resp.StatusCode, Detail: detail(b)}
	}

	if call.out == nil {
		return resp.Header, nil
	}
	if len(bytes.TrimSpace(b)) == 0 {
		if call.strict {
			return resp.Header, fmt.Errorf("%w; path: %s, error: empty body", ErrMalformedResponse, call.path)
		}
		return resp.Header, nil
	}
	if err := json.Unmarshal(b, call.out); err != nil {
		return resp.Header, fmt.Errorf("%w; path: %s, error: %v", ErrMalformedResponse, call.path, err)
	}

	return resp.Header, nil
}

// validate checks in against its validate tags.
func (c Client) validate(in interface{}) error {
	if err := c.valid.Struct(in); err != nil {
		return newValidationError(err)
	}
	return nil
}

// capture stores the bearer token handed out by a credential-establishing
// response.
func (c Client) capture(ctx context.Context, header http.Header) {
	if header == nil {
		return
	}
	if credential.CaptureToken(ctx, c.slot, header) {
		c.logger.Debug("captured access token")
	}
}
