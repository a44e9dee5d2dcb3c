// Package healthz provides an HTTP health check whose status is flipped by
// the owning process as it starts up and shuts down.
package healthz

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

// New creates a Check reporting unavailable until Healthy is called.
func New() *Check {
	return &Check{}
}

// Check is an http.Handler answering 200 while healthy and 503 otherwise.
type Check struct {
	healthy int32
}

// ServeHTTP implements http.Handler.
func (c *Check) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	code, status := http.StatusServiceUnavailable, StatusUnavailable
	if c.IsHealthy() {
		code, status = http.StatusOK, StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(struct {
		Status string `json:"status"`
	}{Status: status})
}

// IsHealthy indicates if the Check currently reports healthy.
func (c *Check) IsHealthy() bool {
	return atomic.LoadInt32(&c.healthy) == 1
}

// Healthy switches the Check to report healthy.
func (c *Check) Healthy() {
	atomic.StoreInt32(&c.healthy, 1)
}

// Sick switches the Check to report unavailable, typically once shutdown has
// begun.
func (c *Check) Sick() {
	atomic.StoreInt32(&c.healthy, 0)
}
