package healthz

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	type expected struct {
		code   int
		status string
	}
	tests := map[string]struct {
		transition func(*Check)
		exp        expected
	}{
		"new": {
			transition: func(*Check) {},
			exp:        expected{code: http.StatusServiceUnavailable, status: StatusUnavailable},
		},
		"healthy": {
			transition: func(c *Check) { c.Healthy() },
			exp:        expected{code: http.StatusOK, status: StatusOK},
		},
		"healthy then sick": {
			transition: func(c *Check) { c.Healthy(); c.Sick() },
			exp:        expected{code: http.StatusServiceUnavailable, status: StatusUnavailable},
		},
	}

	for name, test := range tests {
		test := test

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			check := New()
			test.transition(check)

			rr := httptest.NewRecorder()
			check.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			resp := rr.Result()
			defer resp.Body.Close()

			var body struct {
				Status string `json:"status"`
			}
			err := json.NewDecoder(resp.Body).Decode(&body)
			require.Nil(t, err)

			assert.Equal(t, test.exp.code, resp.StatusCode)
			assert.Equal(t, test.exp.status, body.Status)
			assert.Equal(t, test.exp.code == http.StatusOK, check.IsHealthy())
		})
	}
}
