package client_test

import (
	"encoding/json"
	"testing"

	"github.com/tjper/vitalis/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityDecoding(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		body string
		exp  client.Identity
	}{
		"string id": {
			body: `{"status":"user","id":"42"}`,
			exp:  client.Identity{Status: "user", ID: "42"},
		},
		"numeric id": {
			body: `{"status":"user","id":42}`,
			exp:  client.Identity{Status: "user", ID: "42"},
		},
		"null id": {
			body: `{"status":"user","id":null}`,
			exp:  client.Identity{Status: "user"},
		},
		"integer stats": {
			body: `{"status":"premium","stats":{"streak":3,"sessions":42}}`,
			exp:  client.Identity{Status: "premium", Stats: client.Stats{"streak": 3, "sessions": 42}},
		},
		"whole float stat": {
			body: `{"status":"premium","role":"user","name":"A","stats":{"streak":3.0}}`,
			exp: client.Identity{
				Status: "premium",
				Role:   "user",
				Name:   "A",
				Stats:  client.Stats{"streak": 3},
			},
		},
		"exponent stat": {
			body: `{"status":"premium","stats":{"sessions":1e2}}`,
			exp:  client.Identity{Status: "premium", Stats: client.Stats{"sessions": 100}},
		},
		"fractional stat skipped": {
			body: `{"status":"premium","stats":{"streak":3,"ratio":2.5}}`,
			exp:  client.Identity{Status: "premium", Stats: client.Stats{"streak": 3}},
		},
		"non-number stats skipped": {
			body: `{"status":"premium","stats":{"streak":3,"label":"x","quoted":"4","missing":null,"nested":{"a":1},"flag":true}}`,
			exp:  client.Identity{Status: "premium", Stats: client.Stats{"streak": 3}},
		},
		"null stats": {
			body: `{"status":"premium","stats":null}`,
			exp:  client.Identity{Status: "premium"},
		},
		"stats not an object": {
			body: `{"status":"premium","stats":[1,2]}`,
			exp:  client.Identity{Status: "premium"},
		},
		"empty stats": {
			body: `{"status":"premium","stats":{}}`,
			exp:  client.Identity{Status: "premium", Stats: client.Stats{}},
		},
	}

	for name, test := range tests {
		test := test

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var identity client.Identity
			err := json.Unmarshal([]byte(test.body), &identity)
			require.Nil(t, err)
			assert.Equal(t, test.exp, identity)
		})
	}
}
