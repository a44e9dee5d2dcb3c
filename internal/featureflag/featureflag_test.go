package featureflag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		value string
		exp   bool
	}{
		"1":                  {value: "1", exp: true},
		"true":               {value: "true", exp: true},
		"yes":                {value: "yes", exp: true},
		"on":                 {value: "on", exp: true},
		"enabled":            {value: "enabled", exp: true},
		"uppercase":          {value: "TRUE", exp: true},
		"mixed case":         {value: "Enabled", exp: true},
		"padded":             {value: "  on\n", exp: true},
		"empty":              {value: "", exp: false},
		"0":                  {value: "0", exp: false},
		"false":              {value: "false", exp: false},
		"off":                {value: "off", exp: false},
		"unrecognized":       {value: "sure", exp: false},
		"prefix of accepted": {value: "tru", exp: false},
	}

	for name, test := range tests {
		test := test

		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.exp, Enabled(test.value))
		})
	}
}
