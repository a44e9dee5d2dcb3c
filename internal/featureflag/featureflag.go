// Package featureflag interprets feature flag values read from the
// environment.
package featureflag

import "strings"

var enabled = map[string]struct{}{
	"1":       {},
	"true":    {},
	"yes":     {},
	"on":      {},
	"enabled": {},
}

// Enabled indicates if value switches a flag on. Matching ignores case and
// surrounding whitespace; anything unrecognized is off.
func Enabled(value string) bool {
	_, ok := enabled[strings.ToLower(strings.TrimSpace(value))]
	return ok
}
