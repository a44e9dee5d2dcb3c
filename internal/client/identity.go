package client

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Identity is the body of the identity endpoint. Every field is optional.
type Identity struct {
	Status          string `json:"status,omitempty"`
	Role            string `json:"role,omitempty"`
	ID              ID     `json:"id,omitempty"`
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	Bio             string `json:"bio,omitempty"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	Stats           Stats  `json:"stats,omitempty"`
	IsEmailVerified bool   `json:"is_email_verified,omitempty"`
}

// ID is an identifier the backend may encode as a JSON string or number.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Stats holds the user's whole-number counters. Entries that are not whole
// numbers, and a stats value that is not an object, are dropped rather than
// failing the enclosing Identity.
type Stats map[string]int

// maxExactFloat is the largest whole number a float64 represents exactly.
const maxExactFloat = 1 << 53

// UnmarshalJSON implements json.Unmarshaler.
func (s *Stats) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil || raw == nil {
		*s = nil
		return nil
	}

	stats := make(Stats, len(raw))
	for k, v := range raw {
		if n, ok := wholeNumber(v); ok {
			stats[k] = n
		}
	}
	*s = stats
	return nil
}

func wholeNumber(b []byte) (int, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == '"' {
		return 0, false
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil || n == "" {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return int(i), true
	}

	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactFloat {
		return 0, false
	}
	return int(f), true
}
