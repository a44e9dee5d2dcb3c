package session

import (
	"time"
)

// Status is the entitlement state of a Session.
type Status string

const (
	// StatusGuest is an unauthenticated Session, or one whose identity could not
	// be retrieved.
	StatusGuest Status = "guest"
	// StatusUser is an authenticated Session without premium entitlement.
	StatusUser Status = "user"
	// StatusPremium is an authenticated Session with premium entitlement.
	StatusPremium Status = "premium"
)

// Role is the staff role of a Session user. Role is independent of Status.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleOwner     Role = "owner"
)

// IsStaff indicates if the role is granted premium-equivalent capability.
func (r Role) IsStaff() bool {
	return r == RoleModerator || r == RoleOwner
}

// Guest creates the Session used whenever no identity is available.
func Guest() Session {
	return Session{Status: StatusGuest}
}

// Session represents the identity state held by the client process.
type Session struct {
	Status Status `json:"status"`
	Role   Role   `json:"role,omitempty"`

	ID              string         `json:"id,omitempty"`
	Name            string         `json:"name,omitempty"`
	Email           string         `json:"email,omitempty"`
	CreatedAt       *time.Time     `json:"createdAt,omitempty"`
	AvatarURL       string         `json:"avatarUrl,omitempty"`
	Bio             string         `json:"bio,omitempty"`
	DateOfBirth     string         `json:"dateOfBirth,omitempty"`
	Stats           map[string]int `json:"stats,omitempty"`
	IsEmailVerified bool           `json:"isEmailVerified"`

	// IsLoading is true only while the initial identity fetch is in flight.
	IsLoading bool `json:"isLoading"`
}

// IsAuthenticated indicates if the Session belongs to a signed-in user.
func (s Session) IsAuthenticated() bool {
	return s.Status == StatusUser || s.Status == StatusPremium
}

// HasAccess indicates if the Session unlocks premium-gated content.
func (s Session) HasAccess() bool {
	return HasPremiumAccess(&s)
}

// HasPremiumAccess is the single source of truth for premium gating. A nil
// Session never has access. Staff roles have access regardless of Status.
func HasPremiumAccess(s *Session) bool {
	if s == nil {
		return false
	}
	return s.Status == StatusPremium || s.Role.IsStaff()
}

// Equal checks if the passed Session is equal to the receiver Session.
func (s Session) Equal(s2 Session) bool {
	equal := true
	equal = equal && (s.Status == s2.Status)
	equal = equal && (s.Role == s2.Role)
	equal = equal && (s.ID == s2.ID)
	equal = equal && (s.Name == s2.Name)
	equal = equal && (s.Email == s2.Email)
	equal = equal && (s.AvatarURL == s2.AvatarURL)
	equal = equal && (s.Bio == s2.Bio)
	equal = equal && (s.DateOfBirth == s2.DateOfBirth)
	equal = equal && (s.IsEmailVerified == s2.IsEmailVerified)
	equal = equal && (s.IsLoading == s2.IsLoading)
	equal = equal && ((s.CreatedAt == nil) == (s2.CreatedAt == nil))
	if s.CreatedAt != nil && s2.CreatedAt != nil {
		equal = equal && s.CreatedAt.Equal(*s2.CreatedAt)
	}

	equal = equal && (len(s.Stats) == len(s2.Stats))
	for k, v := range s.Stats {
		v2, ok := s2.Stats[k]
		equal = equal && ok && v == v2
	}

	return equal
}
