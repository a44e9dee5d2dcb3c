package apimock

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tjper/vitalis/internal/client"
	"github.com/tjper/vitalis/internal/rand"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

var (
	// ErrUserDNE indicates that a process attempted to interact with a user that
	// does not exist.
	ErrUserDNE = errors.New("user dne")

	// ErrEmailAlreadyInUse indicates that a user was to be created or moved to
	// an email address already being used.
	ErrEmailAlreadyInUse = errors.New("email already in-use")
)

// User is a backend user. Password is the argon2id hash of the user's
// password salted with Salt.
type User struct {
	ID              uuid.UUID
	Name            string
	Email           string
	Password        []byte
	Salt            string
	Status          string
	Role            string
	CreatedAt       time.Time
	AvatarURL       string
	Bio             string
	DateOfBirth     string
	Stats           map[string]int
	IsEmailVerified bool
}

// Identity converts the User into the identity endpoint body.
func (u User) Identity() client.Identity {
	stats := make(map[string]int, len(u.Stats))
	for k, v := range u.Stats {
		stats[k] = v
	}

	return client.Identity{
		Status:          u.Status,
		Role:            u.Role,
		ID:              client.ID(u.ID.String()),
		Name:            u.Name,
		Email:           u.Email,
		CreatedAt:       u.CreatedAt.UTC().Format(time.RFC3339Nano),
		AvatarURL:       u.AvatarURL,
		Bio:             u.Bio,
		DateOfBirth:     u.DateOfBirth,
		Stats:           stats,
		IsEmailVerified: u.IsEmailVerified,
	}
}

// IsPassword hashes password with the User's salt and compares the result
// against the User's password hash in constant time.
func (u User) IsPassword(password string) bool {
	return subtle.ConstantTimeCompare(u.Password, hash([]byte(password), []byte(u.Salt))) == 1
}

// setPassword salts and hashes password into u.
func (u *User) setPassword(password string) error {
	salt, err := rand.GenerateString(saltBytes)
	if err != nil {
		return fmt.Errorf("generate salt; error: %w", err)
	}

	u.Salt = salt
	u.Password = hash([]byte(password), []byte(salt))
	return nil
}

// verification is a pending email verification. email is the address being
// verified; it differs from the user's address during an email change.
type verification struct {
	userID uuid.UUID
	email  string
}

// Seed adds user with password to the Server. A missing ID, Status, Role or
// CreatedAt is filled in. ErrEmailAlreadyInUse is returned if the email is
// taken.
func (s *Server) Seed(user User, password string) (*User, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.create(user, password)
}

// VerificationToken retrieves the pending verification token for email, as if
// read from the verification email.
func (s *Server) VerificationToken(email string) (string, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for token, v := range s.verifications {
		if strings.EqualFold(v.email, email) {
			return token, true
		}
	}
	return "", false
}

// ResetToken retrieves the pending password reset token for email, as if read
// from the password reset email.
func (s *Server) ResetToken(email string) (string, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, ok := s.byEmail(email)
	if !ok {
		return "", false
	}
	for token, id := range s.resets {
		if id == user.ID {
			return token, true
		}
	}
	return "", false
}

// User retrieves a copy of the user registered with email.
func (s *Server) User(email string) (*User, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, ok := s.byEmail(email)
	if !ok {
		return nil, false
	}
	cp := *user
	cp.Password = append([]byte(nil), user.Password...)
	return &cp, true
}

// --- helpers; callers hold s.mutex ---

func (s *Server) create(user User, password string) (*User, error) {
	if _, ok := s.byEmail(user.Email); ok {
		return nil, ErrEmailAlreadyInUse
	}
	if err := user.setPassword(password); err != nil {
		return nil, err
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Status == "" {
		user.Status = "user"
	}
	if user.Role == "" {
		user.Role = "user"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	s.users[user.ID] = &user
	return &user, nil
}

func (s *Server) byEmail(email string) (*User, bool) {
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, true
		}
	}
	return nil, false
}

// resolve finds the user behind a session ID or bearer token. The session
// cookie takes precedence.
func (s *Server) resolve(sessionID, token string) (*User, error) {
	if id, ok := s.sessions[sessionID]; ok && sessionID != "" {
		if user, ok := s.users[id]; ok {
			return user, nil
		}
	}
	if id, ok := s.tokens[token]; ok && token != "" {
		if user, ok := s.users[id]; ok {
			return user, nil
		}
	}
	return nil, ErrUserDNE
}

// issue creates a session ID and a bearer token for user.
func (s *Server) issue(user *User) (string, string, error) {
	sessionID, err := rand.Token()
	if err != nil {
		return "", "", err
	}
	token, err := rand.Token()
	if err != nil {
		return "", "", err
	}

	s.sessions[sessionID] = user.ID
	s.tokens[token] = user.ID
	return sessionID, token, nil
}

// rotate replaces the bearer token token with a new bearer token.
func (s *Server) rotate(user *User, token string) (string, error) {
	next, err := rand.Token()
	if err != nil {
		return "", err
	}

	delete(s.tokens, token)
	s.tokens[next] = user.ID
	return next, nil
}

// revoke removes every session, token and pending secret of user.
func (s *Server) revoke(userID uuid.UUID) {
	for k, id := range s.sessions {
		if id == userID {
			delete(s.sessions, k)
		}
	}
	for k, id := range s.tokens {
		if id == userID {
			delete(s.tokens, k)
		}
	}
	for k, v := range s.verifications {
		if v.userID == userID {
			delete(s.verifications, k)
		}
	}
	for k, id := range s.resets {
		if id == userID {
			delete(s.resets, k)
		}
	}
}

func (s *Server) newVerification(user *User, email string) (string, error) {
	token, err := rand.Token()
	if err != nil {
		return "", err
	}

	for k, v := range s.verifications {
		if v.userID == user.ID {
			delete(s.verifications, k)
		}
	}
	s.verifications[token] = verification{userID: user.ID, email: email}
	return token, nil
}

// --- password hashing ---

const saltBytes = 32

func hash(password, salt []byte) []byte {
	const (
		minIterations = 2
		minMemory     = 64 * 1024
		threads       = 1
		keyLength     = 32
	)
	return argon2.IDKey(password, salt, minIterations, minMemory, threads, keyLength)
}
