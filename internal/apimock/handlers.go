package apimock

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tjper/vitalis/internal/credential"
	ihttp "github.com/tjper/vitalis/internal/http"
	"github.com/tjper/vitalis/internal/rand"

	"github.com/google/uuid"
)

type ctxkey string

var principalCtxKey ctxkey = "principal_context_key"

// principal is the authenticated caller of a request.
type principal struct {
	userID    uuid.UUID
	sessionID string
	token     string
}

// authenticate resolves the caller from the session cookie or the bearer
// token and rejects the request if neither identifies a user.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.principal(r)
		if !ok {
			ihttp.ErrUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), principalCtxKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) principal(r *http.Request) (principal, bool) {
	sessionID := ihttp.SessionFromRequest(r)
	token := ihttp.BearerFromRequest(r)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, err := s.resolve(sessionID, token)
	if err != nil {
		return principal{}, false
	}
	return principal{userID: user.ID, sessionID: sessionID, token: token}, true
}

func principalFromContext(ctx context.Context) principal {
	p, _ := ctx.Value(principalCtxKey).(principal)
	return p
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	delay, status, body := s.meDelay, s.meStatus, s.meBody
	s.mutex.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-r.Context().Done():
			return
		}
	}

	if status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
		return
	}

	p, ok := s.principal(r)
	if !ok {
		ihttp.ErrUnauthorized(w)
		return
	}

	s.mutex.Lock()
	user, ok := s.users[p.userID]
	if !ok {
		s.mutex.Unlock()
		ihttp.ErrUnauthorized(w)
		return
	}
	identity := user.Identity()
	s.mutex.Unlock()

	s.write(w, http.StatusOK, identity)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	type body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	var b body
	if !s.read(w, r, &b) {
		return
	}

	s.mutex.Lock()
	user, ok := s.byEmail(b.Email)
	if !ok || !user.IsPassword(b.Password) {
		s.mutex.Unlock()
		ihttp.Error(w, "Invalid email or password.", http.StatusUnauthorized)
		return
	}

	sessionID, token, err := s.issue(user)
	identity := user.Identity()
	s.mutex.Unlock()
	if err != nil {
		ihttp.ErrInternal(s.logger, w, err)
		return
	}

	s.establish(w, http.StatusOK, sessionID, token, identity)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	type body struct {
		Name     string `json:"name" validate:"required,max=64"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,password"`
	}

	var b body
	if !s.read(w, r, &b) {
		return
	}

	s.mutex.Lock()
	user, err := s.create(User{Name: b.Name, Email: b.Email}, b.Password)
	if errors.Is(err, ErrEmailAlreadyInUse) {
		s.mutex.Unlock()
		ihttp.ErrConflict(w, "Email already registered.")
		return
	}
	if err != nil {
		s.mutex.Unlock()
		ihttp.ErrInternal(s.logger, w, err)
		return
	}

	sessionID, token, err := s.issue(user)
	if err == nil {
		_, err = s.newVerification(user, user.Email)
	}
	identity := user.Identity()
	s.mutex.Unlock()
	if err != nil {
		ihttp.ErrInternal(s.logger, w, err)
		return
	}

	s.establish(w, http.StatusCreated, sessionID, token, identity)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())

	s.mutex.Lock()
	delete(s.sessions, p.sessionID)
	delete(s.tokens, p.token)
	s.mutex.Unlock()

	ihttp.ClearSessionCookie(w, s.cookieOptions)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	type body struct {
		Name        *string `json:"name" validate:"omitempty,min=1,max=64"`
		Bio         *string `json:"bio" validate:"omitempty,max=500"`
		AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
		DateOfBirth *string `json:"date_of_birth" validate:"omitempty,date"`
	}

	var b body
	if !s.read(w, r, &b) {
		return
	}

	p := principalFromContext(r.Context())

	s.mutex.Lock()
	user, ok := s.users[p.userID]
	if !ok {
		s.mutex.Unlock()
		ihttp.ErrUnauthorized(w)
		return
	}

	if b.Name != nil {
		user.Name = *b.Name
	}
	if b.Bio != nil {
		user.Bio = *b.Bio
	}
	if b.AvatarURL != nil {
		user.AvatarURL = *b.AvatarURL
	}
	if b.DateOfBirth != nil {
		user.DateOfBirth = *b.DateOfBirth
	}

	token, err := s.rotate(user, p.token)
	identity := user.Identity()
	s.mutex.Unlock()
	if err != nil {
		ihttp.ErrInternal(s.logger, w, err)
		return
	}

	s.establish(w, http.StatusOK, "", token, identity)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())

	s.mutex.Lock()
	s.revoke(p.userID)
	delete(s.users, p.userID)
	s.mutex.Unlock()

	ihttp.ClearSessionCookie(w, s.cookieOptions)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requestEmailVerification(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())

	s.mutex.Lock()
	user, ok := s.users[p.userID]
	if !ok {
		s.mutex.Unlock()
		ihttp.ErrUnauthorized(w)
		return
	}
	if user.IsEmailVerified {
		s.mutex.Unlock()
		ihttp.ErrConflict(w, "Email already verified.")
		return
	}

	_, err := s.newVerification(user, user.Email)
	s.mutex.Unlock()
	if err != nil {
		ihttp.ErrInternal(s.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request) {
	type body struct {
		Token string `json:"token" validate:"required"`
	}

	var b body
	if !s.read(w, r, &b) {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	v, ok := s.verifications[b.Token]
	if !ok {
		ihttp.Error(w, "Invalid or expired verification token.", http.StatusBadRequest)
		return
	}
	user, ok := s.users[v.userID]
	if !ok {
		ihttp.Error(w, "Invalid or expired verification token.", http.StatusBadRequest)
		return
	}
	if other, ok := s.byEmail(v.email); ok && other.ID != user.ID {
		ihttp.ErrConflict(w, "Email already registered.")
		return
	}

	user.Email = v.email
	user.IsEmailVerified = true
	delete(s.verifications, b.Token)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	type body struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,password"`
	}

	var b body
	if !s.read(w, r, &b) {
		return
	}

	p := principalFromContext(r.Context())

	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, ok := s.users[p.userID]
	if !ok {
		ihttp.ErrUnauthorized(w)
		return
	}
	if !user.IsPassword(b.CurrentPassword) {
		ihttp.Error(w, "Current password is incorrect.", http.StatusBadRequest)
		return
	}

	if err := user.setPassword(b.NewPassword); err != nil {
		ihttp.ErrInternal(s.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) changeEmail(w http.ResponseWriter, r *http.Request) {
	type body struct {
		NewEmail string `json:"new_email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	var b body
	if !s.read(w, r, &b) {
		return
	}

	p := principalFromContext(r.Context())

	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, ok := s.users[p.userID]
	if !ok {
		ihttp.ErrUnauthorized(w)
		return
	}
	if !user.IsPassword(b.Password) {
		ihttp.Error(w, "Password is incorrect.", http.StatusBadRequest)
		return
	}
	if _, ok := s.byEmail(b.NewEmail); ok {
		ihttp.ErrConflict(w, "Email already registered.")
		return
	}

	if _, err := s.newVerification(user, b.NewEmail); err != nil {
		ihttp.ErrInternal(s.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	type body struct {
		Email string `json:"email" validate:"required,email"`
	}

	var b body
	if !s.read(w, r, &b) {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// Unknown addresses are answered the same way as known ones.
	if user, ok := s.byEmail(b.Email); ok {
		token, err := rand.Token()
		if err != nil {
			ihttp.ErrInternal(s.logger, w, err)
			return
		}
		for k, id := range s.resets {
			if id == user.ID {
				delete(s.resets, k)
			}
		}
		s.resets[token] = user.ID
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	type body struct {
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,password"`
	}

	var b body
	if !s.read(w, r, &b) {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	id, ok := s.resets[b.Token]
	if !ok {
		ihttp.Error(w, "Invalid or expired reset token.", http.StatusBadRequest)
		return
	}
	user, ok := s.users[id]
	if !ok {
		ihttp.Error(w, "Invalid or expired reset token.", http.StatusBadRequest)
		return
	}

	if err := user.setPassword(b.Password); err != nil {
		ihttp.ErrInternal(s.logger, w, err)
		return
	}
	s.revoke(user.ID)

	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

// read decodes and validates the request body. On failure the error response
// is written and false is returned.
func (s *Server) read(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		ihttp.ErrBadRequest(s.logger, w, err)
		return false
	}
	if err := s.valid.Struct(dst); err != nil {
		ihttp.ErrBadRequest(s.logger, w, err)
		return false
	}
	return true
}

func (s *Server) write(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Sugar().Warnf("encode response; error: %s", err)
	}
}

// establish answers a credential-establishing request. An empty sessionID
// leaves the session cookie untouched.
func (s *Server) establish(
	w http.ResponseWriter,
	code int,
	sessionID, token string,
	body interface{},
) {
	if sessionID != "" && !s.omitCookies {
		ihttp.SetSessionCookie(w, sessionID, s.cookieOptions)
	}
	if !s.omitAccessToken {
		w.Header().Set(credential.HeaderAccessToken, token)
	}
	s.write(w, code, body)
}
