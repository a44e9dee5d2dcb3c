// Package apimock provides an in-memory fake of the vitalis backend
// authentication API. It is used by package tests and by cmd/mockapi for
// local development.
package apimock

import (
	"net/http"
	"sync"
	"time"

	ihttp "github.com/tjper/vitalis/internal/http"
	ivalidator "github.com/tjper/vitalis/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Option configures a Server.
type Option func(*Server)

// WithCookieOptions configures the attributes of the session cookie.
func WithCookieOptions(options ihttp.CookieOptions) Option {
	return func(s *Server) { s.cookieOptions = options }
}

// WithMinDuration configures the minimum response time of the login and
// register endpoints.
func WithMinDuration(min time.Duration) Option {
	return func(s *Server) { s.minDuration = min }
}

// WithoutAccessToken configures the Server to omit the X-Access-Token header
// from credential-establishing responses, leaving cookies as the only
// credential transport.
func WithoutAccessToken() Option {
	return func(s *Server) { s.omitAccessToken = true }
}

// WithoutCookies configures the Server to omit the session cookie from
// credential-establishing responses, mimicking a client environment that
// drops cross-site cookies.
func WithoutCookies() Option {
	return func(s *Server) { s.omitCookies = true }
}

// New creates a Server with no users.
func New(logger *zap.Logger, options ...Option) *Server {
	s := &Server{
		Mux:           chi.NewRouter(),
		logger:        logger,
		valid:         ivalidator.New(),
		mutex:         new(sync.Mutex),
		users:         make(map[uuid.UUID]*User),
		sessions:      make(map[string]uuid.UUID),
		tokens:        make(map[string]uuid.UUID),
		verifications: make(map[string]verification),
		resets:        make(map[string]uuid.UUID),
	}
	for _, option := range options {
		option(s)
	}

	s.Mux.Use(
		middleware.RequestID,
		middleware.RequestLogger(ihttp.NewZapLogFormatter(logger)),
		middleware.Recoverer,
	)

	s.Mux.Route("/v1/auth", func(router chi.Router) {
		router.Post("/password/forgot", s.forgotPassword)
		router.Post("/password/reset", s.resetPassword)
		router.Post("/verify-email", s.verifyEmail)

		// The identity endpoint authenticates on its own so that injected
		// failures apply to guests too.
		router.Get("/me", s.me)

		router.Group(func(router chi.Router) {
			router.Use(ihttp.EnsureDuration(s.minDuration))

			router.Post("/login", s.login)
			router.Post("/register", s.register)
		})

		router.Group(func(router chi.Router) {
			router.Use(s.authenticate)

			router.Patch("/me", s.updateProfile)
			router.Delete("/me", s.deleteAccount)
			router.Post("/logout", s.logout)
			router.Post("/verify-email/request", s.requestEmailVerification)
			router.Post("/password/change", s.changePassword)
			router.Post("/email/change", s.changeEmail)
		})
	})

	return s
}

// Server is an in-memory fake of the backend authentication API.
type Server struct {
	Mux *chi.Mux

	logger *zap.Logger
	valid  *validator.Validate

	cookieOptions   ihttp.CookieOptions
	minDuration     time.Duration
	omitAccessToken bool
	omitCookies     bool

	mutex         *sync.Mutex
	users         map[uuid.UUID]*User
	sessions      map[string]uuid.UUID
	tokens        map[string]uuid.UUID
	verifications map[string]verification
	resets        map[string]uuid.UUID

	meDelay  time.Duration
	meStatus int
	meBody   []byte
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Mux.ServeHTTP(w, r)
}

// SetMeDelay delays every identity endpoint response by d.
func (s *Server) SetMeDelay(d time.Duration) {
	s.mutex.Lock()
	s.meDelay = d
	s.mutex.Unlock()
}

// SetMeFailure forces the identity endpoint to answer with status and body.
// A zero status restores normal behavior.
func (s *Server) SetMeFailure(status int, body []byte) {
	s.mutex.Lock()
	s.meStatus = status
	s.meBody = body
	s.mutex.Unlock()
}
