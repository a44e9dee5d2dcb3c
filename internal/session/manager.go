package session

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/tjper/vitalis/internal/client"
	itime "github.com/tjper/vitalis/internal/time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single identity fetch.
const DefaultTimeout = 3 * time.Second

// IdentityClient retrieves the identity of the caller from the backend.
type IdentityClient interface {
	Me(context.Context) (*client.Identity, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout configures the bound of a single identity fetch. Values that
// are not positive leave DefaultTimeout in place.
func WithTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

// WithClock configures the clock used to timestamp diagnostics.
func WithClock(clock itime.Clock) Option {
	return func(m *Manager) { m.clock = clock }
}

// NewManager creates a Manager fetching identities with identities. The
// Manager starts out holding a guest Session.
func NewManager(
	logger *zap.Logger,
	identities IdentityClient,
	options ...Option,
) *Manager {
	m := &Manager{
		logger:      logger,
		identities:  identities,
		timeout:     DefaultTimeout,
		clock:       itime.Time{},
		mutex:       new(sync.RWMutex),
		current:     Guest(),
		diagnostics: make(chan Diagnostic, diagnosticsBuffer),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Manager owns the Session of a running client and keeps it in sync with the
// backend identity endpoint. Fetch failures never surface to callers; they
// resolve the Session to guest and are reported on the Diagnostics channel.
//
// Every fetch is tagged with a sequence number. A fetch result is applied only
// if no newer fetch has already been applied, so overlapping refreshes cannot
// leave a stale Session behind.
type Manager struct {
	logger     *zap.Logger
	identities IdentityClient
	timeout    time.Duration
	clock      itime.Clock

	once sync.Once
	wg   sync.WaitGroup

	mutex       *sync.RWMutex
	current     Session
	issued      uint64
	applied     uint64
	lastFailure *Failure

	diagnostics chan Diagnostic
}

// Initialize marks the Session as loading and launches the initial identity
// fetch in the background. Initialize returns immediately; only the first call
// has any effect. See Wait to block until the initial fetch resolves.
func (m *Manager) Initialize(ctx context.Context) {
	m.once.Do(func() {
		m.mutex.Lock()
		if m.applied == 0 {
			m.current = Session{Status: StatusGuest, IsLoading: true}
		}
		m.mutex.Unlock()

		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.FetchIdentity(ctx)
		}()
	})
}

// Wait blocks until the fetch launched by Initialize has resolved.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Refresh re-fetches the identity. It is used after login, logout,
// registration and profile mutations to resynchronize the Session.
func (m *Manager) Refresh(ctx context.Context) Session {
	return m.FetchIdentity(ctx)
}

// FetchIdentity performs a single identity fetch bounded by the Manager's
// timeout and returns the Session in effect once the fetch resolves. Any
// failure resolves to a guest Session.
func (m *Manager) FetchIdentity(ctx context.Context) Session {
	seq := m.issue()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	identity, err := m.identities.Me(ctx)
	if err == nil && identity == nil {
		err = client.ErrMalformedResponse
	}
	if err != nil {
		return m.fail(seq, err)
	}

	return m.apply(seq, FromIdentity(identity), nil)
}

// Current retrieves the latest resolved Session.
func (m *Manager) Current() Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.current
}

// HasPremiumAccess indicates if the current Session unlocks premium-gated
// content.
func (m *Manager) HasPremiumAccess() bool {
	sess := m.Current()
	return HasPremiumAccess(&sess)
}

// LastFailure retrieves the failure behind the current Session. nil is
// returned if the current Session was resolved successfully or has not been
// resolved yet.
func (m *Manager) LastFailure() *Failure {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.lastFailure == nil {
		return nil
	}
	f := *m.lastFailure
	return &f
}

// Diagnostics streams the failures behind guest resolutions. Diagnostics are
// dropped if the channel is not drained.
func (m *Manager) Diagnostics() <-chan Diagnostic {
	return m.diagnostics
}

func (m *Manager) issue() uint64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.issued++
	return m.issued
}

func (m *Manager) fail(seq uint64, err error) Session {
	failure := &Failure{Kind: Classify(err), Err: err}
	if apiErr := client.AsAPIError(err); apiErr != nil {
		failure.Status = apiErr.Status
	}

	level := m.logger.Warn
	if failure.Kind == FailureAuthentication {
		level = m.logger.Debug
	}
	level(
		"identity fetch failed; resolving to guest",
		zap.Uint64("seq", seq),
		zap.String("kind", string(failure.Kind)),
		zap.Int("status", failure.Status),
		zap.Error(err),
	)

	return m.apply(seq, Guest(), failure)
}

func (m *Manager) apply(seq uint64, sess Session, failure *Failure) Session {
	m.mutex.Lock()

	if seq <= m.applied {
		current, applied := m.current, m.applied
		m.mutex.Unlock()

		m.logger.Debug(
			"discarding stale identity fetch",
			zap.Uint64("seq", seq),
			zap.Uint64("applied", applied),
		)
		return current
	}

	m.current = sess
	m.applied = seq
	m.lastFailure = failure
	m.mutex.Unlock()

	if failure != nil {
		m.publish(Diagnostic{Seq: seq, At: m.clock.Now(), Failure: *failure})
		return sess
	}

	m.logger.Debug(
		"identity fetch resolved",
		zap.Uint64("seq", seq),
		zap.String("status", string(sess.Status)),
		zap.String("role", string(sess.Role)),
	)
	return sess
}

func (m *Manager) publish(d Diagnostic) {
	select {
	case m.diagnostics <- d:
	default:
		m.logger.Debug("diagnostics channel full; dropping", zap.Uint64("seq", d.Seq))
	}
}

// --- failures ---

const diagnosticsBuffer = 16

// FailureKind classifies why an identity fetch resolved to guest.
type FailureKind string

const (
	// FailureNetwork is a transport failure: unreachable backend, DNS, reset
	// connections.
	FailureNetwork FailureKind = "network"
	// FailureTimeout is a fetch aborted by the client timeout or by the
	// caller's context.
	FailureTimeout FailureKind = "timeout"
	// FailureAuthentication is a non-2xx response from the identity endpoint.
	FailureAuthentication FailureKind = "authentication"
	// FailureMalformed is a 2xx response whose body could not be decoded.
	FailureMalformed FailureKind = "malformed"
)

// Failure describes a failed identity fetch.
type Failure struct {
	Kind FailureKind
	// Status is the HTTP status of a FailureAuthentication.
	Status int
	Err    error
}

// Diagnostic is published on the Manager's Diagnostics channel for every
// applied guest resolution caused by a Failure.
type Diagnostic struct {
	Failure
	Seq uint64
	At  time.Time
}

// Classify determines the FailureKind of an identity fetch error.
func Classify(err error) FailureKind {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return FailureTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return FailureTimeout
	case errors.Is(err, client.ErrMalformedResponse):
		return FailureMalformed
	case client.AsAPIError(err) != nil:
		return FailureAuthentication
	default:
		return FailureNetwork
	}
}

// --- identity ---

// createdAtLayouts are the timestamp formats the backend is known to emit.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// FromIdentity converts an identity endpoint body into a resolved Session.
// Status and Role default to user when absent or unrecognized. A guest status
// yields Guest(), discarding any identity fields.
func FromIdentity(identity *client.Identity) Session {
	status := Status(strings.ToLower(strings.TrimSpace(identity.Status)))
	if status == StatusGuest {
		return Guest()
	}

	sess := Session{
		Status:          StatusUser,
		Role:            RoleUser,
		ID:              string(identity.ID),
		Name:            identity.Name,
		Email:           identity.Email,
		AvatarURL:       identity.AvatarURL,
		Bio:             identity.Bio,
		DateOfBirth:     identity.DateOfBirth,
		IsEmailVerified: identity.IsEmailVerified,
	}

	if status == StatusPremium {
		sess.Status = StatusPremium
	}

	switch Role(strings.ToLower(strings.TrimSpace(identity.Role))) {
	case RoleModerator:
		sess.Role = RoleModerator
	case RoleOwner:
		sess.Role = RoleOwner
	}

	if len(identity.Stats) > 0 {
		sess.Stats = make(map[string]int, len(identity.Stats))
		for k, v := range identity.Stats {
			sess.Stats[k] = v
		}
	}

	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, identity.CreatedAt); err == nil {
			sess.CreatedAt = &t
			break
		}
	}

	return sess
}
