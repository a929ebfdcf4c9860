// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/samber/oops"

	"github.com/clubward/clubward/internal/authz"
	"github.com/clubward/clubward/internal/observability"
)

// State is the session lifecycle state.
type State string

// Session states. Authenticating is transient and exists only while a
// login attempt is outstanding.
const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
)

// Credentials are handed to the external Authenticator; this package
// never inspects the password.
type Credentials struct {
	Email    string
	Password string
}

// Authenticator verifies credentials against the external identity
// provider and returns the established Identity.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (Identity, error)
}

// ProfileStore loads the profile and membership snapshot for an identity.
// Implementations return ErrNotFound (wrapped or bare) when the identity
// no longer exists.
type ProfileStore interface {
	LoadProfileAndMemberships(ctx context.Context, identityID string) (Profile, []Membership, error)
}

// Session is the single mutable aggregate of this package. One logical
// session exists per running process; all methods are safe for concurrent
// use.
type Session struct {
	authenticator Authenticator
	profiles      ProfileStore
	logger        *slog.Logger

	mu          sync.RWMutex
	state       State
	inFlight    bool
	epoch       uint64
	identity    *Identity
	profile     *Profile
	memberships []Membership
	resolver    *authz.Resolver
	lastErr     error
}

// NewSession creates a Session in the Unauthenticated state.
func NewSession(authenticator Authenticator, profiles ProfileStore, logger *slog.Logger) (*Session, error) {
	if authenticator == nil {
		return nil, oops.In("auth").Errorf("authenticator is required")
	}
	if profiles == nil {
		return nil, oops.In("auth").Errorf("profile store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		authenticator: authenticator,
		profiles:      profiles,
		logger:        logger,
		state:         StateUnauthenticated,
	}, nil
}

// Login authenticates credentials and populates the session. A second
// Login while an attempt is in flight fails immediately with ErrBusy and
// does not disturb the in-flight attempt. A failed login leaves the
// session Unauthenticated with LastError set and never partially
// populates identity or profile.
func (s *Session) Login(ctx context.Context, creds Credentials) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		observability.RecordLoginOutcome("busy")
		return oops.In("auth").Code("AUTH_BUSY").Wrap(ErrBusy)
	}
	s.inFlight = true
	epoch := s.epoch
	s.state = StateAuthenticating
	s.lastErr = nil
	s.clearPrincipalLocked()
	s.mu.Unlock()

	identity, err := s.authenticator.Authenticate(ctx, creds)
	var (
		profile     Profile
		memberships []Membership
	)
	if err == nil {
		profile, memberships, err = s.profiles.LoadProfileAndMemberships(ctx, identity.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	// A Logout during the external call bumped the epoch; the session was
	// reset underneath this attempt, so its result must not be applied.
	stale := s.epoch != epoch

	if err != nil {
		if !stale {
			s.state = StateUnauthenticated
			s.lastErr = err
		}
		observability.RecordLoginOutcome("failure")
		s.logger.Info("login failed", "error", err)
		return err
	}
	if stale {
		s.logger.Debug("discarding login result after logout", "identity_id", identity.ID)
		return nil
	}

	s.identity = &identity
	s.profile = &profile
	s.memberships = memberships
	s.resolver = authz.NewResolver(profile.SuperAdmin, resolverSnapshot(memberships, s.logger), s.logger)
	s.state = StateAuthenticated
	observability.RecordLoginOutcome("success")
	s.logger.Info("login succeeded",
		"identity_id", identity.ID,
		"memberships", len(memberships))
	return nil
}

// Logout resets the session to Unauthenticated from any state, clearing
// identity, memberships, and any previous error. The machine remains
// usable for subsequent logins.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.state = StateUnauthenticated
	s.lastErr = nil
	s.clearPrincipalLocked()
	s.logger.Info("logged out")
}

// Refresh re-fetches the profile and membership snapshot for the current
// identity. Only valid while Authenticated. If the identity is no longer
// known to the store the session transitions to Unauthenticated with the
// error recorded; any other store failure keeps the session Authenticated
// on its previous snapshot.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return oops.In("auth").Code("AUTH_BUSY").Wrap(ErrBusy)
	}
	if s.state != StateAuthenticated || s.identity == nil {
		s.mu.Unlock()
		return oops.In("auth").Code("AUTH_NOT_AUTHENTICATED").Wrap(ErrNotAuthenticated)
	}
	s.inFlight = true
	epoch := s.epoch
	identityID := s.identity.ID
	s.mu.Unlock()

	profile, memberships, err := s.profiles.LoadProfileAndMemberships(ctx, identityID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if s.epoch != epoch {
		s.logger.Debug("discarding refresh result after logout", "identity_id", identityID)
		return nil
	}

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.state = StateUnauthenticated
			s.lastErr = err
			s.clearPrincipalLocked()
			s.logger.Warn("identity no longer valid, session reset", "identity_id", identityID)
		} else {
			s.lastErr = err
			s.logger.Warn("refresh failed, keeping previous snapshot",
				"identity_id", identityID,
				"error", err)
		}
		return err
	}

	s.profile = &profile
	s.memberships = memberships
	s.resolver = authz.NewResolver(profile.SuperAdmin, resolverSnapshot(memberships, s.logger), s.logger)
	s.lastErr = nil
	s.logger.Info("session refreshed",
		"identity_id", identityID,
		"memberships", len(memberships))
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LastError returns the error recorded by the most recent failed login or
// refresh, cleared when a new attempt begins or on logout.
func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Identity returns the authenticated identity, if any.
func (s *Session) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// Profile returns the authenticated principal's profile, if any.
func (s *Session) Profile() (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return Profile{}, false
	}
	return *s.profile, true
}

// Memberships returns a copy of the membership snapshot.
func (s *Session) Memberships() []Membership {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.memberships) == 0 {
		return nil
	}
	out := make([]Membership, len(s.memberships))
	copy(out, s.memberships)
	return out
}

// IsSuperAdmin reports whether the authenticated principal bypasses club
// scoping. False when unauthenticated; never an error.
func (s *Session) IsSuperAdmin() bool {
	return s.currentResolver().IsSuperAdmin()
}

// HasClubRole reports whether the authenticated principal may act with at
// least the required role on the club. False when unauthenticated or when
// the club is unknown; never an error.
func (s *Session) HasClubRole(clubID string, required authz.Role) bool {
	allowed := s.currentResolver().HasClubRole(clubID, required)
	if allowed {
		observability.RecordAuthzDecision("allow")
	} else {
		observability.RecordAuthzDecision("deny")
	}
	return allowed
}

// Allows reports whether a membership permission override grants the key
// in the club.
func (s *Session) Allows(clubID, key string) bool {
	return s.currentResolver().Allows(clubID, key)
}

// currentResolver snapshots the resolver under the read lock. The
// resolver itself is immutable, so queries against it observe a
// consistent snapshot even while a login swaps it out.
func (s *Session) currentResolver() *authz.Resolver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolver
}

func (s *Session) clearPrincipalLocked() {
	s.identity = nil
	s.profile = nil
	s.memberships = nil
	s.resolver = nil
}
