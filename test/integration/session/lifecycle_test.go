// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

//go:build integration

package session_test

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/clubward/clubward/internal/auth"
	"github.com/clubward/clubward/internal/authz"
)

// memoryBackend is an in-memory identity provider and profile store. It
// verifies credentials against provisioned accounts and serves snapshots,
// so the suite exercises authenticator and store through one consistent
// world state.
type memoryBackend struct {
	mu          sync.Mutex
	passwords   map[string]string // email -> password
	identities  map[string]auth.Identity
	profiles    map[string]auth.Profile
	memberships map[string][]auth.Membership
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{
		passwords:   make(map[string]string),
		identities:  make(map[string]auth.Identity),
		profiles:    make(map[string]auth.Profile),
		memberships: make(map[string][]auth.Membership),
	}
}

func (b *memoryBackend) addAccount(id, email, password string, profile auth.Profile, memberships []auth.Membership) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.passwords[email] = password
	b.identities[email] = auth.Identity{ID: id, Email: email}
	b.profiles[id] = profile
	b.memberships[id] = memberships
}

func (b *memoryBackend) removeAccount(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.profiles, id)
	delete(b.memberships, id)
}

func (b *memoryBackend) setMemberships(id string, memberships []auth.Membership) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.memberships[id] = memberships
}

func (b *memoryBackend) Authenticate(_ context.Context, creds auth.Credentials) (auth.Identity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	password, ok := b.passwords[creds.Email]
	if !ok || password != creds.Password {
		return auth.Identity{}, errInvalidCredentials
	}
	return b.identities[creds.Email], nil
}

func (b *memoryBackend) LoadProfileAndMemberships(_ context.Context, identityID string) (auth.Profile, []auth.Membership, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	profile, ok := b.profiles[identityID]
	if !ok {
		return auth.Profile{}, nil, auth.ErrNotFound
	}
	return profile, b.memberships[identityID], nil
}

var errInvalidCredentials = errInvalid{}

type errInvalid struct{}

func (errInvalid) Error() string { return "invalid credentials" }

var _ = Describe("Session lifecycle", func() {
	var (
		backend *memoryBackend
		session *auth.Session
		ctx     context.Context
	)

	mustMembership := func(clubID, role string, active bool, perms map[string]bool) auth.Membership {
		m, err := auth.NewMembership(clubID, role, active, perms)
		Expect(err).NotTo(HaveOccurred())
		return m
	}

	BeforeEach(func() {
		ctx = context.Background()
		backend = newMemoryBackend()
		backend.addAccount("id-chair", "chair@club.test", "open sesame",
			auth.Profile{DisplayName: "Chair", SystemRole: auth.SystemRoleClubAdmin},
			[]auth.Membership{
				mustMembership("rowing", "manager", true, map[string]bool{"roster.*": true}),
				mustMembership("sailing", "staff", true, nil),
			})

		var err error
		session, err = auth.NewSession(backend, backend, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("login", func() {
		It("establishes an authenticated session with club-scoped roles", func() {
			Expect(session.Login(ctx, auth.Credentials{Email: "chair@club.test", Password: "open sesame"})).To(Succeed())

			Expect(session.State()).To(Equal(auth.StateAuthenticated))
			Expect(session.HasClubRole("rowing", authz.RoleManager)).To(BeTrue())
			Expect(session.HasClubRole("rowing", authz.RoleOwner)).To(BeFalse())
			Expect(session.HasClubRole("sailing", authz.RoleStaff)).To(BeTrue())
			Expect(session.HasClubRole("sailing", authz.RoleSupervisor)).To(BeFalse())
			Expect(session.Allows("rowing", "roster.edit")).To(BeTrue())
			Expect(session.Allows("sailing", "roster.edit")).To(BeFalse())
		})

		It("rejects bad credentials without touching session state", func() {
			err := session.Login(ctx, auth.Credentials{Email: "chair@club.test", Password: "wrong"})
			Expect(err).To(HaveOccurred())
			Expect(session.State()).To(Equal(auth.StateUnauthenticated))
			Expect(session.LastError()).To(HaveOccurred())
			_, ok := session.Identity()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("refresh", func() {
		BeforeEach(func() {
			Expect(session.Login(ctx, auth.Credentials{Email: "chair@club.test", Password: "open sesame"})).To(Succeed())
		})

		It("picks up membership changes", func() {
			backend.setMemberships("id-chair", []auth.Membership{
				mustMembership("rowing", "owner", true, nil),
			})

			Expect(session.Refresh(ctx)).To(Succeed())
			Expect(session.HasClubRole("rowing", authz.RoleOwner)).To(BeTrue())
			Expect(session.HasClubRole("sailing", authz.RoleStaff)).To(BeFalse())
		})

		It("resets the session when the account disappears", func() {
			backend.removeAccount("id-chair")

			err := session.Refresh(ctx)
			Expect(err).To(MatchError(auth.ErrNotFound))
			Expect(session.State()).To(Equal(auth.StateUnauthenticated))
		})
	})

	Describe("logout", func() {
		It("returns the session to a reusable clean state", func() {
			Expect(session.Login(ctx, auth.Credentials{Email: "chair@club.test", Password: "open sesame"})).To(Succeed())
			session.Logout()

			Expect(session.State()).To(Equal(auth.StateUnauthenticated))
			Expect(session.LastError()).NotTo(HaveOccurred())
			Expect(session.HasClubRole("rowing", authz.RoleStaff)).To(BeFalse())

			Expect(session.Login(ctx, auth.Credentials{Email: "chair@club.test", Password: "open sesame"})).To(Succeed())
			Expect(session.State()).To(Equal(auth.StateAuthenticated))
		})
	})

	Describe("super admin", func() {
		It("bypasses club scoping entirely", func() {
			backend.addAccount("id-root", "root@club.test", "root pw",
				auth.Profile{DisplayName: "Root", SystemRole: auth.SystemRoleSuperAdmin, SuperAdmin: true}, nil)

			Expect(session.Login(ctx, auth.Credentials{Email: "root@club.test", Password: "root pw"})).To(Succeed())
			Expect(session.IsSuperAdmin()).To(BeTrue())
			Expect(session.HasClubRole("any-club", authz.RoleOwner)).To(BeTrue())
			Expect(session.Allows("any-club", "anything.at.all")).To(BeTrue())
		})
	})
})
