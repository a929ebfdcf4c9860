// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package auth

import (
	"strings"
	"time"

	"github.com/samber/oops"
)

// Identity is the opaque principal established by the external
// authenticator: an id and a verified email. Immutable for the lifetime
// of a session.
type Identity struct {
	ID    string
	Email string
}

// SystemRole is a principal's system-level role, distinct from the
// club-scoped roles held through memberships.
type SystemRole string

// System-level roles.
const (
	SystemRoleSuperAdmin SystemRole = "super_admin"
	SystemRoleClubAdmin  SystemRole = "club_admin"
)

// Valid reports whether the system role is one of the known values.
func (r SystemRole) Valid() bool {
	return r == SystemRoleSuperAdmin || r == SystemRoleClubAdmin
}

// Profile holds a principal's extended attributes. Profiles are mutated
// only by provisioning and update flows outside this package; here they
// are read-only.
type Profile struct {
	DisplayName string
	SystemRole  SystemRole
	SuperAdmin  bool
	Preferences map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProfile validates a profile snapshot at the boundary where external
// data enters the core.
func NewProfile(displayName string, systemRole string, superAdmin bool, prefs map[string]any, createdAt, updatedAt time.Time) (Profile, error) {
	role := SystemRole(strings.ToLower(strings.TrimSpace(systemRole)))
	if !role.Valid() {
		return Profile{}, oops.In("auth").
			Code("AUTH_INVALID_SYSTEM_ROLE").
			With("system_role", systemRole).
			Errorf("unknown system role %q", systemRole)
	}
	return Profile{
		DisplayName: strings.TrimSpace(displayName),
		SystemRole:  role,
		SuperAdmin:  superAdmin,
		Preferences: prefs,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}
