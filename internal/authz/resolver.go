// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package authz

import "log/slog"

// ClubMembership is the resolver's view of one membership row: the club it
// scopes, the validated role, whether it is active, and any compiled
// permission overrides.
type ClubMembership struct {
	ClubID      string
	Role        Role
	Active      bool
	Permissions *PermissionSet
}

// Resolver answers authorization queries against an immutable snapshot of a
// principal's profile flags and club memberships. Build a new Resolver
// whenever the snapshot changes; a Resolver itself is safe for concurrent
// use by any number of readers.
type Resolver struct {
	superAdmin bool
	roles      map[string]Role
	perms      map[string]*PermissionSet
}

// NewResolver builds a resolver from a membership snapshot.
//
// Upstream guarantees at most one active membership per club. When that
// invariant is violated the resolver keeps the highest-ranked role rather
// than failing: duplicates are an upstream data bug, not grounds to deny a
// role the principal legitimately holds. Each duplicate is reported through
// logger so the violation is visible.
func NewResolver(superAdmin bool, memberships []ClubMembership, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	roles := make(map[string]Role, len(memberships))
	perms := make(map[string]*PermissionSet, len(memberships))
	for _, m := range memberships {
		if !m.Active || m.ClubID == "" || !m.Role.Valid() {
			continue
		}
		existing, ok := roles[m.ClubID]
		if !ok {
			roles[m.ClubID] = m.Role
			perms[m.ClubID] = m.Permissions
			continue
		}
		logger.Warn("duplicate active membership for club",
			"club_id", m.ClubID,
			"kept_role", string(maxRole(existing, m.Role)),
			"dropped_role", string(minRole(existing, m.Role)))
		if m.Role.Rank() > existing.Rank() {
			roles[m.ClubID] = m.Role
			perms[m.ClubID] = m.Permissions
		}
	}

	return &Resolver{
		superAdmin: superAdmin,
		roles:      roles,
		perms:      perms,
	}
}

// IsSuperAdmin reports whether the principal bypasses club scoping.
func (r *Resolver) IsSuperAdmin() bool {
	if r == nil {
		return false
	}
	return r.superAdmin
}

// HasClubRole reports whether the principal may act with at least the
// required role on the given club. Super-admins satisfy every check.
// Unknown clubs and invalid required roles resolve to false, never an error.
func (r *Resolver) HasClubRole(clubID string, required Role) bool {
	if r == nil {
		return false
	}
	if r.superAdmin {
		return true
	}
	held, ok := r.roles[clubID]
	if !ok {
		return false
	}
	return held.Satisfies(required)
}

// ClubRole returns the highest active role the principal holds in a club.
func (r *Resolver) ClubRole(clubID string) (Role, bool) {
	if r == nil {
		return "", false
	}
	role, ok := r.roles[clubID]
	return role, ok
}

// Allows reports whether a membership-level permission override grants the
// given key in a club. Super-admins are always allowed. Principals without
// an active membership in the club, or without permission overrides, are
// denied here; role checks remain the primary authorization path.
func (r *Resolver) Allows(clubID, key string) bool {
	if r == nil {
		return false
	}
	if r.superAdmin {
		return true
	}
	set, ok := r.perms[clubID]
	if !ok || set == nil {
		return false
	}
	return set.Allows(key)
}

func maxRole(a, b Role) Role {
	if a.Rank() >= b.Rank() {
		return a
	}
	return b
}

func minRole(a, b Role) Role {
	if a.Rank() <= b.Rank() {
		return a
	}
	return b
}
