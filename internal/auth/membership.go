// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package auth

import (
	"log/slog"
	"strings"

	"github.com/samber/oops"

	"github.com/clubward/clubward/internal/authz"
)

// Membership is one (principal, club, role) relation from the snapshot a
// ProfileStore supplies. Role enumeration is validated in NewMembership;
// a Membership constructed there always carries a valid role.
type Membership struct {
	ClubID      string
	Role        authz.Role
	Active      bool
	Permissions map[string]bool
}

// NewMembership validates a raw membership record at the boundary.
// Unknown role tokens are rejected rather than propagated.
func NewMembership(clubID, role string, active bool, permissions map[string]bool) (Membership, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return Membership{}, oops.In("auth").
			Code("AUTH_INVALID_MEMBERSHIP").
			Errorf("membership club id cannot be empty")
	}
	parsed, err := authz.ParseRole(role)
	if err != nil {
		return Membership{}, err
	}
	return Membership{
		ClubID:      clubID,
		Role:        parsed,
		Active:      active,
		Permissions: permissions,
	}, nil
}

// resolverSnapshot converts memberships into the resolver's view,
// compiling permission maps. Memberships whose permission maps fail to
// compile keep their role but lose the overrides; the failure is reported
// through logger rather than denying the whole snapshot.
func resolverSnapshot(memberships []Membership, logger *slog.Logger) []authz.ClubMembership {
	out := make([]authz.ClubMembership, 0, len(memberships))
	for _, m := range memberships {
		perms, err := authz.CompilePermissions(m.Permissions)
		if err != nil {
			logger.Warn("invalid membership permission map",
				"club_id", m.ClubID,
				"error", err)
			perms = nil
		}
		out = append(out, authz.ClubMembership{
			ClubID:      m.ClubID,
			Role:        m.Role,
			Active:      m.Active,
			Permissions: perms,
		})
	}
	return out
}
