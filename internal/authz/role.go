// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package authz

import (
	"strings"

	"github.com/samber/oops"
)

// Role is a club-scoped role held by a principal through a membership.
type Role string

// Club roles in ascending order of authority.
const (
	RoleStaff      Role = "staff"
	RoleSupervisor Role = "supervisor"
	RoleManager    Role = "manager"
	RoleOwner      Role = "owner"
)

// roleRanks assigns each role its position in the hierarchy.
// Zero means unknown.
var roleRanks = map[Role]int{
	RoleStaff:      1,
	RoleSupervisor: 2,
	RoleManager:    3,
	RoleOwner:      4,
}

// ParseRole validates a role token from an external snapshot.
// Tokens are matched case-insensitively after trimming whitespace.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleRanks[r]; !ok {
		return "", oops.In("authz").
			Code("AUTHZ_INVALID_ROLE").
			With("role", s).
			Errorf("unknown club role %q", s)
	}
	return r, nil
}

// Valid reports whether the role is a member of the hierarchy.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the role's position in the hierarchy (staff=1 .. owner=4).
// Unknown roles rank 0, below every valid role.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Satisfies reports whether r grants at least the authority of want.
// Both roles must be valid; passing an unvalidated token is a caller bug.
func (r Role) Satisfies(want Role) bool {
	return r.Valid() && want.Valid() && r.Rank() >= want.Rank()
}

// Satisfies checks the hierarchy with explicit validation, for callers
// holding raw role tokens that have not passed through ParseRole.
func Satisfies(have, want Role) (bool, error) {
	if !have.Valid() {
		return false, oops.In("authz").
			Code("AUTHZ_INVALID_ROLE").
			With("role", string(have)).
			Errorf("unknown club role %q", string(have))
	}
	if !want.Valid() {
		return false, oops.In("authz").
			Code("AUTHZ_INVALID_ROLE").
			With("role", string(want)).
			Errorf("unknown club role %q", string(want))
	}
	return have.Rank() >= want.Rank(), nil
}

// Roles returns the hierarchy in ascending rank order.
func Roles() []Role {
	return []Role{RoleStaff, RoleSupervisor, RoleManager, RoleOwner}
}
