// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/clubward/clubward/internal/auth"
)

// PostgresProfileRepository loads profile and membership snapshots for
// session establishment. It implements auth.ProfileStore.
type PostgresProfileRepository struct {
	pool poolIface
}

// NewPostgresProfileRepository creates a new PostgreSQL profile repository.
func NewPostgresProfileRepository(pool poolIface) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// LoadProfileAndMemberships fetches the profile row and all membership
// rows for an identity in one snapshot. A missing profile maps to
// auth.ErrNotFound so the session can distinguish "gone" from "down".
func (r *PostgresProfileRepository) LoadProfileAndMemberships(ctx context.Context, identityID string) (auth.Profile, []auth.Membership, error) {
	var (
		displayName string
		systemRole  string
		superAdmin  bool
		createdAt   time.Time
		updatedAt   time.Time
	)
	row := r.pool.QueryRow(ctx, `
		SELECT display_name, system_role, super_admin, created_at, updated_at
		FROM profiles WHERE id = $1
	`, identityID)

	err := row.Scan(&displayName, &systemRole, &superAdmin, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.Profile{}, nil, oops.In("store").
			Code("PROFILE_NOT_FOUND").
			With("identity_id", identityID).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return auth.Profile{}, nil, oops.In("store").
			Code("PROFILE_LOAD_FAILED").
			With("identity_id", identityID).
			Wrap(err)
	}

	profile, err := auth.NewProfile(displayName, systemRole, superAdmin, nil, createdAt, updatedAt)
	if err != nil {
		return auth.Profile{}, nil, oops.In("store").
			Code("PROFILE_CORRUPT").
			With("identity_id", identityID).
			Wrap(err)
	}

	memberships, err := r.loadMemberships(ctx, identityID)
	if err != nil {
		return auth.Profile{}, nil, err
	}
	return profile, memberships, nil
}

// permissions columns are JSONB; pgx decodes them into map[string]bool
// scan targets directly.

func (r *PostgresProfileRepository) loadMemberships(ctx context.Context, identityID string) ([]auth.Membership, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT club_id, role, active, permissions
		FROM memberships WHERE profile_id = $1
	`, identityID)
	if err != nil {
		return nil, oops.In("store").
			Code("MEMBERSHIPS_LOAD_FAILED").
			With("identity_id", identityID).
			Wrap(err)
	}
	defer rows.Close()

	var memberships []auth.Membership
	for rows.Next() {
		var (
			clubID      string
			role        string
			active      bool
			permissions map[string]bool
		)
		if err := rows.Scan(&clubID, &role, &active, &permissions); err != nil {
			return nil, oops.In("store").
				Code("MEMBERSHIPS_SCAN_FAILED").
				With("identity_id", identityID).
				Wrap(err)
		}
		m, err := auth.NewMembership(clubID, role, active, permissions)
		if err != nil {
			return nil, oops.In("store").
				Code("MEMBERSHIP_CORRUPT").
				With("identity_id", identityID).
				With("club_id", clubID).
				Wrap(err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.In("store").
			Code("MEMBERSHIPS_ITERATE_FAILED").
			With("identity_id", identityID).
			Wrap(err)
	}
	return memberships, nil
}
