// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package store

import (
	"context"

	"github.com/samber/oops"
)

// PostgresClubRepository manages club rows, the parent records club-scoped
// memberships reference.
type PostgresClubRepository struct {
	pool poolIface
}

// NewPostgresClubRepository creates a new PostgreSQL club repository.
func NewPostgresClubRepository(pool poolIface) *PostgresClubRepository {
	return &PostgresClubRepository{pool: pool}
}

// EnsureClub creates the club if it does not exist. Existing clubs are
// left untouched, including their name.
func (r *PostgresClubRepository) EnsureClub(ctx context.Context, id, name string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clubs (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, id, name)
	if err != nil {
		return oops.In("store").
			Code("CLUB_ENSURE_FAILED").
			With("club_id", id).
			Wrap(err)
	}
	return nil
}

// ClubCount returns the number of clubs. Used by the status command as a
// cheap end-to-end read probe.
func (r *PostgresClubRepository) ClubCount(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clubs`).Scan(&count)
	if err != nil {
		return 0, oops.In("store").
			Code("CLUB_COUNT_FAILED").
			Wrap(err)
	}
	return count, nil
}
