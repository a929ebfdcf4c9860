// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package store

import (
	"context"

	"github.com/clubward/clubward/internal/provision"
)

// PostgresAccountRepository persists provisioned accounts. It implements
// provision.AccountStore, reporting storage outcomes rather than bare
// errors so the provisioning classifier sees the raw SQLSTATE signals.
type PostgresAccountRepository struct {
	pool txPoolIface
}

// NewPostgresAccountRepository creates a new PostgreSQL account repository.
func NewPostgresAccountRepository(pool txPoolIface) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// CreateAccount inserts the profile row and, when the account carries an
// initial membership, the membership row, atomically. The returned
// outcome carries the inserted account id on success and the storage
// error signals on failure.
func (r *PostgresAccountRepository) CreateAccount(ctx context.Context, account *provision.NewAccount) provision.StorageOutcome {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return provision.OutcomeFromError(err, nil)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (id, email, display_name, system_role, super_admin, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`, account.ID.String(), account.Email, account.DisplayName,
		string(account.SystemRole), account.SuperAdmin, account.PasswordHash, account.CreatedAt)
	if err != nil {
		return provision.OutcomeFromError(err, nil)
	}

	if account.ClubID != "" {
		_, err = tx.Exec(ctx, `
			INSERT INTO memberships (profile_id, club_id, role, active, permissions)
			VALUES ($1, $2, $3, TRUE, '{}'::jsonb)
		`, account.ID.String(), account.ClubID, string(account.Role))
		if err != nil {
			return provision.OutcomeFromError(err, nil)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return provision.OutcomeFromError(err, nil)
	}
	return provision.SuccessOutcome(account.ID.String())
}
