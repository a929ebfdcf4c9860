// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubward/clubward/internal/auth"
	"github.com/clubward/clubward/internal/authz"
	"github.com/clubward/clubward/pkg/errutil"
)

func TestPostgresProfileRepository_LoadProfileAndMemberships(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("loads profile with memberships", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT display_name, system_role, super_admin, created_at, updated_at`).
			WithArgs("id-1").
			WillReturnRows(pgxmock.NewRows([]string{"display_name", "system_role", "super_admin", "created_at", "updated_at"}).
				AddRow("Chair", "club_admin", false, now, now))
		mock.ExpectQuery(`SELECT club_id, role, active, permissions`).
			WithArgs("id-1").
			WillReturnRows(pgxmock.NewRows([]string{"club_id", "role", "active", "permissions"}).
				AddRow("club-1", "manager", true, map[string]bool{"roster.*": true}).
				AddRow("club-2", "staff", false, map[string]bool(nil)))

		repo := NewPostgresProfileRepository(mock)
		profile, memberships, err := repo.LoadProfileAndMemberships(ctx, "id-1")
		require.NoError(t, err)

		assert.Equal(t, "Chair", profile.DisplayName)
		assert.Equal(t, auth.SystemRoleClubAdmin, profile.SystemRole)
		require.Len(t, memberships, 2)
		assert.Equal(t, authz.RoleManager, memberships[0].Role)
		assert.False(t, memberships[1].Active)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing profile maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT display_name, system_role, super_admin, created_at, updated_at`).
			WithArgs("gone").
			WillReturnRows(pgxmock.NewRows([]string{"display_name", "system_role", "super_admin", "created_at", "updated_at"}))

		repo := NewPostgresProfileRepository(mock)
		_, _, err = repo.LoadProfileAndMemberships(ctx, "gone")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNotFound)
		errutil.AssertErrorCode(t, err, "PROFILE_NOT_FOUND")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure is not ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT display_name, system_role, super_admin, created_at, updated_at`).
			WithArgs("id-1").
			WillReturnError(errors.New("connection reset"))

		repo := NewPostgresProfileRepository(mock)
		_, _, err = repo.LoadProfileAndMemberships(ctx, "id-1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrNotFound)
		errutil.AssertErrorCode(t, err, "PROFILE_LOAD_FAILED")
	})

	t.Run("corrupt role in membership row fails loudly", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT display_name, system_role, super_admin, created_at, updated_at`).
			WithArgs("id-1").
			WillReturnRows(pgxmock.NewRows([]string{"display_name", "system_role", "super_admin", "created_at", "updated_at"}).
				AddRow("Chair", "club_admin", false, now, now))
		mock.ExpectQuery(`SELECT club_id, role, active, permissions`).
			WithArgs("id-1").
			WillReturnRows(pgxmock.NewRows([]string{"club_id", "role", "active", "permissions"}).
				AddRow("club-1", "janitor", true, map[string]bool(nil)))

		repo := NewPostgresProfileRepository(mock)
		_, _, err = repo.LoadProfileAndMemberships(ctx, "id-1")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "MEMBERSHIP_CORRUPT")
	})
}
