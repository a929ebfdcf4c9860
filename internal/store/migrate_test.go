// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package store

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubward/clubward/pkg/errutil"
)

// mockMigrate implements migrateIface for testing.
type mockMigrate struct {
	upErr          error
	downErr        error
	versionVal     uint
	versionErr     error
	dirty          bool
	closeSourceErr error
	closeDbErr     error
}

func (m *mockMigrate) Up() error                    { return m.upErr }
func (m *mockMigrate) Down() error                  { return m.downErr }
func (m *mockMigrate) Version() (uint, bool, error) { return m.versionVal, m.dirty, m.versionErr }
func (m *mockMigrate) Close() (error, error)        { return m.closeSourceErr, m.closeDbErr }

func TestNewMigrator_InvalidURL(t *testing.T) {
	_, err := NewMigrator("invalid://url")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
}

// postgresql:// must be rewritten to pgx5:// so golang-migrate picks the
// pgx/v5 driver; the failure we get is a connection error, never an
// unknown-driver error.
func TestNewMigrator_PostgresqlScheme(t *testing.T) {
	_, err := NewMigrator("postgresql://localhost:1/clubward")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "unknown driver")
}

func TestMigrator_Up(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{}}
		require.NoError(t, m.Up())
	})

	t.Run("no change is success", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{upErr: migrate.ErrNoChange}}
		require.NoError(t, m.Up())
	})

	t.Run("failure", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{upErr: errors.New("database locked")}}
		err := m.Up()
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "MIGRATION_UP_FAILED")
	})
}

func TestMigrator_Down(t *testing.T) {
	t.Run("no change is success", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{downErr: migrate.ErrNoChange}}
		require.NoError(t, m.Down())
	})

	t.Run("failure", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{downErr: errors.New("boom")}}
		err := m.Down()
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "MIGRATION_DOWN_FAILED")
	})
}

func TestMigrator_Version(t *testing.T) {
	t.Run("nil version means zero clean", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{versionErr: migrate.ErrNilVersion}}
		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Zero(t, version)
		assert.False(t, dirty)
	})

	t.Run("reports dirty state", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{versionVal: 2, dirty: true}}
		version, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), version)
		assert.True(t, dirty)
	})
}

func TestMigrator_Close(t *testing.T) {
	t.Run("both errors combined", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{
			closeSourceErr: errors.New("src"),
			closeDbErr:     errors.New("db"),
		}}
		err := m.Close()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "src")
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("clean close", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{}}
		require.NoError(t, m.Close())
	})
}

func TestMigrator_PendingMigrations(t *testing.T) {
	t.Run("everything pending at version zero", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{versionErr: migrate.ErrNilVersion}}
		pending, err := m.PendingMigrations()
		require.NoError(t, err)
		assert.Equal(t, []uint{1}, pending)
	})

	t.Run("nothing pending at head", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{versionVal: 1}}
		pending, err := m.PendingMigrations()
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}

// The embedded migrations must pair up and down files for every version.
func TestMigrationsFS_PairedFiles(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := make(map[string]bool)
	downs := make(map[string]bool)
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case len(name) > 7 && name[len(name)-7:] == ".up.sql":
			ups[name[:len(name)-7]] = true
		case len(name) > 9 && name[len(name)-9:] == ".down.sql":
			downs[name[:len(name)-9]] = true
		default:
			t.Errorf("unexpected file in migrations: %s", name)
		}
	}
	assert.Equal(t, ups, downs, "every up migration needs a matching down")
}
