// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package store

import (
	"embed"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Register pgx/v5 database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/samber/oops"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrateIface is the slice of golang-migrate the Migrator drives,
// abstracted so migration plumbing can be tested without a database.
type migrateIface interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, err error)
	Close() (source error, database error)
}

// Migrator manages the clubward schema: the clubs, profiles, and
// memberships tables defined by the embedded migrations.
type Migrator struct {
	m migrateIface
}

// NewMigrator creates a Migrator for a PostgreSQL connection string.
func NewMigrator(databaseURL string) (*Migrator, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, oops.In("store").
			Code("MIGRATION_SOURCE_FAILED").
			Wrapf(err, "open embedded migrations")
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateURL(databaseURL))
	if err != nil {
		_ = source.Close() //nolint:errcheck // init error takes precedence
		return nil, oops.In("store").
			Code("MIGRATION_INIT_FAILED").
			Wrapf(err, "initialize migrator")
	}

	return &Migrator{m: m}, nil
}

// migrateURL rewrites postgres:// and postgresql:// schemes to pgx5://
// so golang-migrate selects its pgx/v5 driver instead of lib/pq.
func migrateURL(databaseURL string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(databaseURL, scheme); found {
			return "pgx5://" + rest
		}
	}
	return databaseURL
}

// Up applies all pending migrations. An already up-to-date schema is not
// an error.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return oops.In("store").Code("MIGRATION_UP_FAILED").Wrap(err)
	}
	return nil
}

// Down rolls the schema back to version 0, dropping every clubward table
// and its data.
func (m *Migrator) Down() error {
	if err := m.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return oops.In("store").Code("MIGRATION_DOWN_FAILED").Wrap(err)
	}
	return nil
}

// Version returns the current migration version and dirty state. A dirty
// schema means a migration failed partway and needs manual repair. An
// empty schema reports version 0, clean.
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = m.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, false, nil
	case err != nil:
		return 0, false, oops.In("store").Code("MIGRATION_VERSION_FAILED").Wrap(err)
	}
	return version, dirty, nil
}

// Close releases the source and database handles.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	err := errors.Join(srcErr, dbErr)
	if err != nil {
		return oops.In("store").Code("MIGRATION_CLOSE_FAILED").Wrap(err)
	}
	return nil
}

// PendingMigrations returns the versions Up would apply, ascending.
func (m *Migrator) PendingMigrations() ([]uint, error) {
	current, _, err := m.Version()
	if err != nil {
		return nil, err
	}

	available, err := embeddedVersions()
	if err != nil {
		return nil, err
	}

	var pending []uint
	for _, v := range available {
		if v > current {
			pending = append(pending, v)
		}
	}
	return pending, nil
}

// embeddedVersions lists the migration versions baked into the binary,
// ascending. Migration files are named NNNNNN_description.{up,down}.sql.
func embeddedVersions() ([]uint, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, oops.In("store").Code("MIGRATION_LIST_FAILED").Wrap(err)
	}

	seen := make(map[uint]struct{})
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".up.sql")
		if !ok {
			continue
		}
		prefix, _, _ := strings.Cut(name, "_")
		v, err := strconv.ParseUint(prefix, 10, 32)
		if err != nil {
			continue
		}
		seen[uint(v)] = struct{}{}
	}

	versions := make([]uint, 0, len(seen))
	for v := range seen {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions, nil
}
