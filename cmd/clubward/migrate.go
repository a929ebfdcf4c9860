// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package main

import (
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/clubward/clubward/internal/config"
)

// migrateConfig holds configuration for the migrate subcommand.
type migrateConfig struct {
	down bool
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cfg := &migrateConfig{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending database migrations against the PostgreSQL database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, cfg, nil)
		},
	}

	cmd.Flags().BoolVar(&cfg.down, "down", false, "roll back all migrations instead of applying them")

	return cmd
}

func runMigrate(cmd *cobra.Command, cfg *migrateConfig, deps *Deps) error {
	if deps == nil {
		deps = &Deps{}
	}
	deps.applyDefaults()

	conf, err := deps.LoadConfig(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	databaseURL, err := resolveDatabaseURL(conf)
	if err != nil {
		return err
	}

	migrator, err := deps.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck // close error is secondary to migration outcome

	if cfg.down {
		cmd.Println("Rolling back all migrations...")
		if err := migrator.Down(); err != nil {
			return err
		}
		cmd.Println("Rollback completed")
		return nil
	}

	pending, err := migrator.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		cmd.Println("Database is up to date")
		return nil
	}

	cmd.Printf("Applying %d pending migration(s)...\n", len(pending))
	if err := migrator.Up(); err != nil {
		return err
	}
	cmd.Println("Migrations completed successfully")
	return nil
}

// resolveDatabaseURL prefers the config file, falling back to the
// DATABASE_URL environment variable.
func resolveDatabaseURL(conf *config.Config) (string, error) {
	if conf.Database.URL != "" {
		return conf.Database.URL, nil
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}
	return "", oops.Code("CONFIG_INVALID").Errorf("database.url or DATABASE_URL is required")
}
