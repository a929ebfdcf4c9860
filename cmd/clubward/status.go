// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DatabaseStatus is the status report for the backing database.
type DatabaseStatus struct {
	Reachable         bool   `yaml:"reachable"`
	MigrationVersion  uint   `yaml:"migration_version"`
	MigrationDirty    bool   `yaml:"migration_dirty"`
	PendingMigrations int    `yaml:"pending_migrations"`
	Error             string `yaml:"error,omitempty"`
}

// statusConfig holds configuration for the status subcommand.
type statusConfig struct {
	yamlOutput bool
	timeout    time.Duration
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database reachability and migration state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg, nil)
		},
	}

	cmd.Flags().BoolVar(&cfg.yamlOutput, "yaml", false, "output status as YAML")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 10*time.Second, "timeout for database checks")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg *statusConfig, deps *Deps) error {
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

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	status := collectDatabaseStatus(ctx, databaseURL, deps)

	if cfg.yamlOutput {
		out, err := yaml.Marshal(status)
		if err != nil {
			return err
		}
		cmd.Print(string(out))
		return nil
	}

	cmd.Println(formatStatusText(status))
	return nil
}

func collectDatabaseStatus(ctx context.Context, databaseURL string, deps *Deps) DatabaseStatus {
	var status DatabaseStatus

	if err := deps.PingDatabase(ctx, databaseURL); err != nil {
		status.Error = err.Error()
		return status
	}
	status.Reachable = true

	migrator, err := deps.NewMigrator(databaseURL)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer migrator.Close() //nolint:errcheck // status is best-effort

	version, dirty, err := migrator.Version()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.MigrationVersion = version
	status.MigrationDirty = dirty

	pending, err := migrator.PendingMigrations()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.PendingMigrations = len(pending)
	return status
}

func formatStatusText(status DatabaseStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "database reachable: %v\n", status.Reachable)
	if status.Reachable {
		fmt.Fprintf(&b, "migration version:  %d", status.MigrationVersion)
		if status.MigrationDirty {
			b.WriteString(" (dirty)")
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "pending migrations: %d", status.PendingMigrations)
	}
	if status.Error != "" {
		fmt.Fprintf(&b, "\nerror: %s", status.Error)
	}
	return b.String()
}
