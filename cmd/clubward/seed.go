// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/clubward/clubward/internal/credential"
	"github.com/clubward/clubward/internal/observability"
	"github.com/clubward/clubward/internal/provision"
	"github.com/clubward/clubward/pkg/errutil"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed subcommand.
type seedConfig struct {
	email       string
	displayName string
	timeout     time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Bootstrap the initial super-admin account",
		Long: `Creates the initial super-admin account with a generated temporary
password, printed once for delivery. Running seed against an already
seeded database reports the existing account and changes nothing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, cfg, nil)
		},
	}

	cmd.Flags().StringVar(&cfg.email, "email", "admin@clubward.local", "email for the bootstrap super-admin")
	cmd.Flags().StringVar(&cfg.displayName, "display-name", "Bootstrap Admin", "display name for the bootstrap super-admin")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, cfg *seedConfig, deps *Deps) error {
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

	stopMetrics, err := startMetricsServer(conf, deps)
	if err != nil {
		return err
	}
	defer stopMetrics(ctx)

	cmd.Println("Running migrations...")
	migrator, err := deps.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close() //nolint:errcheck // migration error takes precedence
		return err
	}
	if err := migrator.Close(); err != nil {
		return err
	}

	provisioner, cleanup, err := deps.NewProvisioner(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer cleanup()

	result := provisioner.CreateAccount(ctx, provision.AccountRequest{
		Email:       cfg.email,
		DisplayName: cfg.displayName,
		Kind:        credential.AccountAdmin,
		SuperAdmin:  true,
	})
	if result.Err != nil {
		errutil.LogError(slog.Default(), "seed provisioning failed", result.Err)
		return result.Err
	}
	if !result.Classification.OK() {
		observability.RecordProvisionFailure(string(result.Classification.Category))

		// A duplicate super-admin means the database is already seeded;
		// that is the idempotent success path.
		if result.Classification.Category == provision.CategoryUniqueViolation {
			cmd.Println("Super-admin already exists, skipping seed")
			return nil
		}
		return oops.Code("SEED_FAILED").
			With("category", string(result.Classification.Category)).
			With("suggestion", result.Classification.Suggestion).
			Errorf("seed provisioning failed: %s", result.Classification.Suggestion)
	}

	cmd.Printf("Created super-admin account %s (%s)\n", cfg.email, result.AccountID.String())
	cmd.Println("Temporary password (shown once):", result.TempPassword)
	cmd.Println("Seeding complete")
	return nil
}
