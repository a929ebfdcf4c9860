// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/clubward/clubward/internal/auth"
	"github.com/clubward/clubward/internal/config"
	"github.com/clubward/clubward/internal/logging"
	"github.com/clubward/clubward/internal/observability"
	"github.com/clubward/clubward/internal/provision"
	"github.com/clubward/clubward/internal/store"
)

// Migrator wraps the methods the CLI uses from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, err error)
	PendingMigrations() ([]uint, error)
	Close() error
}

// Provisioner wraps the methods the CLI uses from provision.Service.
type Provisioner interface {
	CreateAccount(ctx context.Context, req provision.AccountRequest) provision.AccountResult
}

// ObservabilityServer wraps the methods the CLI uses from
// observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// Deps contains injectable dependencies for the CLI commands. Nil fields
// use the default implementations.
type Deps struct {
	// LoadConfig loads the configuration after schema validation.
	// Default: validateAndLoadConfig.
	LoadConfig func(path string, flags *pflag.FlagSet) (*config.Config, error)

	// NewMigrator creates a schema migrator for a database URL.
	// Default: store.NewMigrator.
	NewMigrator func(databaseURL string) (Migrator, error)

	// NewProvisioner creates a provisioning service bound to a database
	// URL, returning a cleanup func that releases the pool.
	// Default: newPostgresProvisioner.
	NewProvisioner func(ctx context.Context, databaseURL string) (Provisioner, func(), error)

	// PingDatabase verifies database reachability.
	// Default: pingDatabase.
	PingDatabase func(ctx context.Context, databaseURL string) error

	// NewObservabilityServer creates the metrics/health server started
	// while a command runs with a non-empty metrics address.
	// Default: observability.NewServer.
	NewObservabilityServer func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer
}

func (d *Deps) applyDefaults() {
	if d.LoadConfig == nil {
		d.LoadConfig = validateAndLoadConfig
	}
	if d.NewMigrator == nil {
		d.NewMigrator = func(databaseURL string) (Migrator, error) {
			return store.NewMigrator(databaseURL)
		}
	}
	if d.NewProvisioner == nil {
		d.NewProvisioner = newPostgresProvisioner
	}
	if d.PingDatabase == nil {
		d.PingDatabase = pingDatabase
	}
	if d.NewObservabilityServer == nil {
		d.NewObservabilityServer = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
}

// startMetricsServer starts the observability server when the config
// carries a metrics address, returning a stop func. A disabled (empty)
// address returns a no-op stop.
func startMetricsServer(conf *config.Config, deps *Deps) (func(ctx context.Context), error) {
	addr := conf.Observability.MetricsAddr
	if addr == "" {
		return func(context.Context) {}, nil
	}

	srv := deps.NewObservabilityServer(addr, func() bool { return true })
	if _, err := srv.Start(); err != nil {
		return nil, err
	}
	return func(ctx context.Context) {
		if err := srv.Stop(ctx); err != nil {
			slog.Warn("metrics server shutdown failed", "error", err)
		}
	}, nil
}

// validateAndLoadConfig runs schema validation on the config file before
// handing it to the loader, so shape errors surface with schema paths.
func validateAndLoadConfig(path string, flags *pflag.FlagSet) (*config.Config, error) {
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator's flag
		if err != nil {
			return nil, err
		}
		if err := config.ValidateSchema(data); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path, flags)
	if err != nil {
		return nil, err
	}
	if err := cfg.CheckVersion(version); err != nil {
		return nil, err
	}
	logging.SetDefault("clubward", version, logging.Options{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})
	return cfg, nil
}

func newPostgresProvisioner(ctx context.Context, databaseURL string) (Provisioner, func(), error) {
	pool, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	svc, err := provision.NewService(
		store.NewPostgresAccountRepository(pool),
		auth.NewArgon2idHasher(),
		nil,
	)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return svc, pool.Close, nil
}

func pingDatabase(ctx context.Context, databaseURL string) error {
	pool, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	pool.Close()
	return nil
}
