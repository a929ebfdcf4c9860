// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubward/clubward/internal/observability"
	"github.com/clubward/clubward/internal/provision"
)

// fakeProvisioner returns a scripted result and records the request.
type fakeProvisioner struct {
	result  provision.AccountResult
	request provision.AccountRequest
}

func (f *fakeProvisioner) CreateAccount(_ context.Context, req provision.AccountRequest) provision.AccountResult {
	f.request = req
	f.result.Request = req
	return f.result
}

// fakeObsServer records lifecycle calls instead of binding a port.
type fakeObsServer struct {
	addr     string
	started  bool
	stopped  bool
	startErr error
}

func (f *fakeObsServer) Start() (<-chan error, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.started = true
	ch := make(chan error)
	close(ch)
	return ch, nil
}

func (f *fakeObsServer) Stop(context.Context) error {
	f.stopped = true
	return nil
}

func (f *fakeObsServer) Addr() string { return f.addr }

func seedDeps(m *fakeMigrator, p *fakeProvisioner) *Deps {
	return seedDepsWithObs(m, p, &fakeObsServer{})
}

func seedDepsWithObs(m *fakeMigrator, p *fakeProvisioner, obs *fakeObsServer) *Deps {
	return &Deps{
		LoadConfig:  staticConfig(dbConfig()),
		NewMigrator: func(string) (Migrator, error) { return m, nil },
		NewProvisioner: func(context.Context, string) (Provisioner, func(), error) {
			return p, func() {}, nil
		},
		NewObservabilityServer: func(addr string, _ observability.ReadinessChecker) ObservabilityServer {
			obs.addr = addr
			return obs
		},
	}
}

func newSeedTestCmd(cfg *seedConfig, deps *Deps) *cobra.Command {
	if cfg.timeout == 0 {
		cfg.timeout = time.Second
	}
	return &cobra.Command{
		Use: "seed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, cfg, deps)
		},
	}
}

func TestRunSeed(t *testing.T) {
	t.Run("creates super admin and prints password once", func(t *testing.T) {
		accountID := ulid.Make()
		p := &fakeProvisioner{result: provision.AccountResult{
			AccountID:      accountID,
			TempPassword:   "ClubAdmin4821!",
			Classification: provision.Classify(provision.SuccessOutcome("row"), "seed"),
		}}
		m := &fakeMigrator{}

		out, err := execute(t, newSeedTestCmd(&seedConfig{email: "root@club.test", displayName: "Root"}, seedDeps(m, p)))
		require.NoError(t, err)

		assert.True(t, m.upCalled, "seed runs migrations first")
		assert.Equal(t, "root@club.test", p.request.Email)
		assert.True(t, p.request.SuperAdmin)
		assert.Contains(t, out, accountID.String())
		assert.Contains(t, out, "ClubAdmin4821!")
	})

	t.Run("duplicate super admin is idempotent success", func(t *testing.T) {
		p := &fakeProvisioner{result: provision.AccountResult{
			Classification: provision.Classify(provision.StorageOutcome{
				HasError:  true,
				ErrorCode: "23505",
			}, "seed"),
		}}

		out, err := execute(t, newSeedTestCmd(&seedConfig{email: "root@club.test"}, seedDeps(&fakeMigrator{}, p)))
		require.NoError(t, err)
		assert.Contains(t, out, "already exists")
	})

	t.Run("other storage failure is an error", func(t *testing.T) {
		p := &fakeProvisioner{result: provision.AccountResult{
			Classification: provision.Classify(provision.StorageOutcome{
				HasError:  true,
				ErrorCode: "23503",
			}, "seed"),
		}}

		_, err := execute(t, newSeedTestCmd(&seedConfig{email: "root@club.test"}, seedDeps(&fakeMigrator{}, p)))
		require.Error(t, err)
	})

	t.Run("validation failure propagates", func(t *testing.T) {
		p := &fakeProvisioner{result: provision.AccountResult{
			Err: errors.New("valid email is required"),
		}}

		_, err := execute(t, newSeedTestCmd(&seedConfig{email: "nope"}, seedDeps(&fakeMigrator{}, p)))
		require.Error(t, err)
	})

	t.Run("starts and stops the metrics server", func(t *testing.T) {
		p := &fakeProvisioner{result: provision.AccountResult{
			Classification: provision.Classify(provision.SuccessOutcome("row"), "seed"),
		}}
		obs := &fakeObsServer{}

		_, err := execute(t, newSeedTestCmd(&seedConfig{email: "root@club.test"}, seedDepsWithObs(&fakeMigrator{}, p, obs)))
		require.NoError(t, err)

		assert.Equal(t, dbConfig().Observability.MetricsAddr, obs.addr)
		assert.True(t, obs.started)
		assert.True(t, obs.stopped)
	})

	t.Run("empty metrics address disables the server", func(t *testing.T) {
		p := &fakeProvisioner{result: provision.AccountResult{
			Classification: provision.Classify(provision.SuccessOutcome("row"), "seed"),
		}}
		obs := &fakeObsServer{}
		deps := seedDepsWithObs(&fakeMigrator{}, p, obs)
		conf := dbConfig()
		conf.Observability.MetricsAddr = ""
		deps.LoadConfig = staticConfig(conf)

		_, err := execute(t, newSeedTestCmd(&seedConfig{email: "root@club.test"}, deps))
		require.NoError(t, err)
		assert.False(t, obs.started)
	})

	t.Run("metrics server failure aborts the run", func(t *testing.T) {
		p := &fakeProvisioner{}
		obs := &fakeObsServer{startErr: errors.New("address in use")}

		_, err := execute(t, newSeedTestCmd(&seedConfig{email: "root@club.test"}, seedDepsWithObs(&fakeMigrator{}, p, obs)))
		require.Error(t, err)
		assert.Empty(t, p.request.Email)
	})

	t.Run("migration failure aborts before provisioning", func(t *testing.T) {
		p := &fakeProvisioner{}
		m := &fakeMigrator{upErr: errors.New("dirty schema")}

		_, err := execute(t, newSeedTestCmd(&seedConfig{email: "root@club.test"}, seedDeps(m, p)))
		require.Error(t, err)
		assert.Empty(t, p.request.Email)
	})
}
