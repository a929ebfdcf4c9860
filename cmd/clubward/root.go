// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the clubward CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clubward",
		Short: "Clubward - multi-tenant club administration core",
		Long: `Clubward manages club administration accounts: role-scoped
authorization, credential provisioning, and the PostgreSQL schema
behind them.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
