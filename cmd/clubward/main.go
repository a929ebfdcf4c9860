// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

// Package main is the entry point for the clubward CLI.
package main

import (
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
