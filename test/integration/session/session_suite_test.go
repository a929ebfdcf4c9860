// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

//go:build integration

// Package session_test exercises the full login/refresh/logout lifecycle
// against an in-memory identity backend.
package session_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

func TestSessionLifecycle(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Session Lifecycle Suite")
}
