// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

// Package provision creates Clubward accounts and turns raw storage
// failures into actionable classifications.
//
// Storage writes report a StorageOutcome, a narrow view of a persistence
// attempt. Classify maps an outcome into a closed taxonomy (unique
// violation, foreign key violation, numeric overflow, permission denied,
// timeout, no data, unknown) with a remediation suggestion. Failures are
// values, never panics, so batch provisioning continues past individual
// accounts that fail.
package provision
