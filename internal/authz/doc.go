// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

// Package authz provides authorization for Clubward.
//
// # Role Hierarchy
//
// Club-scoped roles form a strict total order:
//
//	staff < supervisor < manager < owner
//
// A role satisfies a requirement when its rank is at least the required
// rank. Role strings entering the system from external snapshots must be
// validated with ParseRole; the rest of the package assumes validated
// roles.
//
// # Resolver
//
// Resolver answers authorization queries against an immutable snapshot of
// a principal's profile and club memberships. Queries are total: they
// return false rather than an error for unauthenticated principals or
// unknown clubs, so callers never need defensive fallback logic.
package authz
