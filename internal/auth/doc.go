// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

// Package auth owns the authenticated-principal lifecycle for Clubward.
//
// # Session
//
// Session is the mutable aggregate the surrounding application reads. It
// moves between three states:
//
//	Unauthenticated -> Authenticating -> Authenticated
//	                                  -> Unauthenticated (with last error)
//
// Login, Logout, and Refresh are the only mutations and are serialized; a
// second Login or Refresh while an attempt is in flight fails immediately
// with ErrBusy rather than queueing. Authorization queries (IsSuperAdmin,
// HasClubRole) are total and read a consistent snapshot concurrently with
// each other.
//
// # Collaborators
//
// An external Authenticator verifies credentials and produces an Identity;
// a ProfileStore supplies the profile and membership snapshot. Both are
// injected; this package performs no credential verification and no token
// handling of its own. Timeouts and cancellation of the external calls
// belong to the collaborator's context; failures surface here as ordinary
// error values.
//
// Domain values entering from external snapshots go through constructors
// (NewMembership) which validate role enumerations at the boundary.
package auth
