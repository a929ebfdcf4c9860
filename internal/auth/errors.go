// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package auth

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBusy is returned when a login or refresh is attempted while
	// another attempt is already in flight. Callers should retry later.
	ErrBusy = errors.New("authentication attempt already in flight")

	// ErrNotAuthenticated is returned by operations that require an
	// authenticated session, such as Refresh.
	ErrNotAuthenticated = errors.New("not authenticated")
)
