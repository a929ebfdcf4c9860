// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package provision

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// StorageOutcome is the narrow shape the core consumes from a persistence
// attempt. The storage collaborator owns the wider result; only these
// fields participate in classification.
type StorageOutcome struct {
	HasError     bool
	ErrorCode    string
	ErrorMessage string
	HasData      bool
	Data         any
}

// SuccessOutcome builds the outcome for a write that returned data.
func SuccessOutcome(data any) StorageOutcome {
	return StorageOutcome{HasData: data != nil, Data: data}
}

// OutcomeFromError builds a StorageOutcome from a raw storage error.
// Postgres errors contribute their SQLSTATE code; context deadline errors
// surface as a timeout-flavored message so classification can route them.
// A nil error with data yields a success outcome.
func OutcomeFromError(err error, data any) StorageOutcome {
	if err == nil {
		return SuccessOutcome(data)
	}

	outcome := StorageOutcome{
		HasError:     true,
		ErrorMessage: err.Error(),
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		outcome.ErrorCode = pgErr.Code
		outcome.ErrorMessage = pgErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		outcome.ErrorMessage = "operation timeout: " + err.Error()
	}
	return outcome
}
