// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

// Package errutil provides helpers for logging and testing structured
// errors built with samber/oops.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs an error with structured context if it is an oops error:
// message, code, and attached context. Standard errors log their string.
func LogError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{
			"error", oopsErr.Error(),
		}
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Error(msg, attrs...)
	} else {
		logger.Error(msg, "error", err)
	}
}

// ErrorCode extracts the oops error code, or "" for nil and plain errors.
// Useful for labeling metrics and log lines without unwrapping by hand.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	if code := oopsErr.Code(); code != nil {
		if s, ok := code.(string); ok {
			return s
		}
	}
	return ""
}
