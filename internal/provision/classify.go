// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package provision

import (
	"strings"

	"github.com/jackc/pgerrcode"
)

// Category is a classified storage failure (or success) bucket.
type Category string

// The closed classification taxonomy. Unmatched errors always land in
// CategoryUnknown rather than passing through unclassified.
const (
	CategorySuccess             Category = "success"
	CategoryNoData              Category = "no_data"
	CategoryNumericOverflow     Category = "numeric_overflow"
	CategoryUniqueViolation     Category = "unique_violation"
	CategoryForeignKeyViolation Category = "foreign_key_violation"
	CategoryPermissionDenied    Category = "permission_denied"
	CategoryTimeout             Category = "timeout"
	CategoryUnknown             Category = "unknown"
)

// Classification is the classifier's output: the category, a remediation
// suggestion for the operator, and the raw outcome for diagnostics.
type Classification struct {
	Operation  string
	Category   Category
	Suggestion string
	Outcome    StorageOutcome
}

// OK reports whether the outcome was a success.
func (c Classification) OK() bool {
	return c.Category == CategorySuccess
}

// Retryable reports whether the failure is transient enough that the same
// write may be attempted again.
func (c Classification) Retryable() bool {
	return c.Category == CategoryTimeout
}

// codeCategories maps explicit SQLSTATE signals to categories. The table
// is the extension point: new storage signals get a row here, not a new
// branch in Classify.
var codeCategories = map[string]Category{
	pgerrcode.NumericValueOutOfRange: CategoryNumericOverflow,
	pgerrcode.UniqueViolation:        CategoryUniqueViolation,
	pgerrcode.ForeignKeyViolation:    CategoryForeignKeyViolation,
	pgerrcode.InsufficientPrivilege:  CategoryPermissionDenied,
	pgerrcode.QueryCanceled:          CategoryTimeout,
}

// messageCategories maps substrings of the error message to categories.
// Consulted only when no SQLSTATE signal matched.
var messageCategories = []struct {
	needle   string
	category Category
}{
	{"permission", CategoryPermissionDenied},
	{"timeout", CategoryTimeout},
}

var suggestions = map[Category]string{
	CategorySuccess:             "",
	CategoryNoData:              "The operation produced no data; verify it actually executed.",
	CategoryNumericOverflow:     "A bounded numeric field was exceeded; check amount-style inputs against column limits.",
	CategoryUniqueViolation:     "A unique value already exists (for example the email address); use a different value.",
	CategoryForeignKeyViolation: "A referenced record does not exist; create the parent record first.",
	CategoryPermissionDenied:    "The storage access policy rejected the operation; review the caller's grants.",
	CategoryTimeout:             "The operation timed out; this is transient and safe to retry.",
	CategoryUnknown:             "Unexpected storage failure; inspect the raw error and the database server logs.",
}

// Classify maps a storage outcome to its category. It is deterministic and
// total: every outcome classifies, and anything carrying an error that
// matches no signal is CategoryUnknown.
func Classify(outcome StorageOutcome, operation string) Classification {
	category := classify(outcome)
	return Classification{
		Operation:  operation,
		Category:   category,
		Suggestion: suggestions[category],
		Outcome:    outcome,
	}
}

func classify(outcome StorageOutcome) Category {
	if !outcome.HasError {
		if outcome.HasData {
			return CategorySuccess
		}
		return CategoryNoData
	}

	if category, ok := codeCategories[outcome.ErrorCode]; ok {
		return category
	}

	message := strings.ToLower(outcome.ErrorMessage)
	for _, rule := range messageCategories {
		if strings.Contains(message, rule.needle) {
			return rule.category
		}
	}
	return CategoryUnknown
}
