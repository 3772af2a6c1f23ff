// Package shared holds the small vocabulary used across workflow
// packages.
package shared

// Status is the outcome discriminator carried by every API response.
type Status string

const (
	// StatusSuccess means the requested operation completed fully.
	StatusSuccess Status = "success"
	// StatusError means the primary operation failed; nothing was
	// applied, or the failure happened before any mutating call.
	StatusError Status = "error"
	// StatusPartial means a primary step succeeded but a dependent step
	// failed; an operator must finish the remainder manually.
	StatusPartial Status = "partial"
	// StatusSkipped means the idempotency guard short-circuited a
	// repeat invocation; not an error.
	StatusSkipped Status = "skipped"
	// StatusNotFound means no record matched the business reference.
	StatusNotFound Status = "not_found"
	// StatusFound is the affirmative preview outcome.
	StatusFound Status = "found"
)
