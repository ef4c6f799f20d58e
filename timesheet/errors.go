/*
errors.go - Centralized error types for the bridge core

PURPOSE:
  All failure signals the core produces, in one place. These are
  value-level signals, not crashes: the api layer maps them to wire
  error codes and the caller decides whether to retry by re-invoking
  the whole operation.

ERROR POLICY:
  Partial extraction is NOT an error - rows that fail to parse are
  silently dropped and the result set shrinks. Only a fully-empty
  result (nothing extracted, nothing filled) is ErrNoData. The
  no-data precondition on paste and the nothing-matched outcome are
  deliberately the same error.

SEE ALSO:
  - api/handlers.go: maps these to response codes
*/
package timesheet

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoData is returned when zero qualifying rows were found on
	// copy, when paste is invoked with nothing persisted, or when a
	// paste pass fills zero rows.
	ErrNoData = errors.New("no timesheet data")

	// ErrInvalidRate is returned for a non-positive hourly rate.
	ErrInvalidRate = errors.New("invalid hourly rate")

	// ErrWrongContext is returned when an operation is invoked against
	// a page that doesn't match its role (e.g. calculating salary on
	// the Target page).
	ErrWrongContext = errors.New("operation does not match page context")

	// ErrOperationInProgress is returned when another operation is
	// already in flight. Requests are rejected, never queued.
	ErrOperationInProgress = errors.New("operation already in progress")

	// ErrNoTimeBoxes is returned by auto-click when the page has no
	// calendar time cells at all.
	ErrNoTimeBoxes = errors.New("no time boxes found")

	// ErrAllBoxesSelected is returned by auto-click when time cells
	// exist but every one of them is already marked.
	ErrAllBoxesSelected = errors.New("all time boxes already selected")

	// ErrDisabled is returned when the bridge is switched off in
	// settings. Checked before any page work.
	ErrDisabled = errors.New("bridge is disabled")
)

// IsClientError reports whether the error is a normal outcome of user
// input or page state rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNoData) ||
		errors.Is(err, ErrInvalidRate) ||
		errors.Is(err, ErrWrongContext) ||
		errors.Is(err, ErrNoTimeBoxes) ||
		errors.Is(err, ErrAllBoxesSelected) ||
		errors.Is(err, ErrDisabled)
}
