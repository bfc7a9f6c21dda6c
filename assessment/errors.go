/*
errors.go - Centralized error types for the assessment domain

PURPOSE:
  All domain errors in one place for consistency and discoverability.
  Scheduling-date validation errors live in the schedule package; these
  cover entity lookups and workflow state.

USAGE:
  if assessment.IsNotFound(err) { ... 404 ... }
  if assessment.IsClientError(err) { ... 400/409 ... }
*/
package assessment

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrCompanyNotFound is returned when a referenced company doesn't exist.
	ErrCompanyNotFound = errors.New("company not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrScheduledNotFound is returned when a scheduled assessment doesn't exist.
	ErrScheduledNotFound = errors.New("scheduled assessment not found")

	// ErrInvalidStatus is returned when a workflow transition is not allowed
	// from the record's current status (e.g. completing twice).
	ErrInvalidStatus = errors.New("invalid status transition")

	// ErrUnknownRecurrence is returned when an explicit recurrence name is
	// not one of the supported intervals.
	ErrUnknownRecurrence = errors.New("unknown recurrence type")

	// ErrNoItemScores is returned when a response carries no item scores.
	ErrNoItemScores = errors.New("response has no item scores")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCompanyNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrScheduledNotFound)
}

// IsClientError reports whether the error is due to invalid client input
// or a disallowed transition, as opposed to a system failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrUnknownRecurrence) ||
		errors.Is(err, ErrNoItemScores)
}
