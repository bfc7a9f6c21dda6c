/*
errors.go - Scheduling validation errors

PURPOSE:
  Sentinel errors for scheduling-date validation, plus the reason-code
  mapping the API layer uses. The validator returns these codes; turning
  them into user-facing notifications is the UI's concern, not ours.

USAGE:
  if errors.Is(err, schedule.ErrDateInPast) { ... }
  code := schedule.ReasonCode(err) // "date_in_past"
*/
package schedule

import "errors"

var (
	// ErrDateRequired is returned when no scheduling date was provided.
	ErrDateRequired = errors.New("scheduling date is required")

	// ErrDateInvalid is returned when the input is not a real calendar date.
	ErrDateInvalid = errors.New("scheduling date is not a valid calendar date")

	// ErrDateInPast is returned when a well-formed date is earlier than today.
	ErrDateInPast = errors.New("scheduling date is in the past")
)

// ReasonCode maps a validation error to its stable machine-readable code.
// Returns "" for nil or unrelated errors.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrDateRequired):
		return "date_required"
	case errors.Is(err, ErrDateInvalid):
		return "date_invalid"
	case errors.Is(err, ErrDateInPast):
		return "date_in_past"
	default:
		return ""
	}
}

// IsValidationError reports whether err is one of the scheduling-date
// validation failures (client input problems, not system failures).
func IsValidationError(err error) bool {
	return errors.Is(err, ErrDateRequired) ||
		errors.Is(err, ErrDateInvalid) ||
		errors.Is(err, ErrDateInPast)
}
