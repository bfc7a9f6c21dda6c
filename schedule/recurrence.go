/*
recurrence.go - Recurrence intervals and next-occurrence calculation

PURPOSE:
  Defines the enumerated recurrence intervals a scheduled assessment can
  carry and the step function that produces the next occurrence date.

FAIL-SOFT CONTRACT:
  NextDate never errors. RecurrenceNone and unrecognized types yield
  (zero, false) - "no next occurrence" - rather than a failure. The
  caller stores the next date exactly once at creation/completion time;
  recomputing from the same inputs always gives the same value.

SEE ALSO:
  - time.go: Clamped month/year arithmetic used by the step function
  - periodicity.go: How a recurrence type is chosen per risk tier
*/
package schedule

import "strings"

// =============================================================================
// RECURRENCE TYPE
// =============================================================================

type RecurrenceType string

const (
	RecurrenceNone       RecurrenceType = "none"
	RecurrenceDaily      RecurrenceType = "daily"
	RecurrenceWeekly     RecurrenceType = "weekly"
	RecurrenceMonthly    RecurrenceType = "monthly"
	RecurrenceQuarterly  RecurrenceType = "quarterly"
	RecurrenceSemiannual RecurrenceType = "semiannual"
	RecurrenceAnnual     RecurrenceType = "annual"
)

// IsValid reports whether rt is a known recurrence type (including none).
func (rt RecurrenceType) IsValid() bool {
	switch rt {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly,
		RecurrenceQuarterly, RecurrenceSemiannual, RecurrenceAnnual:
		return true
	default:
		return false
	}
}

func (rt RecurrenceType) String() string { return string(rt) }

// ParseRecurrence normalizes a recurrence name case-insensitively.
// Returns false for unknown names.
func ParseRecurrence(s string) (RecurrenceType, bool) {
	rt := RecurrenceType(strings.ToLower(strings.TrimSpace(s)))
	if !rt.IsValid() {
		return "", false
	}
	return rt, true
}

// =============================================================================
// NEXT-OCCURRENCE CALCULATION
// =============================================================================

// NextDate computes the occurrence following base for the given recurrence
// type. Returns ok=false when there is no next occurrence (none, or an
// unrecognized type). Month and year steps clamp the day-of-month to the
// last valid day of the target month; see time.go.
func NextDate(base TimePoint, rt RecurrenceType) (TimePoint, bool) {
	switch rt {
	case RecurrenceDaily:
		return base.AddDays(1), true
	case RecurrenceWeekly:
		return base.AddDays(7), true
	case RecurrenceMonthly:
		return base.AddMonths(1), true
	case RecurrenceQuarterly:
		return base.AddMonths(3), true
	case RecurrenceSemiannual:
		return base.AddMonths(6), true
	case RecurrenceAnnual:
		return base.AddYears(1), true
	default:
		return TimePoint{}, false
	}
}
