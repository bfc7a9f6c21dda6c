/*
validate.go - Scheduling-date validation

PURPOSE:
  Validates a candidate scheduling date before an assessment is created.
  Order matters: presence, then well-formedness, then not-in-the-past.

CONTRACT:
  1. Absent                    -> ErrDateRequired
  2. Not a real calendar date  -> ErrDateInvalid
  3. Earlier than today        -> ErrDateInPast (date-only comparison)
  4. Otherwise                 -> accepted, parsed TimePoint returned

  Today itself is accepted. The comparison zeroes time of day on both
  sides; a TimePoint never carries one anyway.
*/
package schedule

import "strings"

// ValidateScheduleDate checks a raw YYYY-MM-DD input against today.
// Today is passed explicitly so callers (and tests) control the clock.
func ValidateScheduleDate(raw string, today TimePoint) (TimePoint, error) {
	if strings.TrimSpace(raw) == "" {
		return TimePoint{}, ErrDateRequired
	}

	date, err := ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return TimePoint{}, ErrDateInvalid
	}

	if date.Before(today) {
		return TimePoint{}, ErrDateInPast
	}
	return date, nil
}
