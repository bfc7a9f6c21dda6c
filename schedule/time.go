/*
Package schedule provides calendar arithmetic and periodicity resolution
for recurring psychosocial assessments.

PURPOSE:
  Everything about WHEN an assessment happens lives here: the day-granular
  TimePoint type, recurrence stepping (monthly, semiannual, annual, ...),
  per-tenant periodicity settings, and scheduling-date validation.

KEY CONCEPTS IN THIS FILE (time.go):
  - TimePoint: A calendar date (year/month/day, UTC, no time of day)
  - Clamped month arithmetic: Jan 31 + 1 month = Feb 28 (29 in leap years)

MONTH-OVERFLOW RULE:
  Date libraries disagree on what Jan 31 + 1 month means. This package
  pins ONE rule: the day-of-month clamps to the last valid day of the
  target month. time.AddDate would normalize Jan 31 + 1 month to Mar 2/3;
  that is never what a recurring assessment schedule wants, so AddMonths
  and AddYears implement clamping explicitly.

TIME ZONES:
  None. TimePoints shift their local date components in place and compare
  date-only. All internal representation is UTC midnight.

SEE ALSO:
  - recurrence.go: RecurrenceType and NextDate
  - validate.go: Scheduling-date validation
*/
package schedule

import "time"

// =============================================================================
// TIME POINT - Calendar date with day granularity
// =============================================================================

type TimePoint struct {
	Time time.Time
}

const dateLayout = "2006-01-02"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a time.Time to its calendar date.
func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

func Today() TimePoint {
	return FromTime(time.Now())
}

// ParseDate parses a YYYY-MM-DD string into a TimePoint. Impossible calendar
// dates (2025-02-30) are rejected by time.Parse.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return TimePoint{}, err
	}
	return FromTime(t), nil
}

// Comparison (date-only; time of day is always zero)
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Properties
func (tp TimePoint) Year() int         { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month { return tp.Time.Month() }
func (tp TimePoint) Day() int          { return tp.Time.Day() }
func (tp TimePoint) IsZero() bool      { return tp.Time.IsZero() }

func (tp TimePoint) String() string { return tp.Time.Format(dateLayout) }

// =============================================================================
// ARITHMETIC - Clamped calendar stepping
// =============================================================================

// AddDays advances by whole days. Day stepping never overflows.
func (tp TimePoint) AddDays(n int) TimePoint {
	return FromTime(tp.Time.AddDate(0, 0, n))
}

// AddMonths advances by n calendar months, clamping the day-of-month to the
// last valid day of the target month. Works for negative n.
func (tp TimePoint) AddMonths(n int) TimePoint {
	year, month, day := tp.Time.Date()

	total := year*12 + int(month) - 1 + n
	targetYear := total / 12
	targetMonth := time.Month(total%12 + 1)
	if total < 0 && total%12 != 0 {
		targetYear--
		targetMonth = time.Month(total%12 + 13)
	}

	if last := daysInMonth(targetYear, targetMonth); day > last {
		day = last
	}
	return NewTimePoint(targetYear, targetMonth, day)
}

// AddYears advances by n years with the same clamping rule
// (Feb 29 + 1 year = Feb 28).
func (tp TimePoint) AddYears(n int) TimePoint {
	return tp.AddMonths(12 * n)
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysBetween returns the whole-day distance from one date to another.
func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}
