package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-hse/psychorisk/risk"
	"github.com/aegis-hse/psychorisk/schedule"
)

func date(year int, month time.Month, day int) schedule.TimePoint {
	return schedule.NewTimePoint(year, month, day)
}

// =============================================================================
// NEXT-OCCURRENCE CALCULATION
// =============================================================================

func TestNextDate_StandardIntervals(t *testing.T) {
	tests := []struct {
		base schedule.TimePoint
		rt   schedule.RecurrenceType
		want schedule.TimePoint
	}{
		{date(2025, time.January, 15), schedule.RecurrenceMonthly, date(2025, time.February, 15)},
		{date(2025, time.June, 30), schedule.RecurrenceSemiannual, date(2025, time.December, 30)},
		{date(2025, time.March, 1), schedule.RecurrenceAnnual, date(2026, time.March, 1)},
		{date(2025, time.January, 15), schedule.RecurrenceQuarterly, date(2025, time.April, 15)},
		{date(2025, time.January, 15), schedule.RecurrenceWeekly, date(2025, time.January, 22)},
		{date(2025, time.January, 31), schedule.RecurrenceDaily, date(2025, time.February, 1)},
	}

	for _, tt := range tests {
		got, ok := schedule.NextDate(tt.base, tt.rt)
		require.True(t, ok, "%s from %s", tt.rt, tt.base)
		assert.True(t, tt.want.Equal(got), "%s from %s: want %s, got %s", tt.rt, tt.base, tt.want, got)
	}
}

func TestNextDate_NoneAndUnknownYieldNoOccurrence(t *testing.T) {
	_, ok := schedule.NextDate(date(2025, time.January, 15), schedule.RecurrenceNone)
	assert.False(t, ok)

	_, ok = schedule.NextDate(date(2025, time.January, 15), schedule.RecurrenceType("fortnightly"))
	assert.False(t, ok)
}

func TestNextDate_MonthOverflowClamps(t *testing.T) {
	// Jan 31 + 1 month clamps to the last day of February, never Mar 2/3.
	got, ok := schedule.NextDate(date(2025, time.January, 31), schedule.RecurrenceMonthly)
	require.True(t, ok)
	assert.True(t, date(2025, time.February, 28).Equal(got), "got %s", got)

	// Leap year keeps the 29th.
	got, ok = schedule.NextDate(date(2024, time.January, 31), schedule.RecurrenceMonthly)
	require.True(t, ok)
	assert.True(t, date(2024, time.February, 29).Equal(got), "got %s", got)

	// Aug 31 + 6 months = Feb 28.
	got, ok = schedule.NextDate(date(2025, time.August, 31), schedule.RecurrenceSemiannual)
	require.True(t, ok)
	assert.True(t, date(2026, time.February, 28).Equal(got), "got %s", got)

	// Feb 29 + 1 year = Feb 28.
	got, ok = schedule.NextDate(date(2024, time.February, 29), schedule.RecurrenceAnnual)
	require.True(t, ok)
	assert.True(t, date(2025, time.February, 28).Equal(got), "got %s", got)
}

func TestNextDate_Idempotent(t *testing.T) {
	base := date(2025, time.May, 31)
	first, ok := schedule.NextDate(base, schedule.RecurrenceMonthly)
	require.True(t, ok)
	second, ok := schedule.NextDate(base, schedule.RecurrenceMonthly)
	require.True(t, ok)
	assert.True(t, first.Equal(second))
}

func TestAddMonths_AcrossYearBoundary(t *testing.T) {
	assert.True(t, date(2026, time.January, 15).Equal(date(2025, time.November, 15).AddMonths(2)))
	assert.True(t, date(2024, time.December, 15).Equal(date(2025, time.January, 15).AddMonths(-1)))
}

// =============================================================================
// PERIODICITY RESOLUTION
// =============================================================================

func testSettings() *schedule.PeriodicitySettings {
	return &schedule.PeriodicitySettings{
		CompanyID: "co-1",
		High:      schedule.RecurrenceSemiannual,
		Medium:    schedule.RecurrenceAnnual,
		Low:       schedule.RecurrenceAnnual,
		Default:   schedule.RecurrenceAnnual,
	}
}

func TestResolve_ConfiguredTiers(t *testing.T) {
	s := testSettings()
	assert.Equal(t, schedule.RecurrenceSemiannual, schedule.Resolve(risk.TierHigh, s))
	assert.Equal(t, schedule.RecurrenceAnnual, schedule.Resolve(risk.TierMedium, s))
	assert.Equal(t, schedule.RecurrenceAnnual, schedule.Resolve(risk.TierLow, s))
}

func TestResolve_DefaultTierUsesConfiguredDefault(t *testing.T) {
	s := testSettings()
	s.Default = schedule.RecurrenceQuarterly
	assert.Equal(t, schedule.RecurrenceQuarterly, schedule.Resolve(risk.TierDefault, s))
}

func TestResolve_UnsetTierFallsBackToDefault(t *testing.T) {
	s := testSettings()
	s.Medium = ""
	assert.Equal(t, s.Default, schedule.Resolve(risk.TierMedium, s))
}

func TestResolve_MissingSettingsFallBackToAnnual(t *testing.T) {
	// Pinned contract: absent settings mean annual, never none.
	assert.Equal(t, schedule.RecurrenceAnnual, schedule.Resolve(risk.TierHigh, nil))
	assert.Equal(t, schedule.RecurrenceAnnual, schedule.Resolve(risk.TierDefault, nil))

	empty := &schedule.PeriodicitySettings{CompanyID: "co-1"}
	assert.Equal(t, schedule.RecurrenceAnnual, schedule.Resolve(risk.TierHigh, empty))
}

func TestResolve_ExplicitNoneIsHonored(t *testing.T) {
	s := testSettings()
	s.Low = schedule.RecurrenceNone
	assert.Equal(t, schedule.RecurrenceNone, schedule.Resolve(risk.TierLow, s))
}

// =============================================================================
// SCHEDULING-DATE VALIDATION
// =============================================================================

func TestValidateScheduleDate(t *testing.T) {
	today := date(2025, time.June, 15)

	t.Run("absent date is required", func(t *testing.T) {
		_, err := schedule.ValidateScheduleDate("", today)
		assert.ErrorIs(t, err, schedule.ErrDateRequired)
		assert.Equal(t, "date_required", schedule.ReasonCode(err))
	})

	t.Run("malformed date is invalid", func(t *testing.T) {
		_, err := schedule.ValidateScheduleDate("15/06/2025", today)
		assert.ErrorIs(t, err, schedule.ErrDateInvalid)
	})

	t.Run("impossible calendar date is invalid", func(t *testing.T) {
		_, err := schedule.ValidateScheduleDate("2025-02-30", today)
		assert.ErrorIs(t, err, schedule.ErrDateInvalid)
		assert.Equal(t, "date_invalid", schedule.ReasonCode(err))
	})

	t.Run("past date is rejected", func(t *testing.T) {
		_, err := schedule.ValidateScheduleDate("2020-01-01", today)
		assert.ErrorIs(t, err, schedule.ErrDateInPast)
		assert.Equal(t, "date_in_past", schedule.ReasonCode(err))
	})

	t.Run("today is accepted", func(t *testing.T) {
		got, err := schedule.ValidateScheduleDate("2025-06-15", today)
		require.NoError(t, err)
		assert.True(t, today.Equal(got))
	})

	t.Run("tomorrow is accepted", func(t *testing.T) {
		got, err := schedule.ValidateScheduleDate("2025-06-16", today)
		require.NoError(t, err)
		assert.True(t, today.AddDays(1).Equal(got))
	})
}

func TestParseDate_RejectsImpossibleDates(t *testing.T) {
	_, err := schedule.ParseDate("2025-02-30")
	assert.Error(t, err)

	_, err = schedule.ParseDate("2025-13-01")
	assert.Error(t, err)
}
