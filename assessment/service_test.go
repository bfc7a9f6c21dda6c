package assessment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-hse/psychorisk/assessment"
	"github.com/aegis-hse/psychorisk/assessment/store"
	"github.com/aegis-hse/psychorisk/risk"
	"github.com/aegis-hse/psychorisk/schedule"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func fixedToday() schedule.TimePoint {
	return schedule.NewTimePoint(2025, time.January, 10)
}

// newTestService seeds a company with one sector, one role, and one
// employee, and pins today to 2025-01-10.
func newTestService(t *testing.T) (*assessment.Service, *store.Memory) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()

	require.NoError(t, mem.SaveCompany(ctx, assessment.Company{ID: "co-1", Name: "Acme Industrial"}))
	require.NoError(t, mem.SaveSector(ctx, assessment.Sector{
		ID: "sec-1", CompanyID: "co-1", Name: "Produção", RiskAttribute: "medium",
	}))
	require.NoError(t, mem.SaveRole(ctx, assessment.Role{
		ID: "role-1", CompanyID: "co-1", Name: "Operador", RiskAttribute: "high",
	}))
	require.NoError(t, mem.SaveEmployee(ctx, assessment.Employee{
		ID: "emp-1", CompanyID: "co-1", Name: "Maria", RoleID: "role-1", SectorID: "sec-1",
	}))

	svc := assessment.NewService(mem, mem, mem, mem)
	svc.Now = fixedToday
	return svc, mem
}

// =============================================================================
// SCHEDULING
// =============================================================================

func TestSchedule_ExplicitRecurrence_StoresNextDateOnce(t *testing.T) {
	// GIVEN: A monthly assessment scheduled for 2025-01-15
	// WHEN: It is created
	// THEN: next_scheduled_date is 2025-02-15, equal to NextDate(D, monthly)

	svc, _ := newTestService(t)
	ctx := context.Background()

	sa, err := svc.Schedule(ctx, assessment.ScheduleRequest{
		CompanyID:  "co-1",
		EmployeeID: "emp-1",
		Title:      "Avaliação psicossocial",
		Date:       "2025-01-15",
		Recurrence: "monthly",
	})
	require.NoError(t, err)

	assert.Equal(t, assessment.StatusScheduled, sa.Status)
	assert.Equal(t, schedule.RecurrenceMonthly, sa.Recurrence)
	require.NotNil(t, sa.NextScheduledDate)
	assert.True(t, schedule.NewTimePoint(2025, time.February, 15).Equal(*sa.NextScheduledDate))

	// Round-trip: recomputation from the same inputs gives the same value.
	recomputed, ok := schedule.NextDate(sa.ScheduledDate, sa.Recurrence)
	require.True(t, ok)
	assert.True(t, recomputed.Equal(*sa.NextScheduledDate))
}

func TestSchedule_NoRecurrence_DerivedFromRoleAndSector(t *testing.T) {
	// GIVEN: Role high + sector medium, settings high->semiannual
	// WHEN: Scheduling without an explicit recurrence
	// THEN: Worst-wins tier is high, so the interval is semiannual

	svc, mem := newTestService(t)
	ctx := context.Background()

	require.NoError(t, mem.SaveSettings(ctx, schedule.PeriodicitySettings{
		CompanyID: "co-1",
		High:      schedule.RecurrenceSemiannual,
		Medium:    schedule.RecurrenceAnnual,
		Low:       schedule.RecurrenceAnnual,
		Default:   schedule.RecurrenceAnnual,
	}))

	sa, err := svc.Schedule(ctx, assessment.ScheduleRequest{
		CompanyID:  "co-1",
		EmployeeID: "emp-1",
		Date:       "2025-03-01",
	})
	require.NoError(t, err)

	assert.Equal(t, schedule.RecurrenceSemiannual, sa.Recurrence)
	require.NotNil(t, sa.NextScheduledDate)
	assert.True(t, schedule.NewTimePoint(2025, time.September, 1).Equal(*sa.NextScheduledDate))
}

func TestSchedule_MissingSettings_FallsBackToAnnual(t *testing.T) {
	svc, _ := newTestService(t)

	sa, err := svc.Schedule(context.Background(), assessment.ScheduleRequest{
		CompanyID:  "co-1",
		EmployeeID: "emp-1",
		Date:       "2025-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, schedule.RecurrenceAnnual, sa.Recurrence)
}

func TestSchedule_NoneRecurrence_HasNoNextDate(t *testing.T) {
	svc, _ := newTestService(t)

	sa, err := svc.Schedule(context.Background(), assessment.ScheduleRequest{
		CompanyID:  "co-1",
		EmployeeID: "emp-1",
		Date:       "2025-02-01",
		Recurrence: "none",
	})
	require.NoError(t, err)
	assert.Nil(t, sa.NextScheduledDate)
}

func TestSchedule_RejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	t.Run("past date", func(t *testing.T) {
		_, err := svc.Schedule(ctx, assessment.ScheduleRequest{
			CompanyID: "co-1", EmployeeID: "emp-1", Date: "2020-01-01",
		})
		assert.ErrorIs(t, err, schedule.ErrDateInPast)
	})

	t.Run("missing date", func(t *testing.T) {
		_, err := svc.Schedule(ctx, assessment.ScheduleRequest{
			CompanyID: "co-1", EmployeeID: "emp-1",
		})
		assert.ErrorIs(t, err, schedule.ErrDateRequired)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := svc.Schedule(ctx, assessment.ScheduleRequest{
			CompanyID: "co-1", EmployeeID: "ghost", Date: "2025-02-01",
		})
		assert.ErrorIs(t, err, assessment.ErrEmployeeNotFound)
	})

	t.Run("unknown recurrence", func(t *testing.T) {
		_, err := svc.Schedule(ctx, assessment.ScheduleRequest{
			CompanyID: "co-1", EmployeeID: "emp-1", Date: "2025-02-01", Recurrence: "fortnightly",
		})
		assert.ErrorIs(t, err, assessment.ErrUnknownRecurrence)
	})
}

// =============================================================================
// DISPATCH AND COMPLETION
// =============================================================================

func TestMarkSent_Transitions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sa, err := svc.Schedule(ctx, assessment.ScheduleRequest{
		CompanyID: "co-1", EmployeeID: "emp-1", Date: "2025-01-15", Recurrence: "none",
	})
	require.NoError(t, err)

	sent, err := svc.MarkSent(ctx, sa.ID)
	require.NoError(t, err)
	assert.Equal(t, assessment.StatusSent, sent.Status)
	assert.NotNil(t, sent.SentAt)

	// Sending twice is a disallowed transition.
	_, err = svc.MarkSent(ctx, sa.ID)
	assert.ErrorIs(t, err, assessment.ErrInvalidStatus)
}

func TestComplete_ScoresClassifiesAndMaterializesNext(t *testing.T) {
	// GIVEN: A sent monthly assessment on 2025-01-15
	// WHEN: Completed with all-maximum item scores (mean 5/5 -> 100)
	// THEN: Response is critical, and the next occurrence is created
	//       exactly at the stored next date (2025-02-15)

	svc, mem := newTestService(t)
	ctx := context.Background()

	sa, err := svc.Schedule(ctx, assessment.ScheduleRequest{
		CompanyID: "co-1", EmployeeID: "emp-1", Date: "2025-01-15", Recurrence: "monthly",
	})
	require.NoError(t, err)
	_, err = svc.MarkSent(ctx, sa.ID)
	require.NoError(t, err)

	result, err := svc.Complete(ctx, sa.ID, []int{5, 5, 5, 5}, 5)
	require.NoError(t, err)

	assert.Equal(t, risk.LevelCritical, result.Response.Level)
	assert.Equal(t, assessment.SectorID("sec-1"), result.Response.SectorID)
	assert.Equal(t, assessment.StatusCompleted, result.Completed.Status)

	require.NotNil(t, result.Next)
	assert.True(t, schedule.NewTimePoint(2025, time.February, 15).Equal(result.Next.ScheduledDate))
	assert.Equal(t, schedule.RecurrenceMonthly, result.Next.Recurrence)
	require.NotNil(t, result.Next.NextScheduledDate)
	assert.True(t, schedule.NewTimePoint(2025, time.March, 15).Equal(*result.Next.NextScheduledDate))

	// The follow-up is persisted, not just returned.
	stored, err := mem.GetScheduled(ctx, result.Next.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, assessment.StatusScheduled, stored.Status)
}

func TestComplete_NonRecurring_NoFollowUp(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sa, err := svc.Schedule(ctx, assessment.ScheduleRequest{
		CompanyID: "co-1", EmployeeID: "emp-1", Date: "2025-01-20", Recurrence: "none",
	})
	require.NoError(t, err)

	result, err := svc.Complete(ctx, sa.ID, []int{2, 3, 2}, 5)
	require.NoError(t, err)
	assert.Nil(t, result.Next)

	// Completing again is rejected.
	_, err = svc.Complete(ctx, sa.ID, []int{1}, 5)
	assert.ErrorIs(t, err, assessment.ErrInvalidStatus)
}

func TestComplete_EmptyScoresRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sa, err := svc.Schedule(ctx, assessment.ScheduleRequest{
		CompanyID: "co-1", EmployeeID: "emp-1", Date: "2025-01-20", Recurrence: "none",
	})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, sa.ID, nil, 5)
	assert.ErrorIs(t, err, assessment.ErrNoItemScores)
}

// =============================================================================
// RESPONSE SCORING
// =============================================================================

func TestScoreResponse_MeanNormalizedTo100(t *testing.T) {
	tests := []struct {
		name     string
		items    []int
		scaleMax int
		want     float64
		level    risk.Level
	}{
		{"all max", []int{5, 5, 5}, 5, 100, risk.LevelCritical},
		{"all min", []int{1, 1, 1}, 5, 20, risk.LevelLow},
		{"boundary critical", []int{4, 4, 4, 4}, 5, 80, risk.LevelCritical},
		{"boundary high", []int{3, 3, 3, 3}, 5, 60, risk.LevelHigh},
		{"boundary medium", []int{2, 2}, 5, 40, risk.LevelMedium},
		{"mixed", []int{1, 5}, 5, 60, risk.LevelHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := assessment.ScoreResponse(tt.items, tt.scaleMax)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, score.Float64(), 0.0001)
			assert.Equal(t, tt.level, risk.Classify(score))
		})
	}
}

// =============================================================================
// DUE LISTING
// =============================================================================

func TestListDue_OnlyScheduledOnOrBeforeAsOf(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	due, err := svc.Schedule(ctx, assessment.ScheduleRequest{
		CompanyID: "co-1", EmployeeID: "emp-1", Date: "2025-01-12", Recurrence: "none",
	})
	require.NoError(t, err)
	_, err = svc.Schedule(ctx, assessment.ScheduleRequest{
		CompanyID: "co-1", EmployeeID: "emp-1", Date: "2025-06-01", Recurrence: "none",
	})
	require.NoError(t, err)

	got, err := mem.ListDue(ctx, schedule.NewTimePoint(2025, time.January, 12))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)
}
