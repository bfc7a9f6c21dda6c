/*
service.go - Assessment scheduling workflow

PURPOSE:
  Orchestrates the lifecycle of a scheduled assessment:

    Schedule -> MarkSent -> Complete

  Schedule validates the date, resolves the recurrence interval (explicit,
  or derived from the employee's role/sector risk attributes and the
  company's periodicity settings), computes the next occurrence ONCE, and
  persists the record. Complete scores and classifies the response and,
  for recurring assessments, materializes the follow-up occurrence.

RECURRENCE RESOLUTION:
  1. Explicit recurrence on the request wins (must be a known interval).
  2. Otherwise: aggregate role+sector attributes (worst-wins) into an
     effective tier, then resolve against the company's periodicity
     settings. Missing settings fall back to annual; see schedule package.

CLOCK:
  The service carries an injectable Now func so tests control "today"
  without process-wide setup.

SEE ALSO:
  - schedule/validate.go: Date validation contract
  - schedule/periodicity.go: Tier -> interval resolution
  - planner/planner.go: Sector-level orchestration built on the same stores
*/
package assessment

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aegis-hse/psychorisk/risk"
	"github.com/aegis-hse/psychorisk/schedule"
)

// Service coordinates scheduling, dispatch, and completion of assessments.
type Service struct {
	Directory DirectoryStore
	Settings  SettingsStore
	Schedules ScheduleStore
	Responses ResponseStore

	// Now supplies "today" for date validation and timestamps.
	// Defaults to schedule.Today.
	Now func() schedule.TimePoint
}

// NewService creates a service over the given stores with the real clock.
func NewService(directory DirectoryStore, settings SettingsStore, schedules ScheduleStore, responses ResponseStore) *Service {
	return &Service{
		Directory: directory,
		Settings:  settings,
		Schedules: schedules,
		Responses: responses,
		Now:       schedule.Today,
	}
}

func (s *Service) today() schedule.TimePoint {
	if s.Now != nil {
		return s.Now()
	}
	return schedule.Today()
}

// =============================================================================
// SCHEDULING
// =============================================================================

// ScheduleRequest is the input to Schedule. Date is the raw YYYY-MM-DD
// input; Recurrence is an optional explicit interval name that overrides
// risk-derived resolution.
type ScheduleRequest struct {
	CompanyID  CompanyID
	EmployeeID EmployeeID
	Title      string
	Date       string
	Recurrence string
}

// Schedule validates the request, resolves the recurrence, computes the
// next occurrence once, and persists the new scheduled assessment.
func (s *Service) Schedule(ctx context.Context, req ScheduleRequest) (*ScheduledAssessment, error) {
	date, err := schedule.ValidateScheduleDate(req.Date, s.today())
	if err != nil {
		return nil, err
	}

	emp, err := s.Directory.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	if emp == nil || emp.CompanyID != req.CompanyID {
		return nil, ErrEmployeeNotFound
	}

	recurrence, err := s.resolveRecurrence(ctx, req, emp)
	if err != nil {
		return nil, err
	}

	sa := ScheduledAssessment{
		ID:            ScheduledID(newID("sched")),
		CompanyID:     req.CompanyID,
		EmployeeID:    req.EmployeeID,
		Title:         req.Title,
		ScheduledDate: date,
		Status:        StatusScheduled,
		Recurrence:    recurrence,
		CreatedAt:     time.Now().UTC(),
	}

	// Computed and stored once, here. Not recomputed lazily.
	if next, ok := schedule.NextDate(date, recurrence); ok {
		sa.NextScheduledDate = &next
	}

	if err := s.Schedules.SaveScheduled(ctx, sa); err != nil {
		return nil, fmt.Errorf("save scheduled assessment: %w", err)
	}
	return &sa, nil
}

// resolveRecurrence applies the resolution order documented in the file
// header: explicit request value first, risk-derived otherwise.
func (s *Service) resolveRecurrence(ctx context.Context, req ScheduleRequest, emp *Employee) (schedule.RecurrenceType, error) {
	if req.Recurrence != "" {
		rt, ok := schedule.ParseRecurrence(req.Recurrence)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownRecurrence, req.Recurrence)
		}
		return rt, nil
	}

	var roleAttr, sectorAttr string
	if emp.RoleID != "" {
		role, err := s.Directory.GetRole(ctx, emp.RoleID)
		if err != nil {
			return "", fmt.Errorf("load role: %w", err)
		}
		if role != nil {
			roleAttr = role.RiskAttribute
		}
	}
	if emp.SectorID != "" {
		sector, err := s.Directory.GetSector(ctx, emp.SectorID)
		if err != nil {
			return "", fmt.Errorf("load sector: %w", err)
		}
		if sector != nil {
			sectorAttr = sector.RiskAttribute
		}
	}

	settings, err := s.Settings.GetSettings(ctx, req.CompanyID)
	if err != nil {
		return "", fmt.Errorf("load periodicity settings: %w", err)
	}

	tier := risk.Aggregate(roleAttr, sectorAttr)
	return schedule.Resolve(tier, settings), nil
}

// =============================================================================
// DISPATCH
// =============================================================================

// MarkSent transitions a scheduled assessment to sent.
func (s *Service) MarkSent(ctx context.Context, id ScheduledID) (*ScheduledAssessment, error) {
	sa, err := s.Schedules.GetScheduled(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load scheduled assessment: %w", err)
	}
	if sa == nil {
		return nil, ErrScheduledNotFound
	}
	if sa.Status != StatusScheduled {
		return nil, fmt.Errorf("%w: cannot send from %q", ErrInvalidStatus, sa.Status)
	}

	now := time.Now().UTC()
	sa.Status = StatusSent
	sa.SentAt = &now

	if err := s.Schedules.SaveScheduled(ctx, *sa); err != nil {
		return nil, fmt.Errorf("save scheduled assessment: %w", err)
	}
	return sa, nil
}

// =============================================================================
// COMPLETION
// =============================================================================

// CompletionResult bundles everything Complete produced: the scored
// response, the completed record, and the materialized follow-up
// occurrence (nil when the assessment does not recur).
type CompletionResult struct {
	Response  Response
	Completed ScheduledAssessment
	Next      *ScheduledAssessment
}

// Complete records a response for a scheduled assessment: scores and
// classifies the item scores, marks the record completed, and for
// recurring assessments creates the next occurrence at the stored
// next-scheduled date.
func (s *Service) Complete(ctx context.Context, id ScheduledID, itemScores []int, scaleMax int) (*CompletionResult, error) {
	sa, err := s.Schedules.GetScheduled(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load scheduled assessment: %w", err)
	}
	if sa == nil {
		return nil, ErrScheduledNotFound
	}
	if sa.Status == StatusCompleted {
		return nil, fmt.Errorf("%w: already completed", ErrInvalidStatus)
	}

	score, err := ScoreResponse(itemScores, scaleMax)
	if err != nil {
		return nil, err
	}

	emp, err := s.Directory.GetEmployee(ctx, sa.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	if emp == nil {
		return nil, ErrEmployeeNotFound
	}

	now := time.Now().UTC()
	resp := Response{
		ID:          ResponseID(newID("resp")),
		ScheduledID: sa.ID,
		CompanyID:   sa.CompanyID,
		EmployeeID:  sa.EmployeeID,
		SectorID:    emp.SectorID,
		ItemScores:  itemScores,
		Score:       score,
		Level:       risk.Classify(score),
		CompletedAt: now,
	}
	if err := s.Responses.SaveResponse(ctx, resp); err != nil {
		return nil, fmt.Errorf("save response: %w", err)
	}

	sa.Status = StatusCompleted
	sa.CompletedAt = &now
	if err := s.Schedules.SaveScheduled(ctx, *sa); err != nil {
		return nil, fmt.Errorf("save scheduled assessment: %w", err)
	}

	result := &CompletionResult{Response: resp, Completed: *sa}

	next, err := s.materializeNext(ctx, sa)
	if err != nil {
		return nil, err
	}
	result.Next = next
	return result, nil
}

// materializeNext creates the follow-up occurrence for a recurring
// assessment. The follow-up's own next date is computed the same way,
// once, at creation.
func (s *Service) materializeNext(ctx context.Context, completed *ScheduledAssessment) (*ScheduledAssessment, error) {
	nextDate := completed.NextScheduledDate
	if nextDate == nil {
		// Stored next date is authoritative; recompute only when absent
		// (legacy records written before recurrence was set).
		d, ok := schedule.NextDate(completed.ScheduledDate, completed.Recurrence)
		if !ok {
			return nil, nil
		}
		nextDate = &d
	}

	next := ScheduledAssessment{
		ID:            ScheduledID(newID("sched")),
		CompanyID:     completed.CompanyID,
		EmployeeID:    completed.EmployeeID,
		Title:         completed.Title,
		ScheduledDate: *nextDate,
		Status:        StatusScheduled,
		Recurrence:    completed.Recurrence,
		CreatedAt:     time.Now().UTC(),
	}
	if following, ok := schedule.NextDate(*nextDate, completed.Recurrence); ok {
		next.NextScheduledDate = &following
	}

	if err := s.Schedules.SaveScheduled(ctx, next); err != nil {
		return nil, fmt.Errorf("save follow-up assessment: %w", err)
	}
	return &next, nil
}

// =============================================================================
// ID GENERATION
// =============================================================================

var idSeq atomic.Uint64

func newID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), idSeq.Add(1))
}
