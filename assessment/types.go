/*
Package assessment implements the psychosocial assessment domain: the
organizational entity model (companies, sectors, roles, employees), scheduled
assessments with recurrence, and scored responses.

PURPOSE:
  This package owns the entities and the scheduling workflow. Pure risk math
  lives in the risk package and calendar logic in the schedule package; this
  package wires them to persisted state.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: has exactly one role and one sector at a time
  - Sector/Role: each carries an optional risk attribute (low/medium/high)
  - ScheduledAssessment: scheduled -> sent -> completed, with an optional
    recurrence and a next-scheduled date computed ONCE at creation time
  - Response: item scores rolled up into a 0-100 score plus its level
  - ActionPlan: remediation record emitted by the collective risk planner

DESIGN PRINCIPLES:
  1. Type-safe IDs: CompanyID and SectorID cannot be mixed up
  2. Derived values stored at write time: next dates and classifications
     are computed when the fact is recorded, not recomputed lazily
  3. No global state: services receive stores and a clock explicitly

SEE ALSO:
  - scoring.go: Item scores -> aggregate Score
  - service.go: Scheduling workflow
  - store.go: Persistence interfaces
*/
package assessment

import (
	"time"

	"github.com/aegis-hse/psychorisk/risk"
	"github.com/aegis-hse/psychorisk/schedule"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type CompanyID string
type SectorID string
type RoleID string
type EmployeeID string
type ScheduledID string
type ResponseID string
type ActionPlanID string

// =============================================================================
// ORGANIZATIONAL ENTITIES
// =============================================================================

type Company struct {
	ID        CompanyID
	Name      string
	CreatedAt time.Time
}

// Sector is an organizational unit. RiskAttribute is the optional coarse
// risk tier ("low"/"medium"/"high", blank when unset) used by periodicity
// resolution and the collective risk planner.
type Sector struct {
	ID            SectorID
	CompanyID     CompanyID
	Name          string
	RiskAttribute string
	CreatedAt     time.Time
}

// Role mirrors Sector: an optional coarse risk attribute, blank when unset.
type Role struct {
	ID            RoleID
	CompanyID     CompanyID
	Name          string
	RiskAttribute string
	CreatedAt     time.Time
}

// Employee has exactly one role and one sector at a time.
type Employee struct {
	ID        EmployeeID
	CompanyID CompanyID
	Name      string
	Email     string
	RoleID    RoleID
	SectorID  SectorID
	CreatedAt time.Time
}

// =============================================================================
// SCHEDULED ASSESSMENT
// =============================================================================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusSent      Status = "sent"
	StatusCompleted Status = "completed"
)

// ScheduledAssessment is one planned administration of a questionnaire to an
// employee. NextScheduledDate is computed and stored when the record is
// created (and again when a recurring assessment completes and the follow-up
// occurrence is materialized); it is never recomputed lazily.
type ScheduledAssessment struct {
	ID         ScheduledID
	CompanyID  CompanyID
	EmployeeID EmployeeID
	Title      string

	ScheduledDate schedule.TimePoint
	Status        Status
	Recurrence    schedule.RecurrenceType

	// NextScheduledDate is nil when Recurrence is none.
	NextScheduledDate *schedule.TimePoint

	SentAt      *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// =============================================================================
// RESPONSE - Completed questionnaire with its classification
// =============================================================================

// Response records a completed questionnaire. Score and Level are computed
// once at completion time and stored with the response; SectorID is stamped
// from the employee so sector-level rollups need no join at read time.
type Response struct {
	ID          ResponseID
	ScheduledID ScheduledID
	CompanyID   CompanyID
	EmployeeID  EmployeeID
	SectorID    SectorID

	ItemScores  []int
	Score       risk.Score
	Level       risk.Level
	CompletedAt time.Time
}

// =============================================================================
// ACTION PLAN - Remediation record for a high-risk sector
// =============================================================================

type ActionPlanStatus string

const (
	ActionPlanOpen ActionPlanStatus = "open"
	ActionPlanDone ActionPlanStatus = "done"
)

// ActionPlan is created by the collective risk planner when a sector's
// aggregated risk meets the configured threshold.
type ActionPlan struct {
	ID          ActionPlanID
	CompanyID   CompanyID
	SectorID    SectorID
	Level       risk.Level
	Title       string
	Description string
	Status      ActionPlanStatus
	CreatedAt   time.Time
}
