/*
store.go - Persistence interfaces for the assessment domain

PURPOSE:
  Defines the interfaces between domain logic and the database. The
  domain treats persistence as an opaque collaborator: latency and
  failure modes belong to the implementation, not to this package.

INTERFACES:
  DirectoryStore: Companies, sectors, roles, employees
  SettingsStore:  Per-company periodicity settings
  ScheduleStore:  Scheduled assessments (including due-date queries)
  ResponseStore:  Completed, classified responses

ABSENCE CONVENTION:
  Get* methods return (nil, nil) when the record does not exist. Errors
  are reserved for actual store failures. Callers translate absence into
  the domain's not-found sentinels.

IMPLEMENTATIONS:
  - assessment/store/memory.go: In-memory, for tests and dev
  - store/sqlite/sqlite.go:     Production SQLite
*/
package assessment

import (
	"context"

	"github.com/aegis-hse/psychorisk/schedule"
)

// =============================================================================
// DIRECTORY - Organizational entities
// =============================================================================

type DirectoryStore interface {
	SaveCompany(ctx context.Context, c Company) error
	GetCompany(ctx context.Context, id CompanyID) (*Company, error)
	ListCompanies(ctx context.Context) ([]Company, error)

	SaveSector(ctx context.Context, s Sector) error
	GetSector(ctx context.Context, id SectorID) (*Sector, error)
	ListSectors(ctx context.Context, companyID CompanyID) ([]Sector, error)

	SaveRole(ctx context.Context, r Role) error
	GetRole(ctx context.Context, id RoleID) (*Role, error)
	ListRoles(ctx context.Context, companyID CompanyID) ([]Role, error)

	SaveEmployee(ctx context.Context, e Employee) error
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)
	ListEmployees(ctx context.Context, companyID CompanyID) ([]Employee, error)
}

// =============================================================================
// SETTINGS - Periodicity configuration per company
// =============================================================================

// SettingsStore is the settings provider consumed by periodicity
// resolution. GetSettings returns (nil, nil) when the company has no
// settings record; the resolver falls back per its documented contract.
type SettingsStore interface {
	SaveSettings(ctx context.Context, s schedule.PeriodicitySettings) error
	GetSettings(ctx context.Context, companyID CompanyID) (*schedule.PeriodicitySettings, error)
}

// =============================================================================
// SCHEDULES AND RESPONSES
// =============================================================================

type ScheduleStore interface {
	SaveScheduled(ctx context.Context, sa ScheduledAssessment) error
	GetScheduled(ctx context.Context, id ScheduledID) (*ScheduledAssessment, error)
	ListScheduled(ctx context.Context, companyID CompanyID) ([]ScheduledAssessment, error)

	// ListDue returns scheduled (not yet sent) assessments whose scheduled
	// date is on or before asOf. Consumed by the dispatcher.
	ListDue(ctx context.Context, asOf schedule.TimePoint) ([]ScheduledAssessment, error)
}

type ResponseStore interface {
	SaveResponse(ctx context.Context, r Response) error
	ListResponses(ctx context.Context, companyID CompanyID) ([]Response, error)
	ListResponsesBySector(ctx context.Context, sectorID SectorID) ([]Response, error)
}
