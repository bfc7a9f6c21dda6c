/*
dto.go - Request/response data structures for the HTTP API

PURPOSE:
  Defines the JSON shapes crossing the API boundary. DTOs are separate
  from domain types so that the wire format can evolve independently and
  so that derived values (formatted dates, level labels) are rendered in
  one place.

CONVENTIONS:
  - Dates are YYYY-MM-DD strings
  - Timestamps are RFC3339 strings
  - Risk levels travel as their canonical labels (baixo/medio/alto/critico)
  - Omitted optional fields use omitempty

SEE ALSO:
  - handlers.go: Where these are populated
*/
package api

import (
	"time"

	"github.com/aegis-hse/psychorisk/assessment"
	"github.com/aegis-hse/psychorisk/planner"
	"github.com/aegis-hse/psychorisk/schedule"
)

// =============================================================================
// DIRECTORY DTOs
// =============================================================================

type CompanyDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type CreateCompanyRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SectorDTO struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id"`
	Name          string `json:"name"`
	RiskAttribute string `json:"risk_attribute,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type CreateSectorRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	RiskAttribute string `json:"risk_attribute,omitempty"`
}

type RoleDTO struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id"`
	Name          string `json:"name"`
	RiskAttribute string `json:"risk_attribute,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type CreateRoleRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	RiskAttribute string `json:"risk_attribute,omitempty"`
}

type EmployeeDTO struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	RoleID    string `json:"role_id,omitempty"`
	SectorID  string `json:"sector_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

type CreateEmployeeRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	RoleID   string `json:"role_id,omitempty"`
	SectorID string `json:"sector_id,omitempty"`
}

// =============================================================================
// SETTINGS DTOs
// =============================================================================

// SettingsDTO is the periodicity document: interval name per risk tier.
type SettingsDTO struct {
	CompanyID   string            `json:"company_id"`
	Periodicity map[string]string `json:"periodicity"`
	Default     string            `json:"default,omitempty"`
}

// =============================================================================
// SCHEDULING DTOs
// =============================================================================

type ScheduleAssessmentRequest struct {
	EmployeeID string `json:"employee_id"`
	Title      string `json:"title,omitempty"`
	Date       string `json:"date"`
	Recurrence string `json:"recurrence,omitempty"`
}

type ScheduledAssessmentDTO struct {
	ID                string `json:"id"`
	CompanyID         string `json:"company_id"`
	EmployeeID        string `json:"employee_id"`
	Title             string `json:"title,omitempty"`
	ScheduledDate     string `json:"scheduled_date"`
	Status            string `json:"status"`
	Recurrence        string `json:"recurrence"`
	NextScheduledDate string `json:"next_scheduled_date,omitempty"`
	SentAt            string `json:"sent_at,omitempty"`
	CompletedAt       string `json:"completed_at,omitempty"`
	CreatedAt         string `json:"created_at"`
}

type CompleteAssessmentRequest struct {
	ItemScores []int `json:"item_scores"`
	ScaleMax   int   `json:"scale_max,omitempty"`
}

type CompletionDTO struct {
	Response  ResponseDTO             `json:"response"`
	Completed ScheduledAssessmentDTO  `json:"completed"`
	Next      *ScheduledAssessmentDTO `json:"next,omitempty"`
}

// =============================================================================
// RESPONSE AND RISK DTOs
// =============================================================================

type ResponseDTO struct {
	ID          string  `json:"id"`
	ScheduledID string  `json:"scheduled_id"`
	CompanyID   string  `json:"company_id"`
	EmployeeID  string  `json:"employee_id"`
	SectorID    string  `json:"sector_id,omitempty"`
	ItemScores  []int   `json:"item_scores"`
	Score       float64 `json:"score"`
	Level       string  `json:"level"`
	CompletedAt string  `json:"completed_at"`
}

type SectorRiskDTO struct {
	Sector         SectorDTO `json:"sector"`
	EffectiveLevel string    `json:"effective_level,omitempty"`
	Classified     bool      `json:"classified"`
	ResponseCount  int       `json:"response_count"`
	RequiresAction bool      `json:"requires_action"`
}

type ScanSummaryDTO struct {
	CompanyID              string             `json:"company_id"`
	Success                bool               `json:"success"`
	SectorsScanned         int                `json:"sectors_scanned"`
	SectorsRequiringAction int                `json:"sectors_requiring_action"`
	PlansCreated           int                `json:"plans_created"`
	Failures               []SectorFailureDTO `json:"failures,omitempty"`
}

type SectorFailureDTO struct {
	SectorID string `json:"sector_id"`
	Error    string `json:"error"`
}

type ActionPlanDTO struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	SectorID    string `json:"sector_id"`
	Level       string `json:"level"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// =============================================================================
// MAPPING HELPERS
// =============================================================================

func toSectorDTO(s assessment.Sector) SectorDTO {
	return SectorDTO{
		ID:            string(s.ID),
		CompanyID:     string(s.CompanyID),
		Name:          s.Name,
		RiskAttribute: s.RiskAttribute,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
}

func toScheduledDTO(sa assessment.ScheduledAssessment) ScheduledAssessmentDTO {
	dto := ScheduledAssessmentDTO{
		ID:            string(sa.ID),
		CompanyID:     string(sa.CompanyID),
		EmployeeID:    string(sa.EmployeeID),
		Title:         sa.Title,
		ScheduledDate: sa.ScheduledDate.String(),
		Status:        string(sa.Status),
		Recurrence:    string(sa.Recurrence),
		CreatedAt:     sa.CreatedAt.Format(time.RFC3339),
	}
	if sa.NextScheduledDate != nil {
		dto.NextScheduledDate = sa.NextScheduledDate.String()
	}
	if sa.SentAt != nil {
		dto.SentAt = sa.SentAt.Format(time.RFC3339)
	}
	if sa.CompletedAt != nil {
		dto.CompletedAt = sa.CompletedAt.Format(time.RFC3339)
	}
	return dto
}

func toResponseDTO(r assessment.Response) ResponseDTO {
	return ResponseDTO{
		ID:          string(r.ID),
		ScheduledID: string(r.ScheduledID),
		CompanyID:   string(r.CompanyID),
		EmployeeID:  string(r.EmployeeID),
		SectorID:    string(r.SectorID),
		ItemScores:  r.ItemScores,
		Score:       r.Score.Float64(),
		Level:       string(r.Level),
		CompletedAt: r.CompletedAt.Format(time.RFC3339),
	}
}

func toSectorRiskDTO(row planner.SectorRisk) SectorRiskDTO {
	dto := SectorRiskDTO{
		Sector:         toSectorDTO(row.Sector),
		Classified:     row.Classified,
		ResponseCount:  row.ResponseCount,
		RequiresAction: row.RequiresAction,
	}
	if row.Classified {
		dto.EffectiveLevel = string(row.EffectiveLevel)
	}
	return dto
}

func toSummaryDTO(s *planner.Summary) ScanSummaryDTO {
	dto := ScanSummaryDTO{
		CompanyID:              string(s.CompanyID),
		Success:                s.Success,
		SectorsScanned:         s.SectorsScanned,
		SectorsRequiringAction: s.SectorsRequiringAction,
		PlansCreated:           s.PlansCreated,
	}
	for _, f := range s.Failures {
		dto.Failures = append(dto.Failures, SectorFailureDTO{
			SectorID: string(f.SectorID),
			Error:    f.Err.Error(),
		})
	}
	return dto
}

func toActionPlanDTO(p assessment.ActionPlan) ActionPlanDTO {
	return ActionPlanDTO{
		ID:          string(p.ID),
		CompanyID:   string(p.CompanyID),
		SectorID:    string(p.SectorID),
		Level:       string(p.Level),
		Title:       p.Title,
		Description: p.Description,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func toSettingsDTO(s *schedule.PeriodicitySettings) SettingsDTO {
	dto := SettingsDTO{
		CompanyID:   s.CompanyID,
		Periodicity: map[string]string{},
		Default:     string(s.Default),
	}
	if s.High != "" {
		dto.Periodicity["high"] = string(s.High)
	}
	if s.Medium != "" {
		dto.Periodicity["medium"] = string(s.Medium)
	}
	if s.Low != "" {
		dto.Periodicity["low"] = string(s.Low)
	}
	return dto
}
