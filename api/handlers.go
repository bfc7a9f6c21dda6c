/*
handlers.go - HTTP API handlers for the psychosocial risk service

PURPOSE:
  Exposes the assessment and risk-management domain via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Companies:
    GET    /api/companies                     List companies
    POST   /api/companies                     Create company
    GET    /api/companies/{companyID}         Get company

  Per company:
    GET/POST /api/companies/{companyID}/sectors
    GET/POST /api/companies/{companyID}/roles
    GET/POST /api/companies/{companyID}/employees
    GET/PUT  /api/companies/{companyID}/settings      Periodicity document
    GET/POST /api/companies/{companyID}/assessments   List / schedule
    GET      /api/companies/{companyID}/responses
    GET      /api/companies/{companyID}/risk/sectors  Sector risk report
    POST     /api/companies/{companyID}/risk/scan     Run the action planner
    GET      /api/companies/{companyID}/action-plans

  Assessments:
    GET    /api/assessments/{id}
    POST   /api/assessments/{id}/send         Mark dispatched
    POST   /api/assessments/{id}/complete     Record response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input (reason codes: date_required,
         date_invalid, date_in_past)
  - 404: Resource not found
  - 409: Disallowed lifecycle transition
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aegis-hse/psychorisk/assessment"
	"github.com/aegis-hse/psychorisk/factory"
	"github.com/aegis-hse/psychorisk/planner"
	"github.com/aegis-hse/psychorisk/schedule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// PlanStore is the full persistence surface the API needs. Both the
// SQLite store and the in-memory store satisfy it.
type PlanStore interface {
	assessment.DirectoryStore
	assessment.SettingsStore
	assessment.ScheduleStore
	assessment.ResponseStore
	planner.Store

	ListActionPlans(ctx context.Context, companyID assessment.CompanyID) ([]assessment.ActionPlan, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   PlanStore
	Service *assessment.Service
	Planner *planner.Planner
	Factory *factory.SettingsFactory
}

// NewHandler creates a handler wired over one store implementation.
func NewHandler(store PlanStore) *Handler {
	return &Handler{
		Store:   store,
		Service: assessment.NewService(store, store, store, store),
		Planner: planner.New(store),
		Factory: factory.NewSettingsFactory(),
	}
}

// =============================================================================
// COMPANY HANDLERS
// =============================================================================

// ListCompanies returns all companies.
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Store.ListCompanies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list companies", err)
		return
	}

	dtos := make([]CompanyDTO, len(companies))
	for i, c := range companies {
		dtos[i] = CompanyDTO{
			ID:        string(c.ID),
			Name:      c.Name,
			CreatedAt: c.CreatedAt.Format(timestampLayout),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCompany creates a new company and applies the default periodicity
// preset so scheduling works out of the box.
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	c := assessment.Company{ID: assessment.CompanyID(req.ID), Name: req.Name}
	if err := h.Store.SaveCompany(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create company", err)
		return
	}

	if err := h.Store.SaveSettings(r.Context(), *factory.DefaultSettings(req.ID)); err != nil {
		log.Printf("[API] Failed to apply default settings for %s: %v", req.ID, err)
	}

	writeJSON(w, http.StatusCreated, CompanyDTO{ID: req.ID, Name: req.Name})
}

// GetCompany returns a single company.
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id := assessment.CompanyID(chi.URLParam(r, "companyID"))

	c, err := h.Store.GetCompany(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get company", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Company not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, CompanyDTO{
		ID:        string(c.ID),
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Format(timestampLayout),
	})
}

// =============================================================================
// SECTOR, ROLE, EMPLOYEE HANDLERS
// =============================================================================

// ListSectors returns the sectors of a company.
func (h *Handler) ListSectors(w http.ResponseWriter, r *http.Request) {
	companyID := assessment.CompanyID(chi.URLParam(r, "companyID"))

	sectors, err := h.Store.ListSectors(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sectors", err)
		return
	}

	dtos := make([]SectorDTO, len(sectors))
	for i, s := range sectors {
		dtos[i] = toSectorDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateSector creates a sector under a company. The risk attribute, when
// set, must name a known tier.
func (h *Handler) CreateSector(w http.ResponseWriter, r *http.Request) {
	companyID := assessment.CompanyID(chi.URLParam(r, "companyID"))

	var req CreateSectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if !validRiskAttribute(req.RiskAttribute) {
		writeError(w, http.StatusBadRequest, "Unknown risk_attribute (use low/medium/high)", nil)
		return
	}

	s := assessment.Sector{
		ID:            assessment.SectorID(req.ID),
		CompanyID:     companyID,
		Name:          req.Name,
		RiskAttribute: req.RiskAttribute,
	}
	if err := h.Store.SaveSector(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create sector", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSectorDTO(s))
}

// ListRoles returns the roles of a company.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	companyID := assessment.CompanyID(chi.URLParam(r, "companyID"))

	roles, err := h.Store.ListRoles(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list roles", err)
		return
	}

	dtos := make([]RoleDTO, len(roles))
	for i, role := range roles {
		dtos[i] = RoleDTO{
			ID:            string(role.ID),
			CompanyID:     string(role.CompanyID),
			Name:          role.Name,
			RiskAttribute: role.RiskAttribute,
			CreatedAt:     role.CreatedAt.Format(timestampLayout),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateRole creates a role under a company.
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	companyID := assessment.CompanyID(chi.URLParam(r, "companyID"))

	var req CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if !validRiskAttribute(req.RiskAttribute) {
		writeError(w, http.StatusBadRequest, "Unknown risk_attribute (use low/medium/high)", nil)
		return
	}

	role := assessment.Role{
		ID:            assessment.RoleID(req.ID),
		CompanyID:     companyID,
		Name:          req.Name,
		RiskAttribute: req.RiskAttribute,
	}
	if err := h.Store.SaveRole(r.Context(), role); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create role", err)
		return
	}
	writeJSON(w, http.StatusCreated, RoleDTO{
		ID:            req.ID,
		CompanyID:     string(companyID),
		Name:          req.Name,
		RiskAttribute: req.RiskAttribute,
	})
}

// ListEmployees returns the employees of a company.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	companyID := assessment.CompanyID(chi.URLParam(r, "companyID"))

	employees, err := h.Store.ListEmployees(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = EmployeeDTO{
			ID:        string(e.ID),
			CompanyID: string(e.CompanyID),
			Name:      e.Name,
			Email:     e.Email,
			RoleID:    string(e.RoleID),
			SectorID:  string(e.SectorID),
			CreatedAt: e.CreatedAt.Format(timestampLayout),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates an employee under a company. The referenced role
// and sector, when set, must exist and belong to the same company.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	companyID := assessment.CompanyID(chi.URLParam(r, "companyID"))

	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	if req.SectorID != "" {
		sector, err := h.Store.GetSector(r.Context(), assessment.SectorID(req.SectorID))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to check sector", err)
			return
		}
		if sector == nil || sector.CompanyID != companyID {
			writeError(w, http.StatusBadRequest, "Unknown sector_id", nil)
			return
		}
	}
	if req.RoleID != "" {
		role, err := h.Store.GetRole(r.Context(), assessment.RoleID(req.RoleID))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to check role", err)
			return
		}
		if role == nil || role.CompanyID != companyID {
			writeError(w, http.StatusBadRequest, "Unknown role_id", nil)
			return
		}
	}

	e := assessment.Employee{
		ID:        assessment.EmployeeID(req.ID),
		CompanyID: companyID,
		Name:      req.Name,
		Email:     req.Email,
		RoleID:    assessment.RoleID(req.RoleID),
		SectorID:  assessment.SectorID(req.SectorID),
	}
	if err := h.Store.SaveEmployee(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, EmployeeDTO{
		ID:        req.ID,
		CompanyID: string(companyID),
		Name:      req.Name,
		Email:     req.Email,
		RoleID:    req.RoleID,
		SectorID:  req.SectorID,
	})
}

// =============================================================================
// PERIODICITY SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the company's periodicity document. Companies with
// no stored settings get the annual-fallback preset view.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	companyID := assessment.CompanyID(chi.URLParam(r, "companyID"))

	settings, err := h.Store.GetSettings(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get settings", err)
		return
	}
	if settings == nil {
		// Unset companies resolve to the annual fallback.
		fallback := schedule.PeriodicitySettings{
			CompanyID: string(companyID),
			Default:   schedule.FallbackRecurrence,
		}
		writeJSON(w, http.StatusOK, toSettingsDTO(&fallback))
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(settings))
}

// PutSettings replaces the company's periodicity document. The body is the
// same JSON schema the settings factory validates.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	companyID := assessment.CompanyID(chi.URLParam(r, "companyID"))

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settings, err := h.Factory.Parse(string(raw))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings document", err)
		return
	}
	if settings.CompanyID != string(companyID) {
		writeError(w, http.StatusBadRequest, "company_id does not match URL", nil)
		return
	}

	if err := h.Store.SaveSettings(r.Context(), *settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(settings))
}

// =============================================================================
// ASSESSMENT HANDLERS
// =============================================================================

// ListAssessments returns the scheduled assessments of a company.
func (h *Handler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	companyID := assessment.CompanyID(chi.URLParam(r, "companyID"))

	items, err := h.Store.ListScheduled(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assessments", err)
		return
	}

	dtos := make([]ScheduledAssessmentDTO, len(items))
	for i, sa := range items {
		dtos[i] = toScheduledDTO(sa)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ScheduleAssessment creates a scheduled assessment for an employee.
func (h *Handler) ScheduleAssessment(w http.ResponseWriter, r *http.Request) {
	companyID := assessment.CompanyID(chi.URLParam(r, "companyID"))

	var req ScheduleAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sa, err := h.Service.Schedule(r.Context(), assessment.ScheduleRequest{
		CompanyID:  companyID,
		EmployeeID: assessment.EmployeeID(req.EmployeeID),
		Title:      req.Title,
		Date:       req.Date,
		Recurrence: req.Recurrence,
	})
	if err != nil {
		writeDomainError(w, "Failed to schedule assessment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toScheduledDTO(*sa))
}

// GetAssessment returns one scheduled assessment.
func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	id := assessment.ScheduledID(chi.URLParam(r, "id"))

	sa, err := h.Store.GetScheduled(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get assessment", err)
		return
	}
	if sa == nil {
		writeError(w, http.StatusNotFound, "Assessment not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toScheduledDTO(*sa))
}

// SendAssessment marks a scheduled assessment as dispatched.
func (h *Handler) SendAssessment(w http.ResponseWriter, r *http.Request) {
	id := assessment.ScheduledID(chi.URLParam(r, "id"))

	sa, err := h.Service.MarkSent(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to send assessment", err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduledDTO(*sa))
}

// CompleteAssessment records a response and, for recurring assessments,
// returns the materialized follow-up occurrence.
func (h *Handler) CompleteAssessment(w http.ResponseWriter, r *http.Request) {
	id := assessment.ScheduledID(chi.URLParam(r, "id"))

	var req CompleteAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	scaleMax := req.ScaleMax
	if scaleMax == 0 {
		scaleMax = assessment.DefaultScaleMax
	}

	result, err := h.Service.Complete(r.Context(), id, req.ItemScores, scaleMax)
	if err != nil {
		writeDomainError(w, "Failed to complete assessment", err)
		return
	}

	dto := CompletionDTO{
		Response:  toResponseDTO(result.Response),
		Completed: toScheduledDTO(result.Completed),
	}
	if result.Next != nil {
		next := toScheduledDTO(*result.Next)
		dto.Next = &next
	}
	writeJSON(w, http.StatusOK, dto)
}

// ListResponses returns the completed responses of a company.
func (h *Handler) ListResponses(w http.ResponseWriter, r *http.Request) {
	companyID := assessment.CompanyID(chi.URLParam(r, "companyID"))

	responses, err := h.Store.ListResponses(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list responses", err)
		return
	}

	dtos := make([]ResponseDTO, len(responses))
	for i, resp := range responses {
		dtos[i] = toResponseDTO(resp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RISK AND ACTION PLAN HANDLERS
// =============================================================================

// SectorRiskReport returns the per-sector risk rollup without side effects.
func (h *Handler) SectorRiskReport(w http.ResponseWriter, r *http.Request) {
	companyID := assessment.CompanyID(chi.URLParam(r, "companyID"))

	rows, err := h.Planner.Summaries(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build sector risk report", err)
		return
	}

	dtos := make([]SectorRiskDTO, len(rows))
	for i, row := range rows {
		dtos[i] = toSectorRiskDTO(row)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RunRiskScan runs the collective risk planner over the company.
func (h *Handler) RunRiskScan(w http.ResponseWriter, r *http.Request) {
	companyID := assessment.CompanyID(chi.URLParam(r, "companyID"))

	summary, err := h.Planner.Run(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Risk scan failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// ListActionPlans returns the action plans of a company.
func (h *Handler) ListActionPlans(w http.ResponseWriter, r *http.Request) {
	companyID := assessment.CompanyID(chi.URLParam(r, "companyID"))

	plans, err := h.Store.ListActionPlans(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list action plans", err)
		return
	}

	dtos := make([]ActionPlanDTO, len(plans))
	for i, p := range plans {
		dtos[i] = toActionPlanDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

const timestampLayout = "2006-01-02T15:04:05Z07:00"

func validRiskAttribute(attr string) bool {
	switch attr {
	case "", "low", "medium", "high":
		return true
	}
	return false
}

// errorResponse is the JSON error envelope. Reason carries the stable
// machine-readable code for validation failures.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Error: message}
	if err != nil {
		resp.Detail = err.Error()
		resp.Reason = schedule.ReasonCode(err)
	}
	writeJSON(w, status, resp)
}

// writeDomainError translates domain errors into HTTP statuses: validation
// failures are 400 (with their reason code), absences 404, disallowed
// lifecycle transitions 409, everything else 500.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case schedule.IsValidationError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case assessment.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, assessment.ErrInvalidStatus):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, assessment.ErrUnknownRecurrence),
		errors.Is(err, assessment.ErrNoItemScores):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
