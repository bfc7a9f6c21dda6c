// Package store provides an in-memory implementation of the assessment
// persistence interfaces, used by tests and dev mode.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/aegis-hse/psychorisk/assessment"
	"github.com/aegis-hse/psychorisk/risk"
	"github.com/aegis-hse/psychorisk/schedule"
)

// =============================================================================
// MEMORY STORE - Implements every assessment store interface plus the
// planner's queries. RWMutex-guarded maps; returned slices are copies.
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	companies map[assessment.CompanyID]assessment.Company
	sectors   map[assessment.SectorID]assessment.Sector
	roles     map[assessment.RoleID]assessment.Role
	employees map[assessment.EmployeeID]assessment.Employee
	settings  map[string]schedule.PeriodicitySettings
	scheduled map[assessment.ScheduledID]assessment.ScheduledAssessment
	responses map[assessment.ResponseID]assessment.Response
	plans     map[assessment.ActionPlanID]assessment.ActionPlan
}

func NewMemory() *Memory {
	return &Memory{
		companies: make(map[assessment.CompanyID]assessment.Company),
		sectors:   make(map[assessment.SectorID]assessment.Sector),
		roles:     make(map[assessment.RoleID]assessment.Role),
		employees: make(map[assessment.EmployeeID]assessment.Employee),
		settings:  make(map[string]schedule.PeriodicitySettings),
		scheduled: make(map[assessment.ScheduledID]assessment.ScheduledAssessment),
		responses: make(map[assessment.ResponseID]assessment.Response),
		plans:     make(map[assessment.ActionPlanID]assessment.ActionPlan),
	}
}

// =============================================================================
// DIRECTORY
// =============================================================================

func (m *Memory) SaveCompany(_ context.Context, c assessment.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[c.ID] = c
	return nil
}

func (m *Memory) GetCompany(_ context.Context, id assessment.CompanyID) (*assessment.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.companies[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *Memory) ListCompanies(_ context.Context) ([]assessment.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]assessment.Company, 0, len(m.companies))
	for _, c := range m.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveSector(_ context.Context, s assessment.Sector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sectors[s.ID] = s
	return nil
}

func (m *Memory) GetSector(_ context.Context, id assessment.SectorID) (*assessment.Sector, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sectors[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *Memory) ListSectors(_ context.Context, companyID assessment.CompanyID) ([]assessment.Sector, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []assessment.Sector
	for _, s := range m.sectors {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveRole(_ context.Context, r assessment.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[r.ID] = r
	return nil
}

func (m *Memory) GetRole(_ context.Context, id assessment.RoleID) (*assessment.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.roles[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *Memory) ListRoles(_ context.Context, companyID assessment.CompanyID) ([]assessment.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []assessment.Role
	for _, r := range m.roles {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveEmployee(_ context.Context, e assessment.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id assessment.EmployeeID) (*assessment.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.employees[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (m *Memory) ListEmployees(_ context.Context, companyID assessment.CompanyID) ([]assessment.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []assessment.Employee
	for _, e := range m.employees {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (m *Memory) SaveSettings(_ context.Context, s schedule.PeriodicitySettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[s.CompanyID] = s
	return nil
}

func (m *Memory) GetSettings(_ context.Context, companyID assessment.CompanyID) (*schedule.PeriodicitySettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.settings[string(companyID)]; ok {
		return &s, nil
	}
	return nil, nil
}

// =============================================================================
// SCHEDULED ASSESSMENTS
// =============================================================================

func (m *Memory) SaveScheduled(_ context.Context, sa assessment.ScheduledAssessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduled[sa.ID] = sa
	return nil
}

func (m *Memory) GetScheduled(_ context.Context, id assessment.ScheduledID) (*assessment.ScheduledAssessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sa, ok := m.scheduled[id]; ok {
		return &sa, nil
	}
	return nil, nil
}

func (m *Memory) ListScheduled(_ context.Context, companyID assessment.CompanyID) ([]assessment.ScheduledAssessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []assessment.ScheduledAssessment
	for _, sa := range m.scheduled {
		if sa.CompanyID == companyID {
			out = append(out, sa)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListDue(_ context.Context, asOf schedule.TimePoint) ([]assessment.ScheduledAssessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []assessment.ScheduledAssessment
	for _, sa := range m.scheduled {
		if sa.Status == assessment.StatusScheduled && sa.ScheduledDate.BeforeOrEqual(asOf) {
			out = append(out, sa)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// RESPONSES
// =============================================================================

func (m *Memory) SaveResponse(_ context.Context, r assessment.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[r.ID] = r
	return nil
}

func (m *Memory) ListResponses(_ context.Context, companyID assessment.CompanyID) ([]assessment.Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []assessment.Response
	for _, r := range m.responses {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListResponsesBySector(_ context.Context, sectorID assessment.SectorID) ([]assessment.Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []assessment.Response
	for _, r := range m.responses {
		if r.SectorID == sectorID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SectorClassifications returns the stored risk levels of all completed
// responses in a sector. Consumed by the collective risk planner.
func (m *Memory) SectorClassifications(_ context.Context, sectorID assessment.SectorID) ([]risk.Level, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []risk.Level
	for _, r := range m.responses {
		if r.SectorID == sectorID {
			out = append(out, r.Level)
		}
	}
	return out, nil
}

// =============================================================================
// ACTION PLANS
// =============================================================================

func (m *Memory) CreateActionPlan(_ context.Context, p assessment.ActionPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.ID] = p
	return nil
}

func (m *Memory) HasOpenActionPlan(_ context.Context, sectorID assessment.SectorID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.plans {
		if p.SectorID == sectorID && p.Status == assessment.ActionPlanOpen {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) ListActionPlans(_ context.Context, companyID assessment.CompanyID) ([]assessment.ActionPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []assessment.ActionPlan
	for _, p := range m.plans {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
