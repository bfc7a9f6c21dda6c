/*
Package planner implements the collective risk action planner: the
orchestration that scans a company's sectors, rolls up their assessment
classifications, and creates remediation action plans for the sectors
whose aggregated risk meets the configured threshold.

PURPOSE:
  Turns completed-assessment data into follow-up work. For every sector
  whose effective risk level meets or exceeds the action threshold
  (default: alto or worse), one open action plan is created - unless the
  sector already has one.

FAILURE SEMANTICS:
  Sectors are independent, so a failure analyzing one sector never aborts
  the others. Each failed sector is logged and recorded in the summary's
  failure list; the summary's Success flag is false only when the scan
  itself could not run (the sector listing failed, or the company has no
  sectors at all).

SEE ALSO:
  - risk/aggregate.go: Worst-wins rollup used per sector
  - assessment/store.go: Where the entity model is persisted
*/
package planner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aegis-hse/psychorisk/assessment"
	"github.com/aegis-hse/psychorisk/risk"
)

// DefaultActionThreshold is the minimum effective level that triggers an
// action plan: alto (high) or worse.
const DefaultActionThreshold = risk.LevelHigh

// =============================================================================
// STORE - Narrow persistence collaborator for the planner
// =============================================================================

// Store is the slice of persistence the planner needs: read per-sector
// classifications, check for existing plans, and write new ones.
type Store interface {
	ListSectors(ctx context.Context, companyID assessment.CompanyID) ([]assessment.Sector, error)
	SectorClassifications(ctx context.Context, sectorID assessment.SectorID) ([]risk.Level, error)
	HasOpenActionPlan(ctx context.Context, sectorID assessment.SectorID) (bool, error)
	CreateActionPlan(ctx context.Context, p assessment.ActionPlan) error
}

// =============================================================================
// PLANNER
// =============================================================================

type Planner struct {
	Store Store

	// Threshold is the minimum effective level requiring an action plan.
	// Zero value falls back to DefaultActionThreshold.
	Threshold risk.Level
}

func New(store Store) *Planner {
	return &Planner{Store: store, Threshold: DefaultActionThreshold}
}

func (p *Planner) threshold() risk.Level {
	if p.Threshold.IsValid() {
		return p.Threshold
	}
	return DefaultActionThreshold
}

// SectorFailure records one sector whose analysis failed during a scan.
type SectorFailure struct {
	SectorID assessment.SectorID
	Err      error
}

// Summary reports the outcome of one company-wide scan. Success is false
// only when the scan itself could not run; per-sector failures land in
// Failures without flipping it.
type Summary struct {
	CompanyID              assessment.CompanyID
	Success                bool
	SectorsScanned         int
	SectorsRequiringAction int
	PlansCreated           int
	Failures               []SectorFailure
}

// Run scans every sector of the company and creates action plans for the
// ones whose aggregated risk meets the threshold. Sectors that already
// have an open plan count as requiring action but get no duplicate plan.
func (p *Planner) Run(ctx context.Context, companyID assessment.CompanyID) (*Summary, error) {
	summary := &Summary{CompanyID: companyID}

	sectors, err := p.Store.ListSectors(ctx, companyID)
	if err != nil {
		return summary, fmt.Errorf("list sectors: %w", err)
	}
	if len(sectors) == 0 {
		// Nothing to scan: the company has no data.
		return summary, nil
	}
	summary.Success = true

	for _, sector := range sectors {
		requires, created, err := p.analyzeSector(ctx, sector)
		if err != nil {
			log.Printf("[Planner] Sector %s analysis failed: %v", sector.ID, err)
			summary.Failures = append(summary.Failures, SectorFailure{SectorID: sector.ID, Err: err})
			continue
		}
		summary.SectorsScanned++
		if requires {
			summary.SectorsRequiringAction++
		}
		if created {
			summary.PlansCreated++
		}
	}
	return summary, nil
}

// analyzeSector rolls up one sector and creates a plan when needed.
// Returns (requiresAction, planCreated, err).
func (p *Planner) analyzeSector(ctx context.Context, sector assessment.Sector) (bool, bool, error) {
	levels, err := p.Store.SectorClassifications(ctx, sector.ID)
	if err != nil {
		return false, false, fmt.Errorf("load classifications: %w", err)
	}

	effective, ok := p.effectiveLevel(sector, levels)
	if !ok || !effective.AtLeast(p.threshold()) {
		return false, false, nil
	}

	open, err := p.Store.HasOpenActionPlan(ctx, sector.ID)
	if err != nil {
		return true, false, fmt.Errorf("check open plans: %w", err)
	}
	if open {
		// Re-runs are idempotent: one open plan per sector.
		return true, false, nil
	}

	plan := assessment.ActionPlan{
		ID:          assessment.ActionPlanID(fmt.Sprintf("plan-%s-%d", sector.ID, time.Now().UnixNano())),
		CompanyID:   sector.CompanyID,
		SectorID:    sector.ID,
		Level:       effective,
		Title:       fmt.Sprintf("Plano de acao - %s", sector.Name),
		Description: fmt.Sprintf("Risco psicossocial %s identificado no setor %s", effective, sector.Name),
		Status:      assessment.ActionPlanOpen,
		CreatedAt:   time.Now().UTC(),
	}
	if err := p.Store.CreateActionPlan(ctx, plan); err != nil {
		return true, false, fmt.Errorf("create action plan: %w", err)
	}
	return true, true, nil
}

// effectiveLevel merges the sector's classified responses with its own
// risk attribute, worst-wins. ok=false when neither source says anything.
func (p *Planner) effectiveLevel(sector assessment.Sector, levels []risk.Level) (risk.Level, bool) {
	worst, found := risk.AggregateLevels(levels)

	if tier, ok := risk.ParseTier(sector.RiskAttribute); ok {
		attrLevel := risk.TierToLevel(tier)
		if !found || attrLevel.Rank() > worst.Rank() {
			worst = attrLevel
		}
		found = true
	}
	return worst, found
}

// =============================================================================
// REPORTING - Sector risk summaries without side effects
// =============================================================================

// SectorRisk is one row of the sector risk report.
type SectorRisk struct {
	Sector         assessment.Sector
	EffectiveLevel risk.Level
	Classified     bool // false when the sector has no data at all
	ResponseCount  int
	RequiresAction bool
}

// Summaries computes the per-sector risk rollup without creating plans.
// Used by the reporting API. Per-sector failures are skipped and logged,
// same isolation rule as Run.
func (p *Planner) Summaries(ctx context.Context, companyID assessment.CompanyID) ([]SectorRisk, error) {
	sectors, err := p.Store.ListSectors(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list sectors: %w", err)
	}

	out := make([]SectorRisk, 0, len(sectors))
	for _, sector := range sectors {
		levels, err := p.Store.SectorClassifications(ctx, sector.ID)
		if err != nil {
			log.Printf("[Planner] Sector %s summary failed: %v", sector.ID, err)
			continue
		}
		effective, ok := p.effectiveLevel(sector, levels)
		out = append(out, SectorRisk{
			Sector:         sector,
			EffectiveLevel: effective,
			Classified:     ok,
			ResponseCount:  len(levels),
			RequiresAction: ok && effective.AtLeast(p.threshold()),
		})
	}
	return out, nil
}
