package planner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-hse/psychorisk/assessment"
	"github.com/aegis-hse/psychorisk/assessment/store"
	"github.com/aegis-hse/psychorisk/planner"
	"github.com/aegis-hse/psychorisk/risk"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// seedThreeSectors loads the canonical scenario: sector A classifies
// critico, sector B baixo, sector C alto.
func seedThreeSectors(t *testing.T) *store.Memory {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()

	require.NoError(t, mem.SaveCompany(ctx, assessment.Company{ID: "co-1", Name: "Acme"}))
	for _, s := range []assessment.Sector{
		{ID: "sec-a", CompanyID: "co-1", Name: "Mineração"},
		{ID: "sec-b", CompanyID: "co-1", Name: "Administrativo"},
		{ID: "sec-c", CompanyID: "co-1", Name: "Logística"},
	} {
		require.NoError(t, mem.SaveSector(ctx, s))
	}

	responses := []struct {
		id     assessment.ResponseID
		sector assessment.SectorID
		score  float64
	}{
		{"r-1", "sec-a", 90}, // critico
		{"r-2", "sec-a", 30},
		{"r-3", "sec-b", 10}, // baixo
		{"r-4", "sec-c", 65}, // alto
	}
	for _, r := range responses {
		score := risk.NewScore(r.score)
		require.NoError(t, mem.SaveResponse(ctx, assessment.Response{
			ID:        r.id,
			CompanyID: "co-1",
			SectorID:  r.sector,
			Score:     score,
			Level:     risk.Classify(score),
		}))
	}
	return mem
}

// failingStore wraps the memory store and fails classification reads for
// one chosen sector.
type failingStore struct {
	*store.Memory
	failSector assessment.SectorID
}

func (f *failingStore) SectorClassifications(ctx context.Context, sectorID assessment.SectorID) ([]risk.Level, error) {
	if sectorID == f.failSector {
		return nil, errors.New("injected store failure")
	}
	return f.Memory.SectorClassifications(ctx, sectorID)
}

// =============================================================================
// SCAN SCENARIOS
// =============================================================================

func TestRun_CreatesPlansForHighAndAbove(t *testing.T) {
	// GIVEN: Sectors classifying critico (A), baixo (B), alto (C)
	// WHEN: Scanning with the default threshold (alto or above)
	// THEN: A and C require action and get one plan each

	mem := seedThreeSectors(t)
	ctx := context.Background()

	summary, err := planner.New(mem).Run(ctx, "co-1")
	require.NoError(t, err)

	assert.True(t, summary.Success)
	assert.Equal(t, 3, summary.SectorsScanned)
	assert.Equal(t, 2, summary.SectorsRequiringAction)
	assert.Equal(t, 2, summary.PlansCreated)
	assert.Empty(t, summary.Failures)

	plans, err := mem.ListActionPlans(ctx, "co-1")
	require.NoError(t, err)
	require.Len(t, plans, 2)

	byLevel := map[assessment.SectorID]risk.Level{}
	for _, p := range plans {
		assert.Equal(t, assessment.ActionPlanOpen, p.Status)
		byLevel[p.SectorID] = p.Level
	}
	assert.Equal(t, risk.LevelCritical, byLevel["sec-a"])
	assert.Equal(t, risk.LevelHigh, byLevel["sec-c"])
}

func TestRun_PerSectorFailureDoesNotAbortOthers(t *testing.T) {
	// GIVEN: The same 3 sectors, with a failure injected only for B
	// WHEN: Scanning
	// THEN: A and C are still analyzed and planned; B lands in Failures;
	//       the scan itself still succeeds

	mem := seedThreeSectors(t)
	failing := &failingStore{Memory: mem, failSector: "sec-b"}
	ctx := context.Background()

	summary, err := planner.New(failing).Run(ctx, "co-1")
	require.NoError(t, err)

	assert.True(t, summary.Success)
	assert.GreaterOrEqual(t, summary.SectorsScanned, 2)
	assert.Equal(t, 2, summary.SectorsRequiringAction)
	assert.Equal(t, 2, summary.PlansCreated)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, assessment.SectorID("sec-b"), summary.Failures[0].SectorID)
}

func TestRun_IdempotentAcrossReruns(t *testing.T) {
	mem := seedThreeSectors(t)
	ctx := context.Background()
	p := planner.New(mem)

	first, err := p.Run(ctx, "co-1")
	require.NoError(t, err)
	assert.Equal(t, 2, first.PlansCreated)

	second, err := p.Run(ctx, "co-1")
	require.NoError(t, err)
	assert.Equal(t, 2, second.SectorsRequiringAction)
	assert.Equal(t, 0, second.PlansCreated, "open plans must not be duplicated")

	plans, err := mem.ListActionPlans(ctx, "co-1")
	require.NoError(t, err)
	assert.Len(t, plans, 2)
}

func TestRun_NoSectors_NotSuccessful(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.SaveCompany(ctx, assessment.Company{ID: "co-empty"}))

	summary, err := planner.New(mem).Run(ctx, "co-empty")
	require.NoError(t, err)
	assert.False(t, summary.Success, "scan over a company with no data cannot succeed")
	assert.Zero(t, summary.SectorsScanned)
}

func TestRun_SectorAttributeCountsTowardEffectiveLevel(t *testing.T) {
	// A sector with no responses but a high risk attribute still requires
	// an action plan.
	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.SaveSector(ctx, assessment.Sector{
		ID: "sec-x", CompanyID: "co-2", Name: "Fundição", RiskAttribute: "high",
	}))

	summary, err := planner.New(mem).Run(ctx, "co-2")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SectorsRequiringAction)
	assert.Equal(t, 1, summary.PlansCreated)
}

func TestRun_CustomThreshold(t *testing.T) {
	mem := seedThreeSectors(t)
	p := planner.New(mem)
	p.Threshold = risk.LevelCritical

	summary, err := p.Run(context.Background(), "co-1")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SectorsRequiringAction, "only sec-a reaches critico")
}

// =============================================================================
// REPORTING
// =============================================================================

func TestSummaries_RollupWithoutSideEffects(t *testing.T) {
	mem := seedThreeSectors(t)
	ctx := context.Background()

	rows, err := planner.New(mem).Summaries(ctx, "co-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byID := map[assessment.SectorID]planner.SectorRisk{}
	for _, row := range rows {
		byID[row.Sector.ID] = row
	}
	assert.Equal(t, risk.LevelCritical, byID["sec-a"].EffectiveLevel)
	assert.True(t, byID["sec-a"].RequiresAction)
	assert.Equal(t, risk.LevelLow, byID["sec-b"].EffectiveLevel)
	assert.False(t, byID["sec-b"].RequiresAction)
	assert.Equal(t, 2, byID["sec-a"].ResponseCount)

	// Reporting never writes plans.
	plans, err := mem.ListActionPlans(ctx, "co-1")
	require.NoError(t, err)
	assert.Empty(t, plans)
}
