/*
periodicity.go - Per-tenant periodicity settings and tier resolution

PURPOSE:
  Each company configures how often assessments recur per risk tier. This
  file defines that settings record and the lookup that turns an effective
  risk tier into a recurrence interval.

FALLBACK CONTRACT:
  The observed product was inconsistent here (annual in one call path,
  none in another). This implementation pins ONE rule: when settings are
  entirely absent the resolver returns annual. RecurrenceNone is only ever
  an explicit administrator choice, never a fallback.

NO GLOBAL STATE:
  Settings are a plain value passed into every Resolve call. There is no
  module-level cache; loading and caching belong to the settings provider.

SEE ALSO:
  - risk/aggregate.go: Where the effective tier comes from
  - factory/settings.go: Parsing settings from JSON configuration
*/
package schedule

import "github.com/aegis-hse/psychorisk/risk"

// FallbackRecurrence is returned when no settings record exists for a
// tenant. Documented contract: absent settings mean annual, never none.
const FallbackRecurrence = RecurrenceAnnual

// =============================================================================
// PERIODICITY SETTINGS - One record per company
// =============================================================================

// PeriodicitySettings holds one recurrence interval per risk tier plus a
// default. Created once per company, mutated by administrators, read by
// Resolve. A blank tier entry falls back to Default.
type PeriodicitySettings struct {
	CompanyID string

	High    RecurrenceType
	Medium  RecurrenceType
	Low     RecurrenceType
	Default RecurrenceType
}

// forTier returns the configured interval for a tier, blank if unset.
func (ps *PeriodicitySettings) forTier(tier risk.Tier) RecurrenceType {
	switch tier {
	case risk.TierHigh:
		return ps.High
	case risk.TierMedium:
		return ps.Medium
	case risk.TierLow:
		return ps.Low
	default:
		return ""
	}
}

// =============================================================================
// RESOLVER - Tier to recurrence lookup
// =============================================================================

// Resolve maps an effective risk tier to the configured recurrence interval.
// Lookup order:
//  1. settings nil        -> FallbackRecurrence
//  2. tier configured     -> that interval
//  3. tier default/unset  -> settings.Default
//  4. Default also unset  -> FallbackRecurrence
//
// Pure lookup; never fails.
func Resolve(tier risk.Tier, settings *PeriodicitySettings) RecurrenceType {
	if settings == nil {
		return FallbackRecurrence
	}
	if rt := settings.forTier(tier); rt != "" && rt.IsValid() {
		return rt
	}
	if settings.Default != "" && settings.Default.IsValid() {
		return settings.Default
	}
	return FallbackRecurrence
}
