/*
Package factory provides JSON to Go periodicity settings conversion.

PURPOSE:
  Converts JSON periodicity documents into schedule.PeriodicitySettings.
  This enables per-company configuration without code changes - an admin
  UI writes the JSON document, and the factory produces the Go struct the
  resolver consumes.

JSON SCHEMA:
  {
    "company_id": "co-123",
    "periodicity": {
      "high": "semiannual",
      "medium": "annual",
      "low": "annual"
    },
    "default": "annual"
  }

KEY FEATURES:
  - Validates every interval name against the known recurrence types
  - Blank tiers are allowed (they fall back to default at resolve time)
  - DefaultSettings provides the shipped preset for new companies

USAGE:
  f := factory.NewSettingsFactory()
  settings, err := f.Parse(configJSON)

  // Preset for a freshly created company
  settings := factory.DefaultSettings("co-123")

SEE ALSO:
  - schedule/periodicity.go: The resolver consuming these settings
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/aegis-hse/psychorisk/schedule"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// SettingsJSON is the JSON representation of a periodicity document.
type SettingsJSON struct {
	CompanyID   string            `json:"company_id"`
	Periodicity map[string]string `json:"periodicity"`
	Default     string            `json:"default,omitempty"`
}

// =============================================================================
// SETTINGS FACTORY
// =============================================================================

// SettingsFactory converts JSON periodicity documents to Go structs.
type SettingsFactory struct{}

func NewSettingsFactory() *SettingsFactory {
	return &SettingsFactory{}
}

// Parse converts a JSON document into PeriodicitySettings, validating
// every interval name. Missing tiers stay blank; the resolver applies
// its fallback chain at lookup time.
func (f *SettingsFactory) Parse(configJSON string) (*schedule.PeriodicitySettings, error) {
	var doc SettingsJSON
	if err := json.Unmarshal([]byte(configJSON), &doc); err != nil {
		return nil, fmt.Errorf("invalid settings JSON: %w", err)
	}
	if doc.CompanyID == "" {
		return nil, fmt.Errorf("settings document missing company_id")
	}

	settings := &schedule.PeriodicitySettings{CompanyID: doc.CompanyID}

	for tier, name := range doc.Periodicity {
		rt, err := parseInterval(name, tier)
		if err != nil {
			return nil, err
		}
		switch tier {
		case "high":
			settings.High = rt
		case "medium":
			settings.Medium = rt
		case "low":
			settings.Low = rt
		default:
			return nil, fmt.Errorf("unknown periodicity tier %q", tier)
		}
	}

	if doc.Default != "" {
		rt, err := parseInterval(doc.Default, "default")
		if err != nil {
			return nil, err
		}
		settings.Default = rt
	}
	return settings, nil
}

func parseInterval(name, tier string) (schedule.RecurrenceType, error) {
	rt, ok := schedule.ParseRecurrence(name)
	if !ok {
		return "", fmt.Errorf("tier %q: unknown recurrence %q", tier, name)
	}
	return rt, nil
}

// =============================================================================
// PRESETS
// =============================================================================

// DefaultSettings is the shipped preset applied to new companies:
// high-risk tiers reassess semiannually, everything else annually.
func DefaultSettings(companyID string) *schedule.PeriodicitySettings {
	return &schedule.PeriodicitySettings{
		CompanyID: companyID,
		High:      schedule.RecurrenceSemiannual,
		Medium:    schedule.RecurrenceAnnual,
		Low:       schedule.RecurrenceAnnual,
		Default:   schedule.RecurrenceAnnual,
	}
}

// SettingsToJSON serializes settings back to the JSON document form,
// for storage and for the admin API.
func SettingsToJSON(s *schedule.PeriodicitySettings) (string, error) {
	doc := SettingsJSON{
		CompanyID:   s.CompanyID,
		Periodicity: map[string]string{},
		Default:     string(s.Default),
	}
	if s.High != "" {
		doc.Periodicity["high"] = string(s.High)
	}
	if s.Medium != "" {
		doc.Periodicity["medium"] = string(s.Medium)
	}
	if s.Low != "" {
		doc.Periodicity["low"] = string(s.Low)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal settings: %w", err)
	}
	return string(out), nil
}
