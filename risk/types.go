/*
Package risk provides the core psychosocial risk classification model.

PURPOSE:
  This package contains the domain-agnostic risk vocabulary and the pure
  classification functions built on it. Everything here is deterministic
  computation with no I/O: given a score or a pair of risk attributes, it
  always produces a risk level.

KEY CONCEPTS IN THIS FILE (types.go):
  - Level: The canonical four-tier risk vocabulary (baixo/medio/alto/critico)
  - Tier:  The three-tier attribute vocabulary used on roles and sectors
  - Score: A 0-100 assessment result backed by decimal.Decimal

TWO VOCABULARIES:
  Assessment scores classify into FOUR ordered levels (low, medium, high,
  critical). Role and sector risk attributes use a coarser THREE-tier
  vocabulary (low, medium, high). The two meet at the aggregator, where an
  explicit mapping converts between them: critical collapses to high on the
  tier side and high widens back to critical never - the mapping is lossy
  downward only. See LevelToTier and TierToLevel.

DESIGN PRINCIPLES:
  1. Purity: No function in this package can fail or touch I/O
  2. Precision: Scores use decimal.Decimal so boundary values (80.0)
     classify exactly
  3. Explicit mapping: The two vocabularies never silently conflate

SEE ALSO:
  - classify.go: Score -> Level thresholds
  - aggregate.go: Role/sector attribute merge (worst-wins)
*/
package risk

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEVEL - Canonical four-tier risk vocabulary
// =============================================================================

// Level is the canonical risk level derived from assessment scores.
// Values are the Brazilian Portuguese labels used throughout the product.
type Level string

const (
	LevelLow      Level = "baixo"
	LevelMedium   Level = "medio"
	LevelHigh     Level = "alto"
	LevelCritical Level = "critico"
)

// Rank orders levels for worst-wins comparison. Higher is worse.
func (l Level) Rank() int {
	switch l {
	case LevelLow:
		return 1
	case LevelMedium:
		return 2
	case LevelHigh:
		return 3
	case LevelCritical:
		return 4
	default:
		return 0
	}
}

// IsValid reports whether l is one of the four canonical levels.
func (l Level) IsValid() bool { return l.Rank() > 0 }

// AtLeast reports whether l is as severe as other or worse.
func (l Level) AtLeast(other Level) bool { return l.Rank() >= other.Rank() }

// Worst returns the more severe of two levels.
func (l Level) Worst(other Level) Level {
	if other.Rank() > l.Rank() {
		return other
	}
	return l
}

func (l Level) String() string { return string(l) }

// ParseLevel accepts both the Portuguese canonical spellings (including
// accented forms) and the English equivalents, case-insensitively.
// Returns false for anything else.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "baixo", "low":
		return LevelLow, true
	case "medio", "médio", "medium", "moderate":
		return LevelMedium, true
	case "alto", "high":
		return LevelHigh, true
	case "critico", "crítico", "critical":
		return LevelCritical, true
	default:
		return "", false
	}
}

// =============================================================================
// TIER - Three-tier attribute vocabulary (roles and sectors)
// =============================================================================

// Tier is the coarse risk attribute carried by roles and sectors.
// TierDefault is a sentinel meaning "no risk-derived tier applies"; callers
// resolving periodicity fall back to the configured default when they see it.
type Tier string

const (
	TierLow     Tier = "low"
	TierMedium  Tier = "medium"
	TierHigh    Tier = "high"
	TierDefault Tier = "default"
)

// Rank orders tiers for worst-wins comparison. TierDefault ranks below all.
func (t Tier) Rank() int {
	switch t {
	case TierLow:
		return 1
	case TierMedium:
		return 2
	case TierHigh:
		return 3
	default:
		return 0
	}
}

func (t Tier) String() string { return string(t) }

// ParseTier accepts English and Portuguese spellings case-insensitively.
// A critical-level input collapses to TierHigh (the tier vocabulary has no
// fourth step). Returns false for blank or unrecognized input.
func ParseTier(s string) (Tier, bool) {
	level, ok := ParseLevel(s)
	if !ok {
		return "", false
	}
	return LevelToTier(level), true
}

// =============================================================================
// VOCABULARY MAPPING - The only place the two vocabularies meet
// =============================================================================

// LevelToTier maps the four-level vocabulary onto the three-tier one.
// Critical collapses to high; this is the lossy direction.
func LevelToTier(l Level) Tier {
	switch l {
	case LevelLow:
		return TierLow
	case LevelMedium:
		return TierMedium
	case LevelHigh, LevelCritical:
		return TierHigh
	default:
		return TierDefault
	}
}

// TierToLevel maps a tier back to a level. TierDefault has no level
// counterpart and maps to the floor (low).
func TierToLevel(t Tier) Level {
	switch t {
	case TierMedium:
		return LevelMedium
	case TierHigh:
		return LevelHigh
	default:
		return LevelLow
	}
}

// =============================================================================
// SCORE - 0-100 assessment result
// =============================================================================

// Score is a single assessment's aggregate numeric result on a 0-100 scale.
// Immutable once computed. Out-of-range values are not rejected; they simply
// classify into the nearest boundary tier.
type Score struct {
	Value decimal.Decimal
}

func NewScore(value float64) Score {
	return Score{Value: decimal.NewFromFloat(value)}
}

func NewScoreFromInt(value int) Score {
	return Score{Value: decimal.NewFromInt(int64(value))}
}

func ScoreFromDecimal(d decimal.Decimal) Score { return Score{Value: d} }

func (s Score) Float64() float64 {
	f, _ := s.Value.Float64()
	return f
}

func (s Score) String() string { return s.Value.StringFixed(1) }
