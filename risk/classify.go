/*
classify.go - Score classification thresholds

PURPOSE:
  Maps a numeric psychosocial score (0-100) to one of the four canonical
  risk levels using fixed thresholds.

THRESHOLDS:
  score >= 80  -> critico
  score >= 60  -> alto
  score >= 40  -> medio
  otherwise    -> baixo

  Boundaries are inclusive on the lower bound of each tier: exactly 80 is
  critical, exactly 60 is high, exactly 40 is medium.

RANGE POLICY:
  Inputs are not range-validated. Negative scores classify as low and
  scores above 100 classify as critical. The classifier always returns a
  value; "is this score acceptable" is the caller's judgment.

SEE ALSO:
  - types.go: Level and Score definitions
  - assessment/scoring.go: Where scores are produced
*/
package risk

import "github.com/shopspring/decimal"

// Classification thresholds. Lower bound of each tier, inclusive.
var (
	thresholdCritical = decimal.NewFromInt(80)
	thresholdHigh     = decimal.NewFromInt(60)
	thresholdMedium   = decimal.NewFromInt(40)
)

// Classify maps a score to its risk level. Pure; never fails.
func Classify(s Score) Level {
	switch {
	case s.Value.GreaterThanOrEqual(thresholdCritical):
		return LevelCritical
	case s.Value.GreaterThanOrEqual(thresholdHigh):
		return LevelHigh
	case s.Value.GreaterThanOrEqual(thresholdMedium):
		return LevelMedium
	default:
		return LevelLow
	}
}
