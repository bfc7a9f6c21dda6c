/*
scoring.go - Response scoring

PURPOSE:
  Rolls a questionnaire's item scores up into a single 0-100 aggregate.
  The aggregate is the mean of the item scores normalized to the 0-100
  scale, computed with decimal arithmetic so boundary values classify
  exactly (a mean that lands on 80.0 must be critical, not high).

SCALE:
  Items are scored on a 1..scaleMax Likert scale (the product uses 1-5).
  normalized = mean(items) / scaleMax * 100

SEE ALSO:
  - risk/classify.go: Where the aggregate score is classified
*/
package assessment

import (
	"github.com/shopspring/decimal"

	"github.com/aegis-hse/psychorisk/risk"
)

// DefaultScaleMax is the item scale used by the standard questionnaire.
const DefaultScaleMax = 5

// ScoreResponse computes the 0-100 aggregate score for a set of item
// scores on a 1..scaleMax scale. Returns ErrNoItemScores for an empty
// response; individual item values are not range-validated, matching the
// classifier's policy of leaving acceptability judgment to the caller.
func ScoreResponse(itemScores []int, scaleMax int) (risk.Score, error) {
	if len(itemScores) == 0 {
		return risk.Score{}, ErrNoItemScores
	}
	if scaleMax <= 0 {
		scaleMax = DefaultScaleMax
	}

	sum := decimal.Zero
	for _, item := range itemScores {
		sum = sum.Add(decimal.NewFromInt(int64(item)))
	}

	mean := sum.Div(decimal.NewFromInt(int64(len(itemScores))))
	normalized := mean.Div(decimal.NewFromInt(int64(scaleMax))).Mul(decimal.NewFromInt(100))
	return risk.ScoreFromDecimal(normalized), nil
}
