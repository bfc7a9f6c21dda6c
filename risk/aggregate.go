/*
aggregate.go - Worst-wins merge of role and sector risk attributes

PURPOSE:
  An employee carries two independent risk indicators: the risk attribute
  on their role and the one on their sector. Periodicity resolution needs a
  single effective tier, so the two are merged with a precedence rule.

PRECEDENCE (not an average):
  if either input is high   -> high
  else if either is medium  -> medium
  else if either is low     -> low
  else                      -> default (sentinel: no risk-derived tier)

  The worse indicator always wins, regardless of argument order. Inputs are
  compared case-insensitively and accept both English and Portuguese
  spellings; blank or unrecognized inputs are treated as absent.

SEE ALSO:
  - types.go: Tier vocabulary and ParseTier
  - schedule/periodicity.go: What consumes the effective tier
*/
package risk

// Aggregate merges two optional risk attribute strings into one effective
// tier. Empty or unrecognized inputs count as absent; both absent yields
// TierDefault. Pure; never fails.
func Aggregate(roleLevel, sectorLevel string) Tier {
	effective := TierDefault
	rank := 0

	for _, raw := range [2]string{roleLevel, sectorLevel} {
		tier, ok := ParseTier(raw)
		if !ok {
			continue
		}
		if tier.Rank() > rank {
			effective = tier
			rank = tier.Rank()
		}
	}
	return effective
}

// AggregateLevels merges classified assessment levels into the worst level
// seen. An empty slice yields ok=false. Used by the action planner when
// rolling up a sector's completed responses.
func AggregateLevels(levels []Level) (Level, bool) {
	worst := Level("")
	found := false
	for _, l := range levels {
		if !l.IsValid() {
			continue
		}
		if !found || l.Rank() > worst.Rank() {
			worst = l
			found = true
		}
	}
	return worst, found
}
