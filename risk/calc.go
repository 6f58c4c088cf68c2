package risk

import "math"

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// PlannedRisk is the account-currency amount lost if the stop is hit:
// |entry - stop| * size * multiplier, where multiplier turns one unit of
// size into price exposure (100000 for a standard FX lot). The sign of
// size is kept, so a negative size yields a negative risk that callers
// treat as unusable.
func PlannedRisk(entry, stop, size, multiplier float64) float64 {
	return abs(entry-stop) * size * multiplier
}

// RMultiple expresses profit as a multiple of the planned risk. ok is
// false when nothing was at risk.
func RMultiple(profit, plannedRisk float64) (r float64, ok bool) {
	if plannedRisk <= 0 {
		return 0, false
	}
	return profit / plannedRisk, true
}

// RR is the planned reward:risk ratio implied by entry, stop and target.
func RR(entry, stop, takeProfit float64) float64 {
	risk := abs(entry - stop)
	reward := abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

// Kelly returns the Kelly fraction for a strategy with the given win and
// loss probabilities (0..1) and average win/loss ratio. It is 0 when the
// ratio is not positive. The result can be negative, meaning the edge is
// negative and nothing should be risked.
func Kelly(winProb, lossProb, riskReward float64) float64 {
	if riskReward <= 0 || math.IsInf(riskReward, 0) || math.IsNaN(riskReward) {
		return 0
	}
	return winProb - lossProb/riskReward
}
