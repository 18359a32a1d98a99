package invest

import (
	"fmt"

	"budgeteer/internal/core"
)

// RecommendStrategy maps a goal's time horizon, the investor's risk
// tolerance, and how far along the goal already is to one of the three
// presets. First matching rule wins: short horizons, low tolerance, or a
// goal that is mostly funded all push toward preservation; the aggressive
// preset is reserved for long horizons with high tolerance and plenty of
// ground left to cover.
func RecommendStrategy(timeHorizonYears int, risk RiskTolerance, currentAmount, targetAmount float64) Kind {
	progress := 0.0
	if targetAmount > 0 {
		progress = currentAmount / targetAmount
	}

	switch {
	case timeHorizonYears < 3 || risk == RiskLow || progress > 0.8:
		return Conservative
	case timeHorizonYears < 7 || risk == RiskMedium || progress > 0.5:
		return Moderate
	default:
		return Aggressive
	}
}

// rebalanceThreshold is the absolute deviation, in percentage points, that
// triggers a rebalancing recommendation for an asset class.
const rebalanceThreshold = 5

// RebalancePlan is the outcome of comparing a current allocation against a
// target strategy's allocation.
type RebalancePlan struct {
	NeedsRebalancing bool     `json:"needsRebalancing"`
	Recommendations  []string `json:"recommendations"`
}

// RebalancingNeeds flags any asset class whose share deviates from the
// target by more than the threshold and emits one adjustment instruction
// per deviating class.
func RebalancingNeeds(current core.Allocation, target Kind) (RebalancePlan, error) {
	strategy, err := Get(target)
	if err != nil {
		return RebalancePlan{}, err
	}
	want := strategy.Allocation

	var plan RebalancePlan
	classes := []struct {
		name      string
		have, due int
	}{
		{"stocks", current.Stocks, want.Stocks},
		{"bonds", current.Bonds, want.Bonds},
		{"cash", current.Cash, want.Cash},
	}
	for _, c := range classes {
		diff := c.have - c.due
		if diff > rebalanceThreshold {
			plan.Recommendations = append(plan.Recommendations,
				fmt.Sprintf("Reduce %s by %.1f%%", c.name, float64(diff)))
		} else if -diff > rebalanceThreshold {
			plan.Recommendations = append(plan.Recommendations,
				fmt.Sprintf("Increase %s by %.1f%%", c.name, float64(-diff)))
		}
	}
	plan.NeedsRebalancing = len(plan.Recommendations) > 0
	return plan, nil
}

// Tips produces the per-strategy guidance shown next to a goal's
// projection. The monthly-amount tip is skipped for non-positive horizons.
func Tips(strategy Kind, currentAmount, targetAmount float64, timeHorizonYears int) []string {
	var tips []string

	if timeHorizonYears > 0 && targetAmount > currentAmount {
		monthlyNeeded := (targetAmount - currentAmount) / float64(timeHorizonYears*12)
		tips = append(tips, fmt.Sprintf("Consider setting up automatic monthly investments of $%.2f", monthlyNeeded))
	}

	switch strategy {
	case Conservative:
		tips = append(tips,
			"Focus on preserving capital while earning steady returns",
			"Look for high-yield savings accounts and short-term bonds")
	case Moderate:
		tips = append(tips,
			"Maintain a balanced portfolio between growth and stability",
			"Consider dollar-cost averaging into index funds")
	default:
		tips = append(tips,
			"Be prepared for market volatility and stay invested long-term",
			"Consider increasing contributions during market downturns")
	}

	return tips
}
