// Package invest holds the investment strategy presets and the projection
// and recommendation logic built on them.
package invest

import (
	"fmt"

	"budgeteer/internal/core"
)

// Kind is the tagged identifier of a strategy preset.
type Kind string

const (
	Conservative Kind = "conservative"
	Moderate     Kind = "moderate"
	Aggressive   Kind = "aggressive"
)

// RiskTolerance expresses how much volatility an investor accepts.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// Strategy is an immutable preset. The three instances below are process-wide
// constants; goals reference them by Kind and never copy-and-mutate them.
type Strategy struct {
	Kind            Kind
	Allocation      core.Allocation
	ExpectedReturn  float64
	Description     string
	Recommendations []string
	RiskLevel       RiskTolerance
	MinTimeframe    string
	Fees            string
	Rebalancing     string
}

var strategies = map[Kind]Strategy{
	Conservative: {
		Kind:           Conservative,
		Allocation:     core.Allocation{Stocks: 30, Bonds: 50, Cash: 20},
		ExpectedReturn: 0.05,
		Description:    "Lower risk, stable returns. Ideal for short-term goals or risk-averse investors.",
		Recommendations: []string{
			"High-yield savings accounts (2-3% APY)",
			"Government bonds (Treasury Bills)",
			"Short-term corporate bonds",
			"Blue-chip dividend stocks",
		},
		RiskLevel:    RiskLow,
		MinTimeframe: "1-3 years",
		Fees:         "Low (0.1-0.3% expense ratio)",
		Rebalancing:  "Quarterly",
	},
	Moderate: {
		Kind:           Moderate,
		Allocation:     core.Allocation{Stocks: 60, Bonds: 30, Cash: 10},
		ExpectedReturn: 0.08,
		Description:    "Balanced approach with moderate growth potential and risk.",
		Recommendations: []string{
			"Total market index funds",
			"Investment-grade corporate bonds",
			"Real Estate Investment Trusts (REITs)",
			"International developed markets",
		},
		RiskLevel:    RiskMedium,
		MinTimeframe: "3-7 years",
		Fees:         "Moderate (0.2-0.5% expense ratio)",
		Rebalancing:  "Semi-annually",
	},
	Aggressive: {
		Kind:           Aggressive,
		Allocation:     core.Allocation{Stocks: 80, Bonds: 15, Cash: 5},
		ExpectedReturn: 0.10,
		Description:    "Higher risk with potential for greater returns. Suitable for long-term goals.",
		Recommendations: []string{
			"Growth stocks and small-cap funds",
			"Emerging markets ETFs",
			"High-yield corporate bonds",
			"Sector-specific investments",
		},
		RiskLevel:    RiskHigh,
		MinTimeframe: "7+ years",
		Fees:         "Higher (0.5-0.8% expense ratio)",
		Rebalancing:  "Annually",
	},
}

// Get returns the preset for a kind.
func Get(k Kind) (Strategy, error) {
	s, ok := strategies[k]
	if !ok {
		return Strategy{}, fmt.Errorf("unknown strategy %q", k)
	}
	return s, nil
}

// All returns the presets in increasing risk order.
func All() []Strategy {
	return []Strategy{strategies[Conservative], strategies[Moderate], strategies[Aggressive]}
}

func (k Kind) Valid() bool {
	_, ok := strategies[k]
	return ok
}
