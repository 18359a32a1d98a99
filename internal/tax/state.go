package tax

import "math"

// StateRates is the statutory top (or flat) rate per state, 2024 figures.
// A zero entry means the state levies no income tax.
var StateRates = map[string]float64{
	"Alabama":        0.05,
	"Alaska":         0,
	"Arizona":        0.045,
	"Arkansas":       0.055,
	"California":     0.133,
	"Colorado":       0.0463,
	"Connecticut":    0.0699,
	"Delaware":       0.066,
	"Florida":        0,
	"Georgia":        0.0575,
	"Hawaii":         0.11,
	"Idaho":          0.058,
	"Illinois":       0.0495,
	"Indiana":        0.0323,
	"Iowa":           0.0575,
	"Kansas":         0.057,
	"Kentucky":       0.05,
	"Louisiana":      0.0425,
	"Maine":          0.0715,
	"Maryland":       0.0575,
	"Massachusetts":  0.05,
	"Michigan":       0.0425,
	"Minnesota":      0.0985,
	"Mississippi":    0.05,
	"Missouri":       0.054,
	"Montana":        0.068,
	"Nebraska":       0.0684,
	"Nevada":         0,
	"New Hampshire":  0.05,
	"New Jersey":     0.1075,
	"New Mexico":     0.059,
	"New York":       0.109,
	"North Carolina": 0.0499,
	"North Dakota":   0.029,
	"Ohio":           0.0399,
	"Oklahoma":       0.0475,
	"Oregon":         0.099,
	"Pennsylvania":   0.0307,
	"Rhode Island":   0.0599,
	"South Carolina": 0.07,
	"South Dakota":   0,
	"Tennessee":      0,
	"Texas":          0,
	"Utah":           0.0485,
	"Vermont":        0.0875,
	"Virginia":       0.0575,
	"Washington":     0,
	"West Virginia":  0.065,
	"Wisconsin":      0.0765,
	"Wyoming":        0,
}

// StateBrackets holds explicit progressive tables for the states we model
// beyond a flat rate. Only California and New York carry full tables; every
// other state is treated as flat at its statutory rate even where the real
// tax code is progressive. That is a documented simplification of this
// estimator, not an omission to fix.
var StateBrackets = map[string][]Bracket{
	"California": {
		{Min: 0, Max: 10099, Rate: 0.01},
		{Min: 10099, Max: 23942, Rate: 0.02},
		{Min: 23942, Max: 37788, Rate: 0.04},
		{Min: 37788, Max: 52455, Rate: 0.06},
		{Min: 52455, Max: 66295, Rate: 0.08},
		{Min: 66295, Max: 338639, Rate: 0.093},
		{Min: 338639, Max: 406364, Rate: 0.103},
		{Min: 406364, Max: 677275, Rate: 0.113},
		{Min: 677275, Max: math.Inf(1), Rate: 0.123},
	},
	"New York": {
		{Min: 0, Max: 8500, Rate: 0.04},
		{Min: 8500, Max: 11700, Rate: 0.045},
		{Min: 11700, Max: 13900, Rate: 0.0525},
		{Min: 13900, Max: 80650, Rate: 0.055},
		{Min: 80650, Max: 215400, Rate: 0.06},
		{Min: 215400, Max: 1077550, Rate: 0.0685},
		{Min: 1077550, Max: 5000000, Rate: 0.0965},
		{Min: 5000000, Max: 25000000, Rate: 0.103},
		{Min: 25000000, Max: math.Inf(1), Rate: 0.109},
	},
}

// KnownState reports whether the given state is in the jurisdiction set.
func KnownState(state string) bool {
	_, ok := StateRates[state]
	return ok
}

// ComputeStateTax estimates state income tax. No-income-tax states return a
// single zero-rate row covering the full income, so the caller can render
// "no state income tax" instead of an empty breakdown. States with an
// explicit table get the full marginal treatment; everything else is flat
// at the statutory rate. Unknown states fall back to a zero rate to keep
// the dashboard usable with incomplete configuration.
func ComputeStateTax(income float64, state string) Result {
	rate, known := StateRates[state]

	if known && rate == 0 {
		return Result{
			TotalTax:  0,
			Breakdown: []BracketRow{{Amount: income, Rate: 0, Tax: 0}},
		}
	}

	if brackets, ok := StateBrackets[state]; ok {
		return ComputeBracketTax(income, brackets)
	}

	if !known {
		rate = 0
	}
	return Result{
		TotalTax:  income * rate,
		Breakdown: []BracketRow{{Amount: income, Rate: rate * 100, Tax: income * rate}},
	}
}

// EstimateCombined returns the total federal + state estimate using a
// piecewise closed form for the federal side. It matches ComputeFederalTax
// on the 2024 table and exists for the quick-estimate card, which needs a
// single number rather than a breakdown. State tax is always the flat
// statutory rate here, including for California and New York.
func EstimateCombined(income float64, state string) float64 {
	stateTax := income * StateRates[state]

	var federalTax float64
	switch {
	case income <= 11600:
		federalTax = income * 0.10
	case income <= 47150:
		federalTax = 1160 + (income-11600)*0.12
	case income <= 100525:
		federalTax = 5426 + (income-47150)*0.22
	case income <= 191950:
		federalTax = 17168.50 + (income-100525)*0.24
	case income <= 243725:
		federalTax = 39110.50 + (income-191950)*0.32
	case income <= 609350:
		federalTax = 55678.50 + (income-243725)*0.35
	default:
		federalTax = 183647.25 + (income-609350)*0.37
	}

	return stateTax + federalTax
}
