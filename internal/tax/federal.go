package tax

import "math"

// FederalBrackets2024 is the 2024 federal table for a single filer.
var FederalBrackets2024 = []Bracket{
	{Min: 0, Max: 11600, Rate: 0.10},
	{Min: 11600, Max: 47150, Rate: 0.12},
	{Min: 47150, Max: 100525, Rate: 0.22},
	{Min: 100525, Max: 191950, Rate: 0.24},
	{Min: 191950, Max: 243725, Rate: 0.32},
	{Min: 243725, Max: 609350, Rate: 0.35},
	{Min: 609350, Max: math.Inf(1), Rate: 0.37},
}

// ComputeFederalTax estimates federal income tax with the 2024 brackets.
func ComputeFederalTax(income float64) Result {
	return ComputeBracketTax(income, FederalBrackets2024)
}
