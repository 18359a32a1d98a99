package invest

// DefaultAnnualFee is the assumed annual fund fee when the caller does not
// supply one.
const DefaultAnnualFee = 0.003

// ProjectGrowth simulates monthly compounding of a present amount plus a
// recurring contribution. The contribution is added before growth is
// applied, so each month's deposit earns that month's return. Fees reduce
// the annual return before it is divided into a monthly rate.
//
// Non-positive month counts (a deadline already passed) run zero iterations
// and return currentAmount unchanged. The function is deterministic and
// performs no clamping of negative contributions.
func ProjectGrowth(currentAmount, monthlyContribution float64, years int, annualReturn, annualFee float64) float64 {
	monthlyRate := (annualReturn - annualFee) / 12
	months := years * 12
	value := currentAmount
	for i := 0; i < months; i++ {
		value = (value + monthlyContribution) * (1 + monthlyRate)
	}
	return value
}

// ProjectGrowthDefaultFee is ProjectGrowth with the standard fee assumption.
func ProjectGrowthDefaultFee(currentAmount, monthlyContribution float64, years int, annualReturn float64) float64 {
	return ProjectGrowth(currentAmount, monthlyContribution, years, annualReturn, DefaultAnnualFee)
}
