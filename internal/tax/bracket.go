// Package tax implements marginal tax-bracket calculation for federal and
// state income tax estimation. All amounts are dollars as float64; the
// tables are estimation aids, not tax advice.
package tax

import "math"

type (
	// Bracket is a contiguous income range taxed at a single marginal rate.
	// Tables must be ordered ascending by Min, contiguous, and end with a
	// bracket whose Max is +Inf.
	Bracket struct {
		Min  float64
		Max  float64
		Rate float64
	}

	// BracketRow is one slice of a marginal breakdown. Rate is expressed
	// as a percentage (rate * 100) for direct display.
	BracketRow struct {
		Amount float64 `json:"amount"`
		Rate   float64 `json:"rate"`
		Tax    float64 `json:"tax"`
	}

	// Result is the total owed plus the per-bracket breakdown. TotalTax
	// always equals the sum of the rows' Tax values.
	Result struct {
		TotalTax  float64      `json:"totalTax"`
		Breakdown []BracketRow `json:"breakdown"`
	}
)

// ComputeBracketTax runs income through a marginal bracket table: each
// bracket taxes only the slice of income that falls inside it, and the
// total is the sum of the slices. Brackets the income never reaches
// contribute no row. Zero income yields zero tax and an empty breakdown.
func ComputeBracketTax(income float64, brackets []Bracket) Result {
	var res Result
	for i, b := range brackets {
		prevMax := 0.0
		if i > 0 {
			prevMax = brackets[i-1].Max
		}
		if income <= b.Min {
			continue
		}
		slice := math.Min(income-prevMax, b.Max-prevMax)
		tax := slice * b.Rate
		res.TotalTax += tax
		res.Breakdown = append(res.Breakdown, BracketRow{
			Amount: slice,
			Rate:   b.Rate * 100,
			Tax:    tax,
		})
	}
	return res
}
