package tax

import (
	"math"
	"testing"
)

func TestStateRatesCoverAllStates(t *testing.T) {
	if len(StateRates) != 50 {
		t.Fatalf("state table has %d entries, want 50", len(StateRates))
	}
	for state, brackets := range StateBrackets {
		if !KnownState(state) {
			t.Fatalf("bracket table for unknown state %q", state)
		}
		if !math.IsInf(brackets[len(brackets)-1].Max, 1) {
			t.Fatalf("%s: final bracket must be unbounded", state)
		}
	}
}

func TestComputeStateTaxZeroRateState(t *testing.T) {
	res := ComputeStateTax(80000, "Texas")
	if res.TotalTax != 0 {
		t.Fatalf("total = %v, want 0", res.TotalTax)
	}
	// The zero-rate row is deliberate: it lets the UI show "no state income
	// tax" instead of an empty table.
	if len(res.Breakdown) != 1 {
		t.Fatalf("rows = %d, want 1", len(res.Breakdown))
	}
	row := res.Breakdown[0]
	if row.Amount != 80000 || row.Rate != 0 || row.Tax != 0 {
		t.Fatalf("row = %+v", row)
	}
}

func TestComputeStateTaxFlatState(t *testing.T) {
	for _, income := range []float64{0, 1000, 64000, 250000} {
		res := ComputeStateTax(income, "Pennsylvania")
		want := income * 0.0307
		if !almostEqual(res.TotalTax, want) {
			t.Fatalf("income %v: total = %v, want %v", income, res.TotalTax, want)
		}
		if len(res.Breakdown) != 1 {
			t.Fatalf("rows = %d, want 1", len(res.Breakdown))
		}
		if !almostEqual(res.Breakdown[0].Rate, 3.07) {
			t.Fatalf("rate = %v, want 3.07", res.Breakdown[0].Rate)
		}
	}
}

func TestComputeStateTaxProgressive(t *testing.T) {
	res := ComputeStateTax(50000, "California")
	// 1% of 10,099 + 2% of 13,843 + 4% of 13,846 + 6% of 12,212
	want := 10099*0.01 + 13843*0.02 + 13846*0.04 + 12212*0.06
	if !almostEqual(res.TotalTax, want) {
		t.Fatalf("total = %v, want %v", res.TotalTax, want)
	}
	if len(res.Breakdown) != 4 {
		t.Fatalf("rows = %d, want 4", len(res.Breakdown))
	}
	var sum float64
	for _, row := range res.Breakdown {
		sum += row.Tax
	}
	if !almostEqual(sum, res.TotalTax) {
		t.Fatalf("breakdown sums to %v, total %v", sum, res.TotalTax)
	}
}

func TestComputeStateTaxNewYorkDelegates(t *testing.T) {
	// New York must use its bracket table, not the 10.9% statutory top rate.
	res := ComputeStateTax(60000, "New York")
	flat := 60000 * StateRates["New York"]
	if res.TotalTax >= flat {
		t.Fatalf("progressive total %v should be below flat %v", res.TotalTax, flat)
	}
}

func TestComputeStateTaxUnknownState(t *testing.T) {
	// Unknown jurisdictions fall back to a zero rate rather than failing.
	res := ComputeStateTax(50000, "Atlantis")
	if res.TotalTax != 0 {
		t.Fatalf("total = %v, want 0", res.TotalTax)
	}
	if len(res.Breakdown) != 1 || res.Breakdown[0].Rate != 0 {
		t.Fatalf("breakdown = %+v", res.Breakdown)
	}
}

func TestEstimateCombinedMatchesBracketEngine(t *testing.T) {
	// The piecewise federal form must agree with the bracket engine,
	// including exactly at bracket boundaries.
	incomes := []float64{0, 5000, 11600, 30000, 47150, 75000, 100525, 191950, 243725, 609350, 1e6}
	for _, income := range incomes {
		combined := EstimateCombined(income, "Texas") // zero state rate isolates federal
		bracket := ComputeFederalTax(income).TotalTax
		if !almostEqual(combined, bracket) {
			t.Fatalf("income %v: piecewise %v != bracket %v", income, combined, bracket)
		}
	}
}

func TestEstimateCombinedAddsFlatState(t *testing.T) {
	income := 75000.0
	got := EstimateCombined(income, "Colorado")
	want := ComputeFederalTax(income).TotalTax + income*0.0463
	if !almostEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
