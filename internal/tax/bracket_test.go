package tax

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestComputeBracketTaxZeroIncome(t *testing.T) {
	res := ComputeBracketTax(0, FederalBrackets2024)
	if res.TotalTax != 0 {
		t.Fatalf("total = %v, want 0", res.TotalTax)
	}
	if len(res.Breakdown) != 0 {
		t.Fatalf("breakdown = %v, want empty", res.Breakdown)
	}
}

func TestComputeBracketTaxSingleBracket(t *testing.T) {
	res := ComputeBracketTax(10000, FederalBrackets2024)
	if !almostEqual(res.TotalTax, 1000) {
		t.Fatalf("total = %v, want 1000", res.TotalTax)
	}
	if len(res.Breakdown) != 1 {
		t.Fatalf("rows = %d, want 1", len(res.Breakdown))
	}
	row := res.Breakdown[0]
	if !almostEqual(row.Amount, 10000) || !almostEqual(row.Rate, 10) || !almostEqual(row.Tax, 1000) {
		t.Fatalf("row = %+v", row)
	}
}

func TestComputeFederalTax75k(t *testing.T) {
	// 10% of 11,600 + 12% of 35,550 + 22% of 27,850 = 12,592
	res := ComputeFederalTax(75000)
	if !almostEqual(res.TotalTax, 12592) {
		t.Fatalf("total = %v, want 12592", res.TotalTax)
	}
	want := []BracketRow{
		{Amount: 11600, Rate: 10, Tax: 1160},
		{Amount: 35550, Rate: 12, Tax: 4266},
		{Amount: 27850, Rate: 22, Tax: 6127},
	}
	if len(res.Breakdown) != len(want) {
		t.Fatalf("rows = %d, want %d", len(res.Breakdown), len(want))
	}
	for i, w := range want {
		got := res.Breakdown[i]
		if !almostEqual(got.Amount, w.Amount) || !almostEqual(got.Rate, w.Rate) || !almostEqual(got.Tax, w.Tax) {
			t.Fatalf("row %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestBreakdownSumsToTotal(t *testing.T) {
	for _, income := range []float64{0, 500, 11600, 47150.5, 120000, 700000, 3.2e6} {
		res := ComputeFederalTax(income)
		var sum float64
		for _, row := range res.Breakdown {
			sum += row.Tax
		}
		if !almostEqual(sum, res.TotalTax) {
			t.Fatalf("income %v: breakdown sums to %v, total %v", income, sum, res.TotalTax)
		}
	}
}

func TestTotalTaxMonotonic(t *testing.T) {
	prev := -1.0
	for income := 0.0; income <= 1e6; income += 7919 {
		res := ComputeFederalTax(income)
		if res.TotalTax < prev {
			t.Fatalf("tax decreased at income %v: %v < %v", income, res.TotalTax, prev)
		}
		prev = res.TotalTax
	}
}

func TestMarginalNotFlat(t *testing.T) {
	// Income just into the 22% bracket must not be taxed at 22% throughout.
	res := ComputeFederalTax(50000)
	flat := 50000 * 0.22
	if res.TotalTax >= flat {
		t.Fatalf("marginal tax %v should be below flat-rate %v", res.TotalTax, flat)
	}
}
