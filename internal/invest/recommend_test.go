package invest

import (
	"strings"
	"testing"

	"budgeteer/internal/core"
)

func TestRecommendStrategy(t *testing.T) {
	cases := []struct {
		name    string
		horizon int
		risk    RiskTolerance
		cur     float64
		target  float64
		want    Kind
	}{
		{"short horizon", 1, RiskLow, 0, 1000, Conservative},
		{"low risk long horizon", 20, RiskLow, 0, 1000, Conservative},
		{"nearly funded", 10, RiskHigh, 850, 1000, Conservative},
		{"medium horizon", 5, RiskHigh, 100, 1000, Moderate},
		{"medium tolerance", 10, RiskMedium, 100, 1000, Moderate},
		{"half funded", 10, RiskHigh, 600, 1000, Moderate},
		{"long and bold", 10, RiskHigh, 100, 1000, Aggressive},
		{"zero target treated as zero progress", 10, RiskHigh, 100, 0, Aggressive},
	}
	for _, tc := range cases {
		if got := RecommendStrategy(tc.horizon, tc.risk, tc.cur, tc.target); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestPresetsAllocationsSumTo100(t *testing.T) {
	for _, s := range All() {
		if err := s.Allocation.Validate(); err != nil {
			t.Fatalf("%s: %v", s.Kind, err)
		}
		if s.ExpectedReturn <= 0 {
			t.Fatalf("%s: expected return %v", s.Kind, s.ExpectedReturn)
		}
		if len(s.Recommendations) == 0 || s.Description == "" {
			t.Fatalf("%s: incomplete preset", s.Kind)
		}
	}
}

func TestGetUnknownKind(t *testing.T) {
	if _, err := Get(Kind("reckless")); err == nil {
		t.Fatalf("expected error")
	}
	if Kind("reckless").Valid() {
		t.Fatalf("unknown kind reported valid")
	}
}

func TestRebalancingWithinThreshold(t *testing.T) {
	// Moderate target is 60/30/10; deviations of <=5 points are tolerated.
	plan, err := RebalancingNeeds(core.Allocation{Stocks: 64, Bonds: 27, Cash: 9}, Moderate)
	if err != nil {
		t.Fatal(err)
	}
	if plan.NeedsRebalancing || len(plan.Recommendations) != 0 {
		t.Fatalf("plan = %+v, want no action", plan)
	}
}

func TestRebalancingDeviations(t *testing.T) {
	plan, err := RebalancingNeeds(core.Allocation{Stocks: 75, Bonds: 22, Cash: 3}, Moderate)
	if err != nil {
		t.Fatal(err)
	}
	if !plan.NeedsRebalancing {
		t.Fatalf("expected rebalancing")
	}
	if len(plan.Recommendations) != 3 {
		t.Fatalf("recommendations = %v, want one per deviating class", plan.Recommendations)
	}
	if !strings.Contains(plan.Recommendations[0], "Reduce stocks by 15.0%") {
		t.Fatalf("stocks instruction = %q", plan.Recommendations[0])
	}
	if !strings.Contains(plan.Recommendations[1], "Increase bonds by 8.0%") {
		t.Fatalf("bonds instruction = %q", plan.Recommendations[1])
	}
	if !strings.Contains(plan.Recommendations[2], "Increase cash by 7.0%") {
		t.Fatalf("cash instruction = %q", plan.Recommendations[2])
	}
}

func TestRebalancingUnknownTarget(t *testing.T) {
	if _, err := RebalancingNeeds(core.Allocation{Stocks: 60, Bonds: 30, Cash: 10}, Kind("nope")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTips(t *testing.T) {
	tips := Tips(Moderate, 2000, 10000, 2)
	if len(tips) != 3 {
		t.Fatalf("tips = %v", tips)
	}
	// (10000-2000)/24 months
	if !strings.Contains(tips[0], "$333.33") {
		t.Fatalf("monthly tip = %q", tips[0])
	}

	// Zero horizon must not divide by zero; the monthly tip is dropped.
	tips = Tips(Aggressive, 0, 10000, 0)
	for _, tip := range tips {
		if strings.Contains(tip, "$") {
			t.Fatalf("unexpected monthly tip with zero horizon: %q", tip)
		}
	}
}
