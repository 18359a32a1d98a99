package insight

import (
	"strings"
	"testing"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/ledger"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func expense(cents int64, category string, date core.Date) core.Transaction {
	return core.Transaction{ID: "t", Kind: core.Expense, Amount: core.Money{Cents: cents}, Category: category, Date: date, Description: "x"}
}

func income(cents int64, date core.Date) core.Transaction {
	return core.Transaction{ID: "t", Kind: core.Income, Amount: core.Money{Cents: cents}, Category: "Other", Date: date, Description: "x"}
}

func messages(insights []Insight) []string {
	out := make([]string, len(insights))
	for i, in := range insights {
		out[i] = in.Message
	}
	return out
}

func containsMessage(t *testing.T, insights []Insight, severity Severity, fragment string) {
	t.Helper()
	for _, in := range insights {
		if in.Severity == severity && strings.Contains(in.Message, fragment) {
			return
		}
	}
	t.Errorf("no %s insight containing %q in %v", severity, fragment, messages(insights))
}

func TestEmptySnapshot(t *testing.T) {
	if got := Analyze(ledger.Snapshot{}, now); len(got) != 0 {
		t.Errorf("Analyze(empty) = %v, want none", messages(got))
	}
}

func TestHighestSpendingCategory(t *testing.T) {
	snap := ledger.Snapshot{
		Transactions: []core.Transaction{
			expense(45000, "Food", core.NewDate(2026, 6, 10)),
			expense(120000, "Housing", core.NewDate(2026, 6, 1)),
			// Outside the 30-day window, must not win.
			expense(999900, "Travel", core.NewDate(2026, 1, 1)),
		},
		Balance: core.Money{Cents: 10000000},
	}
	got := Analyze(snap, now)
	containsMessage(t, got, Info, "Your highest spending category is Housing at $1200.00")
}

func TestGoalBehindWarning(t *testing.T) {
	snap := ledger.Snapshot{
		Goals: []core.SavingsGoal{{
			ID: "g", Name: "New laptop",
			Target:   core.Money{Cents: 100000},
			Current:  core.Money{Cents: 10000}, // 10%
			Deadline: core.NewDate(2026, 7, 20), // 35 days out
		}},
	}
	got := Analyze(snap, now)
	containsMessage(t, got, Warning, `behind on your "New laptop" savings goal`)
	containsMessage(t, got, Warning, "$1000.00 by Jul 20, 2026")
}

func TestGoalAlmostDone(t *testing.T) {
	snap := ledger.Snapshot{
		Goals: []core.SavingsGoal{{
			ID: "g", Name: "Vacation",
			Target:   core.Money{Cents: 100000},
			Current:  core.Money{Cents: 95000},
			Deadline: core.NewDate(2027, 1, 1),
		}},
	}
	got := Analyze(snap, now)
	containsMessage(t, got, Success, `almost at your "Vacation" savings goal`)
}

func TestGoalOnTrackSaysNothing(t *testing.T) {
	snap := ledger.Snapshot{
		Goals: []core.SavingsGoal{{
			ID: "g", Name: "Car",
			Target:   core.Money{Cents: 100000},
			Current:  core.Money{Cents: 50000},
			Deadline: core.NewDate(2027, 1, 1),
		}},
	}
	if got := Analyze(snap, now); len(got) != 0 {
		t.Errorf("Analyze(on-track goal) = %v, want none", messages(got))
	}
}

func TestEmergencyFund(t *testing.T) {
	// $900 of expenses over 30 days, so one month is $300.
	txns := []core.Transaction{
		expense(90000, "Food", core.NewDate(2026, 6, 5)),
		income(1000000, core.NewDate(2026, 6, 1)),
	}

	low := Analyze(ledger.Snapshot{Transactions: txns, Balance: core.Money{Cents: 50000}}, now)
	containsMessage(t, low, Warning, "less than 3 months of expenses")
	containsMessage(t, low, Warning, "at least $900.00")

	healthy := Analyze(ledger.Snapshot{Transactions: txns, Balance: core.Money{Cents: 200000}}, now)
	containsMessage(t, healthy, Success, "healthy emergency fund")
}

func TestEmergencyFundOmittedWithoutExpenses(t *testing.T) {
	snap := ledger.Snapshot{
		Transactions: []core.Transaction{income(100000, core.NewDate(2026, 6, 1))},
		Balance:      core.Money{Cents: -5000},
	}
	for _, in := range Analyze(snap, now) {
		if strings.Contains(in.Message, "emergency fund") {
			t.Errorf("emergency fund insight emitted without expense data: %q", in.Message)
		}
	}
}

func TestExpenseRatio(t *testing.T) {
	high := ledger.Snapshot{
		Transactions: []core.Transaction{
			income(100000, core.NewDate(2026, 6, 1)),
			expense(95000, "Housing", core.NewDate(2026, 6, 2)),
		},
		Balance: core.Money{Cents: 10000000},
	}
	got := Analyze(high, now)
	containsMessage(t, got, Warning, "Your expenses are 95% of your income")

	lean := ledger.Snapshot{
		Transactions: []core.Transaction{
			income(100000, core.NewDate(2026, 6, 1)),
			expense(40000, "Housing", core.NewDate(2026, 6, 2)),
		},
		Balance: core.Money{Cents: 10000000},
	}
	got = Analyze(lean, now)
	containsMessage(t, got, Success, "saving 60% of your income")
}

func TestExpenseRatioOmittedWithoutIncome(t *testing.T) {
	snap := ledger.Snapshot{
		Transactions: []core.Transaction{expense(40000, "Food", core.NewDate(2026, 6, 2))},
		Balance:      core.Money{Cents: 10000000},
	}
	for _, in := range Analyze(snap, now) {
		if strings.Contains(in.Message, "of your income") {
			t.Errorf("income ratio insight emitted without income data: %q", in.Message)
		}
	}
}
