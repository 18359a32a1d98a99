// Package insight derives advisory messages from a ledger snapshot. Every
// rule is independent and recomputed from scratch on each call; rules with
// missing data (no income, no expenses, no goals) contribute nothing rather
// than a degenerate message.
package insight

import (
	"fmt"
	"math"
	"sort"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/ledger"
)

type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Success Severity = "success"
)

type Insight struct {
	Severity Severity `json:"type"`
	Message  string   `json:"message"`
}

const (
	recentWindow = 30 * 24 * time.Hour

	goalBehindProgress = 25.0
	goalBehindDays     = 60
	goalAlmostProgress = 90.0

	expenseWarnRatio = 0.9
	expenseGoodRatio = 0.6
)

// Analyze runs all rules over the snapshot. The order of the returned
// insights is fixed: spending pattern, goal progress, emergency fund,
// income ratio.
func Analyze(s ledger.Snapshot, now time.Time) []Insight {
	var out []Insight

	cutoff := now.Add(-recentWindow)
	var recentIncome, recentExpenses core.Money
	byCategory := make(map[string]core.Money)
	for _, t := range s.Transactions {
		if t.Date.Before(cutoff) {
			continue
		}
		switch t.Kind {
		case core.Income:
			recentIncome = recentIncome.Add(t.Amount)
		case core.Expense:
			recentExpenses = recentExpenses.Add(t.Amount)
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
		}
	}

	if top, amount, ok := highestCategory(byCategory); ok {
		out = append(out, Insight{
			Severity: Info,
			Message: fmt.Sprintf("Your highest spending category is %s at %s in the last 30 days.",
				top, core.FormatUSD(amount.Cents)),
		})
	}

	for _, g := range s.Goals {
		if g.Target.Cents <= 0 {
			continue
		}
		progress := float64(g.Current.Cents) / float64(g.Target.Cents) * 100
		daysLeft := g.DaysLeft(now)

		switch {
		case progress < goalBehindProgress && daysLeft < goalBehindDays:
			out = append(out, Insight{
				Severity: Warning,
				Message: fmt.Sprintf("You're behind on your %q savings goal. Consider increasing your monthly contribution to reach %s by %s.",
					g.Name, core.FormatUSD(g.Target.Cents), g.Deadline.Format("Jan 2, 2006")),
			})
		case progress >= goalAlmostProgress:
			out = append(out, Insight{
				Severity: Success,
				Message:  fmt.Sprintf("Great job! You're almost at your %q savings goal!", g.Name),
			})
		}
	}

	// Trailing 30 days approximates one month of spending; without any
	// recent expenses the fund size is unknowable, so say nothing.
	if recentExpenses.Cents > 0 {
		monthly := core.Money{Cents: recentExpenses.Cents / 3}
		switch {
		case s.Balance.Cents < monthly.Cents*3:
			out = append(out, Insight{
				Severity: Warning,
				Message: fmt.Sprintf("Your current balance is less than 3 months of expenses. Consider building an emergency fund of at least %s.",
					core.FormatUSD(monthly.Cents*3)),
			})
		case s.Balance.Cents >= monthly.Cents*6:
			out = append(out, Insight{
				Severity: Success,
				Message:  "You have a healthy emergency fund! Consider investing any excess funds for long-term growth.",
			})
		}
	}

	if recentIncome.Cents > 0 {
		ratio := float64(recentExpenses.Cents) / float64(recentIncome.Cents)
		switch {
		case ratio > expenseWarnRatio:
			out = append(out, Insight{
				Severity: Warning,
				Message: fmt.Sprintf("Your expenses are %d%% of your income. Try to keep this below 90%% for better financial health.",
					int(math.Round(ratio*100))),
			})
		case ratio < expenseGoodRatio:
			out = append(out, Insight{
				Severity: Success,
				Message: fmt.Sprintf("Great job keeping your expenses low! You're saving %d%% of your income.",
					int(math.Round((1-ratio)*100))),
			})
		}
	}

	return out
}

// highestCategory picks the category with the largest spend; ties resolve
// alphabetically so repeated calls agree.
func highestCategory(totals map[string]core.Money) (string, core.Money, bool) {
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		top    string
		amount core.Money
	)
	for _, name := range names {
		if totals[name].Cents > amount.Cents {
			top, amount = name, totals[name]
		}
	}
	return top, amount, amount.Cents > 0
}
