package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/invest"
	"budgeteer/internal/ledger"
	"budgeteer/internal/reminder"
)

const dateLayout = "2006-01-02"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps store misses to 404 and everything else to 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, reminder.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func parseDate(s string) (core.Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return core.Date{Time: t}, nil
}

// --- wire shapes ---

type transactionPayload struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type transactionView struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

func viewTransaction(t core.Transaction) transactionView {
	return transactionView{
		ID:          t.ID,
		Type:        string(t.Kind),
		Amount:      t.Amount.Dollars(),
		Category:    t.Category,
		Date:        t.Date.Format(dateLayout),
		Description: t.Description,
	}
}

// parseTransaction validates the wire payload against the closed category
// set and the core rules.
func (s *Server) parseTransaction(p transactionPayload) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(p.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount %q", p.Amount)
	}
	date, err := parseDate(p.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	category := sanitizeInput(p.Category)
	if !s.categories.Contains(category) {
		return core.Transaction{}, fmt.Errorf("unknown category %q", category)
	}

	t := core.Transaction{
		Kind:        core.Kind(strings.TrimSpace(p.Type)),
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Date:        date,
		Description: sanitizeInput(p.Description),
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

type goalPayload struct {
	Name     string `json:"name"`
	Target   string `json:"target"`
	Current  string `json:"current,omitempty"`
	Deadline string `json:"deadline"`
	Strategy string `json:"strategy,omitempty"`
}

type allocationView struct {
	Stocks int `json:"stocks"`
	Bonds  int `json:"bonds"`
	Cash   int `json:"cash"`
}

type goalView struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Target          float64            `json:"targetAmount"`
	Current         float64            `json:"currentAmount"`
	Deadline        string             `json:"deadline"`
	Progress        float64            `json:"progress"`
	DaysLeft        int                `json:"daysLeft"`
	Strategy        string             `json:"strategy,omitempty"`
	MonthlyProgress map[string]float64 `json:"monthlyProgress,omitempty"`
	Allocation      *allocationView    `json:"currentAllocation,omitempty"`
	LastRebalanced  string             `json:"lastRebalanced,omitempty"`
}

func viewGoal(g core.SavingsGoal, now time.Time) goalView {
	v := goalView{
		ID:       g.ID,
		Name:     g.Name,
		Target:   g.Target.Dollars(),
		Current:  g.Current.Dollars(),
		Deadline: g.Deadline.Format(dateLayout),
		Progress: g.ProgressRatio() * 100,
		DaysLeft: g.DaysLeft(now),
		Strategy: g.Strategy,
	}
	if len(g.MonthlyProgress) > 0 {
		v.MonthlyProgress = make(map[string]float64, len(g.MonthlyProgress))
		for label, m := range g.MonthlyProgress {
			v.MonthlyProgress[label] = m.Dollars()
		}
	}
	if g.CurrentAllocation != nil {
		v.Allocation = &allocationView{
			Stocks: g.CurrentAllocation.Stocks,
			Bonds:  g.CurrentAllocation.Bonds,
			Cash:   g.CurrentAllocation.Cash,
		}
	}
	if g.LastRebalanced != nil {
		v.LastRebalanced = g.LastRebalanced.Format(dateLayout)
	}
	return v
}

func (s *Server) parseGoal(p goalPayload) (core.SavingsGoal, error) {
	targetCents, err := core.ParseDecimalToCents(p.Target)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("invalid target %q", p.Target)
	}
	deadline, err := parseDate(p.Deadline)
	if err != nil {
		return core.SavingsGoal{}, err
	}

	strategy := strings.TrimSpace(p.Strategy)
	if strategy != "" && !invest.Kind(strategy).Valid() {
		return core.SavingsGoal{}, fmt.Errorf("unknown strategy %q", strategy)
	}

	g := core.SavingsGoal{
		Name:     sanitizeInput(p.Name),
		Target:   core.Money{Cents: targetCents},
		Deadline: deadline,
		Strategy: strategy,
	}
	if p.Current != "" {
		cents, err := core.ParseDecimalToCents(p.Current)
		if err != nil {
			return core.SavingsGoal{}, fmt.Errorf("invalid current amount %q", p.Current)
		}
		g.Current = core.Money{Cents: cents}
	}
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	return g, nil
}

type reminderPayload struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

type reminderView struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Text string `json:"text"`
}

func viewReminder(r core.Reminder) reminderView {
	return reminderView{ID: r.ID, Date: r.Date.Format(dateLayout), Text: r.Text}
}
