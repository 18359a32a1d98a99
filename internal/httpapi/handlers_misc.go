package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/insight"
	"budgeteer/internal/invest"
	"budgeteer/internal/tax"
)

type strategyView struct {
	Name            string         `json:"name"`
	Allocation      allocationView `json:"allocation"`
	ExpectedReturn  float64        `json:"expectedReturn"`
	Description     string         `json:"description"`
	Recommendations []string       `json:"recommendations"`
	RiskLevel       string         `json:"riskLevel"`
	MinTimeframe    string         `json:"minTimeframe"`
	Fees            string         `json:"fees"`
	Rebalancing     string         `json:"rebalancing"`
}

func viewStrategy(s invest.Strategy) strategyView {
	return strategyView{
		Name: string(s.Kind),
		Allocation: allocationView{
			Stocks: s.Allocation.Stocks,
			Bonds:  s.Allocation.Bonds,
			Cash:   s.Allocation.Cash,
		},
		ExpectedReturn:  s.ExpectedReturn,
		Description:     s.Description,
		Recommendations: s.Recommendations,
		RiskLevel:       string(s.RiskLevel),
		MinTimeframe:    s.MinTimeframe,
		Fees:            s.Fees,
		Rebalancing:     s.Rebalancing,
	}
}

func (s *Server) handleListStrategies(w http.ResponseWriter, _ *http.Request) {
	all := invest.All()
	views := make([]strategyView, 0, len(all))
	for _, st := range all {
		views = append(views, viewStrategy(st))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var p struct {
		TimeHorizonYears int     `json:"timeHorizonYears"`
		RiskTolerance    string  `json:"riskTolerance"`
		CurrentAmount    float64 `json:"currentAmount"`
		TargetAmount     float64 `json:"targetAmount"`
	}
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	risk := invest.RiskTolerance(strings.TrimSpace(p.RiskTolerance))
	switch risk {
	case invest.RiskLow, invest.RiskMedium, invest.RiskHigh:
	default:
		writeError(w, http.StatusUnprocessableEntity, "riskTolerance must be low, medium, or high")
		return
	}

	kind := invest.RecommendStrategy(p.TimeHorizonYears, risk, p.CurrentAmount, p.TargetAmount)
	strategy, err := invest.Get(kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Recommended string       `json:"recommended"`
		Strategy    strategyView `json:"strategy"`
	}{Recommended: string(kind), Strategy: viewStrategy(strategy)})
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	var (
		items []core.Reminder
		err   error
	)
	if due := r.URL.Query().Get("due"); due != "" {
		day, perr := parseDate(due)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		items, err = s.reminders.DueOn(r.Context(), day)
	} else {
		items, err = s.reminders.List(r.Context())
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "List reminders failed", "error", err)
		writeServiceError(w, err)
		return
	}

	views := make([]reminderView, 0, len(items))
	for _, item := range items {
		views = append(views, viewReminder(item))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var p reminderPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := parseDate(p.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.reminders.Add(r.Context(), core.Reminder{Date: date, Text: sanitizeInput(p.Text)})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, viewReminder(created))
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := s.reminders.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.ledger.Balance(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Balance failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Balance float64 `json:"balance"`
	}{Balance: balance.Dollars()})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Categories []string `json:"categories"`
	}{Categories: s.categories.Names()})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ledger.SnapshotView(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot failed", "error", err)
		writeServiceError(w, err)
		return
	}
	insights := insight.Analyze(snap, time.Now())
	s.metrics.RecordInsightRun()
	writeJSON(w, http.StatusOK, insights)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year := time.Now().Year()
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		year = y
	}
	state := strings.TrimSpace(q.Get("state"))
	if state == "" {
		state = s.defaultState
	}

	months, err := s.ledger.MonthlyOverview(r.Context(), year, state)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly overview failed", "error", err, "year", year)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, months)
}

func (s *Server) handleTaxEstimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	income, err := strconv.ParseFloat(q.Get("income"), 64)
	if err != nil || income < 0 {
		writeError(w, http.StatusBadRequest, "income must be a non-negative number")
		return
	}
	state := strings.TrimSpace(q.Get("state"))
	if state == "" {
		state = s.defaultState
	}

	federal := tax.ComputeFederalTax(income)
	stateResult := tax.ComputeStateTax(income, state)
	total := federal.TotalTax + stateResult.TotalTax

	resp := struct {
		Income        float64    `json:"income"`
		State         string     `json:"state"`
		Federal       tax.Result `json:"federal"`
		StateTax      tax.Result `json:"state_tax"`
		TotalTax      float64    `json:"totalTax"`
		EffectiveRate float64    `json:"effectiveRate"`
		QuickEstimate float64    `json:"quickEstimate"`
	}{
		Income:        income,
		State:         state,
		Federal:       federal,
		StateTax:      stateResult,
		TotalTax:      total,
		QuickEstimate: tax.EstimateCombined(income, state),
	}
	if income > 0 {
		resp.EffectiveRate = total / income * 100
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWeather(w http.ResponseWriter, _ *http.Request) {
	if s.weather == nil {
		writeError(w, http.StatusServiceUnavailable, "weather not configured")
		return
	}
	reading, ok := s.weather.Current()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no weather reading yet")
		return
	}
	writeJSON(w, http.StatusOK, reading)
}
