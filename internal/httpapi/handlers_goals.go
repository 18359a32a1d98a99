package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/invest"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.ledger.Goals(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List goals failed", "error", err)
		writeServiceError(w, err)
		return
	}
	now := time.Now()
	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, viewGoal(g, now))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var p goalPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := s.parseGoal(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.ledger.AddGoal(r.Context(), g)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create goal failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewGoal(created, time.Now()))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var p goalPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := s.parseGoal(p)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	g.ID = r.PathValue("id")

	// Preserve tracking state across the wholesale replacement.
	existing, err := s.ledger.Goal(r.Context(), g.ID)
	if err == nil {
		g.MonthlyProgress = existing.MonthlyProgress
		g.CurrentAllocation = existing.CurrentAllocation
		g.LastRebalanced = existing.LastRebalanced
	}

	if err := s.ledger.UpdateGoal(r.Context(), g); err != nil {
		slog.ErrorContext(r.Context(), "Update goal failed", "error", err, "id", g.ID)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewGoal(g, time.Now()))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.DeleteGoal(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete goal failed", "error", err, "id", id)
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Amount string `json:"amount"`
	}
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cents, err := core.ParseDecimalToCents(p.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount "+strconv.Quote(p.Amount))
		return
	}

	g, err := s.ledger.Contribute(r.Context(), r.PathValue("id"), core.Money{Cents: cents})
	if err != nil {
		slog.ErrorContext(r.Context(), "Contribute failed", "error", err, "id", r.PathValue("id"))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewGoal(g, time.Now()))
}

func (s *Server) handleSetProgress(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Month  string `json:"month"`
		Amount string `json:"amount"`
	}
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cents, err := core.ParseDecimalToCents(p.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount "+strconv.Quote(p.Amount))
		return
	}

	g, err := s.ledger.SetMonthlyProgress(r.Context(), r.PathValue("id"), strings.TrimSpace(p.Month), core.Money{Cents: cents})
	if err != nil {
		if strings.Contains(err.Error(), "invalid month label") {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Set monthly progress failed", "error", err, "id", r.PathValue("id"))
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewGoal(g, time.Now()))
}

type projectionView struct {
	Strategy            string   `json:"strategy"`
	AnnualReturn        float64  `json:"annualReturn"`
	Years               int      `json:"years"`
	MonthlyContribution float64  `json:"monthlyContribution"`
	ProjectedValue      float64  `json:"projectedValue"`
	TargetAmount        float64  `json:"targetAmount"`
	ReachesTarget       bool     `json:"reachesTarget"`
	Tips                []string `json:"tips"`
}

// handleProjection runs the compound growth projection for a goal using its
// strategy's expected return. Query: years (required), monthly (required),
// strategy (optional override).
func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	g, err := s.ledger.Goal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	q := r.URL.Query()
	years, err := strconv.Atoi(q.Get("years"))
	if err != nil || years < 0 {
		writeError(w, http.StatusBadRequest, "years must be a non-negative integer")
		return
	}
	monthly, err := strconv.ParseFloat(q.Get("monthly"), 64)
	if err != nil || monthly < 0 {
		writeError(w, http.StatusBadRequest, "monthly must be a non-negative number")
		return
	}

	kind := invest.Kind(q.Get("strategy"))
	if kind == "" {
		kind = invest.Kind(g.Strategy)
	}
	if kind == "" {
		kind = invest.Moderate
	}
	strategy, err := invest.Get(kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	projected := invest.ProjectGrowthDefaultFee(g.Current.Dollars(), monthly, years, strategy.ExpectedReturn)
	writeJSON(w, http.StatusOK, projectionView{
		Strategy:            string(strategy.Kind),
		AnnualReturn:        strategy.ExpectedReturn,
		Years:               years,
		MonthlyContribution: monthly,
		ProjectedValue:      projected,
		TargetAmount:        g.Target.Dollars(),
		ReachesTarget:       projected >= g.Target.Dollars(),
		Tips:                invest.Tips(strategy.Kind, g.Current.Dollars(), g.Target.Dollars(), years),
	})
}

// handleRebalance compares the goal's tracked allocation against its
// strategy's target.
func (s *Server) handleRebalance(w http.ResponseWriter, r *http.Request) {
	g, err := s.ledger.Goal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if g.CurrentAllocation == nil {
		writeError(w, http.StatusUnprocessableEntity, "goal has no tracked allocation")
		return
	}
	kind := invest.Kind(g.Strategy)
	if !kind.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "goal has no valid strategy")
		return
	}

	plan, err := invest.RebalancingNeeds(*g.CurrentAllocation, kind)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
