package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budgeteer/internal/ledger"
	"budgeteer/internal/ledger/memory"
	"budgeteer/internal/reminder"
	"budgeteer/internal/taxonomy"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer("127.0.0.1:0", ledger.New(memory.New()), reminder.New(), taxonomy.Default(),
		WithDefaultState("Texas"))
	t.Cleanup(func() { s.rateLimiter.stop() })
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestTransactionLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/transactions", transactionPayload{
		Type: "income", Amount: "500.00", Category: "Other", Date: "2026-06-01", Description: "Paycheck",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, body %s", rec.Code, rec.Body.String())
	}
	var created transactionView
	decode(t, rec, &created)
	if created.ID == "" || created.Amount != 500 {
		t.Fatalf("created = %+v", created)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/transactions", transactionPayload{
		Type: "expense", Amount: "200.00", Category: "Food", Date: "2026-06-02", Description: "Groceries",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/balance", nil)
	var balance struct {
		Balance float64 `json:"balance"`
	}
	decode(t, rec, &balance)
	if balance.Balance != 300 {
		t.Errorf("balance = %v, want 300", balance.Balance)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/transactions", nil)
	var list []transactionView
	decode(t, rec, &list)
	if len(list) != 2 {
		t.Fatalf("list returned %d transactions", len(list))
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete twice = %d, want 404", rec.Code)
	}
}

func TestCreateTransactionRejectsUnknownCategory(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/transactions", transactionPayload{
		Type: "expense", Amount: "10.00", Category: "Yachts", Date: "2026-06-01", Description: "x",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("create = %d, want 422", rec.Code)
	}
}

func TestCreateTransactionRejectsBadAmount(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/transactions", transactionPayload{
		Type: "expense", Amount: "-10", Category: "Food", Date: "2026-06-01", Description: "x",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("create = %d, want 422", rec.Code)
	}
}

func TestGoalLifecycleWithProgress(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/goals", goalPayload{
		Name: "Emergency fund", Target: "1000.00", Deadline: "2027-12-31", Strategy: "moderate",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal = %d, body %s", rec.Code, rec.Body.String())
	}
	var goal goalView
	decode(t, rec, &goal)

	rec = doJSON(t, s, http.MethodPost, "/api/goals/"+goal.ID+"/progress", map[string]string{
		"month": "Jan 2027", "amount": "100.00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set progress = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, s, http.MethodPost, "/api/goals/"+goal.ID+"/progress", map[string]string{
		"month": "Feb 2027", "amount": "150.00",
	})
	var updated goalView
	decode(t, rec, &updated)
	if updated.Current != 250 {
		t.Errorf("currentAmount = %v, want 250", updated.Current)
	}
	if updated.Progress != 25 {
		t.Errorf("progress = %v, want 25", updated.Progress)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/goals/"+goal.ID+"/progress", map[string]string{
		"month": "January 2027", "amount": "10.00",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad month label = %d, want 422", rec.Code)
	}
}

func TestGoalProjection(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/goals", goalPayload{
		Name: "House", Target: "50000.00", Current: "10000.00", Deadline: "2036-01-01", Strategy: "aggressive",
	})
	var goal goalView
	decode(t, rec, &goal)

	rec = doJSON(t, s, http.MethodGet, "/api/goals/"+goal.ID+"/projection?years=10&monthly=200", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("projection = %d, body %s", rec.Code, rec.Body.String())
	}
	var proj projectionView
	decode(t, rec, &proj)
	if proj.Strategy != "aggressive" || proj.AnnualReturn != 0.10 {
		t.Errorf("projection strategy = %+v", proj)
	}
	if proj.ProjectedValue <= 10000 {
		t.Errorf("projectedValue = %v, want growth over starting amount", proj.ProjectedValue)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/goals/"+goal.ID+"/projection?years=-1&monthly=200", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative years = %d, want 400", rec.Code)
	}
}

func TestRecommendEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/strategies/recommend", map[string]any{
		"timeHorizonYears": 10, "riskTolerance": "high", "currentAmount": 1000.0, "targetAmount": 50000.0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("recommend = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Recommended string `json:"recommended"`
	}
	decode(t, rec, &resp)
	if resp.Recommended != "aggressive" {
		t.Errorf("recommended = %q, want aggressive", resp.Recommended)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/strategies/recommend", map[string]any{
		"timeHorizonYears": 10, "riskTolerance": "extreme",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad risk = %d, want 422", rec.Code)
	}
}

func TestTaxEstimateEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/tax/estimate?income=75000&state=Texas", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("estimate = %d", rec.Code)
	}
	var resp struct {
		TotalTax float64 `json:"totalTax"`
		Federal  struct {
			TotalTax float64 `json:"totalTax"`
		} `json:"federal"`
	}
	decode(t, rec, &resp)
	if resp.Federal.TotalTax < 12591 || resp.Federal.TotalTax > 12593 {
		t.Errorf("federal totalTax = %v, want about 12592", resp.Federal.TotalTax)
	}
	if resp.TotalTax != resp.Federal.TotalTax {
		t.Errorf("Texas total %v should equal federal %v", resp.TotalTax, resp.Federal.TotalTax)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/tax/estimate?income=abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad income = %d, want 400", rec.Code)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/categories", nil)
	var resp struct {
		Categories []string `json:"categories"`
	}
	decode(t, rec, &resp)
	if len(resp.Categories) != 11 || resp.Categories[0] != "Housing" {
		t.Errorf("categories = %v", resp.Categories)
	}
}

func TestReminderEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/reminders", reminderPayload{Date: "2026-09-01", Text: "Pay rent"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create reminder = %d", rec.Code)
	}
	var created reminderView
	decode(t, rec, &created)

	rec = doJSON(t, s, http.MethodGet, "/api/reminders?due=2026-09-01", nil)
	var due []reminderView
	decode(t, rec, &due)
	if len(due) != 1 || due[0].Text != "Pay rent" {
		t.Errorf("due reminders = %v", due)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/reminders/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete reminder = %d", rec.Code)
	}
}

func TestInsightsEndpoint(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/transactions", transactionPayload{
		Type: "income", Amount: "1000.00", Category: "Other", Date: "2026-06-01", Description: "Pay",
	})
	rec := doJSON(t, s, http.MethodGet, "/api/insights", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("insights = %d", rec.Code)
	}
	if !strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "[") && strings.TrimSpace(rec.Body.String()) != "null" {
		t.Errorf("insights body = %q, want a JSON array", rec.Body.String())
	}
}

func TestOverviewEndpoint(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/transactions", transactionPayload{
		Type: "income", Amount: "6250.00", Category: "Other", Date: "2026-06-01", Description: "Pay",
	})
	rec := doJSON(t, s, http.MethodGet, "/api/overview?year=2026&state=Texas", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("overview = %d", rec.Code)
	}
	var months []struct {
		Month      string  `json:"month"`
		Income     float64 `json:"income"`
		FederalTax float64 `json:"federalTax"`
	}
	decode(t, rec, &months)
	if len(months) != 12 {
		t.Fatalf("overview returned %d months", len(months))
	}
	if months[5].Income != 6250 || months[5].FederalTax <= 0 {
		t.Errorf("june = %+v", months[5])
	}
}

func TestWeatherUnavailableWithoutPoller(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/weather", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("weather = %d, want 503", rec.Code)
	}
}
