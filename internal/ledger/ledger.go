// Package ledger is the owned state container for transactions and savings
// goals. All mutations go through command methods on Ledger and all derived
// values (balance, category totals, monthly overview) are recomputed from
// the stored records on read. Callers receive the Ledger by explicit
// reference; there is no ambient global.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"budgeteer/internal/core"
	"budgeteer/internal/events"
	"budgeteer/internal/metrics"
	"budgeteer/internal/tax"
)

// Ledger orchestrates the store, optional event publishing, and metrics.
// A single mutex serializes mutations: the dashboard's logical model is one
// thread of execution, and every write is a whole-object replacement.
type Ledger struct {
	mu      sync.Mutex
	store   Store
	events  *events.Publisher
	metrics *metrics.Set
	now     func() time.Time
}

type Option func(*Ledger)

// WithEvents attaches an AMQP publisher. Publish failures are logged, never
// propagated to the caller.
func WithEvents(p *events.Publisher) Option {
	return func(l *Ledger) { l.events = p }
}

func WithMetrics(m *metrics.Set) Option {
	return func(l *Ledger) { l.metrics = m }
}

// WithClock overrides the time source. Tests use this to pin "now".
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Snapshot is the read-only view handed to the insight analyzer.
type Snapshot struct {
	Transactions []core.Transaction
	Goals        []core.SavingsGoal
	Balance      core.Money
}

// MonthSummary is one row of the yearly overview. Taxes are the
// monthly-equivalent estimate: the month's income annualized (x12), run
// through the bracket engines, and divided back by 12. An approximation by
// design, not an exact monthly withholding calculation.
type MonthSummary struct {
	Month      string     `json:"month"`
	Income     core.Money `json:"-"`
	Expenses   core.Money `json:"-"`
	IncomeUSD  float64    `json:"income"`
	ExpenseUSD float64    `json:"expenses"`
	FederalTax float64    `json:"federalTax"`
	StateTax   float64    `json:"stateTax"`
	TotalTax   float64    `json:"totalTax"`
	Net        float64    `json:"net"`
}

// --- transaction commands ---

// AddTransaction validates and stores a new transaction, assigning an id
// when the caller did not provide one.
func (l *Ledger) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}
	if err := l.store.PutTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("store transaction: %w", err)
	}

	l.metrics.RecordMutation(events.EntityTransaction, events.ActionCreated)
	l.publish(ctx, events.EntityTransaction, events.ActionCreated, t.ID)
	l.refreshGauges(ctx)
	return t, nil
}

// UpdateTransaction replaces an existing transaction wholesale.
func (l *Ledger) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.store.Transaction(ctx, t.ID); err != nil {
		return fmt.Errorf("lookup transaction %s: %w", t.ID, err)
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	if err := l.store.PutTransaction(ctx, t); err != nil {
		return fmt.Errorf("store transaction: %w", err)
	}

	l.metrics.RecordMutation(events.EntityTransaction, events.ActionUpdated)
	l.publish(ctx, events.EntityTransaction, events.ActionUpdated, t.ID)
	return nil
}

func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}

	l.metrics.RecordMutation(events.EntityTransaction, events.ActionDeleted)
	l.publish(ctx, events.EntityTransaction, events.ActionDeleted, id)
	l.refreshGauges(ctx)
	return nil
}

func (l *Ledger) Transaction(ctx context.Context, id string) (core.Transaction, error) {
	return l.store.Transaction(ctx, id)
}

func (l *Ledger) Transactions(ctx context.Context) ([]core.Transaction, error) {
	return l.store.Transactions(ctx)
}

// --- goal commands ---

func (l *Ledger) AddGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("validate goal: %w", err)
	}
	if err := l.store.PutGoal(ctx, g); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("store goal: %w", err)
	}

	l.metrics.RecordMutation(events.EntityGoal, events.ActionCreated)
	l.publish(ctx, events.EntityGoal, events.ActionCreated, g.ID)
	l.refreshGauges(ctx)
	return g, nil
}

func (l *Ledger) UpdateGoal(ctx context.Context, g core.SavingsGoal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.store.Goal(ctx, g.ID); err != nil {
		return fmt.Errorf("lookup goal %s: %w", g.ID, err)
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("validate goal: %w", err)
	}
	if err := l.store.PutGoal(ctx, g); err != nil {
		return fmt.Errorf("store goal: %w", err)
	}

	l.metrics.RecordMutation(events.EntityGoal, events.ActionUpdated)
	l.publish(ctx, events.EntityGoal, events.ActionUpdated, g.ID)
	return nil
}

func (l *Ledger) DeleteGoal(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("delete goal %s: %w", id, err)
	}

	l.metrics.RecordMutation(events.EntityGoal, events.ActionDeleted)
	l.publish(ctx, events.EntityGoal, events.ActionDeleted, id)
	l.refreshGauges(ctx)
	return nil
}

func (l *Ledger) Goal(ctx context.Context, id string) (core.SavingsGoal, error) {
	return l.store.Goal(ctx, id)
}

func (l *Ledger) Goals(ctx context.Context) ([]core.SavingsGoal, error) {
	return l.store.Goals(ctx)
}

// Contribute adds a one-off amount to a goal's current balance without
// touching the monthly-progress map.
func (l *Ledger) Contribute(ctx context.Context, goalID string, amount core.Money) (core.SavingsGoal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := amount.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	g, err := l.store.Goal(ctx, goalID)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("lookup goal %s: %w", goalID, err)
	}

	g.Current = g.Current.Add(amount)
	if err := l.store.PutGoal(ctx, g); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("store goal: %w", err)
	}

	l.metrics.RecordMutation(events.EntityGoal, events.ActionUpdated)
	l.publish(ctx, events.EntityGoal, events.ActionUpdated, g.ID)
	return g, nil
}

// SetMonthlyProgress records the contribution for one month label and then
// recomputes the goal's current amount as the sum of the whole map. The
// recompute is the invariant-restoring step: once a goal is tracked
// monthly, the map is authoritative and any previously stored current
// amount is overwritten here, never reconciled by callers.
func (l *Ledger) SetMonthlyProgress(ctx context.Context, goalID, label string, amount core.Money) (core.SavingsGoal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := time.Parse(core.MonthLabel, label); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("invalid month label %q: %w", label, err)
	}
	if amount.Cents < 0 {
		return core.SavingsGoal{}, core.ErrInvalidAmount
	}
	g, err := l.store.Goal(ctx, goalID)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("lookup goal %s: %w", goalID, err)
	}

	if g.MonthlyProgress == nil {
		g.MonthlyProgress = make(map[string]core.Money)
	}
	g.MonthlyProgress[label] = amount
	g.Current = g.ProgressSum()

	if err := l.store.PutGoal(ctx, g); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("store goal: %w", err)
	}

	l.metrics.RecordMutation(events.EntityGoal, events.ActionUpdated)
	l.publish(ctx, events.EntityGoal, events.ActionUpdated, g.ID)
	return g, nil
}

// --- derived values ---

// Balance sums all transactions, income positive and expenses negative.
func (l *Ledger) Balance(ctx context.Context) (core.Money, error) {
	txns, err := l.store.Transactions(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("list transactions: %w", err)
	}
	var balance core.Money
	for _, t := range txns {
		balance = balance.Add(t.Signed())
	}
	return balance, nil
}

// CategoryTotals sums expense amounts per category. A positive window
// restricts the aggregation to transactions on or after now-window; a
// non-positive window aggregates everything.
func (l *Ledger) CategoryTotals(ctx context.Context, window time.Duration) (map[string]core.Money, error) {
	txns, err := l.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	var cutoff time.Time
	if window > 0 {
		cutoff = l.now().Add(-window)
	}

	totals := make(map[string]core.Money)
	for _, t := range txns {
		if t.Kind != core.Expense {
			continue
		}
		if !cutoff.IsZero() && t.Date.Before(cutoff) {
			continue
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	return totals, nil
}

// MonthlyOverview aggregates income and expenses per calendar month of the
// target year and attaches the monthly-equivalent tax estimate for the
// given state.
func (l *Ledger) MonthlyOverview(ctx context.Context, year int, state string) ([]MonthSummary, error) {
	txns, err := l.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	summaries := make([]MonthSummary, 12)
	for m := time.January; m <= time.December; m++ {
		summaries[m-1].Month = m.String()[:3]
	}
	for _, t := range txns {
		if t.Date.Year() != year {
			continue
		}
		s := &summaries[int(t.Date.Month())-1]
		switch t.Kind {
		case core.Income:
			s.Income = s.Income.Add(t.Amount)
		case core.Expense:
			s.Expenses = s.Expenses.Add(t.Amount)
		}
	}

	for i := range summaries {
		s := &summaries[i]
		income := s.Income.Dollars()

		// Annualize one month's income for the brackets, then divide the
		// annual tax back down. Documented approximation.
		annualized := income * 12
		federal := tax.ComputeFederalTax(annualized).TotalTax / 12
		stateTax := tax.ComputeStateTax(annualized, state).TotalTax / 12

		s.IncomeUSD = income
		s.ExpenseUSD = s.Expenses.Dollars()
		s.FederalTax = federal
		s.StateTax = stateTax
		s.TotalTax = federal + stateTax
		s.Net = income - s.ExpenseUSD - s.TotalTax
	}
	return summaries, nil
}

// SnapshotView captures the analyzer's input in one pass.
func (l *Ledger) SnapshotView(ctx context.Context) (Snapshot, error) {
	txns, err := l.store.Transactions(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list transactions: %w", err)
	}
	goals, err := l.store.Goals(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list goals: %w", err)
	}
	var balance core.Money
	for _, t := range txns {
		balance = balance.Add(t.Signed())
	}
	return Snapshot{Transactions: txns, Goals: goals, Balance: balance}, nil
}

func (l *Ledger) Close() error {
	var errs []error
	if l.store != nil {
		if err := l.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if l.events != nil {
		if err := l.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger: %v", errs)
	}
	return nil
}

// publish emits a change event when a publisher is configured. The mutation
// has already been stored; a broker failure is logged and swallowed.
func (l *Ledger) publish(ctx context.Context, entity, action, id string) {
	if l.events == nil {
		return
	}
	if err := l.events.Publish(ctx, entity, action, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"entity", entity,
			"action", action,
			"id", id,
			"error", err)
	}
}

func (l *Ledger) refreshGauges(ctx context.Context) {
	if l.metrics == nil {
		return
	}
	if txns, err := l.store.Transactions(ctx); err == nil {
		l.metrics.SetEntityCount(events.EntityTransaction, len(txns))
	}
	if goals, err := l.store.Goals(ctx); err == nil {
		l.metrics.SetEntityCount(events.EntityGoal, len(goals))
	}
}
