// Package sqlite is the persistent ledger store. It mirrors the memory
// adapter's contract; the dashboard makes no durability promises beyond
// what a local SQLite file provides.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/ledger"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) PutTransaction(ctx context.Context, t core.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, kind, amount_cents, category, occurred_at, description)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			amount_cents = excluded.amount_cents,
			category = excluded.category,
			occurred_at = excluded.occurred_at,
			description = excluded.description`,
		t.ID, string(t.Kind), t.Amount.Cents, t.Category, t.Date.Format(dateLayout), t.Description)
	if err != nil {
		return fmt.Errorf("put transaction: %w", err)
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (s *Store) Transaction(ctx context.Context, id string) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, amount_cents, category, occurred_at, description
		FROM transactions WHERE id = ?`, id)

	var (
		t          core.Transaction
		kind, date string
	)
	err := row.Scan(&t.ID, &kind, &t.Amount.Cents, &t.Category, &date, &t.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	t.Kind = core.Kind(kind)
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	t.Date = core.Date{Time: parsed}
	return t, nil
}

func (s *Store) Transactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, amount_cents, category, occurred_at, description
		FROM transactions
		ORDER BY occurred_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t          core.Transaction
			kind, date string
		)
		if err := rows.Scan(&t.ID, &kind, &t.Amount.Cents, &t.Category, &date, &t.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = core.Kind(kind)
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		t.Date = core.Date{Time: parsed}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) PutGoal(ctx context.Context, g core.SavingsGoal) error {
	progress, err := marshalProgress(g.MonthlyProgress)
	if err != nil {
		return err
	}

	var stocks, bonds, cash sql.NullInt64
	if g.CurrentAllocation != nil {
		stocks = sql.NullInt64{Int64: int64(g.CurrentAllocation.Stocks), Valid: true}
		bonds = sql.NullInt64{Int64: int64(g.CurrentAllocation.Bonds), Valid: true}
		cash = sql.NullInt64{Int64: int64(g.CurrentAllocation.Cash), Valid: true}
	}
	var rebalanced sql.NullString
	if g.LastRebalanced != nil {
		rebalanced = sql.NullString{String: g.LastRebalanced.Format(dateLayout), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO savings_goals
			(id, name, target_cents, current_cents, deadline, monthly_progress,
			 strategy, alloc_stocks, alloc_bonds, alloc_cash, last_rebalanced)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			target_cents = excluded.target_cents,
			current_cents = excluded.current_cents,
			deadline = excluded.deadline,
			monthly_progress = excluded.monthly_progress,
			strategy = excluded.strategy,
			alloc_stocks = excluded.alloc_stocks,
			alloc_bonds = excluded.alloc_bonds,
			alloc_cash = excluded.alloc_cash,
			last_rebalanced = excluded.last_rebalanced`,
		g.ID, g.Name, g.Target.Cents, g.Current.Cents, g.Deadline.Format(dateLayout),
		progress, g.Strategy, stocks, bonds, cash, rebalanced)
	if err != nil {
		return fmt.Errorf("put goal: %w", err)
	}
	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (s *Store) Goal(ctx context.Context, id string) (core.SavingsGoal, error) {
	row := s.db.QueryRowContext(ctx, goalSelect+` WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, ledger.ErrNotFound
	}
	return g, err
}

func (s *Store) Goals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := s.db.QueryContext(ctx, goalSelect+` ORDER BY deadline, id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) Close() error { return s.db.Close() }

const goalSelect = `
	SELECT id, name, target_cents, current_cents, deadline, monthly_progress,
	       strategy, alloc_stocks, alloc_bonds, alloc_cash, last_rebalanced
	FROM savings_goals`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (core.SavingsGoal, error) {
	var (
		g                   core.SavingsGoal
		deadline, progress  string
		stocks, bonds, cash sql.NullInt64
		rebalanced          sql.NullString
	)
	err := row.Scan(&g.ID, &g.Name, &g.Target.Cents, &g.Current.Cents, &deadline,
		&progress, &g.Strategy, &stocks, &bonds, &cash, &rebalanced)
	if err != nil {
		return core.SavingsGoal{}, err
	}

	parsed, err := time.Parse(dateLayout, deadline)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("parse goal deadline %q: %w", deadline, err)
	}
	g.Deadline = core.Date{Time: parsed}

	g.MonthlyProgress, err = unmarshalProgress(progress)
	if err != nil {
		return core.SavingsGoal{}, err
	}

	if stocks.Valid {
		g.CurrentAllocation = &core.Allocation{
			Stocks: int(stocks.Int64),
			Bonds:  int(bonds.Int64),
			Cash:   int(cash.Int64),
		}
	}
	if rebalanced.Valid {
		d, err := time.Parse(dateLayout, rebalanced.String)
		if err != nil {
			return core.SavingsGoal{}, fmt.Errorf("parse last rebalanced %q: %w", rebalanced.String, err)
		}
		g.LastRebalanced = &core.Date{Time: d}
	}
	return g, nil
}

func marshalProgress(mp map[string]core.Money) (string, error) {
	cents := make(map[string]int64, len(mp))
	for label, m := range mp {
		cents[label] = m.Cents
	}
	b, err := json.Marshal(cents)
	if err != nil {
		return "", fmt.Errorf("marshal monthly progress: %w", err)
	}
	return string(b), nil
}

func unmarshalProgress(raw string) (map[string]core.Money, error) {
	if raw == "" || raw == "{}" {
		return nil, nil
	}
	cents := map[string]int64{}
	if err := json.Unmarshal([]byte(raw), &cents); err != nil {
		return nil, fmt.Errorf("unmarshal monthly progress: %w", err)
	}
	mp := make(map[string]core.Money, len(cents))
	for label, c := range cents {
		mp[label] = core.Money{Cents: c}
	}
	return mp, nil
}
