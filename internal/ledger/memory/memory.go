// Package memory is the in-memory ledger store. It is the default backend:
// all state lives for the lifetime of a single session, matching the
// dashboard's ownership model.
package memory

import (
	"context"
	"sort"
	"sync"

	"budgeteer/internal/core"
	"budgeteer/internal/ledger"
)

type Store struct {
	mu    sync.Mutex
	txns  map[string]core.Transaction
	goals map[string]core.SavingsGoal
}

func New() *Store {
	return &Store{
		txns:  make(map[string]core.Transaction),
		goals: make(map[string]core.SavingsGoal),
	}
}

func (s *Store) PutTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns[t.ID] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txns[id]; !ok {
		return ledger.ErrNotFound
	}
	delete(s.txns, id)
	return nil
}

func (s *Store) Transaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.txns[id]
	if !ok {
		return core.Transaction{}, ledger.ErrNotFound
	}
	return t, nil
}

func (s *Store) Transactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.txns))
	for _, t := range s.txns {
		out = append(out, t)
	}
	// Newest first; ties broken by id for a stable listing.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) PutGoal(_ context.Context, g core.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = cloneGoal(g)
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return ledger.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *Store) Goal(_ context.Context, id string) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok {
		return core.SavingsGoal{}, ledger.ErrNotFound
	}
	return cloneGoal(g), nil
}

func (s *Store) Goals(_ context.Context) ([]core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.SavingsGoal, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, cloneGoal(g))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Deadline.Equal(out[j].Deadline.Time) {
			return out[i].Deadline.Before(out[j].Deadline.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) Close() error { return nil }

// cloneGoal deep-copies the mutable fields so callers cannot alias the
// stored maps or pointers.
func cloneGoal(g core.SavingsGoal) core.SavingsGoal {
	if g.MonthlyProgress != nil {
		mp := make(map[string]core.Money, len(g.MonthlyProgress))
		for k, v := range g.MonthlyProgress {
			mp[k] = v
		}
		g.MonthlyProgress = mp
	}
	if g.CurrentAllocation != nil {
		a := *g.CurrentAllocation
		g.CurrentAllocation = &a
	}
	if g.LastRebalanced != nil {
		d := *g.LastRebalanced
		g.LastRebalanced = &d
	}
	return g
}
