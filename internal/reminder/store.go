// Package reminder keeps dated notes for the dashboard calendar. It is
// deliberately independent of the ledger: reminders carry no amounts and
// never influence balances or insights.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"budgeteer/internal/core"
)

var ErrNotFound = errors.New("reminder not found")

type Store struct {
	mu    sync.Mutex
	items map[string]core.Reminder
}

func New() *Store {
	return &Store{items: make(map[string]core.Reminder)}
}

// Add validates and stores a reminder, assigning an id when the caller did
// not provide one.
func (s *Store) Add(_ context.Context, r core.Reminder) (core.Reminder, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := r.Validate(); err != nil {
		return core.Reminder{}, fmt.Errorf("validate reminder: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[r.ID] = r
	return r, nil
}

func (s *Store) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// List returns all reminders ordered by date, ties broken by id.
func (s *Store) List(_ context.Context) ([]core.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Reminder, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DueOn returns the reminders falling on the given calendar day.
func (s *Store) DueOn(ctx context.Context, day core.Date) ([]core.Reminder, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var due []core.Reminder
	for _, r := range all {
		if sameDay(r.Date, day) {
			due = append(due, r)
		}
	}
	return due, nil
}

func sameDay(a, b core.Date) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
