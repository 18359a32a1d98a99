package ledger

import (
	"context"
	"errors"

	"budgeteer/internal/core"
)

// ErrNotFound is returned by stores when an id has no backing entity.
var ErrNotFound = errors.New("not found")

// Store is the outbound port the ledger persists through. The default
// adapter keeps everything in memory for the lifetime of a session; the
// sqlite adapter survives restarts. Writes are whole-object replacements.
type Store interface {
	PutTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	Transaction(ctx context.Context, id string) (core.Transaction, error)
	Transactions(ctx context.Context) ([]core.Transaction, error)

	PutGoal(ctx context.Context, g core.SavingsGoal) error
	DeleteGoal(ctx context.Context, id string) error
	Goal(ctx context.Context, id string) (core.SavingsGoal, error)
	Goals(ctx context.Context) ([]core.SavingsGoal, error)

	Close() error
}
