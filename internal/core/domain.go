package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind discriminates how a transaction contributes to the balance.
	// The sign is always derived from the kind; amounts are stored unsigned.
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		Kind        Kind
		Amount      Money
		Category    string
		Date        Date
		Description string
	}

	// Allocation is a portfolio split in whole percentage points.
	Allocation struct {
		Stocks int
		Bonds  int
		Cash   int
	}

	SavingsGoal struct {
		ID      string
		Name    string
		Target  Money
		Current Money
		// Deadline is the date the goal should be fully funded by.
		Deadline Date
		// MonthlyProgress maps a "Jan 2006" label to the amount contributed
		// in that month. Keys need not be contiguous. Whenever the map is
		// non-empty, Current must equal the sum of its values; the ledger
		// restores this invariant on every monthly update.
		MonthlyProgress map[string]Money

		// Optional investment tracking.
		Strategy          string // preset name, empty when none chosen
		CurrentAllocation *Allocation
		LastRebalanced    *Date
	}

	Reminder struct {
		ID   string
		Date Date
		Text string
	}
)

var (
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidTarget    = errors.New("target amount must be positive")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidDate      = errors.New("invalid date")
	ErrBadAllocation    = errors.New("allocation must sum to 100")
)

// MonthLabel is the layout used for monthly-progress keys.
const MonthLabel = "Jan 2006"

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	}
	return ErrInvalidKind
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDate creates a new Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Label formats the date as a monthly-progress key.
func (d Date) Label() string {
	return d.Format(MonthLabel)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Neg returns the negated amount. Used when deriving balance contributions.
func (m Money) Neg() Money { return Money{Cents: -m.Cents} }

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Signed returns the transaction's contribution to the account balance.
func (t Transaction) Signed() Money {
	if t.Kind == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (a Allocation) Validate() error {
	if a.Stocks < 0 || a.Bonds < 0 || a.Cash < 0 {
		return ErrBadAllocation
	}
	if a.Stocks+a.Bonds+a.Cash != 100 {
		return ErrBadAllocation
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if g.Target.Cents <= 0 {
		return ErrInvalidTarget
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := g.Deadline.Validate(); err != nil {
		return errors.New("invalid deadline: " + err.Error())
	}
	if g.CurrentAllocation != nil {
		if err := g.CurrentAllocation.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ProgressSum totals the monthly-progress map. The result is authoritative
// for Current whenever the map is non-empty.
func (g SavingsGoal) ProgressSum() Money {
	var sum Money
	for _, m := range g.MonthlyProgress {
		sum = sum.Add(m)
	}
	return sum
}

// ProgressRatio is current/target, with a zero or negative target treated
// as ratio 0 rather than dividing by zero.
func (g SavingsGoal) ProgressRatio() float64 {
	if g.Target.Cents <= 0 {
		return 0
	}
	return float64(g.Current.Cents) / float64(g.Target.Cents)
}

// DaysLeft returns whole days from now until the deadline, rounded up.
func (g SavingsGoal) DaysLeft(now time.Time) int {
	d := g.Deadline.Sub(now)
	days := int(d.Hours() / 24)
	if d > 0 && d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

func (r Reminder) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(r.Text)) == 0 {
		return ErrEmptyDescription
	}
	return nil
}
