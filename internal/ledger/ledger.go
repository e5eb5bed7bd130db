// Package ledger accumulates the economy of a shift: salary, bonuses,
// penalties, counters, and rating.
//
// Accumulators only grow. The rating is the one value that moves both ways,
// and it is clamped to [MinRating, MaxRating].
package ledger

import (
	"fmt"
	"math"
	"sync"

	"github.com/roach88/pvz/internal/domain"
)

const (
	DefaultSalary = 25000
	DefaultRating = 5.0

	MinRating = 0.0
	MaxRating = 5.0
)

// Ledger is the economy state. Every method is atomic.
//
// Thread-safety: safe for concurrent use via internal mutex; no update is lost
// regardless of how callers are scheduled.
type Ledger struct {
	mu    sync.Mutex
	stats domain.Stats
}

// New creates a ledger with the given fixed salary and starting rating.
func New(salary int, rating float64) *Ledger {
	return &Ledger{stats: domain.Stats{
		Salary: salary,
		Rating: clampRating(rating),
	}}
}

// CreditBonus adds amount to the bonus accumulator.
func (l *Ledger) CreditBonus(amount int) error {
	if amount < 0 {
		return fmt.Errorf("credit bonus: negative amount %d", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats.Bonus += amount
	return nil
}

// DebitPenalty adds amount to the penalty accumulator.
func (l *Ledger) DebitPenalty(amount int) error {
	if amount < 0 {
		return fmt.Errorf("debit penalty: negative amount %d", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats.Penalties += amount
	return nil
}

// IncrementIssued counts one issued order.
func (l *Ledger) IncrementIssued() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats.OrdersIssued++
}

// IncrementAccepted counts n accepted orders.
func (l *Ledger) IncrementAccepted(n int) error {
	if n < 0 {
		return fmt.Errorf("increment accepted: negative count %d", n)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats.OrdersAccepted += n
	return nil
}

// BumpRating moves the rating by delta and returns the clamped result.
func (l *Ledger) BumpRating(delta float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats.Rating = clampRating(l.stats.Rating + delta)
	return l.stats.Rating
}

// NextShift advances the shift counter and returns the new value.
func (l *Ledger) NextShift() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats.Shift++
	return l.stats.Shift
}

// Snapshot returns a copy of the current stats.
func (l *Ledger) Snapshot() domain.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Income is salary + bonus - penalties.
func (l *Ledger) Income() int {
	return l.Snapshot().Income()
}

// clampRating bounds r to [MinRating, MaxRating]. Values inside the range are
// kept as is, so callers comparing ratings should allow for float error.
func clampRating(r float64) float64 {
	return math.Max(MinRating, math.Min(MaxRating, r))
}
