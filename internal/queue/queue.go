// Package queue owns the customers waiting at the counter.
//
// Like the order book, the queue is a plain state container and is not safe
// for concurrent use.
package queue

import (
	"fmt"

	"github.com/roach88/pvz/internal/domain"
	"github.com/roach88/pvz/internal/random"
)

const (
	// DefaultLimit is the maximum number of customers waiting at once.
	DefaultLimit = 3

	// DefaultSpawnChance is the per-tick probability of a new arrival.
	DefaultSpawnChance = 0.05
)

// ReadySource lists orders that a new customer may request.
// Satisfied by *orderbook.Book.
type ReadySource interface {
	Ready() []domain.Order
}

// Queue holds waiting customers in arrival order.
type Queue struct {
	customers []domain.Customer
	ids       IDGenerator
	limit     int
	chance    float64
	namer     func(n int) string
}

// Option configures a Queue.
type Option func(*Queue)

// WithLimit sets the queue capacity.
func WithLimit(n int) Option {
	return func(q *Queue) {
		q.limit = n
	}
}

// WithSpawnChance sets the per-tick arrival probability.
func WithSpawnChance(p float64) Option {
	return func(q *Queue) {
		q.chance = p
	}
}

// WithNamer sets the display-name function; n is the 1-based queue position at arrival.
func WithNamer(fn func(n int) string) Option {
	return func(q *Queue) {
		q.namer = fn
	}
}

// New creates an empty Queue.
func New(ids IDGenerator, opts ...Option) *Queue {
	q := &Queue{
		ids:    ids,
		limit:  DefaultLimit,
		chance: DefaultSpawnChance,
		namer:  func(n int) string { return fmt.Sprintf("Customer %d", n) },
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// TrySpawn attempts one stochastic arrival.
//
// Nothing happens, and no randomness is consumed, while paused or at capacity.
// Otherwise a single roll decides whether someone arrives; the customer is
// bound to a uniformly chosen ready order that no waiting customer has
// claimed. With no eligible order the arrival is silently skipped.
func (q *Queue) TrySpawn(book ReadySource, rnd random.Source, paused bool) (domain.Customer, bool) {
	if paused || q.Full() {
		return domain.Customer{}, false
	}
	if rnd.Float64() >= q.chance {
		return domain.Customer{}, false
	}

	var eligible []domain.Order
	for _, o := range book.Ready() {
		if _, claimed := q.FindByOrderID(o.ID); !claimed {
			eligible = append(eligible, o)
		}
	}
	if len(eligible) == 0 {
		return domain.Customer{}, false
	}

	order := eligible[rnd.IntRange(0, len(eligible))]
	return q.enqueue(order.ID), true
}

// Admit enqueues a customer for a specific order, bypassing the arrival roll.
func (q *Queue) Admit(order domain.Order) (domain.Customer, error) {
	if order.Status != domain.StatusReady {
		return domain.Customer{}, domain.NewOrderNotReady(order.ID, order.Status)
	}
	if c, claimed := q.FindByOrderID(order.ID); claimed {
		return domain.Customer{}, domain.NewOrderClaimed(order.ID, c.ID)
	}
	if q.Full() {
		return domain.Customer{}, domain.NewQueueFull(q.limit)
	}
	return q.enqueue(order.ID), nil
}

func (q *Queue) enqueue(orderID string) domain.Customer {
	c := domain.Customer{
		ID:      q.ids.Generate(),
		Name:    q.namer(len(q.customers) + 1),
		OrderID: orderID,
		Mood:    domain.MoodNeutral,
	}
	q.customers = append(q.customers, c)
	return c
}

// Remove deletes a customer and returns it.
func (q *Queue) Remove(id string) (domain.Customer, error) {
	for i, c := range q.customers {
		if c.ID == id {
			q.customers = append(q.customers[:i], q.customers[i+1:]...)
			return c, nil
		}
	}
	return domain.Customer{}, domain.NewNotFound("customer", id)
}

// Get returns the customer with the given ID.
func (q *Queue) Get(id string) (domain.Customer, bool) {
	for _, c := range q.customers {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// FindByOrderID returns the waiting customer bound to orderID.
func (q *Queue) FindByOrderID(orderID string) (domain.Customer, bool) {
	for _, c := range q.customers {
		if c.OrderID == orderID {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// List returns a copy of the queue in arrival order.
func (q *Queue) List() []domain.Customer {
	out := make([]domain.Customer, len(q.customers))
	copy(out, q.customers)
	return out
}

// Len returns the number of waiting customers.
func (q *Queue) Len() int {
	return len(q.customers)
}

// Full reports whether the queue is at capacity.
func (q *Queue) Full() bool {
	return len(q.customers) >= q.limit
}
