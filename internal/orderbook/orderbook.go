// Package orderbook owns the collection of orders and their lifecycle.
//
// The book is a plain state container: it is not safe for concurrent use and
// relies on the engine to serialize access.
package orderbook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/pvz/internal/domain"
	"github.com/roach88/pvz/internal/random"
)

const (
	// DefaultFirstID is the numeric suffix of the first order ID (ORD-1001).
	DefaultFirstID = 1001

	// Delivery batch size is drawn from [DefaultDeliveryMin, DefaultDeliveryMax).
	DefaultDeliveryMin = 5
	DefaultDeliveryMax = 15

	minCode = 1000
	maxCode = 10000

	// maxCodeAttempts bounds collision retries when unique codes are enforced.
	maxCodeAttempts = 100
)

var (
	typeWeights    = []float64{0.5, 0.5}
	paymentWeights = []float64{0.7, 0.3}
)

// Book holds orders in insertion order.
type Book struct {
	rnd    random.Source
	orders []*domain.Order
	index  map[string]*domain.Order
	nextID int

	deliveryMin int
	deliveryMax int
	uniqueCodes bool
}

// Option configures a Book.
type Option func(*Book)

// WithDeliveryRange sets the half-open range [min, max) of delivery batch sizes.
func WithDeliveryRange(min, max int) Option {
	return func(b *Book) {
		b.deliveryMin = min
		b.deliveryMax = max
	}
}

// WithUniqueCodes makes generation avoid codes already held by a live order.
func WithUniqueCodes(enabled bool) Option {
	return func(b *Book) {
		b.uniqueCodes = enabled
	}
}

// New creates an empty Book drawing randomness from rnd.
func New(rnd random.Source, opts ...Option) *Book {
	b := &Book{
		rnd:         rnd,
		index:       make(map[string]*domain.Order),
		nextID:      DefaultFirstID,
		deliveryMin: DefaultDeliveryMin,
		deliveryMax: DefaultDeliveryMax,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Seed inserts n freshly generated ready orders and returns copies of them.
func (b *Book) Seed(n int) []domain.Order {
	batch := b.generate(n, domain.StatusReady)
	for i := range batch {
		b.insert(batch[i])
	}
	return batch
}

// ReceiveDelivery generates a courier batch of pending orders without inserting
// it. The caller applies the batch later with Insert; the batch size is len of
// the returned slice.
func (b *Book) ReceiveDelivery() []domain.Order {
	count := b.rnd.IntRange(b.deliveryMin, b.deliveryMax)
	return b.generate(count, domain.StatusPending)
}

// Insert adds previously generated orders. Fails with InvalidState if any ID is
// already present; in that case nothing is inserted.
func (b *Book) Insert(orders ...domain.Order) error {
	for _, o := range orders {
		if _, exists := b.index[o.ID]; exists {
			return domain.NewInvalidState(o.ID, "order already in book")
		}
	}
	for _, o := range orders {
		b.insert(o)
	}
	return nil
}

func (b *Book) insert(o domain.Order) {
	stored := o
	b.orders = append(b.orders, &stored)
	b.index[o.ID] = &stored
}

// ScanByCode resolves the first order with the given code. A pending order is
// moved to ready and placed reports true; ready or issued orders are returned
// unchanged.
func (b *Book) ScanByCode(code string) (order domain.Order, placed bool, err error) {
	for _, o := range b.orders {
		if o.Code != code {
			continue
		}
		if o.Status == domain.StatusPending {
			o.Status = domain.StatusReady
			placed = true
		}
		return *o, placed, nil
	}
	return domain.Order{}, false, domain.NewNotFound("order", code)
}

// MarkIssued moves a ready order to issued.
func (b *Book) MarkIssued(id string) error {
	o, ok := b.index[id]
	if !ok {
		return domain.NewInvalidState(id, "cannot issue missing order")
	}
	if o.Status != domain.StatusReady {
		return domain.NewInvalidState(id, fmt.Sprintf("cannot issue %s order", o.Status))
	}
	o.Status = domain.StatusIssued
	return nil
}

// Remove deletes the order regardless of status and returns its last state.
func (b *Book) Remove(id string) (domain.Order, error) {
	o, ok := b.index[id]
	if !ok {
		return domain.Order{}, domain.NewNotFound("order", id)
	}
	delete(b.index, id)
	for i, cur := range b.orders {
		if cur == o {
			b.orders = append(b.orders[:i], b.orders[i+1:]...)
			break
		}
	}
	return *o, nil
}

// CountByPrefix counts orders whose cell starts with prefix (a shelf letter).
func (b *Book) CountByPrefix(prefix string) int {
	n := 0
	for _, o := range b.orders {
		if strings.HasPrefix(o.Cell, prefix) {
			n++
		}
	}
	return n
}

// Get returns a copy of the order with the given ID.
func (b *Book) Get(id string) (domain.Order, bool) {
	o, ok := b.index[id]
	if !ok {
		return domain.Order{}, false
	}
	return *o, true
}

// Ready returns copies of every ready order in insertion order.
func (b *Book) Ready() []domain.Order {
	var out []domain.Order
	for _, o := range b.orders {
		if o.Status == domain.StatusReady {
			out = append(out, *o)
		}
	}
	return out
}

// List returns copies of all orders in insertion order.
func (b *Book) List() []domain.Order {
	out := make([]domain.Order, len(b.orders))
	for i, o := range b.orders {
		out[i] = *o
	}
	return out
}

// Len returns the number of orders in the book.
func (b *Book) Len() int {
	return len(b.orders)
}

// generate draws n orders with sequential IDs. Draw order per order is
// code, shelf, slot, type, payment.
func (b *Book) generate(n int, status domain.OrderStatus) []domain.Order {
	batch := make([]domain.Order, 0, n)
	taken := make(map[string]bool)
	for i := 0; i < n; i++ {
		o := domain.Order{
			ID:     "ORD-" + strconv.Itoa(b.nextID),
			Code:   b.drawCode(taken),
			Cell:   domain.FormatCell(b.rnd.IntRange(0, len(domain.ShelfLetters)), b.rnd.IntRange(domain.MinSlot, domain.MaxSlot+1)),
			Status: status,
		}
		if b.rnd.WeightedChoice(typeWeights) == 0 {
			o.Type = domain.TypePackage
		} else {
			o.Type = domain.TypeBox
		}
		if b.rnd.WeightedChoice(paymentWeights) == 0 {
			o.Payment = domain.PaymentPaid
		} else {
			o.Payment = domain.PaymentCOD
		}
		b.nextID++
		taken[o.Code] = true
		batch = append(batch, o)
	}
	return batch
}

func (b *Book) drawCode(taken map[string]bool) string {
	code := strconv.Itoa(b.rnd.IntRange(minCode, maxCode))
	if !b.uniqueCodes {
		return code
	}
	for attempt := 1; attempt < maxCodeAttempts && (taken[code] || b.hasCode(code)); attempt++ {
		code = strconv.Itoa(b.rnd.IntRange(minCode, maxCode))
	}
	return code
}

func (b *Book) hasCode(code string) bool {
	for _, o := range b.orders {
		if o.Code == code {
			return true
		}
	}
	return false
}
