package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/roach88/pvz/internal/clock"
	"github.com/roach88/pvz/internal/config"
	"github.com/roach88/pvz/internal/domain"
	"github.com/roach88/pvz/internal/ledger"
	"github.com/roach88/pvz/internal/notify"
	"github.com/roach88/pvz/internal/orderbook"
	"github.com/roach88/pvz/internal/queue"
	"github.com/roach88/pvz/internal/random"
	"github.com/roach88/pvz/internal/store"
)

// Journal receives one entry per notification. Implemented by *store.Store.
type Journal interface {
	Append(ctx context.Context, e store.Entry) error
}

// Engine owns the whole simulation state tree.
//
// INVARIANTS:
//   - a waiting customer always references an order that exists and is ready
//   - order status only moves forward; returns delete the order
//   - ledger accumulators never decrease
//   - each delivery batch is applied exactly once, at its due time
type Engine struct {
	mu sync.Mutex

	cfg       config.Config
	rnd       random.Source
	ids       queue.IDGenerator
	book      *orderbook.Book
	customers *queue.Queue
	ledger    *ledger.Ledger
	clock     *clock.Clock
	text      *notify.Formatter
	seq       *Sequence

	now      time.Duration
	nextTick time.Duration
	pending  deliveryHeap
	batches  int64

	journal  Journal
	notifier func(domain.Notification)
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom injects the randomness source. Default: seeded from cfg.Seed,
// or from a random seed when cfg.Seed is zero.
func WithRandom(src random.Source) Option {
	return func(e *Engine) {
		e.rnd = src
	}
}

// WithIDGenerator injects the customer ID generator. Default: UUIDv7.
func WithIDGenerator(g queue.IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithJournal records every notification in j.
func WithJournal(j Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithNotifier delivers every notification to fn, including those produced by
// Advance. fn runs after the engine lock is released and may call back into
// the engine.
func WithNotifier(fn func(domain.Notification)) Option {
	return func(e *Engine) {
		e.notifier = fn
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an engine in the session's initial state: a seeded book of
// ready orders, an empty queue, a fresh ledger, and the clock at opening time.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tag, err := notify.ParseLocale(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}

	e := &Engine{
		cfg:    cfg,
		ids:    queue.UUIDv7Generator{},
		text:   notify.NewFormatter(tag),
		seq:    NewSequence(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rnd == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		e.rnd = random.NewSeeded(seed)
	}

	e.book = orderbook.New(e.rnd,
		orderbook.WithDeliveryRange(cfg.DeliveryMin, cfg.DeliveryMax),
		orderbook.WithUniqueCodes(cfg.UniqueCodes),
	)
	e.customers = queue.New(e.ids,
		queue.WithLimit(cfg.QueueLimit),
		queue.WithSpawnChance(cfg.SpawnChance),
		queue.WithNamer(e.text.CustomerName),
	)
	e.ledger = ledger.New(cfg.Salary, cfg.InitialRating)
	e.clock = clock.New(cfg.ShiftOpen, cfg.ShiftClose, cfg.TimeStep)
	e.nextTick = cfg.TickInterval()

	e.book.Seed(cfg.InitialOrders)
	e.logger.Debug("engine initialized", "orders", cfg.InitialOrders, "salary", cfg.Salary)

	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// Snapshot is a detached, read-only copy of the engine state.
type Snapshot struct {
	Orders            []domain.Order    `json:"orders"`
	Customers         []domain.Customer `json:"customers"`
	Stats             domain.Stats      `json:"stats"`
	Income            int               `json:"income"`
	Time              float64           `json:"time"`
	TimeLabel         string            `json:"time_label"`
	OnBreak           bool              `json:"on_break"`
	State             clock.State       `json:"state"`
	Ticks             int64             `json:"ticks"`
	PendingDeliveries int               `json:"pending_deliveries"`
	Elapsed           time.Duration     `json:"elapsed"`
}

// Snapshot returns the current state for rendering.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := e.ledger.Snapshot()
	return Snapshot{
		Orders:            e.book.List(),
		Customers:         e.customers.List(),
		Stats:             stats,
		Income:            stats.Income(),
		Time:              e.clock.Time(),
		TimeLabel:         e.clock.Label(),
		OnBreak:           e.clock.OnBreak(),
		State:             e.clock.State(),
		Ticks:             e.clock.Ticks(),
		PendingDeliveries: e.pending.Len(),
		Elapsed:           e.now,
	}
}

// Order returns a copy of one order.
func (e *Engine) Order(id string) (domain.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Get(id)
}

// ShelfCount returns how many orders sit on the shelf with the given letter.
func (e *Engine) ShelfCount(letter string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.CountByPrefix(letter)
}

// FormatMoney formats an amount in the engine's locale.
func (e *Engine) FormatMoney(amount int) string {
	return e.text.Money(amount)
}
