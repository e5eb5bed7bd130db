// Package autopilot plays the pickup point without a human at the counter.
//
// Each step the pilot shelves every pending order it can reach by code,
// serves every waiting customer, and requests a delivery when ready stock
// runs low and no courier is already on the way. It only calls public engine
// operations, the same ones a front end would.
package autopilot

import (
	"context"
	"log/slog"

	"github.com/roach88/pvz/internal/domain"
	"github.com/roach88/pvz/internal/engine"
)

// DefaultLowStock is the ready-order count below which a delivery is requested.
const DefaultLowStock = 5

// Pilot drives an engine with a fixed policy.
type Pilot struct {
	eng      *engine.Engine
	lowStock int
	logger   *slog.Logger
}

// Option configures a Pilot.
type Option func(*Pilot)

// WithLowStock sets the restock threshold.
func WithLowStock(n int) Option {
	return func(p *Pilot) {
		p.lowStock = n
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pilot) {
		p.logger = l
	}
}

// New creates a pilot for eng.
func New(eng *engine.Engine, opts ...Option) *Pilot {
	p := &Pilot{
		eng:      eng,
		lowStock: DefaultLowStock,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Report summarizes what the pilot did.
type Report struct {
	Ticks      int             `json:"ticks"`
	Shelved    int             `json:"shelved"`
	Served     int             `json:"served"`
	Deliveries int             `json:"deliveries"`
	Failures   int             `json:"failures"`
	Final      engine.Snapshot `json:"final"`
}

// Run advances the engine by ticks clock ticks, acting after each one.
// It stops early, returning the partial report, when ctx is cancelled.
func (p *Pilot) Run(ctx context.Context, ticks int) (Report, error) {
	var r Report
	for range ticks {
		if err := ctx.Err(); err != nil {
			r.Final = p.eng.Snapshot()
			return r, err
		}
		p.eng.Tick(ctx)
		r.Ticks++
		p.Step(ctx, &r)
	}
	r.Final = p.eng.Snapshot()

	p.logger.Info("autopilot finished",
		"ticks", r.Ticks,
		"shelved", r.Shelved,
		"served", r.Served,
		"deliveries", r.Deliveries,
		"income", r.Final.Income,
	)
	return r, nil
}

// Step applies the policy once to the current state and adds to r.
func (p *Pilot) Step(ctx context.Context, r *Report) {
	snap := p.eng.Snapshot()

	p.shelve(ctx, snap.Orders, r)
	p.serve(ctx, snap.Customers, r)

	snap = p.eng.Snapshot()
	if snap.PendingDeliveries == 0 && readyUnclaimed(snap) < p.lowStock {
		p.eng.AcceptDelivery(ctx)
		r.Deliveries++
		p.logger.Debug("autopilot requested delivery", "ready", readyUnclaimed(snap))
	}
}

// shelve scans each pending order's code. An order whose code is shared
// with an earlier order cannot be reached by scanning and stays pending.
func (p *Pilot) shelve(ctx context.Context, orders []domain.Order, r *Report) {
	for _, o := range orders {
		if o.Status != domain.StatusPending {
			continue
		}
		got, _, err := p.eng.ScanOrderByCode(ctx, o.Code)
		if err != nil {
			r.Failures++
			p.logger.Warn("autopilot scan failed", "order", o.ID, "error", err)
			continue
		}
		if got.ID == o.ID {
			r.Shelved++
		}
	}
}

func (p *Pilot) serve(ctx context.Context, customers []domain.Customer, r *Report) {
	for _, c := range customers {
		n, err := p.eng.IssueOrder(ctx, c.ID)
		switch {
		case err != nil:
			r.Failures++
			p.logger.Warn("autopilot issue failed", "customer", c.ID, "error", err)
		case n.Kind == domain.KindOrderIssued:
			r.Served++
		}
	}
}

func readyUnclaimed(snap engine.Snapshot) int {
	claimed := make(map[string]bool, len(snap.Customers))
	for _, c := range snap.Customers {
		claimed[c.OrderID] = true
	}
	n := 0
	for _, o := range snap.Orders {
		if o.Status == domain.StatusReady && !claimed[o.ID] {
			n++
		}
	}
	return n
}
