package autopilot

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pvz/internal/config"
	"github.com/roach88/pvz/internal/domain"
	"github.com/roach88/pvz/internal/engine"
	"github.com/roach88/pvz/internal/random"
	"github.com/roach88/pvz/internal/testutil"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine(t *testing.T, cfg config.Config, rnd random.Source) *engine.Engine {
	t.Helper()
	e, err := engine.New(cfg,
		engine.WithRandom(rnd),
		engine.WithIDGenerator(testutil.NewSequenceGenerator("CUST")),
		engine.WithLogger(quiet()),
	)
	require.NoError(t, err)
	return e
}

func TestPilot_ServesArrivals(t *testing.T) {
	e := newEngine(t, config.Default(), &random.Scripted{})
	p := New(e, WithLogger(quiet()))

	r, err := p.Run(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, r.Ticks)
	assert.Equal(t, 1, r.Served)
	assert.Zero(t, r.Failures)
	o, ok := e.Order("ORD-1001")
	require.True(t, ok)
	assert.Equal(t, domain.StatusIssued, o.Status)
}

func TestPilot_RestocksAndShelves(t *testing.T) {
	cfg := config.Default()
	cfg.InitialOrders = 0
	cfg.SpawnChance = 0
	cfg.UniqueCodes = true
	e := newEngine(t, cfg, random.NewSeeded(42))
	p := New(e, WithLogger(quiet()))

	r, err := p.Run(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 1, r.Deliveries)
	assert.Equal(t, r.Final.Stats.OrdersAccepted, r.Shelved)
	for _, o := range r.Final.Orders {
		assert.Equal(t, domain.StatusReady, o.Status)
	}
}

func TestPilot_LowStockThreshold(t *testing.T) {
	cfg := config.Default()
	cfg.SpawnChance = 0
	e := newEngine(t, cfg, &random.Scripted{})

	r, err := New(e, WithLowStock(20), WithLogger(quiet())).Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Deliveries, "15 ready orders are below 20")

	r, err = New(e, WithLowStock(5), WithLogger(quiet())).Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, r.Deliveries)
}

func TestPilot_LongSessionKeepsInvariants(t *testing.T) {
	cfg := config.Default()
	cfg.SpawnChance = 0.5
	cfg.UniqueCodes = true
	e := newEngine(t, cfg, random.NewSeeded(7))
	p := New(e, WithLogger(quiet()))

	r, err := p.Run(context.Background(), 500)
	require.NoError(t, err)

	assert.Zero(t, r.Failures)
	assert.Positive(t, r.Served)
	assert.Positive(t, r.Deliveries)
	assert.Equal(t, r.Served, r.Final.Stats.OrdersIssued)
	assert.Equal(t, cfg.Salary+r.Final.Stats.Bonus, r.Final.Income)
	assert.Equal(t, 4, r.Final.Stats.Shift, "500 ticks of 0.1h over a 12h day")

	orders := map[string]domain.Order{}
	for _, o := range r.Final.Orders {
		orders[o.ID] = o
		assert.True(t, domain.ValidCell(o.Cell))
		assert.True(t, domain.ValidCode(o.Code))
	}
	for _, c := range r.Final.Customers {
		o, ok := orders[c.OrderID]
		require.True(t, ok, "customer %s references a missing order", c.ID)
		assert.Equal(t, domain.StatusReady, o.Status)
	}
	assert.LessOrEqual(t, r.Final.Stats.Rating, 5.0)
}

func TestPilot_StopsOnCancel(t *testing.T) {
	e := newEngine(t, config.Default(), &random.Scripted{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := New(e, WithLogger(quiet())).Run(ctx, 10)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, r.Ticks)
	assert.Len(t, r.Final.Orders, 15)
}
