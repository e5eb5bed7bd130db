package engine

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pvz/internal/config"
	"github.com/roach88/pvz/internal/domain"
	"github.com/roach88/pvz/internal/random"
	"github.com/roach88/pvz/internal/store"
	"github.com/roach88/pvz/internal/testutil"
)

type testEngine struct {
	*Engine
	rnd     *random.Scripted
	journal *store.Store
	inbox   *inbox
}

type inbox struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (b *inbox) add(n domain.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, n)
}

func (b *inbox) all() []domain.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Notification(nil), b.items...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine builds an engine with scripted randomness (every draw at its
// lowest legal value unless pushed), sequential customer IDs, an in-memory
// journal, and a recording notifier.
func newTestEngine(t *testing.T, mutate func(*config.Config)) *testEngine {
	t.Helper()

	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}

	j, err := store.Open(store.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	rnd := &random.Scripted{}
	box := &inbox{}
	e, err := New(cfg,
		WithRandom(rnd),
		WithIDGenerator(testutil.NewSequenceGenerator("CUST")),
		WithJournal(j),
		WithNotifier(box.add),
		WithLogger(discardLogger()),
	)
	require.NoError(t, err)

	return &testEngine{Engine: e, rnd: rnd, journal: j, inbox: box}
}

// noArrivals makes every arrival roll miss.
func noArrivals(c *config.Config) {
	c.SpawnChance = 0
}

func journalKinds(t *testing.T, te *testEngine) []string {
	t.Helper()
	entries, err := te.journal.ReadAll(context.Background())
	require.NoError(t, err)
	kinds := make([]string, len(entries))
	for i, e := range entries {
		kinds[i] = e.Kind
	}
	return kinds
}
