package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_New(t *testing.T) {
	l := New(DefaultSalary, DefaultRating)
	s := l.Snapshot()

	assert.Equal(t, 25000, s.Salary)
	assert.Equal(t, 5.0, s.Rating)
	assert.Zero(t, s.Bonus)
	assert.Zero(t, s.Penalties)
	assert.Zero(t, s.OrdersIssued)
	assert.Zero(t, s.OrdersAccepted)
	assert.Zero(t, s.Shift)
	assert.Equal(t, 25000, l.Income())
}

func TestLedger_Accumulators(t *testing.T) {
	l := New(1000, 4)

	require.NoError(t, l.CreditBonus(50))
	require.NoError(t, l.CreditBonus(30))
	require.NoError(t, l.DebitPenalty(20))
	require.NoError(t, l.IncrementAccepted(7))
	l.IncrementIssued()

	s := l.Snapshot()
	assert.Equal(t, 80, s.Bonus)
	assert.Equal(t, 20, s.Penalties)
	assert.Equal(t, 7, s.OrdersAccepted)
	assert.Equal(t, 1, s.OrdersIssued)
	assert.Equal(t, 1060, l.Income())
}

func TestLedger_RejectsNegativeAmounts(t *testing.T) {
	l := New(1000, 4)

	assert.Error(t, l.CreditBonus(-1))
	assert.Error(t, l.DebitPenalty(-1))
	assert.Error(t, l.IncrementAccepted(-1))
	assert.Equal(t, New(1000, 4).Snapshot(), l.Snapshot())
}

func TestLedger_BumpRating(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		delta float64
		want  float64
	}{
		{"capped at max", 5.0, 0.1, 5.0},
		{"normal step", 4.5, 0.1, 4.6},
		{"floored at min", 0.05, -1, 0.0},
		{"reaches max exactly", 4.9, 0.1, 5.0},
		{"sub-tenth step", 4.0, 0.04, 4.04},
		{"half-tenth step", 4.0, 0.05, 4.05},
		{"negative step", 3.0, -0.25, 2.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(0, tt.start)
			assert.InDelta(t, tt.want, l.BumpRating(tt.delta), 1e-9)
		})
	}
}

func TestLedger_RatingAccumulatesSteps(t *testing.T) {
	l := New(0, 0)
	for i := 0; i < 30; i++ {
		l.BumpRating(0.1)
	}
	assert.InDelta(t, 3.0, l.Snapshot().Rating, 1e-9)

	l = New(0, 4.0)
	for i := 0; i < 10; i++ {
		l.BumpRating(0.04)
	}
	assert.InDelta(t, 4.4, l.Snapshot().Rating, 1e-9)
}

func TestLedger_StartingRatingKept(t *testing.T) {
	assert.Equal(t, 4.97, New(0, 4.97).Snapshot().Rating)
	assert.Equal(t, 5.0, New(0, 7).Snapshot().Rating)
	assert.Equal(t, 0.0, New(0, -1).Snapshot().Rating)
}

func TestLedger_NextShift(t *testing.T) {
	l := New(0, 5)
	assert.Equal(t, 1, l.NextShift())
	assert.Equal(t, 2, l.NextShift())
}

func TestLedger_ConcurrentUpdatesNotLost(t *testing.T) {
	l := New(0, 5)
	const goroutines = 50

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.CreditBonus(10)
			_ = l.IncrementAccepted(1)
			l.IncrementIssued()
		}()
	}
	wg.Wait()

	s := l.Snapshot()
	assert.Equal(t, goroutines*10, s.Bonus)
	assert.Equal(t, goroutines, s.OrdersAccepted)
	assert.Equal(t, goroutines, s.OrdersIssued)
}
