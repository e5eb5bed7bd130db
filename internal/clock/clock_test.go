package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_New(t *testing.T) {
	c := New(DefaultOpen, DefaultClose, DefaultStep)
	assert.Equal(t, 9.0, c.Time())
	assert.Equal(t, "9:00", c.Label())
	assert.Equal(t, StateOpen, c.State())
	assert.False(t, c.OnBreak())
}

func TestClock_Tick_Advances(t *testing.T) {
	c := New(DefaultOpen, DefaultClose, DefaultStep)

	assert.False(t, c.Tick())
	assert.Equal(t, 9.1, c.Time())

	for i := 0; i < 9; i++ {
		c.Tick()
	}
	assert.Equal(t, 10.0, c.Time(), "ten steps of 0.1h make an hour exactly")
	assert.Equal(t, 10, c.Hour())
	assert.Equal(t, int64(10), c.Ticks())
}

func TestClock_Tick_WrapsBeforeClose(t *testing.T) {
	c := New(DefaultOpen, DefaultClose, DefaultStep)
	wraps := 0
	for i := 0; i < 120; i++ {
		if c.Tick() {
			wraps++
		}
		assert.GreaterOrEqual(t, c.Time(), 9.0)
		assert.Less(t, c.Time(), 21.0)
	}

	assert.Equal(t, 1, wraps, "120 steps of 0.1h cover the 12h shift once")
	assert.Equal(t, 9.0, c.Time())
}

func TestClock_Tick_IndependentOfBreak(t *testing.T) {
	c := New(DefaultOpen, DefaultClose, DefaultStep)
	c.ToggleBreak()
	c.Tick()
	assert.Equal(t, 9.1, c.Time())
}

func TestClock_ToggleBreak_Idempotent(t *testing.T) {
	c := New(DefaultOpen, DefaultClose, DefaultStep)
	c.Tick()
	before := *c

	assert.True(t, c.ToggleBreak())
	assert.Equal(t, StateOnBreak, c.State())
	assert.False(t, c.ToggleBreak())

	assert.Equal(t, before, *c)
}

func TestClock_CustomRange(t *testing.T) {
	c := New(10, 11, 5)
	assert.False(t, c.Tick())
	assert.Equal(t, 10.5, c.Time())
	assert.True(t, c.Tick())
	assert.Equal(t, 10.0, c.Time())
}
