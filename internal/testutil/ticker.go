package testutil

import "time"

// ManualTicker is a tick source driven by the test instead of the wall clock.
//
// Pass C to engine.WithTickSource and call Fire to deliver one tick.
type ManualTicker struct {
	C   chan time.Time
	now time.Time
}

// NewManualTicker creates a ticker with an unbuffered channel.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{
		C:   make(chan time.Time),
		now: time.Unix(0, 0),
	}
}

// Fire blocks until the receiver accepts one tick.
func (t *ManualTicker) Fire() {
	t.now = t.now.Add(time.Second)
	t.C <- t.now
}
