// Package clock implements the shift clock: a wrapping time of day and the
// break flag that gates customer arrivals.
//
// Time is stored in tenths of an hour so repeated steps never accumulate
// floating-point error. Wall-clock pacing lives in the engine; this clock only
// counts ticks.
package clock

import "fmt"

const (
	// DefaultOpen and DefaultClose bound the shift in hours: time stays in [open, close).
	DefaultOpen  = 9
	DefaultClose = 21

	// DefaultStep is the per-tick advance in tenths of an hour (0.1 h).
	DefaultStep = 1
)

// State is the open/break state of the pickup point.
type State string

const (
	StateOpen    State = "open"
	StateOnBreak State = "on_break"
)

// Clock is the shift clock. Not safe for concurrent use; the engine serializes access.
type Clock struct {
	tenths  int
	open    int
	close   int
	step    int
	onBreak bool
	ticks   int64
}

// New creates a clock at the opening hour. open and close are whole hours,
// step is in tenths of an hour.
func New(open, close, step int) *Clock {
	return &Clock{
		tenths: open * 10,
		open:   open,
		close:  close,
		step:   step,
	}
}

// Tick advances time by one step and reports whether it wrapped back to the
// opening hour. Break state does not affect time.
func (c *Clock) Tick() (wrapped bool) {
	c.ticks++
	c.tenths += c.step
	if c.tenths >= c.close*10 {
		c.tenths = c.open * 10
		return true
	}
	return false
}

// ToggleBreak flips the break flag and returns the new value.
func (c *Clock) ToggleBreak() bool {
	c.onBreak = !c.onBreak
	return c.onBreak
}

// Time returns the time of day in hours, e.g. 9.3.
func (c *Clock) Time() float64 {
	return float64(c.tenths) / 10
}

// Hour returns the whole hour of the current time.
func (c *Clock) Hour() int {
	return c.tenths / 10
}

// Label formats the time as the presentation shows it ("9:00").
func (c *Clock) Label() string {
	return fmt.Sprintf("%d:00", c.Hour())
}

// OnBreak reports whether arrivals are suppressed.
func (c *Clock) OnBreak() bool {
	return c.onBreak
}

// State returns the current open/break state.
func (c *Clock) State() State {
	if c.onBreak {
		return StateOnBreak
	}
	return StateOpen
}

// Ticks returns the number of ticks since creation.
func (c *Clock) Ticks() int64 {
	return c.ticks
}
