package engine

import (
	"context"
	"errors"
	"time"
)

// ErrLoopStopped is returned by Do once the loop no longer accepts commands.
var ErrLoopStopped = errors.New("engine loop stopped")

// DefaultFrame is the wall-clock interval between Advance calls.
const DefaultFrame = 100 * time.Millisecond

// Loop is the single-writer event loop.
//
// Thread-safety model:
//   - Submit(), Do(), Stop(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
type Loop struct {
	eng   *Engine
	queue *commandQueue

	ticks <-chan time.Time
	frame time.Duration
	speed float64
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithFrame sets the wall-clock interval between Advance calls.
func WithFrame(d time.Duration) LoopOption {
	return func(l *Loop) {
		l.frame = d
	}
}

// WithSpeed scales simulated time against wall time; 2 runs twice as fast.
func WithSpeed(f float64) LoopOption {
	return func(l *Loop) {
		l.speed = f
	}
}

// WithTickSource replaces the wall-clock ticker. Each value received advances
// the simulation by one frame (times speed).
func WithTickSource(ch <-chan time.Time) LoopOption {
	return func(l *Loop) {
		l.ticks = ch
	}
}

// NewLoop creates a loop driving e.
func NewLoop(e *Engine, opts ...LoopOption) *Loop {
	l := &Loop{
		eng:   e,
		queue: newCommandQueue(),
		frame: DefaultFrame,
		speed: 1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Submit enqueues a command. Returns false once the loop has stopped.
func (l *Loop) Submit(cmd Command) bool {
	return l.queue.Enqueue(cmd)
}

// Do submits cmd and waits until it has run.
func (l *Loop) Do(ctx context.Context, cmd Command) error {
	done := make(chan struct{})
	ok := l.Submit(func(ctx context.Context, e *Engine) {
		defer close(done)
		cmd(ctx, e)
	})
	if !ok {
		return ErrLoopStopped
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes commands and frames until ctx is cancelled or Stop is
// called. Commands already queued when Stop is called still run.
func (l *Loop) Run(ctx context.Context) error {
	ticks := l.ticks
	if ticks == nil {
		t := time.NewTicker(l.frame)
		defer t.Stop()
		ticks = t.C
	}
	step := time.Duration(float64(l.frame) * l.speed)

	l.eng.logger.Info("engine loop starting", "frame", l.frame, "speed", l.speed)

	for {
		if cmd, ok := l.queue.TryDequeue(); ok {
			cmd(ctx, l.eng)
			continue
		}

		select {
		case <-ctx.Done():
			l.eng.logger.Info("engine loop stopping: context cancelled")
			l.queue.Close()
			return ctx.Err()

		case <-ticks:
			l.eng.Advance(ctx, step)

		case <-l.queue.Wait():
			// The signal channel closes with the queue; drain, then exit.
			if l.queue.Len() == 0 && l.stopped() {
				l.eng.logger.Info("engine loop stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop closes the command queue; Run returns after draining it.
func (l *Loop) Stop() {
	l.queue.Close()
}

func (l *Loop) stopped() bool {
	l.queue.mu.Lock()
	defer l.queue.mu.Unlock()
	return l.queue.closed
}
