package engine

import (
	"container/heap"
	"context"
	"time"

	"github.com/roach88/pvz/internal/domain"
)

// delivery is a courier batch waiting for its scan latency to elapse.
type delivery struct {
	due    time.Duration
	seq    int64
	orders []domain.Order
}

// deliveryHeap orders pending batches by (due, seq).
type deliveryHeap []delivery

func (h deliveryHeap) Len() int { return len(h) }

func (h deliveryHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h deliveryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *deliveryHeap) Push(x any) { *h = append(*h, x.(delivery)) }

func (h *deliveryHeap) Pop() any {
	old := *h
	n := len(old)
	d := old[n-1]
	old[n-1] = delivery{}
	*h = old[:n-1]
	return d
}

func (h *deliveryHeap) push(d delivery) { heap.Push(h, d) }

func (h *deliveryHeap) pop() delivery { return heap.Pop(h).(delivery) }

func (h deliveryHeap) peek() (delivery, bool) {
	if len(h) == 0 {
		return delivery{}, false
	}
	return h[0], true
}

// Advance moves simulated time forward by d, firing every delivery and clock
// tick that falls due, in time order. It returns the notifications produced.
// A negative d is treated as zero.
func (e *Engine) Advance(ctx context.Context, d time.Duration) []domain.Notification {
	var out outbox
	defer e.flush(&out)
	e.mu.Lock()
	defer e.mu.Unlock()

	if d < 0 {
		d = 0
	}
	e.advanceLocked(ctx, &out, e.now+d)
	return append([]domain.Notification(nil), out...)
}

// Tick advances simulated time exactly to the next clock tick.
func (e *Engine) Tick(ctx context.Context) []domain.Notification {
	var out outbox
	defer e.flush(&out)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advanceLocked(ctx, &out, e.nextTick)
	return append([]domain.Notification(nil), out...)
}

// Elapsed returns the simulated time since session start.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

func (e *Engine) advanceLocked(ctx context.Context, out *outbox, target time.Duration) {
	for {
		next, ok := e.pending.peek()
		if ok && next.due <= e.nextTick && next.due <= target {
			e.now = max(e.now, next.due)
			e.applyDelivery(ctx, out, e.pending.pop())
			continue
		}
		if e.nextTick > target {
			break
		}
		e.now = e.nextTick
		e.nextTick += e.cfg.TickInterval()
		e.tick(ctx, out)
	}
	e.now = target
}

// applyDelivery inserts a due batch and credits the ledger.
func (e *Engine) applyDelivery(ctx context.Context, out *outbox, d delivery) {
	if err := e.book.Insert(d.orders...); err != nil {
		e.invariantBroken("delivery", err)
		return
	}
	count := len(d.orders)
	bonus := count * e.cfg.AcceptBonus
	if err := e.ledger.IncrementAccepted(count); err != nil {
		e.invariantBroken("delivery", err)
	}
	if err := e.ledger.CreditBonus(bonus); err != nil {
		e.invariantBroken("delivery", err)
	}

	e.logger.Info("delivery accepted", "batch", d.seq, "count", count, "bonus", bonus)
	e.record(ctx, out, e.text.DeliveryCompleted(count, bonus), "")
}

// tick advances shift time and gives a customer the chance to arrive.
func (e *Engine) tick(ctx context.Context, out *outbox) {
	if e.clock.Tick() {
		shift := e.ledger.NextShift()
		e.logger.Info("shift rolled over", "shift", shift)
	}

	c, arrived := e.customers.TrySpawn(e.book, e.rnd, e.clock.OnBreak())
	if !arrived {
		return
	}
	e.logger.Debug("customer arrived", "customer", c.ID, "order", c.OrderID)
	e.record(ctx, out, e.text.CustomerArrived(c), "")
}
