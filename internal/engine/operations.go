package engine

import (
	"context"

	"github.com/roach88/pvz/internal/domain"
)

// AcceptDelivery requests a courier drop. It returns the acknowledgment
// immediately; the batch is inserted and credited by Advance once the
// delivery latency has elapsed. Every call schedules its own batch.
func (e *Engine) AcceptDelivery(ctx context.Context) domain.Notification {
	var out outbox
	defer e.flush(&out)
	e.mu.Lock()
	defer e.mu.Unlock()

	batch := e.book.ReceiveDelivery()
	e.batches++
	e.pending.push(delivery{
		due:    e.now + e.cfg.DeliveryLatency(),
		seq:    e.batches,
		orders: batch,
	})
	e.logger.Debug("delivery scheduled", "batch", e.batches, "count", len(batch), "due", e.now+e.cfg.DeliveryLatency())

	n := e.text.DeliveryRequested()
	e.record(ctx, &out, n, "")
	return n
}

// IssueOrder hands a waiting customer their order.
//
// On success the order becomes issued, the customer leaves the queue, and the
// ledger records the pickup, all in one step. An order that is not ready
// yields ORDER_NOT_READY and changes nothing. A customer whose order has
// vanished is a no-op returning a zero Notification and nil error.
func (e *Engine) IssueOrder(ctx context.Context, customerID string) (domain.Notification, error) {
	var out outbox
	defer e.flush(&out)
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.customers.Get(customerID)
	if !ok {
		return domain.Notification{}, domain.NewNotFound("customer", customerID)
	}

	o, ok := e.book.Get(c.OrderID)
	if !ok {
		e.logger.Warn("customer references missing order", "customer", c.ID, "order", c.OrderID)
		return domain.Notification{}, nil
	}

	if o.Status != domain.StatusReady {
		n := e.text.OrderNotReady(o)
		e.record(ctx, &out, n, domain.ErrCodeOrderNotReady)
		return n, domain.NewOrderNotReady(o.ID, o.Status)
	}

	if err := e.book.MarkIssued(o.ID); err != nil {
		e.invariantBroken("issue", err)
		return domain.Notification{}, err
	}
	if _, err := e.customers.Remove(c.ID); err != nil {
		e.invariantBroken("issue", err)
		return domain.Notification{}, err
	}
	e.ledger.IncrementIssued()
	if err := e.ledger.CreditBonus(e.cfg.IssueBonus); err != nil {
		e.invariantBroken("issue", err)
	}
	e.ledger.BumpRating(e.cfg.RatingStep)

	e.logger.Debug("order issued", "order", o.ID, "customer", c.ID)
	n := e.text.OrderIssued(o, e.cfg.IssueBonus)
	e.record(ctx, &out, n, "")
	return n, nil
}

// ProcessReturn removes an order whatever its status and credits the return
// bonus. A customer waiting for that order leaves with it, so no customer is
// left bound to a missing order.
func (e *Engine) ProcessReturn(ctx context.Context, orderID string) (domain.Notification, error) {
	var out outbox
	defer e.flush(&out)
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.book.Remove(orderID)
	if err != nil {
		n := e.text.OrderNotFound(orderID)
		e.record(ctx, &out, n, domain.CodeOf(err))
		return n, err
	}
	if c, waiting := e.customers.FindByOrderID(o.ID); waiting {
		if _, err := e.customers.Remove(c.ID); err != nil {
			e.invariantBroken("return", err)
		}
		e.logger.Debug("customer left with returned order", "customer", c.ID, "order", o.ID)
	}
	if err := e.ledger.CreditBonus(e.cfg.ReturnBonus); err != nil {
		e.invariantBroken("return", err)
	}

	e.logger.Debug("order returned", "order", o.ID, "status", o.Status)
	n := e.text.OrderReturned(o, e.cfg.ReturnBonus)
	e.record(ctx, &out, n, "")
	return n, nil
}

// ScanOrderByCode looks up the first order with code. A pending order is
// placed on its shelf (becomes ready) and reported; scanning a ready or issued
// order is a silent lookup with a zero Notification. An unknown code returns
// NOT_FOUND together with an error notification.
func (e *Engine) ScanOrderByCode(ctx context.Context, code string) (domain.Order, domain.Notification, error) {
	var out outbox
	defer e.flush(&out)
	e.mu.Lock()
	defer e.mu.Unlock()

	o, placed, err := e.book.ScanByCode(code)
	if err != nil {
		n := e.text.OrderNotFound(code)
		e.record(ctx, &out, n, domain.CodeOf(err))
		return domain.Order{}, n, err
	}
	if !placed {
		return o, domain.Notification{}, nil
	}

	n := e.text.OrderPlaced(o)
	e.record(ctx, &out, n, "")
	return o, n, nil
}

// ToggleBreak flips break mode. While on break no customer arrives; shift
// time keeps running.
func (e *Engine) ToggleBreak(ctx context.Context) domain.Notification {
	var out outbox
	defer e.flush(&out)
	e.mu.Lock()
	defer e.mu.Unlock()

	onBreak := e.clock.ToggleBreak()
	e.logger.Debug("break toggled", "on_break", onBreak)

	n := e.text.BreakToggled(onBreak)
	e.record(ctx, &out, n, "")
	return n
}

// AdmitCustomer seats a walk-in customer for a specific ready order,
// bypassing the arrival roll. Break mode does not block walk-ins.
func (e *Engine) AdmitCustomer(ctx context.Context, orderID string) (domain.Customer, error) {
	var out outbox
	defer e.flush(&out)
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.book.Get(orderID)
	if !ok {
		return domain.Customer{}, domain.NewNotFound("order", orderID)
	}
	c, err := e.customers.Admit(o)
	if err != nil {
		return domain.Customer{}, err
	}

	e.record(ctx, &out, e.text.CustomerArrived(c), "")
	return c, nil
}
