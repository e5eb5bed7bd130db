package engine

import (
	"context"

	"github.com/roach88/pvz/internal/domain"
	"github.com/roach88/pvz/internal/store"
)

// outbox collects the notifications of one operation so they can be handed
// to the notifier after the engine lock is released.
type outbox []domain.Notification

// record stamps n with the next sequence number, journals it, and queues it
// for the notifier. Must be called with e.mu held.
//
// Journal failures are logged and do not fail the operation.
func (e *Engine) record(ctx context.Context, out *outbox, n domain.Notification, code domain.ErrorCode) {
	seq := e.seq.Next()
	if e.journal != nil {
		entry := store.Entry{
			Seq:         seq,
			AtMS:        e.now.Milliseconds(),
			Kind:        string(n.Kind),
			Severity:    string(n.Severity),
			Subject:     n.Subject,
			Title:       n.Title,
			Description: n.Description,
			ErrorCode:   string(code),
		}
		if err := e.journal.Append(ctx, entry); err != nil {
			e.logger.Error("journal append failed", "seq", seq, "kind", n.Kind, "error", err)
		}
	}
	*out = append(*out, n)
}

// flush delivers collected notifications. Must be called without e.mu held.
func (e *Engine) flush(out *outbox) {
	if e.notifier == nil {
		return
	}
	for _, n := range *out {
		e.notifier(n)
	}
}

// invariantBroken logs an INVALID_STATE error reaching the engine boundary.
// Engine call discipline makes this unreachable; seeing it is a bug.
func (e *Engine) invariantBroken(op string, err error) {
	e.logger.Error("engine invariant violated", "op", op, "error", err)
}
