// Package engine implements the pickup point simulation engine.
//
// The engine is the only owner of mutable simulation state: the order book,
// the customer queue, the economy ledger, and the shift clock. Presentation
// code calls the operations below and renders Snapshot; it never touches
// the state directly.
//
// ARCHITECTURE:
//
// Atomic operations:
// Every exported operation runs under one mutex, so no caller ever observes a
// partially applied mutation. Notifications produced by an operation are
// journaled under the same lock and handed to the notifier after it is
// released.
//
// Simulated time:
// The engine keeps its own elapsed-time counter. Advance moves it forward and
// fires, in due-time order:
//   - clock ticks every tick interval (advance shift time, maybe spawn a customer)
//   - deferred delivery batches whose latency has elapsed
//
// A delivery due at the same instant as a tick is applied first. Deliveries
// are never cancelled and each AcceptDelivery schedules its own batch.
//
// Single-writer loop:
// Loop is the event loop used by interactive front ends. Commands submitted
// from any goroutine and wall-clock ticks are processed one at a time on the
// loop goroutine; wall ticks become Advance calls.
//
// Determinism:
// Randomness comes from an injected random.Source and customer IDs from an
// injected IDGenerator. With both fixed, a sequence of operations always
// produces the same state and the same journal.
package engine
