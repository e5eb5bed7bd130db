// Package domain holds the value types shared by every simulation component:
// orders, customers, the economy snapshot, notifications, and the error
// taxonomy reported back to callers.
//
// Types here carry no behavior beyond validation helpers. Ownership of the
// mutable collections lives in orderbook, queue, and ledger; the engine is the
// only writer.
package domain
