// Package store is the session journal: an append-only SQLite log of every
// notification and operation outcome the engine produces.
//
// The journal lives for one session. By default it is an in-memory database,
// and the engine never reads it back to rebuild state; it exists so the CLI
// can show history and so tests can assert on the exact event sequence.
//
// Entries are ordered by the engine's logical sequence number, never by
// wall-clock time.
package store
