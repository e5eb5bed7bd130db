package engine

import "sync/atomic"

// Sequence is a monotonic logical counter stamped on every journal entry.
//
// Entries are ordered by sequence number, never by wall-clock time, so two
// runs with the same inputs produce identical journals.
//
// Thread-safety: safe for concurrent use (atomic operations).
type Sequence struct {
	seq atomic.Int64
}

// NewSequence creates a sequence starting at 0. The first Next returns 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next sequence number.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the last issued number without incrementing.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}
