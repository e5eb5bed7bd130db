package random

import "sync"

// Scripted replays predetermined draws and falls back to the lowest legal
// value once a script is exhausted.
//
// Fallbacks: Float64 returns 0, IntRange returns lo, WeightedChoice returns
// the first positive weight. A zero-value Scripted is therefore fully
// deterministic with no script at all.
//
// Thread-safety: safe for concurrent use via internal mutex.
type Scripted struct {
	mu      sync.Mutex
	floats  []float64
	ints    []int
	choices []int
}

// NewScripted creates a Scripted source with the given float and int scripts.
func NewScripted(floats []float64, ints []int) *Scripted {
	return &Scripted{floats: floats, ints: ints}
}

// PushFloats appends values to the Float64 script.
func (s *Scripted) PushFloats(vs ...float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floats = append(s.floats, vs...)
}

// PushInts appends values to the IntRange script.
func (s *Scripted) PushInts(vs ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = append(s.ints, vs...)
}

// PushChoices appends indexes to the WeightedChoice script.
func (s *Scripted) PushChoices(vs ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.choices = append(s.choices, vs...)
}

// Float64 implements Source.
func (s *Scripted) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// IntRange implements Source. Scripted values are clamped into [lo, hi).
func (s *Scripted) IntRange(lo, hi int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hi <= lo || len(s.ints) == 0 {
		return lo
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < lo {
		return lo
	}
	if v >= hi {
		return hi - 1
	}
	return v
}

// WeightedChoice implements Source.
func (s *Scripted) WeightedChoice(weights []float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.choices) > 0 {
		v := s.choices[0]
		s.choices = s.choices[1:]
		if v >= 0 && v < len(weights) {
			return v
		}
	}
	for i, w := range weights {
		if w > 0 {
			return i
		}
	}
	return 0
}
