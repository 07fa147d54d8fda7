package runutil

// Seen is a bounded set. Once full, the oldest key is forgotten.
// Add returns true if the key was already present.
type Seen[K comparable] struct {
	keys []K
	next int
	full bool
	m    map[K]struct{}
}

// NewSeen returns a set holding at most capacity keys (default 4096).
func NewSeen[K comparable](capacity int) *Seen[K] {
	if capacity <= 0 {
		capacity = 4096
	}
	return &Seen[K]{keys: make([]K, capacity), m: make(map[K]struct{}, capacity)}
}

// Add inserts k; returns true if it was already present.
func (s *Seen[K]) Add(k K) bool {
	if _, ok := s.m[k]; ok {
		return true
	}
	if s.full {
		delete(s.m, s.keys[s.next])
	}
	s.keys[s.next] = k
	s.m[k] = struct{}{}
	s.next++
	if s.next == len(s.keys) {
		s.next, s.full = 0, true
	}
	return false
}

// Len is the number of keys currently held.
func (s *Seen[K]) Len() int { return len(s.m) }
