// Package dedupe tracks which job identifiers have already been captured so
// list reordering between pages never processes the same application twice.
package dedupe

type Set struct {
	seen map[string]struct{}
}

func NewSet() *Set {
	return &Set{seen: map[string]struct{}{}}
}

// Preload seeds the set, used to resume from identifiers persisted by
// earlier runs.
func Preload(ids []string) *Set {
	s := NewSet()
	for _, id := range ids {
		s.MarkSeen(id)
	}
	return s
}

func (s *Set) Seen(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// MarkSeen is idempotent, marking an identifier twice is a no-op.
func (s *Set) MarkSeen(id string) {
	s.seen[id] = struct{}{}
}

func (s *Set) Len() int {
	return len(s.seen)
}
