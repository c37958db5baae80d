package locator

// Set is an insertion-ordered set of locators with an optional size cap.
// A zero or negative cap means unbounded.
type Set struct {
	seen  map[string]struct{}
	items []string
	cap   int
}

// NewSet creates an empty Set bounded by limit.
func NewSet(limit int) *Set {
	return &Set{
		seen: make(map[string]struct{}),
		cap:  limit,
	}
}

// Add inserts loc if it is new and the cap has not been reached. It reports
// whether loc was appended.
func (s *Set) Add(loc string) bool {
	if s.Full() {
		return false
	}
	if _, ok := s.seen[loc]; ok {
		return false
	}
	s.seen[loc] = struct{}{}
	s.items = append(s.items, loc)
	return true
}

// Full reports whether the cap has been reached.
func (s *Set) Full() bool {
	return s.cap > 0 && len(s.items) >= s.cap
}

// Len returns the number of locators in the set.
func (s *Set) Len() int {
	return len(s.items)
}

// Items returns the locators in first-seen order.
func (s *Set) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
