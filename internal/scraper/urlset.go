// internal/scraper/urlset.go
package scraper

// urlSet is an insertion-ordered string set. Pagination may repeat items
// across overlapping pages, so every candidate is membership-checked before
// it is appended; iteration order is first-seen order.
type urlSet struct {
	seen  map[string]struct{}
	order []string
}

func newURLSet() *urlSet {
	return &urlSet{seen: make(map[string]struct{})}
}

// Add inserts u unless it is already present and reports whether it was new
func (s *urlSet) Add(u string) bool {
	if _, ok := s.seen[u]; ok {
		return false
	}
	s.seen[u] = struct{}{}
	s.order = append(s.order, u)
	return true
}

// Len returns the number of unique URLs
func (s *urlSet) Len() int {
	return len(s.order)
}

// Values returns the URLs in first-seen order
func (s *urlSet) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
