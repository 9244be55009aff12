package colony

import "sync"

// Selection tracks the currently selected building id and reports edges.
// The zero value has nothing selected.
type Selection struct {
	mu      sync.Mutex
	current string
}

// Select makes id current. Returns true only when the selection changed to a
// new non-empty id, which is when a chime should fire.
func (s *Selection) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.current {
		return false
	}
	s.current = id
	return id != ""
}

// Clear deselects. The next Select of any id, including the previous one,
// counts as a change.
func (s *Selection) Clear() {
	s.mu.Lock()
	s.current = ""
	s.mu.Unlock()
}

// Current returns the selected id, or "" when nothing is selected.
func (s *Selection) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
