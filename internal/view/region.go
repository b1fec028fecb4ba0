package view

import "sync"

// Region is a portion of the host UI that a render call fully replaces.
type Region interface {
	// Replace swaps the region's entire content.
	Replace(content string) error
	// SetVisible shows or hides the region without touching its content.
	SetVisible(visible bool) error
}

// Region names shared with the page script.
const (
	RegionShows    = "showsList"
	RegionEpisodes = "episodesArea"
)

// SearchControl holds the term last submitted through the search form.
type SearchControl struct {
	mu   sync.RWMutex
	term string
}

// Submit records term as the current search.
func (s *SearchControl) Submit(term string) {
	s.mu.Lock()
	s.term = term
	s.mu.Unlock()
}

// Term returns the last submitted term.
func (s *SearchControl) Term() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.term
}

// UIContext holds the handles a Renderer and Controller operate on. It is
// built per session and passed in; nothing looks regions up globally.
type UIContext struct {
	Shows    Region
	Episodes Region
	Search   *SearchControl
}

// NewUIContext wires a UIContext from its regions.
func NewUIContext(shows, episodes Region) *UIContext {
	return &UIContext{
		Shows:    shows,
		Episodes: episodes,
		Search:   &SearchControl{},
	}
}

// NewMemoryUIContext returns a UIContext backed by in-memory regions with
// the episode region initially hidden.
func NewMemoryUIContext() (*UIContext, *MemoryRegion, *MemoryRegion) {
	shows := NewMemoryRegion(true)
	episodes := NewMemoryRegion(false)
	return NewUIContext(shows, episodes), shows, episodes
}

// MemoryRegion keeps region state in memory. It backs server-rendered pages,
// the CLI, and tests.
type MemoryRegion struct {
	mu      sync.RWMutex
	content string
	visible bool
}

// NewMemoryRegion creates an empty region.
func NewMemoryRegion(visible bool) *MemoryRegion {
	return &MemoryRegion{visible: visible}
}

func (r *MemoryRegion) Replace(content string) error {
	r.mu.Lock()
	r.content = content
	r.mu.Unlock()
	return nil
}

func (r *MemoryRegion) SetVisible(visible bool) error {
	r.mu.Lock()
	r.visible = visible
	r.mu.Unlock()
	return nil
}

// Content returns the current content.
func (r *MemoryRegion) Content() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.content
}

// Visible reports whether the region is shown.
func (r *MemoryRegion) Visible() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.visible
}
