package client

import (
	"sync"

	"github.com/avasquez/recordshelf-be/internal/models"
)

// SearchView holds the rendered search results keyed by the query that
// produced them. A response for a superseded query is discarded: if "a"
// resolves after "ab" has become the active query, "a"'s results never
// overwrite "ab"'s.
type SearchView struct {
	mu      sync.Mutex
	current string
	results []models.AlbumCandidate
}

// SetQuery makes the given query the active one. Previously displayed results
// are cleared; results from older queries arriving later are ignored.
func (v *SearchView) SetQuery(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if query == v.current {
		return
	}
	v.current = query
	v.results = nil
}

// Apply installs results for the query that produced them. Reports whether
// they were accepted, i.e. the query is still the active one.
func (v *SearchView) Apply(query string, results []models.AlbumCandidate) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if query != v.current {
		return false
	}
	v.results = results
	return true
}

// Query returns the active query.
func (v *SearchView) Query() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Results returns the results for the active query, or nil while they are
// still in flight.
func (v *SearchView) Results() []models.AlbumCandidate {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.results
}
