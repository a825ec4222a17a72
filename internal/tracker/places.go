package tracker

import (
	"sync"

	"github.com/erickhangati/mapty/internal/workout"
)

// UnknownLocation is shown for entries whose place lookup failed.
const UnknownLocation = "Unknown location"

// placeCache remembers resolved place names per coordinate. Failures are
// not remembered as results, so the next render retries them.
type placeCache struct {
	mu       sync.Mutex
	resolved map[workout.Coords]string
	failed   map[workout.Coords]bool
	pending  map[workout.Coords]bool
}

func newPlaceCache() *placeCache {
	return &placeCache{
		resolved: make(map[workout.Coords]string),
		failed:   make(map[workout.Coords]bool),
		pending:  make(map[workout.Coords]bool),
	}
}

// claim marks c as pending and reports whether the caller should look it up.
func (p *placeCache) claim(c workout.Coords) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.resolved[c]; ok || p.pending[c] {
		return false
	}
	p.pending[c] = true
	return true
}

func (p *placeCache) resolve(c workout.Coords, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pending, c)
	delete(p.failed, c)
	p.resolved[c] = name
}

func (p *placeCache) fail(c workout.Coords) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pending, c)
	p.failed[c] = true
}

// text returns the display text for c: the place name, the placeholder after
// a failure, or "" while unresolved.
func (p *placeCache) text(c workout.Coords) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if name, ok := p.resolved[c]; ok {
		return name
	}
	if p.failed[c] {
		return UnknownLocation
	}
	return ""
}
