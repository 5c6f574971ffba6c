package aggregator

import (
	"sync"
	"time"

	"github.com/wrenfield/curator/internal/domain"
)

// View is the visible, merged resource list. It is a derived value: every
// aggregation pass replaces it wholesale, nothing is ever persisted.
// Single writer (the orchestrator / session), many readers (handlers).
type View struct {
	mu        sync.RWMutex
	resources []domain.Resource
	lastPass  time.Time
}

func NewView() *View {
	return &View{}
}

// Replace swaps in the result of a completed pass atomically. There are
// no incremental updates mid-pass.
func (v *View) Replace(resources []domain.Resource) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.resources = resources
	v.lastPass = time.Now()
}

// Resources returns a copy of the current list.
func (v *View) Resources() []domain.Resource {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]domain.Resource, len(v.resources))
	copy(out, v.resources)
	return out
}

// DropByURL removes resources originating from the given subscription
// URL. Used for instant feedback when a subscription is removed, ahead of
// the next full pass.
func (v *View) DropByURL(url string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	kept := v.resources[:0]
	for _, r := range v.resources {
		if r.Origin != url {
			kept = append(kept, r)
		}
	}
	v.resources = kept
}

// Clear empties the view (logout teardown).
func (v *View) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.resources = nil
	v.lastPass = time.Time{}
}

// Count returns the number of visible resources.
func (v *View) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return len(v.resources)
}

// LastPass returns when the view was last replaced.
func (v *View) LastPass() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.lastPass
}
