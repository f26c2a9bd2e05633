package domain

import (
	"sync"

	m "copydeps.dev/pkg/copydeps/internal/model"
)

// CopiedRegistry remembers every destination handled during one run so the
// same destination is copied at most once. A registry belongs to a single run
// and is safe for concurrent use.
type CopiedRegistry struct {
	mu      sync.Mutex
	handled map[m.Path]struct{}
}

// NewCopiedRegistry returns an empty registry for a new run.
func NewCopiedRegistry() *CopiedRegistry {
	return &CopiedRegistry{handled: map[m.Path]struct{}{}}
}

// Claim marks dest as handled. It returns false if dest was already claimed.
func (r *CopiedRegistry) Claim(dest m.Path) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handled[dest]; ok {
		return false
	}

	r.handled[dest] = struct{}{}

	return true
}

// Has reports whether dest was claimed.
func (r *CopiedRegistry) Has(dest m.Path) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.handled[dest]

	return ok
}

// Len returns the number of claimed destinations.
func (r *CopiedRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.handled)
}
