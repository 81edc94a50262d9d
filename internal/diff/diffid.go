package diff

import "strconv"

// IDAllocator mints diff-group ids. One allocator is created per
// top-level diff operation and threaded by reference into every recursive
// inner differ and rewriter, rather than relying on module-level state.
type IDAllocator struct {
	next int
}

// NewIDAllocator returns an allocator that mints ids starting at 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// Alloc returns the next id as a string and advances the counter.
func (a *IDAllocator) Alloc() string {
	id := strconv.Itoa(a.next)
	a.next++
	return id
}
