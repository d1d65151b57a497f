// Package runcache holds the per-run memo that keeps the scanner from asking
// the backup tool about the same exclusion path twice.
package runcache

import "sync"

// Cache tracks exclusion paths attempted during one run. It only grows.
//
// A path moves through two states: claimed (an Oracle call is in flight) and
// seen (the call completed). Claim refuses both, so concurrent workers that
// discover the same path produce exactly one Oracle call.
type Cache struct {
	mu       sync.RWMutex
	seen     map[string]struct{}
	inFlight map[string]struct{}
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{
		seen:     make(map[string]struct{}),
		inFlight: make(map[string]struct{}),
	}
}

// Claim reserves path for an Oracle attempt. It returns false when the path
// was already attempted or another worker holds the claim.
func (c *Cache) Claim(path string) bool {
	c.mu.RLock()
	_, seen := c.seen[path]
	c.mu.RUnlock()
	if seen {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[path]; ok {
		return false
	}
	if _, ok := c.inFlight[path]; ok {
		return false
	}
	c.inFlight[path] = struct{}{}
	return true
}

// Done records that the attempt for a claimed path has completed.
func (c *Cache) Done(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, path)
	c.seen[path] = struct{}{}
}

// Seen reports whether an attempt for path has completed.
func (c *Cache) Seen(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.seen[path]
	return ok
}

// Len returns the number of completed attempts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.seen)
}
