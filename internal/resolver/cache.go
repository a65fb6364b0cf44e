package resolver

import "sync"

// Cache memoizes successful resolutions for the lifetime of one run.
// It is append-only and safe for concurrent use. Nothing is persisted
// across runs; every run starts cold.
type Cache struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{m: make(map[string]string)}
}

// Get returns the cached SMILES for name, if any.
func (c *Cache) Get(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.m[name]

	return s, ok
}

// Put records a resolved SMILES for name. The first write wins; concurrent
// cascades for the same name resolve to the same value anyway.
func (c *Cache) Put(name, smiles string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.m[name]; !ok {
		c.m[name] = smiles
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.m)
}

// FailureRegistry records names whose cascade has been fully exhausted in
// the current run, so that repeated occurrences in the dataset produce no
// further backend traffic. Safe for concurrent use.
type FailureRegistry struct {
	mu sync.RWMutex
	m  map[string]struct{}
}

// NewFailureRegistry creates an empty registry.
func NewFailureRegistry() *FailureRegistry {
	return &FailureRegistry{m: make(map[string]struct{})}
}

// Add marks name as permanently failed for this run.
func (r *FailureRegistry) Add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.m[name] = struct{}{}
}

// Has reports whether name is known to be unresolvable.
func (r *FailureRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.m[name]

	return ok
}

// Len returns the number of registered failures.
func (r *FailureRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.m)
}
