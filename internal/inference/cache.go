package inference

import "sync"

// resultCache maps a feature fingerprint to a decoded AnalysisResult with
// first-in-first-out eviction once the configured capacity is exceeded.
type resultCache struct {
	mu       sync.Mutex
	capacity int
	order    []uint64
	m        map[uint64]*AnalysisResult
}

func newResultCache(capacity int) *resultCache {
	return &resultCache{
		capacity: capacity,
		m:        make(map[uint64]*AnalysisResult, capacity),
	}
}

func (c *resultCache) get(key uint64) (*AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.m[key]
	return r, ok
}

func (c *resultCache) put(key uint64, r *AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.m[key]; exists {
		c.m[key] = r
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.m, oldest)
	}
	c.order = append(c.order, key)
	c.m[key] = r
}
