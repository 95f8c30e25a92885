package guide

import (
	"cmp"
	"hash/fnv"
	"io"
	"slices"
	"sync"
	"sync/atomic"
)

// LineCache is the per-view arena of analyzed lines, indexed by line number.
//
// An entry is reused only while the line's text and the tab width are
// unchanged, so a stale entry is re-analyzed rather than returned. Edits that
// shift line numbers must call InvalidateAll. Returned lines are shared: clone
// before modifying.
type LineCache struct {
	mu      sync.Mutex
	entries map[int]*cacheEntry
	limit   int
	clock   uint64

	hits, misses, evictions atomic.Uint64
}

type cacheEntry struct {
	line *Line
	sum  uint64
	used uint64
}

// NewLineCache returns an empty cache holding at most limit lines, least
// recently used first out. A limit of zero or less means no limit.
func NewLineCache(limit int) *LineCache {
	return &LineCache{
		entries: make(map[int]*cacheEntry),
		limit:   max(limit, 0),
	}
}

// Get returns the analysis of line number with the given text, reusing the
// cached one when it is still valid.
func (c *LineCache) Get(number int, text string, tabWidth int) (*Line, error) {
	sum := checksum(text)

	c.mu.Lock()
	if e := c.entries[number]; e != nil && e.matches(text, sum, tabWidth) {
		c.clock++
		e.used = c.clock
		c.mu.Unlock()
		c.hits.Add(1)
		return e.line, nil
	}
	c.mu.Unlock()

	c.misses.Add(1)
	l, err := Analyze(text, number, tabWidth)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock++
	c.entries[number] = &cacheEntry{line: l, sum: sum, used: c.clock}
	if c.limit > 0 && len(c.entries) > c.limit {
		c.evictLocked()
	}
	return l, nil
}

func (e *cacheEntry) matches(text string, sum uint64, tabWidth int) bool {
	return e.sum == sum && e.line.TabWidth == tabWidth && e.line.Text == trimTerminator(text)
}

// Invalidate drops one line.
func (c *LineCache) Invalidate(number int) {
	c.mu.Lock()
	delete(c.entries, number)
	c.mu.Unlock()
}

// InvalidateAll empties the arena.
func (c *LineCache) InvalidateAll() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

func (c *LineCache) evictLocked() {
	type use struct {
		number int
		used   uint64
	}
	order := make([]use, 0, len(c.entries))
	for n, e := range c.entries {
		order = append(order, use{n, e.used})
	}
	slices.SortFunc(order, func(a, b use) int { return cmp.Compare(a.used, b.used) })

	n := len(order) - c.limit
	for _, u := range order[:n] {
		delete(c.entries, u.number)
	}
	c.evictions.Add(uint64(n))
}

// Len returns the number of cached lines.
func (c *LineCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CacheStats is a snapshot of LineCache counters.
type CacheStats struct {
	Len, Limit              int
	Hits, Misses, Evictions uint64
}

// HitRate returns hits over lookups, or 0 before the first lookup.
func (s CacheStats) HitRate() float64 {
	if total := s.Hits + s.Misses; total > 0 {
		return float64(s.Hits) / float64(total)
	}
	return 0
}

func (c *LineCache) Stats() CacheStats {
	return CacheStats{
		Len:       c.Len(),
		Limit:     c.limit,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// ResetStats zeroes the counters, leaving the entries in place.
func (c *LineCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

func checksum(s string) uint64 {
	h := fnv.New64a()
	_, _ = io.WriteString(h, s)
	return h.Sum64()
}
