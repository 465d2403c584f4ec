package services

import (
	"fmt"
	"sync"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/pkg/textutil"
)

// RunCache memoizes classifier verdicts for the lifetime of one
// processing run. It is injected into the resolution service so
// repeated candidates across a batch hit the classifier once, and so
// nothing leaks between independent runs.
type RunCache struct {
	mu       sync.RWMutex
	verdicts map[string]*entities.Verdict
	hits     int
	misses   int
}

func NewRunCache() *RunCache {
	return &RunCache{verdicts: make(map[string]*entities.Verdict)}
}

func runCacheKey(lang, candidate string) string {
	return fmt.Sprintf("%s|%s", lang, textutil.Normalize(candidate))
}

// Get returns the cached verdict for a candidate, if any.
func (c *RunCache) Get(lang, candidate string) (*entities.Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	verdict, ok := c.verdicts[runCacheKey(lang, candidate)]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return verdict, ok
}

// Put stores a verdict under the candidate's normalized form.
func (c *RunCache) Put(lang, candidate string, verdict *entities.Verdict) {
	if verdict == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verdicts[runCacheKey(lang, candidate)] = verdict
}

// Stats reports hit/miss counters for end-of-run logging.
func (c *RunCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Len reports how many distinct candidates were classified.
func (c *RunCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.verdicts)
}
