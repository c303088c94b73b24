package routing

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/attache-ai/attache/ai/cache"
)

// DecisionCache memoizes context-free routing decisions keyed by a digest of
// the normalized message. Values are copied on the way in and out so cached
// decisions stay immutable no matter what callers do with theirs.
type DecisionCache struct {
	lru    *cache.LRUCache[string, *RoutingDecision]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewDecisionCache builds a cache with the given capacity and entry TTL.
// Non-positive values fall back to the LRU defaults.
func NewDecisionCache(capacity int, ttl time.Duration) *DecisionCache {
	return &DecisionCache{
		lru: cache.NewLRUCache[string, *RoutingDecision](capacity, ttl),
	}
}

func cacheKey(message string) string {
	sum := sha256.Sum256([]byte(normalizeMessage(message)))
	return "route:" + hex.EncodeToString(sum[:])
}

// Get returns a copy of the cached decision for the message, if present.
func (c *DecisionCache) Get(message string) (*RoutingDecision, bool) {
	decision, ok := c.lru.Get(cacheKey(message))
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return copyDecision(decision), true
}

// Set stores a copy of the decision for the message.
func (c *DecisionCache) Set(message string, decision *RoutingDecision) {
	if decision == nil {
		return
	}
	c.lru.Set(cacheKey(message), copyDecision(decision), 0)
}

// Stats returns lifetime hit and miss counts.
func (c *DecisionCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the number of live entries.
func (c *DecisionCache) Size() int {
	return c.lru.Size()
}

// CleanupExpired drops expired entries and returns how many were removed.
func (c *DecisionCache) CleanupExpired() int {
	return c.lru.CleanupExpired()
}

// Clear empties the cache.
func (c *DecisionCache) Clear() {
	c.lru.Clear()
}

func copyDecision(d *RoutingDecision) *RoutingDecision {
	cp := *d
	if d.SignalsConsidered != nil {
		cp.SignalsConsidered = make([]ClassificationSignal, len(d.SignalsConsidered))
		for i, s := range d.SignalsConsidered {
			cp.SignalsConsidered[i] = s
			if s.MatchedTerms != nil {
				cp.SignalsConsidered[i].MatchedTerms = append([]string(nil), s.MatchedTerms...)
			}
		}
	}
	return &cp
}
