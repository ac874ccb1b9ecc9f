package engine

import (
	"strings"
	"sync"
	"time"
)

// docsCache is a read-mostly, time-boxed existence cache for "does this
// user have any documents". Staleness up to the TTL is acceptable: it only
// gates an early-exit optimization, never a correctness decision.
type docsCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]docsCacheEntry
}

type docsCacheEntry struct {
	has     bool
	expires time.Time
}

func newDocsCache(ttl time.Duration) *docsCache {
	return &docsCache{ttl: ttl, entries: make(map[string]docsCacheEntry)}
}

func (c *docsCache) get(userID string) (has, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[userID]
	if !ok || time.Now().After(entry.expires) {
		return false, false
	}
	return entry.has, true
}

func (c *docsCache) put(userID string, has bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = docsCacheEntry{has: has, expires: time.Now().Add(c.ttl)}
}

// answerCache is a small TTL cache of final answers keyed by
// (user, scope, normalized question). Hits set FromCache on the response.
type answerCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]answerCacheEntry
}

type answerCacheEntry struct {
	resp    AnswerResponse
	expires time.Time
}

func newAnswerCache(ttl time.Duration) *answerCache {
	return &answerCache{ttl: ttl, entries: make(map[string]answerCacheEntry)}
}

func answerCacheKey(req AnswerRequest) string {
	question := strings.ToLower(strings.TrimSpace(req.Question))
	return req.UserID + "|" + string(req.Scope.Type) + "|" + req.Scope.ID + "|" + question
}

func (c *answerCache) get(key string) (AnswerResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expires) {
		return AnswerResponse{}, false
	}
	return entry.resp, true
}

func (c *answerCache) put(key string, resp AnswerResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = answerCacheEntry{resp: resp, expires: time.Now().Add(c.ttl)}
}
