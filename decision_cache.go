package goRelay

import (
	"sync"
	"time"
)

// maxPurgePerCall caps how many entries a single purge pass may examine,
// keeping the cost bounded on the authorize hot path.
const maxPurgePerCall = 64

type cachedDecision struct {
	decision  *Decision
	expiresAt time.Time
}

// decisionCache holds allow decisions keyed by the raw credential string.
// Deny decisions are never stored. There is no background sweeper; expired
// entries are dropped lazily on read and by capped purge passes.
type decisionCache struct {
	mu      sync.Mutex
	entries map[string]cachedDecision
	window  time.Duration
	now     func() time.Time
}

func newDecisionCache(window time.Duration) *decisionCache {
	return &decisionCache{
		entries: make(map[string]cachedDecision),
		window:  window,
		now:     time.Now,
	}
}

func (c *decisionCache) get(credential string) (*Decision, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[credential]
	if !ok {
		return nil, false
	}

	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, credential)
		return nil, false
	}

	return entry.decision, true
}

func (c *decisionCache) set(credential string, decision *Decision) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[credential] = cachedDecision{
		decision:  decision,
		expiresAt: c.now().Add(c.window),
	}
}

func (c *decisionCache) invalidate(credential string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, credential)
}

// purge removes expired entries, examining at most maxPurgePerCall of them.
func (c *decisionCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	examined := 0
	for credential, entry := range c.entries {
		if examined >= maxPurgePerCall {
			return
		}
		examined++

		if !now.Before(entry.expiresAt) {
			delete(c.entries, credential)
		}
	}
}

func (c *decisionCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
