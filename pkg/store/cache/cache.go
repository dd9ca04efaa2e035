// Package cache keeps the most recently fetched raw payload of each report.
package cache

import (
	"net/url"
	"sync"
)

type Cache interface {
	// Get returns the payload stored for report if it was fetched with the
	// same parameters.
	Get(report string, params url.Values) ([]byte, bool)
	// Put stores payload for report, replacing whatever was there before.
	Put(report string, params url.Values, payload []byte)
	Invalidate(report string)
}

type entry struct {
	key     string
	payload []byte
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
}

func NewMemoryCache() Cache {
	return &memoryCache{entries: make(map[string]entry)}
}

func (c *memoryCache) Get(report string, params url.Values) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[report]
	if !ok || e.key != Key(params) {
		return nil, false
	}
	return e.payload, true
}

func (c *memoryCache) Put(report string, params url.Values, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[report] = entry{key: Key(params), payload: payload}
}

func (c *memoryCache) Invalidate(report string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, report)
}

// Key is the canonical form of a parameter set: keys sorted, empty values
// removed.
func Key(params url.Values) string {
	canonical := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			if v != "" {
				canonical.Add(k, v)
			}
		}
	}
	return canonical.Encode()
}
