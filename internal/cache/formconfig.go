package cache

import (
	"sync"
	"time"

	"github.com/waitline/waitline-manager/internal/entity"
)

// FormConfigCache keeps recently resolved public form configurations in
// memory, keyed by form key. Entries may be up to ttl stale after a
// settings update; owner endpoints always read from the store.
type FormConfigCache struct {
	mu      sync.RWMutex
	entries map[string]formConfigEntry
	ttl     time.Duration
}

type formConfigEntry struct {
	cfg       entity.FormConfig
	expiresAt time.Time
}

func NewFormConfigCache(ttl time.Duration) *FormConfigCache {
	return &FormConfigCache{
		entries: make(map[string]formConfigEntry),
		ttl:     ttl,
	}
}

func (c *FormConfigCache) Get(formKey string) (*entity.FormConfig, bool) {
	c.mu.RLock()
	e, found := c.entries[formKey]
	c.mu.RUnlock()

	if !found || time.Now().After(e.expiresAt) {
		return nil, false
	}
	cfg := e.cfg
	return &cfg, true
}

func (c *FormConfigCache) Set(formKey string, cfg *entity.FormConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[formKey] = formConfigEntry{
		cfg:       *cfg,
		expiresAt: time.Now().Add(c.ttl),
	}
}
