package inmemory

import (
	"sync"
	"time"

	programsdomain "parish-app-go/internal/domain/programs"
)

type InMemoryAgendaCache struct {
	mu    sync.RWMutex
	items map[string]agendaItem
	now   func() time.Time
}

type agendaItem struct {
	value     []programsdomain.AgendaEntry
	expiresAt time.Time
}

func NewInMemoryAgendaCache() *InMemoryAgendaCache {
	return &InMemoryAgendaCache{
		items: make(map[string]agendaItem),
		now:   time.Now,
	}
}

func (c *InMemoryAgendaCache) Get(key string) ([]programsdomain.AgendaEntry, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[key]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneEntries(item.value), true
}

func (c *InMemoryAgendaCache) Set(key string, entries []programsdomain.AgendaEntry, ttl time.Duration) {
	if ttl <= 0 {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.items[key] = agendaItem{
		value:     cloneEntries(entries),
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryAgendaCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]agendaItem)
	c.mu.Unlock()
}

func (c *InMemoryAgendaCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func cloneEntries(entries []programsdomain.AgendaEntry) []programsdomain.AgendaEntry {
	if entries == nil {
		return nil
	}
	out := make([]programsdomain.AgendaEntry, len(entries))
	copy(out, entries)
	return out
}
