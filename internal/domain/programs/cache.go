package programs

import "time"

type AgendaCache interface {
	Get(key string) ([]AgendaEntry, bool)
	Set(key string, entries []AgendaEntry, ttl time.Duration)
	Clear()
}

type noopAgendaCache struct{}

func (noopAgendaCache) Get(string) ([]AgendaEntry, bool) {
	return nil, false
}

func (noopAgendaCache) Set(string, []AgendaEntry, time.Duration) {}

func (noopAgendaCache) Clear() {}
