package infra

import (
	"context"
	"sync"

	"place-bot/painter/domain"
)

// Counters conta eventos por tipo.
type Counters map[domain.EventKind]int64

func (c Counters) clone() Counters {
	out := make(Counters, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento.
//
// Não faz expiração e não sobrevive a restart.
type MemoryStatsStore struct {
	mu        sync.Mutex
	total     Counters
	byAccount map[string]Counters

	trackAccounts bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackAccounts(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackAccounts = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		total:     make(Counters),
		byAccount: make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.PlacementEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total[ev.Kind]++
	if s.trackAccounts && ev.Account != "" {
		c := s.byAccount[ev.Account]
		if c == nil {
			c = make(Counters)
			s.byAccount[ev.Account] = c
		}
		c[ev.Kind]++
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total.clone()
}

func (s *MemoryStatsStore) ByAccount() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byAccount))
	for k, v := range s.byAccount {
		out[k] = v.clone()
	}
	return out
}
