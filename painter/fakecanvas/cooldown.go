package fakecanvas

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// CooldownStore guarda um token bucket (x/time/rate) por usuário, com burst 1:
// uma pintura a cada `cooldown`. Entradas ociosas são limpas periodicamente.
type CooldownStore struct {
	mu           sync.Mutex
	entries      map[string]*cooldownEntry
	cooldown     time.Duration
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type cooldownEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type CooldownOption func(*CooldownStore)

func WithIdleTTL(d time.Duration) CooldownOption {
	return func(s *CooldownStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) CooldownOption {
	return func(s *CooldownStore) { s.cleanupEvery = d }
}

func NewCooldownStore(cooldown time.Duration, opts ...CooldownOption) *CooldownStore {
	s := &CooldownStore{
		entries:      make(map[string]*cooldownEntry),
		cooldown:     cooldown,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.idleTTL < s.cooldown {
		s.idleTTL = s.cooldown
	}
	return s
}

// Take tenta consumir a pintura do usuário agora. Se negar, devolve quanto
// falta para a próxima ser aceita.
func (s *CooldownStore) Take(user string) (bool, time.Duration) {
	if s.cooldown <= 0 {
		return true, 0
	}
	lim := s.get(user)
	r := lim.Reserve()
	if d := r.Delay(); d > 0 {
		r.Cancel()
		return false, d
	}
	return true, s.cooldown
}

func (s *CooldownStore) get(user string) *rate.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[user]; ok {
		ent.lastSeen = now
		return ent.lim
	}
	lim := rate.NewLimiter(rate.Every(s.cooldown), 1)
	s.entries[user] = &cooldownEntry{lim: lim, lastSeen: now}
	return lim
}

func (s *CooldownStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *CooldownStore) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa usuários inativos periodicamente.
// Pare cancelando o contexto.
func (s *CooldownStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
