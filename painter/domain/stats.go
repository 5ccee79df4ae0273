package domain

import (
	"context"
	"time"
)

type EventKind string

const (
	EventLoginOK       EventKind = "login_ok"
	EventLoginFailed   EventKind = "login_failed"
	EventMatched       EventKind = "matched"
	EventPainted       EventKind = "painted"
	EventRateLimited   EventKind = "rate_limited"
	EventAttemptFailed EventKind = "attempt_failed"
)

// PlacementEvent representa algo que aconteceu no ciclo de uma conta.
//
// Observação: cuidado com cardinalidade (ex.: salvar coordenadas por chave
// pode explodir o número de chaves numa base como Redis).
type PlacementEvent struct {
	Account string
	Kind    EventKind
	Target  Target
	Delay   time.Duration

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas de colocação.
//
// Implementações podem armazenar em Redis, memória, etc.
// O controller trata erro como best-effort (não interrompe a conta).
type StatsStore interface {
	Record(ctx context.Context, ev PlacementEvent) error
}
