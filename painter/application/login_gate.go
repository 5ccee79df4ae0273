package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"place-bot/painter/domain"
)

// ErrLoginSlotTimeout indica que a conta não conseguiu vaga de login a tempo.
var ErrLoginSlotTimeout = errors.New("no login slot available")

// LoginGate é a etapa de login de uma conta: espera vaga no pool compartilhado
// (quando há um), autentica e devolve a vaga.
//
// Slots nil deixa o portão aberto. MaxWait <= 0 espera até ctx encerrar.
type LoginGate struct {
	Slots   domain.SlotPool
	MaxWait time.Duration
}

// Login autentica cred passando pelo portão. Todo erro sai como *domain.AuthError,
// inclusive panic do Authenticator, para que o laço de login apenas repita.
func (g LoginGate) Login(ctx context.Context, auth domain.Authenticator, cred domain.Credential, log zerolog.Logger) (*domain.Session, error) {
	release, err := g.waitSlot(ctx, log)
	if err != nil {
		return nil, err
	}
	defer release()
	return authenticate(ctx, auth, cred)
}

func (g LoginGate) waitSlot(ctx context.Context, log zerolog.Logger) (func(), error) {
	if g.Slots == nil {
		return func() {}, nil
	}

	waitCtx := ctx
	if g.MaxWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, g.MaxWait)
		defer cancel()
	}

	start := time.Now()
	release, ok := g.Slots.Acquire(waitCtx)
	waited := time.Since(start)
	if !ok {
		if err := ctx.Err(); err != nil {
			return nil, &domain.AuthError{Reason: domain.AuthTransport, Err: err}
		}
		log.Warn().Dur("waited", waited).Msg("no login slot, giving up this round")
		return nil, &domain.AuthError{Reason: domain.AuthTransport, Err: fmt.Errorf("%w after %s", ErrLoginSlotTimeout, waited)}
	}
	if waited >= time.Millisecond {
		log.Debug().Dur("waited", waited).Msg("login slot acquired")
	}
	return release, nil
}

// authenticate converte panic do Authenticator em falha comum de login.
func authenticate(ctx context.Context, auth domain.Authenticator, cred domain.Credential) (s *domain.Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = &domain.AuthError{Reason: domain.AuthTransport, Err: fmt.Errorf("authenticate panicked: %v", r)}
		}
	}()
	return auth.Authenticate(ctx, cred)
}
