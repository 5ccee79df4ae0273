package painter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"place-bot/painter/application"
	"place-bot/painter/domain"
)

const (
	DefaultMaxAttempts    = 5
	DefaultMinDelay       = time.Second
	DefaultAttemptPause   = 100 * time.Millisecond
	DefaultAuthRetryDelay = time.Second
)

// ControllerOptions ajusta os dois laços (login e tentativas) de uma conta.
// Campos zerados recebem os valores Default*.
type ControllerOptions struct {
	MaxAttempts    int
	MinDelay       time.Duration
	AttemptPause   time.Duration
	AuthRetryDelay time.Duration

	// Pacer, se não nil, é consultado antes de cada chamada de rede.
	// Deve pertencer só a este controller.
	Pacer *rate.Limiter
	// LoginGate limita logins simultâneos entre contas e contém panics do login.
	LoginGate application.LoginGate
	// Stats é best-effort: erro ao gravar não afeta a conta.
	Stats domain.StatsStore
	Sleep SleepFunc
	Log   zerolog.Logger
}

func (o ControllerOptions) withDefaults() ControllerOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.MinDelay <= 0 {
		o.MinDelay = DefaultMinDelay
	}
	if o.AttemptPause < 0 {
		o.AttemptPause = 0
	}
	if o.AuthRetryDelay <= 0 {
		o.AuthRetryDelay = DefaultAuthRetryDelay
	}
	if o.Sleep == nil {
		o.Sleep = sleepCtx
	}
	return o
}

// Controller é o daemon de uma conta. Dono exclusivo da sessão, do RNG e dos
// contadores da conta.
type Controller struct {
	cred  domain.Credential
	auth  domain.Authenticator
	place application.Placement
	opts  ControllerOptions
	log   zerolog.Logger
}

// NewController monta o controller de uma conta. place.Rand não pode ser
// compartilhado com outro controller.
func NewController(cred domain.Credential, auth domain.Authenticator, place application.Placement, opts ControllerOptions) *Controller {
	opts = opts.withDefaults()
	if opts.Pacer != nil {
		auth = pacedAuthenticator{inner: auth, lim: opts.Pacer}
		place.Oracle = pacedReader{inner: place.Oracle, lim: opts.Pacer}
		place.Drawer = pacedDrawer{inner: place.Drawer, lim: opts.Pacer}
	}
	return &Controller{
		cred:  cred,
		auth:  auth,
		place: place,
		opts:  opts,
		log:   opts.Log.With().Str("account", cred.Username).Logger(),
	}
}

// Run roda a conta para sempre. Só retorna quando ctx é cancelado; qualquer
// outro retorno é um defeito que o orquestrador reporta.
func (c *Controller) Run(ctx context.Context) error {
	c.log.Info().Msg("account loop started")
	for {
		s, err := c.Login(ctx)
		if err != nil {
			return err
		}
		for {
			delay, ok := c.Cycle(ctx, s)
			if !ok {
				c.log.Warn().Str("session", s.ID).Msg("session rejected, re-authenticating")
				break
			}
			c.log.Debug().Dur("delay", delay).Msg("sleeping before next cycle")
			if err := c.opts.Sleep(ctx, delay); err != nil {
				return err
			}
		}
	}
}

// Login repete a autenticação sem limite, com pausa fixa entre falhas.
// Só devolve erro quando ctx encerra.
func (c *Controller) Login(ctx context.Context) (*domain.Session, error) {
	for failures := 0; ; failures++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s, err := c.authenticate(ctx)
		if err == nil {
			c.record(ctx, domain.PlacementEvent{Kind: domain.EventLoginOK})
			c.log.Info().Str("session", s.ID).Int("failures", failures).Msg("logged in")
			return s, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		c.record(ctx, domain.PlacementEvent{Kind: domain.EventLoginFailed})
		c.log.Warn().Err(err).Int("failures", failures+1).Dur("retry_in", c.opts.AuthRetryDelay).Msg("cannot login")
		if err := c.opts.Sleep(ctx, c.opts.AuthRetryDelay); err != nil {
			return nil, err
		}
	}
}

func (c *Controller) authenticate(ctx context.Context) (*domain.Session, error) {
	return c.opts.LoginGate.Login(ctx, c.auth, c.cred, c.log)
}

// Cycle faz até MaxAttempts tentativas com a sessão s e devolve quanto tempo
// dormir antes do próximo ciclo.
//
//	NextJob      => delay volta ao mínimo, conta uma tentativa, pausa curta
//	Done / Wait  => delay = tempo do servidor, sai do laço na hora
//	erro         => conta uma tentativa, pausa curta
//
// Orçamento esgotado cai com o último delay registrado. ok=false significa que
// a sessão foi recusada e deve ser descartada.
func (c *Controller) Cycle(ctx context.Context, s *domain.Session) (delay time.Duration, ok bool) {
	delay = c.opts.MinDelay
	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		out, t, err := c.attempt(ctx, s)
		if err != nil {
			if ctx.Err() != nil {
				return delay, true
			}
			c.record(ctx, domain.PlacementEvent{Kind: domain.EventAttemptFailed, Target: t})
			if errors.Is(err, domain.ErrSessionRejected) {
				c.log.Warn().Err(err).Int("attempt", attempt).Msg("draw rejected the session")
				return 0, false
			}
			c.log.Warn().Err(err).Int("attempt", attempt).Msg("attempt failed")
			if err := c.opts.Sleep(ctx, c.opts.AttemptPause); err != nil {
				return delay, true
			}
			continue
		}

		switch out.Kind {
		case domain.OutcomeNextJob:
			delay = c.opts.MinDelay
			c.record(ctx, domain.PlacementEvent{Kind: domain.EventMatched, Target: t})
			c.log.Debug().Uint32("x", t.X).Uint32("y", t.Y).Uint8("color", t.Color).Int("attempt", attempt).Msg("pixel already matches")
			if err := c.opts.Sleep(ctx, c.opts.AttemptPause); err != nil {
				return delay, true
			}
		case domain.OutcomeDone:
			c.record(ctx, domain.PlacementEvent{Kind: domain.EventPainted, Target: t, Delay: out.Delay})
			c.log.Info().Uint32("x", t.X).Uint32("y", t.Y).Uint8("color", t.Color).Dur("wait", out.Delay).Msg("pixel painted")
			return out.Delay, true
		case domain.OutcomeWait:
			c.record(ctx, domain.PlacementEvent{Kind: domain.EventRateLimited, Target: t, Delay: out.Delay})
			c.log.Info().Uint32("x", t.X).Uint32("y", t.Y).Dur("wait", out.Delay).Msg("rate limited")
			return out.Delay, true
		}
	}
	c.log.Debug().Int("attempts", c.opts.MaxAttempts).Dur("delay", delay).Msg("attempt budget exhausted")
	return delay, true
}

// attempt isola panics de uma tentativa: viram falha comum e a conta segue.
func (c *Controller) attempt(ctx context.Context, s *domain.Session) (out domain.Outcome, t domain.Target, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("attempt panicked: %v", r)
		}
	}()
	return c.place.Attempt(ctx, s)
}

func (c *Controller) record(ctx context.Context, ev domain.PlacementEvent) {
	if c.opts.Stats == nil {
		return
	}
	ev.Account = c.cred.Username
	ev.At = time.Now()
	if err := c.opts.Stats.Record(ctx, ev); err != nil {
		c.log.Debug().Err(err).Msg("stats record failed")
	}
}
