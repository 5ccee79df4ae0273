package painter

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"place-bot/painter/application"
	"place-bot/painter/domain"
)

// ErrControllerExited marca um controller que terminou sem shutdown.
var ErrControllerExited = errors.New("account controller exited unexpectedly")

// CanvasClient reúne as três operações remotas usadas por cada conta.
// Implementações precisam ser seguras para uso concorrente e não guardar sessão.
type CanvasClient interface {
	domain.Authenticator
	domain.PixelReader
	domain.Drawer
}

type OrchestratorOptions struct {
	Accounts []domain.Credential
	Image    *domain.ReferenceImage
	Offset   domain.Offset
	Client   CanvasClient

	// Engine serve de molde para cada controller. Pacer é ignorado aqui:
	// cada conta recebe o próprio limiter a partir de RequestsPerSecond/RequestBurst.
	Engine            ControllerOptions
	RequestsPerSecond float64
	RequestBurst      int

	Log zerolog.Logger
}

// Orchestrator sobe um controller independente por conta.
type Orchestrator struct {
	opts OrchestratorOptions
}

func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	return &Orchestrator{opts: opts}
}

// Controllers monta um controller por conta, cada um com RNG e pacer próprios.
func (o *Orchestrator) Controllers() []*Controller {
	out := make([]*Controller, 0, len(o.opts.Accounts))
	for _, cred := range o.opts.Accounts {
		engine := o.opts.Engine
		engine.Pacer = newPacer(o.opts.RequestsPerSecond, o.opts.RequestBurst)
		engine.Log = o.opts.Log

		place := application.Placement{
			Image:  o.opts.Image,
			Offset: o.opts.Offset,
			Oracle: o.opts.Client,
			Drawer: o.opts.Client,
			Rand:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		}
		out = append(out, NewController(cred, o.opts.Client, place, engine))
	}
	return out
}

// Run roda todas as contas até ctx ser cancelado.
//
// Controllers não param uns aos outros: o errgroup não carrega contexto
// derivado. Um controller que retorna com ctx ainda vivo é logado na hora
// como anomalia e o erro sai de Run (junto com os demais) quando todas as
// goroutines terminarem. Shutdown normal devolve nil.
func (o *Orchestrator) Run(ctx context.Context) error {
	if len(o.opts.Accounts) == 0 {
		return errors.New("no accounts configured")
	}
	if o.opts.Image == nil {
		return domain.ErrEmptyImage
	}
	log := o.opts.Log
	log.Info().Int("accounts", len(o.opts.Accounts)).
		Uint32("width", o.opts.Image.Width).Uint32("height", o.opts.Image.Height).
		Uint32("offset_x", o.opts.Offset.X).Uint32("offset_y", o.opts.Offset.Y).
		Msg("starting account loops")

	var g errgroup.Group
	errs := make([]error, len(o.opts.Accounts))
	for i, ctl := range o.Controllers() {
		username := o.opts.Accounts[i].Username
		g.Go(func() error {
			err := runGuarded(ctx, ctl)
			if ctx.Err() != nil {
				log.Info().Str("account", username).Msg("account loop stopped")
				return nil
			}
			errs[i] = fmt.Errorf("%w: account %s: %w", ErrControllerExited, username, err)
			log.Error().Err(errs[i]).Str("account", username).Msg("account loop terminated")
			return errs[i]
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Join(errs...)
	}
	return nil
}

// runGuarded transforma panic e retorno nil em erro, para que nada termine em silêncio.
func runGuarded(ctx context.Context, ctl *Controller) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if err := ctl.Run(ctx); err != nil {
		return err
	}
	return errors.New("returned without error")
}
