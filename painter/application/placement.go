package application

import (
	"context"
	"fmt"
	"math/rand/v2"

	"place-bot/painter/domain"
)

// Placement concentra a regra de uma tentativa de colocação.
//
// Rand pertence a uma única conta; nunca compartilhe entre goroutines.
type Placement struct {
	Image  *domain.ReferenceImage
	Offset domain.Offset
	Oracle domain.PixelReader
	Drawer domain.Drawer
	Rand   *rand.Rand
}

// Sample sorteia uniformemente um pixel da imagem e devolve o alvo já em
// coordenadas absolutas do canvas.
func (p Placement) Sample() domain.Target {
	x := p.Rand.Uint32N(p.Image.Width)
	y := p.Rand.Uint32N(p.Image.Height)
	return domain.Target{
		X:     p.Offset.X + x,
		Y:     p.Offset.Y + y,
		Color: p.Image.At(x, y),
	}
}

// Attempt executa uma tentativa completa.
//
// Pixel já correto => NextJob, sem requisição de pintura.
// Pintura aceita => Done(wait); recusada por cooldown => Wait(wait).
// Qualquer falha (oráculo ou pintura) volta como erro; quem limita a repetição
// é o contador do controller.
func (p Placement) Attempt(ctx context.Context, s *domain.Session) (domain.Outcome, domain.Target, error) {
	t := p.Sample()

	px, err := p.Oracle.ReadPixel(ctx, t.X, t.Y)
	if err != nil {
		return domain.Outcome{}, t, fmt.Errorf("read pixel (%d,%d): %w", t.X, t.Y, err)
	}
	if px.Color == t.Color {
		return domain.NextJob(), t, nil
	}

	res := p.Drawer.Draw(ctx, s, t)
	switch res.Kind {
	case domain.DrawAccepted:
		return domain.Done(res.Wait), t, nil
	case domain.DrawRateLimited:
		return domain.WaitFor(res.Wait), t, nil
	default:
		err := res.Err
		if err == nil {
			err = &domain.DrawError{Reason: domain.FailStatus}
		}
		return domain.Outcome{}, t, fmt.Errorf("draw (%d,%d) color=%d: %w", t.X, t.Y, t.Color, err)
	}
}
