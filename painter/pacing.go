package painter

import (
	"context"

	"golang.org/x/time/rate"

	"place-bot/painter/domain"
)

// Adapters que passam cada chamada de rede pelo limiter da conta antes de
// delegar. O limiter pertence a um único controller.

type pacedAuthenticator struct {
	inner domain.Authenticator
	lim   *rate.Limiter
}

func (p pacedAuthenticator) Authenticate(ctx context.Context, cred domain.Credential) (*domain.Session, error) {
	if err := p.lim.Wait(ctx); err != nil {
		return nil, &domain.AuthError{Reason: domain.AuthTransport, Err: err}
	}
	return p.inner.Authenticate(ctx, cred)
}

type pacedReader struct {
	inner domain.PixelReader
	lim   *rate.Limiter
}

func (p pacedReader) ReadPixel(ctx context.Context, x, y uint32) (domain.Pixel, error) {
	if err := p.lim.Wait(ctx); err != nil {
		return domain.Pixel{}, err
	}
	return p.inner.ReadPixel(ctx, x, y)
}

type pacedDrawer struct {
	inner domain.Drawer
	lim   *rate.Limiter
}

func (p pacedDrawer) Draw(ctx context.Context, s *domain.Session, t domain.Target) domain.DrawResult {
	if err := p.lim.Wait(ctx); err != nil {
		return domain.Failed(domain.FailTransport, 0, err)
	}
	return p.inner.Draw(ctx, s, t)
}

// newPacer devolve nil quando rps <= 0 (sem pacing).
func newPacer(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
