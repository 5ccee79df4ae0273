package fakecanvas

import (
	"context"
	"net/http"
	"time"

	"place-bot/painter/infra"
)

// limitInFlight simula um backend sobrecarregado: com max requisições em
// andamento, as seguintes esperam até acquireTimeout e então recebem 503.
func limitInFlight(max int, acquireTimeout time.Duration) func(next http.Handler) http.Handler {
	pool := infra.NewChanPool(max)
	if pool == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if acquireTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, acquireTimeout)
				defer cancel()
			}
			release, ok := pool.Acquire(ctx)
			if !ok {
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
