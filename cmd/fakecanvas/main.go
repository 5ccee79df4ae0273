package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"place-bot/internal/logger"
	"place-bot/painter/fakecanvas"
)

// Canvas falso para rodar o placebot localmente:
//
//	LISTEN_ADDR=:8082 FAKECANVAS_COOLDOWN=5s go run ./cmd/fakecanvas
//	PLACEBOT_API_BASE_URL=http://localhost:8082 go run ./cmd/placebot
func main() {
	lcfg := logger.DefaultConfig()
	lcfg.Level = getenvDefault("LOG_LEVEL", "info")
	lg, err := logger.New(lcfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Close() }()
	log := lg.Zerolog()

	width := getenvUintDefault("FAKECANVAS_WIDTH", 1000)
	height := getenvUintDefault("FAKECANVAS_HEIGHT", 1000)
	cooldown := getenvDurationDefault("FAKECANVAS_COOLDOWN", 5*time.Second)
	maxInFlight := int(getenvUintDefault("FAKECANVAS_MAX_INFLIGHT", 0))
	addr := getenvDefault("LISTEN_ADDR", ":8082")

	canvas := fakecanvas.NewServer(fakecanvas.Options{
		Width:    width,
		Height:   height,
		Cooldown: cooldown,
		// sobrecarga simulada: excedente espera 1s e recebe 503
		MaxInFlight:    maxInFlight,
		AcquireTimeout: time.Second,
		Log:            log,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	canvas.Cooldowns().StartJanitor(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           canvas.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Uint32("width", width).Uint32("height", height).Dur("cooldown", cooldown).Int("max_inflight", maxInFlight).Msg("fake canvas listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Int64("logins", canvas.Logins()).Int64("draws", canvas.Draws()).Int64("rate_limited", canvas.RateLimitedDraws()).Msg("fake canvas stopped")
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvUintDefault(k string, def uint32) uint32 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil || n == 0 {
		return def
	}
	return uint32(n)
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return def
	}
	return d
}
