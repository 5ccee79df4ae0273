package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"place-bot/internal/config"
	"place-bot/internal/logger"
	"place-bot/painter"
	"place-bot/painter/application"
	"place-bot/painter/domain"
	"place-bot/painter/infra"
)

func runDaemon(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewLoader(placeFile, usersFile).Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	lg, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: true,
		Pretty:  cfg.Log.Pretty,
	})
	if err != nil {
		return err
	}
	defer func() { _ = lg.Close() }()
	log := lg.Zerolog()

	img, err := infra.LoadBitmap(cfg.Image.Path, log)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stats, closeStats, err := newStatsStore(ctx, cfg.Stats)
	if err != nil {
		return err
	}
	defer closeStats()

	accounts := make([]domain.Credential, 0, len(cfg.Users))
	for _, u := range cfg.Users {
		accounts = append(accounts, domain.Credential{Username: strings.TrimSpace(u.Username), Password: u.Password})
	}

	client := infra.NewClient(
		infra.WithBaseURL(cfg.API.BaseURL),
		infra.WithTimeout(cfg.API.Timeout),
	)

	orch := painter.NewOrchestrator(painter.OrchestratorOptions{
		Accounts: accounts,
		Image:    img,
		Offset:   domain.Offset{X: cfg.Image.Offset.X, Y: cfg.Image.Offset.Y},
		Client:   client,
		Engine: painter.ControllerOptions{
			MaxAttempts:    cfg.Engine.MaxAttempts,
			MinDelay:       cfg.Engine.MinDelay,
			AttemptPause:   cfg.Engine.AttemptPause,
			AuthRetryDelay: cfg.Engine.AuthRetryDelay,
			Stats:          stats,
			LoginGate: application.LoginGate{
				Slots:   infra.NewChanPool(cfg.Engine.LoginConcurrency),
				MaxWait: cfg.Engine.LoginAcquireTimeout,
			},
		},
		RequestsPerSecond: cfg.Engine.RequestsPerSecond,
		RequestBurst:      cfg.Engine.RequestBurst,
		Log:               log,
	})

	log.Info().Str("api", client.BaseURL()).Str("image", cfg.Image.Path).
		Int("max_attempts", cfg.Engine.MaxAttempts).Dur("min_delay", cfg.Engine.MinDelay).
		Float64("rps", cfg.Engine.RequestsPerSecond).Int("login_concurrency", cfg.Engine.LoginConcurrency).
		Str("stats", cfg.Stats.Backend).
		Msg("placebot starting")

	err = orch.Run(ctx)
	if mem, ok := stats.(*infra.MemoryStatsStore); ok {
		logSummary(log, mem)
	}
	if err != nil {
		return err
	}
	log.Info().Msg("placebot stopped")
	return nil
}

// newStatsStore escolhe o backend de estatísticas. O retorno close é sempre
// seguro de chamar.
func newStatsStore(ctx context.Context, cfg config.StatsConfig) (domain.StatsStore, func(), error) {
	switch config.NormalizeBackend(cfg.Backend) {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return nil, func() {}, fmt.Errorf("redis stats ping error: %w", err)
		}

		store := infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.Prefix),
			infra.WithStatsTTL(cfg.TTL),
			infra.WithStatsBucket(cfg.Bucket),
			infra.WithStatsTrackAccounts(cfg.TrackAccounts),
		)
		return store, func() { _ = rdb.Close() }, nil
	case "none":
		return nil, func() {}, nil
	default:
		return infra.NewMemoryStatsStore(infra.WithTrackAccounts(cfg.TrackAccounts)), func() {}, nil
	}
}

func logSummary(log zerolog.Logger, mem *infra.MemoryStatsStore) {
	ev := log.Info()
	for kind, n := range mem.Total() {
		ev = ev.Int64(string(kind), n)
	}
	ev.Msg("session totals")
	for account, c := range mem.ByAccount() {
		ev := log.Info().Str("account", account)
		for kind, n := range c {
			ev = ev.Int64(string(kind), n)
		}
		ev.Msg("account totals")
	}
}
