package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "PLACEBOT"

// Loader lê place.toml (alvo + motor) e users.toml (contas).
type Loader struct {
	placePath string
	usersPath string
}

func NewLoader(placePath, usersPath string) *Loader {
	return &Loader{placePath: placePath, usersPath: usersPath}
}

// Load lê os dois arquivos, aplica variáveis de ambiente PLACEBOT_* por cima
// e valida o resultado. Arquivo ausente é erro: sem contas não há o que rodar.
func (l *Loader) Load() (*Config, error) {
	v := newViper()
	v.SetConfigFile(l.placePath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", l.placePath, err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	users := viper.New()
	users.SetConfigFile(l.usersPath)
	users.SetConfigType("toml")
	if err := users.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read users file %q: %w", l.usersPath, err)
	}
	if err := users.UnmarshalKey("users", &cfg.Users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper registra os defaults para que AutomaticEnv enxergue todas as chaves
// (ex.: PLACEBOT_ENGINE_MAX_ATTEMPTS=3).
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("image.path", "")
	v.SetDefault("image.offset.x", 0)
	v.SetDefault("image.offset.y", 0)
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("engine.max_attempts", d.Engine.MaxAttempts)
	v.SetDefault("engine.min_delay", d.Engine.MinDelay)
	v.SetDefault("engine.attempt_pause", d.Engine.AttemptPause)
	v.SetDefault("engine.auth_retry_delay", d.Engine.AuthRetryDelay)
	v.SetDefault("engine.requests_per_second", d.Engine.RequestsPerSecond)
	v.SetDefault("engine.request_burst", d.Engine.RequestBurst)
	v.SetDefault("engine.login_concurrency", d.Engine.LoginConcurrency)
	v.SetDefault("engine.login_acquire_timeout", d.Engine.LoginAcquireTimeout)
	v.SetDefault("stats.backend", d.Stats.Backend)
	v.SetDefault("stats.redis_addr", "")
	v.SetDefault("stats.redis_password", "")
	v.SetDefault("stats.redis_db", 0)
	v.SetDefault("stats.prefix", d.Stats.Prefix)
	v.SetDefault("stats.ttl", d.Stats.TTL)
	v.SetDefault("stats.bucket", d.Stats.Bucket)
	v.SetDefault("stats.track_accounts", false)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)
	v.SetDefault("log.file", "")
	return v
}
