package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validator confere os valores da configuração.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate devolve todos os problemas encontrados de uma vez.
func (v *Validator) Validate(cfg *Config) error {
	var errs []error

	if len(cfg.Users) == 0 {
		errs = append(errs, errors.New("at least one user is required"))
	}
	seen := make(map[string]bool, len(cfg.Users))
	for i, u := range cfg.Users {
		name := strings.TrimSpace(u.Username)
		if name == "" {
			errs = append(errs, fmt.Errorf("users[%d]: username cannot be empty", i))
			continue
		}
		if u.Password == "" {
			errs = append(errs, fmt.Errorf("users[%d] (%s): password cannot be empty", i, name))
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("users[%d]: duplicate username %q", i, name))
		}
		seen[name] = true
	}

	if strings.TrimSpace(cfg.Image.Path) == "" {
		errs = append(errs, errors.New("image.path is required"))
	}
	if cfg.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be > 0"))
	}

	e := cfg.Engine
	if e.MaxAttempts <= 0 {
		errs = append(errs, errors.New("engine.max_attempts must be > 0"))
	}
	if e.MinDelay < 0 || e.AttemptPause < 0 || e.AuthRetryDelay < 0 || e.LoginAcquireTimeout < 0 {
		errs = append(errs, errors.New("engine delays must be >= 0"))
	}
	if e.RequestsPerSecond > 0 && e.RequestBurst <= 0 {
		errs = append(errs, errors.New("engine.request_burst must be > 0 when requests_per_second is set"))
	}

	switch NormalizeBackend(cfg.Stats.Backend) {
	case "", "none", "memory":
	case "redis":
		if strings.TrimSpace(cfg.Stats.RedisAddr) == "" {
			errs = append(errs, errors.New("stats.redis_addr is required when stats.backend=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("stats.backend %q is not one of memory, redis, none", cfg.Stats.Backend))
	}

	return errors.Join(errs...)
}

// NormalizeBackend é a forma canônica de stats.backend, usada tanto na
// validação quanto na escolha do store.
func NormalizeBackend(backend string) string {
	return strings.ToLower(strings.TrimSpace(backend))
}
