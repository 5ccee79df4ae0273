package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Users = []UserConfig{{Username: "alice", Password: "pw"}}
	cfg.Image.Path = "target.bmp"
	return cfg
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(validConfig()))

	cases := map[string]func(*Config){
		"empty username":     func(c *Config) { c.Users[0].Username = " " },
		"empty password":     func(c *Config) { c.Users[0].Password = "" },
		"duplicate username": func(c *Config) { c.Users = append(c.Users, c.Users[0]) },
		"no image":           func(c *Config) { c.Image.Path = "" },
		"zero attempts":      func(c *Config) { c.Engine.MaxAttempts = 0 },
		"negative delay":     func(c *Config) { c.Engine.MinDelay = -1 },
		"zero timeout":       func(c *Config) { c.API.Timeout = 0 },
		"pacer without burst": func(c *Config) {
			c.Engine.RequestsPerSecond = 2
			c.Engine.RequestBurst = 0
		},
		"negative login wait": func(c *Config) { c.Engine.LoginAcquireTimeout = -time.Second },
		"redis without addr":  func(c *Config) { c.Stats.Backend = "redis" },
		"unknown backend":     func(c *Config) { c.Stats.Backend = "postgres" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			assert.Error(t, v.Validate(cfg))
		})
	}
}

func TestValidator_ReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.MaxAttempts = 0

	err := NewValidator().Validate(cfg)
	assert.ErrorContains(t, err, "at least one user")
	assert.ErrorContains(t, err, "image.path is required")
	assert.ErrorContains(t, err, "engine.max_attempts")
}

func TestValidator_BackendAcceptsWhatTheStoreAccepts(t *testing.T) {
	for _, backend := range []string{" redis ", "REDIS", "Memory ", " none"} {
		cfg := validConfig()
		cfg.Stats.Backend = backend
		cfg.Stats.RedisAddr = "localhost:6379"
		assert.NoError(t, NewValidator().Validate(cfg), "backend %q", backend)
	}

	cfg := validConfig()
	cfg.Stats.Backend = " redis "
	assert.ErrorContains(t, NewValidator().Validate(cfg), "stats.redis_addr")

	assert.Equal(t, "redis", NormalizeBackend(" ReDiS\t"))
}
