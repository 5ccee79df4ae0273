// Package config carrega a configuração do daemon: contas (users.toml) e
// alvo/motor (place.toml).
package config

import "time"

// Config reúne toda a configuração do placebot.
type Config struct {
	Users  []UserConfig `mapstructure:"users"`
	Image  ImageConfig  `mapstructure:"image"`
	API    APIConfig    `mapstructure:"api"`
	Engine EngineConfig `mapstructure:"engine"`
	Stats  StatsConfig  `mapstructure:"stats"`
	Log    LogConfig    `mapstructure:"log"`
}

type UserConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ImageConfig aponta para a imagem de referência e onde ela fica no canvas.
type ImageConfig struct {
	Path   string       `mapstructure:"path"`
	Offset OffsetConfig `mapstructure:"offset"`
}

type OffsetConfig struct {
	X uint32 `mapstructure:"x"`
	Y uint32 `mapstructure:"y"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EngineConfig controla os laços de retry/backoff de cada conta.
type EngineConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	MinDelay       time.Duration `mapstructure:"min_delay"`
	AttemptPause   time.Duration `mapstructure:"attempt_pause"`
	AuthRetryDelay time.Duration `mapstructure:"auth_retry_delay"`
	// RequestsPerSecond <= 0 desliga o pacer por conta.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	RequestBurst      int     `mapstructure:"request_burst"`
	// LoginConcurrency <= 0 desliga o limite de logins simultâneos.
	LoginConcurrency int `mapstructure:"login_concurrency"`
	// LoginAcquireTimeout <= 0 espera a vaga de login até o shutdown.
	LoginAcquireTimeout time.Duration `mapstructure:"login_acquire_timeout"`
}

type StatsConfig struct {
	Backend       string        `mapstructure:"backend"` // memory, redis, none
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Prefix        string        `mapstructure:"prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
	Bucket        string        `mapstructure:"bucket"`
	TrackAccounts bool          `mapstructure:"track_accounts"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
	File   string `mapstructure:"file"`
}

// DefaultConfig devolve a configuração com os valores padrão.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://www.reddit.com",
			Timeout: 30 * time.Second,
		},
		Engine: EngineConfig{
			MaxAttempts:         5,
			MinDelay:            time.Second,
			AttemptPause:        100 * time.Millisecond,
			AuthRetryDelay:      time.Second,
			RequestsPerSecond:   0,
			RequestBurst:        1,
			LoginConcurrency:    0,
			LoginAcquireTimeout: 30 * time.Second,
		},
		Stats: StatsConfig{
			Backend: "memory",
			Prefix:  "placebot:stats",
			TTL:     24 * time.Hour,
			Bucket:  "minute",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}
