// Package config はサーバー全体の設定を環境変数から読み込みます。
// 外部サービスごとの設定（DB、Redis、Mailgun など）はそれぞれのパッケージが持ちます。
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the HTTP server and token configuration.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	JWTSecret    string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTokenLife time.Duration `env:"JWT_TOKEN_LIFE" envDefault:"168h"`

	// ClientURL はOAuth完了後のリダイレクト先（フロントエンド）です。
	ClientURL   string   `env:"CLIENT_URL" envDefault:"http://localhost:8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"10"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`

	UserCacheTTL    time.Duration `env:"USER_CACHE_TTL" envDefault:"5m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses Config from the environment. A missing JWT_SECRET is an error.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse server env: %w", err)
	}
	if cfg.RateLimitMax < 1 {
		return Config{}, fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", cfg.RateLimitMax)
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
