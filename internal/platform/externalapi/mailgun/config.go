// Package mailgun provides a Notifier that sends transactional emails through the Mailgun HTTP API.
package mailgun

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds configuration for the Mailgun API client.
// BaseURL includes the API version; EU domains use https://api.eu.mailgun.net/v3.
type Config struct {
	APIKey  string        `env:"MAILGUN_KEY"`                                    // API key for basic auth
	Domain  string        `env:"MAILGUN_DOMAIN"`                                 // sending domain
	Sender  string        `env:"MAILGUN_EMAIL_SENDER"`                           // From address
	BaseURL string        `env:"MAILGUN_BASE_URL" envDefault:"https://api.mailgun.net/v3"`
	Timeout time.Duration `env:"MAILGUN_TIMEOUT" envDefault:"10s"`
}

// LoadConfig loads Mailgun configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse mailgun env: %w", err)
	}
	return cfg, nil
}

// Enabled reports whether enough configuration is present to call Mailgun.
func (c Config) Enabled() bool {
	return c.APIKey != "" && c.Domain != "" && c.Sender != ""
}
