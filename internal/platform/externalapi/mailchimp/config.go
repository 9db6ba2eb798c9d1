// Package mailchimp provides a Subscriber that adds newsletter members through the Mailchimp Marketing API.
package mailchimp

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds configuration for the Mailchimp API client.
type Config struct {
	APIKey  string        `env:"MAILCHIMP_KEY"`      // "<key>-<datacenter>"
	ListKey string        `env:"MAILCHIMP_LIST_KEY"` // audience id
	BaseURL string        `env:"MAILCHIMP_BASE_URL"` // overrides the datacenter URL derived from APIKey
	Timeout time.Duration `env:"MAILCHIMP_TIMEOUT" envDefault:"10s"`
}

// LoadConfig loads Mailchimp configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse mailchimp env: %w", err)
	}
	return cfg, nil
}

// Enabled reports whether enough configuration is present to call Mailchimp.
func (c Config) Enabled() bool {
	return c.APIKey != "" && c.ListKey != ""
}

// Endpoint returns the API root, e.g. https://us21.api.mailchimp.com/3.0.
func (c Config) Endpoint() (string, error) {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/"), nil
	}
	i := strings.LastIndex(c.APIKey, "-")
	if i < 0 || i == len(c.APIKey)-1 {
		return "", fmt.Errorf("mailchimp: api key has no datacenter suffix")
	}
	return fmt.Sprintf("https://%s.api.mailchimp.com/3.0", c.APIKey[i+1:]), nil
}
