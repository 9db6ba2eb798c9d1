// Package oauth provides Google and Facebook OAuth2 clients that resolve an authorization code
// to an external profile.
package oauth

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	defaultGoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	defaultFacebookGraphURL  = "https://graph.facebook.com/v19.0/me"
)

// Config holds the OAuth client credentials. A provider without a client id is disabled.
type Config struct {
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `env:"GOOGLE_CALLBACK_URL"`
	GoogleUserInfoURL  string `env:"GOOGLE_USERINFO_URL" envDefault:"https://www.googleapis.com/oauth2/v3/userinfo"`

	FacebookClientID     string `env:"FACEBOOK_CLIENT_ID"`
	FacebookClientSecret string `env:"FACEBOOK_CLIENT_SECRET"`
	FacebookCallbackURL  string `env:"FACEBOOK_CALLBACK_URL"`
	FacebookGraphURL     string `env:"FACEBOOK_GRAPH_URL" envDefault:"https://graph.facebook.com/v19.0/me"`
}

// LoadConfig loads OAuth configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse oauth env: %w", err)
	}
	return cfg, nil
}

// GoogleEnabled reports whether Google login is configured.
func (c Config) GoogleEnabled() bool { return c.GoogleClientID != "" }

// FacebookEnabled reports whether Facebook login is configured.
func (c Config) FacebookEnabled() bool { return c.FacebookClientID != "" }
