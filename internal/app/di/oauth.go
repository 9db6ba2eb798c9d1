package di

import (
	"log/slog"
	"time"

	"ecommerce_backend/internal/feature/auth/adapters/oauth"
	"ecommerce_backend/internal/feature/auth/usecase"
	infrahttp "ecommerce_backend/internal/platform/http"
)

const oauthTimeout = 10 * time.Second

// NewOAuthProviders returns a client for every provider with a configured client id.
func NewOAuthProviders(cfg oauth.Config) []usecase.OAuthProvider {
	httpClient := infrahttp.NewHTTPClient(oauthTimeout)

	var providers []usecase.OAuthProvider
	if cfg.GoogleEnabled() {
		providers = append(providers, oauth.NewGoogle(cfg, httpClient))
	} else {
		slog.Info("Google login disabled: GOOGLE_CLIENT_ID not set")
	}
	if cfg.FacebookEnabled() {
		providers = append(providers, oauth.NewFacebook(cfg, httpClient))
	} else {
		slog.Info("Facebook login disabled: FACEBOOK_CLIENT_ID not set")
	}
	return providers
}
