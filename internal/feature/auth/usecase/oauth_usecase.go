package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ecommerce_backend/internal/feature/auth/domain"
	"ecommerce_backend/internal/feature/auth/domain/entity"
)

// stateTTL is how long an OAuth login may take between redirect and callback.
const stateTTL = 10 * time.Minute

var (
	// ErrStateNotFound is returned when a state value is unknown, expired or already consumed.
	ErrStateNotFound = domain.NewError(domain.KindUnauthorized, "OAuth state is invalid or expired.")

	// ErrProviderNotConfigured is returned when no OAuth client is registered for a provider.
	ErrProviderNotConfigured = domain.NewError(domain.KindNotFound, "Login provider is not configured.")
)

// OAuthProvider is an OAuth2 client for one identity provider.
type OAuthProvider interface {
	Provider() entity.Provider
	// AuthCodeURL returns the consent page URL carrying state.
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for the caller's profile.
	Exchange(ctx context.Context, code string) (*ExternalProfile, error)
}

// StateStore persists single-use OAuth state values.
// インターフェースは利用側（usecase）で定義し、Redis/DB実装はadapters・platform側に置きます。
type StateStore interface {
	// Save stores state until its ExpiresAt.
	Save(ctx context.Context, state *entity.OAuthState) error
	// Consume returns and deletes state; a second call for the same value returns ErrStateNotFound.
	Consume(ctx context.Context, value string) (*entity.OAuthState, error)
}

// ExternalLogin resolves a provider profile to a user and token.
type ExternalLogin interface {
	LoginWithProvider(ctx context.Context, provider entity.Provider, profile ExternalProfile) (*AuthResult, error)
}

// oauthUsecase drives the authorization code flow for the configured providers.
type oauthUsecase struct {
	providers map[entity.Provider]OAuthProvider
	states    StateStore
	login     ExternalLogin
	now       func() time.Time
}

// NewOAuthUsecase registers providers by their Provider().
func NewOAuthUsecase(states StateStore, login ExternalLogin, providers ...OAuthProvider) *oauthUsecase {
	m := make(map[entity.Provider]OAuthProvider, len(providers))
	for _, p := range providers {
		m[p.Provider()] = p
	}
	return &oauthUsecase{providers: m, states: states, login: login, now: time.Now}
}

// Configured reports whether an OAuth client exists for provider.
func (u *oauthUsecase) Configured(provider entity.Provider) bool {
	_, ok := u.providers[provider]
	return ok
}

// Begin issues a state value and returns the provider's consent URL.
func (u *oauthUsecase) Begin(ctx context.Context, provider entity.Provider) (string, error) {
	p, ok := u.providers[provider]
	if !ok {
		return "", ErrProviderNotConfigured
	}
	now := u.now()
	state := &entity.OAuthState{
		Value:     uuid.NewString(),
		Provider:  provider,
		CreatedAt: now,
		ExpiresAt: now.Add(stateTTL),
	}
	if err := u.states.Save(ctx, state); err != nil {
		return "", fmt.Errorf("save oauth state: %w", err)
	}
	return p.AuthCodeURL(state.Value), nil
}

// Complete consumes state, exchanges code and logs the profile in.
func (u *oauthUsecase) Complete(ctx context.Context, provider entity.Provider, state, code string) (*AuthResult, error) {
	p, ok := u.providers[provider]
	if !ok {
		return nil, ErrProviderNotConfigured
	}
	if state == "" {
		return nil, ErrStateNotFound
	}
	saved, err := u.states.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if saved.Provider != provider || saved.IsExpired(u.now()) {
		return nil, ErrStateNotFound
	}
	if code == "" {
		return nil, errors.New("oauth callback without code")
	}

	profile, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s exchange: %w", provider, err)
	}
	return u.login.LoginWithProvider(ctx, provider, *profile)
}
