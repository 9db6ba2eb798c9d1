package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ecommerce_backend/internal/feature/auth/domain"
	"ecommerce_backend/internal/feature/auth/domain/entity"
)

// Credential is the input to a Strategy.
// Local strategies read Email and Password; external strategies read Profile.
type Credential struct {
	Email    string
	Password string
	Profile  *ExternalProfile
}

// ExternalProfile is the subset of an OAuth provider profile used to locate or create a user.
// Empty strings stand for fields the provider did not return.
// EmailVerified is set only when the provider asserts ownership of Email.
type ExternalProfile struct {
	ID            string
	Email         string
	EmailVerified bool
	DisplayName string
	GivenName   string
	FamilyName  string
	PictureURL  string
}

// Strategy authenticates a credential for one provider and returns the matching user.
type Strategy interface {
	Provider() entity.Provider
	Authenticate(ctx context.Context, cred Credential) (*entity.User, error)
}

// AuthResult is a resolved user together with the bearer token issued for it.
type AuthResult struct {
	Token      string
	User       *entity.User
	Subscribed bool
}

// StrategyResolver dispatches authentication to the strategy registered for a provider
// and issues a token for the resolved user.
type StrategyResolver struct {
	strategies map[entity.Provider]Strategy
	tokens     JWTGenerator
}

// NewStrategyResolver registers strategies by their provider.
// A later strategy for the same provider replaces an earlier one.
func NewStrategyResolver(tokens JWTGenerator, strategies ...Strategy) *StrategyResolver {
	m := make(map[entity.Provider]Strategy, len(strategies))
	for _, s := range strategies {
		m[s.Provider()] = s
	}
	return &StrategyResolver{strategies: m, tokens: tokens}
}

// Supports reports whether a strategy is registered for provider.
func (r *StrategyResolver) Supports(provider entity.Provider) bool {
	_, ok := r.strategies[provider]
	return ok
}

// Authenticate resolves cred with the provider's strategy and issues a token.
func (r *StrategyResolver) Authenticate(ctx context.Context, provider entity.Provider, cred Credential) (*AuthResult, error) {
	s, ok := r.strategies[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}
	user, err := s.Authenticate(ctx, cred)
	if err != nil {
		return nil, err
	}
	token, err := r.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// localStrategy authenticates email/password credentials.
type localStrategy struct {
	users UserRepository
}

// NewLocalStrategy returns the email/password strategy.
func NewLocalStrategy(users UserRepository) Strategy {
	return &localStrategy{users: users}
}

func (s *localStrategy) Provider() entity.Provider { return entity.ProviderEmail }

func (s *localStrategy) Authenticate(ctx context.Context, cred Credential) (*entity.User, error) {
	email := strings.TrimSpace(cred.Email)
	if email == "" || cred.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// keep the response time of unknown emails close to that of known ones
			comparePassword(dummyHash, cred.Password)
		}
		return nil, err
	}

	if user.Provider != entity.ProviderEmail {
		return nil, providerMismatch(user.Provider)
	}
	if !user.HasPassword() || !comparePassword(*user.Password, cred.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// externalStrategy locates or creates users from OAuth provider profiles.
type externalStrategy struct {
	provider entity.Provider
	users    UserRepository
}

// NewExternalStrategy returns the strategy for an OAuth provider (google or facebook).
func NewExternalStrategy(provider entity.Provider, users UserRepository) Strategy {
	return &externalStrategy{provider: provider, users: users}
}

func (s *externalStrategy) Provider() entity.Provider { return s.provider }

func (s *externalStrategy) Authenticate(ctx context.Context, cred Credential) (*entity.User, error) {
	p := cred.Profile
	if p == nil || strings.TrimSpace(p.ID) == "" {
		return nil, ErrInvalidProfile
	}

	user, err := s.users.FindByProviderID(ctx, s.provider, p.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	if p.Email != "" {
		existing, err := s.users.FindByEmail(ctx, p.Email)
		switch {
		case err == nil:
			return s.link(ctx, existing, p)
		case !errors.Is(err, ErrUserNotFound):
			return nil, err
		}
	}

	first, last := splitDisplayName(p.DisplayName)
	if first == "" {
		first, last = p.GivenName, p.FamilyName
	}
	user = &entity.User{
		Provider:  s.provider,
		Email:     entity.StringPtr(p.Email),
		FirstName: first,
		LastName:  last,
		Avatar:    entity.StringPtr(p.PictureURL),
		Role:      entity.RoleMember,
	}
	setProviderID(user, s.provider, p.ID)

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			// a concurrent first login for the same profile won the insert
			if existing, findErr := s.users.FindByProviderID(ctx, s.provider, p.ID); findErr == nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return user, nil
}

// link attaches the external id to an account registered with the same email.
// Only a provider-verified email may claim an existing account.
// Profile fields of the existing account are left untouched.
func (s *externalStrategy) link(ctx context.Context, user *entity.User, p *ExternalProfile) (*entity.User, error) {
	if current := providerID(user, s.provider); current != nil {
		if *current != p.ID {
			return nil, providerMismatch(user.Provider)
		}
		return user, nil
	}
	if !p.EmailVerified {
		return nil, providerMismatch(user.Provider)
	}
	setProviderID(user, s.provider, p.ID)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func providerID(u *entity.User, provider entity.Provider) *string {
	switch provider {
	case entity.ProviderGoogle:
		return u.GoogleID
	case entity.ProviderFacebook:
		return u.FacebookID
	}
	return nil
}

func setProviderID(u *entity.User, provider entity.Provider, id string) {
	switch provider {
	case entity.ProviderGoogle:
		u.GoogleID = &id
	case entity.ProviderFacebook:
		u.FacebookID = &id
	}
}

func providerMismatch(p entity.Provider) error {
	return &domain.Error{
		Kind:    domain.KindProviderMismatch,
		Message: fmt.Sprintf("Email used with %s login.", p),
		Err:     ErrProviderMismatch,
	}
}
