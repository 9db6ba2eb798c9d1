package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"ecommerce_backend/internal/feature/auth/domain/entity"
	"ecommerce_backend/internal/feature/auth/usecase"
)

// maxProfileBytes caps the profile response body.
const maxProfileBytes = 1 << 20

// client is a usecase.OAuthProvider built on an oauth2.Config and a profile endpoint.
type client struct {
	provider   entity.Provider
	oauth      *oauth2.Config
	profileURL string
	httpClient *http.Client
	authOpts   []oauth2.AuthCodeOption
	decode     func(body []byte) (*usecase.ExternalProfile, error)
}

var _ usecase.OAuthProvider = (*client)(nil)

func (c *client) Provider() entity.Provider { return c.provider }

// AuthCodeURL returns the consent page URL carrying state.
func (c *client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, c.authOpts...)
}

// Exchange trades code for an access token and fetches the profile with it.
func (c *client) Exchange(ctx context.Context, code string) (*usecase.ExternalProfile, error) {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	resp, err := c.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBytes))
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile endpoint returned %d: %s", resp.StatusCode, body)
	}

	profile, err := c.decode(body)
	if err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}
