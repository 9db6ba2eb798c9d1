package oauth

import (
	"encoding/json"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"ecommerce_backend/internal/feature/auth/domain/entity"
	"ecommerce_backend/internal/feature/auth/usecase"
)

// googleUserInfo is the OpenID Connect userinfo (v3) response.
type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// NewGoogle creates the Google login client. Consent is forced so a refresh token is always issued.
func NewGoogle(cfg Config, httpClient *http.Client) *client {
	profileURL := cfg.GoogleUserInfoURL
	if profileURL == "" {
		profileURL = defaultGoogleUserInfoURL
	}
	return &client{
		provider: entity.ProviderGoogle,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "profile", "email"},
		},
		profileURL: profileURL,
		httpClient: httpClient,
		authOpts: []oauth2.AuthCodeOption{
			oauth2.AccessTypeOffline,
			oauth2.SetAuthURLParam("prompt", "consent"),
		},
		decode: decodeGoogle,
	}
}

func decodeGoogle(body []byte) (*usecase.ExternalProfile, error) {
	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	return &usecase.ExternalProfile{
		ID:            info.Sub,
		Email:         info.Email,
		EmailVerified: info.Email != "" && info.EmailVerified,
		DisplayName:   info.Name,
		GivenName:     info.GivenName,
		FamilyName:    info.FamilyName,
		PictureURL:    info.Picture,
	}, nil
}
