package oauth

import (
	"encoding/json"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"ecommerce_backend/internal/feature/auth/domain/entity"
	"ecommerce_backend/internal/feature/auth/usecase"
)

const facebookFields = "id,name,first_name,last_name,email,picture.type(large)"

// facebookMe is the Graph API /me response for facebookFields.
type facebookMe struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Picture   struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// NewFacebook creates the Facebook login client.
func NewFacebook(cfg Config, httpClient *http.Client) *client {
	graph := cfg.FacebookGraphURL
	if graph == "" {
		graph = defaultFacebookGraphURL
	}
	return &client{
		provider: entity.ProviderFacebook,
		oauth: &oauth2.Config{
			ClientID:     cfg.FacebookClientID,
			ClientSecret: cfg.FacebookClientSecret,
			RedirectURL:  cfg.FacebookCallbackURL,
			Endpoint:     endpoints.Facebook,
			Scopes:       []string{"email", "public_profile"},
		},
		profileURL: graph + "?fields=" + url.QueryEscape(facebookFields),
		httpClient: httpClient,
		decode:     decodeFacebook,
	}
}

// Facebook profiles carry given/family names separately; an account may have no email.
// Graph only returns a confirmed email, so a present email counts as verified.
func decodeFacebook(body []byte) (*usecase.ExternalProfile, error) {
	var me facebookMe
	if err := json.Unmarshal(body, &me); err != nil {
		return nil, err
	}
	return &usecase.ExternalProfile{
		ID:            me.ID,
		Email:         me.Email,
		EmailVerified: me.Email != "",
		DisplayName:   me.Name,
		GivenName:     me.FirstName,
		FamilyName:    me.LastName,
		PictureURL:    me.Picture.Data.URL,
	}, nil
}
