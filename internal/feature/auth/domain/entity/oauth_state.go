package entity

import "time"

// OAuthState is a single-use CSRF value issued when an OAuth login starts.
type OAuthState struct {
	// Value is the opaque random string round-tripped through the provider.
	Value string `json:"value"`

	// Provider is the provider the login was started for.
	Provider Provider `json:"provider"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the state is no longer accepted at now.
func (s *OAuthState) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
