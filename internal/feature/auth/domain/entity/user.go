// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Provider identifies how a user authenticates.
type Provider string

const (
	ProviderEmail    Provider = "email"
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
)

// Role is the authorization level attached to a user.
type Role string

const (
	RoleAdmin    Role = "ROLE_ADMIN"
	RoleMerchant Role = "ROLE_MERCHANT"
	RoleMember   Role = "ROLE_MEMBER"
)

// User represents a registered user in the system.
// It contains authentication credentials, profile data and the password reset state.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is unique across all providers.
	// It is nil only for OAuth profiles that did not expose an address.
	Email *string `gorm:"uniqueIndex;size:255"`

	// GoogleID and FacebookID hold the provider-specific account ids.
	GoogleID   *string `gorm:"uniqueIndex;size:255"`
	FacebookID *string `gorm:"uniqueIndex;size:255"`

	// Password is the bcrypt hash of the user's password.
	// It is nil for users created through an OAuth provider.
	Password *string `gorm:"size:255"`

	Provider Provider `gorm:"size:32;not null;default:email"`

	FirstName string  `gorm:"size:255"`
	LastName  string  `gorm:"size:255"`
	Avatar    *string `gorm:"size:1024"`

	Role Role `gorm:"size:32;not null;default:ROLE_MEMBER"`

	// ResetPasswordToken stores the SHA-256 digest of the outstanding reset token.
	ResetPasswordToken   *string `gorm:"index;size:64"`
	ResetPasswordExpires *time.Time

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// EmailAddress returns the user's email or an empty string when none is stored.
func (u *User) EmailAddress() string {
	if u == nil || u.Email == nil {
		return ""
	}
	return *u.Email
}

// HasPassword reports whether the user can authenticate with a local password.
func (u *User) HasPassword() bool {
	return u != nil && u.Password != nil && *u.Password != ""
}

// HasRole reports whether the user's role is one of roles.
func (u *User) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// ResetPending reports whether a reset token is outstanding and unexpired at now.
func (u *User) ResetPending(now time.Time) bool {
	return u != nil && u.ResetPasswordToken != nil && u.ResetPasswordExpires != nil &&
		u.ResetPasswordExpires.After(now)
}

// ClearReset returns the user to the no-reset state.
func (u *User) ClearReset() {
	u.ResetPasswordToken = nil
	u.ResetPasswordExpires = nil
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
