// Package usecase implements the business logic for the auth feature.
package usecase

import "ecommerce_backend/internal/feature/auth/domain"

var (
	// ErrMissingCredentials is returned when login is attempted without email or password.
	ErrMissingCredentials = domain.NewError(domain.KindValidation, "Email and password are required.")

	// ErrMissingFields is returned when registration input is incomplete.
	ErrMissingFields = domain.NewError(domain.KindValidation, "All fields are required.")

	// ErrMissingEmail is returned when a reset is requested without an email.
	ErrMissingEmail = domain.NewError(domain.KindValidation, "You must enter an email address.")

	// ErrWeakPassword is returned when a new password does not meet the length requirement.
	ErrWeakPassword = domain.NewError(domain.KindValidation, "Password must be at least 8 characters long.")

	// ErrUnknownProvider is returned when no strategy is registered for a provider.
	ErrUnknownProvider = domain.NewError(domain.KindValidation, "Unsupported login provider.")

	// ErrInvalidProfile is returned when an OAuth profile carries no external id.
	ErrInvalidProfile = domain.NewError(domain.KindValidation, "Provider profile is missing an id.")

	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = domain.NewError(domain.KindNotFound, "No user found with this email.")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = domain.NewError(domain.KindValidation, "Email already in use.")

	// ErrProviderMismatch is returned when a local credential is used for an account of another provider.
	ErrProviderMismatch = domain.NewError(domain.KindProviderMismatch, "Account uses a different login provider.")

	// ErrInvalidCredentials is returned when the password does not match the stored hash.
	ErrInvalidCredentials = domain.NewError(domain.KindInvalidCredential, "Incorrect password.")

	// oldPasswordIncorrect is ErrInvalidCredentials worded for the password change form.
	oldPasswordIncorrect = &domain.Error{Kind: domain.KindInvalidCredential, Message: "Old password incorrect.", Err: ErrInvalidCredentials}

	// ErrInvalidResetToken is returned when a reset token is unknown or expired.
	ErrInvalidResetToken = domain.NewError(domain.KindInvalidOrExpiredToken, "Reset token is invalid or expired.")

	// ErrNotificationFailed is returned when the reset email could not be handed to the notifier.
	ErrNotificationFailed = domain.NewError(domain.KindInternal, "Error sending reset link.")
)
