// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Kind classifies an auth failure. Transport layers map a Kind to a response status.
type Kind int

const (
	// KindInternal covers unexpected store, signing or collaborator failures.
	KindInternal Kind = iota
	// KindValidation indicates missing or malformed input.
	KindValidation
	// KindNotFound indicates that no matching user or token exists.
	KindNotFound
	// KindProviderMismatch indicates the account belongs to a different provider.
	KindProviderMismatch
	// KindInvalidCredential indicates a wrong password.
	KindInvalidCredential
	// KindInvalidOrExpiredToken indicates an unknown or elapsed reset token.
	KindInvalidOrExpiredToken
	// KindUnauthorized indicates a missing or invalid bearer token.
	KindUnauthorized
	// KindForbidden indicates that the caller's role is not allowed.
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindProviderMismatch:
		return "provider_mismatch"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindInvalidOrExpiredToken:
		return "invalid_or_expired_token"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is a classified auth error.
// Message is safe to return to clients; Err carries the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError creates a classified error without an underlying cause.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for err.
// Unclassified errors yield fallback so internal details are not exposed.
func MessageOf(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) && de.Kind != KindInternal {
		return de.Message
	}
	return fallback
}
