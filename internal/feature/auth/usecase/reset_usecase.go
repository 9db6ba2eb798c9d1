package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// resetTTL is how long a password reset token stays valid.
const resetTTL = time.Hour

// resetUsecase implements the password reset and password change flows.
type resetUsecase struct {
	users    UserRepository
	notifier Notifier
	now      func() time.Time
	cost     int
}

// NewResetUsecase creates a resetUsecase.
func NewResetUsecase(users UserRepository, notifier Notifier) *resetUsecase {
	return &resetUsecase{
		users:    users,
		notifier: notifier,
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
	}
}

// RequestReset stores a new reset token for the user and emails it.
// The token stays persisted when the email cannot be sent; the caller sees ErrNotificationFailed.
func (u *resetUsecase) RequestReset(ctx context.Context, email, host string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrMissingEmail
	}
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, digest, err := newResetToken()
	if err != nil {
		return err
	}
	expires := u.now().UTC().Add(resetTTL)
	user.ResetPasswordToken = &digest
	user.ResetPasswordExpires = &expires
	if err := u.users.Update(ctx, user); err != nil {
		return err
	}

	if err := u.notifier.Send(ctx, Notification{
		To:        email,
		Kind:      TemplateReset,
		FirstName: user.FirstName,
		Host:      host,
		Token:     token,
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return nil
}

// ConfirmReset replaces the password of the user holding an unexpired token and clears the token.
func (u *resetUsecase) ConfirmReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := u.users.FindByResetToken(ctx, digestResetToken(token), u.now())
	if err != nil {
		return err
	}

	hashed, err := hashPassword(newPassword, u.cost)
	if err != nil {
		return err
	}
	user.Password = &hashed
	user.ClearReset()
	if err := u.users.Update(ctx, user); err != nil {
		return err
	}

	u.confirm(ctx, user.EmailAddress(), user.FirstName)
	return nil
}

// ChangePassword verifies oldPassword for an authenticated user and stores newPassword.
// Reset token fields are not touched.
func (u *resetUsecase) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrMissingFields
	}
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		return providerMismatch(user.Provider)
	}
	if !comparePassword(*user.Password, oldPassword) {
		return oldPasswordIncorrect
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hashed, err := hashPassword(newPassword, u.cost)
	if err != nil {
		return err
	}
	user.Password = &hashed
	if err := u.users.Update(ctx, user); err != nil {
		return err
	}

	u.confirm(ctx, user.EmailAddress(), user.FirstName)
	return nil
}

func (u *resetUsecase) confirm(ctx context.Context, email, firstName string) {
	if email == "" {
		return
	}
	if err := u.notifier.Send(ctx, Notification{
		To:        email,
		Kind:      TemplateResetConfirmation,
		FirstName: firstName,
	}); err != nil {
		slog.Warn("reset confirmation email failed", "error", err, "email", email)
	}
}
