package usecase

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ecommerce_backend/internal/feature/auth/domain"
	"ecommerce_backend/internal/feature/auth/domain/entity"
)

// fakeClock is a settable clock for reset expiry tests.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestResetUsecase(repo UserRepository, notifier Notifier, clock *fakeClock) *resetUsecase {
	uc := NewResetUsecase(repo, notifier)
	uc.cost = bcrypt.MinCost
	uc.now = clock.Now
	return uc
}

func seedLocalUser(t *testing.T, repo *memoryUserRepository, email, password string) *entity.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	h := string(hashed)
	u := &entity.User{Email: entity.StringPtr(email), Password: &h, Provider: entity.ProviderEmail, FirstName: "Ada"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestResetUsecase_RequestReset(t *testing.T) {
	t.Parallel()

	t.Run("stores digest and expiry and sends token", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryUserRepository()
		user := seedLocalUser(t, repo, "ada@example.com", "password123")
		notifier := &recordingNotifier{}
		clock := &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
		uc := newTestResetUsecase(repo, notifier, clock)

		err := uc.RequestReset(context.Background(), "ada@example.com", "shop.example.com")
		require.NoError(t, err)

		sent := notifier.last()
		assert.Equal(t, TemplateReset, sent.Kind)
		assert.Equal(t, "ada@example.com", sent.To)
		assert.Equal(t, "shop.example.com", sent.Host)
		raw, err := hex.DecodeString(sent.Token)
		require.NoError(t, err, "token is hex encoded")
		assert.Len(t, raw, resetTokenBytes)

		stored, err := repo.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.ResetPasswordToken)
		assert.NotEqual(t, sent.Token, *stored.ResetPasswordToken, "only the digest is stored")
		assert.Equal(t, digestResetToken(sent.Token), *stored.ResetPasswordToken)
		require.NotNil(t, stored.ResetPasswordExpires)
		assert.Equal(t, clock.t.Add(time.Hour), *stored.ResetPasswordExpires)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()

		uc := newTestResetUsecase(newMemoryUserRepository(), &recordingNotifier{}, &fakeClock{t: time.Now()})

		err := uc.RequestReset(context.Background(), "nobody@example.com", "host")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("missing email", func(t *testing.T) {
		t.Parallel()

		uc := newTestResetUsecase(newMemoryUserRepository(), &recordingNotifier{}, &fakeClock{t: time.Now()})

		err := uc.RequestReset(context.Background(), " ", "host")

		assert.ErrorIs(t, err, ErrMissingEmail)
	})

	t.Run("notification failure keeps the token persisted", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryUserRepository()
		user := seedLocalUser(t, repo, "ada@example.com", "password123")
		notifier := &recordingNotifier{err: errors.New("mailgun 503")}
		uc := newTestResetUsecase(repo, notifier, &fakeClock{t: time.Now()})

		err := uc.RequestReset(context.Background(), "ada@example.com", "host")

		assert.ErrorIs(t, err, ErrNotificationFailed)
		assert.Equal(t, domain.KindInternal, domain.KindOf(err))

		stored, err := repo.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.ResetPasswordToken)

		// the emailed token is still usable
		require.NoError(t, uc.ConfirmReset(context.Background(), notifier.last().Token, "new-password-1"))
	})

	t.Run("store update failure", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("write failed")
		mem := newMemoryUserRepository()
		seedLocalUser(t, mem, "ada@example.com", "password123")
		repo := &mockUserRepository{
			memoryUserRepository: mem,
			UpdateFunc:           func(ctx context.Context, user *entity.User) error { return dbErr },
		}
		notifier := &recordingNotifier{}
		uc := newTestResetUsecase(repo, notifier, &fakeClock{t: time.Now()})

		err := uc.RequestReset(context.Background(), "ada@example.com", "host")

		assert.ErrorIs(t, err, dbErr)
		assert.Empty(t, notifier.sent, "no email without a persisted token")
	})
}

func TestResetUsecase_ConfirmReset(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*memoryUserRepository, *recordingNotifier, *fakeClock, *resetUsecase, *entity.User, string) {
		t.Helper()
		repo := newMemoryUserRepository()
		user := seedLocalUser(t, repo, "ada@example.com", "old-password")
		notifier := &recordingNotifier{}
		clock := &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
		uc := newTestResetUsecase(repo, notifier, clock)
		require.NoError(t, uc.RequestReset(context.Background(), "ada@example.com", "host"))
		return repo, notifier, clock, uc, user, notifier.last().Token
	}

	t.Run("replaces password and clears token", func(t *testing.T) {
		t.Parallel()

		repo, notifier, _, uc, user, token := setup(t)

		err := uc.ConfirmReset(context.Background(), token, "brand-new-password")
		require.NoError(t, err)

		stored, err := repo.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.True(t, comparePassword(*stored.Password, "brand-new-password"))
		assert.False(t, comparePassword(*stored.Password, "old-password"))
		assert.Nil(t, stored.ResetPasswordToken)
		assert.Nil(t, stored.ResetPasswordExpires)
		assert.Equal(t, TemplateResetConfirmation, notifier.last().Kind)
	})

	t.Run("token is single use", func(t *testing.T) {
		t.Parallel()

		_, _, _, uc, _, token := setup(t)

		require.NoError(t, uc.ConfirmReset(context.Background(), token, "brand-new-password"))
		err := uc.ConfirmReset(context.Background(), token, "another-password")

		assert.ErrorIs(t, err, ErrInvalidResetToken)
		assert.Equal(t, domain.KindInvalidOrExpiredToken, domain.KindOf(err))
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		_, _, clock, uc, _, token := setup(t)
		clock.Advance(time.Hour + time.Second)

		err := uc.ConfirmReset(context.Background(), token, "brand-new-password")

		assert.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("token still valid just before expiry", func(t *testing.T) {
		t.Parallel()

		_, _, clock, uc, _, token := setup(t)
		clock.Advance(59 * time.Minute)

		assert.NoError(t, uc.ConfirmReset(context.Background(), token, "brand-new-password"))
	})

	t.Run("unknown and empty tokens", func(t *testing.T) {
		t.Parallel()

		_, _, _, uc, _, _ := setup(t)

		assert.ErrorIs(t, uc.ConfirmReset(context.Background(), "deadbeef", "brand-new-password"), ErrInvalidResetToken)
		assert.ErrorIs(t, uc.ConfirmReset(context.Background(), "", "brand-new-password"), ErrInvalidResetToken)
	})

	t.Run("weak new password keeps the token", func(t *testing.T) {
		t.Parallel()

		_, _, _, uc, _, token := setup(t)

		assert.ErrorIs(t, uc.ConfirmReset(context.Background(), token, "short"), ErrWeakPassword)
		assert.NoError(t, uc.ConfirmReset(context.Background(), token, "long-enough-now"))
	})

	t.Run("confirmation email failure is not surfaced", func(t *testing.T) {
		t.Parallel()

		_, notifier, _, uc, _, token := setup(t)
		notifier.err = errors.New("mailgun down")

		assert.NoError(t, uc.ConfirmReset(context.Background(), token, "brand-new-password"))
	})
}

func TestResetUsecase_ChangePassword(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryUserRepository()
		user := seedLocalUser(t, repo, "ada@example.com", "old-password")
		digest := "pending-digest"
		exp := time.Now().Add(time.Hour)
		user.ResetPasswordToken, user.ResetPasswordExpires = &digest, &exp
		require.NoError(t, repo.Update(context.Background(), user))
		notifier := &recordingNotifier{}
		uc := newTestResetUsecase(repo, notifier, &fakeClock{t: time.Now()})

		err := uc.ChangePassword(context.Background(), user.ID, "old-password", "new-password")
		require.NoError(t, err)

		stored, err := repo.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.True(t, comparePassword(*stored.Password, "new-password"))
		require.NotNil(t, stored.ResetPasswordToken, "reset fields are not touched")
		assert.Equal(t, digest, *stored.ResetPasswordToken)
		assert.Equal(t, TemplateResetConfirmation, notifier.last().Kind)
	})

	t.Run("old password incorrect", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryUserRepository()
		user := seedLocalUser(t, repo, "ada@example.com", "old-password")
		uc := newTestResetUsecase(repo, &recordingNotifier{}, &fakeClock{t: time.Now()})

		err := uc.ChangePassword(context.Background(), user.ID, "not-the-password", "new-password")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, "Old password incorrect.", domain.MessageOf(err, ""))
		stored, _ := repo.FindByID(context.Background(), user.ID)
		assert.True(t, comparePassword(*stored.Password, "old-password"))
	})

	t.Run("oauth user has no password", func(t *testing.T) {
		t.Parallel()

		repo := newMemoryUserRepository()
		u := &entity.User{GoogleID: entity.StringPtr("g-1"), Provider: entity.ProviderGoogle}
		require.NoError(t, repo.Create(context.Background(), u))
		uc := newTestResetUsecase(repo, &recordingNotifier{}, &fakeClock{t: time.Now()})

		err := uc.ChangePassword(context.Background(), u.ID, "anything", "new-password")

		assert.ErrorIs(t, err, ErrProviderMismatch)
	})

	t.Run("missing fields and unknown user", func(t *testing.T) {
		t.Parallel()

		uc := newTestResetUsecase(newMemoryUserRepository(), &recordingNotifier{}, &fakeClock{t: time.Now()})

		assert.ErrorIs(t, uc.ChangePassword(context.Background(), 1, "", "new-password"), ErrMissingFields)
		assert.ErrorIs(t, uc.ChangePassword(context.Background(), 99, "old-password", "new-password"), ErrUserNotFound)
	})
}
