// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ecommerce_backend/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 一意制約（メール・プロバイダーID）に違反した場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// Update は既存ユーザーの全フィールドを保存します。
	Update(ctx context.Context, user *entity.User) error

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByProviderID はOAuthプロバイダー固有のIDでユーザーを取得します。
	FindByProviderID(ctx context.Context, provider entity.Provider, externalID string) (*entity.User, error)

	// FindByResetToken はリセットトークンのダイジェストが一致し、有効期限がnowより後のユーザーを取得します。
	FindByResetToken(ctx context.Context, digest string, now time.Time) (*entity.User, error)

	// List はID順にユーザーを返します。
	List(ctx context.Context, offset, limit int) ([]entity.User, error)
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーIDの署名済みJWTトークンを生成します。
	GenerateToken(userID uint) (string, error)
}

// RegisterInput は新規登録の入力値です。
type RegisterInput struct {
	Email        string
	FirstName    string
	LastName     string
	Password     string
	IsSubscribed bool
}

// authUsecase は登録・ログインのビジネスロジックを実装します。
type authUsecase struct {
	users      UserRepository
	tokens     JWTGenerator
	resolver   *StrategyResolver
	notifier   Notifier
	subscriber Subscriber
	cost       int
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, tokens JWTGenerator, resolver *StrategyResolver,
	notifier Notifier, subscriber Subscriber) *authUsecase {
	return &authUsecase{
		users:      users,
		tokens:     tokens,
		resolver:   resolver,
		notifier:   notifier,
		subscriber: subscriber,
		cost:       bcrypt.DefaultCost,
	}
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録し、トークンを発行します。
// ニュースレター購読とウェルカムメールの失敗はログに記録するのみで、登録自体は失敗させません。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.FirstName == "" || in.LastName == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	// パスワード強度を検証
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	// メールアドレスの重複を事前確認（最終的な一意性はストアの制約で保証）
	if _, err := u.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	subscribed := false
	if in.IsSubscribed {
		status, err := u.subscriber.Subscribe(ctx, in.Email)
		if err != nil {
			slog.Warn("newsletter subscription failed", "error", err, "email", in.Email)
		}
		subscribed = err == nil && status == SubscriptionSubscribed
	}

	hashed, err := hashPassword(in.Password, u.cost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Email:     &in.Email,
		Password:  &hashed,
		Provider:  entity.ProviderEmail,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      entity.RoleMember,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := u.notifier.Send(ctx, Notification{
		To:        in.Email,
		Kind:      TemplateSignup,
		FirstName: user.FirstName,
	}); err != nil {
		slog.Warn("signup email failed", "error", err, "email", in.Email)
	}

	// 注入されたジェネレーターを使用してJWTトークンを生成
	token, err := u.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user, Subscribed: subscribed}, nil
}

// Login はローカル戦略でユーザーを認証し、成功時にJWTトークンを返します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return u.resolver.Authenticate(ctx, entity.ProviderEmail, Credential{Email: email, Password: password})
}

// LoginWithProvider はOAuthプロフィールでユーザーを解決し、トークンを発行します。
func (u *authUsecase) LoginWithProvider(ctx context.Context, provider entity.Provider, profile ExternalProfile) (*AuthResult, error) {
	return u.resolver.Authenticate(ctx, provider, Credential{Profile: &profile})
}
