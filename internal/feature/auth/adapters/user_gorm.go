// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"ecommerce_backend/internal/feature/auth/domain/entity"
	"ecommerce_backend/internal/feature/auth/usecase"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// userGorm はUserRepositoryインターフェースのGORM実装です。
// 本番はPostgreSQL、テストはSQLiteで動作します。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// isUniqueViolation はユニーク制約違反かどうかを判定します。
// TranslateError 有効時は gorm.ErrDuplicatedKey、無効時は pgconn のエラーコードで判定します。
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// Create はユーザーをデータベースに追加します。
// メールアドレスまたはプロバイダーIDが重複する場合、usecase.ErrEmailAlreadyExistsを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("create user: nil user")
	}
	if u.Provider == "" {
		u.Provider = entity.ProviderEmail
	}
	if u.Role == "" {
		u.Role = entity.RoleMember
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update は既存ユーザーの全カラムを書き換えます。nil のポインタはNULLとして保存されます。
func (r *userGorm) Update(ctx context.Context, u *entity.User) error {
	if u == nil || u.ID == 0 {
		return usecase.ErrUserNotFound
	}
	res := r.db.WithContext(ctx).Model(u).Select("*").Omit("id", "created_at").Updates(u)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return usecase.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user %d: %w", u.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

func (r *userGorm) first(ctx context.Context, notFound error, query string, args ...any) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if email == "" {
		return nil, usecase.ErrUserNotFound
	}
	return r.first(ctx, usecase.ErrUserNotFound, "email = ?", email)
}

// FindByID はIDでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if id == 0 {
		return nil, usecase.ErrUserNotFound
	}
	return r.first(ctx, usecase.ErrUserNotFound, "id = ?", id)
}

// FindByProviderID はプロバイダー固有のアカウントIDでユーザーを取得します。
func (r *userGorm) FindByProviderID(ctx context.Context, provider entity.Provider, externalID string) (*entity.User, error) {
	var column string
	switch provider {
	case entity.ProviderGoogle:
		column = "google_id"
	case entity.ProviderFacebook:
		column = "facebook_id"
	default:
		return nil, usecase.ErrUserNotFound
	}
	if externalID == "" {
		return nil, usecase.ErrUserNotFound
	}
	return r.first(ctx, usecase.ErrUserNotFound, column+" = ?", externalID)
}

// FindByResetToken は有効期限内のリセットトークン（ダイジェスト）を持つユーザーを取得します。
// 該当がない場合、usecase.ErrInvalidResetTokenを返します。
func (r *userGorm) FindByResetToken(ctx context.Context, digest string, now time.Time) (*entity.User, error) {
	if digest == "" {
		return nil, usecase.ErrInvalidResetToken
	}
	return r.first(ctx, usecase.ErrInvalidResetToken,
		"reset_password_token = ? AND reset_password_expires > ?", digest, now.UTC())
}

// List はID昇順でユーザーを返します。
func (r *userGorm) List(ctx context.Context, offset, limit int) ([]entity.User, error) {
	users := []entity.User{}
	if err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
