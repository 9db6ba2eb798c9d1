package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"ecommerce_backend/internal/feature/auth/domain/entity"
	"ecommerce_backend/internal/feature/auth/usecase"
)

// OAuthStateModel is the GORM model for the oauth_states table.
type OAuthStateModel struct {
	Value     string    `gorm:"primaryKey;size:64"`
	Provider  string    `gorm:"size:32;not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (OAuthStateModel) TableName() string {
	return "oauth_states"
}

// ToEntity converts the GORM model to a domain entity.
func (m *OAuthStateModel) ToEntity() *entity.OAuthState {
	return &entity.OAuthState{
		Value:     m.Value,
		Provider:  entity.Provider(m.Provider),
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}

// OAuthStateModelFromEntity converts a domain entity to the GORM model.
func OAuthStateModelFromEntity(s *entity.OAuthState) *OAuthStateModel {
	return &OAuthStateModel{
		Value:     s.Value,
		Provider:  string(s.Provider),
		CreatedAt: s.CreatedAt.UTC(),
		ExpiresAt: s.ExpiresAt.UTC(),
	}
}

// oauthStateGorm is the database implementation of usecase.StateStore, used when Redis is not configured.
type oauthStateGorm struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.StateStore = (*oauthStateGorm)(nil)

// NewOAuthStateGorm creates a new instance of oauthStateGorm.
func NewOAuthStateGorm(db *gorm.DB) *oauthStateGorm {
	return &oauthStateGorm{db: db, now: time.Now}
}

// Save persists the state and prunes rows that have already expired.
func (r *oauthStateGorm) Save(ctx context.Context, state *entity.OAuthState) error {
	if _, err := r.DeleteExpired(ctx); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(OAuthStateModelFromEntity(state)).Error; err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}

// Consume loads and deletes the state in one transaction.
// Only the caller whose DELETE affects the row receives it.
func (r *oauthStateGorm) Consume(ctx context.Context, value string) (*entity.OAuthState, error) {
	var model OAuthStateModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("value = ?", value).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrStateNotFound
			}
			return err
		}
		res := tx.Where("value = ?", value).Delete(&OAuthStateModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrStateNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return model.ToEntity(), nil
}

// DeleteExpired removes all expired states.
func (r *oauthStateGorm) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", r.now().UTC()).
		Delete(&OAuthStateModel{})
	return result.RowsAffected, result.Error
}
