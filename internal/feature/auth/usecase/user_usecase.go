package usecase

import (
	"context"
	"strings"

	"ecommerce_backend/internal/feature/auth/domain/entity"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// userUsecase serves the profile of the authenticated user and the admin user listing.
type userUsecase struct {
	users UserRepository
}

// NewUserUsecase creates a userUsecase.
func NewUserUsecase(users UserRepository) *userUsecase {
	return &userUsecase{users: users}
}

// Me returns the user with the given id.
func (u *userUsecase) Me(ctx context.Context, id uint) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

// UpdateProfile replaces the user's first and last name.
func (u *userUsecase) UpdateProfile(ctx context.Context, id uint, firstName, lastName string) (*entity.User, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, ErrMissingFields
	}
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.FirstName = firstName
	user.LastName = lastName
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Paginate normalizes a 1-based page and a page size clamped to [1, 100] (default 20).
func Paginate(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// List returns one page of users, see Paginate.
func (u *userUsecase) List(ctx context.Context, page, limit int) ([]entity.User, error) {
	page, limit = Paginate(page, limit)
	return u.users.List(ctx, (page-1)*limit, limit)
}
