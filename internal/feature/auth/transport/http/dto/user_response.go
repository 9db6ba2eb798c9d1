package dto

import "ecommerce_backend/internal/feature/auth/domain/entity"

// UserRes はクライアントに返すユーザー情報です。パスワードやリセットトークンは含みません。
type UserRes struct {
	ID        uint            `json:"id"`
	Email     *string         `json:"email"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Avatar    *string         `json:"avatar,omitempty"`
	Provider  entity.Provider `json:"provider"`
	Role      entity.Role     `json:"role"`
}

// AuthRes は login のレスポンスです。
type AuthRes struct {
	Success bool    `json:"success"`
	Token   string  `json:"token"`
	User    UserRes `json:"user"`
}

// RegisterRes は register のレスポンスです。
type RegisterRes struct {
	Success    bool    `json:"success"`
	Subscribed bool    `json:"subscribed"`
	Token      string  `json:"token"`
	User       UserRes `json:"user"`
}

// MessageRes は本文がメッセージのみのレスポンスです。
type MessageRes struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorRes はすべてのエラーレスポンスの形式です。
type ErrorRes struct {
	Error string `json:"error"`
}

// UserListRes は GET /api/user のレスポンスです。
type UserListRes struct {
	Users []UserRes `json:"users"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

// NewUserRes converts a user entity to its response form.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
		Provider:  u.Provider,
		Role:      u.Role,
	}
}

// BearerToken prefixes a signed token the way clients send it back.
func BearerToken(token string) string {
	return "Bearer " + token
}
