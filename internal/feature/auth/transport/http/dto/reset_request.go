package dto

// ForgotReq は /api/auth/forgot のリクエストボディです。
type ForgotReq struct {
	Email Email `json:"email"`
}

// ResetReq は /api/auth/reset/:token のリクエストボディです。
type ResetReq struct {
	Password string `json:"password"`
}

// ChangePasswordReq は認証済みの /api/auth/reset のリクエストボディです。
// Password は現在のパスワード、ConfirmPassword は新しいパスワードです。
type ChangePasswordReq struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UpdateProfileReq は PUT /api/user のリクエストボディです。
type UpdateProfileReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
