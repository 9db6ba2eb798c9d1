// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// LoginReq は /api/auth/login のリクエストボディです。
// 必須チェックはユースケース側で行い、ここでは形式のみ検証します。
type LoginReq struct {
	Email    Email  `json:"email"`
	Password string `json:"password"`
}

// RegisterReq は /api/auth/register のリクエストボディです。
type RegisterReq struct {
	Email        Email  `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Password     string `json:"password"`
	IsSubscribed bool   `json:"isSubscribed"`
}
