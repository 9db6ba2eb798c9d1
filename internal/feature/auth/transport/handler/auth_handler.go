// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecommerce_backend/internal/feature/auth/transport/http/dto"
	"ecommerce_backend/internal/feature/auth/usecase"
	jwtmw "ecommerce_backend/internal/platform/jwt"
)

// AuthUsecase は登録・ログインのユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
}

// ResetUsecase はパスワードリセットと変更のユースケースを定義します。
type ResetUsecase interface {
	RequestReset(ctx context.Context, email, host string) error
	ConfirmReset(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
}

// AuthHandler は /api/auth 配下のJSONエンドポイントを処理します。
type AuthHandler struct {
	auth  AuthUsecase
	reset ResetUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase, reset ResetUsecase) *AuthHandler {
	return &AuthHandler{auth: auth, reset: reset}
}

// Login は POST /api/auth/login を処理します。
// 成功時は "Bearer <jwt>" 形式のトークンとユーザー情報を返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if !bindJSON(c, "login", &req) {
		return
	}
	res, err := h.auth.Login(c.Request.Context(), string(req.Email), req.Password)
	if err != nil {
		writeError(c, "login", err, "Login failed. Please try again.")
		return
	}
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.AuthRes{
		Success: true,
		Token:   dto.BearerToken(res.Token),
		User:    dto.NewUserRes(res.User),
	})
}

// Register は POST /api/auth/register を処理します。
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if !bindJSON(c, "register", &req) {
		return
	}
	res, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:        string(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Password:     req.Password,
		IsSubscribed: req.IsSubscribed,
	})
	if err != nil {
		writeError(c, "register", err, "Registration failed. Please try again.")
		return
	}
	slog.Info("user registration successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.RegisterRes{
		Success:    true,
		Subscribed: res.Subscribed,
		Token:      dto.BearerToken(res.Token),
		User:       dto.NewUserRes(res.User),
	})
}

// Forgot は POST /api/auth/forgot を処理します。リセットリンクの host はリクエストの Host ヘッダーです。
func (h *AuthHandler) Forgot(c *gin.Context) {
	var req dto.ForgotReq
	if !bindJSON(c, "forgot", &req) {
		return
	}
	if err := h.reset.RequestReset(c.Request.Context(), string(req.Email), c.Request.Host); err != nil {
		writeError(c, "forgot", err, "Error sending reset link.")
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Success: true, Message: "Password reset link sent to your email."})
}

// ResetWithToken は POST /api/auth/reset/:token を処理します。
func (h *AuthHandler) ResetWithToken(c *gin.Context) {
	var req dto.ResetReq
	if !bindJSON(c, "reset", &req) {
		return
	}
	if err := h.reset.ConfirmReset(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		writeError(c, "reset", err, "Password reset failed.")
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Success: true, Message: "Password changed successfully."})
}

// ChangePassword は認証済みの POST /api/auth/reset を処理します。
// AuthRequired の後に登録する必要があります。
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordReq
	if !bindJSON(c, "change password", &req) {
		return
	}
	userID := c.GetUint(jwtmw.ContextUserID)
	if err := h.reset.ChangePassword(c.Request.Context(), userID, req.Password, req.ConfirmPassword); err != nil {
		writeError(c, "change password", err, "Could not update password.")
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Success: true, Message: "Password updated."})
}
