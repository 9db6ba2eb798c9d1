package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"ecommerce_backend/internal/feature/auth/domain/entity"
	"ecommerce_backend/internal/feature/auth/transport/http/dto"
	"ecommerce_backend/internal/feature/auth/usecase"
)

// OAuthUsecase はOAuthログインの開始と完了を定義します。
type OAuthUsecase interface {
	Configured(provider entity.Provider) bool
	Begin(ctx context.Context, provider entity.Provider) (string, error)
	Complete(ctx context.Context, provider entity.Provider, state, code string) (*usecase.AuthResult, error)
}

// OAuthHandler はプロバイダーへのリダイレクトとコールバックを処理します。
// 結果はJSONではなくフロントエンドへのリダイレクトで返します。
type OAuthHandler struct {
	oauth     OAuthUsecase
	clientURL string
}

// NewOAuthHandler creates an OAuthHandler redirecting back to clientURL.
func NewOAuthHandler(oauth OAuthUsecase, clientURL string) *OAuthHandler {
	return &OAuthHandler{oauth: oauth, clientURL: strings.TrimRight(clientURL, "/")}
}

// Start は GET /api/auth/{provider} を処理し、同意画面へ302でリダイレクトします。
func (h *OAuthHandler) Start(provider entity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.oauth.Configured(provider) {
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "Login provider is not available."})
			return
		}
		consentURL, err := h.oauth.Begin(c.Request.Context(), provider)
		if err != nil {
			slog.Error("oauth begin failed", "provider", provider, "error", err, "remote_addr", c.ClientIP())
			c.Redirect(http.StatusFound, h.clientURL+"/login")
			return
		}
		c.Redirect(http.StatusFound, consentURL)
	}
}

// Callback は GET /api/auth/{provider}/callback を処理します。
// 成功時は {clientURL}/auth/success?token=Bearer <jwt>、失敗時は {clientURL}/login へリダイレクトします。
func (h *OAuthHandler) Callback(provider entity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.oauth.Configured(provider) {
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "Login provider is not available."})
			return
		}
		if e := c.Query("error"); e != "" {
			slog.Warn("oauth consent denied", "provider", provider, "reason", e, "remote_addr", c.ClientIP())
			c.Redirect(http.StatusFound, h.clientURL+"/login")
			return
		}
		res, err := h.oauth.Complete(c.Request.Context(), provider, c.Query("state"), c.Query("code"))
		if err != nil {
			slog.Warn("oauth login failed", "provider", provider, "error", err, "remote_addr", c.ClientIP())
			c.Redirect(http.StatusFound, h.clientURL+"/login")
			return
		}
		slog.Info("oauth login successful", "provider", provider, "user_id", res.User.ID, "remote_addr", c.ClientIP())
		q := url.Values{"token": {dto.BearerToken(res.Token)}}
		c.Redirect(http.StatusFound, h.clientURL+"/auth/success?"+q.Encode())
	}
}
