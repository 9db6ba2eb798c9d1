package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecommerce_backend/internal/feature/auth/domain"
	"ecommerce_backend/internal/feature/auth/transport/http/dto"
)

const msgInvalidRequest = "Invalid request body."

// statusOf はエラー種別をHTTPステータスに変換します。
func statusOf(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation, domain.KindNotFound, domain.KindProviderMismatch,
		domain.KindInvalidCredential, domain.KindInvalidOrExpiredToken:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError は err を {"error": message} で返します。
// 内部エラーのメッセージは公開せず fallback を使います。
func writeError(c *gin.Context, op string, err error, fallback string) {
	kind := domain.KindOf(err)
	status := statusOf(kind)
	if status >= http.StatusInternalServerError {
		slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
	} else {
		slog.Warn(op+" rejected", "kind", kind.String(), "error", err, "remote_addr", c.ClientIP())
	}
	c.JSON(status, dto.ErrorRes{Error: domain.MessageOf(err, fallback)})
}

// bindJSON はボディをデコードし、失敗時は400を書き込んで false を返します。
func bindJSON(c *gin.Context, op string, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		slog.Warn(op+" validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgInvalidRequest})
		return false
	}
	return true
}
