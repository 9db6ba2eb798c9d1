package jwtmw

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ecommerce_backend/internal/feature/auth/domain"
	"ecommerce_backend/internal/feature/auth/domain/entity"
)

const (
	ContextUserID = "userID"
	ContextUser   = "user"
)

// TokenParser verifies a bearer token and returns the user id it carries.
type TokenParser interface {
	ParseToken(token string) (uint, error)
}

// IdentityLoader loads the user a verified token refers to.
// The returned user carries no credentials.
type IdentityLoader interface {
	FindIdentity(ctx context.Context, id uint) (*entity.User, error)
}

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
func AuthRequired(parser TokenParser, users IdentityLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

		// 2. Verify signature and expiry
		userID, err := parser.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 3. Load the user; a token for a deleted account is no longer an identity
		user, err := users.FindIdentity(c.Request.Context(), userID)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			slog.Error("failed to load authenticated user", "error", err, "user_id", userID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// RequireRole は認証済みユーザーのロールが roles のいずれかであることを要求します。
// AuthRequired の後に配置してください。
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := UserFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !user.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not allowed to make this request."})
			return
		}
		c.Next()
	}
}

// UserFromContext returns the user stored by AuthRequired.
func UserFromContext(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok && user != nil
}
