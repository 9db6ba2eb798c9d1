// Package router はHTTPルーティングを組み立てます。
package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ecommerce_backend/internal/feature/auth/domain/entity"
	authhandler "ecommerce_backend/internal/feature/auth/transport/handler"
	infrahttp "ecommerce_backend/internal/platform/http"
	"ecommerce_backend/internal/platform/http/handler"
	jwtmw "ecommerce_backend/internal/platform/jwt"
	"ecommerce_backend/internal/shared/ratelimiter"
)

// Deps はルーターが必要とするハンドラーとミドルウェアの依存です。
type Deps struct {
	Auth  *authhandler.AuthHandler
	OAuth *authhandler.OAuthHandler
	Users *authhandler.UserHandler

	Tokens     jwtmw.TokenParser
	Identities jwtmw.IdentityLoader
	Limiter    ratelimiter.Limiter

	ReadyChecks []handler.Check
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter creates the gin engine with all routes mounted.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), infrahttp.RequestID(), infrahttp.AccessLog(d.Logger), corsMiddleware(d.CORSOrigins))

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.GET("/readyz", handler.Ready(d.ReadyChecks...))

	authRequired := jwtmw.AuthRequired(d.Tokens, d.Identities)
	limited := ratelimiter.Middleware(d.Limiter)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		// 認証不要
		auth.POST("/login", limited, d.Auth.Login)
		auth.POST("/register", d.Auth.Register)
		auth.POST("/forgot", limited, d.Auth.Forgot)
		auth.POST("/reset/:token", d.Auth.ResetWithToken)

		// 認証必須
		auth.POST("/reset", authRequired, d.Auth.ChangePassword)

		for _, p := range []entity.Provider{entity.ProviderGoogle, entity.ProviderFacebook} {
			auth.GET("/"+string(p), d.OAuth.Start(p))
			auth.GET("/"+string(p)+"/callback", d.OAuth.Callback(p))
		}
	}

	user := api.Group("/user")
	user.Use(authRequired)
	{
		user.GET("/me", d.Users.Me)
		user.PUT("", d.Users.Update)
		user.GET("", jwtmw.RequireRole(entity.RoleAdmin), d.Users.List)
	}

	return r
}

// corsMiddleware allows the configured origins, or any origin when none are configured.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", infrahttp.HeaderRequestID},
		ExposeHeaders:    []string{infrahttp.HeaderRequestID},
		AllowCredentials: len(origins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
