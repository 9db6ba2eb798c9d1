package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"ecommerce_backend/internal/app/config"
	"ecommerce_backend/internal/app/di"
	"ecommerce_backend/internal/app/router"
	"ecommerce_backend/internal/feature/auth/adapters/oauth"
	"ecommerce_backend/internal/feature/auth/domain/entity"
	authhandler "ecommerce_backend/internal/feature/auth/transport/handler"
	authusecase "ecommerce_backend/internal/feature/auth/usecase"
	infradb "ecommerce_backend/internal/platform/db"
	"ecommerce_backend/internal/platform/externalapi/mailchimp"
	"ecommerce_backend/internal/platform/externalapi/mailgun"
	"ecommerce_backend/internal/platform/http/handler"
	jwtmw "ecommerce_backend/internal/platform/jwt"
	infraredis "ecommerce_backend/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env はローカル開発用。無くてもよい
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	dbCfg, err := infradb.LoadConfigFromEnv()
	if err != nil {
		return err
	}
	db, err := infradb.OpenDB(dbCfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close DB", "error", err)
		}
	}()

	// Redis（任意）
	redisCfg, err := infraredis.LoadConfig()
	if err != nil {
		return err
	}
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, redisCfg); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// 外部サービス
	mailgunCfg, err := mailgun.LoadConfig()
	if err != nil {
		return err
	}
	mailchimpCfg, err := mailchimp.LoadConfig()
	if err != nil {
		return err
	}
	oauthCfg, err := oauth.LoadConfig()
	if err != nil {
		return err
	}

	// Repository
	users := di.NewUserRepository(db, rdb, cfg.UserCacheTTL)
	states := di.NewStateStore(rdb, db)
	tokens := jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTTokenLife)
	notifier := di.NewNotifier(mailgunCfg)

	// Usecase
	resolver := authusecase.NewStrategyResolver(tokens,
		authusecase.NewLocalStrategy(users),
		authusecase.NewExternalStrategy(entity.ProviderGoogle, users),
		authusecase.NewExternalStrategy(entity.ProviderFacebook, users),
	)
	authUC := authusecase.NewAuthUsecase(users, tokens, resolver, notifier, di.NewSubscriber(mailchimpCfg))
	resetUC := authusecase.NewResetUsecase(users, notifier)
	oauthUC := authusecase.NewOAuthUsecase(states, authUC, di.NewOAuthProviders(oauthCfg)...)
	userUC := authusecase.NewUserUsecase(users)

	checks := []handler.Check{{Name: "db", Ping: sqlDB.PingContext}}
	if rdb != nil {
		checks = append(checks, handler.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	// ルータ生成
	r := router.NewRouter(router.Deps{
		Auth:        authhandler.NewAuthHandler(authUC, resetUC),
		OAuth:       authhandler.NewOAuthHandler(oauthUC, cfg.ClientURL),
		Users:       authhandler.NewUserHandler(userUC),
		Tokens:      tokens,
		Identities:  users,
		Limiter:     di.NewLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow),
		ReadyChecks: checks,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
