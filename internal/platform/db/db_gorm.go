// Package db はPostgreSQLへのGORM接続とスキーマのマイグレーションを提供します。
package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ecommerce_backend/internal/feature/auth/adapters"
	"ecommerce_backend/internal/feature/auth/domain/entity"
)

// retryInterval は接続リトライの待機時間です。
const retryInterval = 3 * time.Second

// Config はデータベース接続設定です。
type Config struct {
	User          string        `env:"DB_USER"`
	Password      string        `env:"DB_PASSWORD"`
	Name          string        `env:"DB_NAME"`
	Host          string        `env:"DB_HOST" envDefault:"localhost"`
	Port          string        `env:"DB_PORT" envDefault:"5432"`
	SSLMode       string        `env:"DB_SSLMODE" envDefault:"disable"`
	InstanceName  string        `env:"INSTANCE_CONNECTION_NAME"`
	RunMigrations bool          `env:"RUN_MIGRATIONS"`
	ConnectWithin time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"60s"`
}

// Opener opens a gorm connection for a DSN. Tests replace it.
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse db env: %w", err)
	}
	return cfg, nil
}

// BuildDSN はPostgreSQLのキー=値形式DSNを生成します。
// InstanceName が設定されている場合は Cloud SQL の Unix ソケットを優先します。
func BuildDSN(cfg Config) string {
	host, port := cfg.Host, cfg.Port
	if cfg.InstanceName != "" {
		host, port = "/cloudsql/"+cfg.InstanceName, ""
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s",
		dsnValue(host), dsnValue(cfg.User), dsnValue(cfg.Password), dsnValue(cfg.Name))
	if port != "" {
		dsn += " port=" + dsnValue(port)
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return dsn + " sslmode=" + dsnValue(sslmode) + " TimeZone=UTC"
}

// dsnValue は libpq のキー=値形式に合わせて値をクォートします。
// 空白・引用符・バックスラッシュを含む値と空文字のみクォートし、' と \ はエスケープします。
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n\r'\\") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// ConnectWithRetry は timeout に達するまで retryInterval ごとに接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// PostgresOpener opens PostgreSQL with gorm error translation enabled, so unique violations surface
// as gorm.ErrDuplicatedKey.
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

// OpenDB は設定に従って接続し、RunMigrations が true の場合はマイグレーションを実行します。
func OpenDB(cfg Config) (*gorm.DB, error) {
	db, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectWithin, PostgresOpener)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate creates or updates the users and oauth_states tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.User{}, &adapters.OAuthStateModel{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
