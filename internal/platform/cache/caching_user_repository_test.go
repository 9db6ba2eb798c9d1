package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"ecommerce_backend/internal/feature/auth/domain/entity"
	"ecommerce_backend/internal/feature/auth/usecase"
)

// mockUserRepository はテスト用のUserRepositoryモック実装です。
// 未設定の関数はゼロ値を返します。
type mockUserRepository struct {
	findByIDFn func(ctx context.Context, id uint) (*entity.User, error)
	updateFn   func(ctx context.Context, u *entity.User) error
	calls      map[string]int
}

func (m *mockUserRepository) record(name string) {
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[name]++
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	m.record("FindByID")
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, usecase.ErrUserNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, u *entity.User) error {
	m.record("Update")
	if m.updateFn != nil {
		return m.updateFn(ctx, u)
	}
	return nil
}

func (m *mockUserRepository) Create(ctx context.Context, u *entity.User) error {
	m.record("Create")
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	m.record("FindByEmail")
	return nil, usecase.ErrUserNotFound
}

func (m *mockUserRepository) FindByProviderID(ctx context.Context, provider entity.Provider, externalID string) (*entity.User, error) {
	m.record("FindByProviderID")
	return nil, usecase.ErrUserNotFound
}

func (m *mockUserRepository) FindByResetToken(ctx context.Context, digest string, now time.Time) (*entity.User, error) {
	m.record("FindByResetToken")
	return nil, usecase.ErrInvalidResetToken
}

func (m *mockUserRepository) List(ctx context.Context, offset, limit int) ([]entity.User, error) {
	m.record("List")
	return []entity.User{}, nil
}

func testUser() *entity.User {
	return &entity.User{
		ID:        7,
		Email:     entity.StringPtr("ada@example.com"),
		Password:  entity.StringPtr("$2a$10$abcdefghijklmnopqrstuv"),
		Provider:  entity.ProviderEmail,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      entity.RoleAdmin,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),

		ResetPasswordToken: entity.StringPtr("5f2b9c0e"),
	}
}

func cachedIdentityJSON(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(identityOf(testUser()))
	if err != nil {
		t.Fatalf("marshal identity: %v", err)
	}
	return b
}

// TestNewCachingUserRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingUserRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 5 * time.Minute, "users"},
		{"negative ttl uses default", -time.Minute, "", 5 * time.Minute, "users"},
		{"custom values preserved", 10 * time.Minute, "custom", 10 * time.Minute, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingUserRepository(nil, tt.ttl, &mockUserRepository{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingUserRepository_FindIdentity_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingUserRepository_FindIdentity_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.User, error) { return testUser(), nil },
	}

	repo := NewCachingUserRepository(nil, 5*time.Minute, inner, "users")

	u, err := repo.FindIdentity(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 7 {
		t.Errorf("expected user 7, got %d", u.ID)
	}
}

// TestCachingUserRepository_FindIdentity_CacheHit はキャッシュヒット時に内部リポジトリを呼ばないことを検証します。
func TestCachingUserRepository_FindIdentity_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedJSON := cachedIdentityJSON(t)
	mock.ExpectGet("users:id:7").SetVal(string(cachedJSON))

	inner := &mockUserRepository{}
	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")

	u, err := repo.FindIdentity(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls["FindByID"] != 0 {
		t.Error("inner repository should not be called on cache hit")
	}
	if u.Role != entity.RoleAdmin || u.EmailAddress() != "ada@example.com" {
		t.Errorf("unexpected cached user %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUserRepository_FindIdentity_CacheMiss はキャッシュミス時にDBから取得してキャッシュに保存することを検証します。
func TestCachingUserRepository_FindIdentity_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON := cachedIdentityJSON(t)
	mock.ExpectGet("users:id:7").RedisNil()
	mock.ExpectSet("users:id:7", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.User, error) { return testUser(), nil },
	}
	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")

	u, err := repo.FindIdentity(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Password != nil || u.ResetPasswordToken != nil {
		t.Errorf("identity must not carry credentials: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUserRepository_CachedEntryHasNoCredentials はキャッシュに認証情報が保存されないことを検証します。
func TestCachingUserRepository_CachedEntryHasNoCredentials(t *testing.T) {
	t.Parallel()

	b := cachedIdentityJSON(t)

	for _, secret := range []string{"$2a$10$abcdefghijklmnopqrstuv", "5f2b9c0e"} {
		if strings.Contains(string(b), secret) {
			t.Errorf("cached entry contains %q: %s", secret, b)
		}
	}
	if !strings.Contains(string(b), `"role":"ROLE_ADMIN"`) {
		t.Errorf("cached entry lost the role: %s", b)
	}
}

// TestCachingUserRepository_FindByID_Uncached は FindByID が常にDBの完全なレコードを返すことを検証します。
func TestCachingUserRepository_FindByID_Uncached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.User, error) { return testUser(), nil },
	}
	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")

	u, err := repo.FindByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Password == nil || *u.Password != "$2a$10$abcdefghijklmnopqrstuv" {
		t.Errorf("expected password hash from the database, got %+v", u.Password)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected redis calls: %v", err)
	}
}

// TestCachingUserRepository_FindIdentity_NotFound は未存在ユーザーをキャッシュしないことを検証します。
func TestCachingUserRepository_FindIdentity_NotFound(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("users:id:9").RedisNil()

	repo := NewCachingUserRepository(rdb, 5*time.Minute, &mockUserRepository{}, "users")

	_, err := repo.FindIdentity(context.Background(), 9)
	if !errors.Is(err, usecase.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUserRepository_FindIdentity_CorruptedCache は破損したキャッシュを削除してDBにフォールバックすることを検証します。
func TestCachingUserRepository_FindIdentity_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON := cachedIdentityJSON(t)
	mock.ExpectGet("users:id:7").SetVal("invalid json")
	mock.ExpectDel("users:id:7").SetVal(1)
	mock.ExpectSet("users:id:7", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.User, error) { return testUser(), nil },
	}
	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")

	if _, err := repo.FindIdentity(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUserRepository_FindIdentity_RedisDown はRedis障害時でもDBから取得できることを検証します。
func TestCachingUserRepository_FindIdentity_RedisDown(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON := cachedIdentityJSON(t)
	mock.ExpectGet("users:id:7").SetErr(errors.New("connection refused"))
	mock.ExpectSet("users:id:7", expectedJSON, 5*time.Minute).SetErr(errors.New("connection refused"))

	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.User, error) { return testUser(), nil },
	}
	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")

	u, err := repo.FindIdentity(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != 7 {
		t.Errorf("expected user 7, got %d", u.ID)
	}
}

// TestCachingUserRepository_Update_Invalidates は更新後にキャッシュが削除されることを検証します。
func TestCachingUserRepository_Update_Invalidates(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectDel("users:id:7").SetVal(1)

	inner := &mockUserRepository{}
	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")

	if err := repo.Update(context.Background(), testUser()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls["Update"] != 1 {
		t.Error("expected inner Update to be called")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingUserRepository_Update_InnerError は更新失敗時にキャッシュを触らずエラーを返すことを検証します。
func TestCachingUserRepository_Update_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("update error")
	inner := &mockUserRepository{
		updateFn: func(ctx context.Context, u *entity.User) error { return expectedErr },
	}
	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")

	err := repo.Update(context.Background(), testUser())

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected redis calls: %v", err)
	}
}

// TestCachingUserRepository_PassThrough はID以外の検索がキャッシュを経由しないことを検証します。
func TestCachingUserRepository_PassThrough(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockUserRepository{}
	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")
	ctx := context.Background()

	_ = repo.Create(ctx, testUser())
	_, _ = repo.FindByEmail(ctx, "ada@example.com")
	_, _ = repo.FindByProviderID(ctx, entity.ProviderGoogle, "g-1")
	_, _ = repo.FindByResetToken(ctx, "digest", time.Now())
	_, _ = repo.List(ctx, 0, 10)

	for _, name := range []string{"Create", "FindByEmail", "FindByProviderID", "FindByResetToken", "List"} {
		if inner.calls[name] != 1 {
			t.Errorf("expected %s to be delegated once, got %d", name, inner.calls[name])
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected redis calls: %v", err)
	}
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"users", "users"},
		{"a b", "a_b"},
		{"key:value", "key_value"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := safe(tt.input); got != tt.expected {
				t.Errorf("safe(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
