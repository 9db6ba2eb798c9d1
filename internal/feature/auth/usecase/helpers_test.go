package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"ecommerce_backend/internal/feature/auth/domain/entity"
)

// memoryUserRepository is a stateful UserRepository fake with unique email and provider ids.
type memoryUserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]entity.User
	// creates counts successful Create calls.
	creates int
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{nextID: 1, users: map[uint]entity.User{}}
}

func sameString(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

func (r *memoryUserRepository) conflicts(u *entity.User) bool {
	for id, existing := range r.users {
		if id == u.ID {
			continue
		}
		if sameString(existing.Email, u.Email) || sameString(existing.GoogleID, u.GoogleID) ||
			sameString(existing.FacebookID, u.FacebookID) {
			return true
		}
	}
	return false
}

func (r *memoryUserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u == nil {
		return errors.New("nil user")
	}
	if r.conflicts(u) {
		return ErrEmailAlreadyExists
	}
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = *u
	r.creates++
	return nil
}

func (r *memoryUserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	if r.conflicts(u) {
		return ErrEmailAlreadyExists
	}
	u.UpdatedAt = time.Now()
	r.users[u.ID] = *u
	return nil
}

func (r *memoryUserRepository) find(match func(u entity.User) bool) (*entity.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			found := u
			return &found, true
		}
	}
	return nil, false
}

func (r *memoryUserRepository) FindByID(_ context.Context, id uint) (*entity.User, error) {
	if u, ok := r.find(func(u entity.User) bool { return u.ID == id }); ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := r.find(func(u entity.User) bool { return u.Email != nil && *u.Email == email }); ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *memoryUserRepository) FindByProviderID(_ context.Context, provider entity.Provider, externalID string) (*entity.User, error) {
	u, ok := r.find(func(u entity.User) bool {
		switch provider {
		case entity.ProviderGoogle:
			return u.GoogleID != nil && *u.GoogleID == externalID
		case entity.ProviderFacebook:
			return u.FacebookID != nil && *u.FacebookID == externalID
		}
		return false
	})
	if ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *memoryUserRepository) FindByResetToken(_ context.Context, digest string, now time.Time) (*entity.User, error) {
	u, ok := r.find(func(u entity.User) bool {
		return u.ResetPasswordToken != nil && *u.ResetPasswordToken == digest && u.ResetPending(now)
	})
	if ok {
		return u, nil
	}
	return nil, ErrInvalidResetToken
}

func (r *memoryUserRepository) List(_ context.Context, offset, limit int) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	out := []entity.User{}
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, r.users[uint(ids[i])])
	}
	return out, nil
}

func (r *memoryUserRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// mockUserRepository wraps memoryUserRepository and lets a test replace single methods.
type mockUserRepository struct {
	*memoryUserRepository
	CreateFunc      func(ctx context.Context, user *entity.User) error
	UpdateFunc      func(ctx context.Context, user *entity.User) error
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return m.memoryUserRepository.Create(ctx, user)
}

func (m *mockUserRepository) Update(ctx context.Context, user *entity.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return m.memoryUserRepository.Update(ctx, user)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return m.memoryUserRepository.FindByEmail(ctx, email)
}

// mockJWTGenerator is a mock implementation of JWTGenerator interface.
type mockJWTGenerator struct {
	// GenerateTokenFunc is called when the GenerateToken method is invoked.
	GenerateTokenFunc func(userID uint) (string, error)
}

// GenerateToken is the mock implementation of the GenerateToken method.
func (m *mockJWTGenerator) GenerateToken(userID uint) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID)
	}
	return fmt.Sprintf("mock-jwt-token-%d", userID), nil
}

// recordingNotifier records sent notifications and optionally fails.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, msg Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

func (n *recordingNotifier) last() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return Notification{}
	}
	return n.sent[len(n.sent)-1]
}

// mockSubscriber is a mock implementation of Subscriber.
type mockSubscriber struct {
	SubscribeFunc func(ctx context.Context, email string) (string, error)
	calls         int
}

func (m *mockSubscriber) Subscribe(ctx context.Context, email string) (string, error) {
	m.calls++
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, email)
	}
	return SubscriptionSubscribed, nil
}
