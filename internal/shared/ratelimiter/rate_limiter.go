package ratelimiter

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrLimited は制限回数を超えた場合に返されます。
var ErrLimited = errors.New("rate limit exceeded")

// Limiter は、キーごとに一定時間内の試行回数を制限するインターフェースです。
type Limiter interface {
	// Allow はキーの試行を1回数え、上限を超えていれば ErrLimited を返します。
	Allow(ctx context.Context, key string) error
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter は、キーごとのトークンバケットで試行回数を制限するメモリ実装です。
// interval あたり limit 回まで連続で許可し、その後は interval/limit ごとに1回ずつ回復します。
// 単一プロセス用で、複数インスタンス間では共有されません。
type RateLimiter struct {
	mu       sync.Mutex
	limit    int           // バースト上限
	interval time.Duration // limit 回分が全回復するまでの時間
	visitors map[string]*visitor
	now      func() time.Time
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		visitors: map[string]*visitor{},
		now:      time.Now,
	}
}

// Allow はキーの試行を数え、上限に達していれば ErrLimited を返します。
func (rl *RateLimiter) Allow(_ context.Context, key string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[key]
	if !ok {
		rl.sweep(now)
		v = &visitor{limiter: rate.NewLimiter(rate.Every(rl.interval/time.Duration(rl.limit)), rl.limit)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	if !v.limiter.AllowN(now, 1) {
		return ErrLimited
	}
	return nil
}

// sweep は interval 以上アクセスのない（=全回復済みの）キーを削除します。
// 呼び出し側でロックを保持していること。
func (rl *RateLimiter) sweep(now time.Time) {
	for k, v := range rl.visitors {
		if now.Sub(v.lastSeen) >= rl.interval {
			delete(rl.visitors, k)
		}
	}
}
