// Package ratelimiter はキー（クライアントIPなど）ごとの固定ウィンドウ方式のレート制限を提供します。
package ratelimiter

import (
	"sync"
	"time"
)

// RateLimiterInterface は、ログイン試行などの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Allow(key string) bool
}

type window struct {
	count     int
	lastReset time.Time
}

// RateLimiterは、キーごとに一定期間内の操作回数を制限します。
// 複数のgoroutineから安全に利用できます。
type RateLimiter struct {
	limit    int           // interval あたりの上限
	interval time.Duration // どの単位でリセットするか
	now      func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		now:      time.Now,
		windows:  make(map[string]*window),
	}
}

// Allowはキーの操作が上限内であればカウントしてtrueを返します。
// 上限に達している場合はfalseを返し、待機はしません。
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	// interval を過ぎたらカウントリセット
	if !ok || now.Sub(w.lastReset) >= rl.interval {
		w = &window{lastReset: now}
		rl.windows[key] = w
		rl.evict(now)
	}

	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// evictは期限切れのウィンドウを削除します。
func (rl *RateLimiter) evict(now time.Time) {
	for k, w := range rl.windows {
		if now.Sub(w.lastReset) >= rl.interval {
			delete(rl.windows, k)
		}
	}
}
