package infrastructure

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ChatRateLimiter enforces Telegram's per-chat send cap (about one message
// per second per chat) with an independent token bucket per chat id. Idle
// buckets are dropped periodically so long-running bots do not accumulate
// state for every chat ever seen.
type ChatRateLimiter struct {
	mu      sync.Mutex
	chats   map[int64]*chatBucket
	rate    rate.Limit
	burst   int
	maxIdle time.Duration
}

type chatBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewChatRateLimiter(r rate.Limit, burst int) *ChatRateLimiter {
	rl := &ChatRateLimiter{
		chats:   make(map[int64]*chatBucket),
		rate:    r,
		burst:   burst,
		maxIdle: 10 * time.Minute,
	}
	go rl.cleanup(5 * time.Minute)
	return rl
}

// Wait blocks until the chat's bucket has a token or the context is
// cancelled.
func (rl *ChatRateLimiter) Wait(ctx context.Context, chatID int64) error {
	return rl.limiterFor(chatID).Wait(ctx)
}

func (rl *ChatRateLimiter) limiterFor(chatID int64) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	bucket, ok := rl.chats[chatID]
	if !ok {
		bucket = &chatBucket{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.chats[chatID] = bucket
	}
	bucket.lastSeen = time.Now()
	return bucket.limiter
}

// ActiveChats reports how many chats currently hold a bucket.
func (rl *ChatRateLimiter) ActiveChats() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.chats)
}

func (rl *ChatRateLimiter) cleanup(tick time.Duration) {
	ticker := time.NewTicker(tick)
	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for chatID, bucket := range rl.chats {
			if now.Sub(bucket.lastSeen) > rl.maxIdle {
				delete(rl.chats, chatID)
			}
		}
		rl.mu.Unlock()
	}
}
