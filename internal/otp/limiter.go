package otp

import (
	"context"
	"fmt"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// SendLimiter caps OTP sends per phone with a redis counter. If redis is
// unreachable the limiter degrades open: verification must not go down
// with the cache.
type SendLimiter struct {
	rdb    *rd.Client
	limit  int
	window time.Duration
}

func NewSendLimiter(rdb *rd.Client, limit int, window time.Duration) *SendLimiter {
	if limit <= 0 {
		limit = 3
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &SendLimiter{rdb: rdb, limit: limit, window: window}
}

func (l *SendLimiter) Allow(ctx context.Context, phoneE164 string) bool {
	if l == nil || l.rdb == nil {
		return true
	}

	key := fmt.Sprintf("otp:send:%s", phoneE164)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true
	}
	return incr.Val() <= int64(l.limit)
}
