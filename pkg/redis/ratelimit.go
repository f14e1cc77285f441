package redis

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// FixedWindowAllow counts one hit for scope in the current window and
// reports whether the count is still within limit. Windows are aligned to
// the epoch, so every bucket key lives at most one window.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if c.store == nil {
		return false, 0, errNotReady
	}
	if window <= 0 {
		return false, 0, errors.New("rate limit window must be positive")
	}

	bucket := time.Now().UnixNano() / int64(window)
	key := c.RateLimitKey(scope) + ":" + strconv.FormatInt(bucket, 10)

	count, err := c.store.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := c.store.Expire(ctx, key, window).Err(); err != nil {
			return false, count, err
		}
	}
	return count <= limit, count, nil
}
