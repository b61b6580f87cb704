package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// CountInWindow increments the fixed-window counter for key and returns the
// new count. The window TTL is set when the counter is first created.
func (c *Client) CountInWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := c.rdb.Incr(ctx, "ratelimit:"+key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if err := c.rdb.Expire(ctx, "ratelimit:"+key, window).Err(); err != nil {
			return count, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
