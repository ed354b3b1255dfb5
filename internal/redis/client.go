package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gymflow/internal/auth"
	"gymflow/internal/session"

	"github.com/go-redis/redis/v8"
)

// Client stores sessions and failed-login counters in Redis.
type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func failureKey(key string) string {
	return "login_failures:" + key
}

// Session management
func (c *Client) Save(ctx context.Context, s *auth.Session, ttl time.Duration) error {
	jsonData, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}
	return c.rdb.Set(ctx, sessionKey(s.SessionID), jsonData, ttl).Err()
}

func (c *Client) Get(ctx context.Context, sessionID string) (*auth.Session, error) {
	val, err := c.rdb.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s auth.Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return &s, nil
}

func (c *Client) Delete(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, sessionKey(sessionID)).Err()
}

// Failed login tracking
func (c *Client) RecordFailure(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := failureKey(key)
	count, err := c.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to record login failure: %w", err)
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, k, window).Err(); err != nil {
			return count, fmt.Errorf("failed to set failure window: %w", err)
		}
	}
	return count, nil
}

func (c *Client) ResetFailures(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, failureKey(key)).Err()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

var _ session.Cache = (*Client)(nil)
