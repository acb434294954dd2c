package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"revenue-server/internal/config"
	"revenue-server/internal/observability"

	"github.com/redis/go-redis/v9"
)

var ErrNotInitialized = errors.New("redis client not initialized")

// Client wraps the Redis client with observability
type Client struct {
	client *redis.Client
	logger *observability.Logger
}

// NewClient creates a new Redis client. A disabled config yields a nil client,
// which every method treats as unavailable.
func NewClient(cfg config.RedisConfig, logger *observability.Logger) (*Client, error) {
	if !cfg.Enabled {
		logger.Info(context.Background(), "Redis is disabled, skipping client initialization")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "host", Value: cfg.Host},
		observability.Field{Key: "port", Value: cfg.Port},
		observability.Field{Key: "db", Value: cfg.DB},
	)
	logger.Info(ctx, "successfully connected to Redis")

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if !c.IsEnabled() {
		return nil
	}
	return c.client.Close()
}

// IsEnabled returns whether Redis is enabled
func (c *Client) IsEnabled() bool {
	return c != nil && c.client != nil
}

// WindowCount is the state of a sliding window after a hit
type WindowCount struct {
	Count    int64
	OldestAt time.Time
}

// HitWindow records member in the sorted set at key, drops entries older than
// window and returns how many remain. The key expires after two windows of
// inactivity.
func (c *Client) HitWindow(ctx context.Context, key, member string, now time.Time, window time.Duration) (WindowCount, error) {
	if !c.IsEnabled() {
		return WindowCount{}, ErrNotInitialized
	}

	nowMs := now.UnixMilli()
	var card *redis.IntCmd
	var oldest *redis.ZSliceCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now.Add(-window).UnixMilli()))
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(nowMs), Member: member})
		card = pipe.ZCard(ctx, key)
		oldest = pipe.ZRangeWithScores(ctx, key, 0, 0)
		pipe.Expire(ctx, key, 2*window)
		return nil
	})
	if err != nil {
		return WindowCount{}, fmt.Errorf("failed to update window %s: %w", key, err)
	}

	result := WindowCount{Count: card.Val(), OldestAt: now}
	if entries := oldest.Val(); len(entries) > 0 {
		result.OldestAt = time.UnixMilli(int64(entries[0].Score))
	}
	return result, nil
}

// ForgetHit removes a member recorded by HitWindow, used when the hit was rejected
func (c *Client) ForgetHit(ctx context.Context, key, member string) error {
	if !c.IsEnabled() {
		return ErrNotInitialized
	}
	return c.client.ZRem(ctx, key, member).Err()
}
