package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// ClientOptions configures the Redis client.
type ClientOptions struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewClient parses the Redis URL and builds a client. No connection is made.
func NewClient(opts ClientOptions) (*redis.Client, error) {
	opt, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	if opts.PoolSize > 0 {
		opt.PoolSize = opts.PoolSize
	}
	if opts.DialTimeout > 0 {
		opt.DialTimeout = opts.DialTimeout
	}
	if opts.ReadTimeout > 0 {
		opt.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		opt.WriteTimeout = opts.WriteTimeout
	}

	return redis.NewClient(opt), nil
}

// WaitForRedis pings Redis until it answers, at most maxAttempts times spaced by interval.
func WaitForRedis(
	ctx context.Context,
	client redis.UniversalClient,
	maxAttempts int,
	interval time.Duration,
	logger *slog.Logger,
) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := client.Ping(ctx).Err()
		if err != nil {
			logger.Warn("redis not reachable",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", maxAttempts),
				slog.Any("error", err),
			)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(maxAttempts-1)),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("redis unreachable after %d attempts: %w", attempt, err)
	}

	logger.Info("redis connection verified", slog.Int("attempts", attempt))
	return nil
}
