package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/decisionloom/decisionloom/internal/config"
)

const rateLimitPrefix = "ratelimit:"

// Bucket names one rate-limited operation class. Each bucket has its own
// per-minute budget.
type Bucket string

const (
	BucketSuggest   Bucket = "suggest"
	BucketSummarize Bucket = "summarize"
	BucketGenerate  Bucket = "generate"
	BucketRefine    Bucket = "refine"
)

// Result reports the outcome of a rate limit check
type Result struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// RateLimiter enforces fixed-window per-minute budgets keyed by bucket
// and caller identity. A nil client disables limiting entirely so the
// service runs without Redis in development.
type RateLimiter struct {
	client *Client
	limits map[Bucket]int
}

// NewRateLimiter creates a rate limiter with per-bucket budgets from config.
// Pass a nil client to get a limiter that allows everything.
func NewRateLimiter(client *Client, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		client: client,
		limits: map[Bucket]int{
			BucketSuggest:   cfg.SuggestPerMinute,
			BucketSummarize: cfg.SummarizePerMinute,
			BucketGenerate:  cfg.GeneratePerMinute,
			BucketRefine:    cfg.RefinePerMinute,
		},
	}
}

// Allow counts one request against the bucket's window for the given
// identifier and reports whether it fits the budget.
func (r *RateLimiter) Allow(ctx context.Context, bucket Bucket, identifier string) (Result, error) {
	limit, ok := r.limits[bucket]
	if r.client == nil || !ok || limit <= 0 {
		return Result{Allowed: true, Remaining: limit}, nil
	}

	now := time.Now()
	windowEnd := now.Truncate(time.Minute).Add(time.Minute)
	key := fmt.Sprintf("%s%s:%s", rateLimitPrefix, bucket, identifier)

	pipe := r.client.rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, time.Minute)

	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return Result{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	count := incrCmd.Val()
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= int64(limit),
		Remaining: remaining,
		Reset:     windowEnd,
	}, nil
}

// Reset clears the current window for a bucket and identifier
func (r *RateLimiter) Reset(ctx context.Context, bucket Bucket, identifier string) error {
	if r.client == nil {
		return nil
	}
	key := fmt.Sprintf("%s%s:%s", rateLimitPrefix, bucket, identifier)
	return r.client.rdb.Del(ctx, key).Err()
}
