package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxLoginAttempts   = 7
	loginAttemptWindow = 30 * time.Minute
)

// LoginLimiter tracks failed login attempts per client IP. TooManyFailures
// reports whether the IP is currently locked out.
type LoginLimiter interface {
	RecordFailure(ctx context.Context, ip string) error
	TooManyFailures(ctx context.Context, ip string) (bool, error)
	Reset(ctx context.Context, ip string) error
}

type redisLoginLimiter struct {
	client redis.UniversalClient
}

func NewRedisLoginLimiter(client redis.UniversalClient) LoginLimiter {
	return &redisLoginLimiter{client: client}
}

func loginAttemptsKey(ip string) string {
	return fmt.Sprintf("login_attempts:%s", ip)
}

func (l *redisLoginLimiter) RecordFailure(ctx context.Context, ip string) error {
	key := loginAttemptsKey(ip)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}

	// The window starts at the first failure; later failures don't extend it.
	if count == 1 {
		return l.client.Expire(ctx, key, loginAttemptWindow).Err()
	}

	return nil
}

func (l *redisLoginLimiter) TooManyFailures(ctx context.Context, ip string) (bool, error) {
	count, err := l.client.Get(ctx, loginAttemptsKey(ip)).Int()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}

		return false, err
	}

	return count >= maxLoginAttempts, nil
}

func (l *redisLoginLimiter) Reset(ctx context.Context, ip string) error {
	return l.client.Del(ctx, loginAttemptsKey(ip)).Err()
}
