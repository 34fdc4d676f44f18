package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 5
	defaultWindow      = 15 * time.Minute
	defaultBlockFor    = 15 * time.Minute
)

// counterStore is the subset of *redis.Client used by LoginLimiter.
type counterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	PTTL(ctx context.Context, key string) *redis.DurationCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LimiterConfig tunes the failed-login window and lockout.
type LimiterConfig struct {
	MaxFailures int
	Window      time.Duration
	BlockFor    time.Duration
}

// LoginLimiter counts failed logins per (username, client IP) inside a fixed
// window and blocks the pair for BlockFor once MaxFailures is reached.
//
// Key format:
//
//	login:fail:<username>:<sha256(ip)>   failure counter, expires after Window
//	login:block:<username>:<sha256(ip)>  lockout flag, expires after BlockFor
type LoginLimiter struct {
	store counterStore
	cfg   LimiterConfig
}

// NewLoginLimiter wraps client. Zero config values fall back to defaults.
func NewLoginLimiter(client *redis.Client, cfg LimiterConfig) *LoginLimiter {
	return newLoginLimiter(client, cfg)
}

func newLoginLimiter(store counterStore, cfg LimiterConfig) *LoginLimiter {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = defaultMaxFailures
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultWindow
	}
	if cfg.BlockFor <= 0 {
		cfg.BlockFor = defaultBlockFor
	}
	return &LoginLimiter{store: store, cfg: cfg}
}

// HashIP returns a stable hex digest so raw client addresses are never stored.
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// Allow reports whether a login attempt may proceed and, if not, how long
// the caller should wait.
func (l *LoginLimiter) Allow(ctx context.Context, username, clientIP string) (bool, time.Duration, error) {
	ttl, err := l.store.PTTL(ctx, l.blockKey(username, clientIP)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("limiter allow: %w", err)
	}
	// PTTL returns a negative duration when the key is missing.
	if ttl > 0 {
		return false, ttl, nil
	}
	return true, 0, nil
}

// Failure records a failed attempt and places a block once the threshold is hit.
func (l *LoginLimiter) Failure(ctx context.Context, username, clientIP string) (bool, time.Duration, error) {
	key := l.failKey(username, clientIP)
	fails, err := l.store.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("limiter failure: %w", err)
	}
	if fails == 1 {
		if err := l.store.Expire(ctx, key, l.cfg.Window).Err(); err != nil {
			return false, 0, fmt.Errorf("limiter window: %w", err)
		}
	}
	if fails < int64(l.cfg.MaxFailures) {
		return false, 0, nil
	}

	if err := l.store.Set(ctx, l.blockKey(username, clientIP), "1", l.cfg.BlockFor).Err(); err != nil {
		return false, 0, fmt.Errorf("limiter block: %w", err)
	}
	if err := l.store.Del(ctx, key).Err(); err != nil {
		return false, 0, fmt.Errorf("limiter reset: %w", err)
	}
	return true, l.cfg.BlockFor, nil
}

// Success clears the failure counter for the pair.
func (l *LoginLimiter) Success(ctx context.Context, username, clientIP string) error {
	if err := l.store.Del(ctx, l.failKey(username, clientIP)).Err(); err != nil {
		return fmt.Errorf("limiter success: %w", err)
	}
	return nil
}

func (l *LoginLimiter) failKey(username, clientIP string) string {
	return fmt.Sprintf("login:fail:%s:%s", strings.ToLower(username), HashIP(clientIP))
}

func (l *LoginLimiter) blockKey(username, clientIP string) string {
	return fmt.Sprintf("login:block:%s:%s", strings.ToLower(username), HashIP(clientIP))
}
