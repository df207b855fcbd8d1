package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"clockify-button/internal/domain"
)

const (
	defaultTimeout = 5 * time.Second
	defaultTTL     = 2 * time.Minute
)

// releaseScript deletes the lock only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// renewScript extends the lock only while it still holds our token.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

// Config captures the settings for the Redis-backed guard.
type Config struct {
	Addr    string
	DB      int
	Key     string
	TTL     time.Duration
	Timeout time.Duration
}

// Redis serializes runs across processes sharing one Redis.
// Key format: clockify:button:<key>
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	log    *slog.Logger
}

// Connect initialises a Redis client and validates connectivity with a ping.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*Redis, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedis(client, cfg.Key, cfg.TTL, log), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, key string, ttl time.Duration, log *slog.Logger) *Redis {
	if key == "" {
		key = "default"
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{client: client, key: "clockify:button:" + key, ttl: ttl, log: log}
}

// WithKey returns a guard on another key sharing the same client.
func (r *Redis) WithKey(key string) *Redis {
	return NewRedis(r.client, key, r.ttl, r.log)
}

// Acquire takes the lock and keeps extending it every TTL/3 until release is
// called. The TTL only frees the lock when the holder dies.
func (r *Redis) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, r.key, token, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrBusy
	}

	renewCtx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go r.renew(renewCtx, token, done)

	var once sync.Once
	release := func() {
		once.Do(func() {
			stop()
			<-done
			// The run context may already be cancelled; releasing must still happen.
			ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
			defer cancel()
			if err := releaseScript.Run(ctx, r.client, []string{r.key}, token).Err(); err != nil {
				r.log.Warn("failed to release button lock", slog.String("key", r.key), slog.String("error", err.Error()))
			}
		})
	}
	return release, nil
}

func (r *Redis) renew(ctx context.Context, token string, done chan<- struct{}) {
	defer close(done)
	interval := r.ttl / 3
	if interval <= 0 {
		interval = r.ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		callCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
		n, err := renewScript.Run(callCtx, r.client, []string{r.key}, token, r.ttl.Milliseconds()).Int64()
		cancel()
		switch {
		case errors.Is(err, redis.ErrClosed):
			return
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			r.log.Warn("failed to extend button lock", slog.String("key", r.key), slog.String("error", err.Error()))
		case n == 0:
			r.log.Warn("button lock lost before release", slog.String("key", r.key))
			return
		}
	}
}

func (r *Redis) Close() error { return r.client.Close() }
