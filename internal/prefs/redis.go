package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"pipedeck/internal/logging"
)

const redisPingTimeout = 5 * time.Second

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr      string
	DB        int
	Password  string
	KeyPrefix string
}

// Redis is a Store backed by plain Redis string keys.
type Redis struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to Redis and verifies the connection with a ping.
func OpenRedis(ctx context.Context, opts RedisOptions, logger *slog.Logger) (*Redis, error) {
	ctx = ensureContext(ctx)
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, errors.New("prefs: redis address required")
	}
	logger = logging.NewComponentLogger(logger, "prefs")

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis unavailable at %s: %w", addr, err)
	}
	logger.Debug("redis prefs connected", logging.String("addr", addr), logging.Int("db", opts.DB))

	return NewRedis(client, opts.KeyPrefix), nil
}

// NewRedis wraps an existing client. Keys are stored as prefix+key.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ensureContext(ctx), r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read pref %q: %w", key, err)
	}
	return value, true, nil
}

func (r *Redis) Put(ctx context.Context, key, value string) error {
	if err := r.client.Set(ensureContext(ctx), r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("write pref %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ensureContext(ctx), r.key(key)).Err(); err != nil {
		return fmt.Errorf("delete pref %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
