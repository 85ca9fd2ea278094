package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pipedeck/internal/config"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("prefs store closed")

// Store is a durable key-value store with atomic single-key replacement.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Put replaces the value for key in one atomic step.
	Put(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the backend selected by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	if cfg == nil {
		return nil, errors.New("prefs: config required")
	}
	switch cfg.Store.Backend {
	case config.StoreBackendSQLite, "":
		return OpenSQLite(ctx, cfg.Store.SQLitePath)
	case config.StoreBackendRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:      cfg.Store.RedisAddr,
			DB:        cfg.Store.RedisDB,
			Password:  cfg.Store.RedisPassword,
			KeyPrefix: cfg.Store.KeyPrefix,
		}, logger)
	case config.StoreBackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("prefs: unsupported backend %q", cfg.Store.Backend)
	}
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
