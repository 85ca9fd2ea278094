package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case StoreBackendSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			return errors.New("store.sqlite_path must be set when store.backend is sqlite")
		}
	case StoreBackendRedis:
		if c.Store.RedisAddr == "" {
			return errors.New("store.redis_addr must be set when store.backend is redis")
		}
		if c.Store.RedisDB < 0 {
			return errors.New("store.redis_db must be non-negative")
		}
	case StoreBackendMemory:
	default:
		return fmt.Errorf("store.backend must be one of sqlite, redis, memory (got %q)", c.Store.Backend)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.GstLaunch == "" {
		return errors.New("engine.gst_launch must be set")
	}
	if c.Engine.TeardownTimeout <= 0 {
		return errors.New("engine.teardown_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLimits() error {
	if c.Import.RecentTokens < 0 {
		return errors.New("import.recent_tokens must be non-negative")
	}
	if c.Surface.DefaultWidth <= 0 || c.Surface.DefaultHeight <= 0 {
		return errors.New("surface.default_width and surface.default_height must be positive")
	}
	return nil
}
