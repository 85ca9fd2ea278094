package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizeEngine()
	c.normalizeLogging()
	c.normalizeLimits()
	return nil
}

func (c *Config) applyEnv() {
	if value, ok := lookupEnv("PIPEDECK_STATE_DIR"); ok {
		c.Paths.StateDir = value
	}
	if value, ok := lookupEnv("PIPEDECK_LOG_LEVEL"); ok {
		c.Logging.Level = value
	}
	if value, ok := lookupEnv("PIPEDECK_STORE_BACKEND"); ok {
		c.Store.Backend = value
	}
	if value, ok := lookupEnv("PIPEDECK_REDIS_ADDR"); ok {
		c.Store.RedisAddr = value
	}
	if value, ok := lookupEnv("PIPEDECK_GST_LAUNCH"); ok {
		c.Engine.GstLaunch = value
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.StateDir, defaultLogDirName)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.BackupDir) == "" {
		c.Paths.BackupDir = filepath.Join(c.Paths.StateDir, defaultBackupDirName)
	}
	if c.Paths.BackupDir, err = expandPath(c.Paths.BackupDir); err != nil {
		return fmt.Errorf("paths.backup_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStore() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = defaultStoreBackend
	}
	if strings.TrimSpace(c.Store.SQLitePath) == "" {
		c.Store.SQLitePath = filepath.Join(c.Paths.StateDir, defaultPrefsFileName)
	}
	var err error
	if c.Store.SQLitePath, err = expandPath(c.Store.SQLitePath); err != nil {
		return fmt.Errorf("store.sqlite_path: %w", err)
	}
	c.Store.RedisAddr = strings.TrimSpace(c.Store.RedisAddr)
	if c.Store.RedisAddr == "" {
		c.Store.RedisAddr = defaultRedisAddr
	}
	if c.Store.KeyPrefix == "" {
		c.Store.KeyPrefix = defaultKeyPrefix
	}
	return nil
}

func (c *Config) normalizeEngine() {
	c.Engine.GstLaunch = strings.TrimSpace(c.Engine.GstLaunch)
	if c.Engine.GstLaunch == "" {
		c.Engine.GstLaunch = defaultGstLaunch
	}
	c.Engine.GstInspect = strings.TrimSpace(c.Engine.GstInspect)
	if c.Engine.GstInspect == "" {
		c.Engine.GstInspect = defaultGstInspect
	}
	c.Engine.DefaultPipeline = strings.TrimSpace(c.Engine.DefaultPipeline)
	if c.Engine.DefaultPipeline == "" {
		c.Engine.DefaultPipeline = defaultPipeline
	}
	if c.Engine.TeardownTimeout <= 0 {
		c.Engine.TeardownTimeout = defaultTeardownTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeLimits() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.Import.RecentTokens == 0 {
		c.Import.RecentTokens = defaultRecentTokens
	}
	if c.Surface.DefaultWidth == 0 {
		c.Surface.DefaultWidth = defaultSurfaceWidth
	}
	if c.Surface.DefaultHeight == 0 {
		c.Surface.DefaultHeight = defaultSurfaceHeight
	}
}
