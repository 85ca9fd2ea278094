package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"pipedeck/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Store backends understood by the prefs package.
const (
	StoreBackendSQLite = "sqlite"
	StoreBackendRedis  = "redis"
	StoreBackendMemory = "memory"
)

// Paths contains directory configuration.
type Paths struct {
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
	BackupDir string `toml:"backup_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Store selects and configures the key-value backend holding the catalog.
type Store struct {
	Backend       string `toml:"backend"`
	SQLitePath    string `toml:"sqlite_path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisDB       int    `toml:"redis_db"`
	RedisPassword string `toml:"redis_password"`
	KeyPrefix     string `toml:"key_prefix"`
}

// Backup controls the per-entry interchange mirror.
type Backup struct {
	Enabled bool `toml:"enabled"`
	// Prune removes .gstpipe files that no longer map to a catalog entry.
	Prune bool `toml:"prune"`
}

// Engine configures the external pipeline runner.
type Engine struct {
	GstLaunch       string `toml:"gst_launch"`
	GstInspect      string `toml:"gst_inspect"`
	DefaultPipeline string `toml:"default_pipeline"`
	TeardownTimeout int    `toml:"teardown_timeout"`
}

// API configures the HTTP service.
type API struct {
	Bind string `toml:"bind"`
}

// Import configures the duplicate-import guard.
type Import struct {
	RecentTokens int `toml:"recent_tokens"`
}

// Surface holds the media size assumed when none is reported.
type Surface struct {
	DefaultWidth  int `toml:"default_width"`
	DefaultHeight int `toml:"default_height"`
}

// Config is the whole pipedeck.toml document. Every section is optional;
// missing values fall back to Default.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
	Store   Store   `toml:"store"`
	Backup  Backup  `toml:"backup"`
	Engine  Engine  `toml:"engine"`
	API     API     `toml:"api"`
	Import  Import  `toml:"import"`
	Surface Surface `toml:"surface"`
}

// DefaultConfigPath is ~/.config/pipedeck/config.toml, expanded.
func DefaultConfigPath() (string, error) {
	return expandPath(filepath.Join(defaultUserConfigFolder, defaultConfigFileName))
}

// Load reads the config at path, or the first existing default location
// when path is empty. A .env file beside the config is applied to the
// environment first so PIPEDECK_* overrides can live next to it. It returns
// the config, the resolved path, and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := locateConfig(path)
	if err != nil {
		return nil, "", false, err
	}
	if err := loadEnvFile(filepath.Join(filepath.Dir(resolved), defaultEnvFileName)); err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return fmt.Errorf("parse config %s:%d:%d: %w", path, row, col, err)
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// loadEnvFile applies KEY=value pairs without overriding variables that
// are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if !isFile(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// locateConfig resolves an explicit path as given. Without one it prefers
// the user config, then pipedeck.toml in the working directory, and falls
// back to the user location when neither exists.
func locateConfig(explicit string) (string, bool, error) {
	if explicit != "" {
		expanded, err := expandPath(explicit)
		if err != nil {
			return "", false, err
		}
		switch _, err := os.Stat(expanded); {
		case err == nil:
			return expanded, true, nil
		case errors.Is(err, fs.ErrNotExist):
			return expanded, false, nil
		default:
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}

	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(defaultProjectConfig)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		if isFile(candidate) {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureDirectories creates every directory the configured features write
// into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range c.directories() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) directories() []string {
	candidates := []string{c.Paths.StateDir, c.Paths.LogDir}
	if c.Backup.Enabled {
		candidates = append(candidates, c.Paths.BackupDir)
	}
	if c.Store.Backend == StoreBackendSQLite && c.Store.SQLitePath != "" {
		candidates = append(candidates, filepath.Dir(c.Store.SQLitePath))
	}
	dirs := candidates[:0]
	for _, dir := range candidates {
		if strings.TrimSpace(dir) != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// LogFilePath is the file the logger appends to.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, defaultLogFileName)
}

// PlayerLockPath is the flock file guarding the single running pipeline.
func (c *Config) PlayerLockPath() string {
	return filepath.Join(c.Paths.StateDir, defaultPlayerLockName)
}

// ExpandPath resolves a leading ~ and makes the result absolute.
func ExpandPath(value string) (string, error) {
	return expandPath(value)
}

func expandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") || strings.HasPrefix(value, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, strings.TrimLeft(value[1:], `/\`))
	}
	abs, err := filepath.Abs(filepath.Clean(value))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}
	return abs, nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if err := fileutil.WriteFileAtomic(afero.NewOsFs(), path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
