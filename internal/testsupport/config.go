package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"pipedeck/internal/config"
)

// ConfigOption adjusts the configuration built by NewConfig.
type ConfigOption func(t testing.TB, cfg *config.Config)

// NewConfig returns defaults rooted in a fresh temp directory: state, logs,
// and backups live side by side, the catalog is in memory, and the API binds
// an ephemeral loopback port.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.BackupDir = filepath.Join(base, "backups")
	cfg.Store.Backend = config.StoreBackendMemory
	cfg.Store.SQLitePath = filepath.Join(cfg.Paths.StateDir, "prefs.db")
	cfg.API.Bind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(t, &cfg)
	}
	return &cfg
}

// BaseDir is the temp directory NewConfig rooted cfg in.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// WithSQLite moves the catalog to a SQLite file under the state dir.
func WithSQLite() ConfigOption {
	return func(_ testing.TB, cfg *config.Config) {
		cfg.Store.Backend = config.StoreBackendSQLite
	}
}

// WithBackups turns on the interchange mirror.
func WithBackups(prune bool) ConfigOption {
	return func(_ testing.TB, cfg *config.Config) {
		cfg.Backup.Enabled = true
		cfg.Backup.Prune = prune
	}
}

// WithStubbedBinaries puts exit-0 scripts for names (the GStreamer tools by
// default) first on PATH for the rest of the test.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(t testing.TB, cfg *config.Config) {
		t.Helper()
		if len(names) == 0 {
			names = []string{"gst-launch-1.0", "gst-inspect-1.0"}
		}
		for _, name := range names {
			StubBinary(t, cfg, name, "exit 0")
		}
		t.Setenv("PATH", stubDir(cfg)+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// StubBinary writes (or replaces) a shell script named name in the stub
// directory of cfg and returns its path.
func StubBinary(t testing.TB, cfg *config.Config, name, body string) string {
	t.Helper()
	dir := stubDir(cfg)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir stub dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

func stubDir(cfg *config.Config) string {
	return filepath.Join(BaseDir(cfg), "bin")
}
