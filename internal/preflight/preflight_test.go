package preflight

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"pipedeck/internal/config"
	"pipedeck/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckStoreSQLite(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSQLite())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	result := CheckStore(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected sqlite store to pass, got: %s", result.Detail)
	}
}

func TestCheckStoreUnsupportedBackend(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Store.Backend = "etcd"
	result := CheckStore(context.Background(), cfg)
	if result.Passed {
		t.Fatal("expected unsupported backend to fail")
	}
}

func TestCheckBindInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	result := CheckBind(ln.Addr().String())
	if result.Passed || !result.Advisory {
		t.Fatalf("expected advisory failure for busy address, got %+v", result)
	}
	if result := CheckBind("127.0.0.1:0"); !result.Passed {
		t.Fatalf("expected free address to pass, got %+v", result)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBackups(false))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	results := RunAll(context.Background(), cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 checks with backups enabled, got %d", len(results))
	}
	if Failed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}

	cfg.Backup.Enabled = false
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "missing")
	results = RunAll(context.Background(), cfg)
	if len(results) != 4 || !Failed(results) {
		t.Fatalf("expected a failing log dir check, got %+v", results)
	}
	if RunAll(context.Background(), (*config.Config)(nil)) != nil {
		t.Fatal("expected nil results for nil config")
	}
}
