package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"pipedeck/internal/config"
	"pipedeck/internal/prefs"
)

const (
	storeTimeout = 5 * time.Second
	probeKey     = "preflight_probe"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckStore opens the configured backend and round-trips a probe key.
func CheckStore(ctx context.Context, cfg *config.Config) Result {
	name := "Catalog store (" + cfg.Store.Backend + ")"

	checkCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	kv, err := prefs.Open(checkCtx, cfg, nil)
	if err != nil {
		return Result{Name: name, Detail: summarizeStoreError(err)}
	}
	defer kv.Close()

	stamp := time.Now().UTC().Format(time.RFC3339Nano)
	if err := kv.Put(checkCtx, probeKey, stamp); err != nil {
		return Result{Name: name, Detail: "write failed: " + summarizeStoreError(err)}
	}
	got, ok, err := kv.Get(checkCtx, probeKey)
	if err != nil || !ok || got != stamp {
		return Result{Name: name, Detail: "probe value did not read back"}
	}
	if err := kv.Delete(checkCtx, probeKey); err != nil {
		return Result{Name: name, Detail: "cleanup failed: " + summarizeStoreError(err)}
	}
	return Result{Name: name, Passed: true, Detail: storeLocation(cfg) + " (read/write ok)"}
}

// CheckBind reports whether the API address can be bound right now. A busy
// address usually means `pipedeck serve` is already running, so the result
// is advisory.
func CheckBind(bind string) Result {
	const name = "API address"
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return Result{Name: name, Advisory: true, Detail: "not configured"}
	}
	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return Result{Name: name, Advisory: true, Detail: fmt.Sprintf("%s (in use or not permitted: %v)", bind, err)}
	}
	_ = ln.Close()
	return Result{Name: name, Passed: true, Advisory: true, Detail: bind + " (available)"}
}

func storeLocation(cfg *config.Config) string {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		return cfg.Store.RedisAddr
	case config.StoreBackendMemory:
		return "in-process"
	default:
		return cfg.Store.SQLitePath
	}
}

func summarizeStoreError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out (backend unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out (backend unreachable)"
	}
	return err.Error()
}
