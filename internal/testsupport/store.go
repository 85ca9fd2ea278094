package testsupport

import (
	"context"
	"testing"
	"time"

	"pipedeck/internal/catalog"
	"pipedeck/internal/config"
	"pipedeck/internal/prefs"
)

// MustOpenCatalog opens the configured prefs backend, wraps it in a
// catalog.Store, and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config, opts ...catalog.Option) *catalog.Store {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	kv, err := prefs.Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("prefs.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = kv.Close()
	})
	return catalog.NewStore(kv, opts...)
}

// NewEntry adds a pipeline to store for tests.
func NewEntry(t testing.TB, store *catalog.Store, name, text string) catalog.Entry {
	t.Helper()

	e, err := catalog.NewEntry(name, text, time.Now())
	if err != nil {
		t.Fatalf("catalog.NewEntry: %v", err)
	}
	added, err := store.Add(context.Background(), e)
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return added
}
