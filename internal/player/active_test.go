package player_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"pipedeck/internal/engine"
	"pipedeck/internal/player"
)

func TestPlayingTrustsMarkerOnlyUnderLock(t *testing.T) {
	_, store, entry, lockPath := setup(t, newStubEngine())
	ctx := context.Background()
	if err := store.SetActive(ctx, entry.ID); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	lock := flock.New(lockPath)
	if err := lock.Lock(); err != nil {
		t.Fatalf("lock: %v", err)
	}
	id, ok, err := player.Playing(ctx, store, lockPath)
	if err != nil || !ok || id != entry.ID {
		t.Fatalf("expected %s playing, got %q %v %v", entry.ID, id, ok, err)
	}
	if err := player.Delete(ctx, store, lockPath, entry.ID); !errors.Is(err, player.ErrPlaying) {
		t.Fatalf("expected ErrPlaying, got %v", err)
	}
	if err := lock.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	if _, ok, err := player.Playing(ctx, store, lockPath); err != nil || ok {
		t.Fatalf("expected stale marker ignored, ok=%v err=%v", ok, err)
	}
	if _, ok, _ := store.Active(ctx); ok {
		t.Fatal("expected stale marker cleared")
	}
	if err := player.Delete(ctx, store, lockPath, entry.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := store.Get(ctx, entry.ID); found {
		t.Fatal("entry should be deleted")
	}
}

func TestPlayingWithoutStateDir(t *testing.T) {
	_, store, entry, _ := setup(t, newStubEngine())
	ctx := context.Background()
	if err := store.SetActive(ctx, entry.ID); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	missing := filepath.Join(t.TempDir(), "absent", "player.lock")
	if _, ok, err := player.Playing(ctx, store, missing); err != nil || ok {
		t.Fatalf("expected nothing playing, ok=%v err=%v", ok, err)
	}
}

func TestPlayingReportsLiveLaunch(t *testing.T) {
	eng := newStubEngine()
	p, store, entry, lockPath := setup(t, eng)
	ctx := context.Background()

	eng.onPlay = func() {
		id, ok, err := player.Playing(ctx, store, lockPath)
		if err != nil || !ok || id != entry.ID {
			t.Errorf("expected live launch reported, got %q %v %v", id, ok, err)
		}
		go eng.exit(engine.StateNull, "")
	}
	if _, err := p.Launch(ctx, entry.ID); err != nil {
		t.Fatalf("Launch: %v", err)
	}
}
