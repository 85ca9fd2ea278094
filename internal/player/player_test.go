package player_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"pipedeck/internal/catalog"
	"pipedeck/internal/engine"
	"pipedeck/internal/player"
	"pipedeck/internal/testsupport"
)

type stubEngine struct {
	mu       sync.Mutex
	text     string
	state    engine.State
	errMsg   string
	done     chan struct{}
	initErr  error
	playErr  error
	onPlay   func()
	torndown int
}

func newStubEngine() *stubEngine {
	return &stubEngine{done: make(chan struct{})}
}

func (s *stubEngine) Init(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initErr != nil {
		return s.initErr
	}
	s.state = engine.StateReady
	return nil
}

func (s *stubEngine) Play() error {
	s.mu.Lock()
	if s.playErr != nil {
		s.state = engine.StateError
		s.errMsg = s.playErr.Error()
		s.mu.Unlock()
		return s.playErr
	}
	s.state = engine.StatePlaying
	onPlay := s.onPlay
	s.mu.Unlock()
	if onPlay != nil {
		onPlay()
	}
	return nil
}

func (s *stubEngine) Pause() error { return nil }

func (s *stubEngine) Teardown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.torndown++
	if s.state != engine.StateError {
		s.state = engine.StateNull
	}
	return nil
}

func (s *stubEngine) SetPipelineText(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}

func (s *stubEngine) Reinit(ctx context.Context) error {
	_ = s.Teardown()
	return s.Init(ctx)
}

func (s *stubEngine) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *stubEngine) State() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *stubEngine) Done() <-chan struct{} { return s.done }

func (s *stubEngine) exit(state engine.State, msg string) {
	s.mu.Lock()
	s.state = state
	s.errMsg = msg
	s.mu.Unlock()
	close(s.done)
}

func setup(t *testing.T, eng engine.Engine) (*player.Player, *catalog.Store, catalog.Entry, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	entry := testsupport.NewEntry(t, store, "Cam", "rtspsrc location=rtsp://cam ! autovideosink")
	p, err := player.New(store, eng, cfg.PlayerLockPath(), nil)
	if err != nil {
		t.Fatalf("player.New: %v", err)
	}
	return p, store, entry, cfg.PlayerLockPath()
}

func TestLaunchRunsUntilPipelineExits(t *testing.T) {
	eng := newStubEngine()
	p, store, entry, _ := setup(t, eng)
	ctx := context.Background()
	before := entry.LastUsedAt

	eng.onPlay = func() {
		if id, ok, _ := store.Active(ctx); !ok || id != entry.ID {
			t.Errorf("entry should be active while playing")
		}
		go eng.exit(engine.StateNull, "")
	}

	result, err := p.Launch(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if eng.text != entry.Text {
		t.Fatalf("engine got %q, want %q", eng.text, entry.Text)
	}
	if result.Entry.ID != entry.ID || result.State != engine.StateNull {
		t.Fatalf("unexpected result %+v", result)
	}
	if eng.torndown != 1 {
		t.Fatalf("expected one teardown, got %d", eng.torndown)
	}
	if _, active, _ := store.Active(ctx); active {
		t.Fatal("active marker should be cleared after the run")
	}
	got, _ := store.Get(ctx, entry.ID)
	if got.LastUsedAt.Before(before) {
		t.Fatalf("last used moved backwards: %v < %v", got.LastUsedAt, before)
	}
}

func TestLaunchStopsOnCancel(t *testing.T) {
	eng := newStubEngine()
	p, store, entry, _ := setup(t, eng)
	ctx, cancel := context.WithCancel(context.Background())
	eng.onPlay = func() {
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
	}

	if _, err := p.Launch(ctx, entry.ID); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if eng.torndown != 1 {
		t.Fatalf("expected teardown on cancel, got %d", eng.torndown)
	}
	if _, active, _ := store.Active(context.Background()); active {
		t.Fatal("active marker should be cleared after cancel")
	}
}

func TestLaunchReportsPipelineFailure(t *testing.T) {
	eng := newStubEngine()
	p, _, entry, _ := setup(t, eng)
	eng.onPlay = func() {
		go eng.exit(engine.StateError, "no element \"rtspsrc\"")
	}

	result, err := p.Launch(context.Background(), entry.ID)
	if !errors.Is(err, player.ErrPipelineFailed) {
		t.Fatalf("expected ErrPipelineFailed, got %v", err)
	}
	if result.Error == "" || result.State != engine.StateError {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestLaunchPlayFailure(t *testing.T) {
	eng := newStubEngine()
	eng.playErr = errors.New("exec: gst-launch-1.0 not found")
	p, _, entry, _ := setup(t, eng)
	if _, err := p.Launch(context.Background(), entry.ID); !errors.Is(err, player.ErrPipelineFailed) {
		t.Fatalf("expected ErrPipelineFailed, got %v", err)
	}
}

func TestLaunchUnknownEntry(t *testing.T) {
	p, _, _, _ := setup(t, newStubEngine())
	if _, err := p.Launch(context.Background(), "missing"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLaunchBusyWhenLockHeld(t *testing.T) {
	p, _, entry, lockPath := setup(t, newStubEngine())
	other := flock.New(lockPath)
	ok, err := other.TryLock()
	if err != nil || !ok {
		t.Fatalf("pre-acquire lock: %v %v", ok, err)
	}
	defer other.Unlock()

	if _, err := p.Launch(context.Background(), entry.ID); !errors.Is(err, player.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestNewValidatesArguments(t *testing.T) {
	if _, err := player.New(nil, newStubEngine(), "/tmp/x.lock", nil); err == nil {
		t.Fatal("expected error for nil store")
	}
}
