package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"pipedeck/internal/catalog"
	"pipedeck/internal/engine"
	"pipedeck/internal/logging"
)

var (
	// ErrBusy is returned when another pipeline holds the player lock.
	ErrBusy = errors.New("another pipeline is already playing")
	// ErrPipelineFailed is returned when the engine reports an error.
	ErrPipelineFailed = errors.New("pipeline failed")
)

// Result describes a finished run.
type Result struct {
	Entry    catalog.Entry
	State    engine.State
	Error    string
	Duration time.Duration
}

// Player runs one catalog entry at a time.
type Player struct {
	store  *catalog.Store
	engine engine.Engine
	lock   *flock.Flock
	logger *slog.Logger
	now    func() time.Time
}

// New constructs a player guarded by the lock file at lockPath.
func New(store *catalog.Store, eng engine.Engine, lockPath string, logger *slog.Logger) (*Player, error) {
	if store == nil || eng == nil {
		return nil, errors.New("player requires a catalog store and an engine")
	}
	if lockPath == "" {
		return nil, errors.New("player lock path required")
	}
	return &Player{
		store:  store,
		engine: eng,
		lock:   flock.New(lockPath),
		logger: logging.NewComponentLogger(logger, "player"),
		now:    time.Now,
	}, nil
}

// Launch plays the entry with id until the pipeline exits or ctx is
// cancelled. The lock is held and the entry is marked active for the whole
// run.
func (p *Player) Launch(ctx context.Context, id string) (Result, error) {
	ok, err := p.lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("acquire player lock: %w", err)
	}
	if !ok {
		if active, found, _ := p.store.Active(ctx); found {
			return Result{}, fmt.Errorf("%w: %s", ErrBusy, active)
		}
		return Result{}, ErrBusy
	}
	defer func() {
		if err := p.lock.Unlock(); err != nil {
			p.logger.Warn("failed to release player lock", logging.Error(err))
		}
	}()

	entry, err := p.store.Touch(ctx, id, p.now())
	if err != nil {
		return Result{}, err
	}
	logger := logging.WithEntry(p.logger, entry.ID, entry.Name)

	cleanupCtx := context.WithoutCancel(ctx)
	if err := p.store.SetActive(ctx, entry.ID); err != nil {
		return Result{}, err
	}
	defer func() {
		if err := p.store.ClearActive(cleanupCtx); err != nil {
			logging.WarnWithContext(logger, "active marker not cleared", "active_clear_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "status may report a stale running pipeline"),
			)
		}
	}()

	started := p.now()
	p.engine.SetPipelineText(entry.Text)
	if err := p.engine.Init(ctx); err != nil {
		return Result{Entry: entry, State: p.engine.State()}, fmt.Errorf("init pipeline: %w", err)
	}
	if err := p.engine.Play(); err != nil {
		result := p.finish(entry, started)
		_ = p.engine.Teardown()
		return result, fmt.Errorf("%w: %v", ErrPipelineFailed, err)
	}
	logger.Info("pipeline playing", logging.String(logging.FieldCategory, string(entry.Category())))

	select {
	case <-p.engine.Done():
	case <-ctx.Done():
		logger.Info("stopping pipeline", logging.String("reason", ctx.Err().Error()))
	}

	result := p.finish(entry, started)
	if err := p.engine.Teardown(); err != nil {
		logging.WarnWithContext(logger, "pipeline teardown failed", "teardown_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "gst-launch may still be running"),
		)
	}
	if result.State == engine.StateError {
		return result, fmt.Errorf("%w: %s", ErrPipelineFailed, result.Error)
	}
	logger.Info("pipeline stopped", logging.Duration("duration", result.Duration))
	return result, nil
}

func (p *Player) finish(entry catalog.Entry, started time.Time) Result {
	return Result{
		Entry:    entry,
		State:    p.engine.State(),
		Error:    p.engine.Error(),
		Duration: p.now().Sub(started),
	}
}
