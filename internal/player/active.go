package player

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/gofrs/flock"

	"pipedeck/internal/catalog"
)

// ErrPlaying is returned when a change targets the entry that is playing.
var ErrPlaying = errors.New("pipeline is playing")

// Playing returns the id of the entry a live player is running. The active
// marker only counts while some process holds the player lock; a marker
// left behind by a killed player is cleared here.
func Playing(ctx context.Context, store *catalog.Store, lockPath string) (string, bool, error) {
	if lockPath == "" {
		return store.Active(ctx)
	}
	lock := flock.New(lockPath)
	acquired, err := lock.TryRLock()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No state directory yet means nothing has ever played.
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("probe player lock: %w", err)
	case !acquired:
		return store.Active(ctx)
	}
	defer func() { _ = lock.Unlock() }()

	if _, ok, err := store.Active(ctx); err != nil || !ok {
		return "", false, err
	}
	if err := store.ClearActive(ctx); err != nil {
		return "", false, err
	}
	return "", false, nil
}

// Delete removes the entry with id unless a live player is running it.
func Delete(ctx context.Context, store *catalog.Store, lockPath, id string) error {
	playing, ok, err := Playing(ctx, store, lockPath)
	if err != nil {
		return err
	}
	if ok && playing == id {
		return fmt.Errorf("%w: %s", ErrPlaying, id)
	}
	return store.Delete(ctx, id)
}
