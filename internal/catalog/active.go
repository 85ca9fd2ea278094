package catalog

import (
	"context"
	"fmt"
	"strings"
)

// SetActive records id as the pipeline currently running.
func (s *Store) SetActive(ctx context.Context, id string) error {
	if err := s.kv.Put(ctx, ActiveKey, id); err != nil {
		return fmt.Errorf("record active pipeline: %w", err)
	}
	return nil
}

// Active returns the id of the running pipeline, if any.
func (s *Store) Active(ctx context.Context) (string, bool, error) {
	id, ok, err := s.kv.Get(ctx, ActiveKey)
	if err != nil {
		return "", false, fmt.Errorf("read active pipeline: %w", err)
	}
	id = strings.TrimSpace(id)
	return id, ok && id != "", nil
}

// ClearActive forgets the running pipeline.
func (s *Store) ClearActive(ctx context.Context) error {
	if err := s.kv.Delete(ctx, ActiveKey); err != nil {
		return fmt.Errorf("clear active pipeline: %w", err)
	}
	return nil
}
