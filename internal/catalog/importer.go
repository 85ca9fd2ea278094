package catalog

import (
	"container/list"
	"context"
	"fmt"
	"sync"
)

// Importer adds single-file imports to a Store and drops repeats of the
// same request. Callers pass an idempotency token per request; the last
// limit tokens that led to a successful import are remembered.
type Importer struct {
	store *Store

	mu    sync.Mutex
	limit int
	order *list.List
	seen  map[string]*list.Element
}

// NewImporter returns an importer remembering up to limit tokens. A
// non-positive limit disables the duplicate check.
func NewImporter(store *Store, limit int) *Importer {
	return &Importer{
		store: store,
		limit: limit,
		order: list.New(),
		seen:  make(map[string]*list.Element),
	}
}

// ImportFile imports path unless token was already used. An empty token
// always imports.
func (im *Importer) ImportFile(ctx context.Context, path, token string) (Entry, error) {
	return im.guard(token, func() (Entry, error) {
		return im.store.ImportFile(ctx, path)
	})
}

// ImportData imports raw file content unless token was already used.
func (im *Importer) ImportData(ctx context.Context, filename string, data []byte, token string) (Entry, error) {
	return im.guard(token, func() (Entry, error) {
		return im.store.ImportData(ctx, filename, data)
	})
}

func (im *Importer) guard(token string, run func() (Entry, error)) (Entry, error) {
	if token == "" || im.limit <= 0 {
		return run()
	}

	im.mu.Lock()
	defer im.mu.Unlock()
	if elem, ok := im.seen[token]; ok {
		im.order.MoveToFront(elem)
		return Entry{}, fmt.Errorf("%w: %s", ErrDuplicateImport, token)
	}

	e, err := run()
	if err != nil {
		return Entry{}, err
	}
	im.seen[token] = im.order.PushFront(token)
	for im.order.Len() > im.limit {
		oldest := im.order.Back()
		im.order.Remove(oldest)
		delete(im.seen, oldest.Value.(string))
	}
	return e, nil
}
