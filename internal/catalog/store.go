package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"pipedeck/internal/fileutil"
	"pipedeck/internal/logging"
	"pipedeck/internal/prefs"
)

const (
	// SnapshotKey holds the combined snapshot.
	SnapshotKey = "pipelines"
	// ActiveKey holds the id of the pipeline currently running.
	ActiveKey = "active_pipeline"

	emptySnapshot = "[]"

	// maxImportFileSize bounds single-file imports.
	maxImportFileSize = 1 << 20
)

// Option configures a Store.
type Option func(*Store)

// WithBackups mirrors entries into dir on fsys after every save. When prune
// is set, .gstpipe files that no entry maps to are removed.
func WithBackups(fsys afero.Fs, dir string, prune bool) Option {
	return func(s *Store) {
		if fsys != nil && dir != "" {
			s.backups = &backupMirror{fs: fsys, dir: dir, prune: prune}
		}
	}
}

// WithLogger sets the logger used for recovered failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logging.NewComponentLogger(logger, "catalog")
	}
}

// WithClock overrides the time source used for imports.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithImportFS sets the filesystem ImportFile reads from.
func WithImportFS(fsys afero.Fs) Option {
	return func(s *Store) {
		if fsys != nil {
			s.importFS = fsys
		}
	}
}

// Store persists the catalog in a prefs.Store.
type Store struct {
	kv       prefs.Store
	backups  *backupMirror
	importFS afero.Fs
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore wraps kv. Backups are disabled unless WithBackups is given.
func NewStore(kv prefs.Store, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		importFS: afero.NewOsFs(),
		logger:   logging.NewComponentLogger(nil, "catalog"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the stored entries in stored order. A missing, unreadable,
// or malformed snapshot yields an empty catalog.
func (s *Store) Load(ctx context.Context) []Entry {
	raw, ok, err := s.kv.Get(ctx, SnapshotKey)
	if err != nil {
		logging.WarnWithContext(s.logger, "pipeline snapshot unreadable", "snapshot_read_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the catalog store backend"),
			logging.String(logging.FieldImpact, "catalog shown as empty"),
		)
		return []Entry{}
	}
	if !ok || raw == "" {
		return []Entry{}
	}
	entries, err := decodeSnapshot(raw)
	if err != nil {
		logging.WarnWithContext(s.logger, "pipeline snapshot corrupt", "snapshot_parse_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "restore from an export or the backup directory"),
			logging.String(logging.FieldImpact, "catalog shown as empty"),
		)
		return []Entry{}
	}
	return entries
}

// SaveAll replaces the snapshot with entries and then refreshes the backup
// mirror. Only the snapshot write can fail the call.
func (s *Store) SaveAll(ctx context.Context, entries []Entry) error {
	raw, err := encodeSnapshot(entries)
	if err != nil {
		return err
	}
	if err := s.kv.Put(ctx, SnapshotKey, raw); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	s.logger.Debug("snapshot saved", logging.Int(logging.FieldCount, len(entries)))
	s.refreshBackups(entries)
	return nil
}

// RefreshBackups rewrites the backup mirror from the stored catalog.
func (s *Store) RefreshBackups(ctx context.Context) BackupReport {
	return s.refreshBackups(s.Load(ctx))
}

func (s *Store) refreshBackups(entries []Entry) BackupReport {
	if s.backups == nil {
		return BackupReport{}
	}
	return s.backups.write(entries, s.logger)
}

// Get returns the entry with id.
func (s *Store) Get(ctx context.Context, id string) (Entry, bool) {
	for _, e := range s.Load(ctx) {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Add appends e. An empty id is replaced with a fresh one.
func (s *Store) Add(ctx context.Context, e Entry) (Entry, error) {
	entries := s.Load(ctx)
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	for _, existing := range entries {
		if existing.ID == e.ID {
			return Entry{}, fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
	}
	entries = append(entries, e)
	if err := s.SaveAll(ctx, entries); err != nil {
		return Entry{}, err
	}
	logging.WithEntry(s.logger, e.ID, e.Name).Info("pipeline added",
		logging.String(logging.FieldCategory, string(e.Category())))
	return e, nil
}

// Update replaces the stored entry that has e's id. The creation time is
// kept and the last-used time never moves backwards. An unknown id leaves
// the catalog untouched.
func (s *Store) Update(ctx context.Context, e Entry) error {
	entries := s.Load(ctx)
	found := false
	for i, existing := range entries {
		if existing.ID != e.ID {
			continue
		}
		e.CreatedAt = existing.CreatedAt
		if e.LastUsedAt.Before(existing.LastUsedAt) {
			e.LastUsedAt = existing.LastUsedAt
		}
		entries[i] = e
		found = true
		break
	}
	if !found {
		return nil
	}
	return s.SaveAll(ctx, entries)
}

// Delete removes the entry with id. An unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	entries := s.Load(ctx)
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	if err := s.SaveAll(ctx, kept); err != nil {
		return err
	}
	s.logger.Info("pipeline deleted", logging.String(logging.FieldEntryID, id))
	return nil
}

// Modify loads the entry with id, applies fn, and saves the result.
func (s *Store) Modify(ctx context.Context, id string, fn func(*Entry)) (Entry, error) {
	e, ok := s.Get(ctx, id)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	fn(&e)
	e.ID = id
	if err := s.Update(ctx, e); err != nil {
		return Entry{}, err
	}
	return s.mustGet(ctx, id, e), nil
}

// Touch records an invocation of id at now.
func (s *Store) Touch(ctx context.Context, id string, now time.Time) (Entry, error) {
	return s.Modify(ctx, id, func(e *Entry) {
		e.LastUsedAt = millis(now)
	})
}

// SetFavorite sets the favorite flag of id.
func (s *Store) SetFavorite(ctx context.Context, id string, favorite bool) (Entry, error) {
	return s.Modify(ctx, id, func(e *Entry) {
		e.Favorite = favorite
	})
}

func (s *Store) mustGet(ctx context.Context, id string, fallback Entry) Entry {
	if e, ok := s.Get(ctx, id); ok {
		return e
	}
	return fallback
}

// ExportSnapshot returns the stored snapshot exactly as stored.
func (s *Store) ExportSnapshot(ctx context.Context) (string, error) {
	raw, ok, err := s.kv.Get(ctx, SnapshotKey)
	if err != nil {
		return "", fmt.Errorf("read snapshot: %w", err)
	}
	if !ok || raw == "" {
		return emptySnapshot, nil
	}
	return raw, nil
}

// ImportSnapshot validates raw and, only if every element is acceptable,
// replaces the catalog with it. Errors wrap ErrInvalidSnapshot for
// validation failures; the stored snapshot is unchanged on any error.
func (s *Store) ImportSnapshot(ctx context.Context, raw string) ([]Entry, error) {
	entries, err := parseImport(raw, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.SaveAll(ctx, entries); err != nil {
		return nil, err
	}
	s.logger.Info("snapshot imported", logging.Int(logging.FieldCount, len(entries)))
	return entries, nil
}

// ImportFile reads an interchange or raw-text pipeline file and adds it as
// a new entry with fresh id and timestamps.
func (s *Store) ImportFile(ctx context.Context, path string) (Entry, error) {
	data, err := fileutil.ReadFileLimit(s.importFS, path, maxImportFileSize)
	if err != nil {
		return Entry{}, fmt.Errorf("read pipeline file: %w", err)
	}
	return s.ImportData(ctx, filepath.Base(path), data)
}

// ImportData adds the pipeline described by data, named after filename when
// the content does not carry a name.
func (s *Store) ImportData(ctx context.Context, filename string, data []byte) (Entry, error) {
	name, text, err := ParseInterchange(filename, data)
	if err != nil {
		return Entry{}, err
	}
	return s.Add(ctx, newEntry(name, text, s.now()))
}
