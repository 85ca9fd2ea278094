package catalog

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"pipedeck/internal/fileutil"
	"pipedeck/internal/logging"
)

// backupMirror writes one interchange file per entry after each save.
type backupMirror struct {
	fs    afero.Fs
	dir   string
	prune bool
}

// BackupReport summarizes one mirror pass.
type BackupReport struct {
	Written int
	Failed  int
	Pruned  int
}

func (b *backupMirror) write(entries []Entry, logger *slog.Logger) BackupReport {
	var report BackupReport
	if err := b.fs.MkdirAll(b.dir, 0o755); err != nil {
		logging.WarnWithContext(logger, "backup directory not available", "backup_dir_unavailable",
			logging.String(logging.FieldPath, b.dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the backup directory"),
			logging.String(logging.FieldImpact, "interchange backups were not refreshed"),
		)
		report.Failed = len(entries)
		return report
	}

	wanted := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		name := FileName(e.Name)
		wanted[name] = struct{}{}
		if err := b.writeOne(name, e); err != nil {
			report.Failed++
			logging.WarnWithContext(logger, "backup write failed", "backup_write_failed",
				logging.String(logging.FieldEntryID, e.ID),
				logging.String(logging.FieldEntryName, e.Name),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check free space and permissions on the backup directory"),
				logging.String(logging.FieldImpact, "backup file for this pipeline is stale"),
			)
			continue
		}
		report.Written++
	}

	if b.prune {
		report.Pruned = b.pruneStale(wanted, logger)
	}
	logger.Debug("backups refreshed",
		logging.String(logging.FieldPath, b.dir),
		logging.Int("written", report.Written),
		logging.Int("failed", report.Failed),
		logging.Int("pruned", report.Pruned),
	)
	return report
}

func (b *backupMirror) writeOne(name string, e Entry) error {
	data, err := MarshalInterchange(e)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(b.fs, filepath.Join(b.dir, name), data, 0o644)
}

func (b *backupMirror) pruneStale(wanted map[string]struct{}, logger *slog.Logger) int {
	infos, err := afero.ReadDir(b.fs, b.dir)
	if err != nil {
		logging.WarnWithContext(logger, "backup prune skipped", "backup_prune_failed",
			logging.String(logging.FieldPath, b.dir),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale backup files were kept"),
		)
		return 0
	}
	pruned := 0
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || !strings.HasSuffix(name, FileExtension) {
			continue
		}
		if _, keep := wanted[name]; keep {
			continue
		}
		if err := b.fs.Remove(filepath.Join(b.dir, name)); err != nil {
			logging.WarnWithContext(logger, "backup prune failed", "backup_prune_failed",
				logging.String(logging.FieldPath, filepath.Join(b.dir, name)),
				logging.Error(err),
				logging.String(logging.FieldImpact, "stale backup file was kept"),
			)
			continue
		}
		pruned++
	}
	return pruned
}

// ListBackups returns the interchange files currently in the backup directory.
func (s *Store) ListBackups() ([]string, error) {
	if s.backups == nil {
		return nil, nil
	}
	infos, err := afero.ReadDir(s.backups.fs, s.backups.dir)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	var files []string
	for _, info := range infos {
		if !info.IsDir() && strings.HasSuffix(info.Name(), FileExtension) {
			files = append(files, filepath.Join(s.backups.dir, info.Name()))
		}
	}
	return files, nil
}
