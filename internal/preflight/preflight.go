package preflight

import (
	"context"

	"pipedeck/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Advisory bool
	Detail   string
}

// RunAll executes the checks that apply to cfg. The backup directory is
// only checked when backups are enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Backup.Enabled {
		results = append(results, CheckDirectoryAccess("Backup directory", cfg.Paths.BackupDir))
	}
	results = append(results, CheckStore(ctx, cfg))
	results = append(results, CheckBind(cfg.API.Bind))
	return results
}

// Failed reports whether any non-advisory check failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Advisory {
			return true
		}
	}
	return false
}
