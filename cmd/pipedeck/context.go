package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"pipedeck/internal/catalog"
	"pipedeck/internal/config"
	"pipedeck/internal/logging"
	"pipedeck/internal/player"
	"pipedeck/internal/prefs"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// fileLogger logs to the log file only, leaving stderr to the command.
func (c *commandContext) fileLogger() *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.NewFileLogger(cfg)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// consoleLogger logs to stderr and the log file, for long-running commands.
func (c *commandContext) consoleLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

// withStore opens the configured backend for the duration of fn.
func (c *commandContext) withStore(ctx context.Context, logger *slog.Logger, fn func(*catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if logger == nil {
		logger = c.fileLogger()
	}
	kv, err := prefs.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open catalog store: %w", err)
	}
	defer kv.Close()

	opts := []catalog.Option{catalog.WithLogger(logger)}
	if cfg.Backup.Enabled {
		opts = append(opts, catalog.WithBackups(afero.NewOsFs(), cfg.Paths.BackupDir, cfg.Backup.Prune))
	}
	return fn(catalog.NewStore(kv, opts...))
}

// playing returns the id of the entry a live player is running, clearing a
// marker left by a player that died without cleaning up.
func (c *commandContext) playing(ctx context.Context, store *catalog.Store) (string, bool, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", false, err
	}
	return player.Playing(ctx, store, cfg.PlayerLockPath())
}

// resolveEntry accepts a full id, a 1-based row number of the default list
// view, or a unique id prefix. An all-digit argument beyond the last row is
// tried as an id prefix before it is rejected.
func resolveEntry(ctx context.Context, store *catalog.Store, arg string) (catalog.Entry, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return catalog.Entry{}, errors.New("pipeline id is required")
	}
	entries := store.Load(ctx)
	for _, e := range entries {
		if e.ID == arg {
			return e, nil
		}
	}
	var rowErr error
	if n, err := strconv.Atoi(arg); err == nil {
		view := catalog.SortedView(entries, catalog.SortName)
		if n >= 1 && n <= len(view) {
			return view[n-1], nil
		}
		rowErr = fmt.Errorf("row %d out of range (catalog has %d pipelines)", n, len(view))
	}
	var matches []catalog.Entry
	for _, e := range entries {
		if strings.HasPrefix(e.ID, arg) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		if rowErr != nil {
			return catalog.Entry{}, rowErr
		}
		return catalog.Entry{}, fmt.Errorf("%w: %s", catalog.ErrNotFound, arg)
	case 1:
		return matches[0], nil
	default:
		return catalog.Entry{}, fmt.Errorf("id prefix %q is ambiguous (%d matches)", arg, len(matches))
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
