package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"pipedeck/internal/catalog"
	"pipedeck/internal/config"
	"pipedeck/internal/fileutil"
)

const maxSnapshotInput = 16 << 20

func newTransferCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newExportCommand(ctx),
		newImportCommand(ctx),
		newImportFileCommand(ctx),
		newShareCommand(ctx),
		newBackupCommand(ctx),
	}
}

func newBackupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Rewrite the per-pipeline backup files from the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Backup.Enabled {
				return errors.New("backups are disabled; set [backup] enabled = true")
			}
			return ctx.withStore(cmd.Context(), nil, func(store *catalog.Store) error {
				report := store.RefreshBackups(cmd.Context())
				fmt.Fprintf(cmd.OutOrStdout(), "Refreshed backups in %s: %d written, %d failed, %d pruned\n",
					cfg.Paths.BackupDir, report.Written, report.Failed, report.Pruned)
				if report.Failed > 0 {
					return fmt.Errorf("%d backup files could not be written; run pipedeck logs for details", report.Failed)
				}
				return nil
			})
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the stored snapshot exactly as stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), nil, func(store *catalog.Store) error {
				raw, err := store.ExportSnapshot(cmd.Context())
				if err != nil {
					return err
				}
				target := strings.TrimSpace(output)
				if target == "" || target == "-" {
					fmt.Fprintln(cmd.OutOrStdout(), raw)
					return nil
				}
				path, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				if err := fileutil.WriteFileAtomic(afero.NewOsFs(), path, []byte(raw), 0o644); err != nil {
					return fmt.Errorf("write snapshot: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote snapshot to %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot.json|->",
		Short: "Replace the catalog with a snapshot",
		Long:  "Replace the whole catalog with a snapshot. Every element must carry a name and a pipeline; otherwise nothing changes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readSnapshotInput(cmd, args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(cmd.Context(), nil, func(store *catalog.Store) error {
				entries, err := store.ImportSnapshot(cmd.Context(), raw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d pipelines\n", len(entries))
				return nil
			})
		},
	}
}

func readSnapshotInput(cmd *cobra.Command, arg string) (string, error) {
	if strings.TrimSpace(arg) == "-" {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxSnapshotInput+1))
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		if len(data) > maxSnapshotInput {
			return "", fileutil.ErrTooLarge
		}
		return string(data), nil
	}
	path, err := config.ExpandPath(arg)
	if err != nil {
		return "", fmt.Errorf("resolve snapshot path: %w", err)
	}
	data, err := fileutil.ReadFileLimit(afero.NewOsFs(), path, maxSnapshotInput)
	if err != nil {
		return "", fmt.Errorf("read snapshot: %w", err)
	}
	return string(data), nil
}

func newImportFileCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import-file <file...>",
		Short: "Add pipelines from .gstpipe or plain-text files",
		Long: "Add one entry per file. JSON files carry a name and pipeline; any other file is read as " +
			"pipeline text named after the file. A path given twice is imported once.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withStore(cmd.Context(), nil, func(store *catalog.Store) error {
				importer := catalog.NewImporter(store, max(cfg.Import.RecentTokens, len(args)))
				out := cmd.OutOrStdout()
				var failed int
				for _, arg := range args {
					path, err := config.ExpandPath(arg)
					if err != nil {
						return fmt.Errorf("resolve %s: %w", arg, err)
					}
					token, err := filepath.Abs(path)
					if err != nil {
						token = path
					}
					e, err := importer.ImportFile(cmd.Context(), path, token)
					switch {
					case errors.Is(err, catalog.ErrDuplicateImport):
						fmt.Fprintf(out, "Skipped %s (already imported)\n", arg)
					case err != nil:
						failed++
						fmt.Fprintf(cmd.ErrOrStderr(), "Failed %s: %v\n", arg, err)
					default:
						fmt.Fprintf(out, "Imported %s as %s (%s)\n", arg, e.Name, e.Category())
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d files failed to import", failed, len(args))
				}
				return nil
			})
		},
	}
}

func newShareCommand(ctx *commandContext) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "share <id>",
		Short: "Write a pipeline's text to <dir>/<name>.gstpipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := config.ExpandPath(strings.TrimSpace(dir))
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}
			if target == "" {
				target = "."
			}
			return ctx.withStore(cmd.Context(), nil, func(store *catalog.Store) error {
				e, err := resolveEntry(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				path, err := catalog.Share(afero.NewOsFs(), target, e)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to write the file into")
	return cmd
}
