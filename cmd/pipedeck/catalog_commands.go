package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pipedeck/internal/api"
	"pipedeck/internal/catalog"
	"pipedeck/internal/player"
)

func newCatalogCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newListCommand(ctx),
		newShowCommand(ctx),
		newAddCommand(ctx),
		newEditCommand(ctx),
		newFavCommand(ctx),
		newDeleteCommand(ctx),
		newTouchCommand(ctx),
		newSeedCommand(ctx),
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var sortFlag, categoryFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored pipelines",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := catalog.ParseSortKey(sortFlag)
			if !ok {
				return fmt.Errorf("unknown sort key %q (use name, recent, or created)", sortFlag)
			}
			var category catalog.Category
			if strings.TrimSpace(categoryFlag) != "" {
				if category, ok = catalog.ParseCategory(categoryFlag); !ok {
					return fmt.Errorf("unknown category %q", categoryFlag)
				}
			}

			return ctx.withStore(cmd.Context(), nil, func(store *catalog.Store) error {
				c := cmd.Context()
				if _, err := seed(c, store); err != nil {
					return err
				}
				all := store.Load(c)
				view := catalog.SortedView(catalog.Filter(all, category), key)
				activeID, _, err := ctx.playing(c, store)
				if err != nil {
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, api.FromEntries(view, activeID))
				}
				out := cmd.OutOrStdout()
				if len(view) == 0 {
					fmt.Fprintln(out, "No pipelines match")
					return nil
				}
				rows := listRows(all, view, activeID, shouldColorize(out))
				fmt.Fprintln(out, renderTable(
					[]string{"#", "", "Name", "Category", "Fav", "Last used", "ID"},
					rows,
					1,
				))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sortFlag, "sort", "name", "Sort order: name, recent, or created")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "Only show one category (test, rtsp, udp, file, effects, custom)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// listRows numbers entries by their position in the default view so the
// numbers stay valid as <id> arguments whatever the current sort.
func listRows(all, view []catalog.Entry, activeID string, colorize bool) [][]string {
	rowNumbers := make(map[string]int, len(all))
	for i, e := range catalog.SortedView(all, catalog.SortName) {
		rowNumbers[e.ID] = i + 1
	}
	rows := make([][]string, 0, len(view))
	for _, e := range view {
		name := e.Name
		if e.ID == activeID {
			name += " (playing)"
		}
		rows = append(rows, []string{
			strconv.Itoa(rowNumbers[e.ID]),
			swatch(e.Color(), colorize),
			name,
			string(e.Category()),
			favoriteMark(e.Favorite),
			formatTime(e.LastUsedAt),
			shortID(e.ID),
		})
	}
	return rows
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), nil, func(store *catalog.Store) error {
				c := cmd.Context()
				e, err := resolveEntry(c, store, args[0])
				if err != nil {
					return err
				}
				activeID, _, err := ctx.playing(c, store)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, api.FromEntry(e, activeID))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Name:      %s\n", e.Name)
				fmt.Fprintf(out, "ID:        %s\n", e.ID)
				fmt.Fprintf(out, "Category:  %s %s (%s)\n", swatch(e.Color(), shouldColorize(out)), e.Category(), e.Color().Hex())
				fmt.Fprintf(out, "Favorite:  %s\n", yesNo(e.Favorite))
				fmt.Fprintf(out, "Playing:   %s\n", yesNo(e.ID == activeID))
				fmt.Fprintf(out, "Created:   %s\n", formatTime(e.CreatedAt))
				fmt.Fprintf(out, "Last used: %s\n", formatTime(e.LastUsedAt))
				fmt.Fprintf(out, "Pipeline:\n  %s\n", e.Text)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var favorite bool
	cmd := &cobra.Command{
		Use:   "add <name> <pipeline...>",
		Short: "Add a pipeline",
		Long:  "Add a pipeline. Everything after the name is joined with spaces, so the description may be passed unquoted.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := catalog.NewEntry(args[0], strings.Join(args[1:], " "), time.Now())
			if err != nil {
				return err
			}
			e.Favorite = favorite
			return ctx.withStore(cmd.Context(), nil, func(store *catalog.Store) error {
				added, err := store.Add(cmd.Context(), e)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, %s)\n", added.Name, shortID(added.ID), added.Category())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&favorite, "favorite", false, "Mark the new pipeline as a favorite")
	return cmd
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var name, pipeline string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename a pipeline or replace its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nameSet := cmd.Flags().Changed("name")
			pipelineSet := cmd.Flags().Changed("pipeline")
			if !nameSet && !pipelineSet {
				return errors.New("nothing to change; pass --name and/or --pipeline")
			}
			if nameSet && strings.TrimSpace(name) == "" {
				return &catalog.ValidationError{Field: "name", Message: "must not be empty"}
			}
			if pipelineSet && strings.TrimSpace(pipeline) == "" {
				return &catalog.ValidationError{Field: "pipeline", Message: "must not be empty"}
			}
			return ctx.withStore(cmd.Context(), nil, func(store *catalog.Store) error {
				c := cmd.Context()
				target, err := resolveEntry(c, store, args[0])
				if err != nil {
					return err
				}
				updated, err := store.Modify(c, target.ID, func(e *catalog.Entry) {
					if nameSet {
						e.Name = strings.TrimSpace(name)
					}
					if pipelineSet {
						e.Text = strings.TrimSpace(pipeline)
					}
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", updated.Name, updated.Category())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&pipeline, "pipeline", "", "New pipeline description")
	return cmd
}

func newFavCommand(ctx *commandContext) *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "fav <id>",
		Short: "Mark a pipeline as favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), nil, func(store *catalog.Store) error {
				c := cmd.Context()
				target, err := resolveEntry(c, store, args[0])
				if err != nil {
					return err
				}
				updated, err := store.SetFavorite(c, target.ID, !off)
				if err != nil {
					return err
				}
				if updated.Favorite {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is now a favorite\n", updated.Name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer a favorite\n", updated.Name)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "Clear the favorite flag instead")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a pipeline",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), nil, func(store *catalog.Store) error {
				c := cmd.Context()
				target, err := resolveEntry(c, store, args[0])
				if err != nil {
					return err
				}
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				err = player.Delete(c, store, cfg.PlayerLockPath(), target.ID)
				if errors.Is(err, player.ErrPlaying) {
					return fmt.Errorf("%s is playing; stop it before deleting", target.Name)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", target.Name)
				return nil
			})
		},
	}
}

func newTouchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "touch <id>",
		Short: "Record a use of a pipeline without playing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), nil, func(store *catalog.Store) error {
				c := cmd.Context()
				target, err := resolveEntry(c, store, args[0])
				if err != nil {
					return err
				}
				updated, err := store.Touch(c, target.ID, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s last used %s\n", updated.Name, formatTime(updated.LastUsedAt))
				return nil
			})
		},
	}
}

func newSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the built-in templates when the catalog is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), nil, func(store *catalog.Store) error {
				seeded, err := seed(cmd.Context(), store)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !seeded {
					fmt.Fprintln(out, "Catalog is not empty; nothing seeded")
					return nil
				}
				fmt.Fprintf(out, "Seeded %d templates\n", len(catalog.Templates))
				return nil
			})
		},
	}
}

func seed(ctx context.Context, store *catalog.Store) (bool, error) {
	seeded, err := catalog.SeedIfEmpty(ctx, store, time.Now())
	if err != nil {
		return false, fmt.Errorf("seed catalog: %w", err)
	}
	return seeded, nil
}
