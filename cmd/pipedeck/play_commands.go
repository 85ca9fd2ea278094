package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pipedeck/internal/api"
	"pipedeck/internal/catalog"
	"pipedeck/internal/engine"
	"pipedeck/internal/player"
)

func newPlayCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "play <id>",
		Short: "Run a pipeline with gst-launch until it ends or is interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.consoleLogger()
			if err != nil {
				return err
			}
			return ctx.withStore(cmd.Context(), logger, func(store *catalog.Store) error {
				c := cmd.Context()
				target, err := resolveEntry(c, store, args[0])
				if err != nil {
					return err
				}
				eng, err := engine.NewGstLaunch(cfg.Engine.GstLaunch,
					engine.WithLogger(logger),
					engine.WithTeardownTimeout(time.Duration(cfg.Engine.TeardownTimeout)*time.Second),
				)
				if err != nil {
					return err
				}
				p, err := player.New(store, eng, cfg.PlayerLockPath(), logger)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Playing %s (Ctrl+C to stop)\n", target.Name)
				result, err := p.Launch(c, target.ID)
				if errors.Is(err, player.ErrBusy) {
					return fmt.Errorf("%w; stop it first or wait for it to finish", err)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Stopped %s after %s\n", result.Entry.Name, result.Duration.Round(time.Second))
				return nil
			})
		},
	}
}

func newActiveCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "active",
		Short: "Show the pipeline currently playing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), nil, func(store *catalog.Store) error {
				c := cmd.Context()
				id, ok, err := ctx.playing(c, store)
				if err != nil {
					return err
				}
				resp := api.ActiveResponse{Active: ok, ID: id}
				var entry catalog.Entry
				found := false
				if ok {
					if entry, found = store.Get(c, id); found {
						item := api.FromEntry(entry, id)
						resp.Item = &item
					}
				}
				if jsonOutput {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				switch {
				case !ok:
					fmt.Fprintln(out, "No pipeline is playing")
				case !found:
					fmt.Fprintf(out, "Playing %s (no longer in the catalog)\n", id)
				default:
					fmt.Fprintln(out, renderTable(
						[]string{"", "Name", "Category", "Started", "ID"},
						[][]string{{swatch(entry.Color(), shouldColorize(out)), entry.Name, string(entry.Category()), formatTime(entry.LastUsedAt), shortID(entry.ID)}},
					))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
