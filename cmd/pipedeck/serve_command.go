package main

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"pipedeck/internal/catalog"
	"pipedeck/internal/httpapi"
	"pipedeck/internal/logs"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.consoleLogger()
			if err != nil {
				return err
			}
			addr := cfg.API.Bind
			if strings.TrimSpace(bind) != "" {
				addr = bind
			}
			return ctx.withStore(cmd.Context(), logger, func(store *catalog.Store) error {
				c := cmd.Context()
				if _, err := seed(c, store); err != nil {
					return err
				}
				srv, err := httpapi.New(addr, httpapi.Deps{
					Store:      store,
					Importer:   catalog.NewImporter(store, cfg.Import.RecentTokens),
					Logger:     logger,
					Logs:       logs.NewReader(afero.NewOsFs(), cfg.LogFilePath()),
					PlayerLock: cfg.PlayerLockPath(),
				})
				if err != nil {
					return err
				}
				if err := srv.Start(c); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl+C to stop)\n", srv.Addr())
				<-c.Done()
				srv.Stop()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides api.bind)")
	return cmd
}
