package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := newCommandContext(&configFlag)

	root := &cobra.Command{
		Use:           "pipedeck",
		Short:         "Catalog and launch GStreamer pipelines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	root.AddCommand(newCatalogCommands(ctx)...)
	root.AddCommand(newTransferCommands(ctx)...)
	root.AddCommand(
		newPlayCommand(ctx),
		newActiveCommand(ctx),
		newFitCommand(ctx),
		newServeCommand(ctx),
		newDoctorCommand(ctx),
		newLogsCommand(ctx),
		newConfigCommand(ctx),
	)
	return root
}
