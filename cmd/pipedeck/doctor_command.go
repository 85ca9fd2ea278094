package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pipedeck/internal/api"
	"pipedeck/internal/catalog"
	"pipedeck/internal/deps"
	"pipedeck/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, storage, and GStreamer tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			c := cmd.Context()
			binaries := deps.CheckBinaries(deps.GStreamerRequirements(cfg.Engine.GstLaunch, cfg.Engine.GstInspect))
			report := api.DoctorReport{
				ConfigPath:   ctx.configPath,
				ConfigFound:  ctx.configExists,
				StoreBackend: cfg.Store.Backend,
				Dependencies: api.FromDependencyStatuses(binaries),
			}
			checks := preflight.RunAll(c, cfg)
			report.Checks = api.FromPreflight(checks)
			if len(binaries) > 1 && binaries[1].Available {
				elements := deps.CheckElements(c, binaries[1].Command, deps.PipelineElements(cfg.Engine.DefaultPipeline))
				report.Elements = api.FromDependencyStatuses(elements)
			}

			err = ctx.withStore(c, nil, func(store *catalog.Store) error {
				report.Entries = len(store.Load(c))
				files, err := store.ListBackups()
				if err == nil {
					report.Backups = len(files)
				}
				return nil
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			configLine := report.ConfigPath
			if !report.ConfigFound {
				configLine += " (not found; defaults in use)"
			}
			fmt.Fprintf(out, "Config:    %s\n", configLine)
			fmt.Fprintf(out, "Store:     %s\n", report.StoreBackend)
			fmt.Fprintf(out, "Pipelines: %d\n", report.Entries)
			fmt.Fprintf(out, "Backups:   %d\n", report.Backups)
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "Status", "Detail"},
				checkRows(report.Checks),
			))
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable(
				[]string{"Dependency", "Command", "Required", "Available", "Detail"},
				dependencyRows(report.Dependencies),
			))
			if len(report.Elements) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable(
					[]string{"Element", "Command", "Required", "Available", "Detail"},
					dependencyRows(report.Elements),
				))
			}

			if preflight.Failed(checks) {
				return fmt.Errorf("one or more readiness checks failed")
			}
			for _, dep := range report.Dependencies {
				if !dep.Optional && !dep.Available {
					return fmt.Errorf("required dependency %s is unavailable", dep.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func dependencyRows(statuses []api.DependencyStatus) [][]string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{s.Name, s.Command, yesNo(!s.Optional), yesNo(s.Available), s.Detail})
	}
	return rows
}

func checkRows(checks []api.CheckResult) [][]string {
	rows := make([][]string, 0, len(checks))
	for _, c := range checks {
		status := "ok"
		switch {
		case !c.Passed && c.Advisory:
			status = "warn"
		case !c.Passed:
			status = "fail"
		}
		rows = append(rows, []string{c.Name, status, c.Detail})
	}
	return rows
}
