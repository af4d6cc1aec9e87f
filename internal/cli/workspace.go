package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/assailsec/assail/internal/aggregate"
	"github.com/assailsec/assail/internal/model"
	"github.com/assailsec/assail/internal/report"
)

var (
	workspaceParallelism int
	workspaceMinSeverity string
	workspaceOutput      string
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace ROOT",
	Aliases: []string{"sweep"},
	Short:   "Scan every package under a workspace root and rank top offenders (§4.3)",
	Args:    cobra.ExactArgs(1),
	RunE:    runWorkspace,
}

func init() {
	workspaceCmd.Flags().IntVar(&workspaceParallelism, "parallelism", 0, "Per-package concurrency (0 uses the default, number of CPUs)")
	workspaceCmd.Flags().StringVar(&workspaceMinSeverity, "min-severity", "", "Drop weak points below this severity from the aggregate output (info, low, medium, high, critical)")
	workspaceCmd.Flags().StringVar(&workspaceOutput, "aggregate-output", "", "Write the workspace report to this path instead of stdout")
	rootCmd.AddCommand(workspaceCmd)
}

func runWorkspace(cmd *cobra.Command, args []string) error {
	root := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var minSeverity model.Severity
	filterBySeverity := false
	if workspaceMinSeverity != "" {
		sev, ok := parseSeverity(workspaceMinSeverity)
		if !ok {
			return usageErrorf("workspace: unknown --min-severity %q", workspaceMinSeverity)
		}
		minSeverity = sev
		filterBySeverity = true
	}

	aggCfg := aggregate.DefaultConfig()
	aggCfg.Extract.IncludeTestCode = cfg.IncludeTestCode
	if workspaceParallelism > 0 {
		aggCfg.MaxConcurrency = workspaceParallelism
	}

	wsReport, err := aggregate.AggregateWorkspace(root, aggCfg)
	if err != nil {
		return fmt.Errorf("workspace: %w", err)
	}

	if filterBySeverity {
		for i, pkg := range wsReport.Packages {
			wsReport.Packages[i].WeakPoints = filterWeakPointsBySeverity(pkg.WeakPoints, minSeverity)
		}
	}

	if storePath != "" {
		store, err := report.NewStore(storePath)
		if err != nil {
			return err
		}
		for _, pkg := range wsReport.Packages {
			if _, err := store.Save(report.KindAssailReport, pkg.ProgramPath, time.Now(), pkg); err != nil {
				return fmt.Errorf("workspace: storing package report for %s: %w", pkg.ProgramPath, err)
			}
		}
	}

	out := os.Stdout
	if workspaceOutput != "" {
		f, err := os.Create(workspaceOutput)
		if err != nil {
			return fmt.Errorf("workspace: opening output: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(wsReport)
}

func filterWeakPointsBySeverity(wps []model.WeakPoint, min model.Severity) []model.WeakPoint {
	var out []model.WeakPoint
	for _, wp := range wps {
		if wp.Severity >= min {
			out = append(out, wp)
		}
	}
	return out
}
