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

var diffCmd = &cobra.Command{
	Use:   "diff BASELINE_REPORT CURRENT_REPORT",
	Short: "Compare two AssailReport JSON files and print what changed (§4.3, P8)",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	var before, after model.AssailReport
	if err := readJSONFile(args[0], &before); err != nil {
		return usageErrorf("diff: reading baseline %s: %v", args[0], err)
	}
	if err := readJSONFile(args[1], &after); err != nil {
		return usageErrorf("diff: reading current report %s: %v", args[1], err)
	}

	diffReport := aggregate.Diff(before, after)

	if storePath != "" {
		store, err := report.NewStore(storePath)
		if err != nil {
			return err
		}
		if _, err := store.Save(report.KindDiffReport, after.ProgramPath, time.Now(), diffReport); err != nil {
			return fmt.Errorf("diff: storing report: %w", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(diffReport); err != nil {
		return err
	}

	if diffReport.NetSeverityDelta > 0 || len(diffReport.New) > 0 {
		exitCode = 1
	}
	return nil
}
