package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/assailsec/assail/internal/aggregate"
	"github.com/assailsec/assail/internal/auditlog"
	"github.com/assailsec/assail/internal/domain"
	"github.com/assailsec/assail/internal/engine"
	"github.com/assailsec/assail/internal/model"
	"github.com/assailsec/assail/internal/report"
)

var (
	scanVerbose         bool
	scanIncludeTestCode bool
	scanOutput          string
	scanFormat          string
)

var scanCmd = &cobra.Command{
	Use:     "scan SOURCE_PATH",
	Aliases: []string{"assail"},
	Short:   "Run static weak-point analysis over a source tree (C1-C3)",
	Args:    cobra.ExactArgs(1),
	RunE:    runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanVerbose, "verbose", false, "Print every weak point, not just the summary")
	scanCmd.Flags().BoolVar(&scanIncludeTestCode, "include-test-code", false, "Count weak points found in test files toward the report")
	scanCmd.Flags().StringVar(&scanOutput, "output", "", "Write the report to this path instead of stdout")
	scanCmd.Flags().StringVar(&scanFormat, "format", "json", "Output format: json or text")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := openAuditLog()
	if err != nil {
		return err
	}
	defer logger.Close()

	aggCfg := aggregate.DefaultConfig()
	aggCfg.Extract.IncludeTestCode = scanIncludeTestCode || cfg.IncludeTestCode

	rep, scanErr := aggregate.Aggregate(sourcePath, aggCfg)

	logEvent := auditlog.Event{
		Type:    auditlog.EventScan,
		Program: sourcePath,
	}
	if scanErr != nil {
		logEvent.Error = scanErr.Error()
		logger.Log(logEvent)
		return fmt.Errorf("scan: %w", scanErr)
	}
	rep = domain.AnalyzeStatic(rep, engine.BoundaryFirst)
	logEvent.Detail = map[string]interface{}{
		"weak_points":           len(rep.WeakPoints),
		"taint_vulnerabilities": len(rep.TaintVulnerabilities),
		"cross_boundary_risks":  len(rep.CrossBoundaryRisks),
	}
	logger.Log(logEvent)

	if storePath != "" {
		store, err := report.NewStore(storePath)
		if err != nil {
			return err
		}
		if _, err := store.Save(report.KindAssailReport, sourcePath, rep.GeneratedAt, rep); err != nil {
			return fmt.Errorf("scan: storing report: %w", err)
		}
	}

	return writeScanOutput(cmd, rep)
}

func writeScanOutput(cmd *cobra.Command, rep model.AssailReport) error {
	var out *os.File = os.Stdout
	if scanOutput != "" {
		f, err := os.Create(scanOutput)
		if err != nil {
			return fmt.Errorf("scan: opening output: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch scanFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "text":
		return writeScanText(out, rep)
	default:
		return usageErrorf("scan: unknown --format %q (want json or text)", scanFormat)
	}
}

func writeScanText(out *os.File, rep model.AssailReport) error {
	fmt.Fprintf(out, "%s: %d weak points across %d files (language: %s)\n",
		rep.ProgramPath, len(rep.WeakPoints), len(rep.FileStatistics), rep.Language)
	if len(rep.TaintVulnerabilities) > 0 || len(rep.CrossBoundaryRisks) > 0 {
		fmt.Fprintf(out, "  %d taint vulnerabilities, %d cross-boundary risks\n",
			len(rep.TaintVulnerabilities), len(rep.CrossBoundaryRisks))
	}

	if !scanVerbose {
		return nil
	}
	for _, wp := range rep.WeakPoints {
		fmt.Fprintf(out, "  [%s] %s:%d %s - %s\n",
			wp.Severity, wp.Location.File, wp.Location.Line, wp.Category, wp.Description)
	}
	return nil
}
