package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/assailsec/assail/internal/auditlog"
	"github.com/assailsec/assail/internal/domain"
	"github.com/assailsec/assail/internal/engine"
	"github.com/assailsec/assail/internal/model"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze CRASH_REPORT",
	Short: "Run the crash-signature engine (C5) against a stored CrashReport",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	var cr model.CrashReport
	if err := readJSONFile(path, &cr); err != nil {
		return usageErrorf("analyze: reading crash report %s: %v", path, err)
	}

	logger, err := openAuditLog()
	if err != nil {
		return err
	}
	defer logger.Close()

	db := engine.NewDatabase(domain.SeedCrashFacts(cr)...)
	signatures := domain.DetectCrashSignatures(db)

	logger.Log(auditlog.Event{
		Type:   auditlog.EventScan,
		Detail: map[string]interface{}{"signatures": len(signatures)},
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(signatures)
}
