package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/assailsec/assail/internal/auditlog"
	"github.com/assailsec/assail/internal/isolate"
	"github.com/assailsec/assail/internal/model"
	"github.com/assailsec/assail/internal/report"
)

var (
	isolateScope       string
	isolateMtimeOffset time.Duration
	isolateLock        bool
)

var isolateCmd = &cobra.Command{
	Use:     "isolate TARGET",
	Aliases: []string{"abduct"},
	Short:   "Copy a target into a quarantine workspace, optionally back-dating and locking it",
	Args:    cobra.ExactArgs(1),
	RunE:    runIsolate,
}

func init() {
	isolateCmd.Flags().StringVar(&isolateScope, "scope", string(isolate.ScopeDirect), "What to copy alongside the target: direct, directory")
	isolateCmd.Flags().DurationVar(&isolateMtimeOffset, "mtime-offset", 0, "Offset applied to every copied file's mtime (e.g. -720h to back-date by 30 days)")
	isolateCmd.Flags().BoolVar(&isolateLock, "lock", false, "Mark the quarantine workspace and its contents read-only")
	rootCmd.AddCommand(isolateCmd)
}

func runIsolate(cmd *cobra.Command, args []string) error {
	target := args[0]

	logger, err := openAuditLog()
	if err != nil {
		return err
	}
	defer logger.Close()

	req := isolate.Request{
		Target:      target,
		Scope:       isolate.Scope(isolateScope),
		MtimeOffset: isolateMtimeOffset,
		Lock:        isolateLock,
	}

	rep, runErr := isolate.Quarantine(req)

	event := auditlog.Event{Type: auditlog.EventIsolate, Program: target}
	if runErr != nil {
		event.Error = runErr.Error()
		logger.Log(event)
		return fmt.Errorf("isolate: %w", runErr)
	}
	event.Detail = map[string]interface{}{"quarantine_path": rep.QuarantinePath, "copied": len(rep.CopiedPaths)}
	logger.Log(event)

	if storePath != "" {
		artifact := report.NewCampaignArtifact(model.ArtifactIsolation, target, time.Now(), report.NewRunID(), nil)
		artifact.Isolation = &rep
		if _, err := saveArtifact(storePath, "isolation", target, artifact); err != nil {
			return fmt.Errorf("isolate: storing report: %w", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
