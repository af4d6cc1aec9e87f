package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/assailsec/assail/internal/attack"
	"github.com/assailsec/assail/internal/auditlog"
	"github.com/assailsec/assail/internal/model"
	"github.com/assailsec/assail/internal/normalize"
	"github.com/assailsec/assail/internal/report"
)

var (
	ambushTimelineFile string
	ambushDeadline     time.Duration
)

var ambushCmd = &cobra.Command{
	Use:   "ambush TARGET_COMMAND [-- TARGET_ARGS...]",
	Short: "Run a target once under concurrent ambient stressors scheduled by a timeline file",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAmbush,
}

func init() {
	ambushCmd.Flags().StringVar(&ambushTimelineFile, "timeline", "", "JSON file listing [{axis, intensity, start_offset, duration}] stressor windows (required)")
	ambushCmd.Flags().DurationVar(&ambushDeadline, "deadline", 0, "Overall run deadline (default: derived from the timeline's last window)")
	rootCmd.AddCommand(ambushCmd)
}

func runAmbush(cmd *cobra.Command, args []string) error {
	if ambushTimelineFile == "" {
		return usageErrorf("ambush: --timeline is required")
	}

	var timeline []attack.TimelineEntry
	if err := readJSONFile(ambushTimelineFile, &timeline); err != nil {
		return usageErrorf("ambush: reading timeline %s: %v", ambushTimelineFile, err)
	}

	logger, err := openAuditLog()
	if err != nil {
		return err
	}
	defer logger.Close()

	o := attack.NewOrchestrator()
	req := attack.AmbushRequest{
		TargetCommand: args[0],
		TargetArgs:    args[1:],
		Timeline:      timeline,
		TimelineFile:  ambushTimelineFile,
		Deadline:      ambushDeadline,
	}

	audience, runErr := o.RunAmbush(cmd.Context(), req)

	event := auditlog.Event{Type: auditlog.EventAttack, Program: req.TargetCommand, Axis: "ambush"}
	if runErr != nil {
		event.Error = runErr.Error()
		logger.Log(event)
		return fmt.Errorf("ambush: %w", runErr)
	}
	wd, _ := os.Getwd()
	nc := normalize.Normalize(append([]string{req.TargetCommand}, req.TargetArgs...), wd)
	event.Detail = map[string]interface{}{
		"timeline_entries": len(timeline),
		"paths":            nc.Paths,
		"domains":          nc.Domains,
	}
	logger.Log(event)

	if storePath != "" {
		artifact := report.NewCampaignArtifact(model.ArtifactAudience, req.TargetCommand, time.Now(), report.NewRunID(), nil)
		artifact.Audience = &audience
		if _, err := saveArtifact(storePath, "audience", req.TargetCommand, artifact); err != nil {
			return fmt.Errorf("ambush: storing report: %w", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(audience)
}
