package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/assailsec/assail/internal/auditlog"
	"github.com/assailsec/assail/internal/campaign"
	"github.com/assailsec/assail/internal/model"
	"github.com/assailsec/assail/internal/report"
)

var adjudicateBaseline string

var adjudicateCmd = &cobra.Command{
	Use:   "adjudicate ARTIFACT_PATH [ARTIFACT_PATH...]",
	Short: "Merge campaign artifacts into a single pass/warn/fail Verdict (C6)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdjudicate,
}

func init() {
	adjudicateCmd.Flags().StringVar(&adjudicateBaseline, "baseline", "", "A prior AssailReport JSON to diff against for regression Warn atoms")
	rootCmd.AddCommand(adjudicateCmd)
}

func runAdjudicate(cmd *cobra.Command, args []string) error {
	logger, err := openAuditLog()
	if err != nil {
		return err
	}
	defer logger.Close()

	artifacts := make([]model.CampaignArtifact, 0, len(args))
	for _, path := range args {
		var a model.CampaignArtifact
		if err := readJSONFile(path, &a); err != nil {
			return usageErrorf("adjudicate: reading artifact %s: %v", path, err)
		}
		artifacts = append(artifacts, a)
	}

	cfg := campaign.DefaultConfig()
	if adjudicateBaseline != "" {
		var baseline model.AssailReport
		if err := readJSONFile(adjudicateBaseline, &baseline); err != nil {
			return usageErrorf("adjudicate: reading baseline %s: %v", adjudicateBaseline, err)
		}
		cfg.Baseline = &baseline
	}

	verdict := campaign.Adjudicate(artifacts, cfg)

	logger.Log(auditlog.Event{
		Type:    auditlog.EventAdjudicate,
		Verdict: string(verdict.Status),
		Detail:  map[string]interface{}{"priorities": len(verdict.Priorities)},
	})

	if storePath != "" {
		store, err := report.NewStore(storePath)
		if err != nil {
			return err
		}
		if _, err := store.Save(report.KindVerdict, "campaign", time.Now(), verdict); err != nil {
			return fmt.Errorf("adjudicate: storing verdict: %w", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(verdict); err != nil {
		return err
	}

	switch verdict.Status {
	case model.VerdictFail:
		exitCode = 1
	case model.VerdictWarn, model.VerdictPass:
	}
	return nil
}

func readJSONFile(path string, v interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
