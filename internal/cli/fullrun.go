package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/assailsec/assail/internal/aggregate"
	"github.com/assailsec/assail/internal/attack"
	"github.com/assailsec/assail/internal/auditlog"
	"github.com/assailsec/assail/internal/domain"
	"github.com/assailsec/assail/internal/engine"
	"github.com/assailsec/assail/internal/model"
	"github.com/assailsec/assail/internal/report"
)

var (
	fullRunAxes      []string
	fullRunIntensity string
	fullRunDuration  time.Duration
	fullRunBinary    string
)

var fullRunCmd = &cobra.Command{
	Use:     "full-run SOURCE_PATH",
	Aliases: []string{"assault"},
	Short:   "Scan, then attack every recommended axis against a binary and infer crash signatures (C1-C4.7)",
	Args:    cobra.ExactArgs(1),
	RunE:    runFullRun,
}

func init() {
	fullRunCmd.Flags().StringSliceVar(&fullRunAxes, "axes", nil, "Axes to attack (default: the scan's recommended_attacks)")
	fullRunCmd.Flags().StringVar(&fullRunIntensity, "intensity", string(model.IntensityMedium), "Intensity applied to every axis: light, medium, heavy, extreme")
	fullRunCmd.Flags().DurationVar(&fullRunDuration, "duration", 30*time.Second, "How long to hold each stressor")
	fullRunCmd.Flags().StringVar(&fullRunBinary, "binary", "", "Compiled target to attack (default: SOURCE_PATH itself is treated as the executable)")
	rootCmd.AddCommand(fullRunCmd)
}

func runFullRun(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]
	binary := fullRunBinary
	if binary == "" {
		binary = sourcePath
	}

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
	aggCfg.Extract.IncludeTestCode = cfg.IncludeTestCode

	assailReport, err := aggregate.Aggregate(sourcePath, aggCfg)
	if err != nil {
		logger.Log(auditlog.Event{Type: auditlog.EventScan, Program: sourcePath, Error: err.Error()})
		return fmt.Errorf("full-run: scanning %s: %w", sourcePath, err)
	}
	assailReport = domain.AnalyzeStatic(assailReport, engine.RiskWeighted)
	logger.Log(auditlog.Event{Type: auditlog.EventScan, Program: sourcePath, Detail: map[string]interface{}{
		"weak_points":           len(assailReport.WeakPoints),
		"taint_vulnerabilities": len(assailReport.TaintVulnerabilities),
		"cross_boundary_risks":  len(assailReport.CrossBoundaryRisks),
	}})

	axes := fullRunAxes
	if len(axes) == 0 {
		for _, a := range assailReport.RecommendedAttacks {
			axes = append(axes, string(a))
		}
	}
	if len(axes) == 0 {
		axes = []string{string(model.AxisCPU)}
	}

	o := attack.NewOrchestrator()

	var attackResults []model.AttackResult
	for _, axisName := range axes {
		req := model.AttackRequest{
			Axis:          model.AttackAxis(strings.TrimSpace(axisName)),
			Intensity:     model.Intensity(fullRunIntensity),
			Duration:      fullRunDuration,
			TargetCommand: binary,
			ProbeMode:     model.ProbeAuto,
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), fullRunDuration+30*time.Second)
		res, runErr := o.Run(ctx, req)
		cancel()

		event := auditlog.Event{Type: auditlog.EventAttack, Program: binary, Axis: axisName}
		if runErr != nil {
			event.Error = runErr.Error()
			logger.Log(event)
			return fmt.Errorf("full-run: attacking axis %s: %w", axisName, runErr)
		}
		event.Detail = map[string]interface{}{"success": res.Success, "crashes": len(res.Crashes)}
		logger.Log(event)

		attackResults = append(attackResults, res)
	}

	runID := report.NewRunID()
	assault := report.BuildAssaultReport(assailReport, attackResults, runID)

	if storePath != "" {
		store, err := report.NewStore(storePath)
		if err != nil {
			return err
		}
		if _, err := store.Save(report.KindAssaultReport, sourcePath, time.Now(), assault); err != nil {
			return fmt.Errorf("full-run: storing report: %w", err)
		}
	}

	if assault.OverallAssessment.RobustnessScore < 50 {
		exitCode = 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(assault)
}
