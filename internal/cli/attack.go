package cli

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/assailsec/assail/internal/attack"
	"github.com/assailsec/assail/internal/auditlog"
	"github.com/assailsec/assail/internal/model"
	"github.com/assailsec/assail/internal/normalize"
)

var (
	attackAxis      string
	attackIntensity string
	attackDuration  time.Duration
	attackProbeMode string
)

var attackCmd = &cobra.Command{
	Use:   "attack TARGET_COMMAND [-- TARGET_ARGS...]",
	Short: "Stress a running target along a single axis and report what broke (C4)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAttack,
}

func init() {
	attackCmd.Flags().StringVar(&attackAxis, "axis", string(model.AxisCPU), "Attack axis: cpu, memory, disk, network, concurrency, time")
	attackCmd.Flags().StringVar(&attackIntensity, "intensity", string(model.IntensityMedium), "Intensity: light, medium, heavy, extreme")
	attackCmd.Flags().DurationVar(&attackDuration, "duration", 30*time.Second, "How long to hold the stressor")
	attackCmd.Flags().StringVar(&attackProbeMode, "probe-mode", string(model.ProbeAuto), "Crash-signature probing: auto, always, never")
	rootCmd.AddCommand(attackCmd)
}

func runAttack(cmd *cobra.Command, args []string) error {
	logger, err := openAuditLog()
	if err != nil {
		return err
	}
	defer logger.Close()

	req := model.AttackRequest{
		Axis:          model.AttackAxis(attackAxis),
		Intensity:     model.Intensity(attackIntensity),
		Duration:      attackDuration,
		TargetCommand: args[0],
		TargetArgs:    args[1:],
		ProbeMode:     model.ProbeMode(attackProbeMode),
	}

	o := attack.NewOrchestrator()

	ctx, cancel := context.WithTimeout(cmd.Context(), attackDuration+30*time.Second)
	defer cancel()

	res, runErr := o.Run(ctx, req)

	event := auditlog.Event{
		Type:    auditlog.EventAttack,
		Program: req.TargetCommand,
		Axis:    string(req.Axis),
	}
	if runErr != nil {
		event.Error = runErr.Error()
		logger.Log(event)
		return runErr
	}
	wd, _ := os.Getwd()
	nc := normalize.Normalize(append([]string{req.TargetCommand}, req.TargetArgs...), wd)
	event.Detail = map[string]interface{}{
		"success":  res.Success,
		"crashes":  len(res.Crashes),
		"timedOut": res.TimedOut,
		"paths":    nc.Paths,
		"domains":  nc.Domains,
	}
	logger.Log(event)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if !res.Success {
		exitCode = 1
	}
	return nil
}
