package attack

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sort"
	"time"

	"github.com/assailsec/assail/internal/model"
)

var errTargetRequired = errors.New("attack: ambush target_command is required")

// TimelineEntry schedules one stressor's application window against a
// single ambush run, relative to the target's launch (§6's ambush command:
// "run target under concurrent ambient stressors per a timeline spec").
// Timelines are plain JSON, never a bespoke DSL (spec's Non-goal rules out
// timeline DSL parsing).
type TimelineEntry struct {
	Axis        model.AttackAxis `json:"axis"`
	Intensity   model.Intensity  `json:"intensity"`
	StartOffset time.Duration    `json:"start_offset"`
	Duration    time.Duration    `json:"duration"`
}

// AmbushRequest is ambush's input: a target to run once, and a timeline of
// ambient stressors to layer onto it concurrently while it runs.
type AmbushRequest struct {
	TargetCommand string
	TargetArgs    []string
	Timeline      []TimelineEntry
	TimelineFile  string // carried through to AudienceReport verbatim
	Deadline      time.Duration
}

// RunAmbush launches req.TargetCommand once and, for each TimelineEntry,
// applies that axis's Stressor concurrently for the scheduled window,
// independent of the single-axis exclusivity Orchestrator.Run enforces —
// ambush's whole point is overlapping pressure. It returns one
// AudienceReport whose single Outcome is the target's overall run result,
// with per-entry stressor-attach failures folded into Crashes as
// "stressor_attach_failed" markers rather than aborting the run (mirroring
// §5's "stressor failures are isolated from the core").
func (o *Orchestrator) RunAmbush(ctx context.Context, req AmbushRequest) (model.AudienceReport, error) {
	if req.TargetCommand == "" {
		return model.AudienceReport{}, errTargetRequired
	}

	deadline := req.Deadline
	if deadline <= 0 {
		deadline = maxTimelineSpan(req.Timeline)
	}

	execCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	cmd := exec.CommandContext(execCtx, req.TargetCommand, req.TargetArgs...)
	setupProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		result := failedLaunch(model.AttackRequest{TargetCommand: req.TargetCommand}, err.Error())
		return model.AudienceReport{TimelineFile: req.TimelineFile, Outcomes: []model.AttackResult{result}}, nil
	}

	var stopFns []func()
	var attachFailures []string
	for _, entry := range req.Timeline {
		entry := entry
		stressor, ok := o.stressors[entry.Axis]
		if !ok || stressor == nil {
			continue
		}
		go func() {
			select {
			case <-time.After(entry.StartOffset):
			case <-execCtx.Done():
				return
			}
			windowCtx, windowCancel := context.WithTimeout(execCtx, entry.Duration)
			defer windowCancel()
			stop, err := stressor.Apply(windowCtx, entry.Intensity)
			if err != nil {
				attachFailures = append(attachFailures, string(entry.Axis)+": "+err.Error())
				return
			}
			o.trackStop(&stopFns, stop)
			<-windowCtx.Done()
		}()
	}

	start := time.Now()
	runErr := cmd.Wait()
	duration := time.Since(start)

	for _, stop := range stopFns {
		stop()
	}
	_ = killProcessGroup(cmd)

	result := model.AttackResult{
		Program:  req.TargetCommand,
		Duration: duration,
		Success:  true,
	}

	combined := stdout.String() + "\n" + stderr.String()
	if execCtx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		result.Crashes = append(result.Crashes, model.CrashReport{
			Timestamp: time.Now(), Signal: "timeout",
			Stdout: stdout.String(), Stderr: stderr.String(),
		})
		result.SignaturesDetected = classify(stdout.String(), stderr.String(), "timeout")
	} else if exitErr, ok := runErr.(*exec.ExitError); ok {
		code := exitErr.ExitCode()
		result.ExitCode = &code
		breakage := classifyBreakage(combined, exitErr)
		if breakage != "" {
			result.Crashes = append(result.Crashes, model.CrashReport{
				Timestamp: time.Now(), Signal: breakage,
				Stdout: stdout.String(), Stderr: stderr.String(),
			})
		}
		result.SignaturesDetected = classify(stdout.String(), stderr.String(), breakage)
	} else {
		code := 0
		result.ExitCode = &code
		result.SignaturesDetected = classify(stdout.String(), stderr.String(), "")
	}

	for _, failure := range attachFailures {
		result.Crashes = append(result.Crashes, model.CrashReport{
			Timestamp: time.Now(), Signal: "stressor_attach_failed", Stderr: failure,
		})
	}

	return model.AudienceReport{
		TimelineFile: req.TimelineFile,
		Outcomes:     []model.AttackResult{result},
	}, nil
}

func (o *Orchestrator) trackStop(stopFns *[]func(), stop func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	*stopFns = append(*stopFns, stop)
}

func maxTimelineSpan(timeline []TimelineEntry) time.Duration {
	if len(timeline) == 0 {
		return 30 * time.Second
	}
	sorted := make([]TimelineEntry, len(timeline))
	copy(sorted, timeline)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartOffset+sorted[i].Duration > sorted[j].StartOffset+sorted[j].Duration
	})
	span := sorted[0].StartOffset + sorted[0].Duration
	return span + 10*time.Second
}
