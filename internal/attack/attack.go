// Package attack implements the dynamic Attack Orchestrator contract (§4.7):
// run a target binary as a subprocess under one stressor axis, guarantee its
// termination on timeout or cancellation, and surface a BugSignature-bearing
// AttackResult without ever letting a stressor's own failure abort the run.
//
// The orchestration shape (timeout context, breakage classification from
// captured output, process-group teardown) is grounded on the teacher's
// nemesis.AttackRunner and tactile's platform_unix.go; the axis-keyed
// stressor registry is new but follows the same "contract only" boundary
// the module map draws around stressor primitives.
package attack

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"mvdan.cc/sh/v3/syntax"

	"github.com/assailsec/assail/internal/model"
)

// Stressor applies ambient pressure along one axis while the target runs.
// Apply starts the pressure and returns a stop func that releases it; Apply
// must not block past ctx's deadline and must recover its own panics so a
// broken stressor never aborts the orchestrator's own process (§5).
type Stressor interface {
	Axis() model.AttackAxis
	Apply(ctx context.Context, intensity model.Intensity) (stop func(), err error)
}

// Orchestrator runs AttackRequests against target subprocesses, enforcing
// at-most-one running stressor per axis at a time.
type Orchestrator struct {
	stressors map[model.AttackAxis]Stressor

	mu      sync.Mutex
	running map[model.AttackAxis]bool
}

// NewOrchestrator builds an Orchestrator seeded with the default in-process
// stressor registry (DefaultStressors). Callers may register additional or
// replacement Stressors with Register before calling Run.
func NewOrchestrator() *Orchestrator {
	o := &Orchestrator{
		stressors: make(map[model.AttackAxis]Stressor),
		running:   make(map[model.AttackAxis]bool),
	}
	for _, s := range DefaultStressors() {
		o.Register(s)
	}
	return o
}

// Register installs or replaces the Stressor used for its axis.
func (o *Orchestrator) Register(s Stressor) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stressors[s.Axis()] = s
}

// Run executes req against its target command, applying the axis's stressor
// for the request's duration. It always returns a populated AttackResult;
// SubprocessFailure (launch failure) and Timeout are both non-error typed
// outcomes per §7, so the error return is reserved for request validation.
func (o *Orchestrator) Run(ctx context.Context, req model.AttackRequest) (model.AttackResult, error) {
	if err := validate(req); err != nil {
		return model.AttackResult{}, err
	}

	if err := o.acquire(req.Axis); err != nil {
		return model.AttackResult{}, err
	}
	defer o.release(req.Axis)

	argv, err := tokenizeTarget(req)
	if err != nil {
		return failedLaunch(req, fmt.Sprintf("tokenizing target_command: %v", err)), nil
	}

	result := model.AttackResult{
		Program: req.TargetCommand,
		Axis:    req.Axis,
	}

	execCtx, cancel := context.WithTimeout(ctx, req.Duration)
	defer cancel()

	cmd := exec.CommandContext(execCtx, argv[0], argv[1:]...)
	setupProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	var stop func()
	if s, ok := o.stressors[req.Axis]; ok && s != nil {
		stop, err = s.Apply(execCtx, req.Intensity)
		if err != nil {
			// A stressor that fails to attach degrades to an unstressed run
			// rather than aborting the attack (§5: stressor failures are
			// isolated from the core).
			stop = func() {}
		}
	} else {
		stop = func() {}
	}
	defer stop()

	start := time.Now()
	runErr := cmd.Run()
	result.Duration = time.Since(start)

	if runErr != nil && cmd.ProcessState == nil {
		// The binary itself could not be launched (not found, not
		// executable, ...): SubprocessFailure, §7 item 4.
		return failedLaunch(req, runErr.Error()), nil
	}

	// Regardless of how cmd.Run returned, the process group must be gone
	// before Run returns (§4.7's release guarantee).
	_ = killProcessGroup(cmd)

	if usage := getProcessResourceUsage(cmd); usage != nil {
		peak := usage.MaxRSSBytes
		result.PeakMemoryBytes = &peak
	}

	if execCtx.Err() == context.DeadlineExceeded {
		result.Success = true
		result.TimedOut = true
		result.Crashes = append(result.Crashes, model.CrashReport{
			Timestamp: time.Now(),
			Signal:    "timeout",
			Stdout:    stdout.String(),
			Stderr:    stderr.String(),
		})
		result.SignaturesDetected = classify(stdout.String(), stderr.String(), "timeout")
		return result, nil
	}

	result.Success = true
	combined := stdout.String() + "\n" + stderr.String()
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		code := exitErr.ExitCode()
		result.ExitCode = &code
		breakage := classifyBreakage(combined, exitErr)
		if breakage != "" {
			result.Crashes = append(result.Crashes, model.CrashReport{
				Timestamp: time.Now(),
				Signal:    breakage,
				Stdout:    stdout.String(),
				Stderr:    stderr.String(),
			})
		}
		result.SignaturesDetected = classify(stdout.String(), stderr.String(), breakage)
	} else if runErr == nil {
		code := 0
		result.ExitCode = &code
		result.SignaturesDetected = classify(stdout.String(), stderr.String(), "")
	} else {
		code := -1
		result.ExitCode = &code
	}

	return result, nil
}

func (o *Orchestrator) acquire(axis model.AttackAxis) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running[axis] {
		return fmt.Errorf("attack: axis %s already has a running stressor", axis)
	}
	o.running[axis] = true
	return nil
}

func (o *Orchestrator) release(axis model.AttackAxis) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.running, axis)
}

func validate(req model.AttackRequest) error {
	if strings.TrimSpace(req.TargetCommand) == "" {
		return fmt.Errorf("attack: target_command is required")
	}
	if req.Duration <= 0 {
		return fmt.Errorf("attack: duration must be positive")
	}
	switch req.Intensity {
	case model.IntensityLight, model.IntensityMedium, model.IntensityHeavy, model.IntensityExtreme:
	default:
		return fmt.Errorf("attack: unrecognised intensity %q", req.Intensity)
	}
	switch req.ProbeMode {
	case model.ProbeAuto, model.ProbeAlways, model.ProbeNever, "":
	default:
		return fmt.Errorf("attack: unrecognised probe_mode %q", req.ProbeMode)
	}
	return nil
}

// tokenizeTarget splits req.TargetCommand as a shell word list (so callers
// may pass "./fuzz-target --mode=stdin" as one string) via an
// mvdan.cc/sh/v3 AST parse, then appends req.TargetArgs verbatim.
func tokenizeTarget(req model.AttackRequest) ([]string, error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(req.TargetCommand), "")
	if err != nil {
		return nil, fmt.Errorf("parsing target_command: %w", err)
	}

	var words []string
	for _, stmt := range file.Stmts {
		call, ok := stmt.Cmd.(*syntax.CallExpr)
		if !ok {
			continue
		}
		for _, w := range call.Args {
			words = append(words, wordToString(w))
		}
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("target_command tokenized to zero words")
	}
	return append(words, req.TargetArgs...), nil
}

func wordToString(word *syntax.Word) string {
	var sb strings.Builder
	printer := syntax.NewPrinter()
	printer.Print(&sb, word)
	return sb.String()
}

func failedLaunch(req model.AttackRequest, reason string) model.AttackResult {
	return model.AttackResult{
		Program: req.TargetCommand,
		Axis:    req.Axis,
		Success: false,
		Crashes: []model.CrashReport{{
			Timestamp: time.Now(),
			Stderr:    reason,
		}},
	}
}
