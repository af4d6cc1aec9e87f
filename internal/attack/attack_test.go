package attack

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/assailsec/assail/internal/model"
)

func shellEcho(body string) (cmd string, args []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", body}
	}
	return "/bin/sh", []string{"-c", body}
}

func TestOrchestrator_Run_CleanExit(t *testing.T) {
	cmd, args := shellEcho("exit 0")
	req := model.AttackRequest{
		Axis:          model.AxisCPU,
		Intensity:     model.IntensityLight,
		Duration:      5 * time.Second,
		TargetCommand: cmd,
		TargetArgs:    args,
		ProbeMode:     model.ProbeNever,
	}

	o := NewOrchestrator()
	result, err := o.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Success {
		t.Errorf("Success = false, want true for a clean exit")
	}
	if result.TimedOut {
		t.Errorf("TimedOut = true, want false")
	}
	if result.ExitCode == nil || *result.ExitCode != 0 {
		t.Errorf("ExitCode = %v, want 0", result.ExitCode)
	}
}

func TestOrchestrator_Run_Timeout(t *testing.T) {
	cmd, args := shellEcho("sleep 5")
	req := model.AttackRequest{
		Axis:          model.AxisCPU,
		Intensity:     model.IntensityLight,
		Duration:      50 * time.Millisecond,
		TargetCommand: cmd,
		TargetArgs:    args,
		ProbeMode:     model.ProbeNever,
	}

	o := NewOrchestrator()
	result, err := o.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.TimedOut {
		t.Errorf("TimedOut = false, want true")
	}
	if !result.Success {
		t.Errorf("Success = false, want true (timeout is a successful completion per the error taxonomy)")
	}
}

func TestOrchestrator_Run_PanicSignature(t *testing.T) {
	cmd, args := shellEcho(`echo "panic: runtime error: index out of range" 1>&2; exit 2`)
	req := model.AttackRequest{
		Axis:          model.AxisMemory,
		Intensity:     model.IntensityMedium,
		Duration:      5 * time.Second,
		TargetCommand: cmd,
		TargetArgs:    args,
		ProbeMode:     model.ProbeNever,
	}

	o := NewOrchestrator()
	result, err := o.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Crashes) != 1 {
		t.Fatalf("Crashes = %v, want exactly 1", result.Crashes)
	}
	if result.Crashes[0].Signal != "panic" {
		t.Errorf("Signal = %s, want panic", result.Crashes[0].Signal)
	}
	if len(result.SignaturesDetected) != 1 || result.SignaturesDetected[0].SignatureType != "UnhandledPanic" {
		t.Errorf("SignaturesDetected = %v, want a single UnhandledPanic", result.SignaturesDetected)
	}
}

func TestOrchestrator_Run_LaunchFailure(t *testing.T) {
	req := model.AttackRequest{
		Axis:          model.AxisDisk,
		Intensity:     model.IntensityLight,
		Duration:      time.Second,
		TargetCommand: "/no/such/binary-assail-test",
		ProbeMode:     model.ProbeNever,
	}

	o := NewOrchestrator()
	result, err := o.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Success {
		t.Errorf("Success = true, want false for a launch failure")
	}
	if len(result.Crashes) != 1 || result.Crashes[0].Stderr == "" {
		t.Errorf("Crashes = %v, want one entry carrying the launch failure reason", result.Crashes)
	}
}

func TestOrchestrator_Run_ValidatesRequest(t *testing.T) {
	cases := []struct {
		name string
		req  model.AttackRequest
	}{
		{"missing target", model.AttackRequest{Axis: model.AxisCPU, Intensity: model.IntensityLight, Duration: time.Second}},
		{"zero duration", model.AttackRequest{Axis: model.AxisCPU, Intensity: model.IntensityLight, TargetCommand: "true"}},
		{"bad intensity", model.AttackRequest{Axis: model.AxisCPU, Intensity: "ludicrous", Duration: time.Second, TargetCommand: "true"}},
		{"bad probe mode", model.AttackRequest{Axis: model.AxisCPU, Intensity: model.IntensityLight, Duration: time.Second, TargetCommand: "true", ProbeMode: "sometimes"}},
	}

	o := NewOrchestrator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := o.Run(context.Background(), tc.req); err == nil {
				t.Errorf("Run(%+v) error = nil, want an error", tc.req)
			}
		})
	}
}

func TestOrchestrator_Run_RejectsConcurrentSameAxis(t *testing.T) {
	cmd, args := shellEcho("sleep 1")
	req := model.AttackRequest{
		Axis:          model.AxisNetwork,
		Intensity:     model.IntensityLight,
		Duration:      2 * time.Second,
		TargetCommand: cmd,
		TargetArgs:    args,
		ProbeMode:     model.ProbeNever,
	}

	o := NewOrchestrator()
	o.mu.Lock()
	o.running[model.AxisNetwork] = true
	o.mu.Unlock()

	if _, err := o.Run(context.Background(), req); err == nil {
		t.Errorf("Run with a held axis lock: error = nil, want an error")
	}
}

func TestTokenizeTarget_SplitsCommandAndAppendsArgs(t *testing.T) {
	req := model.AttackRequest{
		TargetCommand: "./fuzz-target --mode=stdin",
		TargetArgs:    []string{"--seed=42"},
	}
	argv, err := tokenizeTarget(req)
	if err != nil {
		t.Fatalf("tokenizeTarget: %v", err)
	}
	want := []string{"./fuzz-target", "--mode=stdin", "--seed=42"}
	if len(argv) != len(want) {
		t.Fatalf("argv = %v, want %v", argv, want)
	}
	for i := range want {
		if argv[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, argv[i], want[i])
		}
	}
}

func TestClassifyBreakage(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"panic: oops\ngoroutine 1 [running]:", "panic"},
		{"WARNING: DATA RACE", "race"},
		{"signal SIGSEGV: segmentation violation", "segfault"},
		{"assertion failed: x == y", "assertion"},
		{"all good, clean run", ""},
	}
	for _, tc := range tests {
		if got := classifyBreakage(tc.output, nil); got != tc.want {
			t.Errorf("classifyBreakage(%q) = %q, want %q", tc.output, got, tc.want)
		}
	}
}

func TestDefaultStressors_CoverEveryAxis(t *testing.T) {
	axes := map[model.AttackAxis]bool{}
	for _, s := range DefaultStressors() {
		axes[s.Axis()] = true
	}
	for _, axis := range []model.AttackAxis{
		model.AxisCPU, model.AxisMemory, model.AxisDisk,
		model.AxisNetwork, model.AxisConcurrency, model.AxisTime,
	} {
		if !axes[axis] {
			t.Errorf("no default stressor registered for axis %s", axis)
		}
	}
}

func TestStressor_ApplyAndStopDoNotHang(t *testing.T) {
	for _, s := range DefaultStressors() {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		stop, err := s.Apply(ctx, model.IntensityLight)
		if err != nil {
			cancel()
			t.Fatalf("%s.Apply: %v", s.Axis(), err)
		}
		cancel()
		done := make(chan struct{})
		go func() { stop(); close(done) }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Errorf("%s stressor's stop() did not return promptly after ctx cancellation", s.Axis())
		}
	}
}
