package cli

import (
	"runtime"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/assailsec/assail/internal/model"
)

func shellEchoCmd(body string) (cmd string, args []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", body}
	}
	return "/bin/sh", []string{"-c", body}
}

func TestRunAttack_CleanExitReportsSuccess(t *testing.T) {
	auditPath = ""
	exitCode = 0
	attackAxis = string(model.AxisCPU)
	attackIntensity = string(model.IntensityLight)
	attackDuration = 2 * time.Second
	attackProbeMode = string(model.ProbeNever)

	cmd, args := shellEchoCmd("exit 0")
	if err := runAttack(&cobra.Command{}, append([]string{cmd}, args...)); err != nil {
		t.Fatalf("runAttack: %v", err)
	}
	if exitCode != 0 {
		t.Errorf("exitCode = %d, want 0 for a clean exit", exitCode)
	}
}
