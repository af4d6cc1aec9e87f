package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/assailsec/assail/internal/attack"
	"github.com/assailsec/assail/internal/model"
)

func TestRunAmbush_RequiresTimelineFlag(t *testing.T) {
	ambushTimelineFile = ""
	exitCode = 0

	err := runAmbush(&cobra.Command{}, []string{"/bin/true"})
	if err == nil {
		t.Fatal("expected an error when --timeline is not set")
	}
	if exitCode != 2 {
		t.Errorf("exitCode = %d, want 2", exitCode)
	}
}

func TestRunAmbush_RunsTargetWithTimelineFile(t *testing.T) {
	storePath = ""
	auditPath = ""
	exitCode = 0
	ambushDeadline = 3 * time.Second

	timeline := []attack.TimelineEntry{
		{Axis: model.AxisCPU, Intensity: model.IntensityLight, StartOffset: 0, Duration: 200 * time.Millisecond},
	}
	raw, _ := json.Marshal(timeline)
	path := filepath.Join(t.TempDir(), "timeline.json")
	os.WriteFile(path, raw, 0o644)
	ambushTimelineFile = path

	if err := runAmbush(&cobra.Command{}, []string{"/bin/true"}); err != nil {
		t.Fatalf("runAmbush: %v", err)
	}
}
