package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/assailsec/assail/internal/model"
)

func writeArtifactFixture(t *testing.T, path string, a model.CampaignArtifact) {
	t.Helper()
	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
}

func TestRunAdjudicate_FailsOnUncoveredCriticalWeakPoint(t *testing.T) {
	storePath = ""
	adjudicateBaseline = ""
	exitCode = 0

	assault := model.AssaultReport{
		AssailReport: model.AssailReport{
			WeakPoints: []model.WeakPoint{
				{Category: "unsafe_block", Location: model.Location{File: "a.go", Line: 5}, Severity: model.Critical},
			},
		},
	}
	artifact := model.CampaignArtifact{
		Kind:        model.ArtifactAssault,
		GeneratedAt: time.Now(),
		Assault:     &assault,
	}

	path := filepath.Join(t.TempDir(), "artifact.json")
	writeArtifactFixture(t, path, artifact)

	if err := runAdjudicate(&cobra.Command{}, []string{path}); err != nil {
		t.Fatalf("runAdjudicate: %v", err)
	}
	if exitCode != 1 {
		t.Errorf("exitCode = %d, want 1 (fail) for an uncovered critical weak point", exitCode)
	}
}

func TestRunAdjudicate_RejectsUnreadableArtifact(t *testing.T) {
	exitCode = 0
	err := runAdjudicate(&cobra.Command{}, []string{"/nonexistent/artifact.json"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if exitCode != 2 {
		t.Errorf("exitCode = %d, want 2", exitCode)
	}
}
