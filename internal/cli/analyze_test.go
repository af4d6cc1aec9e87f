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

func TestRunAnalyze_ReadsStoredCrashReport(t *testing.T) {
	auditPath = ""
	cr := model.CrashReport{
		Timestamp: time.Now(),
		Signal:    "sigsegv",
		Backtrace: "free(buf)\nuse(buf)",
	}
	raw, _ := json.Marshal(cr)
	path := filepath.Join(t.TempDir(), "crash.json")
	os.WriteFile(path, raw, 0o644)

	if err := runAnalyze(&cobra.Command{}, []string{path}); err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}
}

func TestRunAnalyze_RejectsUnreadableReport(t *testing.T) {
	auditPath = ""
	if err := runAnalyze(&cobra.Command{}, []string{"/nonexistent/crash.json"}); err == nil {
		t.Fatal("expected an error")
	}
}
