package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/assailsec/assail/internal/model"
)

func resetScanFlags() {
	scanVerbose = false
	scanIncludeTestCode = false
	scanOutput = ""
	scanFormat = "json"
	configPath = ""
	storePath = ""
	auditPath = ""
}

func TestRunScan_WritesJSONReportToOutputFile(t *testing.T) {
	resetScanFlags()
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\nfunc main() { var x interface{}; _ = x.(int) }\n"), 0o644)

	out := filepath.Join(t.TempDir(), "report.json")
	scanOutput = out
	scanFormat = "json"

	if err := runScan(&cobra.Command{}, []string{dir}); err != nil {
		t.Fatalf("runScan: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var rep model.AssailReport
	if err := json.Unmarshal(raw, &rep); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rep.ProgramPath == "" {
		t.Errorf("ProgramPath empty")
	}
}

func TestRunScan_TextFormatRespectsVerbose(t *testing.T) {
	resetScanFlags()
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\nfunc main() { panic(\"boom\") }\n"), 0o644)

	out := filepath.Join(t.TempDir(), "report.txt")
	scanOutput = out
	scanFormat = "text"
	scanVerbose = true

	if err := runScan(&cobra.Command{}, []string{dir}); err != nil {
		t.Fatalf("runScan: %v", err)
	}

	raw, _ := os.ReadFile(out)
	if len(raw) == 0 {
		t.Errorf("expected non-empty text report")
	}
}

func TestRunScan_RejectsUnknownFormat(t *testing.T) {
	resetScanFlags()
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644)
	scanFormat = "xml"

	err := runScan(&cobra.Command{}, []string{dir})
	if err == nil {
		t.Fatal("expected an error for unknown format")
	}
	if exitCode != 2 {
		t.Errorf("exitCode = %d, want 2 (usage error)", exitCode)
	}
}

func TestRunScan_StoresReportWhenStorePathSet(t *testing.T) {
	resetScanFlags()
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644)

	store := t.TempDir()
	storePath = store
	scanOutput = filepath.Join(t.TempDir(), "out.json")

	if err := runScan(&cobra.Command{}, []string{dir}); err != nil {
		t.Fatalf("runScan: %v", err)
	}

	if _, err := os.Stat(filepath.Join(store, "assail_report")); err != nil {
		t.Errorf("expected assail_report directory in store: %v", err)
	}
}

func TestWriteScanText_SummaryLineMentionsCounts(t *testing.T) {
	resetScanFlags()
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rep := model.AssailReport{
		ProgramPath: "/tmp/prog",
		WeakPoints: []model.WeakPoint{
			{Category: "unsafe_block", Location: model.Location{File: "a.go", Line: 3}, Severity: model.High, Description: "x"},
		},
	}
	if err := writeScanText(f, rep); err != nil {
		t.Fatalf("writeScanText: %v", err)
	}

	var buf bytes.Buffer
	data, _ := os.ReadFile(f.Name())
	buf.Write(data)
	if !bytes.Contains(buf.Bytes(), []byte("/tmp/prog")) {
		t.Errorf("summary missing program path: %s", buf.String())
	}
}
