package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func TestRunFullRun_ScansThenAttacksDefaultAxis(t *testing.T) {
	storePath = ""
	configPath = ""
	fullRunAxes = nil
	fullRunIntensity = "light"
	fullRunDuration = time.Second
	exitCode = 0

	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\nfunc main() {}\n"), 0o644)

	binary := "/bin/true"
	if runtime.GOOS == "windows" {
		binary = "cmd"
	}
	fullRunBinary = binary

	if err := runFullRun(&cobra.Command{}, []string{dir}); err != nil {
		t.Fatalf("runFullRun: %v", err)
	}
}
