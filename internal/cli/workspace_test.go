package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func TestRunWorkspace_ScansEachSubdirectoryAsAPackage(t *testing.T) {
	storePath = ""
	workspaceParallelism = 0
	workspaceMinSeverity = ""
	workspaceOutput = ""
	configPath = ""

	root := t.TempDir()
	pkgDir := filepath.Join(root, "pkga")
	os.MkdirAll(pkgDir, 0o755)
	os.WriteFile(filepath.Join(pkgDir, "main.go"), []byte("package main\nfunc main() { panic(\"x\") }\n"), 0o644)

	out := filepath.Join(t.TempDir(), "workspace.json")
	workspaceOutput = out

	if err := runWorkspace(&cobra.Command{}, []string{root}); err != nil {
		t.Fatalf("runWorkspace: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected workspace output file: %v", err)
	}
}

func TestRunWorkspace_RejectsUnknownMinSeverity(t *testing.T) {
	storePath = ""
	workspaceOutput = ""
	workspaceMinSeverity = "apocalyptic"

	root := t.TempDir()
	err := runWorkspace(&cobra.Command{}, []string{root})
	if err == nil {
		t.Fatal("expected an error for an unknown severity")
	}
	if exitCode != 2 {
		t.Errorf("exitCode = %d, want 2", exitCode)
	}
}
