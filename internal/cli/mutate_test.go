package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/assailsec/assail/internal/mutate"
)

func resetMutateFlags() {
	mutatePreset = "default"
	mutateSpecFile = ""
	mutateMaxCombinations = 0
	mutateExecTemplate = ""
	storePath = ""
}

func TestRunMutate_WritesVariantsForDefaultPreset(t *testing.T) {
	resetMutateFlags()
	dir := t.TempDir()
	src := filepath.Join(dir, "check.go")
	os.WriteFile(src, []byte("func ok() bool { return true }\n"), 0o644)

	if err := runMutate(&cobra.Command{}, []string{src}); err != nil {
		t.Fatalf("runMutate: %v", err)
	}
}

func TestRunMutate_RejectsUnknownPreset(t *testing.T) {
	resetMutateFlags()
	mutatePreset = "nonsense"
	dir := t.TempDir()
	src := filepath.Join(dir, "check.go")
	os.WriteFile(src, []byte("func ok() bool { return true }\n"), 0o644)

	err := runMutate(&cobra.Command{}, []string{src})
	if err == nil {
		t.Fatal("expected an error for an unknown preset")
	}
	if exitCode != 2 {
		t.Errorf("exitCode = %d, want 2", exitCode)
	}
}

func TestResolveOperators_SpecFileFiltersByName(t *testing.T) {
	resetMutateFlags()
	specPath := filepath.Join(t.TempDir(), "spec.json")
	os.WriteFile(specPath, []byte(`["negate_boolean_literal"]`), 0o644)
	mutateSpecFile = specPath

	ops, err := resolveOperators()
	if err != nil {
		t.Fatalf("resolveOperators: %v", err)
	}
	if len(ops) != 1 || ops[0].Name != "negate_boolean_literal" {
		t.Errorf("ops = %v, want exactly [negate_boolean_literal]", ops)
	}
}

func TestFilterOperatorsBySubstring(t *testing.T) {
	all := mutate.DefaultOperators()
	out := filterOperatorsBySubstring(all, "comparison")
	if len(out) == 0 {
		t.Fatal("expected at least one comparison operator")
	}
	for _, op := range out {
		if op.Name != "swap_comparison_operator" {
			t.Errorf("unexpected operator in comparison preset: %s", op.Name)
		}
	}
}
