package mutate

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestRun_NeverMutatesOriginal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "rules.go")
	original := "func check(x int) bool {\n\treturn x == 0\n}\n"
	if err := os.WriteFile(src, []byte(original), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	report, err := Run(context.Background(), Request{SourceFile: src})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	after, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(after) != original {
		t.Errorf("original file was modified: got %q, want %q", after, original)
	}
	if len(report.Variants) == 0 {
		t.Fatalf("Variants is empty, want at least one mutation from %q", original)
	}
	for _, v := range report.Variants {
		if v.Path == src {
			t.Errorf("variant path %s equals the source file", v.Path)
		}
	}
}

func TestRun_RespectsMaxCombinations(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "rules.go")
	original := "return a == b && c == d && e == f\n"
	os.WriteFile(src, []byte(original), 0o644)

	report, err := Run(context.Background(), Request{SourceFile: src, MaxCombinations: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Variants) > 2 {
		t.Errorf("Variants = %d, want at most 2", len(report.Variants))
	}
}

func TestRun_ChecksVariantsWhenExecTemplateSet(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "flag.txt")
	os.WriteFile(src, []byte("true\n"), 0o644)

	tmpl := "true"
	if runtime.GOOS == "windows" {
		tmpl = "cmd /C exit 0"
	}

	report, err := Run(context.Background(), Request{
		SourceFile:   src,
		Operators:    []Operator{DefaultOperators()[0]},
		ExecTemplate: tmpl,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Variants) == 0 {
		t.Fatalf("Variants is empty")
	}
	for _, v := range report.Variants {
		if !v.CheckerRan {
			t.Errorf("variant %s: CheckerRan = false, want true", v.Path)
		}
		if !v.Survived {
			t.Errorf("variant %s: Survived = false, want true for an always-true checker", v.Path)
		}
	}
}

func TestRun_CheckerFailureMeansKilled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "flag.txt")
	os.WriteFile(src, []byte("true\n"), 0o644)

	tmpl := "false"
	if runtime.GOOS == "windows" {
		tmpl = "cmd /C exit 1"
	}

	report, err := Run(context.Background(), Request{
		SourceFile:   src,
		Operators:    []Operator{DefaultOperators()[0]},
		ExecTemplate: tmpl,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, v := range report.Variants {
		if v.Survived {
			t.Errorf("variant %s: Survived = true, want false for a failing checker", v.Path)
		}
	}
}

func TestOffByOne(t *testing.T) {
	tests := []struct{ in, want string }{
		{"(0,", "(1,"},
		{" 41)", " 42)"},
	}
	op := DefaultOperators()[2]
	for _, tc := range tests {
		if got := op.Replace(tc.in); got != tc.want {
			t.Errorf("offByOne(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestComparisonSwap(t *testing.T) {
	op := DefaultOperators()[1]
	tests := map[string]string{"==": "!=", "!=": "==", "<=": ">", ">=": "<", "<": ">=", ">": "<="}
	for in, want := range tests {
		if got := op.Replace(in); got != want {
			t.Errorf("swap(%q) = %q, want %q", in, got, want)
		}
	}
}
