package mutate

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"mvdan.cc/sh/v3/syntax"

	"github.com/assailsec/assail/internal/model"
)

// defaultCheckTimeout is the per-variant checker subprocess bound when a
// Request does not override it (§5's default 60s subprocess timeout).
const defaultCheckTimeout = 60 * time.Second

// Request is amuck's input: the file to mutate, which operators to apply,
// how many variants to cap at, and an optional checker invocation run
// against every variant.
type Request struct {
	SourceFile     string
	Operators      []Operator // nil selects DefaultOperators()
	MaxCombinations int       // 0 means unbounded
	ExecTemplate   string     // e.g. "go test ./..."; empty skips the checker
	CheckTimeout   time.Duration
	OutputDir      string // destination for variant copies; "" creates a temp dir
}

// Run writes one variant file per (operator, match) pair found in
// req.SourceFile, never touching the original, and — when req.ExecTemplate
// is set — runs the checker against each variant's containing directory to
// record whether the mutation survived (checker exit 0) or was caught
// (non-zero exit, the conventional mutation-testing "killed" outcome).
func Run(ctx context.Context, req Request) (model.MutationReport, error) {
	if req.SourceFile == "" {
		return model.MutationReport{}, fmt.Errorf("mutate: source_file is required")
	}

	original, err := os.ReadFile(req.SourceFile)
	if err != nil {
		return model.MutationReport{}, fmt.Errorf("mutate: reading source file: %w", err)
	}

	ops := req.Operators
	if ops == nil {
		ops = DefaultOperators()
	}

	outDir := req.OutputDir
	if outDir == "" {
		outDir, err = os.MkdirTemp("", "assail-mutate-*")
		if err != nil {
			return model.MutationReport{}, fmt.Errorf("mutate: creating variant workspace: %w", err)
		}
	} else if err := os.MkdirAll(outDir, 0o755); err != nil {
		return model.MutationReport{}, fmt.Errorf("mutate: creating variant workspace: %w", err)
	}

	timeout := req.CheckTimeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}

	base := filepath.Base(req.SourceFile)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	var variants []model.MutationVariant
	variantIndex := 0

	for _, op := range ops {
		matches := op.Pattern.FindAllStringIndex(string(original), -1)
		for _, loc := range matches {
			if req.MaxCombinations > 0 && variantIndex >= req.MaxCombinations {
				break
			}

			mutated := applyAt(string(original), loc, op)
			if mutated == string(original) {
				continue // operator was a no-op at this site (e.g. unmapped comparison)
			}

			name := fmt.Sprintf("%s.%s.%d%s", stem, op.Name, variantIndex, ext)
			path := filepath.Join(outDir, name)
			if err := os.WriteFile(path, []byte(mutated), 0o644); err != nil {
				return model.MutationReport{}, fmt.Errorf("mutate: writing variant %s: %w", name, err)
			}

			variant := model.MutationVariant{Operator: op.Name, Path: path}
			if req.ExecTemplate != "" {
				survived, exitCode, err := check(ctx, req.ExecTemplate, path, timeout)
				variant.CheckerRan = err == nil
				variant.Survived = survived
				if err == nil {
					variant.ExitCode = &exitCode
				}
			}
			variants = append(variants, variant)
			variantIndex++
		}
		if req.MaxCombinations > 0 && variantIndex >= req.MaxCombinations {
			break
		}
	}

	return model.MutationReport{SourceFile: req.SourceFile, Variants: variants}, nil
}

// applyAt rewrites src by replacing the match at loc with op.Replace's
// output, leaving every other byte untouched.
func applyAt(src string, loc []int, op Operator) string {
	start, end := loc[0], loc[1]
	matched := src[start:end]
	return src[:start] + op.Replace(matched) + src[end:]
}

// check runs tmpl (tokenized the same way internal/attack tokenizes a
// target command, via mvdan.cc/sh/v3/syntax) with variantPath appended as
// its final argument, against variantPath's own directory. A non-zero
// checker exit means the checker caught the mutation (killed); a zero
// exit means the mutation survived undetected.
func check(ctx context.Context, tmpl, variantPath string, timeout time.Duration) (survived bool, exitCode int, err error) {
	argv, err := tokenizeExec(tmpl)
	if err != nil {
		return false, 0, err
	}
	argv = append(argv, variantPath)

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, argv[0], argv[1:]...)
	cmd.Dir = filepath.Dir(variantPath)
	runErr := cmd.Run()

	if execCtx.Err() == context.DeadlineExceeded {
		// A checker that hangs on a mutated input neither confirms nor
		// denies the mutation was caught; treat it as undetected rather
		// than guessing.
		return true, -1, nil
	}
	if runErr == nil {
		return true, 0, nil
	}
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		return false, exitErr.ExitCode(), nil
	}
	return false, 0, runErr
}

func tokenizeExec(tmpl string) ([]string, error) {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(tmpl), "")
	if err != nil {
		return nil, fmt.Errorf("parsing exec_template: %w", err)
	}

	var words []string
	for _, stmt := range file.Stmts {
		call, ok := stmt.Cmd.(*syntax.CallExpr)
		if !ok {
			continue
		}
		for _, w := range call.Args {
			words = append(words, wordToString(w))
		}
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("exec_template tokenized to zero words")
	}
	return words, nil
}

func wordToString(word *syntax.Word) string {
	var sb strings.Builder
	printer := syntax.NewPrinter()
	printer.Print(&sb, word)
	return sb.String()
}
