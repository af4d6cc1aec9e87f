package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/assailsec/assail/internal/auditlog"
	"github.com/assailsec/assail/internal/model"
	"github.com/assailsec/assail/internal/mutate"
	"github.com/assailsec/assail/internal/report"
)

var (
	mutatePreset          string
	mutateSpecFile        string
	mutateMaxCombinations int
	mutateExecTemplate    string
	mutateTimeout         time.Duration
	mutateOutputDir       string
)

var mutateCmd = &cobra.Command{
	Use:     "mutate SOURCE_FILE",
	Aliases: []string{"amuck"},
	Short:   "Write mutated variants of a source file and optionally check whether each survives (C-mutate)",
	Args:    cobra.ExactArgs(1),
	RunE:    runMutate,
}

func init() {
	mutateCmd.Flags().StringVar(&mutatePreset, "preset", "default", "Named operator subset: default, boolean, comparison (ignored when --spec is set)")
	mutateCmd.Flags().StringVar(&mutateSpecFile, "spec", "", "JSON file listing operator names to apply, overriding --preset")
	mutateCmd.Flags().IntVar(&mutateMaxCombinations, "max-combinations", 0, "Cap on variants written (0 means unbounded)")
	mutateCmd.Flags().StringVar(&mutateExecTemplate, "exec", "", "Checker command run against each variant's directory, e.g. \"go test ./...\"")
	mutateCmd.Flags().DurationVar(&mutateTimeout, "timeout", 60*time.Second, "Per-variant checker subprocess timeout")
	mutateCmd.Flags().StringVar(&mutateOutputDir, "output-dir", "", "Destination for variant copies (default: a temp dir)")
	rootCmd.AddCommand(mutateCmd)
}

func runMutate(cmd *cobra.Command, args []string) error {
	sourceFile := args[0]

	ops, err := resolveOperators()
	if err != nil {
		return usageErrorf("mutate: %v", err)
	}

	logger, err := openAuditLog()
	if err != nil {
		return err
	}
	defer logger.Close()

	req := mutate.Request{
		SourceFile:      sourceFile,
		Operators:       ops,
		MaxCombinations: mutateMaxCombinations,
		ExecTemplate:    mutateExecTemplate,
		CheckTimeout:    mutateTimeout,
		OutputDir:       mutateOutputDir,
	}

	rep, runErr := mutate.Run(cmd.Context(), req)

	event := auditlog.Event{Type: auditlog.EventMutate, Program: sourceFile}
	if runErr != nil {
		event.Error = runErr.Error()
		logger.Log(event)
		return fmt.Errorf("mutate: %w", runErr)
	}
	event.Detail = map[string]interface{}{"variants": len(rep.Variants)}
	logger.Log(event)

	if storePath != "" {
		artifact := report.NewCampaignArtifact(model.ArtifactMutation, sourceFile, time.Now(), report.NewRunID(), nil)
		artifact.Mutation = &rep
		if _, err := saveArtifact(storePath, "mutation", sourceFile, artifact); err != nil {
			return fmt.Errorf("mutate: storing report: %w", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// resolveOperators honors --spec over --preset: a spec file names operators
// explicitly; a preset filters DefaultOperators by a substring of its name.
func resolveOperators() ([]mutate.Operator, error) {
	all := mutate.DefaultOperators()

	if mutateSpecFile != "" {
		raw, err := os.ReadFile(mutateSpecFile)
		if err != nil {
			return nil, fmt.Errorf("reading spec file: %w", err)
		}
		var names []string
		if err := json.Unmarshal(raw, &names); err != nil {
			return nil, fmt.Errorf("parsing spec file: %w", err)
		}
		return filterOperators(all, names), nil
	}

	switch mutatePreset {
	case "", "default":
		return all, nil
	case "boolean":
		return filterOperatorsBySubstring(all, "boolean"), nil
	case "comparison":
		return filterOperatorsBySubstring(all, "comparison"), nil
	default:
		return nil, fmt.Errorf("unknown preset %q (want default, boolean, or comparison)", mutatePreset)
	}
}

func filterOperators(all []mutate.Operator, names []string) []mutate.Operator {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []mutate.Operator
	for _, op := range all {
		if want[op.Name] {
			out = append(out, op)
		}
	}
	return out
}

func filterOperatorsBySubstring(all []mutate.Operator, substr string) []mutate.Operator {
	var out []mutate.Operator
	for _, op := range all {
		if strings.Contains(op.Name, substr) {
			out = append(out, op)
		}
	}
	return out
}
