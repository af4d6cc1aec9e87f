// Package campaign implements the campaign adjudicator (C6): it merges the
// heterogeneous CampaignArtifact tagged union into a single Verdict, the way
// the teacher's internal/policy.Engine merges regex/structural/semantic/
// dataflow/stateful analyzer outputs into one EvalResult via a
// most-restrictive combiner.
package campaign

import (
	"github.com/assailsec/assail/internal/model"
	"github.com/assailsec/assail/internal/taxonomy"
)

// Config is the threshold configuration §4.6 allows operators to override.
// The zero value is not usable directly; start from DefaultConfig.
type Config struct {
	MaxUnsafeBlocks           int
	MaxProductionUnwraps      int
	MaxWeakPoints             int
	MaxSeverity               model.Severity
	RequireErrorHandlingLevel int // 0-3, inferred maturity floor
	MinTaintConfidenceForFail float64
	Baseline                  *model.AssailReport // optional, for regression Warn atoms

	// Catalog documents each WeakPointCategory with a recommendation; when
	// set, a weak-point-derived atom's rationale line is suffixed with the
	// matching entry's recommendation. Nil is safe — Lookup on a nil
	// *taxonomy.Catalog just reports no entry.
	Catalog *taxonomy.Catalog
}

// DefaultConfig mirrors the teacher's DefaultPolicy()-style baked-in
// defaults: permissive enough that a clean scan passes, strict enough that
// the spec's hard Fail conditions (memory/concurrency crashes, high-
// confidence taint, uncovered critical weak points) are never silenced.
func DefaultConfig() Config {
	return Config{
		MaxUnsafeBlocks:           20,
		MaxProductionUnwraps:      50,
		MaxWeakPoints:             500,
		MaxSeverity:               model.Critical,
		RequireErrorHandlingLevel: 0,
		MinTaintConfidenceForFail: 0.8,
		Catalog:                   taxonomy.DefaultCatalog(),
	}
}
