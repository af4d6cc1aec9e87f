package domain

import (
	"fmt"
	"sort"

	"github.com/assailsec/assail/internal/classify"
	"github.com/assailsec/assail/internal/engine"
	"github.com/assailsec/assail/internal/model"
)

// largeProjectFileThreshold marks the point where boundary saturation is
// routed through the mangle backend (internal/engine/mangle_backend.go)
// instead of the native join, mirroring SelectStrategy's own
// IsLargeProject signal (§4.4) — a large polyglot tree seeds enough
// boundary facts that the indexed evaluator earns back its setup cost.
const largeProjectFileThreshold = 50

// AnalyzeStatic is C5's entry point against a finished AssailReport: it
// bridges C2/C3's weak points into engine facts (SeedStaticFacts), derives
// cross-language boundary facts from the report's own FileStatistics, and
// folds every derived result back into the report — taint vulnerabilities,
// severity-escalated cross-boundary weak points, and a strategy-ranked
// file review order (§4.4, §4.5, §8 scenario 5). Called by scan and
// full-run once aggregate.Aggregate has produced the report.
func AnalyzeStatic(report model.AssailReport, strategy engine.SearchStrategy) model.AssailReport {
	db := engine.NewDatabase(SeedStaticFacts(report)...)
	SeedBoundaryFacts(db, languageFamilies(report))

	if len(report.FileStatistics) > largeProjectFileThreshold {
		if err := db.SaturateRulesViaMangle(BoundaryRules()); err != nil {
			db.Saturate(BoundaryRules())
		}
	} else {
		db.Saturate(BoundaryRules())
	}

	for _, f := range AnalyzeTaint(db) {
		report.TaintVulnerabilities = append(report.TaintVulnerabilities, f.toBugSignature())
	}

	report.WeakPoints = EscalateForCrossBoundary(db, report.WeakPoints)
	report.TestWeakPoints = EscalateForCrossBoundary(db, report.TestWeakPoints)
	report.CrossBoundaryRisks = crossBoundaryLocations(db)

	ranks := OrderFiles(report, db, strategy)
	report.FileOrder = make([]string, len(ranks))
	for i, r := range ranks {
		report.FileOrder[i] = r.Path
	}

	return report
}

func languageFamilies(report model.AssailReport) map[string]classify.LanguageFamily {
	out := make(map[string]classify.LanguageFamily, len(report.FileStatistics))
	for _, fs := range report.FileStatistics {
		out[fs.Path] = fs.Language
	}
	return out
}

// crossBoundaryLocations reads every cross_boundary_risk fact back out as
// a deduplicated, deterministically ordered Location slice for
// AssailReport.CrossBoundaryRisks.
func crossBoundaryLocations(db *engine.Database) []model.Location {
	seen := make(map[model.Location]bool)
	var out []model.Location
	add := func(fileArg, lineArg engine.Term) {
		loc, ok := locationFromArgs(fileArg, lineArg)
		if !ok || seen[loc] {
			return
		}
		seen[loc] = true
		out = append(out, loc)
	}

	for _, f := range db.ByPred(engine.PredCrossBoundary) {
		if len(f.Args) != 4 {
			continue
		}
		add(f.Args[0], f.Args[1])
		add(f.Args[2], f.Args[3])
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out
}

// taintVulnerabilitySignatureType mirrors internal/campaign's
// taintSignatureType convention, so a static taint finding folded into
// AssailReport.TaintVulnerabilities is picked up by internal/campaign's
// high-confidence-taint Fail rule (internal/campaign/normalize.go,
// internal/campaign/adjudicate.go).
const taintVulnerabilitySignatureType = "TaintVulnerability"

// toBugSignature projects a TaintFinding into the same BugSignature shape
// the crash-signature engine reports, so AssailReport carries both kinds
// of C5 finding uniformly.
func (f TaintFinding) toBugSignature() model.BugSignature {
	loc := f.Sink
	return model.BugSignature{
		SignatureType: taintVulnerabilitySignatureType,
		Confidence:    f.Confidence,
		Evidence:      []string{fmt.Sprintf("path length %d", f.PathLength)},
		Location:      &loc,
	}
}
