package aggregate

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/assailsec/assail/internal/model"
)

// severityWeight backs the top_offenders risk formula:
// risk_score = Σ(severity_weight · weak_point_count) + crossBoundaryBonus
var severityWeight = map[model.Severity]float64{
	model.Info:     0.5,
	model.Low:      1,
	model.Medium:   3,
	model.High:     7,
	model.Critical: 15,
}

// crossBoundaryBonus rewards packages that mix language families, since a
// polyglot package is disproportionately likely to host boundary-crossing
// vulnerabilities C5's cross-language analyzer looks for.
const crossBoundaryBonus = 5.0

const defaultTopOffenders = 10

// AggregateWorkspace runs Aggregate over every immediate subdirectory of
// root that looks like a package (contains at least one non-skipped file),
// then ranks them (§4.3 workspace mode).
func AggregateWorkspace(root string, cfg Config) (model.WorkspaceReport, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return model.WorkspaceReport{}, err
	}

	var packages []model.AssailReport
	for _, e := range entries {
		if !e.IsDir() || cfg.SkipDirs[e.Name()] {
			continue
		}
		pkgPath := filepath.Join(root, e.Name())
		report, err := Aggregate(pkgPath, cfg)
		if err != nil {
			return model.WorkspaceReport{}, err
		}
		if len(report.FileStatistics) == 0 {
			continue
		}
		packages = append(packages, report)
	}

	ws := model.WorkspaceReport{
		SchemaVersion: schemaVersion,
		Packages:      packages,
	}
	for _, pkg := range packages {
		ws.Totals.Add(sumAsFileStatistics(pkg.Statistics))
	}
	ws.TopOffenders = topOffenders(packages, defaultTopOffenders)

	return ws, nil
}

// sumAsFileStatistics adapts a ProgramStatistics total into the shape
// ProgramStatistics.Add expects, so workspace totals can reuse the same
// fold used for single-package aggregation.
func sumAsFileStatistics(p model.ProgramStatistics) model.FileStatistics {
	return model.FileStatistics{
		Lines:               p.Lines,
		UnsafeBlocks:        p.UnsafeBlocks,
		PanicSites:          p.PanicSites,
		UnwrapCalls:         p.UnwrapCalls,
		SafeUnwrapVariants:  p.SafeUnwrapVariants,
		AllocationSites:     p.AllocationSites,
		IOOperations:        p.IOOperations,
		ThreadingConstructs: p.ThreadingConstructs,
	}
}

// topOffenders ranks packages by risk_score, descending, capping at limit.
func topOffenders(packages []model.AssailReport, limit int) []model.PackageRisk {
	risks := make([]model.PackageRisk, 0, len(packages))
	for _, pkg := range packages {
		risks = append(risks, model.PackageRisk{
			PackageName: pkg.ProgramPath,
			RiskScore:   riskScore(pkg),
		})
	}
	sort.Slice(risks, func(i, j int) bool {
		if risks[i].RiskScore != risks[j].RiskScore {
			return risks[i].RiskScore > risks[j].RiskScore
		}
		return risks[i].PackageName < risks[j].PackageName
	})
	if len(risks) > limit {
		risks = risks[:limit]
	}
	return risks
}

func riskScore(pkg model.AssailReport) float64 {
	var score float64
	counts := make(map[model.Severity]int)
	for _, wp := range pkg.WeakPoints {
		counts[wp.Severity]++
	}
	for sev, count := range counts {
		score += severityWeight[sev] * float64(count)
	}
	if hasMultipleLanguages(pkg) {
		score += crossBoundaryBonus
	}
	return score
}

func hasMultipleLanguages(pkg model.AssailReport) bool {
	seen := make(map[string]bool)
	for _, fs := range pkg.FileStatistics {
		seen[string(fs.Language)] = true
		if len(seen) > 1 {
			return true
		}
	}
	return false
}
