package domain

import (
	"sort"

	"github.com/assailsec/assail/internal/engine"
	"github.com/assailsec/assail/internal/model"
)

// severityWeight mirrors the aggregator's top_offenders table
// (duplicated locally because internal/aggregate's table is unexported).
var severityWeight = map[model.Severity]float64{
	model.Info:     0.5,
	model.Low:      1,
	model.Medium:   3,
	model.High:     7,
	model.Critical: 15,
}

// FileRank is one file's position in an ordered attack/review queue.
type FileRank struct {
	Path  string
	Score float64
}

// OrderFiles ranks report.FileStatistics according to strategy, deriving
// each file's per-strategy ordering key from its own weak points plus
// whatever cross_boundary_risk facts db already holds (§4.4/§4.5).
func OrderFiles(report model.AssailReport, db *engine.Database, strategy engine.SearchStrategy) []FileRank {
	switch strategy {
	case engine.BoundaryFirst:
		return orderBy(report, boundaryScore(db))
	case engine.RiskWeighted:
		return orderBy(report, riskScore(report))
	case engine.LanguageFamily:
		return orderByLanguageFamily(report)
	case engine.DepthFirst:
		return orderDepthFirst(report)
	default: // BreadthFirst
		return orderBreadthFirst(report)
	}
}

func orderBy(report model.AssailReport, score map[string]float64) []FileRank {
	ranks := make([]FileRank, 0, len(report.FileStatistics))
	for _, fs := range report.FileStatistics {
		ranks = append(ranks, FileRank{Path: fs.Path, Score: score[fs.Path]})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Score != ranks[j].Score {
			return ranks[i].Score > ranks[j].Score
		}
		return ranks[i].Path < ranks[j].Path
	})
	return ranks
}

// riskScore is RiskWeighted's ordering key: ordering_key =
// (severity_weight · weak_point_count) summed per file, matching the
// workspace top_offenders formula's severity-weighting half.
func riskScore(report model.AssailReport) map[string]float64 {
	score := make(map[string]float64)
	for _, wp := range report.WeakPoints {
		score[wp.Location.File] += severityWeight[wp.Severity]
	}
	return score
}

// boundaryScore is BoundaryFirst's ordering key: each endpoint of a derived
// cross_boundary_risk fact adds 100 to its file, so implicated files
// outrank the rest. Weak-point severity plays no part; orderBy breaks ties
// by path.
func boundaryScore(db *engine.Database) map[string]float64 {
	score := make(map[string]float64)
	for _, f := range db.ByPred(engine.PredCrossBoundary) {
		if len(f.Args) != 4 {
			continue
		}
		if loc, ok := locationFromArgs(f.Args[0], f.Args[1]); ok {
			score[loc.File] += 100
		}
		if loc, ok := locationFromArgs(f.Args[2], f.Args[3]); ok {
			score[loc.File] += 100
		}
	}
	return score
}

// orderByLanguageFamily groups files by language family (alphabetically),
// then by path within a family — useful when a reviewer wants to sweep one
// language's idioms at a time across a large polyglot tree.
func orderByLanguageFamily(report model.AssailReport) []FileRank {
	ranks := make([]FileRank, 0, len(report.FileStatistics))
	for _, fs := range report.FileStatistics {
		ranks = append(ranks, FileRank{Path: fs.Path})
	}
	langOf := make(map[string]string, len(report.FileStatistics))
	for _, fs := range report.FileStatistics {
		langOf[fs.Path] = string(fs.Language)
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		li, lj := langOf[ranks[i].Path], langOf[ranks[j].Path]
		if li != lj {
			return li < lj
		}
		return ranks[i].Path < ranks[j].Path
	})
	return ranks
}

// orderBreadthFirst visits shallowest paths first, so a reviewer sees every
// top-level package touched before descending into any one of them.
func orderBreadthFirst(report model.AssailReport) []FileRank {
	ranks := make([]FileRank, 0, len(report.FileStatistics))
	for _, fs := range report.FileStatistics {
		ranks = append(ranks, FileRank{Path: fs.Path})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		di, dj := pathDepth(ranks[i].Path), pathDepth(ranks[j].Path)
		if di != dj {
			return di < dj
		}
		return ranks[i].Path < ranks[j].Path
	})
	return ranks
}

// orderDepthFirst visits one subtree to completion (plain lexicographic
// path order) before moving to the next sibling directory.
func orderDepthFirst(report model.AssailReport) []FileRank {
	ranks := make([]FileRank, 0, len(report.FileStatistics))
	for _, fs := range report.FileStatistics {
		ranks = append(ranks, FileRank{Path: fs.Path})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Path < ranks[j].Path
	})
	return ranks
}

func pathDepth(path string) int {
	depth := 0
	for _, c := range path {
		if c == '/' {
			depth++
		}
	}
	return depth
}
