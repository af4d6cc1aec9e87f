package domain

import (
	"github.com/assailsec/assail/internal/classify"
	"github.com/assailsec/assail/internal/engine"
	"github.com/assailsec/assail/internal/model"
)

// BoundaryRules derive cross_boundary_risk for any data_flow edge crossing
// a registered language boundary: a polyglot hop is inherently riskier than
// an intra-language one, since the two sides rarely agree on error handling
// or memory ownership conventions (§4.5).
func BoundaryRules() []engine.Rule {
	F, L, F2, L2 := engine.Var("File"), engine.Var("Line"), engine.Var("File2"), engine.Var("Line2")

	r, err := engine.NewRule("cross_boundary_risk",
		engine.PredFact(engine.PredCrossBoundary, F, L, F2, L2),
		engine.PredFact(engine.PredDataFlow, F, L, F2, L2),
		engine.PredFact(engine.PredBoundary, F, F2),
	)
	if err != nil {
		panic(err)
	}
	return []engine.Rule{r}
}

// SeedBoundaryFacts derives boundary(File1, File2) for every pair of files
// whose classified language families differ — the one case the relational
// engine cannot itself infer, since it has no string-inequality built-in
// strong enough to compare two Terms built from file classifications held
// outside the database.
func SeedBoundaryFacts(db *engine.Database, languages map[string]classify.LanguageFamily) {
	files := make([]string, 0, len(languages))
	for f := range languages {
		files = append(files, f)
	}
	for i := range files {
		for j := range files {
			if i == j {
				continue
			}
			if languages[files[i]] != languages[files[j]] {
				db.Add(engine.NewFact(engine.PredBoundary, engine.Const(files[i]), engine.Const(files[j])))
			}
		}
	}
}

// EscalateForCrossBoundary bumps a weak point's severity one tier when its
// file is the origin of a derived cross_boundary_risk edge — a boundary-
// crossing weak point is strictly more dangerous than the same finding
// confined to one language (§4.5's escalation rule). Files that are only
// an edge's target are not escalated.
func EscalateForCrossBoundary(db *engine.Database, weakPoints []model.WeakPoint) []model.WeakPoint {
	risky := make(map[string]bool)
	for _, f := range db.ByPred(engine.PredCrossBoundary) {
		if len(f.Args) != 4 {
			continue
		}
		if loc, ok := locationFromArgs(f.Args[0], f.Args[1]); ok {
			risky[loc.File] = true
		}
	}

	out := make([]model.WeakPoint, len(weakPoints))
	for i, wp := range weakPoints {
		out[i] = wp
		if risky[wp.Location.File] && wp.Severity < model.Critical {
			out[i].Severity = wp.Severity + 1
		}
	}
	return out
}
