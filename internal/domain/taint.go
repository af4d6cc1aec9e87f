package domain

import (
	"sort"

	"github.com/assailsec/assail/internal/engine"
	"github.com/assailsec/assail/internal/model"
)

// TaintRules derives reachability over data_flow edges: a tainted value at
// a source propagates along every edge, and a tainted value reaching a sink
// is a vulnerability. The relational engine only establishes whether a
// chain exists; TaintPaths (below) recomputes the chain's length in Go to
// score confidence, since the engine has no arithmetic to carry a running
// path length through repeated rule firings.
func TaintRules() []engine.Rule {
	F, L, F2, L2 := engine.Var("File"), engine.Var("Line"), engine.Var("File2"), engine.Var("Line2")

	must := func(r engine.Rule, err error) engine.Rule {
		if err != nil {
			panic(err)
		}
		return r
	}

	return []engine.Rule{
		must(engine.NewRule("tainted_at_source",
			engine.PredFact(engine.PredTainted, F, L),
			engine.PredFact(engine.PredSource, F, L),
		)),
		must(engine.NewRule("tainted_propagates",
			engine.PredFact(engine.PredTainted, F2, L2),
			engine.PredFact(engine.PredDataFlow, F, L, F2, L2),
			engine.PredFact(engine.PredTainted, F, L),
		)),
		must(engine.NewRule("vulnerable_at_sink",
			engine.PredFact(engine.PredVulnerableFile, F, L),
			engine.PredFact(engine.PredTainted, F, L),
			engine.PredFact(engine.PredSink, F, L),
		)),
	}
}

// TaintFinding is one confirmed source→...→sink chain, confidence-scored
// by its length (§9: confidence = 0.5 + 0.1·|path| capped at 0.95 — a
// longer corroborated chain is more convincing than a one-hop coincidence).
type TaintFinding struct {
	Sink       model.Location
	PathLength int
	Confidence float64
}

// AnalyzeTaint saturates db against TaintRules, then for every derived
// vulnerable_file fact walks the data_flow graph backward from the sink to
// find its shortest corroborating source chain and scores confidence from
// that chain's length.
func AnalyzeTaint(db *engine.Database) []TaintFinding {
	db.Saturate(TaintRules())

	edges := buildFlowGraph(db)
	sources := factLocationSet(db, engine.PredSource)

	var findings []TaintFinding
	for _, f := range db.ByPred(engine.PredVulnerableFile) {
		loc, ok := factLocation(f)
		if !ok {
			continue
		}
		pathLen, reachable := shortestPathFromAnySource(edges, sources, loc)
		if !reachable {
			continue
		}
		conf := 0.5 + 0.1*float64(pathLen)
		if conf > 0.95 {
			conf = 0.95
		}
		findings = append(findings, TaintFinding{Sink: loc, PathLength: pathLen, Confidence: conf})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Confidence > findings[j].Confidence
	})
	return findings
}

type flowEdge struct {
	from model.Location
	to   model.Location
}

func buildFlowGraph(db *engine.Database) []flowEdge {
	var edges []flowEdge
	for _, f := range db.ByPred(engine.PredDataFlow) {
		if len(f.Args) != 4 {
			continue
		}
		from, ok1 := locationFromArgs(f.Args[0], f.Args[1])
		to, ok2 := locationFromArgs(f.Args[2], f.Args[3])
		if ok1 && ok2 {
			edges = append(edges, flowEdge{from: from, to: to})
		}
	}
	return edges
}

func factLocationSet(db *engine.Database, pred string) map[model.Location]bool {
	set := make(map[model.Location]bool)
	for _, f := range db.ByPred(pred) {
		if loc, ok := factLocation(f); ok {
			set[loc] = true
		}
	}
	return set
}

func factLocation(f engine.Fact) (model.Location, bool) {
	if len(f.Args) < 2 {
		return model.Location{}, false
	}
	return locationFromArgs(f.Args[0], f.Args[1])
}

func locationFromArgs(fileArg, lineArg engine.Term) (model.Location, bool) {
	if fileArg.Kind != engine.KindConst || fileArg.ConstKind != engine.ConstString {
		return model.Location{}, false
	}
	if lineArg.Kind != engine.KindConst || lineArg.ConstKind != engine.ConstInt {
		return model.Location{}, false
	}
	return model.Location{File: fileArg.Str, Line: int(lineArg.Int)}, true
}

// shortestPathFromAnySource runs a breadth-first search backward from sink
// across edges until it meets any known source, returning the hop count.
func shortestPathFromAnySource(edges []flowEdge, sources map[model.Location]bool, sink model.Location) (int, bool) {
	if sources[sink] {
		return 0, true
	}

	visited := map[model.Location]bool{sink: true}
	frontier := []model.Location{sink}
	depth := 0

	for len(frontier) > 0 {
		depth++
		var next []model.Location
		for _, node := range frontier {
			for _, e := range edges {
				if e.to != node || visited[e.from] {
					continue
				}
				if sources[e.from] {
					return depth, true
				}
				visited[e.from] = true
				next = append(next, e.from)
			}
		}
		frontier = next
	}
	return 0, false
}
