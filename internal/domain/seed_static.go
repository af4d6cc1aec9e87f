package domain

import (
	"github.com/assailsec/assail/internal/engine"
	"github.com/assailsec/assail/internal/model"
)

// SeedStaticFacts bridges C2/C3's static WeakPoint findings into the
// primitive source/sink/data_flow facts AnalyzeTaint and BoundaryRules
// consume. TaintedInput and TaintedSink weak points become source/sink
// facts directly; UnsafeFFI weak points are treated as boundary relays,
// since an FFI declaration is exactly where a tainted value produced in
// one language's code becomes a value the other side's sink can consume
// (§8 scenario 5: a taint chain that crosses an FFI boundary).
func SeedStaticFacts(report model.AssailReport) []engine.Fact {
	var sources, sinks, relays []model.Location
	for _, wp := range report.WeakPoints {
		switch wp.Category {
		case model.TaintedInput:
			sources = append(sources, wp.Location)
		case model.TaintedSink:
			sinks = append(sinks, wp.Location)
		case model.UnsafeFFI:
			relays = append(relays, wp.Location)
		}
	}

	var facts []engine.Fact
	for _, s := range sources {
		facts = append(facts, locFact(engine.PredSource, s))
	}
	for _, t := range sinks {
		facts = append(facts, locFact(engine.PredSink, t))
	}

	// Direct, same-file propagation: a source read earlier in the file
	// than a sink is assumed to reach it. No intra-procedural dataflow
	// tracking happens here — same lexical-evidence posture as the
	// extractor's own rule matching, not a soundness claim.
	for _, s := range sources {
		for _, t := range sinks {
			if s.File == t.File && s.Line <= t.Line {
				facts = append(facts, edgeFact(s, t))
			}
		}
	}

	// Cross-boundary relay: source -> FFI declaration -> sink. The source
	// hop always crosses files, so AnalyzeTaint's path walk crosses the
	// boundary and BoundaryRules has a data_flow edge to flag; the relay
	// then reaches a sink in another file, or later in its own file.
	for _, s := range sources {
		for _, r := range relays {
			if s.File != r.File {
				facts = append(facts, edgeFact(s, r), locFact(engine.PredSource, r))
			}
		}
	}
	for _, r := range relays {
		for _, t := range sinks {
			if r.File != t.File {
				facts = append(facts, edgeFact(r, t), locFact(engine.PredSink, r))
			} else if r.Line <= t.Line {
				facts = append(facts, edgeFact(r, t))
			}
		}
	}

	return facts
}

func locFact(pred string, loc model.Location) engine.Fact {
	return engine.NewFact(pred, engine.Const(loc.File), engine.ConstNum(int64(loc.Line)))
}

func edgeFact(from, to model.Location) engine.Fact {
	return engine.NewFact(engine.PredDataFlow,
		engine.Const(from.File), engine.ConstNum(int64(from.Line)),
		engine.Const(to.File), engine.ConstNum(int64(to.Line)))
}
