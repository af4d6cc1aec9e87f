// Package domain implements C5: the analyzers built on top of C4's
// relational engine — taint chains, cross-language boundary risk,
// search-strategy file ordering, and crash-signature inference.
package domain

import (
	"sort"

	"github.com/assailsec/assail/internal/engine"
	"github.com/assailsec/assail/internal/model"
)

// CrashRules is §4.5's catalogue: each crash signature is a derived fact
// over the primitive evidential predicates (alloc/free/use/lock/read/write/
// concurrent/synchronized/signal/error_line/stack_frame/handled), which
// SeedCrashFacts derives from a stored CrashReport. The relational engine
// only establishes existence; confidence scoring happens afterward in Go
// (crashConfidence below).
func CrashRules() []engine.Rule {
	F, L, L1, L2, V := engine.Var("File"), engine.Var("Line"), engine.Var("Line1"), engine.Var("Line2"), engine.Var("Var")

	must := func(r engine.Rule, err error) engine.Rule {
		if err != nil {
			panic(err)
		}
		return r
	}

	return []engine.Rule{
		must(engine.NewRule("use_after_free",
			engine.PredFact(engine.PredUseAfterFree, F, V),
			engine.PredFact(engine.PredFree, F, L1, V),
			engine.PredFact(engine.PredUse, F, L2, V),
			engine.LessThan(L1, L2),
		)),
		must(engine.NewRule("double_free",
			engine.PredFact(engine.PredDoubleFree, F, V),
			engine.PredFact(engine.PredFree, F, L1, V),
			engine.PredFact(engine.PredFree, F, L2, V),
			engine.Distinct(L1, L2),
		)),
		must(engine.NewRule("deadlock",
			engine.PredFact(engine.PredDeadlock, F, V),
			engine.PredFact(engine.PredLock, F, L1, V),
			engine.PredFact(engine.PredLock, F, L2, V),
			engine.Distinct(L1, L2),
			engine.Not(engine.PredFact(engine.PredSynchronized, F, V)),
		)),
		must(engine.NewRule("data_race",
			engine.PredFact(engine.PredDataRace, F, V),
			engine.PredFact(engine.PredWrite, F, L1, V),
			engine.PredFact(engine.PredRead, F, L2, V),
			engine.PredFact(engine.PredConcurrent, F, L1, L2),
			engine.Not(engine.PredFact(engine.PredSynchronized, F, V)),
		)),
		must(engine.NewRule("memory_leak",
			engine.PredFact(engine.PredMemoryLeak, F, V),
			engine.PredFact(engine.PredAlloc, F, L, V),
			engine.Not(engine.PredFact(engine.PredFree, F, engine.Var("FreeLine"), V)),
		)),
		must(engine.NewRule("integer_overflow_signal",
			engine.PredFact(engine.PredIntegerOverflow, F, L),
			engine.PredFact(engine.PredSignal, F, L, engine.Const("integer_overflow")),
		)),
		must(engine.NewRule("null_dereference_signal",
			engine.PredFact(engine.PredNullDeref, F, L),
			engine.PredFact(engine.PredSignal, F, L, engine.Const("null_dereference")),
		)),
		must(engine.NewRule("buffer_overflow_signal",
			engine.PredFact(engine.PredBufferOverflow, F, L),
			engine.PredFact(engine.PredSignal, F, L, engine.Const("buffer_overflow")),
		)),
		must(engine.NewRule("buffer_overflow_unsafe_frame",
			engine.PredFact(engine.PredBufferOverflow, F, L),
			engine.PredFact(engine.PredStackFrame, F, L, engine.Const("strcpy")),
		)),
		must(engine.NewRule("unhandled_error",
			engine.PredFact(engine.PredUnhandledError, F, L),
			engine.PredFact(engine.PredErrorLine, F, L),
			engine.Not(engine.PredFact(engine.PredHandled, F, L)),
		)),
	}
}

// crashPredicates lists the derived predicate → BugSignature.SignatureType
// mapping read out after saturation.
var crashPredicates = map[string]string{
	engine.PredUseAfterFree:    "UseAfterFree",
	engine.PredDoubleFree:      "DoubleFree",
	engine.PredDeadlock:        "Deadlock",
	engine.PredDataRace:        "DataRace",
	engine.PredMemoryLeak:      "MemoryLeak",
	engine.PredIntegerOverflow: "IntegerOverflow",
	engine.PredNullDeref:       "NullDereference",
	engine.PredBufferOverflow:  "BufferOverflow",
	engine.PredUnhandledError:  "UnhandledError",
}

// DetectCrashSignatures saturates db against CrashRules and reads every
// derived crash predicate back out as a confidence-scored BugSignature,
// deduplicated and sorted by descending confidence (§4.5).
func DetectCrashSignatures(db *engine.Database) []model.BugSignature {
	db.Saturate(CrashRules())

	var sigs []model.BugSignature
	for pred, sigType := range crashPredicates {
		for _, f := range db.ByPred(pred) {
			sigs = append(sigs, model.BugSignature{
				SignatureType: sigType,
				Confidence:    crashConfidence(db, f),
				Evidence:      []string{f.String()},
				Location:      locationFromFact(f),
			})
		}
	}

	sort.SliceStable(sigs, func(i, j int) bool {
		return sigs[i].Confidence > sigs[j].Confidence
	})
	return sigs
}

// crashConfidence scores a derived crash fact by how much corroborating
// evidence the database holds for its file: every fact, primitive or
// derived, whose first argument is the same file adds 0.2 to a 0.4 base,
// capped at 0.95 so no purely lexical/relational signal ever claims
// certainty. §8 scenario 6 requires a minimally corroborated use-after-
// free to clear the 0.8 floor: its free and use facts alone give 0.8, and
// the derived use_after_free fact lifts it to the 0.95 cap.
func crashConfidence(db *engine.Database, f engine.Fact) float64 {
	if len(f.Args) == 0 {
		return 0.5
	}
	file := f.Args[0]
	evidence := 0
	for _, other := range db.All() {
		if len(other.Args) > 0 && other.Args[0].Equal(file) {
			evidence++
		}
	}
	conf := 0.4 + 0.2*float64(evidence)
	if conf > 0.95 {
		conf = 0.95
	}
	return conf
}

// locationFromFact extracts a Location when the fact's second argument
// looks like a line number; many crash predicates carry (File, Var) instead
// of (File, Line), in which case Location is left nil.
func locationFromFact(f engine.Fact) *model.Location {
	if len(f.Args) < 2 {
		return nil
	}
	file := f.Args[0]
	line := f.Args[1]
	if file.Kind != engine.KindConst || file.ConstKind != engine.ConstString {
		return nil
	}
	if line.Kind != engine.KindConst || line.ConstKind != engine.ConstInt {
		return nil
	}
	return &model.Location{File: file.Str, Line: int(line.Int)}
}
