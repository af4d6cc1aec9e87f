package domain

import (
	"regexp"
	"strings"

	"github.com/assailsec/assail/internal/engine"
	"github.com/assailsec/assail/internal/model"
)

// syntheticFile stands in for the source file a crash-only CrashReport
// can't name: abduct/analyze, unlike a live attack run, doesn't know which
// file produced a given stack frame.
const syntheticFile = "crash_report"

// allocFreeUsePattern pulls alloc/free/use-shaped call sites out of a raw
// backtrace or log line: a function name from the cross-language alloc/
// free/use vocabulary, followed by a parenthesised symbol. This is the same
// lexical-evidence posture as internal/attack/classify.go's string
// matching: no soundness claim, just enough signal to seed the relational
// engine from a crash report instead of a live subprocess run.
var allocFreeUsePattern = regexp.MustCompile(`\b(malloc|calloc|new|alloc|free|delete|drop|use|deref)\s*\(\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\)`)

var verbToPred = map[string]string{
	"malloc": engine.PredAlloc,
	"calloc": engine.PredAlloc,
	"new":    engine.PredAlloc,
	"alloc":  engine.PredAlloc,
	"free":   engine.PredFree,
	"delete": engine.PredFree,
	"drop":   engine.PredFree,
	"use":    engine.PredUse,
	"deref":  engine.PredUse,
}

var (
	lockPattern           = regexp.MustCompile(`\block(?:_acquire)?\s*\(\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\)`)
	readPattern           = regexp.MustCompile(`\bread\s*\(\s*[A-Za-z_][A-Za-z0-9_.]*\s*\)`)
	writePattern          = regexp.MustCompile(`\bwrite\s*\(\s*[A-Za-z_][A-Za-z0-9_.]*\s*\)`)
	threadMarkerPattern   = regexp.MustCompile(`(?i)\bthread[- ]?\d+\b`)
	dangerousFramePattern = regexp.MustCompile(`\b(strcpy|strcat|sprintf|gets|memcpy)\b`)
	errorLinePattern      = regexp.MustCompile(`(?i)\berror\b`)
	handledPattern        = regexp.MustCompile(`(?i)\b(recovered|handled|caught)\b`)
)

// signalToSignature maps the handful of POSIX signals that correspond
// directly to one of CrashRules' signal-driven categories (§4.5); signals
// with no reliable one-to-one mapping (SIGABRT, SIGKILL, ...) seed no
// signal fact and are left to the alloc/free/use and lock/read/write
// evidence instead.
var signalToSignature = map[string]string{
	"SIGSEGV": "null_dereference",
	"SIGBUS":  "buffer_overflow",
	"SIGFPE":  "integer_overflow",
}

// SeedCrashFacts scans a CrashReport's backtrace and captured output for
// every primitive predicate CrashRules derives over: alloc/free/use call
// sites, lock acquisitions, read/write pairs paired with a concurrency
// marker, dangerous stack frames, error lines and their handled status,
// and a 3-arg signal(File, Line, SignatureName) fact when the observed
// signal maps to one. Every fact is keyed by syntheticFile and a
// monotonically increasing line number standing in for occurrence order —
// CrashRules' ordering predicates (LessThan, Distinct) only need a
// consistent sequence, not a real line number.
//
// Coverage gap: concurrent pairing is approximate — every write is paired
// with every read once a thread marker appears anywhere in the report,
// since a crash report rarely identifies which read raced which write.
// This over-seeds data_race candidates rather than under-seeding them; a
// live attack run (internal/attack) can observe actual interleavings and
// would seed more precisely.
func SeedCrashFacts(cr model.CrashReport) []engine.Fact {
	var facts []engine.Fact
	line := 0
	next := func() int64 {
		line++
		return int64(line)
	}

	texts := []string{cr.Backtrace, cr.Stdout, cr.Stderr}

	for _, text := range texts {
		for _, m := range allocFreeUsePattern.FindAllStringSubmatch(text, -1) {
			pred, ok := verbToPred[m[1]]
			if !ok {
				continue
			}
			facts = append(facts, engine.NewFact(pred, engine.Const(syntheticFile), engine.ConstNum(next()), engine.Const(m[2])))
		}
		for _, m := range lockPattern.FindAllStringSubmatch(text, -1) {
			facts = append(facts, engine.NewFact(engine.PredLock, engine.Const(syntheticFile), engine.ConstNum(next()), engine.Const(m[1])))
		}
		for _, m := range dangerousFramePattern.FindAllString(text, -1) {
			facts = append(facts, engine.NewFact(engine.PredStackFrame, engine.Const(syntheticFile), engine.ConstNum(next()), engine.Const(m)))
		}
	}

	combined := cr.Backtrace + cr.Stdout + cr.Stderr
	if threadMarkerPattern.MatchString(combined) {
		var reads, writes []int64
		for _, text := range texts {
			for range readPattern.FindAllString(text, -1) {
				l := next()
				reads = append(reads, l)
				facts = append(facts, engine.NewFact(engine.PredRead, engine.Const(syntheticFile), engine.ConstNum(l), engine.Const("shared")))
			}
			for range writePattern.FindAllString(text, -1) {
				l := next()
				writes = append(writes, l)
				facts = append(facts, engine.NewFact(engine.PredWrite, engine.Const(syntheticFile), engine.ConstNum(l), engine.Const("shared")))
			}
		}
		for _, w := range writes {
			for _, r := range reads {
				facts = append(facts, engine.NewFact(engine.PredConcurrent, engine.Const(syntheticFile), engine.ConstNum(w), engine.ConstNum(r)))
			}
		}
	}

	for _, text := range texts {
		for _, lineText := range strings.Split(text, "\n") {
			if !errorLinePattern.MatchString(lineText) {
				continue
			}
			l := next()
			facts = append(facts, engine.NewFact(engine.PredErrorLine, engine.Const(syntheticFile), engine.ConstNum(l)))
			if handledPattern.MatchString(lineText) {
				facts = append(facts, engine.NewFact(engine.PredHandled, engine.Const(syntheticFile), engine.ConstNum(l)))
			}
		}
	}

	if sig, ok := signalToSignature[cr.Signal]; ok {
		facts = append(facts, engine.NewFact(engine.PredSignal, engine.Const(syntheticFile), engine.ConstNum(next()), engine.Const(sig)))
	}

	return facts
}
