package engine

// Fact is a ground, immutable relational atom: a predicate name applied to
// fully-instantiated Terms. The fact database is a set keyed by Fact.Key,
// which is exactly Term-level structural equality over the whole atom
// (§3: "the database is a set keyed by structural equality").
type Fact struct {
	Pred string
	Args []Term
}

// NewFact constructs a Fact. Panics are never used for malformed facts
// produced at runtime (only RuleLoadError, at load time, is fatal); callers
// that build facts from untrusted input should validate arity themselves.
func NewFact(pred string, args ...Term) Fact {
	return Fact{Pred: pred, Args: args}
}

// Key returns a string uniquely identifying this fact's structural
// identity, used as the fact-set dedup key.
func (f Fact) Key() string {
	return f.asTerm().String()
}

func (f Fact) asTerm() Term {
	return Composite(f.Pred, f.Args...)
}

// Equal reports structural equality between two facts.
func (f Fact) Equal(o Fact) bool {
	return f.asTerm().Equal(o.asTerm())
}

// String renders the fact in the same surface syntax as Term.String.
func (f Fact) String() string {
	return f.asTerm().String()
}

// Arity is the number of arguments.
func (f Fact) Arity() int { return len(f.Args) }

// Common domain predicate names shared by the crash-signature and taint
// analyzers (§3, §4.5). Kept here (not in internal/domain) since both C4's
// generic saturation and C5's rule catalogues refer to them by name.
const (
	PredAlloc           = "alloc"
	PredFree            = "free"
	PredUse             = "use"
	PredLock            = "lock"
	PredRead            = "read"
	PredWrite           = "write"
	PredSource          = "source"
	PredSink            = "sink"
	PredBoundary        = "boundary"
	PredTainted         = "tainted"
	PredVulnerableFile  = "vulnerable_file"
	PredOrdering        = "ordering"
	PredConcurrent      = "concurrent"
	PredSynchronized    = "synchronized"
	PredDataFlow        = "data_flow"
	PredVulnerability   = "vulnerability"
	PredCrossBoundary   = "cross_boundary_risk"
	PredSignal          = "signal"
	PredErrorLine       = "error_line"
	PredStackFrame      = "stack_frame"
	PredUseAfterFree    = "use_after_free"
	PredDoubleFree      = "double_free"
	PredDeadlock        = "deadlock"
	PredDataRace        = "data_race"
	PredMemoryLeak      = "memory_leak"
	PredIntegerOverflow = "integer_overflow"
	PredNullDeref       = "null_dereference"
	PredBufferOverflow  = "buffer_overflow"
	PredUnhandledError  = "unhandled_error"
	PredHandled         = "handled"

	// Project-characteristic predicates feeding strategy selection (§4.4).
	PredHasCrossLangBoundaries = "has_cross_language_boundaries"
	PredIsLargeProject         = "is_large_project"
	PredHasHighRiskCategory    = "has_high_risk_category"
	PredPreferredStrategy      = "preferred_strategy"
)
