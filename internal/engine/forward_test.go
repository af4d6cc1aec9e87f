package engine

import (
	"testing"
	"time"
)

// ancestorRules mirrors the classic parent/ancestor Datalog example used
// throughout the mangle ecosystem, adapted to this package's native Rule
// representation.
func ancestorRules(t *testing.T) []Rule {
	t.Helper()
	base, err := NewRule("ancestor_base",
		PredFact("ancestor", Var("a"), Var("d")),
		PredFact("parent", Var("a"), Var("d")),
	)
	if err != nil {
		t.Fatalf("unexpected RuleLoadError: %v", err)
	}
	trans, err := NewRule("ancestor_trans",
		PredFact("ancestor", Var("a"), Var("d")),
		PredFact("parent", Var("a"), Var("c")),
		PredFact("ancestor", Var("c"), Var("d")),
	)
	if err != nil {
		t.Fatalf("unexpected RuleLoadError: %v", err)
	}
	return []Rule{base, trans}
}

func TestSaturate_DerivesTransitiveClosure(t *testing.T) {
	d := NewDatabase(
		NewFact("parent", Const("oedipus"), Const("antigone")),
		NewFact("parent", Const("antigone"), Const("thersander")),
	)
	d.Saturate(ancestorRules(t))

	want := NewFact("ancestor", Const("oedipus"), Const("thersander"))
	if !d.Contains(want) {
		t.Errorf("expected derived transitive ancestor fact %s, facts=%v", want, d.All())
	}
}

func TestSaturate_TerminatesAndIsIdempotent(t *testing.T) {
	d := NewDatabase(NewFact("parent", Const("a"), Const("b")))
	rules := ancestorRules(t)

	d.Saturate(rules)
	sizeAfterFirst := d.Len()
	iterations := d.Saturate(rules)

	if d.Len() != sizeAfterFirst {
		t.Errorf("re-saturating a fixpoint database should add no facts, got %d -> %d", sizeAfterFirst, d.Len())
	}
	if iterations != 1 {
		t.Errorf("re-saturating an already-saturated database should take exactly one no-op iteration, got %d", iterations)
	}
}

// TestSaturate_Monotonic exercises P6: for F1 subset of F2, saturate(F1) is
// a subset of saturate(F2).
func TestSaturate_Monotonic(t *testing.T) {
	rules := ancestorRules(t)

	f1 := NewDatabase(NewFact("parent", Const("a"), Const("b")))
	f1.Saturate(rules)

	f2 := NewDatabase(
		NewFact("parent", Const("a"), Const("b")),
		NewFact("parent", Const("b"), Const("c")),
	)
	f2.Saturate(rules)

	for _, f := range f1.All() {
		if !f2.Contains(f) {
			t.Errorf("monotonicity violated: fact %s in saturate(F1) but not saturate(F2)", f)
		}
	}
}

func TestSaturate_CyclicDataFlowTerminates(t *testing.T) {
	// x := f(x) style self-loop (§9): DataFlow(x, x, loc) must not cause
	// forward chaining to loop forever, since the fact set is deduplicated
	// by structural equality.
	taintBase, err := NewRule("taint_base",
		PredFact(PredTainted, Var("v"), Var("loc")),
		PredFact(PredSource, Var("v"), Var("loc"), Var("kind")),
	)
	if err != nil {
		t.Fatalf("unexpected RuleLoadError: %v", err)
	}
	taintProp, err := NewRule("taint_prop",
		PredFact(PredTainted, Var("w"), Var("l")),
		PredFact(PredTainted, Var("v"), Var("srcLoc")),
		PredFact(PredDataFlow, Var("v"), Var("w"), Var("l")),
	)
	if err != nil {
		t.Fatalf("unexpected RuleLoadError: %v", err)
	}

	d := NewDatabase(
		NewFact(PredSource, Const("x"), Const("loc1"), Const("argv")),
		NewFact(PredDataFlow, Const("x"), Const("x"), Const("loc1")),
	)

	done := make(chan int, 1)
	go func() { done <- d.Saturate([]Rule{taintBase, taintProp}) }()

	select {
	case <-done:
		// terminated, as required
	case <-time.After(2 * time.Second):
		t.Fatalf("Saturate did not terminate on a self-referential DataFlow cycle")
	}
}
