package engine

import "testing"

func TestQuery_BackwardResolvesThroughRules(t *testing.T) {
	d := NewDatabase(
		NewFact("parent", Const("oedipus"), Const("antigone")),
		NewFact("parent", Const("antigone"), Const("thersander")),
	)
	rules := ancestorRules(t)

	results := d.Query(PredFact("ancestor", Const("oedipus"), Var("who")), rules)
	if len(results) == 0 {
		t.Fatalf("expected at least one substitution proving ancestor(oedipus, ?)")
	}

	found := false
	for _, sub := range results {
		who, ok := sub.Lookup("who")
		if ok && who.Equal(Const("thersander")) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a substitution binding who=thersander among %v", results)
	}
}

func TestQuery_NoProofReturnsEmpty(t *testing.T) {
	d := NewDatabase(NewFact("parent", Const("a"), Const("b")))
	rules := ancestorRules(t)

	results := d.Query(PredFact("ancestor", Const("z"), Var("who")), rules)
	if len(results) != 0 {
		t.Errorf("expected no proof for an unrelated goal, got %v", results)
	}
}

func TestQuery_DirectFactMatch(t *testing.T) {
	d := NewDatabase(NewFact("parent", Const("a"), Const("b")))
	results := d.Query(PredFact("parent", Const("a"), Var("child")), nil)
	if len(results) != 1 {
		t.Fatalf("expected exactly one substitution, got %d", len(results))
	}
	child, _ := results[0].Lookup("child")
	if !child.Equal(Const("b")) {
		t.Errorf("expected child=b, got %v", child)
	}
}
