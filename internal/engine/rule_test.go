package engine

import (
	"errors"
	"testing"
)

func TestNewRule_RejectsUnrestrictedHeadVariable(t *testing.T) {
	_, err := NewRule("bad",
		PredFact("derived", Var("unbound")),
		PredFact("parent", Var("a"), Var("b")),
	)
	if err == nil {
		t.Fatalf("expected RuleLoadError for a head variable absent from the body")
	}
	var rle *RuleLoadError
	if !errors.As(err, &rle) {
		t.Errorf("expected a *RuleLoadError, got %T: %v", err, err)
	}
}

func TestNewRule_AcceptsRangeRestrictedRule(t *testing.T) {
	_, err := NewRule("good",
		PredFact("ancestor", Var("a"), Var("d")),
		PredFact("parent", Var("a"), Var("d")),
	)
	if err != nil {
		t.Fatalf("expected a well-formed rule to load, got %v", err)
	}
}

func TestNewRule_NegatedBodyDoesNotRangeRestrict(t *testing.T) {
	_, err := NewRule("bad_negation",
		PredFact("derived", Var("x")),
		Not(PredFact("excluded", Var("x"))),
	)
	if err == nil {
		t.Fatalf("expected RuleLoadError: a negated predicate cannot range-restrict the head")
	}
}
