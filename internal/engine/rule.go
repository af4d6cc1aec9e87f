package engine

import "fmt"

// PredicateKind discriminates a rule-body predicate between a fact pattern
// and the three built-in relations named in §3 (less_than, distinct, not).
type PredicateKind int

const (
	PredFactPattern PredicateKind = iota
	PredBuiltinLessThan
	PredBuiltinDistinct
	PredBuiltinNot
)

// Predicate is either a Fact pattern (possibly containing variables) or a
// built-in relation. Not wraps an Inner predicate and succeeds when Inner
// has no satisfying substitution under the bindings made by the body
// predicates before it; an Inner variable still unbound there matches
// anything (negation-as-failure over a finite, already range-restricted
// search space). Groundness of Inner is not checked.
type Predicate struct {
	Kind  PredicateKind
	Pred  string
	Args  []Term
	Inner *Predicate
}

// Fact builds a fact-pattern predicate.
func PredFact(pred string, args ...Term) Predicate {
	return Predicate{Kind: PredFactPattern, Pred: pred, Args: args}
}

// LessThan builds the less_than(a, b) built-in.
func LessThan(a, b Term) Predicate {
	return Predicate{Kind: PredBuiltinLessThan, Args: []Term{a, b}}
}

// Distinct builds the distinct(a, b) built-in.
func Distinct(a, b Term) Predicate {
	return Predicate{Kind: PredBuiltinDistinct, Args: []Term{a, b}}
}

// Not builds the negation-as-failure built-in over inner.
func Not(inner Predicate) Predicate {
	return Predicate{Kind: PredBuiltinNot, Inner: &inner}
}

// vars returns the variables a predicate's arguments (or, for Not, its
// inner predicate) expose.
func (p Predicate) vars() []string {
	if p.Kind == PredBuiltinNot {
		return p.Inner.vars()
	}
	seen := map[string]bool{}
	var out []string
	for _, a := range p.Args {
		for _, v := range CollectVars(a) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// Rule is name, head, body, and an optional guard — a monotonic
// forward-chaining production: when every body predicate is simultaneously
// satisfiable, the head is instantiated and added to the database.
type Rule struct {
	Name  string
	Head  Predicate
	Body  []Predicate
	Guard func(Substitution) bool
}

// RuleLoadError reports a rule rejected at load time: a malformed rule
// never partially loads (§7: "PatternLoadError / RuleLoadError ... fatal at
// startup; the process cannot proceed with partial analyzers").
type RuleLoadError struct {
	RuleName string
	Reason   string
}

func (e *RuleLoadError) Error() string {
	return fmt.Sprintf("rule load error: rule %q: %s", e.RuleName, e.Reason)
}

// NewRule validates and constructs a Rule. Validation enforces the
// termination guarantee of §4.4: every variable in the head must appear in
// some positive (non-negated) body predicate (range-restriction), and no
// head argument may nest deeper than checkNoGrowingTerms allows (no
// growing terms).
func NewRule(name string, head Predicate, body ...Predicate) (Rule, error) {
	bodyVars := map[string]bool{}
	for _, p := range body {
		if p.Kind == PredBuiltinNot {
			continue // negated predicates don't range-restrict the head
		}
		for _, v := range p.vars() {
			bodyVars[v] = true
		}
	}

	for _, v := range head.vars() {
		if !bodyVars[v] {
			return Rule{}, &RuleLoadError{
				RuleName: name,
				Reason:   fmt.Sprintf("head variable %q does not appear in any positive body predicate (range-restriction violation)", v),
			}
		}
	}

	if err := checkNoGrowingTerms(head.Args, bodyVars); err != nil {
		return Rule{}, &RuleLoadError{RuleName: name, Reason: err.Error()}
	}

	return Rule{Name: name, Head: head, Body: body}, nil
}

// checkNoGrowingTerms rejects a head argument whose nesting depth exceeds
// 2, counting a variable as 0, a constant as 1 and a composite as 1 plus
// its deepest argument (so a composite of a composite of a constant is
// rejected). Composite tags are not compared against the body; a precise
// check would need body-pattern shape tracking.
func checkNoGrowingTerms(args []Term, bodyVars map[string]bool) error {
	for _, a := range args {
		if depthWithoutVar(a, bodyVars) > 2 {
			return fmt.Errorf("head contains a composite term with depth > 2 built from no body variable, which could grow the Herbrand base unboundedly")
		}
	}
	return nil
}

func depthWithoutVar(t Term, bodyVars map[string]bool) int {
	if t.Kind == KindVar {
		return 0
	}
	if t.Kind != KindComposite {
		return 1
	}
	max := 0
	for _, a := range t.Args {
		if d := depthWithoutVar(a, bodyVars); d > max {
			max = d
		}
	}
	return 1 + max
}
