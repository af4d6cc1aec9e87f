package engine

// Query performs an SLD-resolution-style backward search (§4.4 item 4):
// given a goal predicate, return every substitution that makes it provable
// from the current database plus the rule set. Unlike Saturate, Query does
// not mutate d; it explores rule bodies on demand, resolving sub-goals
// depth-first and backtracking on failure.
func (d *Database) Query(goal Predicate, rules []Rule) []Substitution {
	return solveGoal(d, rules, goal, NewSubstitution(), 0)
}

// maxQueryDepth bounds SLD recursion so a cyclic rule set (e.g. the taint
// DataFlow cycles discussed in §9) cannot recurse unboundedly; the rule set
// is already guaranteed finite by range-restriction, so this is a
// defense-in-depth cutoff rather than a correctness requirement.
const maxQueryDepth = 256

func solveGoal(d *Database, rules []Rule, goal Predicate, sub Substitution, depth int) []Substitution {
	if depth > maxQueryDepth {
		return nil
	}

	var results []Substitution

	// Resolve directly against stored facts.
	results = append(results, solvePredicate(d, goal, sub)...)

	if goal.Kind != PredFactPattern {
		return results
	}

	// Resolve against every rule whose head predicate matches goal's name
	// and arity, recursively solving the rule's body as sub-goals.
	for _, r := range rules {
		if r.Head.Pred != goal.Pred || len(r.Head.Args) != len(goal.Args) {
			continue
		}
		headSub, ok := UnifyAll(goal.Args, r.Head.Args, sub)
		if !ok {
			continue
		}
		bodySubs := solveBodyBackward(d, rules, r.Body, headSub, depth+1)
		for _, bs := range bodySubs {
			if r.Guard != nil && !r.Guard(bs) {
				continue
			}
			results = append(results, bs)
		}
	}
	return results
}

func solveBodyBackward(d *Database, rules []Rule, body []Predicate, base Substitution, depth int) []Substitution {
	subs := []Substitution{base}
	for _, pred := range body {
		var next []Substitution
		for _, s := range subs {
			if pred.Kind == PredFactPattern {
				next = append(next, solveGoal(d, rules, pred, s, depth)...)
			} else {
				next = append(next, solvePredicate(d, pred, s)...)
			}
		}
		subs = next
		if len(subs) == 0 {
			return nil
		}
	}
	return subs
}
