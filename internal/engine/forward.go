package engine

// Saturate runs forward-chaining to a fixpoint (§4.4 item 3): repeatedly,
// for each rule, find every substitution satisfying the whole body, then
// add the instantiated head if new. Terminates when an iteration adds no
// new fact — guaranteed by the range-restriction + no-growing-terms checks
// NewRule performs at load time (§4.4's termination guarantee). Returns the
// number of fixpoint iterations taken.
func (d *Database) Saturate(rules []Rule) int {
	iterations := 0
	for {
		iterations++
		addedAny := false
		for _, r := range rules {
			for _, sub := range solveBody(d, r.Body, NewSubstitution()) {
				if r.Guard != nil && !r.Guard(sub) {
					continue
				}
				head := instantiate(r.Head, sub)
				if d.Add(NewFact(head.Tag, head.Args...)) {
					addedAny = true
				}
			}
		}
		if !addedAny {
			return iterations
		}
	}
}

// instantiate applies sub to every argument of p's pattern, returning the
// fully (or partially) substituted term representing the would-be fact.
func instantiate(p Predicate, sub Substitution) Term {
	args := make([]Term, len(p.Args))
	for i, a := range p.Args {
		args[i] = sub.Apply(a)
	}
	return Composite(p.Pred, args...)
}

// solveBody finds every substitution, extending base, that simultaneously
// satisfies every predicate in body — a conjunctive join across the
// database and the built-in relations.
func solveBody(d *Database, body []Predicate, base Substitution) []Substitution {
	subs := []Substitution{base}
	for _, pred := range body {
		var next []Substitution
		for _, s := range subs {
			next = append(next, solvePredicate(d, pred, s)...)
		}
		subs = next
		if len(subs) == 0 {
			return nil
		}
	}
	return subs
}

func solvePredicate(d *Database, pred Predicate, sub Substitution) []Substitution {
	switch pred.Kind {
	case PredFactPattern:
		return d.Match(pred, sub)
	case PredBuiltinLessThan:
		a, b := sub.Apply(pred.Args[0]), sub.Apply(pred.Args[1])
		if lessThan(a, b) {
			return []Substitution{sub}
		}
		return nil
	case PredBuiltinDistinct:
		a, b := sub.Apply(pred.Args[0]), sub.Apply(pred.Args[1])
		if !a.Equal(b) {
			return []Substitution{sub}
		}
		return nil
	case PredBuiltinNot:
		if len(solveBody(d, []Predicate{*pred.Inner}, sub)) == 0 {
			return []Substitution{sub}
		}
		return nil
	}
	return nil
}

func lessThan(a, b Term) bool {
	if a.Kind != KindConst || b.Kind != KindConst {
		return false
	}
	switch {
	case a.ConstKind == ConstInt && b.ConstKind == ConstInt:
		return a.Int < b.Int
	case a.ConstKind == ConstString && b.ConstKind == ConstString:
		return a.Str < b.Str
	default:
		return false
	}
}
