package engine

// Unify attempts to unify a and b under substitution s, returning an
// extended substitution and true on success, or the original substitution
// and false on failure (incompatible terms, arity mismatch, or an
// occurs-check violation). Unify never panics; failure is a normal,
// expected outcome during inference (§7's InferenceNonMatch).
func Unify(a, b Term, s Substitution) (Substitution, bool) {
	a = s.Resolve(a)
	b = s.Resolve(b)

	if a.Kind == KindVar && b.Kind == KindVar && a.Var == b.Var {
		return s, true
	}
	if a.Kind == KindVar {
		return s.bind(a.Var, b)
	}
	if b.Kind == KindVar {
		return s.bind(b.Var, a)
	}

	if a.Kind != b.Kind {
		return s, false
	}

	switch a.Kind {
	case KindConst:
		if a.Equal(b) {
			return s, true
		}
		return s, false
	case KindComposite:
		if a.Tag != b.Tag || len(a.Args) != len(b.Args) {
			return s, false
		}
		cur := s
		var ok bool
		for i := range a.Args {
			cur, ok = Unify(a.Args[i], b.Args[i], cur)
			if !ok {
				return s, false
			}
		}
		return cur, true
	}
	return s, false
}

// UnifyAll unifies each pair (as[i], bs[i]) in order, threading the
// substitution through. Fails as soon as one pair fails.
func UnifyAll(as, bs []Term, s Substitution) (Substitution, bool) {
	if len(as) != len(bs) {
		return s, false
	}
	cur := s
	var ok bool
	for i := range as {
		cur, ok = Unify(as[i], bs[i], cur)
		if !ok {
			return s, false
		}
	}
	return cur, true
}
