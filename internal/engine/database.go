package engine

// Database is a monotonically growing set of Facts, keyed by structural
// equality (§3). It is owned by exactly one task at a time per analysis
// session (§5's shared-resource policy) — Database itself holds no locks;
// callers coordinate access.
type Database struct {
	facts map[string]Fact
	order []string // insertion order, for deterministic iteration (§5 determinism)
}

// NewDatabase returns an empty fact database seeded with the given facts.
func NewDatabase(seed ...Fact) *Database {
	d := &Database{facts: map[string]Fact{}}
	for _, f := range seed {
		d.Add(f)
	}
	return d
}

// Add inserts f if not already present. Returns true if the fact was new.
func (d *Database) Add(f Fact) bool {
	k := f.Key()
	if _, ok := d.facts[k]; ok {
		return false
	}
	d.facts[k] = f
	d.order = append(d.order, k)
	return true
}

// Contains reports whether f is already present.
func (d *Database) Contains(f Fact) bool {
	_, ok := d.facts[f.Key()]
	return ok
}

// All returns every fact in insertion order.
func (d *Database) All() []Fact {
	out := make([]Fact, len(d.order))
	for i, k := range d.order {
		out[i] = d.facts[k]
	}
	return out
}

// Len reports the number of distinct facts.
func (d *Database) Len() int { return len(d.facts) }

// ByPred returns every fact whose predicate name equals pred.
func (d *Database) ByPred(pred string) []Fact {
	var out []Fact
	for _, k := range d.order {
		f := d.facts[k]
		if f.Pred == pred {
			out = append(out, f)
		}
	}
	return out
}

// Match returns every substitution extending base that unifies pattern
// against some stored fact of the same predicate and arity. This is the
// pattern-matching primitive (§4.4 item 2).
func (d *Database) Match(pattern Predicate, base Substitution) []Substitution {
	var out []Substitution
	for _, f := range d.ByPred(pattern.Pred) {
		if len(f.Args) != len(pattern.Args) {
			continue
		}
		if sub, ok := UnifyAll(pattern.Args, f.Args, base); ok {
			out = append(out, sub)
		}
	}
	return out
}

// Clone returns a deep-enough copy of d sufficient for independent
// saturation (facts are immutable, so this only copies the index).
func (d *Database) Clone() *Database {
	out := &Database{facts: make(map[string]Fact, len(d.facts)), order: append([]string(nil), d.order...)}
	for k, v := range d.facts {
		out.facts[k] = v
	}
	return out
}
