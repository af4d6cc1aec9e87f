package engine

import (
	"fmt"
	"strings"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
)

// SaturateViaMangle is SaturateRulesViaMangle with no rules: it round-trips
// d's facts through mangle and derives nothing new.
func (d *Database) SaturateViaMangle() error {
	return d.SaturateRulesViaMangle(nil)
}

// SaturateRulesViaMangle performs the same forward-chaining fixpoint as
// Saturate(rules), but delegates the actual evaluation to
// github.com/google/mangle rather than this package's native solveBody
// loop. It compiles the Database's facts and the given Rules down into
// mangle's Datalog surface syntax, evaluates to a fixpoint with mangle's
// own engine, and merges every derived atom back into d.
// internal/domain.AnalyzeStatic calls it for boundary-rule saturation once
// a project crosses its large-project file-count threshold; the native
// Saturate remains the default below that threshold and is what this
// package's own tests (including the monotonicity property P6) exercise
// directly.
func (d *Database) SaturateRulesViaMangle(rules []Rule) error {
	preds := map[string]int{}
	for _, f := range d.All() {
		preds[f.Pred] = len(f.Args)
	}
	for _, r := range rules {
		preds[r.Head.Pred] = len(r.Head.Args)
	}

	source := compileToMangleSource(d.All(), rules)
	return d.evalMangleSource(source, preds)
}

func (d *Database) evalMangleSource(source string, preds map[string]int) error {
	unit, err := parse.Unit(strings.NewReader(source))
	if err != nil {
		return fmt.Errorf("mangle backend: parse program: %w", err)
	}
	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return fmt.Errorf("mangle backend: analyze program: %w", err)
	}
	store := factstore.NewSimpleInMemoryStore()
	if _, err := engine.EvalProgramWithStats(programInfo, store); err != nil {
		return fmt.Errorf("mangle backend: evaluate program: %w", err)
	}

	for pred, arity := range preds {
		query := ast.NewQuery(ast.PredicateSym{Symbol: pred, Arity: arity})
		_ = store.GetFacts(query, func(atom ast.Atom) error {
			args := make([]Term, len(atom.Args))
			for i, a := range atom.Args {
				args[i] = mangleTermToTerm(a)
			}
			d.Add(NewFact(pred, args...))
			return nil
		})
	}
	return nil
}

// compileToMangleSource renders a fact set and rule set into mangle's
// surface Datalog syntax: `Decl` headers are omitted (mangle's parser
// accepts undeclared predicates for simple EDB/IDB use), facts are printed
// as ground atoms terminated by `.`, and rules as `head :- body1, body2.`.
func compileToMangleSource(facts []Fact, rules []Rule) string {
	var b strings.Builder
	for _, f := range facts {
		fmt.Fprintf(&b, "%s.\n", renderMangleAtom(f.Pred, f.Args))
	}
	for _, r := range rules {
		parts := make([]string, 0, len(r.Body))
		for _, p := range r.Body {
			parts = append(parts, renderManglePredicate(p))
		}
		fmt.Fprintf(&b, "%s :- %s.\n", renderMangleAtom(r.Head.Pred, r.Head.Args), strings.Join(parts, ", "))
	}
	return b.String()
}

func renderMangleAtom(pred string, args []Term) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = renderMangleTerm(a)
	}
	return pred + "(" + strings.Join(parts, ", ") + ")"
}

func renderManglePredicate(p Predicate) string {
	switch p.Kind {
	case PredBuiltinLessThan:
		return ":lt(" + renderMangleTerm(p.Args[0]) + ", " + renderMangleTerm(p.Args[1]) + ")"
	case PredBuiltinDistinct:
		return renderMangleTerm(p.Args[0]) + " != " + renderMangleTerm(p.Args[1])
	case PredBuiltinNot:
		return "!" + renderManglePredicate(*p.Inner)
	default:
		return renderMangleAtom(p.Pred, p.Args)
	}
}

// renderMangleTerm mirrors Term.String but uses mangle's variable-naming
// and name-atom (`/foo`) conventions instead of the Prolog-ish default.
func renderMangleTerm(t Term) string {
	switch t.Kind {
	case KindVar:
		return varDisplayName(t.Var)
	case KindConst:
		switch t.ConstKind {
		case ConstString:
			return fmt.Sprintf("%q", t.Str)
		case ConstInt:
			return fmt.Sprintf("%d", t.Int)
		case ConstBool:
			if t.Bool {
				return "true"
			}
			return "false"
		}
	case KindComposite:
		if t.Tag == "list" {
			parts := make([]string, len(t.Args))
			for i, a := range t.Args {
				parts[i] = renderMangleTerm(a)
			}
			return "[" + strings.Join(parts, ", ") + "]"
		}
	}
	return t.String()
}

func mangleTermToTerm(bt ast.BaseTerm) Term {
	switch v := bt.(type) {
	case ast.Constant:
		switch v.Type {
		case ast.StringType, ast.NameType:
			return Const(v.Symbol)
		case ast.NumberType:
			return ConstNum(v.NumValue)
		default:
			return Const(v.String())
		}
	case ast.Variable:
		return Var(v.Symbol)
	default:
		return Const(fmt.Sprintf("%v", bt))
	}
}
