// Package engine implements the relational fact engine (C4): substitution-
// based unification with occurs-check, a monotonic fact database, forward-
// chaining saturation to a fixpoint, and backward (SLD-style) queries. Term,
// Substitution, and Unify are implemented natively so the occurs-check
// property (P7) is directly testable without going through a third-party
// engine's internal representation. Saturation (forward.go) and backward
// queries (query.go) are native too; mangle_backend.go adds an alternate
// saturation path that compiles Rule/Fact values down into
// github.com/google/mangle.
package engine

import (
	"fmt"
	"strings"
)

// TermKind discriminates Term's three shapes (§3: constant, variable, or a
// composite (tag, list<Term>)).
type TermKind int

const (
	KindConst TermKind = iota
	KindVar
	KindComposite
)

// ConstKind discriminates the three constant shapes a Term can carry.
type ConstKind int

const (
	ConstString ConstKind = iota
	ConstInt
	ConstBool
)

// Term is either a constant, a logic variable, or a composite (tag, args).
// Terms are immutable once constructed; Substitution.Apply builds new Terms
// rather than mutating in place.
type Term struct {
	Kind TermKind

	ConstKind ConstKind
	Str       string
	Int       int64
	Bool      bool

	Var string

	Tag  string
	Args []Term
}

// Const builds a string constant.
func Const(s string) Term { return Term{Kind: KindConst, ConstKind: ConstString, Str: s} }

// ConstNum builds an integer constant.
func ConstNum(i int64) Term { return Term{Kind: KindConst, ConstKind: ConstInt, Int: i} }

// ConstBoolean builds a boolean constant.
func ConstBoolean(b bool) Term { return Term{Kind: KindConst, ConstKind: ConstBool, Bool: b} }

// Var builds a logic variable. Variable identity is by name: two Var(x)
// calls with the same name refer to the same variable within one rule or
// query scope.
func Var(name string) Term { return Term{Kind: KindVar, Var: name} }

// Composite builds a (tag, args) compound term, e.g. a taint path list.
func Composite(tag string, args ...Term) Term {
	return Term{Kind: KindComposite, Tag: tag, Args: args}
}

// IsVar reports whether t is a logic variable.
func (t Term) IsVar() bool { return t.Kind == KindVar }

// IsGround reports whether t contains no variables.
func (t Term) IsGround() bool {
	switch t.Kind {
	case KindVar:
		return false
	case KindComposite:
		for _, a := range t.Args {
			if !a.IsGround() {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Equal is structural equality, used by the fact database's set semantics
// (facts are deduplicated by structural equality per §3).
func (t Term) Equal(o Term) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindConst:
		if t.ConstKind != o.ConstKind {
			return false
		}
		switch t.ConstKind {
		case ConstString:
			return t.Str == o.Str
		case ConstInt:
			return t.Int == o.Int
		case ConstBool:
			return t.Bool == o.Bool
		}
		return false
	case KindVar:
		return t.Var == o.Var
	case KindComposite:
		if t.Tag != o.Tag || len(t.Args) != len(o.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(o.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders t in a Prolog-ish surface syntax, used both for debug
// output and as the building block for the mangle program text the
// Database compiles rules and facts down into.
func (t Term) String() string {
	switch t.Kind {
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
	case KindVar:
		return varDisplayName(t.Var)
	case KindComposite:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		if t.Tag == "list" {
			return "[" + strings.Join(parts, ", ") + "]"
		}
		return t.Tag + "(" + strings.Join(parts, ", ") + ")"
	}
	return "<invalid-term>"
}

// varDisplayName maps an internal variable name to a mangle-legal variable
// token (mangle requires variables to start with an uppercase letter).
func varDisplayName(name string) string {
	if name == "" {
		return "_"
	}
	if name[0] == '_' {
		return "V" + name
	}
	first := strings.ToUpper(name[:1])
	return first + name[1:]
}

// CollectVars returns the set of distinct variable names appearing in t,
// in first-occurrence order.
func CollectVars(t Term) []string {
	seen := map[string]bool{}
	var order []string
	var walk func(Term)
	walk = func(t Term) {
		switch t.Kind {
		case KindVar:
			if !seen[t.Var] {
				seen[t.Var] = true
				order = append(order, t.Var)
			}
		case KindComposite:
			for _, a := range t.Args {
				walk(a)
			}
		}
	}
	walk(t)
	return order
}
