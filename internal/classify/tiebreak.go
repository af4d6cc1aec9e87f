package classify

import "regexp"

// tiebreakRule is one content regex that resolves an ambiguous file to a
// family. The tables below hold up to ~8 rules per ambiguous case; rules
// are tried in order and the first match wins.
type tiebreakRule struct {
	family LanguageFamily
	re     *regexp.Regexp
}

// tiebreakers resolves cases where extension and shebang both fail or
// collide, keyed by the ambiguous extension that triggered the tiebreak.
var tiebreakers = map[string][]tiebreakRule{
	".pl": {
		{Prolog, regexp.MustCompile(`(?m)^\s*:-\s*(module|initialization|dynamic)\b`)},
		{Prolog, regexp.MustCompile(`(?m)^[a-z][a-zA-Z0-9_]*\([^)]*\)\s*:-`)},
	},
	".m": {
		{Erlang, regexp.MustCompile(`(?m)^-module\(`)},
	},
	".ss": {
		{Scheme, regexp.MustCompile(`(?m)\(define\b`)},
	},
}

// genericTiebreakers run when neither extension nor shebang resolved
// anything at all, giving a handful of last-resort content signatures
// before defaulting to Generic.
var genericTiebreakers = []tiebreakRule{
	{Shell, regexp.MustCompile(`(?m)^\s*(if|then|fi|esac|case)\b.*;\s*$`)},
	{Prolog, regexp.MustCompile(`(?m)^[a-z][a-zA-Z0-9_]*\([^)]*\)\s*:-`)},
	{Datalog, regexp.MustCompile(`(?m)^[a-z][a-zA-Z0-9_]*\([^)]*\)\s*:-[^.]*\.\s*$`)},
	{Nix, regexp.MustCompile(`(?m)^\s*(let|with|rec)\s+.*;\s*$|\bmkDerivation\b`)},
	{Erlang, regexp.MustCompile(`(?m)^-module\(`)},
	{Elixir, regexp.MustCompile(`(?m)^\s*defmodule\s+\w`)},
	{Haskell, regexp.MustCompile(`(?m)^module\s+\w+.*\bwhere\b`)},
	{OCaml, regexp.MustCompile(`(?m)^\s*let\s+rec\s+\w+|^\s*module\s+\w+\s*=\s*struct`)},
}

func byContentTiebreak(ext string, content []byte) (LanguageFamily, bool) {
	for _, rule := range tiebreakers[ext] {
		if rule.re.Match(content) {
			return rule.family, true
		}
	}
	return Generic, false
}

func byGenericTiebreak(content []byte) (LanguageFamily, bool) {
	for _, rule := range genericTiebreakers {
		if rule.re.Match(content) {
			return rule.family, true
		}
	}
	return Generic, false
}
