package extract

import "github.com/assailsec/assail/internal/classify"

// familyRules maps a language family onto the catalogue grounded in that
// family's idioms. Families not listed here get commonRules only — §4.2
// documents the extractor as language-aware but never requires every family
// to have its own catalogue; unmodelled families still get the universal
// secret/path-traversal rules and a neutral FileStatistics pass.
var familyRules = map[classify.LanguageFamily][]Rule{
	classify.Rust: rustRules,

	classify.C:    cFamilyRules,
	classify.Cpp:  cFamilyRules,
	classify.Go:   cFamilyRules,
	classify.Zig:  cFamilyRules,
	classify.Nim:  cFamilyRules,
	classify.D:    cFamilyRules,
	classify.Odin: cFamilyRules,
	classify.Ada:  cFamilyRules,
	classify.Pony: cFamilyRules,

	classify.Python: scriptingRules,
	classify.JS:     scriptingRules,
	classify.TS:     scriptingRules,
	classify.Ruby:   scriptingRules,
	classify.Lua:    scriptingRules,
	classify.Shell:  scriptingRules,

	classify.Erlang: scriptingRules,
	classify.Elixir: scriptingRules,
	classify.Gleam:  scriptingRules,
}

// rulesFor returns the full rule set applicable to a file of the given
// family: the universal catalogue plus any family-specific one.
func rulesFor(family classify.LanguageFamily) []Rule {
	specific, ok := familyRules[family]
	if !ok {
		return commonRules
	}
	out := make([]Rule, 0, len(commonRules)+len(specific))
	out = append(out, commonRules...)
	out = append(out, specific...)
	return out
}
