package classify

import "strings"

// extensionTable maps a file extension (including the dot) to a language
// family. byExtension below prefers the longest matching suffix, so a
// longer entry is never shadowed by a shorter one it ends with.
var extensionTable = map[string]LanguageFamily{
	".rs":    Rust,
	".c":     C,
	".h":     C,
	".cc":    Cpp,
	".cpp":   Cpp,
	".cxx":   Cpp,
	".hpp":   Cpp,
	".hh":    Cpp,
	".go":    Go,
	".zig":   Zig,
	".adb":   Ada,
	".ads":   Ada,
	".odin":  Odin,
	".nim":   Nim,
	".nims":  Nim,
	".d":     D,
	".pony":  Pony,

	".py":  Python,
	".pyi": Python,
	".js":  JS,
	".mjs": JS,
	".cjs": JS,
	".jsx": JS,
	".ts":  TS,
	".tsx": TS,
	".rb":  Ruby,
	".lua": Lua,
	".sh":  Shell,
	".bash": Shell,
	".zsh":  Shell,

	".erl":  Erlang,
	".hrl":  Erlang,
	".ex":   Elixir,
	".exs":  Elixir,
	".gleam": Gleam,

	".ml":   OCaml,
	".mli":  OCaml,
	".sml":  SML,
	".hs":   Haskell,
	".lhs":  Haskell,
	".purs": PureScript,
	".res":  ReScript,
	".resi": ReScript,
	".jl":   Julia,

	".scm":    Scheme,
	".ss":     Scheme,
	".rkt":    Racket,

	".idr": Idris,
	".lean": Lean,
	".agda": Agda,

	".pl":  Prolog,
	".pro": Prolog,
	".lgt": Logtalk,
	".dl":  Datalog,

	".ncl": Nickel,
	".nix": Nix,
}

// ambiguousExtensions lists extensions shared across more than one family,
// where the extension table alone cannot resolve the classification and the
// shebang/content-regex stages must run.
var ambiguousExtensions = map[string]bool{
	".pl": true, // prolog vs perl (perl falls back to generic — out of the closed systems/scripting set named in spec)
	".m":  true, // objective-c vs matlab-ish — not in our closed set, generic
}

// byExtension returns a family for the most specific matching extension, or
// Generic with ok=false when nothing matches.
func byExtension(path string) (LanguageFamily, bool) {
	lower := strings.ToLower(path)

	// Try the longest known suffix first (e.g. ".d.ts" before ".ts").
	// The table only holds single-segment extensions, but we still prefer
	// the most specific dotted-suffix match among the table's keys.
	var best LanguageFamily
	bestLen := -1
	for ext, fam := range extensionTable {
		if strings.HasSuffix(lower, ext) && len(ext) > bestLen {
			if ambiguousExtensions[ext] {
				continue
			}
			best = fam
			bestLen = len(ext)
		}
	}
	if bestLen >= 0 {
		return best, true
	}
	return Generic, false
}
