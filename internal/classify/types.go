// Package classify maps a file path and its byte content to a language
// family, a coarse test-file flag, and a set of framework hints. It is
// total: every input resolves to some LanguageFamily, with Generic as the
// fallback when nothing else matches.
package classify

// LanguageFamily is a classifier tag drawn from a closed set.
type LanguageFamily string

const (
	Rust   LanguageFamily = "rust"
	C      LanguageFamily = "c"
	Cpp    LanguageFamily = "cpp"
	Go     LanguageFamily = "go"
	Zig    LanguageFamily = "zig"
	Ada    LanguageFamily = "ada"
	Odin   LanguageFamily = "odin"
	Nim    LanguageFamily = "nim"
	D      LanguageFamily = "d"
	Pony   LanguageFamily = "pony"

	Python LanguageFamily = "python"
	JS     LanguageFamily = "js"
	TS     LanguageFamily = "ts"
	Ruby   LanguageFamily = "ruby"
	Lua    LanguageFamily = "lua"
	Shell  LanguageFamily = "shell"

	Erlang LanguageFamily = "erlang"
	Elixir LanguageFamily = "elixir"
	Gleam  LanguageFamily = "gleam"

	OCaml      LanguageFamily = "ocaml"
	SML        LanguageFamily = "sml"
	Haskell    LanguageFamily = "haskell"
	PureScript LanguageFamily = "purescript"
	ReScript   LanguageFamily = "rescript"
	Julia      LanguageFamily = "julia"

	Scheme LanguageFamily = "scheme"
	Racket LanguageFamily = "racket"

	Idris LanguageFamily = "idris"
	Lean  LanguageFamily = "lean"
	Agda  LanguageFamily = "agda"

	Prolog  LanguageFamily = "prolog"
	Logtalk LanguageFamily = "logtalk"
	Datalog LanguageFamily = "datalog"

	Nickel LanguageFamily = "nickel"
	Nix    LanguageFamily = "nix"

	Generic LanguageFamily = "generic"
)

// Framework is a closed enum of coarse application categories.
type Framework string

const (
	FrameworkWebServer    Framework = "web-server"
	FrameworkDatabase     Framework = "database"
	FrameworkMessageQueue Framework = "message-queue"
	FrameworkCache        Framework = "cache"
	FrameworkFilesystem   Framework = "filesystem"
	FrameworkNetworking   Framework = "networking"
	FrameworkConcurrent   Framework = "concurrent"
	FrameworkCLI          Framework = "cli"
	FrameworkLibrary      Framework = "library"
	FrameworkUnknown      Framework = "unknown"
)

// Result is the total output of classifying one file.
type Result struct {
	Language   LanguageFamily
	Encoding   string // best-guess detected encoding, empty if undetermined
	IsTestFile bool
	Frameworks map[Framework]bool
}
