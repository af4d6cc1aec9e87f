package classify

import (
	"bytes"
	"regexp"
	"strings"
)

// shebangTable maps an interpreter token found on a `#!` first line to a
// language family. Matched against the last path segment of the shebang's
// interpreter (so `#!/usr/bin/env ruby` and `#!/usr/bin/ruby` both resolve).
var shebangTable = map[string]LanguageFamily{
	"sh":    Shell,
	"bash":  Shell,
	"zsh":   Shell,
	"dash":  Shell,
	"python":  Python,
	"python2": Python,
	"python3": Python,
	"node":    JS,
	"nodejs":  JS,
	"ruby":    Ruby,
	"lua":     Lua,
	"escript": Erlang,
	"elixir":  Elixir,
	"gleam":   Gleam,
	"racket":  Racket,
	"scheme":  Scheme,
	"swipl":   Prolog,
}

var shebangLine = regexp.MustCompile(`^#!\s*(\S+)(?:\s+(\S+))?`)

// byShebang inspects the first line of content for a `#!` interpreter
// directive and resolves it to a family. ok is false when there is no
// shebang or the interpreter is not recognised.
func byShebang(content []byte) (LanguageFamily, bool) {
	nl := bytes.IndexByte(content, '\n')
	first := content
	if nl >= 0 {
		first = content[:nl]
	}
	if len(first) == 0 || first[0] != '#' {
		return Generic, false
	}
	m := shebangLine.FindSubmatch(first)
	if m == nil {
		return Generic, false
	}
	interp := string(m[1])
	// `#!/usr/bin/env ruby` style: the real interpreter is the second token.
	if strings.HasSuffix(interp, "/env") && len(m) > 2 && len(m[2]) > 0 {
		interp = string(m[2])
	}
	name := interp
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.ToLower(name)
	if fam, ok := shebangTable[name]; ok {
		return fam, true
	}
	return Generic, false
}

