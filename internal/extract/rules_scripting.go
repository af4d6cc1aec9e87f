package extract

import (
	"regexp"

	"github.com/assailsec/assail/internal/model"
)

// scriptingRules cover Python/JS/TS/Ruby/Shell/Lua — the dynamic-language
// family where command injection, deserialization, and taint source/sink
// markers dominate over memory-safety categories.
var scriptingRules = []Rule{
	{
		ID:          "py-eval-exec",
		Pattern:     regexp.MustCompile(`\beval\(|\bexec\(`),
		Category:    model.UnsafeCode,
		Severity:    model.High,
		Counter:     CounterUnsafeBlocks,
		Description: "dynamic code evaluation",
	},
	{
		ID:          "py-pickle-load",
		Pattern:     regexp.MustCompile(`pickle\.loads?\(|yaml\.load\([^)]*\)`),
		Category:    model.UnsafeDeserialization,
		Severity:    model.High,
		Counter:     CounterNone,
		Description: "deserialisation of untrusted data via pickle/unsafe yaml.load",
	},
	{
		ID:          "py-subprocess-shell-true",
		Pattern:     regexp.MustCompile(`subprocess\.\w+\([^)]*shell\s*=\s*True`),
		Category:    model.CommandInjection,
		Severity:    model.High,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisCPU},
		Description: "subprocess invocation with shell=True",
	},
	{
		ID:          "py-os-system",
		Pattern:     regexp.MustCompile(`os\.system\(|os\.popen\(`),
		Category:    model.CommandInjection,
		Severity:    model.High,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisCPU},
		Description: "shell invocation via os.system/os.popen",
	},
	{
		ID:          "py-assert-as-guard",
		Pattern:     regexp.MustCompile(`^\s*assert\s+`),
		Category:    model.PanicPath,
		Severity:    model.Low,
		Counter:     CounterPanicSites,
		Description: "assertion used as a runtime guard (stripped under -O)",
	},
	{
		ID:          "py-request-source",
		Pattern:     regexp.MustCompile(`request\.(args|form|json|data|GET|POST|params)\b|input\(\)`),
		Category:    model.TaintedInput,
		Severity:    model.Info,
		Counter:     CounterNone,
		Description: "externally controlled input source",
	},
	{
		ID:          "py-blocking-io",
		Pattern:     regexp.MustCompile(`\bopen\(|requests\.(get|post)\(|time\.sleep\(`),
		Category:    model.BlockingIO,
		Severity:    model.Info,
		Counter:     CounterIOOperations,
		Description: "blocking I/O call",
	},
	{
		ID:          "py-thread",
		Pattern:     regexp.MustCompile(`threading\.Thread\(|multiprocessing\.Process\(`),
		Category:    model.RaceCondition,
		Severity:    model.Low,
		Counter:     CounterThreadingConstructs,
		Axes:        []model.AttackAxis{model.AxisConcurrency},
		Description: "thread/process spawn",
	},
	{
		ID:          "py-unbounded-while",
		Pattern:     regexp.MustCompile(`^\s*while\s+True\s*:`),
		Category:    model.UnboundedLoop,
		Severity:    model.Low,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisCPU, model.AxisTime},
		Description: "unconditioned infinite loop",
	},

	// JavaScript/TypeScript.
	{
		ID:          "js-eval",
		Pattern:     regexp.MustCompile(`\beval\(|new Function\(`),
		Category:    model.UnsafeCode,
		Severity:    model.High,
		Counter:     CounterUnsafeBlocks,
		Description: "dynamic code evaluation",
	},
	{
		ID:          "js-child-process-exec",
		Pattern:     regexp.MustCompile(`child_process\.(exec|execSync)\(`),
		Category:    model.CommandInjection,
		Severity:    model.High,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisCPU},
		Description: "shell invocation via child_process.exec",
	},
	{
		ID:          "js-json-parse-untrusted",
		Pattern:     regexp.MustCompile(`JSON\.parse\([^)]*(req\.|request\.)`),
		Category:    model.UnsafeDeserialization,
		Severity:    model.Medium,
		Counter:     CounterNone,
		Description: "JSON.parse on a request-derived string",
	},
	{
		ID:          "js-request-source",
		Pattern:     regexp.MustCompile(`req\.(query|body|params|headers)\b`),
		Category:    model.TaintedInput,
		Severity:    model.Info,
		Counter:     CounterNone,
		Description: "externally controlled request field",
	},
	{
		ID:          "js-non-null-assert",
		Pattern:     regexp.MustCompile(`\w+!\.\w+|\w+!\[`),
		Category:    model.PanicPath,
		Severity:    model.Low,
		Counter:     CounterUnwrapCalls,
		Description: "TypeScript non-null assertion",
		SafeVariant: regexp.MustCompile(`\?\.\w+`),
	},
	{
		ID:          "js-blocking-sync-io",
		Pattern:     regexp.MustCompile(`readFileSync\(|execSync\(`),
		Category:    model.BlockingIO,
		Severity:    model.Info,
		Counter:     CounterIOOperations,
		Description: "synchronous/blocking I/O call",
	},

	// Ruby.
	{
		ID:          "ruby-eval",
		Pattern:     regexp.MustCompile(`\beval\(|\bsystem\(|` + "`" + `[^` + "`" + `]*#\{`),
		Category:    model.CommandInjection,
		Severity:    model.High,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisCPU},
		Description: "eval/system/backtick invocation with interpolation",
	},
	{
		ID:          "ruby-marshal-load",
		Pattern:     regexp.MustCompile(`Marshal\.load\(|YAML\.load\(`),
		Category:    model.UnsafeDeserialization,
		Severity:    model.High,
		Counter:     CounterNone,
		Description: "deserialisation via Marshal.load/unsafe YAML.load",
	},
	{
		ID:          "ruby-bang-method",
		Pattern:     regexp.MustCompile(`\.fetch!\(|\.first!\b`),
		Category:    model.PanicPath,
		Severity:    model.Low,
		Counter:     CounterPanicSites,
		Description: "raising bang-method call",
	},

	// Shell.
	{
		ID:          "sh-eval",
		Pattern:     regexp.MustCompile(`\beval\s+|\$\([^)]*\$\{?\d+|` + "`" + `\$\d` + "`"),
		Category:    model.CommandInjection,
		Severity:    model.High,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisCPU},
		Description: "shell eval or command substitution over positional args",
	},
	{
		ID:          "sh-unquoted-rm",
		Pattern:     regexp.MustCompile(`rm\s+-rf\s+\$\w+`),
		Category:    model.UnsafeCode,
		Severity:    model.High,
		Counter:     CounterUnsafeBlocks,
		Description: "destructive command over an unquoted variable",
	},
	{
		ID:          "sh-infinite-loop",
		Pattern:     regexp.MustCompile(`^\s*while\s+(true|:)\s*(;|do)`),
		Category:    model.UnboundedLoop,
		Severity:    model.Low,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisCPU, model.AxisTime},
		Description: "unconditioned infinite loop",
	},

	// Erlang/Elixir/Gleam atom-table exhaustion — a BEAM-specific resource
	// category distinct from heap allocation.
	{
		ID:          "beam-dynamic-atom",
		Pattern:     regexp.MustCompile(`String\.to_atom\(|:erlang\.binary_to_atom\(|list_to_atom\(`),
		Category:    model.AtomExhaustion,
		Severity:    model.High,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisMemory},
		Description: "atom created from externally controlled input (unbounded atom table growth)",
	},

	// Cross-language taint sinks, kept family-agnostic since "sink" markers
	// (query execution, raw response writes) recur across the scripting
	// languages with near-identical shapes.
	{
		ID:          "taint-sql-sink",
		Pattern:     regexp.MustCompile(`execute\(["'][^"']*%s|cursor\.execute\([^)]*\+|query\([^)]*\+\s*\w`),
		Category:    model.TaintedSink,
		Severity:    model.High,
		Counter:     CounterNone,
		Description: "string-built SQL query sink",
	},
}
