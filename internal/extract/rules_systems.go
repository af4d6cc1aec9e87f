package extract

import (
	"regexp"

	"github.com/assailsec/assail/internal/model"
)

// rustRules is the systems family's flagship catalogue — spec §4.2's own
// worked examples (`.unwrap()` vs `.unwrap_or(...)`) are Rust idioms.
var rustRules = []Rule{
	{
		ID:          "rust-unsafe-block",
		Pattern:     regexp.MustCompile(`\bunsafe\s*\{`),
		Category:    model.UnsafeCode,
		Severity:    model.Medium,
		Counter:     CounterUnsafeBlocks,
		Axes:        []model.AttackAxis{model.AxisMemory},
		Description: "unsafe block",
	},
	{
		ID:          "rust-unwrap",
		Pattern:     regexp.MustCompile(`\.unwrap\(\)|\.expect\([^)]*\)`),
		Category:    model.PanicPath,
		Severity:    model.Medium,
		Counter:     CounterUnwrapCalls,
		Axes:        []model.AttackAxis{model.AxisCPU, model.AxisTime},
		Description: "panic-capable unwrap/expect call",
		SafeVariant: regexp.MustCompile(`\.unwrap_or\(|\.unwrap_or_default\(\)|\.unwrap_or_else\(`),
	},
	{
		ID:          "rust-panic-macro",
		Pattern:     regexp.MustCompile(`\bpanic!\(|\bunreachable!\(|\btodo!\(|\bunimplemented!\(`),
		Category:    model.PanicPath,
		Severity:    model.Medium,
		Counter:     CounterPanicSites,
		Axes:        []model.AttackAxis{model.AxisCPU, model.AxisTime},
		Description: "explicit panic path",
	},
	{
		ID:           "rust-alloc-vec-with-capacity",
		Pattern:      regexp.MustCompile(`Vec::with_capacity\(|vec!\[.*;\s*\w+\]|Box::new\(|String::with_capacity\(`),
		Category:     model.UncheckedAllocation,
		Severity:     model.Low,
		Counter:      CounterAllocationSite,
		IsAllocation: true,
		Axes:         []model.AttackAxis{model.AxisMemory},
		Description:  "heap allocation site",
	},
	{
		ID:          "rust-ffi-extern",
		Pattern:     regexp.MustCompile(`\bextern\s+"C"\s*\{|#\[no_mangle\]`),
		Category:    model.UnsafeFFI,
		Severity:    model.High,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisMemory},
		Description: "FFI boundary declaration",
	},
	{
		ID:          "rust-mutex-lock",
		Pattern:     regexp.MustCompile(`\.lock\(\)\.unwrap\(\)|Mutex::new\(`),
		Category:    model.DeadlockPotential,
		Severity:    model.Low,
		Counter:     CounterThreadingConstructs,
		Axes:        []model.AttackAxis{model.AxisConcurrency},
		Description: "mutex acquisition",
	},
	{
		ID:          "rust-thread-spawn",
		Pattern:     regexp.MustCompile(`thread::spawn\(|tokio::spawn\(`),
		Category:    model.RaceCondition,
		Severity:    model.Low,
		Counter:     CounterThreadingConstructs,
		Axes:        []model.AttackAxis{model.AxisConcurrency},
		Description: "concurrent task spawn",
	},
	{
		ID:          "rust-command-exec",
		Pattern:     regexp.MustCompile(`Command::new\([^)]*\)\s*\.arg\([^)]*(?:input|arg|param)`),
		Category:    model.CommandInjection,
		Severity:    model.High,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisCPU},
		Description: "subprocess argument built from unsanitised input",
	},
	{
		ID:          "rust-unchecked-add",
		Pattern:     regexp.MustCompile(`\bwrapping_add\(|\bunchecked_add\(|as\s+u8\b.*\+`),
		Category:    model.IntegerOverflow,
		Severity:    model.Low,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisCPU},
		Description: "arithmetic without overflow checking",
	},
}

// cFamilyRules covers C/C++/Go/Zig/D/Nim/Odin/Ada/Pony — the rest of the
// systems family — with the idioms each actually uses for the same
// categories the Rust catalogue models.
var cFamilyRules = []Rule{
	{
		ID:           "c-malloc",
		Pattern:      regexp.MustCompile(`\bmalloc\(|\bcalloc\(|\brealloc\(`),
		Category:     model.UncheckedAllocation,
		Severity:     model.Low,
		Counter:      CounterAllocationSite,
		IsAllocation: true,
		Axes:         []model.AttackAxis{model.AxisMemory},
		Description:  "heap allocation site",
	},
	{
		ID:          "c-unchecked-alloc-use",
		Pattern:     regexp.MustCompile(`=\s*malloc\([^)]*\);(?:\s*\n)+\s*\w+\s*->`),
		Category:    model.UnsafeCode,
		Severity:    model.Medium,
		Counter:     CounterUnsafeBlocks,
		Axes:        []model.AttackAxis{model.AxisMemory},
		Description: "allocation result dereferenced without a null check",
	},
	{
		ID:          "c-free",
		Pattern:     regexp.MustCompile(`\bfree\(`),
		Category:    model.ResourceLeak,
		Severity:    model.Info,
		Counter:     CounterNone,
		Description: "explicit free call (tracked for use-after-free inference)",
	},
	{
		ID:          "c-strcpy",
		Pattern:     regexp.MustCompile(`\bstrcpy\(|\bstrcat\(|\bsprintf\(|\bgets\(`),
		Category:    model.UnsafeCode,
		Severity:    model.High,
		Counter:     CounterUnsafeBlocks,
		Axes:        []model.AttackAxis{model.AxisMemory},
		Description: "unbounded C string function",
	},
	{
		ID:          "c-pthread-mutex",
		Pattern:     regexp.MustCompile(`pthread_mutex_lock\(|pthread_mutex_init\(`),
		Category:    model.DeadlockPotential,
		Severity:    model.Low,
		Counter:     CounterThreadingConstructs,
		Axes:        []model.AttackAxis{model.AxisConcurrency},
		Description: "mutex acquisition",
	},
	{
		ID:          "c-pthread-create",
		Pattern:     regexp.MustCompile(`pthread_create\(`),
		Category:    model.RaceCondition,
		Severity:    model.Low,
		Counter:     CounterThreadingConstructs,
		Axes:        []model.AttackAxis{model.AxisConcurrency},
		Description: "thread creation",
	},
	{
		ID:          "c-system-call",
		Pattern:     regexp.MustCompile(`\bsystem\(|\bpopen\(|\bexecl\(|\bexeclp\(`),
		Category:    model.CommandInjection,
		Severity:    model.High,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisCPU},
		Description: "shell invocation from a C-family program",
	},

	// Go panic/recover idioms (Go is grouped with the C family here since
	// it shares the extractor's "systems" classification in §3 but has its
	// own panic-capable vs safe vocabulary).
	{
		ID:          "go-panic",
		Pattern:     regexp.MustCompile(`\bpanic\(`),
		Category:    model.PanicPath,
		Severity:    model.Medium,
		Counter:     CounterPanicSites,
		Axes:        []model.AttackAxis{model.AxisCPU, model.AxisTime},
		Description: "explicit panic call",
	},
	{
		ID:          "go-unchecked-type-assert",
		Pattern:     regexp.MustCompile(`:=\s*\w+\.\([A-Za-z_][\w.]*\)\s*$`),
		Category:    model.PanicPath,
		Severity:    model.Medium,
		Counter:     CounterUnwrapCalls,
		Axes:        []model.AttackAxis{model.AxisCPU},
		Description: "type assertion without the comma-ok form",
		SafeVariant: regexp.MustCompile(`,\s*ok\s*:?=\s*\w+\.\(`),
	},
	{
		ID:          "go-goroutine",
		Pattern:     regexp.MustCompile(`(?m)^\s*go\s+\w`),
		Category:    model.RaceCondition,
		Severity:    model.Low,
		Counter:     CounterThreadingConstructs,
		Axes:        []model.AttackAxis{model.AxisConcurrency},
		Description: "goroutine spawn",
	},
	{
		ID:          "go-mutex",
		Pattern:     regexp.MustCompile(`sync\.Mutex|sync\.RWMutex`),
		Category:    model.DeadlockPotential,
		Severity:    model.Low,
		Counter:     CounterThreadingConstructs,
		Axes:        []model.AttackAxis{model.AxisConcurrency},
		Description: "mutex declaration",
	},
	{
		ID:          "go-exec-command",
		Pattern:     regexp.MustCompile(`exec\.Command\([^)]*(?:r\.|req\.|os\.Args)`),
		Category:    model.CommandInjection,
		Severity:    model.High,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisCPU},
		Description: "subprocess argument derived from request/argv input",
	},
	{
		ID:          "go-gob-decode",
		Pattern:     regexp.MustCompile(`gob\.NewDecoder\(|json\.Unmarshal\([^)]*interface\{\}`),
		Category:    model.UnsafeDeserialization,
		Severity:    model.Medium,
		Counter:     CounterNone,
		Description: "deserialisation into an unconstrained type",
	},
	{
		ID:          "go-blocking-read",
		Pattern:     regexp.MustCompile(`ioutil\.ReadAll\(|os\.Open\(|net\.Dial\(`),
		Category:    model.BlockingIO,
		Severity:    model.Info,
		Counter:     CounterIOOperations,
		Description: "blocking I/O call",
	},
	{
		ID:          "go-unbounded-loop",
		Pattern:     regexp.MustCompile(`(?m)^\s*for\s*\{\s*$`),
		Category:    model.UnboundedLoop,
		Severity:    model.Low,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisCPU, model.AxisTime},
		Description: "unconditioned infinite loop",
	},
}
