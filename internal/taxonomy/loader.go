package taxonomy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/assailsec/assail/internal/model"
)

// Catalog indexes Entry values by the category they document.
type Catalog struct {
	ByCategory map[model.WeakPointCategory]Entry
}

// Lookup returns the documentation entry for category, if any was loaded.
func (c *Catalog) Lookup(category model.WeakPointCategory) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	e, ok := c.ByCategory[category]
	return e, ok
}

// LoadCatalog reads every *.yaml/*.yml file directly under dir as an Entry
// and indexes it by its Category field, the same flat one-file-per-weakness
// layout the teacher used one directory level deeper (per category, per
// kingdom); this taxonomy has no kingdoms, so the nesting collapses to one
// level.
func LoadCatalog(dir string) (*Catalog, error) {
	cat := &Catalog{ByCategory: make(map[model.WeakPointCategory]Entry)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: reading %s: %w", dir, err)
	}

	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("taxonomy: reading %s: %w", path, err)
		}
		var e Entry
		if err := yaml.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("taxonomy: parsing %s: %w", path, err)
		}
		if e.Category == "" {
			return nil, fmt.Errorf("taxonomy: %s is missing a category", path)
		}
		cat.ByCategory[e.Category] = e
	}

	return cat, nil
}

// DefaultCatalog returns the baked-in documentation for every category the
// extractor and crash-signature engine can produce, so the adjudicator has
// a usable catalogue without loading one from disk (campaign.DefaultConfig
// uses it; no command calls LoadCatalog).
func DefaultCatalog() *Catalog {
	cat := &Catalog{ByCategory: make(map[model.WeakPointCategory]Entry)}
	for _, e := range defaultEntries {
		cat.ByCategory[e.Category] = e
	}
	return cat
}

var defaultEntries = []Entry{
	{
		Category:       model.UnsafeCode,
		RiskLevel:      "high",
		Recommendation: "Confine unsafe blocks to reviewed, minimal-surface wrapper functions and document the invariant each one relies on.",
		Compliance:     map[string][]string{"CWE": {"CWE-758"}},
	},
	{
		Category:       model.PanicPath,
		RiskLevel:      "medium",
		Recommendation: "Replace panics on the request/attack path with returned errors; reserve panics for programmer-error invariant violations.",
		Compliance:     map[string][]string{"CWE": {"CWE-248"}},
	},
	{
		Category:       model.UncheckedAllocation,
		RiskLevel:      "high",
		Recommendation: "Bound allocation sizes derived from external input before the allocation call, not after.",
		Compliance:     map[string][]string{"CWE": {"CWE-789"}},
	},
	{
		Category:       model.UnboundedLoop,
		RiskLevel:      "medium",
		Recommendation: "Add an explicit iteration or time bound wherever loop termination depends on external input.",
		Compliance:     map[string][]string{"CWE": {"CWE-835"}},
	},
	{
		Category:       model.BlockingIO,
		RiskLevel:      "low",
		Recommendation: "Move blocking I/O off latency-sensitive paths or bound it with a timeout.",
	},
	{
		Category:       model.RaceCondition,
		RiskLevel:      "critical",
		Recommendation: "Guard the shared state with a mutex/channel or redesign to remove the shared mutable state entirely.",
		Compliance:     map[string][]string{"CWE": {"CWE-362"}},
	},
	{
		Category:       model.DeadlockPotential,
		RiskLevel:      "high",
		Recommendation: "Establish and document a total lock-acquisition order, or replace nested locks with a single coarser lock.",
		Compliance:     map[string][]string{"CWE": {"CWE-833"}},
	},
	{
		Category:       model.ResourceLeak,
		RiskLevel:      "medium",
		Recommendation: "Tie the resource's release to a defer (or RAII-equivalent) immediately after acquisition.",
		Compliance:     map[string][]string{"CWE": {"CWE-772"}},
	},
	{
		Category:       model.CommandInjection,
		RiskLevel:      "critical",
		Recommendation: "Never build a shell command by string concatenation with external input; use an argv-array exec call instead.",
		Compliance:     map[string][]string{"CWE": {"CWE-78"}, "OWASP": {"LLM01"}},
	},
	{
		Category:       model.UnsafeDeserialization,
		RiskLevel:      "critical",
		Recommendation: "Deserialize into a fixed schema with a allow-listed type set; never deserialize into a dynamic/any type from untrusted input.",
		Compliance:     map[string][]string{"CWE": {"CWE-502"}},
	},
	{
		Category:       model.AtomExhaustion,
		RiskLevel:      "medium",
		Recommendation: "Cap the number of dynamically interned identifiers accepted from external input.",
	},
	{
		Category:       model.UnsafeFFI,
		RiskLevel:      "high",
		Recommendation: "Validate every pointer/length pair crossing the FFI boundary before dereferencing it on either side.",
		Compliance:     map[string][]string{"CWE": {"CWE-119"}},
	},
	{
		Category:       model.PathTraversal,
		RiskLevel:      "high",
		Recommendation: "Resolve the path, then verify it is still within the intended root before opening it.",
		Compliance:     map[string][]string{"CWE": {"CWE-22"}},
	},
	{
		Category:       model.HardcodedSecret,
		RiskLevel:      "critical",
		Recommendation: "Move the credential to a secret store or environment variable and rotate it.",
		Compliance:     map[string][]string{"CWE": {"CWE-798"}},
	},
	{
		Category:       model.TaintedInput,
		RiskLevel:      "high",
		Recommendation: "Validate or sanitize the input at the trust boundary before it reaches a sink.",
	},
	{
		Category:       model.TaintedSink,
		RiskLevel:      "critical",
		Recommendation: "Insert a validation or escaping step between the tainted source and this sink.",
	},
	{
		Category:       model.IntegerOverflow,
		RiskLevel:      "medium",
		Recommendation: "Use a checked/saturating arithmetic operation wherever an operand can be influenced by external input.",
		Compliance:     map[string][]string{"CWE": {"CWE-190"}},
	},
	{
		Category:       model.UnicodeEvasion,
		RiskLevel:      "medium",
		Recommendation: "Reject or normalize non-printable and script-mixed identifiers before they reach a human reviewer or a security-relevant comparison.",
		Compliance:     map[string][]string{"CWE": {"CWE-838"}},
	},
}
