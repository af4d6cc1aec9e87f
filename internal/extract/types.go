// Package extract implements the per-file fact extractor (C2): given
// decoded text and a language family, it produces a FileStatistics record
// and the WeakPoint facts found in that file, with no double counting and
// no running state surviving between files (§4.2, §4.3).
package extract

import (
	"regexp"

	"github.com/assailsec/assail/internal/model"
)

// Counter names the FileStatistics field a rule match increments.
type Counter int

const (
	CounterNone Counter = iota
	CounterUnsafeBlocks
	CounterPanicSites
	CounterUnwrapCalls
	CounterSafeUnwrapVariants
	CounterAllocationSite
	CounterIOOperations
	CounterThreadingConstructs
)

// AllocationClass is the sliding-window classification of an allocation
// site's size argument (§4.2).
type AllocationClass int

const (
	AllocUnknown AllocationClass = iota
	AllocBounded
	AllocInternallyBounded
	AllocUserControlled
)

// Rule is a line-anchored pattern rule: (pattern, category, default
// severity, counter field, safe predicate), per §4.2.
type Rule struct {
	ID          string
	Pattern     *regexp.Regexp
	Category    model.WeakPointCategory
	Severity    model.Severity
	Counter     Counter
	Axes        []model.AttackAxis
	Description string

	// SafeVariant, if set, is checked against the same line first; a match
	// reclassifies the line as the safe form (e.g. `.unwrap_or(..)`) rather
	// than the panic-capable one, per §4.2's panic/safe distinction.
	SafeVariant *regexp.Regexp

	// IsAllocation marks a rule as an allocation site subject to the
	// sliding-window argument classification (§4.2).
	IsAllocation bool
}

// Result is what ExtractFile returns for one file.
type Result struct {
	Stats          model.FileStatistics
	WeakPoints     []model.WeakPoint
	TestWeakPoints []model.WeakPoint
}

// Config controls extractor behavior that a caller may override (§6).
type Config struct {
	IncludeTestCode bool
}

// DefaultConfig matches the spec's documented default.
func DefaultConfig() Config {
	return Config{IncludeTestCode: false}
}
