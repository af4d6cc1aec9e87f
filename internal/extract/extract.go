package extract

import (
	"fmt"
	"strings"

	"github.com/assailsec/assail/internal/classify"
	"github.com/assailsec/assail/internal/model"
)

// dedupKey identifies a (category, line) pair so that two rules matching the
// same construct on the same line don't double-count it (§4.2, P1).
type dedupKey struct {
	category model.WeakPointCategory
	line     int
}

// pendingPoint tracks the Counter a weak point was matched against so its
// severity can be rescaled against the file's final per-counter total once
// every line has been scanned (see rescaleCountScaledSeverities).
type pendingPoint struct {
	wp      model.WeakPoint
	counter Counter
}

// ExtractFile runs C2 against one file's already-decoded content. It never
// reads cross-file state and always returns a fresh FileStatistics, per
// §4.3's no-running-total invariant.
func ExtractFile(path string, family classify.LanguageFamily, content []byte, isTestFile bool, cfg Config) Result {
	var lines []string
	if len(content) > 0 {
		lines = strings.Split(string(content), "\n")
	}

	stats := model.FileStatistics{
		Path:       path,
		Language:   family,
		Lines:      len(lines),
		IsTestFile: isTestFile,
	}

	var prod, test []pendingPoint
	seen := make(map[dedupKey]bool)

	rules := rulesFor(family)

	for lineIdx, line := range lines {
		for _, rule := range rules {
			safeMatch := rule.SafeVariant != nil && rule.SafeVariant.MatchString(line)
			mainMatch := rule.Pattern.MatchString(line)
			if !mainMatch && !safeMatch {
				continue
			}

			lineNo := lineIdx + 1

			if safeMatch {
				stats.SafeUnwrapVariants++
				wp := model.WeakPoint{
					Category:    model.UnwrapOrSafe,
					Location:    model.Location{File: path, Line: lineNo},
					Severity:    model.Info,
					Description: fmt.Sprintf("%s (safe variant)", rule.Description),
				}
				route(&prod, &test, pendingPoint{wp, CounterNone}, isTestFile, cfg)
				continue
			}

			key := dedupKey{category: rule.Category, line: lineNo}
			if seen[key] {
				continue
			}
			seen[key] = true

			applyCounter(&stats, rule.Counter)

			severity := rule.Severity
			if rule.IsAllocation {
				class := classifyAllocation(lines, lineIdx)
				severity = severityForAllocation(class, countForCounter(stats, rule.Counter))
			}

			wp := model.WeakPoint{
				Category:        rule.Category,
				Location:        model.Location{File: path, Line: lineNo},
				Severity:        severity,
				Description:     rule.Description,
				RecommendedAxes: rule.Axes,
			}
			route(&prod, &test, pendingPoint{wp, rule.Counter}, isTestFile, cfg)
		}
	}

	rescaleCountScaledSeverities(prod, stats, lines)
	rescaleCountScaledSeverities(test, stats, lines)

	obfuscation := scanObfuscation(path, content)
	prodPoints := extractWeakPoints(prod)
	testPoints := extractWeakPoints(test)
	if isTestFile && !cfg.IncludeTestCode {
		testPoints = append(testPoints, obfuscation...)
	} else {
		prodPoints = append(prodPoints, obfuscation...)
	}

	return Result{
		Stats:          stats,
		WeakPoints:     prodPoints,
		TestWeakPoints: testPoints,
	}
}

// route sends a pending point to the test or production bucket per §4.3:
// test-file weak points never enter the production bucket unless the
// caller opted into IncludeTestCode.
func route(prod, test *[]pendingPoint, p pendingPoint, isTestFile bool, cfg Config) {
	if isTestFile && !cfg.IncludeTestCode {
		*test = append(*test, p)
		return
	}
	*prod = append(*prod, p)
}

func extractWeakPoints(points []pendingPoint) []model.WeakPoint {
	out := make([]model.WeakPoint, len(points))
	for i, p := range points {
		out[i] = p.wp
	}
	return out
}

func applyCounter(stats *model.FileStatistics, c Counter) {
	switch c {
	case CounterUnsafeBlocks:
		stats.UnsafeBlocks++
	case CounterPanicSites:
		stats.PanicSites++
	case CounterUnwrapCalls:
		stats.UnwrapCalls++
	case CounterSafeUnwrapVariants:
		stats.SafeUnwrapVariants++
	case CounterAllocationSite:
		stats.AllocationSites++
	case CounterIOOperations:
		stats.IOOperations++
	case CounterThreadingConstructs:
		stats.ThreadingConstructs++
	}
}

func countForCounter(stats model.FileStatistics, c Counter) int {
	switch c {
	case CounterUnsafeBlocks:
		return stats.UnsafeBlocks
	case CounterPanicSites:
		return stats.PanicSites
	case CounterUnwrapCalls:
		return stats.UnwrapCalls
	case CounterSafeUnwrapVariants:
		return stats.SafeUnwrapVariants
	case CounterAllocationSite:
		return stats.AllocationSites
	case CounterIOOperations:
		return stats.IOOperations
	case CounterThreadingConstructs:
		return stats.ThreadingConstructs
	default:
		return 1
	}
}

// rescaleCountScaledSeverities re-derives severity for every point tied to a
// counter (every rule except the flat-severity ones, which carry
// Counter: CounterNone and are left untouched) using the file's final
// per-counter totals, so the order in which lines were scanned never
// affects the outcome (P1: order-independence).
func rescaleCountScaledSeverities(points []pendingPoint, stats model.FileStatistics, lines []string) {
	for i := range points {
		p := &points[i]
		switch {
		case p.counter == CounterNone:
			// Flat-severity categories (secrets, injection, taint markers,
			// the UnwrapOrSafe info marker, ...) keep the rule's own
			// severity; they are not scaled by a per-file count.
		case p.wp.Category == model.UncheckedAllocation:
			lineIdx := p.wp.Location.Line - 1
			if lineIdx >= 0 && lineIdx < len(lines) {
				class := classifyAllocation(lines, lineIdx)
				p.wp.Severity = severityForAllocation(class, stats.AllocationSites)
			}
		default:
			p.wp.Severity = severityForCount(countForCounter(stats, p.counter))
		}
	}
}
