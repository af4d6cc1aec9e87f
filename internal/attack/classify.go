package attack

import (
	"os/exec"
	"strings"

	"github.com/assailsec/assail/internal/model"
)

// classifyBreakage inspects a non-timeout, non-zero-exit run's combined
// stdout+stderr for the string markers nemesis.AttackRunner looks for,
// generalised past Go's own panic/race vocabulary to the cross-language
// signal strings a target binary in any of the classifier's languages is
// likely to print.
func classifyBreakage(combined string, exitErr *exec.ExitError) string {
	lower := strings.ToLower(combined)

	switch {
	case containsAny(lower, "panic:", "unhandled exception", "fatal error:", "thread panicked"):
		return "panic"
	case containsAny(lower, "data race", "race detected"):
		return "race"
	case containsAny(lower, "segmentation fault", "sigsegv", "signal: segmentation fault"):
		return "segfault"
	case containsAny(lower, "double free", "heap corruption", "malloc(): invalid"):
		return "memory_corruption"
	case containsAny(lower, "assertion failed", "assert"):
		return "assertion"
	case exitErr != nil && exitErr.ExitCode() < 0:
		// negative exit code on Unix means the process died to a signal
		// exec didn't decode into a friendlier string above.
		return "signal"
	default:
		return ""
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// classify turns a breakage label and its captured output into zero or more
// BugSignature values. Confidence is deliberately coarse (the core makes
// no soundness claim, per spec's Non-goals): a fixed value per signature
// family, not a computed statistic.
func classify(stdout, stderr, breakage string) []model.BugSignature {
	if breakage == "" {
		return nil
	}
	combined := stdout + "\n" + stderr

	var sigType string
	var confidence float64
	switch breakage {
	case "timeout":
		sigType, confidence = "Hang", 0.6
	case "panic":
		sigType, confidence = "UnhandledPanic", 0.85
	case "race":
		sigType, confidence = "DataRace", 0.9
	case "segfault":
		sigType, confidence = "SegmentationFault", 0.9
	case "memory_corruption":
		sigType, confidence = "MemoryCorruption", 0.85
	case "assertion":
		sigType, confidence = "AssertionFailure", 0.7
	case "signal":
		sigType, confidence = "UnexpectedSignalExit", 0.5
	default:
		return nil
	}

	sig := model.BugSignature{
		SignatureType: sigType,
		Confidence:    confidence,
		Evidence:      []string{trimEvidence(combined)},
	}
	return []model.BugSignature{sig}
}

// trimEvidence keeps evidence entries from growing unbounded in stored
// reports; a crash's full stdout/stderr already lives on the CrashReport.
func trimEvidence(s string) string {
	const max = 500
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
