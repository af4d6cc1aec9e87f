package aggregate

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/assailsec/assail/internal/model"
)

// diffKey identifies "the same weak point" across two scans: its file plus
// a digest of category, description and line number. A finding whose line
// moves therefore counts as one resolved and one new entry (P8).
type diffKey struct {
	file   string
	digest uint64
}

func keyOf(wp model.WeakPoint) diffKey {
	h := xxhash.New()
	fmt.Fprintf(h, "%s|%s|%d", wp.Category, wp.Description, wp.Location.Line)
	return diffKey{file: wp.Location.File, digest: h.Sum64()}
}

// Diff implements P8: every weak point present in exactly one report is
// New or Resolved; every weak point present in both with a changed
// Severity is SeverityChanged; the two delta counters are always
// consistent with the three buckets above.
func Diff(before, after model.AssailReport) model.DiffReport {
	beforeByKey := make(map[diffKey]model.WeakPoint, len(before.WeakPoints))
	for _, wp := range before.WeakPoints {
		beforeByKey[keyOf(wp)] = wp
	}

	afterByKey := make(map[diffKey]model.WeakPoint, len(after.WeakPoints))
	for _, wp := range after.WeakPoints {
		afterByKey[keyOf(wp)] = wp
	}

	report := model.DiffReport{SchemaVersion: schemaVersion}

	for key, wp := range afterByKey {
		prior, existed := beforeByKey[key]
		if !existed {
			report.New = append(report.New, wp)
			continue
		}
		if prior.Severity != wp.Severity {
			report.SeverityChanged = append(report.SeverityChanged, model.SeverityChange{
				WeakPoint:   wp,
				OldSeverity: prior.Severity,
				NewSeverity: wp.Severity,
			})
		}
	}

	for key, wp := range beforeByKey {
		if _, stillPresent := afterByKey[key]; !stillPresent {
			report.Resolved = append(report.Resolved, wp)
		}
	}

	report.NetWeakPointDelta = len(after.WeakPoints) - len(before.WeakPoints)
	report.NetSeverityDelta = severitySum(after.WeakPoints) - severitySum(before.WeakPoints)

	return report
}

func severitySum(weakPoints []model.WeakPoint) int {
	sum := 0
	for _, wp := range weakPoints {
		sum += int(wp.Severity)
	}
	return sum
}
