package campaign

import (
	"fmt"
	"sort"

	"github.com/assailsec/assail/internal/aggregate"
	"github.com/assailsec/assail/internal/model"
	"github.com/assailsec/assail/internal/taxonomy"
)

// atom is one Fail/Warn derivation, ranked by severity·confidence before
// being projected into Verdict.Priorities (§4.6).
type atom struct {
	tier        model.VerdictStatus // VerdictFail or VerdictWarn
	description string
	severity    model.Severity
	confidence  float64
}

func (a atom) weight() float64 {
	return (float64(a.severity) + 1) * a.confidence
}

// Adjudicate merges artifacts into a Verdict per the compact rule catalogue
// of §4.6: Fail on any critical weak point left uncovered by isolation, on
// crashes under the memory/concurrency axes, or on high-confidence taint
// vulnerabilities; Warn on high-severity findings without crashes or on
// regressions against a provided baseline; Pass otherwise.
func Adjudicate(artifacts []model.CampaignArtifact, cfg Config) model.Verdict {
	n := normalize(artifacts)
	var atoms []atom

	for _, wp := range n.weakPoints {
		if wp.Severity == model.Critical && !n.isolatedPaths[wp.Location.File] {
			desc := fmt.Sprintf("critical %s at %s:%d is not covered by an isolation artifact", wp.Category, wp.Location.File, wp.Location.Line)
			atoms = append(atoms, atom{
				tier:        model.VerdictFail,
				description: withRecommendation(desc, cfg.Catalog, wp.Category),
				severity:    wp.Severity,
				confidence:  1,
			})
			continue
		}
		if wp.Severity == model.High {
			if !hasCrashes(n) {
				desc := fmt.Sprintf("high-severity %s at %s:%d with no corroborating crash", wp.Category, wp.Location.File, wp.Location.Line)
				atoms = append(atoms, atom{
					tier:        model.VerdictWarn,
					description: withRecommendation(desc, cfg.Catalog, wp.Category),
					severity:    wp.Severity,
					confidence:  0.7,
				})
			}
		}
	}

	for axis, count := range n.crashesByAxis {
		if axis == model.AxisMemory || axis == model.AxisConcurrency {
			atoms = append(atoms, atom{
				tier:        model.VerdictFail,
				description: fmt.Sprintf("%d observed crash(es) under the %s axis", count, axis),
				severity:    model.Critical,
				confidence:  1,
			})
		}
	}

	for _, sig := range n.taintSignatures {
		if sig.Confidence >= cfg.MinTaintConfidenceForFail {
			loc := "unknown location"
			if sig.Location != nil {
				loc = fmt.Sprintf("%s:%d", sig.Location.File, sig.Location.Line)
			}
			atoms = append(atoms, atom{
				tier:        model.VerdictFail,
				description: fmt.Sprintf("taint vulnerability at %s (confidence %.2f)", loc, sig.Confidence),
				severity:    model.Critical,
				confidence:  sig.Confidence,
			})
		}
	}

	atoms = append(atoms, thresholdAtoms(n, cfg)...)
	atoms = append(atoms, regressionAtoms(n, cfg)...)
	atoms = append(atoms, mutationAtoms(n)...)

	sort.SliceStable(atoms, func(i, j int) bool {
		return atoms[i].weight() > atoms[j].weight()
	})

	return buildVerdict(atoms)
}

// withRecommendation appends the taxonomy's remediation line for category,
// if the catalogue has one, so a Verdict's rationale tells an operator what
// to do about a finding and not just what it is.
func withRecommendation(desc string, cat *taxonomy.Catalog, category model.WeakPointCategory) string {
	entry, ok := cat.Lookup(category)
	if !ok || entry.Recommendation == "" {
		return desc
	}
	return fmt.Sprintf("%s — %s", desc, entry.Recommendation)
}

func hasCrashes(n normalized) bool {
	for _, c := range n.crashesByAxis {
		if c > 0 {
			return true
		}
	}
	return false
}

// thresholdAtoms applies the §6 operator-overridable limits: exceeding any
// of them is treated as a Fail, since an operator who configured a limit
// expects it enforced, not merely noted.
func thresholdAtoms(n normalized, cfg Config) []atom {
	var atoms []atom
	if cfg.MaxUnsafeBlocks > 0 && n.unsafeBlocks > cfg.MaxUnsafeBlocks {
		atoms = append(atoms, atom{
			tier:        model.VerdictFail,
			description: fmt.Sprintf("unsafe block count %d exceeds configured maximum %d", n.unsafeBlocks, cfg.MaxUnsafeBlocks),
			severity:    model.High,
			confidence:  1,
		})
	}
	if cfg.MaxProductionUnwraps > 0 && n.productionUnwraps > cfg.MaxProductionUnwraps {
		atoms = append(atoms, atom{
			tier:        model.VerdictFail,
			description: fmt.Sprintf("production unwrap count %d exceeds configured maximum %d", n.productionUnwraps, cfg.MaxProductionUnwraps),
			severity:    model.High,
			confidence:  1,
		})
	}
	if cfg.MaxWeakPoints > 0 && len(n.weakPoints) > cfg.MaxWeakPoints {
		atoms = append(atoms, atom{
			tier:        model.VerdictFail,
			description: fmt.Sprintf("weak point count %d exceeds configured maximum %d", len(n.weakPoints), cfg.MaxWeakPoints),
			severity:    model.Medium,
			confidence:  1,
		})
	}
	if cfg.RequireErrorHandlingLevel > 0 && n.errorHandlingLvl < cfg.RequireErrorHandlingLevel {
		atoms = append(atoms, atom{
			tier:        model.VerdictFail,
			description: fmt.Sprintf("inferred error-handling maturity %d is below the required level %d", n.errorHandlingLvl, cfg.RequireErrorHandlingLevel),
			severity:    model.Medium,
			confidence:  0.8,
		})
	}
	return atoms
}

// regressionAtoms compares the merged weak-point set against cfg.Baseline
// using internal/aggregate's own Diff, so "regression" means exactly what
// the diff command already reports (P8).
func regressionAtoms(n normalized, cfg Config) []atom {
	if cfg.Baseline == nil {
		return nil
	}
	after := model.AssailReport{WeakPoints: n.weakPoints}
	diff := aggregate.Diff(*cfg.Baseline, after)
	if diff.NetWeakPointDelta <= 0 && diff.NetSeverityDelta <= 0 {
		return nil
	}
	return []atom{{
		tier:        model.VerdictWarn,
		description: fmt.Sprintf("regression vs baseline: net weak point delta %+d, net severity delta %+d", diff.NetWeakPointDelta, diff.NetSeverityDelta),
		severity:    model.Medium,
		confidence:  0.6,
	}}
}

// mutationAtoms warns when more than half of checked mutation variants
// survived: a high survival rate means the checker suite would not have
// caught the corresponding real-world defects either.
func mutationAtoms(n normalized) []atom {
	if n.mutationTotal == 0 {
		return nil
	}
	survivalRate := float64(n.mutationSurvived) / float64(n.mutationTotal)
	if survivalRate <= 0.5 {
		return nil
	}
	return []atom{{
		tier:        model.VerdictWarn,
		description: fmt.Sprintf("%d/%d checked mutation variants survived (%.0f%%)", n.mutationSurvived, n.mutationTotal, survivalRate*100),
		severity:    model.Medium,
		confidence:  0.6,
	}}
}

func buildVerdict(atoms []atom) model.Verdict {
	status := model.VerdictPass
	for _, a := range atoms {
		if a.tier == model.VerdictFail {
			status = model.VerdictFail
			break
		}
	}
	if status != model.VerdictFail {
		for _, a := range atoms {
			if a.tier == model.VerdictWarn {
				status = model.VerdictWarn
				break
			}
		}
	}

	priorities := make([]string, 0, len(atoms))
	rationale := make([]string, 0, len(atoms))
	for _, a := range atoms {
		priorities = append(priorities, a.description)
		rationale = append(rationale, fmt.Sprintf("[%s] %s", a.tier, a.description))
	}

	return model.Verdict{
		Status:     status,
		Priorities: priorities,
		Rationale:  rationale,
	}
}
