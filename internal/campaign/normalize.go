package campaign

import "github.com/assailsec/assail/internal/model"

// taintSignatureType is the SignatureType internal/domain.AnalyzeStatic
// gives each domain.TaintFinding it folds into AssailReport.
// TaintVulnerabilities; normalizeAssault also accepts it in
// AttackResult.SignaturesDetected. The adjudicator only depends on
// internal/model, never internal/domain, so taint findings cross that
// boundary as an ordinarily-shaped BugSignature rather than a bespoke type.
const taintSignatureType = "TaintVulnerability"

// normalized is the uniform fact set §4.6 derives from a heterogeneous
// CampaignArtifact list: severity counts, crash counts, mutation survivors,
// isolation outcome.
type normalized struct {
	weakPoints       []model.WeakPoint
	unsafeBlocks     int
	productionUnwraps int
	crashesByAxis    map[model.AttackAxis]int
	taintSignatures  []model.BugSignature
	isolatedPaths    map[string]bool
	mutationSurvived int
	mutationTotal    int
	errorHandlingLvl int
}

// normalize folds every artifact's contribution into one fact set. Unknown
// or empty artifacts (e.g. an Audience envelope with no Outcomes) simply
// contribute nothing, matching the teacher's engine.Evaluate tolerance for
// a registry with some analyzers disabled.
func normalize(artifacts []model.CampaignArtifact) normalized {
	n := normalized{
		crashesByAxis: make(map[model.AttackAxis]int),
		isolatedPaths: make(map[string]bool),
		errorHandlingLvl: 3, // most mature until evidence says otherwise
	}

	for _, a := range artifacts {
		switch a.Kind {
		case model.ArtifactAssault:
			if a.Assault != nil {
				normalizeAssault(&n, *a.Assault)
			}
		case model.ArtifactMutation:
			if a.Mutation != nil {
				normalizeMutation(&n, *a.Mutation)
			}
		case model.ArtifactIsolation:
			if a.Isolation != nil {
				for _, p := range a.Isolation.CopiedPaths {
					n.isolatedPaths[p] = true
				}
			}
		case model.ArtifactAudience:
			if a.Audience != nil {
				normalizeAudience(&n, *a.Audience)
			}
		}
	}

	return n
}

func normalizeAssault(n *normalized, assault model.AssaultReport) {
	n.weakPoints = append(n.weakPoints, assault.AssailReport.WeakPoints...)

	for _, fs := range assault.AssailReport.FileStatistics {
		n.unsafeBlocks += fs.UnsafeBlocks
		n.productionUnwraps += fs.UnwrapCalls
	}

	// C5's static taint chains (internal/domain.AnalyzeStatic, run as part
	// of scan/full-run) feed the same high-confidence-taint Fail rule as
	// AttackResults' dynamically detected signatures below.
	for _, sig := range assault.AssailReport.TaintVulnerabilities {
		if sig.SignatureType == taintSignatureType {
			n.taintSignatures = append(n.taintSignatures, sig)
		}
	}

	for _, result := range assault.AttackResults {
		if len(result.Crashes) > 0 {
			n.crashesByAxis[result.Axis] += len(result.Crashes)
		}
		for _, sig := range result.SignaturesDetected {
			if sig.SignatureType == taintSignatureType {
				n.taintSignatures = append(n.taintSignatures, sig)
			}
		}
	}

	n.errorHandlingLvl = min(n.errorHandlingLvl, errorHandlingMaturity(assault.AssailReport))
}

func normalizeMutation(n *normalized, report model.MutationReport) {
	for _, v := range report.Variants {
		if !v.CheckerRan {
			continue
		}
		n.mutationTotal++
		if v.Survived {
			n.mutationSurvived++
		}
	}
}

func normalizeAudience(n *normalized, report model.AudienceReport) {
	for _, result := range report.Outcomes {
		if len(result.Crashes) > 0 {
			n.crashesByAxis[result.Axis] += len(result.Crashes)
		}
	}
}

// errorHandlingMaturity infers a 0-3 maturity level from the ratio of
// PanicPath findings to PanicPath plus UnwrapOrSafe findings in a scan:
// no signal at all (neither category present) is treated as the most
// mature level, since there is nothing in evidence to penalize.
func errorHandlingMaturity(report model.AssailReport) int {
	var unhandled, total int
	for _, wp := range report.WeakPoints {
		if wp.Category != model.PanicPath && wp.Category != model.UnwrapOrSafe {
			continue
		}
		total++
		if wp.Category == model.PanicPath {
			unhandled++
		}
	}
	if total == 0 {
		return 3
	}
	ratio := float64(unhandled) / float64(total)
	switch {
	case ratio >= 0.75:
		return 0
	case ratio >= 0.5:
		return 1
	case ratio >= 0.25:
		return 2
	default:
		return 3
	}
}
