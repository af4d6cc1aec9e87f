package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/assailsec/assail/internal/campaign"
	"github.com/assailsec/assail/internal/engine"
	"github.com/assailsec/assail/internal/model"
)

const schemaVersion = "1.0.0"

// NewRunID mints the run/session identifier stamped onto CampaignArtifact
// envelopes and BugSignature evidence chains (SPEC_FULL.md's domain-stack
// entry for google/uuid), so evidence gathered by two concurrent runs over
// the same target is never ambiguous about which run produced it.
func NewRunID() string {
	return uuid.NewString()
}

// BuildAssaultReport assembles an AssaultReport from a completed scan plus
// its per-axis attack results, stamping every detected signature's evidence
// chain with runID and computing the overall robustness assessment via
// internal/campaign.
func BuildAssaultReport(assail model.AssailReport, attackResults []model.AttackResult, runID string) model.AssaultReport {
	stamped := make([]model.AttackResult, len(attackResults))
	var totalCrashes, totalSignatures int
	for i, r := range attackResults {
		totalCrashes += len(r.Crashes)
		sigs := make([]model.BugSignature, len(r.SignaturesDetected))
		for j, sig := range r.SignaturesDetected {
			evidence := make([]string, 0, len(sig.Evidence)+1)
			evidence = append(evidence, sig.Evidence...)
			evidence = append(evidence, "run:"+runID)
			sig.Evidence = evidence
			sigs[j] = sig
		}
		totalSignatures += len(sigs)
		r.SignaturesDetected = sigs
		stamped[i] = r
	}

	assault := model.AssaultReport{
		SchemaVersion:   schemaVersion,
		AssailReport:    assail,
		AttackResults:   stamped,
		TotalCrashes:    totalCrashes,
		TotalSignatures: totalSignatures,
	}
	assault.OverallAssessment = overallAssessment(assault)
	return assault
}

// overallAssessment computes the robustness_score (internal/campaign) and a
// short list of critical issues and recommendations surfaced at the top of
// the report for a human reviewer.
func overallAssessment(assault model.AssaultReport) model.OverallAssessment {
	score := campaign.RobustnessScore(assault)

	var critical []string
	for _, wp := range assault.AssailReport.WeakPoints {
		if wp.Severity == model.Critical {
			critical = append(critical, fmt.Sprintf("%s at %s:%d", wp.Category, wp.Location.File, wp.Location.Line))
		}
	}

	var recommendations []string
	if assault.TotalCrashes > 0 {
		recommendations = append(recommendations, "investigate observed crashes before shipping this target")
	}
	if len(critical) > 0 {
		recommendations = append(recommendations, "address all critical weak points or cover them with an isolation artifact")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "no immediate action required")
	}

	return model.OverallAssessment{
		RobustnessScore: score,
		CriticalIssues:  critical,
		Recommendations: recommendations,
	}
}

// NewCampaignArtifact builds the common envelope C6 consumes for one of the
// four artifact kinds, stamping a run_id fact alongside whatever facts the
// producing stage already gathered. It sets no payload field; the caller
// fills in the one matching kind.
func NewCampaignArtifact(kind model.ArtifactKind, sourcePath string, generatedAt time.Time, runID string, facts []engine.Fact) model.CampaignArtifact {
	stamped := make([]engine.Fact, 0, len(facts)+1)
	stamped = append(stamped, facts...)
	stamped = append(stamped, engine.NewFact("run_id", engine.Const(runID)))

	return model.CampaignArtifact{
		Kind:        kind,
		GeneratedAt: generatedAt,
		SourcePath:  sourcePath,
		Facts:       stamped,
	}
}
