package campaign

import (
	"gonum.org/v1/gonum/stat"

	"github.com/assailsec/assail/internal/model"
)

// robustnessComponent is one input to the weighted combination: a [0,1]
// score (1 = best) and the weight it carries in the blend.
type robustnessComponent struct {
	score  float64
	weight float64
}

// RobustnessScore folds a scan+attack session into AssaultReport's
// overall_assessment.robustness_score ∈ [0,100] via a weighted mean
// (gonum.org/v1/gonum/stat.Mean) over four [0,1] sub-scores: static weak
// point density, crash density, signature confidence, and error-handling
// maturity. Weighted rather than a flat average because a crash under
// attack is a stronger robustness signal than a lexical weak point that
// was never exercised.
func RobustnessScore(assault model.AssaultReport) float64 {
	components := []robustnessComponent{
		{score: staticScore(assault.AssailReport), weight: 0.3},
		{score: crashScore(assault.AttackResults), weight: 0.4},
		{score: signatureScore(assault.AttackResults), weight: 0.2},
		{score: float64(errorHandlingMaturity(assault.AssailReport)) / 3, weight: 0.1},
	}

	scores := make([]float64, len(components))
	weights := make([]float64, len(components))
	for i, c := range components {
		scores[i] = c.score
		weights[i] = c.weight
	}

	return clamp01(stat.Mean(scores, weights)) * 100
}

// severityWeight mirrors internal/aggregate's top_offenders weighting
// (duplicated locally because aggregate's table is unexported).
var severityWeight = map[model.Severity]float64{
	model.Info:     0.5,
	model.Low:      1,
	model.Medium:   3,
	model.High:     7,
	model.Critical: 15,
}

// staticScore applies a diminishing-returns curve over the severity-
// weighted finding count, so a handful of low-severity points barely move
// the score while a run of criticals drives it toward zero without ever
// reaching it.
func staticScore(report model.AssailReport) float64 {
	var weighted float64
	for _, wp := range report.WeakPoints {
		weighted += severityWeight[wp.Severity]
	}
	return 1 / (1 + weighted/10)
}

func crashScore(results []model.AttackResult) float64 {
	var crashes int
	for _, r := range results {
		crashes += len(r.Crashes)
	}
	return 1 / (1 + float64(crashes))
}

func signatureScore(results []model.AttackResult) float64 {
	var total, confidenceSum float64
	for _, r := range results {
		for _, sig := range r.SignaturesDetected {
			total++
			confidenceSum += sig.Confidence
		}
	}
	if total == 0 {
		return 1
	}
	return clamp01(1 - confidenceSum/total)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
