package aggregate

import (
	"sort"
	"time"

	"github.com/assailsec/assail/internal/classify"
	"github.com/assailsec/assail/internal/model"
)

const schemaVersion = "1.0.0"

// Aggregate walks programPath, runs C1+C2 over every file found, and
// assembles the single-program AssailReport (§4.3).
func Aggregate(programPath string, cfg Config) (model.AssailReport, error) {
	paths, err := walkTree(programPath, cfg)
	if err != nil {
		return model.AssailReport{}, err
	}
	outcomes := runPipeline(paths, cfg)
	return assemble(programPath, outcomes), nil
}

func assemble(programPath string, outcomes []fileOutcome) model.AssailReport {
	report := model.AssailReport{
		SchemaVersion: schemaVersion,
		ProgramPath:   programPath,
		Frameworks:    make(map[classify.Framework]bool),
		GeneratedAt:   time.Now(),
	}

	linesByLanguage := make(map[classify.LanguageFamily]int)

	for _, o := range outcomes {
		if o.skipReason != "" {
			report.SkippedFiles = append(report.SkippedFiles, o.path)
			continue
		}

		report.FileStatistics = append(report.FileStatistics, o.result.Stats)
		report.WeakPoints = append(report.WeakPoints, o.result.WeakPoints...)
		report.TestWeakPoints = append(report.TestWeakPoints, o.result.TestWeakPoints...)

		// P3: only non-test files contribute to ProgramStatistics and the
		// dominant-language computation.
		if !o.result.Stats.IsTestFile {
			report.Statistics.Add(o.result.Stats)
			linesByLanguage[o.classified.Language] += o.result.Stats.Lines
		}

		for fw, present := range o.classified.Frameworks {
			if present {
				report.Frameworks[fw] = true
			}
		}
	}

	report.Language = dominantLanguage(linesByLanguage)
	report.RecommendedAttacks = recommendedAxes(report.WeakPoints)

	return report
}

// dominantLanguage is the language with the largest summed non-test line
// count (§9's decided tiebreak: lexicographically smallest family name on
// an exact tie, so the result is deterministic).
func dominantLanguage(linesByLanguage map[classify.LanguageFamily]int) classify.LanguageFamily {
	var best classify.LanguageFamily
	bestLines := -1
	for lang, lines := range linesByLanguage {
		if lines > bestLines || (lines == bestLines && lang < best) {
			best = lang
			bestLines = lines
		}
	}
	if bestLines < 0 {
		return classify.Generic
	}
	return best
}

// recommendedAxes scores each AttackAxis by how many weak points recommend
// it, then returns the axes touched by at least one weak point ordered by
// descending frequency (ties broken alphabetically for determinism).
func recommendedAxes(weakPoints []model.WeakPoint) []model.AttackAxis {
	counts := make(map[model.AttackAxis]int)
	for _, wp := range weakPoints {
		for _, axis := range wp.RecommendedAxes {
			counts[axis]++
		}
	}

	axes := make([]model.AttackAxis, 0, len(counts))
	for axis := range counts {
		axes = append(axes, axis)
	}
	sort.Slice(axes, func(i, j int) bool {
		if counts[axes[i]] != counts[axes[j]] {
			return counts[axes[i]] > counts[axes[j]]
		}
		return axes[i] < axes[j]
	})
	return axes
}
