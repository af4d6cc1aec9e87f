// Package taxonomy documents the closed WeakPointCategory set (§3): for each
// category it carries a human-readable explanation, a remediation
// recommendation, and compliance-standard cross-references. The teacher's
// own taxonomy was a weakness catalogue (kingdoms/categories/entries) keyed
// by an analyzer-rule ID; here it is flattened to one entry per
// model.WeakPointCategory and consumed by the campaign adjudicator to give
// a Verdict's rationale lines a citation instead of just a category name.
package taxonomy

import "github.com/assailsec/assail/internal/model"

// Entry documents one WeakPointCategory.
type Entry struct {
	Category       model.WeakPointCategory `yaml:"category"`
	RiskLevel      string                  `yaml:"risk_level"` // "critical", "high", "medium", "low", "info"
	Abstract       string                  `yaml:"abstract"`
	Explanation    string                  `yaml:"explanation"`
	Recommendation string                  `yaml:"recommendation"`
	Compliance     map[string][]string     `yaml:"compliance"` // standard name -> control IDs
}
