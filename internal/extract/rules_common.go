package extract

import (
	"regexp"

	"github.com/assailsec/assail/internal/model"
)

// commonRules apply to every language family regardless of classification,
// mirroring the teacher's internal/redact secret catalogue but repurposed
// as located weak points instead of a scrub-before-log transform.
var commonRules = []Rule{
	{
		ID:          "hardcoded-aws-key",
		Pattern:     regexp.MustCompile(`(?i)(aws_access_key_id|aws_secret_access_key|aws_session_token)\s*[=:]\s*['"]?[A-Za-z0-9/+=]{20,}['"]?|AKIA[0-9A-Z]{16}`),
		Category:    model.HardcodedSecret,
		Severity:    model.High,
		Counter:     CounterNone,
		Description: "hardcoded AWS credential",
	},
	{
		ID:          "hardcoded-github-token",
		Pattern:     regexp.MustCompile(`(?i)(github_token|gh_token|github_pat)\s*[=:]\s*['"]?[A-Za-z0-9_-]{30,}['"]?|gh[oprsu]_[A-Za-z0-9]{36}`),
		Category:    model.HardcodedSecret,
		Severity:    model.High,
		Counter:     CounterNone,
		Description: "hardcoded GitHub token",
	},
	{
		ID:          "hardcoded-generic-secret",
		Pattern:     regexp.MustCompile(`(?i)(api_key|apikey|secret_key|access_token|auth_token)\s*[=:]\s*['"]?[A-Za-z0-9_-]{16,}['"]?`),
		Category:    model.HardcodedSecret,
		Severity:    model.Medium,
		Counter:     CounterNone,
		Description: "hardcoded API credential",
	},
	{
		ID:          "hardcoded-private-key",
		Pattern:     regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----`),
		Category:    model.HardcodedSecret,
		Severity:    model.Critical,
		Counter:     CounterNone,
		Description: "embedded private key material",
	},
	{
		ID:          "hardcoded-password",
		Pattern:     regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[=:]\s*['"]?[^\s'"]{8,}['"]?`),
		Category:    model.HardcodedSecret,
		Severity:    model.Medium,
		Counter:     CounterNone,
		Description: "hardcoded password literal",
	},
	{
		ID:          "basic-auth-in-url",
		Pattern:     regexp.MustCompile(`https?://[^:/\s]+:[^@/\s]+@`),
		Category:    model.HardcodedSecret,
		Severity:    model.Medium,
		Counter:     CounterNone,
		Description: "credentials embedded in a URL",
	},
	{
		ID:          "path-traversal-join",
		Pattern:     regexp.MustCompile(`\.\./\.\.|os\.path\.join\([^)]*request|filepath\.Join\([^)]*req\.|path\.join\([^)]*req(uest)?\.`),
		Category:    model.PathTraversal,
		Severity:    model.High,
		Counter:     CounterNone,
		Axes:        []model.AttackAxis{model.AxisDisk},
		Description: "path built from externally controlled input joined without sanitisation",
	},
}
