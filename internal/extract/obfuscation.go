package extract

import (
	"fmt"

	"github.com/assailsec/assail/internal/model"
	unicodescan "github.com/assailsec/assail/internal/unicode"
)

// scanObfuscation runs the Unicode smuggling scanner (adapted from the
// teacher's command-line guard) over a file's raw content and reports one
// UnicodeEvasion weak point per line carrying a threat, described by the
// first threat found on that line. "block"-severity threats (zero-width,
// bidi override, tag characters, control characters, invalid UTF-8) are
// High; "audit"-severity
// threats (script homoglyphs) are Medium, since a homoglyph alone is
// suspicious but not proof of intent.
func scanObfuscation(path string, content []byte) []model.WeakPoint {
	if len(content) == 0 {
		return nil
	}
	result := unicodescan.Scan(string(content))
	if result.Clean {
		return nil
	}

	seen := make(map[dedupKey]bool)
	var points []model.WeakPoint
	for _, threat := range result.Threats {
		line := lineAtByteOffset(content, threat.Position)
		key := dedupKey{category: model.UnicodeEvasion, line: line}
		if seen[key] {
			continue
		}
		seen[key] = true

		severity := model.Medium
		if threat.Severity == "block" {
			severity = model.High
		}

		points = append(points, model.WeakPoint{
			Category:    model.UnicodeEvasion,
			Location:    model.Location{File: path, Line: line},
			Severity:    severity,
			Description: fmt.Sprintf("%s (%s)", threat.Description, threat.Codepoint),
		})
	}
	return points
}

// lineAtByteOffset converts a byte offset into content into a 1-based line
// number, the same addressing ExtractFile uses for every other rule match.
func lineAtByteOffset(content []byte, offset int) int {
	line := 1
	for i := 0; i < offset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
		}
	}
	return line
}
