package classify

import (
	"path/filepath"
	"regexp"
	"strings"
)

// testPathPatterns are path-shape markers that flag a file as test code
// regardless of its language family.
var testPathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(^|/)tests?/`),
	regexp.MustCompile(`(^|/)__tests__/`),
	regexp.MustCompile(`(^|/)spec/`),
	regexp.MustCompile(`(^|/)test_[^/]+\.[^/]+$`),
	regexp.MustCompile(`(^|/)[^/]+_test\.[^/]+$`),
	regexp.MustCompile(`(^|/)[^/]+\.test\.[^/]+$`),
	regexp.MustCompile(`(^|/)[^/]+\.spec\.[^/]+$`),
}

// testMarkerTable holds per-family in-file test-module markers, matched
// against decoded file content.
var testMarkerTable = map[LanguageFamily]*regexp.Regexp{
	Rust:    regexp.MustCompile(`#\[cfg\(test\)\]|#\[test\]`),
	Go:      regexp.MustCompile(`(?m)^func Test\w*\(t \*testing\.T\)`),
	Python:  regexp.MustCompile(`(?m)^\s*def test_\w+|^\s*class Test\w*\(`),
	JS:      regexp.MustCompile(`\b(describe|it|test)\s*\(\s*['"\x60]`),
	TS:      regexp.MustCompile(`\b(describe|it|test)\s*\(\s*['"\x60]`),
	Ruby:    regexp.MustCompile(`(?m)^\s*(def test_\w+|describe\s+['"]|it\s+['"])`),
	C:       regexp.MustCompile(`\bTEST\(|\bassert\(`),
	Cpp:     regexp.MustCompile(`\bTEST(_F|_P)?\(|\bBOOST_AUTO_TEST_CASE\(`),
	Elixir:  regexp.MustCompile(`(?m)^\s*test\s+['"]|use ExUnit\.Case`),
	Erlang:  regexp.MustCompile(`_test\(\)\s*->`),
	Haskell: regexp.MustCompile(`\bhspec\b|\bit\s+"`),
	Zig:     regexp.MustCompile(`(?m)^test\s+"`),
	Nim:     regexp.MustCompile(`(?m)^\s*test\s+"`),
}

// isTestFile applies spec §4.1's path-shape and in-language marker rules.
func isTestFile(path string, family LanguageFamily, content []byte) bool {
	norm := filepath.ToSlash(path)
	base := filepath.Base(norm)
	lowerBase := strings.ToLower(base)
	for _, re := range testPathPatterns {
		if re.MatchString(norm) {
			return true
		}
	}
	if strings.HasPrefix(lowerBase, "test_") || strings.HasSuffix(strings.TrimSuffix(lowerBase, filepath.Ext(lowerBase)), "_test") {
		return true
	}
	if marker, ok := testMarkerTable[family]; ok && marker.Match(content) {
		return true
	}
	return false
}
