package classify

import "path/filepath"

// Classify implements §4.1's total algorithm: extension table first
// (preferring the most specific match), then a shebang heuristic, then up
// to a handful of content-regex tiebreakers, defaulting to Generic. It
// never returns an error — classification is total by construction.
func Classify(path string, content []byte) Result {
	ext := filepath.Ext(path)

	fam, ok := byExtension(path)
	if !ok {
		if fam, ok = byShebang(content); !ok {
			if ambiguousExtensions[ext] {
				fam, ok = byContentTiebreak(ext, content)
			}
			if !ok {
				fam, ok = byGenericTiebreak(content)
			}
			if !ok {
				fam = Generic
			}
		}
	}

	return Result{
		Language:   fam,
		IsTestFile: isTestFile(path, fam, content),
		Frameworks: matchFrameworks(fam, content),
	}
}
