package extract

import "regexp"

var (
	literalArg       = regexp.MustCompile(`\(\s*(?:0[xX][0-9a-fA-F]+|\d+)\s*[,)]`)
	funcStart        = regexp.MustCompile(`(?:func|fn|def)\s+\w+\s*\(([^)]*)\)`)
	paramNameCapture = regexp.MustCompile(`\b([A-Za-z_]\w*)\b`)
)

// classifyAllocation implements §4.2's intraprocedural sliding window: look
// at the matched line plus up to windowLines of surrounding context. A
// literal/constant argument is bounded; an argument matching a parameter
// name found by the nearest function-start heuristic is user-controlled;
// a window that declares a local integer makes it internally bounded;
// otherwise unknown.
func classifyAllocation(lines []string, lineIdx int) AllocationClass {
	line := lines[lineIdx]
	if literalArg.MatchString(line) {
		return AllocBounded
	}

	params := nearestFunctionParams(lines, lineIdx, 10)
	if len(params) > 0 {
		for _, p := range params {
			if regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`).MatchString(line) {
				return AllocUserControlled
			}
		}
	}

	if looksLikeLocalInt(lines, lineIdx, 10) {
		return AllocInternallyBounded
	}

	return AllocUnknown
}

// nearestFunctionParams walks backward up to windowLines looking for the
// nearest enclosing function signature and returns its parameter names.
func nearestFunctionParams(lines []string, lineIdx, windowLines int) []string {
	start := lineIdx - windowLines
	if start < 0 {
		start = 0
	}
	for i := lineIdx; i >= start; i-- {
		m := funcStart.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		return paramNameCapture.FindAllString(m[1], -1)
	}
	return nil
}

var localIntDecl = regexp.MustCompile(`\b(?:let|var|int|size_t|usize)\s+[A-Za-z_]\w*\s*[:=]`)

// looksLikeLocalInt is a coarse check for "argument is a local integer that
// cannot be traced to external input" within the surrounding window.
func looksLikeLocalInt(lines []string, lineIdx, windowLines int) bool {
	start := lineIdx - windowLines
	if start < 0 {
		start = 0
	}
	for i := start; i <= lineIdx; i++ {
		if localIntDecl.MatchString(lines[i]) {
			return true
		}
	}
	return false
}
