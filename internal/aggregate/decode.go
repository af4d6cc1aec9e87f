package aggregate

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// EncodingFallbacks is §9's decided fallback chain: try UTF-8 first since
// it is both the most common and self-validating, then fall back to
// Windows-1252 for the legacy-encoded files real-world trees still contain.
// Configurable so a caller (or future language addition) can extend it.
var EncodingFallbacks = []string{"utf-8", "windows-1252"}

// Decode converts raw file bytes to a string using the first encoding in
// EncodingFallbacks that parses cleanly, reporting which one it picked.
// Windows-1252 maps every byte to a valid rune, so it never fails itself —
// it is deliberately the last resort, not a independent detector.
func Decode(raw []byte) (text string, encoding string) {
	for _, enc := range EncodingFallbacks {
		switch enc {
		case "utf-8":
			if utf8.Valid(raw) {
				return string(raw), "utf-8"
			}
		case "windows-1252":
			decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
			if err == nil {
				return string(decoded), "windows-1252"
			}
		}
	}
	// Nothing in the chain accepted the bytes cleanly; fall back to a lossy
	// UTF-8 coercion so callers always get a string rather than an error.
	return string(raw), "unknown"
}
