package extract

import (
	"testing"

	"github.com/assailsec/assail/internal/classify"
	"github.com/assailsec/assail/internal/model"
)

func TestExtractFile_FlagsZeroWidthCharacterAsUnicodeEvasion(t *testing.T) {
	content := "fn main() {\n    let x​ = 1;\n}\n"
	res := ExtractFile("main.rs", classify.Rust, []byte(content), false, DefaultConfig())

	found := false
	for _, wp := range res.WeakPoints {
		if wp.Category == model.UnicodeEvasion {
			found = true
			if wp.Location.Line != 2 {
				t.Errorf("Location.Line = %d, want 2", wp.Location.Line)
			}
			if wp.Severity != model.High {
				t.Errorf("Severity = %v, want High for a zero-width character", wp.Severity)
			}
		}
	}
	if !found {
		t.Fatal("expected a UnicodeEvasion weak point for the zero-width character")
	}
}

func TestExtractFile_CleanSourceHasNoUnicodeEvasion(t *testing.T) {
	res := ExtractFile("main.rs", classify.Rust, []byte("fn main() {}\n"), false, DefaultConfig())
	for _, wp := range res.WeakPoints {
		if wp.Category == model.UnicodeEvasion {
			t.Fatalf("unexpected UnicodeEvasion weak point in clean source: %+v", wp)
		}
	}
}

func TestExtractFile_UnicodeEvasionInTestFileRoutesToTestBucket(t *testing.T) {
	content := "fn main() {\n    let x​ = 1;\n}\n"
	res := ExtractFile("main_test.rs", classify.Rust, []byte(content), true, DefaultConfig())

	for _, wp := range res.WeakPoints {
		if wp.Category == model.UnicodeEvasion {
			t.Fatal("UnicodeEvasion from a test file leaked into the production bucket")
		}
	}
	found := false
	for _, wp := range res.TestWeakPoints {
		if wp.Category == model.UnicodeEvasion {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a UnicodeEvasion weak point in the test bucket")
	}
}
