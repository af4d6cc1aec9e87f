package domain

import (
	"testing"

	"github.com/assailsec/assail/internal/engine"
	"github.com/assailsec/assail/internal/model"
)

func TestSeedCrashFacts_ExtractsAllocFreeUsePairs(t *testing.T) {
	cr := model.CrashReport{
		Signal:    "sigsegv",
		Backtrace: "malloc(buf)\nfree(buf)\nuse(buf)",
	}
	facts := SeedCrashFacts(cr)

	var allocs, frees, uses int
	for _, f := range facts {
		switch f.Pred {
		case engine.PredAlloc:
			allocs++
		case engine.PredFree:
			frees++
		case engine.PredUse:
			uses++
		}
	}
	if allocs != 1 || frees != 1 || uses != 1 {
		t.Errorf("got alloc=%d free=%d use=%d, want 1 each", allocs, frees, uses)
	}
}

func TestSeedCrashFacts_DetectsUseAfterFreeViaCrashRules(t *testing.T) {
	cr := model.CrashReport{
		Backtrace: "free(buf)\nuse(buf)",
	}
	db := engine.NewDatabase(SeedCrashFacts(cr)...)
	sigs := DetectCrashSignatures(db)

	found := false
	for _, s := range sigs {
		if s.SignatureType == "UseAfterFree" {
			found = true
		}
	}
	if !found {
		t.Errorf("signatures = %+v, want a UseAfterFree signature", sigs)
	}
}

func TestSeedCrashFacts_NoMatchesProducesNoFacts(t *testing.T) {
	cr := model.CrashReport{Backtrace: "nothing interesting here"}
	facts := SeedCrashFacts(cr)
	if len(facts) != 0 {
		t.Errorf("got %d facts, want 0", len(facts))
	}
}

func TestSeedCrashFacts_SignalFactHasLineArity(t *testing.T) {
	cr := model.CrashReport{Signal: "SIGSEGV"}
	facts := SeedCrashFacts(cr)

	found := false
	for _, f := range facts {
		if f.Pred != engine.PredSignal {
			continue
		}
		found = true
		if len(f.Args) != 3 {
			t.Fatalf("signal fact arity = %d, want 3 (File, Line, SignatureName)", len(f.Args))
		}
		if f.Args[2].Str != "null_dereference" {
			t.Errorf("signal name = %q, want null_dereference for SIGSEGV", f.Args[2].Str)
		}
	}
	if !found {
		t.Fatalf("expected a signal fact for SIGSEGV")
	}
}

func TestSeedCrashFacts_SignalDrivesCrashRule(t *testing.T) {
	cr := model.CrashReport{Signal: "SIGFPE"}
	db := engine.NewDatabase(SeedCrashFacts(cr)...)
	sigs := DetectCrashSignatures(db)

	found := false
	for _, s := range sigs {
		if s.SignatureType == "IntegerOverflow" {
			found = true
		}
	}
	if !found {
		t.Errorf("signatures = %+v, want an IntegerOverflow signature seeded from SIGFPE", sigs)
	}
}

func TestSeedCrashFacts_ConcurrentReadWriteDrivesDataRace(t *testing.T) {
	cr := model.CrashReport{
		Backtrace: "thread-1: write(counter)\nthread-2: read(counter)",
	}
	db := engine.NewDatabase(SeedCrashFacts(cr)...)
	sigs := DetectCrashSignatures(db)

	found := false
	for _, s := range sigs {
		if s.SignatureType == "DataRace" {
			found = true
		}
	}
	if !found {
		t.Errorf("signatures = %+v, want a DataRace signature from a concurrent read/write pair", sigs)
	}
}

func TestSeedCrashFacts_NoThreadMarkerSeedsNoConcurrentFacts(t *testing.T) {
	cr := model.CrashReport{Backtrace: "write(counter)\nread(counter)"}
	facts := SeedCrashFacts(cr)
	for _, f := range facts {
		if f.Pred == engine.PredConcurrent {
			t.Errorf("unexpected concurrent fact without a thread marker: %+v", f)
		}
	}
}

func TestSeedCrashFacts_ErrorLineWithoutHandledMarkerDrivesUnhandledError(t *testing.T) {
	cr := model.CrashReport{Stderr: "fatal error: connection reset"}
	db := engine.NewDatabase(SeedCrashFacts(cr)...)
	sigs := DetectCrashSignatures(db)

	found := false
	for _, s := range sigs {
		if s.SignatureType == "UnhandledError" {
			found = true
		}
	}
	if !found {
		t.Errorf("signatures = %+v, want an UnhandledError signature", sigs)
	}
}

func TestSeedCrashFacts_HandledErrorLineSuppressesUnhandledError(t *testing.T) {
	cr := model.CrashReport{Stderr: "error: recovered from panic"}
	db := engine.NewDatabase(SeedCrashFacts(cr)...)
	sigs := DetectCrashSignatures(db)

	for _, s := range sigs {
		if s.SignatureType == "UnhandledError" {
			t.Errorf("unexpected UnhandledError for a handled error line: %+v", sigs)
		}
	}
}

func TestSeedCrashFacts_DangerousFrameDrivesBufferOverflow(t *testing.T) {
	cr := model.CrashReport{Backtrace: "#0 strcpy\n#1 main"}
	db := engine.NewDatabase(SeedCrashFacts(cr)...)
	sigs := DetectCrashSignatures(db)

	found := false
	for _, s := range sigs {
		if s.SignatureType == "BufferOverflow" {
			found = true
		}
	}
	if !found {
		t.Errorf("signatures = %+v, want a BufferOverflow signature from a strcpy stack frame", sigs)
	}
}
