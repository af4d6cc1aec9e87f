package domain

import (
	"testing"

	"github.com/assailsec/assail/internal/classify"
	"github.com/assailsec/assail/internal/engine"
	"github.com/assailsec/assail/internal/model"
)

func TestDetectCrashSignatures_UseAfterFree(t *testing.T) {
	db := engine.NewDatabase(
		engine.NewFact(engine.PredFree, engine.Const("a.c"), engine.ConstNum(10), engine.Const("buf")),
		engine.NewFact(engine.PredUse, engine.Const("a.c"), engine.ConstNum(20), engine.Const("buf")),
	)

	sigs := DetectCrashSignatures(db)

	found := false
	for _, s := range sigs {
		if s.SignatureType == "UseAfterFree" {
			found = true
			if s.Confidence < 0.8 || s.Confidence > 0.95 {
				t.Errorf("UseAfterFree confidence = %v, want in [0.8, 0.95] for a corroborated use-after-free", s.Confidence)
			}
		}
	}
	if !found {
		t.Fatalf("expected a UseAfterFree signature, got %+v", sigs)
	}
}

func TestDetectCrashSignatures_NoFreeNoUseAfterFree(t *testing.T) {
	db := engine.NewDatabase(
		engine.NewFact(engine.PredAlloc, engine.Const("a.c"), engine.ConstNum(5), engine.Const("buf")),
	)
	sigs := DetectCrashSignatures(db)
	for _, s := range sigs {
		if s.SignatureType == "UseAfterFree" {
			t.Errorf("unexpected UseAfterFree with no free/use facts: %+v", sigs)
		}
	}
}

func TestDetectCrashSignatures_MemoryLeakRequiresNoFree(t *testing.T) {
	db := engine.NewDatabase(
		engine.NewFact(engine.PredAlloc, engine.Const("a.c"), engine.ConstNum(5), engine.Const("buf")),
	)
	sigs := DetectCrashSignatures(db)
	found := false
	for _, s := range sigs {
		if s.SignatureType == "MemoryLeak" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a MemoryLeak signature for an alloc with no matching free")
	}

	dbFreed := engine.NewDatabase(
		engine.NewFact(engine.PredAlloc, engine.Const("a.c"), engine.ConstNum(5), engine.Const("buf")),
		engine.NewFact(engine.PredFree, engine.Const("a.c"), engine.ConstNum(9), engine.Const("buf")),
	)
	sigsFreed := DetectCrashSignatures(dbFreed)
	for _, s := range sigsFreed {
		if s.SignatureType == "MemoryLeak" {
			t.Errorf("unexpected MemoryLeak when the allocation was freed: %+v", sigsFreed)
		}
	}
}

func TestAnalyzeTaint_DirectSourceToSink(t *testing.T) {
	db := engine.NewDatabase(
		engine.NewFact(engine.PredSource, engine.Const("app.py"), engine.ConstNum(1)),
		engine.NewFact(engine.PredSink, engine.Const("app.py"), engine.ConstNum(3)),
		engine.NewFact(engine.PredDataFlow,
			engine.Const("app.py"), engine.ConstNum(1),
			engine.Const("app.py"), engine.ConstNum(3)),
	)

	findings := AnalyzeTaint(db)
	if len(findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(findings))
	}
	if findings[0].PathLength != 1 {
		t.Errorf("PathLength = %d, want 1", findings[0].PathLength)
	}
	wantConf := 0.5 + 0.1*1
	if findings[0].Confidence != wantConf {
		t.Errorf("Confidence = %v, want %v", findings[0].Confidence, wantConf)
	}
}

func TestAnalyzeTaint_NoFlowNoVulnerability(t *testing.T) {
	db := engine.NewDatabase(
		engine.NewFact(engine.PredSource, engine.Const("app.py"), engine.ConstNum(1)),
		engine.NewFact(engine.PredSink, engine.Const("app.py"), engine.ConstNum(30)),
	)
	findings := AnalyzeTaint(db)
	if len(findings) != 0 {
		t.Errorf("findings = %+v, want none without a data_flow edge", findings)
	}
}

func TestEscalateForCrossBoundary_BumpsSeverity(t *testing.T) {
	db := engine.NewDatabase(
		engine.NewFact(engine.PredDataFlow,
			engine.Const("a.py"), engine.ConstNum(1),
			engine.Const("b.go"), engine.ConstNum(2)),
		engine.NewFact(engine.PredBoundary, engine.Const("a.py"), engine.Const("b.go")),
	)
	db.Saturate(BoundaryRules())

	weakPoints := []model.WeakPoint{
		{Location: model.Location{File: "a.py", Line: 1}, Severity: model.Medium},
		{Location: model.Location{File: "z.py", Line: 9}, Severity: model.Medium},
	}
	escalated := EscalateForCrossBoundary(db, weakPoints)

	if escalated[0].Severity != model.High {
		t.Errorf("a.py severity = %v, want High (escalated from Medium)", escalated[0].Severity)
	}
	if escalated[1].Severity != model.Medium {
		t.Errorf("z.py severity = %v, want unchanged Medium", escalated[1].Severity)
	}
}

func TestOrderFiles_RiskWeightedPrioritizesHigherSeverity(t *testing.T) {
	report := model.AssailReport{
		FileStatistics: []model.FileStatistics{
			{Path: "quiet.go"},
			{Path: "noisy.go"},
		},
		WeakPoints: []model.WeakPoint{
			{Location: model.Location{File: "noisy.go"}, Severity: model.Critical},
			{Location: model.Location{File: "quiet.go"}, Severity: model.Low},
		},
	}
	ranks := OrderFiles(report, engine.NewDatabase(), engine.RiskWeighted)
	if ranks[0].Path != "noisy.go" {
		t.Errorf("top-ranked file = %s, want noisy.go", ranks[0].Path)
	}
}

func TestOrderFiles_LanguageFamilyGroupsByLanguage(t *testing.T) {
	report := model.AssailReport{
		FileStatistics: []model.FileStatistics{
			{Path: "b.rs", Language: classify.Rust},
			{Path: "a.go", Language: classify.Go},
			{Path: "c.rs", Language: classify.Rust},
		},
	}
	ranks := OrderFiles(report, engine.NewDatabase(), engine.LanguageFamily)
	if ranks[0].Path != "a.go" {
		t.Errorf("first file = %s, want a.go (go < rust alphabetically)", ranks[0].Path)
	}
}
