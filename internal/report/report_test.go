package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/assailsec/assail/internal/model"
)

func TestValidate_AssailReportRequiresSchemaVersion(t *testing.T) {
	good := model.AssailReport{SchemaVersion: "1.0.0", ProgramPath: "a", WeakPoints: []model.WeakPoint{}}
	if err := Validate(KindAssailReport, good); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	bad := struct {
		ProgramPath string `json:"program_path"`
	}{ProgramPath: "a"}
	if err := Validate(KindAssailReport, bad); err == nil {
		t.Fatalf("expected validation to fail without schema_version/weak_points")
	}
}

func TestValidate_VerdictStatusEnum(t *testing.T) {
	good := model.Verdict{Status: model.VerdictPass, Priorities: []string{}, Rationale: []string{}}
	if err := Validate(KindVerdict, good); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	bad := model.Verdict{Status: "maybe", Priorities: []string{}, Rationale: []string{}}
	if err := Validate(KindVerdict, bad); err == nil {
		t.Fatalf("expected validation to fail for an out-of-enum status")
	}
}

func TestStore_SaveAndLatestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	report := model.AssailReport{SchemaVersion: "1.0.0", ProgramPath: "/src/app", WeakPoints: []model.WeakPoint{}}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	path, err := store.Save(KindAssailReport, "/src/app", now, report)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(dir, string(KindAssailReport)) {
		t.Errorf("path = %s, want under %s", path, filepath.Join(dir, string(KindAssailReport)))
	}

	latest, err := store.Latest("/src/app", KindAssailReport)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest != path {
		t.Errorf("Latest = %s, want %s", latest, path)
	}
}

func TestStore_SaveRejectsInvalidPayload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	bad := model.Verdict{Status: "nonsense"}
	if _, err := store.Save(KindVerdict, "target", time.Now(), bad); err == nil {
		t.Fatalf("expected Save to reject an invalid verdict")
	}
}

func TestBuildAssaultReport_StampsRunIDOnSignatures(t *testing.T) {
	assail := model.AssailReport{WeakPoints: []model.WeakPoint{
		{Location: model.Location{File: "a.c", Line: 1}, Severity: model.Critical, Category: model.UnsafeFFI},
	}}
	results := []model.AttackResult{
		{SignaturesDetected: []model.BugSignature{{SignatureType: "UseAfterFree", Confidence: 0.8}}},
	}

	assault := BuildAssaultReport(assail, results, "run-123")

	sig := assault.AttackResults[0].SignaturesDetected[0]
	found := false
	for _, e := range sig.Evidence {
		if e == "run:run-123" {
			found = true
		}
	}
	if !found {
		t.Errorf("evidence = %v, want a run:run-123 entry", sig.Evidence)
	}
	if len(assault.OverallAssessment.CriticalIssues) != 1 {
		t.Errorf("critical issues = %v, want exactly 1", assault.OverallAssessment.CriticalIssues)
	}
}
