package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/assailsec/assail/internal/model"
)

func TestDefaultConfig_HasDocumentedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.IncludeTestCode {
		t.Errorf("IncludeTestCode = true, want false")
	}
	want := []string{"utf-8", "windows-1252"}
	if len(cfg.EncodingFallback) != len(want) {
		t.Fatalf("EncodingFallback = %v, want %v", cfg.EncodingFallback, want)
	}
	for i, enc := range want {
		if cfg.EncodingFallback[i] != enc {
			t.Errorf("EncodingFallback[%d] = %q, want %q", i, cfg.EncodingFallback[i], enc)
		}
	}
	if cfg.Thresholds != nil {
		t.Errorf("Thresholds = %+v, want nil", cfg.Thresholds)
	}
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assail.json")
	body := `{
		"include_test_code": true,
		"encoding_fallback": ["utf-8"],
		"thresholds": {"max_unsafe_blocks": 5, "max_severity": "high"}
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IncludeTestCode {
		t.Errorf("IncludeTestCode = false, want true")
	}
	if cfg.Thresholds == nil || cfg.Thresholds.MaxUnsafeBlocks != 5 {
		t.Fatalf("Thresholds = %+v, want MaxUnsafeBlocks=5", cfg.Thresholds)
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assail.yaml")
	body := "include_test_code: true\nthresholds:\n  max_weak_points: 10\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Thresholds == nil || cfg.Thresholds.MaxWeakPoints != 10 {
		t.Fatalf("Thresholds = %+v, want MaxWeakPoints=10", cfg.Thresholds)
	}
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assail.toml")
	body := "include_test_code = true\n\n[thresholds]\nmax_production_unwraps = 7\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Thresholds == nil || cfg.Thresholds.MaxProductionUnwraps != 7 {
		t.Fatalf("Thresholds = %+v, want MaxProductionUnwraps=7", cfg.Thresholds)
	}
}

func TestLoad_RejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assail.ini")
	os.WriteFile(path, []byte("include_test_code=true"), 0o644)

	if _, err := Load(path); err == nil {
		t.Fatalf("Load(.ini) error = nil, want an error")
	}
}

func TestLoadOrDefault_MissingPathReturnsDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.IncludeTestCode {
		t.Errorf("IncludeTestCode = true, want false (default)")
	}
}

func TestLoadOrDefault_EmptyPathReturnsDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Thresholds != nil {
		t.Errorf("Thresholds = %+v, want nil", cfg.Thresholds)
	}
}

func TestCampaignConfig_NilThresholdsKeepsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cc := cfg.CampaignConfig()
	want := 20 // campaign.DefaultConfig()'s MaxUnsafeBlocks
	if cc.MaxUnsafeBlocks != want {
		t.Errorf("MaxUnsafeBlocks = %d, want %d (untouched default)", cc.MaxUnsafeBlocks, want)
	}
}

func TestCampaignConfig_OverlaysSetFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds = &Thresholds{MaxUnsafeBlocks: 3, MaxSeverity: "medium", RequireErrorHandlingLevel: 2}
	cc := cfg.CampaignConfig()
	if cc.MaxUnsafeBlocks != 3 {
		t.Errorf("MaxUnsafeBlocks = %d, want 3", cc.MaxUnsafeBlocks)
	}
	if cc.MaxSeverity != model.Medium {
		t.Errorf("MaxSeverity = %v, want Medium", cc.MaxSeverity)
	}
	if cc.RequireErrorHandlingLevel != 2 {
		t.Errorf("RequireErrorHandlingLevel = %d, want 2", cc.RequireErrorHandlingLevel)
	}
}

func TestParseSeverity_RejectsUnknown(t *testing.T) {
	if _, ok := parseSeverity("catastrophic"); ok {
		t.Errorf("parseSeverity(catastrophic) ok = true, want false")
	}
}
