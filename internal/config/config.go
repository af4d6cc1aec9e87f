// Package config loads §6's "Recognised configuration options" from a
// JSON, YAML, or TOML file selected by extension, following the teacher's
// own Default()-builder-plus-file-overlay idiom but swapping its
// single-format yaml.v3 unmarshal for koanf's multi-format loader — the
// multi-format idiom panbanda-omen's own config package demonstrates in
// this corpus.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/assailsec/assail/internal/campaign"
	"github.com/assailsec/assail/internal/model"
)

// Config is the root of §6's configuration surface.
type Config struct {
	IncludeTestCode  bool                         `koanf:"include_test_code"`
	EncodingFallback []string                     `koanf:"encoding_fallback"`
	Thresholds       *Thresholds                  `koanf:"thresholds"`
	LanguageProfiles map[string]LanguageProfile   `koanf:"language_profiles"`
	AttackProfile    map[string]AttackAxisProfile `koanf:"attack_profile"`
	Store            StoreConfig                  `koanf:"store"`
}

// Thresholds holds pass/fail levels (§6) that CampaignConfig carries onto a
// campaign.Config; a nil Thresholds makes CampaignConfig return
// campaign.DefaultConfig() unmodified. No command reads it: scan emits no
// verdict, and adjudicate runs on campaign.DefaultConfig().
type Thresholds struct {
	MaxUnsafeBlocks           int    `koanf:"max_unsafe_blocks"`
	MaxProductionUnwraps      int    `koanf:"max_production_unwraps"`
	MaxSeverity               string `koanf:"max_severity"`
	MaxWeakPoints             int    `koanf:"max_weak_points"`
	RequireErrorHandlingLevel int    `koanf:"require_error_handling_level"`
}

// LanguageProfile overrides category severity for one language family.
type LanguageProfile struct {
	SeverityOverrides map[string]string `koanf:"severity_overrides"`
}

// AttackAxisProfile is one axis's entry in §6's attack_profile map: the
// argument list to pass a stressed target and its probe mode.
type AttackAxisProfile struct {
	Args      []string `koanf:"args"`
	ProbeMode string    `koanf:"probe_mode"`
}

// StoreConfig locates the persistence root internal/report.Store writes
// under, when one is configured.
type StoreConfig struct {
	Dir string `koanf:"dir"`
}

// DefaultConfig returns §6's documented defaults: test code excluded from
// severity contributions, the two named fallback encodings, and no
// thresholds configured.
func DefaultConfig() *Config {
	return &Config{
		IncludeTestCode:  false,
		EncodingFallback: []string{"utf-8", "windows-1252"},
	}
}

// Load reads path with the parser selected by its extension and overlays
// it onto DefaultConfig().
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("config: loading %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path if it is non-empty and present, otherwise
// returns DefaultConfig() unchanged — §6's zero-config operation.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("config: unrecognised config file extension %q", filepath.Ext(path))
	}
}

// CampaignConfig bridges Thresholds onto campaign.DefaultConfig(),
// overlaying only the fields a Thresholds block actually sets.
func (c *Config) CampaignConfig() campaign.Config {
	cc := campaign.DefaultConfig()
	if c.Thresholds == nil {
		return cc
	}
	t := c.Thresholds
	if t.MaxUnsafeBlocks > 0 {
		cc.MaxUnsafeBlocks = t.MaxUnsafeBlocks
	}
	if t.MaxProductionUnwraps > 0 {
		cc.MaxProductionUnwraps = t.MaxProductionUnwraps
	}
	if t.MaxWeakPoints > 0 {
		cc.MaxWeakPoints = t.MaxWeakPoints
	}
	if sev, ok := parseSeverity(t.MaxSeverity); ok {
		cc.MaxSeverity = sev
	}
	cc.RequireErrorHandlingLevel = t.RequireErrorHandlingLevel
	return cc
}

func parseSeverity(s string) (model.Severity, bool) {
	switch strings.ToLower(s) {
	case "info":
		return model.Info, true
	case "low":
		return model.Low, true
	case "medium":
		return model.Medium, true
	case "high":
		return model.High, true
	case "critical":
		return model.Critical, true
	default:
		return 0, false
	}
}
