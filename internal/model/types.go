// Package model holds the data-model records shared across the static
// analysis, relational-engine, dynamic-attack, and adjudication stages:
// WeakPoint, FileStatistics, ProgramStatistics, AssailReport, and the
// dynamic/campaign envelopes built on top of them. Types specific to the
// relational engine itself (Term, Substitution, Rule, Fact) live in
// internal/engine; model.CampaignArtifact merely references engine.Fact.
package model

import (
	"time"

	"github.com/assailsec/assail/internal/classify"
	"github.com/assailsec/assail/internal/engine"
)

// Severity is ordered Info < Low < Medium < High < Critical.
type Severity int

const (
	Info Severity = iota
	Low
	Medium
	High
	Critical
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// WeakPointCategory is the closed taxonomy of §3.
type WeakPointCategory string

const (
	UnsafeCode            WeakPointCategory = "UnsafeCode"
	PanicPath             WeakPointCategory = "PanicPath"
	UncheckedAllocation   WeakPointCategory = "UncheckedAllocation"
	UnboundedLoop         WeakPointCategory = "UnboundedLoop"
	BlockingIO            WeakPointCategory = "BlockingIO"
	RaceCondition         WeakPointCategory = "RaceCondition"
	DeadlockPotential     WeakPointCategory = "DeadlockPotential"
	ResourceLeak          WeakPointCategory = "ResourceLeak"
	CommandInjection      WeakPointCategory = "CommandInjection"
	UnsafeDeserialization WeakPointCategory = "UnsafeDeserialization"
	AtomExhaustion        WeakPointCategory = "AtomExhaustion"
	UnsafeFFI             WeakPointCategory = "UnsafeFFI"
	PathTraversal         WeakPointCategory = "PathTraversal"
	HardcodedSecret       WeakPointCategory = "HardcodedSecret"
	TaintedInput          WeakPointCategory = "TaintedInput"
	TaintedSink           WeakPointCategory = "TaintedSink"
	IntegerOverflow       WeakPointCategory = "IntegerOverflow"
	// UnwrapOrSafe is informational only: it never raises severity above
	// Info. extract.ExtractFile reports these points in WeakPoints alongside
	// every other category, so they do appear in AssailReport.weak_points;
	// there is no separate informational bucket.
	UnwrapOrSafe WeakPointCategory = "UnwrapOrSafe"
	// UnicodeEvasion flags zero-width, bidi-override, tag-character, or
	// homoglyph codepoints in source text — the closed set is "at least"
	// the categories above (§3), and this one extends it with the
	// source-obfuscation detector adapted from the teacher's unicode
	// scanner (see DESIGN.md).
	UnicodeEvasion WeakPointCategory = "UnicodeEvasion"
)

// AttackAxis is the closed enum of stressor dimensions.
type AttackAxis string

const (
	AxisCPU         AttackAxis = "cpu"
	AxisMemory      AttackAxis = "memory"
	AxisDisk        AttackAxis = "disk"
	AxisNetwork     AttackAxis = "network"
	AxisConcurrency AttackAxis = "concurrency"
	AxisTime        AttackAxis = "time"
)

// Intensity is the closed enum of stressor strength levels (§4.7).
type Intensity string

const (
	IntensityLight   Intensity = "light"
	IntensityMedium  Intensity = "medium"
	IntensityHeavy   Intensity = "heavy"
	IntensityExtreme Intensity = "extreme"
)

// ProbeMode controls whether a stressor attaches a debugger/tracer probe
// to the target subprocess (§4.7).
type ProbeMode string

const (
	ProbeAuto   ProbeMode = "auto"
	ProbeAlways ProbeMode = "always"
	ProbeNever  ProbeMode = "never"
)

// AttackRequest is the Attack Orchestrator's entry-point contract (§4.7):
// one axis, one intensity, against one target command, bounded by duration.
type AttackRequest struct {
	Axis          AttackAxis    `json:"axis"`
	Intensity     Intensity     `json:"intensity"`
	Duration      time.Duration `json:"duration"`
	TargetCommand string        `json:"target_command"`
	TargetArgs    []string      `json:"target_args,omitempty"`
	ProbeMode     ProbeMode     `json:"probe_mode"`
}

// Location pins a weak point or crash-derived fact to a file coordinate.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"` // 0 when not line-resolvable
}

// WeakPoint is a located, categorised, severity-tagged static finding.
// Invariant: Location.File is always populated (P2).
type WeakPoint struct {
	Category        WeakPointCategory `json:"category"`
	Location        Location          `json:"location"`
	Severity        Severity          `json:"severity"`
	Description     string            `json:"description"`
	RecommendedAxes []AttackAxis      `json:"recommended_axes,omitempty"`
}

// FileStatistics is the fresh-per-file record C2 produces (§4.3's
// no-running-total invariant: callers must allocate a new FileStatistics
// for every file, never reuse or accumulate into one across files).
type FileStatistics struct {
	Path                string                   `json:"path"`
	Language            classify.LanguageFamily  `json:"language"`
	Lines               int                      `json:"lines"`
	UnsafeBlocks        int                      `json:"unsafe_blocks"`
	PanicSites          int                      `json:"panic_sites"`
	UnwrapCalls         int                      `json:"unwrap_calls"`
	SafeUnwrapVariants  int                      `json:"safe_unwrap_variants"`
	AllocationSites     int                      `json:"allocation_sites"`
	IOOperations        int                      `json:"io_operations"`
	ThreadingConstructs int                      `json:"threading_constructs"`
	IsTestFile          bool                     `json:"is_test_file"`
}

// ProgramStatistics is the arithmetic sum of all non-test FileStatistics
// across a project (P1: no double counting).
type ProgramStatistics struct {
	Lines               int `json:"lines"`
	UnsafeBlocks        int `json:"unsafe_blocks"`
	PanicSites          int `json:"panic_sites"`
	UnwrapCalls         int `json:"unwrap_calls"`
	SafeUnwrapVariants  int `json:"safe_unwrap_variants"`
	AllocationSites     int `json:"allocation_sites"`
	IOOperations        int `json:"io_operations"`
	ThreadingConstructs int `json:"threading_constructs"`
}

// Add folds fs into p in place. fs must be non-test; callers enforce the
// test-suppression invariant (P3) before calling Add.
func (p *ProgramStatistics) Add(fs FileStatistics) {
	p.Lines += fs.Lines
	p.UnsafeBlocks += fs.UnsafeBlocks
	p.PanicSites += fs.PanicSites
	p.UnwrapCalls += fs.UnwrapCalls
	p.SafeUnwrapVariants += fs.SafeUnwrapVariants
	p.AllocationSites += fs.AllocationSites
	p.IOOperations += fs.IOOperations
	p.ThreadingConstructs += fs.ThreadingConstructs
}

// AssailReport is the static-analysis phase's immutable output record.
type AssailReport struct {
	SchemaVersion      string                       `json:"schema_version"`
	ProgramPath        string                       `json:"program_path"`
	Language           classify.LanguageFamily      `json:"language"` // dominant
	Frameworks         map[classify.Framework]bool  `json:"frameworks,omitempty"`
	WeakPoints         []WeakPoint                  `json:"weak_points"`
	TestWeakPoints     []WeakPoint                  `json:"test_weak_points,omitempty"`
	Statistics         ProgramStatistics            `json:"statistics"`
	FileStatistics     []FileStatistics             `json:"file_statistics"`
	RecommendedAttacks []AttackAxis                 `json:"recommended_attacks,omitempty"`
	SkippedFiles       []string                     `json:"skipped_files,omitempty"`
	GeneratedAt        time.Time                    `json:"generated_at"`

	// TaintVulnerabilities are C5's confirmed source-to-sink chains, derived
	// from TaintedInput/TaintedSink weak points bridged into engine facts
	// and saturated against internal/domain's TaintRules.
	TaintVulnerabilities []BugSignature `json:"taint_vulnerabilities,omitempty"`
	// CrossBoundaryRisks are both endpoint locations of every derived
	// cross_boundary_risk fact: a data flow that crosses a language
	// boundary (§4.5).
	CrossBoundaryRisks []Location `json:"cross_boundary_risks,omitempty"`
	// FileOrder is C5's search-strategy ranking (§4.4) of FileStatistics
	// paths, used to decide review/attack priority once severity and
	// cross-boundary risk are known.
	FileOrder []string `json:"file_order,omitempty"`
}

// WorkspaceReport aggregates per-package AssailReports (§4.3 workspace mode).
type WorkspaceReport struct {
	SchemaVersion string         `json:"schema_version"`
	Packages      []AssailReport `json:"packages"`
	Totals        ProgramStatistics `json:"totals"`
	TopOffenders  []PackageRisk  `json:"top_offenders,omitempty"`
}

// PackageRisk is one entry of WorkspaceReport.TopOffenders.
type PackageRisk struct {
	PackageName string  `json:"package_name"`
	RiskScore   float64 `json:"risk_score"`
}

// DiffReport is the differential-mode output (§4.3, P8).
type DiffReport struct {
	SchemaVersion     string           `json:"schema_version"`
	New               []WeakPoint      `json:"new,omitempty"`
	Resolved          []WeakPoint      `json:"resolved,omitempty"`
	SeverityChanged   []SeverityChange `json:"severity_changed,omitempty"`
	NetWeakPointDelta int              `json:"net_weak_point_delta"`
	NetSeverityDelta  int              `json:"net_severity_delta"`
}

// SeverityChange pairs a weak point's old and new severity across two scans.
type SeverityChange struct {
	WeakPoint   WeakPoint `json:"weak_point"`
	OldSeverity Severity  `json:"old_severity"`
	NewSeverity Severity  `json:"new_severity"`
}

// BugSignature is a named, confidence-scored dynamic finding (§4.5).
type BugSignature struct {
	SignatureType string    `json:"signature_type"`
	Confidence    float64   `json:"confidence"`
	Evidence      []string  `json:"evidence,omitempty"`
	Location      *Location `json:"location,omitempty"`
}

// CrashReport is raw observed process-outcome evidence.
type CrashReport struct {
	Timestamp time.Time `json:"timestamp"`
	Signal    string    `json:"signal"`
	Backtrace string    `json:"backtrace,omitempty"`
	Stdout    string    `json:"stdout,omitempty"`
	Stderr    string    `json:"stderr,omitempty"`
}

// AttackResult is one axis's outcome against a target binary.
type AttackResult struct {
	Program            string         `json:"program"`
	Axis               AttackAxis     `json:"axis"`
	Success            bool           `json:"success"`
	ExitCode           *int           `json:"exit_code,omitempty"`
	Duration           time.Duration  `json:"duration"`
	PeakMemoryBytes    *int64         `json:"peak_memory_bytes,omitempty"`
	TimedOut           bool           `json:"timed_out"`
	Crashes            []CrashReport  `json:"crashes,omitempty"`
	SignaturesDetected []BugSignature `json:"signatures_detected,omitempty"`
}

// AssaultReport is a combined scan + attack + inference session record.
type AssaultReport struct {
	SchemaVersion     string            `json:"schema_version"`
	AssailReport      AssailReport      `json:"assail_report"`
	AttackResults     []AttackResult    `json:"attack_results,omitempty"`
	TotalCrashes      int               `json:"total_crashes"`
	TotalSignatures   int               `json:"total_signatures"`
	OverallAssessment OverallAssessment `json:"overall_assessment"`
}

// OverallAssessment is AssaultReport's summary block.
type OverallAssessment struct {
	RobustnessScore float64  `json:"robustness_score"` // in [0, 100]
	CriticalIssues  []string `json:"critical_issues,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// ArtifactKind discriminates CampaignArtifact's tagged union.
type ArtifactKind string

const (
	ArtifactAssault   ArtifactKind = "assault"
	ArtifactMutation  ArtifactKind = "mutation"
	ArtifactIsolation ArtifactKind = "isolation"
	ArtifactAudience  ArtifactKind = "audience"
)

// CampaignArtifact is the common envelope adjudicate (C6) consumes.
type CampaignArtifact struct {
	Kind        ArtifactKind  `json:"kind"`
	GeneratedAt time.Time     `json:"generated_at"`
	SourcePath  string        `json:"source_path"`
	Facts       []engine.Fact `json:"facts,omitempty"`

	Assault   *AssaultReport   `json:"assault,omitempty"`
	Mutation  *MutationReport  `json:"mutation,omitempty"`
	Isolation *IsolationReport `json:"isolation,omitempty"`
	Audience  *AudienceReport  `json:"audience,omitempty"`
}

// MutationReport is amuck's output: per-variant survival outcomes.
type MutationReport struct {
	SourceFile string            `json:"source_file"`
	Variants   []MutationVariant `json:"variants"`
}

// MutationVariant is one mutated copy and its checker outcome.
type MutationVariant struct {
	Operator   string `json:"operator"`
	Path       string `json:"path"`
	CheckerRan bool   `json:"checker_ran"`
	Survived   bool   `json:"survived"`
	ExitCode   *int   `json:"exit_code,omitempty"`
}

// IsolationReport is abduct's output.
type IsolationReport struct {
	QuarantinePath string        `json:"quarantine_path"`
	CopiedPaths    []string      `json:"copied_paths"`
	MtimeOffset    time.Duration `json:"mtime_offset"`
	Locked         bool          `json:"locked"`
}

// AudienceReport is reserved for ambush's timeline-stressor outcome
// envelope; populated by internal/attack's ambush path.
type AudienceReport struct {
	TimelineFile string         `json:"timeline_file"`
	Outcomes     []AttackResult `json:"outcomes"`
}

// VerdictStatus is C6's closed tri-state outcome.
type VerdictStatus string

const (
	VerdictPass VerdictStatus = "pass"
	VerdictWarn VerdictStatus = "warn"
	VerdictFail VerdictStatus = "fail"
)

// Verdict is the campaign adjudicator's final output.
type Verdict struct {
	Status     VerdictStatus `json:"status"`
	Priorities []string      `json:"priorities"`
	Rationale  []string      `json:"rationale"`
}
