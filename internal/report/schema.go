// Package report assembles the versioned logical report records (§3, §6)
// and owns their persistence layout: AssaultReport and CampaignArtifact
// construction, schema_version stamping of AssaultReport, and jsonschema
// validation of AssailReport/AssaultReport/Verdict/DiffReport before
// anything touches disk.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Kind discriminates which logical schema a persisted record must satisfy.
type Kind string

const (
	KindAssailReport  Kind = "assail_report"
	KindAssaultReport Kind = "assault_report"
	KindVerdict       Kind = "verdict"
	KindDiffReport    Kind = "diff_report"
)

// schemas holds the embedded draft-2020-12 JSON Schema text for each report
// kind. Each schema only constrains schema_version and the top-level shape;
// it deliberately does not re-derive every nested field's type (that is
// already enforced by the Go struct Marshal step), matching the spec's
// "additive changes bump minor, breaking changes bump major" versioning
// rule rather than a full structural contract.
var schemas = map[Kind]string{
	KindAssailReport: `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"required": ["schema_version", "program_path", "weak_points"],
		"properties": {
			"schema_version": {"type": "string"},
			"program_path": {"type": "string"},
			"weak_points": {"type": "array"}
		}
	}`,
	KindAssaultReport: `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"required": ["schema_version", "assail_report", "overall_assessment"],
		"properties": {
			"schema_version": {"type": "string"},
			"assail_report": {"type": "object"},
			"overall_assessment": {
				"type": "object",
				"required": ["robustness_score"],
				"properties": {
					"robustness_score": {"type": "number", "minimum": 0, "maximum": 100}
				}
			}
		}
	}`,
	KindVerdict: `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"required": ["status", "priorities", "rationale"],
		"properties": {
			"status": {"type": "string", "enum": ["pass", "warn", "fail"]},
			"priorities": {"type": "array"},
			"rationale": {"type": "array"}
		}
	}`,
	KindDiffReport: `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"required": ["schema_version"],
		"properties": {
			"schema_version": {"type": "string"}
		}
	}`,
}

var compiled = map[Kind]*jsonschema.Schema{}

func init() {
	for kind, text := range schemas {
		c := jsonschema.NewCompiler()
		name := string(kind) + ".json"
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(text)))
		if err != nil {
			panic(fmt.Errorf("report: embedded schema %s does not parse: %w", kind, err))
		}
		if err := c.AddResource(name, doc); err != nil {
			panic(fmt.Errorf("report: embedded schema %s is invalid: %w", kind, err))
		}
		sch, err := c.Compile(name)
		if err != nil {
			panic(fmt.Errorf("report: embedded schema %s fails to compile: %w", kind, err))
		}
		compiled[kind] = sch
	}
}

// Validate marshals payload to JSON and checks it against kind's logical
// schema, the gate every persisted report (§6) must pass before it is
// written to the store.
func Validate(kind Kind, payload any) error {
	sch, ok := compiled[kind]
	if !ok {
		return fmt.Errorf("report: unknown kind %q", kind)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("report: marshaling %s for validation: %w", kind, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("report: re-parsing marshaled %s: %w", kind, err)
	}

	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("report: %s failed schema validation: %w", kind, err)
	}
	return nil
}
