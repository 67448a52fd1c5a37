package diagfmt

import (
	"encoding/json"
	"io"

	"lintel/internal/diag"
	"lintel/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string        `json:"id"`
	Name             string        `json:"name,omitempty"`
	ShortDescription *sarifMessage `json:"shortDescription,omitempty"`
	HelpURI          string        `json:"helpUri,omitempty"`
	DefaultConfig    sarifConfig   `json:"defaultConfiguration"`
}

type sarifConfig struct {
	Level string `json:"level"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0). Internal
// diagnostics are reported as tool execution failures, not results.
func Sarif(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, meta SarifRunMeta) error {
	index := make(map[string]int, len(meta.Rules))
	rules := make([]sarifRule, 0, len(meta.Rules))
	addRule := func(d *diag.Descriptor) int {
		if i, ok := index[d.ID()]; ok {
			return i
		}
		r := sarifRule{
			ID:            d.ID(),
			Name:          d.Title(),
			HelpURI:       d.HelpURI(),
			DefaultConfig: sarifConfig{Level: sarifLevel(d.DefaultSeverity())},
		}
		if d.Title() != "" {
			r.ShortDescription = &sarifMessage{Text: d.Title()}
		}
		index[d.ID()] = len(rules)
		rules = append(rules, r)
		return index[d.ID()]
	}
	for _, d := range meta.Rules {
		if d != nil {
			addRule(d)
		}
	}

	results := make([]sarifResult, 0, len(diags))
	failed := false
	for i := range diags {
		d := &diags[i]
		if d.Internal {
			failed = true
			continue
		}
		if d.Descriptor == nil {
			continue
		}
		phys := sarifPhysical{ArtifactLocation: sarifArtifact{URI: displayPath(d, fs, PathModeRelative)}}
		if d.Start.Line > 0 {
			phys.Region = &sarifRegion{
				StartLine:   d.Start.Line,
				StartColumn: d.Start.Col,
				EndLine:     d.End.Line,
				EndColumn:   d.End.Col,
				ByteOffset:  d.Span.Start,
				ByteLength:  d.Span.Len(),
			}
		}
		results = append(results, sarifResult{
			RuleID:    d.RuleID(),
			RuleIndex: addRule(d.Descriptor),
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{PhysicalLocation: phys}},
		})
	}

	name := meta.ToolName
	if name == "" {
		name = "lintel"
	}
	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:           name,
				Version:        meta.ToolVersion,
				InformationURI: meta.InformationURI,
				Rules:          rules,
			}},
			Invocations: []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: !failed}},
			Results:     results,
		}},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}
