// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-analyst pipeline:
// paper metadata from sources, analysis templates and their outputs, the
// selection verdict, and the caller-facing PaperRecord.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Template is one analysis lens. Instruction contains a {text} placeholder
// where the paper text is substituted.
type Template struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Instruction string `json:"prompt" yaml:"prompt"`
}

// Templates is an ordered template set. It serializes as a name → instruction
// object, preserving order.
type Templates []Template

// Keys returns the template names in order.
func (ts Templates) Keys() []string {
	keys := make([]string, len(ts))
	for i, t := range ts {
		keys[i] = t.Name
	}
	return keys
}

// Get returns the template with the given name.
func (ts Templates) Get(name string) (Template, bool) {
	for _, t := range ts {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

func (ts Templates) MarshalJSON() ([]byte, error) {
	values := make([]string, len(ts))
	for i, t := range ts {
		values[i] = t.Instruction
	}
	return marshalOrderedObject(ts.Keys(), values)
}

func (ts *Templates) UnmarshalJSON(data []byte) error {
	keys, values, err := unmarshalOrderedObject(data)
	if err != nil {
		return err
	}
	out := make(Templates, len(keys))
	for i := range keys {
		out[i] = Template{Name: keys[i], Instruction: values[i]}
	}
	*ts = out
	return nil
}

func (ts Templates) MarshalYAML() (any, error) {
	values := make([]string, len(ts))
	for i, t := range ts {
		values[i] = t.Instruction
	}
	return orderedYAMLNode(ts.Keys(), values), nil
}

func (ts *Templates) UnmarshalYAML(node *yaml.Node) error {
	keys, values, err := orderedYAMLPairs(node)
	if err != nil {
		return err
	}
	out := make(Templates, len(keys))
	for i := range keys {
		out[i] = Template{Name: keys[i], Instruction: values[i]}
	}
	*ts = out
	return nil
}

// AnalysisErrorPrefix starts the text of an analysis whose call failed. The
// failed flag is not serialized; it is re-derived from this prefix.
const AnalysisErrorPrefix = "Error analyzing with template "

// Analysis is the LLM's response to one template applied to one paper.
// A failed call is still an Analysis whose Text states the failure.
type Analysis struct {
	Template string `json:"template" yaml:"template"`
	Text     string `json:"text" yaml:"text"`
	Failed   bool   `json:"failed,omitempty" yaml:"failed,omitempty"`
}

func decodedAnalysis(name, text string) Analysis {
	return Analysis{Template: name, Text: text, Failed: strings.HasPrefix(text, AnalysisErrorPrefix)}
}

// Analyses is an ordered template name → analysis text mapping.
type Analyses []Analysis

// Keys returns the analysed template names in order.
func (as Analyses) Keys() []string {
	keys := make([]string, len(as))
	for i, a := range as {
		keys[i] = a.Template
	}
	return keys
}

// Get returns the analysis text for a template.
func (as Analyses) Get(name string) (string, bool) {
	for _, a := range as {
		if a.Template == name {
			return a.Text, true
		}
	}
	return "", false
}

// Has reports whether name is one of the analysed templates.
func (as Analyses) Has(name string) bool {
	_, ok := as.Get(name)
	return ok
}

// Failures counts analyses whose call failed.
func (as Analyses) Failures() int {
	n := 0
	for _, a := range as {
		if a.Failed {
			n++
		}
	}
	return n
}

func (as Analyses) MarshalJSON() ([]byte, error) {
	values := make([]string, len(as))
	for i, a := range as {
		values[i] = a.Text
	}
	return marshalOrderedObject(as.Keys(), values)
}

func (as *Analyses) UnmarshalJSON(data []byte) error {
	keys, values, err := unmarshalOrderedObject(data)
	if err != nil {
		return err
	}
	out := make(Analyses, len(keys))
	for i := range keys {
		out[i] = decodedAnalysis(keys[i], values[i])
	}
	*as = out
	return nil
}

func (as Analyses) MarshalYAML() (any, error) {
	values := make([]string, len(as))
	for i, a := range as {
		values[i] = a.Text
	}
	return orderedYAMLNode(as.Keys(), values), nil
}

func (as *Analyses) UnmarshalYAML(node *yaml.Node) error {
	keys, values, err := orderedYAMLPairs(node)
	if err != nil {
		return err
	}
	out := make(Analyses, len(keys))
	for i := range keys {
		out[i] = decodedAnalysis(keys[i], values[i])
	}
	*as = out
	return nil
}

// Verdict is the selector's choice of the most valuable template.
type Verdict struct {
	Template  string `json:"selected_template" yaml:"selected_template"`
	Reasoning string `json:"reasoning" yaml:"reasoning"`

	// Fallback is true when the verdict came from the deterministic default
	// rather than the LLM.
	Fallback bool `json:"-" yaml:"-"`
}

// Summaries holds the synthesized narratives for one paper.
type Summaries struct {
	Focused   string
	Holistic  string
	Executive string
}

// PaperRecord is the caller-facing result for one paper. On extraction
// failure only the source fields and Error are populated.
type PaperRecord struct {
	Title             string `json:"title" yaml:"title"`
	Authors           string `json:"authors" yaml:"authors"`
	PDFURL            string `json:"pdf_url" yaml:"pdf_url"`
	LocalArtifactPath string `json:"local_artifact_path" yaml:"local_artifact_path"`
	TextSnippet       string `json:"text_snippet,omitempty" yaml:"text_snippet,omitempty"`

	GeneratedTemplates Templates `json:"generated_templates,omitempty" yaml:"generated_templates,omitempty"`
	TemplateAnalyses   Analyses  `json:"template_analyses,omitempty" yaml:"template_analyses,omitempty"`

	BestTemplate               string `json:"best_template,omitempty" yaml:"best_template,omitempty"`
	TemplateSelectionReasoning string `json:"template_selection_reasoning,omitempty" yaml:"template_selection_reasoning,omitempty"`
	FocusedSummary             string `json:"focused_summary,omitempty" yaml:"focused_summary,omitempty"`
	HolisticSummary            string `json:"holistic_summary,omitempty" yaml:"holistic_summary,omitempty"`
	ExecutiveSummary           string `json:"executive_summary,omitempty" yaml:"executive_summary,omitempty"`

	// Error is the extraction-failure marker. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Degraded reports whether the record carries only source metadata.
func (r PaperRecord) Degraded() bool {
	return r.Error != ""
}

func marshalOrderedObject(keys, values []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(keys[i])
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func unmarshalOrderedObject(data []byte) (keys, values []string, err error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if tok == nil {
		return nil, nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, nil, fmt.Errorf("decoding value for %q: %w", key, err)
		}
		keys = append(keys, key)
		values = append(values, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}

func orderedYAMLNode(keys, values []string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := range keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: keys[i]},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: values[i]},
		)
	}
	return node
}

func orderedYAMLPairs(node *yaml.Node) (keys, values []string, err error) {
	if node.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("expected YAML mapping at line %d", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
		values = append(values, node.Content[i+1].Value)
	}
	return keys, values, nil
}
