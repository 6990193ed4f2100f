package linter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// DocGenerator generates documentation from registered rules
type DocGenerator struct {
	registry *Registry
}

// NewDocGenerator creates a new documentation generator
func NewDocGenerator(registry *Registry) *DocGenerator {
	return &DocGenerator{registry: registry}
}

// RuleDoc represents documentation for a single rule
type RuleDoc struct {
	ID                string              `json:"id" yaml:"id"`
	Name              string              `json:"name" yaml:"name"`
	Kind              Kind                `json:"kind" yaml:"kind"`
	Summary           string              `json:"summary" yaml:"summary"`
	Description       string              `json:"description" yaml:"description"`
	DefaultSeverity   string              `json:"default_severity" yaml:"default_severity"`
	MinVersion        string              `json:"min_version,omitempty" yaml:"min_version,omitempty"`
	OptIn             bool                `json:"opt_in" yaml:"opt_in"`
	Analyzer          bool                `json:"analyzer" yaml:"analyzer"`
	Correctable       bool                `json:"correctable" yaml:"correctable"`
	DeprecatedAliases []string            `json:"deprecated_aliases,omitempty" yaml:"deprecated_aliases,omitempty"`
	NonTriggering     []string            `json:"non_triggering_examples,omitempty" yaml:"non_triggering_examples,omitempty"`
	Triggering        []string            `json:"triggering_examples,omitempty" yaml:"triggering_examples,omitempty"`
	Corrections       []CorrectionExample `json:"corrections,omitempty" yaml:"corrections,omitempty"`
	ConfigSchema      map[string]any      `json:"config_schema,omitempty" yaml:"config_schema,omitempty"`
	ConfigDefaults    map[string]any      `json:"config_defaults,omitempty" yaml:"config_defaults,omitempty"`
	Rulesets          []string            `json:"rulesets" yaml:"rulesets"`
}

// GenerateRuleDoc generates documentation for a single rule
func (g *DocGenerator) GenerateRuleDoc(rule Rule) *RuleDoc {
	desc := rule.Description()
	doc := &RuleDoc{
		ID:                desc.Identifier,
		Name:              desc.Name,
		Kind:              desc.Kind,
		Summary:           desc.Summary,
		Description:       desc.Description,
		DefaultSeverity:   rule.Configuration().Severity.String(),
		OptIn:             desc.OptIn,
		Analyzer:          desc.Analyzer,
		Correctable:       IsCorrectable(rule),
		DeprecatedAliases: desc.DeprecatedAliases,
		Corrections:       desc.Corrections,
		Rulesets:          g.registry.RulesetsContaining(desc.Identifier),
	}
	if desc.MinVersion != nil {
		doc.MinVersion = desc.MinVersion.String()
	}
	for _, ex := range desc.NonTriggeringExamples {
		doc.NonTriggering = append(doc.NonTriggering, ex.Code)
	}
	for _, ex := range desc.TriggeringExamples {
		doc.Triggering = append(doc.Triggering, ex.Code)
	}

	if configurable, ok := rule.(ConfigurableRule); ok {
		doc.ConfigSchema = configurable.ConfigSchema()
		doc.ConfigDefaults = configurable.ConfigDefaults()
	}

	return doc
}

// GenerateAllRuleDocs generates documentation for all registered rules
func (g *DocGenerator) GenerateAllRuleDocs() []*RuleDoc {
	var docs []*RuleDoc
	for _, rule := range g.registry.AllRules() {
		docs = append(docs, g.GenerateRuleDoc(rule))
	}
	return docs
}

// GenerateKindDocs groups rules by kind
func (g *DocGenerator) GenerateKindDocs() map[Kind][]*RuleDoc {
	kinds := make(map[Kind][]*RuleDoc)
	for _, doc := range g.GenerateAllRuleDocs() {
		kinds[doc.Kind] = append(kinds[doc.Kind], doc)
	}
	return kinds
}

// WriteJSON writes rule documentation as JSON
func (g *DocGenerator) WriteJSON(w io.Writer) error {
	docs := g.GenerateAllRuleDocs()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"rules":    docs,
		"kinds":    g.registry.AllKinds(),
		"rulesets": g.registry.AllRulesets(),
	})
}

// WriteMarkdown writes rule documentation as Markdown
func (g *DocGenerator) WriteMarkdown(w io.Writer) error {
	docs := g.GenerateKindDocs()
	kinds := g.registry.AllKinds()

	if err := writeLine(w, "# Rules Reference"); err != nil {
		return err
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}

	if err := writeLine(w, "## Kinds"); err != nil {
		return err
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}
	for _, kind := range kinds {
		if err := writeF(w, "- [%s](#%s)\n", kind, kind); err != nil {
			return err
		}
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}

	for _, kind := range kinds {
		if err := writeF(w, "## %s\n\n", kind); err != nil {
			return err
		}
		for _, rule := range docs[kind] {
			if err := g.writeRuleMarkdown(w, rule); err != nil {
				return err
			}
		}
	}

	return nil
}

func (g *DocGenerator) writeRuleMarkdown(w io.Writer, rule *RuleDoc) error {
	if err := writeF(w, "### %s\n\n", rule.ID); err != nil {
		return err
	}
	if rule.Name != "" {
		if err := writeF(w, "**Name:** %s  \n", rule.Name); err != nil {
			return err
		}
	}
	if err := writeF(w, "**Severity:** %s  \n", rule.DefaultSeverity); err != nil {
		return err
	}
	if err := writeF(w, "**Opt-in:** %s  \n", yesNo(rule.OptIn)); err != nil {
		return err
	}
	if rule.MinVersion != "" {
		if err := writeF(w, "**Minimum Swift version:** %s  \n", rule.MinVersion); err != nil {
			return err
		}
	}
	if rule.Correctable {
		if err := writeLine(w, "**Correctable:** Yes  "); err != nil {
			return err
		}
	}
	if len(rule.DeprecatedAliases) > 0 {
		if err := writeF(w, "**Deprecated aliases:** %s  \n", strings.Join(rule.DeprecatedAliases, ", ")); err != nil {
			return err
		}
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}

	text := rule.Description
	if text == "" {
		text = rule.Summary
	}
	if err := writeF(w, "%s\n\n", text); err != nil {
		return err
	}

	if err := writeExamples(w, "#### Non Triggering Examples", rule.NonTriggering); err != nil {
		return err
	}
	if err := writeExamples(w, "#### Triggering Examples", rule.Triggering); err != nil {
		return err
	}

	if len(rule.ConfigSchema) > 0 {
		if err := writeLine(w, "#### Configuration"); err != nil {
			return err
		}
		if err := writeEmptyLine(w); err != nil {
			return err
		}
		if err := writeLine(w, "| Option | Type | Default | Description |"); err != nil {
			return err
		}
		if err := writeLine(w, "|--------|------|---------|-------------|"); err != nil {
			return err
		}
		for _, opt := range configOptions(rule.ConfigSchema, rule.ConfigDefaults) {
			if err := writeF(w, "| `%s` | %s | %s | %s |\n", opt.name, opt.typ, opt.def, opt.description); err != nil {
				return err
			}
		}
		if err := writeEmptyLine(w); err != nil {
			return err
		}
	}

	if err := writeLine(w, "---"); err != nil {
		return err
	}
	return writeEmptyLine(w)
}

func writeExamples(w io.Writer, heading string, examples []string) error {
	if len(examples) == 0 {
		return nil
	}
	if err := writeLine(w, heading); err != nil {
		return err
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}
	for _, ex := range examples {
		if err := writeLine(w, "```swift"); err != nil {
			return err
		}
		if err := writeLine(w, strings.TrimRight(ex, "\n")); err != nil {
			return err
		}
		if err := writeLine(w, "```"); err != nil {
			return err
		}
		if err := writeEmptyLine(w); err != nil {
			return err
		}
	}
	return nil
}

type configOption struct {
	name        string
	typ         string
	def         string
	description string
}

// configOptions flattens the top level properties of an option schema.
func configOptions(schema, defaults map[string]any) []configOption {
	props, _ := schema["properties"].(map[string]any)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]configOption, 0, len(names))
	for _, name := range names {
		prop, _ := props[name].(map[string]any)
		opt := configOption{name: name, typ: "-", def: "-"}
		if t, ok := prop["type"].(string); ok {
			opt.typ = t
		}
		if d, ok := prop["description"].(string); ok {
			opt.description = d
		}
		if v, ok := defaults[name]; ok {
			opt.def = fmt.Sprintf("`%v`", v)
		}
		out = append(out, opt)
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func writeLine(w io.Writer, text string) error {
	_, err := fmt.Fprintln(w, text)
	return err
}

func writeEmptyLine(w io.Writer) error {
	_, err := fmt.Fprintln(w)
	return err
}

func writeF(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
