package linter

import (
	"context"

	"github.com/speakeasy-api/swiftlint/internal/version"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/speakeasy-api/swiftlint/visitor"
)

// Kind groups rules for documentation and category configuration.
type Kind string

const (
	KindLint        Kind = "lint"
	KindIdiomatic   Kind = "idiomatic"
	KindStyle       Kind = "style"
	KindMetrics     Kind = "metrics"
	KindPerformance Kind = "performance"
)

// Example is a source snippet used in documentation and self tests. In
// triggering examples each expected violation position is marked with ↓.
type Example struct {
	Code string `json:"code" yaml:"code"`
}

// CorrectionExample pairs an input with the exact output correction must
// produce.
type CorrectionExample struct {
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

// Description holds the static metadata of a rule.
type Description struct {
	Identifier  string
	Name        string
	Summary     string
	Description string
	Kind        Kind

	// MinVersion gates the rule off for files of an older language version.
	MinVersion *version.Version

	OptIn    bool
	Analyzer bool

	NonTriggeringExamples []Example
	TriggeringExamples    []Example
	Corrections           []CorrectionExample

	// DeprecatedAliases still select the rule in configuration and
	// directives.
	DeprecatedAliases []string
}

// RuleConfiguration is the configuration every rule receives.
type RuleConfiguration struct {
	Severity violation.Severity `json:"severity" yaml:"severity"`
	OptIn    bool               `json:"opt_in" yaml:"opt_in"`
	Options  map[string]any     `json:"options,omitempty" yaml:"options,omitempty"`
}

// Rule is a single lint check. A constructed rule is immutable and may
// validate many files concurrently.
type Rule interface {
	Description() Description
	Configuration() RuleConfiguration

	// Validate returns the raw violations for file. Disable regions and
	// severity overrides are applied by the linter afterwards.
	Validate(ctx context.Context, file *syntax.File) []violation.Violation
}

// CorrectableRule can rewrite the tree to fix its own violations.
type CorrectableRule interface {
	Rule

	// Rewriter builds the rewriter for one correction of ctx.File. The rule
	// must consult ctx before each edit and record it.
	Rewriter(ctx *visitor.CorrectionContext) visitor.Rewriter
}

// AnalyzerRule needs compiler arguments and only runs when explicitly
// requested.
type AnalyzerRule interface {
	Rule

	RequiresCompilerArguments() bool
}

// ConfigurableRule indicates a rule has configurable options
type ConfigurableRule interface {
	Rule

	// ConfigSchema returns JSON Schema for rule-specific options
	ConfigSchema() map[string]any

	// ConfigDefaults returns default values for options
	ConfigDefaults() map[string]any
}

// Factory builds a configured rule instance.
type Factory func(RuleConfiguration) (Rule, error)

// Parser turns source text into a syntax tree. Name identifies the frontend
// in cache keys; parsers that can produce different trees must differ in name.
type Parser interface {
	Name() string
	Parse(ctx context.Context, src []byte) (*syntax.Node, error)
}

// BaseRule implements the metadata half of Rule for embedding.
type BaseRule struct {
	Desc   Description
	Config RuleConfiguration
}

func (b BaseRule) Description() Description { return b.Desc }

func (b BaseRule) Configuration() RuleConfiguration { return b.Config }

// Collector returns a collector for this rule over file.
func (b BaseRule) Collector(file *syntax.File) *visitor.Collector {
	return visitor.NewCollector(b.Desc.Identifier, file)
}

// IsCorrectable reports whether r implements CorrectableRule.
func IsCorrectable(r Rule) bool {
	_, ok := r.(CorrectableRule)
	return ok
}
