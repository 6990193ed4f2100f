package linter

import (
	"fmt"
	"slices"

	"github.com/speakeasy-api/swiftlint/internal/version"
	"github.com/speakeasy-api/swiftlint/violation"
)

// Config represents the linter configuration
type Config struct {
	// SwiftVersion is the language version files are linted as. Rules with a
	// higher minimum version are skipped. Empty means unknown, which gates
	// nothing.
	SwiftVersion string `yaml:"swift_version,omitempty" json:"swift_version,omitempty"`

	// DisabledRules always wins over every other selection.
	DisabledRules []string `yaml:"disabled_rules,omitempty" json:"disabled_rules,omitempty"`

	// OptInRules enables rules that are off by default.
	OptInRules []string `yaml:"opt_in_rules,omitempty" json:"opt_in_rules,omitempty"`

	// OnlyRules replaces the default selection when non-empty.
	OnlyRules []string `yaml:"only_rules,omitempty" json:"only_rules,omitempty"`

	// AnalyzerRules is the only way to select analyzer rules.
	AnalyzerRules []string `yaml:"analyzer_rules,omitempty" json:"analyzer_rules,omitempty"`

	// Included and Excluded are doublestar globs applied by the CLI.
	Included []string `yaml:"included,omitempty" json:"included,omitempty"`
	Excluded []string `yaml:"excluded,omitempty" json:"excluded,omitempty"`

	// Rules contains per-rule configuration
	Rules map[string]RuleConfig `yaml:"rules,omitempty" json:"rules,omitempty"`

	// Categories contains per-kind configuration
	Categories map[Kind]CategoryConfig `yaml:"categories,omitempty" json:"categories,omitempty"`

	// OutputFormat specifies the output format
	OutputFormat OutputFormat `yaml:"output_format,omitempty" json:"output_format,omitempty"`
}

// RuleConfig configures a specific rule
type RuleConfig struct {
	// Enabled controls whether the rule is active
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Severity overrides the default severity
	Severity *violation.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`

	// Options contains rule-specific configuration
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// GetSeverity returns the effective severity, falling back to default if not overridden
func (c *RuleConfig) GetSeverity(defaultSeverity violation.Severity) violation.Severity {
	if c != nil && c.Severity != nil {
		return *c.Severity
	}
	return defaultSeverity
}

// CategoryConfig configures an entire category of rules
type CategoryConfig struct {
	// Enabled controls whether all rules in the category are active
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Severity overrides the default severity for all rules in the category
	Severity *violation.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`
}

type OutputFormat string

const (
	OutputFormatText    OutputFormat = "text"
	OutputFormatJSON    OutputFormat = "json"
	OutputFormatSummary OutputFormat = "summary"
)

var outputFormats = []OutputFormat{OutputFormatText, OutputFormatJSON, OutputFormatSummary}

// NewConfig creates a new default configuration
func NewConfig() *Config {
	return &Config{
		Rules:        make(map[string]RuleConfig),
		Categories:   make(map[Kind]CategoryConfig),
		OutputFormat: OutputFormatText,
	}
}

// Validate reports structural problems. Unknown rule identifiers are not
// errors here; the linter warns about them when it resolves the selection.
func (c *Config) Validate() error {
	if c.OutputFormat != "" && !slices.Contains(outputFormats, c.OutputFormat) {
		return ErrInvalidConfig.Wrapf("unsupported output_format %q", c.OutputFormat)
	}
	if _, err := c.LanguageVersion(); err != nil {
		return err
	}
	for _, list := range [][]string{c.DisabledRules, c.OptInRules, c.OnlyRules, c.AnalyzerRules} {
		for _, id := range list {
			if id == "" {
				return ErrInvalidConfig.Wrapf("empty rule identifier")
			}
		}
	}
	return nil
}

// LanguageVersion parses SwiftVersion. It returns nil when unset.
func (c *Config) LanguageVersion() (*version.Version, error) {
	if c.SwiftVersion == "" {
		return nil, nil
	}
	v, err := version.Parse(c.SwiftVersion)
	if err != nil {
		return nil, ErrInvalidConfig.Wrap(fmt.Errorf("swift_version: %w", err))
	}
	return v, nil
}
