package linter_test

import (
	"context"

	"github.com/speakeasy-api/swiftlint/internal/version"
	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/speakeasy-api/swiftlint/visitor"
)

// wordRule reports every identifier token spelled like word.
type wordRule struct {
	linter.BaseRule
	word  string
	panic bool
}

func (r *wordRule) Validate(_ context.Context, file *syntax.File) []violation.Violation {
	if r.panic {
		panic("boom")
	}
	c := r.Collector(file)
	v := &visitor.Funcs{Token: func(tok *syntax.Node) {
		if tok.TokenKind() == syntax.TokenIdentifier && tok.TokenText() == r.word {
			c.Add(tok.Start(), "found "+r.word)
		}
	}}
	return visitor.Collect(file.Root, v, c)
}

type ruleOpt func(*linter.Description, *wordRule)

func optIn() ruleOpt { return func(d *linter.Description, _ *wordRule) { d.OptIn = true } }

func analyzer() ruleOpt { return func(d *linter.Description, _ *wordRule) { d.Analyzer = true } }

func kind(k linter.Kind) ruleOpt { return func(d *linter.Description, _ *wordRule) { d.Kind = k } }

func panics() ruleOpt { return func(_ *linter.Description, r *wordRule) { r.panic = true } }

func minVersion(v string) ruleOpt {
	return func(d *linter.Description, _ *wordRule) { d.MinVersion = version.MustParse(v) }
}

func aliases(names ...string) ruleOpt {
	return func(d *linter.Description, _ *wordRule) { d.DeprecatedAliases = names }
}

// wordFactory builds a rule with identifier id that flags word.
func wordFactory(id, word string, opts ...ruleOpt) linter.Factory {
	return func(cfg linter.RuleConfiguration) (linter.Rule, error) {
		r := &wordRule{word: word}
		desc := linter.Description{Identifier: id, Name: id, Summary: "flags " + word, Kind: linter.KindLint}
		for _, opt := range opts {
			opt(&desc, r)
		}
		r.BaseRule = linter.BaseRule{Desc: desc, Config: cfg}
		return r, nil
	}
}

// analyzerRule needs compiler arguments.
type analyzerRule struct{ *wordRule }

func (analyzerRule) RequiresCompilerArguments() bool { return true }

func analyzerFactory(id, word string) linter.Factory {
	inner := wordFactory(id, word, analyzer())
	return func(cfg linter.RuleConfiguration) (linter.Rule, error) {
		r, err := inner(cfg)
		if err != nil {
			return nil, err
		}
		return analyzerRule{r.(*wordRule)}, nil
	}
}

// limitRule is a configurable rule reporting identifiers longer than its
// warning and error limits.
type limitRule struct {
	linter.BaseRule
	opts limitOptions
}

type limitOptions struct {
	Warning int `yaml:"warning"`
	Error   int `yaml:"error"`
}

func (r *limitRule) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"warning": map[string]any{"type": "integer", "minimum": 1, "description": "Warning length"},
			"error":   map[string]any{"type": "integer", "minimum": 1, "description": "Error length"},
		},
		"additionalProperties": false,
	}
}

func (r *limitRule) ConfigDefaults() map[string]any {
	return map[string]any{"warning": 5, "error": 10}
}

func (r *limitRule) Validate(_ context.Context, file *syntax.File) []violation.Violation {
	c := r.Collector(file)
	v := &visitor.Funcs{Token: func(tok *syntax.Node) {
		if tok.TokenKind() != syntax.TokenIdentifier {
			return
		}
		switch n := len(tok.TokenText()); {
		case n > r.opts.Error:
			c.AddWithSeverity(tok.Start(), "identifier too long", violation.SeverityError)
		case n > r.opts.Warning:
			c.AddWithSeverity(tok.Start(), "identifier too long", violation.SeverityWarning)
		}
	}}
	return visitor.Collect(file.Root, v, c)
}

func limitFactory(cfg linter.RuleConfiguration) (linter.Rule, error) {
	r := &limitRule{BaseRule: linter.BaseRule{
		Desc: linter.Description{
			Identifier: "identifier_limit",
			Name:       "Identifier Limit",
			Summary:    "Identifiers should be short",
			Kind:       linter.KindMetrics,
		},
		Config: cfg,
	}}
	r.opts = limitOptions{Warning: 5, Error: 10}
	if err := linter.DecodeOptions(cfg.Options, &r.opts); err != nil {
		return nil, err
	}
	return r, nil
}
