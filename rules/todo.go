package rules

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/speakeasy-api/swiftlint/visitor"
)

const RuleTodo = "todo"

var todoDescription = linter.Description{
	Identifier: RuleTodo,
	Name:       "Todo",
	Summary:    "TODOs and FIXMEs should be resolved.",
	Kind:       linter.KindLint,
	NonTriggeringExamples: examples(
		"// notaTODO:\n",
		"// notaFIXME:\n",
		"let todo = \"TODO: not a comment\"\n",
	),
	TriggeringExamples: examples(
		"// ↓TODO:\n",
		"// ↓FIXME:\n",
		"// ↓TODO(note)\n",
		"// ↓FIXME(note)\n",
		"/* ↓FIXME: */\n",
		"/* ↓TODO: */\n",
		"/** ↓FIXME: */\n",
		"/** ↓TODO: */\n",
		"let x = 1 // ↓TODO: remove\n",
	),
}

var todoPattern = regexp.MustCompile(`\b(TODO|FIXME)(?::|\b)`)

type todoOptions struct {
	Only []string `yaml:"only"`
}

// TodoRule reports TODO and FIXME markers in comments.
type TodoRule struct {
	linter.BaseRule
	opts todoOptions
}

var _ linter.ConfigurableRule = (*TodoRule)(nil)

func NewTodoRule(cfg linter.RuleConfiguration) (linter.Rule, error) {
	r := &TodoRule{
		BaseRule: linter.BaseRule{Desc: todoDescription, Config: cfg},
		opts:     todoOptions{Only: []string{"TODO", "FIXME"}},
	}
	if err := linter.DecodeOptions(cfg.Options, &r.opts); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *TodoRule) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"only": map[string]any{
				"type":        "array",
				"description": "Markers to report",
				"items":       map[string]any{"enum": []any{"TODO", "FIXME"}},
				"uniqueItems": true,
			},
		},
		"additionalProperties": false,
	}
}

func (r *TodoRule) ConfigDefaults() map[string]any {
	return map[string]any{"only": []any{"TODO", "FIXME"}}
}

func (r *TodoRule) Validate(_ context.Context, file *syntax.File) []violation.Violation {
	c := r.Collector(file)
	visit := func(offset int, piece syntax.TriviaPiece) {
		if !piece.Kind.IsComment() {
			return
		}
		for _, m := range todoPattern.FindAllStringSubmatchIndex(piece.Text, -1) {
			marker := piece.Text[m[2]:m[3]]
			if !slices.Contains(r.opts.Only, marker) {
				continue
			}
			c.Add(offset+m[0], todoReason(marker, todoMessage(piece.Text[m[1]:])))
		}
	}
	v := &visitor.Funcs{Token: func(tok *syntax.Node) {
		if tok.FullStart() < 0 {
			return
		}
		tok.LeadingTrivia().PieceOffsets(tok.FullStart(), visit)
		tok.TrailingTrivia().PieceOffsets(tok.End(), visit)
	}}
	return visitor.Collect(file.Root, v, c)
}

// todoMessage returns the note after a marker up to the end of its line,
// without comment delimiters.
func todoMessage(rest string) string {
	if i := strings.IndexAny(rest, "\r\n"); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), "*/")
	return strings.TrimSpace(rest)
}

func todoReason(marker, message string) string {
	reason := marker + "s should be resolved"
	if message != "" {
		reason += " (" + message + ")"
	}
	return reason
}
