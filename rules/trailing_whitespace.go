package rules

import (
	"context"
	"strings"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/speakeasy-api/swiftlint/visitor"
)

const RuleTrailingWhitespace = "trailing_whitespace"

var trailingWhitespaceDescription = linter.Description{
	Identifier:  RuleTrailingWhitespace,
	Name:        "Trailing Whitespace",
	Summary:     "Lines should not have trailing whitespace",
	Description: "Only whitespace in trivia is inspected; whitespace inside multi-line string literals is content.",
	Kind:        linter.KindStyle,
	NonTriggeringExamples: examples(
		"let name: String\n",
		"//\n",
		"// \n",
		"let name: String //\n",
		"let name: String // \n",
		"let s = \"\"\"\n  text  \n  \"\"\"\n",
	),
	TriggeringExamples: examples(
		"let name: String↓ \n",
		"/* */ let name: String↓ \n",
		"let a = 1\n↓  \nlet b = 2\n",
		"func f() {↓\t\n}\n",
		"let a = 1↓ ",
	),
	Corrections: []linter.CorrectionExample{
		{Input: "let name: String↓ \n", Output: "let name: String\n"},
		{Input: "/* */ let name: String↓ \n", Output: "/* */ let name: String\n"},
		{Input: "let a = 1\n↓  \nlet b = 2\n", Output: "let a = 1\n\nlet b = 2\n"},
		{Input: "func f() {↓\t\n}\n", Output: "func f() {\n}\n"},
		{Input: "let a = 1↓ ", Output: "let a = 1"},
	},
}

type trailingWhitespaceOptions struct {
	IgnoresEmptyLines bool `yaml:"ignores_empty_lines"`
	IgnoresComments   bool `yaml:"ignores_comments"`
}

// TrailingWhitespaceRule reports spaces and tabs before a line break. It
// reads and edits trivia only, so it behaves the same with every frontend.
type TrailingWhitespaceRule struct {
	linter.BaseRule
	opts trailingWhitespaceOptions
}

var (
	_ linter.CorrectableRule  = (*TrailingWhitespaceRule)(nil)
	_ linter.ConfigurableRule = (*TrailingWhitespaceRule)(nil)
)

func NewTrailingWhitespaceRule(cfg linter.RuleConfiguration) (linter.Rule, error) {
	r := &TrailingWhitespaceRule{
		BaseRule: linter.BaseRule{Desc: trailingWhitespaceDescription, Config: cfg},
		opts:     trailingWhitespaceOptions{IgnoresComments: true},
	}
	if err := linter.DecodeOptions(cfg.Options, &r.opts); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *TrailingWhitespaceRule) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"ignores_empty_lines": map[string]any{"type": "boolean", "description": "Allow whitespace on otherwise empty lines"},
			"ignores_comments":    map[string]any{"type": "boolean", "description": "Allow whitespace at the end of line comments"},
		},
		"additionalProperties": false,
	}
}

func (r *TrailingWhitespaceRule) ConfigDefaults() map[string]any {
	return map[string]any{"ignores_empty_lines": false, "ignores_comments": true}
}

// scanner finds trailing whitespace runs in the trivia of one file.
type scanner struct {
	src  []byte
	opts trailingWhitespaceOptions
}

// endsLine reports whether offset is at a line break or the end of input.
func (s scanner) endsLine(offset int) bool {
	return offset >= len(s.src) || s.src[offset] == '\n' || s.src[offset] == '\r'
}

func (s scanner) startsLine(offset int) bool {
	return offset == 0 || s.src[offset-1] == '\n' || s.src[offset-1] == '\r'
}

// trim returns t without its trailing whitespace runs together with the
// start offset of each removed run. keep vetoes single runs.
func (s scanner) trim(t syntax.Trivia, start int, keep func(offset int) bool) (syntax.Trivia, []int) {
	var out syntax.Trivia
	var runs []int
	off := start
	for i := 0; i < len(t); {
		piece := t[i]
		if piece.Kind.IsWhitespace() {
			j, end := i, off
			for j < len(t) && t[j].Kind.IsWhitespace() {
				end += len(t[j].Text)
				j++
			}
			if s.endsLine(end) && !(s.opts.IgnoresEmptyLines && s.startsLine(off)) && !keep(off) {
				runs = append(runs, off)
			} else {
				out = append(out, t[i:j]...)
			}
			i, off = j, end
			continue
		}
		if !s.opts.IgnoresComments && (piece.Kind == syntax.TriviaLineComment || piece.Kind == syntax.TriviaDocLineComment) {
			if trimmed := strings.TrimRight(piece.Text, " \t"); len(trimmed) < len(piece.Text) && !keep(off+len(trimmed)) {
				runs = append(runs, off+len(trimmed))
				piece.Text = trimmed
			}
		}
		out = append(out, piece)
		off += len(t[i].Text)
		i++
	}
	return out, runs
}

// scanToken trims both trivia of tok.
func (s scanner) scanToken(tok *syntax.Node, keep func(offset int) bool) (leading, trailing syntax.Trivia, runs []int) {
	leading, lr := s.trim(tok.LeadingTrivia(), tok.FullStart(), keep)
	trailing, tr := s.trim(tok.TrailingTrivia(), tok.End(), keep)
	return leading, trailing, append(lr, tr...)
}

func (r *TrailingWhitespaceRule) Validate(_ context.Context, file *syntax.File) []violation.Violation {
	c := r.Collector(file)
	s := scanner{src: file.Source, opts: r.opts}
	v := &visitor.Funcs{Token: func(tok *syntax.Node) {
		if tok.FullStart() < 0 {
			return
		}
		_, _, runs := s.scanToken(tok, func(int) bool { return false })
		for _, off := range runs {
			c.Add(off, trailingWhitespaceDescription.Summary)
		}
	}}
	return visitor.Collect(file.Root, v, c)
}

func (r *TrailingWhitespaceRule) Rewriter(cc *visitor.CorrectionContext) visitor.Rewriter {
	s := scanner{src: cc.File.Source, opts: r.opts}
	keep := func(off int) bool { return !cc.ShouldCorrectAt(off) }
	return visitor.Rewriter{Rewrite: rewrites{
		syntax.KindToken: func(tok *syntax.Node) *syntax.Node {
			if tok.FullStart() < 0 {
				return tok
			}
			leading, trailing, runs := s.scanToken(tok, keep)
			if len(runs) == 0 {
				return tok
			}
			for _, off := range runs {
				cc.RecordAt(off)
			}
			return tok.WithLeadingTrivia(leading).WithTrailingTrivia(trailing)
		},
	}}
}
