package rules

import (
	"context"
	"slices"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/speakeasy-api/swiftlint/visitor"
)

const RuleTrailingSemicolon = "trailing_semicolon"

var trailingSemicolonDescription = linter.Description{
	Identifier: RuleTrailingSemicolon,
	Name:       "Trailing Semicolon",
	Summary:    "Lines should not have trailing semicolons",
	Kind:       linter.KindIdiomatic,
	NonTriggeringExamples: examples(
		"let a = 0\n",
		"let a = 0; let b = 0\n",
		"for i in 0..<10 { print(i) }\n",
	),
	TriggeringExamples: examples(
		"let a = 0↓;\n",
		"let a = 0↓;\nlet b = 1\n",
		"let a = 0↓; // a comment\n",
		"func f() {\n    g()↓;\n}\n",
		"let a = 0↓;",
	),
	Corrections: []linter.CorrectionExample{
		{Input: "let a = 0↓;\n", Output: "let a = 0\n"},
		{Input: "let a = 0↓;\nlet b = 1\n", Output: "let a = 0\nlet b = 1\n"},
		{Input: "let a = 0↓; // a comment\n", Output: "let a = 0 // a comment\n"},
		{Input: "func f() {\n    g()↓;\n}\n", Output: "func f() {\n    g()\n}\n"},
	},
}

// statementLists are the node kinds whose children include statement
// separating semicolons.
var statementLists = []syntax.Kind{
	syntax.KindSourceFile,
	syntax.KindCodeBlock,
	syntax.KindMemberBlock,
	syntax.KindSwitchCase,
}

// TrailingSemicolonRule reports semicolons that end a line.
type TrailingSemicolonRule struct {
	linter.BaseRule
}

var _ linter.CorrectableRule = (*TrailingSemicolonRule)(nil)

func NewTrailingSemicolonRule(cfg linter.RuleConfiguration) (linter.Rule, error) {
	return &TrailingSemicolonRule{BaseRule: linter.BaseRule{Desc: trailingSemicolonDescription, Config: cfg}}, nil
}

// findTrailingSemicolons reports every semicolon followed by a line break or
// the end of the file.
func findTrailingSemicolons(report func(*syntax.Node)) visitor.Visitor {
	var pending *syntax.Node
	return &visitor.Funcs{Token: func(tok *syntax.Node) {
		if pending != nil && (tok.TokenKind() == syntax.TokenEOF || tok.LeadingTrivia().ContainsNewline()) {
			report(pending)
		}
		pending = nil
		if tok.TokenKind() == syntax.TokenSemicolon {
			pending = tok
		}
	}}
}

func (r *TrailingSemicolonRule) Validate(_ context.Context, file *syntax.File) []violation.Violation {
	c := r.Collector(file)
	v := findTrailingSemicolons(func(n *syntax.Node) {
		c.Add(n.Start(), trailingSemicolonDescription.Summary)
	})
	return visitor.Collect(file.Root, v, c)
}

// Rewriter removes each semicolon from its statement list. Its trivia moves
// to the end of the preceding statement so comments survive.
func (r *TrailingSemicolonRule) Rewriter(cc *visitor.CorrectionContext) visitor.Rewriter {
	semicolons := targets(cc.File.Root, findTrailingSemicolons)
	drop := func(n *syntax.Node) *syntax.Node {
		children := make([]*syntax.Node, 0, n.NumChildren())
		changed := false
		for _, c := range n.Children() {
			if c.TokenKind() == syntax.TokenSemicolon && semicolons[c.Start()] && len(children) > 0 && cc.ShouldCorrect(c) {
				cc.Record(c)
				prev := children[len(children)-1]
				trivia := slices.Concat(prev.TrailingTrivia(), c.LeadingTrivia(), c.TrailingTrivia())
				children[len(children)-1] = prev.WithTrailingTrivia(trivia)
				changed = true
				continue
			}
			children = append(children, c)
		}
		if !changed {
			return n
		}
		return n.WithChildren(children...)
	}

	rw := visitor.Rewriter{Rewrite: rewrites{}}
	for _, kind := range statementLists {
		rw.Rewrite[kind] = drop
	}
	return rw
}
