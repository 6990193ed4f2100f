package rules

import (
	"context"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/speakeasy-api/swiftlint/visitor"
)

const RuleUnusedControlFlowLabel = "unused_control_flow_label"

var unusedControlFlowLabelDescription = linter.Description{
	Identifier: RuleUnusedControlFlowLabel,
	Name:       "Unused Control Flow Label",
	Summary:    "Unused control flow label should be removed",
	Kind:       linter.KindLint,
	NonTriggeringExamples: examples(
		"loop: while true { break loop }",
		"loop: while true { continue loop }",
		"loop:\n    while true { break loop }",
		"while true { break }",
		"label: switch number {\ncase 1: print(\"1\")\ncase 2: print(\"2\")\ndefault: break label\n}",
		"outer: for x in array {\n    inner: for y in x {\n        if y == 0 { continue outer }\n        break inner\n    }\n}",
	),
	TriggeringExamples: examples(
		"↓loop: while true { break }",
		"↓loop: while true { break loop1 }",
		"↓loop: for x in array { print(x) }",
		"↓label: switch number {\ncase 1: print(\"1\")\ncase 2: print(\"2\")\ndefault: break\n}",
		"↓loop: repeat { if x == 10 { break } } while true",
		"↓loop: while true {\n    loop: while true { continue loop }\n}",
	),
	Corrections: []linter.CorrectionExample{
		{Input: "↓loop: while true { break }", Output: "while true { break }"},
		{Input: "↓loop: while true { break loop1 }", Output: "while true { break loop1 }"},
		{Input: "↓loop: for x in array { print(x) }", Output: "for x in array { print(x) }"},
		{Input: "↓loop: repeat { if x == 10 { break } } while true", Output: "repeat { if x == 10 { break } } while true"},
		{
			Input:  "func f() {\n    ↓loop: while true { break }\n}",
			Output: "func f() {\n    while true { break }\n}",
		},
	},
}

// UnusedControlFlowLabelRule reports statement labels that no break or
// continue refers to.
type UnusedControlFlowLabelRule struct {
	linter.BaseRule
}

var _ linter.CorrectableRule = (*UnusedControlFlowLabelRule)(nil)

func NewUnusedControlFlowLabelRule(cfg linter.RuleConfiguration) (linter.Rule, error) {
	return &UnusedControlFlowLabelRule{BaseRule: linter.BaseRule{Desc: unusedControlFlowLabelDescription, Config: cfg}}, nil
}

type labelScope struct {
	name string
	stmt *syntax.Node
	used bool
}

// findUnusedLabels reports every labeled statement whose label is never the
// target of a jump. A label is visible inside its own statement and is
// shadowed by an inner label of the same name.
func findUnusedLabels(report func(*syntax.Node)) visitor.Visitor {
	var scopes visitor.ScopeStack[labelScope]

	jump := func(n *syntax.Node) visitor.Action {
		label := n.ChildToken(syntax.TokenIdentifier)
		if label == nil {
			return visitor.Continue
		}
		if scope := scopes.Find(func(s labelScope) bool { return s.name == label.TokenText() }); scope != nil {
			scope.used = true
		}
		return visitor.Continue
	}

	return &visitor.Funcs{
		OnEnter: hooks{
			syntax.KindLabeledStmt: func(n *syntax.Node) visitor.Action {
				scopes.Push(labelScope{name: n.Child(0).TokenText(), stmt: n})
				return visitor.Continue
			},
			syntax.KindBreakStmt:    jump,
			syntax.KindContinueStmt: jump,
		},
		OnLeave: map[syntax.Kind]func(*syntax.Node){
			syntax.KindLabeledStmt: func(*syntax.Node) {
				if scope, ok := scopes.Pop(); ok && !scope.used {
					report(scope.stmt)
				}
			},
		},
	}
}

func (r *UnusedControlFlowLabelRule) Validate(_ context.Context, file *syntax.File) []violation.Violation {
	c := r.Collector(file)
	v := findUnusedLabels(func(n *syntax.Node) {
		c.Add(n.Start(), "Unused control flow label should be removed")
	})
	return visitor.Collect(file.Root, v, c)
}

// Rewriter drops the label and its colon. The statement takes over the
// label's leading trivia.
func (r *UnusedControlFlowLabelRule) Rewriter(cc *visitor.CorrectionContext) visitor.Rewriter {
	unused := targets(cc.File.Root, findUnusedLabels)
	return visitor.Rewriter{Rewrite: rewrites{
		syntax.KindLabeledStmt: func(n *syntax.Node) *syntax.Node {
			stmt := n.Child(2)
			if stmt == nil || !unused[n.Start()] || !cc.ShouldCorrect(n) {
				return n
			}
			cc.Record(n)
			return stmt.WithLeadingTrivia(n.Child(0).LeadingTrivia())
		},
	}}
}
