package rules

import (
	"context"

	"github.com/speakeasy-api/swiftlint/internal/version"
	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/speakeasy-api/swiftlint/visitor"
)

const RuleAnyObjectProtocol = "anyobject_protocol"

var anyObjectProtocolDescription = linter.Description{
	Identifier:  RuleAnyObjectProtocol,
	Name:        "AnyObject Protocol",
	Summary:     "Prefer using `AnyObject` over `class` for class-only protocols",
	Description: "The `class` constraint on a protocol inheritance clause is spelled `AnyObject` since Swift 4.1.",
	Kind:        linter.KindLint,
	MinVersion:  version.New(4, 1, 0),
	NonTriggeringExamples: examples(
		"protocol SomeProtocol {}",
		"protocol SomeClassOnlyProtocol: AnyObject {}",
		"protocol SomeClassOnlyProtocol: AnyObject, SomeInheritedProtocol {}",
		"@objc protocol SomeClassOnlyProtocol: AnyObject, SomeInheritedProtocol {}",
		"class SomeClass: SomeProtocol {}",
	),
	TriggeringExamples: examples(
		"protocol SomeClassOnlyProtocol: ↓class {}",
		"protocol SomeClassOnlyProtocol: ↓class, SomeInheritedProtocol {}",
		"@objc protocol SomeClassOnlyProtocol: ↓class, SomeInheritedProtocol {}",
	),
	Corrections: []linter.CorrectionExample{
		{Input: "protocol SomeClassOnlyProtocol: ↓class {}", Output: "protocol SomeClassOnlyProtocol: AnyObject {}"},
		{
			Input:  "protocol SomeClassOnlyProtocol: ↓class, SomeInheritedProtocol {}",
			Output: "protocol SomeClassOnlyProtocol: AnyObject, SomeInheritedProtocol {}",
		},
		{
			Input:  "@objc protocol SomeClassOnlyProtocol: ↓class, SomeInheritedProtocol {}",
			Output: "@objc protocol SomeClassOnlyProtocol: AnyObject, SomeInheritedProtocol {}",
		},
	},
}

// AnyObjectProtocolRule reports the class constraint in protocol inheritance
// clauses.
type AnyObjectProtocolRule struct {
	linter.BaseRule
}

var _ linter.CorrectableRule = (*AnyObjectProtocolRule)(nil)

func NewAnyObjectProtocolRule(cfg linter.RuleConfiguration) (linter.Rule, error) {
	return &AnyObjectProtocolRule{BaseRule: linter.BaseRule{Desc: anyObjectProtocolDescription, Config: cfg}}, nil
}

// findClassConstraints reports the class keyword of every inherited type
// spelled exactly `class` in a protocol declaration.
func findClassConstraints(report func(*syntax.Node)) visitor.Visitor {
	return &visitor.Funcs{OnEnter: hooks{
		syntax.KindProtocolDecl: func(n *syntax.Node) visitor.Action {
			clause := n.ChildOfKind(syntax.KindInheritanceClause)
			if clause == nil {
				return visitor.Continue
			}
			for _, inherited := range clause.Children() {
				if inherited.Kind() != syntax.KindInheritedType {
					continue
				}
				if toks := inherited.Tokens(); len(toks) == 1 && toks[0].IsKeyword("class") {
					report(toks[0])
				}
			}
			return visitor.Continue
		},
	}}
}

func (r *AnyObjectProtocolRule) Validate(_ context.Context, file *syntax.File) []violation.Violation {
	c := r.Collector(file)
	v := findClassConstraints(func(n *syntax.Node) {
		c.Add(n.Start(), anyObjectProtocolDescription.Summary)
	})
	return visitor.Collect(file.Root, v, c)
}

func (r *AnyObjectProtocolRule) Rewriter(cc *visitor.CorrectionContext) visitor.Rewriter {
	constraints := targets(cc.File.Root, findClassConstraints)
	return visitor.Rewriter{Rewrite: rewrites{
		syntax.KindToken: func(tok *syntax.Node) *syntax.Node {
			if !tok.IsKeyword("class") || !constraints[tok.Start()] || !cc.ShouldCorrect(tok) {
				return tok
			}
			cc.Record(tok)
			return tok.WithTokenKind(syntax.TokenIdentifier, "AnyObject")
		},
	}}
}
