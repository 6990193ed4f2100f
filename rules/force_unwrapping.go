package rules

import (
	"context"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/speakeasy-api/swiftlint/visitor"
)

const RuleForceUnwrapping = "force_unwrapping"

var forceUnwrappingDescription = linter.Description{
	Identifier:        RuleForceUnwrapping,
	Name:              "Force Unwrapping",
	Summary:           "Force unwrapping should be avoided",
	Kind:              linter.KindIdiomatic,
	OptIn:             true,
	DeprecatedAliases: []string{"force_unwrap"},
	NonTriggeringExamples: examples(
		"if let url = NSURL(string: query) {}\n",
		"navigationController?.pushViewController(myViewController, animated: true)\n",
		"let result = try! canThrowErrors()\n",
		"let x = a as! B\n",
		"if a != b {}\n",
		"if !flag {}\n",
		"var label: UILabel!\n",
	),
	TriggeringExamples: examples(
		"let url = NSURL(string: query)↓!\n",
		"navigationController↓!.pushViewController(myViewController, animated: true)\n",
		"let unwrapped = optional↓!\n",
		"return cell↓!\n",
		"let a = dict[\"a\"]↓!\n",
		"let b = a↓!.b↓!.c\n",
	),
}

// ForceUnwrappingRule reports every postfix `!` applied to an expression.
type ForceUnwrappingRule struct {
	linter.BaseRule
}

func NewForceUnwrappingRule(cfg linter.RuleConfiguration) (linter.Rule, error) {
	return &ForceUnwrappingRule{BaseRule: linter.BaseRule{Desc: forceUnwrappingDescription, Config: cfg}}, nil
}

func (r *ForceUnwrappingRule) Validate(_ context.Context, file *syntax.File) []violation.Violation {
	c := r.Collector(file)
	v := &visitor.Funcs{OnEnter: hooks{
		syntax.KindForceUnwrapExpr: func(n *syntax.Node) visitor.Action {
			if bang := n.ChildToken(syntax.TokenPostfixOperator); bang != nil {
				c.Add(bang.Start(), forceUnwrappingDescription.Summary)
			}
			return visitor.Continue
		},
	}}
	return visitor.Collect(file.Root, v, c)
}
