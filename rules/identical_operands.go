package rules

import (
	"context"
	"slices"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/speakeasy-api/swiftlint/visitor"
)

const RuleIdenticalOperands = "identical_operands"

var identicalOperandsDescription = linter.Description{
	Identifier: RuleIdenticalOperands,
	Name:       "Identical Operands",
	Summary:    "Comparing two identical operands is likely a mistake",
	Kind:       linter.KindLint,
	OptIn:      true,
	NonTriggeringExamples: examples(
		"1 == 2\n",
		"foo == bar\n",
		"foo.aProperty == foo.anotherProperty\n",
		"1 + 1 == 2\n",
		"let a = b == c\n",
		"foo + foo\n",
		"x == y || x == y2\n",
	),
	TriggeringExamples: examples(
		"↓foo == foo\n",
		"↓foo.aProperty == foo.aProperty\n",
		"↓self.foo != self.foo\n",
		"↓1 + 1 == 1 + 1\n",
		"let a = ↓b === b\n",
		"if ↓x >= x {}\n",
		"XCTAssertTrue(↓s3 == s3)\n",
		"↓a == a && ↓b != b\n",
		"↓foo  ==  foo\n",
	),
}

var comparisonOperators = []string{"==", "!=", "===", "!==", ">", ">=", "<", "<="}

// IdenticalOperandsRule reports comparisons whose operands are token for
// token the same. Operator sequences are folded first so each comparison is
// seen with its complete operands.
type IdenticalOperandsRule struct {
	linter.BaseRule
}

func NewIdenticalOperandsRule(cfg linter.RuleConfiguration) (linter.Rule, error) {
	return &IdenticalOperandsRule{BaseRule: linter.BaseRule{Desc: identicalOperandsDescription, Config: cfg}}, nil
}

func (r *IdenticalOperandsRule) Validate(_ context.Context, file *syntax.File) []violation.Violation {
	c := r.Collector(file)
	v := &visitor.Funcs{OnEnter: hooks{
		syntax.KindInfixOperatorExpr: func(n *syntax.Node) visitor.Action {
			lhs, op, rhs := n.Child(0), n.Child(1), n.Child(2)
			if lhs == nil || op == nil || rhs == nil || op.Kind() != syntax.KindBinaryOperator {
				return visitor.Continue
			}
			if !slices.Contains(comparisonOperators, op.FirstToken().TokenText()) {
				return visitor.Continue
			}
			if slices.Equal(lhs.TokenTexts(), rhs.TokenTexts()) {
				c.Add(lhs.Start(), identicalOperandsDescription.Summary)
			}
			return visitor.Continue
		},
	}}
	return visitor.CollectFolded(file.Root, v, c)
}
