package rules

import (
	"context"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/speakeasy-api/swiftlint/visitor"
)

const RuleRedundantOptionalInitialization = "redundant_optional_initialization"

var redundantOptionalInitializationDescription = linter.Description{
	Identifier: RuleRedundantOptionalInitialization,
	Name:       "Redundant Optional Initialization",
	Summary:    "Initializing an optional variable with nil is redundant",
	Kind:       linter.KindIdiomatic,
	NonTriggeringExamples: examples(
		"var myVar: Int?\n",
		"let myVar: Int? = nil\n",
		"var myVar: Int? = 0\n",
		"func foo(bar: Int? = 0) { }\n",
		"var myVar: Optional<Int>\n",
		"let myVar: Optional<Int> = nil\n",
		"lazy var test: Int? = nil\n",
		"protocol P {\n    var x: Int? { get }\n}\n",
	),
	TriggeringExamples: examples(
		"var myVar: Int?↓ = nil\n",
		"var myVar: Optional<Int>↓ = nil\n",
		"var myVar: Int?↓ = nil, other: Int?↓ = nil\n",
		"func funcName() {\n    var myVar: String?↓ = nil\n}\n",
		"var x: Int?↓ = nil {\n    didSet { }\n}\n",
	),
	Corrections: []linter.CorrectionExample{
		{Input: "var myVar: Int?↓ = nil\n", Output: "var myVar: Int?\n"},
		{Input: "var myVar: Optional<Int>↓ = nil\n", Output: "var myVar: Optional<Int>\n"},
		{Input: "var myVar: Int?↓ = nil, other: Int?↓ = nil\n", Output: "var myVar: Int?, other: Int?\n"},
		{Input: "func funcName() {\n    var myVar: String?↓ = nil\n}\n", Output: "func funcName() {\n    var myVar: String?\n}\n"},
		{Input: "var x: Int?↓ = nil // reset\n", Output: "var x: Int? // reset\n"},
	},
}

// RedundantOptionalInitializationRule reports optional variables explicitly
// initialized with nil. Protocol requirements are not inspected.
type RedundantOptionalInitializationRule struct {
	linter.BaseRule
}

var _ linter.CorrectableRule = (*RedundantOptionalInitializationRule)(nil)

func NewRedundantOptionalInitializationRule(cfg linter.RuleConfiguration) (linter.Rule, error) {
	return &RedundantOptionalInitializationRule{BaseRule: linter.BaseRule{Desc: redundantOptionalInitializationDescription, Config: cfg}}, nil
}

var skipProtocols = visitor.NewKindSet(syntax.KindProtocolDecl)

// redundantBinding is one `name: T? = nil` binding of a var declaration.
type redundantBinding struct {
	annotation  *syntax.Node
	initializer *syntax.Node
}

// redundantBindings returns the bindings of a var declaration whose optional
// type annotation is followed by a nil initializer.
func redundantBindings(decl *syntax.Node) []redundantBinding {
	var isVar bool
	for _, c := range decl.Children() {
		if c.Kind() == syntax.KindPattern {
			break
		}
		if c.TokenText() == "lazy" {
			return nil
		}
		if c.IsKeyword("var") {
			isVar = true
		}
	}
	if !isVar {
		return nil
	}

	var out []redundantBinding
	children := decl.Children()
	for i := 0; i+1 < len(children); i++ {
		annotation, initializer := children[i], children[i+1]
		if annotation.Kind() != syntax.KindTypeAnnotation || initializer.Kind() != syntax.KindInitializerClause {
			continue
		}
		if isOptionalType(annotation) && isNilInitializer(initializer) {
			out = append(out, redundantBinding{annotation: annotation, initializer: initializer})
		}
	}
	return out
}

func isOptionalType(annotation *syntax.Node) bool {
	typ := annotation.ChildOfKind(syntax.KindType)
	if typ == nil {
		return false
	}
	toks := typ.Tokens()
	if len(toks) == 0 {
		return false
	}
	if last := toks[len(toks)-1]; last.TokenKind() == syntax.TokenPostfixOperator && last.TokenText() == "?" {
		return true
	}
	return len(toks) > 1 && toks[0].TokenText() == "Optional" && toks[1].TokenText() == "<"
}

func isNilInitializer(initializer *syntax.Node) bool {
	value := initializer.Child(1)
	return value != nil && value.Kind() == syntax.KindLiteralExpr && value.Child(0).IsKeyword("nil")
}

// findRedundantInitializers reports the type annotation of every redundant
// binding. Violations sit at the end of the annotation.
func findRedundantInitializers(report func(*syntax.Node)) visitor.Visitor {
	return &visitor.Funcs{
		OnEnter: hooks{
			syntax.KindVariableDecl: func(n *syntax.Node) visitor.Action {
				for _, b := range redundantBindings(n) {
					report(b.annotation)
				}
				return visitor.Continue
			},
		},
		Skip: skipProtocols,
	}
}

func (r *RedundantOptionalInitializationRule) Validate(_ context.Context, file *syntax.File) []violation.Violation {
	c := r.Collector(file)
	v := findRedundantInitializers(func(annotation *syntax.Node) {
		c.Add(annotation.End(), redundantOptionalInitializationDescription.Summary)
	})
	return visitor.Collect(file.Root, v, c)
}

// Rewriter removes the initializer clause. The annotation keeps the trivia
// that followed the nil literal.
func (r *RedundantOptionalInitializationRule) Rewriter(cc *visitor.CorrectionContext) visitor.Rewriter {
	return visitor.Rewriter{
		Rewrite: rewrites{
			syntax.KindVariableDecl: func(n *syntax.Node) *syntax.Node {
				bindings := redundantBindings(n)
				if len(bindings) == 0 {
					return n
				}
				drop := map[*syntax.Node]*syntax.Node{}
				for _, b := range bindings {
					if cc.ShouldCorrectAt(b.annotation.End()) {
						cc.RecordAt(b.annotation.End())
						drop[b.initializer] = b.annotation
					}
				}
				if len(drop) == 0 {
					return n
				}

				children := make([]*syntax.Node, 0, n.NumChildren())
				for _, c := range n.Children() {
					if annotation, ok := drop[c]; ok {
						children[len(children)-1] = annotation.WithTrailingTrivia(c.TrailingTrivia())
						continue
					}
					children = append(children, c)
				}
				return n.WithChildren(children...)
			},
		},
		Skip: skipProtocols,
	}
}
