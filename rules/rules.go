// Package rules holds the bundled lint rules. Each rule is built by a
// linter.Factory and registered with RegisterAll.
package rules

import (
	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/visitor"
)

// Factories returns the constructor of every bundled rule.
func Factories() []linter.Factory {
	return []linter.Factory{
		NewAnyObjectProtocolRule,
		NewForceUnwrappingRule,
		NewIdenticalOperandsRule,
		NewInvalidCommandRule,
		NewLineLengthRule,
		NewNestingRule,
		NewRedundantOptionalInitializationRule,
		NewTodoRule,
		NewTrailingSemicolonRule,
		NewTrailingWhitespaceRule,
		NewUnusedControlFlowLabelRule,
	}
}

// RegisterAll registers every bundled rule with r.
func RegisterAll(r *linter.Registry) error {
	for _, factory := range Factories() {
		if err := r.Register(factory); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a fresh registry holding the bundled rules.
func NewRegistry() *linter.Registry {
	r := linter.NewRegistry()
	r.MustRegister(Factories()...)
	return r
}

func examples(codes ...string) []linter.Example {
	out := make([]linter.Example, 0, len(codes))
	for _, code := range codes {
		out = append(out, linter.Example{Code: code})
	}
	return out
}

// finder builds a visitor that reports the nodes a rule flags. Validate
// collects its reports as violations; rewriters use targets.
type finder func(report func(*syntax.Node)) visitor.Visitor

// targets walks root with find and returns the start offsets it reported.
func targets(root *syntax.Node, find finder) map[int]bool {
	out := map[int]bool{}
	visitor.Walk(root, find(func(n *syntax.Node) { out[n.Start()] = true }))
	return out
}

type hooks = map[syntax.Kind]func(*syntax.Node) visitor.Action

type rewrites = map[syntax.Kind]func(*syntax.Node) *syntax.Node
