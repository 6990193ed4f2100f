package rules

import (
	"context"
	"fmt"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/speakeasy-api/swiftlint/visitor"
)

const RuleNesting = "nesting"

var nestingDescription = linter.Description{
	Identifier: RuleNesting,
	Name:       "Nesting",
	Summary:    "Types should be nested at most 1 level deep, and functions should be nested at most 2 levels deep.",
	Kind:       linter.KindMetrics,
	NonTriggeringExamples: examples(
		"class A {\n    class B {}\n}\n",
		"struct A {\n    enum B {}\n}\n",
		"func f() {\n    func g() {\n        func h() {}\n    }\n}\n",
		"extension A {\n    struct B {}\n}\n",
		"class A {\n    func f() {\n        func g() {}\n    }\n}\n",
	),
	TriggeringExamples: examples(
		"class A {\n    class B {\n        ↓class C {}\n    }\n}\n",
		"struct A {\n    struct B {\n        ↓struct C {}\n    }\n}\n",
		"enum A {\n    enum B {\n        ↓enum C {}\n    }\n}\n",
		"func f() {\n    func g() {\n        func h() {\n            ↓func i() {}\n        }\n    }\n}\n",
		"extension A {\n    struct B {\n        ↓struct C {}\n    }\n}\n",
	),
}

type nestingLevel struct {
	Warning int `yaml:"warning"`
	Error   int `yaml:"error"`
}

type nestingOptions struct {
	TypeLevel     nestingLevel `yaml:"type_level"`
	FunctionLevel nestingLevel `yaml:"function_level"`
}

var defaultNestingOptions = nestingOptions{
	TypeLevel:     nestingLevel{Warning: 1},
	FunctionLevel: nestingLevel{Warning: 2},
}

var (
	nestedTypes = visitor.NewKindSet(
		syntax.KindClassDecl, syntax.KindStructDecl, syntax.KindEnumDecl,
		syntax.KindActorDecl, syntax.KindProtocolDecl, syntax.KindExtensionDecl,
	)
	nestedFunctions = visitor.NewKindSet(
		syntax.KindFunctionDecl, syntax.KindInitializerDecl, syntax.KindDeinitializerDecl,
	)
)

// NestingRule reports type and function declarations nested deeper than the
// configured levels. A declaration's level counts the types and functions
// enclosing it.
type NestingRule struct {
	linter.BaseRule
	opts nestingOptions
}

var _ linter.ConfigurableRule = (*NestingRule)(nil)

func NewNestingRule(cfg linter.RuleConfiguration) (linter.Rule, error) {
	r := &NestingRule{
		BaseRule: linter.BaseRule{Desc: nestingDescription, Config: cfg},
		opts:     defaultNestingOptions,
	}
	if err := linter.DecodeOptions(cfg.Options, &r.opts); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *NestingRule) ConfigSchema() map[string]any {
	level := func(what string) map[string]any {
		return map[string]any{
			"type":        "object",
			"description": "Allowed nesting of " + what,
			"properties": map[string]any{
				"warning": map[string]any{"type": "integer", "minimum": 0},
				"error":   map[string]any{"type": "integer", "minimum": 0},
			},
			"additionalProperties": false,
		}
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type_level":     level("types"),
			"function_level": level("functions"),
		},
		"additionalProperties": false,
	}
}

func (r *NestingRule) ConfigDefaults() map[string]any {
	return map[string]any{
		"type_level":     map[string]any{"warning": defaultNestingOptions.TypeLevel.Warning},
		"function_level": map[string]any{"warning": defaultNestingOptions.FunctionLevel.Warning},
	}
}

func (r *NestingRule) Validate(_ context.Context, file *syntax.File) []violation.Violation {
	c := r.Collector(file)
	var scopes visitor.ScopeStack[syntax.Kind]

	check := func(n *syntax.Node, limits nestingLevel, what string) {
		level := scopes.Len()
		switch {
		case limits.Error > 0 && level > limits.Error:
			c.AddWithSeverity(n.Start(), nestingReason(what, limits.Error), violation.SeverityError)
		case level > limits.Warning:
			c.Add(n.Start(), nestingReason(what, limits.Warning))
		}
	}

	enter := map[syntax.Kind]func(*syntax.Node) visitor.Action{}
	leave := map[syntax.Kind]func(*syntax.Node){}
	pop := func(*syntax.Node) { scopes.Pop() }
	for kind := range nestedTypes {
		enter[kind] = func(n *syntax.Node) visitor.Action {
			check(n, r.opts.TypeLevel, "Types")
			scopes.Push(n.Kind())
			return visitor.Continue
		}
		leave[kind] = pop
	}
	for kind := range nestedFunctions {
		enter[kind] = func(n *syntax.Node) visitor.Action {
			check(n, r.opts.FunctionLevel, "Functions")
			scopes.Push(n.Kind())
			return visitor.Continue
		}
		leave[kind] = pop
	}

	return visitor.Collect(file.Root, &visitor.Funcs{OnEnter: enter, OnLeave: leave}, c)
}

func nestingReason(what string, limit int) string {
	levels := "levels"
	if limit == 1 {
		levels = "level"
	}
	return fmt.Sprintf("%s should be nested at most %d %s deep", what, limit, levels)
}
