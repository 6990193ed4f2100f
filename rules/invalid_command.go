package rules

import (
	"context"

	"github.com/speakeasy-api/swiftlint/directive"
	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
)

const RuleInvalidCommand = "invalid_swiftlint_command"

var invalidCommandDescription = linter.Description{
	Identifier: RuleInvalidCommand,
	Name:       "Invalid SwiftLint Command",
	Summary:    "swiftlint:enable and swiftlint:disable commands should be valid",
	Kind:       linter.KindLint,
	NonTriggeringExamples: examples(
		"// swiftlint:disable unused_import\n",
		"// swiftlint:enable unused_import\n",
		"// swiftlint:disable:next unused_import\n",
		"// swiftlint:disable:previous unused_import\n",
		"// swiftlint:disable:this unused_import\n",
		"// swiftlint:disable all - generated code\n",
		"// see swiftlint: the docs\n",
		"// the swiftlint:nope syntax is not a command\n",
	),
	TriggeringExamples: examples(
		"↓// swiftlint:\n",
		"↓// swiftlint: \n",
		"↓// swiftlint::\n",
		"↓// swiftlint:disable:\n",
		"↓// swiftlint:dissable unused_import\n",
		"↓// swiftlint:enaaaable unused_import\n",
		"↓// swiftlint:disable:nxt unused_import\n",
		"↓// swiftlint:enable:prevus unused_import\n",
		"↓// swiftlint:enable:ths unused_import\n",
		"↓// swiftlint:disable:next\n",
		"let a = 1 ↓/* swiftlint:disabl all */\n",
		"↓// TODO: swiftlint:disable todo\n",
	),
}

// InvalidCommandRule reports directive comments that were rejected and
// therefore disable nothing. A well formed command preceded by other text is
// reported as misplaced; text before a malformed one marks prose that only
// mentions the marker.
type InvalidCommandRule struct {
	linter.BaseRule
}

func NewInvalidCommandRule(cfg linter.RuleConfiguration) (linter.Rule, error) {
	return &InvalidCommandRule{BaseRule: linter.BaseRule{Desc: invalidCommandDescription, Config: cfg}}, nil
}

func (r *InvalidCommandRule) Validate(_ context.Context, file *syntax.File) []violation.Violation {
	c := r.Collector(file)
	for _, cmd := range directive.Parse(file) {
		if cmd.IsValid() || (cmd.LeaderMissing && cmd.Validity != directive.MissingLeader) {
			continue
		}
		c.Add(cmd.Offset, invalidCommandReason(cmd.Validity))
	}
	return c.Violations()
}

func invalidCommandReason(v directive.Validity) string {
	switch v {
	case directive.InvalidAction:
		return "Expected 'enable' or 'disable' after 'swiftlint:'"
	case directive.InvalidModifier:
		return "Expected 'next', 'previous' or 'this' as the command modifier"
	case directive.EmptyRuleList:
		return "Expected at least one rule identifier after the modifier"
	case directive.MissingLeader:
		return "Expected the command to directly follow the comment leader"
	default:
		return invalidCommandDescription.Summary
	}
}
