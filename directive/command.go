// Package directive parses swiftlint:disable and swiftlint:enable comment
// commands and turns them into per-rule disabled byte ranges.
package directive

import (
	"slices"
	"strings"
	"unicode"

	"github.com/speakeasy-api/swiftlint/syntax"
)

// AllRules is the rule identifier that matches every rule.
const AllRules = "all"

const marker = "swiftlint:"

// Action is what a command does to the rules it names.
type Action uint8

const (
	ActionDisable Action = iota
	ActionEnable
)

// String returns the action as spelled in a command.
func (a Action) String() string {
	if a == ActionEnable {
		return "enable"
	}
	return "disable"
}

// Modifier narrows a command to a single line.
type Modifier uint8

const (
	ModifierNone Modifier = iota
	ModifierNext
	ModifierPrevious
	ModifierThis
)

// String returns the modifier as spelled after the action, or "" for none.
func (m Modifier) String() string {
	switch m {
	case ModifierNext:
		return "next"
	case ModifierPrevious:
		return "previous"
	case ModifierThis:
		return "this"
	default:
		return ""
	}
}

// Validity records why a command was rejected. Rejected commands never
// produce a region.
type Validity uint8

const (
	Valid Validity = iota
	InvalidAction
	InvalidModifier
	EmptyRuleList
	MissingLeader
)

// String returns a kebab-case name for logs.
func (v Validity) String() string {
	switch v {
	case InvalidAction:
		return "invalid-action"
	case InvalidModifier:
		return "invalid-modifier"
	case EmptyRuleList:
		return "empty-rule-list"
	case MissingLeader:
		return "missing-leader"
	default:
		return "valid"
	}
}

// Command is one parsed directive comment.
type Command struct {
	Action   Action
	Modifier Modifier
	// RuleIDs holds each identifier once in source order; AllRules stands
	// for every rule and is implied by a bare command without identifiers.
	RuleIDs []string
	// Trailing is the explanation after " - ".
	Trailing string
	Validity Validity
	// LeaderMissing is set when other text precedes the marker in the
	// comment, whatever else is wrong with the command.
	LeaderMissing bool

	// Offset and End delimit the comment in the source.
	Offset    int
	End       int
	Line      int
	Character int
}

// IsValid reports whether the command produces a region.
func (c Command) IsValid() bool { return c.Validity == Valid }

// AppliesTo reports whether the command names id or all rules.
func (c Command) AppliesTo(id string) bool {
	return slices.Contains(c.RuleIDs, id) || slices.Contains(c.RuleIDs, AllRules)
}

// String renders the command in canonical form, without the leader.
func (c Command) String() string {
	var sb strings.Builder
	sb.WriteString(marker)
	sb.WriteString(c.Action.String())
	if c.Modifier != ModifierNone {
		sb.WriteByte(':')
		sb.WriteString(c.Modifier.String())
	}
	for _, id := range c.RuleIDs {
		sb.WriteByte(' ')
		sb.WriteString(id)
	}
	return sb.String()
}

// ParseComment parses the text of one comment piece. It reports false when
// the comment holds no command at all.
func ParseComment(text string, kind syntax.TriviaKind) (Command, bool) {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return Command{}, false
	}
	var cmd Command
	var problems []Validity

	if leader := strings.TrimLeft(text[:idx], "/*"); strings.TrimSpace(leader) != "" {
		problems = append(problems, MissingLeader)
		cmd.LeaderMissing = true
	}

	body := text[idx+len(marker):]
	if kind == syntax.TriviaBlockComment || kind == syntax.TriviaDocBlockComment {
		body = strings.TrimSuffix(strings.TrimRightFunc(body, unicode.IsSpace), "*/")
	}
	if i := strings.Index(body, " - "); i >= 0 {
		cmd.Trailing = strings.TrimSpace(body[i+3:])
		body = body[:i]
	}

	fields := strings.Fields(body)
	head := ""
	if len(fields) > 0 && len(body) > 0 && !unicode.IsSpace(rune(body[0])) {
		head = fields[0]
		fields = fields[1:]
	}
	parts := strings.Split(head, ":")

	switch parts[0] {
	case "disable":
		cmd.Action = ActionDisable
	case "enable":
		cmd.Action = ActionEnable
	default:
		problems = append([]Validity{InvalidAction}, problems...)
	}

	switch {
	case len(parts) == 1:
	case len(parts) == 2 && parts[1] == "next":
		cmd.Modifier = ModifierNext
	case len(parts) == 2 && parts[1] == "previous":
		cmd.Modifier = ModifierPrevious
	case len(parts) == 2 && parts[1] == "this":
		cmd.Modifier = ModifierThis
	default:
		problems = append(problems, InvalidModifier)
	}

	for _, id := range fields {
		if !slices.Contains(cmd.RuleIDs, id) {
			cmd.RuleIDs = append(cmd.RuleIDs, id)
		}
	}
	if len(cmd.RuleIDs) == 0 {
		if len(parts) > 1 {
			problems = append(problems, EmptyRuleList)
		} else {
			cmd.RuleIDs = []string{AllRules}
		}
	}

	cmd.Validity = firstProblem(problems)
	return cmd, true
}

// firstProblem ranks problems so a bad action wins over a bad modifier, and
// both over an empty list or a missing leader.
func firstProblem(problems []Validity) Validity {
	best := Valid
	for _, p := range problems {
		if best == Valid || p < best {
			best = p
		}
	}
	return best
}

// Parse collects every command found in the comments of file.
func Parse(file *syntax.File) []Command {
	var out []Command
	if file == nil || file.Root == nil {
		return out
	}
	visit := func(offset int, piece syntax.TriviaPiece) {
		if !piece.Kind.IsComment() || !strings.Contains(piece.Text, marker) {
			return
		}
		cmd, ok := ParseComment(piece.Text, piece.Kind)
		if !ok {
			return
		}
		loc := file.Location(offset)
		cmd.Offset = offset
		cmd.End = offset + len(piece.Text)
		cmd.Line = loc.Line
		cmd.Character = loc.Column
		out = append(out, cmd)
	}
	for _, tok := range file.Root.Tokens() {
		tok.LeadingTrivia().PieceOffsets(tok.FullStart(), visit)
		tok.TrailingTrivia().PieceOffsets(tok.End(), visit)
	}
	return out
}
