package rules

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/speakeasy-api/swiftlint/visitor"
)

const RuleLineLength = "line_length"

var lineLengthDescription = linter.Description{
	Identifier: RuleLineLength,
	Name:       "Line Length",
	Summary:    "Lines should not span too many characters",
	Description: "Line length is measured in grapheme clusters, so a combined emoji " +
		"or an accented letter counts as one character.",
	Kind: linter.KindMetrics,
	NonTriggeringExamples: examples(
		strings.Repeat("/", 120)+"\n",
		"let s = \""+strings.Repeat("a", 110)+"\"\n",
		strings.Repeat("👨‍👩‍👧", 120)+"\n",
	),
	TriggeringExamples: examples(
		"↓"+strings.Repeat("/", 121)+"\n",
		"let a = 1\n↓let s = \""+strings.Repeat("a", 120)+"\"\n",
		"↓"+strings.Repeat("👨‍👩‍👧", 121)+"\n",
	),
}

type lineLengthOptions struct {
	Warning                     int  `yaml:"warning"`
	Error                       int  `yaml:"error"`
	IgnoresURLs                 bool `yaml:"ignores_urls"`
	IgnoresFunctionDeclarations bool `yaml:"ignores_function_declarations"`
	IgnoresComments             bool `yaml:"ignores_comments"`
}

var defaultLineLengthOptions = lineLengthOptions{Warning: 120, Error: 200}

var urlPattern = regexp.MustCompile(`(?i)\b[a-z][a-z0-9+.-]*://[^\s"')\]]+`)

// LineLengthRule reports lines longer than the warning and error limits.
// Both limits report explicit severities; an error supersedes the warning of
// the same line.
type LineLengthRule struct {
	linter.BaseRule
	opts lineLengthOptions
}

var _ linter.ConfigurableRule = (*LineLengthRule)(nil)

func NewLineLengthRule(cfg linter.RuleConfiguration) (linter.Rule, error) {
	r := &LineLengthRule{
		BaseRule: linter.BaseRule{Desc: lineLengthDescription, Config: cfg},
		opts:     defaultLineLengthOptions,
	}
	if err := linter.DecodeOptions(cfg.Options, &r.opts); err != nil {
		return nil, err
	}
	if r.opts.Error < r.opts.Warning {
		return nil, linter.ErrInvalidOptions.Wrapf("%s: error limit %d is below warning limit %d", RuleLineLength, r.opts.Error, r.opts.Warning)
	}
	return r, nil
}

func (r *LineLengthRule) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"warning":                       map[string]any{"type": "integer", "minimum": 1, "description": "Length above which a warning is reported"},
			"error":                         map[string]any{"type": "integer", "minimum": 1, "description": "Length above which an error is reported"},
			"ignores_urls":                  map[string]any{"type": "boolean", "description": "Do not count URLs"},
			"ignores_function_declarations": map[string]any{"type": "boolean", "description": "Skip lines of function signatures"},
			"ignores_comments":              map[string]any{"type": "boolean", "description": "Skip lines holding only comments"},
		},
		"additionalProperties": false,
	}
}

func (r *LineLengthRule) ConfigDefaults() map[string]any {
	return map[string]any{
		"warning":                       defaultLineLengthOptions.Warning,
		"error":                         defaultLineLengthOptions.Error,
		"ignores_urls":                  false,
		"ignores_function_declarations": false,
		"ignores_comments":              false,
	}
}

func (r *LineLengthRule) Validate(_ context.Context, file *syntax.File) []violation.Violation {
	c := r.Collector(file)
	conv := file.Converter()

	var code, signature map[int]bool
	if r.opts.IgnoresComments {
		code = codeLines(file)
	}
	if r.opts.IgnoresFunctionDeclarations {
		signature = signatureLines(file)
	}

	for i, text := range file.Lines() {
		line := i + 1
		if signature[line] {
			continue
		}
		if code != nil && !code[line] && strings.TrimSpace(text) != "" {
			continue
		}
		if r.opts.IgnoresURLs {
			text = urlPattern.ReplaceAllString(text, "")
		}

		length := uniseg.GraphemeClusterCount(text)
		pos := conv.LineStart(line)
		if length > r.opts.Warning {
			c.AddWithSeverity(pos, lineLengthReason(r.opts.Warning, length), violation.SeverityWarning)
		}
		if length > r.opts.Error {
			c.AddWithSeverity(pos, lineLengthReason(r.opts.Error, length), violation.SeverityError)
		}
	}
	return c.Violations()
}

func lineLengthReason(limit, length int) string {
	return fmt.Sprintf("Line should be %d characters or less; currently it has %d characters", limit, length)
}

// codeLines marks every line touched by a token.
func codeLines(file *syntax.File) map[int]bool {
	conv := file.Converter()
	lines := map[int]bool{}
	for _, tok := range file.Root.Tokens() {
		if tok.TokenKind() == syntax.TokenEOF || tok.Start() < 0 {
			continue
		}
		last := conv.Line(max(tok.Start(), tok.End()-1))
		for line := conv.Line(tok.Start()); line <= last; line++ {
			lines[line] = true
		}
	}
	return lines
}

// signatureLines marks the lines from the start of each function-like
// declaration to the opening brace of its body.
func signatureLines(file *syntax.File) map[int]bool {
	conv := file.Converter()
	lines := map[int]bool{}
	mark := func(n *syntax.Node) visitor.Action {
		end := n.End() - 1
		if body := n.ChildOfKind(syntax.KindCodeBlock); body != nil {
			end = body.Start()
		}
		for line := conv.Line(n.Start()); line <= conv.Line(end); line++ {
			lines[line] = true
		}
		return visitor.Continue
	}
	visitor.Walk(file.Root, &visitor.Funcs{OnEnter: hooks{
		syntax.KindFunctionDecl:    mark,
		syntax.KindInitializerDecl: mark,
		syntax.KindSubscriptDecl:   mark,
	}})
	return lines
}
