package format

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/speakeasy-api/swiftlint/violation"
)

// TextFormatter prints one violation per line in the
// path:line:column: severity: reason (rule) layout editors understand.
type TextFormatter struct {
	errorColor   *color.Color
	warningColor *color.Color
	ruleColor    *color.Color
}

// NewTextFormatter returns a formatter without colors.
func NewTextFormatter() *TextFormatter {
	return NewColorTextFormatter(false)
}

// NewColorTextFormatter returns a formatter that colors severities and rule
// identifiers when enabled is set.
func NewColorTextFormatter(enabled bool) *TextFormatter {
	f := &TextFormatter{
		errorColor:   color.New(color.FgRed, color.Bold),
		warningColor: color.New(color.FgYellow),
		ruleColor:    color.New(color.Faint),
	}
	for _, c := range []*color.Color{f.errorColor, f.warningColor, f.ruleColor} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

func (f *TextFormatter) Format(results []violation.Violation) (string, error) {
	var sb strings.Builder

	for _, v := range results {
		severity := f.warningColor.Sprint(v.Severity.String())
		if v.Severity == violation.SeverityError {
			severity = f.errorColor.Sprint(v.Severity.String())
		}

		correctable := ""
		if v.Correction != nil {
			correctable = " [correctable]"
		}

		path := v.Path
		if path == "" {
			path = "<stdin>"
		}
		fmt.Fprintf(&sb, "%s:%d:%d: %s: %s %s%s\n",
			path, v.Location.Line, v.Location.Column, severity, v.Reason,
			f.ruleColor.Sprintf("(%s)", v.RuleID), correctable)
	}

	if len(results) > 0 {
		errs, warnings := counts(results)
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "✖ %d problems (%d errors, %d warnings)\n", len(results), errs, warnings)
	}

	return sb.String(), nil
}
