package linter

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/speakeasy-api/swiftlint/linter/format"
	"github.com/speakeasy-api/swiftlint/violation"
)

// RuleFailure reports a rule that could not complete on a file. It is a
// diagnostic about the linter, not a finding about the code.
type RuleFailure struct {
	RuleID string
	Path   string
	Err    error
}

func (f RuleFailure) Error() string {
	return fmt.Sprintf("rule %s failed on %s: %v", f.RuleID, f.Path, f.Err)
}

func (f RuleFailure) Unwrap() error { return f.Err }

// RuleTiming is the wall time one rule spent on one file.
type RuleTiming struct {
	RuleID   string
	Duration time.Duration
}

// Output represents the result of linting
type Output struct {
	Path       string
	Violations []violation.Violation
	Failures   []RuleFailure
	Timings    map[string]time.Duration
	Cached     bool
	Format     OutputFormat
}

func (o *Output) HasErrors() bool {
	return o.ErrorCount() > 0
}

func (o *Output) ErrorCount() int {
	_, errs := violation.CountBySeverity(o.Violations)
	return errs
}

func (o *Output) WarningCount() int {
	warnings, _ := violation.CountBySeverity(o.Violations)
	return warnings
}

// SortedTimings lists rule timings slowest first.
func (o *Output) SortedTimings() []RuleTiming {
	out := make([]RuleTiming, 0, len(o.Timings))
	for id, d := range o.Timings {
		out = append(out, RuleTiming{RuleID: id, Duration: d})
	}
	slices.SortFunc(out, func(a, b RuleTiming) int {
		if c := cmp.Compare(b.Duration, a.Duration); c != 0 {
			return c
		}
		return cmp.Compare(a.RuleID, b.RuleID)
	})
	return out
}

func (o *Output) FormatText() string {
	f := format.NewTextFormatter()
	s, _ := f.Format(o.Violations)
	return s
}

func (o *Output) FormatJSON() string {
	f := format.NewJSONFormatter()
	s, _ := f.Format(o.Violations)
	return s
}

// Formatter returns the formatter for an output format, text when unknown.
func Formatter(f OutputFormat, color bool) format.Formatter {
	switch f {
	case OutputFormatJSON:
		return format.NewJSONFormatter()
	case OutputFormatSummary:
		return format.NewSummaryFormatter()
	default:
		return format.NewColorTextFormatter(color)
	}
}
