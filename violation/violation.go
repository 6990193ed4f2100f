// Package violation holds the diagnostics rules report and the helpers that
// order and deduplicate them.
package violation

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/speakeasy-api/swiftlint/syntax"
)

// Edit replaces the bytes in [Start, End) with Replacement.
type Edit struct {
	Start       int    `json:"start" yaml:"start" msgpack:"start"`
	End         int    `json:"end" yaml:"end" msgpack:"end"`
	Replacement string `json:"replacement" yaml:"replacement" msgpack:"replacement"`
}

// Violation is a single rule finding.
type Violation struct {
	RuleID   string          `json:"rule_id" yaml:"rule_id" msgpack:"rule_id"`
	Path     string          `json:"path,omitempty" yaml:"path,omitempty" msgpack:"path"`
	Position int             `json:"position" yaml:"position" msgpack:"position"`
	Location syntax.Location `json:"location" yaml:"location" msgpack:"location"`
	Reason   string          `json:"reason" yaml:"reason" msgpack:"reason"`
	Severity Severity        `json:"severity" yaml:"severity" msgpack:"severity"`
	// SeverityExplicit keeps Severity when a configured override is applied.
	SeverityExplicit bool  `json:"-" yaml:"-" msgpack:"severity_explicit"`
	Correction       *Edit `json:"correction,omitempty" yaml:"correction,omitempty" msgpack:"correction,omitempty"`
}

// Error formats the violation as [line:col] severity rule reason.
func (v Violation) Error() string {
	return fmt.Sprintf("[%d:%d] %s %s %s", v.Location.Line, v.Location.Column, v.Severity, v.RuleID, v.Reason)
}

// Correction records one applied fix at its position before the edit.
type Correction struct {
	RuleID   string          `json:"rule_id" yaml:"rule_id"`
	Position int             `json:"position" yaml:"position"`
	Location syntax.Location `json:"location" yaml:"location"`
}

// Compare orders by position, rule id, severity and reason.
func Compare(a, b Violation) int {
	if c := cmp.Compare(a.Position, b.Position); c != 0 {
		return c
	}
	if c := cmp.Compare(a.RuleID, b.RuleID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Severity, b.Severity); c != 0 {
		return c
	}
	return cmp.Compare(a.Reason, b.Reason)
}

// Sort orders violations in place. Equal elements keep their relative order.
func Sort(vs []Violation) {
	slices.SortStableFunc(vs, Compare)
}

// Supersede drops exact duplicates and, for a rule that reported both a
// warning and an error at one position, the warning. The result is sorted.
func Supersede(vs []Violation) []Violation {
	if len(vs) == 0 {
		return vs
	}
	type key struct {
		rule string
		pos  int
	}
	worst := make(map[key]Severity, len(vs))
	for _, v := range vs {
		k := key{v.RuleID, v.Position}
		if s, ok := worst[k]; !ok || v.Severity > s {
			worst[k] = v.Severity
		}
	}

	sorted := slices.Clone(vs)
	Sort(sorted)
	out := sorted[:0]
	for _, v := range sorted {
		if v.Severity < worst[key{v.RuleID, v.Position}] {
			continue
		}
		if n := len(out); n > 0 && sameFinding(out[n-1], v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func sameFinding(a, b Violation) bool {
	return a.RuleID == b.RuleID && a.Position == b.Position && a.Severity == b.Severity && a.Reason == b.Reason
}

// CountBySeverity returns the number of warnings and errors.
func CountBySeverity(vs []Violation) (warnings, errors int) {
	for _, v := range vs {
		if v.Severity == SeverityError {
			errors++
		} else {
			warnings++
		}
	}
	return warnings, errors
}
