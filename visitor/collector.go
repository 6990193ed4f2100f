package visitor

import (
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
)

// Collector accumulates the violations of one rule over one walk.
type Collector struct {
	ruleID string
	file   *syntax.File
	out    []violation.Violation
}

func NewCollector(ruleID string, file *syntax.File) *Collector {
	return &Collector{ruleID: ruleID, file: file}
}

// Add records a warning at pos. The linter replaces the severity with the
// configured one.
func (c *Collector) Add(pos int, reason string) {
	c.out = append(c.out, c.build(pos, reason, violation.SeverityWarning, false))
}

// AddWithSeverity records a violation whose severity survives configuration
// overrides.
func (c *Collector) AddWithSeverity(pos int, reason string, severity violation.Severity) {
	c.out = append(c.out, c.build(pos, reason, severity, true))
}

// AddCorrectable records a warning that carries the edit fixing it.
func (c *Collector) AddCorrectable(pos int, reason string, edit violation.Edit) {
	v := c.build(pos, reason, violation.SeverityWarning, false)
	v.Correction = &edit
	c.out = append(c.out, v)
}

func (c *Collector) build(pos int, reason string, severity violation.Severity, explicit bool) violation.Violation {
	v := violation.Violation{
		RuleID:           c.ruleID,
		Position:         pos,
		Reason:           reason,
		Severity:         severity,
		SeverityExplicit: explicit,
	}
	if c.file != nil {
		v.Path = c.file.Path
		v.Location = c.file.Location(pos)
	}
	return v
}

func (c *Collector) Len() int { return len(c.out) }

// Violations returns what c gathered so far, for rules that scan lines or
// trivia instead of walking the tree.
func (c *Collector) Violations() []violation.Violation { return c.out }

// Collect walks root with v and then returns what c gathered.
func Collect(root *syntax.Node, v Visitor, c *Collector) []violation.Violation {
	Walk(root, v)
	return c.out
}

// CollectFolded is Collect over the folded tree.
func CollectFolded(root *syntax.Node, v Visitor, c *Collector) []violation.Violation {
	WalkFolded(root, v)
	return c.out
}
