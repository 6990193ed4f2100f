package visitor

import (
	"slices"

	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
)

// Rewriter maps node kinds to replacement functions. A function returns its
// argument to keep the node, a new node to replace it, or nil to delete it.
// KindToken entries receive tokens.
type Rewriter struct {
	Rewrite map[syntax.Kind]func(*syntax.Node) *syntax.Node
	Skip    KindSet
}

// ApplyRewriter rewrites root bottom-up. Only the ancestors of edited nodes
// are rebuilt; untouched subtrees are shared with root.
func ApplyRewriter(root *syntax.Node, r Rewriter) *syntax.Node {
	if root == nil {
		return nil
	}
	return r.apply(root)
}

func (r Rewriter) apply(n *syntax.Node) *syntax.Node {
	if r.Skip.Has(n.Kind()) {
		return n
	}
	out := n
	if !n.IsToken() {
		var children []*syntax.Node
		for i, c := range n.Children() {
			nc := r.apply(c)
			if nc != c && children == nil {
				children = make([]*syntax.Node, 0, n.NumChildren())
				children = append(children, n.Children()[:i]...)
			}
			if children != nil && nc != nil {
				children = append(children, nc)
			}
		}
		if children != nil {
			out = n.WithChildren(children...)
		}
	}
	if fn, ok := r.Rewrite[n.Kind()]; ok {
		return fn(out)
	}
	return out
}

// CorrectionContext is handed to a correctable rule for one rewrite of one
// file. It refuses edits inside the rule's disabled regions and records the
// position of every edit made.
type CorrectionContext struct {
	RuleID string
	File   *syntax.File

	disabled   func(offset int) bool
	positions  []int
	suppressed int
}

// NewCorrectionContext builds a context. disabled may be nil.
func NewCorrectionContext(ruleID string, file *syntax.File, disabled func(offset int) bool) *CorrectionContext {
	return &CorrectionContext{RuleID: ruleID, File: file, disabled: disabled}
}

func (c *CorrectionContext) IsDisabled(n *syntax.Node) bool { return c.IsDisabledAt(n.Start()) }

func (c *CorrectionContext) IsDisabledAt(pos int) bool {
	return c.disabled != nil && c.disabled(pos)
}

// ShouldCorrect reports whether n may be edited and counts the refusals.
func (c *CorrectionContext) ShouldCorrect(n *syntax.Node) bool {
	return c.ShouldCorrectAt(n.Start())
}

func (c *CorrectionContext) ShouldCorrectAt(pos int) bool {
	if c.IsDisabledAt(pos) {
		c.suppressed++
		return false
	}
	return true
}

// Record notes an edit of n at its current start.
func (c *CorrectionContext) Record(n *syntax.Node) { c.RecordAt(n.Start()) }

func (c *CorrectionContext) RecordAt(pos int) { c.positions = append(c.positions, pos) }

// Positions returns the recorded positions, sorted.
func (c *CorrectionContext) Positions() []int {
	out := slices.Clone(c.positions)
	slices.Sort(out)
	return out
}

// Suppressed is the number of edits refused inside disabled regions.
func (c *CorrectionContext) Suppressed() int { return c.suppressed }

// Corrections converts the recorded positions using the file being corrected.
func (c *CorrectionContext) Corrections() []violation.Correction {
	positions := c.Positions()
	out := make([]violation.Correction, 0, len(positions))
	for _, pos := range positions {
		corr := violation.Correction{RuleID: c.RuleID, Position: pos}
		if c.File != nil {
			corr.Location = c.File.Location(pos)
		}
		out = append(out, corr)
	}
	return out
}
