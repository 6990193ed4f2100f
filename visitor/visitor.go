// Package visitor provides the traversal primitives rules are written with:
// depth-first walks, per-kind hook tables, scope stacks, violation
// collectors and bottom-up rewriters.
package visitor

import "github.com/speakeasy-api/swiftlint/syntax"

// Action tells Walk whether to descend into a node's children.
type Action uint8

const (
	Continue Action = iota
	SkipChildren
)

// Visitor receives every node of a tree. Leave is called after the
// children, including for nodes whose children were skipped.
type Visitor interface {
	Enter(n *syntax.Node) Action
	Leave(n *syntax.Node)
}

// Walk visits root and its descendants in source order.
func Walk(root *syntax.Node, v Visitor) {
	if root == nil {
		return
	}
	if v.Enter(root) == Continue {
		for _, c := range root.Children() {
			Walk(c, v)
		}
	}
	v.Leave(root)
}

// WalkFolded folds every operator sequence with the standard operator
// table before walking.
func WalkFolded(root *syntax.Node, v Visitor) {
	Walk(syntax.FoldAll(root, syntax.StandardOperators()), v)
}

// KindSet is a set of node kinds.
type KindSet map[syntax.Kind]struct{}

func NewKindSet(kinds ...syntax.Kind) KindSet {
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

func (s KindSet) Has(k syntax.Kind) bool {
	_, ok := s[k]
	return ok
}

// Funcs is a Visitor built from per-kind hooks. Kinds without an OnEnter
// hook are descended into. Nodes whose kind is in Skip are neither descended
// into nor passed to any hook.
type Funcs struct {
	OnEnter map[syntax.Kind]func(*syntax.Node) Action
	OnLeave map[syntax.Kind]func(*syntax.Node)
	// Token is called for every token reached.
	Token func(*syntax.Node)
	Skip  KindSet
}

var _ Visitor = (*Funcs)(nil)

func (f *Funcs) Enter(n *syntax.Node) Action {
	if f.Skip.Has(n.Kind()) {
		return SkipChildren
	}
	if n.IsToken() {
		if f.Token != nil {
			f.Token(n)
		}
		return Continue
	}
	if fn, ok := f.OnEnter[n.Kind()]; ok {
		return fn(n)
	}
	return Continue
}

func (f *Funcs) Leave(n *syntax.Node) {
	if f.Skip.Has(n.Kind()) {
		return
	}
	if fn, ok := f.OnLeave[n.Kind()]; ok {
		fn(n)
	}
}
