// Package syntax defines the immutable syntax tree shared by every rule: nodes,
// tokens with attached trivia, byte positions and line/column conversion.
//
// A tree is never mutated in place. Edits return new nodes that share every
// unchanged subtree with the original by pointer, and serializing a tree with
// Text reproduces the source it was parsed from byte for byte.
package syntax

import "strings"

// Node is either an interior node with ordered children or a token leaf.
// Nodes are immutable and safe to share between goroutines.
type Node struct {
	kind     Kind
	name     string
	offset   int
	width    int
	children []*Node
	tok      *tokenData
}

type tokenData struct {
	kind     TokenKind
	text     string
	leading  Trivia
	trailing Trivia
}

// NodeID identifies a node by kind and full start offset. Nodes produced by one
// parse have distinct IDs unless one is the sole child starting a parent of the
// same kind.
type NodeID struct {
	Kind   Kind
	Offset int
}

// NewTokenAt creates a token whose leading trivia begins at offset.
func NewTokenAt(offset int, kind TokenKind, text string, leading, trailing Trivia) *Node {
	return &Node{
		kind:   KindToken,
		offset: offset,
		width:  leading.Len() + len(text) + trailing.Len(),
		tok:    &tokenData{kind: kind, text: text, leading: leading, trailing: trailing},
	}
}

// NewToken creates a synthetic token with no source position.
func NewToken(kind TokenKind, text string, leading, trailing Trivia) *Node {
	return NewTokenAt(-1, kind, text, leading, trailing)
}

// NewNode creates an interior node. Nil children are dropped. The node's
// offset is derived from the first child that has one.
func NewNode(kind Kind, children ...*Node) *Node {
	return NewNamedNode(kind, "", children...)
}

// NewNamedNode creates an interior node carrying the grammar name used by a
// foreign frontend.
func NewNamedNode(kind Kind, name string, children ...*Node) *Node {
	n := &Node{kind: kind, name: name, children: compact(children)}
	n.offset, n.width = measure(n.children)
	return n
}

func compact(children []*Node) []*Node {
	out := make([]*Node, 0, len(children))
	for _, c := range children {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func measure(children []*Node) (offset, width int) {
	offset = -1
	before := 0
	for _, c := range children {
		if offset < 0 && c.offset >= 0 {
			offset = c.offset - before
		}
		before += c.width
	}
	return offset, before
}

func (n *Node) Kind() Kind { return n.kind }

// Name returns the frontend grammar name when set, otherwise the kind name.
func (n *Node) Name() string {
	if n.name != "" {
		return n.name
	}
	return n.kind.String()
}

func (n *Node) IsToken() bool { return n.tok != nil }

// TokenKind returns the token kind, or TokenUnknown for interior nodes.
func (n *Node) TokenKind() TokenKind {
	if n.tok == nil {
		return TokenUnknown
	}
	return n.tok.kind
}

// TokenText returns the token text without trivia.
func (n *Node) TokenText() string {
	if n.tok == nil {
		return ""
	}
	return n.tok.text
}

// LeadingTrivia returns the trivia before a token, or before the first token
// of an interior node.
func (n *Node) LeadingTrivia() Trivia {
	if t := n.FirstToken(); t != nil {
		return t.tok.leading
	}
	return nil
}

// TrailingTrivia returns the trivia after a token, or after the last token of
// an interior node.
func (n *Node) TrailingTrivia() Trivia {
	if t := n.LastToken(); t != nil {
		return t.tok.trailing
	}
	return nil
}

// FullStart is the offset of the first byte including leading trivia, or -1
// for synthetic nodes.
func (n *Node) FullStart() int { return n.offset }

// FullEnd is the offset just past the trailing trivia.
func (n *Node) FullEnd() int {
	if n.offset < 0 {
		return -1
	}
	return n.offset + n.width
}

// Start is the offset of the first non-trivia byte.
func (n *Node) Start() int {
	if n.offset < 0 {
		return -1
	}
	return n.offset + n.LeadingTrivia().Len()
}

// End is the offset just past the last non-trivia byte.
func (n *Node) End() int {
	if n.offset < 0 {
		return -1
	}
	return n.offset + n.width - n.TrailingTrivia().Len()
}

// FullWidth is the byte length including trivia.
func (n *Node) FullWidth() int { return n.width }

func (n *Node) ID() NodeID { return NodeID{Kind: n.kind, Offset: n.offset} }

// Children returns the ordered children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// ChildOfKind returns the first child of kind k.
func (n *Node) ChildOfKind(k Kind) *Node {
	for _, c := range n.children {
		if c.kind == k {
			return c
		}
	}
	return nil
}

// ChildToken returns the first child token of kind k.
func (n *Node) ChildToken(k TokenKind) *Node {
	for _, c := range n.children {
		if c.tok != nil && c.tok.kind == k {
			return c
		}
	}
	return nil
}

// IsKeyword reports whether n is a keyword token with the given text.
func (n *Node) IsKeyword(text string) bool {
	return n != nil && n.tok != nil && n.tok.kind == TokenKeyword && n.tok.text == text
}

// FirstToken returns the first token leaf, or nil for an empty node.
func (n *Node) FirstToken() *Node {
	for cur := n; cur != nil; {
		if cur.tok != nil {
			return cur
		}
		var next *Node
		for _, c := range cur.children {
			if c.tok != nil || len(c.children) > 0 {
				next = c
				break
			}
		}
		cur = next
	}
	return nil
}

// LastToken returns the last token leaf, or nil for an empty node.
func (n *Node) LastToken() *Node {
	for cur := n; cur != nil; {
		if cur.tok != nil {
			return cur
		}
		var next *Node
		for i := len(cur.children) - 1; i >= 0; i-- {
			if c := cur.children[i]; c.tok != nil || len(c.children) > 0 {
				next = c
				break
			}
		}
		cur = next
	}
	return nil
}

// Tokens returns every token leaf in source order.
func (n *Node) Tokens() []*Node {
	var out []*Node
	n.appendTokens(&out)
	return out
}

func (n *Node) appendTokens(out *[]*Node) {
	if n.tok != nil {
		*out = append(*out, n)
		return
	}
	for _, c := range n.children {
		c.appendTokens(out)
	}
}

// Text serializes the node including all trivia.
func (n *Node) Text() string {
	var sb strings.Builder
	sb.Grow(n.width)
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n.tok != nil {
		for _, p := range n.tok.leading {
			sb.WriteString(p.Text)
		}
		sb.WriteString(n.tok.text)
		for _, p := range n.tok.trailing {
			sb.WriteString(p.Text)
		}
		return
	}
	for _, c := range n.children {
		c.write(sb)
	}
}

// TrimmedText serializes the node without its outer leading and trailing trivia.
func (n *Node) TrimmedText() string {
	full := n.Text()
	lead := n.LeadingTrivia().Len()
	trail := n.TrailingTrivia().Len()
	if lead+trail > len(full) {
		return ""
	}
	return full[lead : len(full)-trail]
}

// TokenTexts returns the token texts without any trivia, for comparing nodes
// while ignoring formatting.
func (n *Node) TokenTexts() []string {
	toks := n.Tokens()
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.tok.text)
	}
	return out
}

// WithChildren returns a copy of n with the given children. When none of the
// new children carries a position the original offset is kept.
func (n *Node) WithChildren(children ...*Node) *Node {
	if n.tok != nil {
		return n
	}
	out := NewNamedNode(n.kind, n.name, children...)
	if out.offset < 0 {
		out.offset = n.offset
	}
	return out
}

// WithChild returns a copy of n with the i-th child replaced. A nil child
// removes it.
func (n *Node) WithChild(i int, child *Node) *Node {
	if i < 0 || i >= len(n.children) || n.children[i] == child {
		return n
	}
	children := make([]*Node, 0, len(n.children))
	children = append(children, n.children[:i]...)
	if child != nil {
		children = append(children, child)
	}
	children = append(children, n.children[i+1:]...)
	return n.WithChildren(children...)
}

// Replace returns a copy of n in which the descendant old (compared by pointer)
// is replaced by replacement. Only the path from n to old is rebuilt; n itself
// is returned when old is not found.
func (n *Node) Replace(old, replacement *Node) *Node {
	if n == old {
		return replacement
	}
	if n.tok != nil {
		return n
	}
	for i, c := range n.children {
		if r := c.Replace(old, replacement); r != c {
			return n.WithChild(i, r)
		}
	}
	return n
}

// WithText returns a copy of the token with new text.
func (n *Node) WithText(text string) *Node {
	if n.tok == nil {
		return n
	}
	return n.withToken(tokenData{kind: n.tok.kind, text: text, leading: n.tok.leading, trailing: n.tok.trailing})
}

// WithTokenKind returns a copy of the token with a new kind and text.
func (n *Node) WithTokenKind(kind TokenKind, text string) *Node {
	if n.tok == nil {
		return n
	}
	return n.withToken(tokenData{kind: kind, text: text, leading: n.tok.leading, trailing: n.tok.trailing})
}

// WithLeadingTrivia returns a copy of the token, or of the node with its first
// token, carrying the given leading trivia.
func (n *Node) WithLeadingTrivia(t Trivia) *Node {
	if n.tok == nil {
		return ReplaceFirstToken(n, func(tok *Node) *Node { return tok.WithLeadingTrivia(t) })
	}
	return n.withToken(tokenData{kind: n.tok.kind, text: n.tok.text, leading: t, trailing: n.tok.trailing})
}

// WithTrailingTrivia returns a copy of the token, or of the node with its last
// token, carrying the given trailing trivia.
func (n *Node) WithTrailingTrivia(t Trivia) *Node {
	if n.tok == nil {
		return ReplaceLastToken(n, func(tok *Node) *Node { return tok.WithTrailingTrivia(t) })
	}
	return n.withToken(tokenData{kind: n.tok.kind, text: n.tok.text, leading: n.tok.leading, trailing: t})
}

func (n *Node) withToken(td tokenData) *Node {
	return &Node{
		kind:   KindToken,
		offset: n.offset,
		width:  td.leading.Len() + len(td.text) + td.trailing.Len(),
		tok:    &td,
	}
}

// ReplaceFirstToken rebuilds the path to the first token of n with fn applied.
func ReplaceFirstToken(n *Node, fn func(tok *Node) *Node) *Node {
	first := n.FirstToken()
	if first == nil {
		return n
	}
	return n.Replace(first, fn(first))
}

// ReplaceLastToken rebuilds the path to the last token of n with fn applied.
func ReplaceLastToken(n *Node, fn func(tok *Node) *Node) *Node {
	last := n.LastToken()
	if last == nil {
		return n
	}
	return n.Replace(last, fn(last))
}

// Contains reports whether offset lies within [Start, End) of n.
func (n *Node) Contains(offset int) bool {
	return offset >= n.Start() && offset < n.End()
}
