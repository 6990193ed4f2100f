// Package parser is an error tolerant parser for a practical subset of Swift.
// It produces syntax trees in which every source byte is owned by a token or a
// trivia piece, so a tree always serializes back to its input.
package parser

import (
	"context"

	"github.com/speakeasy-api/swiftlint/syntax"
)

// Parser adapts Parse to the linter's parser collaborator.
type Parser struct{}

func New() *Parser { return &Parser{} }

func (*Parser) Name() string { return "native" }

func (*Parser) Parse(ctx context.Context, src []byte) (*syntax.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Parse(src), nil
}

// Parse never fails: constructs it does not understand become unexpected
// nodes holding the skipped tokens.
func Parse(src []byte) *syntax.Node {
	p := &parser{toks: lex(src)}
	var items []*syntax.Node
	for {
		items = append(items, p.parseItems(nil, false)...)
		if p.atEOF() {
			break
		}
		items = append(items, p.unexpected())
	}
	items = append(items, p.advance())
	return syntax.NewNode(syntax.KindSourceFile, items...)
}

type parser struct {
	toks []*syntax.Node
	pos  int
}

func (p *parser) cur() *syntax.Node { return p.toks[p.pos] }

func (p *parser) peekN(n int) *syntax.Node {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) kind() syntax.TokenKind { return p.cur().TokenKind() }

func (p *parser) text() string { return p.cur().TokenText() }

func (p *parser) atEOF() bool { return p.kind() == syntax.TokenEOF }

func (p *parser) at(k syntax.TokenKind) bool { return p.kind() == k }

func (p *parser) atKeyword(text string) bool { return p.cur().IsKeyword(text) }

func (p *parser) atBinary(text string) bool {
	return p.kind() == syntax.TokenBinaryOperator && p.text() == text
}

// onNewLine reports whether a line break separates the current token from
// the previous one.
func (p *parser) onNewLine() bool {
	return p.pos > 0 && p.cur().LeadingTrivia().ContainsNewline()
}

// advance returns the current token and moves past it. The EOF token is
// returned repeatedly.
func (p *parser) advance() *syntax.Node {
	t := p.cur()
	if t.TokenKind() != syntax.TokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) eat(k syntax.TokenKind) *syntax.Node {
	if p.at(k) {
		return p.advance()
	}
	return nil
}

func (p *parser) unexpected() *syntax.Node {
	return syntax.NewNode(syntax.KindUnexpected, p.advance())
}

// parseItems parses statements and declarations until stop reports true, a
// closing brace, or EOF. Statement separating semicolons are kept as tokens
// between items.
func (p *parser) parseItems(stop func() bool, member bool) []*syntax.Node {
	var items []*syntax.Node
	for !p.atEOF() && !p.at(syntax.TokenRightBrace) && (stop == nil || !stop()) {
		if semi := p.eat(syntax.TokenSemicolon); semi != nil {
			items = append(items, semi)
			continue
		}
		start := p.pos
		item := p.parseItem(member)
		if item == nil || p.pos == start {
			item = p.unexpected()
		}
		items = append(items, item)
	}
	return items
}

// parseItem parses one declaration, statement or expression.
func (p *parser) parseItem(member bool) *syntax.Node {
	if p.at(syntax.TokenPound) && isDirective(p.text()) {
		return p.parseDirective()
	}
	if p.isDeclStart(member) {
		return p.parseDecl()
	}
	if p.at(syntax.TokenIdentifier) && p.peekN(1).TokenKind() == syntax.TokenColon && isLabelable(p.peekN(2)) {
		label := p.advance()
		colon := p.advance()
		return syntax.NewNode(syntax.KindLabeledStmt, label, colon, p.parseStatement())
	}
	if p.at(syntax.TokenKeyword) {
		if stmt := p.parseStatement(); stmt != nil {
			return stmt
		}
	}
	return p.parseExpr(false)
}

func isLabelable(n *syntax.Node) bool {
	switch {
	case n.IsKeyword("while"), n.IsKeyword("repeat"), n.IsKeyword("for"), n.IsKeyword("if"),
		n.IsKeyword("switch"), n.IsKeyword("do"), n.IsKeyword("guard"):
		return true
	default:
		return false
	}
}

func isDirective(text string) bool {
	switch text {
	case "#if", "#elseif", "#else", "#endif", "#warning", "#error", "#sourceLocation":
		return true
	default:
		return false
	}
}

// parseDirective keeps a compiler directive line as an opaque node.
func (p *parser) parseDirective() *syntax.Node {
	children := []*syntax.Node{p.advance()}
	for !p.atEOF() && !p.onNewLine() {
		children = append(children, p.advance())
	}
	return syntax.NewNode(syntax.KindDirective, children...)
}

// parseCodeBlock parses { items }. A missing closing brace is tolerated.
func (p *parser) parseCodeBlock() *syntax.Node {
	return p.parseBlock(syntax.KindCodeBlock, false)
}

func (p *parser) parseMemberBlock() *syntax.Node {
	return p.parseBlock(syntax.KindMemberBlock, true)
}

func (p *parser) parseBlock(kind syntax.Kind, member bool) *syntax.Node {
	open := p.eat(syntax.TokenLeftBrace)
	if open == nil {
		return nil
	}
	children := []*syntax.Node{open}
	children = append(children, p.parseItems(nil, member)...)
	children = append(children, p.eat(syntax.TokenRightBrace))
	return syntax.NewNode(kind, children...)
}

// parseBalanced consumes a bracketed group, including the delimiters, as raw
// tokens.
func (p *parser) parseBalanced(kind syntax.Kind) *syntax.Node {
	var children []*syntax.Node
	depth := 0
	for !p.atEOF() {
		switch p.kind() {
		case syntax.TokenLeftParen, syntax.TokenLeftBracket, syntax.TokenLeftBrace:
			depth++
		case syntax.TokenRightParen, syntax.TokenRightBracket, syntax.TokenRightBrace:
			depth--
		}
		children = append(children, p.advance())
		if depth <= 0 {
			break
		}
	}
	return syntax.NewNode(kind, children...)
}

// parseRawLine consumes tokens up to the end of the line at bracket depth
// zero, a semicolon, or an unbalanced closing brace.
func (p *parser) parseRawLine(kind syntax.Kind, first []*syntax.Node) *syntax.Node {
	children := first
	depth := 0
	for !p.atEOF() {
		if depth == 0 && len(children) > 0 && p.onNewLine() {
			break
		}
		switch p.kind() {
		case syntax.TokenLeftParen, syntax.TokenLeftBracket, syntax.TokenLeftBrace:
			depth++
		case syntax.TokenRightParen, syntax.TokenRightBracket, syntax.TokenRightBrace:
			if depth == 0 {
				return syntax.NewNode(kind, children...)
			}
			depth--
		case syntax.TokenSemicolon:
			if depth == 0 {
				return syntax.NewNode(kind, children...)
			}
		}
		children = append(children, p.advance())
	}
	return syntax.NewNode(kind, children...)
}
