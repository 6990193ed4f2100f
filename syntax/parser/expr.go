package parser

import "github.com/speakeasy-api/swiftlint/syntax"

// parseExpr parses a flat sequence of operands and infix operators. Folding by
// precedence is left to syntax.Fold. With noTrailingClosure set a following
// brace is not taken as a trailing closure, as in if and while conditions.
func (p *parser) parseExpr(noTrailingClosure bool) *syntax.Node {
	first := p.parseUnary(noTrailingClosure)
	if first == nil {
		return nil
	}
	elems := []*syntax.Node{first}
	for {
		var op, rhs *syntax.Node
		switch {
		case p.atBinary("?"):
			q := p.advance()
			mid := p.parseExpr(noTrailingClosure)
			colon := p.eat(syntax.TokenColon)
			op = syntax.NewNode(syntax.KindTernaryOperator, q, mid, colon)
			rhs = p.parseUnary(noTrailingClosure)
		case p.at(syntax.TokenBinaryOperator):
			op = syntax.NewNode(syntax.KindBinaryOperator, p.advance())
			rhs = p.parseUnary(noTrailingClosure)
		case p.atKeyword("as") || p.atKeyword("is"):
			kw := p.advance()
			var mark *syntax.Node
			if kw.TokenText() == "as" && p.at(syntax.TokenPostfixOperator) && (p.text() == "?" || p.text() == "!") {
				mark = p.advance()
			}
			op = syntax.NewNode(syntax.KindCastOperator, kw, mark)
			rhs = p.parseType()
		}
		if op == nil {
			break
		}
		elems = append(elems, op)
		if rhs == nil {
			break
		}
		elems = append(elems, rhs)
	}
	if len(elems) == 1 {
		return first
	}
	return syntax.NewNode(syntax.KindSequenceExpr, elems...)
}

func (p *parser) parseUnary(noTrailingClosure bool) *syntax.Node {
	switch {
	case p.at(syntax.TokenPrefixOperator):
		op := p.advance()
		return syntax.NewNode(syntax.KindPrefixOperatorExpr, op, p.parseUnary(noTrailingClosure))
	case p.atKeyword("try"):
		kw := p.advance()
		var mark *syntax.Node
		if p.at(syntax.TokenPostfixOperator) && (p.text() == "?" || p.text() == "!") {
			mark = p.advance()
		}
		return syntax.NewNode(syntax.KindTryExpr, kw, mark, p.parseUnary(noTrailingClosure))
	case p.atKeyword("await"):
		kw := p.advance()
		return syntax.NewNode(syntax.KindTryExpr, kw, p.parseUnary(noTrailingClosure))
	}
	base := p.parsePrimary()
	if base == nil {
		return nil
	}
	return p.parsePostfix(base, noTrailingClosure)
}

func (p *parser) parsePrimary() *syntax.Node {
	switch p.kind() {
	case syntax.TokenIdentifier, syntax.TokenPound:
		return syntax.NewNode(syntax.KindDeclReferenceExpr, p.advance())
	case syntax.TokenIntegerLiteral, syntax.TokenFloatLiteral, syntax.TokenStringLiteral:
		return syntax.NewNode(syntax.KindLiteralExpr, p.advance())
	case syntax.TokenLeftParen:
		return p.parseList(syntax.KindTupleExpr, syntax.TokenRightParen)
	case syntax.TokenLeftBracket:
		return p.parseList(syntax.KindArrayExpr, syntax.TokenRightBracket)
	case syntax.TokenLeftBrace:
		return p.parseClosure()
	case syntax.TokenPeriod:
		dot := p.advance()
		var name *syntax.Node
		if p.at(syntax.TokenIdentifier) || p.at(syntax.TokenKeyword) {
			name = p.advance()
		}
		return syntax.NewNode(syntax.KindMemberAccessExpr, dot, name)
	case syntax.TokenBackslash:
		slash := p.advance()
		var root *syntax.Node
		if p.at(syntax.TokenIdentifier) {
			root = syntax.NewNode(syntax.KindDeclReferenceExpr, p.advance())
		} else if p.at(syntax.TokenPeriod) {
			dot := p.advance()
			root = syntax.NewNode(syntax.KindMemberAccessExpr, dot, p.eat(syntax.TokenIdentifier))
		}
		if root != nil {
			root = p.parsePostfix(root, true)
		}
		return syntax.NewNode(syntax.KindKeyPathExpr, slash, root)
	case syntax.TokenKeyword:
		switch p.text() {
		case "true", "false", "nil":
			return syntax.NewNode(syntax.KindLiteralExpr, p.advance())
		case "self", "Self", "super", "_", "init":
			return syntax.NewNode(syntax.KindDeclReferenceExpr, p.advance())
		case "if":
			return p.parseIf()
		case "switch":
			return p.parseSwitch()
		}
	}
	return nil
}

// parsePostfix applies calls, subscripts, member accesses, postfix operators
// and trailing closures to base.
func (p *parser) parsePostfix(base *syntax.Node, noTrailingClosure bool) *syntax.Node {
	for {
		switch {
		case p.at(syntax.TokenLeftParen) && !p.onNewLine():
			base = syntax.NewNode(syntax.KindFunctionCallExpr, base, p.parseList(syntax.KindTupleExpr, syntax.TokenRightParen))
		case p.at(syntax.TokenLeftBracket) && !p.onNewLine():
			base = syntax.NewNode(syntax.KindSubscriptExpr, base, p.parseList(syntax.KindArrayExpr, syntax.TokenRightBracket))
		case p.at(syntax.TokenPeriod):
			dot := p.advance()
			var name *syntax.Node
			switch p.kind() {
			case syntax.TokenIdentifier, syntax.TokenKeyword, syntax.TokenIntegerLiteral:
				name = p.advance()
			}
			base = syntax.NewNode(syntax.KindMemberAccessExpr, base, dot, name)
		case p.at(syntax.TokenPostfixOperator):
			op := p.advance()
			switch op.TokenText() {
			case "!":
				base = syntax.NewNode(syntax.KindForceUnwrapExpr, base, op)
			case "?":
				base = syntax.NewNode(syntax.KindOptionalChainingExpr, base, op)
			default:
				base = syntax.NewNode(syntax.KindPostfixOperatorExpr, base, op)
			}
		case p.at(syntax.TokenLeftBrace) && !noTrailingClosure && !p.onNewLine() && acceptsTrailingClosure(base):
			base = syntax.NewNode(syntax.KindFunctionCallExpr, base, p.parseClosure())
		default:
			return base
		}
	}
}

func acceptsTrailingClosure(n *syntax.Node) bool {
	switch n.Kind() {
	case syntax.KindDeclReferenceExpr, syntax.KindMemberAccessExpr, syntax.KindFunctionCallExpr,
		syntax.KindSubscriptExpr, syntax.KindOptionalChainingExpr, syntax.KindForceUnwrapExpr:
		return true
	default:
		return false
	}
}

// parseList parses a parenthesized or bracketed list of optionally labeled
// expressions separated by commas (and colons in dictionary literals).
func (p *parser) parseList(kind syntax.Kind, closer syntax.TokenKind) *syntax.Node {
	children := []*syntax.Node{p.advance()}
	for !p.atEOF() && !p.at(closer) {
		start := p.pos
		if (p.at(syntax.TokenIdentifier) || p.at(syntax.TokenKeyword)) && p.peekN(1).TokenKind() == syntax.TokenColon {
			name := p.advance()
			children = append(children, syntax.NewNode(syntax.KindLabel, name, p.advance()))
		}
		if expr := p.parseExpr(false); expr != nil {
			children = append(children, expr)
		}
		if sep := p.eat(syntax.TokenComma); sep != nil {
			children = append(children, sep)
		} else if sep := p.eat(syntax.TokenColon); sep != nil {
			children = append(children, sep)
		}
		if p.pos == start {
			switch p.kind() {
			case syntax.TokenRightBrace, syntax.TokenRightParen, syntax.TokenRightBracket:
				if p.kind() != closer {
					return syntax.NewNode(kind, children...)
				}
			}
			children = append(children, p.unexpected())
		}
	}
	children = append(children, p.eat(closer))
	return syntax.NewNode(kind, children...)
}

// parseClosure parses { [signature in] items }.
func (p *parser) parseClosure() *syntax.Node {
	children := []*syntax.Node{p.advance()}
	if n := p.closureSignatureLength(); n > 0 {
		sig := make([]*syntax.Node, 0, n)
		for range n {
			sig = append(sig, p.advance())
		}
		children = append(children, syntax.NewNode(syntax.KindSignature, sig...))
	}
	children = append(children, p.parseItems(nil, false)...)
	children = append(children, p.eat(syntax.TokenRightBrace))
	return syntax.NewNode(syntax.KindClosureExpr, children...)
}

// closureSignatureLength returns how many tokens up to and including in form
// the closure's signature, or zero when there is none.
func (p *parser) closureSignatureLength() int {
	depth := 0
	for i := 0; i < 64; i++ {
		t := p.peekN(i)
		switch t.TokenKind() {
		case syntax.TokenEOF, syntax.TokenLeftBrace, syntax.TokenRightBrace, syntax.TokenSemicolon:
			return 0
		case syntax.TokenLeftParen, syntax.TokenLeftBracket:
			depth++
		case syntax.TokenRightParen, syntax.TokenRightBracket:
			depth--
		case syntax.TokenKeyword:
			switch t.TokenText() {
			case "in":
				if depth == 0 {
					return i + 1
				}
			case "_", "self", "Self", "throws", "rethrows", "inout":
			default:
				return 0
			}
		}
		if i > 0 && depth == 0 && t.LeadingTrivia().ContainsNewline() {
			return 0
		}
	}
	return 0
}
