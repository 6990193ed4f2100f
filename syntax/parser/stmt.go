package parser

import "github.com/speakeasy-api/swiftlint/syntax"

// parseStatement parses a keyword introduced statement or returns nil when
// the current keyword does not start one.
func (p *parser) parseStatement() *syntax.Node {
	switch p.text() {
	case "while":
		kw := p.advance()
		return syntax.NewNode(syntax.KindWhileStmt, kw, p.parseConditions(), p.parseCodeBlock())
	case "repeat":
		kw := p.advance()
		body := p.parseCodeBlock()
		children := []*syntax.Node{kw, body}
		if p.atKeyword("while") {
			children = append(children, p.advance(), p.parseExpr(false))
		}
		return syntax.NewNode(syntax.KindRepeatStmt, children...)
	case "for":
		return p.parseFor()
	case "if":
		return p.parseIf()
	case "guard":
		kw := p.advance()
		conds := p.parseConditions()
		var elseKw *syntax.Node
		if p.atKeyword("else") {
			elseKw = p.advance()
		}
		return syntax.NewNode(syntax.KindGuardStmt, kw, conds, elseKw, p.parseCodeBlock())
	case "switch":
		return p.parseSwitch()
	case "do":
		return p.parseDo()
	case "return":
		kw := p.advance()
		return syntax.NewNode(syntax.KindReturnStmt, kw, p.parseOptionalValue())
	case "throw":
		kw := p.advance()
		return syntax.NewNode(syntax.KindThrowStmt, kw, p.parseExpr(false))
	case "break", "continue":
		kind := syntax.KindBreakStmt
		if p.text() == "continue" {
			kind = syntax.KindContinueStmt
		}
		kw := p.advance()
		var label *syntax.Node
		if p.at(syntax.TokenIdentifier) && !p.onNewLine() {
			label = p.advance()
		}
		return syntax.NewNode(kind, kw, label)
	case "defer":
		kw := p.advance()
		return syntax.NewNode(syntax.KindDeferStmt, kw, p.parseCodeBlock())
	case "fallthrough":
		return syntax.NewNode(syntax.KindFallthroughStmt, p.advance())
	}
	return nil
}

// parseOptionalValue parses the expression of return when one follows on the
// same line.
func (p *parser) parseOptionalValue() *syntax.Node {
	if p.atEOF() || p.onNewLine() || p.at(syntax.TokenRightBrace) || p.at(syntax.TokenSemicolon) ||
		p.atKeyword("case") || p.atKeyword("default") {
		return nil
	}
	return p.parseExpr(false)
}

func (p *parser) parseIf() *syntax.Node {
	kw := p.advance()
	children := []*syntax.Node{kw, p.parseConditions(), p.parseCodeBlock()}
	if p.atKeyword("else") {
		children = append(children, p.advance())
		if p.atKeyword("if") {
			children = append(children, p.parseIf())
		} else {
			children = append(children, p.parseCodeBlock())
		}
	}
	return syntax.NewNode(syntax.KindIfStmt, children...)
}

// parseConditions parses a comma separated condition list.
func (p *parser) parseConditions() *syntax.Node {
	var children []*syntax.Node
	for !p.atEOF() && !p.at(syntax.TokenLeftBrace) {
		start := p.pos
		if cond := p.parseCondition(); cond != nil {
			children = append(children, cond)
		}
		if p.pos == start {
			break
		}
		comma := p.eat(syntax.TokenComma)
		if comma == nil {
			break
		}
		children = append(children, comma)
	}
	if len(children) == 0 {
		return nil
	}
	return syntax.NewNode(syntax.KindConditionList, children...)
}

func (p *parser) parseCondition() *syntax.Node {
	if p.atKeyword("let") || p.atKeyword("var") || p.atKeyword("case") {
		children := []*syntax.Node{p.advance(), p.parseRawPattern(func() bool {
			return p.atBinary("=") || p.at(syntax.TokenComma) || p.at(syntax.TokenLeftBrace)
		})}
		if p.atBinary("=") {
			children = append(children, p.advance(), p.parseExpr(true))
		}
		return syntax.NewNode(syntax.KindOptionalBindingCondition, children...)
	}
	return p.parseExpr(true)
}

// parseRawPattern consumes tokens at bracket depth zero until stop reports true.
func (p *parser) parseRawPattern(stop func() bool) *syntax.Node {
	var children []*syntax.Node
	depth := 0
	for !p.atEOF() {
		if depth == 0 && (stop() || p.at(syntax.TokenRightBrace)) {
			break
		}
		switch p.kind() {
		case syntax.TokenLeftParen, syntax.TokenLeftBracket:
			depth++
		case syntax.TokenRightParen, syntax.TokenRightBracket:
			if depth == 0 {
				return syntax.NewNode(syntax.KindPattern, children...)
			}
			depth--
		}
		children = append(children, p.advance())
	}
	if len(children) == 0 {
		return nil
	}
	return syntax.NewNode(syntax.KindPattern, children...)
}

func (p *parser) parseFor() *syntax.Node {
	children := []*syntax.Node{p.advance()}
	children = append(children, p.parseRawPattern(func() bool {
		return p.atKeyword("in") || p.at(syntax.TokenLeftBrace)
	}))
	if p.atKeyword("in") {
		children = append(children, p.advance(), p.parseExpr(true))
	}
	if p.atKeyword("where") {
		kw := p.advance()
		children = append(children, syntax.NewNode(syntax.KindWhereClause, kw, p.parseExpr(true)))
	}
	children = append(children, p.parseCodeBlock())
	return syntax.NewNode(syntax.KindForStmt, children...)
}

func (p *parser) parseSwitch() *syntax.Node {
	children := []*syntax.Node{p.advance(), p.parseExpr(true)}
	open := p.eat(syntax.TokenLeftBrace)
	if open == nil {
		return syntax.NewNode(syntax.KindSwitchStmt, children...)
	}
	children = append(children, open)
	for !p.atEOF() && !p.at(syntax.TokenRightBrace) {
		start := p.pos
		if p.atCaseLabel() {
			children = append(children, p.parseSwitchCase())
		} else if item := p.parseItem(false); item != nil && p.pos > start {
			children = append(children, item)
		}
		if p.pos == start {
			children = append(children, p.unexpected())
		}
	}
	children = append(children, p.eat(syntax.TokenRightBrace))
	return syntax.NewNode(syntax.KindSwitchStmt, children...)
}

func (p *parser) atCaseLabel() bool {
	return p.atKeyword("case") || p.atKeyword("default") ||
		(p.at(syntax.TokenAtSign) && p.peekN(1).TokenText() == "unknown")
}

func (p *parser) parseSwitchCase() *syntax.Node {
	var label []*syntax.Node
	if p.at(syntax.TokenAtSign) {
		label = append(label, p.parseAttribute())
	}
	depth := 0
	for !p.atEOF() {
		switch p.kind() {
		case syntax.TokenLeftParen, syntax.TokenLeftBracket:
			depth++
		case syntax.TokenRightParen, syntax.TokenRightBracket:
			depth--
		case syntax.TokenRightBrace:
			if depth <= 0 {
				return syntax.NewNode(syntax.KindSwitchCase, syntax.NewNode(syntax.KindSwitchCaseLabel, label...))
			}
		}
		tok := p.advance()
		label = append(label, tok)
		if depth <= 0 && tok.TokenKind() == syntax.TokenColon {
			break
		}
	}
	children := []*syntax.Node{syntax.NewNode(syntax.KindSwitchCaseLabel, label...)}
	children = append(children, p.parseItems(p.atCaseLabel, false)...)
	return syntax.NewNode(syntax.KindSwitchCase, children...)
}

func (p *parser) parseDo() *syntax.Node {
	children := []*syntax.Node{p.advance(), p.parseCodeBlock()}
	for p.atKeyword("catch") {
		kw := p.advance()
		pattern := p.parseRawPattern(func() bool { return p.at(syntax.TokenLeftBrace) })
		children = append(children, syntax.NewNode(syntax.KindCatchClause, kw, pattern, p.parseCodeBlock()))
	}
	return syntax.NewNode(syntax.KindDoStmt, children...)
}
