package parser

import (
	"strings"

	"github.com/speakeasy-api/swiftlint/syntax"
)

var modifiers = map[string]struct{}{
	"public": {}, "private": {}, "fileprivate": {}, "internal": {}, "open": {},
	"package": {}, "static": {}, "final": {}, "override": {}, "mutating": {},
	"nonmutating": {}, "lazy": {}, "weak": {}, "unowned": {}, "required": {},
	"convenience": {}, "dynamic": {}, "optional": {}, "indirect": {},
	"nonisolated": {}, "prefix": {}, "postfix": {}, "infix": {},
	"distributed": {}, "consuming": {}, "borrowing": {},
}

var declKeywords = map[string]syntax.Kind{
	"import":          syntax.KindImportDecl,
	"protocol":        syntax.KindProtocolDecl,
	"class":           syntax.KindClassDecl,
	"struct":          syntax.KindStructDecl,
	"enum":            syntax.KindEnumDecl,
	"extension":       syntax.KindExtensionDecl,
	"func":            syntax.KindFunctionDecl,
	"init":            syntax.KindInitializerDecl,
	"deinit":          syntax.KindDeinitializerDecl,
	"subscript":       syntax.KindSubscriptDecl,
	"var":             syntax.KindVariableDecl,
	"let":             syntax.KindVariableDecl,
	"typealias":       syntax.KindTypeAliasDecl,
	"associatedtype":  syntax.KindTypeAliasDecl,
	"operator":        syntax.KindTypeAliasDecl,
	"precedencegroup": syntax.KindTypeAliasDecl,
}

// declKeywordAt returns the declaration kind introduced by the token i
// positions ahead, if any.
func (p *parser) declKeywordAt(i int, member bool) (syntax.Kind, bool) {
	t := p.peekN(i)
	text := t.TokenText()
	switch t.TokenKind() {
	case syntax.TokenKeyword:
		if text == "case" {
			return syntax.KindEnumCaseDecl, member
		}
		if text == "class" && p.isModifierClass(i) {
			return 0, false
		}
		k, ok := declKeywords[text]
		return k, ok
	case syntax.TokenIdentifier:
		if text == "actor" && p.peekN(i+1).TokenKind() == syntax.TokenIdentifier {
			return syntax.KindActorDecl, true
		}
	}
	return 0, false
}

// isModifierClass reports whether class at i modifies a following member
// declaration, as in class func.
func (p *parser) isModifierClass(i int) bool {
	next := p.peekN(i + 1)
	if next.TokenKind() != syntax.TokenKeyword && next.TokenKind() != syntax.TokenIdentifier {
		return false
	}
	if _, ok := modifiers[next.TokenText()]; ok {
		return true
	}
	switch next.TokenText() {
	case "func", "var", "let", "subscript", "class":
		return true
	}
	return false
}

// isDeclStart looks past attributes and modifiers for a declaration keyword.
func (p *parser) isDeclStart(member bool) bool {
	for i := 0; ; {
		t := p.peekN(i)
		switch {
		case t.TokenKind() == syntax.TokenEOF:
			return false
		case t.TokenKind() == syntax.TokenAtSign:
			i += 2
			if p.peekN(i).TokenKind() == syntax.TokenLeftParen && !p.peekN(i).LeadingTrivia().ContainsNewline() {
				i = p.skipBalancedAhead(i)
			}
			continue
		}
		if _, ok := p.declKeywordAt(i, member); ok {
			return true
		}
		if !p.isModifierAt(i) {
			return false
		}
		i++
		if p.peekN(i).TokenKind() == syntax.TokenLeftParen {
			if !isModifierDetail(p.peekN(i + 1)) {
				return false
			}
			i = p.skipBalancedAhead(i)
		}
	}
}

// isModifierDetail matches the argument of private(set) and similar.
func isModifierDetail(n *syntax.Node) bool {
	switch n.TokenText() {
	case "set", "unsafe":
		return true
	default:
		return false
	}
}

func (p *parser) isModifierAt(i int) bool {
	t := p.peekN(i)
	if t.TokenKind() != syntax.TokenKeyword && t.TokenKind() != syntax.TokenIdentifier {
		return false
	}
	if t.TokenText() == "class" {
		return p.isModifierClass(i)
	}
	_, ok := modifiers[t.TokenText()]
	return ok
}

// skipBalancedAhead returns the lookahead index just past the group opening at i.
func (p *parser) skipBalancedAhead(i int) int {
	depth := 0
	for {
		switch p.peekN(i).TokenKind() {
		case syntax.TokenEOF:
			return i
		case syntax.TokenLeftParen, syntax.TokenLeftBracket, syntax.TokenLeftBrace:
			depth++
		case syntax.TokenRightParen, syntax.TokenRightBracket, syntax.TokenRightBrace:
			depth--
		}
		i++
		if depth <= 0 {
			return i
		}
	}
}

func (p *parser) parseAttribute() *syntax.Node {
	children := []*syntax.Node{p.advance()}
	if p.at(syntax.TokenIdentifier) || p.at(syntax.TokenKeyword) {
		children = append(children, p.advance())
	}
	if p.at(syntax.TokenLeftParen) && !p.onNewLine() {
		children = append(children, p.parseBalanced(syntax.KindTupleExpr))
	}
	return syntax.NewNode(syntax.KindAttribute, children...)
}

// parseDecl parses a declaration; isDeclStart has already matched.
func (p *parser) parseDecl() *syntax.Node {
	var prefix []*syntax.Node
	for {
		if p.at(syntax.TokenAtSign) {
			prefix = append(prefix, p.parseAttribute())
			continue
		}
		if _, ok := p.declKeywordAt(0, true); ok {
			break
		}
		if !p.isModifierAt(0) {
			break
		}
		prefix = append(prefix, p.advance())
		if p.at(syntax.TokenLeftParen) && isModifierDetail(p.peekN(1)) {
			prefix = append(prefix, p.parseBalanced(syntax.KindUnexpected))
		}
	}

	kind, ok := p.declKeywordAt(0, true)
	if !ok {
		return syntax.NewNode(syntax.KindUnexpected, prefix...)
	}
	switch kind {
	case syntax.KindImportDecl:
		return p.parseImport(prefix)
	case syntax.KindProtocolDecl, syntax.KindClassDecl, syntax.KindStructDecl,
		syntax.KindEnumDecl, syntax.KindExtensionDecl, syntax.KindActorDecl:
		return p.parseTypeDecl(kind, prefix)
	case syntax.KindFunctionDecl, syntax.KindInitializerDecl, syntax.KindSubscriptDecl:
		return p.parseFunctionLike(kind, prefix)
	case syntax.KindDeinitializerDecl:
		children := append(prefix, p.advance())
		children = append(children, p.parseCodeBlock())
		return syntax.NewNode(kind, children...)
	case syntax.KindVariableDecl:
		return p.parseVariable(prefix)
	case syntax.KindEnumCaseDecl:
		return p.parseRawLine(kind, append(prefix, p.advance()))
	default:
		return p.parseRawLine(kind, append(prefix, p.advance()))
	}
}

func (p *parser) parseImport(prefix []*syntax.Node) *syntax.Node {
	children := append(prefix, p.advance())
	for !p.atEOF() && !p.onNewLine() {
		switch p.kind() {
		case syntax.TokenIdentifier, syntax.TokenKeyword, syntax.TokenPeriod:
			children = append(children, p.advance())
			continue
		}
		break
	}
	return syntax.NewNode(syntax.KindImportDecl, children...)
}

func (p *parser) parseTypeDecl(kind syntax.Kind, prefix []*syntax.Node) *syntax.Node {
	children := append(prefix, p.advance())
	if kind == syntax.KindExtensionDecl {
		children = append(children, p.parseType())
	} else if p.at(syntax.TokenIdentifier) {
		children = append(children, p.advance())
	}
	if strings.HasPrefix(p.text(), "<") && p.kind().IsOperator() {
		children = append(children, p.parseGenericClause())
	}
	if p.at(syntax.TokenColon) {
		children = append(children, p.parseInheritance())
	}
	if p.atKeyword("where") {
		children = append(children, p.parseWhereClause())
	}
	if p.at(syntax.TokenLeftBrace) {
		children = append(children, p.parseMemberBlock())
	}
	return syntax.NewNode(kind, children...)
}

// parseGenericClause consumes <...> counting angle brackets inside operator
// tokens such as >>.
func (p *parser) parseGenericClause() *syntax.Node {
	var children []*syntax.Node
	depth := 0
	for !p.atEOF() {
		if p.kind().IsOperator() {
			depth += strings.Count(p.text(), "<") - strings.Count(p.text(), ">")
		}
		children = append(children, p.advance())
		if depth <= 0 {
			break
		}
	}
	return syntax.NewNode(syntax.KindGenericClause, children...)
}

func (p *parser) parseInheritance() *syntax.Node {
	children := []*syntax.Node{p.advance()}
	for {
		typ := p.parseType()
		if typ == nil {
			break
		}
		children = append(children, syntax.NewNode(syntax.KindInheritedType, typ))
		comma := p.eat(syntax.TokenComma)
		if comma == nil {
			break
		}
		children = append(children, comma)
	}
	return syntax.NewNode(syntax.KindInheritanceClause, children...)
}

// parseWhereClause consumes a generic where clause up to an opening brace.
func (p *parser) parseWhereClause() *syntax.Node {
	children := []*syntax.Node{p.advance()}
	depth := 0
	for !p.atEOF() {
		switch p.kind() {
		case syntax.TokenLeftBrace:
			if depth == 0 {
				return syntax.NewNode(syntax.KindWhereClause, children...)
			}
		case syntax.TokenRightBrace:
			if depth == 0 {
				return syntax.NewNode(syntax.KindWhereClause, children...)
			}
		case syntax.TokenLeftParen, syntax.TokenLeftBracket:
			depth++
		case syntax.TokenRightParen, syntax.TokenRightBracket:
			depth--
		}
		children = append(children, p.advance())
	}
	return syntax.NewNode(syntax.KindWhereClause, children...)
}

// parseType consumes a type as raw tokens, tracking bracket and angle depth.
// It stops at depth zero before a comma, colon, brace, closing bracket, an
// infix operator other than & or a generic opening, where, or a line break.
// It returns nil when no token is taken.
func (p *parser) parseType() *syntax.Node {
	var children []*syntax.Node
	depth := 0
loop:
	for !p.atEOF() {
		if depth == 0 {
			if len(children) > 0 && p.onNewLine() {
				break
			}
			switch p.kind() {
			case syntax.TokenComma, syntax.TokenColon, syntax.TokenLeftBrace, syntax.TokenRightBrace,
				syntax.TokenRightParen, syntax.TokenRightBracket, syntax.TokenSemicolon:
				break loop
			case syntax.TokenBinaryOperator:
				if p.text() != "&" && !strings.HasPrefix(p.text(), "<") {
					break loop
				}
			case syntax.TokenKeyword:
				if p.text() == "where" || p.text() == "in" {
					break loop
				}
			}
		}
		switch p.kind() {
		case syntax.TokenLeftParen, syntax.TokenLeftBracket:
			depth++
		case syntax.TokenRightParen, syntax.TokenRightBracket:
			depth--
		case syntax.TokenBinaryOperator, syntax.TokenPrefixOperator, syntax.TokenPostfixOperator:
			depth += strings.Count(p.text(), "<") - strings.Count(p.text(), ">")
			if depth < 0 {
				depth = 0
			}
		}
		children = append(children, p.advance())
	}
	if len(children) == 0 {
		return nil
	}
	return syntax.NewNode(syntax.KindType, children...)
}

// parseFunctionLike parses func, init and subscript declarations.
func (p *parser) parseFunctionLike(kind syntax.Kind, prefix []*syntax.Node) *syntax.Node {
	children := append(prefix, p.advance())
	switch kind {
	case syntax.KindFunctionDecl:
		if p.at(syntax.TokenIdentifier) || p.kind().IsOperator() || p.at(syntax.TokenKeyword) {
			children = append(children, p.advance())
		}
	case syntax.KindInitializerDecl:
		if p.at(syntax.TokenPostfixOperator) && (p.text() == "?" || p.text() == "!") {
			children = append(children, p.advance())
		}
	}
	if strings.HasPrefix(p.text(), "<") && p.kind().IsOperator() {
		children = append(children, p.parseGenericClause())
	}
	if p.at(syntax.TokenLeftParen) {
		children = append(children, p.parseBalanced(syntax.KindParameterClause))
	}
	if sig := p.parseSignature(); sig != nil {
		children = append(children, sig)
	}
	if p.atKeyword("where") {
		children = append(children, p.parseWhereClause())
	}
	if p.at(syntax.TokenLeftBrace) {
		children = append(children, p.parseCodeBlock())
	}
	return syntax.NewNode(kind, children...)
}

// parseSignature consumes effect specifiers and a return clause.
func (p *parser) parseSignature() *syntax.Node {
	var children []*syntax.Node
	for !p.atEOF() {
		switch {
		case p.atKeyword("throws"), p.atKeyword("rethrows"),
			p.at(syntax.TokenIdentifier) && (p.text() == "async" || p.text() == "reasync"):
			children = append(children, p.advance())
			if p.at(syntax.TokenLeftParen) && p.cur().LeadingTrivia().Len() == 0 {
				children = append(children, p.parseBalanced(syntax.KindUnexpected))
			}
			continue
		case p.at(syntax.TokenArrow):
			children = append(children, p.advance())
			children = append(children, p.parseType())
			continue
		}
		break
	}
	if len(children) == 0 {
		return nil
	}
	return syntax.NewNode(syntax.KindSignature, children...)
}

// parseVariable parses var and let with one or more bindings.
func (p *parser) parseVariable(prefix []*syntax.Node) *syntax.Node {
	children := append(prefix, p.advance())
	for {
		if pat := p.parsePattern(); pat != nil {
			children = append(children, pat)
		}
		if p.at(syntax.TokenColon) {
			colon := p.advance()
			children = append(children, syntax.NewNode(syntax.KindTypeAnnotation, colon, p.parseType()))
		}
		if p.atBinary("=") {
			eq := p.advance()
			children = append(children, syntax.NewNode(syntax.KindInitializerClause, eq, p.parseExpr(false)))
		}
		if p.at(syntax.TokenLeftBrace) {
			children = append(children, p.parseCodeBlock())
		}
		comma := p.eat(syntax.TokenComma)
		if comma == nil {
			break
		}
		children = append(children, comma)
	}
	return syntax.NewNode(syntax.KindVariableDecl, children...)
}

func (p *parser) parsePattern() *syntax.Node {
	switch p.kind() {
	case syntax.TokenIdentifier, syntax.TokenKeyword:
		return syntax.NewNode(syntax.KindPattern, p.advance())
	case syntax.TokenLeftParen:
		return p.parseBalanced(syntax.KindPattern)
	}
	return nil
}
