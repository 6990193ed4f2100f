package parser

import (
	"github.com/speakeasy-api/swiftlint/syntax"
)

var keywords = map[string]struct{}{
	"associatedtype": {}, "class": {}, "deinit": {}, "enum": {}, "extension": {},
	"fileprivate": {}, "func": {}, "import": {}, "init": {}, "inout": {},
	"internal": {}, "let": {}, "open": {}, "operator": {}, "private": {},
	"precedencegroup": {}, "protocol": {}, "public": {}, "rethrows": {},
	"static": {}, "struct": {}, "subscript": {}, "typealias": {}, "var": {},
	"break": {}, "case": {}, "catch": {}, "continue": {}, "default": {},
	"defer": {}, "do": {}, "else": {}, "fallthrough": {}, "for": {},
	"guard": {}, "if": {}, "in": {}, "repeat": {}, "return": {}, "throw": {},
	"switch": {}, "where": {}, "while": {}, "as": {}, "false": {}, "is": {},
	"nil": {}, "self": {}, "Self": {}, "super": {}, "throws": {}, "true": {},
	"try": {}, "await": {}, "_": {},
}

type lexer struct {
	c      cursor
	tokens []*syntax.Node
}

// lex splits src into tokens with attached trivia. The final token is an EOF
// token carrying any trailing trivia of the file. Every byte of src belongs to
// exactly one token or trivia piece.
func lex(src []byte) []*syntax.Node {
	lx := &lexer{c: cursor{src: src}}
	for {
		fullStart := lx.c.off
		leading := lx.scanTrivia(false)
		if lx.c.eof() {
			lx.tokens = append(lx.tokens, syntax.NewTokenAt(fullStart, syntax.TokenEOF, "", leading, nil))
			return lx.tokens
		}
		start := lx.c.off
		kind := lx.scanToken()
		text := lx.c.text(start)
		trailing := lx.scanTrivia(true)
		lx.tokens = append(lx.tokens, syntax.NewTokenAt(fullStart, kind, text, leading, trailing))
	}
}

func (lx *lexer) scanToken() syntax.TokenKind {
	b := lx.c.peek()
	switch b {
	case '(':
		lx.c.bump()
		return syntax.TokenLeftParen
	case ')':
		lx.c.bump()
		return syntax.TokenRightParen
	case '{':
		lx.c.bump()
		return syntax.TokenLeftBrace
	case '}':
		lx.c.bump()
		return syntax.TokenRightBrace
	case '[':
		lx.c.bump()
		return syntax.TokenLeftBracket
	case ']':
		lx.c.bump()
		return syntax.TokenRightBracket
	case ',':
		lx.c.bump()
		return syntax.TokenComma
	case ':':
		lx.c.bump()
		return syntax.TokenColon
	case ';':
		lx.c.bump()
		return syntax.TokenSemicolon
	case '@':
		lx.c.bump()
		return syntax.TokenAtSign
	case '\\':
		lx.c.bump()
		return syntax.TokenBackslash
	case '"':
		lx.scanString(0)
		return syntax.TokenStringLiteral
	case '#':
		return lx.scanPound()
	case '`':
		return lx.scanBacktickIdentifier()
	case '$':
		lx.c.bump()
		lx.scanIdentifierTail()
		return syntax.TokenIdentifier
	case '.':
		if lx.c.peekAt(1) == '.' {
			return lx.scanOperator()
		}
		lx.c.bump()
		return syntax.TokenPeriod
	}
	if b >= '0' && b <= '9' {
		return lx.scanNumber()
	}
	if b == '-' && lx.c.peekAt(1) == '>' {
		lx.c.off += 2
		return syntax.TokenArrow
	}
	if isOperatorChar(b) {
		return lx.scanOperator()
	}
	if r, size := lx.c.rune(); isIdentStart(r) {
		start := lx.c.off
		lx.c.off += size
		lx.scanIdentifierTail()
		if _, ok := keywords[lx.c.text(start)]; ok {
			return syntax.TokenKeyword
		}
		return syntax.TokenIdentifier
	}
	_, size := lx.c.rune()
	if size == 0 {
		size = 1
	}
	lx.c.off += size
	return syntax.TokenUnknown
}

func (lx *lexer) scanIdentifierTail() {
	for !lx.c.eof() {
		r, size := lx.c.rune()
		if !isIdentContinue(r) {
			return
		}
		lx.c.off += size
	}
}

func (lx *lexer) scanBacktickIdentifier() syntax.TokenKind {
	lx.c.bump()
	for !lx.c.eof() {
		switch lx.c.peek() {
		case '`':
			lx.c.bump()
			return syntax.TokenIdentifier
		case '\n', '\r':
			return syntax.TokenUnknown
		}
		lx.c.bump()
	}
	return syntax.TokenUnknown
}

// scanPound handles #keywords and raw strings (#"..."#).
func (lx *lexer) scanPound() syntax.TokenKind {
	hashes := 0
	for lx.c.peekAt(hashes) == '#' {
		hashes++
	}
	if lx.c.peekAt(hashes) == '"' {
		lx.c.off += hashes
		lx.scanString(hashes)
		return syntax.TokenStringLiteral
	}
	lx.c.bump()
	if r, _ := lx.c.rune(); isIdentStart(r) {
		lx.scanIdentifierTail()
	}
	return syntax.TokenPound
}

func (lx *lexer) scanNumber() syntax.TokenKind {
	kind := syntax.TokenIntegerLiteral
	if lx.c.peek() == '0' {
		switch lx.c.peekAt(1) {
		case 'x', 'X', 'b', 'B', 'o', 'O':
			lx.c.off += 2
			for isHexDigit(lx.c.peek()) || lx.c.peek() == '_' {
				lx.c.bump()
			}
			return kind
		}
	}
	lx.scanDigits()
	if lx.c.peek() == '.' && isDigit(lx.c.peekAt(1)) {
		kind = syntax.TokenFloatLiteral
		lx.c.bump()
		lx.scanDigits()
	}
	if b := lx.c.peek(); b == 'e' || b == 'E' {
		next := lx.c.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(lx.c.peekAt(2))) {
			kind = syntax.TokenFloatLiteral
			lx.c.off += 2
			lx.scanDigits()
		}
	}
	return kind
}

func (lx *lexer) scanDigits() {
	for b := lx.c.peek(); isDigit(b) || b == '_'; b = lx.c.peek() {
		lx.c.bump()
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// scanOperator applies maximal munch, then classifies the operator by the
// whitespace around it: bound on both sides or neither is binary, bound only
// on the left is postfix and bound only on the right is prefix.
func (lx *lexer) scanOperator() syntax.TokenKind {
	start := lx.c.off
	dotted := lx.c.peek() == '.'
	for !lx.c.eof() {
		b := lx.c.peek()
		if b == '/' && (lx.c.peekAt(1) == '/' || lx.c.peekAt(1) == '*') && lx.c.off > start {
			break
		}
		if isOperatorChar(b) || (dotted && b == '.') {
			lx.c.bump()
			continue
		}
		break
	}

	var prev byte
	if start > 0 {
		prev = lx.c.src[start-1]
	}
	leftBound := start > 0 && !isLeftDelimiter(prev) && !lx.afterComment(start)
	rightBound := !isRightDelimiter(lx.c.peek()) && !lx.c.hasPrefix("//") && !lx.c.hasPrefix("/*")

	text := lx.c.text(start)
	if leftBound && (text[0] == '?' || text[0] == '!') && !isComparison(text) {
		// A left-bound ? or ! is always a single character postfix operator.
		lx.c.off = start + 1
		return syntax.TokenPostfixOperator
	}
	if leftBound && lx.c.peek() == '.' {
		return syntax.TokenPostfixOperator
	}

	switch {
	case leftBound == rightBound:
		return syntax.TokenBinaryOperator
	case leftBound:
		return syntax.TokenPostfixOperator
	default:
		return syntax.TokenPrefixOperator
	}
}

func isComparison(op string) bool {
	switch op {
	case "!=", "!==", "??", "??=", "?=":
		return true
	default:
		return false
	}
}

func (lx *lexer) afterComment(start int) bool {
	return start >= 2 && lx.c.src[start-1] == '/' && lx.c.src[start-2] == '*'
}

// scanString consumes a single or triple quoted string with the given number
// of raw-string delimiters, honouring escapes and nested interpolations.
// Unterminated single line strings stop at the line break.
func (lx *lexer) scanString(hashes int) {
	multiline := lx.c.hasPrefix(`"""`)
	if multiline {
		lx.c.off += 3
	} else {
		lx.c.bump()
	}
	for !lx.c.eof() {
		b := lx.c.peek()
		switch {
		case !multiline && (b == '\n' || b == '\r'):
			return
		case b == '\\' && lx.closesRaw(lx.c.off+1, hashes):
			lx.c.off += 1 + hashes
			if lx.c.peek() == '(' {
				lx.scanInterpolation()
			} else if !lx.c.eof() {
				lx.c.bump()
			}
		case b == '"':
			quotes := 1
			if multiline {
				quotes = 3
				if !lx.c.hasPrefix(`"""`) {
					lx.c.bump()
					continue
				}
			}
			if lx.closesRaw(lx.c.off+quotes, hashes) {
				lx.c.off += quotes + hashes
				return
			}
			lx.c.bump()
		default:
			lx.c.bump()
		}
	}
}

func (lx *lexer) closesRaw(at, hashes int) bool {
	for i := 0; i < hashes; i++ {
		if at+i >= len(lx.c.src) || lx.c.src[at+i] != '#' {
			return false
		}
	}
	return true
}

// scanInterpolation consumes a balanced \( ... ) group, including nested
// string literals.
func (lx *lexer) scanInterpolation() {
	depth := 0
	for !lx.c.eof() {
		switch lx.c.peek() {
		case '(':
			depth++
			lx.c.bump()
		case ')':
			depth--
			lx.c.bump()
			if depth == 0 {
				return
			}
		case '"':
			lx.scanString(0)
		case '\n', '\r':
			return
		default:
			lx.c.bump()
		}
	}
}
