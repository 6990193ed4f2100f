package parser

import "github.com/speakeasy-api/swiftlint/syntax"

// scanTrivia collects trivia at the cursor. Trailing trivia stops before the
// first line break so that every newline belongs to the next token.
func (lx *lexer) scanTrivia(trailing bool) syntax.Trivia {
	var out syntax.Trivia
	for !lx.c.eof() {
		start := lx.c.off
		switch b := lx.c.peek(); {
		case b == ' ' || b == '\f' || b == '\v':
			for b := lx.c.peek(); b == ' ' || b == '\f' || b == '\v'; b = lx.c.peek() {
				lx.c.bump()
			}
			out = append(out, syntax.TriviaPiece{Kind: syntax.TriviaSpaces, Text: lx.c.text(start)})
		case b == '\t':
			for lx.c.peek() == '\t' {
				lx.c.bump()
			}
			out = append(out, syntax.TriviaPiece{Kind: syntax.TriviaTabs, Text: lx.c.text(start)})
		case b == '\n' || b == '\r':
			if trailing {
				return out
			}
			for b := lx.c.peek(); b == '\n' || b == '\r'; b = lx.c.peek() {
				lx.c.bump()
			}
			out = append(out, syntax.TriviaPiece{Kind: syntax.TriviaNewlines, Text: lx.c.text(start)})
		case b == '/' && lx.c.peekAt(1) == '/':
			kind := syntax.TriviaLineComment
			if lx.c.peekAt(2) == '/' {
				kind = syntax.TriviaDocLineComment
			}
			for b := lx.c.peek(); !lx.c.eof() && b != '\n' && b != '\r'; b = lx.c.peek() {
				lx.c.bump()
			}
			out = append(out, syntax.TriviaPiece{Kind: kind, Text: lx.c.text(start)})
		case b == '/' && lx.c.peekAt(1) == '*':
			kind := syntax.TriviaBlockComment
			if lx.c.peekAt(2) == '*' && lx.c.peekAt(3) != '/' {
				kind = syntax.TriviaDocBlockComment
			}
			lx.scanBlockComment()
			out = append(out, syntax.TriviaPiece{Kind: kind, Text: lx.c.text(start)})
		case b == '#' && lx.c.peekAt(1) == '!' && start == 0:
			for b := lx.c.peek(); !lx.c.eof() && b != '\n'; b = lx.c.peek() {
				lx.c.bump()
			}
			out = append(out, syntax.TriviaPiece{Kind: syntax.TriviaLineComment, Text: lx.c.text(start)})
		default:
			return out
		}
	}
	return out
}

// scanBlockComment consumes a possibly nested block comment. An unterminated
// comment runs to the end of input.
func (lx *lexer) scanBlockComment() {
	depth := 0
	for !lx.c.eof() {
		switch {
		case lx.c.hasPrefix("/*"):
			depth++
			lx.c.off += 2
		case lx.c.hasPrefix("*/"):
			depth--
			lx.c.off += 2
			if depth == 0 {
				return
			}
		default:
			lx.c.bump()
		}
	}
}
