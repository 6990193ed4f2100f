package parser

import (
	"unicode"
	"unicode/utf8"
)

// cursor walks the source one byte at a time.
type cursor struct {
	src []byte
	off int
}

func (c *cursor) eof() bool { return c.off >= len(c.src) }

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.off]
}

func (c *cursor) peekAt(n int) byte {
	if c.off+n >= len(c.src) || c.off+n < 0 {
		return 0
	}
	return c.src[c.off+n]
}

func (c *cursor) hasPrefix(s string) bool {
	return len(c.src)-c.off >= len(s) && string(c.src[c.off:c.off+len(s)]) == s
}

func (c *cursor) bump() { c.off++ }

// rune decodes the rune at the cursor.
func (c *cursor) rune() (rune, int) {
	if c.eof() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(c.src[c.off:])
}

func (c *cursor) text(start int) string { return string(c.src[start:c.off]) }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || (r > utf8.RuneSelf && unicode.Is(unicode.So, r))
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isOperatorChar(b byte) bool {
	switch b {
	case '/', '=', '-', '+', '!', '*', '%', '<', '>', '&', '|', '^', '~', '?':
		return true
	default:
		return false
	}
}

// Whitespace-like neighbours that leave an operator unbound on that side.
func isLeftDelimiter(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '(', '[', '{', ',', ';', ':', 0:
		return true
	default:
		return false
	}
}

func isRightDelimiter(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', ')', ']', '}', ',', ';', ':', 0:
		return true
	default:
		return false
	}
}
