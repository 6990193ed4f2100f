package syntax

// TokenKind classifies the text of a token.
type TokenKind uint8

const (
	TokenUnknown TokenKind = iota
	TokenEOF
	TokenIdentifier
	TokenKeyword
	TokenIntegerLiteral
	TokenFloatLiteral
	TokenStringLiteral
	TokenBinaryOperator
	TokenPrefixOperator
	TokenPostfixOperator
	TokenLeftParen
	TokenRightParen
	TokenLeftBrace
	TokenRightBrace
	TokenLeftBracket
	TokenRightBracket
	TokenComma
	TokenColon
	TokenSemicolon
	TokenPeriod
	TokenArrow
	TokenAtSign
	TokenPound
	TokenBackslash
)

var tokenKindNames = [...]string{
	TokenUnknown:         "unknown",
	TokenEOF:             "eof",
	TokenIdentifier:      "identifier",
	TokenKeyword:         "keyword",
	TokenIntegerLiteral:  "integer_literal",
	TokenFloatLiteral:    "float_literal",
	TokenStringLiteral:   "string_literal",
	TokenBinaryOperator:  "binary_operator",
	TokenPrefixOperator:  "prefix_operator",
	TokenPostfixOperator: "postfix_operator",
	TokenLeftParen:       "l_paren",
	TokenRightParen:      "r_paren",
	TokenLeftBrace:       "l_brace",
	TokenRightBrace:      "r_brace",
	TokenLeftBracket:     "l_bracket",
	TokenRightBracket:    "r_bracket",
	TokenComma:           "comma",
	TokenColon:           "colon",
	TokenSemicolon:       "semicolon",
	TokenPeriod:          "period",
	TokenArrow:           "arrow",
	TokenAtSign:          "at_sign",
	TokenPound:           "pound",
	TokenBackslash:       "backslash",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "unknown"
}

// IsOperator reports whether k is a binary, prefix or postfix operator.
func (k TokenKind) IsOperator() bool {
	return k == TokenBinaryOperator || k == TokenPrefixOperator || k == TokenPostfixOperator
}

// IsLiteral reports whether k is a number or string literal.
func (k TokenKind) IsLiteral() bool {
	return k == TokenIntegerLiteral || k == TokenFloatLiteral || k == TokenStringLiteral
}
