package syntax

import "strings"

// TriviaKind classifies a piece of trivia.
type TriviaKind uint8

const (
	TriviaSpaces TriviaKind = iota
	TriviaTabs
	TriviaNewlines
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLineComment
	TriviaDocBlockComment
	TriviaUnexpected
)

var triviaKindNames = [...]string{
	TriviaSpaces:          "spaces",
	TriviaTabs:            "tabs",
	TriviaNewlines:        "newlines",
	TriviaLineComment:     "line_comment",
	TriviaBlockComment:    "block_comment",
	TriviaDocLineComment:  "doc_line_comment",
	TriviaDocBlockComment: "doc_block_comment",
	TriviaUnexpected:      "unexpected",
}

func (k TriviaKind) String() string {
	if int(k) < len(triviaKindNames) {
		return triviaKindNames[k]
	}
	return "unknown"
}

// IsComment reports whether k is any kind of comment.
func (k TriviaKind) IsComment() bool {
	switch k {
	case TriviaLineComment, TriviaBlockComment, TriviaDocLineComment, TriviaDocBlockComment:
		return true
	default:
		return false
	}
}

// IsWhitespace reports whether k is horizontal whitespace.
func (k TriviaKind) IsWhitespace() bool {
	return k == TriviaSpaces || k == TriviaTabs
}

// TriviaPiece is one run of trivia text.
type TriviaPiece struct {
	Kind TriviaKind
	Text string
}

// Trivia is the ordered list of pieces attached to one side of a token.
type Trivia []TriviaPiece

// Len returns the byte length of the trivia.
func (t Trivia) Len() int {
	n := 0
	for _, p := range t {
		n += len(p.Text)
	}
	return n
}

func (t Trivia) String() string {
	var sb strings.Builder
	for _, p := range t {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// ContainsNewline reports whether any piece is a newline or a comment
// spanning lines.
func (t Trivia) ContainsNewline() bool {
	for _, p := range t {
		if p.Kind == TriviaNewlines {
			return true
		}
		if p.Kind.IsComment() && strings.ContainsAny(p.Text, "\n\r") {
			return true
		}
	}
	return false
}

// HasComments reports whether any piece is a comment.
func (t Trivia) HasComments() bool {
	for _, p := range t {
		if p.Kind.IsComment() {
			return true
		}
	}
	return false
}

// PieceOffsets calls fn for every piece with its absolute offset given the
// offset of the first piece.
func (t Trivia) PieceOffsets(start int, fn func(offset int, piece TriviaPiece)) {
	off := start
	for _, p := range t {
		fn(off, p)
		off += len(p.Text)
	}
}
