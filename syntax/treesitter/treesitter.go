// Package treesitter converts tree-sitter parse trees into syntax trees so
// any grammar can feed the linter. Leaves become tokens, comment nodes and
// the gaps between leaves become trivia, and interior nodes keep their
// grammar type as the node name.
package treesitter

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/swift"

	"github.com/speakeasy-api/swiftlint/syntax"
)

// SwiftKinds maps tree-sitter-swift declaration, block and statement types
// onto syntax kinds. Expressions stay unmapped because their child layout
// differs from the native parser's.
var SwiftKinds = map[string]syntax.Kind{
	"source_file":                   syntax.KindSourceFile,
	"import_declaration":            syntax.KindImportDecl,
	"protocol_declaration":          syntax.KindProtocolDecl,
	"class_declaration":             syntax.KindClassDecl,
	"function_declaration":          syntax.KindFunctionDecl,
	"init_declaration":              syntax.KindInitializerDecl,
	"deinit_declaration":            syntax.KindDeinitializerDecl,
	"subscript_declaration":         syntax.KindSubscriptDecl,
	"property_declaration":          syntax.KindVariableDecl,
	"typealias_declaration":         syntax.KindTypeAliasDecl,
	"class_body":                    syntax.KindMemberBlock,
	"protocol_body":                 syntax.KindMemberBlock,
	"enum_class_body":               syntax.KindMemberBlock,
	"function_body":                 syntax.KindCodeBlock,
	"statements":                    syntax.KindCodeBlock,
	"for_statement":                 syntax.KindForStmt,
	"while_statement":               syntax.KindWhileStmt,
	"repeat_while_statement":        syntax.KindRepeatStmt,
	"if_statement":                  syntax.KindIfStmt,
	"guard_statement":               syntax.KindGuardStmt,
	"switch_statement":              syntax.KindSwitchStmt,
	"do_statement":                  syntax.KindDoStmt,
	"attribute":                     syntax.KindAttribute,
	"directive":                     syntax.KindDirective,
	"enum_entry":                    syntax.KindEnumCaseDecl,
	"protocol_property_declaration": syntax.KindVariableDecl,
	"protocol_function_declaration": syntax.KindFunctionDecl,
}

// Parser parses with one tree-sitter grammar.
type Parser struct {
	name  string
	lang  *sitter.Language
	kinds map[string]syntax.Kind
}

// New returns a parser for lang. kinds maps grammar node types to syntax
// kinds; unmapped types become KindUnknown nodes named after the type.
func New(lang *sitter.Language, kinds map[string]syntax.Kind) *Parser {
	return &Parser{name: "tree-sitter", lang: lang, kinds: kinds}
}

// NewSwift returns a parser using the tree-sitter-swift grammar.
func NewSwift() *Parser {
	p := New(swift.GetLanguage(), SwiftKinds)
	p.name = "tree-sitter-swift"
	return p
}

func (p *Parser) Name() string { return p.name }

func (p *Parser) Parse(ctx context.Context, src []byte) (*syntax.Node, error) {
	// A parser instance is not safe for concurrent use; allocate per call.
	tsParser := sitter.NewParser()
	tsParser.SetLanguage(p.lang)

	tree, err := tsParser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("tree-sitter returned no root node")
	}

	c := &converter{src: src, kinds: p.kinds}
	c.collect(root)
	c.attachTrivia()

	var children []*syntax.Node
	switch out := c.build(root); {
	case out == nil:
	case out.IsToken():
		children = append(children, out)
	default:
		children = append(children, out.Children()...)
	}
	children = append(children, c.eof())
	return syntax.NewNamedNode(syntax.KindSourceFile, root.Type(), children...), nil
}

type leaf struct {
	start, end int
	typ        string
	named      bool
}

type converter struct {
	src      []byte
	kinds    map[string]syntax.Kind
	leaves   []leaf
	comments map[int]int
	tokens   []*syntax.Node
	next     int
	tail     syntax.Trivia
}

func isComment(typ string) bool { return strings.Contains(typ, "comment") }

// atomic node types are kept as one token even when the grammar gives them
// children.
func atomic(typ string) bool {
	return strings.Contains(typ, "string") || strings.HasSuffix(typ, "_literal") && !strings.Contains(typ, "lambda") && !strings.Contains(typ, "array") && !strings.Contains(typ, "dictionary")
}

func (c *converter) skippable(n *sitter.Node) bool {
	if n.IsMissing() || n.StartByte() == n.EndByte() {
		return true
	}
	return strings.TrimSpace(string(c.src[n.StartByte():n.EndByte()])) == "" && !n.IsNamed()
}

func (c *converter) collect(n *sitter.Node) {
	typ := n.Type()
	switch {
	case isComment(typ):
		if c.comments == nil {
			c.comments = map[int]int{}
		}
		c.comments[int(n.StartByte())] = int(n.EndByte())
		return
	case c.skippable(n):
		return
	case n.ChildCount() == 0 || atomic(typ):
		c.leaves = append(c.leaves, leaf{start: int(n.StartByte()), end: int(n.EndByte()), typ: typ, named: n.IsNamed()})
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c.collect(n.Child(i))
	}
}

// attachTrivia turns the gaps between leaves into trivia. Text after a
// token up to the next line break trails it; the rest leads the next token.
func (c *converter) attachTrivia() {
	c.tokens = make([]*syntax.Node, len(c.leaves))
	prevEnd := 0
	var leading syntax.Trivia
	for i, lf := range c.leaves {
		gap := c.trivia(prevEnd, lf.start)
		if i > 0 {
			trailing, rest := splitTrailing(gap)
			c.tokens[i-1] = c.tokens[i-1].WithTrailingTrivia(trailing)
			leading = rest
		} else {
			leading = gap
		}
		fullStart := 0
		if i > 0 {
			fullStart = c.tokens[i-1].FullEnd()
		}
		text := string(c.src[lf.start:lf.end])
		c.tokens[i] = syntax.NewTokenAt(fullStart, tokenKind(lf, text), text, leading, nil)
		prevEnd = lf.end
	}
	gap := c.trivia(prevEnd, len(c.src))
	if n := len(c.tokens); n > 0 {
		trailing, rest := splitTrailing(gap)
		c.tokens[n-1] = c.tokens[n-1].WithTrailingTrivia(trailing)
		gap = rest
	}
	c.tail = gap
}

func (c *converter) eof() *syntax.Node {
	start := 0
	if n := len(c.tokens); n > 0 {
		start = c.tokens[n-1].FullEnd()
	}
	return syntax.NewTokenAt(start, syntax.TokenEOF, "", c.tail, nil)
}

func splitTrailing(t syntax.Trivia) (trailing, rest syntax.Trivia) {
	for i, piece := range t {
		if piece.Kind == syntax.TriviaNewlines {
			return t[:i], t[i:]
		}
	}
	return t, nil
}

func (c *converter) trivia(start, end int) syntax.Trivia {
	var out syntax.Trivia
	for pos := start; pos < end; {
		if cend, ok := c.comments[pos]; ok && cend <= end {
			out = append(out, syntax.TriviaPiece{Kind: commentKind(string(c.src[pos:cend])), Text: string(c.src[pos:cend])})
			pos = cend
			continue
		}
		r, size := utf8.DecodeRune(c.src[pos:])
		kind := whitespaceKind(r)
		stop := pos + size
		for stop < end {
			if _, ok := c.comments[stop]; ok {
				break
			}
			nr, nsize := utf8.DecodeRune(c.src[stop:])
			if whitespaceKind(nr) != kind {
				break
			}
			stop += nsize
		}
		out = append(out, syntax.TriviaPiece{Kind: kind, Text: string(c.src[pos:stop])})
		pos = stop
	}
	return out
}

func whitespaceKind(r rune) syntax.TriviaKind {
	switch r {
	case ' ':
		return syntax.TriviaSpaces
	case '\t':
		return syntax.TriviaTabs
	case '\n', '\r':
		return syntax.TriviaNewlines
	}
	if unicode.IsSpace(r) {
		return syntax.TriviaSpaces
	}
	return syntax.TriviaUnexpected
}

func commentKind(text string) syntax.TriviaKind {
	switch {
	case strings.HasPrefix(text, "///"):
		return syntax.TriviaDocLineComment
	case strings.HasPrefix(text, "/**") && text != "/**/":
		return syntax.TriviaDocBlockComment
	case strings.HasPrefix(text, "/*"):
		return syntax.TriviaBlockComment
	default:
		return syntax.TriviaLineComment
	}
}

func tokenKind(lf leaf, text string) syntax.TokenKind {
	switch {
	case strings.Contains(lf.typ, "string"):
		return syntax.TokenStringLiteral
	case strings.Contains(lf.typ, "float") || strings.Contains(lf.typ, "real"):
		return syntax.TokenFloatLiteral
	case strings.Contains(lf.typ, "int") && strings.Contains(lf.typ, "literal"):
		return syntax.TokenIntegerLiteral
	}
	switch text {
	case "(":
		return syntax.TokenLeftParen
	case ")":
		return syntax.TokenRightParen
	case "{":
		return syntax.TokenLeftBrace
	case "}":
		return syntax.TokenRightBrace
	case "[":
		return syntax.TokenLeftBracket
	case "]":
		return syntax.TokenRightBracket
	case ",":
		return syntax.TokenComma
	case ":":
		return syntax.TokenColon
	case ";":
		return syntax.TokenSemicolon
	case ".":
		return syntax.TokenPeriod
	case "->":
		return syntax.TokenArrow
	case "@":
		return syntax.TokenAtSign
	case "\\":
		return syntax.TokenBackslash
	}
	first, _ := utf8.DecodeRuneInString(text)
	switch {
	case lf.named:
		return syntax.TokenIdentifier
	case first == '#':
		return syntax.TokenPound
	case unicode.IsLetter(first) || first == '_':
		return syntax.TokenKeyword
	default:
		return syntax.TokenBinaryOperator
	}
}

func (c *converter) build(n *sitter.Node) *syntax.Node {
	typ := n.Type()
	if isComment(typ) || c.skippable(n) {
		return nil
	}
	if n.ChildCount() == 0 || atomic(typ) {
		tok := c.tokens[c.next]
		c.next++
		return tok
	}
	children := make([]*syntax.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := c.build(n.Child(i)); child != nil {
			children = append(children, child)
		}
	}
	if len(children) == 0 {
		return nil
	}
	kind, ok := c.kinds[typ]
	switch {
	case n.IsError():
		kind = syntax.KindUnexpected
	case !ok:
		kind = syntax.KindUnknown
	}
	return syntax.NewNamedNode(kind, typ, children...)
}
