package syntax_test

import (
	"testing"

	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/syntax/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spaces(s string) syntax.Trivia {
	return syntax.Trivia{{Kind: syntax.TriviaSpaces, Text: s}}
}

func TestNode_Positions_Success(t *testing.T) {
	t.Parallel()
	let := syntax.NewTokenAt(0, syntax.TokenKeyword, "let", spaces("  "), spaces(" "))
	name := syntax.NewTokenAt(6, syntax.TokenIdentifier, "x", nil, spaces("\t"))
	decl := syntax.NewNode(syntax.KindVariableDecl, let, name)

	assert.Equal(t, 0, decl.FullStart())
	assert.Equal(t, 2, decl.Start())
	assert.Equal(t, 7, decl.End())
	assert.Equal(t, 8, decl.FullEnd())
	assert.Equal(t, "  let x\t", decl.Text())
	assert.Equal(t, "let x", decl.TrimmedText())
	assert.Equal(t, []string{"let", "x"}, decl.TokenTexts())
	assert.Equal(t, syntax.NodeID{Kind: syntax.KindVariableDecl, Offset: 0}, decl.ID())
}

func TestNode_NilChildrenDropped_Success(t *testing.T) {
	t.Parallel()
	tok := syntax.NewTokenAt(3, syntax.TokenIdentifier, "a", nil, nil)
	n := syntax.NewNode(syntax.KindPattern, nil, tok, nil)

	assert.Equal(t, 1, n.NumChildren())
	assert.Equal(t, 3, n.FullStart())
	assert.Nil(t, n.Child(5))
}

func TestNode_SyntheticOffsetDerivedFromSibling_Success(t *testing.T) {
	t.Parallel()
	synthetic := syntax.NewToken(syntax.TokenIdentifier, "ab", nil, nil)
	real := syntax.NewTokenAt(10, syntax.TokenIdentifier, "c", nil, nil)
	n := syntax.NewNode(syntax.KindType, synthetic, real)

	assert.Equal(t, 8, n.FullStart(), "offset derives from the first positioned child")
	assert.Equal(t, -1, synthetic.Start())
}

func TestNode_WithText_KeepsOriginal_Success(t *testing.T) {
	t.Parallel()
	root := parser.Parse([]byte("protocol P: class {}"))
	var class *syntax.Node
	for _, tok := range root.Tokens() {
		if tok.IsKeyword("class") {
			class = tok
		}
	}
	require.NotNil(t, class)

	replaced := class.WithTokenKind(syntax.TokenIdentifier, "AnyObject")
	updated := root.Replace(class, replaced)

	assert.Equal(t, "protocol P: AnyObject {}", updated.Text())
	assert.Equal(t, "protocol P: class {}", root.Text(), "original tree is unchanged")
	assert.Equal(t, class.Start(), replaced.Start(), "replacement keeps the original position")
}

func TestNode_Replace_SharesUnchangedSubtrees_Success(t *testing.T) {
	t.Parallel()
	root := parser.Parse([]byte("let a = 1\nlet b = 2\n"))
	first, second := root.Child(0), root.Child(1)
	require.Equal(t, syntax.KindVariableDecl, first.Kind())
	require.Equal(t, syntax.KindVariableDecl, second.Kind())

	two := second.LastToken()
	updated := root.Replace(two, two.WithText("3"))

	assert.Equal(t, "let a = 1\nlet b = 3\n", updated.Text())
	assert.Same(t, first, updated.Child(0), "untouched sibling is shared by pointer")
	assert.NotSame(t, second, updated.Child(1))
	assert.Same(t, root.Child(2), updated.Child(2), "EOF token is shared")
}

func TestNode_Replace_NotFound_ReturnsSame_Success(t *testing.T) {
	t.Parallel()
	root := parser.Parse([]byte("let a = 1"))
	orphan := syntax.NewToken(syntax.TokenIdentifier, "z", nil, nil)

	assert.Same(t, root, root.Replace(orphan, orphan.WithText("y")))
}

func TestNode_WithChild_Remove_Success(t *testing.T) {
	t.Parallel()
	root := parser.Parse([]byte("let a = 0; let b = 1"))
	var idx = -1
	for i, c := range root.Children() {
		if c.TokenKind() == syntax.TokenSemicolon {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)

	updated := root.WithChild(idx, nil)
	assert.Equal(t, "let a = 0let b = 1", updated.Text(), "the semicolon takes its trailing trivia with it")
	assert.Equal(t, root.NumChildren()-1, updated.NumChildren())
}

func TestNode_TriviaEdits_Success(t *testing.T) {
	t.Parallel()
	root := parser.Parse([]byte("  foo()  "))
	call := root.Child(0)
	require.Equal(t, syntax.KindFunctionCallExpr, call.Kind())

	trimmed := call.WithLeadingTrivia(nil).WithTrailingTrivia(nil)
	assert.Equal(t, "foo()", trimmed.Text())
	assert.Equal(t, "  foo()  ", call.Text())
}

func TestNode_FirstAndLastToken_Success(t *testing.T) {
	t.Parallel()
	root := parser.Parse([]byte("a.b(c)"))

	assert.Equal(t, "a", root.FirstToken().TokenText())
	assert.Equal(t, syntax.TokenEOF, root.LastToken().TokenKind())
	assert.Nil(t, syntax.NewNode(syntax.KindUnexpected).FirstToken())
}

func TestKind_Classification_Success(t *testing.T) {
	t.Parallel()
	assert.True(t, syntax.KindProtocolDecl.IsDecl())
	assert.True(t, syntax.KindProtocolDecl.IsTypeDecl())
	assert.False(t, syntax.KindFunctionDecl.IsTypeDecl())
	assert.True(t, syntax.KindWhileStmt.IsLoop())
	assert.True(t, syntax.KindBreakStmt.IsStmt())
	assert.True(t, syntax.KindForceUnwrapExpr.IsExpr())
	assert.Equal(t, "labeled_stmt", syntax.KindLabeledStmt.String())
	assert.Equal(t, "unknown", syntax.Kind(9999).String())
	assert.Contains(t, syntax.Kinds(), syntax.KindLabel)
}
