package treesitter_test

import (
	"testing"

	"github.com/smacker/go-tree-sitter/golang"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/syntax/treesitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goParser() *treesitter.Parser {
	return treesitter.New(golang.GetLanguage(), map[string]syntax.Kind{
		"source_file":          syntax.KindSourceFile,
		"function_declaration": syntax.KindFunctionDecl,
		"block":                syntax.KindCodeBlock,
	})
}

func TestParser_Go_RoundTrip_Success(t *testing.T) {
	t.Parallel()
	sources := []string{
		"package main\n",
		"package main\n\n// hello\nfunc main() {}\n",
		"package main   \n\n/* block */ func f(a int) int {\n\treturn a * 2 // double\n}\n",
		"",
	}
	for _, src := range sources {
		root, err := goParser().Parse(t.Context(), []byte(src))
		require.NoError(t, err)
		assert.Equal(t, src, root.Text())
		assert.Equal(t, syntax.KindSourceFile, root.Kind())
	}
}

func TestParser_Go_CommentsBecomeTrivia_Success(t *testing.T) {
	t.Parallel()
	src := "package main\n\n// hello\nfunc main() {}\n"
	root, err := goParser().Parse(t.Context(), []byte(src))
	require.NoError(t, err)

	var fn *syntax.Node
	for _, c := range root.Children() {
		if c.Kind() == syntax.KindFunctionDecl {
			fn = c
		}
	}
	require.NotNil(t, fn)
	assert.Equal(t, "function_declaration", fn.Name())

	first := fn.FirstToken()
	assert.Equal(t, "func", first.TokenText())
	assert.Equal(t, syntax.TokenKeyword, first.TokenKind())
	assert.True(t, first.LeadingTrivia().HasComments())
	assert.Equal(t, 23, first.Start())

	for _, tok := range root.Tokens() {
		assert.NotContains(t, tok.TokenText(), "//")
	}
}

func TestParser_Go_TrailingTriviaStopsAtNewline_Success(t *testing.T) {
	t.Parallel()
	src := "package main \t\nvar x = 1\n"
	root, err := goParser().Parse(t.Context(), []byte(src))
	require.NoError(t, err)

	tokens := root.Tokens()
	require.GreaterOrEqual(t, len(tokens), 3)
	assert.Equal(t, "main", tokens[1].TokenText())
	assert.Equal(t, " \t", tokens[1].TrailingTrivia().String())
	assert.Equal(t, "\n", tokens[2].LeadingTrivia().String())
	assert.Equal(t, syntax.TokenEOF, tokens[len(tokens)-1].TokenKind())
}

func TestParser_Swift_RoundTrip_Success(t *testing.T) {
	t.Parallel()
	src := "// swiftlint:disable todo\nstruct S {\n    let a = 1 \n}\n"
	root, err := treesitter.NewSwift().Parse(t.Context(), []byte(src))
	require.NoError(t, err)

	assert.Equal(t, src, root.Text())
	assert.True(t, root.FirstToken().LeadingTrivia().HasComments())
}

func TestParser_Name_Success(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "tree-sitter", goParser().Name())
	assert.Equal(t, "tree-sitter-swift", treesitter.NewSwift().Name())
}
