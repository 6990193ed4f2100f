package syntax_test

import (
	"strings"
	"testing"

	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/syntax/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shape renders a folded expression with explicit grouping.
func shape(n *syntax.Node) string {
	switch n.Kind() {
	case syntax.KindInfixOperatorExpr:
		return "(" + shape(n.Child(0)) + " " + n.Child(1).TrimmedText() + " " + shape(n.Child(2)) + ")"
	case syntax.KindTernaryExpr:
		return "(" + shape(n.Child(0)) + " ? " + shape(n.Child(2)) + " : " + shape(n.Child(4)) + ")"
	default:
		return strings.TrimSpace(n.TrimmedText())
	}
}

func sequenceOf(t *testing.T, expr string) *syntax.Node {
	t.Helper()
	root := parser.Parse([]byte("_ = " + expr))
	seq := root.Child(0)
	require.Equal(t, syntax.KindSequenceExpr, seq.Kind(), "expression %q", expr)
	return seq
}

func TestFold_Precedence_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		expr     string
		expected string
	}{
		{expr: "a + b * c", expected: "(_ = (a + (b * c)))"},
		{expr: "a * b + c", expected: "(_ = ((a * b) + c))"},
		{expr: "1 + 1 == 1 + 2", expected: "(_ = ((1 + 1) == (1 + 2)))"},
		{expr: "a - b - c", expected: "(_ = ((a - b) - c))"},
		{expr: "a ?? b ?? c", expected: "(_ = (a ?? (b ?? c)))"},
		{expr: "a && b || c && d", expected: "(_ = ((a && b) || (c && d)))"},
		{expr: "x == y ? 1 : 2", expected: "(_ = ((x == y) ? 1 : 2))"},
		{expr: "a ? b : c ? d : e", expected: "(_ = (a ? b : (c ? d : e)))"},
		{expr: "a <<< b + c", expected: "(_ = (a <<< (b + c)))"},
	}
	table := syntax.StandardOperators()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()
			seq := sequenceOf(t, tt.expr)
			folded := syntax.Fold(seq, table)

			assert.Equal(t, tt.expected, shape(folded))
			assert.Equal(t, seq.Text(), folded.Text(), "folding preserves text")
			assert.Equal(t, seq.FullStart(), folded.FullStart())
		})
	}
}

func TestFold_Cast_Success(t *testing.T) {
	t.Parallel()
	seq := sequenceOf(t, "a as? Int ?? 0")
	folded := syntax.Fold(seq, syntax.StandardOperators())

	rhs := folded.Child(2)
	require.Equal(t, syntax.KindInfixOperatorExpr, rhs.Kind())
	inner := rhs.Child(0)
	require.Equal(t, syntax.KindInfixOperatorExpr, inner.Kind())
	assert.Equal(t, syntax.KindCastOperator, inner.Child(1).Kind())
}

func TestFold_NonSequence_Unchanged_Success(t *testing.T) {
	t.Parallel()
	root := parser.Parse([]byte("foo()"))
	call := root.Child(0)

	assert.Same(t, call, syntax.Fold(call, syntax.StandardOperators()))
}

func TestFoldAll_Success(t *testing.T) {
	t.Parallel()
	src := "if a + b == c { x = y * 2 }\nfoo(1 + 2 * 3)\n"
	root := parser.Parse([]byte(src))
	folded := syntax.FoldAll(root, syntax.StandardOperators())

	assert.Equal(t, src, folded.Text())
	var remaining, infix int
	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		switch n.Kind() {
		case syntax.KindSequenceExpr:
			remaining++
		case syntax.KindInfixOperatorExpr:
			infix++
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(folded)
	assert.Zero(t, remaining)
	assert.Equal(t, 6, infix)
}
