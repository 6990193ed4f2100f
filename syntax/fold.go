package syntax

// Associativity of a precedence group.
type Associativity uint8

const (
	AssociativityNone Associativity = iota
	AssociativityLeft
	AssociativityRight
)

// PrecedenceGroup describes how tightly an infix operator binds.
type PrecedenceGroup struct {
	Name          string
	Precedence    int
	Associativity Associativity
}

// OperatorTable maps infix operator text to its precedence group.
type OperatorTable struct {
	Operators map[string]PrecedenceGroup
	// Default applies to operators missing from Operators.
	Default PrecedenceGroup
	Ternary PrecedenceGroup
	Casting PrecedenceGroup
}

var (
	groupAssignment     = PrecedenceGroup{Name: "AssignmentPrecedence", Precedence: 90, Associativity: AssociativityRight}
	groupTernary        = PrecedenceGroup{Name: "TernaryPrecedence", Precedence: 100, Associativity: AssociativityRight}
	groupDefault        = PrecedenceGroup{Name: "DefaultPrecedence", Precedence: 105, Associativity: AssociativityNone}
	groupDisjunction    = PrecedenceGroup{Name: "LogicalDisjunctionPrecedence", Precedence: 110, Associativity: AssociativityLeft}
	groupConjunction    = PrecedenceGroup{Name: "LogicalConjunctionPrecedence", Precedence: 120, Associativity: AssociativityLeft}
	groupComparison     = PrecedenceGroup{Name: "ComparisonPrecedence", Precedence: 130, Associativity: AssociativityNone}
	groupNilCoalescing  = PrecedenceGroup{Name: "NilCoalescingPrecedence", Precedence: 131, Associativity: AssociativityRight}
	groupCasting        = PrecedenceGroup{Name: "CastingPrecedence", Precedence: 132, Associativity: AssociativityNone}
	groupRangeFormation = PrecedenceGroup{Name: "RangeFormationPrecedence", Precedence: 135, Associativity: AssociativityNone}
	groupAddition       = PrecedenceGroup{Name: "AdditionPrecedence", Precedence: 140, Associativity: AssociativityLeft}
	groupMultiplication = PrecedenceGroup{Name: "MultiplicationPrecedence", Precedence: 150, Associativity: AssociativityLeft}
	groupBitwiseShift   = PrecedenceGroup{Name: "BitwiseShiftPrecedence", Precedence: 160, Associativity: AssociativityNone}
)

// StandardOperators returns the table of the standard library's operators.
func StandardOperators() OperatorTable {
	ops := map[string]PrecedenceGroup{}
	add := func(g PrecedenceGroup, names ...string) {
		for _, name := range names {
			ops[name] = g
		}
	}
	add(groupAssignment, "=", "*=", "/=", "%=", "+=", "-=", "<<=", ">>=", "&=", "|=", "^=", "&*=", "&+=", "&-=", "??=")
	add(groupDisjunction, "||")
	add(groupConjunction, "&&")
	add(groupComparison, "<", "<=", ">", ">=", "==", "!=", "===", "!==", "~=")
	add(groupNilCoalescing, "??")
	add(groupRangeFormation, "..<", "...")
	add(groupAddition, "+", "-", "&+", "&-", "|", "^")
	add(groupMultiplication, "*", "/", "%", "&*", "&")
	add(groupBitwiseShift, "<<", ">>", "&<<", "&>>")
	return OperatorTable{Operators: ops, Default: groupDefault, Ternary: groupTernary, Casting: groupCasting}
}

func (t OperatorTable) group(op *Node) PrecedenceGroup {
	switch op.kind {
	case KindTernaryOperator:
		return t.Ternary
	case KindCastOperator:
		return t.Casting
	}
	if tok := op.FirstToken(); tok != nil {
		if g, ok := t.Operators[tok.tok.text]; ok {
			return g
		}
	}
	return t.Default
}

// Fold turns a flat sequence expression (operand, operator, operand, ...) into
// nested infix, ternary and cast expressions. Non-sequence nodes and malformed
// sequences are returned unchanged. Token order, and so Text, is preserved.
func Fold(seq *Node, table OperatorTable) *Node {
	if seq.kind != KindSequenceExpr || len(seq.children)%2 == 0 {
		return seq
	}
	f := folder{table: table}
	for i, c := range seq.children {
		if i%2 == 0 {
			f.operands = append(f.operands, c)
		} else {
			f.operators = append(f.operators, c)
		}
	}
	return f.climb(f.operands[0], 0)
}

type folder struct {
	table     OperatorTable
	operands  []*Node
	operators []*Node
	pos       int
}

func (f *folder) climb(lhs *Node, minPrec int) *Node {
	for f.pos < len(f.operators) {
		op := f.operators[f.pos]
		g := f.table.group(op)
		if g.Precedence < minPrec {
			break
		}
		f.pos++
		rhs := f.operands[f.pos]
		for f.pos < len(f.operators) {
			next := f.table.group(f.operators[f.pos])
			if next.Precedence > g.Precedence {
				rhs = f.climb(rhs, g.Precedence+1)
				continue
			}
			if next.Precedence == g.Precedence && next.Associativity == AssociativityRight {
				rhs = f.climb(rhs, g.Precedence)
				continue
			}
			break
		}
		lhs = combine(lhs, op, rhs)
	}
	return lhs
}

func combine(lhs, op, rhs *Node) *Node {
	switch op.kind {
	case KindTernaryOperator:
		children := make([]*Node, 0, 2+len(op.children))
		children = append(children, lhs)
		children = append(children, op.children...)
		children = append(children, rhs)
		return NewNode(KindTernaryExpr, children...)
	default:
		return NewNode(KindInfixOperatorExpr, lhs, op, rhs)
	}
}

// FoldAll folds every sequence expression in the tree, innermost first.
func FoldAll(root *Node, table OperatorTable) *Node {
	if root.tok != nil {
		return root
	}
	var children []*Node
	for i, c := range root.children {
		fc := FoldAll(c, table)
		if fc != c && children == nil {
			children = make([]*Node, len(root.children))
			copy(children, root.children[:i])
		}
		if children != nil {
			children[i] = fc
		}
	}
	n := root
	if children != nil {
		n = root.WithChildren(children...)
	}
	return Fold(n, table)
}
