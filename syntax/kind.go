package syntax

// Kind identifies the syntactic category of a Node.
type Kind uint16

const (
	KindUnknown Kind = iota
	KindToken
	KindSourceFile
	KindCodeBlock
	KindMemberBlock
	KindUnexpected

	// Declarations.
	KindImportDecl
	KindProtocolDecl
	KindClassDecl
	KindStructDecl
	KindEnumDecl
	KindExtensionDecl
	KindActorDecl
	KindFunctionDecl
	KindInitializerDecl
	KindDeinitializerDecl
	KindSubscriptDecl
	KindVariableDecl
	KindEnumCaseDecl
	KindTypeAliasDecl

	// Clauses.
	KindAttribute
	KindGenericClause
	KindInheritanceClause
	KindInheritedType
	KindWhereClause
	KindParameterClause
	KindSignature
	KindTypeAnnotation
	KindType
	KindPattern
	KindInitializerClause
	KindConditionList
	KindOptionalBindingCondition
	KindSwitchCase
	KindSwitchCaseLabel
	KindCatchClause

	// Statements.
	KindLabeledStmt
	KindWhileStmt
	KindRepeatStmt
	KindForStmt
	KindIfStmt
	KindGuardStmt
	KindSwitchStmt
	KindDoStmt
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindThrowStmt
	KindDeferStmt
	KindFallthroughStmt
	KindDirective

	// Expressions.
	KindSequenceExpr
	KindInfixOperatorExpr
	KindBinaryOperator
	KindTernaryOperator
	KindTernaryExpr
	KindCastOperator
	KindPrefixOperatorExpr
	KindPostfixOperatorExpr
	KindTryExpr
	KindDeclReferenceExpr
	KindLiteralExpr
	KindTupleExpr
	KindArrayExpr
	KindClosureExpr
	KindFunctionCallExpr
	KindSubscriptExpr
	KindMemberAccessExpr
	KindKeyPathExpr
	KindForceUnwrapExpr
	KindOptionalChainingExpr
	KindLabel

	kindCount
)

var kindNames = [...]string{
	KindUnknown:                  "unknown",
	KindToken:                    "token",
	KindSourceFile:               "source_file",
	KindCodeBlock:                "code_block",
	KindMemberBlock:              "member_block",
	KindUnexpected:               "unexpected",
	KindImportDecl:               "import_decl",
	KindProtocolDecl:             "protocol_decl",
	KindClassDecl:                "class_decl",
	KindStructDecl:               "struct_decl",
	KindEnumDecl:                 "enum_decl",
	KindExtensionDecl:            "extension_decl",
	KindActorDecl:                "actor_decl",
	KindFunctionDecl:             "function_decl",
	KindInitializerDecl:          "initializer_decl",
	KindDeinitializerDecl:        "deinitializer_decl",
	KindSubscriptDecl:            "subscript_decl",
	KindVariableDecl:             "variable_decl",
	KindEnumCaseDecl:             "enum_case_decl",
	KindTypeAliasDecl:            "typealias_decl",
	KindAttribute:                "attribute",
	KindGenericClause:            "generic_clause",
	KindInheritanceClause:        "inheritance_clause",
	KindInheritedType:            "inherited_type",
	KindWhereClause:              "where_clause",
	KindParameterClause:          "parameter_clause",
	KindSignature:                "signature",
	KindTypeAnnotation:           "type_annotation",
	KindType:                     "type",
	KindPattern:                  "pattern",
	KindInitializerClause:        "initializer_clause",
	KindConditionList:            "condition_list",
	KindOptionalBindingCondition: "optional_binding_condition",
	KindSwitchCase:               "switch_case",
	KindSwitchCaseLabel:          "switch_case_label",
	KindCatchClause:              "catch_clause",
	KindLabeledStmt:              "labeled_stmt",
	KindWhileStmt:                "while_stmt",
	KindRepeatStmt:               "repeat_stmt",
	KindForStmt:                  "for_stmt",
	KindIfStmt:                   "if_stmt",
	KindGuardStmt:                "guard_stmt",
	KindSwitchStmt:               "switch_stmt",
	KindDoStmt:                   "do_stmt",
	KindReturnStmt:               "return_stmt",
	KindBreakStmt:                "break_stmt",
	KindContinueStmt:             "continue_stmt",
	KindThrowStmt:                "throw_stmt",
	KindDeferStmt:                "defer_stmt",
	KindFallthroughStmt:          "fallthrough_stmt",
	KindDirective:                "directive",
	KindSequenceExpr:             "sequence_expr",
	KindInfixOperatorExpr:        "infix_operator_expr",
	KindBinaryOperator:           "binary_operator",
	KindTernaryOperator:          "ternary_operator",
	KindTernaryExpr:              "ternary_expr",
	KindCastOperator:             "cast_operator",
	KindPrefixOperatorExpr:       "prefix_operator_expr",
	KindPostfixOperatorExpr:      "postfix_operator_expr",
	KindTryExpr:                  "try_expr",
	KindDeclReferenceExpr:        "decl_reference_expr",
	KindLiteralExpr:              "literal_expr",
	KindTupleExpr:                "tuple_expr",
	KindArrayExpr:                "array_expr",
	KindClosureExpr:              "closure_expr",
	KindFunctionCallExpr:         "function_call_expr",
	KindSubscriptExpr:            "subscript_expr",
	KindMemberAccessExpr:         "member_access_expr",
	KindKeyPathExpr:              "key_path_expr",
	KindForceUnwrapExpr:          "force_unwrap_expr",
	KindOptionalChainingExpr:     "optional_chaining_expr",
	KindLabel:                    "label",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsDecl reports whether k is a declaration.
func (k Kind) IsDecl() bool {
	return k >= KindImportDecl && k <= KindTypeAliasDecl
}

// IsTypeDecl reports whether k declares a nominal type or an extension of one.
func (k Kind) IsTypeDecl() bool {
	switch k {
	case KindProtocolDecl, KindClassDecl, KindStructDecl, KindEnumDecl, KindExtensionDecl, KindActorDecl:
		return true
	default:
		return false
	}
}

// IsStmt reports whether k is a statement.
func (k Kind) IsStmt() bool {
	return k >= KindLabeledStmt && k <= KindDirective
}

// IsLoop reports whether k is a statement that break and continue can target.
func (k Kind) IsLoop() bool {
	switch k {
	case KindWhileStmt, KindRepeatStmt, KindForStmt:
		return true
	default:
		return false
	}
}

// IsExpr reports whether k is an expression.
func (k Kind) IsExpr() bool {
	return k >= KindSequenceExpr && k < KindLabel
}

// Kinds returns every defined kind.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := KindUnknown; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}
