//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package syntax

// SyntaxKind tags every node of the syntax tree.
type SyntaxKind int

// Syntax kinds.
const (
	KindUnknown SyntaxKind = iota

	// Module level.
	KindModulePart
	KindImportDecl
	KindTypeDefinition
	KindEnumDecl
	KindEnumMember
	KindConstDecl
	KindModuleVarDecl
	KindClassDef
	KindObjectField
	KindTypeInclusion
	KindFunctionDef
	KindOpaqueDecl
	KindIdentifier

	// Function parts.
	KindRequiredParam
	KindDefaultableParam
	KindRestParam
	KindBlockBody
	KindExpressionBody
	KindExternalBody

	// Statements.
	KindLocalVarDecl
	KindAssignment
	KindReturnStmt
	KindExpressionStmt
	KindOpaqueStmt

	// Type descriptors.
	KindBuiltinType
	KindNilType
	KindTypeRef
	KindArrayType
	KindOptionalType
	KindUnionType
	KindRecordType
	KindRecordField
	KindRecordRest
	KindParameterizedType
	KindSingletonType
	KindObjectType

	// Expressions.
	KindIntLiteral
	KindFloatLiteral
	KindStringLiteral
	KindBooleanLiteral
	KindNilLiteral
	KindRequiredExpr
	KindSimpleNameRef
	KindQualifiedNameRef
	KindFieldAccess
	KindOptionalFieldAccess
	KindIndexedExpr
	KindFunctionCall
	KindMethodCall
	KindRemoteMethodCall
	KindNewExpr
	KindUnaryExpr
	KindBinaryExpr
	KindConditionalExpr
	KindBracedExpr
	KindTypeCastExpr
	KindCheckExpr
	KindTrapExpr
	KindStartAction
	KindMappingConstructor
	KindSpecificField
	KindSpreadField
	KindListConstructor
	KindSpreadMember
	KindNamedArg
	KindRestArg
	KindQueryExpr
	KindFromClause
	KindWhereClause
	KindLetClause
	KindLimitClause
	KindOrderByClause
	KindSelectClause
)

var kindNames = map[SyntaxKind]string{
	KindUnknown:             "UNKNOWN",
	KindModulePart:          "MODULE_PART",
	KindImportDecl:          "IMPORT_DECLARATION",
	KindTypeDefinition:      "TYPE_DEFINITION",
	KindEnumDecl:            "ENUM_DECLARATION",
	KindEnumMember:          "ENUM_MEMBER",
	KindConstDecl:           "CONST_DECLARATION",
	KindModuleVarDecl:       "MODULE_VAR_DECL",
	KindClassDef:            "CLASS_DEFINITION",
	KindObjectField:         "OBJECT_FIELD",
	KindTypeInclusion:       "TYPE_REFERENCE",
	KindFunctionDef:         "FUNCTION_DEFINITION",
	KindOpaqueDecl:          "MODULE_MEMBER",
	KindIdentifier:          "IDENTIFIER_TOKEN",
	KindRequiredParam:       "REQUIRED_PARAM",
	KindDefaultableParam:    "DEFAULTABLE_PARAM",
	KindRestParam:           "REST_PARAM",
	KindBlockBody:           "FUNCTION_BODY_BLOCK",
	KindExpressionBody:      "EXPRESSION_FUNCTION_BODY",
	KindExternalBody:        "EXTERNAL_FUNCTION_BODY",
	KindLocalVarDecl:        "LOCAL_VAR_DECL",
	KindAssignment:          "ASSIGNMENT_STATEMENT",
	KindReturnStmt:          "RETURN_STATEMENT",
	KindExpressionStmt:      "CALL_STATEMENT",
	KindOpaqueStmt:          "STATEMENT",
	KindBuiltinType:         "BUILTIN_TYPE_DESC",
	KindNilType:             "NIL_TYPE_DESC",
	KindTypeRef:             "TYPE_REFERENCE_TYPE_DESC",
	KindArrayType:           "ARRAY_TYPE_DESC",
	KindOptionalType:        "OPTIONAL_TYPE_DESC",
	KindUnionType:           "UNION_TYPE_DESC",
	KindRecordType:          "RECORD_TYPE_DESC",
	KindRecordField:         "RECORD_FIELD",
	KindRecordRest:          "RECORD_REST_TYPE",
	KindParameterizedType:   "PARAMETERIZED_TYPE_DESC",
	KindSingletonType:       "SINGLETON_TYPE_DESC",
	KindObjectType:          "OBJECT_TYPE_DESC",
	KindIntLiteral:          "NUMERIC_LITERAL",
	KindFloatLiteral:        "DECIMAL_FLOATING_POINT_LITERAL",
	KindStringLiteral:       "STRING_LITERAL",
	KindBooleanLiteral:      "BOOLEAN_LITERAL",
	KindNilLiteral:          "NIL_LITERAL",
	KindRequiredExpr:        "REQUIRED_EXPRESSION",
	KindSimpleNameRef:       "SIMPLE_NAME_REFERENCE",
	KindQualifiedNameRef:    "QUALIFIED_NAME_REFERENCE",
	KindFieldAccess:         "FIELD_ACCESS",
	KindOptionalFieldAccess: "OPTIONAL_FIELD_ACCESS",
	KindIndexedExpr:         "INDEXED_EXPRESSION",
	KindFunctionCall:        "FUNCTION_CALL",
	KindMethodCall:          "METHOD_CALL",
	KindRemoteMethodCall:    "REMOTE_METHOD_CALL_ACTION",
	KindNewExpr:             "NEW_EXPRESSION",
	KindUnaryExpr:           "UNARY_EXPRESSION",
	KindBinaryExpr:          "BINARY_EXPRESSION",
	KindConditionalExpr:     "CONDITIONAL_EXPRESSION",
	KindBracedExpr:          "BRACED_EXPRESSION",
	KindTypeCastExpr:        "TYPE_CAST_EXPRESSION",
	KindCheckExpr:           "CHECK_EXPRESSION",
	KindTrapExpr:            "TRAP_EXPRESSION",
	KindStartAction:         "START_ACTION",
	KindMappingConstructor:  "MAPPING_CONSTRUCTOR",
	KindSpecificField:       "SPECIFIC_FIELD",
	KindSpreadField:         "SPREAD_FIELD",
	KindListConstructor:     "LIST_CONSTRUCTOR",
	KindSpreadMember:        "SPREAD_MEMBER",
	KindNamedArg:            "NAMED_ARG",
	KindRestArg:             "REST_ARG",
	KindQueryExpr:           "QUERY_EXPRESSION",
	KindFromClause:          "FROM_CLAUSE",
	KindWhereClause:         "WHERE_CLAUSE",
	KindLetClause:           "LET_CLAUSE",
	KindLimitClause:         "LIMIT_CLAUSE",
	KindOrderByClause:       "ORDER_BY_CLAUSE",
	KindSelectClause:        "SELECT_CLAUSE",
}

func (k SyntaxKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// IsExpression reports whether nodes of kind k implement Expression.
func (k SyntaxKind) IsExpression() bool {
	return k >= KindIntLiteral && k <= KindQueryExpr && k != KindSpecificField && k != KindSpreadField &&
		k != KindSpreadMember && k != KindNamedArg && k != KindRestArg
}
