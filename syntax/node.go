//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package syntax

import (
	"reflect"
	"strconv"
	"strings"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() SyntaxKind
	TextRange() TextRange
	Document() *TextDocument
	// SourceText returns the exact source slice of the node.
	SourceText() string
	LineRange() LineRange
	Children() []Node
}

// Expression nodes.
type Expression interface {
	Node
	exprNode()
}

// TypeDesc nodes describe types.
type TypeDesc interface {
	Node
	typeNode()
}

// Statement nodes appear in block bodies.
type Statement interface {
	Node
	stmtNode()
}

// ModuleMember nodes appear at module level.
type ModuleMember interface {
	Node
	memberNode()
}

// FunctionBody is a block, expression or external body.
type FunctionBody interface {
	Node
	bodyNode()
}

// MappingField is a field of a mapping constructor.
type MappingField interface {
	Node
	fieldNode()
}

// VariableDeclaration is shared by local and module level variables.
type VariableDeclaration interface {
	Node
	TypeDescriptor() TypeDesc
	BindingName() *Identifier
	Initializer() Expression
}

type base struct {
	kind SyntaxKind
	span TextRange
	doc  *TextDocument
}

func (b *base) Kind() SyntaxKind        { return b.kind }
func (b *base) TextRange() TextRange    { return b.span }
func (b *base) Document() *TextDocument { return b.doc }
func (b *base) SourceText() string      { return b.doc.Slice(b.span) }
func (b *base) LineRange() LineRange    { return b.doc.LineRangeOf(b.span) }
func (b *base) setEnd(end int)          { b.span.End = end }
func (b *base) init(k SyntaxKind, d *TextDocument, start int) {
	b.kind, b.doc, b.span = k, d, TextRange{Start: start, End: start}
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

func collect(ns ...Node) []Node {
	out := make([]Node, 0, len(ns))
	for _, n := range ns {
		if !isNil(n) {
			out = append(out, n)
		}
	}
	return out
}

func toNodes[T Node](items []T) []Node {
	out := make([]Node, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	return out
}

// Identifier is a name token.
type Identifier struct {
	base
	Name string
}

// Value returns the name without identifier quoting.
func (n *Identifier) Value() string { return UnquoteIdentifier(n.Name) }

// Children implements Node.
func (n *Identifier) Children() []Node { return nil }

// ModulePart is the root of a parsed document.
type ModulePart struct {
	base
	Imports []*ImportDecl
	Members []ModuleMember
}

// Children implements Node.
func (n *ModulePart) Children() []Node {
	return append(toNodes(n.Imports), toNodes(n.Members)...)
}

// Functions returns the module level function definitions.
func (n *ModulePart) Functions() []*FunctionDef {
	var out []*FunctionDef
	for _, m := range n.Members {
		if fn, ok := m.(*FunctionDef); ok {
			out = append(out, fn)
		}
	}
	return out
}

// ImportDecl is `import org/pkg.sub as prefix;`.
type ImportDecl struct {
	base
	Org    *Identifier
	Names  []*Identifier
	Prefix *Identifier
}

// Children implements Node.
func (n *ImportDecl) Children() []Node {
	return append(collect(n.Org, n.Prefix), toNodes(n.Names)...)
}

// OrgName returns the organization, or "" when omitted.
func (n *ImportDecl) OrgName() string {
	if n.Org == nil {
		return ""
	}
	return n.Org.Value()
}

// ModuleName returns the dotted module name.
func (n *ImportDecl) ModuleName() string {
	parts := make([]string, len(n.Names))
	for i, id := range n.Names {
		parts[i] = id.Value()
	}
	return strings.Join(parts, ".")
}

// PrefixName returns the alias or the last module name segment.
func (n *ImportDecl) PrefixName() string {
	if n.Prefix != nil {
		return n.Prefix.Value()
	}
	return n.Names[len(n.Names)-1].Value()
}

// TypeDefinition is `type Name T;`.
type TypeDefinition struct {
	base
	Doc        string
	Qualifiers []string
	Name       *Identifier
	Type       TypeDesc
}

// Children implements Node.
func (n *TypeDefinition) Children() []Node { return collect(n.Name, n.Type) }

// EnumDecl is `enum Name { A, B = "b" }`.
type EnumDecl struct {
	base
	Doc        string
	Qualifiers []string
	Name       *Identifier
	Members    []*EnumMember
}

// Children implements Node.
func (n *EnumDecl) Children() []Node { return append(collect(n.Name), toNodes(n.Members)...) }

// EnumMember is one enum constant.
type EnumMember struct {
	base
	Doc   string
	Name  *Identifier
	Value Expression
}

// Children implements Node.
func (n *EnumMember) Children() []Node { return collect(n.Name, n.Value) }

// ConstDecl is `const [T] NAME = expr;`.
type ConstDecl struct {
	base
	Doc        string
	Qualifiers []string
	Type       TypeDesc
	Name       *Identifier
	Value      Expression
}

// Children implements Node.
func (n *ConstDecl) Children() []Node { return collect(n.Type, n.Name, n.Value) }

// ModuleVarDecl is a module level variable, possibly configurable.
type ModuleVarDecl struct {
	base
	Doc        string
	Qualifiers []string
	Type       TypeDesc
	Name       *Identifier
	Init       Expression
}

// Children implements Node.
func (n *ModuleVarDecl) Children() []Node { return collect(n.Type, n.Name, n.Init) }

// TypeDescriptor implements VariableDeclaration.
func (n *ModuleVarDecl) TypeDescriptor() TypeDesc { return n.Type }

// BindingName implements VariableDeclaration.
func (n *ModuleVarDecl) BindingName() *Identifier { return n.Name }

// Initializer implements VariableDeclaration.
func (n *ModuleVarDecl) Initializer() Expression { return n.Init }

// ClassDef is `[client] class Name { ... }`.
type ClassDef struct {
	base
	Doc        string
	Qualifiers []string
	Name       *Identifier
	Inclusions []*TypeInclusion
	Fields     []*ObjectField
	Methods    []*FunctionDef
}

// Children implements Node.
func (n *ClassDef) Children() []Node {
	out := collect(n.Name)
	out = append(out, toNodes(n.Inclusions)...)
	out = append(out, toNodes(n.Fields)...)
	return append(out, toNodes(n.Methods)...)
}

// ObjectField is a field of a class.
type ObjectField struct {
	base
	Doc        string
	Qualifiers []string
	Type       TypeDesc
	Name       *Identifier
	Init       Expression
}

// Children implements Node.
func (n *ObjectField) Children() []Node { return collect(n.Type, n.Name, n.Init) }

// TypeInclusion is `*T;` inside a record or class.
type TypeInclusion struct {
	base
	Type TypeDesc
}

// Children implements Node.
func (n *TypeInclusion) Children() []Node { return collect(n.Type) }

// FunctionDef is a function or method definition.
type FunctionDef struct {
	base
	Doc        string
	Qualifiers []string
	// Signature spans from the function keyword to the start of the body.
	Signature  TextRange
	Name       *Identifier
	Params     []*Parameter
	ReturnType TypeDesc
	Body       FunctionBody
}

// Children implements Node.
func (n *FunctionDef) Children() []Node {
	out := collect(n.Name)
	out = append(out, toNodes(n.Params)...)
	return append(out, collect(n.ReturnType, n.Body)...)
}

// HasQualifier reports whether q precedes the function keyword.
func (n *FunctionDef) HasQualifier(q string) bool { return hasQualifier(n.Qualifiers, q) }

// SignatureLineRange returns the line range of the signature.
func (n *FunctionDef) SignatureLineRange() LineRange { return n.doc.LineRangeOf(n.Signature) }

// Parameter is a required, defaultable or rest parameter.
type Parameter struct {
	base
	Type    TypeDesc
	Name    *Identifier
	Default Expression
}

// Children implements Node.
func (n *Parameter) Children() []Node { return collect(n.Type, n.Name, n.Default) }

// BlockBody is `{ statements }`.
type BlockBody struct {
	base
	Statements []Statement
}

// Children implements Node.
func (n *BlockBody) Children() []Node { return toNodes(n.Statements) }

// ExpressionBody is `=> expr;`.
type ExpressionBody struct {
	base
	Expr Expression
}

// Children implements Node.
func (n *ExpressionBody) Children() []Node { return collect(n.Expr) }

// ExternalBody is `= external;`.
type ExternalBody struct{ base }

// Children implements Node.
func (n *ExternalBody) Children() []Node { return nil }

// OpaqueDecl is a module member kept only by range.
type OpaqueDecl struct {
	base
	Keyword string
}

// Children implements Node.
func (n *OpaqueDecl) Children() []Node { return nil }

// LocalVarDecl is `[final] T name [= expr];`. Type is nil for `var`.
type LocalVarDecl struct {
	base
	Final bool
	Type  TypeDesc
	Name  *Identifier
	Init  Expression
}

// Children implements Node.
func (n *LocalVarDecl) Children() []Node { return collect(n.Type, n.Name, n.Init) }

// TypeDescriptor implements VariableDeclaration.
func (n *LocalVarDecl) TypeDescriptor() TypeDesc { return n.Type }

// BindingName implements VariableDeclaration.
func (n *LocalVarDecl) BindingName() *Identifier { return n.Name }

// Initializer implements VariableDeclaration.
func (n *LocalVarDecl) Initializer() Expression { return n.Init }

// Assignment is `target op value;`.
type Assignment struct {
	base
	Target Expression
	Op     string
	Value  Expression
}

// Children implements Node.
func (n *Assignment) Children() []Node { return collect(n.Target, n.Value) }

// ReturnStmt is `return [expr];`.
type ReturnStmt struct {
	base
	Expr Expression
}

// Children implements Node.
func (n *ReturnStmt) Children() []Node { return collect(n.Expr) }

// ExpressionStmt is `expr;`.
type ExpressionStmt struct {
	base
	Expr Expression
}

// Children implements Node.
func (n *ExpressionStmt) Children() []Node { return collect(n.Expr) }

// OpaqueStmt is a statement the engine does not model.
type OpaqueStmt struct {
	base
	Keyword string
}

// Children implements Node.
func (n *OpaqueStmt) Children() []Node { return nil }

// BuiltinType is a predeclared type name such as int or string.
type BuiltinType struct {
	base
	Name string
}

// Children implements Node.
func (n *BuiltinType) Children() []Node { return nil }

// NilType is `()`.
type NilType struct{ base }

// Children implements Node.
func (n *NilType) Children() []Node { return nil }

// TypeRef is `Name` or `prefix:Name`.
type TypeRef struct {
	base
	Prefix *Identifier
	Name   *Identifier
}

// Children implements Node.
func (n *TypeRef) Children() []Node { return collect(n.Prefix, n.Name) }

// PrefixName returns the module prefix or "".
func (n *TypeRef) PrefixName() string {
	if n.Prefix == nil {
		return ""
	}
	return n.Prefix.Value()
}

// ArrayType is `T[]` or `T[n]`.
type ArrayType struct {
	base
	Member TypeDesc
	Size   string
}

// Children implements Node.
func (n *ArrayType) Children() []Node { return collect(n.Member) }

// OptionalType is `T?`.
type OptionalType struct {
	base
	Type TypeDesc
}

// Children implements Node.
func (n *OptionalType) Children() []Node { return collect(n.Type) }

// UnionType is `A|B|...`.
type UnionType struct {
	base
	Members []TypeDesc
}

// Children implements Node.
func (n *UnionType) Children() []Node { return toNodes(n.Members) }

// RecordType is an inline record descriptor.
type RecordType struct {
	base
	Closed     bool
	Inclusions []*TypeInclusion
	Fields     []*RecordField
	Rest       *RecordRest
}

// Children implements Node.
func (n *RecordType) Children() []Node {
	out := toNodes(n.Inclusions)
	out = append(out, toNodes(n.Fields)...)
	return append(out, collect(n.Rest)...)
}

// RecordField is `T name[?] [= default];`.
type RecordField struct {
	base
	Doc      string
	Readonly bool
	Type     TypeDesc
	Name     *Identifier
	Optional bool
	Default  Expression
}

// Children implements Node.
func (n *RecordField) Children() []Node { return collect(n.Type, n.Name, n.Default) }

// RecordRest is `T...;`.
type RecordRest struct {
	base
	Type TypeDesc
}

// Children implements Node.
func (n *RecordRest) Children() []Node { return collect(n.Type) }

// ParameterizedType is `map<T>`, `error<T>`, `future<T>` and friends.
type ParameterizedType struct {
	base
	Name  string
	Param TypeDesc
}

// Children implements Node.
func (n *ParameterizedType) Children() []Node { return collect(n.Param) }

// SingletonType is a literal used as a type.
type SingletonType struct {
	base
	Value Expression
}

// Children implements Node.
func (n *SingletonType) Children() []Node { return collect(n.Value) }

// ObjectType is `[client] object { *T; T f; function m() returns T; }`.
type ObjectType struct {
	base
	Qualifiers []string
	Inclusions []*TypeInclusion
	Fields     []*ObjectField
	Methods    []*FunctionDef
}

// Children implements Node.
func (n *ObjectType) Children() []Node {
	out := toNodes(n.Inclusions)
	out = append(out, toNodes(n.Fields)...)
	return append(out, toNodes(n.Methods)...)
}

// Literal is a numeric, string, boolean or nil literal.
type Literal struct{ base }

// Children implements Node.
func (n *Literal) Children() []Node { return nil }

// StringValue unquotes a string literal.
func (n *Literal) StringValue() string {
	s, err := strconv.Unquote(n.SourceText())
	if err != nil {
		return strings.Trim(n.SourceText(), `"`)
	}
	return s
}

// RequiredExpr is the `?` initializer of a configurable variable.
type RequiredExpr struct{ base }

// Children implements Node.
func (n *RequiredExpr) Children() []Node { return nil }

// SimpleNameRef is a bare identifier reference.
type SimpleNameRef struct {
	base
	Name *Identifier
}

// Children implements Node.
func (n *SimpleNameRef) Children() []Node { return collect(n.Name) }

// QualifiedNameRef is `prefix:name`.
type QualifiedNameRef struct {
	base
	Prefix *Identifier
	Name   *Identifier
}

// Children implements Node.
func (n *QualifiedNameRef) Children() []Node { return collect(n.Prefix, n.Name) }

// FieldAccess is `expr.field`.
type FieldAccess struct {
	base
	Expr  Expression
	Field *Identifier
}

// Children implements Node.
func (n *FieldAccess) Children() []Node { return collect(n.Expr, n.Field) }

// OptionalFieldAccess is `expr?.field`.
type OptionalFieldAccess struct {
	base
	Expr  Expression
	Field *Identifier
}

// Children implements Node.
func (n *OptionalFieldAccess) Children() []Node { return collect(n.Expr, n.Field) }

// IndexedExpr is `expr[key]`.
type IndexedExpr struct {
	base
	Expr Expression
	Keys []Expression
}

// Children implements Node.
func (n *IndexedExpr) Children() []Node { return append(collect(n.Expr), toNodes(n.Keys)...) }

// FunctionCall is `f(args)` or `p:f(args)`.
type FunctionCall struct {
	base
	Func Expression
	Args []Node
}

// Children implements Node.
func (n *FunctionCall) Children() []Node { return append(collect(n.Func), n.Args...) }

// FunctionName returns the called name without module prefix.
func (n *FunctionCall) FunctionName() string {
	switch f := n.Func.(type) {
	case *SimpleNameRef:
		return f.Name.Value()
	case *QualifiedNameRef:
		return f.Name.Value()
	}
	return ""
}

// MethodCall is `expr.method(args)`.
type MethodCall struct {
	base
	Expr   Expression
	Method *Identifier
	Args   []Node
}

// Children implements Node.
func (n *MethodCall) Children() []Node { return append(collect(n.Expr, n.Method), n.Args...) }

// RemoteMethodCall is `client->method(args)`.
type RemoteMethodCall struct {
	base
	Expr   Expression
	Method *Identifier
	Args   []Node
}

// Children implements Node.
func (n *RemoteMethodCall) Children() []Node { return append(collect(n.Expr, n.Method), n.Args...) }

// NewExpr is `new [T](args)`.
type NewExpr struct {
	base
	Type TypeDesc
	Args []Node
}

// Children implements Node.
func (n *NewExpr) Children() []Node { return append(collect(n.Type), n.Args...) }

// UnaryExpr is `op expr`.
type UnaryExpr struct {
	base
	Op   string
	Expr Expression
}

// Children implements Node.
func (n *UnaryExpr) Children() []Node { return collect(n.Expr) }

// BinaryExpr is `lhs op rhs`.
type BinaryExpr struct {
	base
	Op  string
	LHS Expression
	RHS Expression
}

// Children implements Node.
func (n *BinaryExpr) Children() []Node { return collect(n.LHS, n.RHS) }

// ConditionalExpr is `cond ? a : b`.
type ConditionalExpr struct {
	base
	Cond Expression
	Then Expression
	Else Expression
}

// Children implements Node.
func (n *ConditionalExpr) Children() []Node { return collect(n.Cond, n.Then, n.Else) }

// BracedExpr is `(expr)`.
type BracedExpr struct {
	base
	Expr Expression
}

// Children implements Node.
func (n *BracedExpr) Children() []Node { return collect(n.Expr) }

// TypeCastExpr is `<T>expr`.
type TypeCastExpr struct {
	base
	Type TypeDesc
	Expr Expression
}

// Children implements Node.
func (n *TypeCastExpr) Children() []Node { return collect(n.Type, n.Expr) }

// CheckExpr is `check expr` or `checkpanic expr`.
type CheckExpr struct {
	base
	Panic bool
	Expr  Expression
}

// Children implements Node.
func (n *CheckExpr) Children() []Node { return collect(n.Expr) }

// TrapExpr is `trap expr`.
type TrapExpr struct {
	base
	Expr Expression
}

// Children implements Node.
func (n *TrapExpr) Children() []Node { return collect(n.Expr) }

// StartAction is `start call`.
type StartAction struct {
	base
	Expr Expression
}

// Children implements Node.
func (n *StartAction) Children() []Node { return collect(n.Expr) }

// MappingConstructor is `{k: v, ...}`.
type MappingConstructor struct {
	base
	Fields []MappingField
}

// Children implements Node.
func (n *MappingConstructor) Children() []Node { return toNodes(n.Fields) }

// Field returns the specific field named name.
func (n *MappingConstructor) Field(name string) (*SpecificField, bool) {
	for _, f := range n.Fields {
		if sf, ok := f.(*SpecificField); ok && sf.FieldName() == name {
			return sf, true
		}
	}
	return nil, false
}

// SpecificField is `key: value` or the shorthand `key`. Key is an
// *Identifier or a string *Literal; Value is nil for the shorthand.
type SpecificField struct {
	base
	Readonly bool
	Key      Node
	Value    Expression
}

// Children implements Node.
func (n *SpecificField) Children() []Node { return collect(n.Key, n.Value) }

// FieldName returns the key without quoting.
func (n *SpecificField) FieldName() string {
	switch k := n.Key.(type) {
	case *Identifier:
		return k.Value()
	case *Literal:
		return k.StringValue()
	}
	return ""
}

// SpreadField is `...expr` inside a mapping constructor.
type SpreadField struct {
	base
	Expr Expression
}

// Children implements Node.
func (n *SpreadField) Children() []Node { return collect(n.Expr) }

// ListConstructor is `[a, b, ...c]`.
type ListConstructor struct {
	base
	Members []Node
}

// Children implements Node.
func (n *ListConstructor) Children() []Node { return n.Members }

// SpreadMember is `...expr` inside a list constructor.
type SpreadMember struct {
	base
	Expr Expression
}

// Children implements Node.
func (n *SpreadMember) Children() []Node { return collect(n.Expr) }

// NamedArg is `name = value` in an argument list.
type NamedArg struct {
	base
	Name  *Identifier
	Value Expression
}

// Children implements Node.
func (n *NamedArg) Children() []Node { return collect(n.Name, n.Value) }

// RestArg is `...expr` in an argument list.
type RestArg struct {
	base
	Expr Expression
}

// Children implements Node.
func (n *RestArg) Children() []Node { return collect(n.Expr) }

// QueryExpr is `from ... select expr`.
type QueryExpr struct {
	base
	Clauses []Node
	Select  *SelectClause
}

// Children implements Node.
func (n *QueryExpr) Children() []Node {
	return append(append([]Node{}, n.Clauses...), collect(n.Select)...)
}

// FromClause is `from T x in expr`. Type is nil for var.
type FromClause struct {
	base
	Type TypeDesc
	Var  *Identifier
	Expr Expression
}

// Children implements Node.
func (n *FromClause) Children() []Node { return collect(n.Type, n.Var, n.Expr) }

// WhereClause is `where expr`.
type WhereClause struct {
	base
	Expr Expression
}

// Children implements Node.
func (n *WhereClause) Children() []Node { return collect(n.Expr) }

// LetClause is `let T x = expr`.
type LetClause struct {
	base
	Type TypeDesc
	Var  *Identifier
	Expr Expression
}

// Children implements Node.
func (n *LetClause) Children() []Node { return collect(n.Type, n.Var, n.Expr) }

// LimitClause is `limit expr`.
type LimitClause struct {
	base
	Expr Expression
}

// Children implements Node.
func (n *LimitClause) Children() []Node { return collect(n.Expr) }

// OrderByClause is `order by k1 [ascending|descending], ...`.
type OrderByClause struct {
	base
	Keys []Expression
}

// Children implements Node.
func (n *OrderByClause) Children() []Node { return toNodes(n.Keys) }

// SelectClause is `select expr`.
type SelectClause struct {
	base
	Expr Expression
}

// Children implements Node.
func (n *SelectClause) Children() []Node { return collect(n.Expr) }

func hasQualifier(qs []string, q string) bool {
	for _, x := range qs {
		if x == q {
			return true
		}
	}
	return false
}

// HasQualifier reports whether a declaration carries qualifier q.
func HasQualifier(n Node, q string) bool {
	switch d := n.(type) {
	case *TypeDefinition:
		return hasQualifier(d.Qualifiers, q)
	case *EnumDecl:
		return hasQualifier(d.Qualifiers, q)
	case *ConstDecl:
		return hasQualifier(d.Qualifiers, q)
	case *ModuleVarDecl:
		return hasQualifier(d.Qualifiers, q)
	case *ClassDef:
		return hasQualifier(d.Qualifiers, q)
	case *ObjectType:
		return hasQualifier(d.Qualifiers, q)
	case *ObjectField:
		return hasQualifier(d.Qualifiers, q)
	case *FunctionDef:
		return hasQualifier(d.Qualifiers, q)
	case *LocalVarDecl:
		return q == "final" && d.Final
	}
	return false
}

func (*TypeDefinition) memberNode() {}
func (*EnumDecl) memberNode()       {}
func (*ConstDecl) memberNode()      {}
func (*ModuleVarDecl) memberNode()  {}
func (*ClassDef) memberNode()       {}
func (*FunctionDef) memberNode()    {}
func (*OpaqueDecl) memberNode()     {}

func (*BlockBody) bodyNode()      {}
func (*ExpressionBody) bodyNode() {}
func (*ExternalBody) bodyNode()   {}

func (*LocalVarDecl) stmtNode()   {}
func (*Assignment) stmtNode()     {}
func (*ReturnStmt) stmtNode()     {}
func (*ExpressionStmt) stmtNode() {}
func (*OpaqueStmt) stmtNode()     {}

func (*BuiltinType) typeNode()       {}
func (*NilType) typeNode()           {}
func (*TypeRef) typeNode()           {}
func (*ArrayType) typeNode()         {}
func (*OptionalType) typeNode()      {}
func (*UnionType) typeNode()         {}
func (*RecordType) typeNode()        {}
func (*ParameterizedType) typeNode() {}
func (*SingletonType) typeNode()     {}
func (*ObjectType) typeNode()        {}

func (*Literal) exprNode()             {}
func (*RequiredExpr) exprNode()        {}
func (*SimpleNameRef) exprNode()       {}
func (*QualifiedNameRef) exprNode()    {}
func (*FieldAccess) exprNode()         {}
func (*OptionalFieldAccess) exprNode() {}
func (*IndexedExpr) exprNode()         {}
func (*FunctionCall) exprNode()        {}
func (*MethodCall) exprNode()          {}
func (*RemoteMethodCall) exprNode()    {}
func (*NewExpr) exprNode()             {}
func (*UnaryExpr) exprNode()           {}
func (*BinaryExpr) exprNode()          {}
func (*ConditionalExpr) exprNode()     {}
func (*BracedExpr) exprNode()          {}
func (*TypeCastExpr) exprNode()        {}
func (*CheckExpr) exprNode()           {}
func (*TrapExpr) exprNode()            {}
func (*StartAction) exprNode()         {}
func (*MappingConstructor) exprNode()  {}
func (*ListConstructor) exprNode()     {}
func (*QueryExpr) exprNode()           {}

func (*SpecificField) fieldNode() {}
func (*SpreadField) fieldNode()   {}
