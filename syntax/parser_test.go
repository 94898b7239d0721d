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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `import ballerina/io;
import ballerinax/ai.agent as ai;

# A postal address.
type Address record {|
    string street;
    # The city.
    string city?;
    int zip = 0;
|};

type Person record {
    string name;
    int age;
    Address address;
    string[] tags;
    decimal? salary;
};

const int LIMIT = 10;

configurable string apiKey = ?;

final ai:OpenAiProvider model = check new (apiKey, "gpt-4o");

# Transforms a person.
#
# + p - the person
public function transform(Person p, int count = 1, string... rest) returns Person {
    Person out = {name: p.name, age: p.age + count, address: p.address, tags: [], salary: ()};
    var adults = from var x in [p] where x.age > 18 select x.name;
    if count > 0 {
        io:println(out);
    } else {
        return out;
    }
    out.age += 1;
    return out;
}

function double(int x) returns int => x * 2;
`

func TestParseModule(t *testing.T) {
	m, err := Parse("main.bal", sample)
	require.NoError(t, err)
	require.Len(t, m.Imports, 2)
	assert.Equal(t, "ballerina", m.Imports[0].OrgName())
	assert.Equal(t, "io", m.Imports[0].PrefixName())
	assert.Equal(t, "ai.agent", m.Imports[1].ModuleName())
	assert.Equal(t, "ai", m.Imports[1].PrefixName())

	require.Len(t, m.Members, 7)
	addr, ok := m.Members[0].(*TypeDefinition)
	require.True(t, ok)
	assert.Equal(t, "A postal address.", addr.Doc)
	rec, ok := addr.Type.(*RecordType)
	require.True(t, ok)
	assert.True(t, rec.Closed)
	require.Len(t, rec.Fields, 3)
	assert.Equal(t, "The city.", rec.Fields[1].Doc)
	assert.True(t, rec.Fields[1].Optional)
	assert.NotNil(t, rec.Fields[2].Default)

	person := m.Members[1].(*TypeDefinition).Type.(*RecordType)
	assert.False(t, person.Closed)
	_, isArray := person.Fields[3].Type.(*ArrayType)
	assert.True(t, isArray)
	_, isOpt := person.Fields[4].Type.(*OptionalType)
	assert.True(t, isOpt)

	c := m.Members[2].(*ConstDecl)
	assert.Equal(t, "LIMIT", c.Name.Value())

	cfg := m.Members[3].(*ModuleVarDecl)
	assert.True(t, HasQualifier(cfg, "configurable"))
	assert.Equal(t, KindRequiredExpr, cfg.Init.Kind())

	model := m.Members[4].(*ModuleVarDecl)
	ref := model.Type.(*TypeRef)
	assert.Equal(t, "ai", ref.PrefixName())
	assert.Equal(t, "OpenAiProvider", ref.Name.Value())
	chk := model.Init.(*CheckExpr)
	assert.Equal(t, KindNewExpr, chk.Expr.Kind())

	fns := m.Functions()
	require.Len(t, fns, 2)
	fn := fns[0]
	assert.True(t, fn.HasQualifier("public"))
	assert.Contains(t, fn.Doc, "Transforms a person.")
	require.Len(t, fn.Params, 3)
	assert.Equal(t, KindRequiredParam, fn.Params[0].Kind())
	assert.Equal(t, KindDefaultableParam, fn.Params[1].Kind())
	assert.Equal(t, KindRestParam, fn.Params[2].Kind())
	assert.Equal(t, "function transform(Person p, int count = 1, string... rest) returns Person",
		fn.Document().Slice(fn.Signature))

	body := fn.Body.(*BlockBody)
	require.Len(t, body.Statements, 5)
	decl := body.Statements[0].(*LocalVarDecl)
	mc := decl.Init.(*MappingConstructor)
	assert.Len(t, mc.Fields, 5)
	age, ok := mc.Field("age")
	require.True(t, ok)
	assert.Equal(t, "p.age + count", age.Value.SourceText())

	q := body.Statements[1].(*LocalVarDecl)
	assert.Nil(t, q.Type)
	query := q.Init.(*QueryExpr)
	require.Len(t, query.Clauses, 2)
	assert.Equal(t, "x.name", query.Select.Expr.SourceText())

	assert.Equal(t, KindOpaqueStmt, body.Statements[2].Kind())
	assign := body.Statements[3].(*Assignment)
	assert.Equal(t, "+=", assign.Op)
	assert.Equal(t, KindReturnStmt, body.Statements[4].Kind())

	_, isExprBody := fns[1].Body.(*ExpressionBody)
	assert.True(t, isExprBody)
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind SyntaxKind
	}{
		{"binary precedence", "a + b * c", KindBinaryExpr},
		{"conditional", "a > 1 ? b : c", KindConditionalExpr},
		{"elvis", "a ?: b", KindBinaryExpr},
		{"qualified call", "io:println(x)", KindFunctionCall},
		{"method call", "xs.length()", KindMethodCall},
		{"remote call", "conn->search(query, limit = 3)", KindRemoteMethodCall},
		{"indexed", "xs[0]", KindIndexedExpr},
		{"optional access", "p?.address", KindOptionalFieldAccess},
		{"nil literal", "()", KindNilLiteral},
		{"braced", "(a)", KindBracedExpr},
		{"list", "[1, ...rest]", KindListConstructor},
		{"mapping", `{"quoted": 1, short, [k]: v, ...other}`, KindMappingConstructor},
		{"cast", "<int>x", KindTypeCastExpr},
		{"unary", "!done", KindUnaryExpr},
		{"query", "from Person p in people let int a = p.age order by a descending limit 5 select p", KindQueryExpr},
		{"error ctor", `error("boom")`, KindFunctionCall},
		{"float", "1.5e3", KindFloatLiteral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ParseExpression(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, e.Kind())
			assert.Equal(t, tt.src, e.SourceText())
		})
	}
}

func TestBinaryIsLeftAssociative(t *testing.T) {
	e, err := ParseExpression("a - b - c")
	require.NoError(t, err)
	b := e.(*BinaryExpr)
	assert.Equal(t, "a - b", b.LHS.SourceText())
	assert.Equal(t, "c", b.RHS.SourceText())
}

func TestParseStatementKinds(t *testing.T) {
	tests := map[string]SyntaxKind{
		"int x = 1;":             KindLocalVarDecl,
		"map<string> m = {};":    KindLocalVarDecl,
		"xs[0] = 5;":             KindAssignment,
		"foo(a, b);":             KindExpressionStmt,
		"check conn->close();":   KindExpressionStmt,
		"final string s = \"\";": KindLocalVarDecl,
		"while true { x += 1; }": KindOpaqueStmt,
		"return;":                KindReturnStmt,
	}
	for src, kind := range tests {
		s, err := ParseStatement(src)
		require.NoError(t, err, src)
		assert.Equal(t, kind, s.Kind(), src)
	}
}

func TestParseTypeDescriptor(t *testing.T) {
	td, err := ParseTypeDescriptor("int|string|()")
	require.NoError(t, err)
	u := td.(*UnionType)
	assert.Len(t, u.Members, 3)

	td, err = ParseTypeDescriptor("map<json>")
	require.NoError(t, err)
	assert.Equal(t, "map", td.(*ParameterizedType).Name)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("bad.bal", "function f( {")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "bad.bal", pe.File)

	_, err = Parse("bad.bal", "string s = \"open;\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "string literal")

	_, err = ParseExpression("a +")
	assert.Error(t, err)
}

func TestDocCommentsResetOnBlankLine(t *testing.T) {
	m, err := Parse("a.bal", "# stale\n\ntype A int;\n")
	require.NoError(t, err)
	assert.Empty(t, m.Members[0].(*TypeDefinition).Doc)
}

func TestParseObjectType(t *testing.T) {
	src := `public type Model client object {
    *Base;
    string name;
    isolated remote function chat(string prompt) returns string|error;
};
`
	mp, err := Parse("model.bal", src)
	require.NoError(t, err)
	require.Len(t, mp.Members, 1)
	td, ok := mp.Members[0].(*TypeDefinition)
	require.True(t, ok)
	obj, ok := td.Type.(*ObjectType)
	require.True(t, ok)
	assert.True(t, HasQualifier(obj, "client"))
	require.Len(t, obj.Inclusions, 1)
	assert.Equal(t, "Base", obj.Inclusions[0].Type.SourceText())
	require.Len(t, obj.Fields, 1)
	assert.Equal(t, "name", obj.Fields[0].Name.Value())
	require.Len(t, obj.Methods, 1)
	assert.Equal(t, "chat", obj.Methods[0].Name.Value())
	assert.Nil(t, obj.Methods[0].Body)
	assert.True(t, obj.Methods[0].HasQualifier("remote"))
}
