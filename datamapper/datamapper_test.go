//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package datamapper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
	"trpc.group/trpc-go/trpc-flowmodel-go/typedesc"
	"trpc.group/trpc-go/trpc-flowmodel-go/workspace"
)

const mapperSource = `type Address record {|
    string street;
    string city;
|};

type Person record {|
    string name;
    Address address;
    string[] tags;
|};

type Result record {|
    string y;
|};

configurable string region = ?;

const string PREFIX = "p";

function compute(int n) returns int => n;

function convert(Person p, Result[] xs) {
    int count = 1;
    return;
}

function blank() returns Person => {name: "", address: {street: "", city: ""}, tags: []};
`

// insertAt is the start of the return statement of convert.
var insertAt = syntax.LinePosition{Line: 23, Offset: 4}

func newManager(t *testing.T) *Manager {
	t.Helper()
	p, err := workspace.New(t.TempDir(), map[string]string{"main.bal": mapperSource},
		workspace.WithModule("demo", "app"))
	require.NoError(t, err)
	return NewManager(p, "main.bal")
}

func variableNode(typ, name, expr string) *flow.Node {
	return &flow.Node{
		Codedata: &flow.Codedata{Node: flow.KindVariable},
		Properties: flow.NewPropertiesBuilder().
			Expression(flow.KeyExpression, expr, "").
			Variable(name, true).
			DataType(typ).
			Build(),
	}
}

func outputs(ms []Mapping) []string {
	var out []string
	for _, m := range ms {
		out = append(out, m.Output)
	}
	return out
}

func portIDs(ps []*Port) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func parseExpr(t *testing.T, src string) syntax.Expression {
	t.Helper()
	e, err := syntax.ParseExpression(src)
	require.NoError(t, err)
	return e
}

func TestGenInputs(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"binary with field access", "x + y.z", []string{"x", "y"}},
		{"indexed base", "a.b[0].c", []string{"a"}},
		{"optional access", "a?.b", []string{"a"}},
		{"method receiver only", "p.name.trim(q)", []string{"p"}},
		{"mapping values", "{a: x, b: y + x, ...z}", []string{"x", "y", "z"}},
		{"braced and unary", "-(n * m)", []string{"n", "m"}},
		{"elvis", "a ?: b", []string{"a", "b"}},
		{"literal", "1", nil},
		{"function call", "f(a)", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenInputs(parseExpr(t, tt.src)))
		})
	}
}

func TestGenMappings(t *testing.T) {
	expr := parseExpr(t, `{name: p.name, address: {street: s, city: "x"}, tags: [{v: a}, b, {v: c}], short}`)
	ms := GenMappings(expr, "v", nil)
	assert.Equal(t, []string{"v.name", "v.address.street", "v.address.city", "v.tags.0.v", "v.tags.2.v"}, outputs(ms))
	assert.Equal(t, []string{"p"}, ms[0].Inputs)
	assert.Equal(t, "p.name", ms[0].Expression)
	assert.Equal(t, []string{}, ms[2].Inputs)
	assert.Equal(t, []string{}, ms[2].Diagnostics)

	q := parseExpr(t, `from var x in xs where x.ok select {y: x.y}`)
	assert.Equal(t, []string{"rs.y"}, outputs(GenMappings(q, "rs", nil)))

	ref := GenMappings(parseExpr(t, "other"), "v", nil)
	require.Len(t, ref, 1)
	assert.Equal(t, "v", ref[0].Output)
	assert.Equal(t, []string{"other"}, ref[0].Inputs)

	assert.Empty(t, GenMappings(parseExpr(t, "f()"), "v", nil))
}

func TestGenSourceIsOrderIndependent(t *testing.T) {
	ms := []Mapping{
		{Output: "v.a.b.2.c", Expression: "x2"},
		{Output: "v.a.b.0.c", Expression: "x0"},
		{Output: "v.a.d", Expression: "d"},
		{Output: "v.e", Expression: "e"},
		{Output: "v", Expression: "ignored"},
	}
	want := "{a:{b:[{c:x0},{c:x2}],d:d},e:e}"
	orders := [][]int{{0, 1, 2, 3, 4}, {4, 3, 2, 1, 0}, {2, 0, 4, 1, 3}, {1, 3, 0, 4, 2}}
	for _, order := range orders {
		var shuffled []Mapping
		for _, i := range order {
			shuffled = append(shuffled, ms[i])
		}
		assert.Equal(t, want, GenSource(shuffled))
	}
	assert.Equal(t, "{}", GenSource(nil))
	assert.Equal(t, "[{y:a},{y:b}]", GenSource([]Mapping{{Output: "v.1.y", Expression: "b"}, {Output: "v.0.y", Expression: "a"}}))
}

func TestGenSourceListIndexes(t *testing.T) {
	tests := []struct {
		name     string
		mappings []Mapping
		want     string
	}{
		{
			name:     "sparse indexes keep order",
			mappings: []Mapping{{Output: "v.5", Expression: "c"}, {Output: "v.0", Expression: "a"}, {Output: "v.2", Expression: "b"}},
			want:     "[a,b,c]",
		},
		{
			name:     "sparse nested indexes",
			mappings: []Mapping{{Output: "v.xs.3.y", Expression: "d"}, {Output: "v.xs.1.y", Expression: "b"}},
			want:     "{xs:[{y:b},{y:d}]}",
		},
		{
			name:     "negative index is skipped",
			mappings: []Mapping{{Output: "v.-1.x", Expression: "bad"}, {Output: "v.0.x", Expression: "ok"}},
			want:     "[{x:ok}]",
		},
		{
			name:     "negative nested index is skipped",
			mappings: []Mapping{{Output: "v.xs.-2", Expression: "bad"}, {Output: "v.n", Expression: "n"}},
			want:     "{n:n}",
		},
		{
			name:     "only invalid paths",
			mappings: []Mapping{{Output: "v.-1", Expression: "bad"}, {Output: "v..x", Expression: "bad"}},
			want:     "{}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenSource(tt.mappings))
		})
	}
}

func TestGetMappingsRecord(t *testing.T) {
	m := newManager(t)
	n := variableNode("Person", "person", `{name: p.name, address: {street: p.address.street, city: region}}`)
	model, err := m.GetMappings(context.Background(), n, insertAt, "", "")
	require.NoError(t, err)
	require.NotNil(t, model)

	assert.Equal(t, `Person person = {name: p.name, address: {street: p.address.street, city: region}};`, model.Source)
	assert.Equal(t, []string{"person.name", "person.address.street", "person.address.city"}, outputs(model.Mappings))
	assert.Equal(t, []string{"p"}, model.Mappings[1].Inputs)
	assert.Equal(t, []string{"region"}, model.Mappings[2].Inputs)

	out := model.Output
	assert.Equal(t, typedesc.VariantRecord, out.Variant)
	assert.Equal(t, "Person", out.TypeName)
	assert.Equal(t, []string{"person.name", "person.address", "person.tags"}, portIDs(out.Fields))
	assert.Equal(t, []string{"person.address.street", "person.address.city"}, portIDs(out.Fields[1].Fields))
	tags := out.Fields[2]
	assert.Equal(t, typedesc.VariantArray, tags.Variant)
	require.NotNil(t, tags.Member)
	assert.Equal(t, "person.tags", tags.Member.ID)

	assert.Equal(t, []string{"PREFIX", "count", "p", "region", "xs"}, portIDs(model.Inputs))
	categories := map[string]string{}
	for _, in := range model.Inputs {
		categories[in.ID] = in.Category
	}
	assert.Equal(t, map[string]string{
		"PREFIX": CategoryConstant,
		"count":  CategoryVariable,
		"p":      CategoryVariable,
		"region": CategoryConfigurable,
		"xs":     CategoryVariable,
	}, categories)
}

func TestGetMappingsQueryRedirection(t *testing.T) {
	m := newManager(t)
	n := variableNode("Result[]", "rs", "from var x in xs select {y: x.y}")

	whole, err := m.GetMappings(context.Background(), n, insertAt, "", "")
	require.NoError(t, err)
	require.NotNil(t, whole)
	assert.Equal(t, typedesc.VariantArray, whole.Output.Variant)
	assert.Equal(t, []string{"rs.y"}, outputs(whole.Mappings))

	field, err := m.GetMappings(context.Background(), n, insertAt, "", "rs")
	require.NoError(t, err)
	require.NotNil(t, field)
	assert.Equal(t, typedesc.VariantRecord, field.Output.Variant)
	assert.Equal(t, "Result", field.Output.TypeName)
	assert.Equal(t, []string{"rs.y"}, portIDs(field.Output.Fields))
	assert.Equal(t, []string{"rs.y"}, outputs(field.Mappings))
	assert.Equal(t, []string{"x"}, field.Mappings[0].Inputs)
}

func TestGetMappingsTargetField(t *testing.T) {
	m := newManager(t)
	n := variableNode("Person", "person", `{name: p.name, address: {street: p.address.street, city: region}, tags: []}`)
	ctx := context.Background()

	model, err := m.GetMappings(ctx, n, insertAt, "", "person.address")
	require.NoError(t, err)
	require.NotNil(t, model)
	assert.Equal(t, "address", model.Output.ID)
	assert.Equal(t, "Address", model.Output.TypeName)
	assert.Equal(t, []string{"address.street", "address.city"}, outputs(model.Mappings))

	for _, field := range []string{"other.address", "person.zip", "person.name.first"} {
		model, err := m.GetMappings(ctx, n, insertAt, "", field)
		require.NoError(t, err, field)
		assert.Nil(t, model, field)
	}
}

func TestGetMappingsUnsupportedInitializer(t *testing.T) {
	m := newManager(t)
	model, err := m.GetMappings(context.Background(), variableNode("Person", "person", "blank()"), insertAt, "", "")
	require.NoError(t, err)
	assert.Nil(t, model)
}

func TestGetMappingsMissingDocument(t *testing.T) {
	p, err := workspace.New(t.TempDir(), map[string]string{"main.bal": mapperSource})
	require.NoError(t, err)
	m := NewManager(p, "other.bal")
	_, err = m.GetMappings(context.Background(), variableNode("int", "n", "1"), insertAt, "", "")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestGetTypes(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	typ, err := m.GetTypes(ctx, variableNode("Person", "person", "{}"), flow.KeyExpression)
	require.NoError(t, err)
	require.NotNil(t, typ)
	assert.Equal(t, typedesc.KindRecord, typ.Kind)
	assert.Equal(t, "Person", typ.Ref)
	assert.Len(t, typ.Fields, 3)

	_, err = m.GetTypes(ctx, variableNode("Missing", "m", "{}"), flow.KeyExpression)
	assert.ErrorIs(t, err, ErrSymbolNotFound)

	call := &flow.Node{Codedata: &flow.Codedata{Node: flow.KindFunctionCall, Symbol: "compute"}}
	typ, err = m.GetTypes(ctx, call, "n")
	require.NoError(t, err)
	require.NotNil(t, typ)
	assert.Equal(t, "int", typ.Kind)
	assert.Equal(t, "n", typ.Name)

	_, err = m.GetTypes(ctx, call, "missing")
	assert.ErrorIs(t, err, ErrSymbolNotFound)

	start := &flow.Node{Codedata: &flow.Codedata{Node: flow.KindStart}}
	typ, err = m.GetTypes(ctx, start, "")
	require.NoError(t, err)
	assert.Nil(t, typ)
}

func TestGetSource(t *testing.T) {
	m := newManager(t)
	tests := []struct {
		name     string
		expr     string
		mappings []Mapping
		field    string
		want     string
	}{
		{
			name:     "mapping constructor",
			expr:     "{name: p.name}",
			mappings: []Mapping{{Output: "v.name", Expression: "p.name"}, {Output: "v.address.city", Expression: "region"}},
			want:     "{address:{city:region},name:p.name}",
		},
		{
			name:     "query keeps clauses",
			expr:     `from var x in xs where x.y != "" select {y: x.y}`,
			mappings: []Mapping{{Output: "v.y", Expression: "x.y + PREFIX"}},
			want:     `from var x in xs where x.y != "" select {y:x.y + PREFIX}`,
		},
		{
			name:     "nested query at target field",
			expr:     `{name: "n", items: from var x in xs select {y: x.y}}`,
			mappings: []Mapping{{Output: "items.y", Expression: "x.y"}},
			field:    "v.items",
			want:     `{name: "n", items: from var x in xs select {y:x.y}}`,
		},
		{
			name:     "target field without query",
			expr:     `{name: "n", address: {city: "c"}}`,
			mappings: []Mapping{{Output: "address.city", Expression: "region"}},
			field:    "v.address",
			want:     "{city:region}",
		},
		{
			name:     "select keyword inside a string",
			expr:     `from var x in xs where x.y == "select" select {y: x.y}`,
			mappings: []Mapping{{Output: "v.y", Expression: "z"}},
			want:     `from var x in xs where x.y == "select" select {y:z}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.GetSource(variableNode("Person", "v", tt.expr), tt.mappings, tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	other := &flow.Node{Codedata: &flow.Codedata{Node: flow.KindStart}}
	got, err := m.GetSource(other, []Mapping{{Output: "v.a", Expression: "1"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "{a:1}", got)
}

func TestNewPort(t *testing.T) {
	assert.Nil(t, NewPort("u", &typedesc.Type{Kind: typedesc.KindUnion}))
	assert.Nil(t, NewPort("a", &typedesc.Type{Kind: typedesc.KindArray, MemberType: &typedesc.Type{Kind: typedesc.KindError}}))
	p := NewPort("v.n", &typedesc.Type{Kind: "int", TypeName: "int", Optional: true})
	require.NotNil(t, p)
	assert.Equal(t, "n", p.VariableName)
	assert.Equal(t, typedesc.VariantPrimitive, p.Variant)
	assert.True(t, p.Optional)
}
