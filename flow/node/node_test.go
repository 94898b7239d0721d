//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/flow/source"
	"trpc.group/trpc-go/trpc-flowmodel-go/semantic"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
	"trpc.group/trpc-go/trpc-flowmodel-go/workspace"
)

const searchModule = `public client class Search {
    # Searches the index.
    # + query - the search text
    remote function search(string query) returns string|error {
        return query;
    }
}

public function lookup(string key) returns string {
    return key;
}
`

const mainSource = `import ballerinax/ai.agent as ai;

type Address record {|
    string street;
|};

type Person record {|
    string name;
|};

final ai:Search searcher = new ();

function compute(int a, string b = "x", string... rest) returns int {
    return a;
}

public function main() returns error? {
    int total = compute(1, "y", "p", "q");
    string answer = check searcher->search("books");
    future<int> f = start compute(2);
    start compute(3);
    final int count = 10;
    int n = unknown();
}

function toAddress(Person p) returns Address => {street: p.name};
`

func loadProject(t *testing.T, src string) *workspace.Project {
	t.Helper()
	p, err := workspace.New("/work/app", map[string]string{"main.bal": src},
		workspace.WithModule("demo", "app"),
		workspace.WithDependency(semantic.ModuleID{Org: "ballerinax", Name: "ai.agent", Version: "1.0.0"},
			map[string]string{"search.bal": searchModule}))
	require.NoError(t, err)
	return p
}

func function(t *testing.T, p *workspace.Project, name string) *syntax.FunctionDef {
	t.Helper()
	doc, ok := p.Document("main.bal")
	require.True(t, ok)
	for _, fn := range doc.Tree.Functions() {
		if fn.Name.Value() == name {
			return fn
		}
	}
	t.Fatalf("function %s not found", name)
	return nil
}

func statement(t *testing.T, p *workspace.Project, i int) syntax.Statement {
	t.Helper()
	body, ok := function(t, p, "main").Body.(*syntax.BlockBody)
	require.True(t, ok)
	require.Greater(t, len(body.Statements), i)
	return body.Statements[i]
}

func contextOf(p *workspace.Project, n syntax.Node) *SourceContext {
	return &SourceContext{Node: n, Model: p.SemanticModel(), Module: flow.ModuleInfoOf(p.Module())}
}

func singleEdit(t *testing.T, edits map[string][]syntax.TextEdit) syntax.TextEdit {
	t.Helper()
	require.Len(t, edits["main.bal"], 1)
	return edits["main.bal"][0]
}

func TestDefaultRegistry(t *testing.T) {
	assert.Equal(t, []flow.NodeKind{
		flow.KindDataMapperDefinition, flow.KindFunctionCall, flow.KindFunctionDefinition,
		flow.KindRemoteActionCall, flow.KindStart, flow.KindVariable,
	}, DefaultRegistry.List())

	r := NewRegistry()
	require.NoError(t, r.Register(Start{}))
	assert.Error(t, r.Register(Start{}))
	assert.True(t, r.Has(flow.KindStart))
	r.Unregister(flow.KindStart)
	assert.False(t, r.Has(flow.KindStart))
	assert.Panics(t, func() {
		r.MustRegister(Variable{})
		r.MustRegister(Variable{})
	})

	_, err := r.ToSource(&flow.Node{Codedata: &flow.Codedata{Node: flow.KindAgent}}, nil, "main.bal")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestKindOf(t *testing.T) {
	p := loadProject(t, mainSource)
	tests := []struct {
		name string
		node syntax.Node
		want flow.NodeKind
	}{
		{"function", function(t, p, "compute"), flow.KindFunctionDefinition},
		{"data mapper", function(t, p, "toAddress"), flow.KindDataMapperDefinition},
		{"call", statement(t, p, 0), flow.KindFunctionCall},
		{"remote call", statement(t, p, 1), flow.KindRemoteActionCall},
		{"start binding", statement(t, p, 2), flow.KindStart},
		{"start", statement(t, p, 3), flow.KindStart},
		{"variable", statement(t, p, 4), flow.KindVariable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KindOf(tt.node)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
	_, ok := KindOf(function(t, p, "main").ReturnType)
	assert.False(t, ok)
}

func TestFunctionDefinitionRoundTrip(t *testing.T) {
	p := loadProject(t, mainSource)
	n, err := FromSource(contextOf(p, function(t, p, "compute")))
	require.NoError(t, err)
	require.NotNil(t, n)

	assert.Equal(t, flow.KindFunctionDefinition, n.Kind())
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "compute", n.PropertyText(flow.KeyFunctionName))
	assert.Equal(t, "int", n.PropertyText(flow.KeyType))
	params, ok := n.Property(flow.KeyParameters)
	require.True(t, ok)
	want := []flow.Param{
		{Type: "int", Name: "a", Kind: "REQUIRED"},
		{Type: "string", Name: "b", Kind: "DEFAULTABLE", Default: `"x"`},
		{Type: "string...", Name: "rest", Kind: "REST"},
	}
	assert.Equal(t, want, flow.Params(params))

	name, _ := n.Property(flow.KeyFunctionName)
	name.Value = "calculate"
	edits, err := ToSource(n, p, "")
	require.NoError(t, err)
	edit := singleEdit(t, edits)
	assert.Equal(t, `function calculate(int a, string b = "x", string... rest) returns int`, edit.NewText)

	updated, err := p.ApplyEdits("main.bal", edit)
	require.NoError(t, err)
	doc, ok := updated.Document("main.bal")
	require.True(t, ok)
	assert.Contains(t, doc.Text(), "returns int {\n    return a;")
	again, err := FromSource(contextOf(updated, function(t, updated, "calculate")))
	require.NoError(t, err)
	params, _ = again.Property(flow.KeyParameters)
	assert.Equal(t, want, flow.Params(params))
	assert.Equal(t, "int", again.PropertyText(flow.KeyType))
}

func TestMainIsNotEditable(t *testing.T) {
	p := loadProject(t, mainSource)
	n, err := FromSource(contextOf(p, function(t, p, "main")))
	require.NoError(t, err)
	name, ok := n.Property(flow.KeyFunctionName)
	require.True(t, ok)
	assert.False(t, name.Editable)
	assert.Equal(t, "error?", n.PropertyText(flow.KeyType))
}

func TestNewFunctionDefinition(t *testing.T) {
	p := loadProject(t, mainSource)
	n := FunctionDefinition{}.Template(TemplateContext{Module: flow.ModuleInfoOf(p.Module())})
	assert.True(t, n.Codedata.IsNew)

	_, err := ToSource(n, p, "main.bal")
	assert.ErrorIs(t, err, ErrMissingProperty)

	name, _ := n.Property(flow.KeyFunctionName)
	name.Value = "helper"
	edits, err := ToSource(n, p, "main.bal")
	require.NoError(t, err)
	edit := singleEdit(t, edits)
	assert.Equal(t, "function helper() { }\n", edit.NewText)
	assert.Equal(t, edit.Range.Start, edit.Range.End)

	updated, err := p.ApplyEdits("main.bal", edit)
	require.NoError(t, err)
	assert.NotNil(t, function(t, updated, "helper"))
}

func TestDataMapperDefinition(t *testing.T) {
	p := loadProject(t, mainSource)
	n, err := FromSource(contextOf(p, function(t, p, "toAddress")))
	require.NoError(t, err)
	assert.Equal(t, flow.KindDataMapperDefinition, n.Kind())
	ret, ok := n.Property(flow.KeyType)
	require.True(t, ok)
	assert.Equal(t, "Address", ret.Text())
	assert.Equal(t, RecordType, ret.Constraint())
	params, _ := n.Property(flow.KeyParameters)
	assert.Equal(t, []flow.Param{{Type: "Person", Name: "p", Kind: "REQUIRED"}}, flow.Params(params))

	tmpl := DataMapperDefinition{}.Template(TemplateContext{FilePath: "mappers.bal"})
	name, _ := tmpl.Property(flow.KeyFunctionName)
	name.Value = "mapIt"
	typ, _ := tmpl.Property(flow.KeyType)
	typ.Value = "Address"
	edits, err := ToSource(tmpl, p, "")
	require.NoError(t, err)
	require.Len(t, edits["mappers.bal"], 1)
	assert.Equal(t, "function mapIt() returns Address => {};\n", edits["mappers.bal"][0].NewText)
}

func TestStart(t *testing.T) {
	p := loadProject(t, mainSource)

	n, err := FromSource(contextOf(p, statement(t, p, 3)))
	require.NoError(t, err)
	assert.Equal(t, "Start", n.Metadata.Label)
	assert.Equal(t, StartDescription, n.Metadata.Description)
	assert.Equal(t, "compute(3)", n.PropertyText(flow.KeyExpression))
	edits, err := ToSource(n, p, "")
	require.NoError(t, err)
	assert.Equal(t, "start compute(3);\n", singleEdit(t, edits).NewText)

	n, err = FromSource(contextOf(p, statement(t, p, 2)))
	require.NoError(t, err)
	assert.Equal(t, "f", n.PropertyText(flow.KeyVariable))
	assert.Equal(t, "future<int>", n.PropertyText(flow.KeyType))
	edits, err = ToSource(n, p, "")
	require.NoError(t, err)
	assert.Equal(t, "future<int> f = start compute(2);\n", singleEdit(t, edits).NewText)

	tmpl := Start{}.Template(TemplateContext{})
	sb := source.NewBuilder(tmpl, nil, "main.bal")
	edits, err = Start{}.ToSource(sb)
	require.NoError(t, err)
	assert.Equal(t, "start 0;\n", singleEdit(t, edits).NewText)
}

func TestVariable(t *testing.T) {
	p := loadProject(t, mainSource)
	n, err := FromSource(contextOf(p, statement(t, p, 4)))
	require.NoError(t, err)
	assert.Equal(t, []string{flow.KeyExpression, flow.KeyVariable, flow.KeyType, flow.KeyFinal}, n.Properties.Keys())
	assert.Equal(t, "10", n.PropertyText(flow.KeyExpression))
	edits, err := ToSource(n, p, "")
	require.NoError(t, err)
	assert.Equal(t, "final int count = 10;\n", singleEdit(t, edits).NewText)

	unresolved, err := FromSource(contextOf(p, statement(t, p, 5)))
	require.NoError(t, err)
	assert.Equal(t, flow.KindVariable, unresolved.Kind())
	assert.Equal(t, "unknown()", unresolved.PropertyText(flow.KeyExpression))
}

func TestFunctionCall(t *testing.T) {
	p := loadProject(t, mainSource)
	n, err := FromSource(contextOf(p, statement(t, p, 0)))
	require.NoError(t, err)
	require.Equal(t, flow.KindFunctionCall, n.Kind())
	assert.Equal(t, "compute", n.Codedata.Symbol)
	assert.Equal(t, "app", n.Codedata.Module)
	assert.Equal(t, `compute(1, "y", "p", "q")`, n.Codedata.SourceCode)
	assert.Equal(t, []string{"a", "b", "rest", flow.KeyVariable, flow.KeyType, flow.KeyCheckError}, n.Properties.Keys())

	b, _ := n.Property("b")
	assert.Equal(t, `"y"`, b.Text())
	assert.Equal(t, "string", b.Constraint())
	assert.True(t, b.Optional)
	assert.Equal(t, `"p", "q"`, n.PropertyText("rest"))

	edits, err := ToSource(n, p, "")
	require.NoError(t, err)
	assert.Equal(t, "int total = compute(1, \"y\", \"p\", \"q\");\n", singleEdit(t, edits).NewText)

	b.Value = ""
	edits, err = ToSource(n, p, "")
	require.NoError(t, err)
	assert.Equal(t, "int total = compute(1);\n", singleEdit(t, edits).NewText)
}

func TestRemoteActionCall(t *testing.T) {
	p := loadProject(t, mainSource)
	n, err := FromSource(contextOf(p, statement(t, p, 1)))
	require.NoError(t, err)
	require.Equal(t, flow.KindRemoteActionCall, n.Kind())
	assert.Equal(t, "Search", n.Codedata.Object)
	assert.Equal(t, "search", n.Codedata.Symbol)
	assert.Equal(t, "ballerinax", n.Codedata.Org)
	assert.Equal(t, "ai.agent", n.Codedata.Module)
	assert.Equal(t, `searcher->search("books")`, n.Codedata.SourceCode)

	query, ok := n.Property("query")
	require.True(t, ok)
	assert.Equal(t, `"books"`, query.Text())
	assert.Equal(t, "the search text", query.Metadata.Description)
	assert.Equal(t, "searcher", n.PropertyText(flow.KeyConnection))
	check, _ := n.Property(flow.KeyCheckError)
	assert.True(t, check.Enabled())

	edits, err := ToSource(n, p, "")
	require.NoError(t, err)
	edit := singleEdit(t, edits)
	assert.Equal(t, "string answer = check searcher->search(\"books\");\n", edit.NewText)

	updated, err := p.ApplyEdits("main.bal", edit)
	require.NoError(t, err)
	again, err := FromSource(contextOf(updated, statement(t, updated, 1)))
	require.NoError(t, err)
	assert.Equal(t, n.Properties.Keys(), again.Properties.Keys())
	assert.Equal(t, n.ID, again.ID)
}

func TestFunctionCallImportPrefix(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "alias",
			source: "import ballerinax/ai.agent as ai;\n\npublic function main() {\n    string r = ai:lookup(\"x\");\n}\n",
			want:   "string r = ai:lookup(\"x\");\n",
		},
		{
			name:   "default prefix",
			source: "import ballerinax/ai.agent;\n\npublic function main() {\n    string r = agent:lookup(\"x\");\n}\n",
			want:   "string r = agent:lookup(\"x\");\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := loadProject(t, tt.source)
			n, err := FromSource(contextOf(p, statement(t, p, 0)))
			require.NoError(t, err)
			require.Equal(t, flow.KindFunctionCall, n.Kind())
			assert.Equal(t, "ai.agent", n.Codedata.Module)
			assert.Equal(t, "lookup", n.Codedata.Symbol)

			edits, err := ToSource(n, p, "")
			require.NoError(t, err)
			edit := singleEdit(t, edits)
			assert.Equal(t, tt.want, edit.NewText)

			updated, err := p.ApplyEdits("main.bal", edit)
			require.NoError(t, err)
			again, err := FromSource(contextOf(updated, statement(t, updated, 0)))
			require.NoError(t, err)
			require.NotNil(t, again)
			assert.Equal(t, flow.KindFunctionCall, again.Kind())
			assert.Equal(t, n.Properties.Keys(), again.Properties.Keys())
		})
	}
}

func TestVariableInitializer(t *testing.T) {
	tests := []struct {
		name string
		decl string
		want string
	}{
		{"uninitialized string", "string s;", "string s;\n"},
		{"uninitialized int", "int count;", "int count;\n"},
		{"initialized", "int count = 3;", "int count = 3;\n"},
		{"final", "final string s = \"a\";", "final string s = \"a\";\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := loadProject(t, "public function main() {\n    "+tt.decl+"\n}\n")
			n, err := FromSource(contextOf(p, statement(t, p, 0)))
			require.NoError(t, err)
			require.Equal(t, flow.KindVariable, n.Kind())

			edits, err := ToSource(n, p, "")
			require.NoError(t, err)
			edit := singleEdit(t, edits)
			assert.Equal(t, tt.want, edit.NewText)

			updated, err := p.ApplyEdits("main.bal", edit)
			require.NoError(t, err)
			again, err := FromSource(contextOf(updated, statement(t, updated, 0)))
			require.NoError(t, err)
			assert.Equal(t, n.PropertyText(flow.KeyExpression), again.PropertyText(flow.KeyExpression))
		})
	}

	tmpl := Variable{}.Template(TemplateContext{})
	name, _ := tmpl.Property(flow.KeyVariable)
	name.Value = "count"
	typ, _ := tmpl.Property(flow.KeyType)
	typ.Value = "int"
	edits, err := Variable{}.ToSource(source.NewBuilder(tmpl, nil, "main.bal"))
	require.NoError(t, err)
	assert.Equal(t, "int count = 0;\n", singleEdit(t, edits).NewText)
}
