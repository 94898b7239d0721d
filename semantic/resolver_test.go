//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package semantic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
)

const agentModule = `# A large language model.
public type Model client object {
    isolated remote function chat(string prompt) returns string|error;
};

# OpenAI chat completions.
public client class OpenAiProvider {
    *Model;
    public string modelType = "gpt";

    public isolated function init(string apiKey, string modelName = "gpt-4o") {
    }

    isolated remote function chat(string prompt) returns string|error {
        return prompt;
    }
}

# Runs tools with a model.
public client class Agent {
    public isolated function init(Model model, string systemPrompt = "") {
    }

    isolated remote function run(string query) returns string|error {
        return query;
    }
}

public type Tool record {|
    string name;
    string description?;
|};

function helper() returns int => 1;
`

const mainModule = `import ballerinax/ai.agent as ai;

type Base record {|
    string id;
|};

type Address record {|
    *Base;
    string street;
    string city?;
|};

type Person record {
    string name;
    int age;
    Address address;
};

enum Color {
    RED,
    GREEN = "g"
}

const int LIMIT = 10;

configurable string apiKey = ?;

final ai:OpenAiProvider model = check new (apiKey);

final ai:Agent agent = check new (model);

int counter = next();

# Moves a person.
#
# + p - the person
# + return - the new address
public function move(Person p, string... streets) returns Address {
    Address a = {id: p.name, street: p.address.street};
    var names = from var x in [p] where x.age > LIMIT select x.name;
    string city = a.street + p.name;
    return a;
}

function next() returns int => LIMIT + 1;
`

func resolveSample(t *testing.T, sources map[string]string) Model {
	t.Helper()
	dep, err := syntax.Parse("agent.bal", agentModule)
	require.NoError(t, err)
	pkg := &Package{
		ID: ModuleID{Org: "demo", Name: "app", Version: "0.1.0"},
		Dependencies: []*Package{{
			ID:      ModuleID{Org: "ballerinax", Name: "ai.agent", Version: "1.0.0"},
			Sources: []Source{{Path: "agent.bal", Tree: dep}},
		}},
	}
	for path, text := range sources {
		tree, err := syntax.Parse(path, text)
		require.NoError(t, err)
		pkg.Sources = append(pkg.Sources, Source{Path: path, Tree: tree})
	}
	return Resolve(pkg)
}

func symbolNamed(syms []*Symbol, name string) *Symbol {
	for _, s := range syms {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func TestResolveModuleSymbols(t *testing.T) {
	m := resolveSample(t, map[string]string{"main.bal": mainModule})
	assert.Empty(t, AllDiagnostics(m))
	assert.Equal(t, "demo/app", m.Module().String())

	syms := m.ModuleSymbols()
	kinds := map[string]SymbolKind{}
	for _, s := range syms {
		kinds[s.Name] = s.Kind
	}
	assert.Equal(t, KindTypeDefinition, kinds["Person"])
	assert.Equal(t, KindEnum, kinds["Color"])
	assert.Equal(t, KindEnumMember, kinds["GREEN"])
	assert.Equal(t, KindConstant, kinds["LIMIT"])
	assert.Equal(t, KindVariable, kinds["apiKey"])
	assert.Equal(t, KindFunction, kinds["move"])
	assert.Equal(t, KindModule, kinds["ai"])

	apiKey := symbolNamed(syms, "apiKey")
	assert.True(t, apiKey.HasQualifier(QualifierConfigurable))
	assert.Equal(t, "string", apiKey.Type.Signature())

	model := symbolNamed(syms, "model")
	assert.Equal(t, "ai:OpenAiProvider", model.Type.Signature())
	assert.Equal(t, "ballerinax/ai.agent", model.Type.Module.String())

	counter := symbolNamed(syms, "counter")
	assert.Equal(t, TypeInt, counter.Type.Kind)

	limit := symbolNamed(syms, "LIMIT")
	assert.Equal(t, "int", limit.Type.Signature())

	move := symbolNamed(syms, "move")
	require.Len(t, move.Params, 2)
	assert.Equal(t, ParamRequired, move.Params[0].ParamKind)
	assert.Equal(t, ParamRest, move.Params[1].ParamKind)
	assert.Equal(t, "string[]", move.Params[1].Type.Signature())
	assert.Equal(t, "Address", move.Return.Signature())
	assert.Equal(t, "Moves a person.", move.Description())
	assert.Equal(t, "the new address", move.Docs.Return)
	assert.Equal(t, "the person", move.Params[0].Description())
}

func TestResolveImportedModule(t *testing.T) {
	m := resolveSample(t, map[string]string{"main.bal": mainModule})
	mod := symbolNamed(m.ModuleSymbols(), "ai")
	require.NotNil(t, mod)
	assert.Equal(t, "ai.agent", mod.Module.Name)

	// helper is not public.
	assert.Nil(t, symbolNamed(mod.Members, "helper"))
	classes := mod.Classes()
	require.Len(t, classes, 2)

	agent := symbolNamed(classes, "Agent")
	init, ok := agent.InitMethod()
	require.True(t, ok)
	param, ok := init.Param("model")
	require.True(t, ok)
	assert.Equal(t, "Model", param.Type.Signature())
	sp, ok := init.Param("systemPrompt")
	require.True(t, ok)
	assert.Equal(t, ParamDefaultable, sp.ParamKind)

	provider := symbolNamed(classes, "OpenAiProvider")
	require.Len(t, provider.Inclusions, 1)
	assert.True(t, SubTypeOf(provider.Inclusions[0], param.Type))
	assert.True(t, SubTypeOf(provider.Type, param.Type))
	assert.False(t, SubTypeOf(agent.Type, param.Type))
	assert.True(t, provider.HasQualifier(QualifierClient))
	assert.Equal(t, "OpenAI chat completions.", provider.Description())
}

func TestResolveRecordInclusion(t *testing.T) {
	m := resolveSample(t, map[string]string{"main.bal": mainModule})
	addr := symbolNamed(m.ModuleSymbols(), "Address")
	require.NotNil(t, addr)
	raw := addr.Type.RawType()
	assert.Equal(t, TypeRecord, raw.Kind)
	assert.True(t, raw.Closed)

	_, declared := raw.Field("id")
	assert.False(t, declared)
	f, ok := raw.FieldIncluded("id")
	require.True(t, ok)
	assert.Equal(t, "string", f.Type.Signature())

	var names []string
	for _, f := range raw.AllFields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"street", "city", "id"}, names)
}

func TestResolveDiagnostics(t *testing.T) {
	src := `import ballerina/missing;

type Point record {|
    int x;
|};

function f(Point p) returns int {
    int a = p.y;
    Shape s = unknownVar;
    return zz:call();
}
`
	m := resolveSample(t, map[string]string{"bad.bal": src})
	diags := AllDiagnostics(m)
	codes := map[string]int{}
	for _, d := range diags {
		codes[d.Code]++
		assert.Equal(t, "bad.bal", d.LineRange.FileName)
	}
	assert.Equal(t, 2, codes[CodeUndefinedModule])
	assert.Equal(t, 1, codes[CodeUndefinedField])
	assert.Equal(t, 1, codes[CodeUnknownType])
	assert.Equal(t, 1, codes[CodeUndefinedSymbol])

	fnLine := syntax.LineRange{
		FileName:  "bad.bal",
		StartLine: syntax.LinePosition{Line: 7},
		EndLine:   syntax.LinePosition{Line: 7, Offset: 40},
	}
	inFn := m.Diagnostics(fnLine)
	require.Len(t, inFn, 1)
	assert.Equal(t, CodeUndefinedField, inFn[0].Code)
	assert.True(t, strings.Contains(inFn[0].Message, "'y'"))
}

func TestResolveAcrossFiles(t *testing.T) {
	m := resolveSample(t, map[string]string{
		"a.bal": "function useIt() returns Shared => helper();\n",
		"b.bal": "type Shared record {\n    int v;\n};\n\nfunction helper() returns Shared => {v: 1};\n",
	})
	assert.Empty(t, AllDiagnostics(m))
}

func TestVisibleSymbols(t *testing.T) {
	m := resolveSample(t, map[string]string{"main.bal": mainModule})
	doc := syntax.NewTextDocument("main.bal", mainModule)
	off := strings.Index(mainModule, "return a;")
	pos := doc.PositionOf(off)

	names := map[string]bool{}
	for _, s := range m.VisibleSymbols("main.bal", pos) {
		names[s.Name] = true
	}
	for _, want := range []string{"p", "streets", "a", "names", "city", "LIMIT", "apiKey", "model", "move", "Person"} {
		assert.True(t, names[want], want)
	}
	assert.False(t, names["ai"])
	assert.False(t, names["x"])

	early := doc.PositionOf(strings.Index(mainModule, "Address a ="))
	names = map[string]bool{}
	for _, s := range m.VisibleSymbols("main.bal", early) {
		names[s.Name] = true
	}
	assert.True(t, names["p"])
	assert.False(t, names["a"])
	assert.False(t, names["city"])
}

func TestSymbolAt(t *testing.T) {
	m := resolveSample(t, map[string]string{"main.bal": mainModule})
	doc := syntax.NewTextDocument("main.bal", mainModule)

	use := strings.Index(mainModule, "check new (apiKey)") + len("check new (")
	s, ok := m.SymbolAt("main.bal", doc.PositionOf(use))
	require.True(t, ok)
	assert.Equal(t, "apiKey", s.Name)
	assert.Equal(t, KindVariable, s.Kind)

	typeUse := strings.Index(mainModule, "ai:Agent") + len("ai:")
	s, ok = m.SymbolAt("main.bal", doc.PositionOf(typeUse))
	require.True(t, ok)
	assert.Equal(t, "Agent", s.Name)
	assert.Equal(t, KindClass, s.Kind)

	_, ok = m.SymbolAt("other.bal", doc.PositionOf(0))
	assert.False(t, ok)
}
