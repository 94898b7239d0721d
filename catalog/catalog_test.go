//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/semantic"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
	"trpc.group/trpc-go/trpc-flowmodel-go/workspace"
)

const agentSource = `public type Model client object {
    isolated remote function chat(string prompt) returns string|error;
};

public type BaseAgent object {
    isolated function run(string query) returns string|error;
};

public client class ChatGptModel {
    *Model;

    public isolated function init(string apiKey) {
    }

    isolated remote function chat(string prompt) returns string|error {
        return prompt;
    }
}

public client class AzureChatGptModel {
    *Model;

    public isolated function init(string apiKey, string deployment = "d") {
    }

    isolated remote function chat(string prompt) returns string|error {
        return prompt;
    }
}

public client class Agent {
    public isolated function init(BaseAgent agent) {
    }

    isolated remote function run(string query) returns string|error {
        return query;
    }
}

public isolated class FunctionCallAgent {
    *BaseAgent;

    public isolated function init(Model model, string[] tools) {
    }

    isolated function run(string query) returns string|error {
        return query;
    }
}

public isolated class ReActAgent {
    *BaseAgent;

    public isolated function init(string name) {
    }

    isolated function run(string query) returns string|error {
        return query;
    }
}

public isolated class NoInitAgent {
    *BaseAgent;

    isolated function run(string query) returns string|error {
        return query;
    }
}

public isolated class EmptyInitAgent {
    *BaseAgent;

    public isolated function init() {
    }

    isolated function run(string query) returns string|error {
        return query;
    }
}
`

const geoSource = `# A postal address.
public type Address record {|
    string street;
    Country country;
|};

public type Country record {|
    string code;
|};
`

const mainSource = `import ballerinax/ai.agent as ai;
import acme/geo;

type Contact record {|
    string email;
|};

# A customer of the shop.
type Customer record {
    *Contact;
    # Display name
    string name = "anon";
    int? age;
    geo:Address address;
    Contact[] others;
    string note?;
    string...;
};

type Names string[];

enum Tier {
    GOLD,
    SILVER
}

final ai:ChatGptModel gpt = check new ("k");
final ai:AzureChatGptModel azure = check new ("k");
int counter = 0;

function lookup(string id) returns string {
    return id;
}

public function main() {
}
`

func newProject(t *testing.T, sources map[string]string) *workspace.Project {
	t.Helper()
	p, err := workspace.New(t.TempDir(), sources,
		workspace.WithModule("demo", "app"),
		workspace.WithDependency(semantic.ModuleID{Org: "ballerinax", Name: "ai.agent", Version: "1.0.0"},
			map[string]string{"agent.bal": agentSource}),
		workspace.WithDependency(semantic.ModuleID{Org: "acme", Name: "geo", Version: "1.0.0"},
			map[string]string{"geo.bal": geoSource}))
	require.NoError(t, err)
	return p
}

func newAgentManager(t *testing.T) *AgentManager {
	t.Helper()
	return NewAgentManager(newProject(t, map[string]string{"main.bal": mainSource}), DefaultConfig())
}

// positionOf returns the position of the first occurrence of needle.
func positionOf(t *testing.T, src, needle string) syntax.LinePosition {
	t.Helper()
	idx := strings.Index(src, needle)
	require.GreaterOrEqual(t, idx, 0, needle)
	line := strings.Count(src[:idx], "\n")
	return syntax.LinePosition{Line: line, Offset: idx - strings.LastIndex(src[:idx], "\n") - 1}
}

func objects(cds []*flow.Codedata) []string {
	var out []string
	for _, cd := range cds {
		out = append(out, cd.Object)
	}
	return out
}

func TestGetAllAgents(t *testing.T) {
	agents, err := newAgentManager(t).GetAllAgents()
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, &flow.Codedata{
		Node:   flow.KindAgent,
		Org:    "ballerinax",
		Module: "ai.agent",
		Object: "Agent",
		Symbol: "init",
	}, agents[0])
}

func TestGetAllModels(t *testing.T) {
	models, err := newAgentManager(t).GetAllModels()
	require.NoError(t, err)
	assert.Equal(t, []string{"ChatGptModel", "AzureChatGptModel"}, objects(models))
	for _, m := range models {
		assert.Equal(t, flow.KindClass, m.Node)
		assert.Equal(t, "init", m.Symbol)
	}
}

func TestAgentModuleMissing(t *testing.T) {
	m := NewAgentManager(newProject(t, map[string]string{"main.bal": "int x = 1;\n"}), DefaultConfig())
	_, err := m.GetAllAgents()
	assert.ErrorIs(t, err, ErrAgentModuleNotFound)
	_, err = m.GetAllModels()
	assert.ErrorIs(t, err, ErrAgentModuleNotFound)
	_, err = m.GetCompatibleModels("FunctionCallAgent")
	assert.ErrorIs(t, err, ErrAgentModuleNotFound)
}

func TestGetModels(t *testing.T) {
	m := newAgentManager(t)
	models, err := m.GetModels("FunctionCallAgent")
	require.NoError(t, err)
	assert.Equal(t, []string{"ai:ChatGptModel", "ai:AzureChatGptModel"}, models)

	_, err = m.GetModels("Nope")
	assert.ErrorIs(t, err, ErrUnknownAgent)
}

func TestGetCompatibleModels(t *testing.T) {
	m := newAgentManager(t)
	models, err := m.GetCompatibleModels("FunctionCallAgent")
	require.NoError(t, err)
	assert.Equal(t, []string{"ChatGptModel", "AzureChatGptModel"}, objects(models))

	tests := []struct {
		agent string
		want  error
	}{
		{"ReActAgent", ErrNoCompatibleModels},
		{"NoInitAgent", ErrNoInitMethod},
		{"EmptyInitAgent", ErrNoInitParams},
		{"Agent", ErrAgentNotFound},
		{"Missing", ErrAgentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.agent, func(t *testing.T) {
			_, err := m.GetCompatibleModels(tt.agent)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetToolsAndFindSymbol(t *testing.T) {
	m := newAgentManager(t)
	assert.Equal(t, []string{"lookup", "main"}, m.GetTools())

	s, ok := m.FindSymbol(context.Background(), "Customer")
	require.True(t, ok)
	assert.Equal(t, semantic.KindTypeDefinition, s.Kind)
	_, ok = m.FindSymbol(context.Background(), "missing")
	assert.False(t, ok)
}

func functionNode(name string, params [][2]string, returns string) *flow.Node {
	pb := flow.NewPropertiesBuilder().
		FunctionName(name, true, "Name", "Name of the function").
		NestedProperty()
	for _, p := range params {
		pb.Parameter(p[0], p[1], "REQUIRED")
	}
	pb.EndNested(flow.ValueTypeRepeatableProperty, flow.KeyParameters, "Parameters", "Function parameters", flow.ParameterSchema())
	if returns != "" {
		pb.ReturnType(returns, "")
	}
	return &flow.Node{
		Codedata:   flow.NewCodedataBuilder().Node(flow.KindFunctionDefinition).Build(),
		Properties: pb.Build(),
	}
}

func TestGenToolFunction(t *testing.T) {
	m := newAgentManager(t)
	tests := []struct {
		name string
		node *flow.Node
		want string
	}{
		{
			name: "returning",
			node: functionNode("foo", [][2]string{{"int", "a"}, {"string", "b"}}, "int"),
			want: "function myTool(int a, string b) returns int { int result = foo(a, b); }\n",
		},
		{
			name: "no return",
			node: functionNode("ping", nil, ""),
			want: "function myTool() { ping(); }\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edits, err := m.GenTool(tt.node, "myTool", "main.bal")
			require.NoError(t, err)
			require.Len(t, edits["agents.bal"], 1)
			edit := edits["agents.bal"][0]
			assert.Equal(t, tt.want, edit.NewText)
			assert.Equal(t, syntax.Range{}, edit.Range)
		})
	}
}

func TestGenToolAppendsToAgentFile(t *testing.T) {
	p := newProject(t, map[string]string{
		"main.bal":   mainSource,
		"agents.bal": "function existing() {\n}",
	})
	m := NewAgentManager(p, DefaultConfig())
	edits, err := m.GenTool(functionNode("ping", nil, ""), "t", "main.bal")
	require.NoError(t, err)
	edit := edits["agents.bal"][0]
	assert.Equal(t, "\nfunction t() { ping(); }\n", edit.NewText)
	assert.Equal(t, 1, edit.Range.Start.Line)
	assert.Equal(t, 1, edit.Range.Start.Character)
}

func TestGenToolRemoteAction(t *testing.T) {
	tests := []struct {
		name     string
		returns  string
		variable string
		want     string
	}{
		{
			name:     "bound result",
			returns:  "string",
			variable: "res",
			want:     "function t(string query) returns string { conn->search(query); return res; }\n",
		},
		{
			name:    "unbound result",
			returns: "string",
			want:    "function t(string query) returns string { return conn->search(query); }\n",
		},
		{
			name: "no return type",
			want: "function t(string query) { conn->search(query); }\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := flow.NewProperties()
			props.Set(flow.KeyConnection, &flow.Property{ValueType: flow.ValueTypeIdentifier, Value: "conn"})
			props.Set("query", &flow.Property{ValueType: flow.ValueTypeExpression, ValueTypeConstraint: "string", Value: "\"x\""})
			props.Set(flow.KeyType, &flow.Property{ValueType: flow.ValueTypeType, Value: tt.returns})
			props.Set(flow.KeyVariable, &flow.Property{ValueType: flow.ValueTypeIdentifier, Value: tt.variable})
			props.Set(flow.KeyCheckError, &flow.Property{ValueType: flow.ValueTypeFlag, Value: true})
			n := &flow.Node{
				Codedata: &flow.Codedata{
					Node:       flow.KindRemoteActionCall,
					SourceCode: "conn->search(query)",
				},
				Properties: props,
			}

			edits, err := newAgentManager(t).GenTool(n, "t", "main.bal")
			require.NoError(t, err)
			require.Len(t, edits["agents.bal"], 1)
			assert.Equal(t, tt.want, edits["agents.bal"][0].NewText)
		})
	}
}

func TestGenToolErrors(t *testing.T) {
	m := newAgentManager(t)
	_, err := m.GenTool(functionNode("", nil, ""), "t", "main.bal")
	assert.ErrorIs(t, err, ErrMissingFunctionName)

	_, err = m.GenTool(&flow.Node{Codedata: &flow.Codedata{Node: flow.KindVariable}}, "t", "main.bal")
	assert.ErrorIs(t, err, ErrUnsupportedToolNode)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
agent_org: acme
agent_file: tools.bal
models_for_agent:
  SimpleAgent: [LocalModel]
`))
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.AgentOrg)
	assert.Equal(t, "ai.agent", cfg.AgentModule)
	assert.Equal(t, "tools.bal", cfg.AgentFile)
	assert.Equal(t, []string{"LocalModel"}, cfg.ModelsForAgent["SimpleAgent"])
	assert.Contains(t, cfg.ModelsForAgent, "FunctionCallAgent")

	_, err = ParseConfig([]byte("agent_org: [unclosed"))
	assert.Error(t, err)
}

func typeNames(types []*flow.TypeData) []string {
	var out []string
	for _, td := range types {
		out = append(out, td.Name)
	}
	return out
}

func TestGetAllTypes(t *testing.T) {
	types := NewTypeManager(newProject(t, map[string]string{"main.bal": mainSource})).GetAllTypes()
	require.Equal(t, []string{"Contact", "Customer", "acme/geo:Address", "acme/geo:Country"}, typeNames(types))

	customer := types[1]
	assert.True(t, customer.Editable)
	assert.Equal(t, "A customer of the shop.", customer.Metadata.Description)
	assert.Equal(t, flow.KindRecord, customer.Codedata.Node)
	require.NotNil(t, customer.Codedata.LineRange)
	assert.Equal(t, []string{"Contact"}, customer.Includes)
	require.NotNil(t, customer.RestMember)
	assert.Equal(t, "string", customer.RestMember.Type)
	assert.Equal(t, []string{flow.KeyName, flow.KeyDescription, flow.KeyIsArray, flow.KeyArraySize},
		customer.Properties.Keys())
	name, _ := customer.Properties.Get(flow.KeyName)
	assert.Equal(t, "Customer", name.Text())

	assert.Equal(t, []flow.Member{
		{Kind: flow.MemberKindField, Refs: []string{}, Type: "string", Name: "name", Docs: "Display name", DefaultValue: `"anon"`},
		{Kind: flow.MemberKindField, Refs: []string{}, Type: "int?", Name: "age"},
		{Kind: flow.MemberKindField, Refs: []string{"acme/geo:Address"}, Type: "geo:Address", Name: "address"},
		{Kind: flow.MemberKindField, Refs: []string{"Contact"}, Type: "Contact[]", Name: "others"},
		{Kind: flow.MemberKindField, Refs: []string{}, Type: "string", Name: "note", Optional: true},
	}, customer.Members)

	address := types[2]
	assert.Equal(t, "A postal address.", address.Metadata.Description)
	require.Len(t, address.Members, 2)
	assert.Equal(t, []string{"acme/geo:Country"}, address.Members[1].Refs)
}

func TestGetType(t *testing.T) {
	m := NewTypeManager(newProject(t, map[string]string{"main.bal": mainSource}))

	td := m.GetType("main.bal", positionOf(t, mainSource, "Customer record"))
	require.NotNil(t, td)
	assert.Equal(t, "Customer", td.Name)
	assert.Len(t, td.Members, 5)

	assert.Nil(t, m.GetType("main.bal", positionOf(t, mainSource, "Names string")))
	assert.Nil(t, m.GetType("main.bal", positionOf(t, mainSource, "counter")))
	assert.Nil(t, m.GetType("missing.bal", syntax.LinePosition{}))
}
