//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package flow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flowmodel-go/semantic"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
)

func sampleRange(line int) syntax.LineRange {
	return syntax.LineRange{
		FileName:  "main.bal",
		StartLine: syntax.LinePosition{Line: line},
		EndLine:   syntax.LinePosition{Line: line + 2, Offset: 1},
	}
}

func TestNodeKindLabel(t *testing.T) {
	assert.Equal(t, "Remote Action Call", KindRemoteActionCall.Label())
	assert.Equal(t, "Start", KindStart.Label())
	assert.Equal(t, "Data Mapper Definition", KindDataMapperDefinition.Label())
}

func TestNodeIDIsStable(t *testing.T) {
	a := NodeID(KindFunctionDefinition, sampleRange(3))
	b := NodeID(KindFunctionDefinition, sampleRange(3))
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, NodeID(KindFunctionDefinition, sampleRange(4)))
	assert.NotEqual(t, a, NodeID(KindDataMapperDefinition, sampleRange(3)))
}

func TestCodedataBuilderIgnoresEmpty(t *testing.T) {
	b := NewCodedataBuilder().Node(KindAgent).Org("wso2").Module("ai.agent").Symbol("init")
	b.Org("").Object("Agent").Node("")
	first := b.LineRange(sampleRange(1)).Build()
	second := b.Build()

	assert.Equal(t, KindAgent, first.Node)
	assert.Equal(t, "wso2", first.Org)
	assert.Equal(t, "Agent", first.Object)
	assert.False(t, first.IsNew)
	require.NotNil(t, first.LineRange)

	first.LineRange.StartLine.Line = 99
	assert.Equal(t, 1, second.LineRange.StartLine.Line)
}

func TestPropertiesBuilder(t *testing.T) {
	props := NewPropertiesBuilder().
		FunctionName("foo", true, "Function", "Name of the function").
		NestedProperty().
		Parameter("int", "a", "REQUIRED").
		Parameter("string...", "rest", "REST").
		EndNested(ValueTypeRepeatableProperty, KeyParameters, "Parameters", "Function parameters", ParameterSchema()).
		ReturnType("int", "").
		CheckError(true).
		Build()

	assert.Equal(t, []string{KeyFunctionName, KeyParameters, KeyType, KeyCheckError}, props.Keys())

	name, _ := props.Get(KeyFunctionName)
	assert.Equal(t, "foo", name.ToSourceCode())
	assert.True(t, name.Editable)

	params, _ := props.Get(KeyParameters)
	assert.Equal(t, ValueTypeRepeatableProperty, params.ValueType)
	assert.Equal(t, []Param{
		{Type: "int", Name: "a", Kind: "REQUIRED"},
		{Type: "string...", Name: "rest", Kind: "REST"},
	}, Params(params))

	ret, _ := props.Get(KeyType)
	assert.True(t, ret.Optional)
	check, _ := props.Get(KeyCheckError)
	assert.Equal(t, "check", check.ToSourceCode())
}

func TestEndNestedWithoutOpenGroup(t *testing.T) {
	props := NewPropertiesBuilder().EndNested(ValueTypeNestedProperty, "x", "X", "", nil).Build()
	assert.Zero(t, props.Len())
}

func TestDecodeNode(t *testing.T) {
	n := &Node{
		ID:       "n1",
		Metadata: Metadata{Label: "Function"},
		Codedata: NewCodedataBuilder().Node(KindFunctionDefinition).LineRange(sampleRange(0)).Build(),
		Properties: NewPropertiesBuilder().
			FunctionName("foo", true, "Function", "").
			NestedProperty().
			Parameter("int", "a", "").
			EndNested(ValueTypeRepeatableProperty, KeyParameters, "Parameters", "", ParameterSchema()).
			Build(),
	}
	data, err := json.Marshal(n)
	require.NoError(t, err)

	got, err := DecodeNode(data)
	require.NoError(t, err)
	assert.Equal(t, KindFunctionDefinition, got.Kind())
	assert.Equal(t, "foo", got.PropertyText(KeyFunctionName))
	assert.Equal(t, sampleRange(0), *got.Codedata.LineRange)
	params, ok := got.Property(KeyParameters)
	require.True(t, ok)
	assert.Equal(t, []Param{{Type: "int", Name: "a"}}, Params(params))

	_, ok = got.Property(KeyConnection)
	assert.False(t, ok)

	_, err = DecodeNode([]byte(`{"properties": 3}`))
	assert.Error(t, err)
}

func TestModuleInfoOf(t *testing.T) {
	info := ModuleInfoOf(semantic.ModuleID{Org: "demo", Name: "app", Version: "0.1.0"})
	assert.Equal(t, ModuleInfo{Org: "demo", PackageName: "app", ModuleName: "app", Version: "0.1.0"}, info)
}
