//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/workspace"
)

const source = `type Point record {|
    int x;
|};

function main() {
}

function shift(int dx, int... rest) returns int {
    return dx;
}

function toPoint(int x) returns Point => {x: x};
`

func newAnalyzer(t *testing.T) *ModuleNodeAnalyzer {
	t.Helper()
	p, err := workspace.New(t.TempDir(), map[string]string{"main.bal": source}, workspace.WithModule("demo", "app"))
	require.NoError(t, err)
	return New(p)
}

func TestFindFunction(t *testing.T) {
	a := newAnalyzer(t)

	n, err := a.FindFunction("main.bal", "shift")
	require.NoError(t, err)
	assert.Equal(t, flow.KindFunctionDefinition, n.Kind())
	assert.Equal(t, "shift", n.PropertyText(flow.KeyFunctionName))
	assert.Equal(t, "int", n.PropertyText(flow.KeyType))
	params, ok := n.Property(flow.KeyParameters)
	require.True(t, ok)
	got := flow.Params(params)
	require.Len(t, got, 2)
	assert.Equal(t, "int...", got[1].Type)
	assert.Equal(t, "demo", n.Codedata.Org)
	assert.Equal(t, "app", n.Codedata.Module)
	require.NotNil(t, n.Codedata.LineRange)
	assert.Equal(t, 7, n.Codedata.LineRange.StartLine.Line)

	mapper, err := a.FindFunction("main.bal", "toPoint")
	require.NoError(t, err)
	assert.Equal(t, flow.KindDataMapperDefinition, mapper.Kind())
	assert.Equal(t, "Point", mapper.PropertyText(flow.KeyType))

	main, err := a.FindFunction("main.bal", "main")
	require.NoError(t, err)
	name, _ := main.Property(flow.KeyFunctionName)
	assert.False(t, name.Editable)
}

func TestFindFunctionErrors(t *testing.T) {
	a := newAnalyzer(t)

	_, err := a.FindFunction("main.bal", "missing")
	assert.ErrorIs(t, err, ErrFunctionNotFound)

	_, err = a.FindFunction("other.bal", "main")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
