//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
	"trpc.group/trpc-go/trpc-flowmodel-go/workspace"
)

func TestTokenSpacing(t *testing.T) {
	tests := []struct {
		name  string
		build func(tb *TokenBuilder)
		want  string
	}{
		{
			name: "function wrapper",
			build: func(tb *TokenBuilder) {
				tb.Keyword(KeywordFunction).Name("myTool").OpenParen().
					Name("int a").Comma().Name("string b").CloseParen().
					Keyword(KeywordReturns).Name("int").OpenBrace().
					Name("int").Name("result").Equal().Name("foo").OpenParen().
					Name("a").Comma().Name("b").CloseParen().EndOfStatement().
					CloseBrace()
			},
			want: "function myTool(int a, string b) returns int { int result = foo(a, b); }",
		},
		{
			name: "empty texts are skipped",
			build: func(tb *TokenBuilder) {
				tb.Keyword(KeywordStart).ExpressionText("").ExpressionText("run()").Name("").EndOfStatement()
			},
			want: "start run();",
		},
		{
			name: "forced space never precedes closing punctuation",
			build: func(tb *TokenBuilder) {
				tb.Name("f").OpenParen().WhiteSpace().Name("x").WhiteSpace().CloseParen()
			},
			want: "f( x)",
		},
		{
			name: "remote call",
			build: func(tb *TokenBuilder) {
				tb.ExpressionText("conn").RightArrow().Name("search").OpenParen().Name("q").CloseParen()
			},
			want: "conn->search(q)",
		},
		{
			name: "expression body",
			build: func(tb *TokenBuilder) {
				tb.Keyword(KeywordFunction).Name("f").OpenParen().CloseParen().
					Keyword(KeywordReturns).Name("int").RightDoubleArrow().ExpressionText("1").EndOfStatement()
			},
			want: "function f() returns int => 1;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(&flow.Node{}, nil, "main.bal")
			tt.build(b.Token())
			assert.Equal(t, tt.want, b.Text())
		})
	}
}

func TestTokenExpressionUsesSourceCode(t *testing.T) {
	b := NewBuilder(&flow.Node{}, nil, "main.bal")
	b.Token().Expression(&flow.Property{ValueType: flow.ValueTypeFlag, Value: true}).
		Expression(&flow.Property{ValueType: flow.ValueTypeExpression, Placeholder: "0"}).
		Expression(nil)
	assert.Equal(t, "check 0", b.Text())
}

func TestTextEditInsertsAtEnd(t *testing.T) {
	project, err := workspace.New("/work/app", map[string]string{
		"main.bal": "function main() {\n}",
	})
	require.NoError(t, err)

	b := NewBuilder(&flow.Node{}, project, "/work/app/main.bal")
	assert.Equal(t, "main.bal", b.FilePath)

	edits := b.Token().Keyword(KeywordFunction).Name("f").OpenParen().CloseParen().
		OpenBrace().CloseBrace().Stepout().
		TextEdit(false, "", false).
		Token().Name("x").Stepout().
		TextEdit(true, "agents.bal", false).
		Build()

	require.Len(t, edits["main.bal"], 1)
	end := syntax.Position{Line: 1, Character: 1}
	assert.Equal(t, syntax.TextEdit{
		Range:   syntax.Range{Start: end, End: end},
		NewText: "\nfunction f() { }\n",
	}, edits["main.bal"][0])

	require.Len(t, edits["agents.bal"], 1)
	assert.Equal(t, syntax.TextEdit{NewText: "x"}, edits["agents.bal"][0])

	updated, err := project.ApplyEdits("main.bal", edits["main.bal"]...)
	require.NoError(t, err)
	doc, ok := updated.Document("main.bal")
	require.True(t, ok)
	assert.Len(t, doc.Tree.Functions(), 2)
}

func TestTextEditReplacesRange(t *testing.T) {
	r := syntax.LineRange{
		FileName:  "main.bal",
		StartLine: syntax.LinePosition{Line: 2, Offset: 4},
		EndLine:   syntax.LinePosition{Line: 2, Offset: 20},
	}
	node := &flow.Node{Codedata: flow.NewCodedataBuilder().Node(flow.KindStart).LineRange(r).Build()}
	edits := NewBuilder(node, nil, "main.bal").Token().Keyword(KeywordStart).ExpressionText("run()").
		EndOfStatement().Stepout().TextEdit(false, "", true).Build()

	require.Len(t, edits["main.bal"], 1)
	got := edits["main.bal"][0]
	assert.Equal(t, syntax.Position{Line: 2, Character: 4}, got.Range.Start)
	assert.Equal(t, syntax.Position{Line: 2, Character: 20}, got.Range.End)
	assert.Equal(t, "start run();\n", got.NewText)
}
