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
	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/flow/source"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
)

// VariableDescription describes variable nodes.
const VariableDescription = "New variable with type"

// Variable handles local variable declarations.
type Variable struct{}

// Kind implements Builder.
func (Variable) Kind() flow.NodeKind { return flow.KindVariable }

// Template implements Builder.
func (Variable) Template(ctx TemplateContext) *flow.Node {
	props := flow.NewPropertiesBuilder().
		DefaultExpression(flow.KeyExpression, "Initial value of the variable").
		Variable("", true).
		DataType("").
		Build()
	return newNode(flow.KindVariable, VariableDescription, ctx.codedata(), props)
}

// FromSource implements Builder.
func (Variable) FromSource(ctx *SourceContext) (*flow.Node, error) {
	d, ok := ctx.Node.(*syntax.LocalVarDecl)
	if !ok {
		return nil, nil
	}
	init := ""
	if d.Init != nil {
		init = text(d.Init)
	}
	// A declaration without initializer keeps an empty expression with no
	// placeholder so it is written back without one.
	pb := flow.NewPropertiesBuilder().Expression(flow.KeyExpression, init, "Initial value of the variable")
	pb.Variable(d.Name.Value(), true).DataType(declaredType(d))
	if d.Final {
		pb.Custom(flow.KeyFinal).Metadata("Final", "Whether the variable is final").
			Type(flow.ValueTypeFlag).Value(true).Optional().Advanced().Editable().Stepout()
	}
	cd := moduleCodedata(ctx.Module).LineRange(d.LineRange())
	return newNode(flow.KindVariable, VariableDescription, cd, pb.Build()), nil
}

// ToSource implements Builder.
func (Variable) ToSource(sb *source.Builder) (map[string][]syntax.TextEdit, error) {
	name, err := required(sb, flow.KeyVariable)
	if err != nil {
		return nil, err
	}
	typ := sb.Node.PropertyText(flow.KeyType)
	if typ == "" {
		typ = string(source.KeywordVar)
	}
	tb := sb.Token()
	if final, ok := sb.Property(flow.KeyFinal); ok && final.Enabled() {
		tb.Keyword(source.KeywordFinal)
	}
	tb.Name(typ).Name(name)
	if expr, ok := sb.Property(flow.KeyExpression); ok && expr.ToSourceCode() != "" {
		tb.Equal().Expression(expr)
	}
	tb.EndOfStatement()
	return sb.TextEdit(false, "", true).Build(), nil
}
