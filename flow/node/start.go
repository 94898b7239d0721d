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

// Start texts.
const (
	StartDescription   = "Execute a function or a method invocation in a new strand"
	StartExpressionDoc = "Call action or expression"
	startFutureTypeDoc = "Type of the future"
)

// Start handles "start expr;" and "future<T> f = start expr;".
type Start struct{}

// Kind implements Builder.
func (Start) Kind() flow.NodeKind { return flow.KindStart }

// Template implements Builder.
func (Start) Template(ctx TemplateContext) *flow.Node {
	props := flow.NewPropertiesBuilder().DefaultExpression(flow.KeyExpression, StartExpressionDoc).Build()
	return newNode(flow.KindStart, StartDescription, ctx.codedata(), props)
}

// FromSource implements Builder.
func (Start) FromSource(ctx *SourceContext) (*flow.Node, error) {
	pb := flow.NewPropertiesBuilder()
	var action *syntax.StartAction
	switch n := ctx.Node.(type) {
	case *syntax.ExpressionStmt:
		action, _ = n.Expr.(*syntax.StartAction)
		if action == nil {
			return nil, nil
		}
		pb.Expression(flow.KeyExpression, text(action.Expr), StartExpressionDoc)
	case *syntax.LocalVarDecl:
		action, _ = n.Init.(*syntax.StartAction)
		if action == nil {
			return nil, nil
		}
		pb.Expression(flow.KeyExpression, text(action.Expr), StartExpressionDoc).
			Variable(n.Name.Value(), true).
			Custom(flow.KeyType).Metadata(flow.TypeLabel, startFutureTypeDoc).Type(flow.ValueTypeType).
			Value(declaredType(n)).Editable().Stepout()
	default:
		return nil, nil
	}
	cd := moduleCodedata(ctx.Module).LineRange(ctx.Node.LineRange()).SourceCode(text(action))
	return newNode(flow.KindStart, StartDescription, cd, pb.Build()), nil
}

// ToSource implements Builder.
func (Start) ToSource(sb *source.Builder) (map[string][]syntax.TextEdit, error) {
	binding(sb)
	tb := sb.Token().Keyword(source.KeywordStart)
	if expr, ok := sb.Property(flow.KeyExpression); ok {
		tb.WhiteSpace().Expression(expr)
	}
	tb.EndOfStatement()
	return sb.TextEdit(false, "", true).Build(), nil
}

func declaredType(d syntax.VariableDeclaration) string {
	if t := d.TypeDescriptor(); t != nil {
		return text(t)
	}
	return string(source.KeywordVar)
}
