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

const mainFunctionName = "main"

// Labels of function definition properties.
const (
	FunctionNameLabel   = "Function"
	FunctionNameDoc     = "Name of the function"
	DataMapperNameLabel = "Data Mapper Name"
	DataMapperNameDoc   = "Name of the data mapper"
	// RecordType constrains the return type of a data mapper.
	RecordType = "record"
)

// FunctionDefinition handles functions with a block body.
type FunctionDefinition struct{}

// Kind implements Builder.
func (FunctionDefinition) Kind() flow.NodeKind { return flow.KindFunctionDefinition }

// Template implements Builder.
func (FunctionDefinition) Template(ctx TemplateContext) *flow.Node {
	props := flow.NewPropertiesBuilder().
		FunctionName("", true, FunctionNameLabel, FunctionNameDoc).
		ReturnType("", "")
	return newNode(flow.KindFunctionDefinition, "Define a function",
		ctx.codedata(), parameters(props, nil).Build())
}

// FromSource implements Builder.
func (FunctionDefinition) FromSource(ctx *SourceContext) (*flow.Node, error) {
	fn, ok := ctx.Node.(*syntax.FunctionDef)
	if !ok {
		return nil, nil
	}
	if _, ok := fn.Body.(*syntax.BlockBody); !ok {
		return nil, nil
	}
	name := fn.Name.Value()
	props := flow.NewPropertiesBuilder().
		FunctionName(name, name != mainFunctionName, FunctionNameLabel, FunctionNameDoc).
		ReturnType(text(fn.ReturnType), "")
	cd := moduleCodedata(ctx.Module).Symbol(name).LineRange(fn.SignatureLineRange())
	return newNode(flow.KindFunctionDefinition, "Define a function", cd,
		parameters(props, fn.Params).Build()), nil
}

// ToSource implements Builder. An existing function gets its signature
// replaced; a new one is written with an empty body.
func (FunctionDefinition) ToSource(sb *source.Builder) (map[string][]syntax.TextEdit, error) {
	return writeFunction(sb, func(tb *source.TokenBuilder) {
		tb.OpenBrace().CloseBrace()
	})
}

// DataMapperDefinition handles functions with an expression body.
type DataMapperDefinition struct{}

// Kind implements Builder.
func (DataMapperDefinition) Kind() flow.NodeKind { return flow.KindDataMapperDefinition }

// Template implements Builder.
func (DataMapperDefinition) Template(ctx TemplateContext) *flow.Node {
	props := flow.NewPropertiesBuilder().
		FunctionName("", true, DataMapperNameLabel, DataMapperNameDoc).
		ReturnType("", RecordType)
	parameters(props, nil)
	props.Custom(flow.KeyExpression).Metadata(flow.ExpressionLabel, "Mapping expression").
		Type(flow.ValueTypeExpression).Value("").Placeholder("{}").Editable().Stepout()
	return newNode(flow.KindDataMapperDefinition, "Define a data mapper", ctx.codedata(), props.Build())
}

// FromSource implements Builder.
func (DataMapperDefinition) FromSource(ctx *SourceContext) (*flow.Node, error) {
	fn, ok := ctx.Node.(*syntax.FunctionDef)
	if !ok {
		return nil, nil
	}
	if _, ok := fn.Body.(*syntax.ExpressionBody); !ok {
		return nil, nil
	}
	name := fn.Name.Value()
	props := flow.NewPropertiesBuilder().
		FunctionName(name, true, DataMapperNameLabel, DataMapperNameDoc).
		ReturnType(text(fn.ReturnType), RecordType)
	cd := moduleCodedata(ctx.Module).Symbol(name).LineRange(fn.SignatureLineRange())
	return newNode(flow.KindDataMapperDefinition, "Define a data mapper", cd,
		parameters(props, fn.Params).Build()), nil
}

// ToSource implements Builder.
func (DataMapperDefinition) ToSource(sb *source.Builder) (map[string][]syntax.TextEdit, error) {
	return writeFunction(sb, func(tb *source.TokenBuilder) {
		expr, _ := sb.Property(flow.KeyExpression)
		body := expr.ToSourceCode()
		if body == "" {
			body = "{}"
		}
		tb.RightDoubleArrow().ExpressionText(body).EndOfStatement()
	})
}

func writeFunction(sb *source.Builder, body func(tb *source.TokenBuilder)) (map[string][]syntax.TextEdit, error) {
	name, err := required(sb, flow.KeyFunctionName)
	if err != nil {
		return nil, err
	}
	params, _ := sb.Property(flow.KeyParameters)
	tb := sb.Token()
	signature(tb, name, flow.Params(params), sb.Node.PropertyText(flow.KeyType))
	if isNew(sb.Node) {
		body(tb)
		return sb.TextEdit(false, "", true).Build(), nil
	}
	// The recorded range ends after the return type, so the separator
	// before the body stays in the document.
	return sb.TextEdit(true, "", true).Build(), nil
}
