//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package node converts between syntax constructs and flow nodes. Each
// node kind has one Builder; builders are looked up in a Registry.
package node

import (
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/flow/source"
	"trpc.group/trpc-go/trpc-flowmodel-go/semantic"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
)

// Builder converts one construct kind in both directions. FromSource and
// ToSource are inverse pairs: writing a node and reading it back yields
// the same property values, formatting aside.
type Builder interface {
	// Kind returns the node kind handled.
	Kind() flow.NodeKind
	// Template returns a new node with default properties.
	Template(ctx TemplateContext) *flow.Node
	// FromSource builds the node of a syntax construct. It returns nil and
	// no error for constructs outside the builder's grammar.
	FromSource(ctx *SourceContext) (*flow.Node, error)
	// ToSource writes the node held by sb.
	ToSource(sb *source.Builder) (map[string][]syntax.TextEdit, error)
}

// SourceContext is the input of FromSource.
type SourceContext struct {
	Node   syntax.Node
	Model  semantic.Model
	Module flow.ModuleInfo
}

// TemplateContext positions a new node.
type TemplateContext struct {
	Module   flow.ModuleInfo
	FilePath string
	Position syntax.LinePosition
}

func (c TemplateContext) codedata() *flow.CodedataBuilder {
	cd := flow.NewCodedataBuilder().Org(c.Module.Org).Module(c.Module.ModuleName).IsNew()
	if c.FilePath != "" {
		cd.LineRange(syntax.LineRange{FileName: c.FilePath, StartLine: c.Position, EndLine: c.Position})
	}
	return cd
}

func newNode(kind flow.NodeKind, description string, cd *flow.CodedataBuilder, props *flow.Properties) *flow.Node {
	c := cd.Node(kind).Build()
	n := &flow.Node{
		Metadata:   flow.Metadata{Label: kind.Label(), Description: description},
		Codedata:   c,
		Properties: props,
	}
	if c.LineRange != nil {
		n.ID = flow.NodeID(kind, *c.LineRange)
	}
	return n
}

func moduleCodedata(m flow.ModuleInfo) *flow.CodedataBuilder {
	return flow.NewCodedataBuilder().Org(m.Org).Module(m.ModuleName)
}

func text(n syntax.Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.SourceText())
}

// signature emits "function name(params) [returns T]".
func signature(tb *source.TokenBuilder, name string, params []flow.Param, returns string) {
	tb.Keyword(source.KeywordFunction).Name(name).OpenParen()
	for i, p := range params {
		if i > 0 {
			tb.Comma()
		}
		tb.Name(p.Type).Name(p.Name)
		if p.Default != "" {
			tb.Equal().ExpressionText(p.Default)
		}
	}
	tb.CloseParen()
	if returns != "" {
		tb.Keyword(source.KeywordReturns).Name(returns)
	}
}

// parameters adds the repeatable parameters group built from params.
func parameters(pb *flow.PropertiesBuilder, params []*syntax.Parameter) *flow.PropertiesBuilder {
	pb.NestedProperty()
	for _, p := range params {
		if p.Name == nil {
			continue
		}
		typ := text(p.Type)
		switch p.Kind() {
		case syntax.KindDefaultableParam:
			pb.DefaultableParameter(typ, p.Name.Value(), text(p.Default))
		case syntax.KindRestParam:
			pb.Parameter(typ+flow.RestParamSuffix, p.Name.Value(), string(semantic.ParamRest))
		default:
			pb.Parameter(typ, p.Name.Value(), string(semantic.ParamRequired))
		}
	}
	return pb.EndNested(flow.ValueTypeRepeatableProperty, flow.KeyParameters,
		"Parameters", "Function parameters", flow.ParameterSchema())
}

func required(sb *source.Builder, key string) (string, error) {
	v := sb.Node.PropertyText(key)
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingProperty, key)
	}
	return v, nil
}

// binding emits "T v =" when both the type and variable are set.
func binding(sb *source.Builder) {
	typ := sb.Node.PropertyText(flow.KeyType)
	name := sb.Node.PropertyText(flow.KeyVariable)
	if typ == "" || name == "" {
		return
	}
	sb.Token().Name(typ).Name(name).Equal()
}

func isNew(n *flow.Node) bool {
	return n.Codedata == nil || n.Codedata.IsNew || n.Codedata.LineRange == nil
}
