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
	"fmt"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/flow/source"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
	"trpc.group/trpc-go/trpc-flowmodel-go/workspace"
)

// KindOf returns the node kind a syntax construct maps to.
func KindOf(n syntax.Node) (flow.NodeKind, bool) {
	switch d := n.(type) {
	case *syntax.FunctionDef:
		switch d.Body.(type) {
		case *syntax.BlockBody:
			return flow.KindFunctionDefinition, true
		case *syntax.ExpressionBody:
			return flow.KindDataMapperDefinition, true
		}
	case *syntax.ExpressionStmt:
		if _, ok := d.Expr.(*syntax.StartAction); ok {
			return flow.KindStart, true
		}
	case *syntax.LocalVarDecl:
		if _, ok := d.Init.(*syntax.StartAction); ok {
			return flow.KindStart, true
		}
		_, expr, _ := unwrapCall(d)
		switch expr.(type) {
		case *syntax.FunctionCall:
			return flow.KindFunctionCall, true
		case *syntax.RemoteMethodCall:
			return flow.KindRemoteActionCall, true
		}
		return flow.KindVariable, true
	}
	return "", false
}

// FromSource builds the flow node of ctx.Node with the builders of r. A
// call the model cannot resolve is read as a plain variable. Unsupported
// constructs yield nil and no error.
func (r *Registry) FromSource(ctx *SourceContext) (*flow.Node, error) {
	kind, ok := KindOf(ctx.Node)
	if !ok {
		return nil, nil
	}
	b, ok := r.Get(kind)
	if !ok {
		return nil, nil
	}
	n, err := b.FromSource(ctx)
	if err != nil || n != nil {
		return n, err
	}
	if kind == flow.KindFunctionCall || kind == flow.KindRemoteActionCall {
		if v, ok := r.Get(flow.KindVariable); ok {
			return v.FromSource(ctx)
		}
	}
	return nil, nil
}

// ToSource writes n, located in filePath of project, with the builder of
// its kind.
func (r *Registry) ToSource(n *flow.Node, project *workspace.Project, filePath string) (map[string][]syntax.TextEdit, error) {
	b, ok := r.Get(n.Kind())
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, n.Kind())
	}
	if filePath == "" && n.Codedata != nil && n.Codedata.LineRange != nil {
		filePath = n.Codedata.LineRange.FileName
	}
	return b.ToSource(source.NewBuilder(n, project, filePath))
}

// Template returns a new node of kind.
func (r *Registry) Template(kind flow.NodeKind, ctx TemplateContext) (*flow.Node, error) {
	b, ok := r.Get(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return b.Template(ctx), nil
}

// FromSource builds a node with the default registry.
func FromSource(ctx *SourceContext) (*flow.Node, error) {
	return DefaultRegistry.FromSource(ctx)
}

// ToSource writes a node with the default registry.
func ToSource(n *flow.Node, project *workspace.Project, filePath string) (map[string][]syntax.TextEdit, error) {
	return DefaultRegistry.ToSource(n, project, filePath)
}
