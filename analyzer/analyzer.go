//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package analyzer builds flow nodes for module level constructs.
package analyzer

import (
	"errors"
	"fmt"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/flow/node"
	"trpc.group/trpc-go/trpc-flowmodel-go/workspace"
)

var (
	// ErrFunctionNotFound is returned when a document declares no function
	// of the requested name.
	ErrFunctionNotFound = errors.New("analyzer: function not found")
	// ErrDocumentNotFound is returned for paths outside the project.
	ErrDocumentNotFound = errors.New("analyzer: document not found")
)

// ModuleNodeAnalyzer reads module members of a project as flow nodes.
type ModuleNodeAnalyzer struct {
	project  *workspace.Project
	registry *node.Registry
}

// Option configures a ModuleNodeAnalyzer.
type Option func(*ModuleNodeAnalyzer)

// WithRegistry sets the node builders. A nil registry keeps the default.
func WithRegistry(r *node.Registry) Option {
	return func(a *ModuleNodeAnalyzer) {
		if r != nil {
			a.registry = r
		}
	}
}

// New creates an analyzer over project using the default node builders.
func New(project *workspace.Project, opts ...Option) *ModuleNodeAnalyzer {
	a := &ModuleNodeAnalyzer{project: project, registry: node.DefaultRegistry}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FindFunction returns the FUNCTION_DEFINITION node of the function named
// name in path, or its DATA_MAPPER_DEFINITION node when the function has
// an expression body.
func (a *ModuleNodeAnalyzer) FindFunction(path, name string) (*flow.Node, error) {
	doc, ok := a.project.Document(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
	}
	for _, fn := range doc.Tree.Functions() {
		if fn.Name.Value() != name {
			continue
		}
		n, err := a.registry.FromSource(&node.SourceContext{
			Node:   fn,
			Model:  a.project.SemanticModel(),
			Module: flow.ModuleInfoOf(a.project.Module()),
		})
		if err != nil {
			return nil, fmt.Errorf("build function %q: %w", name, err)
		}
		if n == nil {
			break
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrFunctionNotFound, name, path)
}
