//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package datamapper derives the mapping view of a variable initializer
// and writes edited mappings back as source.
package datamapper

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/flow/node"
	"trpc.group/trpc-go/trpc-flowmodel-go/internal/symbolsearch"
	"trpc.group/trpc-go/trpc-flowmodel-go/log"
	"trpc.group/trpc-go/trpc-flowmodel-go/semantic"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
	"trpc.group/trpc-go/trpc-flowmodel-go/typedesc"
	"trpc.group/trpc-go/trpc-flowmodel-go/workspace"
)

// Manager answers data mapping queries for one document of a project.
type Manager struct {
	project  *workspace.Project
	path     string
	registry *node.Registry
}

// Option configures a Manager.
type Option func(*Manager)

// WithRegistry sets the node builders used to write nodes. The default is
// node.DefaultRegistry.
func WithRegistry(r *node.Registry) Option {
	return func(m *Manager) { m.registry = r }
}

// NewManager creates a manager for path inside project.
func NewManager(project *workspace.Project, path string, opts ...Option) *Manager {
	m := &Manager{project: project, path: project.ResolvePath(path), registry: node.DefaultRegistry}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetTypes returns the type a node expects at propertyKey. A VARIABLE node
// yields its declared type and a FUNCTION_CALL node the type of the
// parameter named propertyKey. Other kinds yield nil.
func (m *Manager) GetTypes(ctx context.Context, n *flow.Node, propertyKey string) (*typedesc.Type, error) {
	model := m.project.SemanticModel()
	switch n.Kind() {
	case flow.KindVariable:
		typ, _ := n.Property(flow.KeyType)
		name := strings.TrimSpace(typ.ToSourceCode())
		sym, ok := m.findSymbol(ctx, model, name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrSymbolNotFound, name)
		}
		return typedesc.FromSymbol(sym), nil
	case flow.KindFunctionCall:
		cd := n.Codedata
		symbols := model.ModuleSymbols()
		if cd.Module != "" && cd.Module != m.project.Module().Name {
			symbols = moduleMembers(symbols, cd.Org, cd.Module)
		}
		fn, ok := symbolsearch.FindByName(ctx, symbols, cd.Symbol)
		if !ok || fn.Kind != semantic.KindFunction {
			return nil, fmt.Errorf("%w: function %q", ErrSymbolNotFound, cd.Symbol)
		}
		param, ok := fn.Param(propertyKey)
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q of %q", ErrSymbolNotFound, propertyKey, cd.Symbol)
		}
		return typedesc.FromSymbol(param), nil
	}
	return nil, nil
}

// findSymbol looks up a type name, optionally prefix qualified.
func (m *Manager) findSymbol(ctx context.Context, model semantic.Model, name string) (*semantic.Symbol, bool) {
	symbols := model.ModuleSymbols()
	if prefix, local, ok := strings.Cut(name, ":"); ok {
		mod, found := symbolsearch.FindByName(ctx, symbols, prefix)
		if !found || mod.Kind != semantic.KindModule {
			return nil, false
		}
		symbols, name = mod.Members, local
	}
	return symbolsearch.FindByName(ctx, symbols, name)
}

func moduleMembers(symbols []*semantic.Symbol, org, module string) []*semantic.Symbol {
	for _, s := range symbols {
		if s.Kind == semantic.KindModule && s.Module.Name == module && (org == "" || s.Module.Org == org) {
			return s.Members
		}
	}
	return nil
}

// GetMappings inserts the source of n at position, resolves the modified
// project and derives the mapping view of the inserted declaration.
// targetField selects a nested part of the initializer, e.g.
// "person.address". A nil model and no error mean the target cannot be
// mapped. propertyKey is accepted for symmetry with GetTypes and is
// currently unused.
func (m *Manager) GetMappings(ctx context.Context, n *flow.Node, position syntax.LinePosition,
	propertyKey, targetField string) (*Model, error) {
	doc, ok := m.project.Document(m.path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, m.path)
	}
	src, err := m.nodeSource(n)
	if err != nil {
		return nil, err
	}
	text := doc.Text()
	off := doc.TextDocument().OffsetOf(position)
	modified, err := m.project.ModifyDocument(m.path, text[:off]+src+text[off:])
	if err != nil {
		return nil, fmt.Errorf("resolve mapping source: %w", err)
	}
	mdoc, _ := modified.Document(m.path)
	decl, ok := syntax.Enclosing[*syntax.LocalVarDecl](mdoc.Tree, syntax.TextRange{Start: off, End: off + 1})
	if !ok || decl.TextRange().Start != off {
		log.DebugfContext(ctx, "datamapper: no variable declaration at %s", position)
		return nil, nil
	}
	model := modified.SemanticModel()
	sym, _ := model.Symbol(decl)
	tgt, ok := resolveTarget(decl, sym, targetField)
	if !ok {
		return nil, nil
	}
	out := NewPort(tgt.name, typedesc.FromType(tgt.name, tgt.typ, model.Module()))
	if out == nil {
		return nil, nil
	}
	if !mappable(out, tgt.expr) {
		return nil, nil
	}
	result := &Model{
		Inputs:   m.inputPorts(model, position),
		Output:   out,
		Mappings: GenMappings(tgt.expr, tgt.name, diagnostics(model)),
		Source:   src,
	}
	if result.Mappings == nil {
		result.Mappings = []Mapping{}
	}
	return result, nil
}

// mappable reports whether expr is a form the view tracks for out: a
// record is built by a mapping constructor and an array by a list
// constructor or a query. A plain name passes any value through.
func mappable(out *Port, expr syntax.Expression) bool {
	switch expr.(type) {
	case *syntax.SimpleNameRef:
		return true
	case *syntax.MappingConstructor:
		return out.Variant == typedesc.VariantRecord
	case *syntax.ListConstructor, *syntax.QueryExpr:
		return out.Variant == typedesc.VariantArray
	}
	return false
}

func (m *Manager) nodeSource(n *flow.Node) (string, error) {
	edits, err := m.registry.ToSource(n, m.project, m.path)
	if err != nil {
		return "", fmt.Errorf("write %s node: %w", n.Kind(), err)
	}
	if list := edits[m.path]; len(list) > 0 {
		return strings.TrimSpace(list[0].NewText), nil
	}
	for _, list := range edits {
		if len(list) > 0 {
			return strings.TrimSpace(list[0].NewText), nil
		}
	}
	return "", ErrNoSource
}

// inputPorts builds one port per variable, parameter or constant visible at
// pos, ordered by id.
func (m *Manager) inputPorts(model semantic.Model, pos syntax.LinePosition) []*Port {
	ports := []*Port{}
	for _, s := range model.VisibleSymbols(m.path, pos) {
		var category string
		switch s.Kind {
		case semantic.KindVariable:
			category = CategoryVariable
			if s.HasQualifier(semantic.QualifierConfigurable) {
				category = CategoryConfigurable
			}
		case semantic.KindParameter:
			category = CategoryVariable
		case semantic.KindConstant:
			category = CategoryConstant
		default:
			continue
		}
		p := NewPort(s.Name, typedesc.FromSymbol(s))
		if p == nil {
			continue
		}
		p.Category = category
		ports = append(ports, p)
	}
	sort.SliceStable(ports, func(i, j int) bool { return ports[i].ID < ports[j].ID })
	return ports
}

// diagnostics returns the messages of the diagnostics lying within a
// node's range.
func diagnostics(model semantic.Model) DiagnosticsFunc {
	return func(n syntax.Node) []string {
		r := n.LineRange()
		var out []string
		for _, d := range model.Diagnostics(r) {
			if d.LineRange.StartLine.Before(r.StartLine) || r.EndLine.Before(d.LineRange.EndLine) {
				continue
			}
			out = append(out, d.Message)
		}
		return out
	}
}
