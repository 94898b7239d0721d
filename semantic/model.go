//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package semantic

import (
	"sort"

	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
)

// Model answers symbol queries over one resolved package.
type Model interface {
	// ModuleSymbols returns the module level declarations followed by one
	// MODULE symbol per resolved import.
	ModuleSymbols() []*Symbol
	// Symbol returns the symbol declared by a declaration node, or the
	// symbol an identifier refers to.
	Symbol(node syntax.Node) (*Symbol, bool)
	// SymbolAt returns the symbol declared or referenced at pos.
	SymbolAt(path string, pos syntax.LinePosition) (*Symbol, bool)
	// VisibleSymbols returns the symbols in scope at pos.
	VisibleSymbols(path string, pos syntax.LinePosition) []*Symbol
	// Diagnostics returns the diagnostics overlapping r.
	Diagnostics(r syntax.LineRange) []Diagnostic
	// Module returns the id of the resolved package.
	Module() ModuleID
}

// Source is one parsed document of a package.
type Source struct {
	Path string
	Tree *syntax.ModulePart
}

// Package is the unit of resolution.
type Package struct {
	ID      ModuleID
	Sources []Source
	// Dependencies are the packages imports may refer to.
	Dependencies []*Package
}

type local struct {
	sym *Symbol
	end int
}

// body records the scope of one function body for visibility queries.
type body struct {
	path   string
	span   syntax.TextRange
	params []*Symbol
	locals []local
}

type file struct {
	path       string
	tree       *syntax.ModulePart
	prefixes   map[string]*Symbol
	unresolved map[string]bool
}

type model struct {
	id      ModuleID
	members []*Symbol
	imports []*Symbol
	byName  map[string]*Symbol
	nodes   map[syntax.Node]*Symbol
	refs    map[*syntax.Identifier]*Symbol
	files   map[string]*file
	bodies  []*body
	diags   []Diagnostic
}

func (m *model) Module() ModuleID { return m.id }

func (m *model) ModuleSymbols() []*Symbol {
	out := make([]*Symbol, 0, len(m.members)+len(m.imports))
	out = append(out, m.members...)
	return append(out, m.imports...)
}

func (m *model) Symbol(node syntax.Node) (*Symbol, bool) {
	if id, ok := node.(*syntax.Identifier); ok {
		s, ok := m.refs[id]
		return s, ok
	}
	s, ok := m.nodes[node]
	return s, ok
}

func (m *model) SymbolAt(path string, pos syntax.LinePosition) (*Symbol, bool) {
	f, ok := m.files[path]
	if !ok {
		return nil, false
	}
	off := f.tree.Document().OffsetOf(pos)
	nodes := syntax.PathTo(f.tree, syntax.TextRange{Start: off, End: off + 1})
	for i := len(nodes) - 1; i >= 0; i-- {
		if s, ok := m.Symbol(nodes[i]); ok {
			return s, true
		}
	}
	return nil, false
}

var visibleKinds = map[SymbolKind]bool{
	KindVariable: true, KindConstant: true, KindFunction: true, KindTypeDefinition: true,
	KindClass: true, KindEnum: true, KindEnumMember: true,
}

func (m *model) VisibleSymbols(path string, pos syntax.LinePosition) []*Symbol {
	var out []*Symbol
	for _, s := range m.members {
		if visibleKinds[s.Kind] {
			out = append(out, s)
		}
	}
	f, ok := m.files[path]
	if !ok {
		return out
	}
	off := f.tree.Document().OffsetOf(pos)
	for _, b := range m.bodies {
		if b.path != path || off < b.span.Start || off > b.span.End {
			continue
		}
		out = append(out, b.params...)
		for _, l := range b.locals {
			if l.end <= off {
				out = append(out, l.sym)
			}
		}
	}
	return out
}

func (m *model) Diagnostics(r syntax.LineRange) []Diagnostic {
	var out []Diagnostic
	for _, d := range m.diags {
		if d.LineRange.Overlaps(r) {
			out = append(out, d)
		}
	}
	return out
}

// AllDiagnostics returns every diagnostic of the package ordered by file
// and position.
func AllDiagnostics(m Model) []Diagnostic {
	mm, ok := m.(*model)
	if !ok {
		return nil
	}
	out := append([]Diagnostic(nil), mm.diags...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LineRange, out[j].LineRange
		if a.FileName != b.FileName {
			return a.FileName < b.FileName
		}
		return a.StartLine.Before(b.StartLine)
	})
	return out
}
