//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package catalog

import (
	"sort"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/semantic"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
	"trpc.group/trpc-go/trpc-flowmodel-go/typedesc"
	"trpc.group/trpc-go/trpc-flowmodel-go/workspace"
)

// TypeManager lists the record types of a project as type data.
type TypeManager struct {
	project *workspace.Project
}

// NewTypeManager creates a manager over project.
func NewTypeManager(project *workspace.Project) *TypeManager {
	return &TypeManager{project: project}
}

// supported reports whether a module symbol is a type the catalog knows.
func supported(s *semantic.Symbol) bool {
	if s.Name == "" {
		return false
	}
	if s.Kind == semantic.KindEnum {
		return true
	}
	if s.Kind != semantic.KindTypeDefinition || s.Type == nil {
		return false
	}
	switch s.Type.RawType().Kind {
	case semantic.TypeRecord, semantic.TypeArray, semantic.TypeUnion, semantic.TypeError:
		return true
	}
	return false
}

// GetAllTypes returns the record definitions of the module together with
// the foreign records their fields, inclusions and rest types refer to,
// ordered by name. Foreign records are named org/pkg:Name.
func (m *TypeManager) GetAllTypes() []*flow.TypeData {
	model := m.project.SemanticModel()
	home := model.Module()
	local := map[string]*semantic.Symbol{}
	var names []string
	for _, s := range model.ModuleSymbols() {
		if supported(s) {
			if _, dup := local[s.Name]; !dup {
				names = append(names, s.Name)
			}
			local[s.Name] = s
		}
	}
	foreign := map[string]*semantic.Symbol{}
	for _, name := range names {
		if s := local[name]; s.Kind == semantic.KindTypeDefinition {
			m.collectForeign(model, s.Type, foreign, 0)
		}
	}

	out := []*flow.TypeData{}
	for _, s := range local {
		if s.Kind == semantic.KindTypeDefinition && s.Type.RawType().Kind == semantic.TypeRecord {
			out = append(out, recordType(s, s.Name, home))
		}
	}
	for id, s := range foreign {
		if s.Type != nil && s.Type.RawType().Kind == semantic.TypeRecord {
			out = append(out, recordType(s, id, home))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// collectForeign adds the definitions of foreign references reachable from
// t, keyed by their qualified id.
func (m *TypeManager) collectForeign(model semantic.Model, t *semantic.TypeSymbol,
	foreign map[string]*semantic.Symbol, depth int) {
	if t == nil || depth > 8 {
		return
	}
	switch t.Kind {
	case semantic.TypeReference:
		id := typedesc.RefOf(t, model.Module())
		if id == t.Name {
			return
		}
		if _, ok := foreign[id]; ok {
			return
		}
		if s := foreignSymbol(model, t); s != nil {
			foreign[id] = s
			m.collectForeign(model, s.Type, foreign, depth+1)
		}
	case semantic.TypeRecord:
		for _, inc := range t.Inclusions {
			m.collectForeign(model, inc, foreign, depth+1)
		}
		if t.Rest != nil {
			m.collectForeign(model, t.Rest, foreign, depth+1)
		}
		for _, f := range t.Fields {
			m.collectForeign(model, f.Type, foreign, depth+1)
		}
	case semantic.TypeUnion:
		for _, mem := range t.Members {
			m.collectForeign(model, mem, foreign, depth+1)
		}
	case semantic.TypeArray, semantic.TypeMap:
		m.collectForeign(model, t.Member, foreign, depth+1)
	}
}

// foreignSymbol finds the declaration of a reference into an imported
// module.
func foreignSymbol(model semantic.Model, t *semantic.TypeSymbol) *semantic.Symbol {
	for _, s := range model.ModuleSymbols() {
		if s.Kind != semantic.KindModule || s.Module.Org != t.Module.Org || s.Module.Name != t.Module.Name {
			continue
		}
		for _, member := range s.Members {
			if member.Name == t.Name && member.Kind == semantic.KindTypeDefinition {
				return member
			}
		}
	}
	return nil
}

// GetType returns the record type declared or referenced at pos, or nil.
func (m *TypeManager) GetType(path string, pos syntax.LinePosition) *flow.TypeData {
	model := m.project.SemanticModel()
	s, ok := model.SymbolAt(m.project.ResolvePath(path), pos)
	if !ok || s.Kind != semantic.KindTypeDefinition || s.Type == nil || s.Type.RawType().Kind != semantic.TypeRecord {
		return nil
	}
	name := typedesc.RefOf(&semantic.TypeSymbol{Name: s.Name, Module: s.Module}, model.Module())
	return recordType(s, name, model.Module())
}

func recordType(s *semantic.Symbol, name string, home semantic.ModuleID) *flow.TypeData {
	rec := s.Type.RawType()
	doc := s.Description()
	loc := s.Location
	td := &flow.TypeData{
		Name:     name,
		Editable: true,
		Metadata: flow.Metadata{Label: name, Description: doc},
		Codedata: flow.NewCodedataBuilder().Node(flow.KindRecord).LineRange(loc).Build(),
		Properties: flow.NewPropertiesBuilder().
			Custom(flow.KeyName).Metadata("Name", "Name of the type").Type(flow.ValueTypeIdentifier).
			Value(name).Editable().Stepout().
			Custom(flow.KeyDescription).Metadata("Description", "Description of the type").
			Type(flow.ValueTypeString).Value(doc).Editable().Stepout().
			Custom(flow.KeyIsArray).Metadata("Is Array", "Whether the type is an array").
			Type(flow.ValueTypeFlag).Value("false").Optional().Editable().Advanced().Stepout().
			Custom(flow.KeyArraySize).Metadata("Array Size", "Size of the array").
			Type(flow.ValueTypeString).Value("").Optional().Editable().Advanced().Stepout().
			Build(),
		Members:  []flow.Member{},
		Includes: []string{},
	}
	for _, inc := range rec.Inclusions {
		if inc.Kind == semantic.TypeReference {
			td.Includes = append(td.Includes, typedesc.RefOf(inc, home))
		}
	}
	if rec.Rest != nil {
		td.RestMember = &flow.Member{
			Kind: flow.MemberKindField,
			Type: rec.Rest.Signature(),
			Refs: refIDs(rec.Rest, home),
		}
	}
	for _, f := range rec.Fields {
		if f == nil || f.Type == nil {
			continue
		}
		td.Members = append(td.Members, flow.Member{
			Kind:         flow.MemberKindField,
			Refs:         refIDs(f.Type, home),
			Type:         f.Type.Signature(),
			Name:         f.Name,
			Docs:         f.Docs,
			Optional:     f.Optional,
			DefaultValue: f.Default,
		})
	}
	return td
}

// refIDs returns the ids of the named types t refers to.
func refIDs(t *semantic.TypeSymbol, home semantic.ModuleID) []string {
	out := []string{}
	var walk func(t *semantic.TypeSymbol, depth int)
	walk = func(t *semantic.TypeSymbol, depth int) {
		if t == nil || depth > 8 {
			return
		}
		switch t.Kind {
		case semantic.TypeReference:
			out = append(out, typedesc.RefOf(t, home))
		case semantic.TypeArray, semantic.TypeMap, semantic.TypeError:
			walk(t.Member, depth+1)
		case semantic.TypeUnion:
			for _, m := range t.Members {
				walk(m, depth+1)
			}
		}
	}
	walk(t, 0)
	return out
}
