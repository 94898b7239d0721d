//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package semantic resolves names and types over parsed documents and
// answers symbol, visibility and diagnostic queries.
package semantic

import (
	"fmt"

	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
)

// SymbolKind classifies a symbol.
type SymbolKind string

// Symbol kinds.
const (
	KindTypeDefinition SymbolKind = "TYPE_DEFINITION"
	KindEnum           SymbolKind = "ENUM"
	KindEnumMember     SymbolKind = "ENUM_MEMBER"
	KindConstant       SymbolKind = "CONSTANT"
	KindVariable       SymbolKind = "VARIABLE"
	KindFunction       SymbolKind = "FUNCTION"
	KindMethod         SymbolKind = "METHOD"
	KindClass          SymbolKind = "CLASS"
	KindParameter      SymbolKind = "PARAMETER"
	KindModule         SymbolKind = "MODULE"
)

// Qualifiers recognized on declarations.
const (
	QualifierPublic       = "public"
	QualifierConfigurable = "configurable"
	QualifierFinal        = "final"
	QualifierClient       = "client"
	QualifierRemote       = "remote"
	QualifierIsolated     = "isolated"
)

// ParamKind distinguishes parameter forms.
type ParamKind string

// Parameter kinds.
const (
	ParamRequired    ParamKind = "REQUIRED"
	ParamDefaultable ParamKind = "DEFAULTABLE"
	ParamRest        ParamKind = "REST"
)

// ModuleID identifies a module.
type ModuleID struct {
	Org     string `json:"org"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// String renders org/name.
func (m ModuleID) String() string {
	return fmt.Sprintf("%s/%s", m.Org, m.Name)
}

// Prefix returns the default import prefix, the last dotted name segment.
func (m ModuleID) Prefix() string {
	for i := len(m.Name) - 1; i >= 0; i-- {
		if m.Name[i] == '.' {
			return m.Name[i+1:]
		}
	}
	return m.Name
}

// Documentation is the parsed doc comment of a declaration.
type Documentation struct {
	Description string            `json:"description,omitempty"`
	Params      map[string]string `json:"params,omitempty"`
	Return      string            `json:"return,omitempty"`
}

// Symbol is a resolved declaration.
type Symbol struct {
	Kind       SymbolKind       `json:"kind"`
	Name       string           `json:"name"`
	Module     ModuleID         `json:"module"`
	Type       *TypeSymbol      `json:"-"`
	Qualifiers []string         `json:"qualifiers,omitempty"`
	ParamKind  ParamKind        `json:"paramKind,omitempty"`
	Params     []*Symbol        `json:"-"`
	Return     *TypeSymbol      `json:"-"`
	Methods    []*Symbol        `json:"-"`
	Inclusions []*TypeSymbol    `json:"-"`
	Members    []*Symbol        `json:"-"`
	Docs       *Documentation   `json:"docs,omitempty"`
	Location   syntax.LineRange `json:"location"`
	// Node is the declaring syntax node, nil for synthesized symbols.
	Node syntax.Node `json:"-"`
}

// HasQualifier reports whether the declaration carries q.
func (s *Symbol) HasQualifier(q string) bool {
	for _, x := range s.Qualifiers {
		if x == q {
			return true
		}
	}
	return false
}

// Param returns the parameter named name.
func (s *Symbol) Param(name string) (*Symbol, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Method returns the method named name.
func (s *Symbol) Method(name string) (*Symbol, bool) {
	for _, m := range s.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// InitMethod returns the init method of a class.
func (s *Symbol) InitMethod() (*Symbol, bool) { return s.Method("init") }

// Classes returns the class members of a module symbol.
func (s *Symbol) Classes() []*Symbol {
	var out []*Symbol
	for _, m := range s.Members {
		if m.Kind == KindClass {
			out = append(out, m)
		}
	}
	return out
}

// Description returns the doc description or "".
func (s *Symbol) Description() string {
	if s.Docs == nil {
		return ""
	}
	return s.Docs.Description
}

// Diagnostic is one resolution problem.
type Diagnostic struct {
	Code      string           `json:"code"`
	Message   string           `json:"message"`
	LineRange syntax.LineRange `json:"lineRange"`
}

// Diagnostic codes.
const (
	CodeUndefinedSymbol = "UNDEFINED_SYMBOL"
	CodeUnknownType     = "UNKNOWN_TYPE"
	CodeUndefinedField  = "UNDEFINED_FIELD"
	CodeUndefinedModule = "UNDEFINED_MODULE"
)
