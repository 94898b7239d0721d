//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package flow

import "trpc.group/trpc-go/trpc-flowmodel-go/syntax"

// Codedata identifies where a construct lives and which symbol it maps to.
type Codedata struct {
	Node         NodeKind          `json:"node"`
	Org          string            `json:"org,omitempty"`
	Module       string            `json:"module,omitempty"`
	Object       string            `json:"object,omitempty"`
	Symbol       string            `json:"symbol,omitempty"`
	LineRange    *syntax.LineRange `json:"lineRange,omitempty"`
	SourceCode   string            `json:"sourceCode,omitempty"`
	ParentSymbol string            `json:"parentSymbol,omitempty"`
	IsNew        bool              `json:"isNew,omitempty"`
}

// CodedataBuilder fills a Codedata as information becomes available.
// Empty values never overwrite.
type CodedataBuilder struct {
	c Codedata
}

// NewCodedataBuilder creates an empty builder.
func NewCodedataBuilder() *CodedataBuilder { return &CodedataBuilder{} }

// Node sets the node kind.
func (b *CodedataBuilder) Node(k NodeKind) *CodedataBuilder {
	if k != "" {
		b.c.Node = k
	}
	return b
}

// Org sets the organization.
func (b *CodedataBuilder) Org(org string) *CodedataBuilder {
	setIfNotEmpty(&b.c.Org, org)
	return b
}

// Module sets the module name.
func (b *CodedataBuilder) Module(module string) *CodedataBuilder {
	setIfNotEmpty(&b.c.Module, module)
	return b
}

// Object sets the class or object name.
func (b *CodedataBuilder) Object(object string) *CodedataBuilder {
	setIfNotEmpty(&b.c.Object, object)
	return b
}

// Symbol sets the symbol name.
func (b *CodedataBuilder) Symbol(symbol string) *CodedataBuilder {
	setIfNotEmpty(&b.c.Symbol, symbol)
	return b
}

// LineRange sets the source range.
func (b *CodedataBuilder) LineRange(r syntax.LineRange) *CodedataBuilder {
	b.c.LineRange = &r
	return b
}

// SourceCode sets the source text of the construct.
func (b *CodedataBuilder) SourceCode(src string) *CodedataBuilder {
	setIfNotEmpty(&b.c.SourceCode, src)
	return b
}

// ParentSymbol sets the enclosing symbol.
func (b *CodedataBuilder) ParentSymbol(s string) *CodedataBuilder {
	setIfNotEmpty(&b.c.ParentSymbol, s)
	return b
}

// IsNew marks the construct as not yet present in source.
func (b *CodedataBuilder) IsNew() *CodedataBuilder {
	b.c.IsNew = true
	return b
}

// Build returns a copy of the collected codedata.
func (b *CodedataBuilder) Build() *Codedata {
	c := b.c
	if c.LineRange != nil {
		r := *c.LineRange
		c.LineRange = &r
	}
	return &c
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
