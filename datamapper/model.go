//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package datamapper

import "trpc.group/trpc-go/trpc-flowmodel-go/typedesc"

// Port categories.
const (
	CategoryVariable     = "variable"
	CategoryConfigurable = "configurable"
	CategoryConstant     = "constant"
)

// Model is the mapping view of one variable initializer.
type Model struct {
	Inputs   []*Port   `json:"inputs"`
	Output   *Port     `json:"output"`
	Mappings []Mapping `json:"mappings"`
	Source   string    `json:"source"`
}

// Mapping assigns the value of Expression to the output path Output.
// Inputs are the root identifiers Expression reads.
type Mapping struct {
	Output      string   `json:"output"`
	Inputs      []string `json:"inputs"`
	Expression  string   `json:"expression"`
	Diagnostics []string `json:"diagnostics"`
}

// Port is one connectable value in the mapping view. Variant decides which
// of Fields and Member is set.
type Port struct {
	Variant      typedesc.Variant `json:"variant"`
	ID           string           `json:"id"`
	VariableName string           `json:"variableName"`
	TypeName     string           `json:"typeName"`
	Kind         string           `json:"kind"`
	Category     string           `json:"category,omitempty"`
	Optional     bool             `json:"optional,omitempty"`
	Fields       []*Port          `json:"fields,omitempty"`
	Member       *Port            `json:"member,omitempty"`
}

// NewPort builds the port of t at id. Fields are addressed as id.field and
// array members share the id of the array. Types other than primitives,
// records and arrays have no port and yield nil.
func NewPort(id string, t *typedesc.Type) *Port {
	if t == nil {
		return nil
	}
	p := &Port{
		Variant:      t.Variant(),
		ID:           id,
		VariableName: lastSegment(id),
		TypeName:     t.TypeName,
		Kind:         t.Kind,
		Optional:     t.Optional,
	}
	if t.Ref != "" {
		p.TypeName = t.Ref
	}
	switch p.Variant {
	case typedesc.VariantPrimitive:
	case typedesc.VariantRecord:
		for _, f := range t.Fields {
			if fp := NewPort(id+"."+f.Name, f); fp != nil {
				p.Fields = append(p.Fields, fp)
			}
		}
	case typedesc.VariantArray:
		if p.Member = NewPort(id, t.MemberType); p.Member == nil {
			return nil
		}
	default:
		return nil
	}
	return p
}

func lastSegment(id string) string {
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == '.' {
			return id[i+1:]
		}
	}
	return id
}
