//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package typedesc converts resolved symbols into the type descriptions
// the data mapper and the type catalog expose.
package typedesc

import (
	"strings"

	"trpc.group/trpc-go/trpc-flowmodel-go/semantic"
)

// Kinds of structural types. Primitive types use their builtin name, e.g.
// "int" or "string".
const (
	KindRecord = "record"
	KindArray  = "array"
	KindUnion  = "union"
	KindError  = "error"
	KindEnum   = "enum"
)

// Variant groups types by how they are mapped.
type Variant string

// Variants.
const (
	VariantPrimitive Variant = "primitive"
	VariantRecord    Variant = "record"
	VariantArray     Variant = "array"
	VariantUnion     Variant = "union"
	VariantError     Variant = "error"
)

const maxDepth = 8

// Type describes a value shape.
type Type struct {
	// Name is the field, parameter or variable name the type was read
	// from.
	Name string `json:"name,omitempty"`
	// Kind is a structural kind or a primitive name.
	Kind string `json:"kind"`
	// TypeName is the source form of the type.
	TypeName string `json:"typeName"`
	// Ref identifies a named type: Name for types of the module the
	// symbol belongs to, org/pkg:Name otherwise.
	Ref        string  `json:"ref,omitempty"`
	Optional   bool    `json:"optional,omitempty"`
	Fields     []*Type `json:"fields,omitempty"`
	RestType   *Type   `json:"restType,omitempty"`
	MemberType *Type   `json:"memberType,omitempty"`
	Members    []*Type `json:"members,omitempty"`
}

// Variant returns the group of t.
func (t *Type) Variant() Variant {
	switch t.Kind {
	case KindRecord:
		return VariantRecord
	case KindArray:
		return VariantArray
	case KindUnion, KindEnum:
		return VariantUnion
	case KindError:
		return VariantError
	}
	return VariantPrimitive
}

// Field returns the field named name of a record.
func (t *Type) Field(name string) (*Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// FromSymbol describes the type of a variable, parameter, constant, type
// definition or enum. It returns nil for symbols whose type has no
// description, e.g. functions, classes and objects.
func FromSymbol(s *semantic.Symbol) *Type {
	if s == nil || s.Type == nil {
		return nil
	}
	switch s.Kind {
	case semantic.KindVariable, semantic.KindParameter, semantic.KindConstant:
		return FromType(s.Name, s.Type, s.Module)
	case semantic.KindTypeDefinition:
		t := FromType(s.Name, s.Type, s.Module)
		if t != nil {
			t.TypeName = s.Name
			t.Ref = s.Name
		}
		return t
	case semantic.KindEnum:
		t := FromType(s.Name, s.Type, s.Module)
		if t != nil {
			t.Kind, t.TypeName, t.Ref = KindEnum, s.Name, s.Name
		}
		return t
	}
	return nil
}

// FromType describes ts bound to name. home is the module ts was resolved
// in and decides the form of Ref.
func FromType(name string, ts *semantic.TypeSymbol, home semantic.ModuleID) *Type {
	return convert(name, ts, home, 0)
}

func convert(name string, ts *semantic.TypeSymbol, home semantic.ModuleID, depth int) *Type {
	if ts == nil || depth > maxDepth {
		return nil
	}
	if ts.IsOptional() {
		t := convert(name, ts.NonNil(), home, depth)
		if t != nil {
			t.Optional = true
			t.TypeName = ts.Signature()
		}
		return t
	}
	raw := ts.RawType()
	t := &Type{Name: name, TypeName: ts.Signature()}
	if ts.Kind == semantic.TypeReference {
		t.Ref = RefOf(ts, home)
	}
	switch raw.Kind {
	case semantic.TypeRecord:
		t.Kind = KindRecord
		for _, f := range raw.AllFields() {
			ft := convert(f.Name, f.Type, home, depth+1)
			if ft == nil {
				continue
			}
			if f.Optional {
				ft.Optional = true
			}
			t.Fields = append(t.Fields, ft)
		}
		if raw.Rest != nil {
			t.RestType = convert("", raw.Rest, home, depth+1)
		}
	case semantic.TypeArray:
		t.Kind = KindArray
		t.MemberType = convert(name, raw.Member, home, depth+1)
		if t.MemberType == nil {
			return nil
		}
	case semantic.TypeUnion:
		t.Kind = KindUnion
		for _, m := range raw.Members {
			if mt := convert("", m, home, depth+1); mt != nil {
				t.Members = append(t.Members, mt)
			}
		}
	case semantic.TypeError:
		t.Kind = KindError
		if raw.Member != nil {
			t.MemberType = convert("", raw.Member, home, depth+1)
		}
	case semantic.TypeSingleton:
		t.Kind = singletonKind(raw.Value)
	case semantic.TypeInt, semantic.TypeFloat, semantic.TypeDecimal, semantic.TypeString,
		semantic.TypeBoolean, semantic.TypeByte, semantic.TypeNil, semantic.TypeJSON,
		semantic.TypeXML, semantic.TypeAnydata, semantic.TypeAny:
		t.Kind = strings.ToLower(string(raw.Kind))
		if raw.Kind == semantic.TypeNil {
			t.Kind = "nil"
		}
	default:
		return nil
	}
	return t
}

// RefOf returns the stable identifier of a referenced type: Name when it is
// declared in home, org/pkg:Name otherwise. Anonymous types have none.
func RefOf(ts *semantic.TypeSymbol, home semantic.ModuleID) string {
	if ts == nil || ts.Name == "" {
		return ""
	}
	if ts.Module.Org == "" && ts.Module.Name == "" {
		return ts.Name
	}
	if ts.Module.Org == home.Org && ts.Module.Name == home.Name {
		return ts.Name
	}
	return ts.Module.String() + ":" + ts.Name
}

func singletonKind(v string) string {
	switch {
	case strings.HasPrefix(v, "\""):
		return "string"
	case v == "true" || v == "false":
		return "boolean"
	case strings.ContainsAny(v, ".eE"):
		return "float"
	}
	return "int"
}
