//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package semantic

import "strings"

// TypeKind classifies a type descriptor.
type TypeKind string

// Builtin type kinds.
const (
	TypeInt     TypeKind = "INT"
	TypeFloat   TypeKind = "FLOAT"
	TypeDecimal TypeKind = "DECIMAL"
	TypeString  TypeKind = "STRING"
	TypeBoolean TypeKind = "BOOLEAN"
	TypeByte    TypeKind = "BYTE"
	TypeNil     TypeKind = "NIL"
	TypeJSON    TypeKind = "JSON"
	TypeXML     TypeKind = "XML"
	TypeAnydata TypeKind = "ANYDATA"
	TypeAny     TypeKind = "ANY"
	TypeNever   TypeKind = "NEVER"
	TypeHandle  TypeKind = "HANDLE"
	TypeError   TypeKind = "ERROR"
)

// Structural type kinds.
const (
	TypeRecord           TypeKind = "RECORD"
	TypeArray            TypeKind = "ARRAY"
	TypeUnion            TypeKind = "UNION"
	TypeMap              TypeKind = "MAP"
	TypeObject           TypeKind = "OBJECT"
	TypeFunction         TypeKind = "FUNCTION"
	TypeFuture           TypeKind = "FUTURE"
	TypeStream           TypeKind = "STREAM"
	TypeTable            TypeKind = "TABLE"
	TypeTypedesc         TypeKind = "TYPEDESC"
	TypeReference        TypeKind = "TYPE_REFERENCE"
	TypeSingleton        TypeKind = "SINGLETON"
	TypeCompilationError TypeKind = "COMPILATION_ERROR"
)

var builtinKinds = map[string]TypeKind{
	"int": TypeInt, "float": TypeFloat, "decimal": TypeDecimal, "string": TypeString,
	"boolean": TypeBoolean, "byte": TypeByte, "json": TypeJSON, "xml": TypeXML,
	"anydata": TypeAnydata, "any": TypeAny, "never": TypeNever, "handle": TypeHandle,
	"error": TypeError, "readonly": TypeAnydata,
}

var parameterizedKinds = map[string]TypeKind{
	"map": TypeMap, "error": TypeError, "future": TypeFuture, "stream": TypeStream,
	"table": TypeTable, "typedesc": TypeTypedesc,
}

// Field is one record field.
type Field struct {
	Name     string
	Type     *TypeSymbol
	Optional bool
	Readonly bool
	Default  string
	Docs     string
}

// TypeSymbol is a resolved type descriptor.
type TypeSymbol struct {
	Kind TypeKind
	// Name is set for references, classes and builtins.
	Name string
	// Prefix is the module prefix a reference was written with.
	Prefix string
	Module ModuleID
	Fields []*Field
	Rest   *TypeSymbol
	Closed bool
	// Member is the element of arrays, the constraint of maps and the
	// detail of errors.
	Member  *TypeSymbol
	Size    string
	Members []*TypeSymbol
	// Inclusions are the included types of records and objects.
	Inclusions []*TypeSymbol
	Methods    []*Symbol
	// Definition is the referenced descriptor of a TYPE_REFERENCE.
	Definition *TypeSymbol
	// Value is the literal text of a singleton.
	Value string
}

// Builtin returns the descriptor of a predeclared type name.
func Builtin(name string) *TypeSymbol {
	if name == "()" || name == "null" {
		return &TypeSymbol{Kind: TypeNil, Name: "()"}
	}
	kind, ok := builtinKinds[name]
	if !ok {
		return &TypeSymbol{Kind: TypeCompilationError, Name: name}
	}
	return &TypeSymbol{Kind: kind, Name: name}
}

// Field returns the record field named name.
func (t *TypeSymbol) Field(name string) (*Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// FieldIncluded returns the field named name, searching the records t
// includes when t does not declare it.
func (t *TypeSymbol) FieldIncluded(name string) (*Field, bool) {
	for _, f := range t.AllFields() {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// AllFields returns the declared fields of t followed by the fields of its
// included records. Declared fields override included ones.
func (t *TypeSymbol) AllFields() []*Field {
	seen := map[string]bool{}
	var out []*Field
	t.collectFields(&out, seen, 0)
	return out
}

func (t *TypeSymbol) collectFields(out *[]*Field, seen map[string]bool, depth int) {
	if t == nil || depth > 8 {
		return
	}
	for _, f := range t.Fields {
		if !seen[f.Name] {
			seen[f.Name] = true
			*out = append(*out, f)
		}
	}
	for _, inc := range t.Inclusions {
		if raw := inc.RawType(); raw != nil && raw.Kind == TypeRecord {
			raw.collectFields(out, seen, depth+1)
		}
	}
}

// Method returns the method named name of an object type, searching the
// types it includes.
func (t *TypeSymbol) Method(name string) (*Symbol, bool) {
	return t.method(name, 0)
}

func (t *TypeSymbol) method(name string, depth int) (*Symbol, bool) {
	raw := t.RawType()
	if raw == nil || raw.Kind != TypeObject || depth > 8 {
		return nil, false
	}
	for _, m := range raw.Methods {
		if m.Name == name {
			return m, true
		}
	}
	for _, inc := range raw.Inclusions {
		if m, ok := inc.method(name, depth+1); ok {
			return m, true
		}
	}
	return nil, false
}

// IsOptional reports whether t is a union with nil.
func (t *TypeSymbol) IsOptional() bool {
	if t == nil || t.Kind != TypeUnion {
		return false
	}
	for _, m := range t.Members {
		if m.Kind == TypeNil {
			return true
		}
	}
	return false
}

// NonNil returns t without its nil member. Non-optional types are returned
// unchanged.
func (t *TypeSymbol) NonNil() *TypeSymbol {
	if !t.IsOptional() {
		return t
	}
	var rest []*TypeSymbol
	for _, m := range t.Members {
		if m.Kind != TypeNil {
			rest = append(rest, m)
		}
	}
	if len(rest) == 1 {
		return rest[0]
	}
	return &TypeSymbol{Kind: TypeUnion, Members: rest}
}

// RawType follows references to the underlying descriptor.
func (t *TypeSymbol) RawType() *TypeSymbol {
	for i := 0; t != nil && t.Kind == TypeReference && t.Definition != nil && i < 32; i++ {
		t = t.Definition
	}
	return t
}

// QualifiedName renders a reference as prefix:Name or Name.
func (t *TypeSymbol) QualifiedName() string {
	if t.Prefix == "" {
		return t.Name
	}
	return t.Prefix + ":" + t.Name
}

// Signature renders the type in source form.
func (t *TypeSymbol) Signature() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	t.writeSignature(&b)
	return b.String()
}

func (t *TypeSymbol) writeSignature(b *strings.Builder) {
	switch t.Kind {
	case TypeReference:
		b.WriteString(t.QualifiedName())
	case TypeObject:
		if t.Name != "" {
			b.WriteString(t.QualifiedName())
			return
		}
		b.WriteString("object {}")
	case TypeSingleton:
		b.WriteString(t.Value)
	case TypeArray:
		writeMember(b, t.Member)
		b.WriteString("[" + t.Size + "]")
	case TypeUnion:
		if len(t.Members) == 2 && t.Members[1].Kind == TypeNil && t.Members[0].Kind != TypeUnion {
			writeMember(b, t.Members[0])
			b.WriteString("?")
			return
		}
		for i, m := range t.Members {
			if i > 0 {
				b.WriteString("|")
			}
			m.writeSignature(b)
		}
	case TypeMap, TypeFuture, TypeStream, TypeTable, TypeTypedesc:
		b.WriteString(strings.ToLower(string(t.Kind)))
		b.WriteString("<")
		if t.Member != nil {
			t.Member.writeSignature(b)
		} else {
			b.WriteString("any")
		}
		b.WriteString(">")
	case TypeError:
		b.WriteString("error")
		if t.Member != nil {
			b.WriteString("<")
			t.Member.writeSignature(b)
			b.WriteString(">")
		}
	case TypeRecord:
		open, closeTok := "{", "}"
		if t.Closed {
			open, closeTok = "{|", "|}"
		}
		b.WriteString("record " + open + " ")
		for _, inc := range t.Inclusions {
			b.WriteString("*")
			inc.writeSignature(b)
			b.WriteString("; ")
		}
		for _, f := range t.Fields {
			f.Type.writeSignature(b)
			b.WriteString(" " + f.Name)
			if f.Optional {
				b.WriteString("?")
			}
			b.WriteString("; ")
		}
		if t.Rest != nil {
			t.Rest.writeSignature(b)
			b.WriteString("...; ")
		}
		b.WriteString(closeTok)
	case TypeFunction:
		b.WriteString("function")
	case TypeNil:
		b.WriteString("()")
	default:
		b.WriteString(t.Name)
	}
}

func writeMember(b *strings.Builder, m *TypeSymbol) {
	if m.Kind == TypeUnion {
		b.WriteString("(")
		m.writeSignature(b)
		b.WriteString(")")
		return
	}
	m.writeSignature(b)
}
