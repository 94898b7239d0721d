//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package flow

// Labels and docs of the common properties.
const (
	VariableLabel      = "Variable"
	VariableDoc        = "Name of the variable"
	TypeLabel          = "Type"
	TypeDoc            = "Type of the variable"
	ExpressionLabel    = "Expression"
	ExpressionDoc      = "Expression"
	CheckErrorLabel    = "Check Error"
	CheckErrorDoc      = "Trigger error flow"
	ConnectionLabel    = "Connection"
	ConnectionDoc      = "Connection to use"
	ReturnTypeLabel    = "Return Type"
	ReturnTypeDoc      = "Return type of the function"
	ParameterLabel     = "Parameter"
	ParameterTypeDoc   = "Type of the parameter"
	ParameterNameDoc   = "Name of the parameter"
	DefaultableKind    = "DEFAULTABLE"
	RestParamSuffix    = "..."
	defaultPlaceholder = "0"
)

// PropertiesBuilder assembles an ordered property map. NestedProperty
// opens a group that EndNested closes into a single property.
type PropertiesBuilder struct {
	levels []*Properties
}

// NewPropertiesBuilder creates a builder with an empty root group.
func NewPropertiesBuilder() *PropertiesBuilder {
	return &PropertiesBuilder{levels: []*Properties{NewProperties()}}
}

func (b *PropertiesBuilder) current() *Properties { return b.levels[len(b.levels)-1] }

// Custom starts a property stored under key when Stepout is called.
func (b *PropertiesBuilder) Custom(key string) *PropertyBuilder {
	return &PropertyBuilder{parent: b, key: key, p: &Property{ValueType: ValueTypeExpression}}
}

// NestedProperty opens a group.
func (b *PropertiesBuilder) NestedProperty() *PropertiesBuilder {
	b.levels = append(b.levels, NewProperties())
	return b
}

// EndNested closes the innermost group into a property of type vt under
// key. Unbalanced calls are ignored.
func (b *PropertiesBuilder) EndNested(vt ValueType, key, label, doc string, constraint any) *PropertiesBuilder {
	if len(b.levels) < 2 {
		return b
	}
	group := b.current()
	b.levels = b.levels[:len(b.levels)-1]
	b.current().Set(key, &Property{
		Metadata:            Metadata{Label: label, Description: doc},
		ValueType:           vt,
		ValueTypeConstraint: constraint,
		Value:               group,
		Editable:            true,
	})
	return b
}

// Build returns the root map. Groups left open are dropped.
func (b *PropertiesBuilder) Build() *Properties {
	return b.levels[0]
}

// FunctionName adds the function name identifier.
func (b *PropertiesBuilder) FunctionName(name string, editable bool, label, doc string) *PropertiesBuilder {
	pb := b.Custom(KeyFunctionName).Metadata(label, doc).Type(ValueTypeIdentifier).Value(name)
	if editable {
		pb.Editable()
	}
	return pb.Stepout()
}

// ReturnType adds the optional return type under the type key.
func (b *PropertiesBuilder) ReturnType(typ, constraint string) *PropertiesBuilder {
	pb := b.Custom(KeyType).Metadata(ReturnTypeLabel, ReturnTypeDoc).Type(ValueTypeType).
		Value(typ).Optional().Editable()
	if constraint != "" {
		pb.Constraint(constraint)
	}
	return pb.Stepout()
}

// Parameter adds one parameter entry to the open group. kind is the
// parameter kind, e.g. REQUIRED, DEFAULTABLE or REST.
func (b *PropertiesBuilder) Parameter(typ, name, kind string) *PropertiesBuilder {
	b.current().Set(name, parameterEntry(typ, name, kind))
	return b
}

// DefaultableParameter adds a parameter entry carrying its default value.
func (b *PropertiesBuilder) DefaultableParameter(typ, name, defaultValue string) *PropertiesBuilder {
	p := parameterEntry(typ, name, DefaultableKind)
	entry, _ := p.Nested()
	entry.Set(KeyParamDefaultable, &Property{
		Metadata:  Metadata{Label: "Default Value", Description: "Default value of the parameter"},
		ValueType: ValueTypeExpression, Value: defaultValue, Optional: true, Editable: true,
	})
	b.current().Set(name, p)
	return b
}

func parameterEntry(typ, name, kind string) *Property {
	entry := NewProperties()
	entry.Set(KeyParamType, &Property{
		Metadata:  Metadata{Label: TypeLabel, Description: ParameterTypeDoc},
		ValueType: ValueTypeType, Value: typ, Editable: true,
	})
	entry.Set(KeyParamVariable, &Property{
		Metadata:  Metadata{Label: VariableLabel, Description: ParameterNameDoc},
		ValueType: ValueTypeIdentifier, Value: name, Editable: true,
	})
	p := &Property{
		Metadata:  Metadata{Label: ParameterLabel, Description: name},
		ValueType: ValueTypeNestedProperty,
		Value:     entry,
		Editable:  true,
	}
	if kind != "" {
		p.Codedata = &PropertyCodedata{Kind: kind, OriginalName: name}
	}
	return p
}

// Variable adds the bound variable name.
func (b *PropertiesBuilder) Variable(name string, editable bool) *PropertiesBuilder {
	pb := b.Custom(KeyVariable).Metadata(VariableLabel, VariableDoc).Type(ValueTypeIdentifier).Value(name)
	if editable {
		pb.Editable()
	}
	return pb.Stepout()
}

// DataType adds the declared type.
func (b *PropertiesBuilder) DataType(typ string) *PropertiesBuilder {
	return b.Custom(KeyType).Metadata(TypeLabel, TypeDoc).Type(ValueTypeType).Value(typ).Editable().Stepout()
}

// Expression adds an expression property under key.
func (b *PropertiesBuilder) Expression(key, src, doc string) *PropertiesBuilder {
	return b.Custom(key).Metadata(ExpressionLabel, doc).Type(ValueTypeExpression).Value(src).Editable().Stepout()
}

// DefaultExpression adds an empty expression with a placeholder.
func (b *PropertiesBuilder) DefaultExpression(key, doc string) *PropertiesBuilder {
	return b.Custom(key).Metadata(ExpressionLabel, doc).Type(ValueTypeExpression).Value("").
		Placeholder(defaultPlaceholder).Editable().Stepout()
}

// CheckError adds the check flag.
func (b *PropertiesBuilder) CheckError(enabled bool) *PropertiesBuilder {
	return b.Custom(KeyCheckError).Metadata(CheckErrorLabel, CheckErrorDoc).Type(ValueTypeFlag).
		Value(enabled).Advanced().Editable().Stepout()
}

// Connection adds the client expression of a remote call.
func (b *PropertiesBuilder) Connection(expr string) *PropertiesBuilder {
	return b.Custom(KeyConnection).Metadata(ConnectionLabel, ConnectionDoc).Type(ValueTypeIdentifier).
		Value(expr).Stepout()
}

// PropertyBuilder configures one property.
type PropertyBuilder struct {
	parent *PropertiesBuilder
	key    string
	p      *Property
}

// Metadata sets the label and description.
func (pb *PropertyBuilder) Metadata(label, doc string) *PropertyBuilder {
	pb.p.Metadata = Metadata{Label: label, Description: doc}
	return pb
}

// Value sets the value.
func (pb *PropertyBuilder) Value(v any) *PropertyBuilder {
	pb.p.Value = v
	return pb
}

// Type sets the value type.
func (pb *PropertyBuilder) Type(vt ValueType) *PropertyBuilder {
	pb.p.ValueType = vt
	return pb
}

// Constraint sets the value type constraint.
func (pb *PropertyBuilder) Constraint(c any) *PropertyBuilder {
	pb.p.ValueTypeConstraint = c
	return pb
}

// Placeholder sets the text used when the value is empty.
func (pb *PropertyBuilder) Placeholder(s string) *PropertyBuilder {
	pb.p.Placeholder = s
	return pb
}

// Optional marks the property optional.
func (pb *PropertyBuilder) Optional() *PropertyBuilder {
	pb.p.Optional = true
	return pb
}

// Editable marks the property editable.
func (pb *PropertyBuilder) Editable() *PropertyBuilder {
	pb.p.Editable = true
	return pb
}

// Advanced marks the property advanced.
func (pb *PropertyBuilder) Advanced() *PropertyBuilder {
	pb.p.Advanced = true
	return pb
}

// Codedata sets the property origin.
func (pb *PropertyBuilder) Codedata(kind, originalName string) *PropertyBuilder {
	pb.p.Codedata = &PropertyCodedata{Kind: kind, OriginalName: originalName}
	return pb
}

// Stepout stores the property and returns to the map builder.
func (pb *PropertyBuilder) Stepout() *PropertiesBuilder {
	pb.parent.current().Set(pb.key, pb.p)
	return pb.parent
}

// ParameterSchema is the constraint of a parameters group: every entry has
// a type and a variable.
func ParameterSchema() *Property {
	schema := NewProperties()
	schema.Set(KeyParamType, &Property{
		Metadata: Metadata{Label: TypeLabel, Description: ParameterTypeDoc}, ValueType: ValueTypeType, Value: "", Editable: true,
	})
	schema.Set(KeyParamVariable, &Property{
		Metadata: Metadata{Label: VariableLabel, Description: ParameterNameDoc}, ValueType: ValueTypeIdentifier, Value: "", Editable: true,
	})
	return &Property{
		Metadata:  Metadata{Label: ParameterLabel, Description: "Function parameter"},
		ValueType: ValueTypeNestedProperty,
		Value:     schema,
		Editable:  true,
	}
}

// Param is one entry of a parameters group.
type Param struct {
	Type    string
	Name    string
	Kind    string
	Default string
}

// Params reads the entries of a parameters property in order.
func Params(p *Property) []Param {
	group, ok := p.Nested()
	if !ok {
		return nil
	}
	var out []Param
	group.Range(func(key string, entry *Property) bool {
		fields, ok := entry.Nested()
		if !ok {
			return true
		}
		typ, _ := fields.Get(KeyParamType)
		name, _ := fields.Get(KeyParamVariable)
		def, _ := fields.Get(KeyParamDefaultable)
		param := Param{Type: typ.Text(), Name: name.Text(), Default: def.Text()}
		if param.Name == "" {
			param.Name = key
		}
		if entry.Codedata != nil {
			param.Kind = entry.Codedata.Kind
		}
		out = append(out, param)
		return true
	})
	return out
}
