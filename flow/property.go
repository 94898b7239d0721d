//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package flow

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// ValueType tells the editor how to render and edit a property.
type ValueType string

// Value types.
const (
	ValueTypeExpression         ValueType = "EXPRESSION"
	ValueTypeIdentifier         ValueType = "IDENTIFIER"
	ValueTypeType               ValueType = "TYPE"
	ValueTypeString             ValueType = "STRING"
	ValueTypeFlag               ValueType = "FLAG"
	ValueTypeRepeatableProperty ValueType = "REPEATABLE_PROPERTY"
	ValueTypeNestedProperty     ValueType = "NESTED_PROPERTY"
)

// Metadata is the display information of a node or property.
type Metadata struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// PropertyCodedata ties a property to its origin, e.g. the kind of the
// parameter it was derived from.
type PropertyCodedata struct {
	Kind         string `json:"kind,omitempty"`
	OriginalName string `json:"originalName,omitempty"`
}

// Property is one named, typed, editable attribute of a node.
//
// Value holds a string, a bool for flags, a *Properties for nested and
// repeatable groups, or a []*Property. ValueTypeConstraint holds a type
// signature string or a *Property schema.
type Property struct {
	Metadata            Metadata          `json:"metadata"`
	ValueType           ValueType         `json:"valueType"`
	ValueTypeConstraint any               `json:"valueTypeConstraint,omitempty"`
	Value               any               `json:"value"`
	Placeholder         string            `json:"placeholder,omitempty"`
	Optional            bool              `json:"optional"`
	Editable            bool              `json:"editable"`
	Advanced            bool              `json:"advanced"`
	Codedata            *PropertyCodedata `json:"codedata,omitempty"`
}

// StringValue returns the scalar value as text.
func (p *Property) StringValue() (string, bool) {
	if p == nil {
		return "", false
	}
	switch v := p.Value.(type) {
	case string:
		return v, true
	case bool:
		return fmt.Sprint(v), true
	}
	return "", false
}

// Text returns the scalar value or "".
func (p *Property) Text() string {
	s, _ := p.StringValue()
	return s
}

// Nested returns the nested property group.
func (p *Property) Nested() (*Properties, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.Value.(*Properties)
	return v, ok && v != nil
}

// List returns the list value.
func (p *Property) List() ([]*Property, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.Value.([]*Property)
	return v, ok
}

// Constraint returns the type constraint when it is a signature.
func (p *Property) Constraint() string {
	if p == nil {
		return ""
	}
	s, _ := p.ValueTypeConstraint.(string)
	return s
}

// Enabled reports whether a flag property is set.
func (p *Property) Enabled() bool {
	if p == nil {
		return false
	}
	switch v := p.Value.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// ToSourceCode renders the property as source text: the scalar value, else
// the placeholder. A flag renders the check keyword when set.
func (p *Property) ToSourceCode() string {
	if p == nil {
		return ""
	}
	if p.ValueType == ValueTypeFlag {
		if p.Enabled() {
			return "check"
		}
		return ""
	}
	if s, ok := p.StringValue(); ok && s != "" {
		return s
	}
	return p.Placeholder
}

type propertyAlias Property

// UnmarshalJSON decodes the polymorphic value and constraint fields.
func (p *Property) UnmarshalJSON(data []byte) error {
	var raw struct {
		propertyAlias
		Value               json.RawMessage `json:"value"`
		ValueTypeConstraint json.RawMessage `json:"valueTypeConstraint"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProperty, err)
	}
	*p = Property(raw.propertyAlias)
	v, err := decodeValue(raw.Value)
	if err != nil {
		return err
	}
	p.Value = v
	if p.ValueTypeConstraint, err = decodeConstraint(raw.ValueTypeConstraint); err != nil {
		return err
	}
	return nil
}

func decodeValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	r := gjson.ParseBytes(raw)
	switch r.Type {
	case gjson.Null:
		return nil, nil
	case gjson.String:
		return r.Str, nil
	case gjson.True, gjson.False:
		return r.Bool(), nil
	case gjson.Number:
		return r.Raw, nil
	}
	if r.IsArray() {
		var list []*Property
		var err error
		r.ForEach(func(_, item gjson.Result) bool {
			p := &Property{}
			if err = json.Unmarshal([]byte(item.Raw), p); err != nil {
				return false
			}
			list = append(list, p)
			return true
		})
		return list, err
	}
	props := NewProperties()
	if err := props.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return props, nil
}

func decodeConstraint(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	r := gjson.ParseBytes(raw)
	switch {
	case r.Type == gjson.String:
		return r.Str, nil
	case r.IsObject():
		p := &Property{}
		if err := json.Unmarshal(raw, p); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, nil
}
