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
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Properties is an insertion ordered map of property key to Property. The
// order survives a JSON round trip.
type Properties struct {
	keys  []string
	items map[string]*Property
}

// NewProperties creates an empty map.
func NewProperties() *Properties {
	return &Properties{items: map[string]*Property{}}
}

// Set adds or replaces key. A replaced key keeps its position.
func (ps *Properties) Set(key string, p *Property) {
	if ps.items == nil {
		ps.items = map[string]*Property{}
	}
	if _, ok := ps.items[key]; !ok {
		ps.keys = append(ps.keys, key)
	}
	ps.items[key] = p
}

// Get returns the property at key.
func (ps *Properties) Get(key string) (*Property, bool) {
	if ps == nil {
		return nil, false
	}
	p, ok := ps.items[key]
	return p, ok
}

// Delete removes key.
func (ps *Properties) Delete(key string) {
	if _, ok := ps.items[key]; !ok {
		return
	}
	delete(ps.items, key)
	for i, k := range ps.keys {
		if k == key {
			ps.keys = append(ps.keys[:i], ps.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in order.
func (ps *Properties) Keys() []string {
	if ps == nil {
		return nil
	}
	return append([]string(nil), ps.keys...)
}

// Len returns the number of properties.
func (ps *Properties) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.keys)
}

// Range calls fn for each property in order until fn returns false.
func (ps *Properties) Range(fn func(key string, p *Property) bool) {
	if ps == nil {
		return
	}
	for _, k := range ps.keys {
		if !fn(k, ps.items[k]) {
			return
		}
	}
}

// MarshalJSON writes the properties as an object in insertion order.
func (ps *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range ps.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(ps.items[k])
		if err != nil {
			return nil, fmt.Errorf("marshal property %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping the document order of its keys.
func (ps *Properties) UnmarshalJSON(data []byte) error {
	r := gjson.ParseBytes(data)
	if r.Type == gjson.Null {
		return nil
	}
	if !r.IsObject() {
		return ErrInvalidProperties
	}
	ps.keys, ps.items = nil, map[string]*Property{}
	var err error
	r.ForEach(func(k, v gjson.Result) bool {
		p := &Property{}
		if err = json.Unmarshal([]byte(v.Raw), p); err != nil {
			err = fmt.Errorf("property %q: %w", k.Str, err)
			return false
		}
		ps.Set(k.Str, p)
		return true
	})
	return err
}
