//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package datamapper

import (
	"sort"
	"strconv"
	"strings"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/log"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
)

type valueKind int

const (
	scalarValue valueKind = iota
	objectValue
	listValue
)

// value is the intermediate form of a rebuilt literal. Objects and lists
// own their children; nothing is shared between containers.
type value struct {
	kind   valueKind
	text   string
	fields map[string]*value
	items  map[int]*value
}

func newContainer(kind valueKind) *value {
	v := &value{kind: kind}
	switch kind {
	case objectValue:
		v.fields = map[string]*value{}
	case listValue:
		v.items = map[int]*value{}
	}
	return v
}

func kindFor(seg string) valueKind {
	if _, err := strconv.Atoi(seg); err == nil {
		return listValue
	}
	return objectValue
}

// child returns the container at seg, creating it with kind when absent
// or when a scalar occupies the slot.
func (v *value) child(seg string, kind valueKind) *value {
	if c := v.get(seg); c != nil && c.kind != scalarValue {
		return c
	}
	c := newContainer(kind)
	v.set(seg, c)
	return c
}

func (v *value) get(seg string) *value {
	if v.kind == listValue {
		idx, err := strconv.Atoi(seg)
		if err != nil {
			return nil
		}
		return v.items[idx]
	}
	return v.fields[seg]
}

func (v *value) set(seg string, c *value) {
	if v.kind == listValue {
		if idx, err := strconv.Atoi(seg); err == nil {
			v.items[idx] = c
		}
		return
	}
	v.fields[seg] = c
}

// validPath reports whether every segment after the variable name is a
// field name or a non-negative list index.
func validPath(segs []string) bool {
	for _, seg := range segs[1:] {
		if seg == "" {
			return false
		}
		if idx, err := strconv.Atoi(seg); err == nil && idx < 0 {
			return false
		}
	}
	return true
}

func (v *value) write(b *strings.Builder) {
	switch v.kind {
	case scalarValue:
		b.WriteString(v.text)
	case objectValue:
		keys := make([]string, 0, len(v.fields))
		for k := range v.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(k)
			b.WriteByte(':')
			v.fields[k].write(b)
		}
		b.WriteByte('}')
	case listValue:
		idxs := make([]int, 0, len(v.items))
		for i := range v.items {
			idxs = append(idxs, i)
		}
		sort.Ints(idxs)
		b.WriteByte('[')
		for i, idx := range idxs {
			if i > 0 {
				b.WriteByte(',')
			}
			v.items[idx].write(b)
		}
		b.WriteByte(']')
	}
}

// GenSource rebuilds the literal assigning every mapping. Output paths are
// dotted with the variable name first; numeric segments address list
// slots. The result depends only on the set of paths, not their order.
// Mappings with an empty segment or a negative index are skipped.
func GenSource(mappings []Mapping) string {
	var root *value
	for _, m := range mappings {
		segs := strings.Split(m.Output, ".")
		if len(segs) < 2 {
			continue
		}
		if !validPath(segs) {
			log.Warnf("datamapper: skip mapping with invalid output path %q", m.Output)
			continue
		}
		if root == nil {
			root = newContainer(kindFor(segs[1]))
		}
		cur := root
		for i := 1; i < len(segs)-1; i++ {
			cur = cur.child(segs[i], kindFor(segs[i+1]))
		}
		cur.set(segs[len(segs)-1], &value{kind: scalarValue, text: m.Expression})
	}
	if root == nil {
		return "{}"
	}
	var b strings.Builder
	root.write(&b)
	return b.String()
}

// GetSource writes mappings back into the expression of n. When the
// expression is a query the literal replaces its select expression, at
// targetField when one is given, and the other clauses are kept. Otherwise
// the literal itself is returned.
func (m *Manager) GetSource(n *flow.Node, mappings []Mapping, targetField string) (string, error) {
	literal := GenSource(mappings)
	if n.Kind() != flow.KindVariable {
		return literal, nil
	}
	prop, ok := n.Property(flow.KeyExpression)
	if !ok {
		return literal, nil
	}
	src := prop.ToSourceCode()
	expr, err := syntax.ParseExpression(src)
	if err != nil {
		return literal, nil
	}
	if targetField == "" {
		if q, ok := expr.(*syntax.QueryExpr); ok && q.Select != nil && q.Select.Expr != nil {
			return replaceRange(src, q.Select.Expr.TextRange(), literal), nil
		}
		return literal, nil
	}
	segs := strings.Split(targetField, ".")
	cur := expr
	for _, seg := range segs[1:] {
		if cur = step(cur, seg); cur == nil {
			return literal, nil
		}
	}
	if q, ok := cur.(*syntax.QueryExpr); ok && q.Select != nil && q.Select.Expr != nil {
		return replaceRange(src, q.Select.Expr.TextRange(), literal), nil
	}
	return literal, nil
}

// step moves from expr to the value at seg, looking through the select
// expression of queries.
func step(expr syntax.Expression, seg string) syntax.Expression {
	if q, ok := expr.(*syntax.QueryExpr); ok {
		if q.Select == nil {
			return nil
		}
		expr = q.Select.Expr
	}
	switch e := expr.(type) {
	case *syntax.MappingConstructor:
		if f, ok := e.Field(seg); ok {
			return f.Value
		}
	case *syntax.ListConstructor:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= len(e.Members) {
			return nil
		}
		if m, ok := e.Members[idx].(syntax.Expression); ok {
			return m
		}
	}
	return nil
}

func replaceRange(src string, r syntax.TextRange, text string) string {
	return src[:r.Start] + text + src[r.End:]
}
