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
	"strconv"
	"strings"

	"trpc.group/trpc-go/trpc-flowmodel-go/semantic"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
)

// DiagnosticsFunc returns the diagnostic messages reported on exactly the
// range of n.
type DiagnosticsFunc func(n syntax.Node) []string

// GenMappings lists the leaf assignments of expr whose value is written to
// the output path name. Nested constructors extend the path with field
// names and list indexes. diag may be nil.
func GenMappings(expr syntax.Expression, name string, diag DiagnosticsFunc) []Mapping {
	var out []Mapping
	genMappings(expr, name, diag, &out)
	return out
}

func genMappings(expr syntax.Expression, name string, diag DiagnosticsFunc, out *[]Mapping) {
	switch e := expr.(type) {
	case *syntax.MappingConstructor:
		for _, f := range e.Fields {
			sf, ok := f.(*syntax.SpecificField)
			if !ok || sf.Value == nil {
				continue
			}
			path := name + "." + sf.FieldName()
			switch v := sf.Value.(type) {
			case *syntax.MappingConstructor, *syntax.ListConstructor:
				genMappings(v, path, diag, out)
			default:
				*out = append(*out, leaf(path, v, diag))
			}
		}
	case *syntax.ListConstructor:
		for i, m := range e.Members {
			if mc, ok := m.(*syntax.MappingConstructor); ok {
				genMappings(mc, name+"."+strconv.Itoa(i), diag, out)
			}
		}
	case *syntax.QueryExpr:
		if e.Select == nil {
			return
		}
		if mc, ok := e.Select.Expr.(*syntax.MappingConstructor); ok {
			genMappings(mc, name, diag, out)
		}
	case *syntax.SimpleNameRef:
		*out = append(*out, leaf(name, e, diag))
	}
}

func leaf(path string, e syntax.Expression, diag DiagnosticsFunc) Mapping {
	m := Mapping{
		Output:      path,
		Inputs:      GenInputs(e),
		Expression:  strings.TrimSpace(e.SourceText()),
		Diagnostics: []string{},
	}
	if diag != nil {
		if d := diag(e); d != nil {
			m.Diagnostics = d
		}
	}
	if m.Inputs == nil {
		m.Inputs = []string{}
	}
	return m
}

// GenInputs returns the root identifiers expr reads, in order of first
// appearance. Field and index access contribute their base identifier and
// method calls their receiver only.
func GenInputs(expr syntax.Expression) []string {
	var out []string
	seen := map[string]bool{}
	genInputs(expr, func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	})
	return out
}

func genInputs(expr syntax.Expression, add func(string)) {
	switch e := expr.(type) {
	case *syntax.SimpleNameRef:
		add(e.Name.Value())
	case *syntax.FieldAccess:
		genInputs(e.Expr, add)
	case *syntax.OptionalFieldAccess:
		genInputs(e.Expr, add)
	case *syntax.IndexedExpr:
		genInputs(e.Expr, add)
	case *syntax.BinaryExpr:
		genInputs(e.LHS, add)
		genInputs(e.RHS, add)
	case *syntax.MethodCall:
		genInputs(e.Expr, add)
	case *syntax.MappingConstructor:
		for _, f := range e.Fields {
			switch field := f.(type) {
			case *syntax.SpecificField:
				if field.Value != nil {
					genInputs(field.Value, add)
				} else {
					add(field.FieldName())
				}
			case *syntax.SpreadField:
				genInputs(field.Expr, add)
			}
		}
	case *syntax.BracedExpr:
		genInputs(e.Expr, add)
	case *syntax.UnaryExpr:
		genInputs(e.Expr, add)
	case *syntax.CheckExpr:
		genInputs(e.Expr, add)
	case *syntax.TypeCastExpr:
		genInputs(e.Expr, add)
	case *syntax.ConditionalExpr:
		genInputs(e.Cond, add)
		genInputs(e.Then, add)
		genInputs(e.Else, add)
	}
}

// target is the value a mapping view edits.
type target struct {
	typ  *semantic.TypeSymbol
	name string
	expr syntax.Expression
}

// resolveTarget finds the initializer part addressed by field, a dotted
// path starting with the binding name of decl. An empty field addresses
// the whole initializer.
func resolveTarget(decl *syntax.LocalVarDecl, sym *semantic.Symbol, field string) (*target, bool) {
	if decl.Init == nil || sym == nil || sym.Kind != semantic.KindVariable || sym.Type == nil {
		return nil, false
	}
	if field == "" {
		return &target{typ: sym.Type, name: sym.Name, expr: decl.Init}, true
	}
	typ, expr := sym.Type, decl.Init
	if q, ok := expr.(*syntax.QueryExpr); ok {
		raw := typ.RawType()
		if raw.Kind != semantic.TypeArray || q.Select == nil {
			return nil, false
		}
		typ, expr = raw.Member, q.Select.Expr
	}
	if _, ok := expr.(*syntax.MappingConstructor); !ok {
		return nil, false
	}
	if raw := typ.NonNil().RawType(); raw == nil || raw.Kind != semantic.TypeRecord {
		return nil, false
	}
	segs := strings.Split(field, ".")
	if segs[0] != decl.Name.Value() {
		return nil, false
	}
	name := segs[0]
	for _, seg := range segs[1:] {
		var ok bool
		if typ, expr, ok = descend(typ, expr, seg); !ok {
			return nil, false
		}
		name = seg
	}
	return &target{typ: typ, name: name, expr: expr}, true
}

// descend steps from a constructor to the value at seg: a field name of a
// mapping constructor or an index of a list constructor.
func descend(typ *semantic.TypeSymbol, expr syntax.Expression, seg string) (*semantic.TypeSymbol, syntax.Expression, bool) {
	raw := typ.NonNil().RawType()
	if raw == nil {
		return nil, nil, false
	}
	if idx, err := strconv.Atoi(seg); err == nil {
		list, ok := expr.(*syntax.ListConstructor)
		if !ok || raw.Kind != semantic.TypeArray || idx < 0 || idx >= len(list.Members) {
			return nil, nil, false
		}
		member, ok := list.Members[idx].(syntax.Expression)
		return raw.Member, member, ok
	}
	mc, ok := expr.(*syntax.MappingConstructor)
	if !ok || raw.Kind != semantic.TypeRecord {
		return nil, nil, false
	}
	f, ok := raw.FieldIncluded(seg)
	if !ok {
		return nil, nil, false
	}
	sf, ok := mc.Field(seg)
	if !ok || sf.Value == nil {
		return nil, nil, false
	}
	return f.Type, sf.Value, true
}
