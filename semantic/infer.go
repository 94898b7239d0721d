//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package semantic

import "trpc.group/trpc-go/trpc-flowmodel-go/syntax"

var literalTypes = map[syntax.SyntaxKind]string{
	syntax.KindIntLiteral:     "int",
	syntax.KindFloatLiteral:   "float",
	syntax.KindStringLiteral:  "string",
	syntax.KindBooleanLiteral: "boolean",
	syntax.KindNilLiteral:     "()",
}

var booleanOps = map[string]bool{
	"==": true, "!=": true, "===": true, "!==": true, "<": true, ">": true,
	"<=": true, ">=": true, "&&": true, "||": true,
}

// typeOf infers the static type of an expression where it is evident from
// the expression alone. It returns nil otherwise.
func (r *resolver) typeOf(e syntax.Node, sc *scope, f *file) *TypeSymbol {
	switch x := e.(type) {
	case nil:
		return nil
	case *syntax.Literal:
		return Builtin(literalTypes[x.Kind()])
	case *syntax.SimpleNameRef:
		if s := r.lookup(x.Name.Value(), sc); s != nil {
			return s.Type
		}
	case *syntax.QualifiedNameRef:
		if mod, ok := f.prefixes[x.Prefix.Value()]; ok {
			if s := r.member(mod, x.Name.Value()); s != nil {
				return s.Type
			}
		}
	case *syntax.FieldAccess:
		return fieldType(r.typeOf(x.Expr, sc, f), x.Field.Value())
	case *syntax.OptionalFieldAccess:
		base := r.typeOf(x.Expr, sc, f)
		if base == nil {
			return nil
		}
		return fieldType(base.NonNil(), x.Field.Value())
	case *syntax.IndexedExpr:
		return r.memberType(r.typeOf(x.Expr, sc, f))
	case *syntax.FunctionCall:
		if x.FunctionName() == "error" {
			return Builtin("error")
		}
		var s *Symbol
		switch fn := x.Func.(type) {
		case *syntax.SimpleNameRef:
			s = r.lookup(fn.Name.Value(), sc)
		case *syntax.QualifiedNameRef:
			if mod, ok := f.prefixes[fn.Prefix.Value()]; ok {
				s = r.member(mod, fn.Name.Value())
			}
		}
		if s != nil && s.Kind == KindFunction {
			return s.Return
		}
	case *syntax.MethodCall:
		return methodReturn(r.typeOf(x.Expr, sc, f), x.Method.Value())
	case *syntax.RemoteMethodCall:
		return methodReturn(r.typeOf(x.Expr, sc, f), x.Method.Value())
	case *syntax.NewExpr:
		if x.Type != nil {
			return r.resolveType(x.Type, f)
		}
	case *syntax.CheckExpr:
		t := r.typeOf(x.Expr, sc, f)
		if t == nil || t.Kind != TypeUnion {
			return t
		}
		var rest []*TypeSymbol
		for _, m := range t.Members {
			if m.RawType().Kind != TypeError {
				rest = append(rest, m)
			}
		}
		if len(rest) == 1 {
			return rest[0]
		}
		return &TypeSymbol{Kind: TypeUnion, Members: rest}
	case *syntax.BracedExpr:
		return r.typeOf(x.Expr, sc, f)
	case *syntax.TypeCastExpr:
		return r.resolveType(x.Type, f)
	case *syntax.UnaryExpr:
		if x.Op == "!" {
			return Builtin("boolean")
		}
		return r.typeOf(x.Expr, sc, f)
	case *syntax.BinaryExpr:
		if booleanOps[x.Op] {
			return Builtin("boolean")
		}
		if x.Op == "?:" {
			if t := r.typeOf(x.LHS, sc, f); t != nil {
				return t.NonNil()
			}
			return nil
		}
		return r.typeOf(x.LHS, sc, f)
	case *syntax.ConditionalExpr:
		return r.typeOf(x.Then, sc, f)
	case *syntax.ListConstructor:
		member := Builtin("anydata")
		if len(x.Members) > 0 {
			if t := r.typeOf(x.Members[0], sc, f); t != nil {
				member = t
			}
		}
		return &TypeSymbol{Kind: TypeArray, Member: member}
	case *syntax.MappingConstructor:
		return &TypeSymbol{Kind: TypeMap, Member: Builtin("anydata")}
	case *syntax.QueryExpr:
		if x.Select == nil {
			return nil
		}
		inner := newScope(sc)
		for _, c := range x.Clauses {
			switch cl := c.(type) {
			case *syntax.FromClause:
				t := r.memberType(r.typeOf(cl.Expr, inner, f))
				if cl.Type != nil {
					t = r.resolveType(cl.Type, f)
				}
				inner.syms[cl.Var.Value()] = &Symbol{Kind: KindVariable, Name: cl.Var.Value(), Type: t}
			case *syntax.LetClause:
				t := r.typeOf(cl.Expr, inner, f)
				if cl.Type != nil {
					t = r.resolveType(cl.Type, f)
				}
				inner.syms[cl.Var.Value()] = &Symbol{Kind: KindVariable, Name: cl.Var.Value(), Type: t}
			}
		}
		member := r.typeOf(x.Select.Expr, inner, f)
		if member == nil {
			member = Builtin("anydata")
		}
		return &TypeSymbol{Kind: TypeArray, Member: member}
	}
	return nil
}

func fieldType(base *TypeSymbol, name string) *TypeSymbol {
	if base == nil {
		return nil
	}
	raw := base.RawType()
	switch raw.Kind {
	case TypeRecord:
		if f, ok := raw.FieldIncluded(name); ok {
			if f.Optional {
				return &TypeSymbol{Kind: TypeUnion, Members: []*TypeSymbol{f.Type, Builtin("()")}}
			}
			return f.Type
		}
		return raw.Rest
	case TypeMap:
		return raw.Member
	case TypeObject:
		if f, ok := raw.Field(name); ok {
			return f.Type
		}
	}
	return nil
}

func methodReturn(recv *TypeSymbol, name string) *TypeSymbol {
	if m, ok := recv.Method(name); ok {
		return m.Return
	}
	return nil
}
