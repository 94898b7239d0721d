//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package semantic

import (
	"fmt"
	"sort"

	"trpc.group/trpc-go/trpc-flowmodel-go/log"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
)

// Names callable without a declaration.
var builtinFunctions = map[string]bool{"error": true}

// Resolve builds the semantic model of pkg. Dependencies are resolved once
// and shared by every import that names them.
func Resolve(pkg *Package) Model {
	deps := map[ModuleID]*Package{}
	for _, d := range pkg.Dependencies {
		deps[moduleKey(d.ID)] = d
	}
	return resolve(pkg, deps, map[ModuleID]*model{})
}

func moduleKey(id ModuleID) ModuleID { return ModuleID{Org: id.Org, Name: id.Name} }

type scope struct {
	parent *scope
	syms   map[string]*Symbol
}

func newScope(parent *scope) *scope { return &scope{parent: parent, syms: map[string]*Symbol{}} }

func (s *scope) lookup(name string) *Symbol {
	for ; s != nil; s = s.parent {
		if sym, ok := s.syms[name]; ok {
			return sym
		}
	}
	return nil
}

type resolver struct {
	*model
	deps  map[ModuleID]*Package
	cache map[ModuleID]*model
	mods  map[ModuleID]*Symbol
}

func resolve(pkg *Package, deps map[ModuleID]*Package, cache map[ModuleID]*model) *model {
	key := moduleKey(pkg.ID)
	if m, ok := cache[key]; ok {
		return m
	}
	r := &resolver{
		model: &model{
			id:     pkg.ID,
			byName: map[string]*Symbol{},
			nodes:  map[syntax.Node]*Symbol{},
			refs:   map[*syntax.Identifier]*Symbol{},
			files:  map[string]*file{},
		},
		deps:  deps,
		cache: cache,
		mods:  map[ModuleID]*Symbol{},
	}
	// Registered before resolving so that import cycles terminate.
	cache[key] = r.model

	sources := append([]Source(nil), pkg.Sources...)
	sort.SliceStable(sources, func(i, j int) bool { return sources[i].Path < sources[j].Path })
	var files []*file
	for _, src := range sources {
		if src.Tree == nil {
			continue
		}
		f := &file{path: src.Path, tree: src.Tree, prefixes: map[string]*Symbol{}, unresolved: map[string]bool{}}
		r.files[src.Path] = f
		files = append(files, f)
		r.resolveImports(f)
	}
	for _, f := range files {
		r.declare(f)
	}
	for _, f := range files {
		r.defineFunctions(f)
	}
	for _, f := range files {
		r.define(f)
	}
	for _, f := range files {
		r.checkBodies(f)
	}
	log.Debugf("resolved module %s: %d symbols, %d diagnostics", pkg.ID, len(r.members), len(r.diags))
	return r.model
}

func (r *resolver) diag(code string, n syntax.Node, format string, args ...any) {
	r.diags = append(r.diags, Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), LineRange: n.LineRange()})
}

func (r *resolver) resolveImports(f *file) {
	for _, imp := range f.tree.Imports {
		id := ModuleID{Org: imp.OrgName(), Name: imp.ModuleName()}
		prefix := imp.PrefixName()
		if sym, ok := r.mods[id]; ok {
			f.prefixes[prefix] = sym
			continue
		}
		dep, ok := r.deps[id]
		if !ok || moduleKey(dep.ID) == moduleKey(r.id) {
			f.unresolved[prefix] = true
			r.diag(CodeUndefinedModule, imp, "cannot resolve module '%s'", id)
			continue
		}
		dm := resolve(dep, r.deps, r.cache)
		sym := &Symbol{Kind: KindModule, Name: prefix, Module: dep.ID, Node: imp, Location: imp.LineRange()}
		for _, s := range dm.members {
			if s.HasQualifier(QualifierPublic) || s.Kind == KindEnumMember && publicEnumMember(dm, s) {
				sym.Members = append(sym.Members, s)
			}
		}
		r.mods[id] = sym
		r.imports = append(r.imports, sym)
		f.prefixes[prefix] = sym
	}
}

func publicEnumMember(m *model, member *Symbol) bool {
	for _, s := range m.members {
		if s.Kind != KindEnum || !s.HasQualifier(QualifierPublic) {
			continue
		}
		for _, em := range s.Members {
			if em == member {
				return true
			}
		}
	}
	return false
}

func (r *resolver) newSymbol(kind SymbolKind, name *syntax.Identifier, node syntax.Node, quals []string, doc string) *Symbol {
	s := &Symbol{
		Kind:       kind,
		Module:     r.id,
		Qualifiers: quals,
		Docs:       ParseDocumentation(doc),
		Location:   node.LineRange(),
		Node:       node,
	}
	if name != nil {
		s.Name = name.Value()
		r.refs[name] = s
	}
	r.nodes[node] = s
	return s
}

func (r *resolver) addMember(s *Symbol) {
	r.members = append(r.members, s)
	if _, dup := r.byName[s.Name]; !dup {
		r.byName[s.Name] = s
	}
}

// declare creates the module level symbols with placeholder types so that
// definitions may refer to each other in any order.
func (r *resolver) declare(f *file) {
	for _, member := range f.tree.Members {
		switch d := member.(type) {
		case *syntax.TypeDefinition:
			s := r.newSymbol(KindTypeDefinition, d.Name, d, d.Qualifiers, d.Doc)
			s.Type = &TypeSymbol{}
			r.addMember(s)
		case *syntax.ClassDef:
			s := r.newSymbol(KindClass, d.Name, d, d.Qualifiers, d.Doc)
			s.Type = &TypeSymbol{Kind: TypeObject, Name: s.Name, Module: r.id}
			r.addMember(s)
		case *syntax.EnumDecl:
			s := r.newSymbol(KindEnum, d.Name, d, d.Qualifiers, d.Doc)
			s.Type = &TypeSymbol{Kind: TypeUnion}
			r.addMember(s)
			for _, em := range d.Members {
				ms := r.newSymbol(KindEnumMember, em.Name, em, nil, em.Doc)
				value := `"` + ms.Name + `"`
				if em.Value != nil {
					value = em.Value.SourceText()
				}
				ms.Type = &TypeSymbol{Kind: TypeSingleton, Value: value}
				s.Members = append(s.Members, ms)
				s.Type.Members = append(s.Type.Members, ms.Type)
				r.addMember(ms)
			}
		case *syntax.ConstDecl:
			r.addMember(r.newSymbol(KindConstant, d.Name, d, d.Qualifiers, d.Doc))
		case *syntax.ModuleVarDecl:
			r.addMember(r.newSymbol(KindVariable, d.Name, d, d.Qualifiers, d.Doc))
		case *syntax.FunctionDef:
			r.addMember(r.newSymbol(KindFunction, d.Name, d, d.Qualifiers, d.Doc))
		}
	}
}

func (r *resolver) define(f *file) {
	module := newScope(nil)
	for _, member := range f.tree.Members {
		switch d := member.(type) {
		case *syntax.TypeDefinition:
			s := r.nodes[d]
			if t := r.resolveType(d.Type, f); t != nil {
				*s.Type = *t
				if s.Type.Kind == TypeObject {
					s.Type.Name = s.Name
				}
			}
		case *syntax.ClassDef:
			s := r.nodes[d]
			s.Type.Inclusions = r.resolveTypes(d.Inclusions, f)
			s.Inclusions = s.Type.Inclusions
			s.Type.Fields = r.objectFields(d.Fields, f, module)
			for _, m := range d.Methods {
				ms := r.function(KindMethod, m, f)
				s.Methods = append(s.Methods, ms)
			}
			s.Type.Methods = s.Methods
		case *syntax.ConstDecl:
			s := r.nodes[d]
			r.checkExpr(d.Value, module, f)
			if d.Type != nil {
				s.Type = r.resolveType(d.Type, f)
			} else {
				s.Type = r.typeOf(d.Value, module, f)
			}
		case *syntax.ModuleVarDecl:
			s := r.nodes[d]
			if d.Init != nil && d.Init.Kind() != syntax.KindRequiredExpr {
				r.checkExpr(d.Init, module, f)
			}
			s.Type = r.declaredOrInferred(d.Type, d.Init, module, f)
		}
	}
}

// defineFunctions resolves function signatures ahead of module variables
// so that initializers calling them get a type.
func (r *resolver) defineFunctions(f *file) {
	for _, member := range f.tree.Members {
		if d, ok := member.(*syntax.FunctionDef); ok {
			r.function(KindFunction, d, f)
		}
	}
}

func (r *resolver) checkBodies(f *file) {
	for _, member := range f.tree.Members {
		switch d := member.(type) {
		case *syntax.FunctionDef:
			r.checkBody(d, f, nil)
		case *syntax.ClassDef:
			self := r.nodes[d]
			for _, m := range d.Methods {
				r.checkBody(m, f, self)
			}
		}
	}
}

func (r *resolver) declaredOrInferred(td syntax.TypeDesc, init syntax.Expression, sc *scope, f *file) *TypeSymbol {
	if td != nil {
		return r.resolveType(td, f)
	}
	if t := r.typeOf(init, sc, f); t != nil {
		return t
	}
	return Builtin("any")
}

// function completes or creates the symbol of a function or method.
func (r *resolver) function(kind SymbolKind, d *syntax.FunctionDef, f *file) *Symbol {
	s, ok := r.nodes[d]
	if !ok {
		s = r.newSymbol(kind, d.Name, d, d.Qualifiers, d.Doc)
	}
	for _, p := range d.Params {
		ps := r.newSymbol(KindParameter, p.Name, p, nil, "")
		ps.Type = r.resolveType(p.Type, f)
		switch p.Kind() {
		case syntax.KindRestParam:
			ps.ParamKind = ParamRest
			ps.Type = &TypeSymbol{Kind: TypeArray, Member: ps.Type}
		case syntax.KindDefaultableParam:
			ps.ParamKind = ParamDefaultable
		default:
			ps.ParamKind = ParamRequired
		}
		if s.Docs != nil {
			if doc, ok := s.Docs.Params[ps.Name]; ok {
				ps.Docs = &Documentation{Description: doc}
			}
		}
		s.Params = append(s.Params, ps)
	}
	if d.ReturnType != nil {
		s.Return = r.resolveType(d.ReturnType, f)
	} else {
		s.Return = Builtin("()")
	}
	s.Type = &TypeSymbol{Kind: TypeFunction, Name: s.Name, Module: r.id}
	return s
}

func (r *resolver) objectFields(fields []*syntax.ObjectField, f *file, sc *scope) []*Field {
	var out []*Field
	for _, of := range fields {
		field := &Field{Name: of.Name.Value(), Type: r.resolveType(of.Type, f)}
		if of.Init != nil {
			r.checkExpr(of.Init, sc, f)
			field.Default = of.Init.SourceText()
		}
		out = append(out, field)
	}
	return out
}

// checkBody resolves the statements of a function. Methods see their
// class as self.
func (r *resolver) checkBody(d *syntax.FunctionDef, f *file, class *Symbol) {
	if d.Body == nil {
		return
	}
	s := r.nodes[d]
	b := &body{path: f.path, span: d.Body.TextRange(), params: s.Params}
	r.bodies = append(r.bodies, b)
	sc := newScope(nil)
	if class != nil {
		sc.syms["self"] = &Symbol{Kind: KindVariable, Name: "self", Module: r.id, Type: class.Type, Node: class.Node}
	}
	for _, p := range s.Params {
		sc.syms[p.Name] = p
	}
	for _, p := range d.Params {
		if p.Default != nil {
			r.checkExpr(p.Default, sc, f)
		}
	}
	switch bd := d.Body.(type) {
	case *syntax.ExpressionBody:
		r.checkExpr(bd.Expr, sc, f)
	case *syntax.BlockBody:
		for _, stmt := range bd.Statements {
			r.checkStatement(stmt, sc, b, f)
		}
	}
}

func (r *resolver) checkStatement(stmt syntax.Statement, sc *scope, b *body, f *file) {
	switch st := stmt.(type) {
	case *syntax.LocalVarDecl:
		if st.Init != nil {
			r.checkExpr(st.Init, sc, f)
		}
		var quals []string
		if st.Final {
			quals = []string{QualifierFinal}
		}
		s := r.newSymbol(KindVariable, st.Name, st, quals, "")
		s.Type = r.declaredOrInferred(st.Type, st.Init, sc, f)
		sc.syms[s.Name] = s
		b.locals = append(b.locals, local{sym: s, end: st.TextRange().End})
	case *syntax.Assignment:
		r.checkExpr(st.Target, sc, f)
		r.checkExpr(st.Value, sc, f)
	case *syntax.ReturnStmt:
		r.checkExpr(st.Expr, sc, f)
	case *syntax.ExpressionStmt:
		r.checkExpr(st.Expr, sc, f)
	}
}

func (r *resolver) lookup(name string, sc *scope) *Symbol {
	if s := sc.lookup(name); s != nil {
		return s
	}
	return r.byName[name]
}

func (r *resolver) member(mod *Symbol, name string) *Symbol {
	for _, m := range mod.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (r *resolver) checkExpr(n syntax.Node, sc *scope, f *file) {
	if n == nil {
		return
	}
	switch e := n.(type) {
	case *syntax.Identifier:
	case *syntax.SimpleNameRef:
		name := e.Name.Value()
		if s := r.lookup(name, sc); s != nil {
			r.refs[e.Name] = s
			return
		}
		if !builtinFunctions[name] {
			r.diag(CodeUndefinedSymbol, e, "undefined symbol '%s'", name)
		}
	case *syntax.QualifiedNameRef:
		r.qualified(e.Prefix, e.Name, e, f)
	case *syntax.FieldAccess:
		r.checkExpr(e.Expr, sc, f)
		t := r.typeOf(e.Expr, sc, f)
		if t == nil {
			return
		}
		raw := t.RawType()
		if raw.Kind == TypeRecord && raw.Closed && raw.Rest == nil {
			if _, ok := raw.FieldIncluded(e.Field.Value()); !ok {
				r.diag(CodeUndefinedField, e.Field, "undefined field '%s' in record '%s'", e.Field.Value(), t.Signature())
			}
		}
	case *syntax.QueryExpr:
		inner := newScope(sc)
		for _, c := range e.Clauses {
			switch cl := c.(type) {
			case *syntax.FromClause:
				r.checkExpr(cl.Expr, inner, f)
				r.bindQueryVar(cl.Var, cl.Type, r.memberType(r.typeOf(cl.Expr, inner, f)), cl, inner, f)
			case *syntax.LetClause:
				r.checkExpr(cl.Expr, inner, f)
				r.bindQueryVar(cl.Var, cl.Type, r.typeOf(cl.Expr, inner, f), cl, inner, f)
			default:
				r.checkExpr(c, inner, f)
			}
		}
		if e.Select != nil {
			r.checkExpr(e.Select.Expr, inner, f)
		}
	case *syntax.TypeCastExpr:
		r.resolveType(e.Type, f)
		r.checkExpr(e.Expr, sc, f)
	case *syntax.NewExpr:
		if e.Type != nil {
			r.resolveType(e.Type, f)
		}
		for _, a := range e.Args {
			r.checkExpr(a, sc, f)
		}
	case *syntax.MappingConstructor:
		for _, field := range e.Fields {
			switch mf := field.(type) {
			case *syntax.SpecificField:
				if mf.Value == nil {
					if id, ok := mf.Key.(*syntax.Identifier); ok {
						if s := r.lookup(id.Value(), sc); s != nil {
							r.refs[id] = s
						} else {
							r.diag(CodeUndefinedSymbol, id, "undefined symbol '%s'", id.Value())
						}
					}
					continue
				}
				switch mf.Key.(type) {
				case *syntax.Identifier, *syntax.Literal:
				default:
					r.checkExpr(mf.Key, sc, f)
				}
				r.checkExpr(mf.Value, sc, f)
			case *syntax.SpreadField:
				r.checkExpr(mf.Expr, sc, f)
			}
		}
	default:
		for _, c := range n.Children() {
			if _, isID := c.(*syntax.Identifier); !isID {
				r.checkExpr(c, sc, f)
			}
		}
	}
}

func (r *resolver) bindQueryVar(name *syntax.Identifier, td syntax.TypeDesc, inferred *TypeSymbol,
	decl syntax.Node, sc *scope, f *file) {
	s := &Symbol{Kind: KindVariable, Name: name.Value(), Module: r.id, Location: decl.LineRange(), Node: decl}
	if td != nil {
		s.Type = r.resolveType(td, f)
	} else if inferred != nil {
		s.Type = inferred
	} else {
		s.Type = Builtin("any")
	}
	r.refs[name] = s
	sc.syms[s.Name] = s
}

func (r *resolver) qualified(prefix, name *syntax.Identifier, n syntax.Node, f *file) *Symbol {
	p := prefix.Value()
	mod, ok := f.prefixes[p]
	if !ok {
		if !f.unresolved[p] {
			r.diag(CodeUndefinedModule, n, "undefined module '%s'", p)
		}
		return nil
	}
	r.refs[prefix] = mod
	s := r.member(mod, name.Value())
	if s == nil {
		r.diag(CodeUndefinedSymbol, n, "undefined symbol '%s:%s'", p, name.Value())
		return nil
	}
	r.refs[name] = s
	return s
}

func (r *resolver) memberType(t *TypeSymbol) *TypeSymbol {
	if t == nil {
		return nil
	}
	raw := t.RawType()
	switch raw.Kind {
	case TypeArray, TypeMap, TypeStream, TypeTable:
		return raw.Member
	}
	return nil
}

func (r *resolver) resolveTypes(incs []*syntax.TypeInclusion, f *file) []*TypeSymbol {
	var out []*TypeSymbol
	for _, inc := range incs {
		out = append(out, r.resolveType(inc.Type, f))
	}
	return out
}

func (r *resolver) resolveType(td syntax.TypeDesc, f *file) *TypeSymbol {
	switch t := td.(type) {
	case nil:
		return nil
	case *syntax.BuiltinType:
		return Builtin(t.Name)
	case *syntax.NilType:
		return Builtin("()")
	case *syntax.TypeRef:
		return r.typeRef(t, f)
	case *syntax.ArrayType:
		return &TypeSymbol{Kind: TypeArray, Member: r.resolveType(t.Member, f), Size: t.Size}
	case *syntax.OptionalType:
		return &TypeSymbol{Kind: TypeUnion, Members: []*TypeSymbol{r.resolveType(t.Type, f), Builtin("()")}}
	case *syntax.UnionType:
		u := &TypeSymbol{Kind: TypeUnion}
		for _, m := range t.Members {
			u.Members = append(u.Members, r.resolveType(m, f))
		}
		return u
	case *syntax.RecordType:
		rec := &TypeSymbol{Kind: TypeRecord, Closed: t.Closed, Inclusions: r.resolveTypes(t.Inclusions, f)}
		for _, rf := range t.Fields {
			field := &Field{
				Name:     rf.Name.Value(),
				Type:     r.resolveType(rf.Type, f),
				Optional: rf.Optional,
				Readonly: rf.Readonly,
			}
			if rf.Default != nil {
				field.Default = rf.Default.SourceText()
			}
			if docs := ParseDocumentation(rf.Doc); docs != nil {
				field.Docs = docs.Description
			}
			rec.Fields = append(rec.Fields, field)
		}
		if t.Rest != nil {
			rec.Rest = r.resolveType(t.Rest.Type, f)
		}
		return rec
	case *syntax.ParameterizedType:
		return &TypeSymbol{Kind: parameterizedKinds[t.Name], Member: r.resolveType(t.Param, f)}
	case *syntax.SingletonType:
		return &TypeSymbol{Kind: TypeSingleton, Value: t.Value.SourceText()}
	case *syntax.ObjectType:
		obj := &TypeSymbol{Kind: TypeObject, Module: r.id, Inclusions: r.resolveTypes(t.Inclusions, f)}
		obj.Fields = r.objectFields(t.Fields, f, newScope(nil))
		for _, m := range t.Methods {
			obj.Methods = append(obj.Methods, r.function(KindMethod, m, f))
		}
		return obj
	}
	return &TypeSymbol{Kind: TypeCompilationError, Name: td.SourceText()}
}

var typeKinds = map[SymbolKind]bool{KindTypeDefinition: true, KindClass: true, KindEnum: true}

func (r *resolver) typeRef(t *syntax.TypeRef, f *file) *TypeSymbol {
	name := t.Name.Value()
	var s *Symbol
	if t.Prefix == nil {
		s = r.byName[name]
		if s == nil || !typeKinds[s.Kind] {
			r.diag(CodeUnknownType, t, "unknown type '%s'", name)
			return &TypeSymbol{Kind: TypeCompilationError, Name: name}
		}
		r.refs[t.Name] = s
	} else {
		p := t.Prefix.Value()
		mod, ok := f.prefixes[p]
		if !ok {
			if !f.unresolved[p] {
				r.diag(CodeUndefinedModule, t, "undefined module '%s'", p)
			}
			return &TypeSymbol{Kind: TypeCompilationError, Name: t.SourceText()}
		}
		r.refs[t.Prefix] = mod
		s = r.member(mod, name)
		if s == nil || !typeKinds[s.Kind] {
			r.diag(CodeUnknownType, t, "unknown type '%s:%s'", p, name)
			return &TypeSymbol{Kind: TypeCompilationError, Name: t.SourceText()}
		}
		r.refs[t.Name] = s
	}
	return &TypeSymbol{
		Kind:       TypeReference,
		Name:       s.Name,
		Prefix:     t.PrefixName(),
		Module:     s.Module,
		Definition: s.Type,
	}
}
