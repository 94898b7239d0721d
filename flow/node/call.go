//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package node

import (
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/flow/source"
	"trpc.group/trpc-go/trpc-flowmodel-go/semantic"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
)

// call is the common shape of "T v = [check] callee(args);".
type call struct {
	decl   *syntax.LocalVarDecl
	check  bool
	expr   syntax.Expression
	args   []syntax.Node
	callee *semantic.Symbol
	client syntax.Expression
}

// unwrapCall splits a declaration into its optional check and the call.
func unwrapCall(n syntax.Node) (*syntax.LocalVarDecl, syntax.Expression, bool) {
	d, ok := n.(*syntax.LocalVarDecl)
	if !ok || d.Init == nil {
		return nil, nil, false
	}
	expr := d.Init
	check := false
	if c, ok := expr.(*syntax.CheckExpr); ok && !c.Panic {
		expr, check = c.Expr, true
	}
	return d, expr, check
}

// FunctionCall handles calls of module and imported functions.
type FunctionCall struct{}

// Kind implements Builder.
func (FunctionCall) Kind() flow.NodeKind { return flow.KindFunctionCall }

// Template implements Builder.
func (FunctionCall) Template(ctx TemplateContext) *flow.Node {
	props := flow.NewPropertiesBuilder().Variable("", true).DataType("").CheckError(false).Build()
	return newNode(flow.KindFunctionCall, "Call a function", ctx.codedata(), props)
}

// FromSource implements Builder. Calls of functions the model cannot
// resolve are not handled.
func (FunctionCall) FromSource(ctx *SourceContext) (*flow.Node, error) {
	d, expr, check := unwrapCall(ctx.Node)
	fc, ok := expr.(*syntax.FunctionCall)
	if !ok || ctx.Model == nil {
		return nil, nil
	}
	var ident *syntax.Identifier
	switch f := fc.Func.(type) {
	case *syntax.SimpleNameRef:
		ident = f.Name
	case *syntax.QualifiedNameRef:
		ident = f.Name
	}
	if ident == nil {
		return nil, nil
	}
	fn, ok := ctx.Model.Symbol(ident)
	if !ok || fn.Kind != semantic.KindFunction {
		return nil, nil
	}
	c := &call{decl: d, check: check, expr: fc, args: fc.Args, callee: fn}
	cd := flow.NewCodedataBuilder().Org(fn.Module.Org).Module(fn.Module.Name).Symbol(fn.Name)
	return c.node(flow.KindFunctionCall, "Call "+fn.Name, cd), nil
}

// ToSource implements Builder.
func (FunctionCall) ToSource(sb *source.Builder) (map[string][]syntax.TextEdit, error) {
	cd := sb.Node.Codedata
	if cd == nil || cd.Symbol == "" {
		return nil, fmt.Errorf("%w: codedata symbol", ErrMissingProperty)
	}
	name := cd.Symbol
	if prefix := modulePrefix(sb, cd); prefix != "" {
		name = prefix + ":" + name
	}
	binding(sb)
	tb := sb.Token()
	if check, ok := sb.Property(flow.KeyCheckError); ok {
		tb.Expression(check)
	}
	tb.Name(name)
	arguments(tb, sb.Node)
	tb.EndOfStatement()
	return sb.TextEdit(false, "", true).Build(), nil
}

// RemoteActionCall handles "client->method(args)" calls.
type RemoteActionCall struct{}

// Kind implements Builder.
func (RemoteActionCall) Kind() flow.NodeKind { return flow.KindRemoteActionCall }

// Template implements Builder.
func (RemoteActionCall) Template(ctx TemplateContext) *flow.Node {
	props := flow.NewPropertiesBuilder().Connection("").Variable("", true).DataType("").CheckError(true).Build()
	return newNode(flow.KindRemoteActionCall, "Call a remote method", ctx.codedata(), props)
}

// FromSource implements Builder. The client's class must resolve.
func (RemoteActionCall) FromSource(ctx *SourceContext) (*flow.Node, error) {
	d, expr, check := unwrapCall(ctx.Node)
	rc, ok := expr.(*syntax.RemoteMethodCall)
	if !ok || ctx.Model == nil {
		return nil, nil
	}
	client := clientSymbol(ctx.Model, rc.Expr)
	if client == nil || client.Type == nil {
		return nil, nil
	}
	class := client.Type.RawType()
	method, ok := client.Type.Method(rc.Method.Value())
	if !ok {
		return nil, nil
	}
	c := &call{decl: d, check: check, expr: rc, args: rc.Args, callee: method, client: rc.Expr}
	cd := flow.NewCodedataBuilder().Org(class.Module.Org).Module(class.Module.Name).
		Object(class.Name).Symbol(method.Name)
	return c.node(flow.KindRemoteActionCall, "Call "+class.Name+"->"+method.Name, cd), nil
}

// ToSource implements Builder.
func (RemoteActionCall) ToSource(sb *source.Builder) (map[string][]syntax.TextEdit, error) {
	cd := sb.Node.Codedata
	if cd == nil || cd.Symbol == "" {
		return nil, fmt.Errorf("%w: codedata symbol", ErrMissingProperty)
	}
	conn, err := required(sb, flow.KeyConnection)
	if err != nil {
		return nil, err
	}
	binding(sb)
	tb := sb.Token()
	if check, ok := sb.Property(flow.KeyCheckError); ok {
		tb.Expression(check)
	}
	tb.ExpressionText(conn).RightArrow().Name(cd.Symbol)
	arguments(tb, sb.Node)
	tb.EndOfStatement()
	return sb.TextEdit(false, "", true).Build(), nil
}

// clientSymbol resolves the variable a remote call is made on.
func clientSymbol(m semantic.Model, e syntax.Expression) *semantic.Symbol {
	switch r := e.(type) {
	case *syntax.SimpleNameRef:
		s, _ := m.Symbol(r.Name)
		return s
	case *syntax.QualifiedNameRef:
		s, _ := m.Symbol(r.Name)
		return s
	}
	return nil
}

// node builds the properties: one per declared parameter in order, then
// the connection, the binding and the check flag.
func (c *call) node(kind flow.NodeKind, description string, cd *flow.CodedataBuilder) *flow.Node {
	pb := flow.NewPropertiesBuilder()
	values := c.argumentValues()
	for _, p := range c.callee.Params {
		doc := ""
		if c.callee.Docs != nil {
			doc = c.callee.Docs.Params[p.Name]
		}
		pbx := pb.Custom(p.Name).Metadata(p.Name, doc).Type(flow.ValueTypeExpression).
			Value(values[p.Name]).Constraint(p.Type.Signature()).Editable().
			Codedata(string(p.ParamKind), p.Name)
		if p.ParamKind != semantic.ParamRequired {
			pbx.Optional()
		}
		pbx.Stepout()
	}
	if c.client != nil {
		pb.Connection(text(c.client))
	}
	pb.Variable(c.decl.Name.Value(), true).DataType(declaredType(c.decl)).CheckError(c.check)
	cd.LineRange(c.decl.LineRange()).SourceCode(text(c.expr))
	return newNode(kind, description, cd, pb.Build())
}

// argumentValues maps parameter names to argument source text. Rest
// arguments are joined into the rest parameter.
func (c *call) argumentValues() map[string]string {
	values := map[string]string{}
	var rest []string
	var restName string
	var positional []*semantic.Symbol
	for _, p := range c.callee.Params {
		if p.ParamKind == semantic.ParamRest {
			restName = p.Name
			continue
		}
		positional = append(positional, p)
	}
	i := 0
	for _, arg := range c.args {
		switch a := arg.(type) {
		case *syntax.NamedArg:
			values[a.Name.Value()] = text(a.Value)
		case *syntax.RestArg:
			rest = append(rest, text(a))
		default:
			if i < len(positional) {
				values[positional[i].Name] = text(arg)
				i++
			} else {
				rest = append(rest, text(arg))
			}
		}
	}
	if restName != "" && len(rest) > 0 {
		values[restName] = strings.Join(rest, ", ")
	}
	return values
}

// arguments emits "(args)" from the argument properties in order. Once an
// optional argument is skipped the rest are passed by name.
func arguments(tb *source.TokenBuilder, n *flow.Node) {
	tb.OpenParen()
	named := false
	first := true
	n.Properties.Range(func(key string, p *flow.Property) bool {
		if flow.Reserved(key) || p.Codedata == nil {
			return true
		}
		value := p.ToSourceCode()
		rest := p.Codedata.Kind == string(semantic.ParamRest)
		if value == "" || (rest && named) {
			named = true
			return true
		}
		if !first {
			tb.Comma()
		}
		first = false
		if named && !rest {
			tb.Name(key).Equal()
		}
		tb.ExpressionText(value)
		return true
	})
	tb.CloseParen()
}

// modulePrefix returns the import prefix of a function declared in another
// module, or "" for the project's own module. The prefix is the alias the
// document imports the module under, else the last module name segment.
// Without a project every function is taken as local.
func modulePrefix(sb *source.Builder, cd *flow.Codedata) string {
	if cd.Module == "" || sb.Project == nil {
		return ""
	}
	if sb.Project.Module().Name == cd.Module {
		return ""
	}
	if doc, ok := sb.Project.Document(sb.FilePath); ok {
		for _, imp := range doc.Tree.Imports {
			if imp.ModuleName() != cd.Module {
				continue
			}
			if org := imp.OrgName(); org != "" && cd.Org != "" && org != cd.Org {
				continue
			}
			return imp.PrefixName()
		}
	}
	return semantic.ModuleID{Org: cd.Org, Name: cd.Module}.Prefix()
}
