//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package syntax parses the source language into a syntax tree with exact
// source ranges, and provides text documents and text edits over it.
package syntax

import (
	"errors"
	"fmt"
)

// Parse parses a whole document.
func Parse(name, text string) (*ModulePart, error) {
	p, err := newParser(name, text)
	if err != nil {
		return nil, err
	}
	return p.parseModulePart()
}

// ParseExpression parses a standalone expression.
func ParseExpression(text string) (Expression, error) {
	p, err := newParser("", text)
	if err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return e, nil
}

// ParseTypeDescriptor parses a standalone type descriptor.
func ParseTypeDescriptor(text string) (TypeDesc, error) {
	p, err := newParser("", text)
	if err != nil {
		return nil, err
	}
	t, err := p.parseTypeDesc()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseStatement parses a standalone statement.
func ParseStatement(text string) (Statement, error) {
	p, err := newParser("", text)
	if err != nil {
		return nil, err
	}
	s, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return s, nil
}

// Words that never name a type or a variable.
var reserved = map[string]bool{
	"import": true, "as": true, "public": true, "private": true, "isolated": true,
	"client": true, "class": true, "remote": true, "resource": true, "function": true,
	"returns": true, "return": true, "type": true, "record": true, "object": true,
	"const": true, "enum": true, "var": true, "final": true, "configurable": true,
	"if": true, "else": true, "while": true, "foreach": true, "in": true, "do": true,
	"check": true, "checkpanic": true, "trap": true, "start": true, "new": true,
	"from": true, "where": true, "let": true, "select": true, "limit": true, "order": true,
	"by": true, "true": true, "false": true, "null": true, "is": true, "typeof": true,
	"match": true, "lock": true, "fail": true, "panic": true, "break": true, "continue": true,
	"transaction": true, "retry": true, "fork": true, "worker": true, "external": true,
	"service": true, "listener": true, "on": true, "annotation": true,
}

var declQualifiers = map[string]bool{
	"public": true, "private": true, "isolated": true, "client": true, "configurable": true,
	"final": true, "remote": true, "resource": true, "transactional": true, "distinct": true,
}

var opaqueStatements = map[string]bool{
	"if": true, "while": true, "foreach": true, "do": true, "lock": true, "match": true,
	"fail": true, "panic": true, "transaction": true, "retry": true, "fork": true,
	"worker": true, "continue": true, "break": true, "rollback": true,
}

type parser struct {
	doc   *TextDocument
	toks  []token
	index int
}

func newParser(name, text string) (*parser, error) {
	doc := NewTextDocument(name, text)
	toks, err := lex(text)
	if err != nil {
		var le *lexError
		pos := 0
		if errors.As(err, &le) {
			pos = le.pos
		}
		return nil, &ParseError{File: name, Pos: doc.PositionOf(pos), Msg: err.Error()}
	}
	return &parser{doc: doc, toks: toks}, nil
}

func (p *parser) peek() token { return p.peekAt(0) }

func (p *parser) peekAt(n int) token {
	if p.index+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.index+n]
}

func (p *parser) next() token {
	tok := p.peek()
	if p.index < len(p.toks)-1 {
		p.index++
	}
	return tok
}

// at reports whether the current token is the word or punctuation s.
func (p *parser) at(s string) bool {
	tok := p.peek()
	return (tok.kind == tokIdent || tok.kind == tokPunct) && tok.text == s
}

func (p *parser) accept(s string) bool {
	if p.at(s) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(s string) (token, error) {
	if !p.at(s) {
		return token{}, p.errf(p.peek(), "expected %q, found %s", s, describe(p.peek()))
	}
	return p.next(), nil
}

func (p *parser) expectEOF() error {
	if p.peek().kind != tokEOF {
		return p.errf(p.peek(), "unexpected %s", describe(p.peek()))
	}
	return nil
}

func (p *parser) prevEnd() int {
	if p.index == 0 {
		return 0
	}
	return p.toks[p.index-1].end
}

func (p *parser) errf(tok token, format string, args ...any) error {
	return &ParseError{File: p.doc.Name(), Pos: p.doc.PositionOf(tok.start), Msg: fmt.Sprintf(format, args...)}
}

func describe(tok token) string {
	if tok.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.text)
}

func (p *parser) identifier(tok token) *Identifier {
	id := &Identifier{Name: tok.text}
	id.init(KindIdentifier, p.doc, tok.start)
	id.setEnd(tok.end)
	return id
}

// expectName consumes a non reserved identifier.
func (p *parser) expectName() (*Identifier, error) {
	tok := p.peek()
	if tok.kind != tokIdent || reserved[tok.text] {
		return nil, p.errf(tok, "expected identifier, found %s", describe(tok))
	}
	return p.identifier(p.next()), nil
}

// expectAnyName consumes an identifier, reserved or not.
func (p *parser) expectAnyName() (*Identifier, error) {
	tok := p.peek()
	if tok.kind != tokIdent {
		return nil, p.errf(tok, "expected identifier, found %s", describe(tok))
	}
	return p.identifier(p.next()), nil
}

// adjacent reports whether the tokens at i and i+1 touch.
func (p *parser) adjacent(i int) bool {
	return p.peekAt(i).end == p.peekAt(i+1).start
}

func (p *parser) skipAnnotations() error {
	for p.at("@") {
		p.next()
		if _, err := p.expectAnyName(); err != nil {
			return err
		}
		if p.at(":") && p.adjacent(0) {
			p.next()
			if _, err := p.expectAnyName(); err != nil {
				return err
			}
		}
		if p.at("{") {
			if _, err := p.parseMappingConstructor(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) parseModulePart() (*ModulePart, error) {
	m := &ModulePart{}
	m.init(KindModulePart, p.doc, 0)
	for p.at("import") {
		imp, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		m.Imports = append(m.Imports, imp)
	}
	for p.peek().kind != tokEOF {
		member, err := p.parseModuleMember()
		if err != nil {
			return nil, err
		}
		m.Members = append(m.Members, member)
	}
	m.setEnd(len(p.doc.Text()))
	return m, nil
}

func (p *parser) parseImport() (*ImportDecl, error) {
	start := p.next()
	imp := &ImportDecl{}
	imp.init(KindImportDecl, p.doc, start.start)
	first, err := p.expectAnyName()
	if err != nil {
		return nil, err
	}
	if p.accept("/") {
		imp.Org = first
		if first, err = p.expectAnyName(); err != nil {
			return nil, err
		}
	}
	imp.Names = append(imp.Names, first)
	for p.accept(".") {
		name, err := p.expectAnyName()
		if err != nil {
			return nil, err
		}
		imp.Names = append(imp.Names, name)
	}
	if p.accept("as") {
		if imp.Prefix, err = p.expectName(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	imp.setEnd(p.prevEnd())
	return imp, nil
}

func (p *parser) parseQualifiers() []string {
	var qs []string
	for p.peek().kind == tokIdent && declQualifiers[p.peek().text] {
		qs = append(qs, p.next().text)
	}
	return qs
}

func (p *parser) parseModuleMember() (ModuleMember, error) {
	doc := p.peek().doc
	if err := p.skipAnnotations(); err != nil {
		return nil, err
	}
	if doc == "" {
		doc = p.peek().doc
	}
	start := p.peek().start
	quals := p.parseQualifiers()
	switch {
	case p.at("type"):
		return p.parseTypeDefinition(start, doc, quals)
	case p.at("enum"):
		return p.parseEnum(start, doc, quals)
	case p.at("const"):
		return p.parseConst(start, doc, quals)
	case p.at("class"):
		return p.parseClass(start, doc, quals)
	case p.at("function"):
		return p.parseFunction(start, doc, quals)
	case p.at("listener"), p.at("service"), p.at("annotation"), p.at("xmlns"):
		kw := p.peek().text
		if err := p.skipOpaque(); err != nil {
			return nil, err
		}
		d := &OpaqueDecl{Keyword: kw}
		d.init(KindOpaqueDecl, p.doc, start)
		d.setEnd(p.prevEnd())
		return d, nil
	}
	return p.parseModuleVar(start, doc, quals)
}

func (p *parser) parseTypeDefinition(start int, doc string, quals []string) (*TypeDefinition, error) {
	p.next()
	td := &TypeDefinition{Doc: doc, Qualifiers: quals}
	td.init(KindTypeDefinition, p.doc, start)
	var err error
	if td.Name, err = p.expectName(); err != nil {
		return nil, err
	}
	if td.Type, err = p.parseTypeDesc(); err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	td.setEnd(p.prevEnd())
	return td, nil
}

func (p *parser) parseEnum(start int, doc string, quals []string) (*EnumDecl, error) {
	p.next()
	en := &EnumDecl{Doc: doc, Qualifiers: quals}
	en.init(KindEnumDecl, p.doc, start)
	var err error
	if en.Name, err = p.expectName(); err != nil {
		return nil, err
	}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.at("}") {
		tok := p.peek()
		m := &EnumMember{Doc: tok.doc}
		m.init(KindEnumMember, p.doc, tok.start)
		if m.Name, err = p.expectName(); err != nil {
			return nil, err
		}
		if p.accept("=") {
			if m.Value, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		m.setEnd(p.prevEnd())
		en.Members = append(en.Members, m)
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	p.accept(";")
	en.setEnd(p.prevEnd())
	return en, nil
}

func (p *parser) parseConst(start int, doc string, quals []string) (*ConstDecl, error) {
	p.next()
	c := &ConstDecl{Doc: doc, Qualifiers: quals}
	c.init(KindConstDecl, p.doc, start)
	var err error
	if !(p.peek().kind == tokIdent && p.peekAt(1).text == "=") {
		if c.Type, err = p.parseTypeDesc(); err != nil {
			return nil, err
		}
	}
	if c.Name, err = p.expectName(); err != nil {
		return nil, err
	}
	if _, err := p.expect("="); err != nil {
		return nil, err
	}
	if c.Value, err = p.parseExpr(); err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	c.setEnd(p.prevEnd())
	return c, nil
}

func (p *parser) parseModuleVar(start int, doc string, quals []string) (*ModuleVarDecl, error) {
	v := &ModuleVarDecl{Doc: doc, Qualifiers: quals}
	v.init(KindModuleVarDecl, p.doc, start)
	var err error
	if p.accept("var") {
		v.Type = nil
	} else if v.Type, err = p.parseTypeDesc(); err != nil {
		return nil, err
	}
	if v.Name, err = p.expectName(); err != nil {
		return nil, err
	}
	if p.accept("=") {
		if p.at("?") {
			tok := p.next()
			req := &RequiredExpr{}
			req.init(KindRequiredExpr, p.doc, tok.start)
			req.setEnd(tok.end)
			v.Init = req
		} else if v.Init, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	v.setEnd(p.prevEnd())
	return v, nil
}

func (p *parser) parseClass(start int, doc string, quals []string) (*ClassDef, error) {
	p.next()
	c := &ClassDef{Doc: doc, Qualifiers: quals}
	c.init(KindClassDef, p.doc, start)
	var err error
	if c.Name, err = p.expectName(); err != nil {
		return nil, err
	}
	if c.Inclusions, c.Fields, c.Methods, err = p.parseObjectBody(); err != nil {
		return nil, err
	}
	p.accept(";")
	c.setEnd(p.prevEnd())
	return c, nil
}

// parseObjectBody parses `{ members }` of a class or object type.
func (p *parser) parseObjectBody() (incs []*TypeInclusion, fields []*ObjectField, methods []*FunctionDef, err error) {
	if _, err = p.expect("{"); err != nil {
		return
	}
	for !p.at("}") {
		if p.peek().kind == tokEOF {
			err = p.errf(p.peek(), "unterminated object body")
			return
		}
		mdoc := p.peek().doc
		if err = p.skipAnnotations(); err != nil {
			return
		}
		mstart := p.peek().start
		if p.at("*") {
			var inc *TypeInclusion
			if inc, err = p.parseInclusion(); err != nil {
				return
			}
			incs = append(incs, inc)
			continue
		}
		mquals := p.parseQualifiers()
		if p.at("function") {
			var fn *FunctionDef
			if fn, err = p.parseFunction(mstart, mdoc, mquals); err != nil {
				return
			}
			methods = append(methods, fn)
			continue
		}
		f := &ObjectField{Doc: mdoc, Qualifiers: mquals}
		f.init(KindObjectField, p.doc, mstart)
		if f.Type, err = p.parseTypeDesc(); err != nil {
			return
		}
		if f.Name, err = p.expectName(); err != nil {
			return
		}
		if p.accept("=") {
			if f.Init, err = p.parseExpr(); err != nil {
				return
			}
		}
		if _, err = p.expect(";"); err != nil {
			return
		}
		f.setEnd(p.prevEnd())
		fields = append(fields, f)
	}
	p.next()
	return
}

func (p *parser) parseInclusion() (*TypeInclusion, error) {
	tok := p.next()
	inc := &TypeInclusion{}
	inc.init(KindTypeInclusion, p.doc, tok.start)
	var err error
	if inc.Type, err = p.parseTypeDesc(); err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	inc.setEnd(p.prevEnd())
	return inc, nil
}

func (p *parser) parseFunction(start int, doc string, quals []string) (*FunctionDef, error) {
	kw := p.next()
	fn := &FunctionDef{Doc: doc, Qualifiers: quals}
	fn.init(KindFunctionDef, p.doc, start)
	var err error
	if fn.Name, err = p.expectAnyName(); err != nil {
		return nil, err
	}
	if fn.Params, err = p.parseParams(); err != nil {
		return nil, err
	}
	if p.accept("returns") {
		if err := p.skipAnnotations(); err != nil {
			return nil, err
		}
		if fn.ReturnType, err = p.parseTypeDesc(); err != nil {
			return nil, err
		}
	}
	fn.Signature = TextRange{Start: kw.start, End: p.prevEnd()}
	switch {
	case p.at("{"):
		if fn.Body, err = p.parseBlock(); err != nil {
			return nil, err
		}
	case p.at("=>"):
		tok := p.next()
		body := &ExpressionBody{}
		body.init(KindExpressionBody, p.doc, tok.start)
		if body.Expr, err = p.parseExpr(); err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		body.setEnd(p.prevEnd())
		fn.Body = body
	case p.at("="):
		tok := p.next()
		if _, err := p.expect("external"); err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		body := &ExternalBody{}
		body.init(KindExternalBody, p.doc, tok.start)
		body.setEnd(p.prevEnd())
		fn.Body = body
	case p.at(";"):
		p.next()
	default:
		return nil, p.errf(p.peek(), "expected function body, found %s", describe(p.peek()))
	}
	fn.setEnd(p.prevEnd())
	return fn, nil
}

func (p *parser) parseParams() ([]*Parameter, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	var params []*Parameter
	for !p.at(")") {
		if err := p.skipAnnotations(); err != nil {
			return nil, err
		}
		param := &Parameter{}
		param.init(KindRequiredParam, p.doc, p.peek().start)
		var err error
		if param.Type, err = p.parseTypeDesc(); err != nil {
			return nil, err
		}
		if p.accept("...") {
			param.kind = KindRestParam
		}
		if param.Name, err = p.expectName(); err != nil {
			return nil, err
		}
		if param.kind != KindRestParam && p.accept("=") {
			param.kind = KindDefaultableParam
			if param.Default, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		param.setEnd(p.prevEnd())
		params = append(params, param)
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *parser) parseBlock() (*BlockBody, error) {
	tok, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	block := &BlockBody{}
	block.init(KindBlockBody, p.doc, tok.start)
	for !p.at("}") {
		if p.peek().kind == tokEOF {
			return nil, p.errf(p.peek(), "unterminated block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	p.next()
	block.setEnd(p.prevEnd())
	return block, nil
}

func (p *parser) parseStatement() (Statement, error) {
	if err := p.skipAnnotations(); err != nil {
		return nil, err
	}
	tok := p.peek()
	switch {
	case p.at("return"):
		p.next()
		r := &ReturnStmt{}
		r.init(KindReturnStmt, p.doc, tok.start)
		if !p.at(";") {
			var err error
			if r.Expr, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		r.setEnd(p.prevEnd())
		return r, nil
	case tok.kind == tokIdent && opaqueStatements[tok.text], p.at("{"):
		if err := p.skipOpaque(); err != nil {
			return nil, err
		}
		s := &OpaqueStmt{Keyword: tok.text}
		s.init(KindOpaqueStmt, p.doc, tok.start)
		s.setEnd(p.prevEnd())
		return s, nil
	case p.at("final"), p.at("var"):
		return p.parseLocalVarDecl()
	}
	save := p.index
	if _, err := p.parseTypeDesc(); err == nil && p.peek().kind == tokIdent && !reserved[p.peek().text] &&
		(p.peekAt(1).text == "=" || p.peekAt(1).text == ";") {
		p.index = save
		return p.parseLocalVarDecl()
	}
	p.index = save
	return p.parseExpressionStatement()
}

func (p *parser) parseLocalVarDecl() (*LocalVarDecl, error) {
	v := &LocalVarDecl{}
	v.init(KindLocalVarDecl, p.doc, p.peek().start)
	v.Final = p.accept("final")
	var err error
	if !p.accept("var") {
		if v.Type, err = p.parseTypeDesc(); err != nil {
			return nil, err
		}
	}
	if v.Name, err = p.expectName(); err != nil {
		return nil, err
	}
	if p.accept("=") {
		if v.Init, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	v.setEnd(p.prevEnd())
	return v, nil
}

func (p *parser) parseExpressionStatement() (Statement, error) {
	start := p.peek().start
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.at("=") || p.at("+=") || p.at("-=") {
		op := p.next().text
		a := &Assignment{Target: e, Op: op}
		a.init(KindAssignment, p.doc, start)
		if a.Value, err = p.parseExpr(); err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		a.setEnd(p.prevEnd())
		return a, nil
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	s := &ExpressionStmt{Expr: e}
	s.init(KindExpressionStmt, p.doc, start)
	s.setEnd(p.prevEnd())
	return s, nil
}

// skipOpaque consumes a brace balanced construct up to its terminating
// semicolon or closing brace, following else and on fail continuations.
func (p *parser) skipOpaque() error {
	depth := 0
	for {
		tok := p.peek()
		if tok.kind == tokEOF {
			return p.errf(tok, "unexpected end of input")
		}
		p.next()
		if tok.kind != tokPunct {
			continue
		}
		switch tok.text {
		case "{", "{|", "(", "[":
			depth++
		case "}", "|}", ")", "]":
			depth--
			if depth < 0 {
				return p.errf(tok, "unbalanced %q", tok.text)
			}
			if depth == 0 && tok.text == "}" && !p.at("else") && !p.at("on") && !p.at(";") {
				return nil
			}
		case ";":
			if depth == 0 {
				return nil
			}
		}
	}
}
