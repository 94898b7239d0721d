//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package syntax

var binaryPrec = map[string]int{
	"?:": 1,
	"||": 2,
	"&&": 3,
	"==": 4, "!=": 4, "===": 4, "!==": 4,
	"<": 5, ">": 5, "<=": 5, ">=": 5,
	"+": 6, "-": 6,
	"*": 7, "/": 7, "%": 7,
}

func (p *parser) parseExpr() (Expression, error) {
	start := p.peek().start
	cond, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	if !p.at("?") {
		return cond, nil
	}
	p.next()
	c := &ConditionalExpr{Cond: cond}
	c.init(KindConditionalExpr, p.doc, start)
	if c.Then, err = p.parseExpr(); err != nil {
		return nil, err
	}
	if _, err := p.expect(":"); err != nil {
		return nil, err
	}
	if c.Else, err = p.parseExpr(); err != nil {
		return nil, err
	}
	c.setEnd(p.prevEnd())
	return c, nil
}

func (p *parser) parseBinary(minPrec int) (Expression, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		prec, ok := binaryPrec[tok.text]
		if tok.kind != tokPunct || !ok || prec < minPrec {
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		b := &BinaryExpr{Op: tok.text, LHS: lhs, RHS: rhs}
		b.init(KindBinaryExpr, p.doc, lhs.TextRange().Start)
		b.setEnd(rhs.TextRange().End)
		lhs = b
	}
}

func (p *parser) parseUnary() (Expression, error) {
	tok := p.peek()
	switch {
	case tok.kind == tokPunct && (tok.text == "!" || tok.text == "-" || tok.text == "+" || tok.text == "~"),
		p.at("typeof"):
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		u := &UnaryExpr{Op: tok.text, Expr: inner}
		u.init(KindUnaryExpr, p.doc, tok.start)
		u.setEnd(p.prevEnd())
		return u, nil
	case p.at("check"), p.at("checkpanic"):
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		c := &CheckExpr{Panic: tok.text == "checkpanic", Expr: inner}
		c.init(KindCheckExpr, p.doc, tok.start)
		c.setEnd(p.prevEnd())
		return c, nil
	case p.at("trap"):
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		t := &TrapExpr{Expr: inner}
		t.init(KindTrapExpr, p.doc, tok.start)
		t.setEnd(p.prevEnd())
		return t, nil
	case p.at("start"):
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		s := &StartAction{Expr: inner}
		s.init(KindStartAction, p.doc, tok.start)
		s.setEnd(p.prevEnd())
		return s, nil
	case p.at("<"):
		p.next()
		cast := &TypeCastExpr{}
		cast.init(KindTypeCastExpr, p.doc, tok.start)
		var err error
		if cast.Type, err = p.parseTypeDesc(); err != nil {
			return nil, err
		}
		if _, err := p.expect(">"); err != nil {
			return nil, err
		}
		if cast.Expr, err = p.parseUnary(); err != nil {
			return nil, err
		}
		cast.setEnd(p.prevEnd())
		return cast, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expression, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	start := e.TextRange().Start
	for {
		switch {
		case p.at("."):
			p.next()
			name, err := p.expectAnyName()
			if err != nil {
				return nil, err
			}
			if p.at("(") {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				call := &MethodCall{Expr: e, Method: name, Args: args}
				call.init(KindMethodCall, p.doc, start)
				call.setEnd(p.prevEnd())
				e = call
				continue
			}
			fa := &FieldAccess{Expr: e, Field: name}
			fa.init(KindFieldAccess, p.doc, start)
			fa.setEnd(p.prevEnd())
			e = fa
		case p.at("?."):
			p.next()
			name, err := p.expectAnyName()
			if err != nil {
				return nil, err
			}
			fa := &OptionalFieldAccess{Expr: e, Field: name}
			fa.init(KindOptionalFieldAccess, p.doc, start)
			fa.setEnd(p.prevEnd())
			e = fa
		case p.at("["):
			p.next()
			idx := &IndexedExpr{Expr: e}
			idx.init(KindIndexedExpr, p.doc, start)
			for {
				key, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				idx.Keys = append(idx.Keys, key)
				if !p.accept(",") {
					break
				}
			}
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
			idx.setEnd(p.prevEnd())
			e = idx
		case p.at("->"):
			p.next()
			name, err := p.expectAnyName()
			if err != nil {
				return nil, err
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			call := &RemoteMethodCall{Expr: e, Method: name, Args: args}
			call.init(KindRemoteMethodCall, p.doc, start)
			call.setEnd(p.prevEnd())
			e = call
		case p.at("(") && isNameRef(e):
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			call := &FunctionCall{Func: e, Args: args}
			call.init(KindFunctionCall, p.doc, start)
			call.setEnd(p.prevEnd())
			e = call
		default:
			return e, nil
		}
	}
}

func isNameRef(e Expression) bool {
	switch e.(type) {
	case *SimpleNameRef, *QualifiedNameRef:
		return true
	}
	return false
}

func (p *parser) literal(kind SyntaxKind) *Literal {
	tok := p.next()
	lit := &Literal{}
	lit.init(kind, p.doc, tok.start)
	lit.setEnd(tok.end)
	return lit
}

func (p *parser) parsePrimary() (Expression, error) {
	tok := p.peek()
	switch {
	case tok.kind == tokInt:
		return p.literal(KindIntLiteral), nil
	case tok.kind == tokFloat:
		return p.literal(KindFloatLiteral), nil
	case tok.kind == tokString:
		return p.literal(KindStringLiteral), nil
	case p.at("true"), p.at("false"):
		return p.literal(KindBooleanLiteral), nil
	case p.at("null"):
		return p.literal(KindNilLiteral), nil
	case p.at("("):
		if p.peekAt(1).text == ")" {
			p.next()
			p.next()
			lit := &Literal{}
			lit.init(KindNilLiteral, p.doc, tok.start)
			lit.setEnd(p.prevEnd())
			return lit, nil
		}
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		b := &BracedExpr{Expr: inner}
		b.init(KindBracedExpr, p.doc, tok.start)
		b.setEnd(p.prevEnd())
		return b, nil
	case p.at("{"):
		return p.parseMappingConstructor()
	case p.at("["):
		return p.parseListConstructor()
	case p.at("new"):
		return p.parseNew()
	case p.at("from"):
		return p.parseQuery()
	case p.at("?"):
		p.next()
		req := &RequiredExpr{}
		req.init(KindRequiredExpr, p.doc, tok.start)
		req.setEnd(tok.end)
		return req, nil
	case tok.kind == tokIdent && (!reserved[tok.text] || tok.text == "error"):
		if p.peekAt(1).text == ":" && p.adjacent(0) && p.adjacent(1) && p.peekAt(2).kind == tokIdent {
			q := &QualifiedNameRef{}
			q.init(KindQualifiedNameRef, p.doc, tok.start)
			q.Prefix = p.identifier(p.next())
			p.next()
			q.Name = p.identifier(p.next())
			q.setEnd(p.prevEnd())
			return q, nil
		}
		ref := &SimpleNameRef{Name: p.identifier(p.next())}
		ref.init(KindSimpleNameRef, p.doc, tok.start)
		ref.setEnd(tok.end)
		return ref, nil
	}
	return nil, p.errf(tok, "expected expression, found %s", describe(tok))
}

func (p *parser) parseMappingConstructor() (*MappingConstructor, error) {
	tok, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	m := &MappingConstructor{}
	m.init(KindMappingConstructor, p.doc, tok.start)
	for !p.at("}") {
		ftok := p.peek()
		if p.accept("...") {
			s := &SpreadField{}
			s.init(KindSpreadField, p.doc, ftok.start)
			if s.Expr, err = p.parseExpr(); err != nil {
				return nil, err
			}
			s.setEnd(p.prevEnd())
			m.Fields = append(m.Fields, s)
		} else {
			f := &SpecificField{}
			f.init(KindSpecificField, p.doc, ftok.start)
			if p.at("readonly") && p.peekAt(1).kind == tokIdent {
				p.next()
				f.Readonly = true
			}
			switch k := p.peek(); {
			case k.kind == tokString:
				f.Key = p.literal(KindStringLiteral)
			case k.kind == tokIdent:
				f.Key = p.identifier(p.next())
			case p.at("["):
				p.next()
				if f.Key, err = p.parseExpr(); err != nil {
					return nil, err
				}
				if _, err := p.expect("]"); err != nil {
					return nil, err
				}
			default:
				return nil, p.errf(k, "expected field name, found %s", describe(k))
			}
			if p.accept(":") {
				if f.Value, err = p.parseExpr(); err != nil {
					return nil, err
				}
			}
			f.setEnd(p.prevEnd())
			m.Fields = append(m.Fields, f)
		}
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	m.setEnd(p.prevEnd())
	return m, nil
}

func (p *parser) parseListConstructor() (*ListConstructor, error) {
	tok := p.next()
	l := &ListConstructor{}
	l.init(KindListConstructor, p.doc, tok.start)
	for !p.at("]") {
		mtok := p.peek()
		if p.accept("...") {
			s := &SpreadMember{}
			s.init(KindSpreadMember, p.doc, mtok.start)
			var err error
			if s.Expr, err = p.parseExpr(); err != nil {
				return nil, err
			}
			s.setEnd(p.prevEnd())
			l.Members = append(l.Members, s)
		} else {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			l.Members = append(l.Members, e)
		}
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect("]"); err != nil {
		return nil, err
	}
	l.setEnd(p.prevEnd())
	return l, nil
}

func (p *parser) parseNew() (*NewExpr, error) {
	tok := p.next()
	n := &NewExpr{}
	n.init(KindNewExpr, p.doc, tok.start)
	var err error
	if !p.at("(") {
		if n.Type, err = p.parseTypeDesc(); err != nil {
			return nil, err
		}
	}
	if p.at("(") {
		if n.Args, err = p.parseArgs(); err != nil {
			return nil, err
		}
	}
	n.setEnd(p.prevEnd())
	return n, nil
}

func (p *parser) parseArgs() ([]Node, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	var args []Node
	for !p.at(")") {
		tok := p.peek()
		switch {
		case p.at("..."):
			p.next()
			r := &RestArg{}
			r.init(KindRestArg, p.doc, tok.start)
			var err error
			if r.Expr, err = p.parseExpr(); err != nil {
				return nil, err
			}
			r.setEnd(p.prevEnd())
			args = append(args, r)
		case tok.kind == tokIdent && p.peekAt(1).kind == tokPunct && p.peekAt(1).text == "=":
			named := &NamedArg{Name: p.identifier(p.next())}
			named.init(KindNamedArg, p.doc, tok.start)
			p.next()
			var err error
			if named.Value, err = p.parseExpr(); err != nil {
				return nil, err
			}
			named.setEnd(p.prevEnd())
			args = append(args, named)
		default:
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		}
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseQuery() (*QueryExpr, error) {
	q := &QueryExpr{}
	q.init(KindQueryExpr, p.doc, p.peek().start)
	for {
		tok := p.peek()
		var (
			clause Node
			err    error
		)
		switch {
		case p.at("from"):
			clause, err = p.parseFromClause()
		case p.at("where"):
			p.next()
			w := &WhereClause{}
			w.init(KindWhereClause, p.doc, tok.start)
			if w.Expr, err = p.parseExpr(); err == nil {
				w.setEnd(p.prevEnd())
				clause = w
			}
		case p.at("let"):
			p.next()
			l := &LetClause{}
			l.init(KindLetClause, p.doc, tok.start)
			if !p.accept("var") {
				if l.Type, err = p.parseTypeDesc(); err != nil {
					return nil, err
				}
			}
			if l.Var, err = p.expectName(); err != nil {
				return nil, err
			}
			if _, err = p.expect("="); err != nil {
				return nil, err
			}
			if l.Expr, err = p.parseExpr(); err == nil {
				l.setEnd(p.prevEnd())
				clause = l
			}
		case p.at("limit"):
			p.next()
			l := &LimitClause{}
			l.init(KindLimitClause, p.doc, tok.start)
			if l.Expr, err = p.parseExpr(); err == nil {
				l.setEnd(p.prevEnd())
				clause = l
			}
		case p.at("order"):
			p.next()
			if _, err = p.expect("by"); err != nil {
				return nil, err
			}
			o := &OrderByClause{}
			o.init(KindOrderByClause, p.doc, tok.start)
			for {
				key, kerr := p.parseExpr()
				if kerr != nil {
					return nil, kerr
				}
				o.Keys = append(o.Keys, key)
				if !p.accept("ascending") {
					p.accept("descending")
				}
				if !p.accept(",") {
					break
				}
			}
			o.setEnd(p.prevEnd())
			clause = o
		case p.at("select"):
			p.next()
			s := &SelectClause{}
			s.init(KindSelectClause, p.doc, tok.start)
			if s.Expr, err = p.parseExpr(); err != nil {
				return nil, err
			}
			s.setEnd(p.prevEnd())
			q.Select = s
			q.setEnd(p.prevEnd())
			return q, nil
		default:
			return nil, p.errf(tok, "expected query clause, found %s", describe(tok))
		}
		if err != nil {
			return nil, err
		}
		q.Clauses = append(q.Clauses, clause)
	}
}

func (p *parser) parseFromClause() (*FromClause, error) {
	tok := p.next()
	f := &FromClause{}
	f.init(KindFromClause, p.doc, tok.start)
	var err error
	if !p.accept("var") {
		if f.Type, err = p.parseTypeDesc(); err != nil {
			return nil, err
		}
	}
	if f.Var, err = p.expectName(); err != nil {
		return nil, err
	}
	if _, err := p.expect("in"); err != nil {
		return nil, err
	}
	if f.Expr, err = p.parseExpr(); err != nil {
		return nil, err
	}
	f.setEnd(p.prevEnd())
	return f, nil
}
