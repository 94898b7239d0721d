//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package syntax

// BuiltinTypeNames lists the predeclared simple type names.
var BuiltinTypeNames = map[string]bool{
	"int": true, "float": true, "decimal": true, "string": true, "boolean": true,
	"byte": true, "json": true, "xml": true, "anydata": true, "any": true,
	"never": true, "readonly": true, "handle": true, "error": true,
}

var parameterizedTypes = map[string]bool{
	"map": true, "future": true, "stream": true, "typedesc": true, "table": true, "error": true,
}

func (p *parser) parseTypeDesc() (TypeDesc, error) {
	start := p.peek().start
	first, err := p.parsePostfixType()
	if err != nil {
		return nil, err
	}
	if !p.at("|") {
		return first, nil
	}
	u := &UnionType{Members: []TypeDesc{first}}
	u.init(KindUnionType, p.doc, start)
	for p.accept("|") {
		m, err := p.parsePostfixType()
		if err != nil {
			return nil, err
		}
		u.Members = append(u.Members, m)
	}
	u.setEnd(p.prevEnd())
	return u, nil
}

func (p *parser) parsePostfixType() (TypeDesc, error) {
	start := p.peek().start
	t, err := p.parsePrimaryType()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at("["):
			p.next()
			arr := &ArrayType{Member: t}
			arr.init(KindArrayType, p.doc, start)
			if !p.at("]") {
				size := p.next()
				if size.kind != tokInt && size.text != "*" {
					return nil, p.errf(size, "invalid array length %s", describe(size))
				}
				arr.Size = size.text
			}
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
			arr.setEnd(p.prevEnd())
			t = arr
		case p.at("?"):
			p.next()
			opt := &OptionalType{Type: t}
			opt.init(KindOptionalType, p.doc, start)
			opt.setEnd(p.prevEnd())
			t = opt
		default:
			return t, nil
		}
	}
}

func (p *parser) parsePrimaryType() (TypeDesc, error) {
	tok := p.peek()
	switch {
	case p.at("("):
		p.next()
		if p.at(")") {
			p.next()
			n := &NilType{}
			n.init(KindNilType, p.doc, tok.start)
			n.setEnd(p.prevEnd())
			return n, nil
		}
		inner, err := p.parseTypeDesc()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return inner, nil
	case p.at("record"):
		return p.parseRecordType()
	case p.atObjectType():
		return p.parseObjectType()
	case tok.kind == tokString || tok.kind == tokInt || p.at("true") || p.at("false"):
		lit, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		s := &SingletonType{Value: lit}
		s.init(KindSingletonType, p.doc, tok.start)
		s.setEnd(p.prevEnd())
		return s, nil
	case tok.kind == tokIdent && parameterizedTypes[tok.text] && p.peekAt(1).text == "<":
		p.next()
		p.next()
		pt := &ParameterizedType{Name: tok.text}
		pt.init(KindParameterizedType, p.doc, tok.start)
		var err error
		if pt.Param, err = p.parseTypeDesc(); err != nil {
			return nil, err
		}
		if _, err := p.expect(">"); err != nil {
			return nil, err
		}
		pt.setEnd(p.prevEnd())
		return pt, nil
	case tok.kind == tokIdent && BuiltinTypeNames[tok.text]:
		p.next()
		b := &BuiltinType{Name: tok.text}
		b.init(KindBuiltinType, p.doc, tok.start)
		b.setEnd(tok.end)
		return b, nil
	case tok.kind == tokIdent && !reserved[tok.text]:
		ref := &TypeRef{}
		ref.init(KindTypeRef, p.doc, tok.start)
		if p.peekAt(1).text == ":" && p.adjacent(0) && p.adjacent(1) && p.peekAt(2).kind == tokIdent {
			ref.Prefix = p.identifier(p.next())
			p.next()
		}
		ref.Name = p.identifier(p.next())
		ref.setEnd(p.prevEnd())
		return ref, nil
	}
	return nil, p.errf(tok, "expected type descriptor, found %s", describe(tok))
}

func (p *parser) parseRecordType() (*RecordType, error) {
	tok := p.next()
	rec := &RecordType{}
	rec.init(KindRecordType, p.doc, tok.start)
	closer := "}"
	if p.accept("{|") {
		rec.Closed = true
		closer = "|}"
	} else if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.at(closer) {
		ftok := p.peek()
		if ftok.kind == tokEOF {
			return nil, p.errf(ftok, "unterminated record type")
		}
		if err := p.skipAnnotations(); err != nil {
			return nil, err
		}
		if p.at("*") {
			inc, err := p.parseInclusion()
			if err != nil {
				return nil, err
			}
			rec.Inclusions = append(rec.Inclusions, inc)
			continue
		}
		field := &RecordField{Doc: ftok.doc}
		field.init(KindRecordField, p.doc, p.peek().start)
		if p.at("readonly") && p.peekAt(1).kind == tokIdent && p.peekAt(2).kind == tokIdent {
			p.next()
			field.Readonly = true
		}
		t, err := p.parseTypeDesc()
		if err != nil {
			return nil, err
		}
		if p.accept("...") {
			if _, err := p.expect(";"); err != nil {
				return nil, err
			}
			rest := &RecordRest{Type: t}
			rest.init(KindRecordRest, p.doc, field.span.Start)
			rest.setEnd(p.prevEnd())
			rec.Rest = rest
			continue
		}
		field.Type = t
		if field.Name, err = p.expectAnyName(); err != nil {
			return nil, err
		}
		field.Optional = p.accept("?")
		if p.accept("=") {
			if field.Default, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		field.setEnd(p.prevEnd())
		rec.Fields = append(rec.Fields, field)
	}
	p.next()
	rec.setEnd(p.prevEnd())
	return rec, nil
}

func (p *parser) atObjectType() bool {
	i := 0
	for p.peekAt(i).kind == tokIdent && declQualifiers[p.peekAt(i).text] {
		i++
	}
	tok := p.peekAt(i)
	return tok.kind == tokIdent && tok.text == "object"
}

func (p *parser) parseObjectType() (*ObjectType, error) {
	obj := &ObjectType{}
	obj.init(KindObjectType, p.doc, p.peek().start)
	obj.Qualifiers = p.parseQualifiers()
	p.next()
	var err error
	if obj.Inclusions, obj.Fields, obj.Methods, err = p.parseObjectBody(); err != nil {
		return nil, err
	}
	obj.setEnd(p.prevEnd())
	return obj, nil
}
