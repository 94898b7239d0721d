//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package syntax

import (
	"fmt"
	"strings"
)

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokInt
	tokFloat
	tokString
	tokPunct
)

// token is one lexeme. doc carries the `#` documentation lines that
// immediately precede it.
type token struct {
	kind  tokKind
	text  string
	start int
	end   int
	doc   string
}

// Punctuation, longest first so that the scanner is greedy.
var puncts = []string{
	"===", "!==", "...",
	"{|", "|}", "->", "=>", "?.", "?:", "==", "!=", "<=", ">=", "&&", "||", "+=", "-=",
	"{", "}", "(", ")", "[", "]", ";", ",", ".", ":", "=", "<", ">",
	"+", "-", "*", "/", "%", "!", "?", "|", "&", "@", "~", "^",
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src}
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, &lexError{pos: l.i, msg: err.Error()}
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

type lexError struct {
	pos int
	msg string
}

func (e *lexError) Error() string { return e.msg }

type lexer struct {
	src string
	i   int
	doc []string
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpace(); err != nil {
		return token{}, err
	}
	doc := strings.Join(l.doc, "\n")
	l.doc = l.doc[:0]
	tok, err := l.scan()
	tok.doc = doc
	return tok, err
}

func (l *lexer) scan() (token, error) {
	if l.i >= len(l.src) {
		return token{kind: tokEOF, start: len(l.src), end: len(l.src)}, nil
	}
	start := l.i
	ch := l.src[l.i]
	switch {
	case ch == '"':
		return l.scanString()
	case isDigit(ch):
		return l.scanNumber()
	case isIdentStart(ch) || ch == '\'':
		return l.scanIdent()
	}
	for _, p := range puncts {
		if strings.HasPrefix(l.src[l.i:], p) {
			l.i += len(p)
			return token{kind: tokPunct, text: p, start: start, end: l.i}, nil
		}
	}
	return token{}, fmt.Errorf("unexpected character %q", ch)
}

// skipSpace consumes blanks and comments, collecting documentation lines.
// A blank line between a doc block and the next token discards the block.
func (l *lexer) skipSpace() error {
	newlines := 0
	for l.i < len(l.src) {
		c := l.src[l.i]
		switch {
		case c == '\n':
			newlines++
			if newlines > 1 {
				l.doc = l.doc[:0]
			}
			l.i++
		case c == ' ' || c == '\t' || c == '\r':
			l.i++
		case c == '/' && l.i+1 < len(l.src) && l.src[l.i+1] == '/':
			l.skipLine()
		case c == '#':
			start := l.i + 1
			l.skipLine()
			line := strings.TrimRight(l.src[start:l.i], "\r")
			l.doc = append(l.doc, strings.TrimPrefix(line, " "))
			newlines = 0
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) skipLine() {
	for l.i < len(l.src) && l.src[l.i] != '\n' {
		l.i++
	}
}

func (l *lexer) scanString() (token, error) {
	start := l.i
	l.i++
	escaped := false
	for l.i < len(l.src) {
		c := l.src[l.i]
		l.i++
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '\n':
			return token{}, fmt.Errorf("newline in string literal")
		case c == '"':
			return token{kind: tokString, text: l.src[start:l.i], start: start, end: l.i}, nil
		}
	}
	l.i = start
	return token{}, fmt.Errorf("unterminated string literal")
}

func (l *lexer) scanNumber() (token, error) {
	start := l.i
	kind := tokInt
	if strings.HasPrefix(l.src[l.i:], "0x") || strings.HasPrefix(l.src[l.i:], "0X") {
		l.i += 2
		for l.i < len(l.src) && isHexDigit(l.src[l.i]) {
			l.i++
		}
		return token{kind: kind, text: l.src[start:l.i], start: start, end: l.i}, nil
	}
	for l.i < len(l.src) && isDigit(l.src[l.i]) {
		l.i++
	}
	// A dot followed by a digit continues the literal; `1.foo` is a field access.
	if l.i+1 < len(l.src) && l.src[l.i] == '.' && isDigit(l.src[l.i+1]) {
		kind = tokFloat
		l.i++
		for l.i < len(l.src) && isDigit(l.src[l.i]) {
			l.i++
		}
	}
	if l.i < len(l.src) && (l.src[l.i] == 'e' || l.src[l.i] == 'E') {
		j := l.i + 1
		if j < len(l.src) && (l.src[j] == '+' || l.src[j] == '-') {
			j++
		}
		if j < len(l.src) && isDigit(l.src[j]) {
			kind = tokFloat
			l.i = j
			for l.i < len(l.src) && isDigit(l.src[l.i]) {
				l.i++
			}
		}
	}
	if l.i < len(l.src) && strings.IndexByte("dDfF", l.src[l.i]) >= 0 &&
		(l.i+1 >= len(l.src) || !isIdentPart(l.src[l.i+1])) {
		kind = tokFloat
		l.i++
	}
	return token{kind: kind, text: l.src[start:l.i], start: start, end: l.i}, nil
}

func (l *lexer) scanIdent() (token, error) {
	start := l.i
	l.i++
	for l.i < len(l.src) {
		c := l.src[l.i]
		if isIdentPart(c) {
			l.i++
			continue
		}
		if c == '\\' && l.i+1 < len(l.src) {
			l.i += 2
			continue
		}
		break
	}
	if l.i-start == 1 && l.src[start] == '\'' {
		return token{}, fmt.Errorf("empty quoted identifier")
	}
	return token{kind: tokIdent, text: l.src[start:l.i], start: start, end: l.i}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// UnquoteIdentifier strips the leading quote of a quoted identifier.
func UnquoteIdentifier(name string) string {
	return strings.ReplaceAll(strings.TrimPrefix(name, "'"), "\\", "")
}
