//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package source

import (
	"strings"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
)

// Keyword is a reserved word of the source language.
type Keyword string

// Keywords emitted by node builders.
const (
	KeywordFunction Keyword = "function"
	KeywordReturns  Keyword = "returns"
	KeywordReturn   Keyword = "return"
	KeywordStart    Keyword = "start"
	KeywordFinal    Keyword = "final"
	KeywordCheck    Keyword = "check"
	KeywordVar      Keyword = "var"
	KeywordIsolated Keyword = "isolated"
	KeywordPublic   Keyword = "public"
	KeywordFuture   Keyword = "future"
)

type tokenKind int

const (
	tokenKeyword tokenKind = iota
	tokenName
	tokenExpression
	tokenSpace
	tokenPunct
)

type token struct {
	kind tokenKind
	text string
}

// TokenBuilder is an append only token stream. It never validates order;
// callers emit tokens in grammar order.
type TokenBuilder struct {
	parent *Builder
	tokens []token
}

func (tb *TokenBuilder) add(kind tokenKind, text string) *TokenBuilder {
	tb.tokens = append(tb.tokens, token{kind: kind, text: text})
	return tb
}

// Keyword emits a keyword.
func (tb *TokenBuilder) Keyword(k Keyword) *TokenBuilder { return tb.add(tokenKeyword, string(k)) }

// Name emits an identifier or type name verbatim.
func (tb *TokenBuilder) Name(text string) *TokenBuilder { return tb.add(tokenName, text) }

// Expression emits the source rendering of p. A missing property emits
// nothing.
func (tb *TokenBuilder) Expression(p *flow.Property) *TokenBuilder {
	return tb.add(tokenExpression, p.ToSourceCode())
}

// ExpressionText emits raw expression text.
func (tb *TokenBuilder) ExpressionText(text string) *TokenBuilder {
	return tb.add(tokenExpression, text)
}

// WhiteSpace forces a single space before the next token.
func (tb *TokenBuilder) WhiteSpace() *TokenBuilder { return tb.add(tokenSpace, " ") }

// OpenParen emits "(".
func (tb *TokenBuilder) OpenParen() *TokenBuilder { return tb.add(tokenPunct, "(") }

// CloseParen emits ")".
func (tb *TokenBuilder) CloseParen() *TokenBuilder { return tb.add(tokenPunct, ")") }

// OpenBrace emits "{".
func (tb *TokenBuilder) OpenBrace() *TokenBuilder { return tb.add(tokenPunct, "{") }

// CloseBrace emits "}".
func (tb *TokenBuilder) CloseBrace() *TokenBuilder { return tb.add(tokenPunct, "}") }

// Comma emits ",".
func (tb *TokenBuilder) Comma() *TokenBuilder { return tb.add(tokenPunct, ",") }

// Equal emits "=".
func (tb *TokenBuilder) Equal() *TokenBuilder { return tb.add(tokenPunct, "=") }

// RightDoubleArrow emits "=>".
func (tb *TokenBuilder) RightDoubleArrow() *TokenBuilder { return tb.add(tokenPunct, "=>") }

// RightArrow emits "->".
func (tb *TokenBuilder) RightArrow() *TokenBuilder { return tb.add(tokenPunct, "->") }

// EndOfStatement emits ";".
func (tb *TokenBuilder) EndOfStatement() *TokenBuilder { return tb.add(tokenPunct, ";") }

// Stepout returns to the source builder.
func (tb *TokenBuilder) Stepout() *Builder { return tb.parent }

// Len returns the number of tokens emitted.
func (tb *TokenBuilder) Len() int { return len(tb.tokens) }

// attachLeft lists punctuation written without a space before it.
var attachLeft = map[string]bool{")": true, "]": true, ",": true, ";": true, ".": true, "->": true}

// attachRight lists punctuation written without a space after it.
var attachRight = map[string]bool{"(": true, "[": true, ".": true, "->": true}

// String joins the tokens. Word tokens are separated by one space, opening
// brackets bind to the following token and closing ones to the preceding
// token. A call bracket binds to the callee. A trailing WhiteSpace is kept.
func (tb *TokenBuilder) String() string {
	var (
		b       strings.Builder
		prev    *token
		spacing bool
	)
	for i := range tb.tokens {
		t := &tb.tokens[i]
		if t.kind == tokenSpace {
			spacing = true
			continue
		}
		if t.text == "" {
			continue
		}
		if prev != nil && needsSpace(prev, t, spacing) {
			b.WriteByte(' ')
		}
		b.WriteString(t.text)
		prev, spacing = t, false
	}
	if spacing && prev != nil {
		b.WriteByte(' ')
	}
	return b.String()
}

func needsSpace(prev, t *token, forced bool) bool {
	if t.kind == tokenPunct && attachLeft[t.text] {
		return false
	}
	if forced {
		return true
	}
	if prev.kind == tokenPunct && attachRight[prev.text] {
		return false
	}
	if t.kind == tokenPunct && (t.text == "(" || t.text == "[") {
		switch prev.kind {
		case tokenName, tokenExpression:
			return false
		case tokenPunct:
			return prev.text != ")" && prev.text != "]"
		}
	}
	return true
}
