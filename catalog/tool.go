//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package catalog

import (
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/flow/source"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
)

const toolResult = "result"

// GenTool wraps a function definition or a remote action call into a
// module function named toolName, appended to the agent file. A function
// is called with its parameters; the result is bound when it returns a
// value. A remote action is inlined and its variable returned.
func (m *AgentManager) GenTool(n *flow.Node, toolName, filePath string) (map[string][]syntax.TextEdit, error) {
	sb := source.NewBuilder(n, m.project, filePath)
	switch n.Kind() {
	case flow.KindFunctionDefinition:
		return m.functionTool(sb, toolName)
	case flow.KindRemoteActionCall:
		return m.actionTool(sb, toolName)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedToolNode, n.Kind())
}

func (m *AgentManager) functionTool(sb *source.Builder, toolName string) (map[string][]syntax.TextEdit, error) {
	fn, ok := sb.Property(flow.KeyFunctionName)
	if !ok || fn.Text() == "" {
		return nil, ErrMissingFunctionName
	}
	var params, args []string
	if p, ok := sb.Property(flow.KeyParameters); ok {
		for _, param := range flow.Params(p) {
			params = append(params, param.Type+" "+param.Name)
			args = append(args, param.Name)
		}
	}
	returns := sb.Node.PropertyText(flow.KeyType)

	tb := sb.Token().Keyword(source.KeywordFunction).Name(toolName).
		OpenParen().Name(strings.Join(params, ", ")).CloseParen()
	if returns != "" {
		tb.Keyword(source.KeywordReturns).Name(returns)
	}
	tb.OpenBrace()
	if returns != "" {
		tb.Name(returns).Name(toolResult).Equal()
	}
	tb.Name(fn.Text()).OpenParen().Name(strings.Join(args, ", ")).CloseParen().EndOfStatement().
		CloseBrace()
	return sb.TextEdit(false, m.cfg.AgentFile, false).Build(), nil
}

func (m *AgentManager) actionTool(sb *source.Builder, toolName string) (map[string][]syntax.TextEdit, error) {
	var params []string
	sb.Node.Properties.Range(func(key string, p *flow.Property) bool {
		if flow.Reserved(key) {
			return true
		}
		params = append(params, strings.TrimSpace(p.Constraint()+" "+key))
		return true
	})
	returns := sb.Node.PropertyText(flow.KeyType)

	tb := sb.Token().Keyword(source.KeywordFunction).Name(toolName).
		OpenParen().Name(strings.Join(params, ", ")).CloseParen()
	if returns != "" {
		tb.Keyword(source.KeywordReturns).Name(returns)
	}
	tb.OpenBrace()
	call := ""
	if sb.Node.Codedata != nil {
		call = sb.Node.Codedata.SourceCode
	}
	variable := sb.Node.PropertyText(flow.KeyVariable)
	switch {
	case returns != "" && variable == "" && call != "":
		// Nothing binds the result, so the call itself is returned.
		tb.Keyword(source.KeywordReturn).Name(call).EndOfStatement()
	default:
		if call != "" {
			tb.Name(call).EndOfStatement()
		}
		if returns != "" && variable != "" {
			tb.Keyword(source.KeywordReturn).Name(variable).EndOfStatement()
		}
	}
	tb.CloseBrace()
	return sb.TextEdit(false, m.cfg.AgentFile, false).Build(), nil
}
