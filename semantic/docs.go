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
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// ParseDocumentation splits a `#` doc block into its description and the
// `+ name - text` parameter lines. The description is the plain text of
// the first Markdown paragraph.
func ParseDocumentation(doc string) *Documentation {
	if strings.TrimSpace(doc) == "" {
		return nil
	}
	d := &Documentation{}
	var prose []string
	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "+ ") {
			prose = append(prose, line)
			continue
		}
		name, desc, _ := strings.Cut(strings.TrimPrefix(trimmed, "+ "), " - ")
		name = strings.TrimSpace(name)
		if name == "return" {
			d.Return = strings.TrimSpace(desc)
			continue
		}
		if d.Params == nil {
			d.Params = map[string]string{}
		}
		d.Params[name] = strings.TrimSpace(desc)
	}
	d.Description = firstParagraph([]byte(strings.Join(prose, "\n")))
	return d
}

func firstParagraph(source []byte) string {
	root := markdown.Parser().Parse(text.NewReader(source))
	var buf bytes.Buffer
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		para, ok := n.(*ast.Paragraph)
		if !ok {
			return ast.WalkContinue, nil
		}
		_ = ast.Walk(para, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			switch v := c.(type) {
			case *ast.Text:
				buf.Write(v.Segment.Value(source))
				if v.SoftLineBreak() || v.HardLineBreak() {
					buf.WriteByte(' ')
				}
			case *ast.String:
				buf.Write(v.Value)
			}
			return ast.WalkContinue, nil
		})
		return ast.WalkStop, nil
	})
	return strings.TrimSpace(buf.String())
}
