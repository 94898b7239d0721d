//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package source turns flow nodes back into source text and packages the
// text as edits against project documents.
package source

import (
	"strings"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
	"trpc.group/trpc-go/trpc-flowmodel-go/workspace"
)

// Builder collects the edits produced for one flow node.
type Builder struct {
	// Node is the node being written.
	Node *flow.Node
	// Project is the project the edits target. It may be nil, in which case
	// every edit is an insertion at the start of its file.
	Project *workspace.Project
	// FilePath is the document of the node, relative to the project root.
	FilePath string

	tokens *TokenBuilder
	order  []string
	edits  map[string][]syntax.TextEdit
}

// NewBuilder creates a builder for node in filePath.
func NewBuilder(node *flow.Node, project *workspace.Project, filePath string) *Builder {
	b := &Builder{Node: node, Project: project, edits: map[string][]syntax.TextEdit{}}
	b.FilePath = b.resolve(filePath)
	return b
}

// Token returns the current token stream.
func (b *Builder) Token() *TokenBuilder {
	if b.tokens == nil {
		b.tokens = &TokenBuilder{parent: b}
	}
	return b.tokens
}

// Property returns the node property at key.
func (b *Builder) Property(key string) (*flow.Property, bool) {
	return b.Node.Property(key)
}

// Text returns the text of the current token stream.
func (b *Builder) Text() string {
	if b.tokens == nil {
		return ""
	}
	return b.tokens.String()
}

// TextEdit packages the current token stream as an edit against fileName,
// or against the node's own file when fileName is empty, and starts a new
// stream.
//
// With allowEdits and a known line range the edit replaces the node's
// range. Otherwise the text is inserted at the end of the target document.
// Statements end with a newline, expressions do not.
func (b *Builder) TextEdit(isExpression bool, fileName string, allowEdits bool) *Builder {
	target := b.FilePath
	if fileName != "" {
		target = b.resolve(fileName)
	}
	text := b.Text()
	if !isExpression {
		text += "\n"
	}
	var edit syntax.TextEdit
	if cd := b.codedata(); allowEdits && cd != nil && cd.LineRange != nil {
		edit.Range = syntax.Range{
			Start: syntax.ToPosition(cd.LineRange.StartLine),
			End:   syntax.ToPosition(cd.LineRange.EndLine),
		}
	} else {
		var unterminated bool
		edit.Range, unterminated = b.insertionRange(target)
		if unterminated && !isExpression {
			text = "\n" + text
		}
	}
	edit.NewText = text
	if _, ok := b.edits[target]; !ok {
		b.order = append(b.order, target)
	}
	b.edits[target] = append(b.edits[target], edit)
	b.tokens = nil
	return b
}

// Build returns the collected edits keyed by project relative path.
func (b *Builder) Build() map[string][]syntax.TextEdit {
	out := make(map[string][]syntax.TextEdit, len(b.edits))
	for _, k := range b.order {
		out[k] = append([]syntax.TextEdit(nil), b.edits[k]...)
	}
	return out
}

func (b *Builder) codedata() *flow.Codedata {
	if b.Node == nil {
		return nil
	}
	return b.Node.Codedata
}

func (b *Builder) resolve(fileName string) string {
	if b.Project == nil {
		return fileName
	}
	return b.Project.ResolvePath(fileName)
}

// insertionRange returns the end of target and whether its last line lacks
// a newline.
func (b *Builder) insertionRange(target string) (syntax.Range, bool) {
	if b.Project == nil {
		return syntax.Range{}, false
	}
	doc, ok := b.Project.Document(target)
	if !ok {
		return syntax.Range{}, false
	}
	text := doc.Text()
	end := syntax.ToPosition(doc.TextDocument().EndPosition())
	return syntax.Range{Start: end, End: end}, text != "" && !strings.HasSuffix(text, "\n")
}
