//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package flow defines the flow model exchanged with the editor: nodes,
// properties, codedata and type data.
package flow

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NodeKind tags the construct a flow node stands for.
type NodeKind string

// Node kinds.
const (
	KindFunctionDefinition   NodeKind = "FUNCTION_DEFINITION"
	KindDataMapperDefinition NodeKind = "DATA_MAPPER_DEFINITION"
	KindStart                NodeKind = "START"
	KindVariable             NodeKind = "VARIABLE"
	KindFunctionCall         NodeKind = "FUNCTION_CALL"
	KindRemoteActionCall     NodeKind = "REMOTE_ACTION_CALL"
	KindAgent                NodeKind = "AGENT"
	KindClass                NodeKind = "CLASS"
	KindRecord               NodeKind = "RECORD"
)

var titleCaser = cases.Title(language.English)

// Label renders the kind for display, e.g. "Remote Action Call".
func (k NodeKind) Label() string {
	return titleCaser.String(strings.ReplaceAll(strings.ToLower(string(k)), "_", " "))
}
