//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package datamapper

import "errors"

var (
	// ErrSymbolNotFound is returned when the symbol a node refers to does
	// not exist in the project.
	ErrSymbolNotFound = errors.New("datamapper: symbol cannot be found")
	// ErrDocumentNotFound is returned when the manager's file is not part
	// of the project.
	ErrDocumentNotFound = errors.New("datamapper: document not found")
	// ErrNoSource is returned when a node produces no source text.
	ErrNoSource = errors.New("datamapper: node produced no source")
)
