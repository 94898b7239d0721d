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
	"errors"
	"fmt"
)

var (
	// ErrSyntax is wrapped by every ParseError.
	ErrSyntax = errors.New("syntax error")
	// ErrInvalidEdit is returned when text edits cannot be applied.
	ErrInvalidEdit = errors.New("invalid text edit")
)

// ParseError reports the first syntax error of a document.
type ParseError struct {
	File string
	Pos  LinePosition
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Pos.Line+1, e.Pos.Offset+1, e.Msg)
}

// Unwrap lets callers match ErrSyntax.
func (e *ParseError) Unwrap() error { return ErrSyntax }
