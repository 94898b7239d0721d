//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package node

import "errors"

var (
	// ErrUnknownKind is returned when no builder is registered for a kind.
	ErrUnknownKind = errors.New("node: no builder for kind")
	// ErrMissingProperty is returned when a required property is absent.
	ErrMissingProperty = errors.New("node: missing required property")
)
