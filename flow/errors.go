//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package flow

import "errors"

var (
	ErrInvalidProperties = errors.New("flow: properties must be a JSON object")
	ErrInvalidProperty   = errors.New("flow: invalid property")
)
