//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package service

import "errors"

var (
	// ErrUnknownOperation is returned for an operation name no handler
	// serves.
	ErrUnknownOperation = errors.New("service: unknown operation")
	// ErrDecode wraps request payloads that are not valid JSON for the
	// operation.
	ErrDecode = errors.New("service: decode request")
	// ErrMissingNode is returned when a request lacks its flow node.
	ErrMissingNode = errors.New("service: flow node is required")
)
