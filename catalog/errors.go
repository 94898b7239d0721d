//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package catalog

import "errors"

var (
	// ErrAgentModuleNotFound is returned when the project does not import
	// the configured agent module.
	ErrAgentModuleNotFound = errors.New("catalog: agent module not found")
	// ErrUnknownAgent is returned for agents with no configured models.
	ErrUnknownAgent = errors.New("catalog: cannot find models for agent")
	// ErrAgentNotFound is returned when the agent module declares no agent
	// class of the requested name.
	ErrAgentNotFound = errors.New("catalog: agent class not found")
	// ErrNoInitMethod is returned for agent classes without init.
	ErrNoInitMethod = errors.New("catalog: agent does not have an init method")
	// ErrNoInitParams is returned for agent init methods without parameters.
	ErrNoInitParams = errors.New("catalog: agent init method does not have parameters")
	// ErrNoCompatibleModels is returned when no model class can be passed
	// to the agent.
	ErrNoCompatibleModels = errors.New("catalog: agent does not have corresponding models")
	// ErrMissingFunctionName is returned when a function node to wrap as a
	// tool has no function name.
	ErrMissingFunctionName = errors.New("catalog: function name is not present")
	// ErrUnsupportedToolNode is returned for node kinds that cannot be
	// wrapped as a tool.
	ErrUnsupportedToolNode = errors.New("catalog: unsupported node kind to generate tool")
)
