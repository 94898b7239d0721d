//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package mcp exposes the service operations as MCP tools over stdio.
package mcp

import (
	"context"
	"fmt"

	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"trpc.group/trpc-go/trpc-flowmodel-go/log"
	"trpc.group/trpc-go/trpc-flowmodel-go/service"
)

// Tool names.
const (
	ToolGetTypes    = "get_types"
	ToolGetTools    = "get_tools"
	ToolGenTool     = "gen_tool"
	ToolGetMappings = "get_mappings"
	ToolGetSource   = "get_source"
	ToolExecute     = "execute"
)

const (
	argRequest   = "request"
	argOperation = "operation"
)

// ToolHandler serves one tool call.
type ToolHandler = func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Server registers the tools on an MCP stdio server.
type Server struct {
	svc      *service.Service
	stdio    *mcp.StdioServer
	handlers map[string]ToolHandler
}

// New creates a server named name over svc.
func New(svc *service.Service, name, version string) *Server {
	s := &Server{
		svc: svc,
		stdio: mcp.NewStdioServer(name, version,
			mcp.WithStdioServerLogger(mcp.GetDefaultLogger()),
		),
		handlers: map[string]ToolHandler{},
	}
	s.register(mcp.NewTool(ToolGetTypes,
		mcp.WithDescription("List the record types of the project with their fields"),
	), s.operation(service.OpGetAllTypes))
	s.register(mcp.NewTool(ToolGetTools,
		mcp.WithDescription("List the module functions usable as agent tools"),
	), s.operation(service.OpGetTools))
	s.register(mcp.NewTool(ToolGenTool,
		mcp.WithDescription("Wrap a function definition or remote action node into an agent tool"),
		mcp.WithString(argRequest, mcp.Required(),
			mcp.Description("JSON object with filePath, flowNode and toolName")),
	), s.operation(service.OpGenTool))
	s.register(mcp.NewTool(ToolGetMappings,
		mcp.WithDescription("Compute the data mapping view of a variable node"),
		mcp.WithString(argRequest, mcp.Required(),
			mcp.Description("JSON object with filePath, flowNode, position, propertyKey and targetField")),
	), s.operation(service.OpGetMappings))
	s.register(mcp.NewTool(ToolGetSource,
		mcp.WithDescription("Rebuild the initializer of a variable node from mappings"),
		mcp.WithString(argRequest, mcp.Required(),
			mcp.Description("JSON object with filePath, flowNode, mappings and targetField")),
	), s.operation(service.OpGetSource))
	s.register(mcp.NewTool(ToolExecute,
		mcp.WithDescription("Run any flow model operation by name"),
		mcp.WithString(argOperation, mcp.Required(), mcp.Description("Operation name, e.g. findFunction")),
		mcp.WithString(argRequest, mcp.Description("JSON request of the operation")),
	), s.execute)
	return s
}

func (s *Server) register(tool *mcp.Tool, h ToolHandler) {
	s.handlers[tool.Name] = h
	s.stdio.RegisterTool(tool, h)
}

// Handler returns the handler of tool.
func (s *Server) Handler(tool string) (ToolHandler, bool) {
	h, ok := s.handlers[tool]
	return h, ok
}

// Start serves stdin and stdout until the input closes.
func (s *Server) Start() error {
	log.Infof("mcp server serving %d tools over stdio", len(s.handlers))
	return s.stdio.Start()
}

func (s *Server) operation(op string) ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.run(ctx, op, stringArg(req, argRequest)), nil
	}
}

func (s *Server) execute(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	op := stringArg(req, argOperation)
	if op == "" {
		return mcp.NewErrorResult(fmt.Sprintf("%s is required", argOperation)), nil
	}
	return s.run(ctx, op, stringArg(req, argRequest)), nil
}

// run executes op. Failures are reported as error results so the client
// sees the message.
func (s *Server) run(ctx context.Context, op, payload string) *mcp.CallToolResult {
	out, err := s.svc.Execute(ctx, op, []byte(payload))
	if err != nil {
		log.WarnfContext(ctx, "tool %s failed: %v", op, err)
		return mcp.NewErrorResult(err.Error())
	}
	return mcp.NewTextResult(string(out))
}

func stringArg(req *mcp.CallToolRequest, name string) string {
	if req == nil {
		return ""
	}
	v, _ := req.Params.Arguments[name].(string)
	return v
}
