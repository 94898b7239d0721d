//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/trpc-flowmodel-go/analyzer"
	"trpc.group/trpc-go/trpc-flowmodel-go/catalog"
	"trpc.group/trpc-go/trpc-flowmodel-go/datamapper"
	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/flow/node"
	itelemetry "trpc.group/trpc-go/trpc-flowmodel-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-flowmodel-go/syntax"
	"trpc.group/trpc-go/trpc-flowmodel-go/typedesc"
	"trpc.group/trpc-go/trpc-flowmodel-go/workspace"
)

// Operation names.
const (
	OpFindFunction        = "findFunction"
	OpGetNodeTemplate     = "getNodeTemplate"
	OpGetSourceCode       = "getSourceCode"
	OpGetTypes            = "getTypes"
	OpGetMappings         = "getMappings"
	OpGetSource           = "getSource"
	OpGetAllAgents        = "getAllAgents"
	OpGetAllModels        = "getAllModels"
	OpGetModels           = "getModels"
	OpGetCompatibleModels = "getCompatibleModels"
	OpGetTools            = "getTools"
	OpGenTool             = "genTool"
	OpGetAllTypes         = "getAllTypes"
	OpGetType             = "getType"
	OpUpdateDocument      = "updateDocument"
)

// mutating lists the operations that replace the project.
var mutating = map[string]bool{
	OpUpdateDocument: true,
}

// FindFunctionRequest names a function of a document.
type FindFunctionRequest struct {
	FilePath     string `json:"filePath"`
	FunctionName string `json:"functionName"`
}

// FlowNodeResponse carries one flow node.
type FlowNodeResponse struct {
	FlowNode *flow.Node `json:"flowNode"`
}

// NodeTemplateRequest asks for a new node of Kind at Position.
type NodeTemplateRequest struct {
	FilePath string              `json:"filePath"`
	Kind     flow.NodeKind       `json:"kind"`
	Position syntax.LinePosition `json:"position"`
}

// SourceCodeRequest asks for the source of an edited node.
type SourceCodeRequest struct {
	FilePath string     `json:"filePath"`
	FlowNode *flow.Node `json:"flowNode"`
}

// TextEditsResponse carries edits keyed by project relative path.
type TextEditsResponse struct {
	TextEdits map[string][]syntax.TextEdit `json:"textEdits"`
}

// TypesRequest asks for the type expected at PropertyKey of a node.
type TypesRequest struct {
	FilePath    string     `json:"filePath"`
	FlowNode    *flow.Node `json:"flowNode"`
	PropertyKey string     `json:"propertyKey"`
}

// TypeResponse carries a type description or null.
type TypeResponse struct {
	Type *typedesc.Type `json:"type"`
}

// MappingsRequest asks for the mapping view of a node inserted at Position.
type MappingsRequest struct {
	FilePath    string              `json:"filePath"`
	FlowNode    *flow.Node          `json:"flowNode"`
	Position    syntax.LinePosition `json:"position"`
	PropertyKey string              `json:"propertyKey"`
	TargetField string              `json:"targetField"`
}

// MappingsResponse carries the mapping view or null when the initializer
// cannot be mapped.
type MappingsResponse struct {
	MappingsModel *datamapper.Model `json:"mappingsModel"`
}

// SourceRequest asks for the initializer rebuilt from Mappings.
type SourceRequest struct {
	FilePath    string               `json:"filePath"`
	FlowNode    *flow.Node           `json:"flowNode"`
	Mappings    []datamapper.Mapping `json:"mappings"`
	TargetField string               `json:"targetField"`
}

// SourceResponse carries source text.
type SourceResponse struct {
	Source string `json:"source"`
}

// AgentRequest names an agent class.
type AgentRequest struct {
	Agent string `json:"agent"`
}

// CodedataResponse carries catalog entries.
type CodedataResponse struct {
	Items []*flow.Codedata `json:"items"`
}

// ModelsResponse carries model type signatures.
type ModelsResponse struct {
	Models []string `json:"models"`
}

// ToolsResponse carries tool names.
type ToolsResponse struct {
	Tools []string `json:"tools"`
}

// GenToolRequest asks for a tool wrapping FlowNode.
type GenToolRequest struct {
	FilePath string     `json:"filePath"`
	FlowNode *flow.Node `json:"flowNode"`
	ToolName string     `json:"toolName"`
}

// TypesResponse carries type definitions.
type TypesResponse struct {
	Types []*flow.TypeData `json:"types"`
}

// TypeAtRequest names a cursor position.
type TypeAtRequest struct {
	FilePath string              `json:"filePath"`
	Position syntax.LinePosition `json:"position"`
}

// TypeDataResponse carries one type definition or null.
type TypeDataResponse struct {
	Type *flow.TypeData `json:"type"`
}

// UpdateDocumentRequest replaces the text of a document.
type UpdateDocumentRequest struct {
	FilePath string `json:"filePath"`
	Text     string `json:"text"`
}

// UpdateDocumentResponse reports the number of documents after the update.
type UpdateDocumentResponse struct {
	Documents int `json:"documents"`
}

// requireNode tags the span with the node and fails when it is absent.
func requireNode(ctx context.Context, filePath string, n *flow.Node) error {
	attrs := []attribute.KeyValue{attribute.String(itelemetry.KeyFilePath, filePath)}
	if n != nil {
		attrs = append(attrs, attribute.String(itelemetry.KeyNodeKind, string(n.Kind())))
	}
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
	if n == nil {
		return ErrMissingNode
	}
	return nil
}

func findFunction(_ context.Context, s *snapshot, payload []byte) (any, *workspace.Project, error) {
	var req FindFunctionRequest
	if err := decode(payload, &req); err != nil {
		return nil, nil, err
	}
	n, err := analyzer.New(s.project, analyzer.WithRegistry(s.registry)).FindFunction(req.FilePath, req.FunctionName)
	if err != nil {
		return nil, nil, err
	}
	return FlowNodeResponse{FlowNode: n}, nil, nil
}

func getNodeTemplate(_ context.Context, s *snapshot, payload []byte) (any, *workspace.Project, error) {
	var req NodeTemplateRequest
	if err := decode(payload, &req); err != nil {
		return nil, nil, err
	}
	n, err := s.registry.Template(req.Kind, node.TemplateContext{
		Module:   flow.ModuleInfoOf(s.project.Module()),
		FilePath: req.FilePath,
		Position: req.Position,
	})
	if err != nil {
		return nil, nil, err
	}
	return FlowNodeResponse{FlowNode: n}, nil, nil
}

func getSourceCode(ctx context.Context, s *snapshot, payload []byte) (any, *workspace.Project, error) {
	var req SourceCodeRequest
	if err := decode(payload, &req); err != nil {
		return nil, nil, err
	}
	if err := requireNode(ctx, req.FilePath, req.FlowNode); err != nil {
		return nil, nil, err
	}
	edits, err := s.registry.ToSource(req.FlowNode, s.project, req.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return TextEditsResponse{TextEdits: edits}, nil, nil
}

func getTypes(ctx context.Context, s *snapshot, payload []byte) (any, *workspace.Project, error) {
	var req TypesRequest
	if err := decode(payload, &req); err != nil {
		return nil, nil, err
	}
	if err := requireNode(ctx, req.FilePath, req.FlowNode); err != nil {
		return nil, nil, err
	}
	t, err := s.mapper(req.FilePath).GetTypes(ctx, req.FlowNode, req.PropertyKey)
	if err != nil {
		return nil, nil, err
	}
	return TypeResponse{Type: t}, nil, nil
}

func getMappings(ctx context.Context, s *snapshot, payload []byte) (any, *workspace.Project, error) {
	var req MappingsRequest
	if err := decode(payload, &req); err != nil {
		return nil, nil, err
	}
	if err := requireNode(ctx, req.FilePath, req.FlowNode); err != nil {
		return nil, nil, err
	}
	m, err := s.mapper(req.FilePath).GetMappings(ctx, req.FlowNode, req.Position, req.PropertyKey, req.TargetField)
	if err != nil {
		return nil, nil, err
	}
	return MappingsResponse{MappingsModel: m}, nil, nil
}

func getSource(ctx context.Context, s *snapshot, payload []byte) (any, *workspace.Project, error) {
	var req SourceRequest
	if err := decode(payload, &req); err != nil {
		return nil, nil, err
	}
	if err := requireNode(ctx, req.FilePath, req.FlowNode); err != nil {
		return nil, nil, err
	}
	src, err := s.mapper(req.FilePath).GetSource(req.FlowNode, req.Mappings, req.TargetField)
	if err != nil {
		return nil, nil, err
	}
	return SourceResponse{Source: src}, nil, nil
}

func (s *snapshot) mapper(path string) *datamapper.Manager {
	return datamapper.NewManager(s.project, path, datamapper.WithRegistry(s.registry))
}

func (s *snapshot) agents() *catalog.AgentManager {
	return catalog.NewAgentManager(s.project, s.catalog)
}

func getAllAgents(_ context.Context, s *snapshot, _ []byte) (any, *workspace.Project, error) {
	items, err := s.agents().GetAllAgents()
	if err != nil {
		return nil, nil, err
	}
	return CodedataResponse{Items: items}, nil, nil
}

func getAllModels(_ context.Context, s *snapshot, _ []byte) (any, *workspace.Project, error) {
	items, err := s.agents().GetAllModels()
	if err != nil {
		return nil, nil, err
	}
	return CodedataResponse{Items: items}, nil, nil
}

func getModels(_ context.Context, s *snapshot, payload []byte) (any, *workspace.Project, error) {
	var req AgentRequest
	if err := decode(payload, &req); err != nil {
		return nil, nil, err
	}
	models, err := s.agents().GetModels(req.Agent)
	if err != nil {
		return nil, nil, err
	}
	return ModelsResponse{Models: models}, nil, nil
}

func getCompatibleModels(_ context.Context, s *snapshot, payload []byte) (any, *workspace.Project, error) {
	var req AgentRequest
	if err := decode(payload, &req); err != nil {
		return nil, nil, err
	}
	items, err := s.agents().GetCompatibleModels(req.Agent)
	if err != nil {
		return nil, nil, err
	}
	return CodedataResponse{Items: items}, nil, nil
}

func getTools(_ context.Context, s *snapshot, _ []byte) (any, *workspace.Project, error) {
	return ToolsResponse{Tools: s.agents().GetTools()}, nil, nil
}

func genTool(ctx context.Context, s *snapshot, payload []byte) (any, *workspace.Project, error) {
	var req GenToolRequest
	if err := decode(payload, &req); err != nil {
		return nil, nil, err
	}
	if err := requireNode(ctx, req.FilePath, req.FlowNode); err != nil {
		return nil, nil, err
	}
	edits, err := s.agents().GenTool(req.FlowNode, req.ToolName, req.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return TextEditsResponse{TextEdits: edits}, nil, nil
}

func getAllTypes(_ context.Context, s *snapshot, _ []byte) (any, *workspace.Project, error) {
	return TypesResponse{Types: catalog.NewTypeManager(s.project).GetAllTypes()}, nil, nil
}

func getType(_ context.Context, s *snapshot, payload []byte) (any, *workspace.Project, error) {
	var req TypeAtRequest
	if err := decode(payload, &req); err != nil {
		return nil, nil, err
	}
	return TypeDataResponse{Type: catalog.NewTypeManager(s.project).GetType(req.FilePath, req.Position)}, nil, nil
}

func updateDocument(_ context.Context, s *snapshot, payload []byte) (any, *workspace.Project, error) {
	var req UpdateDocumentRequest
	if err := decode(payload, &req); err != nil {
		return nil, nil, err
	}
	next, err := s.project.ModifyDocument(req.FilePath, req.Text)
	if err != nil {
		return nil, nil, fmt.Errorf("update %s: %w", req.FilePath, err)
	}
	return UpdateDocumentResponse{Documents: len(next.Documents())}, next, nil
}
