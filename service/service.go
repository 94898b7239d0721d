//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package service exposes the flow model operations as named JSON
// operations. Transports decode nothing themselves: they hand the raw
// payload to Execute and write back what it returns.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/trpc-flowmodel-go/catalog"
	"trpc.group/trpc-go/trpc-flowmodel-go/flow/node"
	itelemetry "trpc.group/trpc-go/trpc-flowmodel-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-flowmodel-go/log"
	"trpc.group/trpc-go/trpc-flowmodel-go/telemetry/metric"
	atrace "trpc.group/trpc-go/trpc-flowmodel-go/telemetry/trace"
	"trpc.group/trpc-go/trpc-flowmodel-go/workspace"
)

// handler runs one operation against a project snapshot. Handlers that
// change the project return the new snapshot.
type handler func(ctx context.Context, s *snapshot, payload []byte) (any, *workspace.Project, error)

// snapshot is the state an operation sees.
type snapshot struct {
	project  *workspace.Project
	catalog  catalog.Config
	registry *node.Registry
}

// Service serves the operations over one project.
type Service struct {
	mu       sync.RWMutex
	project  *workspace.Project
	catalog  catalog.Config
	registry *node.Registry
	handlers map[string]handler
}

// Option configures a Service.
type Option func(*Service)

// WithCatalog sets the agent catalog configuration.
func WithCatalog(cfg catalog.Config) Option {
	return func(s *Service) { s.catalog = cfg }
}

// WithRegistry sets the node builders. The default is node.DefaultRegistry.
func WithRegistry(r *node.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// New creates a service over project.
func New(project *workspace.Project, opts ...Option) *Service {
	s := &Service{
		project:  project,
		catalog:  catalog.DefaultConfig(),
		registry: node.DefaultRegistry,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handlers = map[string]handler{
		OpFindFunction:        findFunction,
		OpGetNodeTemplate:     getNodeTemplate,
		OpGetSourceCode:       getSourceCode,
		OpGetTypes:            getTypes,
		OpGetMappings:         getMappings,
		OpGetSource:           getSource,
		OpGetAllAgents:        getAllAgents,
		OpGetAllModels:        getAllModels,
		OpGetModels:           getModels,
		OpGetCompatibleModels: getCompatibleModels,
		OpGetTools:            getTools,
		OpGenTool:             genTool,
		OpGetAllTypes:         getAllTypes,
		OpGetType:             getType,
		OpUpdateDocument:      updateDocument,
	}
	return s
}

// Project returns the current project snapshot.
func (s *Service) Project() *workspace.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project
}

// Operations lists the operation names in order.
func (s *Service) Operations() []string {
	out := make([]string, 0, len(s.handlers))
	for op := range s.handlers {
		out = append(out, op)
	}
	sort.Strings(out)
	return out
}

// Execute runs op with a JSON payload and returns the JSON result. Every
// call is traced and counted.
func (s *Service) Execute(ctx context.Context, op string, payload []byte) (out []byte, err error) {
	h, ok := s.handlers[op]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	start := time.Now()
	ctx, span := atrace.Tracer.Start(ctx, "flowmodel."+op,
		trace.WithAttributes(attribute.String(itelemetry.KeyOperation, op)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		metric.RecordOperation(ctx, op, start, err)
	}()

	log.DebugfContext(ctx, "execute %s", op)
	result, err := s.run(ctx, op, h, payload)
	if err != nil {
		log.DebugfContext(ctx, "%s failed: %v", op, err)
		return nil, err
	}
	if out, err = json.Marshal(result); err != nil {
		return nil, fmt.Errorf("encode %s result: %w", op, err)
	}
	return out, nil
}

// run calls h on the current snapshot. Operations that change the project
// hold the write lock from reading the snapshot until the new one is
// stored, so concurrent updates apply one after another.
func (s *Service) run(ctx context.Context, op string, h handler, payload []byte) (any, error) {
	if !mutating[op] {
		s.mu.RLock()
		snap := s.snapshot()
		s.mu.RUnlock()
		result, _, err := h(ctx, snap, payload)
		return result, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result, next, err := h(ctx, s.snapshot(), payload)
	if err != nil {
		return nil, err
	}
	if next != nil {
		s.project = next
	}
	return result, nil
}

// snapshot must be called with s.mu held.
func (s *Service) snapshot() *snapshot {
	return &snapshot{project: s.project, catalog: s.catalog, registry: s.registry}
}

// decode unmarshals payload into v. An empty payload leaves v unchanged.
func decode(payload []byte, v any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
