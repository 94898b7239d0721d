//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package node

import (
	"fmt"
	"sort"
	"sync"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
)

// Registry maps node kinds to their builders.
//
// Builders are registered in two ways:
// 1. Built-in builders, registered at init time
// 2. Custom builders, registered before the service starts
type Registry struct {
	mu       sync.RWMutex
	builders map[flow.NodeKind]Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[flow.NodeKind]Builder)}
}

// Register adds b under its kind.
func (r *Registry) Register(b Builder) error {
	kind := b.Kind()
	if kind == "" {
		return fmt.Errorf("builder kind cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.builders[kind]; exists {
		return fmt.Errorf("builder for %q already registered", kind)
	}
	r.builders[kind] = b
	return nil
}

// MustRegister registers b and panics if registration fails.
func (r *Registry) MustRegister(b Builder) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

// Get returns the builder of kind.
func (r *Registry) Get(kind flow.NodeKind) (Builder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[kind]
	return b, ok
}

// Has reports whether kind has a builder.
func (r *Registry) Has(kind flow.NodeKind) bool {
	_, ok := r.Get(kind)
	return ok
}

// List returns the registered kinds in sorted order.
func (r *Registry) List() []flow.NodeKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]flow.NodeKind, 0, len(r.builders))
	for k := range r.builders {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Unregister removes the builder of kind.
// This is mainly for testing purposes.
func (r *Registry) Unregister(kind flow.NodeKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.builders, kind)
}

// DefaultRegistry holds the built-in builders.
var DefaultRegistry = NewRegistry()

// Register adds b to the default registry.
func Register(b Builder) error {
	return DefaultRegistry.Register(b)
}

// MustRegister adds b to the default registry and panics on error.
func MustRegister(b Builder) {
	DefaultRegistry.MustRegister(b)
}

// Get returns a builder from the default registry.
func Get(kind flow.NodeKind) (Builder, bool) {
	return DefaultRegistry.Get(kind)
}

func init() {
	MustRegister(FunctionDefinition{})
	MustRegister(DataMapperDefinition{})
	MustRegister(Start{})
	MustRegister(Variable{})
	MustRegister(FunctionCall{})
	MustRegister(RemoteActionCall{})
}
