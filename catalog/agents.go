//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package catalog answers catalog queries over a project: the agents and
// models of the agent module, tools, and the record types the project
// declares.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-flowmodel-go/flow"
	"trpc.group/trpc-go/trpc-flowmodel-go/internal/symbolsearch"
	"trpc.group/trpc-go/trpc-flowmodel-go/semantic"
	"trpc.group/trpc-go/trpc-flowmodel-go/workspace"
)

const initMethod = "init"

// AgentManager queries the agent module imported by a project.
type AgentManager struct {
	project *workspace.Project
	cfg     Config
}

// NewAgentManager creates a manager over project.
func NewAgentManager(project *workspace.Project, cfg Config) *AgentManager {
	return &AgentManager{project: project, cfg: cfg}
}

func (m *AgentManager) model() semantic.Model { return m.project.SemanticModel() }

func (m *AgentManager) agentModule() (*semantic.Symbol, error) {
	for _, s := range m.model().ModuleSymbols() {
		if s.Kind == semantic.KindModule && s.Module.Org == m.cfg.AgentOrg && s.Module.Name == m.cfg.AgentModule {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrAgentModuleNotFound, m.cfg.AgentOrg, m.cfg.AgentModule)
}

func (m *AgentManager) codedata(kind flow.NodeKind, object string) *flow.Codedata {
	return flow.NewCodedataBuilder().
		Node(kind).
		Org(m.cfg.AgentOrg).
		Module(m.cfg.AgentModule).
		Object(object).
		Symbol(initMethod).
		Build()
}

// GetAllAgents returns the client classes of the agent module named as the
// configured agent class.
func (m *AgentManager) GetAllAgents() ([]*flow.Codedata, error) {
	mod, err := m.agentModule()
	if err != nil {
		return nil, err
	}
	out := []*flow.Codedata{}
	for _, c := range mod.Classes() {
		if c.HasQualifier(semantic.QualifierClient) && c.Name == m.cfg.AgentClass {
			out = append(out, m.codedata(flow.KindAgent, c.Name))
		}
	}
	return out, nil
}

// GetAllModels returns the client classes of the agent module that include
// the model type.
func (m *AgentManager) GetAllModels() ([]*flow.Codedata, error) {
	mod, err := m.agentModule()
	if err != nil {
		return nil, err
	}
	out := []*flow.Codedata{}
	for _, c := range m.modelClasses(mod) {
		out = append(out, m.codedata(flow.KindClass, c.Name))
	}
	return out, nil
}

func (m *AgentManager) modelClasses(mod *semantic.Symbol) []*semantic.Symbol {
	var out []*semantic.Symbol
	for _, c := range mod.Classes() {
		if c.HasQualifier(semantic.QualifierClient) && includes(c, m.cfg.ModelInclusion) {
			out = append(out, c)
		}
	}
	return out
}

func includes(c *semantic.Symbol, name string) bool {
	for _, inc := range c.Inclusions {
		if inc.Name == name {
			return true
		}
	}
	return false
}

// GetModels returns the type signatures of the module variables holding a
// model the agent accepts. A configured model matches a signature equal to
// it or to prefix:model.
func (m *AgentManager) GetModels(agent string) ([]string, error) {
	models, ok := m.cfg.ModelsForAgent[agent]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownAgent, agent)
	}
	accepted := map[string]bool{}
	for _, model := range models {
		accepted[model] = true
	}
	out := []string{}
	for _, s := range m.model().ModuleSymbols() {
		if s.Kind != semantic.KindVariable || s.Type == nil {
			continue
		}
		sig := s.Type.Signature()
		bare := sig
		if _, local, found := strings.Cut(sig, ":"); found {
			bare = local
		}
		if accepted[sig] || accepted[bare] {
			out = append(out, sig)
		}
	}
	return out, nil
}

// GetCompatibleModels returns the model classes whose inclusions can be
// passed as the model parameter of the agent's init method.
func (m *AgentManager) GetCompatibleModels(agent string) ([]*flow.Codedata, error) {
	mod, err := m.agentModule()
	if err != nil {
		return nil, err
	}
	var agentClass *semantic.Symbol
	for _, c := range mod.Classes() {
		if c.Name == agent && includes(c, m.cfg.BaseAgentInclusion) {
			agentClass = c
			break
		}
	}
	if agentClass == nil {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, agent)
	}
	ctor, ok := agentClass.InitMethod()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoInitMethod, agent)
	}
	if len(ctor.Params) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInitParams, agent)
	}
	param, ok := ctor.Param(m.cfg.ModelParam)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCompatibleModels, agent)
	}
	out := []*flow.Codedata{}
	for _, c := range m.modelClasses(mod) {
		if subTypeOfAny(c.Inclusions, param.Type) {
			out = append(out, m.codedata(flow.KindClass, c.Name))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCompatibleModels, agent)
	}
	return out, nil
}

func subTypeOfAny(types []*semantic.TypeSymbol, target *semantic.TypeSymbol) bool {
	for _, t := range types {
		if semantic.SubTypeOf(t, target) {
			return true
		}
	}
	return false
}

// GetTools returns the names of the module functions in declaration order.
func (m *AgentManager) GetTools() []string {
	out := []string{}
	for _, s := range m.model().ModuleSymbols() {
		if s.Kind == semantic.KindFunction {
			out = append(out, s.Name)
		}
	}
	return out
}

// FindSymbol returns the module symbol named name.
func (m *AgentManager) FindSymbol(ctx context.Context, name string) (*semantic.Symbol, bool) {
	return symbolsearch.FindByName(ctx, m.model().ModuleSymbols(), name)
}
