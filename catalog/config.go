//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config names the agent module and the agent and model catalog it
// offers.
type Config struct {
	// AgentOrg and AgentModule identify the agent module.
	AgentOrg    string `yaml:"agent_org"`
	AgentModule string `yaml:"agent_module"`
	// AgentFile is the document generated tools are written to.
	AgentFile string `yaml:"agent_file"`
	// AgentClass is the name of the client class offered as agent.
	AgentClass string `yaml:"agent_class"`
	// ModelInclusion is the type model classes include.
	ModelInclusion string `yaml:"model_inclusion"`
	// BaseAgentInclusion is the type agent implementations include.
	BaseAgentInclusion string `yaml:"base_agent_inclusion"`
	// ModelParam is the init parameter of an agent taking its model.
	ModelParam string `yaml:"model_param"`
	// ModelsForAgent lists the model types each agent accepts.
	ModelsForAgent map[string][]string `yaml:"models_for_agent"`
}

// DefaultConfig returns the catalog of the ballerinax/ai.agent module.
func DefaultConfig() Config {
	return Config{
		AgentOrg:           "ballerinax",
		AgentModule:        "ai.agent",
		AgentFile:          "agents.bal",
		AgentClass:         "Agent",
		ModelInclusion:     "Model",
		BaseAgentInclusion: "BaseAgent",
		ModelParam:         "model",
		ModelsForAgent: map[string][]string{
			"FunctionCallAgent": {"ChatGptModel", "AzureChatGptModel"},
			"ReActAgent":        {"ChatGptModel", "AzureChatGptModel"},
		},
	}
}

// ParseConfig reads a YAML catalog. Missing keys keep their default.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse catalog config: %w", err)
	}
	return cfg, nil
}
