//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package config loads the service configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"trpc.group/trpc-go/trpc-flowmodel-go/catalog"
)

// Environment variables overriding file values.
const (
	EnvAddr     = "FLOWMODEL_ADDR"
	EnvLogLevel = "FLOWMODEL_LOG_LEVEL"
	EnvProject  = "FLOWMODEL_PROJECT"
)

// Defaults.
const (
	DefaultAddr     = ":8090"
	DefaultLogLevel = "info"
	DefaultProtocol = "grpc"
)

// Config is the service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	// Project is the root of the project served.
	Project string         `yaml:"project"`
	Catalog catalog.Config `yaml:"catalog"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// AllowedOrigins lists CORS origins; empty allows every origin.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// TelemetryConfig configures the OTLP exporters. Telemetry stays off
// unless Enabled is set.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Protocol string `yaml:"protocol"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Addr: DefaultAddr},
		Log:       LogConfig{Level: DefaultLogLevel},
		Telemetry: TelemetryConfig{Protocol: DefaultProtocol},
		Project:   ".",
		Catalog:   catalog.DefaultConfig(),
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvProject); v != "" {
		c.Project = v
	}
}
