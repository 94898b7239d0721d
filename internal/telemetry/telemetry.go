//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry holds state shared by the trace and metric packages.
package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// grpcDial is swapped in tests.
var grpcDial = grpc.Dial

// Service identity reported on every exported resource.
const (
	ServiceName      = "flowmodel"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "trpc-go-flowmodel"
	InstrumentName   = "trpc.flowmodel.go"
)

const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// Span and metric attribute keys.
const (
	KeyOperation = "flowmodel.operation"
	KeyNodeKind  = "flowmodel.node.kind"
	KeyFilePath  = "flowmodel.file.path"
	KeyErrorType = "error.type"
)

// NewGRPCConn dials the collector without transport security.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	conn, err := grpcDial(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}
	return conn, nil
}

// Endpoint picks the signal specific variable, then the generic one, then
// the protocol default.
func Endpoint(signalEnv, protocol string) string {
	if endpoint := os.Getenv(signalEnv); endpoint != "" {
		return endpoint
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	if protocol == ProtocolHTTP {
		return "localhost:4318"
	}
	return "localhost:4317"
}

// ResourceOptions carries the service identity for BuildResource.
type ResourceOptions struct {
	ServiceName      string
	ServiceVersion   string
	ServiceNamespace string
	Attributes       []attribute.KeyValue
}

// BuildResource creates the OTel resource for exporters.
func BuildResource(ctx context.Context, o ResourceOptions) (*resource.Resource, error) {
	opts := []resource.Option{
		resource.WithAttributes(
			semconv.ServiceNamespace(o.ServiceNamespace),
			semconv.ServiceName(o.ServiceName),
			semconv.ServiceVersion(o.ServiceVersion),
		),
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
	}
	if len(o.Attributes) > 0 {
		opts = append(opts, resource.WithAttributes(o.Attributes...))
	}
	return resource.New(ctx, opts...)
}
