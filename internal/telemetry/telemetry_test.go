//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/grpc"
)

func TestEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	assert.Equal(t, "localhost:4317", Endpoint("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", ProtocolGRPC))
	assert.Equal(t, "localhost:4318", Endpoint("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", ProtocolHTTP))

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")
	assert.Equal(t, "collector:4317", Endpoint("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", ProtocolGRPC))

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "traces:4317")
	assert.Equal(t, "traces:4317", Endpoint("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", ProtocolGRPC))
}

func TestNewGRPCConn(t *testing.T) {
	orig := grpcDial
	defer func() { grpcDial = orig }()

	var target string
	grpcDial = func(endpoint string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
		target = endpoint
		assert.NotEmpty(t, opts)
		return nil, errors.New("dial failed")
	}
	_, err := NewGRPCConn("collector:4317")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial failed")
	assert.Equal(t, "collector:4317", target)
}

func TestBuildResource(t *testing.T) {
	res, err := BuildResource(context.Background(), ResourceOptions{
		ServiceName:      ServiceName,
		ServiceVersion:   ServiceVersion,
		ServiceNamespace: ServiceNamespace,
		Attributes:       []attribute.KeyValue{attribute.String("deployment.environment", "test")},
	})
	require.NoError(t, err)
	v, ok := res.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, ServiceName, v.AsString())
	v, ok = res.Set().Value("deployment.environment")
	require.True(t, ok)
	assert.Equal(t, "test", v.AsString())
}
