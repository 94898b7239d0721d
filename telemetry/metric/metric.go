//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package metric records operation counts and latencies of the flow model
// service through OpenTelemetry.
package metric

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	itelemetry "trpc.group/trpc-go/trpc-flowmodel-go/internal/telemetry"
)

// Metric names.
const (
	MeterName                 = "flowmodel"
	MetricOperationCount      = "flowmodel.operation.count"
	MetricOperationDuration   = "flowmodel.operation.duration"
	MetricOperationErrorCount = "flowmodel.operation.error.count"
)

var (
	meterProvider     metric.MeterProvider    = noop.NewMeterProvider()
	operationCount    metric.Int64Counter     = noop.Int64Counter{}
	operationErrors   metric.Int64Counter     = noop.Int64Counter{}
	operationDuration metric.Float64Histogram = noop.Float64Histogram{}
)

// InitMeterProvider creates the service instruments from mp.
func InitMeterProvider(mp metric.MeterProvider) error {
	meter := mp.Meter(MeterName)
	count, err := meter.Int64Counter(MetricOperationCount,
		metric.WithDescription("Total number of flow model operations"),
		metric.WithUnit("1"))
	if err != nil {
		return fmt.Errorf("failed to create metric %s: %w", MetricOperationCount, err)
	}
	errs, err := meter.Int64Counter(MetricOperationErrorCount,
		metric.WithDescription("Number of failed flow model operations"),
		metric.WithUnit("1"))
	if err != nil {
		return fmt.Errorf("failed to create metric %s: %w", MetricOperationErrorCount, err)
	}
	duration, err := meter.Float64Histogram(MetricOperationDuration,
		metric.WithDescription("Duration of flow model operations"),
		metric.WithUnit("s"))
	if err != nil {
		return fmt.Errorf("failed to create metric %s: %w", MetricOperationDuration, err)
	}
	meterProvider = mp
	operationCount, operationErrors, operationDuration = count, errs, duration
	return nil
}

// GetMeterProvider returns the installed meter provider.
func GetMeterProvider() metric.MeterProvider {
	return meterProvider
}

// RecordOperation records one finished operation.
func RecordOperation(ctx context.Context, operation string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String(itelemetry.KeyOperation, operation))
	operationCount.Add(ctx, 1, attrs)
	operationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		operationErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String(itelemetry.KeyOperation, operation),
			attribute.String(itelemetry.KeyErrorType, fmt.Sprintf("%T", err)),
		))
	}
}

// NewMeterProvider creates an OTLP exporting meter provider.
// OTEL_EXPORTER_OTLP_METRICS_ENDPOINT and OTEL_EXPORTER_OTLP_ENDPOINT are
// consulted when no endpoint option is given.
func NewMeterProvider(ctx context.Context, opts ...Option) (*sdkmetric.MeterProvider, error) {
	o := &options{
		serviceName:      itelemetry.ServiceName,
		serviceVersion:   itelemetry.ServiceVersion,
		serviceNamespace: itelemetry.ServiceNamespace,
		protocol:         itelemetry.ProtocolGRPC,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.endpoint == "" {
		o.endpoint = metricsEndpoint(o.protocol)
	}

	res, err := itelemetry.BuildResource(ctx, itelemetry.ResourceOptions{
		ServiceName:      o.serviceName,
		ServiceVersion:   o.serviceVersion,
		ServiceNamespace: o.serviceNamespace,
		Attributes:       o.attributes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var mp *sdkmetric.MeterProvider
	switch o.protocol {
	case itelemetry.ProtocolHTTP:
		mp, err = newHTTPMeterProvider(ctx, res, o.endpoint)
	default:
		mp, err = newGRPCMeterProvider(ctx, res, o.endpoint)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}
	return mp, nil
}

func metricsEndpoint(protocol string) string {
	return itelemetry.Endpoint("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", protocol)
}

func newHTTPMeterProvider(ctx context.Context, res *resource.Resource, endpoint string) (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	), nil
}

func newGRPCMeterProvider(ctx context.Context, res *resource.Resource, endpoint string) (*sdkmetric.MeterProvider, error) {
	conn, err := itelemetry.NewGRPCConn(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics connection: %w", err)
	}
	exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	), nil
}

// Option configures NewMeterProvider.
type Option func(*options)

type options struct {
	endpoint         string
	protocol         string
	serviceName      string
	serviceVersion   string
	serviceNamespace string
	attributes       []attribute.KeyValue
}

// WithEndpoint sets the collector host:port.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithProtocol selects "grpc" (default) or "http".
func WithProtocol(protocol string) Option {
	return func(o *options) {
		o.protocol = protocol
	}
}

// WithResourceAttributes appends custom resource attributes.
func WithResourceAttributes(attrs ...attribute.KeyValue) Option {
	return func(o *options) {
		o.attributes = append(o.attributes, attrs...)
	}
}
