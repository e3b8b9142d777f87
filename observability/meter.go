package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/dataprep/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment.
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for local development.
func DefaultMeterConfig(serviceName string) *MeterConfig {
	return &MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the global meter provider. The returned provider
// must be shut down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the pipeline instruments.
type Metrics struct {
	executionTotal    metric.Int64Counter
	executionDuration metric.Float64Histogram
	executionActive   metric.Int64UpDownCounter
	rowTotal          metric.Int64Counter
	actionCanceled    metric.Int64Counter
	errorTotal        metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	executionTotal, err := meter.Int64Counter("dataprep.execution.total",
		metric.WithDescription("Total number of pipeline executions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dataprep.execution.total counter: %w", err)
	}

	executionDuration, err := meter.Float64Histogram("dataprep.execution.duration",
		metric.WithDescription("Duration of pipeline executions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dataprep.execution.duration histogram: %w", err)
	}

	executionActive, err := meter.Int64UpDownCounter("dataprep.execution.active",
		metric.WithDescription("Number of running pipeline executions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dataprep.execution.active gauge: %w", err)
	}

	rowTotal, err := meter.Int64Counter("dataprep.rows.total",
		metric.WithDescription("Total number of rows written"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dataprep.rows.total counter: %w", err)
	}

	actionCanceled, err := meter.Int64Counter("dataprep.action.canceled",
		metric.WithDescription("Actions canceled at compile time"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dataprep.action.canceled counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("dataprep.error.total",
		metric.WithDescription("Total errors by code and stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dataprep.error.total counter: %w", err)
	}

	return &Metrics{
		executionTotal:    executionTotal,
		executionDuration: executionDuration,
		executionActive:   executionActive,
		rowTotal:          rowTotal,
		actionCanceled:    actionCanceled,
		errorTotal:        errorTotal,
	}, nil
}

// RecordExecutionStart increments the running execution count.
func (m *Metrics) RecordExecutionStart(ctx context.Context) {
	m.executionActive.Add(ctx, 1)
}

// RecordExecutionEnd decrements running executions and records the finished
// one.
func (m *Metrics) RecordExecutionEnd(ctx context.Context, operation, status string, rows int64, duration time.Duration) {
	m.executionActive.Add(ctx, -1)
	m.executionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.executionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
	))
	m.rowTotal.Add(ctx, rows, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordActionCanceled counts an action canceled at compile time.
func (m *Metrics) RecordActionCanceled(ctx context.Context, action string) {
	m.actionCanceled.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
	))
}

// RecordError records an error by code and stage.
func (m *Metrics) RecordError(ctx context.Context, code, stage string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("stage", stage),
	))
}
