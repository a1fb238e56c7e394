// Package observability provides OpenTelemetry tracing and metrics for
// executable invocations. The default providers are no-ops until the host
// program installs real ones, so wiring telemetry into a runner is free when
// unused.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry records spans and execution metrics for the runner.
type Telemetry interface {
	// StartSpan starts a trace span; the returned function ends it.
	StartSpan(ctx context.Context, name string) (context.Context, func())

	// RecordExecution records the outcome of one invocation.
	RecordExecution(ctx context.Context, rec ExecutionRecord)
}

// ExecutionRecord describes one finished invocation.
type ExecutionRecord struct {
	// Path is the resolved executable path.
	Path string

	// ExitCode is the process exit code.
	ExitCode int

	// TimedOut reports termination by the timeout deadline.
	TimedOut bool

	// Duration is the wall clock execution time.
	Duration time.Duration
}

// Config configures telemetry.
type Config struct {
	// ServiceName names the tracer and meter.
	ServiceName string

	// MetricsPrefix prefixes all metric names.
	MetricsPrefix string

	// EnableTracing enables span creation.
	EnableTracing bool

	// EnableMetrics enables metric recording.
	EnableMetrics bool
}

// DefaultConfig returns the default telemetry configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:   "skoglib",
		MetricsPrefix: "skoglib_",
		EnableTracing: true,
		EnableMetrics: true,
	}
}

// telemetry implements Telemetry against the global otel providers.
type telemetry struct {
	config       Config
	tracer       trace.Tracer
	durationHist metric.Float64Histogram
	execCounter  metric.Int64Counter
}

// New creates a Telemetry backed by the global OpenTelemetry providers.
func New(config Config) (Telemetry, error) {
	t := &telemetry{
		config: config,
		tracer: otel.Tracer(config.ServiceName),
	}

	meter := otel.Meter(config.ServiceName)

	var err error
	t.durationHist, err = meter.Float64Histogram(
		config.MetricsPrefix+"execution_duration_seconds",
		metric.WithDescription("Wall clock duration of executable invocations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	t.execCounter, err = meter.Int64Counter(
		config.MetricsPrefix+"executions_total",
		metric.WithDescription("Total executable invocations"),
	)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// StartSpan starts a span when tracing is enabled.
func (t *telemetry) StartSpan(ctx context.Context, name string) (context.Context, func()) {
	if !t.config.EnableTracing {
		return ctx, func() {}
	}
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, func() { span.End() }
}

// RecordExecution records the duration histogram and invocation counter.
func (t *telemetry) RecordExecution(ctx context.Context, rec ExecutionRecord) {
	if !t.config.EnableMetrics {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("path", rec.Path),
		attribute.Int("exit_code", rec.ExitCode),
		attribute.Bool("timed_out", rec.TimedOut),
	)
	t.durationHist.Record(ctx, rec.Duration.Seconds(), attrs)
	t.execCounter.Add(ctx, 1, attrs)
}
