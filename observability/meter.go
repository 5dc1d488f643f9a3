package observability

import (
	"cmp"
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/voicy/logger"
)

// InitMeter installs a periodic OTLP meter provider globally.
func InitMeter(ctx context.Context, cfg Config, svc Service) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}
	res, err := svc.resource()
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cmp.Or(cfg.Interval, 15*time.Second)))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithResource(res))
	otel.SetMeterProvider(mp)

	logger.Info("metrics enabled", logger.Fields("endpoint", cfg.Endpoint, "interval", cfg.Interval.String()))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the bot's instruments.
type Metrics struct {
	pipelineTotal    metric.Int64Counter
	pipelineDuration metric.Float64Histogram
	pipelineActive   metric.Int64UpDownCounter
	engineTotal      metric.Int64Counter
	engineDuration   metric.Float64Histogram
	faultTotal       metric.Int64Counter
	updateTotal      metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.pipelineTotal, err = meter.Int64Counter("voicy.pipeline.total",
		metric.WithDescription("Processed voice messages by engine and outcome"),
	); err != nil {
		return nil, fmt.Errorf("creating voicy.pipeline.total counter: %w", err)
	}
	if m.pipelineDuration, err = meter.Float64Histogram("voicy.pipeline.duration",
		metric.WithDescription("Time from receipt to terminal outcome"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating voicy.pipeline.duration histogram: %w", err)
	}
	if m.pipelineActive, err = meter.Int64UpDownCounter("voicy.pipeline.active",
		metric.WithDescription("Voice messages currently in flight"),
	); err != nil {
		return nil, fmt.Errorf("creating voicy.pipeline.active gauge: %w", err)
	}
	if m.engineTotal, err = meter.Int64Counter("voicy.engine.requests",
		metric.WithDescription("Recognition engine calls by engine and status"),
	); err != nil {
		return nil, fmt.Errorf("creating voicy.engine.requests counter: %w", err)
	}
	if m.engineDuration, err = meter.Float64Histogram("voicy.engine.duration",
		metric.WithDescription("Recognition engine latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating voicy.engine.duration histogram: %w", err)
	}
	if m.faultTotal, err = meter.Int64Counter("voicy.faults",
		metric.WithDescription("Reported faults by phase"),
	); err != nil {
		return nil, fmt.Errorf("creating voicy.faults counter: %w", err)
	}
	if m.updateTotal, err = meter.Int64Counter("voicy.updates",
		metric.WithDescription("Incoming updates by source and disposition"),
	); err != nil {
		return nil, fmt.Errorf("creating voicy.updates counter: %w", err)
	}
	return &m, nil
}

// InFlight moves the in-flight gauge by delta.
func (m *Metrics) InFlight(ctx context.Context, delta int64) {
	m.pipelineActive.Add(ctx, delta)
}

// ObservePipeline records one finished request.
func (m *Metrics) ObservePipeline(ctx context.Context, engine, outcome string, elapsed time.Duration) {
	m.pipelineTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("engine", engine),
		attribute.String("outcome", outcome),
	))
	m.pipelineDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("engine", engine),
	))
}

// ObserveEngine records one recognition call.
func (m *Metrics) ObserveEngine(ctx context.Context, engine, status string, elapsed time.Duration) {
	m.engineTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("engine", engine),
		attribute.String("status", status),
	))
	m.engineDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("engine", engine),
	))
}

// RecordFault counts a reported fault.
func (m *Metrics) RecordFault(ctx context.Context, phase string) {
	m.faultTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("phase", phase)))
}

// RecordUpdate counts an incoming update; disposition is e.g. "dispatched" or "skipped".
func (m *Metrics) RecordUpdate(ctx context.Context, source, disposition string) {
	m.updateTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("disposition", disposition),
	))
}
