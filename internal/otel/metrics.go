package otel

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// MetricsConfig holds configuration for the OpenTelemetry metrics.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active. Default: false (no-op).
	Enabled bool

	// ServiceName is the name of the service for metric attribution.
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// ExporterType specifies which exporter to use.
	ExporterType ExporterType

	// OTLPEndpoint is the endpoint for OTLP exporters (e.g., "localhost:4317").
	OTLPEndpoint string

	// OTLPInsecure disables TLS for OTLP connections.
	OTLPInsecure bool

	// Attributes are additional attributes to add to all metrics.
	Attributes map[string]string
}

// DefaultMetricsConfig returns a default configuration with metrics disabled.
func DefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Enabled:      false,
		ServiceName:  "fogmesh",
		ExporterType: ExporterNone,
	}
}

// Metrics wraps OpenTelemetry metrics functionality with fogmesh-specific helpers.
type Metrics struct {
	config                *MetricsConfig
	meterProvider         *sdkmetric.MeterProvider
	meter                 metric.Meter
	shutdown              func(context.Context) error
	mu                    sync.RWMutex
	currentQueueDepth     atomic.Int64
	queueDepthCallback    metric.Int64ObservableGauge
	queueDepthCallbackReg metric.Registration

	// Metric instruments
	windowsProcessed   metric.Int64Counter
	packetsScheduled   metric.Int64Counter
	codingDegree       metric.Int64Histogram
	aggregateDirective metric.Int64Counter
	errorCounter       metric.Int64Counter
}

// globalMetrics is the singleton metrics instance.
var (
	globalMetrics   *Metrics
	globalMetricsMu sync.RWMutex
)

// NewMetrics creates a new Metrics instance with the given configuration.
func NewMetrics(ctx context.Context, cfg *MetricsConfig) (*Metrics, error) {
	if cfg == nil {
		cfg = DefaultMetricsConfig()
	}

	m := &Metrics{
		config: cfg,
	}

	if !cfg.Enabled || cfg.ExporterType == ExporterNone {
		// Use no-op meter when disabled
		m.meterProvider = sdkmetric.NewMeterProvider()
		m.meter = m.meterProvider.Meter(cfg.ServiceName)
		m.shutdown = func(context.Context) error { return nil }
		return m, nil
	}

	// Create exporter based on type
	exporter, err := m.createExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics exporter: %w", err)
	}

	// Create resource with service information
	res, err := m.createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics resource: %w", err)
	}

	// Create meter provider
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)

	m.meterProvider = mp
	m.meter = mp.Meter(cfg.ServiceName)
	m.shutdown = mp.Shutdown

	// Register metric instruments
	if err := m.registerInstruments(); err != nil {
		return nil, fmt.Errorf("failed to register metric instruments: %w", err)
	}

	return m, nil
}

// createExporter creates the appropriate metrics exporter based on configuration.
func (m *Metrics) createExporter(ctx context.Context, cfg *MetricsConfig) (sdkmetric.Exporter, error) {
	switch cfg.ExporterType {
	case ExporterStdout:
		return stdoutmetric.New()

	case ExporterOTLPGRPC:
		opts := []otlpmetricgrpc.Option{}
		if cfg.OTLPEndpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint))
		}
		if cfg.OTLPInsecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		return otlpmetricgrpc.New(ctx, opts...)

	case ExporterOTLPHTTP:
		opts := []otlpmetrichttp.Option{}
		if cfg.OTLPEndpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(cfg.OTLPEndpoint))
		}
		if cfg.OTLPInsecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)

	default:
		return nil, fmt.Errorf("unknown exporter type: %s", cfg.ExporterType)
	}
}

// createResource creates the OpenTelemetry resource with service information.
func (m *Metrics) createResource(cfg *MetricsConfig) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
	}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	// Add custom attributes
	for k, v := range cfg.Attributes {
		attrs = append(attrs, attribute.String(k, v))
	}

	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes("", attrs...),
	)
}

// registerInstruments creates and registers all metric instruments.
func (m *Metrics) registerInstruments() error {
	var err error

	m.windowsProcessed, err = m.meter.Int64Counter(
		"fogmesh.windows.processed",
		metric.WithDescription("Count of windows processed by the fog node"),
	)
	if err != nil {
		return fmt.Errorf("failed to create windows processed counter: %w", err)
	}

	m.packetsScheduled, err = m.meter.Int64Counter(
		"fogmesh.packets.scheduled",
		metric.WithDescription("Count of packets selected by the scheduler"),
	)
	if err != nil {
		return fmt.Errorf("failed to create packets scheduled counter: %w", err)
	}

	m.codingDegree, err = m.meter.Int64Histogram(
		"fogmesh.coding.degree",
		metric.WithDescription("Distribution of coding degree chosen per window"),
	)
	if err != nil {
		return fmt.Errorf("failed to create coding degree histogram: %w", err)
	}

	m.aggregateDirective, err = m.meter.Int64Counter(
		"fogmesh.aggregate.directive",
		metric.WithDescription("Count of feedback directives emitted, by adjust_dt sign"),
	)
	if err != nil {
		return fmt.Errorf("failed to create aggregate directive counter: %w", err)
	}

	m.errorCounter, err = m.meter.Int64Counter(
		"fogmesh.errors",
		metric.WithDescription("Count of errors by category"),
	)
	if err != nil {
		return fmt.Errorf("failed to create error counter: %w", err)
	}

	// Current window-buffer depth observable gauge
	m.queueDepthCallback, err = m.meter.Int64ObservableGauge(
		"fogmesh.window_buffer.depth",
		metric.WithDescription("Number of packets currently buffered in the active window"),
	)
	if err != nil {
		return fmt.Errorf("failed to create window buffer depth gauge: %w", err)
	}

	m.queueDepthCallbackReg, err = m.meter.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(m.queueDepthCallback, m.currentQueueDepth.Load())
			return nil
		},
		m.queueDepthCallback,
	)
	if err != nil {
		return fmt.Errorf("failed to register window buffer depth callback: %w", err)
	}

	return nil
}

// RecordWindowProcessed records one window having completed processing,
// with the chosen coding scheme as an attribute.
func (m *Metrics) RecordWindowProcessed(ctx context.Context, scheme string) {
	if m.windowsProcessed == nil {
		return
	}
	m.windowsProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("coding_scheme", scheme),
	))
}

// RecordPacketsScheduled records how many packets the scheduler selected
// out of a window.
func (m *Metrics) RecordPacketsScheduled(ctx context.Context, count int) {
	if m.packetsScheduled == nil {
		return
	}
	m.packetsScheduled.Add(ctx, int64(count))
}

// RecordCodingDegree records the coding degree chosen for a window.
func (m *Metrics) RecordCodingDegree(ctx context.Context, degree int) {
	if m.codingDegree == nil {
		return
	}
	m.codingDegree.Record(ctx, int64(degree))
}

// RecordAggregateDirective records a feedback directive's adjust_dt sign.
func (m *Metrics) RecordAggregateDirective(ctx context.Context, adjustDt int) {
	if m.aggregateDirective == nil {
		return
	}
	sign := "increase"
	if adjustDt < 0 {
		sign = "decrease"
	}
	m.aggregateDirective.Add(ctx, 1, metric.WithAttributes(
		attribute.String("direction", sign),
	))
}

// RecordError records an error with the specified category.
func (m *Metrics) RecordError(ctx context.Context, category string) {
	if m.errorCounter == nil {
		return
	}

	m.errorCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category),
	))
}

// SetWindowBufferDepth sets the current window-buffer depth for the
// observable gauge. Thread-safe; read by the gauge callback.
func (m *Metrics) SetWindowBufferDepth(depth int) {
	m.currentQueueDepth.Store(int64(depth))
}

// Shutdown gracefully shuts down the metrics provider, flushing any pending metrics.
func (m *Metrics) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.queueDepthCallbackReg != nil {
		if err := m.queueDepthCallbackReg.Unregister(); err != nil {
			return fmt.Errorf("failed to unregister window buffer depth callback: %w", err)
		}
	}

	if m.shutdown != nil {
		return m.shutdown(ctx)
	}
	return nil
}

// Enabled returns whether metrics collection is enabled.
func (m *Metrics) Enabled() bool {
	return m.config.Enabled && m.config.ExporterType != ExporterNone
}

// MeterProvider returns the underlying meter provider.
func (m *Metrics) MeterProvider() *sdkmetric.MeterProvider {
	return m.meterProvider
}

// SetGlobalMetrics sets the global metrics instance.
func SetGlobalMetrics(m *Metrics) {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	globalMetrics = m

	if m != nil && m.Enabled() {
		otel.SetMeterProvider(m.meterProvider)
	}
}

// GetGlobalMetrics returns the global metrics instance.
// Returns a no-op metrics instance if none has been set.
func GetGlobalMetrics() *Metrics {
	globalMetricsMu.RLock()
	defer globalMetricsMu.RUnlock()

	if globalMetrics == nil {
		// Return a no-op metrics instance
		cfg := DefaultMetricsConfig()
		m := &Metrics{
			config:        cfg,
			meterProvider: sdkmetric.NewMeterProvider(),
			shutdown:      func(context.Context) error { return nil },
		}
		m.meter = m.meterProvider.Meter(cfg.ServiceName)
		return m
	}

	return globalMetrics
}

// NoopMetrics returns a metrics instance that does nothing (for testing or when disabled).
func NoopMetrics() *Metrics {
	cfg := DefaultMetricsConfig()
	mp := sdkmetric.NewMeterProvider()
	return &Metrics{
		config:        cfg,
		meterProvider: mp,
		meter:         mp.Meter(cfg.ServiceName),
		shutdown:      func(context.Context) error { return nil },
	}
}
