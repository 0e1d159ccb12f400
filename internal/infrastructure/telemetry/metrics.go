package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const defaultExportInterval = time.Minute

// MetricsConfig selects the metric pipeline.
type MetricsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ExportInterval    time.Duration // one minute when zero
	ServiceName       string
	Insecure          bool
}

// MeterProvider owns the OTLP metric pipeline. The zero value is disabled and
// hands out meters of the global provider.
type MeterProvider struct {
	sdk *sdkmetric.MeterProvider
}

// NewMeterProvider pushes metrics to the collector every ExportInterval and
// installs itself as the global provider.
func NewMeterProvider(ctx context.Context, cfg MetricsConfig, log *zap.Logger) (*MeterProvider, error) {
	if !cfg.Enabled {
		log.Info("Metrics disabled")
		return &MeterProvider{}, nil
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = defaultExportInterval
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	sdk := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(sdk)

	log.Info("Metrics enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", interval),
	)
	return &MeterProvider{sdk: sdk}, nil
}

// IsEnabled reports whether metrics are exported.
func (mp *MeterProvider) IsEnabled() bool {
	return mp != nil && mp.sdk != nil
}

// Meter returns the named meter of the pipeline, or of the global provider when
// the pipeline is disabled.
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if !mp.IsEnabled() {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.sdk.Meter(name, opts...)
}

// Shutdown pushes the last collection and stops the pipeline.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if !mp.IsEnabled() {
		return nil
	}
	return flush(ctx, "metric", mp.sdk.Shutdown)
}

// Instruments registers instruments on one meter and keeps every registration
// error for Err. A failed registration yields a no-op instrument, so callers can
// build a whole set before checking.
//
//	in := telemetry.NewInstruments(meter)
//	total := in.Counter("swissbill_isr_reference_total", "Number of ISR references computed", "{references}")
//	if err := in.Err(); err != nil {
//		return nil, err
//	}
type Instruments struct {
	meter metric.Meter
	errs  []error
}

// NewInstruments returns an Instruments registering on meter.
func NewInstruments(meter metric.Meter) *Instruments {
	return &Instruments{meter: meter}
}

// Counter registers a monotonic int64 counter.
func (in *Instruments) Counter(name, description, unit string) metric.Int64Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("counter %s: %w", name, err))
		return noop.Int64Counter{}
	}
	return c
}

// UpDownCounter registers an int64 counter that may decrease.
func (in *Instruments) UpDownCounter(name, description, unit string) metric.Int64UpDownCounter {
	c, err := in.meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("up-down counter %s: %w", name, err))
		return noop.Int64UpDownCounter{}
	}
	return c
}

// Histogram registers a float64 histogram with explicit bucket boundaries.
func (in *Instruments) Histogram(name, description, unit string, buckets []float64) metric.Float64Histogram {
	h, err := in.meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("histogram %s: %w", name, err))
		return noop.Float64Histogram{}
	}
	return h
}

// Err joins the registration errors so far, or returns nil.
func (in *Instruments) Err() error {
	return errors.Join(in.errs...)
}

// Attribute keys shared by the billing and HTTP metrics.
var (
	AttrOperation = attribute.Key("operation")
	AttrCurrency  = attribute.Key("currency")
	AttrOutcome   = attribute.Key("outcome")
	AttrRefType   = attribute.Key("reference_type")

	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrHTTPRoute      = attribute.Key("http.route")
)

// Bucket boundaries, in seconds for durations and bytes for sizes.
var (
	SmallDurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1}
	HTTPDurationBuckets  = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	BodySizeBuckets      = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000}
)
