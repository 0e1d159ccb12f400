package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/swissbill/internal/domain/shared/valueobject"
	"github.com/erp/swissbill/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// setupTestTracer installs an in-memory span recorder as the global provider.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})

	return sr
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "isr", "compute")
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())
	telemetry.SetAttributes(span, telemetry.SpanAttrInvoice, "INV/2021/0042")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "isr.compute", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
	assert.Contains(t, spans[0].Attributes(), attribute.String("invoice", "INV/2021/0042"))
}

func TestSetAttributesAndEvents(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "qr", "build_code_url")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrQRIBAN, true,
		telemetry.SpanAttrBatchSize, 3,
		telemetry.SpanAttrCurrency, valueobject.CHF,
		42, "ignored",
		"dangling",
	)
	telemetry.AddEvent(span, "payload_built", telemetry.SpanAttrReferenceType, "QRR")
	telemetry.SetOK(span)
	span.End()

	got := sr.Ended()[0]
	assert.Contains(t, got.Attributes(), attribute.Bool("qr_iban", true))
	assert.Contains(t, got.Attributes(), attribute.Int("batch_size", 3))
	assert.Contains(t, got.Attributes(), attribute.String("currency", "CHF"))
	assert.Len(t, got.Attributes(), 3)
	require.Len(t, got.Events(), 1)
	assert.Equal(t, "payload_built", got.Events()[0].Name)
	assert.Equal(t, codes.Ok, got.Status().Code)
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "isr", "print")
	telemetry.RecordError(span, errors.New("drift"))
	telemetry.RecordError(span, nil)
	span.End()

	got := sr.Ended()[0]
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "drift", got.Status().Description)
}

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.TraceConfig{ServiceName: "test"}, logger)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{ServiceName: "test"}, logger)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{ServiceName: "test"}, logger)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestInstruments(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	in := telemetry.NewInstruments(provider.Meter("test"))
	total := in.Counter("slips_total", "Slips printed", "{slips}")
	active := in.UpDownCounter("slips_active", "Slips being printed", "{slips}")
	latency := in.Histogram("slip_seconds", "Slip latency", "s", telemetry.SmallDurationBuckets)
	require.NoError(t, in.Err())

	total.Add(ctx, 2)
	active.Add(ctx, 1)
	latency.Record(ctx, 0.002)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	assert.Len(t, rm.ScopeMetrics[0].Metrics, 3)
}

func TestInstruments_KeepsErrors(t *testing.T) {
	in := telemetry.NewInstruments(sdkmetric.NewMeterProvider().Meter("test"))

	c := in.Counter("", "invalid name", "1")
	require.NotNil(t, c)
	assert.NotPanics(t, func() { c.Add(context.Background(), 1) })
	assert.Error(t, in.Err())
}

func TestBridge_DisabledReturnsBase(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, telemetry.Bridge(base, nil, "test", zap.InfoLevel))
}

func TestNewBillingMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBillingMetrics(nil, nil)
	assert.Nil(t, bm)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestBillingMetrics_NilReceiver(t *testing.T) {
	var bm *telemetry.BillingMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		bm.RecordReference(ctx, "CHF", true)
		bm.RecordQRPayload(ctx, "QRR", telemetry.OutcomeOK)
		bm.RecordPrint(ctx, telemetry.OutcomeBlocked)
		bm.ObserveDuration(ctx, "compute", time.Now())
	})
}

func TestBillingMetrics_Counts(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	bm, err := telemetry.NewBillingMetrics(provider.Meter("test"), zap.NewNop())
	require.NoError(t, err)

	bm.RecordReference(ctx, "CHF", true)
	bm.RecordReference(ctx, "CHF", true)
	bm.RecordReference(ctx, "EUR", false)
	bm.RecordQRPayload(ctx, "NON", telemetry.OutcomeOK)
	bm.RecordPrint(ctx, telemetry.OutcomeError)
	bm.ObserveDuration(ctx, "compute", time.Now().Add(-time.Millisecond))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	totals := map[string]int64{}
	var histogramSeen bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					totals[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				histogramSeen = true
				require.Len(t, data.DataPoints, 1)
				assert.Equal(t, uint64(1), data.DataPoints[0].Count)
			}
		}
	}

	assert.Equal(t, int64(3), totals["swissbill_isr_reference_total"])
	assert.Equal(t, int64(1), totals["swissbill_qr_payload_total"])
	assert.Equal(t, int64(1), totals["swissbill_isr_print_total"])
	assert.True(t, histogramSeen)
}
