package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Outcomes recorded on billing operations.
const (
	OutcomeOK      = "ok"
	OutcomeBlocked = "blocked"
	OutcomeError   = "error"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("NewBillingMetrics: meter cannot be nil")

// BillingMetrics counts generated payment slips and QR-bills. A nil
// *BillingMetrics records nothing.
type BillingMetrics struct {
	references metric.Int64Counter
	qrPayloads metric.Int64Counter
	prints     metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewBillingMetrics registers the billing instruments on meter.
func NewBillingMetrics(meter metric.Meter, log *zap.Logger) (*BillingMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	in := NewInstruments(meter)
	bm := &BillingMetrics{
		references: in.Counter("swissbill_isr_reference_total", "Number of ISR references computed", "{references}"),
		qrPayloads: in.Counter("swissbill_qr_payload_total", "Number of QR-bill payloads requested", "{payloads}"),
		prints:     in.Counter("swissbill_isr_print_total", "Number of ISR print requests", "{prints}"),
		duration: in.Histogram("swissbill_operation_duration_seconds", "Duration of billing operations", "s",
			SmallDurationBuckets),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}

	if log != nil {
		log.Debug("Billing metrics registered")
	}
	return bm, nil
}

// RecordReference counts one reference computation; ok is false when no reference
// could be produced.
func (bm *BillingMetrics) RecordReference(ctx context.Context, currency string, ok bool) {
	if bm == nil {
		return
	}
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeBlocked
	}
	bm.references.Add(ctx, 1, metric.WithAttributes(AttrCurrency.String(currency), AttrOutcome.String(outcome)))
}

// RecordQRPayload counts one QR-bill payload request.
func (bm *BillingMetrics) RecordQRPayload(ctx context.Context, referenceType, outcome string) {
	if bm == nil {
		return
	}
	bm.qrPayloads.Add(ctx, 1, metric.WithAttributes(AttrRefType.String(referenceType), AttrOutcome.String(outcome)))
}

// RecordPrint counts one ISR print request.
func (bm *BillingMetrics) RecordPrint(ctx context.Context, outcome string) {
	if bm == nil {
		return
	}
	bm.prints.Add(ctx, 1, metric.WithAttributes(AttrOutcome.String(outcome)))
}

// ObserveDuration records how long operation took since start.
func (bm *BillingMetrics) ObserveDuration(ctx context.Context, operation string, start time.Time) {
	if bm == nil {
		return
	}
	bm.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(AttrOperation.String(operation)))
}
