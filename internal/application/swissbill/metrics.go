package swissbill

import (
	"context"
	"time"
)

// MetricsRecorder receives the outcome of billing operations.
// *telemetry.BillingMetrics implements it.
type MetricsRecorder interface {
	RecordReference(ctx context.Context, currency string, ok bool)
	RecordQRPayload(ctx context.Context, referenceType, outcome string)
	RecordPrint(ctx context.Context, outcome string)
	ObserveDuration(ctx context.Context, operation string, start time.Time)
}

type nopRecorder struct{}

func (nopRecorder) RecordReference(context.Context, string, bool) {}
func (nopRecorder) RecordQRPayload(context.Context, string, string) {}
func (nopRecorder) RecordPrint(context.Context, string) {}
func (nopRecorder) ObserveDuration(context.Context, string, time.Time) {}
