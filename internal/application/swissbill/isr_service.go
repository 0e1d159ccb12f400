// Package swissbill exposes the Swiss payment slip operations (ISR references,
// optical lines, QR-bill payloads) as traced, logged and measured services.
package swissbill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/swissbill/internal/domain/isr"
	"github.com/erp/swissbill/internal/domain/shared"
	"github.com/erp/swissbill/internal/infrastructure/logger"
	"github.com/erp/swissbill/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrBatchTooLarge is returned when a batch exceeds the configured limit.
var ErrBatchTooLarge = shared.NewDomainError("BATCH_TOO_LARGE", "Too many invoices in one batch")

// ISRResult is the ISR data computed for one invoice. Absent values are empty.
type ISRResult struct {
	InvoiceName           string `json:"invoice_name"`
	Reference             string `json:"reference,omitempty"`
	ReferenceSpaced       string `json:"reference_spaced,omitempty"`
	Subscription          string `json:"subscription,omitempty"`
	SubscriptionFormatted string `json:"subscription_formatted,omitempty"`
	OpticalLine           string `json:"optical_line,omitempty"`
	ISRValid              bool   `json:"isr_valid"`
}

// ReferenceResult is a reference computed from a sequence name alone.
type ReferenceResult struct {
	Reference       string `json:"reference"`
	ReferenceSpaced string `json:"reference_spaced"`
}

// ISRService computes ISR references and optical lines and checks print preconditions.
type ISRService struct {
	logger     *zap.Logger
	metrics    MetricsRecorder
	batchLimit int
}

// ISROption configures an ISRService
type ISROption func(*ISRService)

// WithISRMetrics records outcomes on m.
func WithISRMetrics(m MetricsRecorder) ISROption {
	return func(s *ISRService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithBatchLimit caps ComputeBatch; zero means no limit.
func WithBatchLimit(limit int) ISROption {
	return func(s *ISRService) {
		s.batchLimit = limit
	}
}

// NewISRService creates a new ISRService
func NewISRService(log *zap.Logger, opts ...ISROption) *ISRService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ISRService{
		logger:  log,
		metrics: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reference computes the reference of a sequence name and optional id-number.
func (s *ISRService) Reference(ctx context.Context, sequenceName, idNumber string) (*ReferenceResult, bool) {
	ctx, span := telemetry.StartServiceSpan(ctx, "isr", "reference")
	defer span.End()

	ref, ok := isr.ComputeReference(sequenceName, idNumber)
	s.metrics.RecordReference(ctx, "", ok)
	if !ok {
		telemetry.AddEvent(span, "reference_absent")
		return nil, false
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrReference, ref)
	return &ReferenceResult{Reference: ref, ReferenceSpaced: isr.SpaceReference(ref)}, true
}

// Compute derives every ISR value of inv.
func (s *ISRService) Compute(ctx context.Context, inv isr.Invoice) ISRResult {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "isr", "compute")
	defer span.End()
	defer s.metrics.ObserveDuration(ctx, "isr.compute", start)

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoice, inv.Name,
		telemetry.SpanAttrMoveType, string(inv.MoveType),
		telemetry.SpanAttrCurrency, inv.Currency.String(),
	)

	res := compute(inv)
	s.metrics.RecordReference(ctx, inv.Currency.String(), res.Reference != "")

	logger.FromContextOr(ctx, s.logger).Debug("ISR computed",
		zap.String("invoice", inv.Name),
		zap.Bool("has_reference", res.Reference != ""),
		zap.Bool("isr_valid", res.ISRValid),
	)
	return res
}

// ComputeBatch computes every invoice independently, preserving order.
func (s *ISRService) ComputeBatch(ctx context.Context, invoices []isr.Invoice) ([]ISRResult, error) {
	if s.batchLimit > 0 && len(invoices) > s.batchLimit {
		return nil, fmt.Errorf("%w: %d invoices, limit is %d", ErrBatchTooLarge, len(invoices), s.batchLimit)
	}

	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "isr", "compute_batch")
	defer span.End()
	defer s.metrics.ObserveDuration(ctx, "isr.compute_batch", start)

	telemetry.SetAttributes(span, telemetry.SpanAttrBatchSize, len(invoices))

	results := make([]ISRResult, len(invoices))
	for i, inv := range invoices {
		results[i] = compute(inv)
		s.metrics.RecordReference(ctx, inv.Currency.String(), results[i].Reference != "")
	}
	return results, nil
}

func compute(inv isr.Invoice) ISRResult {
	res := ISRResult{
		InvoiceName:           inv.Name,
		Subscription:          inv.Subscription(),
		SubscriptionFormatted: inv.SubscriptionFormatted(),
		ISRValid:              inv.ISRValid(),
	}
	if ref, ok := inv.Reference(); ok {
		res.Reference = ref
		res.ReferenceSpaced = isr.SpaceReference(ref)
	}
	if line, ok := inv.OpticalLine(); ok {
		res.OpticalLine = line
	}
	return res
}

// Print checks the print preconditions of inv. Blockers come back as a
// *shared.ValidationErrors; a validity drift is logged at error level.
func (s *ISRService) Print(ctx context.Context, inv isr.Invoice) (*isr.PrintAction, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "isr", "print")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoice, inv.Name,
		telemetry.SpanAttrCurrency, inv.Currency.String(),
	)
	log := logger.Traced(ctx, logger.FromContextOr(ctx, s.logger)).With(zap.String("invoice", inv.Name))

	action, err := isr.PrintISR(inv)
	if err != nil {
		var blockers *shared.ValidationErrors
		switch {
		case errors.As(err, &blockers):
			s.metrics.RecordPrint(ctx, telemetry.OutcomeBlocked)
			telemetry.AddEvent(span, "print_blocked", "blockers", blockers.Problems)
			log.Warn("ISR print blocked", zap.Strings("blockers", blockers.Problems))
		default:
			s.metrics.RecordPrint(ctx, telemetry.OutcomeError)
			telemetry.RecordError(span, err)
			log.Error("ISR validity drift", zap.Error(err))
		}
		return nil, err
	}

	s.metrics.RecordPrint(ctx, telemetry.OutcomeOK)
	telemetry.SetOK(span)
	log.Info("ISR print allowed", zap.String("reference", action.Reference))
	return action, nil
}
