package swissbill

import (
	"context"
	"errors"
	"time"

	"github.com/erp/swissbill/internal/domain/qrbill"
	"github.com/erp/swissbill/internal/domain/shared"
	"github.com/erp/swissbill/internal/infrastructure/logger"
	"github.com/erp/swissbill/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// IBANCheck describes an account number with respect to QR-bills.
type IBANCheck struct {
	Sanitized string `json:"sanitized"`
	AccType   string `json:"acc_type"`
	QRIBAN    bool   `json:"qr_iban"`
}

// QRCodeResult is a built QR-bill payload and the barcode request rendering it.
type QRCodeResult struct {
	Payload       string   `json:"payload"`
	Fields        []string `json:"fields"`
	ReferenceType string   `json:"reference_type"`
	Reference     string   `json:"reference,omitempty"`
	URL           string   `json:"url"`
}

// QRBillService builds QR-bill payloads.
type QRBillService struct {
	logger  *zap.Logger
	metrics MetricsRecorder
	barcode qrbill.BarcodeOptions
}

// QROption configures a QRBillService
type QROption func(*QRBillService)

// WithQRMetrics records outcomes on m.
func WithQRMetrics(m MetricsRecorder) QROption {
	return func(s *QRBillService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithBarcodeOptions overrides the barcode renderer request.
func WithBarcodeOptions(opts qrbill.BarcodeOptions) QROption {
	return func(s *QRBillService) {
		s.barcode = opts
	}
}

// NewQRBillService creates a new QRBillService
func NewQRBillService(log *zap.Logger, opts ...QROption) *QRBillService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &QRBillService{
		logger:  log,
		metrics: nopRecorder{},
		barcode: qrbill.DefaultBarcodeOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsQRIBAN classifies acc. An explicit AccType overrides the one derived from
// the number.
func (s *QRBillService) IsQRIBAN(ctx context.Context, acc qrbill.BankAccount) IBANCheck {
	_, span := telemetry.StartServiceSpan(ctx, "qr", "is_qr_iban")
	defer span.End()

	check := IBANCheck{
		Sanitized: acc.SanitizedAccNumber(),
		AccType:   acc.Type(),
		QRIBAN:    acc.IsQRIBAN(),
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrQRIBAN, check.QRIBAN)
	return check
}

// BuildCodeURL checks req and returns its payload with the barcode URL. When the
// QR-bill cannot be generated the error is a *shared.ValidationErrors.
func (s *QRBillService) BuildCodeURL(ctx context.Context, req qrbill.PayloadRequest) (*QRCodeResult, error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "qr", "build_code_url")
	defer span.End()
	defer s.metrics.ObserveDuration(ctx, "qr.build_code_url", start)

	isQR := req.Creditor.IsQRIBAN()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCurrency, req.Currency.String(),
		telemetry.SpanAttrAmount, req.Amount.StringFixed(2),
		telemetry.SpanAttrQRIBAN, isQR,
	)
	log := logger.FromContextOr(ctx, s.logger)

	if err := qrbill.CheckQRCodeErrors(req); err != nil {
		var blockers *shared.ValidationErrors
		if errors.As(err, &blockers) {
			log.Warn("QR-bill blocked", zap.Strings("blockers", blockers.Problems))
		}
		s.metrics.RecordQRPayload(ctx, "", telemetry.OutcomeBlocked)
		telemetry.RecordError(span, err)
		return nil, err
	}

	payload := qrbill.BuildPayload(req)
	result := &QRCodeResult{
		Payload:       payload.String(),
		Fields:        payload.Fields(),
		ReferenceType: payload.ReferenceType(),
		Reference:     payload.Reference(),
		URL:           qrbill.BarcodeURL(payload, s.barcode),
	}

	s.metrics.RecordQRPayload(ctx, result.ReferenceType, telemetry.OutcomeOK)
	telemetry.SetAttributes(span, telemetry.SpanAttrReferenceType, result.ReferenceType)
	telemetry.SetOK(span)
	log.Debug("QR-bill payload built",
		zap.String("reference_type", result.ReferenceType),
		zap.Bool("qr_iban", isQR),
	)
	return result, nil
}
