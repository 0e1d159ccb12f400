package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey struct{}

// WithContext returns a copy of ctx carrying log.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContextOr returns the logger carried by ctx, or fallback. A nil fallback
// gives a no-op logger.
func FromContextOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return log
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}

// WithTraceContext adds trace_id and span_id of the span in ctx.
// Without a valid span log is returned unchanged.
func WithTraceContext(ctx context.Context, log *zap.Logger) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return log
	}
	return log.With(
		zap.Stringer("trace_id", sc.TraceID()),
		zap.Stringer("span_id", sc.SpanID()),
	)
}

// TracedLogger writes entries correlated with the span active in its context at
// the time of the call.
type TracedLogger struct {
	ctx context.Context
	log *zap.Logger
}

// Traced returns a TracedLogger over log; a nil log discards everything.
//
//	logger.Traced(ctx, s.logger).Warn("ISR print blocked", zap.Strings("blockers", problems))
func Traced(ctx context.Context, log *zap.Logger) *TracedLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &TracedLogger{ctx: ctx, log: log}
}

// With adds fields to every later entry.
func (t *TracedLogger) With(fields ...zap.Field) *TracedLogger {
	return &TracedLogger{ctx: t.ctx, log: t.log.With(fields...)}
}

func (t *TracedLogger) Info(msg string, fields ...zap.Field) {
	WithTraceContext(t.ctx, t.log).Info(msg, fields...)
}

func (t *TracedLogger) Warn(msg string, fields ...zap.Field) {
	WithTraceContext(t.ctx, t.log).Warn(msg, fields...)
}

func (t *TracedLogger) Error(msg string, fields ...zap.Field) {
	WithTraceContext(t.ctx, t.log).Error(msg, fields...)
}
