package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOtelCore_Disabled(t *testing.T) {
	assert.False(t, otelCore(nil, "test", zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
	assert.False(t, otelCore(&LoggerProvider{}, "test", zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
}

func TestBridge_TeesIntoPipeline(t *testing.T) {
	lp := &LoggerProvider{sdk: sdklog.NewLoggerProvider()}
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	base, local := observer.New(zapcore.DebugLevel)
	bridged := Bridge(zap.New(base), lp, "test", zapcore.WarnLevel)
	require.NotNil(t, bridged)

	bridged.Info("local only")
	bridged.Warn("both")
	assert.Equal(t, 2, local.Len(), "the local core keeps its own level")
	assert.True(t, bridged.Core().Enabled(zapcore.WarnLevel))
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, level: zapcore.WarnLevel}

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.WarnLevel))

	for _, lvl := range []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel} {
		entry := zapcore.Entry{Level: lvl, Message: lvl.String()}
		if ce := core.Check(entry, nil); ce != nil {
			ce.Write()
		}
	}
	assert.Equal(t, 2, logs.Len())

	child := core.With([]zapcore.Field{zap.String("k", "v")})
	assert.False(t, child.Enabled(zapcore.InfoLevel))
}
