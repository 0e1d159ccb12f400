package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/swissbill/internal/application/swissbill"
	"github.com/erp/swissbill/internal/domain/qrbill"
	"github.com/erp/swissbill/internal/infrastructure/config"
	"github.com/erp/swissbill/internal/infrastructure/logger"
	"github.com/erp/swissbill/internal/infrastructure/telemetry"
	"github.com/erp/swissbill/internal/interfaces/http/handler"
	"github.com/erp/swissbill/internal/interfaces/http/middleware"
	"github.com/erp/swissbill/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tel, err := newProviders(ctx, cfg, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log := telemetry.Bridge(baseLog, tel.logs, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting swissbill",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	engine, err := newEngine(ctx, cfg, log, tel.metrics)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	tel.shutdown(shutdownCtx, baseLog)

	log.Info("Server exited gracefully")
}

type providers struct {
	traces  *telemetry.TracerProvider
	metrics *telemetry.MeterProvider
	logs    *telemetry.LoggerProvider
}

// newProviders starts the OTLP trace, metric and log pipelines. Each one is a
// no-op when disabled in config.
func newProviders(ctx context.Context, cfg *config.Config, log *zap.Logger) (*providers, error) {
	tc := cfg.Telemetry

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.TraceConfig{
		Enabled:           tc.Enabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		SamplingRatio:     tc.SamplingRatio,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		return nil, err
	}

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           tc.Enabled && tc.MetricsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ExportInterval:    tc.MetricsInterval,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           tc.Enabled && tc.LogsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		_ = mp.Shutdown(ctx)
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return &providers{traces: tp, metrics: mp, logs: lp}, nil
}

// shutdown stops the pipelines; logs go last so earlier shutdown errors are exported.
func (p *providers) shutdown(ctx context.Context, log *zap.Logger) {
	if err := p.metrics.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := p.traces.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := p.logs.Shutdown(ctx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
}

// newEngine wires services, handlers and routes into a gin engine. The rate
// limiter cleanup stops when ctx is done.
func newEngine(ctx context.Context, cfg *config.Config, log *zap.Logger, mp *telemetry.MeterProvider) (*gin.Engine, error) {
	var recorder swissbill.MetricsRecorder
	if mp != nil && mp.IsEnabled() {
		bm, err := telemetry.NewBillingMetrics(mp.Meter("swissbill"), log)
		if err != nil {
			return nil, err
		}
		recorder = bm
	}

	isrService := swissbill.NewISRService(log,
		swissbill.WithISRMetrics(recorder),
		swissbill.WithBatchLimit(cfg.ISR.BatchLimit),
	)
	qrService := swissbill.NewQRBillService(log,
		swissbill.WithQRMetrics(recorder),
		swissbill.WithBarcodeOptions(qrbill.BarcodeOptions{
			Path:   cfg.QR.BarcodePath,
			Width:  cfg.QR.Width,
			Height: cfg.QR.Height,
			Quiet:  cfg.QR.Quiet,
		}),
	)

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.IsProduction()

	engineCfg := router.EngineConfig{
		Production:     cfg.IsProduction(),
		TrustedProxies: cfg.HTTP.TrustedProxies,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		CORS:           cors,
		Security:       security,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		MeterProvider: mp,
	}
	if cfg.HTTP.RateLimitEnabled {
		engineCfg.RateLimiter = middleware.NewRateLimiter(ctx, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine, err := router.NewEngine(engineCfg, log)
	if err != nil {
		return nil, err
	}

	routes := router.NewAPI(engine, router.WithAPIVersion("v1")).
		Register(
			router.SwissRoutes(handler.NewISRHandler(isrService), handler.NewQRBillHandler(qrService)),
			router.SystemRoutes(handler.NewSystemHandler(cfg.App.Name, version)),
		).
		Mount()
	log.Debug("API routes mounted", zap.Strings("routes", routes))

	return engine, nil
}
