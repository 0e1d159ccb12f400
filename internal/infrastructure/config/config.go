// Package config loads the swissbill settings from config.toml and SWISSBILL_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envProduction = "production"

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	QR        QRConfig        `mapstructure:"qr"`
	ISR       ISRConfig       `mapstructure:"isr"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// Format is json or console; empty picks json in production.
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type HTTPConfig struct {
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
	MaxBodySize    int64         `mapstructure:"max_body_size"`
	// no origin is allowed until configured
	CORSAllowOrigins  []string      `mapstructure:"cors_allow_origins"`
	CORSAllowMethods  []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders  []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies    []string      `mapstructure:"trusted_proxies"`
	RateLimitEnabled  bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	CollectorEndpoint string  `mapstructure:"collector_endpoint"` // OTLP gRPC, host:port
	SamplingRatio     float64 `mapstructure:"sampling_ratio"`
	// ServiceName defaults to the app name.
	ServiceName     string        `mapstructure:"service_name"`
	Insecure        bool          `mapstructure:"insecure"`
	MetricsEnabled  bool          `mapstructure:"metrics_enabled"`
	MetricsInterval time.Duration `mapstructure:"metrics_interval"`
	LogsEnabled     bool          `mapstructure:"logs_enabled"`
}

// QRConfig configures the barcode renderer request of QR-bills
type QRConfig struct {
	BarcodePath string `mapstructure:"barcode_path"`
	Width       int    `mapstructure:"width"`
	Height      int    `mapstructure:"height"`
	Quiet       bool   `mapstructure:"quiet"`
}

type ISRConfig struct {
	// BatchLimit caps the invoices of one batch request; 0 disables the cap.
	BatchLimit int `mapstructure:"batch_limit"`
}

// defaults registers every key, which also lets AutomaticEnv override it.
var defaults = map[string]any{
	"app.name": "swissbill",
	"app.env":  "development",
	"app.port": "8080",

	"log.level":  "info",
	"log.format": "",
	"log.output": "stdout",

	"http.read_timeout":        15 * time.Second,
	"http.write_timeout":       15 * time.Second,
	"http.idle_timeout":        time.Minute,
	"http.max_header_bytes":    1 << 20,
	"http.max_body_size":       int64(1 << 20),
	"http.cors_allow_origins":  []string{},
	"http.cors_allow_methods":  []string{"GET", "POST", "OPTIONS"},
	"http.cors_allow_headers":  []string{"Content-Type", "Authorization", "X-Request-ID"},
	"http.trusted_proxies":     []string{},
	"http.rate_limit_enabled":  false,
	"http.rate_limit_requests": 100,
	"http.rate_limit_window":   time.Minute,

	"telemetry.enabled":            false,
	"telemetry.collector_endpoint": "localhost:4317",
	"telemetry.sampling_ratio":     1.0,
	"telemetry.service_name":       "",
	"telemetry.insecure":           false,
	"telemetry.metrics_enabled":    false,
	"telemetry.metrics_interval":   time.Minute,
	"telemetry.logs_enabled":       false,

	"qr.barcode_path": "/report/barcode/",
	"qr.width":        256,
	"qr.height":       256,
	"qr.quiet":        true,

	"isr.batch_limit": 500,
}

// Load reads config.toml from the working directory or /etc/swissbill.
// SWISSBILL_<SECTION>_<KEY> environment variables override the file, which
// overrides the defaults.
func Load() (*Config, error) {
	return LoadFrom(".", "/etc/swissbill")
}

// LoadFrom is Load with explicit config.toml search paths.
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("SWISSBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	cfg.derive()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// derive fills the settings whose default depends on other settings.
func (c *Config) derive() {
	if c.Log.Format == "" {
		c.Log.Format = "console"
		if c.IsProduction() {
			c.Log.Format = "json"
		}
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.App.Name
	}
}

func (c *Config) validate() error {
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %g", c.Telemetry.SamplingRatio)
	}
	if c.QR.Width < 0 || c.QR.Height < 0 {
		return fmt.Errorf("qr.width and qr.height must be positive, got %dx%d", c.QR.Width, c.QR.Height)
	}
	if c.ISR.BatchLimit < 0 {
		return errors.New("isr.batch_limit cannot be negative")
	}
	if c.HTTP.MaxBodySize < 0 {
		return errors.New("http.max_body_size cannot be negative")
	}
	if c.HTTP.RateLimitRequests < 0 || c.HTTP.RateLimitWindow < 0 {
		return errors.New("http.rate_limit_requests and http.rate_limit_window cannot be negative")
	}
	if c.HTTP.RateLimitEnabled && (c.HTTP.RateLimitRequests == 0 || c.HTTP.RateLimitWindow == 0) {
		return errors.New("http.rate_limit_requests and http.rate_limit_window must be set when rate limiting is enabled")
	}

	if c.IsProduction() {
		if slices.Contains(c.HTTP.CORSAllowOrigins, "*") {
			return errors.New("http.cors_allow_origins cannot be '*' in production (use specific origins)")
		}
		if c.Log.Format != "json" {
			return fmt.Errorf("log.format must be json in production, got %q", c.Log.Format)
		}
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Env == envProduction
}
