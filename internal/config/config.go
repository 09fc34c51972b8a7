// SPDX-License-Identifier: MIT

// Package config resolves application configuration with the precedence
// ENV > config file (YAML) > defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig holds the resolved application configuration.
type AppConfig struct {
	// Listen is the HTTP listen address for the page server.
	Listen string

	// MetricsListen is the Prometheus listen address. Empty disables metrics.
	MetricsListen string

	// LogLevel is the zerolog level name.
	LogLevel string

	// Title is the heading prefix rendered before the host identifier.
	Title string

	// AllowedOrigins enables CORS for the listed origins when non-empty.
	AllowedOrigins []string

	// TracingService enables OpenTelemetry HTTP tracing when non-empty.
	TracingService string

	// RateLimitRPS limits requests per second per client IP. 0 disables.
	RateLimitRPS int

	// Version is the build version, injected by the binary.
	Version string
}

const (
	defaultListen   = ":5000"
	defaultLogLevel = "info"
	defaultTitle    = "Hello from"
)

// fileConfig mirrors AppConfig in its YAML representation.
type fileConfig struct {
	Listen         string   `yaml:"listen"`
	MetricsListen  string   `yaml:"metricsListen"`
	LogLevel       string   `yaml:"logLevel"`
	Title          string   `yaml:"title"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	TracingService string   `yaml:"tracingService"`
	RateLimitRPS   int      `yaml:"rateLimitRPS"`
}

// Loader resolves AppConfig from defaults, an optional YAML file and the
// environment.
type Loader struct {
	path    string
	version string
}

// NewLoader creates a Loader. path may be empty, in which case only defaults
// and environment variables apply.
func NewLoader(path, version string) *Loader {
	return &Loader{path: path, version: version}
}

// Load resolves the configuration with precedence ENV > file > defaults.
func (l *Loader) Load() (AppConfig, error) {
	cfg := AppConfig{
		Listen:   defaultListen,
		LogLevel: defaultLogLevel,
		Title:    defaultTitle,
		Version:  l.version,
	}

	if l.path != "" {
		fc, err := readFile(l.path)
		if err != nil {
			return AppConfig{}, err
		}
		applyFile(&cfg, fc)
	}

	applyEnv(&cfg)

	if strings.TrimSpace(cfg.Listen) == "" {
		return AppConfig{}, fmt.Errorf("listen address must not be empty")
	}
	if cfg.RateLimitRPS < 0 {
		return AppConfig{}, fmt.Errorf("rate limit must be >= 0 (got %d)", cfg.RateLimitRPS)
	}
	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-provided via flag
	if err != nil {
		return fc, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

func applyFile(cfg *AppConfig, fc fileConfig) {
	if strings.TrimSpace(fc.Listen) != "" {
		cfg.Listen = strings.TrimSpace(fc.Listen)
	}
	if strings.TrimSpace(fc.MetricsListen) != "" {
		cfg.MetricsListen = strings.TrimSpace(fc.MetricsListen)
	}
	if strings.TrimSpace(fc.LogLevel) != "" {
		cfg.LogLevel = strings.TrimSpace(fc.LogLevel)
	}
	if strings.TrimSpace(fc.Title) != "" {
		cfg.Title = strings.TrimSpace(fc.Title)
	}
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	if strings.TrimSpace(fc.TracingService) != "" {
		cfg.TracingService = strings.TrimSpace(fc.TracingService)
	}
	if fc.RateLimitRPS > 0 {
		cfg.RateLimitRPS = fc.RateLimitRPS
	}
}

func applyEnv(cfg *AppConfig) {
	cfg.Listen = ParseString("HOSTPAGE_LISTEN", cfg.Listen)
	cfg.MetricsListen = ParseString("HOSTPAGE_METRICS_LISTEN", cfg.MetricsListen)
	cfg.LogLevel = ParseString("HOSTPAGE_LOG_LEVEL", cfg.LogLevel)
	cfg.Title = ParseString("HOSTPAGE_TITLE", cfg.Title)
	cfg.TracingService = ParseString("HOSTPAGE_TRACING_SERVICE", cfg.TracingService)
	cfg.RateLimitRPS = ParseInt("HOSTPAGE_RATE_LIMIT_RPS", cfg.RateLimitRPS)

	if origins := ParseString("HOSTPAGE_ALLOWED_ORIGINS", ""); origins != "" {
		var parsed []string
		for _, o := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				parsed = append(parsed, trimmed)
			}
		}
		cfg.AllowedOrigins = parsed
	}
}
