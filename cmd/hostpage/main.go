// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kubedemo/hostpage/internal/api"
	"github.com/kubedemo/hostpage/internal/config"
	"github.com/kubedemo/hostpage/internal/daemon"
	hplog "github.com/kubedemo/hostpage/internal/log"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Configure logger with safe defaults until config is loaded
	hplog.Configure(hplog.Config{
		Level:   "info",
		Service: "hostpage",
		Version: version,
	})

	logger := hplog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration with precedence: ENV > File > Defaults
	path := strings.TrimSpace(*configPath)
	loader := config.NewLoader(path, version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", path).
			Msg("failed to load configuration")
	}

	// Re-configure logger with loaded configuration
	hplog.Configure(hplog.Config{
		Level:   cfg.LogLevel,
		Service: "hostpage",
		Version: version,
	})

	if path != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str("path", path).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	serverCfg := config.ParseServerConfig()

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.Listen).
		Msg("starting hostpage")

	if cfg.MetricsListen != "" {
		logger.Info().Msgf("→ Metrics: %s/metrics", cfg.MetricsListen)
	}
	if cfg.TracingService != "" {
		logger.Info().Msgf("→ Tracing: enabled (service: %s)", cfg.TracingService)
	}
	if cfg.RateLimitRPS > 0 {
		logger.Info().Msgf("→ Rate limit: %d req/s per client", cfg.RateLimitRPS)
	}

	// Hot reload support when a config file is in use.
	cfgHolder := config.NewHolder(cfg, loader, path)

	s, err := api.New(cfgHolder)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "server.creation.failed").
			Msg("failed to create page server")
	}

	deps := daemon.Deps{
		Logger:         logger,
		APIHandler:     s.Handler(),
		MetricsHandler: promhttp.Handler(),
		MetricsAddr:    cfg.MetricsListen,
	}

	mgr, err := daemon.NewManager(cfg.Listen, serverCfg, deps)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.creation.failed").
			Msg("failed to create daemon manager")
	}

	app := daemon.NewApp(logger, mgr, cfgHolder)
	if err := app.Run(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.failed").
			Msg("daemon app failed")
	}

	logger.Info().Msg("server exiting")
}
